// Package view holds the presentation state derived by the controllers and
// the display rules applied to fetched records.
package view

import (
	"strings"

	"github.com/garnizeh/badgeclient/pkg/models"
)

// Status is the phase of one fetch.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Empty
	Failed
	Unauthenticated
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// ListState says whether a list or its "no data" indicator is visible. Never
// both.
type ListState int

const (
	EmptyList ListState = iota
	Populated
)

func (l ListState) String() string {
	if l == Populated {
		return "populated"
	}
	return "empty"
}

// ListStateOf returns Populated iff n > 0.
func ListStateOf(n int) ListState {
	if n > 0 {
		return Populated
	}
	return EmptyList
}

// ShowList reports whether the list itself is rendered.
func (l ListState) ShowList() bool { return l == Populated }

// ShowEmptyIndicator reports whether the "no data" indicator is rendered.
func (l ListState) ShowEmptyIndicator() bool { return l == EmptyList }

// Notice is a transient user-visible message. Zero value means none.
type Notice struct {
	Message string
	Error   bool
}

func Info(msg string) Notice  { return Notice{Message: msg} }
func Alert(msg string) Notice { return Notice{Message: msg, Error: true} }

// Empty reports whether there is nothing to show.
func (n Notice) Empty() bool { return n.Message == "" }

// Route is a navigation request emitted by a controller.
type Route int

const (
	RouteNone Route = iota
	RouteLogin
	RouteDashboard
)

const (
	earnedPrefix    = "Earned on: "
	completedPrefix = "Completed on: "
	bioNotSet       = "Not set"
)

// DateOnly strips the time suffix of an ISO-like timestamp.
func DateOnly(s string) string {
	date, _, _ := strings.Cut(s, "T")
	return date
}

// EarnedDate returns the earned-date line and whether it is shown. A date
// with no day part hides the indicator.
func EarnedDate(date *string) (string, bool) {
	if date == nil {
		return "", false
	}
	day := DateOnly(*date)
	if day == "" {
		return "", false
	}
	return earnedPrefix + day, true
}

// ProfileHeader is the user block at the top of the profile screen.
type ProfileHeader struct {
	DisplayName string
	Handle      string
	Bio         string
}

// HeaderOf applies the display rules to a user record.
func HeaderOf(u models.User) ProfileHeader {
	name := u.Username
	if u.FullName != nil {
		name = *u.FullName
	}
	bio := bioNotSet
	if u.ProfileBio != nil {
		bio = *u.ProfileBio
	}
	return ProfileHeader{
		DisplayName: name,
		Handle:      "@" + u.Username,
		Bio:         "Bio: " + bio,
	}
}

// ShareRequest carries what the share surface needs for one achievement.
type ShareRequest struct {
	Name    string
	Details string
	URL     *string
}

const defaultShareDetails = "Digital Badge earned."

// BadgeRow is one earned badge as rendered on the profile screen.
type BadgeRow struct {
	BadgeID     int64
	Name        string
	Description string
	IconURL     *string
	Earned      string
	ShowEarned  bool
	Share       ShareRequest
}

// BadgeRowOf builds a row for an earned badge.
func BadgeRowOf(b models.UserBadge) BadgeRow {
	earned, show := EarnedDate(b.EarnedDate)
	details := defaultShareDetails
	if b.Description != nil {
		details = *b.Description
	}
	return BadgeRow{
		BadgeID:     b.BadgeID,
		Name:        b.BadgeName,
		Description: models.Deref(b.Description),
		IconURL:     b.IconURL,
		Earned:      earned,
		ShowEarned:  show,
		Share:       ShareRequest{Name: b.BadgeName, Details: details},
	}
}

// CertRow is one certification as rendered in progress lists.
type CertRow struct {
	CertID         int64
	Name           string
	Description    string
	Status         string
	Completed      string
	ShowCompletion bool
}

// CertRowOf builds a row for a certification. The completion date is shown
// only for a completed certification that carries one.
func CertRowOf(c models.Certification) CertRow {
	row := CertRow{
		CertID:      c.CertID,
		Name:        c.CertName,
		Description: models.Deref(c.Description),
		Status:      "Status: " + c.Status,
	}
	if c.Status == models.CertStatusCompleted && c.CompletionDate != nil {
		row.Completed = completedPrefix + DateOnly(*c.CompletionDate)
		row.ShowCompletion = true
	}
	return row
}

// CatalogRow is one badge of the catalog list.
type CatalogRow struct {
	BadgeID     int64
	Name        string
	Description string
	IconURL     *string
}

func CatalogRowOf(b models.Badge) CatalogRow {
	return CatalogRow{
		BadgeID:     b.BadgeID,
		Name:        b.BadgeName,
		Description: models.Deref(b.Description),
		IconURL:     b.IconURL,
	}
}

// BadgeDetail is the single-badge screen.
type BadgeDetail struct {
	BadgeID     int64
	Name        string
	Description string
	Criteria    string
	IconURL     *string
}

func BadgeDetailOf(b models.Badge) BadgeDetail {
	return BadgeDetail{
		BadgeID:     b.BadgeID,
		Name:        b.BadgeName,
		Description: models.Deref(b.Description),
		Criteria:    models.Deref(b.Criteria),
		IconURL:     b.IconURL,
	}
}

// BadgeRows maps earned badges in order. The result is never nil.
func BadgeRows(badges []models.UserBadge) []BadgeRow {
	rows := make([]BadgeRow, 0, len(badges))
	for _, b := range badges {
		rows = append(rows, BadgeRowOf(b))
	}
	return rows
}

// CertRows maps certifications in order. The result is never nil.
func CertRows(certs []models.Certification) []CertRow {
	rows := make([]CertRow, 0, len(certs))
	for _, c := range certs {
		rows = append(rows, CertRowOf(c))
	}
	return rows
}

// CatalogRows maps catalog badges in order. The result is never nil.
func CatalogRows(badges []models.Badge) []CatalogRow {
	rows := make([]CatalogRow, 0, len(badges))
	for _, b := range badges {
		rows = append(rows, CatalogRowOf(b))
	}
	return rows
}
