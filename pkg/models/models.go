package models

// Wire shapes of the badge service REST API.

// Certification status values as sent by the server. They are compared as
// opaque strings.
const (
	CertStatusInProgress = "In Progress"
	CertStatusCompleted  = "Completed"
)

type User struct {
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	Email      *string `json:"email"`
	FullName   *string `json:"full_name"`
	ProfileBio *string `json:"profile_bio"`
}

// Badge is a catalog entry. Criteria is only present in the detail projection.
type Badge struct {
	BadgeID     int64   `json:"badge_id"`
	BadgeName   string  `json:"badge_name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
	Criteria    *string `json:"criteria,omitempty"`
}

// UserBadge is a badge earned by a user. The wire shape carries no id of its
// own, so two earnings of the same badge are indistinguishable.
type UserBadge struct {
	BadgeID     int64   `json:"badge_id"`
	BadgeName   string  `json:"badge_name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
	EarnedDate  *string `json:"earned_date"`
}

type Certification struct {
	CertID         int64   `json:"cert_id"`
	CertName       string  `json:"cert_name"`
	Description    *string `json:"description"`
	RequiredBadges *string `json:"required_badges"`
	Status         string  `json:"status"`
	CompletionDate *string `json:"completion_date"`
}

// ProfileSnapshot is the GET /profile/{user_id} payload.
type ProfileSnapshot struct {
	User           User            `json:"user"`
	Badges         []UserBadge     `json:"badges"`
	Certifications []Certification `json:"certifications"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries UserID only when the credentials were accepted. Token
// is an optional bearer token; servers that do not issue one omit it.
type LoginResult struct {
	Message string  `json:"message"`
	UserID  *int64  `json:"user_id,omitempty"`
	Token   *string `json:"token,omitempty"`
}

// RegisterRequest sends absent optional fields as explicit nulls.
type RegisterRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// UpdateProfileRequest uses nil for "no change". Nil fields are sent as null.
type UpdateProfileRequest struct {
	FullName   *string `json:"full_name"`
	ProfileBio *string `json:"profile_bio"`
}

type BasicResult struct {
	Message string `json:"message"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Account is the server-side user record. It never leaves the backend.
type Account struct {
	UserID       int64
	Username     string
	PasswordHash string
	Email        *string
	FullName     *string
}
