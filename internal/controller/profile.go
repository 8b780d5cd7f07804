package controller

import (
	"context"
	"log/slog"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
)

const (
	msgProfileMalformed = "Failed to load profile data"
	actionProfileFetch  = "Error fetching profile"
)

// ProfileState is what the profile screen renders.
type ProfileState struct {
	Status view.Status

	Header    view.ProfileHeader
	HasHeader bool

	Badges    []view.BadgeRow
	BadgeList view.ListState
	Certs     []view.CertRow
	CertList  view.ListState

	Notice view.Notice
	Route  view.Route
}

// ProfileController loads the signed-in user's profile, earned badges and
// certification progress.
type ProfileController struct {
	api    API
	store  *session.Store
	logger *slog.Logger
	lt     lifetime
	state  slot[ProfileState]
}

func NewProfileController(api API, store *session.Store, logger *slog.Logger) *ProfileController {
	return &ProfileController{api: api, store: store, logger: loggerOrDefault(logger), lt: newLifetime()}
}

// State returns the current presentation state.
func (c *ProfileController) State() ProfileState {
	return c.state.get()
}

// Close drops any response still in flight. It is safe to call twice.
func (c *ProfileController) Close() {
	c.lt.close()
}

// Load fetches the profile and reconciles it into state. It can be called
// again to refresh.
func (c *ProfileController) Load(ctx context.Context) ProfileState {
	if c.lt.closed() {
		return c.State()
	}

	userID, ok := gate(c.store)
	if !ok {
		c.state.set(func(s *ProfileState) {
			*s = ProfileState{}
			s.Status, s.Notice, s.Route = unauthenticated()
		})
		c.logger.Info("profile: no identity, redirecting to login")
		return c.State()
	}

	gen := c.state.begin(func(s *ProfileState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
		s.Route = view.RouteNone
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	snap, err := c.api.GetProfile(reqCtx, userID)

	applied := c.state.commit(c.lt, reqCtx, gen, func(s *ProfileState) {
		if err != nil {
			msg := badgeapi.Describe(err, actionProfileFetch)
			if badgeapi.IsMalformed(err) {
				msg = msgProfileMalformed
			}
			*s = ProfileState{Status: view.Failed, Notice: view.Alert(msg)}
			return
		}

		s.Header = view.HeaderOf(snap.User)
		s.HasHeader = true
		s.Badges = view.BadgeRows(snap.Badges)
		s.BadgeList = view.ListStateOf(len(snap.Badges))
		s.Certs = view.CertRows(snap.Certifications)
		s.CertList = view.ListStateOf(len(snap.Certifications))
		s.Status = view.Success
		if s.BadgeList == view.EmptyList && s.CertList == view.EmptyList {
			s.Status = view.Empty
		}
	})

	if !applied {
		c.logger.Debug("profile: stale response dropped", slog.Int64("user_id", userID))
	} else if err != nil {
		c.logger.Warn("profile: load failed", slog.Int64("user_id", userID), "err", err)
	}
	return c.State()
}
