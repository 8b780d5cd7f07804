package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
)

const (
	msgSessionExpired  = "Session expired. Please log in."
	msgNoUsername      = "Could not load username."
	msgNetworkUsername = "Network error loading username."
)

// DashboardState is the landing screen after login.
type DashboardState struct {
	Status  view.Status
	Welcome string
	Notice  view.Notice
	Route   view.Route
}

// DashboardController greets the signed-in user by name.
type DashboardController struct {
	api    API
	store  *session.Store
	logger *slog.Logger
	lt     lifetime
	state  slot[DashboardState]
}

func NewDashboardController(api API, store *session.Store, logger *slog.Logger) *DashboardController {
	return &DashboardController{api: api, store: store, logger: loggerOrDefault(logger), lt: newLifetime()}
}

func (c *DashboardController) State() DashboardState { return c.state.get() }
func (c *DashboardController) Close()                { c.lt.close() }

// Load fetches the username for the welcome line. On failure the line falls
// back to the numeric id.
func (c *DashboardController) Load(ctx context.Context) DashboardState {
	if c.lt.closed() {
		return c.State()
	}

	userID, ok := gate(c.store)
	if !ok {
		c.state.set(func(s *DashboardState) {
			*s = DashboardState{Status: view.Unauthenticated, Notice: view.Alert(msgSessionExpired), Route: view.RouteLogin}
		})
		return c.State()
	}

	gen := c.state.begin(func(s *DashboardState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
		s.Route = view.RouteNone
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	snap, err := c.api.GetProfile(reqCtx, userID)

	applied := c.state.commit(c.lt, reqCtx, gen, func(s *DashboardState) {
		if err != nil {
			s.Status = view.Failed
			s.Welcome = fmt.Sprintf("Welcome, User %d!", userID)
			s.Notice = view.Alert(msgNoUsername)
			var ue *badgeapi.UnreachableError
			if errors.As(err, &ue) {
				s.Notice = view.Alert(msgNetworkUsername)
			}
			return
		}
		s.Status = view.Success
		s.Welcome = fmt.Sprintf("Welcome, %s!", snap.User.Username)
	})

	if !applied {
		c.logger.Debug("dashboard: stale response dropped", slog.Int64("user_id", userID))
	} else if err != nil {
		c.logger.Warn("dashboard: username lookup failed", slog.Int64("user_id", userID), "err", err)
	}
	return c.State()
}
