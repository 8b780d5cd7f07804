package controller

import (
	"context"
	"log/slog"
	"strings"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/validation"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/badgeapi"
	"github.com/garnizeh/badgeclient/pkg/models"
)

const (
	msgLoginMissing      = "Please enter username and password"
	msgLoginUnexpected   = "Login failed unexpectedly"
	actionLogin          = "Login failed"
	msgRegisterMissing   = "Username and password are required"
	msgRegistered        = "Registration successful"
	actionRegister       = "Registration failed"
	msgLoggedOut         = "Logged out"
	actionSessionPersist = "Could not save session"
)

// AuthMode selects the login or the registration form.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

// AuthState is the login/registration screen.
type AuthState struct {
	Mode   AuthMode
	Status view.Status
	Notice view.Notice
	Route  view.Route
}

// AuthController signs users in and out and writes the session.
type AuthController struct {
	api    API
	store  *session.Store
	logger *slog.Logger
	lt     lifetime
	state  slot[AuthState]
}

func NewAuthController(api API, store *session.Store, logger *slog.Logger) *AuthController {
	return &AuthController{api: api, store: store, logger: loggerOrDefault(logger), lt: newLifetime()}
}

func (c *AuthController) State() AuthState { return c.state.get() }
func (c *AuthController) Close()           { c.lt.close() }

// Entry routes an already signed-in user straight to the dashboard.
func (c *AuthController) Entry() AuthState {
	if c.store != nil && c.store.IsAuthenticated() {
		c.state.set(func(s *AuthState) {
			s.Route = view.RouteDashboard
		})
	}
	return c.State()
}

// ToggleMode switches between login and registration.
func (c *AuthController) ToggleMode() AuthState {
	c.state.set(func(s *AuthState) {
		if s.Mode == ModeLogin {
			s.Mode = ModeRegister
		} else {
			s.Mode = ModeLogin
		}
		s.Notice = view.Notice{}
	})
	return c.State()
}

// Login checks the credentials with the server and stores the returned
// identity. Blank input is rejected before any request.
func (c *AuthController) Login(ctx context.Context, username, password string) AuthState {
	if c.lt.closed() {
		return c.State()
	}

	req := models.LoginRequest{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if err := validation.Struct(req, msgLoginMissing); err != nil {
		c.fail(err, actionLogin)
		return c.State()
	}

	gen := c.state.begin(func(s *AuthState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
		s.Route = view.RouteNone
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	res, err := c.api.Login(reqCtx, req.Username, req.Password)

	var saveErr error
	applied := c.state.commit(c.lt, reqCtx, gen, func(s *AuthState) {
		switch {
		case err != nil:
			s.Status = view.Failed
			s.Notice = view.Alert(badgeapi.Describe(err, actionLogin))
		case res.UserID == nil:
			msg := res.Message
			if msg == "" {
				msg = msgLoginUnexpected
			}
			s.Status = view.Failed
			s.Notice = view.Alert(msg)
		default:
			if saveErr = c.store.SignIn(reqCtx, *res.UserID, res.Token); saveErr != nil {
				s.Status = view.Failed
				s.Notice = view.Alert(badgeapi.Describe(saveErr, actionSessionPersist))
				return
			}
			s.Status = view.Success
			s.Notice = view.Info(res.Message)
			s.Route = view.RouteDashboard
		}
	})

	switch {
	case !applied:
		c.logger.Debug("auth: stale login response dropped")
	case err != nil:
		c.logger.Warn("auth: login failed", slog.String("username", req.Username), "err", err)
	case saveErr != nil:
		c.logger.Error("auth: session write failed", "err", saveErr)
	case res.UserID != nil:
		c.logger.Info("auth: logged in", slog.Int64("user_id", *res.UserID))
	}
	return c.State()
}

// Register creates an account. Empty optional fields are sent as null. On
// success the form switches back to login.
func (c *AuthController) Register(ctx context.Context, username, password, email, fullName string) AuthState {
	if c.lt.closed() {
		return c.State()
	}

	req := models.RegisterRequest{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
		Email:    optional(email),
		FullName: optional(fullName),
	}
	if err := validation.Struct(req, msgRegisterMissing); err != nil {
		c.fail(err, actionRegister)
		return c.State()
	}

	gen := c.state.begin(func(s *AuthState) {
		s.Status = view.Loading
		s.Notice = view.Notice{}
		s.Route = view.RouteNone
	})

	reqCtx, cancel := c.lt.join(ctx)
	defer cancel()

	res, err := c.api.Register(reqCtx, req)

	applied := c.state.commit(c.lt, reqCtx, gen, func(s *AuthState) {
		if err != nil {
			s.Status = view.Failed
			s.Notice = view.Alert(badgeapi.Describe(err, actionRegister))
			return
		}
		msg := res.Message
		if msg == "" {
			msg = msgRegistered
		}
		s.Status = view.Success
		s.Mode = ModeLogin
		s.Notice = view.Info(msg)
	})

	if !applied {
		c.logger.Debug("auth: stale register response dropped")
	} else if err != nil {
		c.logger.Warn("auth: register failed", slog.String("username", req.Username), "err", err)
	} else {
		c.logger.Info("auth: registered", slog.String("username", req.Username))
	}
	return c.State()
}

// Logout clears the session and routes to login.
func (c *AuthController) Logout(ctx context.Context) AuthState {
	if err := c.store.Clear(ctx); err != nil {
		c.fail(err, "Logout failed")
		c.logger.Error("auth: logout failed", "err", err)
		return c.State()
	}
	c.state.set(func(s *AuthState) {
		*s = AuthState{Mode: ModeLogin, Status: view.Idle, Notice: view.Info(msgLoggedOut), Route: view.RouteLogin}
	})
	return c.State()
}

func (c *AuthController) fail(err error, action string) {
	c.state.set(func(s *AuthState) {
		s.Status = view.Failed
		s.Notice = view.Alert(badgeapi.Describe(err, action))
		s.Route = view.RouteNone
	})
}
