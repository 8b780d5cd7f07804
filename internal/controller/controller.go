// Package controller turns API results into presentation state for each
// screen of the badge client.
//
// Every controller owns a lifetime. Close cancels it, and any response that
// arrives afterwards is dropped. Each fetch also takes a generation number, so
// a response superseded by a newer fetch of the same slot is dropped too.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/internal/view"
	"github.com/garnizeh/badgeclient/pkg/models"
)

// API is the subset of the badge service used by the controllers.
// *badgeapi.Client satisfies it.
type API interface {
	Login(ctx context.Context, username, password string) (models.LoginResult, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.BasicResult, error)
	GetProfile(ctx context.Context, userID int64) (*models.ProfileSnapshot, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	GetBadge(ctx context.Context, badgeID int64) (*models.Badge, error)
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.BasicResult, error)
}

const msgPleaseLogIn = "Please log in."

// lifetime is cancelled once, by Close.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel}
}

// join derives a request context that ends with either ctx or the lifetime.
func (l lifetime) join(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

func (l lifetime) closed() bool {
	return l.ctx.Err() != nil
}

func (l lifetime) close() {
	l.cancel()
}

// slot holds one piece of presentation state and the generation of the
// latest fetch that targets it.
type slot[S any] struct {
	mu    sync.Mutex
	gen   uint64
	state S
}

// begin applies mutate and returns the generation of the new fetch.
func (s *slot[S]) begin(mutate func(*S)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	mutate(&s.state)
	return s.gen
}

// commit applies mutate only if lt is open, ctx was not cancelled and gen is
// still the latest fetch. A ctx past its deadline still commits, so the
// timeout is reconciled like any other failure. It reports whether the state
// changed.
func (s *slot[S]) commit(lt lifetime, ctx context.Context, gen uint64, mutate func(*S)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lt.closed() || errors.Is(ctx.Err(), context.Canceled) || gen != s.gen {
		return false
	}
	mutate(&s.state)
	return true
}

// set applies mutate unconditionally and invalidates any fetch in flight.
func (s *slot[S]) set(mutate func(*S)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	mutate(&s.state)
}

func (s *slot[S]) get() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// gate returns the signed-in user or false when the screen must redirect to
// login.
func gate(store *session.Store) (int64, bool) {
	if store == nil {
		return session.NoUser, false
	}
	id, err := store.Require()
	return id, err == nil
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// unauthenticated is the common fallback of gated screens.
func unauthenticated() (view.Status, view.Notice, view.Route) {
	return view.Unauthenticated, view.Alert(msgPleaseLogIn), view.RouteLogin
}
