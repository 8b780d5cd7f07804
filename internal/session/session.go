// Package session keeps the locally persisted identity of the signed-in user.
//
// A Store is created once per process with Open and passed explicitly to every
// component that needs the identity. Reads are served from memory and always
// reflect the last successful write; writes go to the injected Storage first.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Namespace is the fixed key the session record is persisted under.
const Namespace = "UserSession"

// NoUser is the persisted sentinel for "not logged in".
const NoUser int64 = -1

// ErrNotAuthenticated is returned by gated operations when no identity is stored.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Record is the persisted session state.
type Record struct {
	UserID    int64
	AuthToken *string
}

// Empty reports whether r carries no identity.
func (r Record) Empty() bool {
	return r.UserID == NoUser
}

// Storage is the durable key-value capability backing a Store.
// Get returns a Record with UserID NoUser when nothing is stored.
type Storage interface {
	Get(ctx context.Context, namespace string) (Record, error)
	Set(ctx context.Context, namespace string, r Record) error
	Clear(ctx context.Context, namespace string) error
}

// Store exposes the current authenticated identity.
type Store struct {
	storage Storage
	logger  *slog.Logger

	mu  sync.RWMutex
	rec Record
}

// Open loads the persisted record and returns a ready Store.
func Open(ctx context.Context, storage Storage, logger *slog.Logger) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("session: storage is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	rec, err := storage.Get(ctx, Namespace)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if rec.UserID < 0 {
		rec.UserID = NoUser
	}

	logger.Debug("session: opened", slog.Bool("authenticated", !rec.Empty()))
	return &Store{storage: storage, logger: logger, rec: rec}, nil
}

// Identity returns the current user id, if any.
func (s *Store) Identity() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec.Empty() {
		return NoUser, false
	}
	return s.rec.UserID, true
}

// IsAuthenticated reports whether an identity is present.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Identity()
	return ok
}

// AuthToken returns the stored bearer token, if any.
func (s *Store) AuthToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.rec.AuthToken == nil || *s.rec.AuthToken == "" {
		return "", false
	}
	return *s.rec.AuthToken, true
}

// SetIdentity persists id as the current user. The token is kept.
func (s *Store) SetIdentity(ctx context.Context, id int64) error {
	if id < 0 {
		return fmt.Errorf("session: invalid user id %d", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.rec
	next.UserID = id
	if err := s.storage.Set(ctx, Namespace, next); err != nil {
		return fmt.Errorf("session: save identity: %w", err)
	}
	s.rec = next

	s.logger.Info("session: identity stored", slog.Int64("user_id", id))
	return nil
}

// SignIn replaces the whole session with id and token in a single write. A nil
// or empty token leaves the session without one.
func (s *Store) SignIn(ctx context.Context, id int64, token *string) error {
	if id < 0 {
		return fmt.Errorf("session: invalid user id %d", id)
	}

	next := Record{UserID: id}
	if token != nil && *token != "" {
		t := *token
		next.AuthToken = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(ctx, Namespace, next); err != nil {
		return fmt.Errorf("session: sign in: %w", err)
	}
	s.rec = next

	s.logger.Info("session: signed in", slog.Int64("user_id", id), slog.Bool("token", next.AuthToken != nil))
	return nil
}

// SetAuthToken persists token alongside the current identity.
func (s *Store) SetAuthToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.rec
	next.AuthToken = &token
	if err := s.storage.Set(ctx, Namespace, next); err != nil {
		return fmt.Errorf("session: save token: %w", err)
	}
	s.rec = next
	return nil
}

// Clear removes the identity and the token.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Clear(ctx, Namespace); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	s.rec = Record{UserID: NoUser}

	s.logger.Info("session: cleared")
	return nil
}

// Require returns the current identity or ErrNotAuthenticated.
func (s *Store) Require() (int64, error) {
	id, ok := s.Identity()
	if !ok {
		return NoUser, ErrNotAuthenticated
	}
	return id, nil
}
