package controller_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/garnizeh/badgeclient/internal/session"
	"github.com/garnizeh/badgeclient/pkg/models"
)

func TestMain(m *testing.M) {
	defer goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

// fakeAPI returns canned results and records what it was sent. When gate is
// set, GetProfile signals started and waits for gate before answering.
type fakeAPI struct {
	mu sync.Mutex

	profile    *models.ProfileSnapshot
	profileErr error
	badges     []models.Badge
	badgesErr  error
	badge      *models.Badge
	badgeErr   error
	login      models.LoginResult
	loginErr   error
	register   models.BasicResult
	regErr     error
	update     models.BasicResult
	updateErr  error

	started   chan struct{}
	gate      chan struct{}
	// profileFn, when set, answers GetProfile by call number (1-based)
	profileFn func(call int) (*models.ProfileSnapshot, error)

	calls     map[string]int
	logins    []models.LoginRequest
	registers []models.RegisterRequest
	updates   []models.UpdateProfileRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) record(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.calls[op]
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (models.LoginResult, error) {
	f.record("login")
	f.mu.Lock()
	f.logins = append(f.logins, models.LoginRequest{Username: username, Password: password})
	f.mu.Unlock()
	return f.login, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (models.BasicResult, error) {
	f.record("register")
	f.mu.Lock()
	f.registers = append(f.registers, req)
	f.mu.Unlock()
	return f.register, f.regErr
}

func (f *fakeAPI) GetProfile(_ context.Context, userID int64) (*models.ProfileSnapshot, error) {
	n := f.record("profile")
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.profileFn != nil {
		return f.profileFn(n)
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profile, f.profileErr
}

func (f *fakeAPI) ListBadges(context.Context) ([]models.Badge, error) {
	f.record("badges")
	return f.badges, f.badgesErr
}

func (f *fakeAPI) GetBadge(_ context.Context, badgeID int64) (*models.Badge, error) {
	f.record("badge")
	return f.badge, f.badgeErr
}

func (f *fakeAPI) UpdateProfile(_ context.Context, userID int64, req models.UpdateProfileRequest) (models.BasicResult, error) {
	f.record("update")
	f.mu.Lock()
	f.updates = append(f.updates, req)
	f.mu.Unlock()
	return f.update, f.updateErr
}

// setProfile swaps the canned profile while a call may be waiting on gate.
func (f *fakeAPI) setProfile(p *models.ProfileSnapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile, f.profileErr = p, err
}

func newStore(t *testing.T, userID int64) *session.Store {
	t.Helper()
	ctx := context.Background()
	store, err := session.Open(ctx, session.NewMemoryStorage(), nil)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	if userID >= 0 {
		if err := store.SetIdentity(ctx, userID); err != nil {
			t.Fatalf("SetIdentity: %v", err)
		}
	}
	return store
}

func sampleProfile() *models.ProfileSnapshot {
	return &models.ProfileSnapshot{
		User: models.User{UserID: 7, Username: "ada", FullName: models.StringPtr("Ada Lovelace")},
		Badges: []models.UserBadge{
			{BadgeID: 1, BadgeName: "Gopher", Description: models.StringPtr("Wrote Go"), EarnedDate: models.StringPtr("2024-03-01T10:00:00")},
			{BadgeID: 2, BadgeName: "Reviewer", EarnedDate: models.StringPtr("")},
		},
		Certifications: []models.Certification{
			{CertID: 1, CertName: "Backend", Status: models.CertStatusCompleted, CompletionDate: models.StringPtr("2024-04-01T09:00:00")},
		},
	}
}
