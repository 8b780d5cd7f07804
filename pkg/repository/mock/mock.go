package mock

import (
	"context"
	"sync"

	"github.com/garnizeh/badgeclient/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	UserRepo  *mockUserRepo
	BadgeRepo *mockBadgeRepo
	CertRepo  *mockCertRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:  &mockUserRepo{byID: make(map[int64]*models.Account), bios: make(map[int64]*string)},
		BadgeRepo: &mockBadgeRepo{earned: make(map[int64][]models.UserBadge)},
		CertRepo:  &mockCertRepo{progress: make(map[int64][]models.Certification)},
	}
}

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Account
	bios   map[int64]*string

	// Err, when set, is returned by every call
	Err error
}

func (m *mockUserRepo) CreateUser(ctx context.Context, a *models.Account) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	stored := *a
	stored.UserID = m.nextID
	m.byID[stored.UserID] = &stored
	return stored.UserID, nil
}

func (m *mockUserRepo) UserExists(ctx context.Context, username string, email *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	for _, a := range m.byID {
		if a.Username == username || (email != nil && a.Email != nil && *a.Email == *email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.byID {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &models.User{UserID: a.UserID, Username: a.Username, Email: a.Email, FullName: a.FullName, ProfileBio: m.bios[id]}, nil
}

func (m *mockUserRepo) UpdateUserProfile(ctx context.Context, id int64, fullName, bio *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	a, ok := m.byID[id]
	if !ok {
		return false, nil
	}
	if fullName != nil {
		a.FullName = fullName
	}
	if bio != nil {
		m.bios[id] = bio
	}
	return true, nil
}

type mockBadgeRepo struct {
	mu     sync.Mutex
	earned map[int64][]models.UserBadge

	Catalog []models.Badge
	Err     error
}

func (m *mockBadgeRepo) ListBadges(ctx context.Context) ([]models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Badge, 0, len(m.Catalog))
	for _, b := range m.Catalog {
		b.Criteria = nil
		out = append(out, b)
	}
	return out, nil
}

func (m *mockBadgeRepo) GetBadge(ctx context.Context, id int64) (*models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, b := range m.Catalog {
		if b.BadgeID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockBadgeRepo) ListUserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.UserBadge{}, m.earned[userID]...), nil
}

func (m *mockBadgeRepo) AwardBadge(ctx context.Context, userID, badgeID int64, earnedDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, b := range m.Catalog {
		if b.BadgeID == badgeID {
			date := earnedDate
			m.earned[userID] = append(m.earned[userID], models.UserBadge{BadgeID: b.BadgeID, BadgeName: b.BadgeName, Description: b.Description, IconURL: b.IconURL, EarnedDate: &date})
			return nil
		}
	}
	return nil
}

type mockCertRepo struct {
	mu       sync.Mutex
	progress map[int64][]models.Certification

	Err error
}

func (m *mockCertRepo) ListUserCertifications(ctx context.Context, userID int64) ([]models.Certification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Certification{}, m.progress[userID]...), nil
}

func (m *mockCertRepo) SetCertProgress(ctx context.Context, userID, certID int64, status string, completionDate *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	certs := m.progress[userID]
	for i := range certs {
		if certs[i].CertID == certID {
			certs[i].Status = status
			certs[i].CompletionDate = completionDate
			return nil
		}
	}
	m.progress[userID] = append(certs, models.Certification{CertID: certID, CertName: "Certification", Status: status, CompletionDate: completionDate})
	return nil
}
