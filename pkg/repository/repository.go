package repository

import (
	"context"

	"github.com/garnizeh/badgeclient/pkg/models"
)

// Repository interfaces for the reference badge backend. Concrete
// implementations live under internal/.
//
// Getters return nil, nil when the record does not exist.

type UserRepo interface {
	CreateUser(ctx context.Context, a *models.Account) (int64, error)
	UserExists(ctx context.Context, username string, email *string) (bool, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	// UpdateUserProfile sets the non-nil fields and reports whether the user exists.
	UpdateUserProfile(ctx context.Context, id int64, fullName, bio *string) (bool, error)
}

type BadgeRepo interface {
	ListBadges(ctx context.Context) ([]models.Badge, error)
	GetBadge(ctx context.Context, id int64) (*models.Badge, error)
	ListUserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error)
	AwardBadge(ctx context.Context, userID, badgeID int64, earnedDate string) error
}

type CertificationRepo interface {
	ListUserCertifications(ctx context.Context, userID int64) ([]models.Certification, error)
	SetCertProgress(ctx context.Context, userID, certID int64, status string, completionDate *string) error
}
