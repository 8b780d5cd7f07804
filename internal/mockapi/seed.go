package mockapi

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/badgeclient/pkg/models"
)

// SeedDemoUser creates a user that has earned the first catalog badges and
// holds progress on the first certifications. It returns the new user id.
func SeedDemoUser(ctx context.Context, repos Repos, username, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := repos.Users.CreateUser(ctx, &models.Account{Username: username, PasswordHash: string(hash)})
	if err != nil {
		return 0, fmt.Errorf("create demo user: %w", err)
	}

	catalog, err := repos.Badges.ListBadges(ctx)
	if err != nil {
		return 0, fmt.Errorf("list catalog: %w", err)
	}
	earned := time.Now().UTC().Format("2006-01-02T15:04:05")
	for i, b := range catalog {
		if i == 2 {
			break
		}
		if err := repos.Badges.AwardBadge(ctx, id, b.BadgeID, earned); err != nil {
			return 0, fmt.Errorf("award badge %d: %w", b.BadgeID, err)
		}
	}

	completed := time.Now().UTC().Format("2006-01-02")
	if err := repos.Certs.SetCertProgress(ctx, id, 1, models.CertStatusCompleted, &completed); err != nil {
		return 0, fmt.Errorf("set certification progress: %w", err)
	}
	if err := repos.Certs.SetCertProgress(ctx, id, 2, models.CertStatusInProgress, nil); err != nil {
		return 0, fmt.Errorf("set certification progress: %w", err)
	}

	logger.Info("demo user seeded", "user_id", id, "username", username)
	return id, nil
}
