package sqlite

import (
	"context"
	"database/sql"

	"github.com/garnizeh/badgeclient/pkg/models"
)

// ListBadges returns the catalog projection in id order. Criteria is left
// out.
func (r *SQLiteRepo) ListBadges(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT badge_id, badge_name, description, icon_url FROM badges ORDER BY badge_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		var desc, icon sql.NullString
		if err := rows.Scan(&b.BadgeID, &b.BadgeName, &desc, &icon); err != nil {
			return nil, err
		}

		b.Description = nullable(desc)
		b.IconURL = nullable(icon)
		out = append(out, b)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetBadge(ctx context.Context, id int64) (*models.Badge, error) {
	row := r.conn.QueryRow(ctx, `SELECT badge_id, badge_name, description, icon_url, criteria FROM badges WHERE badge_id = ?`, id)
	var b models.Badge
	var desc, icon, criteria sql.NullString
	if err := row.Scan(&b.BadgeID, &b.BadgeName, &desc, &icon, &criteria); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	b.Description = nullable(desc)
	b.IconURL = nullable(icon)
	b.Criteria = nullable(criteria)
	return &b, nil
}

func (r *SQLiteRepo) ListUserBadges(ctx context.Context, userID int64) ([]models.UserBadge, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT b.badge_id, b.badge_name, b.description, b.icon_url, ub.earned_date
		FROM user_badges ub JOIN badges b ON ub.badge_id = b.badge_id
		WHERE ub.user_id = ? ORDER BY ub.user_badge_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserBadge{}
	for rows.Next() {
		var b models.UserBadge
		var desc, icon, earned sql.NullString
		if err := rows.Scan(&b.BadgeID, &b.BadgeName, &desc, &icon, &earned); err != nil {
			return nil, err
		}

		b.Description = nullable(desc)
		b.IconURL = nullable(icon)
		b.EarnedDate = nullable(earned)
		out = append(out, b)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) AwardBadge(ctx context.Context, userID, badgeID int64, earnedDate string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO user_badges (user_id, badge_id, earned_date) VALUES (?, ?, ?)`, userID, badgeID, earnedDate)
	return err
}
