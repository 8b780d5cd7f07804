package sqlite

import (
	"context"
	"database/sql"

	"github.com/garnizeh/badgeclient/pkg/models"
)

func (r *SQLiteRepo) ListUserCertifications(ctx context.Context, userID int64) ([]models.Certification, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT c.cert_id, c.cert_name, c.description, c.required_badges, p.status, p.completion_date
		FROM user_cert_progress p JOIN certifications c ON p.cert_id = c.cert_id
		WHERE p.user_id = ? ORDER BY c.cert_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Certification{}
	for rows.Next() {
		var c models.Certification
		var desc, required, completed sql.NullString
		if err := rows.Scan(&c.CertID, &c.CertName, &desc, &required, &c.Status, &completed); err != nil {
			return nil, err
		}

		c.Description = nullable(desc)
		c.RequiredBadges = nullable(required)
		c.CompletionDate = nullable(completed)
		out = append(out, c)
	}

	return out, rows.Err()
}

// SetCertProgress inserts or replaces the user's progress on a certification.
func (r *SQLiteRepo) SetCertProgress(ctx context.Context, userID, certID int64, status string, completionDate *string) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO user_cert_progress (user_id, cert_id, status, completion_date) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, cert_id) DO UPDATE SET status = excluded.status, completion_date = excluded.completion_date`, userID, certID, status, completionDate)
	return err
}
