package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/garnizeh/badgeclient/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, a *models.Account) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("account is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO users (username, password_hash, email, full_name, updated) VALUES (?, ?, ?, ?, ?)`, a.Username, a.PasswordHash, a.Email, a.FullName, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// UserExists reports whether username, or a non-nil email, is already taken.
func (r *SQLiteRepo) UserExists(ctx context.Context, username string, email *string) (bool, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE username = ? OR (? IS NOT NULL AND email = ?)`, username, email, email)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *SQLiteRepo) GetAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	row := r.conn.QueryRow(ctx, `SELECT user_id, username, password_hash, email, full_name FROM users WHERE username = ?`, username)
	var a models.Account
	var email, fullName sql.NullString
	if err := row.Scan(&a.UserID, &a.Username, &a.PasswordHash, &email, &fullName); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	a.Email = nullable(email)
	a.FullName = nullable(fullName)
	return &a, nil
}

func (r *SQLiteRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT user_id, username, email, full_name, profile_bio FROM users WHERE user_id = ?`, id)
	var u models.User
	var email, fullName, bio sql.NullString
	if err := row.Scan(&u.UserID, &u.Username, &email, &fullName, &bio); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	u.Email = nullable(email)
	u.FullName = nullable(fullName)
	u.ProfileBio = nullable(bio)
	return &u, nil
}

func (r *SQLiteRepo) UpdateUserProfile(ctx context.Context, id int64, fullName, bio *string) (bool, error) {
	sets := []string{"updated = ?"}
	args := []any{now()}
	if fullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *fullName)
	}
	if bio != nil {
		sets = append(sets, "profile_bio = ?")
		args = append(args, *bio)
	}
	args = append(args, id)

	res, err := r.conn.Exec(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE user_id = ?`, args...)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
