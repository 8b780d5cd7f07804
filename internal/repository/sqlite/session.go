package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/garnizeh/badgeclient/internal/session"
)

var _ session.Storage = (*SQLiteRepo)(nil)

// Get returns the session record for namespace, or an empty record.
func (r *SQLiteRepo) Get(ctx context.Context, namespace string) (session.Record, error) {
	row := r.conn.QueryRow(ctx, `SELECT user_id, auth_token FROM session_store WHERE namespace = ?`, namespace)

	var rec session.Record
	var token sql.NullString
	if err := row.Scan(&rec.UserID, &token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Record{UserID: session.NoUser}, nil
		}

		return session.Record{}, err
	}

	if token.Valid {
		rec.AuthToken = &token.String
	}

	return rec, nil
}

// Set upserts the session record for namespace.
func (r *SQLiteRepo) Set(ctx context.Context, namespace string, rec session.Record) error {
	var token sql.NullString
	if rec.AuthToken != nil {
		token = sql.NullString{String: *rec.AuthToken, Valid: true}
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO session_store (namespace, user_id, auth_token, updated) VALUES (?, ?, ?, ?) ON CONFLICT(namespace) DO UPDATE SET user_id=excluded.user_id, auth_token=excluded.auth_token, updated=excluded.updated`, namespace, rec.UserID, token, now())
	if err != nil {
		return err
	}
	r.logger.Debug("session row saved", "namespace", namespace)

	return nil
}

// Clear removes the session record for namespace.
func (r *SQLiteRepo) Clear(ctx context.Context, namespace string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM session_store WHERE namespace = ?`, namespace)
	return err
}
