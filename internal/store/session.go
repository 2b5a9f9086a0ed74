package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ivanjaven/extension/types"
)

// SessionRepository handles persistence for login sessions.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Replace deletes every session for the account and inserts the new one in a
// single transaction, so two concurrent logins cannot both leave a row behind.
func (r *SessionRepository) Replace(ctx context.Context, session types.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `DELETE FROM sessions WHERE auth_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, session.AuthID); err != nil {
		return err
	}

	const insertQuery = `
		INSERT INTO sessions (session_id, auth_id, token, device_info, last_active)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(
		ctx,
		insertQuery,
		session.ID,
		session.AuthID,
		session.Token,
		session.DeviceInfo,
		session.LastActive,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Find returns the session only if it matches both keys and its last-active
// timestamp is within the freshness window ending at cutoff.
func (r *SessionRepository) Find(ctx context.Context, sessionID string, authID int, cutoff time.Time) (types.Session, error) {
	const query = `
		SELECT session_id, auth_id, token, device_info, last_active
		FROM sessions
		WHERE session_id = $1 AND auth_id = $2 AND last_active > $3`
	return r.scanOne(r.db.QueryRowContext(ctx, query, sessionID, authID, cutoff))
}

// FindActive returns the freshest session for the account still inside the
// window, if any.
func (r *SessionRepository) FindActive(ctx context.Context, authID int, cutoff time.Time) (types.Session, error) {
	const query = `
		SELECT session_id, auth_id, token, device_info, last_active
		FROM sessions
		WHERE auth_id = $1 AND last_active > $2
		ORDER BY last_active DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, authID, cutoff))
}

// Touch refreshes the sliding last-active timestamp.
func (r *SessionRepository) Touch(ctx context.Context, sessionID string, now time.Time) error {
	const query = `UPDATE sessions SET last_active = $1 WHERE session_id = $2`
	_, err := r.db.ExecContext(ctx, query, now, sessionID)
	return err
}

// Delete removes a session by id. Deleting an absent session is not an error.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM sessions WHERE session_id = $1`
	_, err := r.db.ExecContext(ctx, query, sessionID)
	return err
}

// DeleteByAccount removes every session belonging to the account.
func (r *SessionRepository) DeleteByAccount(ctx context.Context, authID int) error {
	const query = `DELETE FROM sessions WHERE auth_id = $1`
	_, err := r.db.ExecContext(ctx, query, authID)
	return err
}

// DeleteExpired removes sessions last active before cutoff and reports how
// many rows went away.
func (r *SessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE last_active < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SessionRepository) scanOne(row *sql.Row) (types.Session, error) {
	var session types.Session
	err := row.Scan(
		&session.ID,
		&session.AuthID,
		&session.Token,
		&session.DeviceInfo,
		&session.LastActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Session{}, ErrNotFound
		}
		return types.Session{}, err
	}
	return session, nil
}
