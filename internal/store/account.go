package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ivanjaven/extension/types"
)

// AccountRepository handles persistence for login accounts.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, authID int) (types.Account, error) {
	const query = `
		SELECT auth_id, username, role, resident_id, password, created_at, updated_at
		FROM auth
		WHERE auth_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, authID))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	const query = `
		SELECT auth_id, username, role, resident_id, password, created_at, updated_at
		FROM auth
		WHERE username = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *AccountRepository) GetByResidentID(ctx context.Context, residentID int) (types.Account, error) {
	const query = `
		SELECT auth_id, username, role, resident_id, password, created_at, updated_at
		FROM auth
		WHERE resident_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, residentID))
}

// GetVerified returns the account only when id, username, and role all match.
// Used by the fingerprint path to re-validate the bridge's identity triple.
func (r *AccountRepository) GetVerified(ctx context.Context, authID int, username, role string) (types.Account, error) {
	const query = `
		SELECT auth_id, username, role, resident_id, password, created_at, updated_at
		FROM auth
		WHERE auth_id = $1 AND username = $2 AND role = $3`
	return r.scanOne(r.db.QueryRowContext(ctx, query, authID, username, role))
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `
		INSERT INTO auth (username, role, resident_id, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING auth_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Username,
		account.Role,
		account.ResidentID,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.AuthID); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// UpdateProfile applies a partial update: empty username or hash leaves the
// current value in place.
func (r *AccountRepository) UpdateProfile(ctx context.Context, authID int, username, passwordHash string) error {
	const query = `
		UPDATE auth
		SET username = COALESCE(NULLIF($1, ''), username),
			password = COALESCE(NULLIF($2, ''), password),
			updated_at = $3
		WHERE auth_id = $4`
	result, err := r.db.ExecContext(ctx, query, username, passwordHash, time.Now(), authID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateResidentLink repoints an account at a different resident record.
func (r *AccountRepository) UpdateResidentLink(ctx context.Context, authID, residentID int) error {
	const query = `
		UPDATE auth
		SET resident_id = $1,
			updated_at = $2
		WHERE auth_id = $3`
	result, err := r.db.ExecContext(ctx, query, residentID, time.Now(), authID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) scanOne(row *sql.Row) (types.Account, error) {
	var account types.Account
	err := row.Scan(
		&account.AuthID,
		&account.Username,
		&account.Role,
		&account.ResidentID,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}
