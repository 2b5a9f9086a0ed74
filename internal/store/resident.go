package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ivanjaven/extension/types"
)

// ResidentRepository handles persistence for resident records.
type ResidentRepository struct {
	db *sql.DB
}

func NewResidentRepository(db *sql.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

const residentColumns = `
	resident_id, full_name, first_name, last_name, middle_name, gender,
	date_of_birth, civil_status, house_number, street_id, email, mobile,
	occupation_id, nationality_id, religion_id, benefit_id, photo_key,
	face_descriptor, fingerprint_fmd, is_archived, created_at, updated_at`

func (r *ResidentRepository) Get(ctx context.Context, id int) (types.Resident, error) {
	const query = `
		SELECT` + residentColumns + `
		FROM residents
		WHERE resident_id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// CreateWithAccount inserts the resident, address, and auth rows in one
// transaction; registration must never leave a resident without credentials.
func (r *ResidentRepository) CreateWithAccount(ctx context.Context, resident types.Resident, account types.Account) (types.Resident, types.Account, error) {
	now := time.Now()
	resident.CreatedAt = now
	resident.UpdatedAt = now
	account.CreatedAt = now
	account.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Resident{}, types.Account{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const residentQuery = `
		INSERT INTO residents (
			full_name, first_name, last_name, middle_name, gender,
			date_of_birth, civil_status, house_number, street_id, email, mobile,
			occupation_id, nationality_id, religion_id, benefit_id, photo_key,
			face_descriptor, fingerprint_fmd, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, FALSE, $19, $20)
		RETURNING resident_id`
	if err := tx.QueryRowContext(
		ctx,
		residentQuery,
		resident.FullName,
		resident.FirstName,
		resident.LastName,
		resident.MiddleName,
		resident.Gender,
		resident.DateOfBirth,
		resident.CivilStatus,
		resident.HouseNumber,
		resident.StreetID,
		resident.Email,
		resident.Mobile,
		resident.OccupationID,
		resident.NationalityID,
		resident.ReligionID,
		resident.BenefitID,
		resident.PhotoKey,
		resident.FaceDescriptor,
		resident.FingerprintFMD,
		resident.CreatedAt,
		resident.UpdatedAt,
	).Scan(&resident.ResidentID); err != nil {
		return types.Resident{}, types.Account{}, err
	}

	// The street report joins residents through addresses, so the address
	// row has to land in the same transaction.
	const addressQuery = `
		INSERT INTO addresses (resident_id, street_id)
		VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, addressQuery, resident.ResidentID, resident.StreetID); err != nil {
		return types.Resident{}, types.Account{}, err
	}

	account.ResidentID = &resident.ResidentID
	const accountQuery = `
		INSERT INTO auth (username, role, resident_id, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING auth_id`
	if err := tx.QueryRowContext(
		ctx,
		accountQuery,
		account.Username,
		account.Role,
		account.ResidentID,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	).Scan(&account.AuthID); err != nil {
		return types.Resident{}, types.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Resident{}, types.Account{}, err
	}
	return resident, account, nil
}

// Update rewrites the mutable resident fields and keeps the address row in
// step with the resident's street.
func (r *ResidentRepository) Update(ctx context.Context, resident types.Resident) (types.Resident, error) {
	resident.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Resident{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
		UPDATE residents
		SET full_name = $1,
			first_name = $2,
			last_name = $3,
			middle_name = $4,
			gender = $5,
			date_of_birth = $6,
			civil_status = $7,
			house_number = $8,
			street_id = $9,
			email = $10,
			mobile = $11,
			occupation_id = $12,
			nationality_id = $13,
			religion_id = $14,
			benefit_id = $15,
			updated_at = $16
		WHERE resident_id = $17`
	result, err := tx.ExecContext(
		ctx,
		query,
		resident.FullName,
		resident.FirstName,
		resident.LastName,
		resident.MiddleName,
		resident.Gender,
		resident.DateOfBirth,
		resident.CivilStatus,
		resident.HouseNumber,
		resident.StreetID,
		resident.Email,
		resident.Mobile,
		resident.OccupationID,
		resident.NationalityID,
		resident.ReligionID,
		resident.BenefitID,
		resident.UpdatedAt,
		resident.ResidentID,
	)
	if err != nil {
		return types.Resident{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Resident{}, err
	}
	if affected == 0 {
		return types.Resident{}, ErrNotFound
	}

	const addressQuery = `
		INSERT INTO addresses (resident_id, street_id)
		VALUES ($1, $2)
		ON CONFLICT (resident_id) DO UPDATE SET street_id = EXCLUDED.street_id`
	if _, err := tx.ExecContext(ctx, addressQuery, resident.ResidentID, resident.StreetID); err != nil {
		return types.Resident{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Resident{}, err
	}
	return resident, nil
}

// Archive soft-deletes the resident; the auth row stays behind.
func (r *ResidentRepository) Archive(ctx context.Context, id int) error {
	const query = `
		UPDATE residents
		SET is_archived = TRUE,
			updated_at = $1
		WHERE resident_id = $2 AND is_archived = FALSE`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
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

// ListFaceDescriptors returns every non-archived resident's stored face
// descriptor for matching.
func (r *ResidentRepository) ListFaceDescriptors(ctx context.Context) ([]types.FaceRecord, error) {
	const query = `
		SELECT resident_id, face_descriptor
		FROM residents
		WHERE is_archived = FALSE AND face_descriptor <> ''`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []types.FaceRecord
	for rows.Next() {
		var record types.FaceRecord
		if err := rows.Scan(&record.ResidentID, &record.Descriptor); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *ResidentRepository) scanOne(row *sql.Row) (types.Resident, error) {
	var resident types.Resident
	err := row.Scan(
		&resident.ResidentID,
		&resident.FullName,
		&resident.FirstName,
		&resident.LastName,
		&resident.MiddleName,
		&resident.Gender,
		&resident.DateOfBirth,
		&resident.CivilStatus,
		&resident.HouseNumber,
		&resident.StreetID,
		&resident.Email,
		&resident.Mobile,
		&resident.OccupationID,
		&resident.NationalityID,
		&resident.ReligionID,
		&resident.BenefitID,
		&resident.PhotoKey,
		&resident.FaceDescriptor,
		&resident.FingerprintFMD,
		&resident.IsArchived,
		&resident.CreatedAt,
		&resident.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Resident{}, ErrNotFound
		}
		return types.Resident{}, err
	}
	return resident, nil
}
