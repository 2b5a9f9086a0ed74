package types

import "time"

// Account roles. Residents get resident-level access; staff run the
// front desk; admins manage accounts.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleResident = "resident"
)

// Account represents one login identity in the system.
// It carries credentials, the role, and the optional resident link.
type Account struct {
	// AuthID is the unique identifier of the account.
	AuthID int `json:"auth_id" db:"auth_id"`

	// Username is the unique login name chosen at registration.
	Username string `json:"username" db:"username"`

	// Role indicates the account's authorization level
	// ("admin", "staff", or "resident").
	Role string `json:"role" db:"role"`

	// ResidentID links the account to its resident record, when one exists.
	ResidentID *int `json:"resident_id,omitempty" db:"resident_id"`

	// PasswordHash stores the bcrypt hash of the account's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
