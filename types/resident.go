package types

import "time"

// Resident is the registry record behind an account. FaceDescriptor holds the
// JSON-encoded float vector captured at enrollment; FingerprintFMD holds the
// base64 template produced by the hardware bridge. PhotoKey points at the
// object-storage copy of the captured photo.
type Resident struct {
	ResidentID     int       `json:"resident_id" db:"resident_id"`
	FullName       string    `json:"full_name" db:"full_name"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	MiddleName     string    `json:"middle_name" db:"middle_name"`
	Gender         string    `json:"gender" db:"gender"`
	DateOfBirth    time.Time `json:"date_of_birth" db:"date_of_birth"`
	CivilStatus    string    `json:"civil_status" db:"civil_status"`
	HouseNumber    string    `json:"house_number" db:"house_number"`
	StreetID       int       `json:"street_id" db:"street_id"`
	Email          string    `json:"email" db:"email"`
	Mobile         string    `json:"mobile" db:"mobile"`
	OccupationID   int       `json:"occupation_id" db:"occupation_id"`
	NationalityID  int       `json:"nationality_id" db:"nationality_id"`
	ReligionID     int       `json:"religion_id" db:"religion_id"`
	BenefitID      int       `json:"benefit_id" db:"benefit_id"`
	PhotoKey       string    `json:"photo_key,omitempty" db:"photo_key"`
	FaceDescriptor string    `json:"-" db:"face_descriptor"`
	FingerprintFMD string    `json:"-" db:"fingerprint_fmd"`
	IsArchived     bool      `json:"is_archived" db:"is_archived"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FaceRecord is the slice of a resident row needed for face matching.
type FaceRecord struct {
	ResidentID int
	Descriptor string
}
