package types

import "time"

// Session binds one account to one active login at a time. The session id is
// an opaque string generated at login; LastActive slides forward on every
// successful validation.
type Session struct {
	ID         string    `json:"session_id" db:"session_id"`
	AuthID     int       `json:"auth_id" db:"auth_id"`
	Token      string    `json:"-" db:"token"`
	DeviceInfo string    `json:"device_info" db:"device_info"`
	LastActive time.Time `json:"last_active" db:"last_active"`
}
