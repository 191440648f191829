package models

import "time"

// Role is the access level assigned to an account.
type Role string

// The fixed role set. Signup may only request Investor or Researcher;
// Administrator accounts are created by an existing administrator.
const (
	RoleAdministrator Role = "Administrator"
	RoleInvestor      Role = "Investor"
	RoleResearcher    Role = "Researcher"
)

// ValidRole reports whether r belongs to the fixed role enumeration.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdministrator, RoleInvestor, RoleResearcher:
		return true
	}
	return false
}

// User represents an account held in the record store. JSON tags match the
// on-disk document format; GORM tags describe the relational backend.
type User struct {
	UserID   string `json:"user_id" gorm:"type:text;primaryKey"`         // Generated identifier with checksum suffix.
	Username string `json:"username" gorm:"type:text;not null;uniqueIndex"` // Generated login name.

	FirstName    string `json:"first_name" gorm:"type:text"`
	LastName     string `json:"last_name" gorm:"type:text"`
	Email        string `json:"email" gorm:"type:text;not null;uniqueIndex"` // Unique case-insensitively; callers compare folded.
	Country      string `json:"country" gorm:"type:text"`
	Organization string `json:"organization" gorm:"type:text"`
	Role         Role   `json:"role" gorm:"type:text;not null"`

	PasswordHash string `json:"password_hash" gorm:"type:text;not null"`
	TOTPSecret   string `json:"totp_secret,omitempty" gorm:"type:text"` // Optional second factor.

	CreatedAt    time.Time  `json:"created_at" gorm:"not null"`
	FailedLogins int        `json:"failed_logins" gorm:"not null;default:0"`
	LockedUntil  *time.Time `json:"locked_until" gorm:"index"` // Nil or past means the account is active.
}

// Locked reports whether the account is inside an active lockout window.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
