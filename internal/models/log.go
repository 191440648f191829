package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Audit event names. Entries are created once and never mutated.
const (
	EventUserCreated     = "user_created"
	EventLoginSuccess    = "login_success"
	EventLoginFailed     = "login_failed"
	EventLoginBlocked    = "login_blocked"
	EventAccountLocked   = "account_locked"
	EventAccountUnlocked = "account_unlocked"
	EventPasswordReset   = "password_reset"
)

// LogEntry is one append-only audit record.
type LogEntry struct {
	ID uint64 `json:"-" gorm:"primaryKey;autoIncrement"` // Relational backend only.

	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	Event     string    `json:"event" gorm:"type:text;not null;index"`

	UserID   string         `json:"user_id,omitempty" gorm:"type:text;index"`
	Username string         `json:"username,omitempty" gorm:"type:text"`
	Role     string         `json:"role,omitempty" gorm:"type:text"`
	IP       string         `json:"ip,omitempty" gorm:"type:text"`
	Reason   string         `json:"reason,omitempty" gorm:"type:text"`
	Attempts int            `json:"attempts,omitempty" gorm:"not null;default:0"`
	By       string         `json:"by,omitempty" gorm:"type:text"`
	Meta     datatypes.JSON `json:"meta,omitempty"`
}

// TableName maps audit rows to the audit_logs table.
func (LogEntry) TableName() string { return "audit_logs" }

// Meta marshals event-specific fields for a log entry.
func Meta(fields map[string]any) datatypes.JSON {
	if len(fields) == 0 {
		return nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
