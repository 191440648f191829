// Package store persists the user collection and the append-only audit log.
// The reference backend keeps whole-file JSON documents; a relational
// backend offers the same contract on top of GORM.
package store

import "github.com/minn2020/minndash/internal/models"

// Store is the persistence contract. Callers must treat load-mutate-save as
// their own critical section; implementations only guarantee that a single
// call is applied atomically.
type Store interface {
	LoadUsers() ([]models.User, error)
	SaveUsers(users []models.User) error
	AppendLog(entry models.LogEntry) error
	LoadLogs() ([]models.LogEntry, error)
}
