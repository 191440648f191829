package store

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/minn2020/minndash/internal/models"
)

// GormStore offers the whole-collection contract on top of a relational
// backend. SaveUsers replaces the stored collection in one transaction so
// the semantics stay equivalent to a whole-document rewrite.
type GormStore struct {
	db *gorm.DB

	mu sync.Mutex
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// LoadUsers returns the full user collection in creation order.
func (s *GormStore) LoadUsers() ([]models.User, error) {
	var rows []models.User
	if err := s.db.Order("created_at ASC, user_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: load users: %w", err)
	}
	return rows, nil
}

// SaveUsers replaces the user collection in a single transaction.
func (s *GormStore) SaveUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if errDelete := tx.Exec("DELETE FROM users").Error; errDelete != nil {
			return errDelete
		}
		if len(users) == 0 {
			return nil
		}
		return tx.Create(&users).Error
	})
	if err != nil {
		return fmt.Errorf("store: save users: %w", err)
	}
	return nil
}

// AppendLog inserts one audit row. Rows are never updated or deleted.
func (s *GormStore) AppendLog(entry models.LogEntry) error {
	entry.ID = 0
	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("store: append log: %w", err)
	}
	return nil
}

// LoadLogs returns the audit log in append order.
func (s *GormStore) LoadLogs() ([]models.LogEntry, error) {
	var rows []models.LogEntry
	if err := s.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: load logs: %w", err)
	}
	return rows, nil
}
