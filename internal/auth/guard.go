// Package auth implements the account lifecycle: signup, authentication
// with failed-attempt lockout, administrative unlock, and password reset.
// Counters and lock timestamps live on the user record itself so one
// load-save cycle keeps them consistent.
package auth

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/minn2020/minndash/internal/identity"
	"github.com/minn2020/minndash/internal/models"
	"github.com/minn2020/minndash/internal/security"
	"github.com/minn2020/minndash/internal/store"
)

// Guard mediates every mutation of the user collection and appends the
// matching audit entries.
type Guard struct {
	store     store.Store
	ids       *identity.Generator
	maxFailed int
	lockout   time.Duration

	now func() time.Time
}

// NewGuard constructs a Guard over the given store.
func NewGuard(st store.Store, ids *identity.Generator, maxFailed int, lockout time.Duration) *Guard {
	return &Guard{
		store:     st,
		ids:       ids,
		maxFailed: maxFailed,
		lockout:   lockout,
		now:       time.Now,
	}
}

// CreateUser generates identity values, hashes the password, persists the
// new record, and logs user_created. The email must not belong to an
// existing account (case-insensitive).
func (g *Guard) CreateUser(firstName, lastName, email, country, org string, role models.Role, password string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	users, err := g.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrEmailTaken
		}
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := g.now().UTC()
	user := models.User{
		UserID:       g.ids.UserID(users, firstName, lastName, country),
		Username:     g.ids.Username(users, firstName, lastName, country, org),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Country:      country,
		Organization: org,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		FailedLogins: 0,
		LockedUntil:  nil,
	}

	users = append(users, user)
	if err := g.store.SaveUsers(users); err != nil {
		return nil, err
	}
	if err := g.store.AppendLog(models.LogEntry{
		Timestamp: now,
		Event:     models.EventUserCreated,
		UserID:    user.UserID,
		Username:  user.Username,
		Role:      string(role),
		Meta:      models.Meta(map[string]any{"email": email, "country": country}),
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"username": user.Username, "role": role}).Info("user created")
	return &user, nil
}

// Authenticate verifies a login attempt and drives the lockout state
// machine. Every factor is checked here: a wrong TOTP code counts toward
// the lockout threshold exactly like a wrong password, and counters reset
// only once all factors pass. When the account carries a TOTP secret and
// no code was supplied, ErrTOTPRequired is returned without touching the
// counter. On success the returned user has a zeroed failure counter; the
// caller establishes the session.
func (g *Guard) Authenticate(username, password, totpCode, ip string) (*models.User, error) {
	users, err := g.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	now := g.now().UTC()

	idx := -1
	for i := range users {
		if users[i].Username == username {
			idx = i
			break
		}
	}
	if idx < 0 {
		if errLog := g.store.AppendLog(models.LogEntry{
			Timestamp: now,
			Event:     models.EventLoginFailed,
			Username:  username,
			IP:        ip,
			Reason:    "no_user",
		}); errLog != nil {
			return nil, errLog
		}
		return nil, ErrInvalidCredential
	}
	user := &users[idx]

	if user.Locked(now) {
		if errLog := g.store.AppendLog(models.LogEntry{
			Timestamp: now,
			Event:     models.EventLoginBlocked,
			UserID:    user.UserID,
			IP:        ip,
			Reason:    "locked",
		}); errLog != nil {
			return nil, errLog
		}
		return nil, fmt.Errorf("%w until %s UTC", ErrAccountLocked, user.LockedUntil.UTC().Format(time.RFC3339))
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, g.recordFailure(users, user, "bad_password", ip, now)
	}

	if user.TOTPSecret != "" {
		if strings.TrimSpace(totpCode) == "" {
			return nil, ErrTOTPRequired
		}
		if !security.ValidateTOTP(totpCode, user.TOTPSecret) {
			return nil, g.recordFailure(users, user, "bad_totp", ip, now)
		}
	}

	user.FailedLogins = 0
	user.LockedUntil = nil
	if errSave := g.store.SaveUsers(users); errSave != nil {
		return nil, errSave
	}
	if errLog := g.store.AppendLog(models.LogEntry{
		Timestamp: now,
		Event:     models.EventLoginSuccess,
		UserID:    user.UserID,
		Username:  user.Username,
		IP:        ip,
	}); errLog != nil {
		return nil, errLog
	}
	authenticated := *user
	return &authenticated, nil
}

// recordFailure advances the lockout state machine for one failed factor:
// it increments the counter, locks the account at the threshold, persists
// the collection, and appends the matching audit entry. The returned error
// is what Authenticate surfaces to the caller.
func (g *Guard) recordFailure(users []models.User, user *models.User, reason, ip string, now time.Time) error {
	user.FailedLogins++
	if user.FailedLogins >= g.maxFailed {
		until := now.Add(g.lockout)
		user.LockedUntil = &until
		if errSave := g.store.SaveUsers(users); errSave != nil {
			return errSave
		}
		if errLog := g.store.AppendLog(models.LogEntry{
			Timestamp: now,
			Event:     models.EventAccountLocked,
			UserID:    user.UserID,
			Username:  user.Username,
			IP:        ip,
			Reason:    reason,
		}); errLog != nil {
			return errLog
		}
		log.WithFields(log.Fields{"username": user.Username, "until": until}).Warn("account locked")
		return fmt.Errorf("too many failed attempts: %w until %s UTC", ErrAccountLocked, until.Format(time.RFC3339))
	}

	if errSave := g.store.SaveUsers(users); errSave != nil {
		return errSave
	}
	if errLog := g.store.AppendLog(models.LogEntry{
		Timestamp: now,
		Event:     models.EventLoginFailed,
		UserID:    user.UserID,
		Username:  user.Username,
		IP:        ip,
		Reason:    reason,
		Attempts:  user.FailedLogins,
	}); errLog != nil {
		return errLog
	}
	return ErrInvalidCredential
}

// Unlock is the administrative override: it clears the failure counter and
// lock timestamp unconditionally.
func (g *Guard) Unlock(userID string) error {
	users, err := g.store.LoadUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].UserID != userID {
			continue
		}
		users[i].FailedLogins = 0
		users[i].LockedUntil = nil
		if errSave := g.store.SaveUsers(users); errSave != nil {
			return errSave
		}
		return g.store.AppendLog(models.LogEntry{
			Timestamp: g.now().UTC(),
			Event:     models.EventAccountUnlocked,
			UserID:    userID,
			By:        "admin",
		})
	}
	return ErrNotFound
}

// ResetPassword replaces the password hash for the account matching email
// (case-insensitive), clearing any lockout state.
func (g *Guard) ResetPassword(email, newPassword string) error {
	users, err := g.store.LoadUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if !strings.EqualFold(users[i].Email, email) {
			continue
		}
		hash, errHash := security.HashPassword(newPassword)
		if errHash != nil {
			return errHash
		}
		users[i].PasswordHash = hash
		users[i].FailedLogins = 0
		users[i].LockedUntil = nil
		if errSave := g.store.SaveUsers(users); errSave != nil {
			return errSave
		}
		return g.store.AppendLog(models.LogEntry{
			Timestamp: g.now().UTC(),
			Event:     models.EventPasswordReset,
			UserID:    users[i].UserID,
			Username:  users[i].Username,
		})
	}
	return ErrNotFound
}

// UpdateTOTPSecret sets or clears (empty secret) the TOTP second factor for
// a username.
func (g *Guard) UpdateTOTPSecret(username, secret string) error {
	users, err := g.store.LoadUsers()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Username != username {
			continue
		}
		users[i].TOTPSecret = secret
		return g.store.SaveUsers(users)
	}
	return ErrNotFound
}

// Users returns the full user collection.
func (g *Guard) Users() ([]models.User, error) {
	return g.store.LoadUsers()
}

// Logs returns the full audit log.
func (g *Guard) Logs() ([]models.LogEntry, error) {
	return g.store.LoadLogs()
}

// FindByUsername returns the account with the given username.
func (g *Guard) FindByUsername(username string) (*models.User, error) {
	users, err := g.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// FindByEmail returns the account matching email case-insensitively.
func (g *Guard) FindByEmail(email string) (*models.User, error) {
	users, err := g.store.LoadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}
