package auth

import "errors"

// Error kinds surfaced by the account guard. Handlers collapse ErrNotFound
// and ErrInvalidCredential into one client-facing message so usernames and
// emails cannot be enumerated.
var (
	ErrNotFound          = errors.New("account not found")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrAccountLocked     = errors.New("account locked")
	ErrTOTPRequired      = errors.New("totp code required")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidRole       = errors.New("invalid role")
)
