package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token failures are distinguished for logs and tests only; handlers must
// surface both as the same client-facing message.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// resetTokenPurpose scopes reset-token signatures so a token minted for one
// purpose cannot be redeemed for another.
const resetTokenPurpose = "password-reset-salt"

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateResetToken mints a signed, timestamped, URL-safe token binding
// the given email address.
func GenerateResetToken(secret, email string) (string, error) {
	claims := resetClaims{
		Purpose: resetTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyResetToken returns the embedded email when the signature is valid
// and the token age is within maxAge. Tampering yields ErrTokenInvalid,
// elapsed age ErrTokenExpired.
func VerifyResetToken(secret, token string, maxAge time.Duration) (string, error) {
	var claims resetClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Purpose != resetTokenPurpose || claims.Subject == "" || claims.IssuedAt == nil {
		return "", ErrTokenInvalid
	}
	if time.Since(claims.IssuedAt.Time) > maxAge {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
