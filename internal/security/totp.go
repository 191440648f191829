package security

import (
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"
)

const totpIssuer = "minndash"

// GenerateTOTPSecret provisions a TOTP secret for the account and returns
// the secret alongside its otpauth enrollment URL.
func GenerateTOTPSecret(username string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: username,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate totp secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP reports whether code is currently valid for the secret.
func ValidateTOTP(code, secret string) bool {
	return totp.Validate(strings.TrimSpace(code), secret)
}
