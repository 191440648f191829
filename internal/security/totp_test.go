package security

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func TestTOTP_GenerateAndValidate(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("jane.doe.sou")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if secret == "" || url == "" {
		t.Fatalf("expected secret and enrollment url, got %q / %q", secret, url)
	}

	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if !ValidateTOTP(code, secret) {
		t.Fatalf("expected current code to validate")
	}
	if ValidateTOTP("000000", secret) && code != "000000" {
		t.Fatalf("expected bogus code to fail")
	}
}
