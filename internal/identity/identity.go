// Package identity derives user IDs and human-readable usernames from
// signup input. Uniqueness is enforced against a snapshot of the user
// collection; the retry loop, not the randomness, is the correctness
// backstop.
package identity

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/minn2020/minndash/internal/models"
)

// Generator produces identifiers unique within a user-collection snapshot.
type Generator struct {
	Prefix string

	now  func() time.Time
	rand func(n int) int
}

// New constructs a Generator with the given user-id prefix.
func New(prefix string) *Generator {
	return &Generator{
		Prefix: prefix,
		now:    time.Now,
		rand:   rand.IntN,
	}
}

// Checksum returns the two-digit mod-97 validator for an identifier core:
// the sum of the character codes of the core, mod 97.
func Checksum(core string) int {
	sum := 0
	for _, c := range []byte(core) {
		sum += int(c)
	}
	return sum % 97
}

// UserID generates a unique user id of the form
// PREFIX + YYMMDD + initials + NNNN + CC where CC is the checksum suffix.
// Example: MINN250715AB482963.
//
// Candidates colliding with an existing user_id are rejected and redrawn;
// after 50 failed draws each iteration also tries a fallback of the core
// plus the unix time mod 10000.
func (g *Generator) UserID(users []models.User, firstName, lastName, country string) string {
	_ = country // reserved field, not part of the id format

	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.UserID] = struct{}{}
	}

	date := g.now().UTC().Format("060102")
	initials := strings.ToUpper(firstInitial(firstName) + firstInitial(lastName))

	attempt := 0
	for {
		core := fmt.Sprintf("%s%s%s%04d", g.Prefix, date, initials, g.rand(10000))
		userID := fmt.Sprintf("%s%02d", core, Checksum(core))
		if _, exists := taken[userID]; !exists {
			return userID
		}
		attempt++
		if attempt > 50 {
			fallback := fmt.Sprintf("%s%d", core, g.now().Unix()%10000)
			if _, exists := taken[fallback]; !exists {
				return fallback
			}
		}
	}
}

// Username builds a readable login name:
// firstname.lastname.countrycode[.orgshort], all lowercase alphanumeric,
// country and organization truncated to 3 characters. Collisions get an
// integer suffix starting at 1.
func (g *Generator) Username(users []models.User, firstName, lastName, country, org string) string {
	fn := alnum(strings.ToLower(firstName))
	ln := alnum(strings.ToLower(lastName))
	cc := truncate(alnum(strings.ToLower(country)), 3)

	base := fn + "." + ln + "." + cc
	if org != "" {
		if orgShort := truncate(alnum(strings.ToLower(org)), 3); orgShort != "" {
			base += "." + orgShort
		}
	}

	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.Username] = struct{}{}
	}

	username := base
	for suffix := 1; ; suffix++ {
		if _, exists := taken[username]; !exists {
			return username
		}
		username = fmt.Sprintf("%s%d", base, suffix)
	}
}

// alnum strips everything that is not a letter or digit.
func alnum(s string) string {
	var b strings.Builder
	for _, c := range s {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}

func firstInitial(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
