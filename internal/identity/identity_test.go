package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/minn2020/minndash/internal/models"
)

func fixedGenerator(prefix string, now time.Time, draws []int) *Generator {
	g := New(prefix)
	g.now = func() time.Time { return now }
	i := 0
	g.rand = func(n int) int {
		v := draws[i%len(draws)] % n
		i++
		return v
	}
	return g
}

func TestUserID_Format(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	g := fixedGenerator("MINN", now, []int{4829})

	id := g.UserID(nil, "Jane", "Doe", "SouthAfrica")
	pattern := regexp.MustCompile(`^MINN250715JD\d{4}\d{2}$`)
	if !pattern.MatchString(id) {
		t.Fatalf("unexpected id format: %q", id)
	}
	if id[:16] != "MINN250715JD4829" {
		t.Fatalf("expected core MINN250715JD4829, got %q", id)
	}
}

func TestUserID_UnicodeInitials(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	g := fixedGenerator("MINN", now, []int{4829})

	id := g.UserID(nil, "émile", "Doe", "France")
	if !strings.HasPrefix(id, "MINN250715ÉD4829") {
		t.Fatalf("expected multibyte initial preserved, got %q", id)
	}
	if strings.ContainsRune(id, '�') {
		t.Fatalf("replacement rune in id: %q", id)
	}
}

func TestUserID_ChecksumSuffix(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	for draw := 0; draw < 200; draw += 7 {
		g := fixedGenerator("MINN", now, []int{draw})
		id := g.UserID(nil, "Jane", "Doe", "SouthAfrica")

		core := id[:len(id)-2]
		suffix, err := strconv.Atoi(id[len(id)-2:])
		if err != nil {
			t.Fatalf("non-numeric checksum in %q: %v", id, err)
		}
		if suffix != Checksum(core) {
			t.Fatalf("id %q: expected checksum %02d, got %02d", id, Checksum(core), suffix)
		}
	}
}

func TestUserID_CollisionRetry(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	g := fixedGenerator("MINN", now, []int{1111, 2222})

	core := fmt.Sprintf("MINN250715JD%04d", 1111)
	existing := []models.User{{UserID: fmt.Sprintf("%s%02d", core, Checksum(core))}}

	id := g.UserID(existing, "Jane", "Doe", "SouthAfrica")
	if id == existing[0].UserID {
		t.Fatalf("collision not resolved: %q", id)
	}
	if id[12:16] != "2222" {
		t.Fatalf("expected second draw in id, got %q", id)
	}
}

func TestUserID_UniqueAcrossCreations(t *testing.T) {
	g := New("MINN")
	var users []models.User
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id := g.UserID(users, "Jane", "Doe", "SouthAfrica")
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate user id generated: %q", id)
		}
		seen[id] = struct{}{}
		users = append(users, models.User{UserID: id})
	}
}

func TestUsername_Base(t *testing.T) {
	g := New("MINN")
	name := g.Username(nil, "Jane", "Doe", "SouthAfrica", "MINN")
	if name != "jane.doe.sou.min" {
		t.Fatalf("expected jane.doe.sou.min, got %q", name)
	}
	if name[:12] != "jane.doe.sou" {
		t.Fatalf("expected prefix jane.doe.sou, got %q", name)
	}
}

func TestUsername_NoOrg(t *testing.T) {
	g := New("MINN")
	name := g.Username(nil, "Jane", "Doe", "SouthAfrica", "")
	if name != "jane.doe.sou" {
		t.Fatalf("expected jane.doe.sou, got %q", name)
	}
}

func TestUsername_Normalization(t *testing.T) {
	g := New("MINN")
	name := g.Username(nil, "Mary-Anne", "O'Brien", "Ghana", "")
	if name != "maryanne.obrien.gha" {
		t.Fatalf("unexpected normalized username: %q", name)
	}
}

func TestUsername_SuffixOnCollision(t *testing.T) {
	g := New("MINN")
	existing := []models.User{
		{Username: "jane.doe.sou"},
		{Username: "jane.doe.sou1"},
	}
	name := g.Username(existing, "Jane", "Doe", "SouthAfrica", "")
	if name != "jane.doe.sou2" {
		t.Fatalf("expected jane.doe.sou2, got %q", name)
	}
}

func TestChecksum_Range(t *testing.T) {
	for _, core := range []string{"", "MINN", "MINN250715JD4829"} {
		if c := Checksum(core); c < 0 || c > 96 {
			t.Fatalf("checksum out of range for %q: %d", core, c)
		}
	}
}
