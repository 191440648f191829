package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/minn2020/minndash/internal/models"
)

func TestFileStore_CreatesEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, name := range []string{"users.json", "logs.json"} {
		if _, errStat := os.Stat(filepath.Join(dir, name)); errStat != nil {
			t.Fatalf("expected %s to exist: %v", name, errStat)
		}
	}

	users, err := st.LoadUsers()
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected empty collection, got %d users", len(users))
	}
	logs, err := st.LoadLogs()
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected empty log, got %d entries", len(logs))
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	locked := time.Date(2025, 7, 15, 12, 30, 0, 0, time.UTC)
	users := []models.User{
		{
			UserID:       "MINN250715JD482963",
			Username:     "jane.doe.sou",
			FirstName:    "Jane",
			LastName:     "Doe",
			Email:        "jane@x.com",
			Country:      "SouthAfrica",
			Role:         models.RoleResearcher,
			PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
			CreatedAt:    time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC),
			FailedLogins: 2,
			LockedUntil:  &locked,
		},
	}
	if errSave := st.SaveUsers(users); errSave != nil {
		t.Fatalf("save users: %v", errSave)
	}

	got, err := st.LoadUsers()
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 user, got %d", len(got))
	}
	if got[0].Username != "jane.doe.sou" || got[0].FailedLogins != 2 {
		t.Fatalf("unexpected record: %+v", got[0])
	}
	if got[0].LockedUntil == nil || !got[0].LockedUntil.Equal(locked) {
		t.Fatalf("locked_until not preserved: %v", got[0].LockedUntil)
	}
}

func TestFileStore_DocumentFormat(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if errSave := st.SaveUsers([]models.User{{UserID: "X", Username: "x", Email: "x@x.com", Role: models.RoleInvestor}}); errSave != nil {
		t.Fatalf("save users: %v", errSave)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, "\"users\"") {
		t.Fatalf("expected users document key, got: %s", body)
	}
	if !strings.Contains(body, "\n  ") {
		t.Fatalf("expected indented output, got: %s", body)
	}
}

func TestFileStore_AppendLogPreservesOrder(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	now := time.Now().UTC()
	entries := []models.LogEntry{
		{Timestamp: now, Event: models.EventUserCreated, UserID: "A"},
		{Timestamp: now, Event: models.EventLoginFailed, UserID: "A", Reason: "no_user"},
		{Timestamp: now, Event: models.EventLoginSuccess, UserID: "A", IP: "10.0.0.1"},
	}
	for _, e := range entries {
		if errAppend := st.AppendLog(e); errAppend != nil {
			t.Fatalf("append: %v", errAppend)
		}
	}

	logs, err := st.LoadLogs()
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(logs))
	}
	for i, e := range entries {
		if logs[i].Event != e.Event {
			t.Fatalf("entry %d: expected event %q, got %q", i, e.Event, logs[i].Event)
		}
	}
}

func TestFileStore_MetaRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	entry := models.LogEntry{
		Timestamp: time.Now().UTC(),
		Event:     models.EventUserCreated,
		UserID:    "A",
		Meta:      models.Meta(map[string]any{"email": "jane@x.com", "country": "SouthAfrica"}),
	}
	if errAppend := st.AppendLog(entry); errAppend != nil {
		t.Fatalf("append: %v", errAppend)
	}
	logs, err := st.LoadLogs()
	if err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if !strings.Contains(string(logs[0].Meta), "jane@x.com") {
		t.Fatalf("meta not preserved: %s", logs[0].Meta)
	}
}
