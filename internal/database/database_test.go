package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), FileName)
	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return db
}

// =============================================================================
// Open
// =============================================================================

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"sessions", "preferences"} {
		var name string
		err := db.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestNewIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), FileName)

	for i := 0; i < 2; i++ {
		db, err := New(context.Background(), dbPath)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		if db.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
		}
		_ = db.Close()
	}
}

func TestNewMissingDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing", "sub", FileName)
	if _, err := New(context.Background(), dbPath); err == nil {
		t.Error("expected error for missing directory")
	}
}

// =============================================================================
// Sessions
// =============================================================================

func TestCreateAndValidateSession(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	sess, err := db.CreateSession(ctx, "admin")
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}

	got, err := db.ValidateSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("ValidateSession() failed: %v", err)
	}
	if got.Username != "admin" {
		t.Errorf("Username = %q, want admin", got.Username)
	}
	if got.ID != sess.ID {
		t.Errorf("ID = %d, want %d", got.ID, sess.ID)
	}
}

func TestTokenStoredHashed(t *testing.T) {
	db := setupTestDB(t)

	sess, err := db.CreateSession(context.Background(), "admin")
	if err != nil {
		t.Fatal(err)
	}

	var stored string
	if err := db.db.QueryRow("SELECT token FROM sessions WHERE id = ?", sess.ID).Scan(&stored); err != nil {
		t.Fatal(err)
	}
	if stored == sess.Token {
		t.Error("token stored in plain text")
	}
}

func TestValidateSessionErrors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not hex", "zzzz"},
		{"unknown", "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ValidateSession(ctx, tt.token)
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("ValidateSession(%q) error = %v, want ErrInvalidSession", tt.token, err)
			}
		})
	}
}

func TestExpiredSession(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	sess, err := db.CreateSession(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.db.Exec("UPDATE sessions SET expires_at = ?", time.Now().Add(-time.Hour).Unix()); err != nil {
		t.Fatal(err)
	}

	if _, err := db.ValidateSession(ctx, sess.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	// expired row was removed
	if _, err := db.ValidateSession(ctx, sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("second validate error = %v, want ErrInvalidSession", err)
	}
}

func TestDeleteSession(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	sess, err := db.CreateSession(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSession(ctx, sess.Token); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	if _, err := db.ValidateSession(ctx, sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("error = %v, want ErrInvalidSession", err)
	}
	if err := db.DeleteSession(ctx, "nothex"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("bad token error = %v", err)
	}
}

func TestCleanExpiredAndCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := db.CreateSession(ctx, "admin"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := db.db.Exec("UPDATE sessions SET expires_at = ? WHERE id <= 2", time.Now().Add(-time.Minute).Unix()); err != nil {
		t.Fatal(err)
	}

	active, err := db.CountActiveSessions(ctx)
	if err != nil || active != 1 {
		t.Fatalf("CountActiveSessions() = %d, %v; want 1", active, err)
	}

	n, err := db.CleanExpiredSessions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("CleanExpiredSessions() removed %d, want 2", n)
	}
}

func TestSetSessionDuration(t *testing.T) {
	original := GetSessionDuration()
	defer SetSessionDuration(original)

	tests := []struct {
		input time.Duration
		want  time.Duration
	}{
		{time.Hour, time.Hour},
		{time.Minute, time.Minute},
		{30 * time.Second, time.Minute},
		{0, time.Minute},
		{-time.Hour, time.Minute},
	}

	for _, tt := range tests {
		SetSessionDuration(tt.input)
		if got := GetSessionDuration(); got != tt.want {
			t.Errorf("SetSessionDuration(%v) -> %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSessionUsesConfiguredDuration(t *testing.T) {
	original := GetSessionDuration()
	defer SetSessionDuration(original)
	SetSessionDuration(2 * time.Hour)

	db := setupTestDB(t)
	sess, err := db.CreateSession(context.Background(), "admin")
	if err != nil {
		t.Fatal(err)
	}

	remaining := time.Until(sess.ExpiresAt)
	if remaining < 119*time.Minute || remaining > 2*time.Hour {
		t.Errorf("session expires in %v, want about 2h", remaining)
	}
}

// =============================================================================
// Preferences
// =============================================================================

func TestPreferencesMissing(t *testing.T) {
	db := setupTestDB(t)

	p, err := db.GetPreferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if p != nil {
		t.Errorf("GetPreferences() = %+v, want nil", p)
	}
}

func TestSaveAndGetPreferences(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	want := Preferences{Username: "admin", Volume: 0.6, Looping: true, SortField: "size", SortDirection: "desc"}
	if err := db.SavePreferences(ctx, want); err != nil {
		t.Fatalf("SavePreferences() failed: %v", err)
	}

	got, err := db.GetPreferences(ctx, "admin")
	if err != nil || got == nil {
		t.Fatalf("GetPreferences() = %v, %v", got, err)
	}
	if got.Volume != 0.6 || !got.Looping || got.SortField != "size" || got.SortDirection != "desc" {
		t.Errorf("GetPreferences() = %+v", got)
	}

	// overwrite
	want.Looping = false
	want.SortField = ""
	want.SortDirection = ""
	if err := db.SavePreferences(ctx, want); err != nil {
		t.Fatal(err)
	}
	got, _ = db.GetPreferences(ctx, "admin")
	if got.Looping || got.SortField != "" {
		t.Errorf("after update = %+v", got)
	}
}

func TestDeleteAllSessions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 2; i++ {
		sess, err := db.CreateSession(ctx, "admin")
		if err != nil {
			t.Fatal(err)
		}
		tokens = append(tokens, sess.Token)
	}

	n, err := db.DeleteAllSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteAllSessions() failed: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteAllSessions() removed %d, want 2", n)
	}
	for _, token := range tokens {
		if _, err := db.ValidateSession(ctx, token); !errors.Is(err, ErrInvalidSession) {
			t.Errorf("ValidateSession() error = %v, want ErrInvalidSession", err)
		}
	}
}
