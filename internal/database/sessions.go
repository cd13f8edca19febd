package database

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"video-player/internal/logging"
)

// Session errors.
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
)

// Session represents an authenticated login.
type Session struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultSessionDuration is the length of time a session remains valid
// unless SESSION_DURATION says otherwise.
const DefaultSessionDuration = 7 * 24 * time.Hour

var sessionDuration = DefaultSessionDuration

// SetSessionDuration sets how long new sessions last. Values under a minute
// are raised to one minute.
func SetSessionDuration(d time.Duration) {
	if d < time.Minute {
		d = time.Minute
	}
	sessionDuration = d
}

// GetSessionDuration returns the configured session lifetime.
func GetSessionDuration() time.Duration {
	return sessionDuration
}

func hashToken(token string) (string, error) {
	tokenBytes, err := hex.DecodeString(token)
	if err != nil || len(tokenBytes) == 0 {
		return "", fmt.Errorf("%w: bad token format", ErrInvalidSession)
	}
	hash := sha256.Sum256(tokenBytes)
	return hex.EncodeToString(hash[:]), nil
}

// CreateSession creates a new session for username. The returned token is
// the only copy; the database keeps its hash.
func (d *Database) CreateSession(ctx context.Context, username string) (sess *Session, err error) {
	start := time.Now()
	defer func() { recordQuery("create_session", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tokenBytes := make([]byte, 32)
	if _, err = rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	hash := sha256.Sum256(tokenBytes)
	tokenHash := hex.EncodeToString(hash[:])
	token := hex.EncodeToString(tokenBytes)

	now := time.Now()
	expiresAt := now.Add(sessionDuration)

	result, err := d.db.ExecContext(ctx,
		"INSERT INTO sessions (username, token, expires_at) VALUES (?, ?, ?)",
		username, tokenHash, expiresAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	id, _ := result.LastInsertId()

	return &Session{
		ID:        id,
		Username:  username,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// ValidateSession returns the session for token if it exists and has not
// expired. Expired sessions are removed.
func (d *Database) ValidateSession(ctx context.Context, token string) (sess *Session, err error) {
	start := time.Now()
	defer func() { recordQuery("validate_session", start, err) }()

	tokenHash, err := hashToken(token)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	qctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s Session
	var expiresAt, createdAt int64
	err = d.db.QueryRowContext(qctx,
		"SELECT id, username, expires_at, created_at FROM sessions WHERE token = ?",
		tokenHash,
	).Scan(&s.ID, &s.Username, &expiresAt, &createdAt)
	d.mu.RUnlock()

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if time.Now().Unix() > expiresAt {
		if delErr := d.deleteSessionByHash(ctx, tokenHash); delErr != nil {
			logging.Error("failed to delete expired session: %v", delErr)
		}
		return nil, ErrSessionExpired
	}

	s.Token = token
	s.ExpiresAt = time.Unix(expiresAt, 0)
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}

func (d *Database) deleteSessionByHash(ctx context.Context, tokenHash string) (err error) {
	start := time.Now()
	defer func() { recordQuery("delete_session", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = d.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", tokenHash)
	return err
}

// DeleteSession removes a session. Unknown tokens are not an error.
func (d *Database) DeleteSession(ctx context.Context, token string) error {
	tokenHash, err := hashToken(token)
	if err != nil {
		return err
	}
	return d.deleteSessionByHash(ctx, tokenHash)
}

// CleanExpiredSessions removes all expired sessions and returns how many
// were deleted.
func (d *Database) CleanExpiredSessions(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { recordQuery("cleanup_sessions", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CountActiveSessions returns the number of unexpired sessions.
func (d *Database) CountActiveSessions(ctx context.Context) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE expires_at >= ?", time.Now().Unix(),
	).Scan(&count)
	return count, err
}

// DeleteAllSessions logs every user out and returns how many sessions were
// removed.
func (d *Database) DeleteAllSessions(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { recordQuery("delete_all_sessions", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM sessions")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
