package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest password bcrypt accepts.
const MaxPasswordLength = 72

var (
	// ErrInvalidCredentials is returned for any username or password mismatch.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPasswordTooLong is returned for passwords bcrypt would truncate.
	ErrPasswordTooLong = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	// ErrNoCredentials is returned when neither a password nor a hash is configured.
	ErrNoCredentials = errors.New("no password or password hash configured")
)

// cost is the bcrypt cost used when hashing at startup.
var cost = bcrypt.DefaultCost

// Authenticator checks logins against the single configured account.
type Authenticator struct {
	username string
	hash     []byte
}

// New builds an authenticator for username. passwordHash, a bcrypt hash,
// takes precedence; otherwise password is hashed once so the plain text is
// not kept in memory.
func New(username, password, passwordHash string) (*Authenticator, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid password hash: %w", err)
		}
		return &Authenticator{username: username, hash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, ErrNoCredentials
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Authenticator{username: username, hash: []byte(hash)}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks username and password. The password hash is always
// compared so a wrong username costs the same as a wrong password.
func (a *Authenticator) Verify(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Username returns the configured account name.
func (a *Authenticator) Username() string {
	return a.username
}
