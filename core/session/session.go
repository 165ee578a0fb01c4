package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAuthentication is returned when logging in to the ERP fails. It is fatal.
	ErrAuthentication = errors.New("authentication failed")
	// ErrInvalidSession is returned when a session would violate ExpiresAt > CreatedAt.
	ErrInvalidSession = errors.New("invalid session")
)

// Session is an authenticated ERP session.
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New builds a session created at createdAt that lives for lifetime.
func New(token string, createdAt time.Time, lifetime time.Duration) (Session, error) {
	if token == "" {
		return Session{}, fmt.Errorf("%w: empty token", ErrInvalidSession)
	}
	if lifetime <= 0 {
		return Session{}, fmt.Errorf("%w: non-positive lifetime %s", ErrInvalidSession, lifetime)
	}
	return Session{
		Token:     token,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(lifetime),
	}, nil
}

// Valid reports whether the session can be used at now.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}
