package session

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("session: missing session_id or user_id")

// Session represents an authenticated user session.
// It stores only identity pointers, not auth state.
type Session struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"` // references users.id
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"` // absolute expiry time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// New builds a session for userID with a fresh id.
func New(userID string, ttl time.Duration) (Session, error) {
	id, err := GenerateID()
	if err != nil {
		return Session{}, err
	}
	now := time.Now()
	return Session{
		SessionID: id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Store defines how sessions are stored and retrieved.
// Get returns (nil, nil) when the session does not exist.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

func validate(s Session, now time.Time) error {
	if s.SessionID == "" || s.UserID == "" {
		return ErrInvalidSession
	}
	if s.Expired(now) {
		return errors.New("session: expires_at must be in the future")
	}
	return nil
}
