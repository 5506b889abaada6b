// Package session defines storage for OAuth session tokens. Implementations
// include PostgreSQL (source of truth), Redis (native TTL expiry), and
// in-memory (development and testing). Sessions always expire; none of the
// backends retains a token past its TTL.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session: not found")

// Token is the OAuth credential stored per session.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Store is the session persistence interface.
type Store interface {
	// Get retrieves the token for a session ID. Returns ErrNotFound for
	// unknown or expired sessions.
	Get(ctx context.Context, id string) (*Token, error)

	// Put stores a token under a session ID, resetting its TTL.
	Put(ctx context.Context, id string, token *Token) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
