package session

import (
	"context"
	"time"
)

const (
	// CookieName is the session cookie issued to browsers.
	CookieName = "tournament_session"
	// TTL is the rolling session lifetime; reads refresh it.
	TTL = 24 * time.Hour
)

// Data is the principal binding held by a session. Exactly one of the two
// ids is ever set: a session belongs to a user or to an admin, never both.
type Data struct {
	UserID  uint `json:"user_id,omitempty"`
	AdminID uint `json:"admin_id,omitempty"`
}

// Store persists sessions keyed by opaque tokens. Implementations must
// treat unknown tokens as absent (nil, nil), not as errors, so that stale
// cookies resolve to anonymous and logout stays idempotent.
type Store interface {
	// Create stores data under a fresh opaque token and returns the token.
	Create(ctx context.Context, data Data) (string, error)
	// Get returns the session data for token, or nil when the token is
	// unknown or expired. Implementations refresh the TTL on read.
	Get(ctx context.Context, token string) (*Data, error)
	// Delete removes the session. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}
