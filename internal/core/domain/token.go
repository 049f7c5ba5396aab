package domain

import "time"

// RefreshToken is a long-lived credential exchanged for a fresh access token.
// Tokens are single-use: a refresh revokes the old token and issues a new one.
type RefreshToken struct {
	ID        int
	UserID    int
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
