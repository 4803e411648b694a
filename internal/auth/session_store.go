package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionRevokedKeyPrefix = "auth:session:revoked:"

// SessionStore records revoked session ids until the token would have expired anyway.
type SessionStore struct {
	redis redis.UniversalClient
}

func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{redis: client}
}

// Revoke marks the session identified by claims as logged out.
func (s *SessionStore) Revoke(ctx context.Context, claims *SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.redis.Set(ctx, sessionRevokedKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session id was revoked.
func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	err := s.redis.Get(ctx, sessionRevokedKeyPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return true, nil
}
