package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/storefront/backend/internal/infrastructure/cache"
)

// TokenBlacklist invalidates tokens before they expire (logout, password change)
type TokenBlacklist interface {
	// Revoke blacklists one token id for ttl, normally the token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// RevokeUser rejects every token of userID issued at or before now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

// CacheTokenBlacklist keeps revocations in a cache.Cache so every instance
// sharing the Redis backend sees them.
type CacheTokenBlacklist struct {
	cache     cache.Cache
	keyPrefix string
	now       func() time.Time
}

// NewCacheTokenBlacklist creates a blacklist backed by c
func NewCacheTokenBlacklist(c cache.Cache) *CacheTokenBlacklist {
	return &CacheTokenBlacklist{cache: c, keyPrefix: "auth:revoked:", now: time.Now}
}

func (b *CacheTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *CacheTokenBlacklist) userKey(userID string) string {
	return b.keyPrefix + "user:" + userID
}

// Revoke adds jti to the blacklist
func (b *CacheTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	if err := b.cache.Set(ctx, b.jtiKey(jti), []byte("1"), ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks the blacklist for jti
func (b *CacheTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ok, err := b.cache.Exists(ctx, b.jtiKey(jti))
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return ok, nil
}

// RevokeUser stores the invalidation instant for userID
func (b *CacheTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	stamp := strconv.FormatInt(b.now().UnixNano(), 10)
	if err := b.cache.Set(ctx, b.userKey(userID), []byte(stamp), ttl); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked reports whether a token issued at issuedAt predates the user's revocation.
// JWT iat has second precision, so the comparison is done in seconds.
func (b *CacheTokenBlacklist) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.cache.Get(ctx, b.userKey(userID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	nanos, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= time.Unix(0, nanos).Unix(), nil
}

// Ensure CacheTokenBlacklist implements TokenBlacklist
var _ TokenBlacklist = (*CacheTokenBlacklist)(nil)
