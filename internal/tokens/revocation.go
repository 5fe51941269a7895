package tokens

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "stockboard:revoked:"

// Revocations keeps withdrawn token IDs in Redis until the token would have
// expired anyway. A nil *Revocations revokes nothing.
type Revocations struct {
	client *redis.Client
}

func NewRevocations(c *redis.Client) *Revocations {
	if c == nil {
		return nil
	}
	return &Revocations{client: c}
}

// Revoke marks jti as revoked until expiresAt. Already expired tokens are skipped.
func (r *Revocations) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if r == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether jti was revoked and has not yet expired.
func (r *Revocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
