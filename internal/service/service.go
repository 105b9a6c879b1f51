// Package service holds the business rules for accounts, stores and ratings.
// Every method re-checks the caller's role so non-HTTP callers obey the same
// rules as the API.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"store-rating/internal/core/cache"
)

// Cache keys shared by readers and the writes that invalidate them.
const (
	KeyStoreAggregate = "stores:aggregate"
	KeyDashboardStats = "dashboard:stats"
)

// TokenIssuer is satisfied by *auth.JWTer.
type TokenIssuer interface {
	Issue(uid uint64, role string) (string, error)
}

type cacheDeps struct {
	c   cache.Store
	ttl time.Duration
	log *zap.Logger
}

func newCacheDeps(c cache.Store, ttl time.Duration, l *zap.Logger) cacheDeps {
	if c == nil {
		c = cache.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return cacheDeps{c: c, ttl: ttl, log: l}
}

// invalidate drops keys after a committed write. A failure only costs
// freshness until the TTL runs out, so it is logged and swallowed.
func (d cacheDeps) invalidate(ctx context.Context, keys ...string) {
	if err := d.c.Invalidate(ctx, keys...); err != nil {
		d.log.Warn("cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
