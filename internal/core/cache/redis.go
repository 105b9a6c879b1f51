package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Store is a read-through byte cache. Implementations must fall back to load
// on any read failure so the cache never turns into a source of errors.
type Store interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

// kv is the slice of Redis the cache needs. A miss is (nil, false, nil).
type kv interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	incr(ctx context.Context, key string) error
}

type redisKV struct{ rdb *redis.Client }

func (r redisKV) get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r redisKV) set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, val, ttl).Err()
}

func (r redisKV) incr(ctx context.Context, key string) error {
	return r.rdb.Incr(ctx, key).Err()
}

// Cache stores each value under key:v<gen>, where gen lives in key:gen.
// Invalidate bumps gen, so a load that started before it can only ever
// write a version no reader will ask for again.
type Cache struct {
	RDB *redis.Client
	kv  kv
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
	return &Cache{RDB: rdb, kv: redisKV{rdb: rdb}}
}

func genKey(key string) string { return key + ":gen" }

func (c *Cache) generation(ctx context.Context, key string) (string, error) {
	b, ok, err := c.kv.get(ctx, genKey(key))
	if err != nil {
		return "", err
	}
	if !ok {
		return "0", nil
	}
	return string(b), nil
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	gen, err := c.generation(ctx, key)
	if err != nil {
		return load(ctx)
	}
	vkey := key + ":v" + gen
	if b, ok, err := c.kv.get(ctx, vkey); err == nil && ok {
		return b, nil
	}
	// collapse concurrent misses of the same generation into one load
	v, err, _ := c.sf.Do(vkey, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if now, e := c.generation(ctx, key); e == nil && now == gen {
			_ = c.kv.set(ctx, vkey, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := c.kv.incr(ctx, genKey(k)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// Nop always loads. Used when no Redis address is configured.
type Nop struct{}

func (Nop) GetOrLoad(ctx context.Context, _ string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	return load(ctx)
}

func (Nop) Invalidate(context.Context, ...string) error { return nil }
