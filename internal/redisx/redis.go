package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Deduper remembers settlement event ids so a replayed kafka message can be
// skipped without touching the database. The database stays authoritative;
// this is only a fast path, so errors degrade to "not seen".
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client) *Deduper {
	return &Deduper{rdb: rdb, ttl: TTLDedup}
}

func (d *Deduper) Seen(ctx context.Context, id string) bool {
	n, err := d.rdb.Exists(ctx, dedupKey(id)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (d *Deduper) Mark(ctx context.Context, id string) {
	_ = d.rdb.Set(ctx, dedupKey(id), "1", d.ttl).Err()
}
