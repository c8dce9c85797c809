package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client is the slice of go-redis the quiz bank needs. *redis.Client,
// cluster clients and miniredis-backed clients all satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var _ Client = (*redis.Client)(nil)
