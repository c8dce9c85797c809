// Package redis wraps the go-redis client so repositories depend on a
// small interface that tests can back with miniredis.
package redis

import (
	"crypto/tls"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/certquest/internal/errors"
)

// Options configures the quiz bank connection
type Options struct {
	Password string
	DB       int
	UseTLS   bool
}

// NewClient creates a Redis client for a single instance. The connection is
// lazy; nothing is dialed until the first command.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:     endpoint,
		Password: opts.Password,
		DB:       opts.DB,
		PoolSize: 4,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return redis.NewClient(redisOpts), nil
}

// NewClientFromURL creates a client from a redis:// or rediss:// URL
func NewClientFromURL(url string) (Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "redis: invalid url")
	}
	return redis.NewClient(opt), nil
}
