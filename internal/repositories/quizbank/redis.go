package quizbank

import (
	"context"
	"encoding/json"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/certquest/internal/entities"
	"github.com/KirkDiggler/certquest/internal/errors"
	redisclient "github.com/KirkDiggler/certquest/internal/redis"
)

const (
	// Key pattern: quiz:questions:{category}
	questionsKeyPrefix = "quiz:questions:"
	categoriesKey      = "quiz:categories"
)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// RedisRepository is a Redis-backed bank that can also be seeded
type RedisRepository interface {
	Repository
	Seeder
}

// NewRedisRepository creates a new Redis-backed quiz bank
func NewRedisRepository(cfg *RedisConfig) (RedisRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("redis config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

// Ensure redisRepository implements RedisRepository
var _ RedisRepository = (*redisRepository)(nil)

func (r *redisRepository) buildKey(category string) string {
	return questionsKeyPrefix + category
}

// Seed replaces every category with the contents of doc in one transaction
func (r *redisRepository) Seed(ctx context.Context, doc *Document) error {
	if doc == nil {
		return errors.InvalidArgument("document is required")
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	existing, err := r.client.SMembers(ctx, categoriesKey).Result()
	if err != nil && err != redis.Nil {
		return errors.Wrap(err, "failed to read existing categories")
	}

	payloads := make(map[string][]byte, len(doc.Categories))
	for name, qs := range doc.Categories {
		if len(qs) == 0 {
			continue
		}
		data, err := json.Marshal(qs)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal category %s", name)
		}
		payloads[name] = data
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range existing {
			pipe.Del(ctx, r.buildKey(name))
		}
		pipe.Del(ctx, categoriesKey)
		for name, data := range payloads {
			pipe.Set(ctx, r.buildKey(name), data, 0)
			pipe.SAdd(ctx, categoriesKey, name)
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to seed quiz bank in Redis")
	}
	return nil
}

func (r *redisRepository) GetQuestions(ctx context.Context, category string) ([]*entities.Question, error) {
	data, err := r.client.Get(ctx, r.buildKey(category)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []*entities.Question{}, nil
		}
		return nil, errors.Wrapf(err, "failed to get questions for %s from Redis", category)
	}

	var questions []*entities.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal questions for %s", category)
	}
	return questions, nil
}

func (r *redisRepository) ListCategories(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, categoriesKey).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrap(err, "failed to list categories from Redis")
	}
	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	return names, nil
}
