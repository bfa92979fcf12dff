package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sandeshkarki55/accounting-software-sub002/internal/apperrors"
	"github.com/sandeshkarki55/accounting-software-sub002/internal/core/domain"
	portsrepo "github.com/sandeshkarki55/accounting-software-sub002/internal/core/ports/repositories"
)

const keyPrefix = "sequence:"

// SequenceCounter advances sequences with INCR. Values are not rolled back
// when the surrounding unit of work fails, which leaves gaps.
type SequenceCounter struct {
	client *goredis.Client
}

var _ portsrepo.SequenceCounter = (*SequenceCounter)(nil)

func NewSequenceCounter(client *goredis.Client) *SequenceCounter {
	return &SequenceCounter{client: client}
}

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("unable to reach redis: %w", err)
	}
	return client, nil
}

func (c *SequenceCounter) Next(ctx context.Context, kind domain.SequenceKind) (int64, error) {
	v, err := c.client.Incr(ctx, keyPrefix+string(kind)).Result()
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to increment sequence "+string(kind), err)
	}
	return v, nil
}
