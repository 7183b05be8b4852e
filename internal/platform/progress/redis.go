package progress

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is time after which progress of abandoned job is forgotten.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "import:progress:"

// Redis stores import jobs progress in Redis.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis returns new Redis progress store. Non-positive ttl means DefaultTTL.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Redis{
		client: client,
		ttl:    ttl,
	}
}

// Report stores job progress in percent.
func (r *Redis) Report(ctx context.Context, jobID int64, percent int) error {
	if err := r.client.Set(ctx, key(jobID), percent, r.ttl).Err(); err != nil {
		return fmt.Errorf("can't report progress of job %d: %w", jobID, err)
	}

	return nil
}

// Get returns job progress in percent, 0 if progress was never reported.
func (r *Redis) Get(ctx context.Context, jobID int64) (int, error) {
	value, err := r.client.Get(ctx, key(jobID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("can't get progress of job %d: %w", jobID, err)
	}

	percent, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("can't parse progress of job %d: %w", jobID, err)
	}

	return percent, nil
}

func key(jobID int64) string {
	return keyPrefix + strconv.FormatInt(jobID, 10)
}
