package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps the redis client used for the generation rate limiter.
type Store struct {
	rdb    *redis.Client
	quota  int
	window time.Duration
}

func New(addr, password string, db int, quota int, window time.Duration) *Store {
	if quota <= 0 {
		quota = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		quota:  quota,
		window: window,
	}
}

func limiterKey(userID uint64) string {
	return "ratelimit:generate:" + strconv.FormatUint(userID, 10)
}

// Allow implements a sliding-window limiter over a ZSET: drop entries older
// than the window, count what remains, and admit the request only while the
// count is under quota. Consulted once per generation request, not per slide.
func (s *Store) Allow(ctx context.Context, userID uint64) (bool, error) {
	key := limiterKey(userID)
	now := time.Now()
	windowStart := now.Add(-s.window)

	pipe := s.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key,
		"0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: %w", err)
	}

	if countCmd.Val() >= int64(s.quota) {
		return false, nil
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), userID)
	pipe = s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: %w", err)
	}

	return true, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
