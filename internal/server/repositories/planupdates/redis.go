package planupdates

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	redisVersionKey = "tripshare:plan-updates:version"
	redisMarksKey   = "tripshare:plan-updates"
	redisNamesKey   = "tripshare:plan-updates:names"
)

// redisCmdable is the part of *redis.Client the store needs.
type redisCmdable interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	ZRemRangeByScore(ctx context.Context, key, min, max string) *redis.IntCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

var _ redisCmdable = (*redis.Client)(nil)

// RedisStore keeps marks in a sorted set scored by version, with the
// display names in a side hash keyed by user id.
type RedisStore struct {
	rdb redisCmdable
}

func NewRedisStore(rdb redisCmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Mark(ctx context.Context, userID int64, name string) (int64, error) {
	v, err := s.rdb.Incr(ctx, redisVersionKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	member := strconv.FormatInt(userID, 10)
	if err := s.rdb.HSet(ctx, redisNamesKey, member, name).Err(); err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	if err := s.rdb.ZAdd(ctx, redisMarksKey, redis.Z{Score: float64(v), Member: member}).Err(); err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return v, nil
}

func (s *RedisStore) CurrentVersion(ctx context.Context) (int64, error) {
	v, err := s.rdb.Get(ctx, redisVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis error: %w", err)
	}
	return v, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.ZRange(ctx, redisMarksKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	names, err := s.rdb.HMGet(ctx, redisNamesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	for i, n := range names {
		if name, ok := n.(string); ok {
			out = append(out, name)
		} else {
			out = append(out, "user #"+ids[i])
		}
	}
	return out, nil
}

func (s *RedisStore) ClearUpTo(ctx context.Context, version int64) error {
	if err := s.rdb.ZRemRangeByScore(ctx, redisMarksKey, "-inf", strconv.FormatInt(version, 10)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
