package redisstore

import (
	"context"
	"strconv"
	"time"

	"github.com/aussiebroadwan/reelgate/internal/auth/domain"
	"github.com/redis/go-redis/v9"
)

// Each attempt is a member of one sorted set per ip and, when present, one
// per email, scored by its time in unix milliseconds. Counting unions the
// members of both sets, so an attempt that matches on ip and email is
// counted once.

func (s *Store) ipKey(ip string) string       { return s.key("attempts", "ip", ip) }
func (s *Store) emailKey(email string) string { return s.key("attempts", "email", email) }

func (s *Store) RecordAttempt(ctx context.Context, a domain.LoginAttempt) error {
	member := redis.Z{Score: float64(a.At.UnixMilli()), Member: a.ID}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, s.ipKey(a.IP), member)
		p.Expire(ctx, s.ipKey(a.IP), s.retention)
		if a.Email != "" {
			p.ZAdd(ctx, s.emailKey(a.Email), member)
			p.Expire(ctx, s.emailKey(a.Email), s.retention)
		}
		return nil
	})
	return err
}

func (s *Store) CountRecentAttempts(ctx context.Context, email, ip string, since time.Time) (int, error) {
	rng := &redis.ZRangeBy{Min: strconv.FormatInt(since.UnixMilli(), 10), Max: "+inf"}

	keys := []string{s.ipKey(ip)}
	if email != "" {
		keys = append(keys, s.emailKey(email))
	}

	cmds := make([]*redis.StringSliceCmd, len(keys))
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = p.ZRangeByScore(ctx, k, rng)
		}
		return nil
	})
	if err != nil && !isNil(err) {
		return 0, err
	}

	seen := make(map[string]struct{})
	for _, cmd := range cmds {
		members, err := cmd.Result()
		if err != nil && !isNil(err) {
			return 0, err
		}
		for _, m := range members {
			seen[m] = struct{}{}
		}
	}
	return len(seen), nil
}

// DeleteAttemptsBefore trims every attempt set. Keys also expire on their
// own after the retention period.
func (s *Store) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	maxScore := "(" + strconv.FormatInt(cutoff.UnixMilli(), 10)

	var removed int64
	iter := s.client.Scan(ctx, 0, s.key("attempts", "*"), 100).Iterator()
	for iter.Next(ctx) {
		n, err := s.client.ZRemRangeByScore(ctx, iter.Val(), "-inf", maxScore).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, iter.Err()
}
