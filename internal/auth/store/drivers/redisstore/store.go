// Package redisstore keeps the revocation list and the login attempt ledger
// in redis, so that several service replicas share them.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "reelgate"

	// DefaultAttemptRetention bounds how long an attempt key lives after
	// its last write. It must exceed the login window.
	DefaultAttemptRetention = 24 * time.Hour
)

// Options configures a Store. Zero values fall back to the defaults.
type Options struct {
	Prefix           string
	AttemptRetention time.Duration
}

// Store implements store.Revocations and store.LoginAttempts.
type Store struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
}

// New wraps an existing client. The caller owns the client and closes it.
func New(client redis.UniversalClient, opts Options) *Store {
	s := &Store{
		client:    client,
		prefix:    opts.Prefix,
		retention: opts.AttemptRetention,
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.retention <= 0 {
		s.retention = DefaultAttemptRetention
	}
	return s
}

// Connect dials addr and verifies the connection within timeout.
func Connect(ctx context.Context, addr, password string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Ping verifies the redis connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) key(parts ...string) string {
	k := s.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

func isNil(err error) bool { return errors.Is(err, redis.Nil) }
