// Package cache keeps compiled DFAs in Redis, keyed by their pattern.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"regexfa/internal/regexlib"
)

// ErrMiss is returned by Get when no DFA is stored for a pattern.
var ErrMiss = errors.New("cache miss")

// Store persists DFA transition tables in Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of stored entries. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New connects a store to the Redis server at address.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient wraps an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "regexfa:dfa:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// key hashes the pattern so arbitrary runes never end up in a key name.
func (s *Store) key(pattern string) string {
	sum := sha256.Sum256([]byte(pattern))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Put stores d under pattern.
func (s *Store) Put(ctx context.Context, pattern string, d *regexlib.DFA) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dfa: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(pattern), data, s.ttl)

	// Index score is the expiry time, so List can prune lazily.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: pattern})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get loads the DFA stored under pattern.
func (s *Store) Get(ctx context.Context, pattern string) (*regexlib.DFA, error) {
	val, err := s.client.Get(ctx, s.key(pattern)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var d regexlib.DFA
	if err := json.Unmarshal(val, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dfa: %w", err)
	}
	return &d, nil
}

// Delete removes the entry for pattern.
func (s *Store) Delete(ctx context.Context, pattern string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(pattern))
	pipe.ZRem(ctx, s.indexKey(), pattern)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns the patterns with live entries, dropping expired ones from
// the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired entries: %w", err)
	}
	patterns, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return patterns, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
