package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/mutagraph/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.TraceStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.TraceStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration for archived traces.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for traces.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis trace store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis trace store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "mutagraph:trace:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(keyspace string) string {
	return s.prefix + keyspace
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the trace and indexes the keyspace.
func (s *Store) Save(ctx context.Context, keyspace string, trace string) error {
	pipe := s.client.Pipeline()

	pipe.Set(ctx, s.key(keyspace), trace, s.ttl)

	// Score = expiry time, so List can prune lazily. No TTL sorts last.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: keyspace,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save trace to redis: %w", err)
	}
	return nil
}

// Load retrieves the trace for the keyspace.
func (s *Store) Load(ctx context.Context, keyspace string) (string, error) {
	val, err := s.client.Get(ctx, s.key(keyspace)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", ports.ErrTraceNotFound
		}
		return "", fmt.Errorf("failed to get trace from redis: %w", err)
	}
	return val, nil
}

// Delete removes the trace and its index entry.
func (s *Store) Delete(ctx context.Context, keyspace string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(keyspace))
	pipe.ZRem(ctx, s.indexKey(), keyspace)

	_, err := pipe.Exec(ctx)
	return err
}

// List prunes expired index entries and returns the remaining keyspaces.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired traces: %w", err)
	}

	keyspaces, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}
	return keyspaces, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
