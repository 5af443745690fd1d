// Package redis provides a Redis-backed ports.ReportStore.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "wayfinder:report:"

// Store implements ports.ReportStore using Redis.
// Reports are JSON strings; a sorted set indexes them by creation time.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for reports.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for reports.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the report and indexes it by creation time.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	created := report.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(report.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(created.UnixMilli()),
		Member: report.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a report from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes the report and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns report IDs, most recent first. When a TTL is set, index
// entries older than the TTL are pruned first since their reports expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		cutoff := float64(time.Now().Add(-s.ttl).UnixMilli())
		err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("(%f", cutoff)).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to prune expired reports: %w", err)
		}
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
