package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"playarena/pkg/logger"
)

type Service interface {
	// Generic cache operations
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error

	// Cache-aside pattern helpers
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error

	// Health check
	Ping(ctx context.Context) error
}

type service struct {
	client *redis.Client
	// flights collapses concurrent misses on one key into a single fetch
	flights singleflight.Group

	// epoch moves on every invalidation. A fill whose fetch overlapped one is not
	// written, and fills hold fillMu shared so an invalidation cannot slip between
	// the epoch check and the write.
	epoch  atomic.Uint64
	fillMu sync.RWMutex
}

func NewService(client *redis.Client) Service {
	return &service{client: client}
}

func (s *service) Get(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get error: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("cache unmarshal error: %w", err)
	}
	return nil
}

func (s *service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	return s.setRaw(ctx, key, raw, ttl)
}

func (s *service) setRaw(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

func (s *service) invalidated() {
	s.fillMu.Lock()
	s.epoch.Add(1)
	s.fillMu.Unlock()
}

func (s *service) Delete(ctx context.Context, key string) error {
	s.invalidated()
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// DeletePattern unlinks matching keys batch by batch while scanning
func (s *service) DeletePattern(ctx context.Context, pattern string) error {
	s.invalidated()
	iter := s.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.client.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("cache delete pattern error: %w", err)
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan error: %w", err)
	}
	return flush()
}

func (s *service) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	err := s.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.GetDefault().WarnContext(ctx, "cache get failed, fetching", "key", key, "error", err)
	}

	raw, err, shared := s.flights.Do(key, func() (interface{}, error) {
		start := s.epoch.Load()
		data, err := fetcher()
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal fetched data error: %w", err)
		}
		s.fill(ctx, key, encoded, ttl, start)
		return encoded, nil
	})
	if err != nil {
		return fmt.Errorf("fetcher error: %w", err)
	}
	if shared {
		logger.GetDefault().DebugContext(ctx, "cache fill shared", "key", key)
	}

	return json.Unmarshal(raw.([]byte), dest)
}

// fill stores a fetched value unless the cache was invalidated since start.
// A failed write only costs a future miss.
func (s *service) fill(ctx context.Context, key string, encoded []byte, ttl time.Duration, start uint64) {
	s.fillMu.RLock()
	defer s.fillMu.RUnlock()

	if s.epoch.Load() != start {
		logger.GetDefault().DebugContext(ctx, "cache fill skipped after invalidation", "key", key)
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := s.setRaw(writeCtx, key, encoded, ttl); err != nil {
		logger.GetDefault().WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func (s *service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

const (
	scanBatch    = 100
	writeTimeout = 2 * time.Second
)

var ErrCacheMiss = errors.New("cache miss")
