package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned on a cache miss.
var ErrNotFound = errors.New("key not found in cache")

// Keys shared by writers and invalidators.
const (
	KeyCourseSummaries = "courses:summaries"
)

// Cache stores JSON-encoded values. Implementations return ErrNotFound on a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Noop is used when caching is disabled: every read misses and writes are dropped.
type Noop struct{}

func (Noop) GetJSON(context.Context, string, interface{}) error { return ErrNotFound }

func (Noop) SetJSON(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }

func (Noop) Close() error { return nil }
