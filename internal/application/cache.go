package application

import (
	"context"
	"errors"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"
)

var ErrNotCached = errors.New("key not cached")

type GenerateFunc[T any] func(ctx context.Context, n int) ([]T, error)

type FallbackFunc[T any] func(n int) []T

// Outcome reports how a cache entry was produced. Cause is the generator error
// that forced a full fallback, if any.
type Outcome struct {
	Generated int
	Fallback  int
	Cached    bool
	Cause     error
}

func (o Outcome) Degraded() bool {
	return o.Fallback > 0
}

// Cache memoizes generated content per key for the lifetime of a session.
// Each key is generated at most once; concurrent callers for the same key share
// the first caller's generation.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string][]T
	group   singleflight.Group
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: map[string][]T{}}
}

func (c *Cache[T]) Get(key string) ([]T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

type filled[T any] struct {
	items   []T
	outcome Outcome
}

// GetOrGenerate returns the content stored under key, generating it on first
// use. Exactly n items are stored: the first M from generate (truncated to n)
// followed by fallback(n-M). A generate error counts as M = 0, except context
// cancellation, which stores nothing.
func (c *Cache[T]) GetOrGenerate(ctx context.Context, key string, n int, generate GenerateFunc[T], fallback FallbackFunc[T]) ([]T, Outcome, error) {
	if items, ok := c.Get(key); ok {
		return items, Outcome{Cached: true}, nil
	}

	result := c.group.DoChan(key, func() (any, error) {
		if items, ok := c.Get(key); ok {
			return filled[T]{items: items, outcome: Outcome{Cached: true}}, nil
		}

		items, outcome, err := fill(ctx, n, generate, fallback)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = items
		c.mu.Unlock()

		return filled[T]{items: items, outcome: outcome}, nil
	})

	select {
	case <-ctx.Done():
		return nil, Outcome{}, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return nil, Outcome{}, res.Err
		}
		entry := res.Val.(filled[T])
		outcome := entry.outcome
		if res.Shared {
			outcome.Cached = true
		}
		return slices.Clone(entry.items), outcome, nil
	}
}

func fill[T any](ctx context.Context, n int, generate GenerateFunc[T], fallback FallbackFunc[T]) ([]T, Outcome, error) {
	if n < 0 {
		n = 0
	}

	generated, err := generate(ctx, n)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, Outcome{}, ctxErr
	}

	var outcome Outcome
	if err != nil {
		generated = nil
		outcome.Cause = err
	}
	if len(generated) >= n {
		outcome.Generated = n
		return slices.Clone(generated[:n]), outcome, nil
	}

	items := make([]T, 0, n)
	items = append(items, generated...)
	remainder := n - len(generated)
	extra := fallback(remainder)
	if len(extra) > remainder {
		extra = extra[:remainder]
	}
	items = append(items, extra...)

	outcome.Generated = len(generated)
	outcome.Fallback = len(extra)
	return items, outcome, nil
}

// Update mutates the stored content for key in place.
func (c *Cache[T]) Update(key string, fn func(items []T) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, ok := c.entries[key]
	if !ok {
		return ErrNotCached
	}
	return fn(items)
}
