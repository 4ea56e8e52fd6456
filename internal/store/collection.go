package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Collection is a read-all/write-all keyed list of records of one entity type.
// Every mutation re-reads the stored array, applies the change and writes the array back.
type Collection[T any] struct {
	backend Backend
	key     string
	idOf    func(T) string
	logger  *log.Logger

	mu sync.Mutex
}

// NewCollection constructs a collection stored under key. idOf returns the record identity.
func NewCollection[T any](backend Backend, key string, idOf func(T) string, logger *log.Logger) *Collection[T] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Collection[T]{
		backend: backend,
		key:     key,
		idOf:    idOf,
		logger:  logger,
	}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// All returns every stored record in insertion order.
// A payload that cannot be decoded is logged and treated as an empty collection.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	raw, ok, err := c.backend.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", c.key, err)
	}
	if !ok || len(strings.TrimSpace(string(raw))) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Error("stored collection is unreadable; treating as empty", "key", c.key, "err", err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Find returns the record with the given id.
func (c *Collection[T]) Find(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := c.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if c.idOf(item) == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns the records accepted by keep, in insertion order.
func (c *Collection[T]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	items, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Save replaces the record with the same id in place or appends it when absent.
func (c *Collection[T]) Save(ctx context.Context, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.All(ctx)
	if err != nil {
		return err
	}
	id := c.idOf(item)
	replaced := false
	for i := range items {
		if c.idOf(items[i]) == id {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	return c.write(ctx, items)
}

// Delete removes the record with the given id and reports whether it existed.
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.All(ctx)
	if err != nil {
		return false, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if c.idOf(item) != id {
			out = append(out, item)
		}
	}
	if len(out) == len(items) {
		return false, nil
	}
	return true, c.write(ctx, out)
}

// ReplaceAll overwrites the stored array with items.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if items == nil {
		items = []T{}
	}
	return c.write(ctx, items)
}

// write encodes and stores the full array.
func (c *Collection[T]) write(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c.key, err)
	}
	if err := c.backend.Set(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write collection %s: %w", c.key, err)
	}
	return nil
}
