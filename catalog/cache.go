package catalog

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/syncwatch-cli/syncwatch/filesystem"
)

type cacheData[T any] struct {
	Entries map[string]T `json:"entries"`
}

// cacher is a keyed view over a single gache file. A nil cacher caches nothing.
type cacher[T any] struct {
	internal *gache.Cache[*cacheData[T]]
	mu       sync.RWMutex
}

func newCacher[T any](path string, lifetime time.Duration) *cacher[T] {
	if lifetime <= 0 {
		return nil
	}

	return &cacher[T]{
		internal: gache.New[*cacheData[T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (c *cacher[T]) Get(key string) mo.Option[T] {
	if c == nil {
		return mo.None[T]()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if v, ok := data.Entries[key]; ok {
		return mo.Some(v)
	}
	return mo.None[T]()
}

func (c *cacher[T]) Set(key string, v T) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		data = &cacheData[T]{Entries: make(map[string]T)}
	}
	data.Entries[key] = v
	return c.internal.Set(data)
}

// Clear drops every entry.
func (c *cacher[T]) Clear() error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internal.Set(&cacheData[T]{Entries: make(map[string]T)})
}
