package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	gocache "github.com/patrickmn/go-cache"
)

// Cache is a byte-value TTL cache. Get returns ok=false on any miss or
// backend error; callers fall through to the source of truth.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}

// Memcached adapts a memcache client to the Cache interface.
type Memcached struct {
	mc *memcache.Client
}

func NewMemcached(mc *memcache.Client) *Memcached {
	return &Memcached{mc: mc}
}

func (c *Memcached) Get(key string) ([]byte, bool) {
	item, err := c.mc.Get(key)
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (c *Memcached) Set(key string, value []byte, ttl time.Duration) {
	c.mc.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(ttl / time.Second),
	})
}

func (c *Memcached) Delete(key string) {
	c.mc.Delete(key)
}

// Local is an in-process fallback used when no memcached server is
// configured.
type Local struct {
	store *gocache.Cache
}

func NewLocal() *Local {
	return &Local{store: gocache.New(time.Minute, 5*time.Minute)}
}

func (c *Local) Get(key string) ([]byte, bool) {
	value, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	bytes, ok := value.([]byte)
	return bytes, ok
}

func (c *Local) Set(key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *Local) Delete(key string) {
	c.store.Delete(key)
}
