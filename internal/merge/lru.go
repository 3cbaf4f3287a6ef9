package merge

import (
	"container/list"
	"sync"
)

// lruCache bounds the number of merge slots held. The front of order is the
// most recently touched key.
type lruCache struct {
	mu      sync.Mutex
	limit   int
	order   *list.List
	index   map[string]*list.Element
	onEvict func(key string)
}

type cached struct {
	key  string
	slot slot
}

func newLRUCache(limit int) *lruCache {
	return &lruCache{
		limit: limit,
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return slot{}, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cached).slot, true
}

// put installs sl under key. When the cache outgrows its limit the least
// recently touched slot is dropped and a later partial for that key starts a
// fresh merge.
func (c *lruCache) put(key string, sl slot) {
	c.mu.Lock()
	var evicted []string
	if el, ok := c.index[key]; ok {
		el.Value.(*cached).slot = sl
		c.order.MoveToFront(el)
	} else {
		c.index[key] = c.order.PushFront(&cached{key: key, slot: sl})
		for c.order.Len() > c.limit {
			oldest := c.order.Back()
			c.order.Remove(oldest)
			k := oldest.Value.(*cached).key
			delete(c.index, k)
			evicted = append(evicted, k)
		}
	}
	hook := c.onEvict
	c.mu.Unlock()

	if hook != nil {
		for _, k := range evicted {
			hook(k)
		}
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
