// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"container/list"
	"slices"
	"sync"

	"github.com/poiesic/recall/core"
)

// resultCache is a bounded, strict-LRU cache mapping a (seed, query)
// fingerprint to a previously selected statement list. A capacity of zero
// disables caching entirely: nothing is stored and every lookup misses.
// Safe for concurrent use; entries are guarded by a single mutex.
type resultCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*list.Element
	order    *list.List // front = most recently used
}

type cacheEntry struct {
	fingerprint uint64
	statements  []core.Statement
}

func newResultCache(capacity int) *resultCache {
	if capacity < 0 {
		capacity = 0
	}
	return &resultCache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element, capacity),
		order:    list.New(),
	}
}

// get returns a copy of the cached selection and promotes the entry to most
// recently used.
func (c *resultCache) get(fingerprint uint64) ([]core.Statement, bool) {
	if c.capacity == 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return slices.Clone(elem.Value.(*cacheEntry).statements), true
}

// put stores a copy of the selection, evicting the least-recently-used entry
// when over capacity.
func (c *resultCache) put(fingerprint uint64, statements []core.Statement) {
	if c.capacity == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[fingerprint]; ok {
		elem.Value.(*cacheEntry).statements = slices.Clone(statements)
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&cacheEntry{
		fingerprint: fingerprint,
		statements:  slices.Clone(statements),
	})
	c.entries[fingerprint] = elem

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
	}
}

// len reports the current number of entries.
func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
