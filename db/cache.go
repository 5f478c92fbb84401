// Copyright 2023 The Compomics Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package db

import (
	"context"
	"sort"
	"sync"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/compomics/utilities/metrics"
	"github.com/compomics/utilities/waiting"
)

const defaultCacheSize = 10000

type cacheEntry struct {
	longKey int64
	object  IdObject
	edited  bool
}

// writeBackFunc persists edited objects leaving the cache.
type writeBackFunc func(ctx context.Context, objs []IdObject) error

// CacheView is the read side of the objects cache.
type CacheView interface {
	GetObject(longKey int64) IdObject
	InCache(longKey int64) bool
	Len() int
}

// ObjectsCache keeps the most recently used objects in memory. Objects
// marked as edited are written back when they are evicted, saved or when
// the cache is cleared. Writes are serialized by the database permit.
type ObjectsCache struct {
	lock      sync.Mutex
	lru       *simplelru.LRU[int64, *cacheEntry]
	evicted   []*cacheEntry
	writeBack writeBackFunc
}

func newObjectsCache(size int, writeBack writeBackFunc) (*ObjectsCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c := &ObjectsCache{writeBack: writeBack}
	lru, err := simplelru.NewLRU[int64, *cacheEntry](size, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = lru
	return c, nil
}

// onEvict runs under c.lock, from Add, Remove and Purge.
func (c *ObjectsCache) onEvict(_ int64, e *cacheEntry) {
	metrics.CacheEvents.WithLabelValues("evict").Inc()
	if e.edited {
		c.evicted = append(c.evicted, e)
	}
}

func (c *ObjectsCache) add(longKey int64, obj IdObject, edited bool) {
	if e, ok := c.lru.Get(longKey); ok {
		e.object = obj
		e.edited = e.edited || edited
		return
	}
	c.lru.Add(longKey, &cacheEntry{longKey: longKey, object: obj, edited: edited})
}

// AddObject caches obj under longKey. Edited objects not yet saved are
// written back when they leave the cache.
func (c *ObjectsCache) AddObject(ctx context.Context, longKey int64, obj IdObject, edited bool) error {
	c.lock.Lock()
	c.add(longKey, obj, edited)
	evicted := c.takeEvicted()
	c.lock.Unlock()
	return c.flush(ctx, evicted)
}

// AddObjects caches objs. Keys are added in ascending order.
func (c *ObjectsCache) AddObjects(ctx context.Context, objs map[int64]IdObject, edited bool) error {
	keys := make([]int64, 0, len(objs))
	for k := range objs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	c.lock.Lock()
	for _, k := range keys {
		c.add(k, objs[k], edited)
	}
	evicted := c.takeEvicted()
	c.lock.Unlock()
	return c.flush(ctx, evicted)
}

// GetObject returns the cached object or nil.
func (c *ObjectsCache) GetObject(longKey int64) IdObject {
	c.lock.Lock()
	e, ok := c.lru.Get(longKey)
	c.lock.Unlock()
	if !ok {
		metrics.CacheEvents.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.CacheEvents.WithLabelValues("hit").Inc()
	return e.object
}

// RemoveObject drops an object without writing it back.
func (c *ObjectsCache) RemoveObject(longKey int64) {
	c.lock.Lock()
	if e, ok := c.lru.Peek(longKey); ok {
		e.edited = false
		c.lru.Remove(longKey)
	}
	c.lock.Unlock()
	metrics.CacheSize.Set(float64(c.Len()))
}

func (c *ObjectsCache) InCache(longKey int64) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Contains(longKey)
}

func (c *ObjectsCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Len()
}

// SaveCache writes back every edited object. The objects stay cached.
func (c *ObjectsCache) SaveCache(ctx context.Context, handler waiting.Handler, displayProgress bool) error {
	c.lock.Lock()
	var edited []*cacheEntry
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && e.edited {
			edited = append(edited, e)
		}
	}
	c.lock.Unlock()

	waiting.SetMax(handler, len(edited), displayProgress)
	if len(edited) == 0 || waiting.IsCanceled(handler) {
		return nil
	}
	if err := c.flush(ctx, edited); err != nil {
		return err
	}
	for range edited {
		waiting.Increase(handler, displayProgress)
	}
	return nil
}

// ClearCache saves the edited objects and empties the cache.
func (c *ObjectsCache) ClearCache(ctx context.Context) error {
	if err := c.SaveCache(ctx, nil, false); err != nil {
		return err
	}
	c.lock.Lock()
	c.lru.Purge()
	evicted := c.takeEvicted()
	c.lock.Unlock()
	return c.flush(ctx, evicted)
}

func (c *ObjectsCache) takeEvicted() []*cacheEntry {
	evicted := c.evicted
	c.evicted = nil
	metrics.CacheSize.Set(float64(c.lru.Len()))
	return evicted
}

func (c *ObjectsCache) flush(ctx context.Context, entries []*cacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	c.lock.Lock()
	objs := make([]IdObject, 0, len(entries))
	for _, e := range entries {
		objs = append(objs, e.object)
	}
	c.lock.Unlock()
	if err := c.writeBack(ctx, objs); err != nil {
		return errors.Info(err, "write back cached objects failed")
	}

	c.lock.Lock()
	for i, e := range entries {
		// replaced while written back
		if e.object == objs[i] {
			e.edited = false
		}
	}
	c.lock.Unlock()
	metrics.CacheEvents.WithLabelValues("write_back").Add(float64(len(objs)))
	trace.SpanFromContextSafe(ctx).Debugf("wrote back %d cached objects", len(objs))
	return nil
}
