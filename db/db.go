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

// Package db persists identified objects in an embedded key value store
// and keeps the recently used ones in an in-memory cache.
package db

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cubefs/cubefs/blobstore/common/trace"
	"github.com/cubefs/cubefs/blobstore/util/errors"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/compomics/utilities/common/kvstore"
	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/metrics"
	"github.com/compomics/utilities/waiting"
)

type Config struct {
	CacheSize int            `json:"cache_size"`
	KVOption  kvstore.Option `json:"kv_option"`
}

var debugInteractions int32

// SetDebugInteractions turns the debug logging of database interactions
// on or off for every open database.
func SetDebugInteractions(debug bool) {
	if debug {
		atomic.StoreInt32(&debugInteractions, 1)
		return
	}
	atomic.StoreInt32(&debugInteractions, 0)
}

func debugf(ctx context.Context, format string, args ...interface{}) {
	if atomic.LoadInt32(&debugInteractions) == 1 {
		trace.SpanFromContextSafe(ctx).Debugf(format, args...)
	}
}

// ObjectsDB stores objects by string key. Every access to the store is
// serialized by a single process wide permit.
type ObjectsDB struct {
	name string
	path string

	mutex   *semaphore.Weighted
	storage *storage
	cache   *ObjectsCache
	group   singleflight.Group
	closed  int32
}

// Open opens the database name under folder, creating it when missing.
// With overwrite an existing database is removed first.
func Open(ctx context.Context, folder, name string, overwrite bool, cfg *Config) (*ObjectsDB, error) {
	span := trace.SpanFromContextSafe(ctx)
	if cfg == nil {
		cfg = &Config{}
	}

	path, err := filepath.Abs(filepath.Join(folder, name))
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(path); err == nil && overwrite {
		span.Infof("removing existing database at %s", path)
		if err = os.RemoveAll(path); err != nil {
			return nil, errors.Info(err, "remove database folder failed")
		}
	}
	if err = os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Info(err, "cannot create database folder")
	}

	db := &ObjectsDB{
		name:  name,
		path:  path,
		mutex: semaphore.NewWeighted(1),
	}
	if db.storage, err = openStorage(ctx, filepath.Join(path, "kv"), cfg.KVOption); err != nil {
		return nil, errors.Info(err, "open storage failed")
	}
	if db.cache, err = newObjectsCache(cfg.CacheSize, db.storage.PutObjects); err != nil {
		db.storage.Close()
		return nil, err
	}
	span.Infof("objects database %s opened with %d stored keys", path, len(db.storage.idMap))
	return db, nil
}

// CreateLongKey hashes a string key into the long key objects are stored
// under. The same key always gives the same long key.
func CreateLongKey(key string) int64 {
	sum := md5.Sum([]byte(key))
	hexKey := hex.EncodeToString(sum[:])
	var longKey int64
	for i := 0; i < len(hexKey); i++ {
		longKey |= (int64(hexKey[i]) - '0') << ((i * 11) % 63)
	}
	return longKey
}

func (db *ObjectsDB) Name() string { return db.name }

func (db *ObjectsDB) Path() string { return db.path }

// ObjectsCache returns a read view of the cache in front of the store.
// Writes go through the database so that they hold its permit.
func (db *ObjectsDB) ObjectsCache() CacheView { return db.cache }

func (db *ObjectsDB) IsConnectionActive() bool {
	return atomic.LoadInt32(&db.closed) == 0
}

// IdMap returns a copy of the long key to storage id mapping.
func (db *ObjectsDB) IdMap() map[int64]uint64 {
	return db.storage.snapshot()
}

// acquire takes the database permit and returns the function releasing it
// and recording the operation.
func (db *ObjectsDB) acquire(ctx context.Context, op string) (func(err error), error) {
	if err := db.mutex.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if !db.IsConnectionActive() {
		db.mutex.Release(1)
		return nil, apierrors.ErrClosed
	}
	start := time.Now()
	return func(err error) {
		db.mutex.Release(1)
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.DBOperations.WithLabelValues(op, result).Inc()
		metrics.DBLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}, nil
}

// InsertObject caches obj under key. It is persisted when it leaves the
// cache, when the cache is saved or when the database is closed.
func (db *ObjectsDB) InsertObject(ctx context.Context, key string, obj IdObject) (err error) {
	debugf(ctx, "inserting single object %T, key: %s", obj, key)
	if _, err = ClassName(obj); err != nil {
		return err
	}
	done, err := db.acquire(ctx, "insert")
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	longKey := CreateLongKey(key)
	obj.SetID(longKey)
	return db.cache.AddObject(ctx, longKey, obj, true)
}

// InsertObjects caches and persists the given objects. Once handler is
// canceled the remaining objects are only cached as edited, they are
// persisted when they leave the cache or when the cache is saved.
func (db *ObjectsDB) InsertObjects(ctx context.Context, objects map[string]IdObject, handler waiting.Handler, displayProgress bool) (err error) {
	debugf(ctx, "inserting %d objects", len(objects))
	done, err := db.acquire(ctx, "insert_batch")
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	waiting.SetMax(handler, len(objects), displayProgress)
	for key, obj := range objects {
		if err = ctx.Err(); err != nil {
			return err
		}
		longKey := CreateLongKey(key)
		obj.SetID(longKey)
		if waiting.IsCanceled(handler) {
			if err = db.cache.AddObject(ctx, longKey, obj, true); err != nil {
				return err
			}
			continue
		}
		if err = db.storage.PutObjects(ctx, []IdObject{obj}); err != nil {
			return errors.Info(err, "persist object failed")
		}
		if err = db.cache.AddObject(ctx, longKey, obj, false); err != nil {
			return err
		}
		waiting.Increase(handler, displayProgress)
	}
	return nil
}

// LoadObjects loads the stored objects of the given keys into the cache
// and returns the long keys processed.
func (db *ObjectsDB) LoadObjects(ctx context.Context, keys []string, handler waiting.Handler, displayProgress bool) (hashedKeys []int64, err error) {
	debugf(ctx, "loading %d objects", len(keys))
	done, err := db.acquire(ctx, "load")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	waiting.SetMax(handler, len(keys), displayProgress)
	loaded := make(map[int64]IdObject, len(keys))
	hashedKeys = make([]int64, 0, len(keys))
	for _, key := range keys {
		if waiting.IsCanceled(handler) {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		longKey := CreateLongKey(key)
		hashedKeys = append(hashedKeys, longKey)
		if db.cache.InCache(longKey) {
			waiting.Increase(handler, displayProgress)
			continue
		}
		obj, err := db.storage.GetObject(ctx, longKey)
		switch err {
		case nil:
			loaded[longKey] = obj
		case apierrors.ErrNotFound:
		default:
			return nil, err
		}
		waiting.Increase(handler, displayProgress)
	}
	if waiting.IsCanceled(handler) {
		return hashedKeys, nil
	}
	return hashedKeys, db.cache.AddObjects(ctx, loaded, false)
}

// LoadObjectsByClass loads every stored object of a class into the cache.
func (db *ObjectsDB) LoadObjectsByClass(ctx context.Context, className string, handler waiting.Handler, displayProgress bool) (hashedKeys []int64, err error) {
	debugf(ctx, "loading all %s objects", className)
	done, err := db.acquire(ctx, "load_class")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	ids, err := db.storage.ListClass(ctx, className)
	if err != nil {
		return nil, err
	}
	waiting.SetMax(handler, len(ids), displayProgress)
	loaded := make(map[int64]IdObject, len(ids))
	for _, id := range ids {
		if waiting.IsCanceled(handler) {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		obj, err := db.storage.getObjectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		hashedKeys = append(hashedKeys, obj.ID())
		loaded[obj.ID()] = obj
		waiting.Increase(handler, displayProgress)
	}
	if waiting.IsCanceled(handler) {
		return hashedKeys, nil
	}
	return hashedKeys, db.cache.AddObjects(ctx, loaded, false)
}

// LoadObjectsFromIterator loads at most num objects read from it.
func (db *ObjectsDB) LoadObjectsFromIterator(ctx context.Context, it *ObjectsIterator, num int, handler waiting.Handler, displayProgress bool) (hashedKeys []int64, err error) {
	debugf(ctx, "loading %d objects", num)
	done, err := db.acquire(ctx, "load_iterator")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	waiting.SetMax(handler, num, displayProgress)
	loaded := make(map[int64]IdObject, num)
	for ; num > 0; num-- {
		if waiting.IsCanceled(handler) {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		obj, err := it.next(ctx)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			break
		}
		hashedKeys = append(hashedKeys, obj.ID())
		loaded[obj.ID()] = obj
		waiting.Increase(handler, displayProgress)
	}
	if waiting.IsCanceled(handler) {
		return hashedKeys, nil
	}
	return hashedKeys, db.cache.AddObjects(ctx, loaded, false)
}

// RetrieveObject returns the object stored under longKey, from the cache
// when possible. A missing object is nil without error.
func (db *ObjectsDB) RetrieveObject(ctx context.Context, longKey int64) (IdObject, error) {
	debugf(ctx, "retrieving one object with key: %d", longKey)
	if obj := db.cache.GetObject(longKey); obj != nil {
		return obj, nil
	}

	// the shared load must not fail with the context of one caller
	detached := trace.ContextWithSpan(context.Background(), trace.SpanFromContextSafe(ctx))
	ch := db.group.DoChan(strconv.FormatInt(longKey, 10), func() (interface{}, error) {
		return db.retrieve(detached, longKey)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil || res.Val == nil {
			return nil, res.Err
		}
		return res.Val.(IdObject), nil
	}
}

func (db *ObjectsDB) retrieve(ctx context.Context, longKey int64) (obj IdObject, err error) {
	done, err := db.acquire(ctx, "retrieve")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	if obj = db.cache.GetObject(longKey); obj != nil {
		return obj, nil
	}
	obj, err = db.storage.GetObject(ctx, longKey)
	if err == apierrors.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return obj, db.cache.AddObject(ctx, longKey, obj, false)
}

// RetrieveObjectByKey is RetrieveObject for a string key.
func (db *ObjectsDB) RetrieveObjectByKey(ctx context.Context, key string) (IdObject, error) {
	return db.RetrieveObject(ctx, CreateLongKey(key))
}

// RetrieveObjects returns the objects of the given keys in order, nil for
// the missing ones.
func (db *ObjectsDB) RetrieveObjects(ctx context.Context, keys []string, handler waiting.Handler, displayProgress bool) (ret []IdObject, err error) {
	debugf(ctx, "retrieving %d objects", len(keys))
	done, err := db.acquire(ctx, "retrieve_batch")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	waiting.SetMax(handler, len(keys), displayProgress)
	ret = make([]IdObject, 0, len(keys))
	loaded := make(map[int64]IdObject)
	for _, key := range keys {
		if waiting.IsCanceled(handler) {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		longKey := CreateLongKey(key)
		obj := db.cache.GetObject(longKey)
		if obj == nil {
			obj, err = db.storage.GetObject(ctx, longKey)
			switch err {
			case nil:
				loaded[longKey] = obj
			case apierrors.ErrNotFound:
				obj, err = nil, nil
			default:
				return nil, err
			}
		}
		ret = append(ret, obj)
		waiting.Increase(handler, displayProgress)
	}
	if waiting.IsCanceled(handler) {
		return ret, nil
	}
	return ret, db.cache.AddObjects(ctx, loaded, false)
}

// RetrieveObjectsByClass returns every object of a class, cached objects
// taking precedence over their stored version.
func (db *ObjectsDB) RetrieveObjectsByClass(ctx context.Context, className string, handler waiting.Handler, displayProgress bool) (ret []IdObject, err error) {
	debugf(ctx, "retrieving all %s objects", className)
	done, err := db.acquire(ctx, "retrieve_class")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	ids, err := db.storage.ListClass(ctx, className)
	if err != nil {
		return nil, err
	}
	waiting.SetMax(handler, len(ids), displayProgress)
	loaded := make(map[int64]IdObject, len(ids))
	for _, id := range ids {
		if waiting.IsCanceled(handler) {
			break
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		obj, err := db.storage.getObjectByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if cached := db.cache.GetObject(obj.ID()); cached != nil {
			obj = cached
		} else {
			loaded[obj.ID()] = obj
		}
		ret = append(ret, obj)
		waiting.Increase(handler, displayProgress)
	}
	if waiting.IsCanceled(handler) {
		return ret, nil
	}
	return ret, db.cache.AddObjects(ctx, loaded, false)
}

// RemoveObject removes the object of key from the cache and the store.
func (db *ObjectsDB) RemoveObject(ctx context.Context, key string) (err error) {
	debugf(ctx, "removing object with key: %s", key)
	done, err := db.acquire(ctx, "remove")
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	longKey := CreateLongKey(key)
	db.cache.RemoveObject(longKey)
	return db.storage.DeleteObjects(ctx, []int64{longKey})
}

// RemoveObjects removes the objects of keys from the cache and the store.
func (db *ObjectsDB) RemoveObjects(ctx context.Context, keys []string, handler waiting.Handler, displayProgress bool) (err error) {
	debugf(ctx, "removing %d objects", len(keys))
	done, err := db.acquire(ctx, "remove_batch")
	if err != nil {
		return err
	}
	defer func() { done(err) }()

	waiting.SetMax(handler, len(keys), displayProgress)
	longKeys := make([]int64, 0, len(keys))
	for _, key := range keys {
		if waiting.IsCanceled(handler) {
			break
		}
		longKey := CreateLongKey(key)
		db.cache.RemoveObject(longKey)
		longKeys = append(longKeys, longKey)
		waiting.Increase(handler, displayProgress)
	}
	return db.storage.DeleteObjects(ctx, longKeys)
}

// InCache tells whether the object of key is currently cached.
func (db *ObjectsDB) InCache(key string) bool {
	return db.cache.InCache(CreateLongKey(key))
}

// InDB tells whether the object of key is cached or stored.
func (db *ObjectsDB) InDB(ctx context.Context, key string) (bool, error) {
	longKey := CreateLongKey(key)
	if db.cache.InCache(longKey) {
		return true, nil
	}

	debugf(ctx, "checking db content, key: %s", key)
	done, err := db.acquire(ctx, "in_db")
	if err != nil {
		return false, err
	}
	defer done(nil)
	_, ok := db.storage.lookup(longKey)
	return ok, nil
}

// Number returns the count of stored objects of a class. Objects only
// present in the cache are not counted.
func (db *ObjectsDB) Number(ctx context.Context, className string) (n int, err error) {
	debugf(ctx, "counting %s objects", className)
	done, err := db.acquire(ctx, "number")
	if err != nil {
		return 0, err
	}
	defer func() { done(err) }()
	return db.storage.Count(ctx, className)
}

// SaveCache persists the edited cached objects.
func (db *ObjectsDB) SaveCache(ctx context.Context, handler waiting.Handler, displayProgress bool) (err error) {
	debugf(ctx, "saving cache")
	done, err := db.acquire(ctx, "save_cache")
	if err != nil {
		return err
	}
	defer func() { done(err) }()
	return db.cache.SaveCache(ctx, handler, displayProgress)
}

// ClearCache persists the edited cached objects and empties the cache.
func (db *ObjectsDB) ClearCache(ctx context.Context) (err error) {
	debugf(ctx, "clearing cache")
	done, err := db.acquire(ctx, "clear_cache")
	if err != nil {
		return err
	}
	defer func() { done(err) }()
	return db.cache.ClearCache(ctx)
}

// Stats returns the usage of the underlying store.
func (db *ObjectsDB) Stats(ctx context.Context) (stats kvstore.Stats, err error) {
	done, err := db.acquire(ctx, "stats")
	if err != nil {
		return stats, err
	}
	defer func() { done(err) }()
	return db.storage.kvStore.Stats(ctx)
}

// Close saves the cache and closes the store. Closing twice is a no-op.
func (db *ObjectsDB) Close(ctx context.Context) error {
	span := trace.SpanFromContextSafe(ctx)
	if err := db.mutex.Acquire(ctx, 1); err != nil {
		return err
	}
	defer db.mutex.Release(1)
	if !atomic.CompareAndSwapInt32(&db.closed, 0, 1) {
		return nil
	}

	err := db.cache.ClearCache(ctx)
	if err != nil {
		span.Errorf("save cache of %s failed: %s", db.path, errors.Detail(err))
	}
	db.storage.Close()
	span.Infof("objects database %s closed", db.path)
	return err
}
