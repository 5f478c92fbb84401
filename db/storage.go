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
	"sync"

	"github.com/compomics/utilities/common/kvstore"
	apierrors "github.com/compomics/utilities/errors"
)

const (
	objectsCF kvstore.CF = "objects"
	indexCF   kvstore.CF = "index"
	classCF   kvstore.CF = "class"
	idCF      kvstore.CF = "id"
)

var lastIDKey = []byte("last")

type location struct {
	id    uint64
	class string
}

// storage maps long keys to storage ids and reads and writes the records.
// Callers serialize the write paths.
type storage struct {
	kvStore kvstore.Store

	lock   sync.RWMutex
	lastID uint64
	idMap  map[int64]location
}

func openStorage(ctx context.Context, path string, option kvstore.Option) (*storage, error) {
	option.CreateIfMissing = true
	option.ColumnFamily = []kvstore.CF{objectsCF, indexCF, classCF, idCF}
	kvStore, err := kvstore.NewKVStore(ctx, path, kvstore.RocksdbLsmKVType, &option)
	if err != nil {
		return nil, err
	}
	s := &storage{kvStore: kvStore, idMap: make(map[int64]location)}
	if err = s.load(ctx); err != nil {
		kvStore.Close()
		return nil, err
	}
	return s, nil
}

func (s *storage) load(ctx context.Context) error {
	raw, err := s.kvStore.GetRaw(ctx, idCF, lastIDKey)
	switch err {
	case nil:
		if s.lastID, err = decodeStorageID(raw); err != nil {
			return err
		}
	case kvstore.ErrNotFound:
	default:
		return err
	}

	lr := s.kvStore.List(ctx, indexCF, nil, nil)
	defer lr.Close()
	for {
		kg, vg, err := lr.ReadNext()
		if err != nil {
			return err
		}
		if kg == nil || vg == nil {
			return nil
		}
		longKey, err := decodeStorageID(kg.Key())
		if err == nil {
			var loc location
			loc.id, loc.class, err = decodeIndexValue(vg.Value())
			s.idMap[int64(longKey)] = loc
		}
		kg.Close()
		vg.Close()
		if err != nil {
			return err
		}
	}
}

func (s *storage) lookup(longKey int64) (location, bool) {
	s.lock.RLock()
	loc, ok := s.idMap[longKey]
	s.lock.RUnlock()
	return loc, ok
}

func (s *storage) snapshot() map[int64]uint64 {
	s.lock.RLock()
	ret := make(map[int64]uint64, len(s.idMap))
	for k, loc := range s.idMap {
		ret[k] = loc.id
	}
	s.lock.RUnlock()
	return ret
}

func (s *storage) PutObjects(ctx context.Context, objs []IdObject) error {
	if len(objs) == 0 {
		return nil
	}
	batch := s.kvStore.NewWriteBatch()
	defer batch.Close()

	s.lock.Lock()
	defer s.lock.Unlock()

	lastID := s.lastID
	added := make(map[int64]location, len(objs))
	for _, obj := range objs {
		data, class, err := encodeRecord(obj)
		if err != nil {
			return err
		}
		longKey := obj.ID()
		loc, ok := added[longKey]
		if !ok {
			loc, ok = s.idMap[longKey]
		}
		if !ok {
			lastID++
			loc.id = lastID
		} else if loc.class != class {
			batch.Delete(classCF, encodeClassKey(loc.class, loc.id))
		}
		loc.class = class

		batch.Put(objectsCF, encodeStorageID(loc.id), data)
		batch.Put(indexCF, encodeLongKey(longKey), encodeIndexValue(loc.id, class))
		batch.Put(classCF, encodeClassKey(class, loc.id), nil)
		added[longKey] = loc
	}
	if lastID != s.lastID {
		batch.Put(idCF, lastIDKey, encodeStorageID(lastID))
	}
	if err := s.kvStore.Write(ctx, batch); err != nil {
		return err
	}

	s.lastID = lastID
	for k, loc := range added {
		s.idMap[k] = loc
	}
	return nil
}

func (s *storage) GetObject(ctx context.Context, longKey int64) (IdObject, error) {
	loc, ok := s.lookup(longKey)
	if !ok {
		return nil, apierrors.ErrNotFound
	}
	return s.getObjectByID(ctx, loc.id)
}

func (s *storage) getObjectByID(ctx context.Context, id uint64) (IdObject, error) {
	data, err := s.kvStore.GetRaw(ctx, objectsCF, encodeStorageID(id))
	if err != nil {
		if err == kvstore.ErrNotFound {
			return nil, apierrors.ErrNotFound
		}
		return nil, err
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return nil, err
	}
	return rec.object()
}

func (s *storage) DeleteObjects(ctx context.Context, longKeys []int64) error {
	batch := s.kvStore.NewWriteBatch()
	defer batch.Close()

	s.lock.Lock()
	defer s.lock.Unlock()

	removed := make([]int64, 0, len(longKeys))
	for _, longKey := range longKeys {
		loc, ok := s.idMap[longKey]
		if !ok {
			continue
		}
		batch.Delete(objectsCF, encodeStorageID(loc.id))
		batch.Delete(indexCF, encodeLongKey(longKey))
		batch.Delete(classCF, encodeClassKey(loc.class, loc.id))
		removed = append(removed, longKey)
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.kvStore.Write(ctx, batch); err != nil {
		return err
	}
	for _, longKey := range removed {
		delete(s.idMap, longKey)
	}
	return nil
}

// ListClass returns the storage ids of the objects of a class in storage order.
func (s *storage) ListClass(ctx context.Context, class string) (ret []uint64, err error) {
	prefix := classPrefix(class)
	lr := s.kvStore.List(ctx, classCF, prefix, nil)
	defer lr.Close()

	for {
		kg, vg, err := lr.ReadNext()
		if err != nil {
			return nil, err
		}
		if kg == nil || vg == nil {
			return ret, nil
		}
		id, err := decodeClassKey(class, kg.Key())
		kg.Close()
		vg.Close()
		if err != nil {
			return nil, err
		}
		ret = append(ret, id)
	}
}

func (s *storage) Count(ctx context.Context, class string) (int, error) {
	ids, err := s.ListClass(ctx, class)
	return len(ids), err
}

func (s *storage) Close() {
	s.kvStore.Close()
}
