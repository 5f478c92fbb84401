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
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
	"github.com/compomics/utilities/waiting"
)

type testObject struct {
	id    int64
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func (o *testObject) ID() int64      { return o.id }
func (o *testObject) SetID(id int64) { o.id = id }

type otherObject struct {
	id   int64
	Tags []string `json:"tags"`
}

func (o *otherObject) ID() int64      { return o.id }
func (o *otherObject) SetID(id int64) { o.id = id }

type unregistered struct{ id int64 }

func (o *unregistered) ID() int64      { return o.id }
func (o *unregistered) SetID(id int64) { o.id = id }

func init() {
	RegisterClass("testObject", func() IdObject { return &testObject{} })
	RegisterClass("otherObject", func() IdObject { return &otherObject{} })
}

func newTestDB(t *testing.T, cacheSize int) (*ObjectsDB, func()) {
	folder, err := util.GenTmpPath()
	require.NoError(t, err)
	db, err := Open(context.TODO(), folder, "test", true, &Config{CacheSize: cacheSize})
	require.NoError(t, err)
	return db, func() {
		db.Close(context.TODO())
		os.RemoveAll(folder)
	}
}

func TestCreateLongKey(t *testing.T) {
	require.Equal(t, int64(-297293789014288390), CreateLongKey("PEPTIDEK"))
	require.Equal(t, int64(4464659292922314164), CreateLongKey(""))
	require.Equal(t, int64(-8179886711333978134), CreateLongKey("protein_1"))
	require.Equal(t, CreateLongKey("PEPTIDEK"), CreateLongKey("PEPTIDEK"))
	require.NotEqual(t, CreateLongKey("PEPTIDEK"), CreateLongKey("PEPTIDER"))
}

func TestOpen(t *testing.T) {
	ctx := context.TODO()
	folder, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(folder)

	db, err := Open(ctx, folder, "reopen", false, nil)
	require.NoError(t, err)
	require.Equal(t, "reopen", db.Name())
	require.Equal(t, folder+"/reopen", db.Path())
	require.True(t, db.IsConnectionActive())

	require.NoError(t, db.InsertObject(ctx, "a", &testObject{Name: "a", Value: 1}))
	require.NoError(t, db.Close(ctx))
	require.False(t, db.IsConnectionActive())
	require.NoError(t, db.Close(ctx))
	_, err = db.RetrieveObjectByKey(ctx, "a")
	require.ErrorIs(t, err, apierrors.ErrClosed)

	// closing saved the edited object
	db, err = Open(ctx, folder, "reopen", false, nil)
	require.NoError(t, err)
	ok, err := db.InDB(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, db.InCache("a"))
	obj, err := db.RetrieveObjectByKey(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, &testObject{id: CreateLongKey("a"), Name: "a", Value: 1}, obj)
	require.Len(t, db.IdMap(), 1)
	require.NoError(t, db.Close(ctx))

	// overwrite starts from scratch
	db, err = Open(ctx, folder, "reopen", true, nil)
	require.NoError(t, err)
	ok, err = db.InDB(ctx, "a")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, db.Close(ctx))
}

func TestInsertRetrieve(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	obj := &testObject{Name: "pep", Value: 3}
	require.NoError(t, db.InsertObject(ctx, "pep", obj))
	require.Equal(t, CreateLongKey("pep"), obj.ID())
	require.True(t, db.InCache("pep"))

	// cached only
	n, err := db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	got, err := db.RetrieveObjectByKey(ctx, "pep")
	require.NoError(t, err)
	require.Same(t, obj, got)

	got, err = db.RetrieveObjectByKey(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	require.ErrorIs(t, db.InsertObject(ctx, "x", &unregistered{}), apierrors.ErrUnknownClass)

	require.NoError(t, db.SaveCache(ctx, nil, false))
	n, err = db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestInsertObjects(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	objects := make(map[string]IdObject)
	keys := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("obj%d", i)
		keys = append(keys, key)
		objects[key] = &testObject{Name: key, Value: i}
	}
	objects["other"] = &otherObject{Tags: []string{"t"}}

	h := waiting.NewCancelHandler()
	require.NoError(t, db.InsertObjects(ctx, objects, h, true))
	cur, max := h.Progress()
	require.Equal(t, int64(21), cur)
	require.Equal(t, int64(21), max)

	n, err := db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 20, n)
	n, err = db.Number(ctx, "otherObject")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, db.ClearCache(ctx))
	require.False(t, db.InCache("obj0"))

	ret, err := db.RetrieveObjects(ctx, append(keys, "missing"), nil, false)
	require.NoError(t, err)
	require.Len(t, ret, 21)
	for i := 0; i < 20; i++ {
		require.Equal(t, fmt.Sprintf("obj%d", i), ret[i].(*testObject).Name)
		require.Equal(t, CreateLongKey(keys[i]), ret[i].ID())
	}
	require.Nil(t, ret[20])
	require.True(t, db.InCache("obj7"))

	all, err := db.RetrieveObjectsByClass(ctx, "otherObject", nil, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, []string{"t"}, all[0].(*otherObject).Tags)
}

func TestInsertObjects_Canceled(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	h := waiting.NewCancelHandler()
	h.SetRunCanceled()
	obj := &testObject{Value: 3}
	require.NoError(t, db.InsertObjects(ctx, map[string]IdObject{"a": obj}, h, false))
	require.Equal(t, CreateLongKey("a"), obj.ID())
	require.True(t, db.InCache("a"))
	ok, err := db.InDB(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)

	n, err := db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.NoError(t, db.SaveCache(ctx, nil, false))
	n, err = db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLoadObjects(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	objects := map[string]IdObject{}
	for i := 0; i < 10; i++ {
		objects[fmt.Sprintf("k%d", i)] = &testObject{Value: i}
	}
	require.NoError(t, db.InsertObjects(ctx, objects, nil, false))
	require.NoError(t, db.ClearCache(ctx))

	hashed, err := db.LoadObjects(ctx, []string{"k1", "k2", "nope"}, nil, false)
	require.NoError(t, err)
	require.Equal(t, []int64{CreateLongKey("k1"), CreateLongKey("k2"), CreateLongKey("nope")}, hashed)
	require.True(t, db.InCache("k1"))
	require.True(t, db.InCache("k2"))
	require.False(t, db.InCache("k3"))
	require.False(t, db.InCache("nope"))

	require.NoError(t, db.ClearCache(ctx))
	hashed, err = db.LoadObjectsByClass(ctx, "testObject", nil, false)
	require.NoError(t, err)
	require.Len(t, hashed, 10)
	require.True(t, db.InCache("k9"))

	require.NoError(t, db.ClearCache(ctx))
	it, err := db.ObjectsIterator(ctx, "testObject")
	require.NoError(t, err)
	hashed, err = db.LoadObjectsFromIterator(ctx, it, 4, nil, false)
	require.NoError(t, err)
	require.Len(t, hashed, 4)
	require.True(t, it.HasNext())
	hashed, err = db.LoadObjectsFromIterator(ctx, it, 100, nil, false)
	require.NoError(t, err)
	require.Len(t, hashed, 6)
	require.False(t, it.HasNext())
	obj, err := it.Next(ctx)
	require.NoError(t, err)
	require.Nil(t, obj)
	require.Equal(t, 10, db.ObjectsCache().Len())

	h := waiting.NewCancelHandler()
	h.SetRunCanceled()
	require.NoError(t, db.ClearCache(ctx))
	hashed, err = db.LoadObjects(ctx, []string{"k1"}, h, false)
	require.NoError(t, err)
	require.Len(t, hashed, 0)
	require.False(t, db.InCache("k1"))
}

func TestRemoveObjects(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	objects := map[string]IdObject{}
	for i := 0; i < 5; i++ {
		objects[fmt.Sprintf("k%d", i)] = &testObject{Value: i}
	}
	require.NoError(t, db.InsertObjects(ctx, objects, nil, false))
	require.NoError(t, db.InsertObject(ctx, "edited", &testObject{}))

	require.NoError(t, db.RemoveObject(ctx, "k0"))
	require.NoError(t, db.RemoveObject(ctx, "edited"))
	require.NoError(t, db.RemoveObjects(ctx, []string{"k1", "k2", "nope"}, nil, false))

	for _, key := range []string{"k0", "k1", "k2", "edited"} {
		ok, err := db.InDB(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, key)
	}
	// removed edited objects are not written back
	require.NoError(t, db.ClearCache(ctx))
	n, err := db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, db.IdMap(), 2)
}

func TestCacheEviction(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 4)
	defer clean()

	for i := 0; i < 10; i++ {
		require.NoError(t, db.InsertObject(ctx, fmt.Sprintf("k%d", i), &testObject{Value: i}))
	}
	require.Equal(t, 4, db.ObjectsCache().Len())
	// evicted edited objects went to the store
	n, err := db.Number(ctx, "testObject")
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.False(t, db.InCache("k0"))
	require.True(t, db.InCache("k9"))

	obj, err := db.RetrieveObjectByKey(ctx, "k0")
	require.NoError(t, err)
	require.Equal(t, 0, obj.(*testObject).Value)
	require.True(t, db.InCache("k0"))
}

func TestConcurrentRetrieve(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	require.NoError(t, db.InsertObjects(ctx, map[string]IdObject{"k": &testObject{Value: 42}}, nil, false))
	require.NoError(t, db.ClearCache(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := db.RetrieveObject(ctx, CreateLongKey("k"))
			require.NoError(t, err)
			require.Equal(t, 42, obj.(*testObject).Value)
		}()
	}
	wg.Wait()
}

func TestAcquireCanceled(t *testing.T) {
	db, clean := newTestDB(t, 0)
	defer clean()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, db.mutex.Acquire(context.Background(), 1))
	_, err := db.Number(ctx, "testObject")
	require.ErrorIs(t, err, context.Canceled)
	db.mutex.Release(1)
}

func TestIteratorClosed(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	require.NoError(t, db.InsertObjects(ctx, map[string]IdObject{"k": &testObject{Value: 1}}, nil, false))
	it, err := db.ObjectsIterator(ctx, "testObject")
	require.NoError(t, err)
	require.True(t, it.HasNext())

	require.NoError(t, db.Close(ctx))
	obj, err := it.Next(ctx)
	require.ErrorIs(t, err, apierrors.ErrClosed)
	require.Nil(t, obj)
}

func TestRetrieveObject_CallerCanceled(t *testing.T) {
	ctx := context.TODO()
	db, clean := newTestDB(t, 0)
	defer clean()

	require.NoError(t, db.InsertObjects(ctx, map[string]IdObject{"k": &testObject{Value: 42}}, nil, false))
	require.NoError(t, db.ClearCache(ctx))

	require.NoError(t, db.mutex.Acquire(ctx, 1))
	canceledCtx, cancel := context.WithCancel(ctx)
	canceledErr := make(chan error, 1)
	go func() {
		_, err := db.RetrieveObject(canceledCtx, CreateLongKey("k"))
		canceledErr <- err
	}()
	type result struct {
		obj IdObject
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		obj, err := db.RetrieveObject(ctx, CreateLongKey("k"))
		waiter <- result{obj, err}
	}()

	cancel()
	require.ErrorIs(t, <-canceledErr, context.Canceled)
	db.mutex.Release(1)
	res := <-waiter
	require.NoError(t, res.err)
	require.Equal(t, 42, res.obj.(*testObject).Value)
}
