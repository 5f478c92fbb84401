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
)

// ObjectsIterator walks the stored objects of a class. The set of objects
// is fixed when the iterator is created.
type ObjectsIterator struct {
	db      *ObjectsDB
	class   string
	ids     []uint64
	pos     int
}

// ObjectsIterator returns an iterator over the stored objects of a class.
func (db *ObjectsDB) ObjectsIterator(ctx context.Context, className string) (it *ObjectsIterator, err error) {
	done, err := db.acquire(ctx, "iterator")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	ids, err := db.storage.ListClass(ctx, className)
	if err != nil {
		return nil, err
	}
	return &ObjectsIterator{db: db, class: className, ids: ids}, nil
}

func (it *ObjectsIterator) HasNext() bool {
	return it.pos < len(it.ids)
}

// Next returns the next object, nil once the iterator is exhausted.
// Objects removed since the iterator was created are skipped.
func (it *ObjectsIterator) Next(ctx context.Context) (obj IdObject, err error) {
	done, err := it.db.acquire(ctx, "iterator_next")
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()
	return it.next(ctx)
}

// next runs under the database permit.
func (it *ObjectsIterator) next(ctx context.Context) (IdObject, error) {
	for it.pos < len(it.ids) {
		id := it.ids[it.pos]
		it.pos++
		obj, err := it.db.storage.getObjectByID(ctx, id)
		if err == nil {
			return obj, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	return nil, nil
}
