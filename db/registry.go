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
	"fmt"
	"reflect"
	"sort"
	"sync"

	apierrors "github.com/compomics/utilities/errors"
)

// IdObject is an object which can be stored in the database. Its id is the
// long key of the string key it was inserted with.
type IdObject interface {
	ID() int64
	SetID(id int64)
}

// Factory returns a new, empty object of a registered class.
type Factory func() IdObject

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
	names     map[reflect.Type]string
}{
	factories: make(map[string]Factory),
	names:     make(map[reflect.Type]string),
}

// RegisterClass makes the objects built by factory storable under name.
// Registering the same name twice replaces the first factory.
func RegisterClass(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("db: invalid class registration")
	}
	typ := reflect.TypeOf(factory())
	registry.Lock()
	registry.factories[name] = factory
	registry.names[typ] = name
	registry.Unlock()
}

// ClassName returns the registered class name of obj.
func ClassName(obj IdObject) (string, error) {
	registry.RLock()
	name, ok := registry.names[reflect.TypeOf(obj)]
	registry.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %T", apierrors.ErrUnknownClass, obj)
	}
	return name, nil
}

// Classes lists the registered class names.
func Classes() []string {
	registry.RLock()
	ret := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		ret = append(ret, name)
	}
	registry.RUnlock()
	sort.Strings(ret)
	return ret
}

func newObject(class string) (IdObject, error) {
	registry.RLock()
	factory, ok := registry.factories[class]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", apierrors.ErrUnknownClass, class)
	}
	return factory(), nil
}
