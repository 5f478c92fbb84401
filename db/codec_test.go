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
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestRecordCodec(t *testing.T) {
	obj := &testObject{id: -12345, Name: "n", Value: 7}
	data, class, err := encodeRecord(obj)
	require.NoError(t, err)
	require.Equal(t, "testObject", class)

	rec, err := decodeRecord(data)
	require.NoError(t, err)
	require.Equal(t, "testObject", rec.class)
	require.Equal(t, int64(-12345), rec.longKey)

	got, err := rec.object()
	require.NoError(t, err)
	require.Equal(t, obj, got)

	// unknown fields are skipped
	data = protowire.AppendTag(data, 9, protowire.VarintType)
	data = protowire.AppendVarint(data, 1)
	_, err = decodeRecord(data)
	require.NoError(t, err)

	_, err = decodeRecord(data[:3])
	require.Error(t, err)
	_, err = decodeRecord(nil)
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	id, class, err := decodeIndexValue(encodeIndexValue(9, "testObject"))
	require.NoError(t, err)
	require.Equal(t, uint64(9), id)
	require.Equal(t, "testObject", class)

	key := encodeClassKey("testObject", 11)
	require.Equal(t, classPrefix("testObject"), key[:len("testObject")+1])
	id, err = decodeClassKey("testObject", key)
	require.NoError(t, err)
	require.Equal(t, uint64(11), id)

	_, err = decodeStorageID([]byte{1})
	require.Error(t, err)
}

func TestClasses(t *testing.T) {
	require.Contains(t, Classes(), "testObject")
	name, err := ClassName(&otherObject{})
	require.NoError(t, err)
	require.Equal(t, "otherObject", name)
	_, err = newObject("nothing")
	require.Error(t, err)
}
