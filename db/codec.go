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
	"encoding/binary"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protowire"

	apierrors "github.com/compomics/utilities/errors"
)

// record fields
const (
	fieldClass   protowire.Number = 1
	fieldLongKey protowire.Number = 2
	fieldPayload protowire.Number = 3
)

type record struct {
	class   string
	longKey int64
	payload []byte
}

func encodeRecord(obj IdObject) ([]byte, string, error) {
	class, err := ClassName(obj)
	if err != nil {
		return nil, "", err
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return nil, "", err
	}

	b := make([]byte, 0, len(class)+len(payload)+16)
	b = protowire.AppendTag(b, fieldClass, protowire.BytesType)
	b = protowire.AppendString(b, class)
	b = protowire.AppendTag(b, fieldLongKey, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(obj.ID()))
	b = protowire.AppendTag(b, fieldPayload, protowire.BytesType)
	b = protowire.AppendBytes(b, payload)
	return b, class, nil
}

func decodeRecord(b []byte) (*record, error) {
	rec := &record{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == fieldClass && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			rec.class = v
			b = b[n:]
		case num == fieldLongKey && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			rec.longKey = protowire.DecodeZigZag(v)
			b = b[n:]
		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			rec.payload = append([]byte(nil), v...)
			b = b[n:]
		default:
			// unknown fields are skipped
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if rec.class == "" {
		return nil, apierrors.ErrInvalidRecord
	}
	return rec, nil
}

func (r *record) object() (IdObject, error) {
	obj, err := newObject(r.class)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(r.payload, obj); err != nil {
		return nil, err
	}
	obj.SetID(r.longKey)
	return obj, nil
}

func encodeStorageID(id uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func decodeStorageID(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, apierrors.ErrInvalidObjectID
	}
	return binary.BigEndian.Uint64(b), nil
}

func encodeLongKey(longKey int64) []byte {
	return encodeStorageID(uint64(longKey))
}

// index value: storage id followed by the class name
func encodeIndexValue(id uint64, class string) []byte {
	b := make([]byte, 8+len(class))
	binary.BigEndian.PutUint64(b, id)
	copy(b[8:], class)
	return b
}

func decodeIndexValue(b []byte) (uint64, string, error) {
	id, err := decodeStorageID(b)
	if err != nil {
		return 0, "", err
	}
	return id, string(b[8:]), nil
}

func classPrefix(class string) []byte {
	b := make([]byte, len(class)+1)
	copy(b, class)
	return b
}

func encodeClassKey(class string, id uint64) []byte {
	b := make([]byte, len(class)+1+8)
	copy(b, class)
	binary.BigEndian.PutUint64(b[len(class)+1:], id)
	return b
}

func decodeClassKey(class string, key []byte) (uint64, error) {
	if len(key) < len(class)+1 {
		return 0, apierrors.ErrInvalidObjectID
	}
	return decodeStorageID(key[len(class)+1:])
}

func isNotFound(err error) bool {
	return err == apierrors.ErrNotFound
}
