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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compomics/utilities/db"
	"github.com/compomics/utilities/util"
)

type sample struct {
	id    int64
	Value int `json:"value"`
}

func (s *sample) ID() int64      { return s.id }
func (s *sample) SetID(id int64) { s.id = id }

func init() {
	db.RegisterClass("sample", func() db.IdObject { return &sample{} })
}

func get(t *testing.T, url string) (int, []byte) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestHttpServer(t *testing.T) {
	ctx := context.TODO()
	folder, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(folder)

	objectsDB, err := db.Open(ctx, folder, "admin", true, nil)
	require.NoError(t, err)
	defer objectsDB.Close(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, objectsDB.InsertObject(ctx, fmt.Sprintf("sample%d", i), &sample{Value: i}))
	}
	require.NoError(t, objectsDB.SaveCache(ctx, nil, false))

	ts := httptest.NewServer(NewHttpServer(objectsDB, 0).newHandler())
	defer ts.Close()

	code, body := get(t, ts.URL+"/stats")
	require.Equal(t, http.StatusOK, code)
	stats := &Stats{}
	require.NoError(t, json.Unmarshal(body, stats))
	require.Equal(t, "admin", stats.Name)
	require.True(t, stats.Active)
	require.Equal(t, 3, stats.Classes["sample"])
	require.Equal(t, 3, stats.Cached)

	code, body = get(t, ts.URL+"/count?class=sample")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `{"sample":3}`, string(body))

	code, _ = get(t, ts.URL+"/count")
	require.Equal(t, http.StatusBadRequest, code)

	code, body = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, string(body), "compomics_objectsdb_operations_total")
}

func TestHttpServer_Limited(t *testing.T) {
	h := NewHttpServer(nil, 1)
	ts := httptest.NewServer(h.newHandler())
	defer ts.Close()

	// the only slot is taken
	require.NoError(t, h.limit.Acquire())
	code, _ := get(t, ts.URL+"/count?class=sample")
	require.Equal(t, http.StatusTooManyRequests, code)
	h.limit.Release()

	h.Stop()
}
