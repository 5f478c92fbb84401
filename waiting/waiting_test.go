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

package waiting

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNilHandler(t *testing.T) {
	require.False(t, IsCanceled(nil))
	SetMax(nil, 10, true)
	Increase(nil, true)
}

func TestCancelHandler(t *testing.T) {
	h := NewCancelHandler()
	require.False(t, IsCanceled(h))

	SetMax(h, 100, true)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				Increase(h, true)
			}
		}()
	}
	wg.Wait()
	cur, max := h.Progress()
	require.Equal(t, int64(100), cur)
	require.Equal(t, int64(100), max)

	// not displayed, not counted
	Increase(h, false)
	cur, _ = h.Progress()
	require.Equal(t, int64(100), cur)

	h.SetRunCanceled()
	require.True(t, IsCanceled(h))
}

func TestLogHandler(t *testing.T) {
	h := NewLogHandler("import", time.Hour)
	var _ Handler = h
	h.SetMaxProgress(3)
	for i := 0; i < 3; i++ {
		h.IncreaseProgress()
	}
	cur, max := h.Progress()
	require.Equal(t, cur, max)
	h.SetRunCanceled()
	require.True(t, h.IsRunCanceled())
}
