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

package util

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenTmpPath(t *testing.T) {
	path, err := GenTmpPath()
	require.NoError(t, err)
	require.NotEqual(t, "", path)
	defer os.RemoveAll(path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestBytesToString(t *testing.T) {
	b := []byte("test")
	str := BytesToString(b)
	require.Equal(t, str, string(b))
}

func TestFileName(t *testing.T) {
	require.Equal(t, "a.mgf", FileName("/data/run/a.mgf"))
	require.Equal(t, "b.mgf", FileName("C:\\data\\b.mgf"))
	require.Equal(t, "c.mgf", FileName("c.mgf"))
}

func TestHasSuffixFold(t *testing.T) {
	require.True(t, HasSuffixFold("spectra.MGF", ".mgf"))
	require.True(t, HasSuffixFold("spectra.mgf", ".MGF"))
	require.False(t, HasSuffixFold("spectra.mzml", ".mgf"))
	require.False(t, HasSuffixFold("gf", ".mgf"))
}

func TestTimeReader(t *testing.T) {
	tr := &TimeReader{R: bytes.NewReader(make([]byte, 1<<10))}
	n, err := io.Copy(io.Discard, tr)
	require.NoError(t, err)
	require.Equal(t, int64(1<<10), n)
	require.True(t, tr.GetCost() >= 0)
}
