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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/stretchr/testify/require"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
)

func TestLoadConfig(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "./run", c.DBFolder)
	require.Equal(t, "objects", c.DBName)
	require.Equal(t, uint32(9600), c.HttpBindPort)
	require.Equal(t, log.Linfo, c.LogLevel)

	dir, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "compomics.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"db_folder": "/data/db",
		"db_name": "peptides",
		"db": {"cache_size": 100},
		"http_bind_port": 1234,
		"user_parameters_file": "/data/prefs.yaml"
	}`), 0o644))

	c, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "/data/db", c.DBFolder)
	require.Equal(t, "peptides", c.DBName)
	require.Equal(t, 100, c.DB.CacheSize)
	require.Equal(t, uint32(1234), c.HttpBindPort)
	require.Equal(t, "/data/prefs.yaml", c.UserParametersFile)

	_, err = loadConfig(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestParseModification(t *testing.T) {
	m, err := parseModification("Oxidation of M@4", true)
	require.NoError(t, err)
	require.Equal(t, "Oxidation of M", m.TheoreticPTM)
	require.Equal(t, 4, m.Site)
	require.True(t, m.Variable)

	_, err = parseModification("Oxidation of M", true)
	require.ErrorIs(t, err, apierrors.ErrUnknownPTM)
	_, err = parseModification("Oxidation of M@x", true)
	require.Error(t, err)
	_, err = parseModification("nothing@1", false)
	require.ErrorIs(t, err, apierrors.ErrUnknownPTM)
}

func TestNewPeptide(t *testing.T) {
	p, err := newPeptide("pepmk", []string{"Oxidation of M@4"}, nil, true)
	require.NoError(t, err)
	require.Equal(t, "PEPMK_15.994915-ATAA-4", p.Key())

	p, err = newPeptide("PEPCK", nil, []string{"Carbamidomethylation of C@4"}, false)
	require.NoError(t, err)
	require.Equal(t, "PEPCK", p.Key())
	require.Equal(t, 1, p.NModifications())
}

func TestEnzymesPride(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"enzymes", "pride", "Lys-C"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "Lys-C\n", out.String())
}
