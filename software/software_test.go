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

package software

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
)

func touch(t *testing.T, path string) {
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCommandLineArgument(t *testing.T) {
	arg, err := CommandLineArgument("/data/a.mgf", "/data/b.mgf")
	require.NoError(t, err)
	require.Equal(t, "/data/a.mgf,/data/b.mgf", arg)

	arg, err = CommandLineArgument("a.mgf")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(arg))
	require.True(t, strings.HasSuffix(arg, "a.mgf"))

	require.Equal(t, []string{"a.mgf", "b.mgf", "c"}, SplitInput(" a.mgf, b.mgf ,c"))
	require.Equal(t, []string{""}, SplitInput(""))
}

func TestFiles(t *testing.T) {
	dir, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	touch(t, filepath.Join(dir, "b.MGF"))
	touch(t, filepath.Join(dir, "a.mgf"))
	touch(t, filepath.Join(dir, "c.mzml"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	extensions := []string{".mgf"}

	files, err := Files(dir, extensions)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.mgf"), filepath.Join(dir, "b.MGF")}, files)

	files, err = Files(filepath.Join(dir, "b.MGF"), extensions)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "b.MGF")}, files)

	files, err = Files(filepath.Join(dir, "c.mzml"), extensions)
	require.NoError(t, err)
	require.Len(t, files, 0)

	_, err = Files(filepath.Join(dir, "missing.mgf"), extensions)
	require.ErrorIs(t, err, apierrors.ErrFileNotFound)
	require.Equal(t, "file not found: "+filepath.Join(dir, "missing.mgf"), err.Error())

	// several paths: only matching ones are checked
	input := filepath.Join(dir, "a.mgf") + " , " + filepath.Join(dir, "c.mzml") + "," + filepath.Join(dir, "other.txt")
	files, err = Files(input, extensions)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.mgf")}, files)

	_, err = Files(filepath.Join(dir, "a.mgf")+","+filepath.Join(dir, "gone.mgf"), extensions)
	require.ErrorIs(t, err, apierrors.ErrFileNotFound)
}

func TestUserParameters(t *testing.T) {
	dir, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "prefs", "userparameters.yaml")

	params, err := LoadUserParameters(path)
	require.NoError(t, err)
	require.Equal(t, &UserParameters{}, params)

	params.SetPeptideShakerPath("/opt/ps/PeptideShaker-1.0.jar")
	require.NoError(t, params.SetPath(Reporter, "/opt/reporter/Reporter-0.1.jar"))
	require.Error(t, params.SetPath(Tool("nothing"), "x"))
	require.NoError(t, SaveUserParameters(path, params))

	loaded, err := LoadUserParameters(path)
	require.NoError(t, err)
	require.Equal(t, params, loaded)
	require.Equal(t, "/opt/ps/PeptideShaker-1.0.jar", loaded.GetPeptideShakerPath())
	require.Equal(t, "/opt/reporter/Reporter-0.1.jar", loaded.Path(Reporter))
	require.Equal(t, "/opt/reporter/Reporter-0.1.jar", loaded.GetReporterPath())

	require.NoError(t, os.WriteFile(path, []byte("reporter_path: [x"), 0o644))
	_, err = LoadUserParameters(path)
	require.Error(t, err)

	tool, err := ParseTool("peptideshaker")
	require.NoError(t, err)
	require.Equal(t, PeptideShaker, tool)
	_, err = ParseTool("searchgui")
	require.ErrorIs(t, err, apierrors.ErrUnknownTool)
}

func TestToolSetup(t *testing.T) {
	dir, err := util.GenTmpPath()
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	jar := filepath.Join(dir, "PeptideShaker-2.0.jar")
	touch(t, jar)
	touch(t, filepath.Join(dir, "Reporter.zip"))

	setup := &ToolSetup{Tool: PeptideShaker}
	require.NoError(t, setup.Validate(jar))
	require.ErrorIs(t, setup.Validate(filepath.Join(dir, "Reporter.zip")), apierrors.ErrInvalidToolPath)
	require.ErrorIs(t, setup.Validate(filepath.Join(dir, "Other.jar")), apierrors.ErrInvalidToolPath)
	require.ErrorIs(t, setup.Validate(filepath.Join(dir, "PeptideShaker-1.0.jar")), apierrors.ErrFileNotFound)
	require.ErrorIs(t, (&ToolSetup{Tool: Reporter}).Validate(jar), apierrors.ErrInvalidToolPath)

	params := &UserParameters{}
	home, err := os.UserHomeDir()
	if err == nil {
		require.Equal(t, home, setup.DefaultInstallFolder(params))
	}
	require.NoError(t, setup.Configure(params, jar))
	require.Equal(t, jar, params.PeptideShakerPath)
	require.Equal(t, filepath.Dir(dir), setup.DefaultInstallFolder(params))

	params.PeptideShakerPath = "/PeptideShaker.jar"
	if err == nil {
		require.Equal(t, home, setup.DefaultInstallFolder(params))
	}
}
