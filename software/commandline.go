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

// Package software holds the helpers shared by the command line tools and
// the preferences pointing at the companion applications.
package software

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
)

// Separator separates the paths of a command line argument.
const Separator = ","

// CommandLineArgument joins the absolute paths of files.
func CommandLineArgument(files ...string) (string, error) {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		path, err := filepath.Abs(file)
		if err != nil {
			return "", err
		}
		paths = append(paths, path)
	}
	return strings.Join(paths, Separator), nil
}

// SplitInput splits a command line argument into trimmed paths.
func SplitInput(input string) []string {
	parts := strings.Split(input, Separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func notFound(path string) error {
	return fmt.Errorf("%w: %s", apierrors.ErrFileNotFound, path)
}

func matches(name string, extensions []string) bool {
	for _, ext := range extensions {
		if util.HasSuffixFold(name, ext) {
			return true
		}
	}
	return false
}

// Files returns the files of a command line argument having one of the
// extensions. A single directory yields its matching children, a single
// file itself when matching. With several paths, the matching ones must
// exist.
func Files(input string, extensions []string) ([]string, error) {
	paths := SplitInput(input)
	if len(paths) == 1 {
		return singleFile(paths[0], extensions)
	}

	var ret []string
	for _, path := range paths {
		if !matches(path, extensions) {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return nil, notFound(path)
		}
		ret = append(ret, path)
	}
	return ret, nil
}

func singleFile(path string, extensions []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, notFound(path)
	}
	if !info.IsDir() {
		if matches(util.FileName(path), extensions) {
			return []string{path}, nil
		}
		return nil, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var ret []string
	for _, entry := range entries {
		if matches(entry.Name(), extensions) {
			ret = append(ret, filepath.Join(path, entry.Name()))
		}
	}
	return ret, nil
}
