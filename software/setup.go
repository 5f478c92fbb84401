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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
)

// ToolSetup checks the installation of a companion application.
type ToolSetup struct {
	Tool Tool
}

// Validate checks that path is an existing jar file of the tool.
func (s *ToolSetup) Validate(path string) error {
	name := util.FileName(path)
	if !strings.HasSuffix(name, ".jar") {
		return fmt.Errorf("%w: %s is not a jar file", apierrors.ErrInvalidToolPath, path)
	}
	if !strings.Contains(name, string(s.Tool)) {
		return fmt.Errorf("%w: %s is not a %s jar file", apierrors.ErrInvalidToolPath, path, s.Tool)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", apierrors.ErrFileNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", apierrors.ErrInvalidToolPath, path)
	}
	return nil
}

// Configure validates path and stores it in params.
func (s *ToolSetup) Configure(params *UserParameters, path string) error {
	if err := s.Validate(path); err != nil {
		return err
	}
	return params.SetPath(s.Tool, path)
}

// DefaultInstallFolder is the folder where a new version of the tool would
// be installed: the grandparent of the configured jar, or the home
// directory.
func (s *ToolSetup) DefaultInstallFolder(params *UserParameters) string {
	if path := params.Path(s.Tool); path != "" {
		parent := filepath.Dir(path)
		if parent != "." && parent != filepath.Dir(parent) {
			if grandparent := filepath.Dir(parent); grandparent != "." {
				return grandparent
			}
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
