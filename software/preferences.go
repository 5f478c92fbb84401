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

	"github.com/cubefs/cubefs/blobstore/util/errors"
	"github.com/cubefs/cubefs/blobstore/util/log"
	"gopkg.in/yaml.v3"

	apierrors "github.com/compomics/utilities/errors"
)

// Tool is a companion application.
type Tool string

const (
	PeptideShaker Tool = "PeptideShaker"
	Reporter      Tool = "Reporter"
)

// Tools lists the known companion applications.
var Tools = []Tool{PeptideShaker, Reporter}

// ParseTool returns the tool of a name, case insensitive.
func ParseTool(name string) (Tool, error) {
	for _, tool := range Tools {
		if strings.EqualFold(name, string(tool)) {
			return tool, nil
		}
	}
	return "", fmt.Errorf("%w: %s", apierrors.ErrUnknownTool, name)
}

// UserParameters are the user preferences shared by the tools.
type UserParameters struct {
	PeptideShakerPath string `yaml:"peptide_shaker_path,omitempty"`
	ReporterPath      string `yaml:"reporter_path,omitempty"`
}

// DefaultUserParametersPath is the preferences file in the home directory.
func DefaultUserParametersPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".compomics", "userparameters.yaml"), nil
}

// LoadUserParameters reads the preferences of path, empty when the file
// does not exist yet.
func LoadUserParameters(path string) (*UserParameters, error) {
	params := &UserParameters{}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return params, nil
	}
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(b, params); err != nil {
		return nil, errors.Info(err, "yaml unmarshal user parameters failed")
	}
	return params, nil
}

// SaveUserParameters writes the preferences to path.
func SaveUserParameters(path string, params *UserParameters) error {
	b, err := yaml.Marshal(params)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err = os.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	log.Infof("user parameters saved to %s", path)
	return nil
}

func (p *UserParameters) GetPeptideShakerPath() string { return p.PeptideShakerPath }

func (p *UserParameters) SetPeptideShakerPath(path string) { p.PeptideShakerPath = path }

func (p *UserParameters) GetReporterPath() string { return p.ReporterPath }

func (p *UserParameters) SetReporterPath(path string) { p.ReporterPath = path }

// Path returns the configured jar of a tool.
func (p *UserParameters) Path(tool Tool) string {
	switch tool {
	case PeptideShaker:
		return p.PeptideShakerPath
	case Reporter:
		return p.ReporterPath
	}
	return ""
}

func (p *UserParameters) SetPath(tool Tool, path string) error {
	switch tool {
	case PeptideShaker:
		p.PeptideShakerPath = path
	case Reporter:
		p.ReporterPath = path
	default:
		return fmt.Errorf("%w: %s", apierrors.ErrUnknownTool, tool)
	}
	return nil
}
