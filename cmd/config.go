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
	"runtime"

	"github.com/cubefs/cubefs/blobstore/common/config"
	"github.com/cubefs/cubefs/blobstore/util/log"

	"github.com/compomics/utilities/db"
	"github.com/compomics/utilities/experiment/biology"
	"github.com/compomics/utilities/software"
)

// Config of the compomics commands.
type Config struct {
	DBFolder  string    `json:"db_folder"`
	DBName    string    `json:"db_name"`
	Overwrite bool      `json:"overwrite"`
	DB        db.Config `json:"db"`

	HttpBindPort          uint32    `json:"http_bind_port"`
	MaxConcurrentRequests int       `json:"max_concurrent_requests"`
	MaxProcessors         int       `json:"max_processors"`
	LogLevel              log.Level `json:"log_level"`
	DebugInteractions     bool      `json:"debug_interactions"`
	// ImportMBPS throttles the reading of imported files, 0 for no limit.
	ImportMBPS int `json:"import_mbps"`

	EnzymesFile        string `json:"enzymes_file"`
	PTMsFile           string `json:"ptms_file"`
	UserParametersFile string `json:"user_parameters_file"`
}

var cfg = newConfig()

func newConfig() *Config {
	return &Config{LogLevel: log.Linfo}
}

// loadConfig reads the config file, when given, and fills in the defaults.
func loadConfig(path string) (*Config, error) {
	c := newConfig()
	if path != "" {
		if err := config.LoadFile(c, path); err != nil {
			return nil, err
		}
	}
	if c.DBFolder == "" {
		c.DBFolder = "./run"
	}
	if c.DBName == "" {
		c.DBName = "objects"
	}
	if c.HttpBindPort == 0 {
		c.HttpBindPort = 9600
	}
	if c.UserParametersFile == "" {
		path, err := software.DefaultUserParametersPath()
		if err != nil {
			return nil, err
		}
		c.UserParametersFile = path
	}
	return c, nil
}

func setup(path string) error {
	c, err := loadConfig(path)
	if err != nil {
		return err
	}
	cfg = c

	log.SetOutputLevel(cfg.LogLevel)
	db.SetDebugInteractions(cfg.DebugInteractions)
	if cfg.MaxProcessors > 0 {
		runtime.GOMAXPROCS(cfg.MaxProcessors)
	}
	if cfg.EnzymesFile != "" {
		if err = biology.EnzymeFactoryInstance().ImportEnzymesFile(cfg.EnzymesFile); err != nil {
			return err
		}
	}
	if cfg.PTMsFile != "" {
		if err = loadPTMs(cfg.PTMsFile); err != nil {
			return err
		}
	}
	return nil
}
