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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compomics/utilities/software"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Locate the companion applications",
}

var toolsGetCmd = &cobra.Command{
	Use:   "get [tool]",
	Short: "Print the configured jar of a tool and its default install folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := software.ParseTool(args[0])
		if err != nil {
			return err
		}
		params, err := software.LoadUserParameters(cfg.UserParametersFile)
		if err != nil {
			return err
		}
		setup := &software.ToolSetup{Tool: tool}
		fmt.Fprintf(cmd.OutOrStdout(), "path: %s\ninstall folder: %s\n", params.Path(tool), setup.DefaultInstallFolder(params))
		return nil
	},
}

var toolsSetCmd = &cobra.Command{
	Use:   "set [tool] [jar]",
	Short: "Check and store the jar of a tool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool, err := software.ParseTool(args[0])
		if err != nil {
			return err
		}
		params, err := software.LoadUserParameters(cfg.UserParametersFile)
		if err != nil {
			return err
		}
		setup := &software.ToolSetup{Tool: tool}
		if err = setup.Configure(params, args[1]); err != nil {
			return err
		}
		return software.SaveUserParameters(cfg.UserParametersFile, params)
	},
}

func init() {
	toolsCmd.AddCommand(toolsGetCmd, toolsSetCmd)
	rootCmd.AddCommand(toolsCmd)
}
