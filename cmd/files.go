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

var filesCmd = &cobra.Command{
	Use:   "files [path,path...|directory]",
	Short: "Resolve a command line file argument",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extensions, _ := cmd.Flags().GetStringSlice("ext")
		files, err := software.Files(args[0], extensions)
		if err != nil {
			return err
		}
		absolute, err := software.CommandLineArgument(files...)
		if err != nil {
			return err
		}
		for _, file := range software.SplitInput(absolute) {
			if file != "" {
				fmt.Fprintln(cmd.OutOrStdout(), file)
			}
		}
		return nil
	},
}

func init() {
	filesCmd.Flags().StringSliceP("ext", "e", []string{".mgf"}, "accepted file extensions")
	rootCmd.AddCommand(filesCmd)
}
