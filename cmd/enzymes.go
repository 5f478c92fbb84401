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
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/experiment/biology"
)

var enzymesCmd = &cobra.Command{
	Use:   "enzymes",
	Short: "Inspect the known enzymes",
}

var enzymesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the enzymes by id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBEFORE\tAFTER\tSEMI")
		for _, e := range biology.EnzymeFactoryInstance().Enzymes() {
			before := e.AminoAcidBefore
			if e.RestrictionAfter != "" {
				before += " not before " + e.RestrictionAfter
			}
			after := e.AminoAcidAfter
			if e.RestrictionBefore != "" {
				after += " not after " + e.RestrictionBefore
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", e.ID, e.Name, before, after, e.SemiSpecific)
		}
		return w.Flush()
	},
}

var enzymesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print an enzyme as json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enzyme, ok := biology.EnzymeFactoryInstance().Enzyme(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", apierrors.ErrUnknownEnzyme, args[0])
		}
		return printJSON(cmd, enzyme)
	},
}

var enzymesPrideCmd = &cobra.Command{
	Use:   "pride [pride name]",
	Short: "Print the enzyme of a PRIDE enzyme name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enzyme, ok := biology.EnzymeFactoryInstance().UtilitiesEnzyme(args[0])
		if !ok {
			return fmt.Errorf("%w: no enzyme for PRIDE name %s", apierrors.ErrUnknownEnzyme, args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), enzyme.Name)
		return nil
	},
}

func init() {
	enzymesCmd.AddCommand(enzymesListCmd, enzymesShowCmd, enzymesPrideCmd)
	rootCmd.AddCommand(enzymesCmd)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
