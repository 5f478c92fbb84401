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
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/experiment/biology"
	"github.com/compomics/utilities/experiment/biology/ions"
)

var peptideCmd = &cobra.Command{
	Use:   "peptide",
	Short: "Compute peptide keys, masses, fragments and digests",
}

var peptideKeyCmd = &cobra.Command{
	Use:   "key [sequence]",
	Short: "Print the key of a modified peptide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := peptideFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.Key())
		return nil
	},
}

var peptideMassCmd = &cobra.Command{
	Use:   "mass [sequence]",
	Short: "Print the monoisotopic mass of a modified peptide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := peptideFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		mass, err := p.Mass()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(mass, 'f', 6, 64))
		fmt.Fprintln(cmd.OutOrStdout(), p.TaggedModifiedSequence(true, false))
		return nil
	},
}

var peptideFragmentsCmd = &cobra.Command{
	Use:   "fragments [sequence]",
	Short: "Print the theoretic fragment ions of a modified peptide",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := peptideFromFlags(cmd, args[0])
		if err != nil {
			return err
		}
		charge, _ := cmd.Flags().GetInt("charge")
		fragments, err := ions.Fragments(p, biology.DefaultPTMFactory(), charge)
		if err != nil {
			return err
		}
		for _, ion := range fragments {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.6f\n", ion, ion.MZ())
		}
		return nil
	},
}

var peptideDigestCmd = &cobra.Command{
	Use:   "digest [protein sequence]",
	Short: "Print the peptides of a protein digestion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("enzyme")
		missed, _ := cmd.Flags().GetInt("missed-cleavages")
		minLength, _ := cmd.Flags().GetInt("min-length")
		maxLength, _ := cmd.Flags().GetInt("max-length")

		enzyme, ok := biology.EnzymeFactoryInstance().Enzyme(name)
		if !ok {
			return fmt.Errorf("%w: %s", apierrors.ErrUnknownEnzyme, name)
		}
		for _, peptide := range enzyme.Digest(strings.ToUpper(args[0]), missed, minLength, maxLength) {
			fmt.Fprintln(cmd.OutOrStdout(), peptide)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{peptideKeyCmd, peptideMassCmd, peptideFragmentsCmd} {
		c.Flags().StringArrayP("variable", "v", nil, "variable modification as name@site, repeatable")
		c.Flags().StringArray("fixed", nil, "fixed modification as name@site, repeatable")
		c.Flags().Bool("confident", false, "variable modification sites are confidently localized")
	}
	peptideFragmentsCmd.Flags().IntP("charge", "c", 1, "maximal fragment charge")

	peptideDigestCmd.Flags().StringP("enzyme", "e", "Trypsin", "enzyme name")
	peptideDigestCmd.Flags().IntP("missed-cleavages", "m", 2, "maximal missed cleavages")
	peptideDigestCmd.Flags().Int("min-length", 6, "minimal peptide length")
	peptideDigestCmd.Flags().Int("max-length", 30, "maximal peptide length, 0 for none")

	peptideCmd.AddCommand(peptideKeyCmd, peptideMassCmd, peptideFragmentsCmd, peptideDigestCmd)
	rootCmd.AddCommand(peptideCmd)
}

// parseModification parses name@site.
func parseModification(arg string, variable bool) (*biology.ModificationMatch, error) {
	i := strings.LastIndex(arg, "@")
	if i <= 0 {
		return nil, fmt.Errorf("%w: expected name@site, got %q", apierrors.ErrUnknownPTM, arg)
	}
	site, err := strconv.Atoi(arg[i+1:])
	if err != nil {
		return nil, fmt.Errorf("invalid site in %q: %w", arg, err)
	}
	name := arg[:i]
	if !biology.DefaultPTMFactory().ContainsPTM(name) {
		return nil, fmt.Errorf("%w: %s", apierrors.ErrUnknownPTM, name)
	}
	return biology.NewModificationMatch(name, variable, site), nil
}

func peptideFromFlags(cmd *cobra.Command, sequence string) (*biology.Peptide, error) {
	variable, _ := cmd.Flags().GetStringArray("variable")
	fixed, _ := cmd.Flags().GetStringArray("fixed")
	confident, _ := cmd.Flags().GetBool("confident")
	return newPeptide(sequence, variable, fixed, confident)
}

func newPeptide(sequence string, variable, fixed []string, confident bool) (*biology.Peptide, error) {
	var matches []*biology.ModificationMatch
	for _, arg := range variable {
		m, err := parseModification(arg, true)
		if err != nil {
			return nil, err
		}
		m.Confident = confident
		matches = append(matches, m)
	}
	for _, arg := range fixed {
		m, err := parseModification(arg, false)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return biology.NewCheckedPeptide(strings.ToUpper(sequence), matches)
}

func loadPTMs(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return biology.DefaultPTMFactory().LoadPTMs(f)
}
