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

package biology

import "fmt"

// ModificationMatch is a modification found on a peptide.
type ModificationMatch struct {
	// TheoreticPTM is the name of the modification in the PTM factory.
	TheoreticPTM string `json:"theoretic_ptm"`
	Variable     bool   `json:"variable"`
	// Site is 1 based, 1 and the sequence length standing for the termini.
	Site      int  `json:"site"`
	Confident bool `json:"confident,omitempty"`
	Inferred  bool `json:"inferred,omitempty"`
}

func NewModificationMatch(theoreticPTM string, variable bool, site int) *ModificationMatch {
	return &ModificationMatch{TheoreticPTM: theoreticPTM, Variable: variable, Site: site}
}

func (m *ModificationMatch) Clone() *ModificationMatch {
	c := *m
	return &c
}

func (m *ModificationMatch) String() string {
	return fmt.Sprintf("%s@%d", m.TheoreticPTM, m.Site)
}

// VariantMatch is a sequence variant of a protein found on a peptide.
type VariantMatch struct {
	// Variant describes the change, for instance "A>G".
	Variant          string `json:"variant"`
	ProteinAccession string `json:"protein_accession"`
	// Site is 1 based on the peptide.
	Site int `json:"site"`
}

func NewVariantMatch(variant, proteinAccession string, site int) *VariantMatch {
	return &VariantMatch{Variant: variant, ProteinAccession: proteinAccession, Site: site}
}
