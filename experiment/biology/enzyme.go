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

import (
	"strings"
)

// Enzyme cleaves protein sequences. It cuts after AminoAcidBefore residues
// unless followed by one of RestrictionAfter, and before AminoAcidAfter
// residues unless preceded by one of RestrictionBefore.
type Enzyme struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	AminoAcidBefore   string `json:"amino_acid_before,omitempty"`
	RestrictionBefore string `json:"restriction_before,omitempty"`
	AminoAcidAfter    string `json:"amino_acid_after,omitempty"`
	RestrictionAfter  string `json:"restriction_after,omitempty"`
	SemiSpecific      bool   `json:"semi_specific,omitempty"`
}

func NewEnzyme(id int, name, aaBefore, restrictionBefore, aaAfter, restrictionAfter string, semiSpecific bool) *Enzyme {
	return &Enzyme{
		ID:                id,
		Name:              name,
		AminoAcidBefore:   aaBefore,
		RestrictionBefore: restrictionBefore,
		AminoAcidAfter:    aaAfter,
		RestrictionAfter:  restrictionAfter,
		SemiSpecific:      semiSpecific,
	}
}

// IsCleavageSite tells whether the enzyme cuts between before and after.
func (e *Enzyme) IsCleavageSite(before, after byte) bool {
	if strings.IndexByte(e.AminoAcidBefore, before) >= 0 && strings.IndexByte(e.RestrictionAfter, after) < 0 {
		return true
	}
	return strings.IndexByte(e.AminoAcidAfter, after) >= 0 && strings.IndexByte(e.RestrictionBefore, before) < 0
}

// IsUnspecific tells whether the enzyme has no cleavage rule.
func (e *Enzyme) IsUnspecific() bool {
	return e.AminoAcidBefore == "" && e.AminoAcidAfter == ""
}

// NMissedCleavages counts the cleavage sites inside sequence.
func (e *Enzyme) NMissedCleavages(sequence string) int {
	n := 0
	for i := 0; i+1 < len(sequence); i++ {
		if e.IsCleavageSite(sequence[i], sequence[i+1]) {
			n++
		}
	}
	return n
}

// Digest returns the peptides of a protein sequence with at most
// missedCleavages missed cleavages and a length within [minLength,
// maxLength], a zero maxLength meaning no limit. Semi specific enzymes also
// return the truncations of those peptides. The peptides are returned in
// order of appearance, without duplicates.
func (e *Enzyme) Digest(sequence string, missedCleavages, minLength, maxLength int) []string {
	inRange := func(s string) bool {
		return len(s) >= minLength && (maxLength <= 0 || len(s) <= maxLength)
	}

	// cut positions, the sequence ends included
	cuts := []int{0}
	for i := 0; i+1 < len(sequence); i++ {
		if e.IsCleavageSite(sequence[i], sequence[i+1]) {
			cuts = append(cuts, i+1)
		}
	}
	cuts = append(cuts, len(sequence))

	seen := make(map[string]struct{})
	var ret []string
	add := func(s string) {
		if s == "" || !inRange(s) {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		ret = append(ret, s)
	}

	for i := 0; i+1 < len(cuts); i++ {
		for j := i + 1; j < len(cuts) && j-i-1 <= missedCleavages; j++ {
			peptide := sequence[cuts[i]:cuts[j]]
			add(peptide)
			if e.SemiSpecific {
				for k := 1; k < len(peptide); k++ {
					add(peptide[:k])
					add(peptide[k:])
				}
			}
		}
	}
	return ret
}
