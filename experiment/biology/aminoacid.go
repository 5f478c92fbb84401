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

// Package biology models the peptides, modifications and enzymes of
// mass spectrometry identification workflows.
package biology

import (
	"strings"
)

// Monoisotopic atomic masses.
const (
	MassH = 1.0078250321
	MassC = 12.0000000000
	MassN = 14.0030740052
	MassO = 15.9949146221
	MassS = 31.9720706900

	ProtonMass = 1.00727646688
)

// Standard neutral masses.
var (
	MassH2O = 2*MassH + MassO
	MassNH3 = MassN + 3*MassH
	MassCO  = MassC + MassO
)

// Composition is the elemental composition of a residue.
type Composition struct {
	C, H, N, O, S int
}

func (c Composition) MonoisotopicMass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.S)*MassS
}

type AminoAcid struct {
	Letter      byte
	ThreeLetter string
	Name        string
	Composition Composition
}

func (aa *AminoAcid) MonoisotopicMass() float64 {
	return aa.Composition.MonoisotopicMass()
}

var aminoAcids = map[byte]*AminoAcid{
	'A': {'A', "Ala", "Alanine", Composition{C: 3, H: 5, N: 1, O: 1}},
	'R': {'R', "Arg", "Arginine", Composition{C: 6, H: 12, N: 4, O: 1}},
	'N': {'N', "Asn", "Asparagine", Composition{C: 4, H: 6, N: 2, O: 2}},
	'D': {'D', "Asp", "Aspartic Acid", Composition{C: 4, H: 5, N: 1, O: 3}},
	'C': {'C', "Cys", "Cysteine", Composition{C: 3, H: 5, N: 1, O: 1, S: 1}},
	'E': {'E', "Glu", "Glutamic Acid", Composition{C: 5, H: 7, N: 1, O: 3}},
	'Q': {'Q', "Gln", "Glutamine", Composition{C: 5, H: 8, N: 2, O: 2}},
	'G': {'G', "Gly", "Glycine", Composition{C: 2, H: 3, N: 1, O: 1}},
	'H': {'H', "His", "Histidine", Composition{C: 6, H: 7, N: 3, O: 1}},
	'I': {'I', "Ile", "Isoleucine", Composition{C: 6, H: 11, N: 1, O: 1}},
	'L': {'L', "Leu", "Leucine", Composition{C: 6, H: 11, N: 1, O: 1}},
	'K': {'K', "Lys", "Lysine", Composition{C: 6, H: 12, N: 2, O: 1}},
	'M': {'M', "Met", "Methionine", Composition{C: 5, H: 9, N: 1, O: 1, S: 1}},
	'F': {'F', "Phe", "Phenylalanine", Composition{C: 9, H: 9, N: 1, O: 1}},
	'P': {'P', "Pro", "Proline", Composition{C: 5, H: 7, N: 1, O: 1}},
	'S': {'S', "Ser", "Serine", Composition{C: 3, H: 5, N: 1, O: 2}},
	'T': {'T', "Thr", "Threonine", Composition{C: 4, H: 7, N: 1, O: 2}},
	'W': {'W', "Trp", "Tryptophan", Composition{C: 11, H: 10, N: 2, O: 1}},
	'Y': {'Y', "Tyr", "Tyrosine", Composition{C: 9, H: 9, N: 1, O: 2}},
	'V': {'V', "Val", "Valine", Composition{C: 5, H: 9, N: 1, O: 1}},
	'O': {'O', "Pyl", "Pyrrolysine", Composition{C: 12, H: 19, N: 3, O: 2}},
}

// AminoAcidByLetter returns the amino acid of a one letter code.
func AminoAcidByLetter(letter byte) (*AminoAcid, bool) {
	aa, ok := aminoAcids[letter]
	return aa, ok
}

type MatchingType int

const (
	// StringMatching compares sequences letter by letter.
	StringMatching MatchingType = iota
	// AminoAcidMatching treats indistinguishable amino acids as equal.
	AminoAcidMatching
)

// SequenceMatchingPreferences tells how two sequences are compared.
type SequenceMatchingPreferences struct {
	Type MatchingType `json:"type" yaml:"type"`
}

var DefaultStringMatching = &SequenceMatchingPreferences{Type: StringMatching}

// MatchingSequence returns the sequence used for matching: with amino acid
// matching every I is read as an L.
func MatchingSequence(sequence string, prefs *SequenceMatchingPreferences) string {
	if prefs == nil || prefs.Type == StringMatching {
		return sequence
	}
	return strings.ReplaceAll(sequence, "I", "L")
}

// SequencesMatch compares two sequences under prefs.
func SequencesMatch(a, b string, prefs *SequenceMatchingPreferences) bool {
	return MatchingSequence(a, prefs) == MatchingSequence(b, prefs)
}
