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

// Package ions computes the theoretic fragment ions of peptides.
package ions

import (
	"fmt"
	"strconv"
	"strings"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/experiment/biology"
)

// Family groups the ions by origin.
type Family int

const (
	PeptideFragment Family = iota
)

func (f Family) String() string {
	if f == PeptideFragment {
		return "peptide fragment"
	}
	return "Family(" + strconv.Itoa(int(f)) + ")"
}

// IonType identifies a kind of peptide fragment.
type IonType int

const (
	AIon IonType = iota
	ANH3Ion
	AH2OIon
	BIon
	BNH3Ion
	BH2OIon
	CIon
	XIon
	YIon
	YNH3Ion
	YH2OIon
	ZIon
	// MHIon is the intact peptide, the number of H is not represented.
	MHIon
	MHNH3Ion
	MHH2OIon
	// Immonium ions carry no residue information yet.
	Immonium
	// PrecursorLoss carries no loss information yet.
	PrecursorLoss
)

var ionNames = [...]string{
	"a", "a-NH3", "a-H2O",
	"b", "b-NH3", "b-H2O",
	"c",
	"x",
	"y", "y-NH3", "y-H2O",
	"z",
	"MH", "MH-NH3", "MH-H2O",
	"i",
	"Prec-loss",
}

func (t IonType) String() string {
	if t < 0 || int(t) >= len(ionNames) {
		return "IonType(" + strconv.Itoa(int(t)) + ")"
	}
	return ionNames[t]
}

// IsNTerminal tells whether the ion holds the N-terminus of the peptide.
func (t IonType) IsNTerminal() bool {
	return t >= AIon && t <= CIon
}

// IsCTerminal tells whether the ion holds the C-terminus of the peptide.
func (t IonType) IsCTerminal() bool {
	return t >= XIon && t <= ZIon
}

// PeptideFragmentIon is a fragment of a peptide. Number is the count of
// residues in the fragment and TheoreticMass its neutral mass.
type PeptideFragmentIon struct {
	ionType       IonType
	number        int
	charge        int
	theoreticMass float64
}

// NewPeptideFragmentIon returns a fragment observed at mz, of unknown
// charge.
func NewPeptideFragmentIon(ionType IonType, mz float64) *PeptideFragmentIon {
	return &PeptideFragmentIon{ionType: ionType, theoreticMass: mz}
}

// NewPeptideFragmentIonWithCharge returns a theoretic fragment of number
// residues.
func NewPeptideFragmentIonWithCharge(ionType IonType, number, charge int) *PeptideFragmentIon {
	return &PeptideFragmentIon{ionType: ionType, number: number, charge: charge}
}

func (i *PeptideFragmentIon) Type() IonType          { return i.ionType }
func (i *PeptideFragmentIon) Number() int            { return i.number }
func (i *PeptideFragmentIon) Charge() int            { return i.charge }
func (i *PeptideFragmentIon) TheoreticMass() float64 { return i.theoreticMass }
func (i *PeptideFragmentIon) Family() Family         { return PeptideFragment }
func (i *PeptideFragmentIon) Name() string           { return i.ionType.String() }

func (i *PeptideFragmentIon) SetTheoreticMass(mass float64) {
	i.theoreticMass = mass
}

// MZ returns the m/z of the ion, its mass when the charge is unknown.
func (i *PeptideFragmentIon) MZ() float64 {
	if i.charge <= 0 {
		return i.theoreticMass
	}
	return (i.theoreticMass + float64(i.charge)*biology.ProtonMass) / float64(i.charge)
}

// String returns the ion annotation, for instance y2-NH3++.
func (i *PeptideFragmentIon) String() string {
	name := i.Name()
	if i.ionType.IsNTerminal() || i.ionType.IsCTerminal() {
		name = name[:1] + strconv.Itoa(i.number) + name[1:]
	}
	return name + strings.Repeat("+", i.charge)
}

// residueMasses returns the residue masses of a peptide, modifications
// included. Terminal modifications are carried by the terminal residues.
func residueMasses(peptide *biology.Peptide, factory *biology.PTMFactory) ([]float64, error) {
	sequence := peptide.Sequence()
	masses := make([]float64, len(sequence))
	for i := 0; i < len(sequence); i++ {
		aa, ok := biology.AminoAcidByLetter(sequence[i])
		if !ok {
			return nil, fmt.Errorf("%w: unknown amino acid %q in %s", apierrors.ErrInvalidSequence, sequence[i], sequence)
		}
		masses[i] = aa.MonoisotopicMass()
	}
	if len(masses) == 0 {
		return masses, nil
	}
	for _, m := range peptide.ModificationMatches() {
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if !ok {
			return nil, fmt.Errorf("%w: %s", apierrors.ErrUnknownPTM, m.TheoreticPTM)
		}
		site := m.Site
		if site < 1 {
			site = 1
		} else if site > len(masses) {
			site = len(masses)
		}
		masses[site-1] += ptm.Mass
	}
	return masses, nil
}

// neutral losses are only considered when a residue able to lose them is
// in the fragment.
func losesNH3(fragment string) bool { return strings.ContainsAny(fragment, "RKQN") }
func losesH2O(fragment string) bool { return strings.ContainsAny(fragment, "STED") }

// Fragments returns the a, b, c, x, y and z ions of a peptide with their
// neutral losses, and the precursor ions, for charges 1 to maxCharge.
func Fragments(peptide *biology.Peptide, factory *biology.PTMFactory, maxCharge int) ([]*PeptideFragmentIon, error) {
	if factory == nil {
		factory = biology.DefaultPTMFactory()
	}
	if maxCharge < 1 {
		maxCharge = 1
	}
	masses, err := residueMasses(peptide, factory)
	if err != nil {
		return nil, err
	}
	sequence := peptide.Sequence()
	n := len(masses)

	var ret []*PeptideFragmentIon
	add := func(t IonType, number, charge int, mass float64) {
		ion := NewPeptideFragmentIonWithCharge(t, number, charge)
		ion.theoreticMass = mass
		ret = append(ret, ion)
	}

	total := biology.MassH2O
	for _, m := range masses {
		total += m
	}

	for charge := 1; charge <= maxCharge; charge++ {
		forward := 0.0
		for i := 1; i < n; i++ {
			forward += masses[i-1]
			nTerm, cTerm := sequence[:i], sequence[i:]
			b := forward
			y := total - forward

			add(AIon, i, charge, b-biology.MassCO)
			if losesNH3(nTerm) {
				add(ANH3Ion, i, charge, b-biology.MassCO-biology.MassNH3)
			}
			if losesH2O(nTerm) {
				add(AH2OIon, i, charge, b-biology.MassCO-biology.MassH2O)
			}
			add(BIon, i, charge, b)
			if losesNH3(nTerm) {
				add(BNH3Ion, i, charge, b-biology.MassNH3)
			}
			if losesH2O(nTerm) {
				add(BH2OIon, i, charge, b-biology.MassH2O)
			}
			add(CIon, i, charge, b+biology.MassNH3)

			add(XIon, n-i, charge, y+biology.MassCO-2*biology.MassH)
			add(YIon, n-i, charge, y)
			if losesNH3(cTerm) {
				add(YNH3Ion, n-i, charge, y-biology.MassNH3)
			}
			if losesH2O(cTerm) {
				add(YH2OIon, n-i, charge, y-biology.MassH2O)
			}
			add(ZIon, n-i, charge, y-biology.MassNH3)
		}

		if n == 0 {
			continue
		}
		add(MHIon, n, charge, total)
		if losesNH3(sequence) {
			add(MHNH3Ion, n, charge, total-biology.MassNH3)
		}
		if losesH2O(sequence) {
			add(MHH2OIon, n, charge, total-biology.MassH2O)
		}
	}
	return ret, nil
}
