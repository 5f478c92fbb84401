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

package ions

import (
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/experiment/biology"
)

func find(ions []*PeptideFragmentIon, t IonType, number, charge int) *PeptideFragmentIon {
	for _, ion := range ions {
		if ion.Type() == t && ion.Number() == number && ion.Charge() == charge {
			return ion
		}
	}
	return nil
}

func TestIonType(t *testing.T) {
	require.Equal(t, IonType(0), AIon)
	require.Equal(t, IonType(16), PrecursorLoss)
	require.Equal(t, "y-NH3", YNH3Ion.String())
	require.Equal(t, "Prec-loss", PrecursorLoss.String())
	require.Equal(t, "IonType(17)", IonType(17).String())
	require.True(t, CIon.IsNTerminal())
	require.True(t, ZIon.IsCTerminal())
	require.False(t, MHIon.IsNTerminal())
	require.False(t, MHIon.IsCTerminal())
}

func TestPeptideFragmentIon(t *testing.T) {
	ion := NewPeptideFragmentIon(BIon, 512.3)
	require.Equal(t, BIon, ion.Type())
	require.Equal(t, PeptideFragment, ion.Family())
	require.Equal(t, "b", ion.Name())
	require.Equal(t, 512.3, ion.MZ())

	ion = NewPeptideFragmentIonWithCharge(YNH3Ion, 2, 2)
	require.Equal(t, 2, ion.Number())
	require.Equal(t, 2, ion.Charge())
	require.Equal(t, "y2-NH3++", ion.String())
	ion.SetTheoreticMass(100)
	require.InDelta(t, 51.00727646688, ion.MZ(), 1e-9)

	require.Equal(t, "MH+", NewPeptideFragmentIonWithCharge(MHIon, 3, 1).String())
}

func TestFragments(t *testing.T) {
	peptide := biology.NewPeptide("PEK", nil)
	ions, err := Fragments(peptide, nil, 1)
	require.NoError(t, err)
	require.Len(t, ions, 20)

	b1 := find(ions, BIon, 1, 1)
	require.NotNil(t, b1)
	require.InDelta(t, 98.06004031888, b1.MZ(), 1e-6)
	require.Equal(t, "b1+", b1.String())
	require.Nil(t, find(ions, BH2OIon, 1, 1))
	require.NotNil(t, find(ions, BH2OIon, 2, 1))

	y1 := find(ions, YIon, 1, 1)
	require.NotNil(t, y1)
	require.InDelta(t, 147.11280417088, y1.MZ(), 1e-6)
	require.NotNil(t, find(ions, YNH3Ion, 1, 1))
	require.Nil(t, find(ions, YH2OIon, 1, 1))

	mh := find(ions, MHIon, 3, 1)
	require.NotNil(t, mh)
	require.InDelta(t, 372.2008846522, mh.TheoreticMass(), 1e-6)
	mass, err := peptide.Mass()
	require.NoError(t, err)
	require.InDelta(t, mass, mh.TheoreticMass(), 1e-9)

	// b and y ions complete each other
	b2 := find(ions, BIon, 2, 1)
	require.InDelta(t, mass, b2.TheoreticMass()+y1.TheoreticMass(), 1e-9)

	ions, err = Fragments(peptide, nil, 2)
	require.NoError(t, err)
	require.Len(t, ions, 40)
	y2 := find(ions, YIon, 2, 2)
	require.NotNil(t, y2)
	require.InDelta(t, 138.58133686698, y2.MZ(), 1e-6)
}

func TestFragments_Modifications(t *testing.T) {
	plain, err := Fragments(biology.NewPeptide("PEPMK", nil), nil, 1)
	require.NoError(t, err)
	modified, err := Fragments(biology.NewPeptide("PEPMK", []*biology.ModificationMatch{
		biology.NewModificationMatch("Oxidation of M", true, 4),
	}), biology.DefaultPTMFactory(), 1)
	require.NoError(t, err)

	require.InDelta(t, find(plain, BIon, 3, 1).TheoreticMass(), find(modified, BIon, 3, 1).TheoreticMass(), 1e-9)
	require.InDelta(t, 15.994915, find(modified, BIon, 4, 1).TheoreticMass()-find(plain, BIon, 4, 1).TheoreticMass(), 1e-9)
	require.InDelta(t, 15.994915, find(modified, YIon, 2, 1).TheoreticMass()-find(plain, YIon, 2, 1).TheoreticMass(), 1e-9)
	require.InDelta(t, find(plain, YIon, 1, 1).TheoreticMass(), find(modified, YIon, 1, 1).TheoreticMass(), 1e-9)

	_, err = Fragments(biology.NewPeptide("PEPMK", []*biology.ModificationMatch{
		biology.NewModificationMatch("nothing", true, 4),
	}), nil, 1)
	require.ErrorIs(t, err, apierrors.ErrUnknownPTM)

	_, err = Fragments(biology.NewPeptide("PEXK", nil), nil, 1)
	require.ErrorIs(t, err, apierrors.ErrInvalidSequence)

	ions, err := Fragments(biology.NewPeptide("", nil), nil, 1)
	require.NoError(t, err)
	require.Len(t, ions, 0)
}
