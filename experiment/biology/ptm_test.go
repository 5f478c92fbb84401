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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apierrors "github.com/compomics/utilities/errors"
)

func TestPTMType(t *testing.T) {
	require.Equal(t, "MODAA", ModAA.String())
	require.Equal(t, "MODCPAA", ModCPAA.String())
	typ, err := ParsePTMType("modnp")
	require.NoError(t, err)
	require.Equal(t, ModNP, typ)
	_, err = ParsePTMType("nothing")
	require.Error(t, err)
	require.True(t, ModNPAA.IsNTerminal())
	require.True(t, ModC.IsCTerminal())
	require.False(t, ModAA.IsNTerminal())
}

func TestMassAsString(t *testing.T) {
	require.Equal(t, "15.994915", (&PTM{Mass: 15.994915}).MassAsString())
	require.Equal(t, "-17.026549", (&PTM{Mass: -17.026549}).MassAsString())
	require.Equal(t, "42.0", (&PTM{Mass: 42}).MassAsString())
}

func TestDefaultPTMFactory(t *testing.T) {
	f := DefaultPTMFactory()
	require.Same(t, f, DefaultPTMFactory())

	ox, ok := f.PTM("Oxidation of M")
	require.True(t, ok)
	require.Equal(t, "ox", ox.ShortName)
	require.Equal(t, ModAA, ox.Type)
	require.True(t, ox.Targets('M'))
	require.False(t, ox.Targets('K'))

	ace, ok := f.PTM("Acetylation of peptide N-term")
	require.True(t, ok)
	require.Equal(t, ModNP, ace.Type)
	require.True(t, ace.Targets('A'))

	names := f.Names()
	require.Contains(t, names, "Phosphorylation of S")
	require.True(t, len(names) > 10)
}

func TestPTMFactory_ByMass(t *testing.T) {
	f := NewPTMFactory()
	err := f.LoadPTMs(strings.NewReader(`
ptms:
  - name: a
    mass: 10.0
    type: MODAA
    residues: K
  - name: b
    mass: 10.005
    type: MODNP
  - name: c
    mass: 20
    type: MODCP
`))
	require.NoError(t, err)

	ptms := f.ByMass(10, 0.01)
	require.Len(t, ptms, 2)
	require.Equal(t, "a", ptms[0].Name)
	require.Equal(t, "b", ptms[1].Name)
	require.Equal(t, "b", ptms[1].ShortName)
	require.Len(t, f.ByMass(10, 0.001), 1)
	require.Len(t, f.ByMass(20, 0), 1)
	require.Len(t, f.ByMass(30, 1), 0)

	// replacing a modification moves it in the mass index
	require.NoError(t, f.AddPTM(&PTM{Name: "a", Mass: 30, Type: ModAA}))
	require.Len(t, f.ByMass(10, 0.001), 0)
	require.Len(t, f.ByMass(30, 0), 1)

	require.ErrorIs(t, f.AddPTM(&PTM{Name: "bad_name"}), apierrors.ErrConflictingPTM)
	require.ErrorIs(t, f.AddPTM(&PTM{Name: "bad-ATAA-name"}), apierrors.ErrConflictingPTM)
	require.Error(t, f.AddPTM(&PTM{}))
}

func TestPTMFactory_SaveLoad(t *testing.T) {
	f := NewPTMFactory()
	require.NoError(t, f.AddPTM(&PTM{Name: "x", ShortName: "xx", Mass: 1.5, Type: ModCAA, Residues: "K"}))
	buf := &bytes.Buffer{}
	require.NoError(t, f.SavePTMs(buf))
	require.Contains(t, buf.String(), "MODCAA")

	g := NewPTMFactory()
	require.NoError(t, g.LoadPTMs(buf))
	x, ok := g.PTM("x")
	require.True(t, ok)
	require.Equal(t, &PTM{Name: "x", ShortName: "xx", Mass: 1.5, Type: ModCAA, Residues: "K"}, x)
}

func TestMatchingSequence(t *testing.T) {
	require.Equal(t, "PEPTIDE", MatchingSequence("PEPTIDE", nil))
	require.Equal(t, "PEPTIDE", MatchingSequence("PEPTIDE", DefaultStringMatching))
	require.Equal(t, "PEPTLDE", MatchingSequence("PEPTIDE", &SequenceMatchingPreferences{Type: AminoAcidMatching}))
	require.True(t, SequencesMatch("PEPTIDE", "PEPTLDE", &SequenceMatchingPreferences{Type: AminoAcidMatching}))
	require.False(t, SequencesMatch("PEPTIDE", "PEPTLDE", nil))
}
