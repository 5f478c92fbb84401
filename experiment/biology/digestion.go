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

type CleavagePreference int

const (
	CleavageEnzyme CleavagePreference = iota
	CleavageUnspecific
	CleavageWholeProtein
)

func (c CleavagePreference) String() string {
	switch c {
	case CleavageEnzyme:
		return "enzyme"
	case CleavageUnspecific:
		return "unspecific"
	case CleavageWholeProtein:
		return "whole protein"
	default:
		return "unknown"
	}
}

// DigestionPreferences tells how proteins are cut into peptides.
type DigestionPreferences struct {
	CleavagePreference CleavagePreference `json:"cleavage_preference"`
	Enzymes            []*Enzyme          `json:"enzymes,omitempty"`
	// MissedCleavages by enzyme name.
	MissedCleavages map[string]int `json:"missed_cleavages,omitempty"`
}

// DefaultDigestionPreferences cuts with trypsin allowing two missed
// cleavages.
func DefaultDigestionPreferences() *DigestionPreferences {
	prefs := &DigestionPreferences{
		CleavagePreference: CleavageEnzyme,
		MissedCleavages:    make(map[string]int),
	}
	if trypsin, ok := EnzymeFactoryInstance().Enzyme("Trypsin"); ok {
		prefs.AddEnzyme(trypsin, 2)
	}
	return prefs
}

func (p *DigestionPreferences) AddEnzyme(enzyme *Enzyme, missedCleavages int) {
	if p.MissedCleavages == nil {
		p.MissedCleavages = make(map[string]int)
	}
	p.Enzymes = append(p.Enzymes, enzyme)
	p.MissedCleavages[enzyme.Name] = missedCleavages
}

func (p *DigestionPreferences) String() string {
	if p.CleavagePreference != CleavageEnzyme {
		return p.CleavagePreference.String()
	}
	names := make([]string, 0, len(p.Enzymes))
	for _, e := range p.Enzymes {
		names = append(names, e.Name)
	}
	return strings.Join(names, ", ")
}
