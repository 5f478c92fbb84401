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
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// PTMType tells where a modification can be found.
type PTMType int

const (
	// ModAA modifies a residue.
	ModAA PTMType = iota
	// ModN modifies the N-terminus of a protein.
	ModN
	// ModNAA modifies the N-terminal residue of a protein.
	ModNAA
	// ModC modifies the C-terminus of a protein.
	ModC
	// ModCAA modifies the C-terminal residue of a protein.
	ModCAA
	// ModNP modifies the N-terminus of a peptide.
	ModNP
	// ModNPAA modifies the N-terminal residue of a peptide.
	ModNPAA
	// ModCP modifies the C-terminus of a peptide.
	ModCP
	// ModCPAA modifies the C-terminal residue of a peptide.
	ModCPAA
	// ModMax is the upper bound of the types.
	ModMax
)

var ptmTypeNames = [...]string{"MODAA", "MODN", "MODNAA", "MODC", "MODCAA", "MODNP", "MODNPAA", "MODCP", "MODCPAA", "MODMAX"}

func (t PTMType) String() string {
	if t < 0 || int(t) >= len(ptmTypeNames) {
		return "PTMType(" + strconv.Itoa(int(t)) + ")"
	}
	return ptmTypeNames[t]
}

// ParsePTMType parses the name of a type, case insensitive.
func ParsePTMType(s string) (PTMType, error) {
	for i, name := range ptmTypeNames {
		if strings.EqualFold(s, name) {
			return PTMType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modification type %q", s)
}

func (t PTMType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *PTMType) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParsePTMType(value.Value)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// IsNTerminal tells whether the modification sits at an N-terminus.
func (t PTMType) IsNTerminal() bool {
	return t == ModN || t == ModNAA || t == ModNP || t == ModNPAA
}

// IsCTerminal tells whether the modification sits at a C-terminus.
func (t PTMType) IsCTerminal() bool {
	return t == ModC || t == ModCAA || t == ModCP || t == ModCPAA
}

// PTM is a post-translational modification.
type PTM struct {
	Name      string  `yaml:"name" json:"name"`
	ShortName string  `yaml:"short_name" json:"short_name"`
	Mass      float64 `yaml:"mass" json:"mass"`
	Type      PTMType `yaml:"type" json:"type"`
	// Residues lists the targeted amino acids, empty for terminal
	// modifications targeting any residue.
	Residues string `yaml:"residues,omitempty" json:"residues,omitempty"`
}

// MassAsString formats the mass the way it appears in peptide keys.
func (p *PTM) MassAsString() string {
	s := strconv.FormatFloat(p.Mass, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Targets tells whether the modification can be found on aa.
func (p *PTM) Targets(aa byte) bool {
	if p.Residues == "" {
		return p.Type != ModAA
	}
	return strings.IndexByte(p.Residues, aa) >= 0
}

func (p *PTM) String() string {
	return fmt.Sprintf("%s (%s, %s)", p.Name, p.MassAsString(), p.Type)
}
