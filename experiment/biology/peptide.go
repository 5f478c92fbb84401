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
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	apierrors "github.com/compomics/utilities/errors"
)

const (
	// ModificationSeparator separates the modifications in a peptide key.
	ModificationSeparator = "_"
	// ModificationLocalizationSeparator separates a modification mass from
	// its site in a peptide key.
	ModificationLocalizationSeparator = "-ATAA-"

	unknownModification = "unknown-modification"
	unknownMass         = -1
)

var sequenceJunk = regexp.MustCompile("[#*$%&]")

// ProteinProvider gives the sequence of a protein accession.
type ProteinProvider interface {
	ProteinSequence(accession string) (string, error)
}

// Peptide is an amino acid sequence with its modifications. The key, the
// matching key and the mass are computed on demand and reset when the
// modifications change.
type Peptide struct {
	lock sync.Mutex

	id                  int64
	sequence            string
	key                 string
	matchingKey         string
	mass                float64
	proteinMapping      map[string][]int
	modificationMatches []*ModificationMatch
	variantMatches      []*VariantMatch
}

// NewPeptide returns a peptide without checking its sequence or
// modifications. A nil modification list is kept nil.
func NewPeptide(sequence string, modificationMatches []*ModificationMatch) *Peptide {
	return &Peptide{
		sequence:            sequence,
		mass:                unknownMass,
		modificationMatches: copyModificationMatches(modificationMatches),
	}
}

// NewCheckedPeptide returns a peptide after removing the non amino acid
// characters #*$%& from the sequence. Modification names containing a key
// separator are rejected.
func NewCheckedPeptide(sequence string, modificationMatches []*ModificationMatch) (*Peptide, error) {
	p := NewPeptide(sequence, modificationMatches)
	if err := p.sanityCheck(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewPeptideWithMass is NewPeptide with a known mass.
func NewPeptideWithMass(sequence string, modificationMatches []*ModificationMatch, mass float64) *Peptide {
	p := NewPeptide(sequence, modificationMatches)
	p.mass = mass
	return p
}

// NewPeptideWithVariants returns a peptide carrying sequence variants.
func NewPeptideWithVariants(sequence string, modificationMatches []*ModificationMatch, variantMatches []*VariantMatch, sanityCheck bool) (*Peptide, error) {
	if modificationMatches == nil {
		modificationMatches = []*ModificationMatch{}
	}
	p := NewPeptide(sequence, modificationMatches)
	p.variantMatches = append([]*VariantMatch{}, variantMatches...)
	if sanityCheck {
		if err := p.sanityCheck(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Peptide) sanityCheck() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.sequence = sequenceJunk.ReplaceAllString(p.sequence, "")
	conflicting := make(map[string]struct{})
	for _, m := range p.modificationMatches {
		if strings.Contains(m.TheoreticPTM, ModificationSeparator) || strings.Contains(m.TheoreticPTM, ModificationLocalizationSeparator) {
			conflicting[m.TheoreticPTM] = struct{}{}
		}
	}
	if len(conflicting) == 0 {
		return nil
	}
	names := make([]string, 0, len(conflicting))
	for name := range conflicting {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("%w: names containing '%s' or '%s' are not supported, conflicting name(s): %s",
		apierrors.ErrConflictingPTM, ModificationSeparator, ModificationLocalizationSeparator, strings.Join(names, ", "))
}

func (p *Peptide) ID() int64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.id
}

func (p *Peptide) SetID(id int64) {
	p.lock.Lock()
	p.id = id
	p.lock.Unlock()
}

func (p *Peptide) Sequence() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.sequence
}

// SetSequence changes the sequence and resets the cached key and mass.
func (p *Peptide) SetSequence(sequence string) {
	p.lock.Lock()
	p.sequence = sequence
	p.resetLocked()
	p.lock.Unlock()
}

func (p *Peptide) resetLocked() {
	p.mass = unknownMass
	p.key = ""
	p.matchingKey = ""
}

// Mass returns the monoisotopic mass, estimating it when unknown.
func (p *Peptide) Mass() (float64, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.mass == unknownMass {
		if err := p.estimateLocked(); err != nil {
			return 0, err
		}
	}
	return p.mass, nil
}

func (p *Peptide) SetMass(mass float64) {
	p.lock.Lock()
	p.mass = mass
	p.lock.Unlock()
}

// EstimateTheoreticMass computes the mass when unknown: water plus the
// residues and modifications.
func (p *Peptide) EstimateTheoreticMass() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.mass != unknownMass {
		return nil
	}
	return p.estimateLocked()
}

func (p *Peptide) estimateLocked() error {
	mass := MassH2O
	for i := 0; i < len(p.sequence); i++ {
		aa, ok := AminoAcidByLetter(p.sequence[i])
		if !ok {
			return fmt.Errorf("%w: unknown amino acid %q in %s", apierrors.ErrInvalidSequence, p.sequence[i], p.sequence)
		}
		mass += aa.MonoisotopicMass()
	}
	factory := DefaultPTMFactory()
	for _, m := range p.modificationMatches {
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if !ok {
			return fmt.Errorf("%w: %s", apierrors.ErrUnknownPTM, m.TheoreticPTM)
		}
		mass += ptm.Mass
	}
	p.mass = mass
	return nil
}

// Key returns the peptide key, see PeptideKey.
func (p *Peptide) Key() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.key == "" {
		p.key = PeptideKey(p.sequence, p.modificationMatches)
	}
	return p.key
}

func (p *Peptide) SetKey(key string) {
	p.lock.Lock()
	p.key = key
	p.lock.Unlock()
}

// MatchingKey returns the key of the matching sequence under prefs.
func (p *Peptide) MatchingKey(prefs *SequenceMatchingPreferences) string {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.matchingKey == "" {
		p.matchingKey = PeptideKey(MatchingSequence(p.sequence, prefs), p.modificationMatches)
	}
	return p.matchingKey
}

func (p *Peptide) SetMatchingKey(key string) {
	p.lock.Lock()
	p.matchingKey = key
	p.lock.Unlock()
}

// ResetKeysCaches forgets the key and the matching key.
func (p *Peptide) ResetKeysCaches() {
	p.lock.Lock()
	p.key = ""
	p.matchingKey = ""
	p.lock.Unlock()
}

// PeptideKey builds the key of a sequence and its modifications: the
// sequence followed by the sorted masses of the variable modifications,
// each prefixed by the modification separator. Confident and inferred
// modifications carry their site. Without modification list the key is
// the sequence.
func PeptideKey(sequence string, modificationMatches []*ModificationMatch) string {
	if modificationMatches == nil {
		return sequence
	}
	factory := DefaultPTMFactory()
	mods := make([]string, 0, len(modificationMatches))
	size := len(sequence)
	for _, m := range modificationMatches {
		if !m.Variable {
			continue
		}
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if m.TheoreticPTM == "" || !ok {
			mods = append(mods, unknownModification)
			size += len(unknownModification) + 1
			continue
		}
		mod := ptm.MassAsString()
		if m.Confident || m.Inferred {
			mod += ModificationLocalizationSeparator + strconv.Itoa(m.Site)
		}
		mods = append(mods, mod)
		size += len(mod) + 1
	}
	sort.Strings(mods)

	var b strings.Builder
	b.Grow(size)
	b.WriteString(sequence)
	for _, mod := range mods {
		b.WriteString(ModificationSeparator)
		b.WriteString(mod)
	}
	return b.String()
}

// ModificationFamily returns the modification masses of a peptide key,
// without their sites.
func ModificationFamily(peptideKey string) []string {
	parts := strings.Split(peptideKey, ModificationSeparator)
	ret := make([]string, 0, len(parts)-1)
	for _, part := range parts[1:] {
		ret = append(ret, strings.SplitN(part, ModificationLocalizationSeparator, 2)[0])
	}
	return ret
}

// ProteinMapping returns the sites of the peptide on its proteins by
// accession.
func (p *Peptide) ProteinMapping() map[string][]int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.proteinMapping
}

func (p *Peptide) SetProteinMapping(mapping map[string][]int) {
	p.lock.Lock()
	p.proteinMapping = mapping
	p.lock.Unlock()
}

// ParentProteins returns the accessions of the protein mapping, sorted.
func (p *Peptide) ParentProteins() []string {
	p.lock.Lock()
	ret := make([]string, 0, len(p.proteinMapping))
	for accession := range p.proteinMapping {
		ret = append(ret, accession)
	}
	p.lock.Unlock()
	sort.Strings(ret)
	return ret
}

// ModificationMatches returns a copy of the modifications of the peptide,
// nil when they were never set.
func (p *Peptide) ModificationMatches() []*ModificationMatch {
	p.lock.Lock()
	defer p.lock.Unlock()
	return copyModificationMatches(p.modificationMatches)
}

func (p *Peptide) SetModificationMatches(matches []*ModificationMatch) {
	p.lock.Lock()
	p.modificationMatches = copyModificationMatches(matches)
	p.resetLocked()
	p.lock.Unlock()
}

func (p *Peptide) ClearModificationMatches() {
	p.lock.Lock()
	if p.modificationMatches != nil {
		p.modificationMatches = []*ModificationMatch{}
	}
	p.resetLocked()
	p.lock.Unlock()
}

func (p *Peptide) AddModificationMatch(match *ModificationMatch) {
	p.lock.Lock()
	p.modificationMatches = append(p.modificationMatches, match)
	p.resetLocked()
	p.lock.Unlock()
}

func (p *Peptide) VariantMatches() []*VariantMatch {
	p.lock.Lock()
	defer p.lock.Unlock()
	return copyVariantMatches(p.variantMatches)
}

func (p *Peptide) SetVariantMatches(matches []*VariantMatch) {
	p.lock.Lock()
	p.variantMatches = copyVariantMatches(matches)
	p.lock.Unlock()
}

func (p *Peptide) ClearVariantMatches() {
	p.lock.Lock()
	if p.variantMatches != nil {
		p.variantMatches = []*VariantMatch{}
	}
	p.lock.Unlock()
}

func (p *Peptide) AddVariantMatch(match *VariantMatch) {
	p.AddVariantMatches([]*VariantMatch{match})
}

func (p *Peptide) AddVariantMatches(matches []*VariantMatch) {
	p.lock.Lock()
	if p.variantMatches == nil {
		p.variantMatches = make([]*VariantMatch, 0, len(matches))
	}
	p.variantMatches = append(p.variantMatches, matches...)
	p.lock.Unlock()
}

func copyModificationMatches(matches []*ModificationMatch) []*ModificationMatch {
	if matches == nil {
		return nil
	}
	return append(make([]*ModificationMatch, 0, len(matches)), matches...)
}

func copyVariantMatches(matches []*VariantMatch) []*VariantMatch {
	if matches == nil {
		return nil
	}
	return append(make([]*VariantMatch, 0, len(matches)), matches...)
}

func (p *Peptide) IsModified() bool {
	return p.NModifications() > 0
}

func (p *Peptide) NModifications() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.modificationMatches)
}

// NVariableModifications counts the variable modifications of a mass.
func (p *Peptide) NVariableModifications(mass float64) int {
	factory := DefaultPTMFactory()
	n := 0
	for _, m := range p.ModificationMatches() {
		if !m.Variable {
			continue
		}
		if ptm, ok := factory.PTM(m.TheoreticPTM); ok && ptm.Mass == mass {
			n++
		}
	}
	return n
}

// NMissedCleavages counts the missed cleavages of enzyme in the sequence.
func (p *Peptide) NMissedCleavages(enzyme *Enzyme) int {
	return enzyme.NMissedCleavages(p.Sequence())
}

// NMissedCleavagesWith returns the smallest count of missed cleavages over
// the enzymes of prefs. It is false when the digestion is not enzymatic.
func (p *Peptide) NMissedCleavagesWith(prefs *DigestionPreferences) (int, bool) {
	if prefs.CleavagePreference != CleavageEnzyme || len(prefs.Enzymes) == 0 {
		return 0, false
	}
	best := math.MaxInt32
	for _, enzyme := range prefs.Enzymes {
		if n := p.NMissedCleavages(enzyme); n < best {
			best = n
		}
	}
	return best, true
}

// IsSameSequence compares the sequences under prefs.
func (p *Peptide) IsSameSequence(other *Peptide, prefs *SequenceMatchingPreferences) bool {
	return SequencesMatch(p.Sequence(), other.Sequence(), prefs)
}

// IsSameModificationStatus tells whether both peptides carry the same
// number of modifications of each mass.
func (p *Peptide) IsSameModificationStatus(other *Peptide) bool {
	if !p.IsModified() && !other.IsModified() {
		return true
	}
	if p.NModifications() != other.NModifications() {
		return false
	}
	m1 := massOccurrences(ModificationFamily(p.Key()))
	m2 := massOccurrences(ModificationFamily(other.Key()))
	if len(m1) != len(m2) {
		return false
	}
	for mass, n := range m1 {
		if m2[mass] != n {
			return false
		}
	}
	return true
}

func massOccurrences(masses []string) map[string]int {
	ret := make(map[string]int, len(masses))
	for _, m := range masses {
		if mass, err := strconv.ParseFloat(m, 64); err == nil {
			m = strconv.FormatFloat(mass, 'g', -1, 64)
		}
		ret[m]++
	}
	return ret
}

// IsSameSequenceAndModificationStatus combines IsSameSequence and
// IsSameModificationStatus.
func (p *Peptide) IsSameSequenceAndModificationStatus(other *Peptide, prefs *SequenceMatchingPreferences) bool {
	return p.IsSameSequence(other, prefs) && p.IsSameModificationStatus(other)
}

// SameModificationsAs tells whether both peptides carry the modifications
// of ptms at the same sites, modifications being compared by mass.
func (p *Peptide) SameModificationsAs(other *Peptide, ptms []string) bool {
	if !p.IsModified() && !other.IsModified() {
		return true
	}
	if p.NModifications() != other.NModifications() {
		return false
	}
	wanted := make(map[string]struct{}, len(ptms))
	for _, name := range ptms {
		wanted[name] = struct{}{}
	}
	sites1 := sitesByMass(p.ModificationMatches(), wanted)
	sites2 := sitesByMass(other.ModificationMatches(), wanted)
	for mass, s1 := range sites1 {
		s2, ok := sites2[mass]
		if !ok || len(s1) != len(s2) {
			return false
		}
		for i := range s1 {
			if s1[i] != s2[i] {
				return false
			}
		}
	}
	return true
}

// SameModificationsAsAll is SameModificationsAs over every modification
// found on either peptide.
func (p *Peptide) SameModificationsAsAll(other *Peptide) bool {
	var ptms []string
	seen := make(map[string]struct{})
	for _, matches := range [][]*ModificationMatch{p.ModificationMatches(), other.ModificationMatches()} {
		for _, m := range matches {
			if _, ok := seen[m.TheoreticPTM]; !ok {
				seen[m.TheoreticPTM] = struct{}{}
				ptms = append(ptms, m.TheoreticPTM)
			}
		}
	}
	return p.SameModificationsAs(other, ptms)
}

func sitesByMass(matches []*ModificationMatch, wanted map[string]struct{}) map[float64][]int {
	factory := DefaultPTMFactory()
	ret := make(map[float64][]int)
	for _, m := range matches {
		if _, ok := wanted[m.TheoreticPTM]; !ok {
			continue
		}
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if !ok {
			continue
		}
		ret[ptm.Mass] = append(ret[ptm.Mass], m.Site)
	}
	for _, sites := range ret {
		sort.Ints(sites)
	}
	return ret
}

// NTerminal returns the N-terminal group: NH2 or the short name of a
// terminal modification on the first residue.
func (p *Peptide) NTerminal() string {
	return p.terminal("NH2", func(site, _ int) bool { return site == 1 })
}

// CTerminal returns the C-terminal group: COOH or the short name of a
// terminal modification on the last residue.
func (p *Peptide) CTerminal() string {
	return p.terminal("COOH", func(site, length int) bool { return site == length })
}

func (p *Peptide) terminal(group string, atTerminus func(site, length int) bool) string {
	factory := DefaultPTMFactory()
	length := len(p.Sequence())
	for _, m := range p.ModificationMatches() {
		if !atTerminus(m.Site, length) {
			continue
		}
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if ok && ptm.Type != ModAA && ptm.Type != ModMax {
			group = ptm.ShortName
		}
	}
	return strings.ReplaceAll(group, "-", " ")
}

// TaggedModifiedSequence returns the sequence with its termini and the
// residue modifications tagged, for instance NH2-PEPM<ox>K-COOH. Variable
// modifications not confidently localized are marked with a star.
func (p *Peptide) TaggedModifiedSequence(useShortName, excludeFixed bool) string {
	factory := DefaultPTMFactory()
	sequence := p.Sequence()
	tags := make(map[int][]string)
	for _, m := range p.ModificationMatches() {
		if !m.Variable && excludeFixed {
			continue
		}
		ptm, ok := factory.PTM(m.TheoreticPTM)
		if ok && ptm.Type != ModAA {
			continue
		}
		name := m.TheoreticPTM
		if ok && useShortName {
			name = ptm.ShortName
		}
		if m.Variable && !m.Confident {
			name += "*"
		}
		tags[m.Site] = append(tags[m.Site], name)
	}

	var b strings.Builder
	b.WriteString(p.NTerminal())
	b.WriteString("-")
	for i := 0; i < len(sequence); i++ {
		b.WriteByte(sequence[i])
		if names, ok := tags[i+1]; ok {
			sort.Strings(names)
			b.WriteString("<")
			b.WriteString(strings.Join(names, ","))
			b.WriteString(">")
		}
	}
	b.WriteString("-")
	b.WriteString(p.CTerminal())
	return b.String()
}

// ModificationsAsString lists the variable, or fixed, modifications with
// their sites: "Oxidation of M (3), Phosphorylation of S (1, 5)".
func (p *Peptide) ModificationsAsString(variable bool) string {
	sites := make(map[string][]int)
	for _, m := range p.ModificationMatches() {
		if m.Variable == variable {
			sites[m.TheoreticPTM] = append(sites[m.TheoreticPTM], m.Site)
		}
	}
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		s := make([]string, 0, len(sites[name]))
		for _, site := range sites[name] {
			s = append(s, strconv.Itoa(site))
		}
		parts = append(parts, name+" ("+strings.Join(s, ", ")+")")
	}
	return strings.Join(parts, ", ")
}

// ModifiedIndexes returns the 1 based indexes of the residues carrying a
// residue modification, fixed ones included unless excludeFixed.
func (p *Peptide) ModifiedIndexes(excludeFixed bool) []int {
	factory := DefaultPTMFactory()
	matches := p.ModificationMatches()
	length := len(p.Sequence())
	ret := make([]int, 0, len(matches))
	for i := 1; i <= length; i++ {
		for _, m := range matches {
			if m.Site != i || (excludeFixed && !m.Variable) {
				continue
			}
			if ptm, ok := factory.PTM(m.TheoreticPTM); ok && ptm.Type == ModAA {
				ret = append(ret, i)
			}
		}
	}
	return ret
}

// IndexedFixedModifications returns the fixed modification names by site.
func (p *Peptide) IndexedFixedModifications() map[int][]string {
	ret := make(map[int][]string)
	for _, m := range p.ModificationMatches() {
		if !m.Variable {
			ret[m.Site] = append(ret[m.Site], m.TheoreticPTM)
		}
	}
	return ret
}

// PotentialModificationSites returns the 1 based sites where ptm can be
// found on the peptide located at indexOnProtein, 0 based, in
// proteinSequence.
func (p *Peptide) PotentialModificationSites(ptm *PTM, proteinSequence string, indexOnProtein int) []int {
	sequence := p.Sequence()
	length := len(sequence)
	if length == 0 {
		return nil
	}
	proteinNTerm := indexOnProtein == 0
	proteinCTerm := indexOnProtein+length == len(proteinSequence)

	var sites []int
	switch ptm.Type {
	case ModAA:
		for i := 0; i < length; i++ {
			if ptm.Targets(sequence[i]) {
				sites = append(sites, i+1)
			}
		}
	case ModC:
		if proteinCTerm {
			sites = append(sites, length)
		}
	case ModCP:
		sites = append(sites, length)
	case ModN:
		if proteinNTerm {
			sites = append(sites, 1)
		}
	case ModNP:
		sites = append(sites, 1)
	case ModCAA:
		if proteinCTerm && ptm.Targets(sequence[length-1]) {
			sites = append(sites, length)
		}
	case ModCPAA:
		if ptm.Targets(sequence[length-1]) {
			sites = append(sites, length)
		}
	case ModNAA:
		if proteinNTerm && ptm.Targets(sequence[0]) {
			sites = append(sites, 1)
		}
	case ModNPAA:
		if ptm.Targets(sequence[0]) {
			sites = append(sites, 1)
		}
	}
	return sites
}

// IsNterm returns the parent proteins the peptide starts, the initiator
// methionine being optional.
func (p *Peptide) IsNterm(provider ProteinProvider, prefs *SequenceMatchingPreferences) ([]string, error) {
	sequence := MatchingSequence(p.Sequence(), prefs)
	return p.filterProteins(provider, func(protein string) bool {
		protein = MatchingSequence(protein, prefs)
		return strings.HasPrefix(protein, sequence) ||
			(strings.HasPrefix(protein, "M") && strings.HasPrefix(protein[1:], sequence))
	})
}

// IsCterm returns the parent proteins the peptide ends.
func (p *Peptide) IsCterm(provider ProteinProvider, prefs *SequenceMatchingPreferences) ([]string, error) {
	sequence := MatchingSequence(p.Sequence(), prefs)
	return p.filterProteins(provider, func(protein string) bool {
		return strings.HasSuffix(MatchingSequence(protein, prefs), sequence)
	})
}

func (p *Peptide) filterProteins(provider ProteinProvider, keep func(protein string) bool) ([]string, error) {
	var ret []string
	for _, accession := range p.ParentProteins() {
		protein, err := provider.ProteinSequence(accession)
		if err != nil {
			return nil, err
		}
		if keep(protein) {
			ret = append(ret, accession)
		}
	}
	return ret, nil
}

// NoModPeptide returns a copy of peptide without the modifications of ptms.
func NoModPeptide(peptide *Peptide, ptms []*PTM) *Peptide {
	excluded := make(map[string]struct{}, len(ptms))
	for _, ptm := range ptms {
		excluded[ptm.Name] = struct{}{}
	}
	ret := NewPeptide(peptide.Sequence(), []*ModificationMatch{})
	ret.SetProteinMapping(peptide.ProteinMapping())
	for _, m := range peptide.ModificationMatches() {
		if _, ok := excluded[m.TheoreticPTM]; !ok {
			ret.AddModificationMatch(m)
		}
	}
	return ret
}

type peptideJSON struct {
	Sequence            string               `json:"sequence"`
	Key                 string               `json:"key,omitempty"`
	Mass                float64              `json:"mass"`
	ProteinMapping      map[string][]int     `json:"protein_mapping,omitempty"`
	ModificationMatches []*ModificationMatch `json:"modification_matches"`
	VariantMatches      []*VariantMatch      `json:"variant_matches,omitempty"`
}

func (p *Peptide) MarshalJSON() ([]byte, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return json.Marshal(&peptideJSON{
		Sequence:            p.sequence,
		Key:                 p.key,
		Mass:                p.mass,
		ProteinMapping:      p.proteinMapping,
		ModificationMatches: p.modificationMatches,
		VariantMatches:      p.variantMatches,
	})
}

func (p *Peptide) UnmarshalJSON(data []byte) error {
	v := &peptideJSON{Mass: unknownMass}
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.sequence = v.Sequence
	p.key = v.Key
	p.matchingKey = ""
	p.mass = v.Mass
	p.proteinMapping = v.ProteinMapping
	p.modificationMatches = v.ModificationMatches
	p.variantMatches = v.VariantMatches
	return nil
}
