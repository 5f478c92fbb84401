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
	_ "embed"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/cubefs/cubefs/blobstore/util/log"
	"github.com/cubefs/cubefs/util/btree"
	"gopkg.in/yaml.v3"

	apierrors "github.com/compomics/utilities/errors"
)

//go:embed ptms.yaml
var defaultPTMs []byte

type ptmDefinitions struct {
	PTMs []*PTM `yaml:"ptms"`
}

type massItem struct {
	mass float64
	name string
}

func (m *massItem) Less(than btree.Item) bool {
	other := than.(*massItem)
	if m.mass != other.mass {
		return m.mass < other.mass
	}
	return m.name < other.name
}

func (m *massItem) Copy() btree.Item {
	i := *m
	return &i
}

// PTMFactory holds the known modifications by name and by mass.
type PTMFactory struct {
	lock   sync.RWMutex
	ptms   map[string]*PTM
	byMass *btree.BTree
}

var (
	defaultPTMFactory     *PTMFactory
	defaultPTMFactoryOnce sync.Once
)

// DefaultPTMFactory returns the process wide factory, loaded with the
// built in modifications on first use.
func DefaultPTMFactory() *PTMFactory {
	defaultPTMFactoryOnce.Do(func() {
		defaultPTMFactory = NewPTMFactory()
		if err := defaultPTMFactory.LoadPTMs(bytes.NewReader(defaultPTMs)); err != nil {
			log.Fatalf("load built in modifications failed: %s", err)
		}
	})
	return defaultPTMFactory
}

func NewPTMFactory() *PTMFactory {
	return &PTMFactory{
		ptms:   make(map[string]*PTM),
		byMass: btree.New(16),
	}
}

// LoadPTMs adds the modifications of a YAML definition file.
func (f *PTMFactory) LoadPTMs(r io.Reader) error {
	defs := &ptmDefinitions{}
	if err := yaml.NewDecoder(r).Decode(defs); err != nil && err != io.EOF {
		return err
	}
	for _, ptm := range defs.PTMs {
		if err := f.AddPTM(ptm); err != nil {
			return err
		}
	}
	return nil
}

// SavePTMs writes the modifications as a YAML definition file.
func (f *PTMFactory) SavePTMs(w io.Writer) error {
	defs := &ptmDefinitions{}
	for _, name := range f.Names() {
		ptm, _ := f.PTM(name)
		defs.PTMs = append(defs.PTMs, ptm)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(defs); err != nil {
		return err
	}
	return enc.Close()
}

// AddPTM adds or replaces a modification. Names may not contain the
// separators used in peptide keys.
func (f *PTMFactory) AddPTM(ptm *PTM) error {
	if ptm == nil || ptm.Name == "" {
		return fmt.Errorf("%w: empty name", apierrors.ErrUnknownPTM)
	}
	if strings.Contains(ptm.Name, ModificationSeparator) || strings.Contains(ptm.Name, ModificationLocalizationSeparator) {
		return fmt.Errorf("%w: %s", apierrors.ErrConflictingPTM, ptm.Name)
	}
	if ptm.ShortName == "" {
		ptm.ShortName = ptm.Name
	}

	f.lock.Lock()
	defer f.lock.Unlock()
	if old, ok := f.ptms[ptm.Name]; ok {
		f.byMass.Delete(&massItem{mass: old.Mass, name: old.Name})
	}
	f.ptms[ptm.Name] = ptm
	f.byMass.ReplaceOrInsert(&massItem{mass: ptm.Mass, name: ptm.Name})
	return nil
}

// PTM returns the modification of a name.
func (f *PTMFactory) PTM(name string) (*PTM, bool) {
	f.lock.RLock()
	ptm, ok := f.ptms[name]
	f.lock.RUnlock()
	return ptm, ok
}

func (f *PTMFactory) ContainsPTM(name string) bool {
	_, ok := f.PTM(name)
	return ok
}

// Names lists the modification names, sorted.
func (f *PTMFactory) Names() []string {
	f.lock.RLock()
	ret := make([]string, 0, len(f.ptms))
	for name := range f.ptms {
		ret = append(ret, name)
	}
	f.lock.RUnlock()
	sort.Strings(ret)
	return ret
}

// ByMass returns the modifications whose mass is within tolerance of mass,
// by increasing mass.
func (f *PTMFactory) ByMass(mass, tolerance float64) []*PTM {
	lo := &massItem{mass: mass - tolerance}
	hi := &massItem{mass: math.Nextafter(mass+tolerance, math.Inf(1))}

	var ret []*PTM
	f.lock.RLock()
	f.byMass.AscendRange(lo, hi, func(i btree.Item) bool {
		ret = append(ret, f.ptms[i.(*massItem).name])
		return true
	})
	f.lock.RUnlock()
	return ret
}
