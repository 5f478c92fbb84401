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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cubefs/cubefs/blobstore/util/log"

	apierrors "github.com/compomics/utilities/errors"
	"github.com/compomics/utilities/util"
)

//go:embed enzymes.xml
var defaultEnzymes []byte

type xmlEnzyme struct {
	XMLName           xml.Name `xml:"enzyme"`
	ID                *string  `xml:"id"`
	Name              string   `xml:"name"`
	AminoAcidBefore   string   `xml:"aminoAcidBefore"`
	RestrictionBefore string   `xml:"restrictionBefore"`
	AminoAcidAfter    string   `xml:"aminoAcidAfter"`
	RestrictionAfter  string   `xml:"restrictionAfter"`
	SemiSpecific      string   `xml:"semiSpecific"`
}

// EnzymeFactory holds the known enzymes by name.
type EnzymeFactory struct {
	lock    sync.RWMutex
	enzymes map[string]*Enzyme
}

var (
	enzymeFactory     *EnzymeFactory
	enzymeFactoryOnce sync.Once
)

// EnzymeFactoryInstance returns the process wide factory, loaded with the
// built in enzymes on first use.
func EnzymeFactoryInstance() *EnzymeFactory {
	enzymeFactoryOnce.Do(func() {
		enzymeFactory = NewEnzymeFactory()
		if err := enzymeFactory.ImportEnzymes(bytes.NewReader(defaultEnzymes)); err != nil {
			log.Fatalf("load built in enzymes failed: %s", err)
		}
	})
	return enzymeFactory
}

func NewEnzymeFactory() *EnzymeFactory {
	return &EnzymeFactory{enzymes: make(map[string]*Enzyme)}
}

// ImportEnzymesFile replaces the enzymes by the ones of an XML file.
func (f *EnzymeFactory) ImportEnzymesFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	tr := &util.TimeReader{R: file}
	if err = f.ImportEnzymes(tr); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("imported %d enzymes from %s, read cost %s", f.Len(), path, tr.GetCost())
	return nil
}

// ImportEnzymes replaces the enzymes by the ones read from r. The previous
// enzymes are kept when r can not be parsed.
func (f *EnzymeFactory) ImportEnzymes(r io.Reader) error {
	enzymes := make(map[string]*Enzyme)
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "enzyme" {
			continue
		}

		line, _ := d.InputPos()
		e := &xmlEnzyme{}
		if err = d.DecodeElement(e, &start); err != nil {
			return err
		}
		enzyme, err := e.enzyme(line)
		if err != nil {
			return err
		}
		enzymes[enzyme.Name] = enzyme
	}

	f.lock.Lock()
	f.enzymes = enzymes
	f.lock.Unlock()
	return nil
}

func (e *xmlEnzyme) enzyme(line int) (*Enzyme, error) {
	if e.ID == nil {
		return nil, fmt.Errorf("%w: no 'id' tag in the enzyme on line %d", apierrors.ErrInvalidEnzymeID, line)
	}
	id, err := strconv.Atoi(strings.TrimSpace(*e.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: found non-parseable text '%s' for the value of the 'id' tag in the enzyme on line %d",
			apierrors.ErrInvalidEnzymeID, *e.ID, line)
	}
	return NewEnzyme(id,
		strings.TrimSpace(e.Name),
		strings.TrimSpace(e.AminoAcidBefore),
		strings.TrimSpace(e.RestrictionBefore),
		strings.TrimSpace(e.AminoAcidAfter),
		strings.TrimSpace(e.RestrictionAfter),
		strings.EqualFold(strings.TrimSpace(e.SemiSpecific), "yes"),
	), nil
}

// Enzymes returns the enzymes sorted by id.
func (f *EnzymeFactory) Enzymes() []*Enzyme {
	f.lock.RLock()
	ret := make([]*Enzyme, 0, len(f.enzymes))
	for _, e := range f.enzymes {
		ret = append(ret, e)
	}
	f.lock.RUnlock()
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].ID != ret[j].ID {
			return ret[i].ID < ret[j].ID
		}
		return ret[i].Name < ret[j].Name
	})
	return ret
}

func (f *EnzymeFactory) Enzyme(name string) (*Enzyme, bool) {
	f.lock.RLock()
	e, ok := f.enzymes[name]
	f.lock.RUnlock()
	return e, ok
}

func (f *EnzymeFactory) AddEnzyme(enzyme *Enzyme) {
	f.lock.Lock()
	f.enzymes[enzyme.Name] = enzyme
	f.lock.Unlock()
}

func (f *EnzymeFactory) EnzymeLoaded(name string) bool {
	_, ok := f.Enzyme(name)
	return ok
}

func (f *EnzymeFactory) Len() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return len(f.enzymes)
}

// prideEnzymes maps lower case PRIDE enzyme names to enzyme names.
var prideEnzymes = map[string]string{
	"trypsin":                 "Trypsin",
	"chymotrypsin":            "Chymotrypsin (FYWL)",
	"arg-c":                   "Arg-C",
	"argc":                    "Arg-C",
	"arg c":                   "Arg-C",
	"cnbr":                    "CNBr",
	"formic acid":             "Formic Acid",
	"lys-c":                   "Lys-C",
	"lysc":                    "Lys-C",
	"lys c":                   "Lys-C",
	"lys-c/p":                 "Lys-C, no P rule",
	"lysc/p":                  "Lys-C, no P rule",
	"lys c/p":                 "Lys-C, no P rule",
	"pepsin a":                "Pepsin A",
	"pepsin":                  "Pepsin A",
	"trypsin + cnbr":          "Trypsin + CNBr",
	"trypsin + chymotrypsin":  "Trypsin + Chymotrypsin ((FYWLKR))",
	"trypsin, no p rule":      "Trypsin, no P rule",
	"whole protein":           "Whole Protein",
	"asp-n":                   "Asp-N",
	"aspn":                    "Asp-N",
	"asp n":                   "Asp-N",
	"glu-c":                   "Glu-C",
	"gluc":                    "Glu-C",
	"glu c":                   "Glu-C",
	"asp-n + glu-c":           "Asp-N + Glu-C",
	"top-down":                "Top-Down",
	"semi-tryptic":            "Semi-Tryptic",
	"no enzyme":               "No Enzyme",
	"chymotrypsin, no p rule": "Chymotrypsin, no P rule (FYWL)",
	"asp-n de":                "Asp-N (DE)",
	"aspn de":                 "Asp-N (DE)",
	"asp n de":                "Asp-N (DE)",
	"glu-c de":                "Glu-C (DE)",
	"gluc de":                 "Glu-C (DE)",
	"glu c de":                "Glu-C (DE)",
	"lys-n k":                 "Lys-N (K)",
	"lys-n":                   "Lys-N (K)",
	"thermolysin":             "Thermolysin, no P rule",
	"semi-chymotrypsin":       "Semi-Chymotrypsin (FYWL)",
	"semi glu-c":              "Semi-Glu-C",
	"semi gluc":               "Semi-Glu-C",
	"semi glu c":              "Semi-Glu-C",
}

// UtilitiesEnzyme returns the enzyme of a PRIDE enzyme name.
func (f *EnzymeFactory) UtilitiesEnzyme(prideName string) (*Enzyme, bool) {
	name, ok := prideEnzymes[strings.ToLower(strings.TrimSpace(prideName))]
	if !ok {
		return nil, false
	}
	return f.Enzyme(name)
}
