// internal/regions/regions.go
//
// Reference table of Indian states and union territories.
//
// Responsibilities:
//   - Decode the region list from the embedded JSON (or a file named by REGIONS_FILE).
//   - Validate it once at construction: unique names, unique codes, one code per
//     region, and no lookup key shared by two regions.
//   - Resolve free-text input to a region by canonical name or alias.
//   - Map canonical names to the short codes that address map shapes.
//
// A Table is immutable after New returns and is safe for concurrent readers.

package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/statesquiz/assets"
)

// Kind tells states apart from union territories.
type Kind string

const (
	KindState          Kind = "state"
	KindUnionTerritory Kind = "union_territory"
)

// Region is one entry of the reference table.
type Region struct {
	Name    string   `json:"name"`    // canonical, unique
	Code    string   `json:"code"`    // map shape address, unique
	Kind    Kind     `json:"kind"`    // state | union_territory
	Aliases []string `json:"aliases"` // lowercase accepted spellings
}

var (
	ErrEmptyTable     = errors.New("regions: table is empty")
	ErrEmptyName      = errors.New("regions: empty name")
	ErrDuplicateName  = errors.New("regions: duplicate name")
	ErrMissingCode    = errors.New("regions: missing code")
	ErrDuplicateCode  = errors.New("regions: duplicate code")
	ErrAliasCollision = errors.New("regions: alias resolves to more than one region")
)

// Table is the ordered, validated set of regions.
type Table struct {
	regions []Region
	byKey   map[string]int // normalized name or alias -> index
	byName  map[string]int // canonical name -> index
}

// New normalizes aliases and validates the list. Table order is input order.
func New(list []Region) (*Table, error) {
	if len(list) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		regions: make([]Region, 0, len(list)),
		byKey:   make(map[string]int, len(list)*3),
		byName:  make(map[string]int, len(list)),
	}
	codes := make(map[string]string, len(list))

	for _, r := range list {
		r.Name = strings.TrimSpace(r.Name)
		r.Code = strings.TrimSpace(r.Code)
		if r.Name == "" {
			return nil, ErrEmptyName
		}
		if r.Code == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingCode, r.Name)
		}
		if other, dup := codes[r.Code]; dup {
			return nil, fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateCode, r.Code, other, r.Name)
		}
		codes[r.Code] = r.Name

		idx := len(t.regions)
		nameKey := Normalize(r.Name)
		if prev, taken := t.byKey[nameKey]; taken {
			if Normalize(t.regions[prev].Name) == nameKey {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
			}
			return nil, fmt.Errorf("%w: %q (%q, %q)", ErrAliasCollision, nameKey, t.regions[prev].Name, r.Name)
		}
		t.byKey[nameKey] = idx

		aliases := make([]string, 0, len(r.Aliases))
		for _, a := range r.Aliases {
			key := Normalize(a)
			if key == "" || contains(aliases, key) {
				continue
			}
			aliases = append(aliases, key)
			if key == nameKey {
				continue
			}
			if prev, taken := t.byKey[key]; taken && prev != idx {
				return nil, fmt.Errorf("%w: %q (%q, %q)", ErrAliasCollision, key, t.regions[prev].Name, r.Name)
			}
			t.byKey[key] = idx
		}
		r.Aliases = aliases
		t.byName[r.Name] = idx
		t.regions = append(t.regions, r)
	}
	return t, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Parse decodes a JSON array of regions and builds a Table from it.
func Parse(data []byte) (*Table, error) {
	var list []Region
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode regions: %w", err)
	}
	return New(list)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in table of 28 states and 8 union territories.
// It panics if the embedded data is invalid, which is a build defect.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(assets.RegionsJSON())
		if err != nil {
			panic(fmt.Sprintf("embedded regions: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a table from path, or returns Default when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions file: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Lookup resolves raw input to a region by canonical name (any case) or
// alias. Input is normalized first; empty input never matches.
func (t *Table) Lookup(input string) (Region, bool) {
	key := Normalize(input)
	if key == "" {
		return Region{}, false
	}
	idx, ok := t.byKey[key]
	if !ok {
		return Region{}, false
	}
	return t.regions[idx], true
}

// ByName returns the region with the given canonical name.
func (t *Table) ByName(name string) (Region, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Region{}, false
	}
	return t.regions[idx], true
}

// CodeFor returns the map code for a canonical name.
func (t *Table) CodeFor(name string) (string, bool) {
	r, ok := t.ByName(name)
	if !ok {
		return "", false
	}
	return r.Code, true
}

// Len is the total number of regions, i.e. the number of guesses needed to finish.
func (t *Table) Len() int { return len(t.regions) }

// All returns a copy of the regions in table order.
func (t *Table) All() []Region {
	out := make([]Region, len(t.regions))
	for i, r := range t.regions {
		r.Aliases = append([]string(nil), r.Aliases...)
		out[i] = r
	}
	return out
}

// Names returns canonical names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.regions))
	for i, r := range t.regions {
		out[i] = r.Name
	}
	return out
}

// Codes returns map codes in table order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.regions))
	for i, r := range t.regions {
		out[i] = r.Code
	}
	return out
}

// Count returns how many regions are of kind k.
func (t *Table) Count(k Kind) int {
	n := 0
	for _, r := range t.regions {
		if r.Kind == k {
			n++
		}
	}
	return n
}
