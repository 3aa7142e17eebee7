package inventory

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ItemStats is one catalog entry: the bonus contribution of a single item.
type ItemStats struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Bonuses []int  `yaml:"bonuses"`
}

// Validate checks that the ItemStats satisfies its invariants.
//
// Postcondition: returns nil iff ID > 0, Name is set and Bonuses has BonusCount entries.
func (s *ItemStats) Validate() error {
	var errs []error
	if s.ID <= 0 {
		errs = append(errs, fmt.Errorf("id must be > 0, got %d", s.ID))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(s.Bonuses) != BonusCount {
		errs = append(errs, fmt.Errorf("bonuses must have %d entries, got %d", BonusCount, len(s.Bonuses)))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item stats validation failed: %v", errs)
	}
	return nil
}

// Vector returns the bonuses as a BonusVector.
//
// Precondition: Validate returned nil.
func (s *ItemStats) Vector() BonusVector {
	var v BonusVector
	copy(v[:], s.Bonuses)
	return v
}

type itemStatsFile struct {
	Items []*ItemStats `yaml:"items"`
}

// ParseItemStats decodes and validates an item stats YAML document.
//
// Postcondition: returns all entries or the first validation error.
func ParseItemStats(data []byte) ([]*ItemStats, error) {
	var f itemStatsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing item stats: %w", err)
	}
	for i, s := range f.Items {
		if s == nil {
			return nil, fmt.Errorf("item stats entry %d is empty", i)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("item stats entry %d (%q): %w", i, s.Name, err)
		}
	}
	return f.Items, nil
}

// LoadItemStats reads an item stats YAML file from path.
//
// Precondition: path names a readable file.
// Postcondition: returns all valid entries or an error.
func LoadItemStats(path string) ([]*ItemStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadItemStats: cannot read file %q: %w", path, err)
	}
	items, err := ParseItemStats(data)
	if err != nil {
		return nil, fmt.Errorf("LoadItemStats: %q: %w", path, err)
	}
	return items, nil
}

// Catalog is an immutable id -> bonus table.
type Catalog struct {
	items map[int]*ItemStats
}

// NewCatalog indexes items by id.
//
// Postcondition: returns an error if two entries share an id.
func NewCatalog(items []*ItemStats) (*Catalog, error) {
	c := &Catalog{items: make(map[int]*ItemStats, len(items))}
	for _, s := range items {
		if _, exists := c.items[s.ID]; exists {
			return nil, fmt.Errorf("inventory: NewCatalog: item id %d already registered", s.ID)
		}
		c.items[s.ID] = s
	}
	return c, nil
}

// Lookup returns the bonus contribution of a canonical item id.
func (c *Catalog) Lookup(id int) (BonusVector, bool) {
	s, ok := c.items[id]
	if !ok {
		return BonusVector{}, false
	}
	return s.Vector(), true
}

// Name returns the catalog name of id, or "" if unknown.
func (c *Catalog) Name(id int) string {
	if s, ok := c.items[id]; ok {
		return s.Name
	}
	return ""
}

// Items returns every entry ordered by id.
func (c *Catalog) Items() []*ItemStats {
	out := make([]*ItemStats, 0, len(c.items))
	for _, s := range c.items {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *ItemStats) int { return a.ID - b.ID })
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.items)
}

//go:embed overrides.yaml
var overridesYAML []byte

var (
	staticOnce    sync.Once
	staticCatalog *Catalog
)

// StaticCatalog returns the process-wide override catalog for items whose
// live stats are missing or wrong, building it on first use.
//
// Postcondition: the returned catalog is never mutated; concurrent reads are safe.
func StaticCatalog() *Catalog {
	staticOnce.Do(func() {
		items, err := ParseItemStats(overridesYAML)
		if err != nil {
			panic(fmt.Sprintf("inventory: embedded overrides: %v", err))
		}
		c, err := NewCatalog(items)
		if err != nil {
			panic(fmt.Sprintf("inventory: embedded overrides: %v", err))
		}
		staticCatalog = c
	})
	return staticCatalog
}
