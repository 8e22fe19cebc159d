package volume

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AreaType describes one entry of the area-type catalog: the traversal
// semantics a volume applies to the surface it covers. The catalog is
// display-and-cost metadata only; a volume referencing a removed entry
// keeps working and is merely flagged in listings.
type AreaType struct {
	ID    uint8   `yaml:"id" json:"id"`
	Name  string  `yaml:"name" json:"name"`
	Color string  `yaml:"color" json:"color"`
	Cost  float64 `yaml:"cost" json:"cost"`
}

// AreaCatalog is an ordered collection of area types.
type AreaCatalog struct {
	areas []AreaType
	byID  map[uint8]int
}

// DefaultAreas is the compiled-in catalog used when no config file is
// provided.
var DefaultAreas = []AreaType{
	{ID: 0, Name: "unwalkable", Color: "#404040", Cost: 0},
	{ID: 1, Name: "ground", Color: "#4A90D9", Cost: 1},
	{ID: 2, Name: "water", Color: "#3498DB", Cost: 10},
	{ID: 3, Name: "lava", Color: "#E74C3C", Cost: 0},
}

// NewAreaCatalog builds a catalog from the given entries. Later entries
// with a duplicate id replace earlier ones.
func NewAreaCatalog(areas []AreaType) *AreaCatalog {
	c := &AreaCatalog{byID: make(map[uint8]int)}
	for _, a := range areas {
		if i, ok := c.byID[a.ID]; ok {
			c.areas[i] = a
			continue
		}
		c.byID[a.ID] = len(c.areas)
		c.areas = append(c.areas, a)
	}
	return c
}

// DefaultCatalog returns a catalog holding DefaultAreas.
func DefaultCatalog() *AreaCatalog {
	return NewAreaCatalog(DefaultAreas)
}

// catalogFile is the YAML shape of an area catalog config.
type catalogFile struct {
	Areas []AreaType `yaml:"areas"`
}

// LoadCatalog reads an area catalog from a YAML file.
func LoadCatalog(path string) (*AreaCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read area catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse area catalog %s: %w", path, err)
	}
	if len(f.Areas) == 0 {
		return nil, fmt.Errorf("area catalog %s defines no areas", path)
	}
	return NewAreaCatalog(f.Areas), nil
}

// IsValid reports whether id refers to a catalog entry.
func (c *AreaCatalog) IsValid(id uint8) bool {
	_, ok := c.byID[id]
	return ok
}

// NameOf returns the display name for id, or false when the id does not
// refer to a catalog entry.
func (c *AreaCatalog) NameOf(id uint8) (string, bool) {
	i, ok := c.byID[id]
	if !ok {
		return "", false
	}
	return c.areas[i].Name, true
}

// Get returns the full entry for id.
func (c *AreaCatalog) Get(id uint8) (AreaType, bool) {
	i, ok := c.byID[id]
	if !ok {
		return AreaType{}, false
	}
	return c.areas[i], true
}

// IDByName returns the id of the entry named name.
func (c *AreaCatalog) IDByName(name string) (uint8, bool) {
	for _, a := range c.areas {
		if a.Name == name {
			return a.ID, true
		}
	}
	return 0, false
}

// All returns the catalog entries in definition order.
func (c *AreaCatalog) All() []AreaType {
	return append([]AreaType(nil), c.areas...)
}
