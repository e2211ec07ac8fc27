package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agbru/friedmann/internal/cosmo"
	apperrors "github.com/agbru/friedmann/internal/errors"
)

// AllPresets selects every preset of the catalog.
const AllPresets = "all"

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a named model with a one-line description.
type Preset struct {
	Model       cosmo.Model
	Description string
}

// presetEntry is the YAML form of a preset. w and h0 are pointers so that a
// missing key takes the default instead of zero.
type presetEntry struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	OmegaR      float64  `yaml:"omega_r"`
	OmegaM      float64  `yaml:"omega_m"`
	OmegaL      float64  `yaml:"omega_l"`
	W           *float64 `yaml:"w"`
	H0          *float64 `yaml:"h0"`
}

type presetDocument struct {
	Presets []presetEntry `yaml:"presets"`
}

// Catalog is an ordered set of presets addressed by name.
type Catalog struct {
	presets []Preset
	index   map[string]int
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// DefaultCatalog returns the built-in presets. The embedded file is part of
// the binary, so a parse failure is a programming error.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	if err := c.Merge(builtinPresets); err != nil {
		panic(fmt.Sprintf("config: invalid built-in presets: %v", err))
	}
	return c
}

// Merge decodes a YAML preset document and adds its presets, replacing
// existing ones with the same name.
func (c *Catalog) Merge(data []byte) error {
	var doc presetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return apperrors.WrapError(err, "decoding presets")
	}
	for i, e := range doc.Presets {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			return apperrors.NewConfigError("preset #%d has no name", i+1)
		}
		if name == AllPresets {
			return apperrors.NewConfigError("preset name %q is reserved", AllPresets)
		}
		m := cosmo.NewModel(name, e.OmegaR, e.OmegaM, e.OmegaL)
		if e.W != nil {
			m.W = *e.W
		}
		if e.H0 != nil {
			m.H0 = *e.H0
		}
		if err := m.Validate(); err != nil {
			return apperrors.WrapError(err, "preset %q", name)
		}
		c.put(Preset{Model: m, Description: e.Description})
	}
	return nil
}

// MergeFile loads additional presets from a YAML file.
func (c *Catalog) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.WrapError(err, "reading preset file")
	}
	return c.Merge(data)
}

func (c *Catalog) put(p Preset) {
	if i, ok := c.index[p.Model.Name]; ok {
		c.presets[i] = p
		return
	}
	c.index[p.Model.Name] = len(c.presets)
	c.presets = append(c.presets, p)
}

// Get returns the preset with the given name.
func (c *Catalog) Get(name string) (Preset, bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, false
	}
	return c.presets[i], true
}

// Names returns the preset names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Model.Name
	}
	return names
}

// SortedNames returns the preset names in lexical order.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Presets returns a copy of the presets in catalog order.
func (c *Catalog) Presets() []Preset {
	return append([]Preset(nil), c.presets...)
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, p := range c.presets {
		out.put(p)
	}
	return out
}
