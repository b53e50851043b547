package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ErrActNotFound is returned when an act id has no configuration.
var ErrActNotFound = errors.New("act not found")

//go:embed acts.yaml
var defaultActs []byte

//go:embed acts.schema.json
var actsSchema string

var catalogSchema = jsonschema.MustCompileString("acts.schema.json", actsSchema)

// Catalog is the set of configured acts, keyed by id.
type Catalog struct {
	acts  map[string]*Act
	order []string
}

type catalogFile struct {
	Acts []*Act `yaml:"acts"`
}

// DefaultCatalog returns the built-in act catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultActs)
	if err != nil {
		panic(fmt.Sprintf("built-in act catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog loads an act catalog from a YAML file. An empty path returns the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading act catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("parsing act catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog validates and decodes a YAML act catalog, filling defaults on every act.
func ParseCatalog(data []byte) (*Catalog, error) {
	if err := validateCatalog(data); err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding acts: %w", err)
	}

	c := NewCatalog()
	for _, a := range f.Acts {
		if _, dup := c.acts[a.ID]; dup {
			return nil, fmt.Errorf("duplicate act %q", a.ID)
		}
		c.Add(a)
	}
	slog.Debug("act catalog loaded", "acts", len(c.order))
	return c, nil
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{acts: make(map[string]*Act)}
}

// Add normalizes a and registers it, replacing any act with the same id.
func (c *Catalog) Add(a *Act) {
	a.Normalize()
	if _, ok := c.acts[a.ID]; !ok {
		c.order = append(c.order, a.ID)
	}
	c.acts[a.ID] = a
}

// Act returns the act with the given id.
// A miss wraps ErrActNotFound and names the closest configured id, if any is close.
func (c *Catalog) Act(id string) (*Act, error) {
	if a, ok := c.acts[id]; ok {
		return a, nil
	}
	if s := c.suggest(id); s != "" {
		return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrActNotFound, id, s)
	}
	return nil, fmt.Errorf("%w: %q", ErrActNotFound, id)
}

// IDs returns act ids in catalog order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) suggest(id string) string {
	type scored struct {
		id   string
		dist int
	}
	var cands []scored
	for _, known := range c.order {
		d := levenshtein.ComputeDistance(id, known)
		if d <= max(2, len(known)/3) {
			cands = append(cands, scored{known, d})
		}
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	return cands[0].id
}

// validateCatalog checks the document shape against the embedded JSON schema.
// YAML is round-tripped through JSON so the validator sees canonical JSON values.
func validateCatalog(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding acts: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting acts to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("converting acts to json: %w", err)
	}
	if err := catalogSchema.Validate(v); err != nil {
		return fmt.Errorf("validating acts: %w", err)
	}
	return nil
}
