// Package catalog holds the fixed category taxonomy used to validate
// records. It is loaded once at startup and never changes afterwards, so
// it is safe for concurrent readers without locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"tally/internal/core"
)

//go:embed defaults.json
var defaultsJSON []byte

// Catalog maps each record kind to its categories and their subcategories.
type Catalog struct {
	kinds map[core.Kind]map[string][]string
}

// Load builds the catalog from the JSON file at path, or from the embedded
// defaults when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Default builds the catalog from the embedded defaults.
func Default() (*Catalog, error) {
	return parse(defaultsJSON)
}

// LoadFile builds the catalog from an operator-maintained JSON file of
// shape {"expense": {"food": ["groceries", ...], ...}, "credit": {...}}.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	c, err := parse(b)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return c, nil
}

// DefaultJSON returns a copy of the embedded default catalog definition.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultsJSON))
	copy(out, defaultsJSON)
	return out
}

func parse(b []byte) (*Catalog, error) {
	var raw map[string]map[string][]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	kinds := make(map[core.Kind]map[string][]string, 2)
	for rawKind, categories := range raw {
		kind := core.Kind(rawKind)
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown kind %q in catalog", rawKind)
		}
		byCategory := make(map[string][]string, len(categories))
		for name, subs := range categories {
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("blank category name under kind %q", rawKind)
			}
			byCategory[name] = normalizeSubcategories(rawKind, name, subs)
			if byCategory[name] == nil && len(subs) > 0 {
				return nil, fmt.Errorf("blank subcategory under %s category %q", rawKind, name)
			}
		}
		kinds[kind] = byCategory
	}

	for _, kind := range []core.Kind{core.KindExpense, core.KindCredit} {
		if len(kinds[kind]) == 0 {
			return nil, fmt.Errorf("catalog must define at least one %s category", kind)
		}
	}
	return &Catalog{kinds: kinds}, nil
}

// normalizeSubcategories sorts and dedupes, returning nil when any entry is
// blank so the caller can reject the definition.
func normalizeSubcategories(kind, category string, subs []string) []string {
	seen := make(map[string]struct{}, len(subs))
	out := make([]string, 0, len(subs))
	for _, s := range subs {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Categories returns the sorted category names for a kind.
func (c *Catalog) Categories(kind core.Kind) []string {
	byCategory := c.kinds[kind]
	out := make([]string, 0, len(byCategory))
	for name := range byCategory {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Subcategories returns the sorted subcategory names for a category, or nil
// when the category is unknown.
func (c *Catalog) Subcategories(kind core.Kind, category string) []string {
	subs, ok := c.kinds[kind][category]
	if !ok {
		return nil
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out
}

func (c *Catalog) HasCategory(kind core.Kind, category string) bool {
	_, ok := c.kinds[kind][category]
	return ok
}

func (c *Catalog) HasSubcategory(kind core.Kind, category, subcategory string) bool {
	for _, s := range c.kinds[kind][category] {
		if s == subcategory {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the whole catalog, keyed by kind name.
// Mutating the copy never affects the catalog itself.
func (c *Catalog) Snapshot() map[string]map[string][]string {
	out := make(map[string]map[string][]string, len(c.kinds))
	for kind, byCategory := range c.kinds {
		categories := make(map[string][]string, len(byCategory))
		for name, subs := range byCategory {
			copied := make([]string, len(subs))
			copy(copied, subs)
			categories[name] = copied
		}
		out[kind.String()] = categories
	}
	return out
}
