package formula

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Catalog is a concurrency-safe set of formulas addressable by name or alias.
// Names match case-insensitively; aliases match exactly, so "m" and "M" can
// mean different things.
type Catalog struct {
	// reloadMu serializes Reload so a load is never installed after a newer one.
	reloadMu sync.Mutex

	mu          sync.RWMutex
	byName      map[string]Formula
	aliases     map[string]string
	fingerprint string
}

// NewCatalog creates a catalog holding formulas.
func NewCatalog(formulas ...Formula) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(formulas, ""); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace swaps the catalog's contents. Later entries override earlier ones
// with the same name. fingerprint identifies the source set; see Fingerprint.
func (c *Catalog) Replace(formulas []Formula, fingerprint string) error {
	byName := make(map[string]Formula, len(formulas))
	for _, f := range formulas {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("formula %q: %w", f.Name, err)
		}
		byName[strings.ToLower(f.Name)] = f
	}

	aliases := make(map[string]string)
	for key, f := range byName {
		for _, a := range f.Aliases {
			if _, clash := byName[strings.ToLower(a)]; clash {
				return fmt.Errorf("formula %q: alias %q shadows a formula name", f.Name, a)
			}
			if other, dup := aliases[a]; dup && other != key {
				return fmt.Errorf("formula %q: alias %q already used by %q", f.Name, a, other)
			}
			aliases[a] = key
		}
	}

	c.mu.Lock()
	c.byName = byName
	c.aliases = aliases
	c.fingerprint = fingerprint
	c.mu.Unlock()
	return nil
}

// Get looks a formula up by name or alias.
func (c *Catalog) Get(name string) (Formula, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if f, ok := c.byName[strings.ToLower(name)]; ok {
		return f, true
	}
	if key, ok := c.aliases[name]; ok {
		return c.byName[key], true
	}
	return Formula{}, false
}

// List returns formulas of the given kind sorted by name. An empty kind lists all.
func (c *Catalog) List(kind Kind) []Formula {
	c.mu.RLock()
	out := make([]Formula, 0, len(c.byName))
	for _, f := range c.byName {
		if kind == "" || f.Kind == kind {
			out = append(out, f)
		}
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of formulas.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byName)
}

// Fingerprint returns the fingerprint passed to the last Replace.
func (c *Catalog) Fingerprint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fingerprint
}
