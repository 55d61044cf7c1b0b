package assessment

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/mod/semver"
)

// Catalog holds the validated definitions available for administration.
type Catalog struct {
	byID  map[string]*Definition
	order []string
}

// NewCatalog validates and registers the given definitions. When the same ID
// appears twice, the higher version wins.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		if err := Validate(d); err != nil {
			return nil, err
		}
		prev, ok := c.byID[d.ID]
		if !ok {
			c.order = append(c.order, d.ID)
		} else if semver.Compare(d.Version, prev.Version) <= 0 {
			continue
		}
		c.byID[d.ID] = d
	}
	return c, nil
}

// DefaultCatalog returns the built-in instruments. now fixes the expected
// year of the self-administered MMSE.
func DefaultCatalog(now time.Time) (*Catalog, error) {
	return NewCatalog(MMSE(), SelfMMSE(now), MoCA(), Clock())
}

// Lookup returns the definition with the given ID.
func (c *Catalog) Lookup(id string) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// MustLookup returns the definition with the given ID or panics.
func (c *Catalog) MustLookup(id string) *Definition {
	d, ok := c.byID[id]
	if !ok {
		panic(fmt.Sprintf("assessment: unknown definition %q", id))
	}
	return d
}

// All returns the definitions in registration order.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the registered IDs, sorted.
func (c *Catalog) IDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}
