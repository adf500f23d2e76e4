// Package pet contains the shop catalog: the fixed set of purchasable species.
// A Catalog is built once at startup and never mutated afterwards.
package pet

import (
	"errors"
	"fmt"
	"strings"
)

// Price is the XP cost of any pet in the shop.
const Price = 30

// Key is the canonical species identifier (an emoji-like tag, e.g. "🐍").
type Key string

// String returns the key as text.
func (k Key) String() string {
	return string(k)
}

// Species describes one shop entry.
type Species struct {
	Key   Key
	Name  string // default display name given at purchase
	Emoji string // icon shown in inventories
}

// Catalog is an immutable, ordered set of species.
type Catalog struct {
	species []Species
	byKey   map[Key]Species
	byName  map[string]Key // lowercased name -> key
}

// Catalog construction errors.
var (
	ErrEmptyCatalog     = errors.New("catalog: at least one species is required")
	ErrDuplicateSpecies = errors.New("catalog: duplicate species")
	ErrInvalidSpecies   = errors.New("catalog: species key and name are required")
)

// NewCatalog validates and freezes the given species list. Order is preserved for display.
func NewCatalog(species []Species) (*Catalog, error) {
	if len(species) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		species: make([]Species, 0, len(species)),
		byKey:   make(map[Key]Species, len(species)),
		byName:  make(map[string]Key, len(species)),
	}

	for _, s := range species {
		s.Key = Key(strings.TrimSpace(string(s.Key)))
		s.Name = strings.TrimSpace(s.Name)
		if s.Key == "" || s.Name == "" {
			return nil, fmt.Errorf("%w: %+v", ErrInvalidSpecies, s)
		}
		if s.Emoji == "" {
			s.Emoji = string(s.Key)
		}

		lower := strings.ToLower(s.Name)
		if _, dup := c.byKey[s.Key]; dup {
			return nil, fmt.Errorf("%w: key %q", ErrDuplicateSpecies, s.Key)
		}
		if _, dup := c.byName[lower]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateSpecies, s.Name)
		}

		c.species = append(c.species, s)
		c.byKey[s.Key] = s
		c.byName[lower] = s.Key
	}

	return c, nil
}

// DefaultSpecies is the built-in shop.
func DefaultSpecies() []Species {
	return []Species{
		{Key: "🐍", Name: "Schlange", Emoji: "🐍"},
		{Key: "🐺", Name: "Wolf", Emoji: "🐺"},
		{Key: "🐱", Name: "Katze", Emoji: "🐱"},
		{Key: "🐶", Name: "Hund", Emoji: "🐶"},
	}
}

// DefaultCatalog returns the built-in shop. It panics only if DefaultSpecies is broken.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSpecies())
	if err != nil {
		panic(err)
	}
	return c
}

// All returns a copy of the species in display order.
func (c *Catalog) All() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.species)
}

// Get returns the species for a canonical key.
func (c *Catalog) Get(k Key) (Species, bool) {
	s, ok := c.byKey[k]
	return s, ok
}

// Has reports whether k is a canonical catalog key.
func (c *Catalog) Has(k Key) bool {
	_, ok := c.byKey[k]
	return ok
}

// KeyForName maps a species display name (case-insensitive) to its key.
func (c *Catalog) KeyForName(name string) (Key, bool) {
	k, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Resolve turns a purchase selector into a canonical key. The selector may be
// a key or a case-insensitive species name; names are tried first.
func (c *Catalog) Resolve(selector string) (Key, bool) {
	selector = strings.TrimSpace(selector)
	if k, ok := c.KeyForName(selector); ok {
		return k, true
	}
	if c.Has(Key(selector)) {
		return Key(selector), true
	}
	return "", false
}

// Icon resolves the emoji shown for a stored kind: the catalog emoji for a
// key, else the emoji of a species whose name matches, else "❓".
func (c *Catalog) Icon(kind string) string {
	if s, ok := c.byKey[Key(kind)]; ok {
		return s.Emoji
	}
	if k, ok := c.KeyForName(kind); ok {
		return c.byKey[k].Emoji
	}
	return UnknownIcon
}

// UnknownIcon is shown for pets whose kind cannot be resolved.
const UnknownIcon = "❓"
