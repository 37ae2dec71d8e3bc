// Package menufile serves the menu from a YAML file through a read-through
// cache.
//
//	items:
//	  - id: 1
//	    name: Margherita
//	    category: pizza
//	    price_cents: 1150
//	    available: true   # optional, defaults to true
package menufile

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/ports"
	"kitchen/internal/pkg/cache"
	"kitchen/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

//go:embed default_menu.yaml
var defaultMenu []byte

const cacheKey = "menu"

// Menu is a parsed menu file.
type Menu struct {
	items []menu.Item
	byID  map[int64]menu.Item
}

func (m *Menu) Len() int { return len(m.items) }

type fileItem struct {
	ID         int64  `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`
	PriceCents int64  `yaml:"price_cents"`
	Available  *bool  `yaml:"available"`
}

type file struct {
	Items []fileItem `yaml:"items"`
}

// Parse reads a menu document. Unknown keys and duplicate ids are rejected.
func Parse(data []byte) (*Menu, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}

	m := &Menu{
		items: make([]menu.Item, 0, len(f.Items)),
		byID:  make(map[int64]menu.Item, len(f.Items)),
	}
	var errList []error
	for i, fi := range f.Items {
		available := fi.Available == nil || *fi.Available
		item, err := menu.NewItem(fi.ID, fi.Name, fi.Category, fi.PriceCents, available)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		if _, dup := m.byID[item.ID()]; dup {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i,
				errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%d is listed twice", item.ID()))))
			continue
		}
		m.byID[item.ID()] = item
		m.items = append(m.items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	sort.Slice(m.items, func(i, j int) bool { return m.items[i].ID() < m.items[j].ID() })
	return m, nil
}

// Catalog implements ports.MenuCatalog. The file is read on the first
// lookup and again whenever the cache entry has expired or been cleared,
// so edits to the file show up without a restart.
type Catalog struct {
	path  string
	cache *cache.Cache[string, *Menu]
}

var _ ports.MenuCatalog = (*Catalog)(nil)

// NewCatalog reads path through c. An empty path serves the built-in menu.
func NewCatalog(path string, c *cache.Cache[string, *Menu]) *Catalog {
	return &Catalog{path: path, cache: c}
}

func (c *Catalog) Get(ctx context.Context, id int64) (menu.Item, error) {
	m, err := c.menu(ctx)
	if err != nil {
		return menu.Item{}, err
	}
	item, ok := m.byID[id]
	if !ok {
		return menu.Item{}, errs.NewObjectNotFoundError("menuItemId", id)
	}
	return item, nil
}

func (c *Catalog) List(ctx context.Context) ([]menu.Item, error) {
	m, err := c.menu(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]menu.Item, len(m.items))
	copy(items, m.items)
	return items, nil
}

func (c *Catalog) menu(ctx context.Context) (*Menu, error) {
	return c.cache.GetOrLoad(ctx, cacheKey, c.load)
}

func (c *Catalog) load(_ context.Context) (*Menu, error) {
	if c.path == "" {
		return Parse(defaultMenu)
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	return Parse(data)
}
