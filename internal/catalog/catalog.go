// Package catalog holds the fixed, ordered list of orderable items.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is a catalog position with its unit weight in grams.
type Item struct {
	Name   string `yaml:"name"`
	Weight int    `yaml:"weight"`
}

// Catalog is read-only after construction.
type Catalog struct {
	items []Item
	index map[string]int
}

// Позиции по умолчанию (вес в граммах)
var defaultItems = []Item{
	{"Ватрушка", 200},
	{"Капуста", 130},
	{"Яблоко", 120},
	{"Картофель", 130},
	{"Мак", 190},
	{"Плюшка", 150},
	{"Чечевица", 140},
	{"Повидло", 130},
	{"Корица", 150},
	{"Сосиска в тесте", 150},
	{"Брусника", 130},
	{"Вишня", 130},
	{"Черная смородина", 130},
	{"Творог с зеленью", 130},
}

func Default() *Catalog {
	c, _ := New(defaultItems)
	return c
}

// New validates items and keeps their order.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("catalog: no items")
	}
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			return nil, errors.New("catalog: empty item name")
		}
		if it.Weight < 0 {
			return nil, fmt.Errorf("catalog: negative weight for %q", it.Name)
		}
		if _, dup := c.index[it.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate item %q", it.Name)
		}
		c.index[it.Name] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

type file struct {
	Items []Item `yaml:"items"`
}

// LoadFile reads a YAML catalog:
//
//	items:
//	  - name: Ватрушка
//	    weight: 200
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(f.Items)
}

// Load returns the file catalog when path is set, the default otherwise.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func (c *Catalog) Len() int { return len(c.items) }

// Items returns a copy in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Names() []string {
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.Name
	}
	return out
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Catalog) Weight(name string) int {
	i, ok := c.index[name]
	if !ok {
		return 0
	}
	return c.items[i].Weight
}

// IndexOf returns the position used in menu tokens.
func (c *Catalog) IndexOf(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

func (c *Catalog) At(i int) (Item, bool) {
	if i < 0 || i >= len(c.items) {
		return Item{}, false
	}
	return c.items[i], true
}
