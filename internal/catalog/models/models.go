package models

import (
	"sort"
	"strconv"
	"strings"

	dErrors "shopfront/pkg/domain-errors"
)

// Item is one sellable entry in a catalog. Price and stock are always
// valid once stored; validation happens at the write boundary, never on
// read paths.
type Item struct {
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
	Image string  `json:"image"`
}

// Category maps item name to item.
type Category map[string]Item

// Snapshot is the full category → item mapping of one namespace, the
// shape persisted to durable storage:
//
//	{"fruit": {"apple": {"price": 2.5, "stock": 10, "image": ""}}}
type Snapshot map[string]Category

// NewItem validates the raw price and stock strings coming from an admin
// form and builds an Item. The strings are trimmed first; a failure means
// nothing was written anywhere.
func NewItem(price, stock, image string) (Item, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return Item{}, err
	}
	s, err := ParseStock(stock)
	if err != nil {
		return Item{}, err
	}
	return Item{Price: p, Stock: s, Image: strings.TrimSpace(image)}, nil
}

// ParsePrice parses a non-negative decimal price.
func ParsePrice(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "price must be a number")
	}
	if p < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "price cannot be negative")
	}
	return p, nil
}

// ParseStock parses a non-negative integer stock count.
func ParseStock(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "stock must be an integer")
	}
	if n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "stock cannot be negative")
	}
	return n, nil
}

// Clone returns a deep copy so callers can mutate without aliasing the
// store's snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for cat, items := range s {
		c := make(Category, len(items))
		for name, item := range items {
			c[name] = item
		}
		out[cat] = c
	}
	return out
}

// Upsert inserts or replaces an item, creating the category on demand.
func (s Snapshot) Upsert(category, name string, item Item) {
	c, ok := s[category]
	if !ok {
		c = make(Category)
		s[category] = c
	}
	c[name] = item
}

// Delete removes an item and prunes the category if it is now empty.
// Returns false if the item was not present; the snapshot is unchanged.
func (s Snapshot) Delete(category, name string) bool {
	c, ok := s[category]
	if !ok {
		return false
	}
	if _, ok := c[name]; !ok {
		return false
	}
	delete(c, name)
	if len(c) == 0 {
		delete(s, category)
	}
	return true
}

// Resolve looks up an item by (category, name).
func (s Snapshot) Resolve(category, name string) (Item, bool) {
	c, ok := s[category]
	if !ok {
		return Item{}, false
	}
	item, ok := c[name]
	return item, ok
}

// Categories returns category names sorted alphabetically, the order the
// browsing surface presents them in.
func (s Snapshot) Categories() []string {
	out := make([]string, 0, len(s))
	for cat := range s {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// ItemNames returns the item names of one category, sorted.
func (s Snapshot) ItemNames(category string) []string {
	c, ok := s[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
