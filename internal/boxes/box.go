package boxes

import (
	"errors"
	"fmt"

	"github.com/roach88/homeinv/internal/inventory"
)

// ErrItemNotInBox is returned by Remove when the item is absent.
var ErrItemNotInBox = errors.New("item not in box")

// Box is a named, ordered collection of item labels. Duplicates are allowed.
type Box struct {
	Name  string
	items []string
}

// New creates a box holding a copy of items.
func New(name string, items ...string) *Box {
	b := &Box{Name: name, items: make([]string, 0, len(items))}
	b.items = append(b.items, items...)
	return b
}

// Add appends an item.
func (b *Box) Add(item string) {
	b.items = append(b.items, item)
}

// Remove deletes the first occurrence of item.
func (b *Box) Remove(item string) error {
	for i, it := range b.items {
		if it == item {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("remove %q from %q: %w", item, b.Name, ErrItemNotInBox)
}

// Items returns a copy of the box contents in insertion order.
func (b *Box) Items() []string {
	out := make([]string, len(b.items))
	copy(out, b.items)
	return out
}

// Len returns the number of items.
func (b *Box) Len() int {
	return len(b.items)
}

// Search returns the items containing sub, ignoring case. An empty sub
// returns every item; no match returns an empty slice.
func (b *Box) Search(sub string) []string {
	found := []string{}
	for _, it := range b.items {
		if inventory.ContainsFold(it, sub) {
			found = append(found, it)
		}
	}
	return found
}

// String renders the box for debugging.
func (b *Box) String() string {
	return fmt.Sprintf("Box(name=%q, items=%q)", b.Name, b.items)
}

// Match holds the hits of a multi-box search within one box.
type Match struct {
	Box   string   `json:"box"`
	Items []string `json:"items"`
}

// Search runs a case-insensitive search across boxes. Boxes without hits are
// omitted; the remaining matches keep input order.
func Search(boxes []*Box, sub string) []Match {
	matches := []Match{}
	for _, b := range boxes {
		if found := b.Search(sub); len(found) > 0 {
			matches = append(matches, Match{Box: b.Name, Items: found})
		}
	}
	return matches
}

// Collection is an ordered set of boxes keyed by name.
type Collection struct {
	order []*Box
	index map[string]*Box
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]*Box)}
}

// Get returns the named box, if present.
func (c *Collection) Get(name string) (*Box, bool) {
	b, ok := c.index[name]
	return b, ok
}

// Ensure returns the named box, creating an empty one at the end if needed.
func (c *Collection) Ensure(name string) *Box {
	if b, ok := c.index[name]; ok {
		return b
	}
	b := New(name)
	c.index[name] = b
	c.order = append(c.order, b)
	return b
}

// Put adds b, replacing any box of the same name in place.
func (c *Collection) Put(b *Box) {
	if _, ok := c.index[b.Name]; ok {
		for i, existing := range c.order {
			if existing.Name == b.Name {
				c.order[i] = b
				break
			}
		}
	} else {
		c.order = append(c.order, b)
	}
	c.index[b.Name] = b
}

// Boxes returns the boxes in insertion order.
func (c *Collection) Boxes() []*Box {
	out := make([]*Box, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of boxes.
func (c *Collection) Len() int {
	return len(c.order)
}

// Search is Search over the collection's boxes.
func (c *Collection) Search(sub string) []Match {
	return Search(c.order, sub)
}
