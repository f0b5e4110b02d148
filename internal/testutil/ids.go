package testutil

import (
	"fmt"
	"sync"
)

// DefaultStoreID is the store id used when none is given.
const DefaultStoreID = "00000000-0000-7000-8000-000000000000"

// FixedIDGenerator returns the same store id every time, so stores created in
// tests and scenarios report a stable identity.
//
// Implements store.IDGenerator.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator returns a generator for id, or DefaultStoreID if empty.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = DefaultStoreID
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

// SequentialIDGenerator returns prefix-1, prefix-2, ... for tests that open
// several stores and need them distinguishable.
//
// Thread-safety: safe for concurrent use.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDGenerator creates a generator with the given prefix.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
