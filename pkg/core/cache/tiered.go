package cache

import (
	"context"
)

// Store is a persistent parse result store keyed by source hash
type Store interface {
	Get(ctx context.Context, hash string) ([]byte, bool, error)
	Put(ctx context.Context, hash, name string, encoded []byte) error
}

// Tiered keeps recently used parse results in memory in front of an
// optional persistent store. It satisfies the engine's cache interface.
type Tiered struct {
	memory  *Cache
	backing Store
}

// NewTiered creates a tiered cache. backing may be nil.
func NewTiered(memory *Cache, backing Store) *Tiered {
	return &Tiered{memory: memory, backing: backing}
}

// Get looks in memory first and promotes hits from the backing store
func (t *Tiered) Get(ctx context.Context, hash string) ([]byte, bool, error) {
	if entry, ok := t.memory.Get(hash); ok {
		return entry.Value, true, nil
	}
	if t.backing == nil {
		return nil, false, nil
	}

	encoded, ok, err := t.backing.Get(ctx, hash)
	if err != nil || !ok {
		return nil, false, err
	}
	t.memory.Set(hash, "", encoded)
	return encoded, true, nil
}

// Put writes through to memory and the backing store
func (t *Tiered) Put(ctx context.Context, hash, name string, encoded []byte) error {
	t.memory.Set(hash, name, encoded)
	if t.backing == nil {
		return nil
	}
	return t.backing.Put(ctx, hash, name, encoded)
}

// Memory returns the in-memory tier
func (t *Tiered) Memory() *Cache {
	return t.memory
}
