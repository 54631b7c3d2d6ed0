package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process ParcelStore and AddressStore. Saved values
// are kept in the exported maps for inspection.
type MemoryStore struct {
	mu        sync.Mutex
	parcels   []ParcelRow
	addresses []AddressRow
	Parcels   map[int64]ParcelUpdate
	Addresses map[int64]AddressUpdate
	Cleared   map[int64]bool
}

// NewMemoryStore seeds a store with input rows
func NewMemoryStore(parcels []ParcelRow, addresses []AddressRow) *MemoryStore {
	return &MemoryStore{
		parcels:   parcels,
		addresses: addresses,
		Parcels:   make(map[int64]ParcelUpdate),
		Addresses: make(map[int64]AddressUpdate),
		Cleared:   make(map[int64]bool),
	}
}

func (m *MemoryStore) LoadParcels(ctx context.Context) ([]ParcelRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ParcelRow(nil), m.parcels...), nil
}

func (m *MemoryStore) SaveParcels(ctx context.Context, updates []ParcelUpdate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		m.Parcels[u.ID] = u
	}
	return len(updates), nil
}

func (m *MemoryStore) LoadAddresses(ctx context.Context) ([]AddressRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AddressRow(nil), m.addresses...), nil
}

func (m *MemoryStore) SaveAddresses(ctx context.Context, updates []AddressUpdate, clearParts bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range updates {
		m.Addresses[u.ID] = u
		if clearParts {
			m.Cleared[u.ID] = true
		}
	}
	return len(updates), nil
}
