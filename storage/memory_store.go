package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"skin-watcher/models"
)

// MemoryStore is an in-process ListingStore. It is used for dry runs and
// tests; contents are lost on exit.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[int]models.Listing
}

// NewMemoryStore creates a store holding copies of the given listings.
func NewMemoryStore(seed ...*models.Listing) *MemoryStore {
	ms := &MemoryStore{listings: make(map[int]models.Listing, len(seed))}
	for _, l := range seed {
		ms.listings[l.OrderID] = copyListing(l)
	}
	return ms
}

func (ms *MemoryStore) Get(_ context.Context, orderID int) (*models.Listing, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	l, ok := ms.listings[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	c := copyListing(&l)
	return &c, nil
}

func (ms *MemoryStore) ListKeys(context.Context) ([]int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	keys := make([]int, 0, len(ms.listings))
	for id := range ms.listings {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	return keys, nil
}

// InsertBatch inserts all listings or none; a duplicate key fails the batch.
func (ms *MemoryStore) InsertBatch(_ context.Context, listings []*models.Listing) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, l := range listings {
		if _, exists := ms.listings[l.OrderID]; exists {
			return fmt.Errorf("memory: insert %d: duplicate key", l.OrderID)
		}
	}
	for _, l := range listings {
		ms.listings[l.OrderID] = copyListing(l)
	}
	return nil
}

func (ms *MemoryStore) Update(_ context.Context, listing *models.Listing) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.listings[listing.OrderID]; !ok {
		return fmt.Errorf("memory: update %d: %w", listing.OrderID, ErrNotFound)
	}
	ms.listings[listing.OrderID] = copyListing(listing)
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, orderID int) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.listings[orderID]; !ok {
		return fmt.Errorf("memory: delete %d: %w", orderID, ErrNotFound)
	}
	delete(ms.listings, orderID)
	return nil
}

// Len returns the number of stored listings.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.listings)
}

// copyListing detaches the optional fields so callers cannot mutate stored state.
func copyListing(l *models.Listing) models.Listing {
	c := *l
	if l.Kind != nil {
		kind := *l.Kind
		c.Kind = &kind
	}
	if l.Exterior != nil {
		exterior := *l.Exterior
		c.Exterior = &exterior
	}
	return c
}
