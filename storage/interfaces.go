package storage

import (
	"context"
	"errors"
	"time"

	"skin-watcher/models"
)

// ErrNotFound is returned when no listing exists for an order id.
var ErrNotFound = errors.New("listing not found")

// ListingStore is the persisted set of known listings keyed by order id.
// Each call is expected to be atomic on its own.
type ListingStore interface {
	Get(ctx context.Context, orderID int) (*models.Listing, error)
	ListKeys(ctx context.Context) ([]int, error)
	InsertBatch(ctx context.Context, listings []*models.Listing) error
	Update(ctx context.Context, listing *models.Listing) error
	Delete(ctx context.Context, orderID int) error
}

// SectionWriter records the raw result of one scan.
type SectionWriter interface {
	WriteSections(sections []*models.ParsedSection, scrapedAt time.Time) error
	Close() error
}
