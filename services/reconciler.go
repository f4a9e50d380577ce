package services

import (
	"context"
	"errors"
	"fmt"

	"skin-watcher/models"
	"skin-watcher/storage"
	"skin-watcher/utils"
)

// ReconcileResult holds the events of one reconciliation and what happened
// to each scanned order.
type ReconcileResult struct {
	Events []models.Event

	NewListings  int
	PriceChanges int
	Sold         int
	Removed      int
	Synced       int
	Unchanged    int
	Duplicates   int
}

// Reconciler brings the store in line with a fresh scan.
type Reconciler struct {
	store  storage.ListingStore
	logger *utils.Logger
}

// NewReconciler creates a Reconciler over the given store.
func NewReconciler(store storage.ListingStore, logger *utils.Logger) *Reconciler {
	return &Reconciler{store: store, logger: logger}
}

// Reconcile applies inserts, updates and deletes for sections and returns the
// notifications to send. Events for scanned orders come first, in scan order,
// followed by removals in key order. Any store failure aborts the run.
func (r *Reconciler) Reconcile(ctx context.Context, sections []*models.ParsedSection) (*ReconcileResult, error) {
	res := &ReconcileResult{}
	seen := utils.NewSet[int]()
	var staged []*models.Listing

	for _, section := range sections {
		if !seen.Add(section.OrderID) {
			r.logger.Warn("[reconciler] Order #%d listed twice, keeping the first block", section.OrderID)
			res.Duplicates++
			continue
		}

		existing, err := r.store.Get(ctx, section.OrderID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("reconcile: load order #%d: %w", section.OrderID, err)
		}

		if existing == nil {
			if section.Listing == nil {
				// Sold before we ever saw it: nothing to track.
				continue
			}
			staged = append(staged, section.Listing)
			res.NewListings++
			res.emit(newListingEvent(section.Listing))
			continue
		}

		if err := r.apply(ctx, res, existing, section); err != nil {
			return nil, err
		}
	}

	if len(staged) > 0 {
		if err := r.store.InsertBatch(ctx, staged); err != nil {
			return nil, fmt.Errorf("reconcile: insert %d new listing(s): %w", len(staged), err)
		}
		r.logger.Debug("[reconciler] Inserted %d new listing(s)", len(staged))
	}

	if err := r.removeUnseen(ctx, res, seen); err != nil {
		return nil, err
	}

	return res, nil
}

// apply handles a scanned order that is already stored.
func (r *Reconciler) apply(ctx context.Context, res *ReconcileResult, existing *models.Listing, section *models.ParsedSection) error {
	found := section.Listing

	switch {
	case found == nil && existing.HasSold:
		res.Unchanged++

	case found == nil:
		sold := *existing
		sold.HasSold = true
		sold.Price = section.Price
		if err := r.store.Update(ctx, &sold); err != nil {
			return fmt.Errorf("reconcile: mark order #%d sold: %w", section.OrderID, err)
		}
		res.Sold++
		res.emit(soldEvent(existing))

	case found.Price != existing.Price:
		if err := r.store.Update(ctx, found); err != nil {
			return fmt.Errorf("reconcile: update price of order #%d: %w", section.OrderID, err)
		}
		res.PriceChanges++
		res.emit(priceChangedEvent(found, existing.Price))

	case !found.SameAs(existing):
		if err := r.store.Update(ctx, found); err != nil {
			return fmt.Errorf("reconcile: sync order #%d: %w", section.OrderID, err)
		}
		r.logger.Debug("[reconciler] Synced details of order #%d", section.OrderID)
		res.Synced++

	default:
		res.Unchanged++
	}
	return nil
}

// removeUnseen deletes every stored order the scan did not mention.
func (r *Reconciler) removeUnseen(ctx context.Context, res *ReconcileResult, seen *utils.Set[int]) error {
	keys, err := r.store.ListKeys(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: list stored orders: %w", err)
	}

	for _, id := range keys {
		if seen.Contains(id) {
			continue
		}

		listing, err := r.store.Get(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("reconcile: order #%d: %w", id, ErrInconsistentStore)
		}
		if err != nil {
			return fmt.Errorf("reconcile: load removed order #%d: %w", id, err)
		}

		res.emit(removedEvent(listing))
		if err := r.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("reconcile: delete order #%d: %w", id, err)
		}
		res.Removed++
	}
	return nil
}

func (res *ReconcileResult) emit(ev models.Event) {
	res.Events = append(res.Events, ev)
}

func newListingEvent(l *models.Listing) models.Event {
	return models.Event{
		Kind:    models.EventNewListing,
		OrderID: l.OrderID,
		Title:   fmt.Sprintf("%s が新たに追加されました", l),
	}
}

func priceChangedEvent(l *models.Listing, oldPrice int) models.Event {
	return models.Event{
		Kind:    models.EventPriceChanged,
		OrderID: l.OrderID,
		Title:   fmt.Sprintf("%s の価格が変更されました", l),
		Body:    fmt.Sprintf("%d 円から %d 円になりました。", oldPrice, l.Price),
	}
}

func soldEvent(l *models.Listing) models.Event {
	return models.Event{
		Kind:    models.EventSold,
		OrderID: l.OrderID,
		Title:   fmt.Sprintf("%s が売約済みになりました", l),
	}
}

func removedEvent(l *models.Listing) models.Event {
	return models.Event{
		Kind:    models.EventRemoved,
		OrderID: l.OrderID,
		Title:   fmt.Sprintf("%s が削除されました", l),
	}
}
