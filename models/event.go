package models

// EventKind classifies a change notification.
type EventKind string

const (
	EventNewListing   EventKind = "new_listing"
	EventPriceChanged EventKind = "price_changed"
	EventSold         EventKind = "sold"
	EventRemoved      EventKind = "removed"
)

// Event is a notification produced by reconciliation. Body may be empty.
type Event struct {
	Kind    EventKind
	OrderID int
	Title   string
	Body    string
}

// RunReport summarises one scan for the end-of-run printout.
type RunReport struct {
	BlocksSeen    int
	BlocksParsed  int
	BlocksDropped int

	NewListings  int
	PriceChanges int
	Sold         int
	Removed      int
	Synced       int
	Unchanged    int

	NotificationsSent   int
	NotificationsFailed int
}
