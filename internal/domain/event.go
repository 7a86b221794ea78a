package domain

import "time"

type EventKind string

const (
	EventItemAdded       EventKind = "item_added"
	EventItemMerged      EventKind = "item_merged"
	EventQuantityUpdated EventKind = "quantity_updated"
	EventItemRemoved     EventKind = "item_removed"
	EventCartCleared     EventKind = "cart_cleared"
)

// CartEvent is published after every effective cart mutation.
type CartEvent struct {
	Kind       EventKind
	CartKey    string
	ProductID  string
	OccurredAt time.Time
}

// CheckoutHandoff records the moment a cart was transcribed into an outbound order message.
type CheckoutHandoff struct {
	CartKey    string
	Lines      []CartLine
	Total      Money
	Contact    Contact
	Link       string
	OccurredAt time.Time
}
