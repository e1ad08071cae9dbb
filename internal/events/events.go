package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published for every front end action.
type Event struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	User string         `json:"user"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

func NewEvent(typ, user string, data map[string]any) Event {
	return Event{ID: uuid.NewString(), Type: typ, User: user, At: time.Now().UTC(), Data: data}
}

const (
	UserLoggedIn    = "user_logged_in"
	UserSignedUp    = "user_signed_up"
	CartItemAdded   = "cart_item_added"
	CartItemRemoved = "cart_item_removed"
	DiscountApplied = "discount_applied"
	OrderPlaced     = "order_placed"
	OrderCanceled   = "order_canceled"
	OrderCompleted  = "order_completed"
	DishCreated     = "dish_created"
	DishUpdated     = "dish_updated"
	DishDeleted     = "dish_deleted"
)
