package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a referenced order does not exist.
var ErrNotFound = errors.New("order not found")

// Status is the lifecycle state of an order. The kitchen moves orders
// Pending -> Cooking -> Delivered.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCooking   Status = "Cooking"
	StatusDelivered Status = "Delivered"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCooking, StatusDelivered:
		return true
	}
	return false
}

// Order represents a customer order. Items are an opaque payload from the
// storefront; the service stores and echoes them without checking menu
// membership. Total is likewise client-supplied and not recomputed.
type Order struct {
	ID        string
	Items     json.RawMessage
	Total     decimal.Decimal
	Status    Status
	CreatedAt time.Time
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	// List returns all orders sorted by creation time descending.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus overwrites the status of an existing order, leaving all
	// other fields untouched. Returns ErrNotFound when no order matches id.
	UpdateStatus(ctx context.Context, id string, status Status) error
}
