package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvalidStatusError indicates a status update with a value outside the
// lifecycle enumeration.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

// PlaceRequest holds the input for placing an order. Both fields come
// straight from the storefront client and are stored as-is.
type PlaceRequest struct {
	Items json.RawMessage
	Total decimal.Decimal
}

// Service encapsulates the order lifecycle: public placement, admin listing,
// and admin status updates.
type Service struct {
	orders Repository
	now    func() time.Time
}

// NewService creates an order Service backed by the given repository.
func NewService(orders Repository) *Service {
	return &Service{
		orders: orders,
		now:    time.Now,
	}
}

// Place assigns a fresh identifier, stamps the order Pending with the current
// time, persists it, and returns the stored record. Placement is public and
// atomic per record.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	o := &Order{
		ID:        uuid.New().String(),
		Items:     req.Items,
		Total:     req.Total,
		Status:    StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

// List returns every order, newest first. An empty result is not an error.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus validates the requested status against the lifecycle
// enumeration and overwrites it on the matching order. Returns ErrNotFound
// when id references no order. Transition ordering is deliberately not
// enforced: an admin may move an order to any known state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return &InvalidStatusError{Status: string(status)}
	}
	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update order %q: %w", id, err)
	}
	return nil
}
