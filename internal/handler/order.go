package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudkitchen/internal/domain/order"
)

type placeOrderRequest struct {
	Items json.RawMessage `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// orderResponse is the wire form of an order. Total goes out as a JSON
// number, matching what the storefront submitted.
type orderResponse struct {
	ID        string          `json:"id"`
	Items     json.RawMessage `json:"items"`
	Total     float64         `json:"total"`
	Status    order.Status    `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toOrderResponse(o order.Order) orderResponse {
	items := o.Items
	if items == nil {
		items = json.RawMessage("null")
	}
	return orderResponse{
		ID:        o.ID,
		Items:     items,
		Total:     o.Total.InexactFloat64(),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// placeOrder accepts a public order submission and returns the stored order.
// Persistence failures surface as a generic 500; no partial state remains.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Place(r.Context(), order.PlaceRequest{
		Items: req.Items,
		Total: req.Total,
	})
	if err != nil {
		zctx.From(r.Context()).Error("place order", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Order failed")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(*o))
}

// listOrders returns every order, newest first. Admin only.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list orders", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "listing orders failed")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// updateStatus overwrites the status of one order. Admin only. Unknown
// status values are rejected with 422 and unknown ids yield 404.
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	err := h.orders.UpdateStatus(r.Context(), id, order.Status(req.Status))
	if err != nil {
		var invErr *order.InvalidStatusError
		switch {
		case errors.As(err, &invErr):
			writeMessage(w, http.StatusUnprocessableEntity, invErr.Error())
		case errors.Is(err, order.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Order not found")
		default:
			zctx.From(r.Context()).Error("update order status",
				zap.String("order_id", id), zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Status update failed")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Status updated")
}
