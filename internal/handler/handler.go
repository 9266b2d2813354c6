// Package handler exposes the ordering service over a JSON HTTP API.
package handler

import (
	"encoding/json"
	"net/http"

	"cloudkitchen/internal/domain/auth"
	"cloudkitchen/internal/domain/order"
)

// Handler wires the HTTP surface to the order service and access guard.
type Handler struct {
	orders *order.Service
	guard  *auth.Guard
}

// New constructs a Handler with the required domain dependencies.
func New(orders *order.Service, guard *auth.Guard) *Handler {
	return &Handler{
		orders: orders,
		guard:  guard,
	}
}

// Register mounts all API routes on the given mux. Order placement and login
// are public; listing and status updates require an admin credential.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", h.login)
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.Handle("GET /api/orders", h.requireAdmin(http.HandlerFunc(h.listOrders)))
	mux.Handle("PUT /api/orders/{id}", h.requireAdmin(http.HandlerFunc(h.updateStatus)))
}

// messageResponse is the JSON body for acknowledgments and errors.
type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Best effort: the status code is already written. Failure here means the
	// client went away.
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}
