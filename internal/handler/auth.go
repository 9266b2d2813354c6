package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"cloudkitchen/internal/domain/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// login authenticates the administrator and returns a signed credential.
// Any mismatch yields the same generic 401 body.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.guard.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		zctx.From(r.Context()).Error("login failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// requireAdmin guards an endpoint behind a valid admin credential. The
// storefront sends the raw token in the Authorization header; the guard also
// tolerates a Bearer prefix.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h.guard.Verify(r.Header.Get("Authorization"))
		switch {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, auth.ErrNoToken):
			writeMessage(w, http.StatusUnauthorized, "No token provided")
		default:
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
		}
	})
}
