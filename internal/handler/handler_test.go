package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cloudkitchen/internal/domain/auth"
	"cloudkitchen/internal/domain/order"
)

// --- In-memory repository ---

type memRepo struct {
	orders    []order.Order
	createErr error
}

func (m *memRepo) Create(_ context.Context, o *order.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memRepo) List(_ context.Context) ([]order.Order, error) {
	out := make([]order.Order, len(m.orders))
	copy(out, m.orders)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

// --- Helpers ---

func newTestServer(t *testing.T, repo order.Repository) *http.ServeMux {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)

	guard := auth.NewGuard(auth.Config{
		Username:     "admin",
		PasswordHash: hash,
		Secret:       []byte("test-secret"),
	})

	mux := http.NewServeMux()
	New(order.NewService(repo), guard).Register(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func loginAdmin(t *testing.T, mux *http.ServeMux) string {
	t.Helper()

	w := do(t, mux, http.MethodPost, "/api/admin/login", "",
		map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type orderBody struct {
	ID        string          `json:"id"`
	Items     json.RawMessage `json:"items"`
	Total     float64         `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// --- Tests ---

func TestLogin_WrongPassword(t *testing.T) {
	mux := newTestServer(t, &memRepo{})

	w := do(t, mux, http.MethodPost, "/api/admin/login", "",
		map[string]string{"username": "admin", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())
}

func TestPlaceOrder(t *testing.T) {
	repo := &memRepo{}
	mux := newTestServer(t, repo)

	before := time.Now().UTC()
	w := do(t, mux, http.MethodPost, "/api/orders", "", map[string]any{
		"items": []map[string]int{{"id": 1, "qty": 2}},
		"total": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got orderBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Pending", got.Status)
	assert.InDelta(t, 80, got.Total, 0.001)
	assert.JSONEq(t, `[{"id":1,"qty":2}]`, string(got.Items))
	assert.False(t, got.CreatedAt.Before(before))

	require.Len(t, repo.orders, 1)
}

func TestPlaceOrder_BadBody(t *testing.T) {
	mux := newTestServer(t, &memRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaceOrder_PersistenceFailure(t *testing.T) {
	repo := &memRepo{createErr: context.DeadlineExceeded}
	mux := newTestServer(t, repo)

	w := do(t, mux, http.MethodPost, "/api/orders", "", map[string]any{
		"items": []any{}, "total": 10,
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Order failed"}`, w.Body.String())
}

func TestListOrders_NoToken(t *testing.T) {
	mux := newTestServer(t, &memRepo{})

	w := do(t, mux, http.MethodGet, "/api/orders", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"No token provided"}`, w.Body.String())
}

func TestListOrders_InvalidToken(t *testing.T) {
	mux := newTestServer(t, &memRepo{})

	w := do(t, mux, http.MethodGet, "/api/orders", "garbage", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, w.Body.String())
}

func TestListOrders_NewestFirst(t *testing.T) {
	now := time.Now().UTC()
	repo := &memRepo{orders: []order.Order{
		{ID: "old", Status: order.StatusPending, CreatedAt: now.Add(-time.Hour)},
		{ID: "new", Status: order.StatusPending, CreatedAt: now},
	}}
	mux := newTestServer(t, repo)
	token := loginAdmin(t, mux)

	w := do(t, mux, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []orderBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "old", got[1].ID)
}

func TestListOrders_Empty(t *testing.T) {
	mux := newTestServer(t, &memRepo{})
	token := loginAdmin(t, mux)

	w := do(t, mux, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateStatus_NoToken(t *testing.T) {
	mux := newTestServer(t, &memRepo{})

	w := do(t, mux, http.MethodPut, "/api/orders/some-id", "",
		map[string]string{"status": "Cooking"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	mux := newTestServer(t, &memRepo{})
	token := loginAdmin(t, mux)

	w := do(t, mux, http.MethodPut, "/api/orders/missing", token,
		map[string]string{"status": "Cooking"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Order not found"}`, w.Body.String())
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	repo := &memRepo{orders: []order.Order{{ID: "o1", Status: order.StatusPending}}}
	mux := newTestServer(t, repo)
	token := loginAdmin(t, mux)

	w := do(t, mux, http.MethodPut, "/api/orders/o1", token,
		map[string]string{"status": "Burnt"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, order.StatusPending, repo.orders[0].Status)
}

func TestUpdateStatus_OnlyStatusChanges(t *testing.T) {
	created := time.Now().UTC().Add(-time.Minute)
	repo := &memRepo{orders: []order.Order{{
		ID:        "o1",
		Items:     json.RawMessage(`[{"id":3,"qty":1}]`),
		Status:    order.StatusPending,
		CreatedAt: created,
	}}}
	mux := newTestServer(t, repo)
	token := loginAdmin(t, mux)

	w := do(t, mux, http.MethodPut, "/api/orders/o1", token,
		map[string]string{"status": "Delivered"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Status updated"}`, w.Body.String())

	got := repo.orders[0]
	assert.Equal(t, order.StatusDelivered, got.Status)
	assert.Equal(t, "o1", got.ID)
	assert.JSONEq(t, `[{"id":3,"qty":1}]`, string(got.Items))
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestOrderLifecycle(t *testing.T) {
	repo := &memRepo{}
	mux := newTestServer(t, repo)

	token := loginAdmin(t, mux)

	// Place a public order.
	w := do(t, mux, http.MethodPost, "/api/orders", "", map[string]any{
		"items": []map[string]int{{"id": 1, "qty": 2}},
		"total": 80,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var placed orderBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&placed))
	assert.Equal(t, "Pending", placed.Status)

	// The admin listing shows it first.
	w = do(t, mux, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []orderBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.NotEmpty(t, listed)
	assert.Equal(t, placed.ID, listed[0].ID)

	// Advance it to Cooking.
	w = do(t, mux, http.MethodPut, "/api/orders/"+placed.ID, token,
		map[string]string{"status": "Cooking"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, mux, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Equal(t, "Cooking", listed[0].Status)
}
