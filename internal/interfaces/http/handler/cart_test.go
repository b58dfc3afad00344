package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/interfaces/http/dto"
)

// guestOnlyRemote rejects anonymous reads the way the database-backed store does
type guestOnlyRemote struct{}

func (guestOnlyRemote) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthenticated
	}
	return nil, shared.ErrNotFound
}

func (guestOnlyRemote) Put(ctx context.Context, userID uuid.UUID, items []cart.LineItem) (*cart.Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthenticated
	}
	c := cart.Rehydrate(&userID, items, cart.DefaultPricingPolicy())
	return c, nil
}

// mapSessionStore is a minimal in-memory cart.SessionStore for handler tests
type mapSessionStore struct {
	mu    sync.Mutex
	items map[string][]cart.LineItem
}

func newMapSessionStore() *mapSessionStore {
	return &mapSessionStore{items: make(map[string][]cart.LineItem)}
}

func (s *mapSessionStore) Get(ctx context.Context, sessionID string) ([]cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[sessionID], nil
}

func (s *mapSessionStore) Put(ctx context.Context, sessionID string, items []cart.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = items
	return nil
}

func (s *mapSessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

func newCartTestRouter(t *testing.T) (*gin.Engine, *CartHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewCartHandler(guestOnlyRemote{}, newMapSessionStore(), cart.DefaultPricingPolicy(), time.Second, time.Hour, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine, h
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionIDHeader, sessionID)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCartHandler_RequiresSession(t *testing.T) {
	engine, _ := newCartTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_GuestFlow(t *testing.T) {
	engine, h := newCartTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/cart", "sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	// an unauthenticated remote falls back to the session tier silently
	assert.Equal(t, "local", data["source"])
	assert.Equal(t, false, data["degraded"])

	w = doJSON(t, engine, http.MethodPost, "/api/v1/cart/items", "sess-1", gin.H{
		"product_id": "sku-1",
		"name":       "Desk Lamp",
		"unit_price": "30.00",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp.Data.(map[string]interface{})
	cartView := data["cart"].(map[string]interface{})
	assert.Equal(t, "60.00", cartView["subtotal"])
	assert.Equal(t, "6.00", cartView["tax"])
	assert.Equal(t, "10.00", cartView["shipping"])
	assert.Equal(t, "76.00", cartView["total"])

	// same session reuses the pinned service
	assert.Equal(t, 1, h.sessionCount())

	w = doJSON(t, engine, http.MethodDelete, "/api/v1/cart/items/sku-1", "sess-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp.Data.(map[string]interface{})
	cartView = data["cart"].(map[string]interface{})
	assert.Equal(t, "0.00", cartView["total"])
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	engine, _ := newCartTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items", "sess-2", gin.H{
		"product_id": "sku-9",
		"name":       "Mug",
		"unit_price": "12.50",
		"quantity":   1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodPut, "/api/v1/cart/items/sku-9", "sess-2", gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	cartView := data["cart"].(map[string]interface{})
	assert.Equal(t, "50.00", cartView["subtotal"])

	// zero quantity removes the line
	w = doJSON(t, engine, http.MethodPut, "/api/v1/cart/items/sku-9", "sess-2", gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp.Data.(map[string]interface{})
	cartView = data["cart"].(map[string]interface{})
	items := cartView["items"].([]interface{})
	assert.Empty(t, items)
}

func TestCartHandler_SessionsAreIsolated(t *testing.T) {
	engine, h := newCartTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items", "sess-a", gin.H{
		"product_id": "sku-1",
		"name":       "Lamp",
		"unit_price": "10.00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/cart", "sess-b", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	cartView := data["cart"].(map[string]interface{})
	items := cartView["items"].([]interface{})
	assert.Empty(t, items)

	assert.Equal(t, 2, h.sessionCount())
}

func TestCartHandler_EvictsIdleSessions(t *testing.T) {
	engine, h := newCartTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/cart", "sess-old", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, h.sessionCount())

	// age the entry past the TTL and let the next request sweep
	h.mu.Lock()
	for _, entry := range h.sessions {
		entry.lastSeen = time.Now().Add(-2 * time.Hour)
	}
	h.lastSweep = time.Now().Add(-2 * sessionSweepInterval)
	h.mu.Unlock()

	w = doJSON(t, engine, http.MethodGet, "/api/v1/cart", "sess-new", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// the idle session is gone, only the fresh one remains
	assert.Equal(t, 1, h.sessionCount())
}
