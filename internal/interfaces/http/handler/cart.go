package handler

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/application/cartsync"
	"github.com/vendora/backend/internal/domain/cart"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/telemetry"
)

// SessionIDHeader carries the guest cart session key
const SessionIDHeader = "X-Session-ID"

// sessionSweepInterval bounds how often the session registry is scanned
// for idle entries.
const sessionSweepInterval = time.Minute

// cartSession tracks a live sync service and when it last served a request
type cartSession struct {
	svc      *cartsync.Service
	lastSeen time.Time
}

// CartHandler handles cart HTTP requests. Each session (an authenticated
// user or a guest session ID) gets its own sync service, created lazily so
// the pinned source of truth survives across requests. Entries idle past
// the session TTL are evicted; the session key is client-supplied, so the
// registry must not grow without bound.
type CartHandler struct {
	BaseHandler

	remote     cart.Store
	local      cart.SessionStore
	policy     cart.PricingPolicy
	timeout    time.Duration
	sessionTTL time.Duration
	logger     *zap.Logger

	metrics *telemetry.BusinessMetrics

	mu        sync.Mutex
	sessions  map[string]*cartSession
	lastSweep time.Time
}

// NewCartHandler creates a new cart handler. sessionTTL bounds how long an
// idle session keeps its sync service; zero disables eviction.
func NewCartHandler(
	remote cart.Store,
	local cart.SessionStore,
	policy cart.PricingPolicy,
	timeout time.Duration,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		remote:     remote,
		local:      local,
		policy:     policy,
		timeout:    timeout,
		sessionTTL: sessionTTL,
		logger:     logger,
		sessions:   make(map[string]*cartSession),
	}
}

// SetMetrics enables business metric recording
func (h *CartHandler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	h.metrics = metrics
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	carts := r.Group("/cart")
	{
		carts.GET("", h.Get)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:productID", h.UpdateQuantity)
		carts.DELETE("/items/:productID", h.RemoveItem)
		carts.DELETE("", h.Clear)
	}
}

// service returns the sync service for this request's session, creating it
// on first use. Returns false after writing an error response when the
// request identifies no session at all.
func (h *CartHandler) service(c *gin.Context) (*cartsync.Service, bool) {
	userID := optionalUserID(c)
	sessionID := c.GetHeader(SessionIDHeader)

	var key string
	switch {
	case userID != nil:
		key = "user:" + userID.String()
		if sessionID == "" {
			// logged-in carts still need a session key for the fallback tier
			sessionID = userID.String()
		}
	case sessionID != "":
		key = "session:" + sessionID
	default:
		h.BadRequest(c, "A session requires authentication or an "+SessionIDHeader+" header")
		return nil, false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.evictStale(now)

	entry, ok := h.sessions[key]
	if !ok {
		entry = &cartSession{
			svc: cartsync.NewService(h.remote, h.local, userID, sessionID, h.policy, h.timeout, h.logger),
		}
		h.sessions[key] = entry
	}
	entry.lastSeen = now
	return entry.svc, true
}

// evictStale drops sessions idle past the session TTL. Cart contents live
// in the stores, so eviction only forgets the pinned tier; the next request
// for the session pins again on load. Caller holds the mutex.
func (h *CartHandler) evictStale(now time.Time) {
	if h.sessionTTL <= 0 || now.Sub(h.lastSweep) < sessionSweepInterval {
		return
	}
	h.lastSweep = now
	for key, entry := range h.sessions {
		if now.Sub(entry.lastSeen) > h.sessionTTL {
			delete(h.sessions, key)
		}
	}
}

// Get loads the session cart, pinning the source of truth on first call
func (h *CartHandler) Get(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	result, err := svc.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCartSync(c.Request.Context(), string(result.Source), result.Degraded)
	}
	h.Success(c, result)
}

// AddItem adds a product to the cart, merging with an existing line
func (h *CartHandler) AddItem(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	var input cartsync.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := svc.Load(ctx); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := svc.AddItem(ctx, input)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	h.Success(c, result)
}

// quantityRequest carries the absolute quantity for a line
type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := svc.Load(ctx); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := svc.UpdateQuantity(ctx, cartsync.UpdateQuantityInput{
		ProductID: c.Param("productID"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem removes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := svc.Load(ctx); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := svc.RemoveItem(ctx, c.Param("productID"))
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	h.Success(c, result)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	svc, ok := h.service(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := svc.Load(ctx); err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := svc.Clear(ctx)
	if err != nil {
		h.handleWriteError(c, err)
		return
	}

	h.Success(c, result)
}

// handleWriteError reports a mutation failure, counting dual-tier outages
func (h *CartHandler) handleWriteError(c *gin.Context, err error) {
	var derr *shared.DomainError
	if h.metrics != nil && errors.As(err, &derr) && derr.Code == "UNAVAILABLE" {
		h.metrics.RecordCartWriteFailure(c.Request.Context())
	}
	h.HandleError(c, err)
}

// sessionCount reports how many sync services are live (for tests)
func (h *CartHandler) sessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
