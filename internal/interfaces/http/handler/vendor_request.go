package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vendora/backend/internal/application/vendorreq"
	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
	"github.com/vendora/backend/internal/infrastructure/telemetry"
	"github.com/vendora/backend/internal/interfaces/http/dto"
	"github.com/vendora/backend/internal/interfaces/http/middleware"
)

// VendorRequestHandler handles vendor onboarding HTTP requests
type VendorRequestHandler struct {
	BaseHandler
	submissions *vendorreq.SubmissionService
	approvals   *vendorreq.ApprovalService
	metrics     *telemetry.BusinessMetrics
}

// NewVendorRequestHandler creates a new vendor request handler
func NewVendorRequestHandler(submissions *vendorreq.SubmissionService, approvals *vendorreq.ApprovalService) *VendorRequestHandler {
	return &VendorRequestHandler{
		submissions: submissions,
		approvals:   approvals,
	}
}

// SetMetrics enables business metric recording
func (h *VendorRequestHandler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	h.metrics = metrics
}

// RegisterRoutes registers vendor request routes. Admin routes require the
// admin role on top of authentication.
func (h *VendorRequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/vendor-requests")
	{
		requests.POST("", h.Submit)
		requests.GET("/mine", h.ListMine)
	}

	admin := r.Group("/admin/vendor-requests")
	admin.Use(middleware.RequireRole(string(identity.RoleAdmin)))
	{
		admin.GET("", h.List)
		admin.GET("/:id", h.Get)
		admin.POST("/:id/decision", h.Decide)
	}
}

// Submit files a vendor application for the authenticated user
func (h *VendorRequestHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input vendorreq.SubmitRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	request, err := h.submissions.Submit(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordVendorRequest(c.Request.Context())
	}
	h.Created(c, request)
}

// ListMine lists the authenticated user's vendor requests
func (h *VendorRequestHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requests, err := h.submissions.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requests)
}

// List lists vendor requests, optionally filtered by status
func (h *VendorRequestHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var status *vendor.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := vendor.RequestStatus(raw)
		status = &s
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}

	page, err := h.submissions.List(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single vendor request
func (h *VendorRequestHandler) Get(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	request, err := h.submissions.Get(c.Request.Context(), requestID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Decide applies an admin's approve or reject decision to a pending request
func (h *VendorRequestHandler) Decide(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	var input vendorreq.DecideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	request, err := h.approvals.Transition(c.Request.Context(), requestID, vendor.Decision(input.Decision), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordVendorDecision(c.Request.Context(), input.Decision)
	}
	h.Success(c, request)
}
