package vendorreq

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
)

// SubmissionService files and lists vendor requests
type SubmissionService struct {
	requests vendor.Repository
	users    identity.UserRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewSubmissionService creates a submission service
func NewSubmissionService(
	requests vendor.Repository,
	users identity.UserRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		requests: requests,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Submit files a vendor request for a user. A user holds at most one open
// request at a time; vendors cannot file another one.
func (s *SubmissionService) Submit(ctx context.Context, userID uuid.UUID, input SubmitRequestInput) (*RequestDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Disabled accounts cannot file vendor requests")
	}
	if user.Role == identity.RoleVendor {
		return nil, shared.NewDomainError("ALREADY_VENDOR", "User already holds the vendor role")
	}

	if _, err := s.requests.FindOpenByUserID(ctx, userID); err == nil {
		return nil, shared.NewDomainError("REQUEST_ALREADY_OPEN", "User already has a pending vendor request")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	docs := make([]vendor.Document, 0, len(input.Documents))
	for _, d := range input.Documents {
		docs = append(docs, vendor.Document{Type: d.Type, URL: d.URL})
	}

	request, err := vendor.NewRequest(userID, vendor.StoreProfile{
		StoreName:          input.StoreName,
		StoreDescription:   input.StoreDescription,
		BusinessType:       input.BusinessType,
		RegistrationNumber: input.RegistrationNumber,
		TaxID:              input.TaxID,
	}, docs)
	if err != nil {
		return nil, err
	}

	if err := s.requests.Save(ctx, request); err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, request.DomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	request.ClearDomainEvents()

	s.logger.Info("vendor request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID.String()))

	return ToRequestDTO(request), nil
}

// Get retrieves a request. Non-admin callers may only read their own.
func (s *SubmissionService) Get(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return ToRequestDTO(request), nil
}

// ListByUser retrieves all requests filed by a user, newest first
func (s *SubmissionService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*RequestDTO, error) {
	requests, err := s.requests.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*RequestDTO, 0, len(requests))
	for _, r := range requests {
		dtos = append(dtos, ToRequestDTO(r))
	}
	return dtos, nil
}

// List retrieves requests with pagination, optionally filtered by status
func (s *SubmissionService) List(ctx context.Context, status *vendor.RequestStatus, filter shared.Filter) (*shared.Paginated[*RequestDTO], error) {
	if status != nil && !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown request status")
	}
	page, err := s.requests.FindAll(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return ToRequestDTOs(page), nil
}
