package vendorreq

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/notification"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
)

// ApprovalService decides pending vendor requests. A decision commits three
// effects as one atomic unit: the request's terminal status, the owning
// user's promotion (approve only), and the outcome notification. Any effect
// failing rolls back all of them.
type ApprovalService struct {
	uow      UnitOfWork
	eventBus shared.EventPublisher
	logger   *zap.Logger
}

// NewApprovalService creates an approval service
func NewApprovalService(uow UnitOfWork, eventBus shared.EventPublisher, logger *zap.Logger) *ApprovalService {
	return &ApprovalService{
		uow:      uow,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Transition applies an admin decision to a pending request.
//
// The request is re-read under a row lock inside the transaction, so two
// concurrent calls on the same request serialize: the first commits, the
// second observes a terminal status and gets ErrAlreadyProcessed with zero
// side effects. Retrying a network-ambiguous call is therefore safe.
func (s *ApprovalService) Transition(ctx context.Context, requestID uuid.UUID, decision vendor.Decision, actorID uuid.UUID) (*RequestDTO, error) {
	if !decision.IsValid() {
		return nil, shared.NewDomainError("INVALID_DECISION", fmt.Sprintf("Unknown decision %q", decision))
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	var (
		request *vendor.Request
		user    *identity.User
	)

	err := s.uow.Execute(ctx, func(stores Stores) error {
		req, err := stores.Requests.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}

		// status re-checked here, inside the lock, not at call time
		if err := req.Apply(decision, actorID); err != nil {
			return err
		}
		if err := stores.Requests.Save(ctx, req); err != nil {
			return err
		}

		owner, err := stores.Users.FindByID(ctx, req.UserID)
		if err != nil {
			return err
		}

		if decision == vendor.DecisionApprove {
			profile := req.Profile()
			if err := owner.PromoteToVendor(identity.VendorProfile{
				StoreName:          profile.StoreName,
				StoreDescription:   profile.StoreDescription,
				BusinessType:       profile.BusinessType,
				RegistrationNumber: profile.RegistrationNumber,
				TaxID:              profile.TaxID,
			}); err != nil {
				return err
			}
			if err := stores.Users.Save(ctx, owner); err != nil {
				return err
			}
		}

		note, err := outcomeNotification(req, decision)
		if err != nil {
			return err
		}
		if err := stores.Notifications.Insert(ctx, note); err != nil {
			return err
		}

		request = req
		user = owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request, user)

	s.logger.Info("vendor request processed",
		zap.String("request_id", requestID.String()),
		zap.String("decision", string(decision)),
		zap.String("actor_id", actorID.String()))

	return ToRequestDTO(request), nil
}

func outcomeNotification(req *vendor.Request, decision vendor.Decision) (*notification.Notification, error) {
	if decision == vendor.DecisionApprove {
		return notification.New(
			req.UserID,
			notification.TypeVendorApproved,
			"Vendor request approved",
			fmt.Sprintf("Congratulations! Your store %q has been approved. You can now start selling.", req.StoreName),
		)
	}
	return notification.New(
		req.UserID,
		notification.TypeVendorRejected,
		"Vendor request rejected",
		fmt.Sprintf("Your vendor request for %q was not approved. You may submit a new request with updated details.", req.StoreName),
	)
}

// publishEvents emits domain events after the transaction committed.
// Event delivery is best effort; a publish failure never unwinds the commit.
func (s *ApprovalService) publishEvents(ctx context.Context, request *vendor.Request, user *identity.User) {
	events := request.DomainEvents()
	if user != nil {
		events = append(events, user.DomainEvents()...)
	}
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	request.ClearDomainEvents()
	if user != nil {
		user.ClearDomainEvents()
	}
}
