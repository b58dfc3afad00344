package inbox

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/notification"
	"github.com/vendora/backend/internal/domain/shared"
)

// Service reads a user's notification inbox. Notifications are written by
// other workflows; this service only lists them and tracks delivery state.
type Service struct {
	notifications notification.Repository
	logger        *zap.Logger
}

// NewService creates an inbox service
func NewService(notifications notification.Repository, logger *zap.Logger) *Service {
	return &Service{notifications: notifications, logger: logger}
}

// NotificationDTO is the presentation shape of a notification
type NotificationDTO struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toDTO(n *notification.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// List retrieves a user's notifications with pagination, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*NotificationDTO], error) {
	page, err := s.notifications.FindByUserID(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*NotificationDTO, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, toDTO(n))
	}
	return &shared.Paginated[*NotificationDTO]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// UnreadCount counts the user's unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead marks a notification as read. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*NotificationDTO, error) {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, shared.ErrForbidden
	}
	if !n.IsRead() {
		n.MarkRead()
		if err := s.notifications.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	return toDTO(n), nil
}
