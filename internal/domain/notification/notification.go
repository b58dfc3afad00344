package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/shared"
)

// Type classifies a notification
type Type string

const (
	TypeVendorApproved Type = "vendor_approved"
	TypeVendorRejected Type = "vendor_rejected"
	TypeSystem         Type = "system"
)

// IsValid checks if the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeVendorApproved, TypeVendorRejected, TypeSystem:
		return true
	}
	return false
}

// Notification is an append-only message delivered to a user's inbox
type Notification struct {
	shared.BaseEntity
	UserID  uuid.UUID
	Type    Type
	Title   string
	Message string
	ReadAt  *time.Time
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New creates a notification addressed to a user
func New(userID uuid.UUID, typ Type, title, message string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTIFICATION_TYPE", "Unknown notification type")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}

	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
	}, nil
}

// IsRead returns true once the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// MarkRead stamps the read time; reading twice keeps the first stamp
func (n *Notification) MarkRead() {
	if n.ReadAt != nil {
		return
	}
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}

// Repository defines the persistence contract for notifications.
// Writes are append-only; delivery state is the only mutable field.
type Repository interface {
	// Insert persists a new notification
	Insert(ctx context.Context, n *Notification) error

	// FindByUserID retrieves a user's notifications with pagination, newest first
	FindByUserID(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Notification], error)

	// FindByID retrieves a notification by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// CountUnread counts the user's unread notifications
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// Save persists delivery-state changes to an existing notification
	Save(ctx context.Context, n *Notification) error
}
