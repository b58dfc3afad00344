package identity

import (
	"github.com/vendora/backend/internal/domain/shared"
)

// Event types for the user aggregate
const (
	EventTypeUserRegistered       = "identity.user.registered"
	EventTypeUserPromotedToVendor = "identity.user.promoted_to_vendor"
)

// UserRegisteredEvent is raised when a user account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a user registered event
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, "User", u.ID),
		Email:           u.Email,
	}
}

// UserPromotedToVendorEvent is raised when a user gains the vendor role
type UserPromotedToVendorEvent struct {
	shared.BaseDomainEvent
	StoreName string `json:"store_name"`
}

// NewUserPromotedToVendorEvent creates a promotion event
func NewUserPromotedToVendorEvent(u *User) *UserPromotedToVendorEvent {
	storeName := ""
	if u.VendorProfile != nil {
		storeName = u.VendorProfile.StoreName
	}
	return &UserPromotedToVendorEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPromotedToVendor, "User", u.ID),
		StoreName:       storeName,
	}
}
