package identity

import (
	"strings"
	"time"

	"github.com/vendora/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a user's role in the marketplace
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// UserStatus represents the account status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// VendorProfile holds the store details attached to a user once the user
// becomes a vendor. Empty for regular users.
type VendorProfile struct {
	StoreName          string `json:"store_name"`
	StoreDescription   string `json:"store_description"`
	BusinessType       string `json:"business_type"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
}

// User represents a user aggregate root
type User struct {
	shared.BaseAggregateRoot
	Email         string
	Name          string
	PasswordHash  string
	Role          Role
	Status        UserStatus
	Verified      bool
	VendorProfile *VendorProfile `gorm:"serializer:json"`
	VendorSince   *time.Time
	LastLoginAt   *time.Time
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with the regular role and a hashed password
func NewUser(email, name, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is invalid")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      string(hash),
		Role:              RoleUser,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsActive returns true if the account is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsVendor returns true if the user holds the vendor or admin role
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor || u.Role == RoleAdmin
}

// IsAdmin returns true if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PromoteToVendor grants the vendor role, marks the account verified and
// active, and attaches the store profile. Admins keep their role; a user
// already holding the vendor role is rejected so a promotion is never
// applied twice.
func (u *User) PromoteToVendor(profile VendorProfile) error {
	if u.Role == RoleVendor {
		return shared.NewDomainError("INVALID_STATE", "User is already a vendor")
	}
	if profile.StoreName == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}

	now := time.Now()
	if u.Role != RoleAdmin {
		u.Role = RoleVendor
	}
	u.Verified = true
	u.Status = UserStatusActive
	u.VendorProfile = &profile
	u.VendorSince = &now
	u.UpdatedAt = now

	u.AddDomainEvent(NewUserPromotedToVendorEvent(u))

	return nil
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Disable deactivates the account
func (u *User) Disable() {
	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
}
