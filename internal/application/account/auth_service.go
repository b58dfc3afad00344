package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/auth"
)

// AuthService registers and authenticates users
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	eventBus   shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates an auth service
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.eventBus.Publish(ctx, user.DomainEvents()...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
	user.ClearDomainEvents()

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	return ToUserDTO(user), nil
}

// Login authenticates a user and issues a token pair.
// Unknown email and wrong password return the same error so the response
// never reveals which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	invalidCredentials := shared.NewDomainError("INVALID_CREDENTIALS", "Email or password is incorrect")

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(input.Password) {
		return nil, invalidCredentials
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("TOKEN_GENERATION_FAILED", "Failed to issue tokens", err)
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Warn("failed to record login time", zap.Error(err))
	}

	return &LoginResult{User: *ToUserDTO(user), Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("UNAUTHORIZED", "Refresh token is invalid", err)
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been disabled")
	}

	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role.String(),
	})
	if err != nil {
		return nil, shared.NewDomainErrorWithCause("TOKEN_GENERATION_FAILED", "Failed to issue tokens", err)
	}
	return tokens, nil
}

// Me retrieves the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// LoginResult pairs the authenticated user with issued tokens
type LoginResult struct {
	User   UserDTO        `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}

// RegisterInput is the request to create an account
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginInput is the request to authenticate
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the presentation shape of a user
type UserDTO struct {
	ID            uuid.UUID               `json:"id"`
	Email         string                  `json:"email"`
	Name          string                  `json:"name"`
	Role          string                  `json:"role"`
	Verified      bool                    `json:"verified"`
	VendorProfile *identity.VendorProfile `json:"vendor_profile,omitempty"`
	VendorSince   *time.Time              `json:"vendor_since,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// ToUserDTO maps a user aggregate to its presentation shape
func ToUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role.String(),
		Verified:      u.Verified,
		VendorProfile: u.VendorProfile,
		VendorSince:   u.VendorSince,
		CreatedAt:     u.CreatedAt,
	}
}
