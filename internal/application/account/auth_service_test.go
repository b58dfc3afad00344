package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/auth"
	"github.com/vendora/backend/internal/infrastructure/config"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]identity.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *identity.User) error {
	r.byID[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := user
	return &out, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...shared.DomainEvent) error { return nil }

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-test-secret-test-secret",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "vendora-test",
	})
	return NewAuthService(repo, jwtService, noopPublisher{}, zap.NewNop()), repo
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates an account", func(t *testing.T) {
		service, repo := newAuthFixture()

		dto, err := service.Register(context.Background(), RegisterInput{
			Email: "jane@example.com", Name: "Jane", Password: "s3cret-pass",
		})
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", dto.Email)
		assert.Equal(t, "user", dto.Role)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		service, _ := newAuthFixture()

		_, err := service.Register(context.Background(), RegisterInput{
			Email: "jane@example.com", Name: "Jane", Password: "s3cret-pass",
		})
		require.NoError(t, err)

		_, err = service.Register(context.Background(), RegisterInput{
			Email: "jane@example.com", Name: "Other Jane", Password: "s3cret-pass",
		})
		assert.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	register := func(t *testing.T, service *AuthService) *UserDTO {
		t.Helper()
		dto, err := service.Register(context.Background(), RegisterInput{
			Email: "jane@example.com", Name: "Jane", Password: "s3cret-pass",
		})
		require.NoError(t, err)
		return dto
	}

	t.Run("issues a token pair", func(t *testing.T) {
		service, _ := newAuthFixture()
		register(t, service)

		result, err := service.Login(context.Background(), LoginInput{
			Email: "jane@example.com", Password: "s3cret-pass",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, result.Tokens.AccessToken)
		assert.NotEmpty(t, result.Tokens.RefreshToken)
		assert.Equal(t, "Bearer", result.Tokens.TokenType)
	})

	t.Run("wrong password and unknown email yield the same error", func(t *testing.T) {
		service, _ := newAuthFixture()
		register(t, service)

		_, wrongPassword := service.Login(context.Background(), LoginInput{
			Email: "jane@example.com", Password: "wrong",
		})
		_, unknownEmail := service.Login(context.Background(), LoginInput{
			Email: "nobody@example.com", Password: "s3cret-pass",
		})

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		service, repo := newAuthFixture()
		dto := register(t, service)

		user := repo.byID[dto.ID]
		user.Disable()
		repo.byID[dto.ID] = user

		_, err := service.Login(context.Background(), LoginInput{
			Email: "jane@example.com", Password: "s3cret-pass",
		})
		assert.Error(t, err)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	service, _ := newAuthFixture()

	_, err := service.Register(context.Background(), RegisterInput{
		Email: "jane@example.com", Name: "Jane", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), LoginInput{
		Email: "jane@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	t.Run("valid refresh token issues a new pair", func(t *testing.T) {
		tokens, err := service.Refresh(context.Background(), result.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("access token is rejected as refresh token", func(t *testing.T) {
		_, err := service.Refresh(context.Background(), result.Tokens.AccessToken)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := service.Refresh(context.Background(), "not-a-token")
		assert.Error(t, err)
	})
}
