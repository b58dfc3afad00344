package vendorreq

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
)

func submissionInput() SubmitRequestInput {
	return SubmitRequestInput{
		StoreName:    "Acme Outfitters",
		BusinessType: "LLC",
		Documents: []DocumentDTO{
			{Type: "license", URL: "https://docs.example.com/license.pdf"},
		},
	}
}

type submissionFixture struct {
	service  *SubmissionService
	requests *memRequestRepo
	users    *memUserRepo
	user     *identity.User
}

func newSubmissionFixture(t *testing.T) *submissionFixture {
	t.Helper()

	user, err := identity.NewUser("owner@example.com", "Owner", "s3cret-pass")
	require.NoError(t, err)

	requests := newMemRequestRepo()
	users := newMemUserRepo()
	require.NoError(t, users.Save(context.Background(), user))

	return &submissionFixture{
		service:  NewSubmissionService(requests, users, noopPublisher{}, zap.NewNop()),
		requests: requests,
		users:    users,
		user:     user,
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	t.Run("files a pending request", func(t *testing.T) {
		fx := newSubmissionFixture(t)

		dto, err := fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		require.NoError(t, err)

		assert.Equal(t, "pending", dto.Status)
		assert.Equal(t, fx.user.ID, dto.UserID)
		require.Len(t, dto.Documents, 1)

		stored, err := fx.requests.FindByID(context.Background(), dto.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsPending())
	})

	t.Run("rejects a second open request", func(t *testing.T) {
		fx := newSubmissionFixture(t)

		_, err := fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		require.NoError(t, err)

		_, err = fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		assert.Error(t, err)
	})

	t.Run("allows refiling after rejection", func(t *testing.T) {
		fx := newSubmissionFixture(t)

		first, err := fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		require.NoError(t, err)

		stored, err := fx.requests.FindByID(context.Background(), first.ID)
		require.NoError(t, err)
		require.NoError(t, stored.Reject(uuid.New()))
		require.NoError(t, fx.requests.Save(context.Background(), stored))

		_, err = fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		assert.NoError(t, err)
	})

	t.Run("rejects an existing vendor", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		fx.user.Role = identity.RoleVendor
		require.NoError(t, fx.users.Save(context.Background(), fx.user))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		assert.Error(t, err)
	})

	t.Run("rejects a disabled user", func(t *testing.T) {
		fx := newSubmissionFixture(t)
		fx.user.Disable()
		require.NoError(t, fx.users.Save(context.Background(), fx.user))

		_, err := fx.service.Submit(context.Background(), fx.user.ID, submissionInput())
		assert.Error(t, err)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		fx := newSubmissionFixture(t)

		_, err := fx.service.Submit(context.Background(), uuid.New(), submissionInput())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSubmissionService_List(t *testing.T) {
	fx := newSubmissionFixture(t)
	ctx := context.Background()

	_, err := fx.service.Submit(ctx, fx.user.ID, submissionInput())
	require.NoError(t, err)

	t.Run("filters by status", func(t *testing.T) {
		pending := vendor.RequestStatusPending
		page, err := fx.service.List(ctx, &pending, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)

		approved := vendor.RequestStatusApproved
		page, err = fx.service.List(ctx, &approved, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		bogus := vendor.RequestStatus("escalated")
		_, err := fx.service.List(ctx, &bogus, shared.DefaultFilter())
		assert.Error(t, err)
	})

	t.Run("lists by user", func(t *testing.T) {
		dtos, err := fx.service.ListByUser(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.Len(t, dtos, 1)
	})
}
