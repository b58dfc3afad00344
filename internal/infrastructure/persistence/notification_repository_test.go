package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/backend/internal/domain/notification"
	"github.com/vendora/backend/internal/domain/shared"
)

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first, err := notification.New(userID, notification.TypeVendorApproved, "Approved", "Welcome aboard")
	require.NoError(t, err)
	second, err := notification.New(userID, notification.TypeSystem, "Maintenance", "Scheduled downtime")
	require.NoError(t, err)
	other, err := notification.New(uuid.New(), notification.TypeSystem, "Other", "Not yours")
	require.NoError(t, err)

	for _, n := range []*notification.Notification{first, second, other} {
		require.NoError(t, repo.Insert(ctx, n))
	}

	t.Run("lists only the recipient's notifications", func(t *testing.T) {
		page, err := repo.FindByUserID(ctx, userID, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		for _, n := range page.Items {
			assert.Equal(t, userID, n.UserID)
		}
	})

	t.Run("counts unread", func(t *testing.T) {
		count, err := repo.CountUnread(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		first.MarkRead()
		require.NoError(t, repo.Save(ctx, first))

		count, err = repo.CountUnread(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, found.IsRead())

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
