package notification

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("creates unread notification", func(t *testing.T) {
		n, err := New(uuid.New(), TypeVendorApproved, "Vendor request approved", "Welcome aboard")
		require.NoError(t, err)

		assert.Equal(t, TypeVendorApproved, n.Type)
		assert.False(t, n.IsRead())
	})

	t.Run("fails with empty user", func(t *testing.T) {
		_, err := New(uuid.Nil, TypeSystem, "Title", "")
		assert.Error(t, err)
	})

	t.Run("fails with unknown type", func(t *testing.T) {
		_, err := New(uuid.New(), Type("spam"), "Title", "")
		assert.Error(t, err)
	})

	t.Run("fails with blank title", func(t *testing.T) {
		_, err := New(uuid.New(), TypeSystem, "  ", "")
		assert.Error(t, err)
	})
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := New(uuid.New(), TypeVendorRejected, "Vendor request rejected", "")
	require.NoError(t, err)

	n.MarkRead()
	require.True(t, n.IsRead())
	first := *n.ReadAt

	time.Sleep(time.Millisecond)
	n.MarkRead()
	assert.Equal(t, first, *n.ReadAt)
}
