package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active regular user", func(t *testing.T) {
		user, err := NewUser("Jane@Example.com", "Jane Doe", "s3cret-pass")
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, RoleUser, user.Role)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Nil(t, user.VendorProfile)
		assert.True(t, user.CheckPassword("s3cret-pass"))
		assert.False(t, user.CheckPassword("wrong"))

		events := user.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Jane", "s3cret-pass")
		assert.Error(t, err)
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser("jane@example.com", "Jane", "short")
		assert.Error(t, err)
	})
}

func TestUser_PromoteToVendor(t *testing.T) {
	profile := VendorProfile{
		StoreName:    "Acme Outfitters",
		BusinessType: "LLC",
	}

	t.Run("grants vendor role and profile", func(t *testing.T) {
		user, err := NewUser("jane@example.com", "Jane", "s3cret-pass")
		require.NoError(t, err)
		user.ClearDomainEvents()

		err = user.PromoteToVendor(profile)
		require.NoError(t, err)

		assert.Equal(t, RoleVendor, user.Role)
		assert.True(t, user.Verified)
		require.NotNil(t, user.VendorProfile)
		assert.Equal(t, "Acme Outfitters", user.VendorProfile.StoreName)
		assert.NotNil(t, user.VendorSince)
		assert.True(t, user.IsVendor())

		events := user.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserPromotedToVendor, events[0].EventType())
	})

	t.Run("rejects second promotion", func(t *testing.T) {
		user, err := NewUser("jane@example.com", "Jane", "s3cret-pass")
		require.NoError(t, err)
		require.NoError(t, user.PromoteToVendor(profile))

		err = user.PromoteToVendor(profile)
		assert.Error(t, err)
	})

	t.Run("admin keeps admin role", func(t *testing.T) {
		user, err := NewUser("admin@example.com", "Admin", "s3cret-pass")
		require.NoError(t, err)
		user.Role = RoleAdmin

		require.NoError(t, user.PromoteToVendor(profile))
		assert.Equal(t, RoleAdmin, user.Role)
		assert.True(t, user.IsVendor())
	})

	t.Run("reactivates a disabled account", func(t *testing.T) {
		user, err := NewUser("jane@example.com", "Jane", "s3cret-pass")
		require.NoError(t, err)
		user.Disable()

		require.NoError(t, user.PromoteToVendor(profile))
		assert.Equal(t, UserStatusActive, user.Status)
		assert.True(t, user.Verified)
	})

	t.Run("rejects empty store name", func(t *testing.T) {
		user, err := NewUser("jane@example.com", "Jane", "s3cret-pass")
		require.NoError(t, err)

		err = user.PromoteToVendor(VendorProfile{})
		assert.Error(t, err)
	})
}
