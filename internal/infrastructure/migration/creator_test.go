package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add vendor requests", "add_vendor_requests"},
		{"Add-Vendor-Requests", "add_vendor_requests"},
		{"add__carts__table", "add_carts_table"},
		{"notifications v2", "notifications_v2"},
		{"   spaces   ", "spaces"},
		{"special!@#chars", "specialchars"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	pair, err := Create(dir, "add vendor requests")
	require.NoError(t, err)

	assert.Len(t, pair.Version, 14)
	assert.True(t, strings.HasSuffix(pair.UpPath, "_add_vendor_requests.up.sql"))
	assert.True(t, strings.HasSuffix(pair.DownPath, "_add_vendor_requests.down.sql"))

	upContent, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add vendor requests")

	downContent, err := os.ReadFile(pair.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "rollback")
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	names, err := List(dir)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, f := range []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"000002_add_notifications.up.sql",
		"000002_add_notifications.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0644))
	}

	names, err = List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_add_notifications"}, names)
}

func TestListMissingDirectory(t *testing.T) {
	names, err := List(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Nil(t, names)
}
