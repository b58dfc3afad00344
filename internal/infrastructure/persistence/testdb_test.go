package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			verified INTEGER NOT NULL DEFAULT 0,
			vendor_profile TEXT,
			vendor_since DATETIME,
			last_login_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE carts (
			id TEXT PRIMARY KEY,
			user_id TEXT UNIQUE,
			subtotal TEXT NOT NULL,
			tax TEXT NOT NULL,
			shipping TEXT NOT NULL,
			total TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE cart_items (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_price TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			available_stock INTEGER,
			compare_price TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE(cart_id, product_id)
		)`,
		`CREATE TABLE vendor_requests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			store_name TEXT NOT NULL,
			store_description TEXT,
			business_type TEXT NOT NULL,
			registration_number TEXT,
			tax_id TEXT,
			documents TEXT,
			status TEXT NOT NULL,
			processed_by TEXT,
			processed_at DATETIME,
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT,
			read_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	return db
}
