package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/vendora/backend/internal/application/vendorreq"
)

// GormUnitOfWork implements vendorreq.UnitOfWork on a GORM transaction.
// Every repository handed to fn shares one *gorm.DB transaction; an error
// from fn rolls the whole transaction back.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(stores vendorreq.Stores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(vendorreq.Stores{
			Requests:      NewGormVendorRequestRepository(tx),
			Users:         NewGormUserRepository(tx),
			Notifications: NewGormNotificationRepository(tx),
		})
	})
}
