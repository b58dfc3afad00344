package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
)

// GormVendorRequestRepository implements vendor.Repository using GORM
type GormVendorRequestRepository struct {
	db *gorm.DB
}

// NewGormVendorRequestRepository creates a new GormVendorRequestRepository
func NewGormVendorRequestRepository(db *gorm.DB) *GormVendorRequestRepository {
	return &GormVendorRequestRepository{db: db}
}

// Save persists a vendor request (create or update)
func (r *GormVendorRequestRepository) Save(ctx context.Context, request *vendor.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// FindByID finds a vendor request by ID
func (r *GormVendorRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.Request, error) {
	var request vendor.Request
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByIDForUpdate finds a vendor request by ID holding a FOR UPDATE row
// lock. Inside a transaction this serializes concurrent decisions on the
// same request; the loser of the race re-reads the already-terminal status.
func (r *GormVendorRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*vendor.Request, error) {
	var request vendor.Request
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindOpenByUserID finds the user's pending request, if any
func (r *GormVendorRequestRepository) FindOpenByUserID(ctx context.Context, userID uuid.UUID) (*vendor.Request, error) {
	var request vendor.Request
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, vendor.RequestStatusPending).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByUserID finds all requests filed by a user, newest first
func (r *GormVendorRequestRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*vendor.Request, error) {
	var requests []*vendor.Request
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindAll finds requests with pagination, optionally filtered by status
func (r *GormVendorRequestRepository) FindAll(ctx context.Context, status *vendor.RequestStatus, filter shared.Filter) (*shared.Paginated[*vendor.Request], error) {
	query := r.db.WithContext(ctx).Model(&vendor.Request{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var requests []*vendor.Request
	if err := applyFilter(query, filter).Find(&requests).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(requests, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies pagination and ordering to a query
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	orderDir := filter.OrderDir
	if orderDir != "asc" {
		orderDir = "desc"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
