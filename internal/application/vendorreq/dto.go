package vendorreq

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/domain/vendor"
)

// DocumentDTO is a supporting document reference
type DocumentDTO struct {
	Type string `json:"type" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// SubmitRequestInput is the request to file a vendor application
type SubmitRequestInput struct {
	StoreName          string        `json:"store_name" binding:"required,max=200"`
	StoreDescription   string        `json:"store_description" binding:"max=2000"`
	BusinessType       string        `json:"business_type" binding:"required"`
	RegistrationNumber string        `json:"registration_number"`
	TaxID              string        `json:"tax_id"`
	Documents          []DocumentDTO `json:"documents" binding:"dive"`
}

// DecideInput is an admin's decision on a pending request
type DecideInput struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// RequestDTO is the presentation shape of a vendor request
type RequestDTO struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"user_id"`
	StoreName          string        `json:"store_name"`
	StoreDescription   string        `json:"store_description"`
	BusinessType       string        `json:"business_type"`
	RegistrationNumber string        `json:"registration_number,omitempty"`
	TaxID              string        `json:"tax_id,omitempty"`
	Documents          []DocumentDTO `json:"documents"`
	Status             string        `json:"status"`
	ProcessedBy        *uuid.UUID    `json:"processed_by,omitempty"`
	ProcessedAt        *time.Time    `json:"processed_at,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// ToRequestDTO maps a vendor request aggregate to its presentation shape
func ToRequestDTO(r *vendor.Request) *RequestDTO {
	docs := make([]DocumentDTO, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, DocumentDTO{Type: d.Type, URL: d.URL})
	}
	return &RequestDTO{
		ID:                 r.ID,
		UserID:             r.UserID,
		StoreName:          r.StoreName,
		StoreDescription:   r.StoreDescription,
		BusinessType:       r.BusinessType,
		RegistrationNumber: r.RegistrationNumber,
		TaxID:              r.TaxID,
		Documents:          docs,
		Status:             r.Status.String(),
		ProcessedBy:        r.ProcessedBy,
		ProcessedAt:        r.ProcessedAt,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// ToRequestDTOs maps a page of vendor requests
func ToRequestDTOs(page *shared.Paginated[*vendor.Request]) *shared.Paginated[*RequestDTO] {
	items := make([]*RequestDTO, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, ToRequestDTO(r))
	}
	return &shared.Paginated[*RequestDTO]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
