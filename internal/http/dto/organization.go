package dto

import (
	"time"

	"altis.app/tracker/internal/model"
)

type CreateOrganizationRequest struct {
	Name string  `json:"name" binding:"required,min=1,max=255"`
	Slug *string `json:"slug,omitempty" binding:"omitempty,min=1,max=255"`
}

type OrganizationResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToOrganizationResponse(org *model.Organization) *OrganizationResponse {
	return &OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
