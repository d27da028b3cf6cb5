package models

import (
	"time"

	"github.com/google/uuid"
)

// Banner is promotional storefront content, visible while now falls inside
// [StartDate, EndDate] and IsActive is set.
type Banner struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image"`
	DiscountText string    `json:"discountText,omitempty"`
	Position     int       `json:"position"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateBannerRequest struct {
	Title        string    `json:"title" validate:"required,min=3,max=120"`
	Subtitle     string    `json:"subtitle,omitempty" validate:"omitempty,max=200"`
	Description  string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Image        string    `json:"image" validate:"required"`
	DiscountText string    `json:"discountText,omitempty" validate:"omitempty,max=50"`
	Position     int       `json:"position" validate:"gte=0"`
	StartDate    time.Time `json:"startDate" validate:"required"`
	EndDate      time.Time `json:"endDate" validate:"required"`
}

type UpdateBannerRequest struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Subtitle     *string    `json:"subtitle,omitempty" validate:"omitempty,max=200"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Image        *string    `json:"image,omitempty"`
	DiscountText *string    `json:"discountText,omitempty" validate:"omitempty,max=50"`
	Position     *int       `json:"position,omitempty" validate:"omitempty,gte=0"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	IsActive     *bool      `json:"isActive,omitempty"`
}
