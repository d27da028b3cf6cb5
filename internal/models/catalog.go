package models

import (
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemKindGame   ItemKind = "game"
	ItemKindDevice ItemKind = "device"
)

type VariantName string

const (
	VariantPrimary   VariantName = "primary"
	VariantSecondary VariantName = "secondary"
)

// PriceVariant is one independently priced purchase option of a game.
// BasePrice is required only while the variant is enabled; FinalPrice is
// derived and never set by clients.
type PriceVariant struct {
	Enabled    bool  `json:"enabled"`
	BasePrice  int64 `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	FinalPrice int64 `json:"finalPrice,omitempty"`
}

type GameVariants struct {
	Primary   PriceVariant `json:"primary"`
	Secondary PriceVariant `json:"secondary"`
}

func (v *GameVariants) Get(name VariantName) (PriceVariant, bool) {
	switch name {
	case VariantPrimary:
		return v.Primary, true
	case VariantSecondary:
		return v.Secondary, true
	default:
		return PriceVariant{}, false
	}
}

func (v *GameVariants) AnyEnabled() bool {
	return v.Primary.Enabled || v.Secondary.Enabled
}

// CatalogItem is a game or a device. Games carry platform/category/rating
// and per-variant pricing; devices carry condition and single-item pricing.
// Prices are whole currency units, stored pre-computed so that historical
// order snapshots stay stable when catalog prices change.
type CatalogItem struct {
	ID              uuid.UUID     `json:"id"`
	Kind            ItemKind      `json:"kind"`
	Name            string        `json:"name"`
	Slug            string        `json:"slug"`
	Description     string        `json:"description"`
	Platform        string        `json:"platform,omitempty"`
	Category        string        `json:"category,omitempty"`
	Condition       string        `json:"condition,omitempty"`
	Photo           string        `json:"photo"`
	BasePrice       int64         `json:"basePrice,omitempty"`
	FinalPrice      int64         `json:"finalPrice,omitempty"`
	Variants        *GameVariants `json:"variants,omitempty"`
	DiscountPercent int           `json:"discountPercent"`
	OfferStart      *time.Time    `json:"offerStart,omitempty"`
	OfferEnd        *time.Time    `json:"offerEnd,omitempty"`
	Stock           int64         `json:"stock"`
	Sold            int64         `json:"sold"`
	Rating          float64       `json:"rating,omitempty"`
	IsActive        bool          `json:"isActive"`
	IsFeatured      bool          `json:"isFeatured"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type CreateGameRequest struct {
	Name            string       `json:"name" validate:"required,min=2,max=120"`
	Description     string       `json:"description" validate:"required,max=2000"`
	Platform        string       `json:"platform" validate:"required,oneof=ps5 ps4 xbox"`
	Category        string       `json:"category" validate:"required,oneof=action sports rpg adventure fps platformer"`
	Photo           string       `json:"photo" validate:"required"`
	Variants        GameVariants `json:"variants" validate:"required"`
	DiscountPercent int          `json:"discountPercent" validate:"gte=0,lte=100"`
	OfferStart      *time.Time   `json:"offerStart,omitempty"`
	OfferEnd        *time.Time   `json:"offerEnd,omitempty"`
	Stock           int64        `json:"stock" validate:"gte=0"`
	IsFeatured      bool         `json:"isFeatured"`
}

type UpdateGameRequest struct {
	Name            *string       `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description     *string       `json:"description,omitempty" validate:"omitempty,max=2000"`
	Platform        *string       `json:"platform,omitempty" validate:"omitempty,oneof=ps5 ps4 xbox"`
	Category        *string       `json:"category,omitempty" validate:"omitempty,oneof=action sports rpg adventure fps platformer"`
	Photo           *string       `json:"photo,omitempty"`
	Variants        *GameVariants `json:"variants,omitempty"`
	DiscountPercent *int          `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	OfferStart      *time.Time    `json:"offerStart,omitempty"`
	OfferEnd        *time.Time    `json:"offerEnd,omitempty"`
	Stock           *int64        `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsFeatured      *bool         `json:"isFeatured,omitempty"`
}

type CreateDeviceRequest struct {
	Name            string     `json:"name" validate:"required,min=2,max=120"`
	Description     string     `json:"description" validate:"required,max=3000"`
	Condition       string     `json:"condition" validate:"required,oneof=new used"`
	Photo           string     `json:"photo" validate:"required"`
	BasePrice       int64      `json:"basePrice" validate:"gte=0"`
	DiscountPercent int        `json:"discountPercent" validate:"gte=0,lte=100"`
	OfferStart      *time.Time `json:"offerStart,omitempty"`
	OfferEnd        *time.Time `json:"offerEnd,omitempty"`
	Stock           int64      `json:"stock" validate:"gte=0"`
	IsFeatured      bool       `json:"isFeatured"`
}

type UpdateDeviceRequest struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=3000"`
	Condition       *string    `json:"condition,omitempty" validate:"omitempty,oneof=new used"`
	Photo           *string    `json:"photo,omitempty"`
	BasePrice       *int64     `json:"basePrice,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *int       `json:"discountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
	OfferStart      *time.Time `json:"offerStart,omitempty"`
	OfferEnd        *time.Time `json:"offerEnd,omitempty"`
	Stock           *int64     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	IsFeatured      *bool      `json:"isFeatured,omitempty"`
}
