package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine references a catalog item by id; Variant is set only for game
// lines. Lines with the same (ItemID, ItemType, Variant) are merged, never
// duplicated, and Quantity is always >= 1 while a line exists.
type CartLine struct {
	ItemType ItemKind    `json:"itemType"`
	ItemID   uuid.UUID   `json:"itemId"`
	Variant  VariantName `json:"variant,omitempty"`
	Quantity int         `json:"quantity"`
}

func (l CartLine) Matches(itemID uuid.UUID, itemType ItemKind, variant VariantName) bool {
	return l.ItemID == itemID && l.ItemType == itemType && l.Variant == variant
}

// Cart is the single active cart of one user. Created lazily on first add,
// cleared (not deleted) by a successful checkout.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Lines      []CartLine `json:"lines"`
	TotalPrice int64      `json:"totalPrice"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CartLineView is a cart line joined with its live catalog item: the price
// here is informational and tracks the catalog, unlike the frozen snapshot
// taken at checkout.
type CartLineView struct {
	ItemType  ItemKind     `json:"itemType"`
	Variant   VariantName  `json:"variant,omitempty"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unitPrice"`
	Subtotal  int64        `json:"subtotal"`
	Item      *CatalogItem `json:"item"`
}

type CartView struct {
	ID         uuid.UUID      `json:"id"`
	Lines      []CartLineView `json:"lines"`
	TotalPrice int64          `json:"totalPrice"`
}

type CartLineRequest struct {
	ItemID   uuid.UUID   `json:"itemId" validate:"required"`
	ItemType ItemKind    `json:"itemType" validate:"required,oneof=game device"`
	Variant  VariantName `json:"variant,omitempty" validate:"omitempty,oneof=primary secondary"`
}
