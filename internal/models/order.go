package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo encodes the administrator-only status transitions. A
// cancelled or confirmed order never reopens to pending.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusCancelled
	default:
		return false
	}
}

// OrderLine is a snapshot frozen at checkout time: name, photo, variant,
// unit price, quantity and subtotal are copies, never recomputed from the
// live catalog item.
type OrderLine struct {
	ItemType  ItemKind    `json:"itemType"`
	ItemID    uuid.UUID   `json:"itemId"`
	Name      string      `json:"name"`
	Photo     string      `json:"photo"`
	Variant   VariantName `json:"variant,omitempty"`
	UnitPrice int64       `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	Subtotal  int64       `json:"subtotal"`
}

// Order is created only by checkout and immutable afterwards except for
// Status. TotalPrice is the sum of line subtotals, computed once at
// creation.
type Order struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	Lines      []OrderLine `json:"lines"`
	TotalPrice int64       `json:"totalPrice"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
