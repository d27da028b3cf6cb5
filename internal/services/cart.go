package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	AddLine(ctx context.Context, userID uuid.UUID, req *models.CartLineRequest) (*models.Cart, error)
	RemoveLine(ctx context.Context, userID uuid.UUID, req *models.CartLineRequest) (*models.Cart, error)
	ViewCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
}

func NewCartService(cartRepo repository.CartRepository, catalogRepo repository.CatalogRepository) CartService {
	return &cartService{cartRepo: cartRepo, catalogRepo: catalogRepo}
}

// AddLine merges into an existing matching line instead of appending a
// duplicate. The cart itself is created lazily on the first add.
func (s *cartService) AddLine(ctx context.Context, userID uuid.UUID, req *models.CartLineRequest) (*models.Cart, error) {

	item, err := s.resolveLineItem(ctx, req)
	if err != nil {
		return nil, err
	}

	if !item.IsActive {
		return nil, appErrors.UnavailableError("Item is not available")
	}

	if item.Kind == models.ItemKindGame && req.Variant != "" {

		variant, ok := item.Variants.Get(req.Variant)
		if !ok || !variant.Enabled {
			return nil, appErrors.UnavailableError("Selected variant is not available")
		}
	}

	if item.Kind == models.ItemKindDevice && req.Variant != "" {
		return nil, appErrors.ValidationError("Variants only apply to games")
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {

		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
		}

		cart = &models.Cart{ID: uuid.New(), UserID: userID}
		if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
			return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
		}
	}

	if i := findLine(cart.Lines, req); i >= 0 {
		cart.Lines[i].Quantity++
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ItemType: req.ItemType,
			ItemID:   req.ItemID,
			Variant:  req.Variant,
			Quantity: 1,
		})
	}

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// RemoveLine decrements the matching line and drops it once the quantity
// reaches zero.
func (s *cartService) RemoveLine(ctx context.Context, userID uuid.UUID, req *models.CartLineRequest) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	i := findLine(cart.Lines, req)
	if i < 0 {
		return nil, appErrors.NotFoundError("Item is not in the cart")
	}

	if cart.Lines[i].Quantity > 1 {
		cart.Lines[i].Quantity--
	} else {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// ViewCart joins every line with its live catalog item and prices the cart
// at current catalog prices. A user without a cart row sees an empty cart.
func (s *cartService) ViewCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.CartView{Lines: []models.CartLineView{}}, nil
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	view := &models.CartView{
		ID:    cart.ID,
		Lines: make([]models.CartLineView, 0, len(cart.Lines)),
	}

	for _, line := range cart.Lines {

		item, err := s.catalogRepo.GetItemByID(ctx, line.ItemID)
		if err != nil {

			// item was removed after it entered the cart; skip rather
			// than failing the whole view
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}

			return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
		}

		unitPrice := currentUnitPrice(item, line.Variant)
		subtotal := unitPrice * int64(line.Quantity)

		view.Lines = append(view.Lines, models.CartLineView{
			ItemType:  line.ItemType,
			Variant:   line.Variant,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
			Item:      item,
		})

		view.TotalPrice += subtotal
	}

	return view, nil
}

func findLine(lines []models.CartLine, req *models.CartLineRequest) int {
	for i, line := range lines {
		if line.Matches(req.ItemID, req.ItemType, req.Variant) {
			return i
		}
	}

	return -1
}

func (s *cartService) resolveLineItem(ctx context.Context, req *models.CartLineRequest) (*models.CatalogItem, error) {

	item, err := s.catalogRepo.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch item").WithError(err)
	}

	if item.Kind != req.ItemType {
		return nil, appErrors.NotFoundError("Item not found")
	}

	return item, nil
}

// currentUnitPrice is the informational cart price. The authoritative price
// is frozen later, at checkout.
func currentUnitPrice(item *models.CatalogItem, variantName models.VariantName) int64 {

	if item.Kind == models.ItemKindGame {

		if item.Variants == nil || variantName == "" {
			return 0
		}

		variant, ok := item.Variants.Get(variantName)
		if !ok || !variant.Enabled {
			return 0
		}

		return variant.FinalPrice
	}

	return item.FinalPrice
}
