package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/metrics"
	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/pricing"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
)

type checkoutStage string

const (
	stageValidating   checkoutStage = "validating"
	stageReserving    checkoutStage = "reserving"
	stageSnapshotting checkoutStage = "snapshotting"
	stageCommitted    checkoutStage = "committed"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error)
}

type checkoutService struct {
	repos *repository.Repositories
}

func NewCheckoutService(repos *repository.Repositories) CheckoutService {
	return &checkoutService{repos: repos}
}

// Checkout turns the user's cart into an order. Validation runs outside the
// transaction; stock reservation, the order snapshot and the cart reset are
// one transaction that either all commits or all rolls back. Prices are
// frozen from the catalog rows as locked by the reservation, not from
// whatever the cart displayed earlier.
func (s *checkoutService) Checkout(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	start := time.Now()
	metrics.CheckoutStarted()

	cart, err := s.validateCart(ctx, userID)
	if err != nil {
		metrics.CheckoutFailed(string(stageValidating))
		return nil, err
	}

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.OrderStatusPending,
	}

	stage := stageReserving

	txErr := s.repos.RunInTx(ctx, func(tx *sql.Tx) error {

		for _, line := range cart.Lines {

			// relative update under the row lock: concurrent checkouts of
			// the same item both land, neither overwrites the other
			item, err := s.repos.Catalog.ReserveStock(ctx, tx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}

			unitPrice, err := frozenUnitPrice(item, line)
			if err != nil {
				return err
			}

			subtotal := unitPrice * int64(line.Quantity)

			order.Lines = append(order.Lines, models.OrderLine{
				ItemType:  line.ItemType,
				ItemID:    line.ItemID,
				Name:      item.Name,
				Photo:     item.Photo,
				Variant:   line.Variant,
				UnitPrice: unitPrice,
				Quantity:  line.Quantity,
				Subtotal:  subtotal,
			})

			order.TotalPrice += subtotal
		}

		stage = stageSnapshotting

		if err := s.repos.Order.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		return s.repos.Cart.ClearCart(ctx, tx, cart.ID)
	})

	if txErr != nil {

		metrics.CheckoutFailed(string(stage))

		slog.Error("checkout rolled back",
			slog.String("userId", userID.String()),
			slog.String("stage", string(stage)),
			slog.Any("error", txErr))

		if appErr, ok := appErrors.IsAppError(txErr); ok {
			return nil, appErr
		}

		return nil, appErrors.ConsistencyError("Checkout could not be completed").WithError(txErr)
	}

	metrics.CheckoutCommitted(start)

	slog.Info("checkout committed",
		slog.String("orderId", order.ID.String()),
		slog.String("userId", userID.String()),
		slog.Int64("totalPrice", order.TotalPrice),
		slog.Int("lines", len(order.Lines)),
		slog.String("stage", string(stageCommitted)))

	return order, nil
}

// validateCart rejects a checkout before any counter moves: the cart must
// exist and have lines, every referenced item must still be active, and
// every game line must name an enabled variant.
func (s *checkoutService) validateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.repos.Cart.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.UnavailableError("Cart is empty")
		}
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	if len(cart.Lines) == 0 {
		return nil, appErrors.UnavailableError("Cart is empty")
	}

	for _, line := range cart.Lines {

		item, err := s.repos.Catalog.GetItemByID(ctx, line.ItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.UnavailableError("An item in the cart is no longer available")
			}
			return nil, appErrors.DatabaseError("Failed to fetch cart items").WithError(err)
		}

		if !item.IsActive {
			return nil, appErrors.UnavailableError("An item in the cart is no longer available")
		}

		if item.Kind == models.ItemKindGame {

			if line.Variant == "" {
				return nil, appErrors.ValidationError("A game variant is required at checkout")
			}

			variant, ok := item.Variants.Get(line.Variant)
			if !ok || !variant.Enabled {
				return nil, appErrors.UnavailableError("Selected variant is no longer available")
			}
		}
	}

	return cart, nil
}

// frozenUnitPrice derives the snapshot price from the catalog row as it was
// at reservation time, through the same formula that maintains finalPrice.
func frozenUnitPrice(item *models.CatalogItem, line models.CartLine) (int64, error) {

	if item.Kind == models.ItemKindGame {

		if item.Variants == nil {
			return 0, appErrors.UnavailableError("Selected variant is no longer available")
		}

		variant, ok := item.Variants.Get(line.Variant)
		if !ok || !variant.Enabled {
			return 0, appErrors.UnavailableError("Selected variant is no longer available")
		}

		return pricing.FinalPrice(variant.BasePrice, item.DiscountPercent), nil
	}

	return pricing.FinalPrice(item.BasePrice, item.DiscountPercent), nil
}
