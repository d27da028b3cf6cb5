package service_test

import (
	"database/sql"
	"testing"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/repositories/mocks"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeGame(id uuid.UUID) *models.CatalogItem {
	return &models.CatalogItem{
		ID:       id,
		Kind:     models.ItemKindGame,
		Name:     "Space Saga",
		IsActive: true,
		Variants: &models.GameVariants{
			Primary:   models.PriceVariant{Enabled: true, BasePrice: 100, FinalPrice: 80},
			Secondary: models.PriceVariant{Enabled: false},
		},
	}
}

func TestAddLine(t *testing.T) {
	ctx := t.Context()
	userID := uuid.New()

	newService := func() (service.CartService, *mocks.CartRepository, *mocks.CatalogRepository) {
		cartRepo := new(mocks.CartRepository)
		catalogRepo := new(mocks.CatalogRepository)

		return service.NewCartService(cartRepo, catalogRepo), cartRepo, catalogRepo
	}

	t.Run("Success - matching line is merged, not duplicated", func(t *testing.T) {
		// Arrange
		svc, cartRepo, catalogRepo := newService()

		itemID := uuid.New()
		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindGame, ItemID: itemID, Variant: models.VariantPrimary, Quantity: 2},
			},
		}

		catalogRepo.On("GetItemByID", ctx, itemID).Return(activeGame(itemID), nil)
		cartRepo.On("GetCartByUserID", ctx, userID).Return(existing, nil)
		cartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

		// Act
		cart, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantPrimary,
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Success - same game under a different variant is its own line", func(t *testing.T) {
		// Arrange
		svc, cartRepo, catalogRepo := newService()

		itemID := uuid.New()
		game := activeGame(itemID)
		game.Variants.Secondary = models.PriceVariant{Enabled: true, BasePrice: 60, FinalPrice: 60}

		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindGame, ItemID: itemID, Variant: models.VariantPrimary, Quantity: 1},
			},
		}

		catalogRepo.On("GetItemByID", ctx, itemID).Return(game, nil)
		cartRepo.On("GetCartByUserID", ctx, userID).Return(existing, nil)
		cartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

		// Act
		cart, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantSecondary,
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Lines, 2)
		assert.Equal(t, 1, cart.Lines[1].Quantity)
	})

	t.Run("Success - first add creates the cart lazily", func(t *testing.T) {
		// Arrange
		svc, cartRepo, catalogRepo := newService()

		itemID := uuid.New()
		catalogRepo.On("GetItemByID", ctx, itemID).Return(activeGame(itemID), nil)
		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows)
		cartRepo.On("CreateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)
		cartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

		// Act
		cart, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantPrimary,
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, userID, cart.UserID)
		require.Len(t, cart.Lines, 1)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - kind mismatch reads as not found", func(t *testing.T) {
		// Arrange
		svc, cartRepo, catalogRepo := newService()

		itemID := uuid.New()
		catalogRepo.On("GetItemByID", ctx, itemID).Return(activeGame(itemID), nil)

		// Act
		cart, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindDevice,
		})

		// Assert
		require.Error(t, err)
		assert.Nil(t, cart)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - inactive item cannot be added", func(t *testing.T) {
		// Arrange
		svc, _, catalogRepo := newService()

		itemID := uuid.New()
		game := activeGame(itemID)
		game.IsActive = false

		catalogRepo.On("GetItemByID", ctx, itemID).Return(game, nil)

		// Act
		_, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantPrimary,
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnavailable, appErr.Code)
	})

	t.Run("Failure - disabled variant cannot be added", func(t *testing.T) {
		// Arrange
		svc, _, catalogRepo := newService()

		itemID := uuid.New()
		catalogRepo.On("GetItemByID", ctx, itemID).Return(activeGame(itemID), nil)

		// Act
		_, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantSecondary,
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeUnavailable, appErr.Code)
	})

	t.Run("Failure - devices do not have variants", func(t *testing.T) {
		// Arrange
		svc, _, catalogRepo := newService()

		itemID := uuid.New()
		device := &models.CatalogItem{ID: itemID, Kind: models.ItemKindDevice, IsActive: true, FinalPrice: 50}

		catalogRepo.On("GetItemByID", ctx, itemID).Return(device, nil)

		// Act
		_, err := svc.AddLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindDevice, Variant: models.VariantPrimary,
		})

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
	})
}

func TestRemoveLine(t *testing.T) {
	ctx := t.Context()
	userID := uuid.New()

	newService := func() (service.CartService, *mocks.CartRepository) {
		cartRepo := new(mocks.CartRepository)

		return service.NewCartService(cartRepo, new(mocks.CatalogRepository)), cartRepo
	}

	t.Run("Success - quantity above one is decremented", func(t *testing.T) {
		// Arrange
		svc, cartRepo := newService()

		itemID := uuid.New()
		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindGame, ItemID: itemID, Variant: models.VariantPrimary, Quantity: 2},
			},
		}

		cartRepo.On("GetCartByUserID", ctx, userID).Return(existing, nil)
		cartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

		// Act
		cart, err := svc.RemoveLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindGame, Variant: models.VariantPrimary,
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, 1, cart.Lines[0].Quantity)
	})

	t.Run("Success - last unit removes the line", func(t *testing.T) {
		// Arrange
		svc, cartRepo := newService()

		itemID := uuid.New()
		existing := &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindDevice, ItemID: itemID, Quantity: 1},
			},
		}

		cartRepo.On("GetCartByUserID", ctx, userID).Return(existing, nil)
		cartRepo.On("UpdateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(nil)

		// Act
		cart, err := svc.RemoveLine(ctx, userID, &models.CartLineRequest{
			ItemID: itemID, ItemType: models.ItemKindDevice,
		})

		// Assert
		require.NoError(t, err)
		assert.Empty(t, cart.Lines)
	})

	t.Run("Failure - line not in the cart", func(t *testing.T) {
		// Arrange
		svc, cartRepo := newService()

		cartRepo.On("GetCartByUserID", ctx, userID).Return(&models.Cart{ID: uuid.New(), UserID: userID}, nil)

		// Act
		cart, err := svc.RemoveLine(ctx, userID, &models.CartLineRequest{
			ItemID: uuid.New(), ItemType: models.ItemKindGame, Variant: models.VariantPrimary,
		})

		// Assert
		require.Error(t, err)
		assert.Nil(t, cart)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})
}

func TestViewCart(t *testing.T) {
	ctx := t.Context()
	userID := uuid.New()

	t.Run("Success - lines are priced at current catalog prices", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		catalogRepo := new(mocks.CatalogRepository)
		svc := service.NewCartService(cartRepo, catalogRepo)

		gameID := uuid.New()
		deviceID := uuid.New()

		cartRepo.On("GetCartByUserID", ctx, userID).Return(&models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindGame, ItemID: gameID, Variant: models.VariantPrimary, Quantity: 2},
				{ItemType: models.ItemKindDevice, ItemID: deviceID, Quantity: 1},
			},
		}, nil)

		catalogRepo.On("GetItemByID", ctx, gameID).Return(activeGame(gameID), nil)
		catalogRepo.On("GetItemByID", ctx, deviceID).Return(&models.CatalogItem{
			ID: deviceID, Kind: models.ItemKindDevice, IsActive: true, FinalPrice: 50,
		}, nil)

		// Act
		view, err := svc.ViewCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Lines, 2)
		assert.Equal(t, int64(80), view.Lines[0].UnitPrice)
		assert.Equal(t, int64(160), view.Lines[0].Subtotal)
		assert.Equal(t, int64(50), view.Lines[1].UnitPrice)
		assert.Equal(t, int64(210), view.TotalPrice)
	})

	t.Run("Success - user without a cart sees an empty one", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		svc := service.NewCartService(cartRepo, new(mocks.CatalogRepository))

		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows)

		// Act
		view, err := svc.ViewCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.Zero(t, view.TotalPrice)
	})

	t.Run("Success - a vanished item is skipped, not fatal", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		catalogRepo := new(mocks.CatalogRepository)
		svc := service.NewCartService(cartRepo, catalogRepo)

		goneID := uuid.New()
		deviceID := uuid.New()

		cartRepo.On("GetCartByUserID", ctx, userID).Return(&models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Lines: []models.CartLine{
				{ItemType: models.ItemKindGame, ItemID: goneID, Variant: models.VariantPrimary, Quantity: 1},
				{ItemType: models.ItemKindDevice, ItemID: deviceID, Quantity: 1},
			},
		}, nil)

		catalogRepo.On("GetItemByID", ctx, goneID).Return(nil, sql.ErrNoRows)
		catalogRepo.On("GetItemByID", ctx, deviceID).Return(&models.CatalogItem{
			ID: deviceID, Kind: models.ItemKindDevice, IsActive: true, FinalPrice: 50,
		}, nil)

		// Act
		view, err := svc.ViewCart(ctx, userID)

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, int64(50), view.TotalPrice)
	})
}
