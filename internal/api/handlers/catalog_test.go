package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gamedistrict/storefront/internal/api/handlers"
	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/query"
	"github.com/gamedistrict/storefront/internal/testutils"
	"github.com/gamedistrict/storefront/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogServiceMock struct {
	mock.Mock
}

func (m *catalogServiceMock) CreateGame(ctx context.Context, req *models.CreateGameRequest) (*models.CatalogItem, error) {
	args := m.Called(ctx, req)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) UpdateGame(ctx context.Context, id uuid.UUID, req *models.UpdateGameRequest) (*models.CatalogItem, error) {
	args := m.Called(ctx, id, req)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) CreateDevice(ctx context.Context, req *models.CreateDeviceRequest) (*models.CatalogItem, error) {
	args := m.Called(ctx, req)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) UpdateDevice(ctx context.Context, id uuid.UUID, req *models.UpdateDeviceRequest) (*models.CatalogItem, error) {
	args := m.Called(ctx, id, req)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	args := m.Called(ctx, id)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error) {
	args := m.Called(ctx, kind, slug)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) ListItems(ctx context.Context, kind models.ItemKind, params url.Values, activeOnly bool) ([]*models.CatalogItem, *query.Query, error) {
	args := m.Called(ctx, kind, params, activeOnly)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Get(1).(*query.Query), args.Error(2)
	}

	return nil, nil, args.Error(2)
}

func (m *catalogServiceMock) ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) ListOffers(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) ListBestSellers(ctx context.Context, kind models.ItemKind, params url.Values) ([]*models.CatalogItem, *query.Query, error) {
	args := m.Called(ctx, kind, params)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Get(1).(*query.Query), args.Error(2)
	}

	return nil, nil, args.Error(2)
}

func (m *catalogServiceMock) ToggleActive(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	args := m.Called(ctx, id)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) ToggleFeatured(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	args := m.Called(ctx, id)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *catalogServiceMock) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func TestListItems(t *testing.T) {

	defaultQuery := &query.Query{Page: 1, Limit: query.DefaultLimit}

	t.Run("public listing only sees active items", func(t *testing.T) {
		// Arrange
		svc := new(catalogServiceMock)
		handler := handlers.NewCatalogHandler(svc)

		svc.On("ListItems", mock.Anything, models.ItemKindGame, mock.Anything, true).
			Return([]*models.CatalogItem{{Name: "Active Game", IsActive: true}}, defaultQuery, nil)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/games", nil, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.ListItems(models.ItemKindGame).ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("a customer token does not widen the listing", func(t *testing.T) {
		// Arrange
		svc := new(catalogServiceMock)
		handler := handlers.NewCatalogHandler(svc)

		svc.On("ListItems", mock.Anything, models.ItemKindGame, mock.Anything, true).
			Return([]*models.CatalogItem{}, defaultQuery, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/games", nil, uuid.New(), models.RoleCustomer, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.ListItems(models.ItemKindGame).ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("administrator listing includes inactive items", func(t *testing.T) {
		// Arrange
		svc := new(catalogServiceMock)
		handler := handlers.NewCatalogHandler(svc)

		svc.On("ListItems", mock.Anything, models.ItemKindDevice, mock.Anything, false).
			Return([]*models.CatalogItem{
				{Name: "Live Device", IsActive: true},
				{Name: "Retired Device", IsActive: false},
			}, defaultQuery, nil)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/admin/devices", nil, uuid.New(), models.RoleAdmin, nil)
		rec := httptest.NewRecorder()

		// Act
		handler.ListItems(models.ItemKindDevice).ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp response.APIResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, resp.Success)
		svc.AssertExpectations(t)
	})
}
