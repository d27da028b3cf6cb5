package mocks

import (
	"context"
	"time"

	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/query"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func (m *CatalogRepository) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *CatalogRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	args := m.Called(ctx, id)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error) {
	args := m.Called(ctx, kind, slug)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) UpdateItem(ctx context.Context, item *models.CatalogItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *CatalogRepository) ListItems(ctx context.Context, kind models.ItemKind, activeOnly bool, q *query.Query) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind, activeOnly, q)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) ListOffers(ctx context.Context, kind models.ItemKind, now time.Time) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind, now)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) ListBestSellers(ctx context.Context, kind models.ItemKind, q *query.Query) ([]*models.CatalogItem, error) {
	args := m.Called(ctx, kind, q)

	if items, ok := args.Get(0).([]*models.CatalogItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *CatalogRepository) ReserveStock(ctx context.Context, db repository.DBTX, id uuid.UUID, quantity int) (*models.CatalogItem, error) {
	args := m.Called(ctx, db, id, quantity)

	if item, ok := args.Get(0).(*models.CatalogItem); ok {
		return item, args.Error(1)
	}

	return nil, args.Error(1)
}
