package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/query"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/google/uuid"
)

type CatalogRepository interface {
	CreateItem(ctx context.Context, item *models.CatalogItem) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error)
	UpdateItem(ctx context.Context, item *models.CatalogItem) error
	ListItems(ctx context.Context, kind models.ItemKind, activeOnly bool, q *query.Query) ([]*models.CatalogItem, error)
	ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error)
	ListOffers(ctx context.Context, kind models.ItemKind, now time.Time) ([]*models.CatalogItem, error)
	ListBestSellers(ctx context.Context, kind models.ItemKind, q *query.Query) ([]*models.CatalogItem, error)
	ReserveStock(ctx context.Context, db DBTX, id uuid.UUID, quantity int) (*models.CatalogItem, error)
}

type catalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepo(db *sql.DB) CatalogRepository {
	return &catalogRepository{DB: db}
}

const itemColumns = `id, kind, name, slug, description, platform, category, condition, photo,
		base_price, final_price, variants, discount_percent, offer_start, offer_end,
		stock, sold, rating, is_active, is_featured, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.CatalogItem, error) {

	item := &models.CatalogItem{}

	var variantsJSON []byte
	var offerStart, offerEnd sql.NullTime

	err := row.Scan(&item.ID, &item.Kind, &item.Name, &item.Slug, &item.Description,
		&item.Platform, &item.Category, &item.Condition, &item.Photo,
		&item.BasePrice, &item.FinalPrice, &variantsJSON, &item.DiscountPercent,
		&offerStart, &offerEnd, &item.Stock, &item.Sold, &item.Rating,
		&item.IsActive, &item.IsFeatured, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if offerStart.Valid {
		item.OfferStart = &offerStart.Time
	}

	if offerEnd.Valid {
		item.OfferEnd = &offerEnd.Time
	}

	if len(variantsJSON) > 0 {
		variants := &models.GameVariants{}
		if err := json.Unmarshal(variantsJSON, variants); err != nil {
			return nil, fmt.Errorf("failed to unmarshal variants: %w", err)
		}

		item.Variants = variants
	}

	return item, nil
}

func marshalVariants(item *models.CatalogItem) (any, error) {

	if item.Variants == nil {
		return nil, nil
	}

	variantsJSON, err := json.Marshal(item.Variants)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal variants: %w", err)
	}

	return variantsJSON, nil
}

func (r *catalogRepository) CreateItem(ctx context.Context, item *models.CatalogItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	variantsJSON, err := marshalVariants(item)
	if err != nil {
		return err
	}

	q := `
		INSERT INTO catalog_items (id, kind, name, slug, description, platform, category, condition, photo,
			base_price, final_price, variants, discount_percent, offer_start, offer_end,
			stock, sold, rating, is_active, is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, q,
		item.ID, item.Kind, item.Name, item.Slug, item.Description,
		item.Platform, item.Category, item.Condition, item.Photo,
		item.BasePrice, item.FinalPrice, variantsJSON, item.DiscountPercent,
		item.OfferStart, item.OfferEnd, item.Stock, item.Sold, item.Rating,
		item.IsActive, item.IsFeatured).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *catalogRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	q := `SELECT ` + itemColumns + ` FROM catalog_items WHERE id = $1`

	item, err := scanItem(r.DB.QueryRowContext(dbCtx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return item, nil
}

func (r *catalogRepository) GetItemBySlug(ctx context.Context, kind models.ItemKind, slug string) (*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	q := `SELECT ` + itemColumns + ` FROM catalog_items WHERE kind = $1 AND slug = $2 AND is_active = TRUE`

	item, err := scanItem(r.DB.QueryRowContext(dbCtx, q, kind, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return item, nil
}

func (r *catalogRepository) UpdateItem(ctx context.Context, item *models.CatalogItem) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	variantsJSON, err := marshalVariants(item)
	if err != nil {
		return err
	}

	// sold and stock are deliberately absent: checkout owns those counters.
	q := `
		UPDATE catalog_items
		SET name = $1, slug = $2, description = $3, platform = $4, category = $5, condition = $6,
			photo = $7, base_price = $8, final_price = $9, variants = $10, discount_percent = $11,
			offer_start = $12, offer_end = $13, rating = $14, is_active = $15, is_featured = $16,
			updated_at = NOW()
		WHERE id = $17
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, q,
		item.Name, item.Slug, item.Description, item.Platform, item.Category, item.Condition,
		item.Photo, item.BasePrice, item.FinalPrice, variantsJSON, item.DiscountPercent,
		item.OfferStart, item.OfferEnd, item.Rating, item.IsActive, item.IsFeatured,
		item.ID).Scan(&item.UpdatedAt)
}

func (r *catalogRepository) ListItems(ctx context.Context, kind models.ItemKind, activeOnly bool, q *query.Query) ([]*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	base := `SELECT ` + itemColumns + ` FROM catalog_items WHERE kind = $1`
	if activeOnly {
		base += ` AND is_active = TRUE`
	}

	where, args := q.WhereClause(2)

	stmt := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d",
		base, where, q.OrderBy("created_at DESC"), q.Limit, q.Offset())

	allArgs := append([]any{kind}, args...)

	return r.queryItems(dbCtx, stmt, allArgs...)
}

func (r *catalogRepository) ListFeatured(ctx context.Context, kind models.ItemKind) ([]*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	q := `SELECT ` + itemColumns + ` FROM catalog_items
		WHERE kind = $1 AND is_featured = TRUE AND is_active = TRUE
		ORDER BY created_at DESC`

	return r.queryItems(dbCtx, q, kind)
}

func (r *catalogRepository) ListOffers(ctx context.Context, kind models.ItemKind, now time.Time) ([]*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// a discount with no window is always on offer
	q := `SELECT ` + itemColumns + ` FROM catalog_items
		WHERE kind = $1 AND is_active = TRUE AND discount_percent > 0
			AND ((offer_start IS NULL AND offer_end IS NULL) OR (offer_start <= $2 AND offer_end >= $2))
		ORDER BY created_at DESC`

	return r.queryItems(dbCtx, q, kind, now)
}

func (r *catalogRepository) ListBestSellers(ctx context.Context, kind models.ItemKind, q *query.Query) ([]*models.CatalogItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := q.WhereClause(2)

	stmt := fmt.Sprintf(`SELECT %s FROM catalog_items
		WHERE kind = $1 AND is_active = TRUE AND sold > 0%s
		ORDER BY %s LIMIT %d OFFSET %d`,
		itemColumns, where, q.OrderBy("sold DESC"), q.Limit, q.Offset())

	allArgs := append([]any{kind}, args...)

	return r.queryItems(dbCtx, stmt, allArgs...)
}

// ReserveStock applies one checkout line to the item's counters in a single
// atomic statement: sold always grows by quantity, stock floors at zero
// (backorder-tolerant). The row lock it takes serializes concurrent
// checkouts of the same item for the rest of the transaction.
func (r *catalogRepository) ReserveStock(ctx context.Context, db DBTX, id uuid.UUID, quantity int) (*models.CatalogItem, error) {

	q := `
		UPDATE catalog_items
		SET sold = sold + $1, stock = GREATEST(stock - $1, 0), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + itemColumns

	item, err := scanItem(db.QueryRowContext(ctx, q, quantity, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	return item, nil
}

func (r *catalogRepository) queryItems(ctx context.Context, stmt string, args ...any) ([]*models.CatalogItem, error) {

	rows, err := r.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	var items []*models.CatalogItem

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
