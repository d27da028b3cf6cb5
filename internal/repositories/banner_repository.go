package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/google/uuid"
)

type BannerRepository struct {
	DB *sql.DB
}

func NewBannerRepo(db *sql.DB) *BannerRepository {
	return &BannerRepository{DB: db}
}

const bannerColumns = `id, title, subtitle, description, image, discount_text, position,
		start_date, end_date, is_active, created_at, updated_at`

func scanBanner(row rowScanner) (*models.Banner, error) {

	banner := &models.Banner{}

	err := row.Scan(&banner.ID, &banner.Title, &banner.Subtitle, &banner.Description,
		&banner.Image, &banner.DiscountText, &banner.Position,
		&banner.StartDate, &banner.EndDate, &banner.IsActive,
		&banner.CreatedAt, &banner.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return banner, nil
}

func (r *BannerRepository) CreateBanner(ctx context.Context, banner *models.Banner) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO banners (id, title, subtitle, description, image, discount_text, position,
			start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, banner.ID, banner.Title, banner.Subtitle,
		banner.Description, banner.Image, banner.DiscountText, banner.Position,
		banner.StartDate, banner.EndDate, banner.IsActive).
		Scan(&banner.CreatedAt, &banner.UpdatedAt)
}

func (r *BannerRepository) GetBannerById(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bannerColumns + ` FROM banners WHERE id = $1`

	banner, err := scanBanner(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return banner, nil
}

func (r *BannerRepository) UpdateBanner(ctx context.Context, banner *models.Banner) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE banners
		SET title = $1, subtitle = $2, description = $3, image = $4, discount_text = $5,
			position = $6, start_date = $7, end_date = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, banner.Title, banner.Subtitle, banner.Description,
		banner.Image, banner.DiscountText, banner.Position, banner.StartDate, banner.EndDate,
		banner.IsActive, banner.ID).Scan(&banner.UpdatedAt)
}

func (r *BannerRepository) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListActiveBanners returns banners whose display window contains now,
// ordered by position.
func (r *BannerRepository) ListActiveBanners(ctx context.Context, now time.Time) ([]*models.Banner, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bannerColumns + ` FROM banners
		WHERE is_active = TRUE AND start_date <= $1 AND end_date >= $1
		ORDER BY position`

	return r.queryBanners(dbCtx, query, now)
}

func (r *BannerRepository) ListAllBanners(ctx context.Context) ([]*models.Banner, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + bannerColumns + ` FROM banners ORDER BY position`

	return r.queryBanners(dbCtx, query)
}

func (r *BannerRepository) queryBanners(ctx context.Context, query string, args ...any) ([]*models.Banner, error) {

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	var banners []*models.Banner

	for rows.Next() {
		banner, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}

		banners = append(banners, banner)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return banners, nil
}
