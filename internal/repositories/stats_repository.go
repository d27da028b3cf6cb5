package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/utils"
)

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) CountEntities(ctx context.Context) (*models.AdminStats, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	stats := &models.AdminStats{}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM catalog_items WHERE kind = 'game'),
			(SELECT COUNT(*) FROM catalog_items WHERE kind = 'device'),
			(SELECT COUNT(*) FROM orders)
	`

	err := r.DB.QueryRowContext(dbCtx, query).
		Scan(&stats.Users, &stats.Games, &stats.Devices, &stats.Orders)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	return stats, nil
}

// DailyOrderStats groups orders of the current month by day of month.
func (r *StatsRepository) DailyOrderStats(ctx context.Context) ([]models.DailyOrderStat, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXTRACT(DAY FROM created_at)::int AS day, COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE date_trunc('month', created_at) = date_trunc('month', NOW())
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	defer rows.Close()

	var stats []models.DailyOrderStat

	for rows.Next() {

		var day int
		var stat models.DailyOrderStat

		if err := rows.Scan(&day, &stat.Orders, &stat.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan order stats: %w", err)
		}

		stat.Day = fmt.Sprintf("Day %d", day)

		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
