package service

import (
	"context"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
)

type StatsService interface {
	Summary(ctx context.Context) (*models.AdminStats, error)
	DailyOrders(ctx context.Context) ([]models.DailyOrderStat, error)
}

type statsService struct {
	repo *repository.StatsRepository
}

func NewStatsService(repo *repository.StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) Summary(ctx context.Context) (*models.AdminStats, error) {

	stats, err := s.repo.CountEntities(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to compute stats").WithError(err)
	}

	return stats, nil
}

func (s *statsService) DailyOrders(ctx context.Context) ([]models.DailyOrderStat, error) {

	stats, err := s.repo.DailyOrderStats(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to compute order stats").WithError(err)
	}

	return stats, nil
}
