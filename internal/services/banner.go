package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type BannerService interface {
	CreateBanner(ctx context.Context, req *models.CreateBannerRequest) (*models.Banner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, req *models.UpdateBannerRequest) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	ListActiveBanners(ctx context.Context) ([]*models.Banner, error)
	ListAllBanners(ctx context.Context) ([]*models.Banner, error)
}

type bannerService struct {
	repo      *repository.BannerRepository
	sanitizer *bluemonday.Policy
}

func NewBannerService(repo *repository.BannerRepository) BannerService {
	return &bannerService{repo: repo, sanitizer: bluemonday.StrictPolicy()}
}

func (s *bannerService) CreateBanner(ctx context.Context, req *models.CreateBannerRequest) (*models.Banner, error) {

	if !req.EndDate.After(req.StartDate) {
		return nil, appErrors.ValidationError("Banner end date must be after the start date")
	}

	banner := &models.Banner{
		ID:           uuid.New(),
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  s.sanitizer.Sanitize(req.Description),
		Image:        req.Image,
		DiscountText: req.DiscountText,
		Position:     req.Position,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsActive:     true,
	}

	if err := s.repo.CreateBanner(ctx, banner); err != nil {
		return nil, appErrors.DatabaseError("Failed to create banner").WithError(err)
	}

	return banner, nil
}

func (s *bannerService) UpdateBanner(ctx context.Context, id uuid.UUID, req *models.UpdateBannerRequest) (*models.Banner, error) {

	banner, err := s.repo.GetBannerById(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Banner not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch banner").WithError(err)
	}

	if req.Title != nil {
		banner.Title = *req.Title
	}
	if req.Subtitle != nil {
		banner.Subtitle = *req.Subtitle
	}
	if req.Description != nil {
		banner.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Image != nil {
		banner.Image = *req.Image
	}
	if req.DiscountText != nil {
		banner.DiscountText = *req.DiscountText
	}
	if req.Position != nil {
		banner.Position = *req.Position
	}
	if req.StartDate != nil {
		banner.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		banner.EndDate = *req.EndDate
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}

	if !banner.EndDate.After(banner.StartDate) {
		return nil, appErrors.ValidationError("Banner end date must be after the start date")
	}

	if err := s.repo.UpdateBanner(ctx, banner); err != nil {
		return nil, appErrors.DatabaseError("Failed to update banner").WithError(err)
	}

	return banner, nil
}

func (s *bannerService) DeleteBanner(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteBanner(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Banner not found").WithError(err)
		}
		return appErrors.DatabaseError("Failed to delete banner").WithError(err)
	}

	return nil
}

func (s *bannerService) ListActiveBanners(ctx context.Context) ([]*models.Banner, error) {

	banners, err := s.repo.ListActiveBanners(ctx, time.Now())
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch banners").WithError(err)
	}

	return banners, nil
}

func (s *bannerService) ListAllBanners(ctx context.Context) ([]*models.Banner, error) {

	banners, err := s.repo.ListAllBanners(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch banners").WithError(err)
	}

	return banners, nil
}
