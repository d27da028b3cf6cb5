package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gamedistrict/storefront/internal/api/middleware"
	"github.com/gamedistrict/storefront/internal/models"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/gamedistrict/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type BannerHandler struct {
	bannerService service.BannerService
	validator     *validator.Validate
}

func NewBannerHandler(bannerService service.BannerService) *BannerHandler {
	return &BannerHandler{bannerService: bannerService, validator: validator.New()}
}

// ListActive is the public storefront endpoint: only banners whose display
// window contains now.
func (h *BannerHandler) ListActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		banners, err := h.bannerService.ListActiveBanners(r.Context())
		if err != nil {
			logger.Error("Failed to list banners", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, banners)
	}
}

func (h *BannerHandler) ListAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		banners, err := h.bannerService.ListAllBanners(r.Context())
		if err != nil {
			logger.Error("Failed to list banners", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, banners)
	}
}

func (h *BannerHandler) CreateBanner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateBannerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create banner input")
			return
		}

		banner, err := h.bannerService.CreateBanner(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create banner", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Banner created successfully", slog.String("bannerId", banner.ID.String()))
		response.Success(w, http.StatusCreated, banner)
	}
}

func (h *BannerHandler) UpdateBanner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateBannerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update banner input")
			return
		}

		banner, err := h.bannerService.UpdateBanner(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update banner", slog.String("bannerId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Banner updated successfully", slog.String("bannerId", id.String()))
		response.Success(w, http.StatusOK, banner)
	}
}

func (h *BannerHandler) DeleteBanner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.bannerService.DeleteBanner(r.Context(), id); err != nil {
			logger.Error("Failed to delete banner", slog.String("bannerId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Banner deleted", slog.String("bannerId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"id": id.String()})
	}
}
