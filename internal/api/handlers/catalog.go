package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gamedistrict/storefront/internal/api/middleware"
	"github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/internal/query"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/gamedistrict/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, validator: validator.New()}
}

func (h *CatalogHandler) CreateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateGameRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create game input")
			return
		}

		item, err := h.catalogService.CreateGame(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create game", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Game created successfully", slog.String("itemId", item.ID.String()))
		response.Success(w, http.StatusCreated, item)
	}
}

func (h *CatalogHandler) UpdateGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateGameRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update game input")
			return
		}

		item, err := h.catalogService.UpdateGame(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update game", slog.String("itemId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Game updated successfully", slog.String("itemId", item.ID.String()))
		response.Success(w, http.StatusOK, item)
	}
}

func (h *CatalogHandler) CreateDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateDeviceRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create device input")
			return
		}

		item, err := h.catalogService.CreateDevice(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create device", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Device created successfully", slog.String("itemId", item.ID.String()))
		response.Success(w, http.StatusCreated, item)
	}
}

func (h *CatalogHandler) UpdateDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateDeviceRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update device input")
			return
		}

		item, err := h.catalogService.UpdateDevice(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update device", slog.String("itemId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Device updated successfully", slog.String("itemId", item.ID.String()))
		response.Success(w, http.StatusOK, item)
	}
}

// ListItems serves the public catalog listing with filtering, sorting,
// pagination and field selection. Administrators additionally see inactive
// items.
func (h *CatalogHandler) ListItems(kind models.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		activeOnly := true
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok && claims.IsAdmin() {
			activeOnly = false
		}

		items, q, err := h.catalogService.ListItems(r.Context(), kind, r.URL.Query(), activeOnly)
		if err != nil {
			logger.Error("Failed to list items", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		h.writeItemList(w, logger, items, q.Fields, q.Page, q.Limit)
	}
}

func (h *CatalogHandler) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		item, err := h.catalogService.GetItemByID(r.Context(), id)
		if err != nil {
			logger.Warn("Item not found", slog.String("itemId", id.String()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

func (h *CatalogHandler) GetItemBySlug(kind models.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		slug := r.PathValue("slug")
		if slug == "" {
			response.Error(w, errors.BadRequestError("Missing slug parameter"))
			return
		}

		item, err := h.catalogService.GetItemBySlug(r.Context(), kind, slug)
		if err != nil {
			logger.Warn("Item not found", slog.String("slug", slug))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

func (h *CatalogHandler) ListFeatured(kind models.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		items, err := h.catalogService.ListFeatured(r.Context(), kind)
		if err != nil {
			logger.Error("Failed to list featured items", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

func (h *CatalogHandler) ListOffers(kind models.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		items, err := h.catalogService.ListOffers(r.Context(), kind)
		if err != nil {
			logger.Error("Failed to list offers", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

func (h *CatalogHandler) ListBestSellers(kind models.ItemKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		items, q, err := h.catalogService.ListBestSellers(r.Context(), kind, r.URL.Query())
		if err != nil {
			logger.Error("Failed to list best sellers", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		h.writeItemList(w, logger, items, q.Fields, q.Page, q.Limit)
	}
}

func (h *CatalogHandler) ToggleActive() http.HandlerFunc {
	return h.toggle("active", h.catalogService.ToggleActive)
}

func (h *CatalogHandler) ToggleFeatured() http.HandlerFunc {
	return h.toggle("featured", h.catalogService.ToggleFeatured)
}

func (h *CatalogHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.catalogService.DeactivateItem(r.Context(), id); err != nil {
			logger.Error("Failed to delete item", slog.String("itemId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item deactivated", slog.String("itemId", id.String()))
		response.Success(w, http.StatusOK, map[string]string{"id": id.String()})
	}
}

type toggleFunc func(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)

func (h *CatalogHandler) toggle(name string, fn toggleFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		item, err := fn(r.Context(), id)
		if err != nil {
			logger.Error("Failed to toggle "+name, slog.String("itemId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item toggled", slog.String("itemId", id.String()), slog.String("flag", name))
		response.Success(w, http.StatusOK, item)
	}
}

func (h *CatalogHandler) writeItemList(w http.ResponseWriter, logger *slog.Logger, items []*models.CatalogItem, fields []string, page, limit int) {

	var data any = items

	if len(fields) > 0 {

		projected, err := query.ProjectList(items, fields)
		if err != nil {
			logger.Error("Failed to project items", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		data = projected
	}

	response.Success(w, http.StatusOK, models.PaginatedResponse{
		Data:     data,
		Total:    len(items),
		Page:     page,
		PageSize: limit,
	})
}
