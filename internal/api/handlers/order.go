package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamedistrict/storefront/internal/api/middleware"
	"github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/gamedistrict/storefront/internal/utils"
	"github.com/gamedistrict/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	checkoutService     service.CheckoutService
	orderService        service.OrderService
	userService         *service.UserService
	notificationService service.NotificationService
	validator           *validator.Validate
}

func NewOrderHandler(
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	userService *service.UserService,
	notificationService service.NotificationService,
) *OrderHandler {
	return &OrderHandler{
		checkoutService:     checkoutService,
		orderService:        orderService,
		userService:         userService,
		notificationService: notificationService,
		validator:           validator.New(),
	}
}

// Checkout converts the authenticated user's cart into an order. The
// confirmation email is best effort and never blocks the response.
func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		order, err := h.checkoutService.Checkout(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order created successfully", slog.String("orderId", order.ID.String()))

		if h.notificationService != nil {
			go h.sendConfirmation(context.WithoutCancel(r.Context()), claims, order)
		}

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) sendConfirmation(ctx context.Context, claims *models.Claims, order *models.Order) {

	user, err := h.userService.GetUserByID(ctx, claims.UserID)
	if err != nil {
		slog.Warn("Skipping order confirmation email",
			slog.String("orderId", order.ID.String()),
			slog.Any("error", err))
		return
	}

	if err := h.notificationService.SendOrderConfirmation(ctx, user, order); err != nil {
		slog.Warn("Failed to send order confirmation email",
			slog.String("orderId", order.ID.String()),
			slog.Any("error", err))
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), id, claims)
		if err != nil {
			logger.Error("Failed to get order",
				slog.String("orderId", id.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

func (h *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		page, size := parsePagination(r)

		orders, total, err := h.orderService.ListMyOrders(r.Context(), claims.UserID, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

// ListAllOrders is the administrator view, optionally filtered by
// ?status=pending|confirmed|cancelled.
func (h *OrderHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		status := models.OrderStatus(r.URL.Query().Get("status"))

		switch status {
		case "", models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusCancelled:
		default:
			response.Error(w, errors.BadRequestError("Unknown order status"))
			return
		}

		page, size := parsePagination(r)

		orders, total, err := h.orderService.ListAllOrders(r.Context(), status, page, size)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: size,
		})
	}
}

func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid order status input")
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status",
				slog.String("orderId", id.String()),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", id.String()),
			slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}

func parsePagination(r *http.Request) (int, int) {

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if size < 1 || size > 100 {
		size = 10
	}

	return page, size
}
