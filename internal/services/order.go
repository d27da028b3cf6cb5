package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
)

type OrderService interface {
	GetOrder(ctx context.Context, id uuid.UUID, claims *models.Claims) (*models.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListAllOrders(ctx context.Context, status models.OrderStatus, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	repo *repository.OrderRepository
}

func NewOrderService(repo *repository.OrderRepository) OrderService {
	return &orderService{repo: repo}
}

// GetOrder returns the order only to its owner or an administrator.
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID, claims *models.Claims) (*models.Order, error) {

	order, err := s.repo.GetOrderById(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if order.UserID != claims.UserID && !claims.IsAdmin() {
		return nil, appErrors.ForbiddenError("You do not have access to this order")
	}

	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, total, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, status models.OrderStatus, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.repo.ListAllOrders(ctx, status, page, size)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderStatus enforces the status transition rules: an order only
// moves forward, never back to pending.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	order, err := s.repo.GetOrderById(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, appErrors.BadRequestError(
			fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = status

	return order, nil
}
