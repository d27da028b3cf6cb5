package service_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	appErrors "github.com/gamedistrict/storefront/internal/errors"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	service "github.com/gamedistrict/storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRows(userID uuid.UUID, status string) *sqlmock.Rows {
	now := time.Now()

	return sqlmock.NewRows([]string{"user_id", "status", "total_price", "created_at", "updated_at"}).
		AddRow(userID, status, int64(160), now, now)
}

func orderLineRows(itemID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"item_type", "item_id", "name", "photo", "variant", "unit_price", "quantity", "subtotal"}).
		AddRow("game", itemID, "Game", "photo.jpg", "primary", int64(80), 2, int64(160))
}

func TestOrderService(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	svc := service.NewOrderService(repository.NewOrderRepository(db))
	ctx := t.Context()

	expectGetOrder := func(orderID, userID uuid.UUID, status string) {
		mock.ExpectQuery(`SELECT user_id, status, total_price, created_at, updated_at\s+FROM orders\s+WHERE id = \$1`).
			WithArgs(orderID).
			WillReturnRows(orderRows(userID, status))
		mock.ExpectQuery(`SELECT item_type, item_id, name, photo, variant, unit_price, quantity, subtotal\s+FROM order_lines`).
			WithArgs(orderID).
			WillReturnRows(orderLineRows(uuid.New()))
	}

	t.Run("GetOrder", func(t *testing.T) {
		t.Run("owner can read their own order", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			userID := uuid.New()
			expectGetOrder(orderID, userID, "pending")

			claims := &models.Claims{UserID: userID, Role: models.RoleCustomer}

			// Act
			order, err := svc.GetOrder(ctx, orderID, claims)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, userID, order.UserID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("another customer is forbidden", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			expectGetOrder(orderID, uuid.New(), "pending")

			claims := &models.Claims{UserID: uuid.New(), Role: models.RoleCustomer}

			// Act
			order, err := svc.GetOrder(ctx, orderID, claims)

			// Assert
			require.Error(t, err)
			assert.Nil(t, order)

			appErr, ok := appErrors.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeForbidden, appErr.Code)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("an administrator can read any order", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			expectGetOrder(orderID, uuid.New(), "pending")

			claims := &models.Claims{UserID: uuid.New(), Role: models.RoleAdmin}

			// Act
			order, err := svc.GetOrder(ctx, orderID, claims)

			// Assert
			require.NoError(t, err)
			assert.NotNil(t, order)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		t.Run("pending order can be confirmed", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			expectGetOrder(orderID, uuid.New(), "pending")

			mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			order, err := svc.UpdateOrderStatus(ctx, orderID, models.OrderStatusConfirmed)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusConfirmed, order.Status)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("confirmed order never reopens to pending", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			expectGetOrder(orderID, uuid.New(), "confirmed")

			// Act
			order, err := svc.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending)

			// Assert
			require.Error(t, err)
			assert.Nil(t, order)

			appErr, ok := appErrors.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
			require.NoError(t, mock.ExpectationsWereMet(), "no UPDATE may be issued for a rejected transition")
		})

		t.Run("cancelled order is terminal", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			expectGetOrder(orderID, uuid.New(), "cancelled")

			// Act
			order, err := svc.UpdateOrderStatus(ctx, orderID, models.OrderStatusConfirmed)

			// Assert
			require.Error(t, err)
			assert.Nil(t, order)

			appErr, ok := appErrors.IsAppError(err)
			require.True(t, ok)
			assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
