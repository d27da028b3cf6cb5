package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gamedistrict/storefront/internal/models"
	repository "github.com/gamedistrict/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepository(db)
	ctx := t.Context()

	t.Run("CreateOrder", func(t *testing.T) {
		t.Run("inserts the order and one row per line", func(t *testing.T) {
			// Arrange
			order := &models.Order{
				ID:         uuid.New(),
				UserID:     uuid.New(),
				Status:     models.OrderStatusPending,
				TotalPrice: 210,
				Lines: []models.OrderLine{
					{ItemType: models.ItemKindGame, ItemID: uuid.New(), Name: "Game", Variant: models.VariantPrimary, UnitPrice: 80, Quantity: 2, Subtotal: 160},
					{ItemType: models.ItemKindDevice, ItemID: uuid.New(), Name: "Pad", UnitPrice: 50, Quantity: 1, Subtotal: 50},
				},
			}
			now := time.Now()

			mock.ExpectQuery(`INSERT INTO orders`).
				WithArgs(order.ID, order.UserID, order.Status, order.TotalPrice).
				WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
			mock.ExpectExec(`INSERT INTO order_lines`).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`INSERT INTO order_lines`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.CreateOrder(ctx, db, order)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, now, order.CreatedAt, "timestamps come from the inserted row")
			assert.Equal(t, now, order.UpdatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetOrderById", func(t *testing.T) {
		t.Run("loads the order with its line snapshots", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			userID := uuid.New()
			itemID := uuid.New()
			now := time.Now()

			mock.ExpectQuery(`SELECT user_id, status, total_price, created_at, updated_at\s+FROM orders\s+WHERE id = \$1`).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "status", "total_price", "created_at", "updated_at"}).
					AddRow(userID, "pending", int64(160), now, now))

			mock.ExpectQuery(`SELECT item_type, item_id, name, photo, variant, unit_price, quantity, subtotal\s+FROM order_lines\s+WHERE order_id = \$1`).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"item_type", "item_id", "name", "photo", "variant", "unit_price", "quantity", "subtotal"}).
					AddRow("game", itemID, "Game", "photo.jpg", "primary", int64(80), 2, int64(160)))

			// Act
			order, err := repo.GetOrderById(ctx, orderID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			require.Len(t, order.Lines, 1)
			assert.Equal(t, int64(80), order.Lines[0].UnitPrice)
			assert.Equal(t, models.VariantPrimary, order.Lines[0].Variant)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3`).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusConfirmed)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("missing order surfaces ErrNoRows", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()

			mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = \$2 WHERE id = \$3`).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled)

			// Assert
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
