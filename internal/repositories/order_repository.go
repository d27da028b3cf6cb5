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

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// CreateOrder inserts the order and its line snapshots on the caller's
// transaction. Checkout is the only writer; nothing here is ever updated
// afterwards except status.
func (r *OrderRepository) CreateOrder(ctx context.Context, db DBTX, order *models.Order) error {

	query := `
		INSERT INTO orders (id, user_id, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := db.QueryRowContext(ctx, query, order.ID, order.UserID, order.Status, order.TotalPrice).
		Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {

		query := `
			INSERT INTO order_lines (order_id, item_type, item_id, name, photo, variant, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := db.ExecContext(ctx, query, order.ID, line.ItemType, line.ItemID,
			line.Name, line.Photo, line.Variant, line.UnitPrice, line.Quantity, line.Subtotal)

		if err != nil {
			return fmt.Errorf("failed to insert an order line: %w", err)
		}

	}

	return nil
}

func (r *OrderRepository) GetOrderById(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{
		ID: id,
	}

	query := `
		SELECT user_id, status, total_price, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&order.UserID, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	lines, err := r.getOrderLines(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Lines = lines

	return order, nil
}

func (r *OrderRepository) getOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {

	query := `
		SELECT item_type, item_id, name, photo, variant, unit_price, quantity, subtotal
		FROM order_lines
		WHERE order_id = $1
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order lines: %w", err)
	}

	defer rows.Close()

	var lines []models.OrderLine

	for rows.Next() {

		var line models.OrderLine

		err := rows.Scan(&line.ItemType, &line.ItemID, &line.Name, &line.Photo,
			&line.Variant, &line.UnitPrice, &line.Quantity, &line.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page int, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := `
		SELECT id, status, total_price, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order

		order.UserID = userID

		err := rows.Scan(&order.ID, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {

		lines, err := r.getOrderLines(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Lines = lines
	}

	return orders, total, nil
}

// ListAllOrders is the administrator view, optionally filtered by status.
func (r *OrderRepository) ListAllOrders(ctx context.Context, status models.OrderStatus, page int, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where := ""
	args := []any{}

	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := fmt.Sprintf(`
		SELECT id, user_id, status, total_price, created_at, updated_at
		FROM orders%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)

	args = append(args, size, offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order

		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalPrice, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)

	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update the order: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
