package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pawtrait-ai/backend/internal/domain/order"
)

// OrderRepository implements order.Repository backed by database/sql
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) order.Repository {
	return &OrderRepository{db: db}
}

// orderEmailExpr resolves the purchaser's email from the most recent event
// carrying one. Payments store no email; events do.
const orderEmailExpr = `COALESCE((SELECT e.email FROM user_events e WHERE e.user_id = p.user_id AND e.email IS NOT NULL ORDER BY e.created_at DESC LIMIT 1), 'Unknown')`

// Create inserts a new payment record
func (r *OrderRepository) Create(ctx context.Context, p *order.Payment) error {
	defer observe("insert", "payments")()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, plan, amount, currency, status, gateway_order_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.Plan, p.Amount, p.Currency, p.Status, p.GatewayOrderID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// GetByID fetches one payment
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Payment, error) {
	defer observe("get", "payments")()

	p := &order.Payment{}
	var paymentID, signature sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, plan, amount, currency, status, gateway_order_id, gateway_payment_id, gateway_signature, created_at, updated_at
		FROM payments WHERE id = $1`, id,
	).Scan(
		&p.ID, &p.UserID, &p.Plan, &p.Amount, &p.Currency, &p.Status,
		&p.GatewayOrderID, &paymentID, &signature, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	p.GatewayPaymentID = paymentID.String
	p.GatewaySignature = signature.String
	return p, nil
}

// SetGatewayOrderID replaces the placeholder id with the issued one
func (r *OrderRepository) SetGatewayOrderID(ctx context.Context, id, gatewayOrderID string) error {
	defer observe("update", "payments")()

	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET gateway_order_id = $1, updated_at = $2 WHERE id = $3`,
		gatewayOrderID, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set gateway order id: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}

// MarkPaid transitions the payment to paid with the gateway evidence
func (r *OrderRepository) MarkPaid(ctx context.Context, id, gatewayPaymentID, gatewaySignature string) error {
	defer observe("update", "payments")()

	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, gateway_payment_id = $2, gateway_signature = $3, updated_at = $4
		WHERE id = $5`,
		order.StatusPaid, gatewayPaymentID, gatewaySignature, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}
	return nil
}

// List returns one page of orders with the denormalized user email
func (r *OrderRepository) List(ctx context.Context, filter order.Filter, limit, offset int) ([]*order.Order, int64, error) {
	defer observe("list", "payments")()

	where, args := buildOrderFilter(filter)

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `
		SELECT p.id, p.user_id, p.plan, p.amount, p.currency, p.status,
			p.gateway_order_id, p.gateway_payment_id, p.gateway_signature,
			p.created_at, p.updated_at, ` + orderEmailExpr + `
		FROM payments p` + where + ` ORDER BY p.created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	orders := []*order.Order{}
	for rows.Next() {
		o := &order.Order{}
		var paymentID, signature sql.NullString
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Plan, &o.Amount, &o.Currency, &o.Status,
			&o.GatewayOrderID, &paymentID, &signature,
			&o.CreatedAt, &o.UpdatedAt, &o.UserEmail,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		o.GatewayPaymentID = paymentID.String
		o.GatewaySignature = signature.String
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return orders, total, nil
}

// Stats aggregates revenue over the full unfiltered set
func (r *OrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	defer observe("stats", "payments")()

	stats := &order.Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN status = 'paid' THEN 1 END),
			COUNT(*)
		FROM payments`).Scan(&stats.TotalRevenue, &stats.PaidCount, &stats.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate order stats: %w", err)
	}

	if stats.PaidCount > 0 {
		stats.AvgOrderValue = float64(stats.TotalRevenue) / float64(stats.PaidCount)
	}
	return stats, nil
}

func buildOrderFilter(filter order.Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(p.id) LIKE $%d OR LOWER(p.gateway_order_id) LIKE $%d OR LOWER(COALESCE(p.gateway_payment_id, '')) LIKE $%d OR LOWER("+orderEmailExpr+") LIKE $%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4,
		))
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
