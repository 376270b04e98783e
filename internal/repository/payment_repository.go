package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// PaymentRepository encapsulates top-up request persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListPending(ctx context.Context) ([]domain.PendingPayment, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, customer_id, amount, quota_requested, quota_added, method, status, approved_at, approved_by, created_at, updated_at`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (customer_id, amount, quota_requested, method, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		payment.CustomerID,
		payment.Amount,
		payment.QuotaRequested,
		payment.Method,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `
        SELECT ` + paymentColumns + `
        FROM payments WHERE id=$1`

	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.CustomerID,
		&payment.Amount,
		&payment.QuotaRequested,
		&payment.QuotaAdded,
		&payment.Method,
		&payment.Status,
		&payment.ApprovedAt,
		&payment.ApprovedBy,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	const query = `
        SELECT p.id, p.customer_id, p.amount, p.quota_requested, p.quota_added, p.method, p.status,
               p.approved_at, p.approved_by, p.created_at, p.updated_at,
               c.customer_no, u.name, u.email
        FROM payments p
        JOIN customers c ON c.id = p.customer_id
        JOIN users u ON u.id = c.user_id
        WHERE p.status='PENDING'
        ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PendingPayment
	for rows.Next() {
		var pending domain.PendingPayment
		if err := rows.Scan(
			&pending.ID,
			&pending.CustomerID,
			&pending.Amount,
			&pending.QuotaRequested,
			&pending.QuotaAdded,
			&pending.Method,
			&pending.Status,
			&pending.ApprovedAt,
			&pending.ApprovedBy,
			&pending.CreatedAt,
			&pending.UpdatedAt,
			&pending.CustomerNo,
			&pending.CustomerName,
			&pending.Email,
		); err != nil {
			return nil, err
		}
		result = append(result, pending)
	}
	return result, rows.Err()
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Payment, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE customer_id=$1
        ORDER BY created_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.CustomerID,
			&payment.Amount,
			&payment.QuotaRequested,
			&payment.QuotaAdded,
			&payment.Method,
			&payment.Status,
			&payment.ApprovedAt,
			&payment.ApprovedBy,
			&payment.CreatedAt,
			&payment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
