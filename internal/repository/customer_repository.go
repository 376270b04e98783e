package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Customer, error)
	GetByCustomerNo(ctx context.Context, customerNo string) (*domain.Customer, error)
	Stats(ctx context.Context) (*domain.CustomerStats, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

const customerColumns = `id, user_id, customer_no, address, phone, water_quota, is_active, created_at, updated_at`

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

// GetByCustomerNo looks up a customer by exact number. Callers use it
// for the advisory availability check; the unique index on customer_no
// remains the commit-time guarantee.
func (r *customerRepository) GetByCustomerNo(ctx context.Context, customerNo string) (*domain.Customer, error) {
	const query = `
        SELECT ` + customerColumns + `
        FROM customers WHERE customer_no=$1`
	return r.fetchSingle(ctx, query, customerNo)
}

func (r *customerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.CustomerNo,
		&customer.Address,
		&customer.Phone,
		&customer.WaterQuota,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) Stats(ctx context.Context) (*domain.CustomerStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE is_active),
               COALESCE(SUM(water_quota), 0)
        FROM customers`

	var stats domain.CustomerStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalCustomers,
		&stats.ActiveCustomers,
		&stats.TotalQuota,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
