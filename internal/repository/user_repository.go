package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// PendingRegistration is a pending user joined with its customer record
// for the admin approval queue.
type PendingRegistration struct {
	User     domain.User
	Customer domain.Customer
}

// UserRepository defines persistence access for portal accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListPendingCustomers(ctx context.Context) ([]PendingRegistration, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, status, approved_at, approved_by, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.ApprovedAt,
		&user.ApprovedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const query = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListPendingCustomers(ctx context.Context) ([]PendingRegistration, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.status, u.approved_at, u.approved_by, u.created_at, u.updated_at,
               c.id, c.user_id, c.customer_no, c.address, c.phone, c.water_quota, c.is_active, c.created_at, c.updated_at
        FROM users u
        JOIN customers c ON c.user_id = u.id
        WHERE u.status='PENDING' AND u.role='CUSTOMER'
        ORDER BY u.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPendingRegistrations(rows)
}

func scanPendingRegistrations(rows pgx.Rows) ([]PendingRegistration, error) {
	var result []PendingRegistration
	for rows.Next() {
		var reg PendingRegistration
		if err := rows.Scan(
			&reg.User.ID,
			&reg.User.Name,
			&reg.User.Email,
			&reg.User.PasswordHash,
			&reg.User.Role,
			&reg.User.Status,
			&reg.User.ApprovedAt,
			&reg.User.ApprovedBy,
			&reg.User.CreatedAt,
			&reg.User.UpdatedAt,
			&reg.Customer.ID,
			&reg.Customer.UserID,
			&reg.Customer.CustomerNo,
			&reg.Customer.Address,
			&reg.Customer.Phone,
			&reg.Customer.WaterQuota,
			&reg.Customer.IsActive,
			&reg.Customer.CreatedAt,
			&reg.Customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}
