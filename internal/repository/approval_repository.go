package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

var (
	// ErrDuplicateEmail is returned when registration hits the unique
	// index on users.email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrCustomerNoTaken is returned when approval hits the unique
	// index on customers.customer_no. The index, not the advisory
	// pre-check, decides races between concurrent approvals.
	ErrCustomerNoTaken = errors.New("customer number already exists")
)

const uniqueViolationCode = "23505"

// ApprovalRepository performs the multi-row state transitions of the
// registration and payment workflows. Each method runs inside a single
// transaction; a failure anywhere rolls the whole transition back.
type ApprovalRepository interface {
	CreateUserWithCustomer(ctx context.Context, user *domain.User, customer *domain.Customer) error
	ApproveUser(ctx context.Context, userID, adminID, customerNo string) error
	RejectUser(ctx context.Context, userID string) error
	CompletePayment(ctx context.Context, paymentID, customerID, adminID string, quota float64) error
	RejectPayment(ctx context.Context, paymentID, adminID string) error
}

type approvalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository instantiates repository.
func NewApprovalRepository(pool *pgxpool.Pool) ApprovalRepository {
	return &approvalRepository{pool: pool}
}

// CreateUserWithCustomer inserts the account and its customer record as
// a unit. A user row never exists without its customer counterpart.
func (r *approvalRepository) CreateUserWithCustomer(ctx context.Context, user *domain.User, customer *domain.Customer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const userQuery = `
        INSERT INTO users (name, email, password_hash, role, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, userQuery,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	const customerQuery = `
        INSERT INTO customers (user_id, address, phone, water_quota, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	customer.UserID = user.ID
	if err := tx.QueryRow(ctx, customerQuery,
		customer.UserID,
		customer.Address,
		customer.Phone,
		customer.WaterQuota,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ApproveUser activates a pending account and assigns its customer
// number in one transaction. The WHERE status='PENDING' guard makes the
// transition single-shot under concurrent admin clicks.
func (r *approvalRepository) ApproveUser(ctx context.Context, userID, adminID, customerNo string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const userQuery = `
        UPDATE users SET status='ACTIVE', approved_at=NOW(), approved_by=$1, updated_at=NOW()
        WHERE id=$2 AND status='PENDING'`
	cmd, err := tx.Exec(ctx, userQuery, adminID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const customerQuery = `
        UPDATE customers SET customer_no=$1, is_active=true, updated_at=NOW()
        WHERE user_id=$2`
	cmd, err = tx.Exec(ctx, customerQuery, customerNo, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerNoTaken
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerNoTaken
		}
		return err
	}
	return nil
}

// RejectUser removes the account and its customer record permanently.
// Reset tokens are cleared first so the users delete cannot trip the
// foreign key when the candidate requested a password reset while
// waiting for approval.
func (r *approvalRepository) RejectUser(ctx context.Context, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id=$1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE user_id=$1`, userID); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// CompletePayment marks the payment COMPLETED and credits the owning
// customer's quota atomically.
func (r *approvalRepository) CompletePayment(ctx context.Context, paymentID, customerID, adminID string, quota float64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const paymentQuery = `
        UPDATE payments SET status='COMPLETED', quota_added=$1, approved_at=NOW(), approved_by=$2, updated_at=NOW()
        WHERE id=$3 AND status='PENDING'`
	cmd, err := tx.Exec(ctx, paymentQuery, quota, adminID, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const customerQuery = `
        UPDATE customers SET water_quota = water_quota + $1, updated_at=NOW()
        WHERE id=$2`
	cmd, err = tx.Exec(ctx, customerQuery, quota, customerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

// RejectPayment closes the payment without touching the balance.
func (r *approvalRepository) RejectPayment(ctx context.Context, paymentID, adminID string) error {
	const query = `
        UPDATE payments SET status='REJECTED', approved_at=NOW(), approved_by=$1, updated_at=NOW()
        WHERE id=$2 AND status='PENDING'`
	cmd, err := r.pool.Exec(ctx, query, adminID, paymentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
