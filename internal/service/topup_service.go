package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	"github.com/spec-kit/pdam-portal/internal/repository"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// Minimums enforced on top-up submissions.
const (
	MinTopupAmount = 10000
	MinTopupQuota  = 100
)

// TopupInput is a customer's top-up submission.
type TopupInput struct {
	Amount         float64
	QuotaRequested float64
	Method         string
}

// TopupService handles customer top-up submissions and history.
type TopupService struct {
	customers  repository.CustomerRepository
	payments   repository.PaymentRepository
	dispatcher events.Dispatcher
}

// NewTopupService constructs the service.
func NewTopupService(customers repository.CustomerRepository, payments repository.PaymentRepository, dispatcher events.Dispatcher) *TopupService {
	return &TopupService{
		customers:  customers,
		payments:   payments,
		dispatcher: dispatcher,
	}
}

// Submit records a PENDING top-up request for the calling customer.
// Nothing is credited until an admin approves the payment.
func (s *TopupService) Submit(ctx context.Context, userID string, input TopupInput) (*domain.Payment, error) {
	if input.Amount < MinTopupAmount {
		return nil, apperrors.NewValidationError("Minimum amount is Rp 10,000", nil)
	}
	if input.QuotaRequested < MinTopupQuota {
		return nil, apperrors.NewValidationError("Minimum quota is 100L", nil)
	}
	if strings.TrimSpace(input.Method) == "" {
		return nil, apperrors.NewValidationError("Payment method is required", nil)
	}

	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}

	payment := &domain.Payment{
		CustomerID:     customer.ID,
		Amount:         input.Amount,
		QuotaRequested: input.QuotaRequested,
		Method:         strings.TrimSpace(input.Method),
		Status:         domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventPaymentSubmitted,
		SubjectID: payment.ID,
		Actor:     events.Actor{Role: domain.RoleCustomer, UserID: userID},
		Payload: events.PaymentSubmittedPayload{
			Amount:         payment.Amount,
			QuotaRequested: payment.QuotaRequested,
			Method:         payment.Method,
		},
	})
	return payment, nil
}

// History returns the customer's most recent top-up requests.
func (s *TopupService) History(ctx context.Context, userID string) ([]domain.Payment, error) {
	customer, err := s.customers.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, err
	}
	return s.payments.ListByCustomer(ctx, customer.ID, 10)
}
