package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	"github.com/spec-kit/pdam-portal/internal/repository"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

// Admin decision actions shared by the user and payment workflows.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

const statsCacheKey = "pdam:admin:stats"

// StatsCache is the minimal cache surface used for the admin stats
// snapshot. Satisfied by persistence.Redis.
type StatsCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CustomerNoAvailability is the advisory check result. The check is
// informational only; the unique index decides at commit time.
type CustomerNoAvailability struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// ApprovalService drives the registration and payment approval
// workflows. Both share the same state machine shape: PENDING moves
// exactly once to a terminal state and never back.
type ApprovalService struct {
	users      repository.UserRepository
	customers  repository.CustomerRepository
	payments   repository.PaymentRepository
	approvals  repository.ApprovalRepository
	dispatcher events.Dispatcher
	statsCache StatsCache
	statsTTL   time.Duration
}

// ApprovalDependencies bundles requirements for the approval service.
type ApprovalDependencies struct {
	UserRepo     repository.UserRepository
	CustomerRepo repository.CustomerRepository
	PaymentRepo  repository.PaymentRepository
	ApprovalRepo repository.ApprovalRepository
	Dispatcher   events.Dispatcher
	StatsCache   StatsCache
	StatsTTL     time.Duration
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	return &ApprovalService{
		users:      deps.UserRepo,
		customers:  deps.CustomerRepo,
		payments:   deps.PaymentRepo,
		approvals:  deps.ApprovalRepo,
		dispatcher: deps.Dispatcher,
		statsCache: deps.StatsCache,
		statsTTL:   deps.StatsTTL,
	}
}

// ListPendingUsers returns pending registrations, newest first.
func (s *ApprovalService) ListPendingUsers(ctx context.Context) ([]repository.PendingRegistration, error) {
	return s.users.ListPendingCustomers(ctx)
}

// DecideUser applies an admin decision to a pending registration.
// Approval assigns the proposed customer number and activates the
// account; rejection deletes the user and its customer record
// permanently.
func (s *ApprovalService) DecideUser(ctx context.Context, adminID, userID, action, customerNo string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("user", nil)
		}
		return "", err
	}
	if user.Status != domain.UserStatusPending || user.Role != domain.RoleCustomer {
		return "", apperrors.NewConflict("user is not awaiting approval", nil)
	}

	switch action {
	case ActionApprove:
		customerNo = strings.TrimSpace(customerNo)
		if customerNo == "" {
			return "", apperrors.NewValidationError("customer number is required", nil)
		}
		// advisory pre-check; the unique index still decides races
		if _, err := s.customers.GetByCustomerNo(ctx, customerNo); err == nil {
			return "", apperrors.NewConflict("customer number already exists", nil)
		} else if err != pgx.ErrNoRows {
			return "", err
		}

		if err := s.approvals.ApproveUser(ctx, userID, adminID, customerNo); err != nil {
			switch err {
			case repository.ErrCustomerNoTaken:
				return "", apperrors.NewConflict("customer number already exists", nil)
			case pgx.ErrNoRows:
				return "", apperrors.NewConflict("user is not awaiting approval", nil)
			default:
				return "", err
			}
		}
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventUserApproved,
			SubjectID: userID,
			Actor:     adminActor(adminID),
			Payload:   events.UserApprovedPayload{CustomerNo: customerNo},
		})
		return "User approved successfully", nil

	case ActionReject:
		if err := s.approvals.RejectUser(ctx, userID); err != nil {
			if err == pgx.ErrNoRows {
				return "", apperrors.NewNotFound("user", nil)
			}
			return "", err
		}
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventUserRejected,
			SubjectID: userID,
			Actor:     adminActor(adminID),
			Payload:   events.UserRejectedPayload{Email: user.Email},
		})
		return "User rejected and removed", nil

	default:
		return "", apperrors.NewValidationError("action must be approve or reject", nil)
	}
}

// CheckCustomerNo reports whether a customer number is free to assign.
func (s *ApprovalService) CheckCustomerNo(ctx context.Context, candidate string) (*CustomerNoAvailability, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return &CustomerNoAvailability{Available: false, Message: "Customer number is required"}, nil
	}

	if _, err := s.customers.GetByCustomerNo(ctx, candidate); err == nil {
		return &CustomerNoAvailability{Available: false, Message: "Customer number already exists"}, nil
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	return &CustomerNoAvailability{Available: true, Message: "Customer number is available"}, nil
}

// ListPendingPayments returns pending top-up requests, newest first.
func (s *ApprovalService) ListPendingPayments(ctx context.Context) ([]domain.PendingPayment, error) {
	return s.payments.ListPending(ctx)
}

// DecidePayment applies an admin decision to a pending top-up request.
// Approval credits the requested quota to the owning customer in the
// same transaction that completes the payment.
func (s *ApprovalService) DecidePayment(ctx context.Context, adminID, paymentID, action string) (string, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("payment", nil)
		}
		return "", err
	}
	if payment.Status != domain.PaymentStatusPending {
		return "", apperrors.NewConflict("payment is not awaiting approval", nil)
	}

	switch action {
	case ActionApprove:
		if err := s.approvals.CompletePayment(ctx, payment.ID, payment.CustomerID, adminID, payment.QuotaRequested); err != nil {
			if err == pgx.ErrNoRows {
				return "", apperrors.NewConflict("payment is not awaiting approval", nil)
			}
			return "", err
		}
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventPaymentCompleted,
			SubjectID: payment.ID,
			Actor:     adminActor(adminID),
			Payload: events.PaymentDecidedPayload{
				OldStatus:  domain.PaymentStatusPending,
				NewStatus:  domain.PaymentStatusCompleted,
				QuotaAdded: payment.QuotaRequested,
			},
		})
		return "Payment approved successfully", nil

	case ActionReject:
		if err := s.approvals.RejectPayment(ctx, payment.ID, adminID); err != nil {
			if err == pgx.ErrNoRows {
				return "", apperrors.NewConflict("payment is not awaiting approval", nil)
			}
			return "", err
		}
		publish(ctx, s.dispatcher, events.Event{
			Type:      events.EventPaymentRejected,
			SubjectID: payment.ID,
			Actor:     adminActor(adminID),
			Payload: events.PaymentDecidedPayload{
				OldStatus: domain.PaymentStatusPending,
				NewStatus: domain.PaymentStatusRejected,
			},
		})
		return "Payment rejected", nil

	default:
		return "", apperrors.NewValidationError("action must be approve or reject", nil)
	}
}

// Stats returns the customer dashboard aggregates, served from the
// short-TTL cache when available.
func (s *ApprovalService) Stats(ctx context.Context) (*domain.CustomerStats, error) {
	if s.statsCache != nil {
		if cached, err := s.statsCache.GetBytes(ctx, statsCacheKey); err == nil {
			var stats domain.CustomerStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.customers.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.statsCache != nil && s.statsTTL > 0 {
		if encoded, err := json.Marshal(stats); err == nil {
			// best effort; stats are recomputed on a cache miss anyway
			_ = s.statsCache.SetBytes(ctx, statsCacheKey, encoded, s.statsTTL)
		}
	}
	return stats, nil
}

func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func adminActor(adminID string) events.Actor {
	return events.Actor{
		Role:   domain.RoleAdmin,
		UserID: adminID,
	}
}
