package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	"github.com/spec-kit/pdam-portal/internal/repository"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. It
// reproduces the behaviors services depend on: pgx.ErrNoRows for
// missing rows, unique-index errors, and single-shot PENDING guards.
type fakeStore struct {
	mu        sync.Mutex
	seq       int
	users     map[string]*domain.User
	customers map[string]*domain.Customer
	payments  map[string]*domain.Payment
	resets    map[string]*repository.PasswordResetToken
	settings  map[string]*domain.SystemSetting
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*domain.User),
		customers: make(map[string]*domain.Customer),
		payments:  make(map[string]*domain.Payment),
		resets:    make(map[string]*repository.PasswordResetToken),
		settings:  make(map[string]*domain.SystemSetting),
	}
}

func (s *fakeStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id-%d", s.seq)
}

func (s *fakeStore) addActiveCustomer(email, customerNo string, quota float64) (*domain.User, *domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &domain.User{
		ID:     s.nextID(),
		Name:   "Customer " + customerNo,
		Email:  email,
		Role:   domain.RoleCustomer,
		Status: domain.UserStatusActive,
	}
	s.users[user.ID] = user

	no := customerNo
	customer := &domain.Customer{
		ID:         s.nextID(),
		UserID:     user.ID,
		CustomerNo: &no,
		Address:    "Jl. Test No. 1",
		Phone:      "08120000000",
		WaterQuota: quota,
		IsActive:   true,
	}
	s.customers[customer.ID] = customer
	return user, customer
}

// userRepo

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListPendingCustomers(_ context.Context) ([]repository.PendingRegistration, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []repository.PendingRegistration
	for _, user := range r.store.users {
		if user.Status != domain.UserStatusPending || user.Role != domain.RoleCustomer {
			continue
		}
		for _, customer := range r.store.customers {
			if customer.UserID == user.ID {
				result = append(result, repository.PendingRegistration{User: *user, Customer: *customer})
			}
		}
	}
	return result, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

// customerRepo

type fakeCustomerRepo struct{ store *fakeStore }

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	customer, ok := r.store.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID string) (*domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, customer := range r.store.customers {
		if customer.UserID == userID {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) GetByCustomerNo(_ context.Context, customerNo string) (*domain.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, customer := range r.store.customers {
		if customer.CustomerNo != nil && *customer.CustomerNo == customerNo {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) Stats(_ context.Context) (*domain.CustomerStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := &domain.CustomerStats{}
	for _, customer := range r.store.customers {
		stats.TotalCustomers++
		if customer.IsActive {
			stats.ActiveCustomers++
		}
		stats.TotalQuota += customer.WaterQuota
	}
	return stats, nil
}

// paymentRepo

type fakePaymentRepo struct{ store *fakeStore }

func (r *fakePaymentRepo) Create(_ context.Context, payment *domain.Payment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment.ID = r.store.nextID()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	copied := *payment
	r.store.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment, ok := r.store.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) ListPending(_ context.Context) ([]domain.PendingPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.PendingPayment
	for _, payment := range r.store.payments {
		if payment.Status != domain.PaymentStatusPending {
			continue
		}
		pending := domain.PendingPayment{Payment: *payment}
		if customer, ok := r.store.customers[payment.CustomerID]; ok {
			pending.CustomerNo = customer.CustomerNo
			if user, ok := r.store.users[customer.UserID]; ok {
				pending.CustomerName = user.Name
				pending.Email = user.Email
			}
		}
		result = append(result, pending)
	}
	return result, nil
}

func (r *fakePaymentRepo) ListByCustomer(_ context.Context, customerID string, limit int) ([]domain.Payment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	var result []domain.Payment
	for _, payment := range r.store.payments {
		if payment.CustomerID == customerID {
			result = append(result, *payment)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// approvalRepo

type fakeApprovalRepo struct{ store *fakeStore }

func (r *fakeApprovalRepo) CreateUserWithCustomer(_ context.Context, user *domain.User, customer *domain.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = r.store.nextID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	userCopy := *user
	r.store.users[user.ID] = &userCopy

	customer.ID = r.store.nextID()
	customer.UserID = user.ID
	customer.CreatedAt = user.CreatedAt
	customer.UpdatedAt = user.CreatedAt
	customerCopy := *customer
	r.store.customers[customer.ID] = &customerCopy
	return nil
}

func (r *fakeApprovalRepo) ApproveUser(_ context.Context, userID, adminID, customerNo string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, customer := range r.store.customers {
		if customer.CustomerNo != nil && *customer.CustomerNo == customerNo {
			return repository.ErrCustomerNoTaken
		}
	}
	user, ok := r.store.users[userID]
	if !ok || user.Status != domain.UserStatusPending {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.Status = domain.UserStatusActive
	user.ApprovedAt = &now
	user.ApprovedBy = &adminID
	for _, customer := range r.store.customers {
		if customer.UserID == userID {
			no := customerNo
			customer.CustomerNo = &no
			customer.IsActive = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeApprovalRepo) RejectUser(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[userID]; !ok {
		return pgx.ErrNoRows
	}
	// reset tokens reference the user and go first, as in the real
	// transaction
	for tokenStr, token := range r.store.resets {
		if token.UserID == userID {
			delete(r.store.resets, tokenStr)
		}
	}
	delete(r.store.users, userID)
	for id, customer := range r.store.customers {
		if customer.UserID == userID {
			delete(r.store.customers, id)
		}
	}
	return nil
}

func (r *fakeApprovalRepo) CompletePayment(_ context.Context, paymentID, customerID, adminID string, quota float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment, ok := r.store.payments[paymentID]
	if !ok || payment.Status != domain.PaymentStatusPending {
		return pgx.ErrNoRows
	}
	customer, ok := r.store.customers[customerID]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	payment.Status = domain.PaymentStatusCompleted
	payment.QuotaAdded = quota
	payment.ApprovedAt = &now
	payment.ApprovedBy = &adminID
	customer.WaterQuota += quota
	return nil
}

func (r *fakeApprovalRepo) RejectPayment(_ context.Context, paymentID, adminID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment, ok := r.store.payments[paymentID]
	if !ok || payment.Status != domain.PaymentStatusPending {
		return pgx.ErrNoRows
	}
	now := time.Now()
	payment.Status = domain.PaymentStatusRejected
	payment.ApprovedAt = &now
	payment.ApprovedBy = &adminID
	return nil
}

// passwordResetRepo

type fakeResetRepo struct{ store *fakeStore }

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token.ID = r.store.nextID()
	token.CreatedAt = time.Now()
	copied := *token
	r.store.resets[token.Token] = &copied
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	token, ok := r.store.resets[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, token := range r.store.resets {
		if token.ID == id {
			now := time.Now()
			token.UsedAt = &now
			return nil
		}
	}
	return nil
}

// settingsRepo

type fakeSettingsRepo struct{ store *fakeStore }

func (r *fakeSettingsRepo) List(_ context.Context) ([]domain.SystemSetting, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []domain.SystemSetting
	for _, setting := range r.store.settings {
		result = append(result, *setting)
	}
	return result, nil
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) (*domain.SystemSetting, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	setting, ok := r.store.settings[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *setting
	return &copied, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, setting *domain.SystemSetting) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *setting
	r.store.settings[setting.Key] = &copied
	return nil
}

// statsCache

type fakeStatsCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{data: make(map[string][]byte)}
}

func (c *fakeStatsCache) GetBytes(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.data[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return value, nil
}

func (c *fakeStatsCache) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

// eventRecorder collects published events for assertions.

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) Subscribe(events.EventType, events.EventHandler) {}

func (r *eventRecorder) typesSeen() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]events.EventType, 0, len(r.events))
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}
