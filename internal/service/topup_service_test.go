package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pdam-portal/internal/domain"
	"github.com/spec-kit/pdam-portal/internal/events"
	apperrors "github.com/spec-kit/pdam-portal/pkg/util"
)

func newTopupFixture() (*fakeStore, *eventRecorder, *TopupService) {
	store := newFakeStore()
	recorder := &eventRecorder{}
	svc := NewTopupService(&fakeCustomerRepo{store: store}, &fakePaymentRepo{store: store}, recorder)
	return store, recorder, svc
}

func TestSubmitTopup(t *testing.T) {
	store, recorder, svc := newTopupFixture()
	user, customer := store.addActiveCustomer("budi@example.com", "PDAM-001", 200)

	payment, err := svc.Submit(context.Background(), user.ID, TopupInput{
		Amount:         100000,
		QuotaRequested: 1000,
		Method:         "transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.Equal(t, customer.ID, payment.CustomerID)
	assert.NotEmpty(t, payment.ID)

	// nothing credited until an admin approves
	assert.Equal(t, 200.0, store.customers[customer.ID].WaterQuota)
	assert.Contains(t, recorder.typesSeen(), events.EventPaymentSubmitted)
}

func TestSubmitTopupValidation(t *testing.T) {
	store, _, svc := newTopupFixture()
	user, _ := store.addActiveCustomer("budi@example.com", "PDAM-001", 200)

	cases := []struct {
		name    string
		input   TopupInput
		message string
	}{
		{"amount below minimum", TopupInput{Amount: 9999, QuotaRequested: 1000, Method: "transfer"}, "Minimum amount is Rp 10,000"},
		{"quota below minimum", TopupInput{Amount: 100000, QuotaRequested: 99, Method: "transfer"}, "Minimum quota is 100L"},
		{"missing method", TopupInput{Amount: 100000, QuotaRequested: 1000, Method: "  "}, "Payment method is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), user.ID, tc.input)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			assert.Equal(t, tc.message, domainErr.Message)
		})
	}
}

func TestSubmitTopupWithoutCustomerRecord(t *testing.T) {
	_, _, svc := newTopupFixture()

	_, err := svc.Submit(context.Background(), "no-such-user", TopupInput{
		Amount:         100000,
		QuotaRequested: 1000,
		Method:         "transfer",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestTopupHistory(t *testing.T) {
	store, _, svc := newTopupFixture()
	user, _ := store.addActiveCustomer("budi@example.com", "PDAM-001", 200)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), user.ID, TopupInput{
			Amount:         100000,
			QuotaRequested: 1000,
			Method:         "transfer",
		})
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)

	_, err = svc.History(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
