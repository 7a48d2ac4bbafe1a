package paymentsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quickmart/backend/internal/payment/dal/interfaces/irecordstore"
	"github.com/quickmart/backend/internal/payment/service/models/payment"
)

// PaymentService captures charges exactly once per idempotency key.
type PaymentService struct {
	store irecordstore.Store
}

// option is a function that configures the PaymentService.
type option func(*PaymentService)

// MustNewPaymentService creates a new PaymentService.
func MustNewPaymentService(opts ...option) *PaymentService {
	s := &PaymentService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithRecordStore(store irecordstore.Store) option {
	return func(s *PaymentService) {
		s.store = store
	}
}

// Capture charges the given amount once under the idempotency key. A
// replayed key returns the remembered record unchanged, whatever amount the
// replay carries; the stored record is what was actually charged. A missing
// key or non-positive amount is rejected before any record is created.
func (s *PaymentService) Capture(
	ctx context.Context,
	idempotencyKey string,
	amount decimal.Decimal,
	currency string,
) (*payment.Record, error) {
	if idempotencyKey == "" {
		return nil, payment.ErrKeyRequired
	}

	if existing, ok, err := s.store.Get(ctx, idempotencyKey); err != nil {
		return nil, fmt.Errorf("failed to look up payment record: %w", err)
	} else if ok {
		slog.Info("payment replayed", "idempotency_key", idempotencyKey)

		return existing, nil
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, payment.ErrInvalidAmount
	}

	record := &payment.Record{
		IdempotencyKey: idempotencyKey,
		Outcome:        payment.OutcomeSucceeded,
		Amount:         amount,
		Currency:       currency,
	}

	// Get above is only a fast path; this is the step that decides the race.
	stored, created, err := s.store.PutIfAbsent(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to store payment record: %w", err)
	}
	if created {
		slog.Info("payment captured",
			"idempotency_key", idempotencyKey,
			"amount", amount.String(),
			"currency", currency,
		)
	}

	return stored, nil
}
