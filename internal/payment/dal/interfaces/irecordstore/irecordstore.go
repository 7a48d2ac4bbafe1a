package irecordstore

import (
	"context"

	"github.com/quickmart/backend/internal/payment/service/models/payment"
)

// Store holds payment records keyed by idempotency key. PutIfAbsent is the
// only write path and must be atomic with respect to concurrent calls on the
// same key: exactly one caller wins, every caller observes the winner's
// record.
type Store interface {
	Get(ctx context.Context, key string) (*payment.Record, bool, error)
	// PutIfAbsent stores the record unless one already exists for the key.
	// It returns the record now held under the key, and whether the given
	// record was the one stored.
	PutIfAbsent(ctx context.Context, record *payment.Record) (*payment.Record, bool, error)
}
