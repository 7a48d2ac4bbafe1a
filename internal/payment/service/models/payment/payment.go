package payment

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeDeclined  Outcome = "declined"
)

var (
	// ErrKeyRequired is a request error: absence of the idempotency key is
	// not a payment failure.
	ErrKeyRequired = errors.New("X-Idempotency-Key required")
	// ErrInvalidAmount rejects non-positive amounts before any record exists.
	ErrInvalidAmount = errors.New("Invalid amount")
)

// Record is the remembered outcome of a capture. At most one record exists
// per idempotency key and it never changes after creation; a replayed key
// returns it verbatim.
type Record struct {
	IdempotencyKey string          `json:"-"`
	Outcome        Outcome         `json:"status"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
}
