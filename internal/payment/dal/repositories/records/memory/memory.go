package memory

import (
	"context"
	"sync"

	"github.com/quickmart/backend/internal/payment/service/models/payment"
)

// RecordStore is the in-process record store. The map is owned by the store
// instance, not by the package: it is injectable state with an explicit
// lifecycle, and the mutex makes check-then-insert a single atomic step.
type RecordStore struct {
	mu      sync.Mutex
	records map[string]payment.Record
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]payment.Record),
	}
}

func (s *RecordStore) Get(_ context.Context, key string) (*payment.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}

	return &record, true, nil
}

func (s *RecordStore) PutIfAbsent(_ context.Context, record *payment.Record) (*payment.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.records[record.IdempotencyKey]; ok {
		return &existing, false, nil
	}

	s.records[record.IdempotencyKey] = *record

	return record, true, nil
}
