package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/quickmart/backend/internal/payment/service/models/payment"
)

const keyPrefix = "pay:record:"

// RecordStore keeps payment records in Redis so outcomes survive restarts.
// SET NX carries the insert-if-absent contract: the first writer wins, a
// losing writer reads back the winner's record.
type RecordStore struct {
	rdb *redis.Client
}

func NewRecordStore(rdb *redis.Client) *RecordStore {
	return &RecordStore{rdb: rdb}
}

func (s *RecordStore) Get(ctx context.Context, key string) (*payment.Record, bool, error) {
	payload, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read payment record: %w", err)
	}

	record, err := decode(key, payload)
	if err != nil {
		return nil, false, err
	}

	return record, true, nil
}

func (s *RecordStore) PutIfAbsent(ctx context.Context, record *payment.Record) (*payment.Record, bool, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode payment record: %w", err)
	}

	stored, err := s.rdb.SetNX(ctx, keyPrefix+record.IdempotencyKey, payload, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to store payment record: %w", err)
	}
	if stored {
		return record, true, nil
	}

	existing, ok, err := s.Get(ctx, record.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("payment record for key %q vanished after conflict", record.IdempotencyKey)
	}

	return existing, false, nil
}

func decode(key string, payload []byte) (*payment.Record, error) {
	var record payment.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to decode payment record: %w", err)
	}
	record.IdempotencyKey = key

	return &record, nil
}
