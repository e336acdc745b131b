package memory

import (
	"context"
	"fmt"
	"sync"

	"verbum/internal/domain"
	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
)

// QuotaLedger is an in-memory QuotaLedger for dev mode and tests.
// A single mutex guards the map; every check-and-decrement runs inside
// the critical section, which satisfies the per-user serialization
// requirement (cross-user contention is negligible at dev scale).
type QuotaLedger struct {
	mu               sync.Mutex
	records          map[string]*quotaRecord
	defaultAllotment int
}

type quotaRecord struct {
	remaining int
	unlimited bool
}

var _ repositories.QuotaLedger = (*QuotaLedger)(nil)

// NewQuotaLedger creates a new in-memory quota ledger. Unseen users are
// lazily initialized with defaultAllotment on first reference.
func NewQuotaLedger(defaultAllotment int) *QuotaLedger {
	return &QuotaLedger{
		records:          make(map[string]*quotaRecord),
		defaultAllotment: defaultAllotment,
	}
}

// record returns the user's entry, creating it with the default allotment
// if unseen. Callers must hold the mutex.
func (l *QuotaLedger) record(userID string) *quotaRecord {
	rec, ok := l.records[userID]
	if !ok {
		rec = &quotaRecord{remaining: l.defaultAllotment}
		l.records[userID] = rec
	}
	return rec
}

// Remaining returns the user's current standing.
func (l *QuotaLedger) Remaining(_ context.Context, userID string) (models.Allowance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.record(userID)
	if rec.unlimited {
		return models.UnlimitedAllowance, nil
	}
	return models.Finite(rec.remaining), nil
}

// TryConsume atomically checks and decrements the user's standing.
func (l *QuotaLedger) TryConsume(_ context.Context, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.record(userID)
	if rec.unlimited {
		return true, nil
	}
	if rec.remaining <= 0 {
		if rec.remaining < 0 {
			// Unreachable unless the critical section is broken.
			return false, fmt.Errorf("quota went negative for user %s: %w", userID, domain.ErrInternal)
		}
		return false, nil
	}

	rec.remaining--
	return true, nil
}

// Replenish overwrites the user's standing with the given allotment.
func (l *QuotaLedger) Replenish(_ context.Context, userID string, allotment models.Allowance) error {
	if !allotment.Valid() {
		return fmt.Errorf("%w: negative allotment %d", domain.ErrValidation, allotment.Count)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.record(userID)
	rec.unlimited = allotment.Unlimited
	if allotment.Unlimited {
		rec.remaining = 0
	} else {
		rec.remaining = allotment.Count
	}

	return nil
}
