package memory

import (
	"context"
	"fmt"
	"sync"

	"verbum/internal/domain"
	"verbum/internal/domain/models"
	"verbum/internal/domain/repositories"
)

// GrantLog is an in-memory GrantLog for dev mode and tests.
type GrantLog struct {
	mu     sync.Mutex
	grants map[string]models.Grant
}

var _ repositories.GrantLog = (*GrantLog)(nil)

// NewGrantLog creates a new in-memory grant log.
func NewGrantLog() *GrantLog {
	return &GrantLog{
		grants: make(map[string]models.Grant),
	}
}

// Record appends the grant, rejecting already-seen event ids.
func (l *GrantLog) Record(_ context.Context, grant models.Grant) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.grants[grant.EventID]; ok {
		return fmt.Errorf("event %s: %w", grant.EventID, domain.ErrDuplicateGrant)
	}
	l.grants[grant.EventID] = grant
	return nil
}
