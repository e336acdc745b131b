package memory

import (
	"context"
	"errors"
	"testing"

	"verbum/internal/domain"
	"verbum/internal/domain/models"
)

func TestGrantLog_RejectsDuplicateEvent(t *testing.T) {
	log := NewGrantLog()
	ctx := context.Background()

	grant := models.Grant{EventID: "evt_1", UserID: "u1", PlanID: "medium", Allotment: models.Finite(50)}
	if err := log.Record(ctx, grant); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	err := log.Record(ctx, grant)
	if !errors.Is(err, domain.ErrDuplicateGrant) {
		t.Fatalf("expected ErrDuplicateGrant, got %v", err)
	}

	// Distinct events for the same user are independent.
	if err := log.Record(ctx, models.Grant{EventID: "evt_2", UserID: "u1", PlanID: "small", Allotment: models.Finite(20)}); err != nil {
		t.Errorf("Record failed for distinct event: %v", err)
	}
}
