package config

import (
	"testing"
)

func TestLoadPlans_Defaults(t *testing.T) {
	plans, err := LoadPlans("")
	if err != nil {
		t.Fatalf("LoadPlans failed: %v", err)
	}
	if len(plans) == 0 {
		t.Fatal("default catalog is empty")
	}

	byID := make(map[string]bool)
	for _, plan := range plans {
		if !plan.Allotment.Valid() {
			t.Errorf("plan %q has invalid allotment", plan.ID)
		}
		byID[plan.ID] = true
	}
	if !byID["medium"] {
		t.Error("default catalog missing medium plan")
	}
}

func TestParsePlans(t *testing.T) {
	t.Run("finite and unlimited allotments", func(t *testing.T) {
		doc := []byte(`
plans:
  - id: starter
    price: 500
    currency: eur
    allotment: "25"
  - id: forever
    price: 9900
    allotment: unlimited
`)
		plans, err := ParsePlans(doc)
		if err != nil {
			t.Fatalf("ParsePlans failed: %v", err)
		}
		if len(plans) != 2 {
			t.Fatalf("expected 2 plans, got %d", len(plans))
		}

		if plans[0].Allotment.Count != 25 || plans[0].Currency != "eur" {
			t.Errorf("unexpected starter plan: %+v", plans[0])
		}
		if !plans[1].Allotment.Unlimited {
			t.Errorf("expected unlimited allotment, got %s", plans[1].Allotment)
		}
		// Currency defaults when omitted.
		if plans[1].Currency != "pln" {
			t.Errorf("expected default currency, got %q", plans[1].Currency)
		}
	})

	t.Run("rejects bad catalogs", func(t *testing.T) {
		cases := []struct {
			name string
			doc  string
		}{
			{"empty", "plans: []"},
			{"missing id", "plans:\n  - price: 100\n    allotment: \"10\""},
			{"negative price", "plans:\n  - id: p\n    price: -1\n    allotment: \"10\""},
			{"negative allotment", "plans:\n  - id: p\n    price: 100\n    allotment: \"-5\""},
			{"garbage allotment", "plans:\n  - id: p\n    price: 100\n    allotment: lots"},
			{"trailing garbage allotment", "plans:\n  - id: p\n    price: 100\n    allotment: \"12abc\""},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ParsePlans([]byte(tc.doc)); err == nil {
					t.Error("expected error, got nil")
				}
			})
		}
	})
}
