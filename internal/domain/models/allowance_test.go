package models

import (
	"encoding/json"
	"testing"
)

func TestAllowance_JSON(t *testing.T) {
	t.Run("finite renders as number", func(t *testing.T) {
		data, err := json.Marshal(Finite(7))
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != "7" {
			t.Errorf("expected 7, got %s", data)
		}
	})

	t.Run("unlimited renders as string", func(t *testing.T) {
		data, err := json.Marshal(UnlimitedAllowance)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `"unlimited"` {
			t.Errorf(`expected "unlimited", got %s`, data)
		}
	})

	t.Run("negative rejected on decode", func(t *testing.T) {
		var a Allowance
		if err := json.Unmarshal([]byte("-3"), &a); err == nil {
			t.Error("expected error for negative allowance")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		var a Allowance
		if err := json.Unmarshal([]byte(`"unlimited"`), &a); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !a.Unlimited {
			t.Errorf("expected unlimited, got %s", a)
		}
	})
}

func TestAllowance_Valid(t *testing.T) {
	if !Finite(0).Valid() {
		t.Error("zero allowance should be valid (explicit lockout)")
	}
	if Finite(-1).Valid() {
		t.Error("negative allowance should be invalid")
	}
	if !UnlimitedAllowance.Valid() {
		t.Error("unlimited should be valid")
	}
}
