package config

import (
	"testing"
)

func TestLoad_DebugDefaults(t *testing.T) {
	t.Run("debug defaults on outside prod", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "dev")
		t.Setenv("DEBUG", "")

		if !Load().Debug {
			t.Error("expected Debug=true in dev")
		}
	})

	t.Run("debug defaults off in prod", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "prod")
		t.Setenv("DEBUG", "")

		if Load().Debug {
			t.Error("expected Debug=false in prod")
		}
	})

	t.Run("explicit DEBUG wins", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "prod")
		t.Setenv("DEBUG", "true")

		if !Load().Debug {
			t.Error("expected Debug=true when DEBUG=true")
		}
	})
}
