package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"verbum/internal/domain/models"
)

// Default plan catalog, used when no PLANS_FILE is configured.
var defaultPlans = []models.Plan{
	{ID: "small", Price: 999, Currency: "pln", Allotment: models.Finite(20)},
	{ID: "medium", Price: 1999, Currency: "pln", Allotment: models.Finite(50)},
	{ID: "unlimited", Price: 4999, Currency: "pln", Allotment: models.UnlimitedAllowance},
}

// planFile is the YAML document layout for a plan catalog file.
type planFile struct {
	Plans []planEntry `yaml:"plans"`
}

// planEntry accepts the allotment either as a count or the string "unlimited".
type planEntry struct {
	ID        string `yaml:"id"`
	Price     int64  `yaml:"price"`
	Currency  string `yaml:"currency"`
	Allotment string `yaml:"allotment"`
}

// LoadPlans returns the plan catalog from the given YAML file, or the
// compiled-in defaults when path is empty. The catalog is read once at
// startup and never mutated afterwards.
func LoadPlans(path string) ([]models.Plan, error) {
	if path == "" {
		return defaultPlans, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans file: %w", err)
	}

	return ParsePlans(data)
}

// ParsePlans parses a YAML plan catalog document.
func ParsePlans(data []byte) ([]models.Plan, error) {
	var file planFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse plans file: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plans file defines no plans")
	}

	plans := make([]models.Plan, 0, len(file.Plans))
	for _, entry := range file.Plans {
		if entry.ID == "" {
			return nil, fmt.Errorf("plan with empty id")
		}
		if entry.Price < 0 {
			return nil, fmt.Errorf("plan %q: negative price", entry.ID)
		}

		plan := models.Plan{
			ID:       entry.ID,
			Price:    models.Cents(entry.Price),
			Currency: entry.Currency,
		}
		if plan.Currency == "" {
			plan.Currency = "pln"
		}

		switch entry.Allotment {
		case "unlimited":
			plan.Allotment = models.UnlimitedAllowance
		default:
			n, err := strconv.Atoi(entry.Allotment)
			if err != nil {
				return nil, fmt.Errorf("plan %q: invalid allotment %q", entry.ID, entry.Allotment)
			}
			if n < 0 {
				return nil, fmt.Errorf("plan %q: negative allotment", entry.ID)
			}
			plan.Allotment = models.Finite(n)
		}

		plans = append(plans, plan)
	}

	return plans, nil
}
