package models

// Cents is a price in minor currency units.
type Cents int64

// Plan is a purchasable quota tier. The catalog is static configuration;
// plans are never mutated at runtime.
type Plan struct {
	ID        string    `json:"id" yaml:"id"`
	Price     Cents     `json:"price" yaml:"price"`
	Currency  string    `json:"currency" yaml:"currency"`
	Allotment Allowance `json:"allotment" yaml:"-"`
}

// QuotaRecord is a user's ledger entry.
type QuotaRecord struct {
	UserID    string    `json:"user_id"`
	Remaining Allowance `json:"remaining"`
}

// Grant records one applied payment event. The event id comes from the
// payment provider and deduplicates redelivered confirmations.
type Grant struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Allotment Allowance `json:"allotment"`
}
