package models

import (
	"encoding/json"
	"fmt"
)

// Allowance is a user's remaining message standing: either a finite
// non-negative count or the unlimited tier. A tagged value is used instead
// of a numeric sentinel so "unlimited minus one" can never arise.
type Allowance struct {
	Unlimited bool
	Count     int
}

// Finite returns a finite allowance of n messages.
func Finite(n int) Allowance {
	return Allowance{Count: n}
}

// UnlimitedAllowance is the allowance that is never decremented.
var UnlimitedAllowance = Allowance{Unlimited: true}

// IsZero reports whether the allowance is finite and exhausted.
func (a Allowance) IsZero() bool {
	return !a.Unlimited && a.Count == 0
}

// Valid reports whether the allowance is well-formed (finite counts are non-negative).
func (a Allowance) Valid() bool {
	return a.Unlimited || a.Count >= 0
}

func (a Allowance) String() string {
	if a.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", a.Count)
}

// MarshalJSON renders a finite allowance as a number and the unlimited
// tier as the string "unlimited".
func (a Allowance) MarshalJSON() ([]byte, error) {
	if a.Unlimited {
		return json.Marshal("unlimited")
	}
	return json.Marshal(a.Count)
}

// UnmarshalJSON accepts either a non-negative number or "unlimited".
func (a *Allowance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "unlimited" {
			return fmt.Errorf("invalid allowance %q", s)
		}
		*a = UnlimitedAllowance
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid allowance: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("allowance cannot be negative: %d", n)
	}
	*a = Finite(n)
	return nil
}
