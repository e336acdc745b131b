package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	// ErrValidation indicates malformed or missing input (400-equivalent).
	ErrValidation = errors.New("validation failed")

	// ErrQuotaExceeded indicates the user's message quota is exhausted.
	// Distinct from generic failure so clients can prompt for payment.
	ErrQuotaExceeded = errors.New("message quota exceeded")

	// ErrInvalidPlan indicates an unknown plan identifier.
	ErrInvalidPlan = errors.New("unknown plan")

	// ErrDuplicateGrant indicates a payment event that was already applied.
	// Payment providers redeliver webhooks; replay must not re-credit.
	ErrDuplicateGrant = errors.New("payment event already applied")

	// ErrUpstream indicates a completion- or payment-provider failure.
	// Never retried automatically; detail is logged, not leaked verbatim.
	ErrUpstream = errors.New("upstream provider failure")

	// ErrUnauthorized indicates authentication failure at the boundary.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates a ledger or store invariant violation.
	// Should never occur; surfaced as a fatal 500 rather than silently corrected.
	ErrInternal = errors.New("internal inconsistency")
)

// QuotaExceededError carries the user context a client needs to act on a 402.
type QuotaExceededError struct {
	UserID string
}

func (e *QuotaExceededError) Error() string {
	return "message quota exceeded for user " + e.UserID
}

func (e *QuotaExceededError) StatusCode() int { return http.StatusPaymentRequired }

// Is allows errors.Is() to match against ErrQuotaExceeded
func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// UpstreamError wraps a collaborator failure with its origin for diagnostics.
type UpstreamError struct {
	Collaborator string // "completion" or "payment"
	Err          error
}

func (e *UpstreamError) Error() string {
	return e.Collaborator + " provider failure: " + e.Err.Error()
}

func (e *UpstreamError) StatusCode() int { return http.StatusBadGateway }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is allows errors.Is() to match against ErrUpstream
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
