package services

import (
	"context"

	"verbum/internal/domain/models"
)

// CompletionProvider is the opaque completion boundary: an ordered prompt
// and a sampling temperature in, reply text out. Any failure (network,
// provider-side quota, malformed response) surfaces as an error the gate
// maps to a uniform upstream-failure outcome.
type CompletionProvider interface {
	Complete(ctx context.Context, prompt []models.Turn, temperature float64) (string, error)
}
