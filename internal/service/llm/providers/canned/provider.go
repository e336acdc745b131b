// Package canned provides a deterministic offline completion provider for
// dev environments without an API key.
package canned

import (
	"context"
	"fmt"

	"verbum/internal/domain/models"
	"verbum/internal/domain/services"
)

// Provider echoes a canned reply referencing the last user turn.
type Provider struct{}

var _ services.CompletionProvider = (*Provider)(nil)

// NewProvider creates a new canned provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Complete returns a deterministic reply built from the prompt.
func (p *Provider) Complete(_ context.Context, prompt []models.Turn, _ float64) (string, error) {
	last := ""
	for _, turn := range prompt {
		if turn.Role == models.RoleUser {
			last = turn.Content
		}
	}
	return fmt.Sprintf("[canned reply to %q after %d turns]", last, len(prompt)-1), nil
}
