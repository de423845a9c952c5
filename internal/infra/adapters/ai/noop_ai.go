package ai

import (
	"context"
	"strings"
	"time"

	"apostila-generator/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopAdapter)(nil)

// NoopAdapter is a dev/test generator that never calls a provider. It answers
// JSON-shaped prompts with minimal valid payloads so a full generation run
// completes end to end without credentials.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (a *NoopAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	switch {
	case strings.Contains(prompt, `"title"`):
		return `{"title": "Apostila de Demonstração"}`, nil
	case strings.Contains(prompt, "chapter_number"):
		return `[{"chapter_number": 1, "chapter_title": "Introdução", "chapter_description": "Visão geral do tema."}]`, nil
	default:
		return "Conteúdo de demonstração gerado localmente, sem chamada a um provedor de modelo.", nil
	}
}

func (a *NoopAdapter) ModelName() string { return "noop" }
