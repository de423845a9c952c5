package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*instrumentedGenerator)(nil)

// instrumentedGenerator decorates any TextGenerator with call, retry and
// prompt-token metrics, keeping the generation logic itself metric-free.
type instrumentedGenerator struct {
	inner adapter.TextGenerator
}

func WithMetrics(inner adapter.TextGenerator) adapter.TextGenerator {
	return &instrumentedGenerator{inner: inner}
}

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	name := g.inner.ModelName()
	metrics.AddPromptTokens(name, estimateTokens(prompt))

	text, err := g.inner.Generate(ctx, prompt)
	if err != nil {
		metrics.IncModelCall(name, "error")
		metrics.IncModelRetry(name)
		return "", err
	}
	metrics.IncModelCall(name, "ok")
	return text, nil
}

func (g *instrumentedGenerator) ModelName() string { return g.inner.ModelName() }

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// estimateTokens counts prompt tokens with the cl100k_base vocabulary,
// falling back to a whitespace split when the encoding cannot be loaded.
func estimateTokens(s string) int {
	encodingOnce.Do(func() {
		encoding, _ = tiktoken.GetEncoding("cl100k_base")
	})
	if encoding == nil {
		return len(strings.Fields(s))
	}
	return len(encoding.Encode(s, nil, nil))
}
