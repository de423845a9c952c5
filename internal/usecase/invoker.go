package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/ports/adapter"
)

// ModelInvoker wraps the TextGenerator port with bounded retry. Transient
// provider failures are retried in place with a fixed delay; after maxRetries
// attempts the last error surfaces wrapped in domain.ErrModelUnavailable.
// It never substitutes fabricated content for model output.
type ModelInvoker struct {
	gen        adapter.TextGenerator
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	log        *zerolog.Logger
}

func NewModelInvoker(gen adapter.TextGenerator, maxRetries int, retryDelay time.Duration, log *zerolog.Logger) *ModelInvoker {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	return &ModelInvoker{
		gen:        gen,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		sleep:      sleepCtx,
		log:        log,
	}
}

func (m *ModelInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		text, err := m.gen.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		m.log.Warn().Err(err).Int("attempt", attempt).Int("max", m.maxRetries).Msg("model call failed")
		if attempt < m.maxRetries {
			if serr := m.sleep(ctx, m.retryDelay); serr != nil {
				return "", serr
			}
		}
	}
	return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
