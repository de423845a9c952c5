package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/ports/repository"
	"apostila-generator/internal/infra/logging"
	"apostila-generator/internal/infra/metrics"
	"apostila-generator/internal/usecase"
)

// GenerationProcessor polls for pending jobs and hands each claimed job to
// the runner on the worker pool. Claiming goes through
// FetchAndMarkProcessing, so multiple instances can share one queue.
type GenerationProcessor struct {
	jobs         repository.GenerationJobRepository
	runner       *usecase.Runner
	pollInterval time.Duration
	log          *zerolog.Logger
}

func NewGenerationProcessor(
	jobs repository.GenerationJobRepository,
	runner *usecase.Runner,
	pollInterval time.Duration,
	log *zerolog.Logger,
) *GenerationProcessor {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &GenerationProcessor{
		jobs:         jobs,
		runner:       runner,
		pollInterval: pollInterval,
		log:          log,
	}
}

// Start runs the claim loop until ctx is canceled. Run it in a goroutine.
func (p *GenerationProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Dur("poll_interval", p.pollInterval).Msg("generation processor started")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("generation processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.processOne(ctx)
				return nil
			})
		}
	}
}

func (p *GenerationProcessor) processOne(ctx context.Context) {
	job, err := p.jobs.FetchAndMarkProcessing(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("failed to claim generation job")
		}
		return
	}

	ctx = logging.WithJobID(ctx, job.ID)
	ctx = logging.WithUserID(ctx, job.UserID)
	p.log.Info().Str("job_id", job.ID).Msg("generation job claimed")

	p.runner.Run(ctx, job)
	if job.Status.Terminal() {
		metrics.IncGenerationJob(string(job.Status))
	}
}
