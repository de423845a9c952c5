package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/domain/ports/repository"
)

const maxChapters = 100

// GenerationUseCase is the application boundary the web layer talks to.
type GenerationUseCase interface {
	Submit(ctx context.Context, userID string, req model.GenerationRequest) (*model.GenerationJob, error)
	GetJob(ctx context.Context, userID, jobID string) (*model.GenerationJob, error)
	ListApostilas(ctx context.Context, userID string) ([]*model.Apostila, error)
	DownloadURL(ctx context.Context, userID, apostilaID string) (string, error)
}

type generationUC struct {
	jobs      repository.GenerationJobRepository
	apostilas repository.ApostilaRepository
	storage   adapter.ObjectStorage
	signTTL   time.Duration
	log       *zerolog.Logger
}

var _ GenerationUseCase = (*generationUC)(nil)

func NewGenerationUseCase(
	jobs repository.GenerationJobRepository,
	apostilas repository.ApostilaRepository,
	storage adapter.ObjectStorage,
	signTTL time.Duration,
	log *zerolog.Logger,
) GenerationUseCase {
	if signTTL <= 0 {
		signTTL = time.Hour
	}
	return &generationUC{
		jobs:      jobs,
		apostilas: apostilas,
		storage:   storage,
		signTTL:   signTTL,
		log:       log,
	}
}

// Submit validates the request and enqueues a pending job. Workers pick it
// up through FetchAndMarkProcessing; nothing runs inline.
func (uc *generationUC) Submit(ctx context.Context, userID string, req model.GenerationRequest) (*model.GenerationJob, error) {
	req.Theme = strings.TrimSpace(req.Theme)
	req.TechnicalArea = strings.TrimSpace(req.TechnicalArea)
	req.TargetAudience = strings.TrimSpace(req.TargetAudience)

	if req.Theme == "" {
		return nil, fmt.Errorf("%w: tema é obrigatório", domain.ErrInvalidArgument)
	}
	if req.NumChapters < 1 || req.NumChapters > maxChapters {
		return nil, fmt.Errorf("%w: número de capítulos deve estar entre 1 e %d", domain.ErrInvalidArgument, maxChapters)
	}

	job := model.NewGenerationJob(ulid.Make().String(), userID, req)
	if err := uc.jobs.Save(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("salvando job: %w", err)
	}

	uc.log.Info().
		Str("job_id", job.ID).
		Str("user_id", userID).
		Int("chapters", req.NumChapters).
		Msg("generation job accepted")
	return job, nil
}

func (uc *generationUC) GetJob(ctx context.Context, userID, jobID string) (*model.GenerationJob, error) {
	job, err := uc.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func (uc *generationUC) ListApostilas(ctx context.Context, userID string) ([]*model.Apostila, error) {
	return uc.apostilas.ListByUser(ctx, nil, userID)
}

// DownloadURL re-signs a fresh URL for a stored apostila; signed URLs from
// job completion expire and clients are expected to call this instead of
// caching them.
func (uc *generationUC) DownloadURL(ctx context.Context, userID, apostilaID string) (string, error) {
	ap, err := uc.apostilas.FindByID(ctx, nil, apostilaID)
	if err != nil {
		return "", err
	}
	if ap.UserID != userID {
		return "", domain.ErrForbidden
	}
	if ap.BlobName == "" {
		return ap.StorageURL, nil
	}
	url, err := uc.storage.SignedURL(ctx, ap.BlobName, uc.signTTL)
	if err != nil {
		return "", fmt.Errorf("assinando url: %w", err)
	}
	return url, nil
}
