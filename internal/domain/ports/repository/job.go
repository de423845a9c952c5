package repository

import (
	"context"

	"apostila-generator/internal/domain/model"
)

// GenerationJobRepository persists the externally visible job record.
// Each write is a full-record rewrite of the mutable fields; the store must
// guarantee record-level atomicity so pollers never observe a partial update.
type GenerationJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.GenerationJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.GenerationJob, error)
	// FetchAndMarkProcessing atomically claims the oldest pending job and marks
	// it 'processing', so concurrent workers (or instances) never pick up the
	// same job. Returns domain.ErrNotFound when nothing is pending.
	FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error)
}
