package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/repository"
)

var _ repository.GenerationJobRepository = (*PostgresJobRepo)(nil)

type PostgresJobRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{pool: pool}
}

const jobColumns = `id, user_id, status, progress, current_step, content, apostila_id,
       download_url, error_message, request, created_at, updated_at`

func (r *PostgresJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	const q = `
INSERT INTO generation_jobs (
  id, user_id, status, progress, current_step, content, apostila_id,
  download_url, error_message, request, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  status=$3, progress=$4, current_step=$5, content=$6, apostila_id=$7,
  download_url=$8, error_message=$9, updated_at=$12;
`
	req, err := json.Marshal(job.Request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	job.UpdatedAt = time.Now()
	return execSQL(ctx, r.pool, tx, q,
		job.ID, job.UserID, string(job.Status), job.Progress, job.CurrentStep,
		job.Content, nullable(job.ApostilaID), nullable(job.DownloadURL),
		nullable(job.ErrorMessage), req, job.CreatedAt, job.UpdatedAt,
	)
}

func (r *PostgresJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+jobColumns+` FROM generation_jobs WHERE id=$1;`, id)
	return scanJob(row)
}

// FetchAndMarkProcessing claims the oldest pending job. SKIP LOCKED keeps
// concurrent workers from claiming the same row.
func (r *PostgresJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	const q = `
WITH next AS (
  SELECT id FROM generation_jobs
   WHERE status='pending'
   ORDER BY created_at
   LIMIT 1
   FOR UPDATE SKIP LOCKED
)
UPDATE generation_jobs j
   SET status='processing', updated_at=now()
  FROM next
 WHERE j.id = next.id
RETURNING ` + jobColumns + `;`
	return scanJob(r.pool.QueryRow(ctx, q))
}

func scanJob(row pgx.Row) (*model.GenerationJob, error) {
	var (
		j           model.GenerationJob
		status      string
		apostilaID  *string
		downloadURL *string
		errMessage  *string
		reqRaw      []byte
	)
	err := row.Scan(&j.ID, &j.UserID, &status, &j.Progress, &j.CurrentStep,
		&j.Content, &apostilaID, &downloadURL, &errMessage, &reqRaw,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	j.Status = model.JobStatus(status)
	j.ApostilaID = deref(apostilaID)
	j.DownloadURL = deref(downloadURL)
	j.ErrorMessage = deref(errMessage)
	if err := json.Unmarshal(reqRaw, &j.Request); err != nil {
		return nil, fmt.Errorf("%w: request payload: %v", domain.ErrReadDatabaseRow, err)
	}
	return &j, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
