package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/repository"
)

var _ repository.ApostilaRepository = (*PostgresApostilaRepo)(nil)

type PostgresApostilaRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresApostilaRepo(pool *pgxpool.Pool) *PostgresApostilaRepo {
	return &PostgresApostilaRepo{pool: pool}
}

const apostilaColumns = `id, user_id, title, theme, technical_area, target_audience,
       num_chapters, storage_url, blob_name, file_size_bytes, created_at`

func (r *PostgresApostilaRepo) Save(ctx context.Context, tx repository.Tx, a *model.Apostila) error {
	const q = `
INSERT INTO apostilas (
  id, user_id, title, theme, technical_area, target_audience,
  num_chapters, storage_url, blob_name, file_size_bytes, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
) ON CONFLICT (id) DO UPDATE SET
  storage_url=$8, blob_name=$9, file_size_bytes=$10;
`
	return execSQL(ctx, r.pool, tx, q,
		a.ID, a.UserID, a.Title, a.Theme, a.TechnicalArea, a.TargetAudience,
		a.NumChapters, a.StorageURL, nullable(a.BlobName), a.FileSizeBytes, a.CreatedAt,
	)
}

func (r *PostgresApostilaRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Apostila, error) {
	row := pickRow(ctx, r.pool, tx, `SELECT `+apostilaColumns+` FROM apostilas WHERE id=$1;`, id)
	return scanApostila(row)
}

func (r *PostgresApostilaRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Apostila, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, `SELECT `+apostilaColumns+` FROM apostilas WHERE user_id=$1 ORDER BY created_at DESC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("list apostilas: %w", err)
	}
	defer rows.Close()

	var out []*model.Apostila
	for rows.Next() {
		a, err := scanApostila(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApostila(row pgx.Row) (*model.Apostila, error) {
	var (
		a        model.Apostila
		blobName *string
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Theme, &a.TechnicalArea,
		&a.TargetAudience, &a.NumChapters, &a.StorageURL, &blobName,
		&a.FileSizeBytes, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrReadDatabaseRow, err)
	}
	a.BlobName = deref(blobName)
	return &a, nil
}
