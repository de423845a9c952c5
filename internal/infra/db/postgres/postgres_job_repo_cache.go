package postgres

import (
	"context"
	"encoding/json"
	"time"

	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/repository"
	"apostila-generator/internal/infra/metrics"
	red "apostila-generator/internal/infra/redis"
)

var _ repository.GenerationJobRepository = (*jobRepoCacheDecorator)(nil)

// jobRepoCacheDecorator keeps the hot polling path off Postgres. Jobs mutate
// while running, so Save writes through to the cache instead of only
// invalidating; the TTL keeps abandoned entries short-lived.
type jobRepoCacheDecorator struct {
	inner repository.GenerationJobRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewJobRepoCacheDecorator(inner repository.GenerationJobRepository, cache red.RedisClient, ttl time.Duration) repository.GenerationJobRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &jobRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func jobCacheKey(id string) string { return "job:" + id }

func (d *jobRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	if err := d.inner.Save(ctx, tx, job); err != nil {
		_ = d.cache.Del(ctx, jobCacheKey(job.ID))
		return err
	}
	if tx != nil {
		// The enclosing transaction may still roll back; pollers must not see
		// uncommitted state, so invalidate and let the next read warm the key.
		_ = d.cache.Del(ctx, jobCacheKey(job.ID))
		return nil
	}
	if bytes, err := json.Marshal(job); err == nil {
		_ = d.cache.Set(ctx, jobCacheKey(job.ID), bytes, d.ttl)
	}
	return nil
}

func (d *jobRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	val, err := d.cache.Get(ctx, jobCacheKey(id))
	if err == nil {
		var job model.GenerationJob
		if json.Unmarshal([]byte(val), &job) == nil {
			metrics.IncCacheRequest("job", "hit")
			return &job, nil
		}
	}

	metrics.IncCacheRequest("job", "miss")
	job, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(job); err == nil {
		_ = d.cache.Set(ctx, jobCacheKey(id), bytes, d.ttl)
	}
	return job, nil
}

// FetchAndMarkProcessing is a queue claim, not a lookup; it always goes to
// the database.
func (d *jobRepoCacheDecorator) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	job, err := d.inner.FetchAndMarkProcessing(ctx)
	if err != nil {
		return nil, err
	}
	if bytes, merr := json.Marshal(job); merr == nil {
		_ = d.cache.Set(ctx, jobCacheKey(job.ID), bytes, d.ttl)
	}
	return job, nil
}
