//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/repository"
)

func testJob() *model.GenerationJob {
	return model.NewGenerationJob("job-1", "user-1", model.GenerationRequest{Theme: "Go", NumChapters: 2})
}

func TestJobRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()

	t.Run("FindByID hits the cache first", func(t *testing.T) {
		cached, _ := json.Marshal(testJob())
		innerCalled := false

		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				if key != "job:job-1" {
					t.Fatalf("unexpected cache key %q", key)
				}
				return string(cached), nil
			},
		}
		inner := &mockInnerJobRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
				innerCalled = true
				return nil, nil
			},
		}

		decorator := NewJobRepoCacheDecorator(inner, mockRedis, time.Minute)
		job, err := decorator.FindByID(ctx, nil, "job-1")
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if innerCalled {
			t.Error("inner repository called despite cache hit")
		}
		if job.ID != "job-1" {
			t.Errorf("job.ID = %q", job.ID)
		}
	})

	t.Run("FindByID falls through and warms the cache on miss", func(t *testing.T) {
		var setKey string
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return "", redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey = key
				return nil
			},
		}
		inner := &mockInnerJobRepo{
			FindByIDFunc: func(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
				return testJob(), nil
			},
		}

		decorator := NewJobRepoCacheDecorator(inner, mockRedis, time.Minute)
		job, err := decorator.FindByID(ctx, nil, "job-1")
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if job == nil || job.ID != "job-1" {
			t.Fatalf("job = %+v", job)
		}
		if setKey != "job:job-1" {
			t.Errorf("cache not warmed, setKey = %q", setKey)
		}
	})

	t.Run("Save writes through to the cache", func(t *testing.T) {
		var setValue []byte
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setValue = value.([]byte)
				return nil
			},
		}
		saved := false
		inner := &mockInnerJobRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
				saved = true
				return nil
			},
		}

		decorator := NewJobRepoCacheDecorator(inner, mockRedis, time.Minute)
		job := testJob()
		job.Progress = 42
		if err := decorator.Save(ctx, nil, job); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if !saved {
			t.Error("inner Save not called")
		}
		var fromCache model.GenerationJob
		if err := json.Unmarshal(setValue, &fromCache); err != nil {
			t.Fatalf("cache value not valid JSON: %v", err)
		}
		if fromCache.Progress != 42 {
			t.Errorf("cached Progress = %d, want 42", fromCache.Progress)
		}
	})

	t.Run("transactional Save invalidates instead of caching", func(t *testing.T) {
		var deleted []string
		setCalled := false
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setCalled = true
				return nil
			},
			DelFunc: func(ctx context.Context, keys ...string) error {
				deleted = append(deleted, keys...)
				return nil
			},
		}
		inner := &mockInnerJobRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
				return nil
			},
		}

		decorator := NewJobRepoCacheDecorator(inner, mockRedis, time.Minute)
		if err := decorator.Save(ctx, struct{}{}, testJob()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if setCalled {
			t.Error("uncommitted state cached during a transaction")
		}
		if len(deleted) != 1 || deleted[0] != "job:job-1" {
			t.Errorf("deleted keys = %v", deleted)
		}
	})

	t.Run("failed Save invalidates instead of caching", func(t *testing.T) {
		var deleted []string
		setCalled := false
		mockRedis := &mockRedisClient{
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setCalled = true
				return nil
			},
			DelFunc: func(ctx context.Context, keys ...string) error {
				deleted = append(deleted, keys...)
				return nil
			},
		}
		inner := &mockInnerJobRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
				return context.DeadlineExceeded
			},
		}

		decorator := NewJobRepoCacheDecorator(inner, mockRedis, time.Minute)
		if err := decorator.Save(ctx, nil, testJob()); err == nil {
			t.Fatal("Save error swallowed")
		}
		if setCalled {
			t.Error("stale value cached after failed save")
		}
		if len(deleted) != 1 || deleted[0] != "job:job-1" {
			t.Errorf("deleted keys = %v", deleted)
		}
	})
}
