//go:build !integration

package postgres

import (
	"context"
	"time"

	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/repository"
	red "apostila-generator/internal/infra/redis"
)

// mockInnerJobRepo mocks the database repository the cache decorator wraps.
type mockInnerJobRepo struct {
	SaveFunc                   func(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error
	FindByIDFunc               func(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error)
	FetchAndMarkProcessingFunc func(ctx context.Context) (*model.GenerationJob, error)
}

func (m *mockInnerJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	return m.SaveFunc(ctx, tx, job)
}

func (m *mockInnerJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	return m.FindByIDFunc(ctx, tx, id)
}

func (m *mockInnerJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.GenerationJob, error) {
	return m.FetchAndMarkProcessingFunc(ctx)
}

type mockRedisClient struct {
	PingFunc func(ctx context.Context) error
	SetFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetFunc  func(ctx context.Context, key string) (string, error)
	DelFunc  func(ctx context.Context, keys ...string) error
}

var _ red.RedisClient = (*mockRedisClient)(nil)

func (m *mockRedisClient) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }
