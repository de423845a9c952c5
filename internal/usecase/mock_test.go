package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/domain/ports/repository"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func noSleep(context.Context, time.Duration) error { return nil }

// scriptedGenerator replays canned responses in call order. An entry with a
// non-nil err fails that call.
type scriptedGenerator struct {
	mu      sync.Mutex
	script  []scriptedReply
	calls   int
	prompts []string
}

type scriptedReply struct {
	text string
	err  error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.calls >= len(g.script) {
		g.calls++
		return "", fmt.Errorf("unscripted call %d", g.calls)
	}
	r := g.script[g.calls]
	g.calls++
	return r.text, r.err
}

func (g *scriptedGenerator) ModelName() string { return "scripted" }

type mockJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.GenerationJob
	// saves records every persisted snapshot in order, for progress assertions.
	saves   []model.GenerationJob
	saveErr error
}

var _ repository.GenerationJobRepository = (*mockJobRepo)(nil)

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.GenerationJob)}
}

func (r *mockJobRepo) Save(_ context.Context, _ repository.Tx, job *model.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *job
	r.jobs[job.ID] = &cp
	r.saves = append(r.saves, cp)
	return nil
}

func (r *mockJobRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *mockJobRepo) FetchAndMarkProcessing(context.Context) (*model.GenerationJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.Status == model.JobStatusPending {
			job.Status = model.JobStatusProcessing
			cp := *job
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type mockApostilaRepo struct {
	mu      sync.Mutex
	items   map[string]*model.Apostila
	saveErr error
}

var _ repository.ApostilaRepository = (*mockApostilaRepo)(nil)

func newMockApostilaRepo() *mockApostilaRepo {
	return &mockApostilaRepo{items: make(map[string]*model.Apostila)}
}

func (r *mockApostilaRepo) Save(_ context.Context, _ repository.Tx, a *model.Apostila) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *mockApostilaRepo) FindByID(_ context.Context, _ repository.Tx, id string) (*model.Apostila, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *mockApostilaRepo) ListByUser(_ context.Context, _ repository.Tx, userID string) ([]*model.Apostila, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Apostila
	for _, a := range r.items {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// mockTxManager runs the callback outside any transaction.
type mockTxManager struct{}

var _ repository.TransactionManager = mockTxManager{}

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type mockStorage struct {
	uploadErr error
	signErr   error
	uploaded  []string
}

var _ adapter.ObjectStorage = (*mockStorage)(nil)

func (s *mockStorage) Upload(_ context.Context, localPath, name string) (adapter.UploadResult, error) {
	if s.uploadErr != nil {
		return adapter.UploadResult{}, s.uploadErr
	}
	s.uploaded = append(s.uploaded, localPath)
	return adapter.UploadResult{
		PublicURL: "https://storage.test/" + name,
		BlobName:  "apostilas/" + name,
		SizeBytes: 1024,
	}, nil
}

func (s *mockStorage) SignedURL(_ context.Context, blobName string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.test/signed/" + blobName, nil
}

func (s *mockStorage) Delete(context.Context, string) error { return nil }

type mockExporter struct {
	path string
	err  error
	docs []adapter.BookDocument
}

var _ adapter.DocumentExporter = (*mockExporter)(nil)

func (e *mockExporter) Export(_ context.Context, doc adapter.BookDocument) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.docs = append(e.docs, doc)
	return e.path, nil
}
