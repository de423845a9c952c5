package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
)

func TestGenerationUC_Submit(t *testing.T) {
	jobs := newMockJobRepo()
	uc := NewGenerationUseCase(jobs, newMockApostilaRepo(), &mockStorage{}, time.Hour, nopLogger())

	t.Run("valid request enqueues a pending job", func(t *testing.T) {
		job, err := uc.Submit(context.Background(), "user-1", model.GenerationRequest{
			Theme:       "  Microsserviços  ",
			NumChapters: 5,
		})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if job.ID == "" {
			t.Fatalf("job ID empty")
		}
		if job.Status != model.JobStatusPending {
			t.Fatalf("Status = %q", job.Status)
		}
		if job.Request.Theme != "Microsserviços" {
			t.Fatalf("Theme = %q, want trimmed", job.Request.Theme)
		}
		if _, err := jobs.FindByID(context.Background(), nil, job.ID); err != nil {
			t.Fatalf("job not persisted: %v", err)
		}
	})

	t.Run("empty theme is rejected", func(t *testing.T) {
		_, err := uc.Submit(context.Background(), "user-1", model.GenerationRequest{Theme: "   ", NumChapters: 3})
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("err = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("chapter count bounds", func(t *testing.T) {
		for _, n := range []int{0, -1, 101} {
			_, err := uc.Submit(context.Background(), "user-1", model.GenerationRequest{Theme: "X", NumChapters: n})
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("NumChapters=%d: err = %v, want ErrInvalidArgument", n, err)
			}
		}
	})
}

func TestGenerationUC_GetJob(t *testing.T) {
	jobs := newMockJobRepo()
	uc := NewGenerationUseCase(jobs, newMockApostilaRepo(), &mockStorage{}, time.Hour, nopLogger())

	job, err := uc.Submit(context.Background(), "owner", model.GenerationRequest{Theme: "X", NumChapters: 1})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	t.Run("owner reads the job", func(t *testing.T) {
		got, err := uc.GetJob(context.Background(), "owner", job.ID)
		if err != nil {
			t.Fatalf("GetJob: %v", err)
		}
		if got.ID != job.ID {
			t.Fatalf("ID = %q", got.ID)
		}
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := uc.GetJob(context.Background(), "intruder", job.ID)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("unknown job is not found", func(t *testing.T) {
		_, err := uc.GetJob(context.Background(), "owner", "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestGenerationUC_DownloadURL(t *testing.T) {
	apostilas := newMockApostilaRepo()
	uc := NewGenerationUseCase(newMockJobRepo(), apostilas, &mockStorage{}, time.Hour, nopLogger())

	stored := &model.Apostila{ID: "ap-1", UserID: "owner", BlobName: "apostilas/a.html", StorageURL: "https://storage.test/a.html"}
	if err := apostilas.Save(context.Background(), nil, stored); err != nil {
		t.Fatalf("seed: %v", err)
	}
	local := &model.Apostila{ID: "ap-2", UserID: "owner", StorageURL: "file:///tmp/a.html"}
	if err := apostilas.Save(context.Background(), nil, local); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("re-signs stored blobs", func(t *testing.T) {
		url, err := uc.DownloadURL(context.Background(), "owner", "ap-1")
		if err != nil {
			t.Fatalf("DownloadURL: %v", err)
		}
		if url != "https://storage.test/signed/apostilas/a.html" {
			t.Fatalf("url = %q", url)
		}
	})

	t.Run("local artifacts return their stored reference", func(t *testing.T) {
		url, err := uc.DownloadURL(context.Background(), "owner", "ap-2")
		if err != nil {
			t.Fatalf("DownloadURL: %v", err)
		}
		if url != "file:///tmp/a.html" {
			t.Fatalf("url = %q", url)
		}
	})

	t.Run("ownership enforced", func(t *testing.T) {
		_, err := uc.DownloadURL(context.Background(), "intruder", "ap-1")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("err = %v, want ErrForbidden", err)
		}
	})
}
