package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/adapter"
	"apostila-generator/internal/domain/ports/repository"
	"apostila-generator/internal/infra/logging"
)

// Runner drives one job through the stage pipeline to a terminal status.
// It is the single writer of the job record for the duration of the run;
// stages never touch the job, only the in-memory workflow state.
type Runner struct {
	jobs      repository.GenerationJobRepository
	apostilas repository.ApostilaRepository
	tm        repository.TransactionManager
	storage   adapter.ObjectStorage
	pipeline  StageExecutor
	timeout   time.Duration
	signTTL   time.Duration
	now       func() time.Time
	log       *zerolog.Logger
}

func NewRunner(
	jobs repository.GenerationJobRepository,
	apostilas repository.ApostilaRepository,
	tm repository.TransactionManager,
	storage adapter.ObjectStorage,
	pipeline StageExecutor,
	timeout time.Duration,
	signTTL time.Duration,
	log *zerolog.Logger,
) *Runner {
	if timeout <= 0 {
		timeout = 60 * time.Minute
	}
	if signTTL <= 0 {
		signTTL = time.Hour
	}
	return &Runner{
		jobs:      jobs,
		apostilas: apostilas,
		tm:        tm,
		storage:   storage,
		pipeline:  pipeline,
		timeout:   timeout,
		signTTL:   signTTL,
		now:       time.Now,
		log:       log,
	}
}

// Run executes the job to a terminal status. The job must already be marked
// processing by whoever claimed it.
func (r *Runner) Run(ctx context.Context, job *model.GenerationJob) {
	log := logging.With(ctx, r.log)
	if job.Status.Terminal() {
		log.Warn().Str("status", string(job.Status)).Msg("job already terminal, nothing to run")
		return
	}

	st := model.NewWorkflowState(
		job.Request.Theme,
		job.Request.TechnicalArea,
		job.Request.TargetAudience,
		job.Request.NumChapters,
	)
	totalSteps := 2 + st.NumChapters + 2

	job.CurrentStep = "Iniciando geração..."
	r.persist(ctx, job, log)

	for {
		if r.now().Sub(job.CreatedAt) > r.timeout {
			log.Warn().Dur("timeout", r.timeout).Msg("job exceeded wall-clock ceiling")
			r.finish(job, model.JobStatusTimeout,
				fmt.Sprintf("geração excedeu o tempo máximo de %d minutos", int(r.timeout.Minutes())), log)
			return
		}

		stage := Route(st.Status)
		if stage == StageTerminal {
			break
		}

		traced := logging.TraceDuration(log, "Pipeline."+string(stage))
		patch, err := r.pipeline.Execute(ctx, stage, st)
		traced()
		if err != nil {
			log.Error().Err(err).Str("stage", string(stage)).Msg("stage failed")
			r.finish(job, model.JobStatusFailed, err.Error(), log)
			return
		}
		if err := st.Apply(patch); err != nil {
			log.Error().Err(err).Str("stage", string(stage)).Msg("stage patch rejected")
			r.finish(job, model.JobStatusFailed, err.Error(), log)
			return
		}

		step, desc := progressAfter(st)
		job.AdvanceProgress(preTerminalProgress(step, totalSteps))
		job.CurrentStep = fmt.Sprintf("Etapa %d/%d: %s", step, totalSteps, desc)
		job.AppendContent(announce(stage, st, patch))
		r.persist(ctx, job, log)
	}

	if st.Status != model.WorkflowExported {
		// The router's defensive default ended the loop without an exported
		// artifact; surface it instead of reporting success.
		r.finish(job, model.JobStatusFailed,
			fmt.Sprintf("workflow parou em status inesperado %q", st.Status), log)
		return
	}

	r.finalize(ctx, job, st, log)
}

// finalize uploads the artifact, records the apostila and completes the job.
// An upload or persistence failure after successful generation never loses
// content: the job still completes, keeping a local artifact reference.
func (r *Runner) finalize(ctx context.Context, job *model.GenerationJob, st *model.WorkflowState, log *zerolog.Logger) {
	if st.ExportPath == "" {
		log.Warn().Msg("job finished without an export artifact")
		job.CurrentStep = "Geração concluída (sem arquivo)"
		r.complete(job, log)
		return
	}

	name := safeFileName(st.Title) + filepath.Ext(st.ExportPath)
	res, uploadErr := r.storage.Upload(ctx, st.ExportPath, name)
	if uploadErr != nil {
		log.Error().Err(uploadErr).Msg("artifact upload failed, keeping local copy")
		res = adapter.UploadResult{
			PublicURL: "file://" + st.ExportPath,
			SizeBytes: fileSize(st.ExportPath),
		}
	}

	ap := &model.Apostila{
		ID:             uuid.NewString(),
		UserID:         job.UserID,
		Title:          st.Title,
		Theme:          st.Theme,
		TechnicalArea:  st.TechnicalArea,
		TargetAudience: st.TargetAudience,
		NumChapters:    st.NumChapters,
		StorageURL:     res.PublicURL,
		BlobName:       res.BlobName,
		FileSizeBytes:  res.SizeBytes,
		CreatedAt:      r.now(),
	}
	// The catalog row and the job's pointer to it land together or not at all.
	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := r.apostilas.Save(ctx, tx, ap); err != nil {
			return err
		}
		job.ApostilaID = ap.ID
		return r.jobs.Save(ctx, tx, job)
	})
	if err != nil {
		job.ApostilaID = ""
		log.Error().Err(err).Msg("could not persist apostila record")
	} else {
		log.Info().Str("apostila_id", ap.ID).Int64("bytes", res.SizeBytes).Msg("apostila stored")
	}

	if res.BlobName != "" {
		if url, err := r.storage.SignedURL(ctx, res.BlobName, r.signTTL); err == nil {
			job.DownloadURL = url
		} else {
			log.Error().Err(err).Msg("could not sign download url")
		}
	}
	if job.DownloadURL == "" {
		job.DownloadURL = res.PublicURL
	}

	job.CurrentStep = "Geração concluída!"
	r.complete(job, log)

	if uploadErr == nil {
		removeIfTemp(st.ExportPath, log)
	}
}

func (r *Runner) complete(job *model.GenerationJob, log *zerolog.Logger) {
	job.Status = model.JobStatusCompleted
	job.AdvanceProgress(100)
	job.ErrorMessage = ""
	// Final write uses a background context so shutdown cannot drop the
	// terminal status.
	r.persist(context.Background(), job, log)
	log.Info().Int("progress", job.Progress).Msg("job completed")
}

func (r *Runner) finish(job *model.GenerationJob, status model.JobStatus, msg string, log *zerolog.Logger) {
	job.Status = status
	job.ErrorMessage = msg
	r.persist(context.Background(), job, log)
}

func (r *Runner) persist(ctx context.Context, job *model.GenerationJob, log *zerolog.Logger) {
	if err := r.jobs.Save(ctx, nil, job); err != nil {
		log.Error().Err(err).Msg("could not persist job record")
	}
}

// progressAfter derives the completed step count and a description from the
// state just reached. Steps: title, outline, N chapters, review, export.
func progressAfter(st *model.WorkflowState) (int, string) {
	n := st.NumChapters
	switch st.Status {
	case model.WorkflowInfoCollected:
		return 1, "Título gerado"
	case model.WorkflowOutlineCreated:
		return 2, fmt.Sprintf("Sumário criado, escrevendo capítulo 1/%d...", n)
	case model.WorkflowChapterWritten:
		written := st.CurrentChapter - 1
		return 2 + written, fmt.Sprintf("Capítulo %d/%d concluído", written, n)
	case model.WorkflowAllChaptersDone:
		return 2 + n, "Todos os capítulos escritos, revisando..."
	case model.WorkflowReviewed:
		return 2 + n + 1, "Revisão concluída"
	case model.WorkflowFeedbackExported:
		return 2 + n + 1, "Preparando documento final..."
	case model.WorkflowExported:
		return 2 + n + 2, "Documento final gerado"
	default:
		return 0, ""
	}
}

// preTerminalProgress converts a step counter into a percentage, capped at 99:
// 100 is reserved for the terminal completed write.
func preTerminalProgress(step, total int) int {
	if total <= 0 || step <= 0 {
		return 0
	}
	v := step * 100 / total
	if v > 99 {
		v = 99
	}
	return v
}

// announce returns the markdown fragment a stage contributes to the job's
// live content buffer, mirroring what the drafted document accumulates.
func announce(stage StageID, st *model.WorkflowState, patch model.StatePatch) string {
	switch stage {
	case StageCollectInfo:
		return fmt.Sprintf("# %s\n\n", st.Title)
	case StageOutline:
		var b strings.Builder
		b.WriteString("## Sumário\n\n")
		for _, e := range st.Outline {
			fmt.Fprintf(&b, "### Capítulo %d: %s\n*%s*\n\n", e.Number, e.Title, e.Description)
		}
		return b.String()
	case StageDraftChapter:
		for _, ch := range patch.Chapters {
			return ch.Content + "\n\n"
		}
		return ""
	default:
		return ""
	}
}

func safeFileName(title string) string {
	s := strings.TrimSpace(title)
	if s == "" {
		s = "apostila"
	}
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			return '_'
		}
		return r
	}, s)
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// removeIfTemp deletes the artifact only when it resolves under the OS temp
// root, so a misconfigured exporter can never cause unrelated deletions.
func removeIfTemp(path string, log *zerolog.Logger) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return
	}
	tempRoot, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		return
	}
	if !strings.HasPrefix(real, tempRoot+string(os.PathSeparator)) {
		log.Warn().Str("path", path).Msg("artifact outside temp root, not removing")
		return
	}
	if err := os.Remove(real); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not remove temp artifact")
	}
}
