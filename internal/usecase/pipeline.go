package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"apostila-generator/internal/domain"
	"apostila-generator/internal/domain/model"
	"apostila-generator/internal/domain/ports/adapter"
)

// pathUnsafe are the characters stripped from generated titles before they
// can become file names.
const pathUnsafe = `,\/:*?"<>|`

// StageExecutor runs one pipeline stage against a workflow state.
type StageExecutor interface {
	Execute(ctx context.Context, stage StageID, st *model.WorkflowState) (model.StatePatch, error)
}

// Pipeline executes individual stages against a workflow state. Each stage
// reads the state and returns a sparse StatePatch; it never mutates the state
// directly. Stage failures (adapter exhaustion, corrupt state) are hard stops
// for the job; malformed model output is recovered via typed fallbacks.
var _ StageExecutor = (*Pipeline)(nil)

type Pipeline struct {
	invoker      *ModelInvoker
	exporter     adapter.DocumentExporter
	chapterDelay time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	log          *zerolog.Logger
}

func NewPipeline(invoker *ModelInvoker, exporter adapter.DocumentExporter, chapterDelay time.Duration, log *zerolog.Logger) *Pipeline {
	return &Pipeline{
		invoker:      invoker,
		exporter:     exporter,
		chapterDelay: chapterDelay,
		sleep:        sleepCtx,
		log:          log,
	}
}

// Execute runs one stage and returns its patch.
func (p *Pipeline) Execute(ctx context.Context, stage StageID, st *model.WorkflowState) (model.StatePatch, error) {
	switch stage {
	case StageCollectInfo:
		return p.collectInfo(ctx, st)
	case StageOutline:
		return p.createOutline(ctx, st)
	case StageDraftChapter:
		return p.draftChapter(ctx, st)
	case StageReview:
		return p.review(ctx, st)
	case StagePackageFeedback:
		return p.packageFeedback(ctx, st)
	case StageExport:
		return p.export(ctx, st)
	default:
		return model.StatePatch{}, fmt.Errorf("%w: unknown stage %q", domain.ErrStageFailed, stage)
	}
}

type titlePayload struct {
	Title string `json:"title"`
}

func fallbackTitle(theme string) string {
	return "Apostila sobre " + theme
}

func sanitizeTitle(raw, theme string) string {
	t := strings.TrimSpace(raw)
	t = strings.Map(func(r rune) rune {
		if strings.ContainsRune(pathUnsafe, r) {
			return -1
		}
		return r
	}, t)
	t = strings.TrimSpace(t)
	if t == "" {
		t = fallbackTitle(theme)
	}
	if r := []rune(t); len(r) > 80 {
		t = strings.TrimSpace(string(r[:80]))
	}
	return t
}

// collectInfo fills request defaults and generates the title.
func (p *Pipeline) collectInfo(ctx context.Context, st *model.WorkflowState) (model.StatePatch, error) {
	theme := strings.TrimSpace(st.Theme)
	if theme == "" {
		theme = "Um tema genérico"
	}
	area := strings.TrimSpace(st.TechnicalArea)
	if area == "" {
		area = "Não especificada"
	}
	audience := strings.TrimSpace(st.TargetAudience)
	if audience == "" {
		audience = "Adultos"
	}

	resp, err := p.invoker.Invoke(ctx, titlePrompt(theme, area, audience))
	if err != nil {
		return model.StatePatch{}, fmt.Errorf("generate title: %w", err)
	}
	parsed := decodeWithFallback(p.log, resp, titlePayload{Title: fallbackTitle(theme)})
	title := sanitizeTitle(parsed.Title, theme)
	p.log.Info().Str("title", title).Msg("title generated")

	return model.StatePatch{
		Theme:          &theme,
		TechnicalArea:  &area,
		TargetAudience: &audience,
		Title:          &title,
		Status:         model.WorkflowInfoCollected,
	}, nil
}

type outlineItem struct {
	Number      int    `json:"chapter_number"`
	Title       string `json:"chapter_title"`
	Description string `json:"chapter_description"`
}

// createOutline asks for exactly N chapter descriptors and normalizes the
// answer so the outline always has N contiguously numbered entries: model
// extras are clamped, shortfalls are padded with placeholder chapters.
func (p *Pipeline) createOutline(ctx context.Context, st *model.WorkflowState) (model.StatePatch, error) {
	resp, err := p.invoker.Invoke(ctx, outlinePrompt(st))
	if err != nil {
		return model.StatePatch{}, fmt.Errorf("generate outline: %w", err)
	}
	items := decodeWithFallback(p.log, resp, []outlineItem{{
		Number:      1,
		Title:       "Introdução",
		Description: fmt.Sprintf("Exploração inicial do tema %s.", st.Theme),
	}})

	n := st.NumChapters
	if len(items) > n {
		items = items[:n]
	}
	for len(items) < n {
		i := len(items) + 1
		items = append(items, outlineItem{
			Number:      i,
			Title:       fmt.Sprintf("Capítulo %d", i),
			Description: fmt.Sprintf("Continuação da exploração de %s.", st.Theme),
		})
	}

	outline := make([]model.OutlineEntry, n)
	chapters := make(map[int]*model.Chapter, n)
	for i, it := range items {
		num := i + 1 // renumber: contiguity beats whatever the model emitted
		outline[i] = model.OutlineEntry{Number: num, Title: it.Title, Description: it.Description}
		chapters[num] = &model.Chapter{Title: it.Title, Description: it.Description}
	}
	p.log.Info().Int("chapters", n).Msg("outline created")

	first := 1
	return model.StatePatch{
		Outline:        outline,
		Chapters:       chapters,
		CurrentChapter: &first,
		Status:         model.WorkflowOutlineCreated,
	}, nil
}

// draftChapter writes the chapter the pointer designates. When the pointer is
// already past the last chapter it only advances the status, without a model
// call.
func (p *Pipeline) draftChapter(ctx context.Context, st *model.WorkflowState) (model.StatePatch, error) {
	current := st.CurrentChapter
	if current > st.NumChapters {
		return model.StatePatch{Status: model.WorkflowAllChaptersDone}, nil
	}
	ch, ok := st.Chapters[current]
	if !ok {
		return model.StatePatch{}, fmt.Errorf("%w: no outline entry for chapter %d", domain.ErrStageFailed, current)
	}

	p.log.Info().Int("chapter", current).Str("title", ch.Title).Msg("drafting chapter")
	resp, err := p.invoker.Invoke(ctx, chapterPrompt(st, current, ch, previousChapterSummary(st, current)))
	if err != nil {
		return model.StatePatch{}, fmt.Errorf("draft chapter %d: %w", current, err)
	}

	next := current + 1
	status := model.WorkflowChapterWritten
	if next > st.NumChapters {
		status = model.WorkflowAllChaptersDone
	}

	// Pacing between drafts to respect upstream rate limits.
	_ = p.sleep(ctx, p.chapterDelay)

	return model.StatePatch{
		Chapters: map[int]*model.Chapter{
			current: {Title: ch.Title, Description: ch.Description, Content: resp},
		},
		CurrentChapter: &next,
		Status:         status,
	}, nil
}

// review asks for qualitative editorial feedback over the whole outline.
// The answer is prose, stored raw.
func (p *Pipeline) review(ctx context.Context, st *model.WorkflowState) (model.StatePatch, error) {
	resp, err := p.invoker.Invoke(ctx, reviewPrompt(st))
	if err != nil {
		return model.StatePatch{}, fmt.Errorf("generate review: %w", err)
	}
	return model.StatePatch{
		Feedback: &resp,
		Status:   model.WorkflowReviewed,
	}, nil
}

// packageFeedback marks the feedback as embedded in the eventual export.
// No model call and no separate feedback artifact.
func (p *Pipeline) packageFeedback(_ context.Context, _ *model.WorkflowState) (model.StatePatch, error) {
	return model.StatePatch{Status: model.WorkflowFeedbackExported}, nil
}

// export hands the finished book to the exporter collaborator.
func (p *Pipeline) export(ctx context.Context, st *model.WorkflowState) (model.StatePatch, error) {
	doc := adapter.BookDocument{
		Title:          st.Title,
		Theme:          st.Theme,
		TechnicalArea:  st.TechnicalArea,
		TargetAudience: st.TargetAudience,
		Feedback:       st.Feedback,
	}
	for _, num := range st.ChapterNumbers() {
		ch := st.Chapters[num]
		doc.Chapters = append(doc.Chapters, adapter.BookChapter{Number: num, Title: ch.Title, Content: ch.Content})
	}

	path, err := p.exporter.Export(ctx, doc)
	if err != nil {
		return model.StatePatch{}, fmt.Errorf("export document: %w", err)
	}
	p.log.Info().Str("path", path).Msg("document exported")

	return model.StatePatch{
		ExportPath: &path,
		Status:     model.WorkflowExported,
	}, nil
}
