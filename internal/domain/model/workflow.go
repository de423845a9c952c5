package model

import (
	"fmt"
	"sort"
	"strings"
)

// WorkflowStatus is the position of one generation run inside the stage
// pipeline. Transitions only move forward, except the documented
// chapter_written -> draft_chapter repeat while chapters remain.
type WorkflowStatus string

const (
	WorkflowStart            WorkflowStatus = "start"
	WorkflowInfoCollected    WorkflowStatus = "book_info_collected"
	WorkflowOutlineCreated   WorkflowStatus = "outline_created"
	WorkflowChapterWritten   WorkflowStatus = "chapter_written"
	WorkflowAllChaptersDone  WorkflowStatus = "all_chapters_written"
	WorkflowReviewed         WorkflowStatus = "reviewed"
	WorkflowFeedbackExported WorkflowStatus = "feedback_exported"
	WorkflowExported         WorkflowStatus = "exported"
)

func knownWorkflowStatus(s WorkflowStatus) bool {
	switch s {
	case WorkflowStart, WorkflowInfoCollected, WorkflowOutlineCreated,
		WorkflowChapterWritten, WorkflowAllChaptersDone, WorkflowReviewed,
		WorkflowFeedbackExported, WorkflowExported:
		return true
	}
	return false
}

// OutlineEntry describes one planned chapter.
type OutlineEntry struct {
	Number      int
	Title       string
	Description string
}

// Chapter holds the outline data plus the drafted content for one chapter.
// Content stays empty until the drafting stage fills it.
type Chapter struct {
	Title       string
	Description string
	Content     string
}

// WorkflowState is the full in-progress record for one generation run.
// It is owned exclusively by the runner goroutine for the duration of the
// run; only the GenerationJob projection crosses goroutine boundaries.
type WorkflowState struct {
	Theme          string
	Title          string
	TechnicalArea  string
	TargetAudience string
	NumChapters    int
	Outline        []OutlineEntry
	Chapters       map[int]*Chapter
	CurrentChapter int
	Status         WorkflowStatus
	Feedback       string
	ExportPath     string
}

func NewWorkflowState(theme, area, audience string, numChapters int) *WorkflowState {
	return &WorkflowState{
		Theme:          theme,
		TechnicalArea:  area,
		TargetAudience: audience,
		NumChapters:    numChapters,
		Chapters:       make(map[int]*Chapter),
		Status:         WorkflowStart,
	}
}

// StatePatch is the sparse update a stage returns. Nil pointer fields mean
// "unchanged"; a zero Status means "unchanged". Chapters entries replace the
// corresponding entries of the state, never the whole map.
type StatePatch struct {
	Theme          *string
	Title          *string
	TechnicalArea  *string
	TargetAudience *string
	Outline        []OutlineEntry
	Chapters       map[int]*Chapter
	CurrentChapter *int
	Status         WorkflowStatus
	Feedback       *string
	ExportPath     *string
}

// Apply validates the patch against the state's invariants and merges it in.
// The state is left untouched when validation fails.
func (s *WorkflowState) Apply(p StatePatch) error {
	if p.Status != "" && !knownWorkflowStatus(p.Status) {
		return fmt.Errorf("unknown workflow status %q", p.Status)
	}
	if p.CurrentChapter != nil {
		cc := *p.CurrentChapter
		if cc < 1 || cc > s.NumChapters+1 {
			return fmt.Errorf("current chapter %d out of range 1..%d", cc, s.NumChapters+1)
		}
		if cc < s.CurrentChapter {
			return fmt.Errorf("current chapter cannot move backward (%d -> %d)", s.CurrentChapter, cc)
		}
	}
	if p.Outline != nil {
		for i, e := range p.Outline {
			if e.Number != i+1 {
				return fmt.Errorf("outline numbers must be contiguous from 1, got %d at position %d", e.Number, i)
			}
		}
	}
	for num := range p.Chapters {
		if num < 1 || num > s.NumChapters {
			return fmt.Errorf("chapter number %d outside 1..%d", num, s.NumChapters)
		}
	}

	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.TechnicalArea != nil {
		s.TechnicalArea = *p.TechnicalArea
	}
	if p.TargetAudience != nil {
		s.TargetAudience = *p.TargetAudience
	}
	if p.Outline != nil {
		s.Outline = p.Outline
	}
	if s.Chapters == nil {
		s.Chapters = make(map[int]*Chapter)
	}
	for num, ch := range p.Chapters {
		c := *ch
		s.Chapters[num] = &c
	}
	if p.CurrentChapter != nil {
		s.CurrentChapter = *p.CurrentChapter
	}
	if p.Status != "" {
		s.Status = p.Status
	}
	if p.Feedback != nil {
		s.Feedback = *p.Feedback
	}
	if p.ExportPath != nil {
		s.ExportPath = *p.ExportPath
	}
	return nil
}

// DraftedChapters counts chapters with non-empty content.
func (s *WorkflowState) DraftedChapters() int {
	n := 0
	for _, ch := range s.Chapters {
		if ch != nil && strings.TrimSpace(ch.Content) != "" {
			n++
		}
	}
	return n
}

// ChapterNumbers returns the chapter keys in ascending order.
func (s *WorkflowState) ChapterNumbers() []int {
	nums := make([]int, 0, len(s.Chapters))
	for n := range s.Chapters {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
