package usecase

import "apostila-generator/internal/domain/model"

// StageID identifies one pipeline stage.
type StageID string

const (
	StageCollectInfo     StageID = "collect_info"
	StageOutline         StageID = "outline"
	StageDraftChapter    StageID = "draft_chapter"
	StageReview          StageID = "review"
	StagePackageFeedback StageID = "package_feedback"
	StageExport          StageID = "export"
	StageTerminal        StageID = "terminal"
)

// Route maps the current workflow status to the stage that runs next. It is a
// pure total function: any status outside the mapping routes to StageTerminal.
// The runner decides what reaching terminal means; a run that terminates
// anywhere other than "exported" is reported as a failure, not success.
func Route(status model.WorkflowStatus) StageID {
	switch status {
	case model.WorkflowStart:
		return StageCollectInfo
	case model.WorkflowInfoCollected:
		return StageOutline
	case model.WorkflowOutlineCreated, model.WorkflowChapterWritten:
		return StageDraftChapter
	case model.WorkflowAllChaptersDone:
		return StageReview
	case model.WorkflowReviewed:
		return StagePackageFeedback
	case model.WorkflowFeedbackExported:
		return StageExport
	case model.WorkflowExported:
		return StageTerminal
	default:
		return StageTerminal
	}
}
