package adapter

import "context"

// BookChapter is one ordered chapter handed to the exporter.
type BookChapter struct {
	Number  int
	Title   string
	Content string
}

// BookDocument is the full input contract of the export collaborator.
type BookDocument struct {
	Title          string
	Theme          string
	TechnicalArea  string
	TargetAudience string
	Chapters       []BookChapter
	Feedback       string
}

// DocumentExporter renders a finished book into a binary document. The core
// treats the artifact's internal structure as opaque; it only receives a path
// under the OS temp root.
type DocumentExporter interface {
	Export(ctx context.Context, doc BookDocument) (path string, err error)
}
