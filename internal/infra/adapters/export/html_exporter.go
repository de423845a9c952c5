package export

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"apostila-generator/internal/domain/ports/adapter"
)

var _ adapter.DocumentExporter = (*HTMLExporter)(nil)

// HTMLExporter renders the finished book as a self-contained HTML document
// under the OS temp root. Chapter bodies are markdown (the models write
// markdown) converted with goldmark; the surrounding skeleton is plain HTML.
type HTMLExporter struct {
	dir string
	log *zerolog.Logger
}

// NewHTMLExporter writes artifacts into dir, defaulting to os.TempDir().
func NewHTMLExporter(dir string, log *zerolog.Logger) *HTMLExporter {
	if dir == "" {
		dir = os.TempDir()
	}
	return &HTMLExporter{dir: dir, log: log}
}

func (e *HTMLExporter) Export(_ context.Context, doc adapter.BookDocument) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Title))
	b.WriteString(documentStyle)
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<section class=\"cover\">\n<h1>%s</h1>\n", html.EscapeString(doc.Title))
	fmt.Fprintf(&b, "<p class=\"meta\">Tema: %s</p>\n", html.EscapeString(doc.Theme))
	fmt.Fprintf(&b, "<p class=\"meta\">Área Tecnológica: %s</p>\n", html.EscapeString(doc.TechnicalArea))
	fmt.Fprintf(&b, "<p class=\"meta\">Público-Alvo: %s</p>\n", html.EscapeString(doc.TargetAudience))
	b.WriteString("</section>\n")

	b.WriteString("<nav class=\"toc\">\n<h2>Sumário</h2>\n<ol>\n")
	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "<li><a href=\"#cap-%d\">%s</a></li>\n", ch.Number, html.EscapeString(ch.Title))
	}
	b.WriteString("</ol>\n</nav>\n")

	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "<section class=\"chapter\" id=\"cap-%d\">\n", ch.Number)
		fmt.Fprintf(&b, "<h2>Capítulo %d: %s</h2>\n", ch.Number, html.EscapeString(ch.Title))
		body, err := markdownToHTML(ch.Content)
		if err != nil {
			return "", fmt.Errorf("render chapter %d: %w", ch.Number, err)
		}
		b.WriteString(body)
		b.WriteString("</section>\n")
	}

	if strings.TrimSpace(doc.Feedback) != "" {
		b.WriteString("<section class=\"feedback\">\n<h2>Parecer Editorial</h2>\n")
		body, err := markdownToHTML(doc.Feedback)
		if err != nil {
			return "", fmt.Errorf("render feedback: %w", err)
		}
		b.WriteString(body)
		b.WriteString("</section>\n")
	}
	b.WriteString("</body>\n</html>\n")

	f, err := os.CreateTemp(e.dir, fmt.Sprintf("apostila-%d-*.html", time.Now().Unix()))
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}

	path := filepath.Clean(f.Name())
	e.log.Debug().Str("path", path).Int("chapters", len(doc.Chapters)).Msg("artifact rendered")
	return path, nil
}

func markdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const documentStyle = `<style>
body { font-family: Georgia, serif; max-width: 52rem; margin: 0 auto; padding: 2rem; line-height: 1.6; }
.cover { text-align: center; padding: 4rem 0; border-bottom: 2px solid #333; }
.cover .meta { color: #555; margin: 0.2rem 0; }
.toc { margin: 2rem 0; }
.chapter { margin-top: 3rem; }
.feedback { margin-top: 3rem; border-top: 1px solid #999; padding-top: 1rem; }
h1, h2 { font-family: Helvetica, Arial, sans-serif; }
</style>
`
