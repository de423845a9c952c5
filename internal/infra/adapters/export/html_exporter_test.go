package export

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"apostila-generator/internal/domain/ports/adapter"
)

func TestHTMLExporter_Export(t *testing.T) {
	log := zerolog.Nop()
	e := NewHTMLExporter(t.TempDir(), &log)

	doc := adapter.BookDocument{
		Title:          "Apostila de Go",
		Theme:          "Go",
		TechnicalArea:  "Backend",
		TargetAudience: "Devs",
		Chapters: []adapter.BookChapter{
			{Number: 1, Title: "Introdução", Content: "## Começando\n\nTexto *rico* do capítulo."},
			{Number: 2, Title: "Concorrência <avançada>", Content: "Goroutines e canais."},
		},
		Feedback: "Bom fluxo geral.",
	}

	path, err := e.Export(context.Background(), doc)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	got := string(raw)

	for _, want := range []string{
		"<h1>Apostila de Go</h1>",
		`<a href="#cap-2">`,
		"<h2>Capítulo 1: Introdução</h2>",
		"<h2>Começando</h2>",
		"<em>rico</em>",
		"Concorrência &lt;avançada&gt;",
		"Parecer Editorial",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("artifact missing %q:\n%s", want, got)
		}
	}
	if !strings.HasSuffix(path, ".html") {
		t.Fatalf("path = %q, want .html", path)
	}
}

func TestHTMLExporter_SkipsEmptyFeedback(t *testing.T) {
	log := zerolog.Nop()
	e := NewHTMLExporter(t.TempDir(), &log)

	path, err := e.Export(context.Background(), adapter.BookDocument{
		Title:    "T",
		Chapters: []adapter.BookChapter{{Number: 1, Title: "C", Content: "x"}},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "Parecer Editorial") {
		t.Fatalf("feedback section rendered for empty feedback")
	}
}
