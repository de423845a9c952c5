package usecase

import (
	"fmt"
	"strings"

	"apostila-generator/internal/domain/model"
)

// Prompt builders for each pipeline stage. The generated documents are
// Brazilian Portuguese "apostilas", so the prompts are written in pt-BR.

func titlePrompt(theme, area, audience string) string {
	return fmt.Sprintf(`Você é um especialista em redação técnica. Baseado no seguinte tema, área tecnológica e público-alvo, sugira um título formal e técnico que reflita um enfoque analítico e informativo:
Tema: %s
Área Tecnológica: %s
Público-Alvo: %s
Responda SOMENTE em formato JSON com a chave "title", sem texto adicional. Exemplo: {"title": "Fundamentos de Exploração Espacial"}. Não inclua bloco de código.
O título deve ter no máximo 80 caracteres. Caracteres inválidos para o título: , \ / : * ? " < > |`,
		theme, area, audience)
}

func outlinePrompt(st *model.WorkflowState) string {
	return fmt.Sprintf(`Você é um especialista técnico no tema %s, elaborando uma apostila técnica para estudo.
Baseado nas seguintes informações, crie um sumário detalhado e com foco em aspectos técnicos e práticos:

Tema: %s
Título sugerido: %s
Área Tecnológica: %s
Público-Alvo: %s

Cada capítulo deve ter uma numeração inteira e sequencial (exemplo: 1, 2, 3, 4, 5).
O sumário deve conter exatamente %d capítulos, cada um abordando um aspecto técnico ou prático do tema, com títulos objetivos e descrições que detalhem o conteúdo analítico a ser explorado.
Responda SOMENTE em formato JSON com uma lista de objetos contendo "chapter_number", "chapter_title" e "chapter_description".
Exemplo: [{"chapter_number": 1, "chapter_title": "Princípios de Propulsão Espacial", "chapter_description": "Análise dos sistemas de propulsão usados em missões espaciais"}]
Não inclua bloco de código.`,
		st.Theme, st.Theme, st.Title, st.TechnicalArea, st.TargetAudience, st.NumChapters)
}

func chapterPrompt(st *model.WorkflowState, number int, ch *model.Chapter, prevSummary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Você é um especialista técnico escrevendo uma apostila intitulada "%s" com o tema "%s".
A área tecnológica é "%s", direcionada para o público "%s".

Escreva o Capítulo %d: "%s".

Descrição do capítulo: %s
`, st.Title, st.Theme, st.TechnicalArea, st.TargetAudience, number, ch.Title, ch.Description)
	if prevSummary != "" {
		fmt.Fprintf(&b, "\n%s\n", prevSummary)
	}
	b.WriteString(`
Escreva um texto técnico e analítico, com linguagem formal e objetiva. Inclua informações técnicas detalhadas, exemplos contextualizados (reais ou hipotéticos), dados relevantes e explicações claras. Evite diálogos narrativos ou descrições literárias excessivas. Estruture o conteúdo com seções claras (introdução, desenvolvimento, análise, exemplos, conclusão). O capítulo deve ter pelo menos 3000 palavras.
Estruture o capítulo com títulos e subtítulos seguindo a numeração do capítulo.`)
	return b.String()
}

func previousChapterSummary(st *model.WorkflowState, current int) string {
	if current <= 1 {
		return ""
	}
	prev, ok := st.Chapters[current-1]
	if !ok || strings.TrimSpace(prev.Content) == "" {
		return ""
	}
	content := prev.Content
	if r := []rune(content); len(r) > 500 {
		content = string(r[:500])
	}
	return fmt.Sprintf("Resumo do capítulo anterior (%d: %s):\n%s... (resumido)", current-1, prev.Title, content)
}

func reviewPrompt(st *model.WorkflowState) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Você é um editor revisando a apostila:

Tema: %s
Título: %s
Área Tecnológica: %s
Público-alvo: %s

Sumário:
`, st.Theme, st.Title, st.TechnicalArea, st.TargetAudience)
	for _, num := range st.ChapterNumbers() {
		ch := st.Chapters[num]
		desc := ch.Description
		if r := []rune(desc); len(r) > 100 {
			desc = string(r[:100])
		}
		fmt.Fprintf(&b, "\nCapítulo %d: %s - %s...", num, ch.Title, desc)
	}
	fmt.Fprintf(&b, `

Forneça feedback sobre estrutura, fluxo, consistência com o tema "%s" e adequação ao público-alvo. Seja minucioso quanto às informações técnicas e sugira melhorias, correções e ajustes necessários, indicando os capítulos e seções específicas para correção.`, st.Theme)
	return b.String()
}
