package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/score"
)

const footer = "_Generated by caselens. Rule and AI extraction are automated; verify every value against the judgment before relying on it._"

// Renderer writes extraction responses as JSON, Markdown and a terminal
// summary.
type Renderer struct {
	includeFooter bool
}

func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes resp as indented JSON to path.
func (r *Renderer) RenderJSON(resp *model.ExtractionResponse, path string) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report for resp to path.
func (r *Renderer) RenderMarkdown(resp *model.ExtractionResponse, name, path string) error {
	return writeFile(path, []byte(r.Markdown(resp, name)))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown renders resp as a Markdown report titled with name.
func (r *Renderer) Markdown(resp *model.ExtractionResponse, name string) string {
	d, m := resp.Data, resp.Metadata
	var b strings.Builder

	fmt.Fprintf(&b, "# Extraction Report: %s\n\n", name)
	b.WriteString("| Field | Value |\n|---|---|\n")
	if d.CaseNumber != "" {
		fmt.Fprintf(&b, "| Case number | %s |\n", cell(d.CaseNumber))
	}
	if d.CaseType != "" {
		fmt.Fprintf(&b, "| Case type | %s |\n", cell(d.CaseType))
	}
	fmt.Fprintf(&b, "| Document type | %s |\n", m.DocumentType)
	fmt.Fprintf(&b, "| Method | %s |\n", m.ExtractionMethod)
	fmt.Fprintf(&b, "| Source | %s |\n", d.Source)
	if m.AIProvider != "" {
		fmt.Fprintf(&b, "| AI provider | %s |\n", m.AIProvider)
	}
	fmt.Fprintf(&b, "| Confidence | %.2f (%s) |\n", d.Confidence, score.Level(d.Confidence))
	fmt.Fprintf(&b, "| Processing time | %d ms |\n\n", m.ProcessingTime)

	writeSection(&b, "Dates", d.Dates)
	writeSection(&b, "Parties", d.Parties)
	writeSection(&b, "Amounts", d.Amounts)
	writeSection(&b, "Legal Clauses", d.LegalClauses)
	writeSection(&b, "Facts", d.Facts)

	if len(d.Conflicts) > 0 {
		b.WriteString("## Conflicts\n\n| Key | Attribute | Rule | AI | Resolution |\n|---|---|---|---|---|\n")
		for _, c := range d.Conflicts {
			fmt.Fprintf(&b, "| %s | %s | %s (%.2f) | %s (%.2f) | %s |\n",
				cell(c.Key), c.Attribute,
				cell(c.RuleValue.Value()), c.RuleValue.Confidence,
				cell(c.AIValue.Value()), c.AIValue.Confidence,
				c.Resolution)
		}
		b.WriteString("\n")
	}

	if len(d.Provisions) > 0 {
		b.WriteString("## Relevant Provisions\n\n| Law | Article | Title | Tier |\n|---|---|---|---|\n")
		for _, p := range d.Provisions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(p.Law), p.Article, cell(p.Title), p.Tier)
		}
		b.WriteString("\n")
	}

	if len(d.LegalReferences) > 0 {
		b.WriteString("## Cited Statutes\n\n| Law | Article | Tier | In catalog |\n|---|---|---|---|\n")
		for _, ref := range d.LegalReferences {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(ref.Law), ref.Article, ref.Tier, yesNo(ref.Suggested))
		}
		b.WriteString("\n")
	}

	if len(resp.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(footer)
		b.WriteString("\n")
	}
	return b.String()
}

func writeSection(b *strings.Builder, title string, elements []model.Element) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(elements) == 0 {
		b.WriteString("_None found._\n\n")
		return
	}
	b.WriteString("| Value | Confidence | Source | Description |\n|---|---|---|---|\n")
	for _, e := range elements {
		fmt.Fprintf(b, "| %s | %.2f | %s | %s |\n", cell(e.Value()), e.Confidence, e.Source, cell(e.Description))
	}
	b.WriteString("\n")
}

// cell makes s safe inside a Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// RenderSummary prints a short human summary of resp to w.
func (r *Renderer) RenderSummary(w io.Writer, resp *model.ExtractionResponse, name string) {
	d, m := resp.Data, resp.Metadata

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", name)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	if d.CaseNumber != "" {
		fmt.Fprintf(w, "  Case number:  %s\n", d.CaseNumber)
	}
	if d.CaseType != "" {
		fmt.Fprintf(w, "  Case type:    %s\n", d.CaseType)
	}
	fmt.Fprintf(w, "  Document:     %s\n", m.DocumentType)
	fmt.Fprintf(w, "  Method:       %s (source: %s)\n", m.ExtractionMethod, d.Source)
	fmt.Fprintf(w, "  Confidence:   %.2f (%s)\n", d.Confidence, score.Level(d.Confidence))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Dates:        %d\n", len(d.Dates))
	fmt.Fprintf(w, "  Parties:      %d\n", len(d.Parties))
	fmt.Fprintf(w, "  Amounts:      %d\n", len(d.Amounts))
	fmt.Fprintf(w, "  Clauses:      %d\n", len(d.LegalClauses))
	fmt.Fprintf(w, "  Facts:        %d\n", len(d.Facts))
	fmt.Fprintf(w, "  Conflicts:    %d\n", len(d.Conflicts))

	if len(resp.Suggestions) > 0 {
		fmt.Fprintf(w, "\n")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
	fmt.Fprintf(w, "\n")
}
