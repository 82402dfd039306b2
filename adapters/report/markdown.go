package report

import (
	"bytes"
	"context"
	"fmt"
	stdhtml "html"
	"os"
	"path/filepath"
	"strings"

	"fscompare/domain/comparison"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// mdEscaper backslash-escapes characters that would start markup or inline
// HTML in user supplied names.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`, `|`, `\|`,
)

// RenderMarkdown formats a report as a markdown document.
func RenderMarkdown(report *comparison.Report) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Feature set comparison: %s\n\n", mdEscaper.Replace(report.Dataset))
	fmt.Fprintf(&b, "- Comparison: `%s`\n", report.ID)
	fmt.Fprintf(&b, "- Classifier: %s\n", mdEscaper.Replace(report.Classifier))
	fmt.Fprintf(&b, "- Protocol: %d-fold stratified cross-validation, %d repeats, seed %d\n", report.NumFolds, report.NumRepeats, report.Seed)
	fmt.Fprintf(&b, "- Loss: %s (%%)\n", report.LossName)
	fmt.Fprintf(&b, "- Created: %s\n\n", report.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("| Feature set | Features | Mean | SD | Median | Min | Max | 95% CI |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range report.Rows {
		s := row.Summary
		fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | ±%.2f |\n",
			mdEscaper.Replace(row.Name), row.FeatureCount, s.Mean, s.StdDev, s.Median, s.Min, s.Max, s.CI95)
	}

	if best, ok := report.Best(); ok {
		fmt.Fprintf(&b, "\nHighest mean %s: **%s** (%.2f).\n", report.LossName, mdEscaper.Replace(best.Name), best.Summary.Mean)
	}
	return b.Bytes()
}

// RenderHTML renders the markdown report as a complete HTML page. Raw HTML
// in the markdown is dropped.
func RenderHTML(report *comparison.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Feature set comparison: " + stdhtml.EscapeString(report.Dataset),
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	return markdown.ToHTML(RenderMarkdown(report), p, renderer)
}

// MarkdownReporter writes comparison-<id>.md and comparison-<id>.html into a directory.
type MarkdownReporter struct {
	dir string
}

// NewMarkdownReporter creates a reporter writing into dir
func NewMarkdownReporter(dir string) *MarkdownReporter {
	return &MarkdownReporter{dir: dir}
}

// Report implements ports.ReporterPort.
func (m *MarkdownReporter) Report(ctx context.Context, report *comparison.Report) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	base := filepath.Join(m.dir, fmt.Sprintf("comparison-%s", report.ID))
	if err := os.WriteFile(base+".md", RenderMarkdown(report), 0o644); err != nil {
		return err
	}
	return os.WriteFile(base+".html", RenderHTML(report), 0o644)
}
