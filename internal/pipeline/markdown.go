package pipeline

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"reviewer/internal/artifact"
)

// Human-readable copies of the stage artifacts, named as the original
// reviewer output.
const (
	detailMarkdownName  = "detail_analysis.md"
	shortMarkdownName   = "short_analysis.md"
	projectMarkdownName = "project_analysis.md"
)

func sectionTitle(path string) string {
	return "## " + path + "\n\n"
}

func renderSetMarkdown(tree string, set *artifact.Set) string {
	var b strings.Builder
	if tree != "" {
		b.WriteString("## Project tree:\n```\n")
		b.WriteString(tree)
		b.WriteString("```\n\n")
	}
	for _, r := range set.Results {
		b.WriteString(sectionTitle(r.Path))
		if r.Unanalyzed {
			b.WriteString("_Unanalyzed_: " + r.Reason + "\n\n")
			continue
		}
		b.WriteString(r.Analysis)
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderUnanalyzed(paths []string) string {
	var b strings.Builder
	b.WriteString("## Unanalyzed files\n\n")
	b.WriteString("The following files could not be analyzed; their absence above does not mean they are issue-free.\n\n")
	for _, p := range paths {
		b.WriteString("- " + p + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// writeMarkdown best-effort writes a side artifact; failures are logged,
// never fatal, since the machine artifacts are the source of truth.
func (c *Controller) writeMarkdown(name, content string) {
	if c.MarkdownDir == "" {
		return
	}
	if err := os.MkdirAll(c.MarkdownDir, 0o755); err != nil {
		log.Printf("pipeline: markdown dir: %v", err)
		return
	}
	if err := os.WriteFile(filepath.Join(c.MarkdownDir, name), []byte(content), 0o644); err != nil {
		log.Printf("pipeline: write %s: %v", name, err)
	}
}
