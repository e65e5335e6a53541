package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/tara-vision/codezap/internal/cleaner"
	"github.com/tara-vision/codezap/internal/deps"
	"github.com/tara-vision/codezap/internal/project"
)

const markdownWidth = 100

// RenderMarkdown renders markdown content for the terminal. Without color,
// or if glamour fails, the markdown source is returned unchanged.
func (r *Renderer) RenderMarkdown(content string) string {
	if !r.config.EnableMarkdown {
		return content
	}
	style := glamour.WithAutoStyle()
	if !r.config.EnableColor {
		style = glamour.WithStandardStyle("notty")
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
	if err != nil {
		return content
	}
	rendered, err := tr.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered) + "\n"
}

// AnalysisMarkdown builds the markdown report of a check run.
func AnalysisMarkdown(a *cleaner.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Check: %s\n\n", a.Root)
	fmt.Fprintf(&sb, "- **Language:** %s\n- **Source files:** %d\n", a.Language.DisplayName(), a.Files)
	writeUnavailable(&sb, a.Unavailable)

	sb.WriteString("\n## Issues\n\n")
	if a.Clean() {
		sb.WriteString("No issues found.\n")
		return sb.String()
	}
	for _, issue := range a.Issues {
		fmt.Fprintf(&sb, "### %s\n\n", issue.Message)
		for _, item := range issue.Items {
			fmt.Fprintf(&sb, "- `%s`\n", item)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// CleaningMarkdown builds the markdown report of a fix run.
func CleaningMarkdown(res *cleaner.CleaningResult) string {
	var sb strings.Builder
	sb.WriteString("# Fix\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Language | %s |\n", res.Language.DisplayName())
	fmt.Fprintf(&sb, "| Source files | %d |\n", res.Files)
	fmt.Fprintf(&sb, "| Files processed | %d |\n", res.FilesProcessed)
	fmt.Fprintf(&sb, "| Dependencies removed | %d |\n", res.DependenciesCleaned)
	if res.BackupPath != "" {
		fmt.Fprintf(&sb, "| Backup | `%s` |\n", res.BackupPath)
	}
	if res.GitignoreCreated {
		sb.WriteString("| .gitignore | created |\n")
	}
	writeUnavailable(&sb, res.Unavailable)
	if len(res.FilesFailed) > 0 {
		sb.WriteString("\n## Not processed\n\n")
		for _, f := range res.FilesFailed {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
	}
	return sb.String()
}

// FormatMarkdown builds the markdown report of a format run.
func FormatMarkdown(res *cleaner.FormatResult) string {
	var sb strings.Builder
	sb.WriteString("# Format\n\n")
	fmt.Fprintf(&sb, "- **Language:** %s\n- **Files formatted:** %d of %d\n", res.Language.DisplayName(), res.FilesFormatted, res.Files)
	writeUnavailable(&sb, res.Unavailable)
	if len(res.Formatted) > 0 {
		sb.WriteString("\n## Formatted\n\n")
		for _, f := range res.Formatted {
			fmt.Fprintf(&sb, "- `%s`\n", f)
		}
	}
	return sb.String()
}

// DependencyMarkdown builds the markdown report of a deps run.
func DependencyMarkdown(rep *deps.Report) string {
	var sb strings.Builder
	sb.WriteString("# Dependencies\n\n")
	if rep.ManifestPath == "" {
		sb.WriteString("No dependency file found.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "- **Dependency file:** `%s`\n", rep.ManifestPath)
	writeUnavailable(&sb, rep.Unavailable)

	sb.WriteString("\n| Name | Constraint | Status |\n|---|---|---|\n")
	unused := make(map[string]bool, len(rep.Unused))
	for _, name := range rep.Unused {
		unused[name] = true
	}
	removed := make(map[string]bool, len(rep.Removed))
	for _, name := range rep.Removed {
		removed[name] = true
	}
	for _, d := range rep.Declared {
		status := "used"
		switch {
		case removed[d.Name]:
			status = "removed"
		case unused[d.Name]:
			status = "unused"
		case rep.Language == project.Go:
			status = "declared"
		}
		constraint := d.Constraint
		if constraint == "" {
			constraint = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", d.Name, constraint, status)
	}
	if rep.Tidied {
		sb.WriteString("\n`go mod tidy` completed.\n")
	}
	return sb.String()
}

func writeUnavailable(sb *strings.Builder, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(sb, "- **Skipped, not installed:** %s\n", strings.Join(names, ", "))
}
