package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tara-vision/codezap/internal/cleaner"
	"github.com/tara-vision/codezap/internal/deps"
	"github.com/tara-vision/codezap/internal/project"
)

// Config holds UI configuration options
type Config struct {
	EnableColor    bool
	EnableSpinner  bool
	EnableMarkdown bool
}

// DefaultConfig returns the default UI configuration
func DefaultConfig() *Config {
	return &Config{
		EnableColor:    true,
		EnableSpinner:  true,
		EnableMarkdown: true,
	}
}

// Renderer handles all text output formatting
type Renderer struct {
	config *Config
}

// NewRendererWithConfig creates a renderer with custom config
func NewRendererWithConfig(config *Config) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Renderer{config: config}
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() *Config { return r.config }

func (r *Renderer) render(style lipgloss.Style, text string) string {
	if !r.config.EnableColor {
		return text
	}
	return style.Render(text)
}

// ErrorMessage formats an error message
func (r *Renderer) ErrorMessage(err error) string {
	return r.render(ErrorStyle, fmt.Sprintf("%s Error: %v", IconError, err))
}

// WarningMessage formats a warning message
func (r *Renderer) WarningMessage(msg string) string {
	return r.render(WarningStyle, fmt.Sprintf("%s %s", IconWarning, msg))
}

// InfoMessage formats an info message
func (r *Renderer) InfoMessage(msg string) string {
	return r.render(InfoStyle, fmt.Sprintf("%s %s", IconInfo, msg))
}

// SuccessMessage formats a success message
func (r *Renderer) SuccessMessage(msg string) string {
	return r.render(SuccessStyle, fmt.Sprintf("%s %s", IconSuccess, msg))
}

// Hint formats a follow-up suggestion.
func (r *Renderer) Hint(msg string) string {
	return r.render(Subtle, fmt.Sprintf("%s %s", IconTip, msg))
}

// ProjectHeader introduces a command run on root.
func (r *Renderer) ProjectHeader(action, root string, lang project.Language, detected bool) string {
	var sb strings.Builder
	sb.WriteString(r.render(TitleStyle, fmt.Sprintf("%s %s: %s", IconFolder, action, root)))
	sb.WriteString("\n")
	label := "Language: " + lang.DisplayName()
	if detected {
		label += " (detected)"
	}
	sb.WriteString(r.InfoMessage(label))
	sb.WriteString("\n")
	return sb.String()
}

// List renders items as an indented bullet list, one per line.
func (r *Renderer) List(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("  - "+item)
		sb.WriteString("\n")
	}
	return sb.String()
}

// UnavailableTools notes the external tools that were skipped.
func (r *Renderer) UnavailableTools(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return r.WarningMessage("Skipped, not installed: "+strings.Join(names, ", ")) + "\n"
}

// IssueList renders the findings of a check run.
func (r *Renderer) IssueList(issues []cleaner.Issue, verbose bool) string {
	var sb strings.Builder
	for _, issue := range issues {
		sb.WriteString("  - "+issue.Message)
		sb.WriteString("\n")
		if !verbose {
			continue
		}
		for _, item := range issue.Items {
			sb.WriteString(r.render(Subtle, "      "+item))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// AnalysisReport renders the result of check.
func (r *Renderer) AnalysisReport(a *cleaner.Analysis, dryRun, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(r.UnavailableTools(a.Unavailable))
	if a.Clean() {
		sb.WriteString(r.SuccessMessage("Project is already clean, no issues found"))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(r.WarningMessage(fmt.Sprintf("Issues found: %d", len(a.Issues))))
	sb.WriteString("\n")
	sb.WriteString(r.IssueList(a.Issues, verbose))
	if dryRun {
		sb.WriteString(r.InfoMessage("Dry run: no changes were applied"))
	} else {
		sb.WriteString(r.Hint("To apply fixes run: codezap fix"))
	}
	sb.WriteString("\n")
	return sb.String()
}

// CleaningSummary renders the result of fix.
func (r *Renderer) CleaningSummary(res *cleaner.CleaningResult) string {
	var sb strings.Builder
	if res.BackupPath != "" {
		sb.WriteString(r.InfoMessage("Backup created: " + res.BackupPath))
		sb.WriteString("\n")
	}
	sb.WriteString(r.UnavailableTools(res.Unavailable))

	if res.FilesProcessed == 0 && res.DependenciesCleaned == 0 && len(res.FilesFailed) == 0 {
		sb.WriteString(r.SuccessMessage("Project is already clean"))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(r.SuccessMessage("Cleanup finished"))
	sb.WriteString("\n")
	sb.WriteString(r.InfoMessage(fmt.Sprintf("Files processed: %d of %d", res.FilesProcessed, res.Files)))
	sb.WriteString("\n")
	if len(res.FilesFailed) > 0 {
		sb.WriteString(r.WarningMessage(fmt.Sprintf("Files the cleaner could not process (%d):", len(res.FilesFailed))))
		sb.WriteString("\n")
		sb.WriteString(r.List(res.FilesFailed))
	}
	if res.DependenciesCleaned > 0 {
		sb.WriteString(r.InfoMessage(fmt.Sprintf("Dependencies removed: %d", res.DependenciesCleaned)))
		sb.WriteString("\n")
	}
	if res.Dependencies != nil && res.Dependencies.Tidied {
		sb.WriteString(r.InfoMessage("go mod tidy completed"))
		sb.WriteString("\n")
	}
	if res.GitignoreCreated {
		sb.WriteString(r.InfoMessage("Created .gitignore"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatSummary renders the result of format.
func (r *Renderer) FormatSummary(res *cleaner.FormatResult, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(r.UnavailableTools(res.Unavailable))
	if res.FilesFormatted == 0 {
		if len(res.Unavailable) == 0 {
			sb.WriteString(r.SuccessMessage("Code is already formatted"))
			sb.WriteString("\n")
		}
		return sb.String()
	}

	sb.WriteString(r.SuccessMessage("Formatting finished"))
	sb.WriteString("\n")
	sb.WriteString(r.InfoMessage(fmt.Sprintf("Files formatted: %d", res.FilesFormatted)))
	sb.WriteString("\n")
	if verbose {
		sb.WriteString(r.List(res.Formatted))
	}
	return sb.String()
}

// DependencySummary renders the result of deps.
func (r *Renderer) DependencySummary(rep *deps.Report, remove bool) string {
	var sb strings.Builder
	sb.WriteString(r.UnavailableTools(rep.Unavailable))

	if rep.ManifestPath == "" {
		sb.WriteString(r.WarningMessage("No dependency file found"))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(r.InfoMessage(fmt.Sprintf("Dependency file: %s (%d declared)", rep.ManifestPath, len(rep.Declared))))
	sb.WriteString("\n")

	if rep.Language == project.Go {
		switch {
		case rep.Tidied:
			sb.WriteString(r.SuccessMessage("go mod tidy completed"))
		case remove:
			sb.WriteString(r.WarningMessage("go mod tidy did not complete"))
		default:
			sb.WriteString(r.Hint("Go modules are reconciled by the toolchain: codezap deps --remove-unused runs go mod tidy"))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	if len(rep.Unused) == 0 {
		sb.WriteString(r.SuccessMessage("All dependencies are in use"))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(r.WarningMessage(fmt.Sprintf("Unused dependencies (%d):", len(rep.Unused))))
	sb.WriteString("\n")
	sb.WriteString(r.List(rep.Unused))
	switch {
	case len(rep.Removed) > 0:
		sb.WriteString(r.SuccessMessage(fmt.Sprintf("Removed unused dependencies: %d", len(rep.Removed))))
	case remove:
		sb.WriteString(r.WarningMessage("Nothing was removed from " + rep.ManifestPath))
	default:
		sb.WriteString(r.Hint("To remove them run: codezap deps --remove-unused"))
	}
	sb.WriteString("\n")
	return sb.String()
}
