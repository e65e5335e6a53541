package cleaner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tara-vision/codezap/internal/project"
)

// IssueKind classifies a check finding.
type IssueKind string

const (
	NoFiles            IssueKind = "no_files"
	UnusedImports      IssueKind = "unused_imports"
	CommentedCode      IssueKind = "commented_code"
	Formatting         IssueKind = "formatting"
	UnusedDependencies IssueKind = "unused_dependencies"
)

// Issue is one finding of Analyze.
type Issue struct {
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
	Count   int       `json:"count" yaml:"count"`
	// Items are the root-relative files or dependency names involved.
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Analysis is the result of a check run.
type Analysis struct {
	Language     project.Language  `json:"language" yaml:"language"`
	Root         string            `json:"root" yaml:"root"`
	Files        int               `json:"files" yaml:"files"`
	Issues       []Issue           `json:"issues" yaml:"issues"`
	Dependencies *DependencyReport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Unavailable  []string          `json:"unavailable_tools,omitempty" yaml:"unavailable_tools,omitempty"`
}

// Clean reports whether the analysis found nothing to fix.
func (a *Analysis) Clean() bool { return len(a.Issues) == 0 }

func (a *Analysis) unavailable(tool string) {
	for _, t := range a.Unavailable {
		if t == tool {
			return
		}
	}
	a.Unavailable = append(a.Unavailable, tool)
}

// CommentedCodePatterns match a comment line that looks like disabled code.
var CommentedCodePatterns = map[project.Language]*regexp.Regexp{
	project.Python:     regexp.MustCompile(`^\s*#\s*[a-zA-Z_].*[=()\[\]{}]`),
	project.JavaScript: regexp.MustCompile(`^\s*//\s*[a-zA-Z_].*[=()\[\]{}]`),
	project.Go:         regexp.MustCompile(`^\s*//\s*[a-zA-Z_].*[=()\[\]{}]`),
}

// Analyze inspects the project without modifying it.
func (c *Cleaner) Analyze(ctx context.Context) (*Analysis, error) {
	a := &Analysis{Language: c.lang, Root: c.root, Issues: []Issue{}}

	files := c.CodeFiles()
	a.Files = len(files)
	if len(files) == 0 {
		a.Issues = append(a.Issues, Issue{Kind: NoFiles, Message: "No project files found, check the path"})
		return a, nil
	}

	if found := c.filesWithUnusedImports(ctx, files, a); len(found) > 0 {
		a.Issues = append(a.Issues, fileIssue(UnusedImports, "unused imports", found))
	}
	if found := c.FilesWithCommentedCode(files); len(found) > 0 {
		a.Issues = append(a.Issues, fileIssue(CommentedCode, "commented-out code", found))
	}
	if found := c.filesNeedingFormat(ctx, files, a); len(found) > 0 {
		a.Issues = append(a.Issues, fileIssue(Formatting, "formatting issues", found))
	}

	report, err := c.Dependencies(ctx, false)
	if err != nil {
		return nil, err
	}
	a.Dependencies = report
	if n := len(report.Unused); n > 0 {
		a.Issues = append(a.Issues, Issue{
			Kind:    UnusedDependencies,
			Message: fmt.Sprintf("Found %d unused dependencies", n),
			Count:   n,
			Items:   report.Unused,
		})
	}

	log.WithField("issues", len(a.Issues)).Debug("analysis finished")
	return a, nil
}

func fileIssue(kind IssueKind, what string, files []project.Entry) Issue {
	items := make([]string, 0, len(files))
	for _, f := range files {
		items = append(items, f.RelPath)
	}
	return Issue{
		Kind:    kind,
		Message: fmt.Sprintf("Found %d files with %s", len(files), what),
		Count:   len(files),
		Items:   items,
	}
}

// filesWithUnusedImports asks the language's import checker which files
// carry unused imports.
func (c *Cleaner) filesWithUnusedImports(ctx context.Context, files []project.Entry, a *Analysis) []project.Entry {
	tool := c.profile.ImportChecker
	if tool == "" {
		return nil
	}
	if !c.runner.Available(tool) {
		a.unavailable(tool)
		return nil
	}

	var found []project.Entry
	for _, f := range files {
		switch c.lang {
		case project.Python:
			res := c.runner.Run(ctx, c.root, tool, "--check", "--remove-unused-variables", "--remove-all-unused-imports", f.Path)
			if !res.Success && !res.TimedOut && res.ExitCode == 1 {
				found = append(found, f)
			}
		case project.Go:
			res := c.runner.Run(ctx, c.root, tool, "-l", f.Path)
			if res.Success && strings.TrimSpace(res.Stdout) != "" {
				found = append(found, f)
			}
		}
	}
	return found
}

// FilesWithCommentedCode returns the files holding more code-like comment
// lines than the configured threshold. Unreadable files are skipped.
func (c *Cleaner) FilesWithCommentedCode(files []project.Entry) []project.Entry {
	pattern := CommentedCodePatterns[c.lang]
	if pattern == nil {
		return nil
	}

	var found []project.Entry
	for _, f := range files {
		n, err := CountCommentedCode(pattern, f.Path)
		if err != nil {
			log.WithError(err).WithField("file", f.RelPath).Debug("skipped while scanning comments")
			continue
		}
		if n > c.threshold {
			found = append(found, f)
		}
	}
	return found
}

// CountCommentedCode returns the number of lines of the file at path that
// match pattern.
func CountCommentedCode(pattern *regexp.Regexp, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if pattern.Match(line) {
			n++
		}
	}
	return n, nil
}

// filesNeedingFormat asks the language's formatter which files it would
// change.
func (c *Cleaner) filesNeedingFormat(ctx context.Context, files []project.Entry, a *Analysis) []project.Entry {
	tool := c.profile.Formatter
	if !c.runner.Available(tool) {
		a.unavailable(tool)
		return nil
	}

	var found []project.Entry
	for _, f := range files {
		if c.needsFormat(ctx, f) {
			found = append(found, f)
		}
	}
	return found
}

func (c *Cleaner) needsFormat(ctx context.Context, f project.Entry) bool {
	tool := c.profile.Formatter
	switch c.lang {
	case project.Go:
		res := c.runner.Run(ctx, c.root, tool, "-l", f.Path)
		return res.Success && strings.TrimSpace(res.Stdout) != ""
	default:
		res := c.runner.Run(ctx, c.root, tool, "--check", f.Path)
		return !res.Success && !res.TimedOut
	}
}
