package cleaner

import (
	"context"

	"github.com/tara-vision/codezap/internal/project"
)

// FormatResult is the outcome of a format run.
type FormatResult struct {
	Language       project.Language `json:"language" yaml:"language"`
	Files          int              `json:"files" yaml:"files"`
	FilesFormatted int              `json:"files_formatted" yaml:"files_formatted"`
	Formatted      []string         `json:"formatted,omitempty" yaml:"formatted,omitempty"`
	Unavailable    []string         `json:"unavailable_tools,omitempty" yaml:"unavailable_tools,omitempty"`
}

// Format rewrites the source files the language's formatter would change.
// black handles the whole tree in one run, so every source file is counted
// as formatted when it reports changes.
func (c *Cleaner) Format(ctx context.Context) (*FormatResult, error) {
	result := &FormatResult{Language: c.lang}

	files := c.CodeFiles()
	result.Files = len(files)
	if len(files) == 0 {
		return result, nil
	}

	tool := c.profile.Formatter
	if !c.runner.Available(tool) {
		result.Unavailable = append(result.Unavailable, tool)
		return result, nil
	}

	if c.lang == project.Python {
		check := c.runner.Run(ctx, c.root, tool, "--check", "--diff", c.root)
		if check.Success || check.TimedOut {
			return result, nil
		}
		if res := c.runner.Run(ctx, c.root, tool, c.root); res.Success {
			result.FilesFormatted = len(files)
			for _, f := range files {
				result.Formatted = append(result.Formatted, f.RelPath)
			}
		}
		return result, nil
	}

	write := "--write"
	if c.lang == project.Go {
		write = "-w"
	}
	for _, f := range files {
		if !c.needsFormat(ctx, f) {
			continue
		}
		if res := c.runner.Run(ctx, c.root, tool, write, f.Path); res.Success {
			result.FilesFormatted++
			result.Formatted = append(result.Formatted, f.RelPath)
		}
	}
	return result, nil
}
