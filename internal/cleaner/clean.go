package cleaner

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/tools"
)

// CleaningResult is the outcome of a fix run.
type CleaningResult struct {
	Language            project.Language  `json:"language" yaml:"language"`
	Files               int               `json:"files" yaml:"files"`
	FilesProcessed      int               `json:"files_processed" yaml:"files_processed"`
	FilesFailed         []string          `json:"files_failed,omitempty" yaml:"files_failed,omitempty"`
	DependenciesCleaned int               `json:"dependencies_cleaned" yaml:"dependencies_cleaned"`
	Dependencies        *DependencyReport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	GitignoreCreated    bool              `json:"gitignore_created,omitempty" yaml:"gitignore_created,omitempty"`
	BackupPath          string            `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	Unavailable         []string          `json:"unavailable_tools,omitempty" yaml:"unavailable_tools,omitempty"`
}

// cleanArgs returns the argument list that cleans one file in place.
func (c *Cleaner) cleanArgs(path string, aggressive bool) []string {
	switch c.lang {
	case project.Python:
		args := []string{"--in-place", "--remove-unused-variables", "--remove-all-unused-imports"}
		if aggressive {
			args = append(args, "--remove-duplicate-keys")
		}
		return append(args, path)
	case project.JavaScript:
		return []string{"--fix", path}
	default:
		return []string{"-w", path}
	}
}

// cleaned reports whether a cleaner run left the file fixed. eslint exits 1
// when problems remain that it cannot fix, which still counts.
func (c *Cleaner) cleaned(res tools.Result) bool {
	if res.Success {
		return true
	}
	return c.lang == project.JavaScript && !res.TimedOut && res.ExitCode == 1
}

// Clean runs the language's cleaner over every source file. In aggressive
// mode it also removes unused dependencies and writes a .gitignore when the
// project has none.
func (c *Cleaner) Clean(ctx context.Context, aggressive bool) (*CleaningResult, error) {
	result := &CleaningResult{Language: c.lang}

	files := c.CodeFiles()
	result.Files = len(files)
	if len(files) == 0 {
		return result, nil
	}

	tool := c.profile.Cleaner
	if c.runner.Available(tool) {
		for _, f := range files {
			res := c.runner.Run(ctx, c.root, tool, c.cleanArgs(f.Path, aggressive)...)
			if c.cleaned(res) {
				result.FilesProcessed++
				continue
			}
			result.FilesFailed = append(result.FilesFailed, f.RelPath)
		}
	} else {
		result.Unavailable = append(result.Unavailable, tool)
	}

	if aggressive {
		report, err := c.Dependencies(ctx, true)
		if err != nil {
			return nil, err
		}
		result.Dependencies = report
		result.DependenciesCleaned = len(report.Removed)
		result.Unavailable = append(result.Unavailable, report.Unavailable...)

		created, err := tools.EnsureGitignore(c.root, c.lang)
		if err != nil {
			log.WithError(err).Warn("could not create .gitignore")
		}
		result.GitignoreCreated = created
	}

	log.WithFields(logrus.Fields{
		"processed": result.FilesProcessed,
		"failed":    len(result.FilesFailed),
	}).Debug("clean finished")
	return result, nil
}
