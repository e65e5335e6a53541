package deps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tara-vision/codezap/internal/imports"
	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/tools"
)

// Report is the outcome of one reconciliation run.
type Report struct {
	Language     project.Language `json:"language" yaml:"language"`
	ManifestPath string           `json:"dependency_file,omitempty" yaml:"dependency_file,omitempty"`
	Declared     []Declaration    `json:"declared" yaml:"declared"`
	Unused       []string         `json:"unused_dependencies" yaml:"unused_dependencies"`
	Removed      []string         `json:"removed,omitempty" yaml:"removed,omitempty"`
	// Tidied is set when the module toolchain's tidy command ran successfully.
	Tidied      bool     `json:"tidied,omitempty" yaml:"tidied,omitempty"`
	Unavailable []string `json:"unavailable_tools,omitempty" yaml:"unavailable_tools,omitempty"`
}

// Reconciler classifies manifest declarations against module references.
type Reconciler struct {
	runner tools.Runner
}

// NewReconciler returns a reconciler that delegates toolchain work to runner.
func NewReconciler(runner tools.Runner) *Reconciler {
	return &Reconciler{runner: runner}
}

// Unused returns, in declaration order, the declared names with no matching
// reference. Go manifests are never classified here.
func (rc *Reconciler) Unused(m *Manifest, refs imports.Set) []string {
	if m == nil {
		return nil
	}
	match := exactMatch
	switch m.Language {
	case project.Python:
		match = pythonMatcher(refs)
	case project.Go:
		return nil
	}

	unused := []string{}
	for _, name := range m.Names() {
		if !match(name, refs) {
			unused = append(unused, name)
		}
	}
	return unused
}

func exactMatch(name string, refs imports.Set) bool {
	return refs.Has(name)
}

// pythonMatcher accepts the declared name as written or, failing that, its
// normalised form against normalised references.
func pythonMatcher(refs imports.Set) func(string, imports.Set) bool {
	normalized := make(imports.Set, len(refs))
	for ref := range refs {
		normalized.Add(NormalizePythonName(ref))
	}
	return func(name string, refs imports.Set) bool {
		return refs.Has(name) || normalized.Has(NormalizePythonName(name))
	}
}

// NormalizePythonName lower-cases name and maps "-" to "_".
func NormalizePythonName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// Reconcile classifies m against refs and, when remove is set, prunes the
// manifest: requirements files are rewritten, Go modules are tidied with the
// go toolchain. A nil manifest yields an empty report.
func (rc *Reconciler) Reconcile(ctx context.Context, root string, m *Manifest, refs imports.Set, remove bool) (*Report, error) {
	report := &Report{Unused: []string{}}
	if m == nil {
		return report, nil
	}
	report.Language = m.Language
	report.ManifestPath = m.Path
	report.Declared = m.Declarations
	if unused := rc.Unused(m, refs); unused != nil {
		report.Unused = unused
	}

	entry := log.WithFields(logrus.Fields{
		"manifest": m.Path,
		"declared": len(m.Declarations),
		"unused":   len(report.Unused),
	})
	entry.Debug("reconciled dependencies")

	if !remove {
		return report, nil
	}

	switch m.Language {
	case project.Go:
		if rc.runner == nil || !rc.runner.Available("go") {
			report.Unavailable = append(report.Unavailable, "go")
			return report, nil
		}
		res := rc.runner.Run(ctx, root, "go", "mod", "tidy")
		report.Tidied = res.Success
		if !res.Success {
			entry.WithField("stderr", strings.TrimSpace(res.Stderr)).Warn("go mod tidy failed")
		}
	case project.Python:
		if len(report.Unused) == 0 || filepath.Base(m.Path) != "requirements.txt" {
			return report, nil
		}
		removed, err := RemoveUnused(m.Path, report.Unused)
		if err != nil {
			return report, err
		}
		report.Removed = removed
	default:
		if len(report.Unused) > 0 {
			entry.Warn("automatic removal is only supported for requirements.txt and go.mod")
		}
	}
	return report, nil
}

// FilterRequirements drops the lines of a requirements file whose declared
// name is in unused. Every other line, including its line ending, is kept
// byte for byte and in order. It returns the new content and the names
// removed, in file order.
func FilterRequirements(data []byte, unused []string) ([]byte, []string) {
	drop := imports.NewSet(unused...)

	var out bytes.Buffer
	out.Grow(len(data))
	var removed []string
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if name, _, ok := ParseRequirement(line); ok && drop.Has(name) {
			removed = append(removed, name)
			continue
		}
		out.WriteString(line)
	}
	return out.Bytes(), removed
}

// RemoveUnused rewrites the requirements file at path without the unused
// declarations. The file is left untouched when nothing matches.
func RemoveUnused(path string, unused []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	filtered, removed := FilterRequirements(data, unused)
	if len(removed) == 0 {
		return nil, nil
	}
	if err := os.WriteFile(path, filtered, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.WithFields(logrus.Fields{"path": path, "removed": removed}).Info("removed unused dependencies")
	return removed, nil
}
