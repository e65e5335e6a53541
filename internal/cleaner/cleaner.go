// Package cleaner sequences the project scan, import extraction and
// dependency reconciliation, and drives the external formatters and linters
// of the detected language.
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tara-vision/codezap/internal/deps"
	"github.com/tara-vision/codezap/internal/imports"
	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/tools"
)

// DefaultCommentThreshold is how many code-like comment lines a file may
// hold before it is reported.
const DefaultCommentThreshold = 2

var log = logrus.WithField("component", "cleaner")

// DependencyReport is the dependency section of every command's result.
type DependencyReport = deps.Report

// Cleaner runs the check, fix, format and deps workflows for one project.
type Cleaner struct {
	root      string
	lang      project.Language
	profile   project.Profile
	tree      *project.Tree
	runner    tools.Runner
	extractor *imports.Extractor
	threshold int
	now       func() time.Time

	ignore []string
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRunner replaces the external tool runner.
func WithRunner(r tools.Runner) Option {
	return func(c *Cleaner) { c.runner = r }
}

// WithIgnoreDirs adds directory names to the default ignore set.
func WithIgnoreDirs(names ...string) Option {
	return func(c *Cleaner) { c.ignore = append(c.ignore, names...) }
}

// WithCommentThreshold sets the commented-out code threshold.
func WithCommentThreshold(n int) Option {
	return func(c *Cleaner) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithClock replaces the clock used to name backups.
func WithClock(now func() time.Time) Option {
	return func(c *Cleaner) { c.now = now }
}

// New returns a cleaner for the project at root written in lang.
func New(root string, lang project.Language, opts ...Option) (*Cleaner, error) {
	profile, ok := project.ProfileFor(lang)
	if !ok {
		return nil, project.ErrUndetermined
	}
	abs, err := project.ResolveRoot(root)
	if err != nil {
		return nil, err
	}

	c := &Cleaner{
		root:      abs,
		lang:      lang,
		profile:   profile,
		extractor: imports.NewExtractor(),
		threshold: DefaultCommentThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = tools.NewExecRunner(tools.DefaultTimeout)
	}
	c.tree = project.NewTree(abs, c.ignore...)
	return c, nil
}

// Root returns the absolute project root.
func (c *Cleaner) Root() string { return c.root }

// Language returns the language the cleaner works with.
func (c *Cleaner) Language() project.Language { return c.lang }

// CodeFiles returns the project's source files, in discovery order.
func (c *Cleaner) CodeFiles() []project.Entry {
	return c.tree.Files(c.profile.Extensions)
}

// Backup copies the project next to its root and returns the copy's path.
func (c *Cleaner) Backup() (string, error) {
	return tools.Backup(c.root, c.now())
}

// Dependencies reconciles the project's manifest against the modules its
// sources reference. A project without a manifest, or with one that cannot
// be parsed, yields an empty report.
func (c *Cleaner) Dependencies(ctx context.Context, remove bool) (*DependencyReport, error) {
	m, err := deps.Load(c.root, c.lang)
	if err != nil {
		var merr *deps.ManifestError
		switch {
		case errors.Is(err, deps.ErrNoManifest):
			log.WithField("lang", c.lang).Debug("no dependency file")
			return &DependencyReport{Language: c.lang, Unused: []string{}}, nil
		case errors.As(err, &merr):
			log.WithError(merr.Err).WithField("path", merr.Path).Warn("skipped unparsable dependency file")
			return &DependencyReport{Language: c.lang, ManifestPath: merr.Path, Unused: []string{}}, nil
		}
		return nil, err
	}

	refs, failed := c.extractor.ExtractFiles(c.lang, c.CodeFiles())
	log.WithFields(logrus.Fields{
		"refs":   len(refs),
		"failed": failed,
	}).Debug("extracted module references")

	report, err := deps.NewReconciler(c.runner).Reconcile(ctx, c.root, m, refs, remove)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile dependencies: %w", err)
	}
	return report, nil
}
