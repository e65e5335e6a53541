package project

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// IndicatorKind says what an indicator is matched against.
type IndicatorKind int

const (
	// ExtensionIndicator matches files by a "*.ext" pattern.
	ExtensionIndicator IndicatorKind = iota
	// FilenameIndicator matches files by exact name.
	FilenameIndicator
	// DirectoryIndicator matches directories by exact name.
	DirectoryIndicator
)

// Indicator is one piece of weighted evidence for a language.
type Indicator struct {
	Kind    IndicatorKind
	Pattern string
}

func ext(pattern string) Indicator { return Indicator{Kind: ExtensionIndicator, Pattern: pattern} }
func file(name string) Indicator { return Indicator{Kind: FilenameIndicator, Pattern: name} }
func dir(name string) Indicator { return Indicator{Kind: DirectoryIndicator, Pattern: name} }

// Indicators are the detection tables, evaluated in Priority order.
var Indicators = map[Language][]Indicator{
	Python: {
		file("requirements.txt"), file("setup.py"), file("pyproject.toml"),
		file("Pipfile"), file(".python-version"),
		dir("__pycache__"),
		ext("*.py"),
	},
	JavaScript: {
		file("package.json"), file("package-lock.json"), file("yarn.lock"), file(".nvmrc"),
		dir("node_modules"),
		ext("*.js"), ext("*.ts"), ext("*.jsx"), ext("*.tsx"),
	},
	Go: {
		file("go.mod"), file("go.sum"), file("main.go"),
		dir("vendor"),
		ext("*.go"),
	},
}

// Weights are the points each indicator kind adds per matching entry.
type Weights struct {
	Extension int `mapstructure:"extension" json:"extension" yaml:"extension"`
	Directory int `mapstructure:"directory" json:"directory" yaml:"directory"`
	Filename  int `mapstructure:"filename" json:"filename" yaml:"filename"`
}

// DefaultWeights ranks an exact filename above a directory name above a
// single file extension.
func DefaultWeights() Weights {
	return Weights{Extension: 1, Directory: 2, Filename: 3}
}

func (w Weights) of(kind IndicatorKind) int {
	var v int
	switch kind {
	case ExtensionIndicator:
		v = w.Extension
	case FilenameIndicator:
		v = w.Filename
	case DirectoryIndicator:
		v = w.Directory
	}
	if v < 0 {
		return 0
	}
	return v
}

// Match reports whether the entry is evidence for this indicator.
func (i Indicator) Match(e Entry) bool {
	switch i.Kind {
	case ExtensionIndicator:
		return !e.IsDir && e.Ext != "" && e.Ext == strings.TrimPrefix(i.Pattern, "*")
	case FilenameIndicator:
		return !e.IsDir && e.Name == i.Pattern
	case DirectoryIndicator:
		return e.IsDir && e.Name == i.Pattern
	}
	return false
}

// Score maps every language to its accumulated indicator points.
type Score map[Language]int

// Winner returns the highest scoring language, breaking ties by Priority.
// An all-zero score yields Undetermined.
func (s Score) Winner() Language {
	best, bestScore := Undetermined, 0
	for _, lang := range Priority {
		if s[lang] > bestScore {
			best, bestScore = lang, s[lang]
		}
	}
	return best
}

// String renders the score in Priority order, e.g. "python=4 javascript=0 go=1".
func (s Score) String() string {
	langs := make([]Language, 0, len(s))
	for lang := range s {
		langs = append(langs, lang)
	}
	sort.SliceStable(langs, func(i, j int) bool { return priorityIndex(langs[i]) < priorityIndex(langs[j]) })

	parts := make([]string, 0, len(langs))
	for _, lang := range langs {
		parts = append(parts, lang.String()+"="+strconv.Itoa(s[lang]))
	}
	return strings.Join(parts, " ")
}

func priorityIndex(lang Language) int {
	for i, l := range Priority {
		if l == lang {
			return i
		}
	}
	return len(Priority)
}

// Detector scores a project tree against the indicator tables.
type Detector struct {
	weights    Weights
	indicators map[Language][]Indicator
}

// NewDetector returns a detector using the given weights and the default
// indicator tables.
func NewDetector(weights Weights) *Detector {
	return &Detector{weights: weights, indicators: Indicators}
}

// Score walks the tree once and accumulates indicator points per language.
// Ignored directories count as directory evidence but are not descended.
func (d *Detector) Score(tree *Tree) Score {
	score := make(Score, len(Priority))
	for _, lang := range Priority {
		score[lang] = 0
	}

	tree.Walk(func(e Entry) {
		for _, lang := range Priority {
			for _, ind := range d.indicators[lang] {
				if ind.Match(e) {
					score[lang] += d.weights.of(ind.Kind)
				}
			}
		}
	})
	return score
}

// Detect returns the winning language of the tree, or Undetermined.
func (d *Detector) Detect(tree *Tree) Language {
	score := d.Score(tree)
	lang := score.Winner()
	log.WithFields(logrus.Fields{
		"root":   filepath.Base(tree.Root),
		"scores": score.String(),
		"winner": lang.String(),
	}).Debug("language detection")
	return lang
}
