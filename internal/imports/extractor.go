// Package imports extracts referenced module names from source text with
// per-language pattern tables. It does not parse the languages it reads.
package imports

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/tara-vision/codezap/internal/project"
)

// ErrUndecodable is returned for files that are not valid UTF-8.
var ErrUndecodable = errors.New("file is not valid UTF-8")

var log = logrus.WithField("component", "imports")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor applies a rule table to source files.
type Extractor struct {
	rules map[project.Language][]Rule
}

// NewExtractor returns an extractor using DefaultRules.
func NewExtractor() *Extractor {
	return &Extractor{rules: DefaultRules}
}

// NewExtractorWithRules returns an extractor using a custom rule table.
func NewExtractorWithRules(rules map[project.Language][]Rule) *Extractor {
	return &Extractor{rules: rules}
}

// Extract returns the module references found in src.
func (x *Extractor) Extract(lang project.Language, src string) Set {
	refs := make(Set)
	rules := x.rules[lang]
	if len(rules) == 0 {
		return refs
	}

	var lines []string
	for _, r := range rules {
		if r.Scope == WholeFile {
			r.apply(src, refs)
			continue
		}
		if lines == nil {
			lines = strings.Split(src, "\n")
		}
		for _, line := range lines {
			r.apply(strings.TrimSpace(line), refs)
		}
	}
	return refs
}

// ExtractFile reads path and returns its references. Read and decode
// failures return an empty set together with the error.
func (x *Extractor) ExtractFile(lang project.Language, path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Set), fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return make(Set), fmt.Errorf("%s: %w", path, ErrUndecodable)
	}
	return x.Extract(lang, string(data)), nil
}

// ExtractFiles returns the union of references across files and the number
// of files that could not be read or decoded.
func (x *Extractor) ExtractFiles(lang project.Language, files []project.Entry) (Set, int) {
	union := make(Set)
	failed := 0
	for _, f := range files {
		refs, err := x.ExtractFile(lang, f.Path)
		if err != nil {
			failed++
			continue
		}
		union.Union(refs)
	}
	if failed > 0 {
		log.WithFields(logrus.Fields{"lang": lang, "count": failed}).Debug("skipped unreadable source files")
	}
	return union, failed
}
