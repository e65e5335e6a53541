package imports

import (
	"regexp"
	"strings"

	"github.com/tara-vision/codezap/internal/project"
)

// Scope selects what a rule's pattern is matched against.
type Scope int

const (
	// PerLine matches the pattern against every whitespace-trimmed line.
	PerLine Scope = iota
	// WholeFile matches the pattern against the full buffer, which is needed
	// for bracketed multi-line import blocks.
	WholeFile
)

// Segment selects which path segment of a reference is kept.
type Segment int

const (
	FirstSegment Segment = iota
	LastSegment
)

// Rule is one extraction pattern. The first capture group of Pattern holds
// the referenced path.
type Rule struct {
	Pattern *regexp.Regexp
	Scope   Scope
	// Inner, when set, is matched against the captured text and every one of
	// its captures is a reference.
	Inner *regexp.Regexp
	// Comments, when set, is removed from the captured text before Inner runs.
	Comments *regexp.Regexp
	// List splits the capture on commas and keeps the leading token of each
	// item ("os, sys as system").
	List bool

	Segment   Segment
	Separator string
	// SkipRelative drops references starting with ".", which name local files.
	SkipRelative bool
	// Scoped keeps "@scope/name" together when taking the first segment.
	Scoped bool
}

// DefaultRules are the extraction tables for every supported language.
//
// Python and JavaScript keep the first segment of a reference (the package
// that has to be installed) while Go keeps the last one (the identifier the
// import binds in code).
var DefaultRules = map[project.Language][]Rule{
	project.Python: {
		{
			Pattern:   regexp.MustCompile(`^import\s+([A-Za-z_][\w.]*(?:\s+as\s+\w+)?(?:\s*,\s*[A-Za-z_][\w.]*(?:\s+as\s+\w+)?)*)`),
			Scope:     PerLine,
			List:      true,
			Segment:   FirstSegment,
			Separator: ".",
		},
		{
			Pattern:   regexp.MustCompile(`^from\s+([A-Za-z_][\w.]*)\s+import\b`),
			Scope:     PerLine,
			Segment:   FirstSegment,
			Separator: ".",
		},
	},
	project.JavaScript: {
		jsRule(`require\s*\(\s*['"]([^'"\s]+)['"]\s*\)`),
		jsRule(`\bimport\s+[^'";]*?\bfrom\s*['"]([^'"\s]+)['"]`),
		jsRule(`\bimport\s*['"]([^'"\s]+)['"]`),
		jsRule(`\bimport\s*\(\s*['"]([^'"\s]+)['"]\s*\)`),
		jsRule(`\bexport\s+[^'";]*?\bfrom\s*['"]([^'"\s]+)['"]`),
	},
	project.Go: {
		{
			Pattern:   regexp.MustCompile(`(?m)^\s*import\s+(?:[\w.]+\s+)?"([^"]+)"`),
			Scope:     WholeFile,
			Segment:   LastSegment,
			Separator: "/",
		},
		{
			// The block body skips over quoted paths and comments, so a ")"
			// inside either does not close it.
			Pattern:   regexp.MustCompile(`(?s)\bimport\s*\(((?:[^)"/]|"[^"\n]*"|//[^\n]*|/\*.*?\*/)*)\)`),
			Inner:     regexp.MustCompile(`"([^"]+)"`),
			Comments:  regexp.MustCompile(`(?s)//[^\n]*|/\*.*?\*/`),
			Scope:     WholeFile,
			Segment:   LastSegment,
			Separator: "/",
		},
	},
}

func jsRule(pattern string) Rule {
	return Rule{
		Pattern:      regexp.MustCompile(pattern),
		Scope:        WholeFile,
		Segment:      FirstSegment,
		Separator:    "/",
		SkipRelative: true,
		Scoped:       true,
	}
}

// apply adds every reference the rule finds in text to into.
func (r Rule) apply(text string, into Set) {
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		if len(m) < 2 {
			continue
		}
		captured := []string{m[1]}
		if r.Inner != nil {
			body := m[1]
			if r.Comments != nil {
				body = r.Comments.ReplaceAllString(body, "")
			}
			captured = captured[:0]
			for _, im := range r.Inner.FindAllStringSubmatch(body, -1) {
				captured = append(captured, im[1])
			}
		}
		for _, c := range captured {
			if r.List {
				for _, item := range strings.Split(c, ",") {
					if fields := strings.Fields(item); len(fields) > 0 {
						into.Add(r.normalize(fields[0]))
					}
				}
				continue
			}
			into.Add(r.normalize(c))
		}
	}
}

// normalize reduces a raw reference to the module name the rule keeps.
func (r Rule) normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if r.SkipRelative && strings.HasPrefix(raw, ".") {
		return ""
	}

	parts := strings.Split(raw, r.Separator)
	if r.Segment == LastSegment {
		return parts[len(parts)-1]
	}
	if r.Scoped && strings.HasPrefix(raw, "@") && len(parts) > 1 {
		return parts[0] + r.Separator + parts[1]
	}
	return parts[0]
}
