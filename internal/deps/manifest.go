// Package deps loads dependency manifests and reconciles their declarations
// against the module references found in a project's sources.
package deps

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/modfile"

	"github.com/tara-vision/codezap/internal/project"
)

// ErrNoManifest is returned when none of a language's dependency files
// exists at the project root.
var ErrNoManifest = errors.New("no dependency file found")

var log = logrus.WithField("component", "deps")

// ManifestError reports a dependency file that exists but could not be read
// or parsed.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// Declaration is one dependency a manifest claims the project needs.
type Declaration struct {
	Name       string `json:"name" yaml:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Dev        bool   `json:"dev,omitempty" yaml:"dev,omitempty"`
}

// Manifest is a parsed dependency file.
type Manifest struct {
	Path         string
	Language     project.Language
	Declarations []Declaration
}

// Names returns the distinct declared names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Declarations))
	seen := make(map[string]bool, len(m.Declarations))
	for _, d := range m.Declarations {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}

// FindManifest returns the first dependency file of lang that exists at root,
// in the profile's lookup order.
func FindManifest(root string, lang project.Language) (string, error) {
	profile, ok := project.ProfileFor(lang)
	if !ok {
		return "", fmt.Errorf("%w for language %s", ErrNoManifest, lang)
	}
	for _, name := range profile.DependencyFiles {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoManifest, root, strings.Join(profile.DependencyFiles, ", "))
}

// Load finds and parses the manifest of lang at root. Manifests that are
// found but not understood (setup.py, pyproject.toml) yield no declarations.
func Load(root string, lang project.Language) (*Manifest, error) {
	path, err := FindManifest(root, lang)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Path: path, Language: lang}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	defer f.Close()

	switch filepath.Base(path) {
	case "requirements.txt":
		m.Declarations, err = ParseRequirements(f)
	case "package.json":
		m.Declarations, err = ParsePackageJSON(f)
	case "go.mod":
		var data []byte
		if data, err = io.ReadAll(f); err == nil {
			m.Declarations, err = ParseGoMod(path, data)
		}
	default:
		log.WithField("path", path).Debug("manifest format not parsed, no declarations")
	}
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	return m, nil
}

// requirementOperators start the version constraint of a requirement line.
const requirementOperators = "><=~!"

// ParseRequirement splits one requirements line into name and constraint.
// It reports false for blank lines, comments and pip option lines.
func ParseRequirement(line string) (name, constraint string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return "", "", false
	}
	if strings.Contains(line, "://") {
		return parseURLRequirement(line)
	}
	if i := strings.Index(line, " #"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}

	name = line
	if i := strings.IndexAny(line, requirementOperators); i >= 0 {
		name, constraint = line[:i], strings.TrimSpace(line[i:])
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	return name, constraint, name != ""
}

// parseURLRequirement names a direct reference ("name @ url") or a VCS/URL
// line by its #egg= fragment. A URL without a name is not a declaration.
func parseURLRequirement(line string) (name, constraint string, ok bool) {
	scheme := strings.Index(line, "://")
	if at := strings.IndexByte(line, '@'); at >= 0 && at < scheme {
		name, constraint = line[:at], strings.TrimSpace(line[at+1:])
	} else if i := strings.Index(line, "#egg="); i >= 0 {
		name, constraint = line[i+len("#egg="):], line[:i]
		if j := strings.IndexAny(name, "& \t"); j >= 0 {
			name = name[:j]
		}
	} else {
		return "", "", false
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	return name, constraint, name != ""
}

// ParseRequirements reads a pip requirements list.
func ParseRequirements(r io.Reader) ([]Declaration, error) {
	var decls []Declaration
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		name, constraint, ok := ParseRequirement(sc.Text())
		if !ok {
			continue
		}
		decls = append(decls, Declaration{Name: name, Constraint: constraint, Line: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return decls, nil
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ParsePackageJSON returns the union of dependencies and devDependencies,
// sorted by name. A package listed in both tables is reported once, as a
// production dependency.
func ParsePackageJSON(r io.Reader) ([]Declaration, error) {
	var pkg packageJSON
	if err := json.NewDecoder(r).Decode(&pkg); err != nil {
		return nil, err
	}

	decls := make([]Declaration, 0, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for name, version := range pkg.Dependencies {
		decls = append(decls, Declaration{Name: name, Constraint: version})
	}
	for name, version := range pkg.DevDependencies {
		if _, dup := pkg.Dependencies[name]; dup {
			continue
		}
		decls = append(decls, Declaration{Name: name, Constraint: version, Dev: true})
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls, nil
}

// ParseGoMod returns the direct requirements of a go.mod file.
func ParseGoMod(path string, data []byte) ([]Declaration, error) {
	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, err
	}
	var decls []Declaration
	for _, req := range f.Require {
		if req.Indirect {
			continue
		}
		d := Declaration{Name: req.Mod.Path, Constraint: req.Mod.Version}
		if req.Syntax != nil {
			d.Line = req.Syntax.Start.Line
		}
		decls = append(decls, d)
	}
	return decls, nil
}
