package deps

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tara-vision/codezap/internal/imports"
	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/tools"
)

type fakeRunner struct {
	available map[string]bool
	result    tools.Result
	calls     [][]string
}

func (f *fakeRunner) Available(name string) bool { return f.available[name] }

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) tools.Result {
	f.calls = append(f.calls, append([]string{dir, name}, args...))
	return f.result
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestUnusedRequirements(t *testing.T) {
	decls, err := ParseRequirements(strings.NewReader("requests>=2.0\nunused_pkg==1.0\n"))
	require.NoError(t, err)

	m := &Manifest{Language: project.Python, Declarations: decls}
	got := NewReconciler(nil).Unused(m, imports.NewSet("requests"))
	assert.Equal(t, []string{"unused_pkg"}, got)
}

func TestParseRequirements(t *testing.T) {
	src := `# pinned deps
requests>=2.0

Django==4.2  # web
-r base.txt
--index-url https://example.org/simple
uvicorn[standard]~=0.23
typing_extensions; python_version < "3.10"
flask!=2.0.1
   numpy
`
	decls, err := ParseRequirements(strings.NewReader(src))
	require.NoError(t, err)

	want := []Declaration{
		{Name: "requests", Constraint: ">=2.0", Line: 2},
		{Name: "Django", Constraint: "==4.2", Line: 4},
		{Name: "uvicorn", Constraint: "~=0.23", Line: 7},
		{Name: "typing_extensions", Line: 8},
		{Name: "flask", Constraint: "!=2.0.1", Line: 9},
		{Name: "numpy", Line: 10},
	}
	assert.Equal(t, want, decls)
}

func TestParseRequirementURLs(t *testing.T) {
	for line, want := range map[string]string{
		"git+https://github.com/acme/x.git#egg=foo":                       "foo",
		"git+https://github.com/acme/x.git@v1.2#egg=bar&subdirectory=src": "bar",
		"baz @ https://files.example.org/baz-1.0.tar.gz":                  "baz",
		"qux[cli]@git+ssh://git@github.com/acme/qux.git":                  "qux",
	} {
		name, _, ok := ParseRequirement(line)
		require.True(t, ok, line)
		assert.Equal(t, want, name, line)
	}

	_, _, ok := ParseRequirement("https://files.example.org/anon-1.0.tar.gz")
	assert.False(t, ok)

	data := []byte("requests\ngit+https://github.com/acme/x.git#egg=foo\n")
	out, removed := FilterRequirements(data, []string{"foo"})
	assert.Equal(t, "requests\n", string(out))
	assert.Equal(t, []string{"foo"}, removed)
}

func TestPythonNameNormalisation(t *testing.T) {
	decls, err := ParseRequirements(strings.NewReader("PyYAML\ntyping-extensions\nSQLAlchemy\nbeautifulsoup4\n"))
	require.NoError(t, err)
	m := &Manifest{Language: project.Python, Declarations: decls}

	refs := imports.NewSet("typing_extensions", "sqlalchemy", "yaml", "bs4")
	// import names that differ from distribution names are not guessed
	assert.Equal(t, []string{"PyYAML", "beautifulsoup4"}, NewReconciler(nil).Unused(m, refs))
	assert.Equal(t, "typing_extensions", NormalizePythonName("Typing-Extensions"))
}

func TestParsePackageJSON(t *testing.T) {
	src := `{
  "name": "app",
  "dependencies": {"react": "^18.0.0", "express": "4.x", "@babel/core": "7"},
  "devDependencies": {"jest": "29", "react": "^18.0.0"}
}`
	decls, err := ParsePackageJSON(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Declaration{
		{Name: "@babel/core", Constraint: "7"},
		{Name: "express", Constraint: "4.x"},
		{Name: "jest", Constraint: "29", Dev: true},
		{Name: "react", Constraint: "^18.0.0"},
	}, decls)

	m := &Manifest{Language: project.JavaScript, Declarations: decls}
	got := NewReconciler(nil).Unused(m, imports.NewSet("react", "@babel/core", "Express"))
	assert.Equal(t, []string{"express", "jest"}, got)

	_, err = ParsePackageJSON(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestParseGoMod(t *testing.T) {
	src := `module example.com/app

go 1.22

require (
	github.com/spf13/cobra v1.8.1
	golang.org/x/sys v0.20.0 // indirect
)

require gopkg.in/yaml.v3 v3.0.1
`
	decls, err := ParseGoMod("go.mod", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []Declaration{
		{Name: "github.com/spf13/cobra", Constraint: "v1.8.1", Line: 6},
		{Name: "gopkg.in/yaml.v3", Constraint: "v3.0.1", Line: 10},
	}, decls)

	m := &Manifest{Language: project.Go, Declarations: decls}
	assert.Nil(t, NewReconciler(nil).Unused(m, imports.NewSet()))
}

func TestFindAndLoadManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := FindManifest(dir, project.Python)
	assert.ErrorIs(t, err, ErrNoManifest)

	writeFile(t, dir, "pyproject.toml", "[project]\nname='x'\n")
	m, err := Load(dir, project.Python)
	require.NoError(t, err)
	assert.Equal(t, "pyproject.toml", filepath.Base(m.Path))
	assert.Empty(t, m.Declarations)

	writeFile(t, dir, "requirements.txt", "requests\nflask\nrequests==2.0\n")
	m, err = Load(dir, project.Python)
	require.NoError(t, err)
	assert.Equal(t, "requirements.txt", filepath.Base(m.Path))
	assert.Len(t, m.Declarations, 3)
	assert.Equal(t, []string{"requests", "flask"}, m.Names())

	_, err = FindManifest(dir, project.Undetermined)
	assert.ErrorIs(t, err, ErrNoManifest)
}

func TestLoadRejectsBrokenPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"dependencies": [`)
	_, err := Load(dir, project.JavaScript)
	var merr *ManifestError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, filepath.Join(dir, "package.json"), merr.Path)
}

func TestFilterRequirementsKeepsRetainedLinesVerbatim(t *testing.T) {
	inputs := []string{
		"requests>=2.0\nunused_pkg==1.0\n",
		"# header\r\nflask  ==2.0\r\n\r\nunused_pkg\r\n  numpy # math\r\n",
		"unused_pkg\nother",
		"-r base.txt\nunused_pkg==1\n# unused_pkg stays as a comment\nlast_pkg",
	}
	for _, in := range inputs {
		out, removed := FilterRequirements([]byte(in), []string{"unused_pkg"})
		assert.Equal(t, []string{"unused_pkg"}, removed, in)

		var want []string
		for _, line := range strings.SplitAfter(in, "\n") {
			if name, _, ok := ParseRequirement(line); ok && name == "unused_pkg" {
				continue
			}
			want = append(want, line)
		}
		assert.Equal(t, strings.Join(want, ""), string(out), in)
	}
}

func TestRemoveUnused(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "requirements.txt", "# deps\nrequests>=2.0\nunused_pkg==1.0\nflask\n")

	removed, err := RemoveUnused(path, []string{"unused_pkg", "not_declared"})
	require.NoError(t, err)
	assert.Equal(t, []string{"unused_pkg"}, removed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# deps\nrequests>=2.0\nflask\n", string(data))

	removed, err = RemoveUnused(path, []string{"unused_pkg"})
	require.NoError(t, err)
	assert.Empty(t, removed)

	_, err = RemoveUnused(filepath.Join(dir, "missing.txt"), []string{"x"})
	assert.Error(t, err)
}

func TestReconcilePython(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements.txt", "requests>=2.0\nunused_pkg==1.0\n")
	m, err := Load(dir, project.Python)
	require.NoError(t, err)

	rc := NewReconciler(&fakeRunner{})
	report, err := rc.Reconcile(context.Background(), dir, m, imports.NewSet("requests"), false)
	require.NoError(t, err)
	assert.Equal(t, project.Python, report.Language)
	assert.Equal(t, []string{"unused_pkg"}, report.Unused)
	assert.Empty(t, report.Removed)
	assert.Len(t, report.Declared, 2)

	report, err = rc.Reconcile(context.Background(), dir, m, imports.NewSet("requests"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"unused_pkg"}, report.Removed)
	data, _ := os.ReadFile(filepath.Join(dir, "requirements.txt"))
	assert.Equal(t, "requests>=2.0\n", string(data))
}

func TestReconcileGoDelegatesToTidy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/x\n\ngo 1.22\n\nrequire github.com/spf13/cobra v1.8.1\n")
	m, err := Load(dir, project.Go)
	require.NoError(t, err)

	runner := &fakeRunner{available: map[string]bool{"go": true}, result: tools.Result{Success: true}}
	report, err := NewReconciler(runner).Reconcile(context.Background(), dir, m, imports.NewSet(), true)
	require.NoError(t, err)
	assert.True(t, report.Tidied)
	assert.Empty(t, report.Unused)
	assert.Equal(t, [][]string{{dir, "go", "mod", "tidy"}}, runner.calls)

	// without removal nothing is run
	runner.calls = nil
	_, err = NewReconciler(runner).Reconcile(context.Background(), dir, m, imports.NewSet(), false)
	require.NoError(t, err)
	assert.Empty(t, runner.calls)
}

func TestReconcileGoWithoutToolchain(t *testing.T) {
	m := &Manifest{Path: "go.mod", Language: project.Go}
	runner := &fakeRunner{}
	report, err := NewReconciler(runner).Reconcile(context.Background(), ".", m, imports.NewSet(), true)
	require.NoError(t, err)
	assert.False(t, report.Tidied)
	assert.Equal(t, []string{"go"}, report.Unavailable)
	assert.Empty(t, runner.calls)
}

func TestReconcileNilManifest(t *testing.T) {
	report, err := NewReconciler(nil).Reconcile(context.Background(), ".", nil, imports.NewSet("x"), true)
	require.NoError(t, err)
	assert.Empty(t, report.ManifestPath)
	assert.Empty(t, report.Unused)
}
