package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tara-vision/codezap/internal/project"
	"github.com/tara-vision/codezap/internal/tools"
)

type fakeRunner struct {
	available map[string]bool
	calls     []string
}

func (f *fakeRunner) Available(name string) bool { return f.available[name] }

func (f *fakeRunner) Run(_ context.Context, _ string, name string, args ...string) tools.Result {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	return tools.Result{Success: true}
}

// setup isolates config lookup and swaps the tool runner for a fake.
func setup(t *testing.T, available ...string) *fakeRunner {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	runner := &fakeRunner{available: map[string]bool{}}
	for _, name := range available {
		runner.available[name] = true
	}
	origRunner, origNow := newRunner, now
	newRunner = func(time.Duration) tools.Runner { return runner }
	now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	t.Cleanup(func() { newRunner, now = origRunner, origNow })
	return runner
}

func makeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "app")
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	require.NoError(t, os.MkdirAll(root, 0755))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--no-color", "--no-spinner"))
	err := root.Execute()
	return out.String(), err
}

var pythonProject = map[string]string{
	"app.py":           "import requests\n",
	"requirements.txt": "requests>=2.0\nunused_pkg==1.0\n",
}

func TestCheckText(t *testing.T) {
	setup(t)
	root := makeProject(t, pythonProject)

	out, err := run(t, "check", "-p", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Language: Python (detected)")
	assert.Contains(t, out, "Skipped, not installed: autoflake, black")
	assert.Contains(t, out, "Found 1 unused dependencies")
	assert.Contains(t, out, "codezap fix")

	out, err = run(t, "check", "-p", root, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")
}

func TestCheckJSON(t *testing.T) {
	setup(t)
	root := makeProject(t, pythonProject)

	out, err := run(t, "check", "-p", root, "--output", "json")
	require.NoError(t, err)

	var decoded struct {
		Language string `json:"language"`
		Files    int    `json:"files"`
		Issues   []struct {
			Kind  string   `json:"kind"`
			Items []string `json:"items"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "python", decoded.Language)
	assert.Equal(t, 1, decoded.Files)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, "unused_dependencies", decoded.Issues[0].Kind)
	assert.Equal(t, []string{"unused_pkg"}, decoded.Issues[0].Items)
}

func TestUndeterminedLanguage(t *testing.T) {
	setup(t)
	root := makeProject(t, map[string]string{"README.md": "hello\n"})

	_, err := run(t, "check", "-p", root)
	assert.ErrorIs(t, err, project.ErrUndetermined)

	orig := selectLanguage
	selectLanguage = func() (project.Language, error) { return project.JavaScript, nil }
	defer func() { selectLanguage = orig }()

	out, err := run(t, "check", "-p", root, "--interactive")
	require.NoError(t, err)
	assert.Contains(t, out, "Language: JavaScript\n")
}

func TestInvalidInputs(t *testing.T) {
	setup(t)
	_, err := run(t, "check", "-p", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, project.ErrInvalidPath)

	root := makeProject(t, pythonProject)
	_, err = run(t, "check", "-p", root, "--lang", "cobol")
	assert.Error(t, err)

	_, err = run(t, "check", "-p", root, "--output", "xml")
	assert.Error(t, err)
}

func TestErrorsAreRendered(t *testing.T) {
	setup(t)
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"check", "-p", filepath.Join(t.TempDir(), "missing"), "--no-color"})

	err := executeRoot(root)
	require.ErrorIs(t, err, project.ErrInvalidPath)
	assert.Contains(t, errOut.String(), "✗ Error: "+err.Error()+"\n")
	assert.Empty(t, out.String())
}

func TestExplicitLanguageOverridesDetection(t *testing.T) {
	setup(t)
	root := makeProject(t, map[string]string{"a.py": "x = 1\n", "b.py": "y = 2\n", "main.go": "package main\n"})

	out, err := run(t, "check", "-p", root, "-l", "go")
	require.NoError(t, err)
	assert.Contains(t, out, "Language: Go\n")
}

func TestDepsRemoveUnused(t *testing.T) {
	setup(t)
	root := makeProject(t, pythonProject)

	out, err := run(t, "deps", "-p", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Unused dependencies (1):")
	assert.Contains(t, out, "  - unused_pkg")

	out, err = run(t, "deps", "-p", root, "--remove-unused")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed unused dependencies: 1")
	data, _ := os.ReadFile(filepath.Join(root, "requirements.txt"))
	assert.Equal(t, "requests>=2.0\n", string(data))
}

func TestDepsInteractiveDecline(t *testing.T) {
	setup(t)
	root := makeProject(t, pythonProject)

	orig := confirm
	confirm = func(string) (bool, error) { return false, nil }
	defer func() { confirm = orig }()

	_, err := run(t, "deps", "-p", root, "--remove-unused", "--interactive")
	require.NoError(t, err)
	data, _ := os.ReadFile(filepath.Join(root, "requirements.txt"))
	assert.Equal(t, pythonProject["requirements.txt"], string(data))
}

func TestDepsGoYAML(t *testing.T) {
	runner := setup(t, "go")
	root := makeProject(t, map[string]string{
		"go.mod":  "module example.com/app\n\ngo 1.22\n\nrequire github.com/spf13/cobra v1.8.1\n",
		"main.go": "package main\n",
	})

	out, err := run(t, "deps", "-p", root, "--remove-unused", "--output", "yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"go mod tidy"}, runner.calls)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "go", decoded["language"])
	assert.Equal(t, true, decoded["tidied"])
}

func TestFixWithBackup(t *testing.T) {
	runner := setup(t, "autoflake")
	root := makeProject(t, pythonProject)

	out, err := run(t, "fix", "-p", root, "--backup", "--aggressive")
	require.NoError(t, err)
	assert.Contains(t, out, "Backup created:")
	assert.Contains(t, out, "Files processed: 1 of 1")
	assert.Contains(t, out, "Dependencies removed: 1")
	assert.Len(t, runner.calls, 1)

	backup := filepath.Join(filepath.Dir(root), "backup_app_20240506_070809")
	data, err := os.ReadFile(filepath.Join(backup, "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, pythonProject["requirements.txt"], string(data))
	assert.FileExists(t, filepath.Join(root, ".gitignore"))
}

func TestFormatMarkdown(t *testing.T) {
	setup(t, "gofmt")
	root := makeProject(t, map[string]string{"go.mod": "module x\n", "main.go": "package main\n"})

	out, err := run(t, "format", "-p", root, "--output", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "Format")
	assert.Contains(t, out, "0 of 1")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "codezap version dev\n", out)
}
