package project

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// BinarySniffSize is how much of a file is inspected for NUL bytes.
const BinarySniffSize = 8192

// DefaultIgnoreDirs are directory names that are never descended into:
// version control metadata, dependency caches, virtual environments and
// build caches.
var DefaultIgnoreDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	"__pycache__":   true,
	"node_modules":  true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".tox":          true,
	"venv":          true,
	".venv":         true,
	"vendor":        true,
}

var log = logrus.WithField("component", "project")

// VisitFunc is invoked for every entry below the root, in lexical order.
type VisitFunc func(e Entry)

// Tree is a project root plus the ignore set applied while walking it.
// Entries are enumerated lazily on every Walk; the tree itself is not
// modified after construction.
type Tree struct {
	Root   string
	ignore map[string]bool
}

// NewTree returns a tree rooted at root that ignores DefaultIgnoreDirs plus
// any extra directory names. A root that is a symlink is resolved first;
// links below the root are not followed.
func NewTree(root string, extraIgnore ...string) *Tree {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	ignore := make(map[string]bool, len(DefaultIgnoreDirs)+len(extraIgnore))
	for name := range DefaultIgnoreDirs {
		ignore[name] = true
	}
	for _, name := range extraIgnore {
		if name = strings.TrimSpace(name); name != "" {
			ignore[name] = true
		}
	}
	return &Tree{Root: root, ignore: ignore}
}

// Walk visits every entry below the root. Ignored directories are reported
// with Ignored set but their contents are not visited. Unreadable entries
// are skipped; the number skipped is returned. An unreadable root yields no
// entries.
func (t *Tree) Walk(fn VisitFunc) (skipped int) {
	filepath.WalkDir(t.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped++
			if d != nil && d.IsDir() && path != t.Root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == t.Root {
			return nil
		}

		rel, _ := filepath.Rel(t.Root, path)
		entry := Entry{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Name:    d.Name(),
			IsDir:   d.IsDir(),
		}
		if !entry.IsDir {
			entry.Ext = filepath.Ext(entry.Name)
		}

		if entry.IsDir && t.ignore[entry.Name] {
			entry.Ignored = true
			fn(entry)
			return filepath.SkipDir
		}

		// Only regular files and directories are reported; symlinks and
		// devices are not followed.
		if !entry.IsDir && !d.Type().IsRegular() {
			return nil
		}
		fn(entry)
		return nil
	})
	if skipped > 0 {
		log.WithField("count", skipped).Debug("skipped unreadable entries")
	}
	return skipped
}

// Files returns the regular files whose extension matches one of exts, in
// discovery order. Files under an ignored directory and binary files are
// excluded.
func (t *Tree) Files(exts []string) []Entry {
	want := make(map[string]bool, len(exts))
	for _, ext := range exts {
		want[strings.ToLower(ext)] = true
	}

	var files []Entry
	ignored, binaries := 0, 0
	t.Walk(func(e Entry) {
		switch {
		case e.Ignored:
			ignored++
			return
		case e.IsDir || !want[strings.ToLower(e.Ext)]:
			return
		case IsBinary(e.Path):
			binaries++
			return
		}
		files = append(files, e)
	})

	log.WithFields(logrus.Fields{
		"files":    len(files),
		"ignored":  ignored,
		"binaries": binaries,
	}).Debug("classified project files")
	return files
}

// IsBinary reports whether the first BinarySniffSize bytes of the file
// contain a NUL byte. Files that cannot be opened or read count as binary.
func IsBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, BinarySniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return bytes.IndexByte(buf[:n], 0) >= 0
}

// ResolveRoot turns a user supplied path into an absolute directory path
// with symlinks resolved.
func ResolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, abs)
	}
	return abs, nil
}
