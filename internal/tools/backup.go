package tools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// BackupIgnoreDirs are directory names left out of a backup copy.
var BackupIgnoreDirs = map[string]bool{
	"__pycache__":  true,
	"node_modules": true,
	".git":         true,
}

// BackupIgnorePatterns are file name patterns left out of a backup copy.
var BackupIgnorePatterns = []string{"*.pyc", "*.pyo"}

// BackupPath returns the sibling directory a backup of root taken at now is
// written to: <parent>/backup_<name>_<YYYYMMDD_HHMMSS>.
func BackupPath(root string, now time.Time) string {
	name := fmt.Sprintf("backup_%s_%s", filepath.Base(root), now.Format("20060102_150405"))
	return filepath.Join(filepath.Dir(root), name)
}

// Backup copies the project at root into BackupPath(root, now) and returns
// that path. It refuses to overwrite an existing directory.
func Backup(root string, now time.Time) (string, error) {
	dest := BackupPath(root, now)
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("backup destination %s already exists", dest)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			if path != root && BackupIgnoreDirs[d.Name()] {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() || matchesAny(d.Name(), BackupIgnorePatterns) {
			return nil
		}
		return copyFile(path, target)
	})
	if err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", root, err)
	}

	log.WithField("dest", dest).Info("backup created")
	return dest, nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directories: %w", err)
	}

	if err := os.WriteFile(dst, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write destination file: %w", err)
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
