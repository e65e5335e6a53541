package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tara-vision/codezap/internal/project"
)

// GitignoreTemplates are the ignore patterns written for a new .gitignore.
var GitignoreTemplates = map[project.Language][]string{
	project.Python: {
		"__pycache__/", "*.py[cod]", "*$py.class", "*.so", ".Python",
		"build/", "develop-eggs/", "dist/", "downloads/", "eggs/", ".eggs/",
		"lib/", "lib64/", "parts/", "sdist/", "var/", "wheels/",
		"*.egg-info/", ".installed.cfg", "*.egg", "MANIFEST",
		".env", ".venv", "env/", "venv/", "ENV/", "env.bak/", "venv.bak/",
	},
	project.JavaScript: {
		"node_modules/", "npm-debug.log*", "yarn-debug.log*", "yarn-error.log*",
		".npm", ".eslintcache", ".nyc_output", "coverage/", ".grunt",
		"bower_components", ".lock-wscript", "build/Release", ".node_repl_history",
		"*.tgz", ".yarn-integrity", ".env", ".env.local", ".env.development.local",
		".env.test.local", ".env.production.local",
	},
	project.Go: {
		"*.exe", "*.exe~", "*.dll", "*.so", "*.dylib", "*.test", "*.out",
		"go.work", "vendor/",
	},
}

// RenderGitignore returns the .gitignore content for lang, or "" when there
// is no template for it.
func RenderGitignore(lang project.Language) string {
	patterns, ok := GitignoreTemplates[lang]
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s .gitignore\n\n", lang.DisplayName())
	for _, p := range patterns {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnsureGitignore writes a .gitignore for lang at root unless one already
// exists. It reports whether a file was created.
func EnsureGitignore(root string, lang project.Language) (bool, error) {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := RenderGitignore(lang)
	if content == "" {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.WithField("path", path).Info("created .gitignore")
	return true, nil
}
