package project

// Profile holds the per-language configuration used by the orchestrator:
// which files are source files, where dependencies are declared and which
// external tools format and clean the code.
type Profile struct {
	Language        Language
	Extensions      []string
	DependencyFiles []string // looked up in order at the project root
	Formatter       string
	Cleaner         string
	// ImportChecker lists files whose imports would change; empty when the
	// ecosystem has no such tool.
	ImportChecker string
}

// Profiles maps every supported language to its profile.
var Profiles = map[Language]Profile{
	Python: {
		Language:        Python,
		Extensions:      []string{".py"},
		DependencyFiles: []string{"requirements.txt", "setup.py", "pyproject.toml"},
		Formatter:       "black",
		Cleaner:         "autoflake",
		ImportChecker:   "autoflake",
	},
	JavaScript: {
		Language:        JavaScript,
		Extensions:      []string{".js", ".ts", ".jsx", ".tsx"},
		DependencyFiles: []string{"package.json"},
		Formatter:       "prettier",
		Cleaner:         "eslint",
	},
	Go: {
		Language:        Go,
		Extensions:      []string{".go"},
		DependencyFiles: []string{"go.mod"},
		Formatter:       "gofmt",
		Cleaner:         "goimports",
		ImportChecker:   "goimports",
	},
}

// ProfileFor returns the profile of lang.
func ProfileFor(lang Language) (Profile, bool) {
	p, ok := Profiles[lang]
	return p, ok
}
