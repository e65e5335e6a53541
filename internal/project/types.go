package project

import (
	"errors"
	"fmt"
	"strings"
)

// Language identifies one of the supported project ecosystems.
type Language string

const (
	Undetermined Language = ""
	Python       Language = "python"
	JavaScript   Language = "javascript"
	Go           Language = "go"
)

// Priority is the fixed evaluation order of the indicator tables. It breaks
// ties between equal detector scores.
var Priority = []Language{Python, JavaScript, Go}

var (
	// ErrUndetermined is returned when no language could be detected and
	// none was given explicitly.
	ErrUndetermined = errors.New("could not determine project language, pass --lang explicitly")
	// ErrInvalidPath is returned for a project path that does not exist or
	// is not a directory.
	ErrInvalidPath = errors.New("path does not exist or is not accessible")
)

// ParseLanguage converts a user supplied language name. "auto" and the empty
// string map to Undetermined.
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Undetermined, nil
	case "python", "py":
		return Python, nil
	case "javascript", "js", "typescript", "ts", "node":
		return JavaScript, nil
	case "go", "golang":
		return Go, nil
	default:
		return Undetermined, fmt.Errorf("unsupported language %q (want python, javascript, go or auto)", name)
	}
}

func (l Language) String() string {
	if l == Undetermined {
		return "undetermined"
	}
	return string(l)
}

// DisplayName returns the human readable name used in reports and templates.
func (l Language) DisplayName() string {
	switch l {
	case Python:
		return "Python"
	case JavaScript:
		return "JavaScript"
	case Go:
		return "Go"
	default:
		return "Unknown"
	}
}

// Entry is a single filesystem entry seen while walking a project tree.
type Entry struct {
	Path    string // absolute path
	RelPath string // root-relative path with forward slashes
	Name    string
	Ext     string // extension as found on disk, e.g. ".py"
	IsDir   bool
	Ignored bool // directory whose name is in the ignore set; never descended
}
