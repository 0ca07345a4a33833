package config

import (
	"os"
	"path/filepath"
)

const (
	// FileName holds analysis options.
	FileName = ".svls.toml"
	// RuleFileName holds rule options.
	RuleFileName = ".svlint.toml"
)

// Search looks for filename in the working directory and each of its parents.
func Search(filename string) (string, bool) {
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return SearchFrom(wd, filename)
}

// SearchFrom walks up from startDir and returns the first <dir>/<filename>
// that exists.
func SearchFrom(startDir, filename string) (string, bool) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
