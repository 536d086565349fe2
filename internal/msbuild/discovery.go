package msbuild

import (
	"os"
	"path/filepath"
	"strings"
)

const solutionExtension = ".sln"

// FindSolution looks for a solution file in baseDir and then in its parent.
// With several candidates in one folder, names without "test" or "sample" are preferred.
// The pick is advisory only.
func FindSolution(baseDir string) (string, bool) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}
	for _, dir := range []string{abs, filepath.Dir(abs)} {
		if sln, ok := pickSolution(dir); ok {
			return sln, true
		}
	}
	return "", false
}

func pickSolution(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), solutionExtension) {
			continue
		}
		candidates = append(candidates, entry.Name())
	}
	if len(candidates) == 0 {
		return "", false
	}

	for _, name := range candidates {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, "test") && !strings.Contains(lower, "sample") {
			return filepath.Join(dir, name), true
		}
	}
	return filepath.Join(dir, candidates[0]), true
}

// ResolveSolutionPath resolves a configured solution file that is either absolute,
// relative to the working directory, or relative to baseDir.
func ResolveSolutionPath(value, baseDir string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	for _, candidate := range []string{value, filepath.Join(baseDir, value)} {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", false
			}
			return abs, true
		}
		if filepath.IsAbs(value) {
			break
		}
	}
	return "", false
}
