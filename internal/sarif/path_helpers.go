package sarif

import (
	"path/filepath"
	"strings"
)

// PathWithin checks if a path is within another path (root).
// It handles both absolute and relative paths, attempting to resolve them first.
// Returns true if path is within root, or if root is empty.
func PathWithin(path, root string) bool {
	if root == "" {
		return true
	}
	cleanPath, err1 := filepath.Abs(path)
	cleanRoot, err2 := filepath.Abs(root)
	if err1 != nil || err2 != nil {
		cleanPath = filepath.Clean(path)
		cleanRoot = filepath.Clean(root)
	}
	if cleanPath == cleanRoot {
		return true
	}
	rootWithSep := cleanRoot + string(filepath.Separator)
	return strings.HasPrefix(cleanPath, rootWithSep)
}

// artifactURI returns path relative to root with forward slashes when it lies below root,
// otherwise the absolute path as is.
func artifactURI(path, root string) string {
	if root == "" || !PathWithin(path, root) {
		return filepath.ToSlash(path)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
