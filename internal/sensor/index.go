package sensor

import (
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
)

// SourceIndex is the set of source files issues may be attached to.
type SourceIndex interface {
	Contains(absPath string) bool
	Len() int
}

var skippedDirs = map[string]bool{
	".git": true,
	".vs":  true,
	"bin":  true,
	"obj":  true,
}

// DirIndex indexes the source files below a directory.
type DirIndex struct {
	files map[string]struct{}
}

// NewDirIndex walks root and indexes the files ending with one of suffixes.
// Build output and VCS folders are skipped.
func NewDirIndex(root string, suffixes ...string) (*DirIndex, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	idx := &DirIndex{files: make(map[string]struct{})}
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && skippedDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		if hasSuffix(path, suffixes) {
			idx.files[indexKey(path)] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// NewStaticIndex indexes the given paths as is.
func NewStaticIndex(paths ...string) *DirIndex {
	idx := &DirIndex{files: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		idx.files[indexKey(p)] = struct{}{}
	}
	return idx
}

func (i *DirIndex) Contains(absPath string) bool {
	_, ok := i.files[indexKey(absPath)]
	return ok
}

func (i *DirIndex) Len() int {
	return len(i.files)
}

func indexKey(path string) string {
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		return strings.ToLower(path)
	}
	return path
}

func hasSuffix(path string, suffixes []string) bool {
	lower := strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
