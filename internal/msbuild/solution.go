package msbuild

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const (
	CSharpProjectExtension = ".csproj"
	VbNetProjectExtension  = ".vbproj"
)

func projectReferencePattern(projectExt string) *regexp.Regexp {
	return regexp.MustCompile(`"([\w.\\ \-/]+` + regexp.QuoteMeta(projectExt) + `)"`)
}

// ReadSolution returns the project files referenced by a solution file, in file order,
// joined to the solution directory. A reference to a missing file aborts the enumeration.
func ReadSolution(path, projectExt string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.NewStateError(err, "failed to open solution file %q", path)
	}
	defer file.Close()

	pattern := projectReferencePattern(projectExt)
	dir := filepath.Dir(path)

	var projects []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		for _, m := range pattern.FindAllStringSubmatch(scanner.Text(), -1) {
			project := filepath.Join(dir, normalizeSeparators(m[1]))
			if _, err := os.Stat(project); err != nil {
				return nil, errs.NewStateError(err, "Project File not found: %s", project)
			}
			projects = append(projects, project)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.NewStateError(err, "failed to read solution file %q", path)
	}
	return projects, nil
}
