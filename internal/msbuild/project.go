// Package msbuild reads MSBuild project and solution files with line-oriented pattern
// matching. Files are not required to be well-formed XML.
package msbuild

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

const (
	OutputKindLibrary = "Library"

	netCoreFrameworkPrefix = "netcoreapp"
	maxLineSize            = 1024 * 1024
)

var (
	outputTypePattern      = regexp.MustCompile(`<OutputType>(\w+)</OutputType>`)
	assemblyNamePattern    = regexp.MustCompile(`<AssemblyName>([\w\- .]+)</AssemblyName>`)
	outputPathPattern      = regexp.MustCompile(`<OutputPath>([\w\- .\\/]+)</OutputPath>`)
	targetFrameworkPattern = regexp.MustCompile(`<TargetFramework>([\w.\-]+)</TargetFramework>`)

	netCoreDefaultOutputPaths = []string{"bin/Debug/netcoreapp2.0", "bin/Release/netcoreapp2.0"}
)

// Project is the metadata recovered from one project file.
type Project struct {
	Path            string   // project file as given
	OutputKind      string   // Library, Exe, WinExe...
	AssemblyName    string
	OutputPaths     []string // declaration order, duplicates kept
	TargetFramework string
}

// ReadProject scans a project file, applies defaults and validates the result.
func ReadProject(path string) (*Project, error) {
	project, err := scanProject(path)
	if err != nil {
		return nil, err
	}
	project.applyDefaults()
	if err := project.validate(); err != nil {
		return nil, err
	}
	return project, nil
}

func scanProject(path string) (*Project, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.NewStateError(err, "failed to open project file %q", path)
	}
	defer file.Close()

	project := &Project{Path: path}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if m := outputTypePattern.FindStringSubmatch(line); m != nil {
			project.OutputKind = m[1]
		}
		if m := assemblyNamePattern.FindStringSubmatch(line); m != nil {
			project.AssemblyName = m[1]
		}
		if m := outputPathPattern.FindStringSubmatch(line); m != nil {
			project.OutputPaths = append(project.OutputPaths, normalizeSeparators(m[1]))
		}
		if m := targetFrameworkPattern.FindStringSubmatch(line); m != nil {
			project.TargetFramework = m[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.NewStateError(err, "failed to read project file %q", path)
	}
	return project, nil
}

// applyDefaults fills in the values SDK-style projects leave implicit. Projects without
// the netcoreapp marker get no defaults and must declare everything.
func (p *Project) applyDefaults() {
	if !strings.HasPrefix(p.TargetFramework, netCoreFrameworkPrefix) {
		return
	}
	if len(p.OutputPaths) == 0 {
		for _, dir := range netCoreDefaultOutputPaths {
			p.OutputPaths = append(p.OutputPaths, normalizeSeparators(dir))
		}
	}
	if p.OutputKind == "" {
		p.OutputKind = OutputKindLibrary
	}
	if p.AssemblyName == "" {
		base := filepath.Base(p.Path)
		p.AssemblyName = strings.TrimSuffix(base, filepath.Ext(base))
	}
}

func (p *Project) validate() error {
	switch {
	case len(p.OutputPaths) == 0:
		return errs.NewInputError("", p.Path, "No output path found for %q.", p.Path)
	case p.OutputKind == "":
		return errs.NewInputError("", p.Path, "No output type found for %q.", p.Path)
	case p.AssemblyName == "" || p.AssemblyName == ".":
		return errs.NewInputError("", p.Path, "No output name found for %q.", p.Path)
	}
	return nil
}

// BinaryName returns <assembly>.dll for libraries and <assembly>.exe otherwise.
func (p *Project) BinaryName() string {
	if strings.EqualFold(p.OutputKind, OutputKindLibrary) {
		return p.AssemblyName + ".dll"
	}
	return p.AssemblyName + ".exe"
}

// ResolveBinary checks the output paths in declaration order and returns the canonical
// absolute path of the first built binary. A project that was not built yields a StateError.
func (p *Project) ResolveBinary() (string, error) {
	dir := filepath.Dir(p.Path)
	binary := p.BinaryName()

	searched := make([]string, 0, len(p.OutputPaths))
	for _, out := range p.OutputPaths {
		outDir := filepath.Join(dir, out)
		searched = append(searched, files.AbsPath(outDir))

		resolved, err := filepath.EvalSymlinks(filepath.Join(outDir, binary))
		if err != nil {
			continue
		}
		abs, err := filepath.Abs(resolved)
		if err != nil {
			continue
		}
		if files.IsRegularFile(abs) {
			return abs, nil
		}
	}

	return "", errs.NewStateError(nil,
		"%s was not found in any output directory (%s), please build project before scan.",
		binary, strings.Join(searched, ", "))
}

// String is used in log lines.
func (p *Project) String() string {
	return fmt.Sprintf("%s (%s %s)", p.Path, p.OutputKind, p.AssemblyName)
}

func normalizeSeparators(path string) string {
	return filepath.FromSlash(strings.ReplaceAll(path, `\`, "/"))
}
