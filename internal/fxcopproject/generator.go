// Package fxcopproject generates .fxcop project files that list every built binary of a solution.
package fxcopproject

import (
	_ "embed"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/internal/msbuild"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const (
	ProjectExtension = ".fxcop"

	timestampLayout = "20060102150405"
)

//go:embed template.xml
var defaultTemplate []byte

type document struct {
	XMLName        xml.Name  `xml:"FxCopProject"`
	Version        string    `xml:"Version,attr"`
	Name           string    `xml:"Name,attr"`
	ProjectOptions *rawXML   `xml:"ProjectOptions"`
	Targets        *targets  `xml:"Targets"`
	Rules          *rawXML   `xml:"Rules"`
	FxCopReport    *reportEl `xml:"FxCopReport"`
}

type rawXML struct {
	Inner string `xml:",innerxml"`
}

type targets struct {
	Targets []target `xml:"Target"`
}

type target struct {
	Name               string `xml:"Name,attr"`
	Analyze            string `xml:"Analyze,attr"`
	AnalyzeAllChildren string `xml:"AnalyzeAllChildren,attr"`
}

type reportEl struct {
	Version string `xml:"Version,attr"`
}

// Generator writes a .fxcop project next to a solution file.
type Generator struct {
	logger     hclog.Logger
	projectExt string
	template   []byte
	now        func() time.Time
}

// NewGenerator creates a Generator that picks projects with the given extension (.csproj or .vbproj).
func NewGenerator(logger hclog.Logger, projectExt string) *Generator {
	return &Generator{
		logger:     logger,
		projectExt: projectExt,
		template:   defaultTemplate,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the output file suffix.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate resolves the binaries of every project of the solution and writes them as
// analysis targets to <solution>.<timestamp>.fxcop. It returns the absolute path of that file.
func (g *Generator) Generate(solutionPath string) (string, error) {
	g.logger.Info("creating FxCop project", "solution", solutionPath)

	binaries, err := g.collectTargets(solutionPath)
	if err != nil {
		return "", err
	}

	data, err := g.build(binaries)
	if err != nil {
		return "", err
	}

	absSolution, err := filepath.Abs(solutionPath)
	if err != nil {
		return "", errs.NewStateError(err, "failed to resolve solution path %q", solutionPath)
	}
	outputPath := fmt.Sprintf("%s.%s%s", absSolution, g.now().Format(timestampLayout), ProjectExtension)

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		g.logger.Error("failed to write FxCop project", "path", outputPath, "error", err)
		return "", errs.NewStateError(err, "failed to write FxCop project %q", outputPath)
	}

	g.logger.Debug("FxCop project created", "path", outputPath, "targets", len(binaries))
	return outputPath, nil
}

// collectTargets resolves one binary per project. Projects missing their output type, name or path
// are skipped. A project that was not built aborts the generation.
func (g *Generator) collectTargets(solutionPath string) ([]string, error) {
	projects, err := msbuild.ReadSolution(solutionPath, g.projectExt)
	if err != nil {
		return nil, err
	}

	var binaries []string
	for _, projectPath := range projects {
		g.logger.Debug("adding project to FxCop project", "project", projectPath)
		project, err := msbuild.ReadProject(projectPath)
		if err != nil {
			if errs.IsInputError(err) {
				g.logger.Warn("ignoring project", "project", projectPath, "reason", err)
				continue
			}
			return nil, err
		}
		binary, err := project.ResolveBinary()
		if err != nil {
			g.logger.Error("project binary not found", "project", projectPath, "error", err)
			return nil, err
		}
		binaries = append(binaries, binary)
	}

	if len(binaries) == 0 {
		g.logger.Error("no projects found to scan", "solution", solutionPath)
		return nil, errs.NewInputError("", solutionPath, "No projects found to scan, can not generate FxCop configuration.")
	}
	return binaries, nil
}

func (g *Generator) build(binaries []string) ([]byte, error) {
	var doc document
	if err := xml.Unmarshal(g.template, &doc); err != nil {
		return nil, errs.NewStateError(err, "failed to read FxCop project template")
	}
	if doc.Targets == nil {
		return nil, errs.NewStateError(fmt.Errorf("missing <Targets> element"), "failed to read FxCop project template")
	}

	doc.Targets.Targets = doc.Targets.Targets[:0]
	for _, binary := range binaries {
		doc.Targets.Targets = append(doc.Targets.Targets, target{
			Name:               binary,
			Analyze:            "True",
			AnalyzeAllChildren: "True",
		})
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, errs.NewStateError(err, "failed to build FxCop project")
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
