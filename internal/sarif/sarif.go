// Package sarif renders FxCop findings as a SARIF 2.1.0 report.
package sarif

import (
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/scanio-fxcop/internal/findings"
)

const (
	ToolName           = "FxCop"
	ToolInformationURI = "https://learn.microsoft.com/visualstudio/code-quality/install-fxcop-analyzers"

	resultLevel = "warning"
)

type Report struct {
	*sarif.Report
	sourceFolder string
}

// New creates an empty SARIF report. Artifact URIs are made relative to sourceFolder.
func New(sourceFolder string) (*Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}
	return &Report{Report: report, sourceFolder: sourceFolder}, nil
}

// AddFindings adds one run holding every finding.
func (r *Report) AddFindings(list []findings.Finding) {
	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)

	for _, f := range list {
		rule := run.AddRule(f.RuleID).
			WithDescription(f.CheckID).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: resultLevel})

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(f.Message)).
			WithLevel(resultLevel)
		result.Properties = map[string]interface{}{
			"checkId":    f.CheckID,
			"repository": f.Repository,
			"reportLine": f.ReportLine,
		}

		if f.OnFile() {
			physical := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(artifactURI(f.FilePath, r.sourceFolder)))
			if f.StartLine > 0 {
				physical = physical.WithRegion(sarif.NewRegion().WithStartLine(f.StartLine))
			}
			result = result.WithLocations([]*sarif.Location{sarif.NewLocation().WithPhysicalLocation(physical)})
		}
		run.AddResult(result)
	}
	r.AddRun(run)
}

// WriteFile writes the report to path.
func (r *Report) WriteFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error writing SARIF report: %w", err)
	}
	defer func() { _ = file.Close() }()

	return r.PrettyWrite(file)
}
