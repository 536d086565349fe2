package scanner

import (
	"encoding/json"
	"fmt"

	"github.com/scan-io-git/scanio-fxcop/internal/findings"
	"github.com/scan-io-git/scanio-fxcop/internal/sarif"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

const (
	FormatJSON  = "json"
	FormatSARIF = "sarif"
)

// Output is the JSON results document of one analysis.
type Output struct {
	Tool     string             `json:"tool"`
	Language string             `json:"language"`
	Mode     string             `json:"mode,omitempty"`
	Target   string             `json:"target,omitempty"`
	Skipped  bool               `json:"skipped"`
	Findings []findings.Finding `json:"findings"`
}

// WriteOutput writes out to path in the requested format. An empty format means JSON.
func WriteOutput(format, path, sourceFolder string, out Output) error {
	if out.Findings == nil {
		out.Findings = []findings.Finding{}
	}

	switch format {
	case "", FormatJSON:
		data, err := json.MarshalIndent(out, "", "    ")
		if err != nil {
			return fmt.Errorf("error marshaling the results: %w", err)
		}
		if err := files.WriteJsonFile(path, data); err != nil {
			return errs.NewStateError(err, "failed to write results to %q", path)
		}
	case FormatSARIF:
		report, err := sarif.New(sourceFolder)
		if err != nil {
			return err
		}
		report.AddFindings(out.Findings)
		if err := report.WriteFile(path); err != nil {
			return errs.NewStateError(err, "failed to write results to %q", path)
		}
	default:
		return errs.NewInputError("", "", "unsupported report format %q, expected %q or %q", format, FormatJSON, FormatSARIF)
	}
	return nil
}
