package analyse

import (
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/artifacts"
)

// Mode constants
const (
	ModeInProcess = "in-process"
	ModePlugin    = "plugin"
)

// determineMode determines whether the analysis runs in process or in a plugin binary.
func determineMode(options *RunOptionsAnalyse) string {
	if options.Plugin != "" {
		return ModePlugin
	}
	return ModeInProcess
}

func pluginForMode(mode, plugin string) string {
	if mode == ModePlugin {
		return plugin
	}
	return ""
}

// buildLaunchesResult wraps one analysis into a launch artifact.
func buildLaunchesResult(args shared.ScannerScanRequest, result shared.ScannerScanResponse, err error) shared.GenericLaunchesResult {
	launch := shared.GenericResult{Args: args, Result: result, Status: "OK"}
	if err != nil {
		launch.Status = "FAILED"
		launch.Message = err.Error()
	}
	return shared.GenericLaunchesResult{
		RunID:    artifacts.NewRunID(),
		Launches: []shared.GenericResult{launch},
	}
}
