package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"github.com/scan-io-git/scanio-fxcop/internal/scanner"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
)

// Metadata of the plugin
var (
	Version       = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// ScannerFxCop serves FxCop analyses over the scanio plugin protocol.
type ScannerFxCop struct {
	logger hclog.Logger
	local  *scanner.Local
}

func newScannerFxCop(logger hclog.Logger) *ScannerFxCop {
	return &ScannerFxCop{
		logger: logger,
		local:  scanner.NewLocal(logger),
	}
}

// Scan executes the FxCop analysis with the provided arguments and returns the scan response.
func (g *ScannerFxCop) Scan(args shared.ScannerScanRequest) (shared.ScannerScanResponse, error) {
	g.validateLanguageSoft(args.Language)
	return g.local.Scan(args)
}

// Setup applies the plugin environment overrides to the global configuration.
func (g *ScannerFxCop) Setup(configData config.Config) (bool, error) {
	if err := config.ValidateFxCopConfig(&configData.FxCopPlugin); err != nil {
		g.logger.Error("invalid fxcop_plugin configuration", "error", err)
		return false, err
	}
	return g.local.Setup(configData)
}

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Level:      hclog.Trace,
		Output:     os.Stderr,
		JSONFormat: true,
	})

	fxcopInstance := newScannerFxCop(logger)

	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: shared.HandshakeConfig,
		Plugins: map[string]plugin.Plugin{
			shared.PluginTypeScanner: &shared.ScannerPlugin{Impl: fxcopInstance},
		},
		Logger: logger,
	})
}
