package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-plugin"
	"github.com/spf13/pflag"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/logger"
)

const (
	PluginTypeScanner string = "scanner"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SCANIO",
	MagicCookieValue: "a65de33ff91e68ab6f5cd1fd5abb1235294816f5",
}

var PluginMap = map[string]plugin.Plugin{
	PluginTypeScanner: &ScannerPlugin{},
}

// Versions holds build metadata of a binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}

// GenericResult is one launch entry of a command artifact.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// GenericLaunchesResult aggregates the launches of one command.
type GenericLaunchesResult struct {
	RunID    string          `json:"run_id,omitempty"`
	Launches []GenericResult `json:"launches"`
}

// WithPlugin starts the named plugin binary from the plugins folder, dispenses pluginType and passes it to f.
func WithPlugin(cfg *config.Config, loggerName string, pluginType string, pluginName string, f func(interface{}) error) error {
	logger := logger.NewLogger(cfg, loggerName)

	pluginPath := filepath.Join(config.GetScanioPluginsHome(cfg), pluginName)
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins:         PluginMap,
		Cmd:             exec.Command(pluginPath),
		Logger:          logger,
	})
	defer client.Kill()

	rpcClient, err := client.Client()
	if err != nil {
		return fmt.Errorf("failed to start plugin %q: %w", pluginPath, err)
	}

	raw, err := rpcClient.Dispense(pluginType)
	if err != nil {
		return fmt.Errorf("failed to dispense %q from plugin %q: %w", pluginType, pluginName, err)
	}

	return f(raw)
}

// HasFlags reports whether any flag was explicitly set.
func HasFlags(flags *pflag.FlagSet) bool {
	hasFlags := false
	flags.Visit(func(*pflag.Flag) {
		hasFlags = true
	})
	return hasFlags
}

// IsInList reports whether target is one of list.
func IsInList(target string, list []string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

// PrintResultAsJSON writes result to stdout as indented JSON.
func PrintResultAsJSON(result interface{}) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("error marshaling the result data: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
