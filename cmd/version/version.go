package version

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-fxcop/internal/executor"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
)

var (
	AppConfig     *config.Config
	logger        hclog.Logger
	CoreVersion   = "unknown"
	GolangVersion = "unknown"
	BuildTime     = "unknown"
)

// CoreVersions holds version information for the core application and plugins.
type CoreVersions struct {
	Versions    shared.Versions       `json:"versions"`
	Languages   []string              `json:"languages"`
	Executable  string                `json:"executable"`
	PluginsMeta map[string]PluginMeta `json:"plugins_meta"`
}

// PluginMeta holds version information for a plugin.
type PluginMeta struct {
	Version    string `json:"version"`
	PluginType string `json:"plugin_type"`
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version number of the application and plugins",
		Run: func(cmd *cobra.Command, args []string) {
			version := CoreVersions{
				Versions: shared.Versions{
					Version:       CoreVersion,
					GolangVersion: GolangVersion,
					BuildTime:     BuildTime,
				},
				Languages:   []string{targetconfig.LanguageCSharp, targetconfig.LanguageVbNet},
				Executable:  executor.ExecutableName,
				PluginsMeta: getPluginVersions(config.GetScanioPluginsHome(AppConfig)),
			}
			printVersionInfo(os.Stdout, &version)
		},
	}
}

// readVersionFile reads and parses the version file as JSON.
func readVersionFile(versionFilePath string) PluginMeta {
	var pm PluginMeta
	data, err := os.ReadFile(versionFilePath)
	if err != nil {
		return PluginMeta{Version: "unknown", PluginType: "unknown"}
	}
	if err := json.Unmarshal(data, &pm); err != nil {
		return PluginMeta{Version: "unknown", PluginType: "unknown"}
	}
	return pm
}

// getPluginVersions iterates through the plugin directories and reads their version files.
func getPluginVersions(pluginsDir string) map[string]PluginMeta {
	pluginsMeta := make(map[string]PluginMeta)
	if pluginsDir == "" {
		return pluginsMeta
	}
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		if logger != nil {
			logger.Debug("failed to read plugins directory", "path", pluginsDir, "error", err)
		}
		return pluginsMeta
	}
	for _, entry := range entries {
		if entry.IsDir() {
			pluginName := entry.Name()
			pluginsMeta[pluginName] = readVersionFile(filepath.Join(pluginsDir, pluginName, "VERSION"))
		}
	}
	return pluginsMeta
}

// printVersionInfo prints the version information for the core application and plugins.
func printVersionInfo(w io.Writer, versions *CoreVersions) {
	fmt.Fprintf(w, "Core Version: v%s\n", versions.Versions.Version)
	fmt.Fprintf(w, "FxCop: %s, languages %v\n", versions.Executable, versions.Languages)
	if len(versions.PluginsMeta) > 0 {
		fmt.Fprintln(w, "Plugin Versions:")
		for plugin, version := range versions.PluginsMeta {
			fmt.Fprintf(w, "  %s: v%s (Type: %s)\n", plugin, version.Version, version.PluginType)
		}
	}
	fmt.Fprintf(w, "Go Version: %s\n", versions.Versions.GolangVersion)
	fmt.Fprintf(w, "Build Time: %s\n", versions.Versions.BuildTime)
}
