package check

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-fxcop/internal/scanner"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

// RunOptionsCheck holds the arguments for the check command.
type RunOptionsCheck struct {
	Language       string
	PropertiesPath string
	Properties     []string
}

var (
	AppConfig         *config.Config
	logger            hclog.Logger
	checkOptions      RunOptionsCheck
	exampleCheckUsage = `  # Checking which FxCop target a properties file resolves to
  scanio-fxcop check --properties sonar-project.properties /path/to/my_project

  # Checking a VB.NET project configured on the command line
  scanio-fxcop check --language vbnet -D sonar.vbnet.fxcop.project=App.vbproj /path/to/my_project`
)

// CheckCmd resolves the FxCop target without running FxCopCmd.
var CheckCmd = &cobra.Command{
	Use:                   "check [--language cs|vbnet] [--properties PATH] [-D key=value]... BASE_DIR",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleCheckUsage,
	Short:                 "Validates the FxCop properties and prints the resolved scan mode and target",
	Args:                  cobra.ExactArgs(1),
	RunE:                  runCheckCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	request := shared.ScannerScanRequest{
		TargetPath:     args[0],
		ConfigPath:     checkOptions.PropertiesPath,
		Language:       checkOptions.Language,
		AdditionalArgs: checkOptions.Properties,
	}

	local := scanner.NewLocal(logger)
	if _, err := local.Setup(*AppConfig); err != nil {
		return errs.NewCommandError(request, nil, err)
	}

	res, err := local.Resolve(request)
	if err != nil {
		logger.Error("FxCop target resolution failed", "error", err)
		return errs.NewCommandError(request, nil, err)
	}

	printResolution(os.Stdout, res, config.GetFxCopTimeout(AppConfig))
	return nil
}

// printResolution prints the resolved mode, target and run options.
func printResolution(w io.Writer, res *targetconfig.Resolution, defaultTimeout int) {
	fmt.Fprintf(w, "mode: %s\n", res.Mode)
	fmt.Fprintf(w, "target: %s\n", res.Target)
	if res.Mode == targetconfig.ReportReuse {
		return
	}
	if res.UsedFallback {
		fmt.Fprintln(w, "solution: discovered")
	}
	fmt.Fprintf(w, "executable: %s (%s)\n", res.Executable, res.ExecutableKey)
	fmt.Fprintf(w, "timeout: %d minute(s) (%s)\n", res.Timeout(defaultTimeout), res.TimeoutKey)
	if res.Aspnet {
		fmt.Fprintln(w, "aspnet: true")
	}
	for _, dir := range res.Directories {
		fmt.Fprintf(w, "directory: %s\n", dir)
	}
	for _, ref := range res.References {
		fmt.Fprintf(w, "reference: %s\n", ref)
	}
}

func init() {
	CheckCmd.Flags().StringVarP(&checkOptions.Language, "language", "l", "", "Language binding, cs or vbnet. Defaults to fxcop_plugin.language of the config.")
	CheckCmd.Flags().StringVar(&checkOptions.PropertiesPath, "properties", "", "Path to an analysis properties file, e.g. sonar-project.properties.")
	CheckCmd.Flags().StringArrayVarP(&checkOptions.Properties, "define", "D", nil, "Analysis property as key=value. Can be repeated.")
}
