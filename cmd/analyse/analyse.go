package analyse

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-fxcop/internal/scanner"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/artifacts"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

// RunOptionsAnalyse holds the arguments for the analyse command.
type RunOptionsAnalyse struct {
	Plugin         string
	Language       string
	PropertiesPath string
	Properties     []string
	ReportFormat   string
	RulesetPath    string
	OutputPath     string
	AdditionalArgs []string
}

// Global variables for configuration and command arguments
var (
	AppConfig           *config.Config
	logger              hclog.Logger
	analyseOptions      RunOptionsAnalyse
	exampleAnalyseUsage = `  # Importing an existing FxCop report of a C# project
  scanio-fxcop analyse -D sonar.cs.fxcop.reportPath=build/fxcop-report.xml /path/to/my_project

  # Running FxCop on an assembly with the properties of sonar-project.properties
  scanio-fxcop analyse --properties sonar-project.properties /path/to/my_project

  # Running FxCop on a VB.NET solution and saving a SARIF report
  scanio-fxcop analyse --language vbnet -D sonar.vbnet.fxcop.slnFile=App.sln --format sarif --output /path/to/results /path/to/my_project

  # Running FxCop with a custom ruleset through the fxcop plugin binary
  scanio-fxcop analyse --plugin fxcop --ruleset /path/to/custom.ruleset /path/to/my_project -- sonar.cs.fxcop.timeoutMinutes=20`
)

// AnalyseCmd represents the analyse command.
var AnalyseCmd = &cobra.Command{
	Use:                   "analyse [--language cs|vbnet] [--properties PATH] [-D key=value]... [--format json|sarif] [--output PATH] [--ruleset PATH] [--plugin NAME] BASE_DIR [-- key=value...]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleAnalyseUsage,
	Short:                 "Runs FxCop on a .NET project, or imports an existing FxCop report",
	RunE:                  runAnalyseCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// runAnalyseCommand executes the analyse command.
func runAnalyseCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	argsLenAtDash := cmd.ArgsLenAtDash()
	if err := validateAnalyseArgs(&analyseOptions, args, argsLenAtDash); err != nil {
		logger.Error("invalid analyse arguments", "error", err)
		return errs.NewCommandError(analyseOptions, nil, errs.NewInputError("", "", "invalid analyse arguments: %v", err))
	}

	mode := determineMode(&analyseOptions)
	logger.Debug("analyse mode determined", "mode", mode)

	s := scanner.New(scanner.Options{
		PluginName:     pluginForMode(mode, analyseOptions.Plugin),
		PropertiesPath: analyseOptions.PropertiesPath,
		ReportFormat:   analyseOptions.ReportFormat,
		Language:       analyseOptions.Language,
		RulesetPath:    analyseOptions.RulesetPath,
		AdditionalArgs: append(append([]string{}, analyseOptions.Properties...), analyseOptions.AdditionalArgs...),
	}, logger)

	analyseArgs, err := s.PrepareScanArgs(AppConfig, args[0], analyseOptions.OutputPath)
	if err != nil {
		logger.Error("failed to prepare scan arguments", "error", err)
		return errs.NewCommandError(analyseOptions, nil, err)
	}

	analyseResult, scanErr := s.Scan(AppConfig, analyseArgs)
	launches := buildLaunchesResult(analyseArgs, analyseResult, scanErr)

	if config.IsCI(AppConfig) {
		if _, err := artifacts.SaveArtifactJSON(AppConfig, logger, "analyse", scanner.PluginName, launches); err != nil {
			logger.Error("failed to write artifact", "error", err)
		}
	}

	if scanErr != nil {
		logger.Error("analyse command failed", "error", scanErr)
		cmdErr := errs.NewCommandError(analyseArgs, analyseResult, scanErr)
		cmdErr.Result.RunID = launches.RunID
		return cmdErr
	}

	if analyseResult.Skipped {
		logger.Warn("FxCop analysis skipped", "project", analyseArgs.TargetPath)
	}
	logger.Info("analyse command completed successfully", "issues", analyseResult.IssueCount)
	logger.Info("results saved to file", "path", analyseResult.ResultsPath)
	if config.IsCI(AppConfig) {
		if err := shared.PrintResultAsJSON(launches); err != nil {
			logger.Error("error serializing JSON result", "error", err)
		}
	}
	return nil
}

// Initialize flags for the analyse command.
func init() {
	AnalyseCmd.Flags().StringVarP(&analyseOptions.Language, "language", "l", "", "Language binding, cs or vbnet. Defaults to fxcop_plugin.language of the config.")
	AnalyseCmd.Flags().StringVar(&analyseOptions.PropertiesPath, "properties", "", "Path to an analysis properties file, e.g. sonar-project.properties.")
	AnalyseCmd.Flags().StringArrayVarP(&analyseOptions.Properties, "define", "D", nil, "Analysis property as key=value. Can be repeated.")
	AnalyseCmd.Flags().StringVarP(&analyseOptions.ReportFormat, "format", "f", "", "Format for the report with results, json or sarif.")
	AnalyseCmd.Flags().StringVarP(&analyseOptions.OutputPath, "output", "o", "", "Path to the output file or directory where the results will be saved.")
	AnalyseCmd.Flags().StringVar(&analyseOptions.RulesetPath, "ruleset", "", "Path to a ruleset used instead of the one generated from the configured rules.")
	AnalyseCmd.Flags().StringVarP(&analyseOptions.Plugin, "plugin", "p", "", "Name of a scanner plugin binary to run the analysis in. The analysis runs in process when empty.")
	AnalyseCmd.Flags().BoolP("help", "h", false, "Show help for the analyse command.")
}
