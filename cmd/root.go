package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/scanio-fxcop/cmd/analyse"
	"github.com/scan-io-git/scanio-fxcop/cmd/check"
	"github.com/scan-io-git/scanio-fxcop/cmd/version"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "scanio-fxcop [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "scanio-fxcop runs FxCop on .NET projects and imports its reports.",
		Long: `scanio-fxcop resolves the FxCop analysis target of a C# or VB.NET project from
	its analysis properties, runs FxCopCmd or reuses an existing report, and saves the findings as JSON or SARIF.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(analyse.AnalyseCmd)
	rootCmd.AddCommand(check.CheckCmd)
	rootCmd.AddCommand(version.NewVersionCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	err := rootCmd.Execute()
	if err == nil {
		return errs.ExitCodeOK
	}

	fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
	var cmdErr *errs.CommandError
	if errors.As(err, &cmdErr) {
		if config.IsCI(AppConfig) {
			if err := shared.PrintResultAsJSON(cmdErr.Result); err != nil {
				fmt.Fprintf(os.Stderr, "error serializing JSON result: %v\n", err)
			}
		}
		return cmdErr.ExitCode
	}
	return errs.ExitCodeGeneral
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
		if env := os.Getenv("SCANIO_CONFIG"); env != "" {
			cfgFile = env
		}
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(errs.ExitCodeGeneral)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(errs.ExitCodeGeneral)
	}

	analyse.Init(AppConfig, logger.NewLogger(AppConfig, "core-analyse"))
	check.Init(AppConfig, logger.NewLogger(AppConfig, "core-check"))
	version.Init(AppConfig, logger.NewLogger(AppConfig, "core-version"))
}
