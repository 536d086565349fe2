package analyse

import (
	"fmt"
	"os"
	"strings"

	"github.com/scan-io-git/scanio-fxcop/internal/scanner"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
)

// validateAnalyseArgs validates the arguments provided to the analyse command.
func validateAnalyseArgs(allArgumentsAnalyse *RunOptionsAnalyse, args []string, argsLenAtDash int) error {
	positional := args
	allArgumentsAnalyse.AdditionalArgs = nil
	if argsLenAtDash > -1 {
		positional = args[:argsLenAtDash]
		allArgumentsAnalyse.AdditionalArgs = args[argsLenAtDash:]
	}

	if len(positional) == 0 {
		return fmt.Errorf("a target path must be specified")
	}
	if len(positional) > 1 {
		return fmt.Errorf("only one target path can be specified, got %d", len(positional))
	}

	targetPath := positional[0]
	info, err := os.Stat(targetPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("the target path does not exist: %v", targetPath)
	} else if err != nil {
		return fmt.Errorf("failed to check the target path %q: %w", targetPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("the target path must be a directory: %v", targetPath)
	}

	if allArgumentsAnalyse.Language != "" && !shared.IsInList(allArgumentsAnalyse.Language, []string{targetconfig.LanguageCSharp, targetconfig.LanguageVbNet}) {
		return fmt.Errorf("unsupported language %q, expected %q or %q", allArgumentsAnalyse.Language, targetconfig.LanguageCSharp, targetconfig.LanguageVbNet)
	}

	if allArgumentsAnalyse.ReportFormat != "" && !shared.IsInList(allArgumentsAnalyse.ReportFormat, []string{scanner.FormatJSON, scanner.FormatSARIF}) {
		return fmt.Errorf("unsupported format %q, expected %q or %q", allArgumentsAnalyse.ReportFormat, scanner.FormatJSON, scanner.FormatSARIF)
	}

	for _, pair := range append(append([]string{}, allArgumentsAnalyse.Properties...), allArgumentsAnalyse.AdditionalArgs...) {
		if key, _, ok := strings.Cut(pair, "="); !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid property %q, expected key=value", pair)
		}
	}

	if allArgumentsAnalyse.PropertiesPath != "" {
		if _, err := os.Stat(allArgumentsAnalyse.PropertiesPath); err != nil {
			return fmt.Errorf("the properties file does not exist: %v", allArgumentsAnalyse.PropertiesPath)
		}
	}
	if allArgumentsAnalyse.RulesetPath != "" {
		if _, err := os.Stat(allArgumentsAnalyse.RulesetPath); err != nil {
			return fmt.Errorf("the ruleset file does not exist: %v", allArgumentsAnalyse.RulesetPath)
		}
	}

	return nil
}
