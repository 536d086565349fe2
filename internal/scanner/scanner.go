package scanner

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

// Scanner represents the configuration and behavior of one FxCop analysis launch.
type Scanner struct {
	pluginName     string            // Name of the scanner plugin to use, empty for an in-process run
	propertiesPath string            // Path to the analysis properties file
	reportFormat   string            // Format of the report to generate (json or sarif)
	language       string            // Language binding, cs or vbnet
	rulesetPath    string            // Ruleset replacing the generated one
	properties     map[string]string // Explicit analysis properties
	additionalArgs []string          // key=value analysis properties from the command line
	logger         hclog.Logger      // Logger for logging messages and errors
}

// Options holds the launch options of a Scanner.
type Options struct {
	PluginName     string
	PropertiesPath string
	ReportFormat   string
	Language       string
	RulesetPath    string
	Properties     map[string]string
	AdditionalArgs []string
}

// New creates a new Scanner instance with the provided configuration.
func New(opts Options, logger hclog.Logger) *Scanner {
	return &Scanner{
		pluginName:     opts.PluginName,
		propertiesPath: opts.PropertiesPath,
		reportFormat:   opts.ReportFormat,
		language:       opts.Language,
		rulesetPath:    opts.RulesetPath,
		properties:     opts.Properties,
		additionalArgs: opts.AdditionalArgs,
		logger:         logger,
	}
}

// PrepareScanArgs prepares the arguments needed for the scan operation with the provided configuration.
// Results go to outputPath when set, otherwise to the configured results folder.
func (s *Scanner) PrepareScanArgs(cfg *config.Config, targetPath, outputPath string) (shared.ScannerScanRequest, error) {
	nameTemplate := s.generateNameTemplate(cfg, s.getReportExtension())

	resultsPath := outputPath
	if resultsPath == "" {
		resultsPath = config.GetScanioResultsHome(cfg)
	}
	if resultsPath == "" {
		resultsPath = targetPath
	}

	resultsFile, err := s.getOutputFilePath(resultsPath, nameTemplate)
	if err != nil {
		return shared.ScannerScanRequest{}, fmt.Errorf("failed to determine results file path: %w", err)
	}
	return s.createScanRequest(targetPath, resultsFile), nil
}

// getOutputFilePath handles the output path, creating directories as necessary.
func (s *Scanner) getOutputFilePath(path, nameTemplate string) (string, error) {
	resultsFile, resultsFolder, err := files.DetermineFileFullPath(path, nameTemplate)
	if err != nil {
		return "", err
	}

	if err := files.CreateFolderIfNotExists(resultsFolder); err != nil {
		return "", fmt.Errorf("failed to create results folder '%s': %w", resultsFolder, err)
	}

	return resultsFile, nil
}

// generateNameTemplate generates a name template for the results file based on the CI mode.
func (s *Scanner) generateNameTemplate(cfg *config.Config, reportExt string) string {
	name := s.pluginName
	if name == "" {
		name = PluginName
	}
	nameTemplate := fmt.Sprintf("scanio-report-%s.%s", name, reportExt)
	if !config.IsCI(cfg) {
		startTime := time.Now().UTC().Format(time.RFC3339)
		nameTemplate = fmt.Sprintf("scanio-report-%s-%s.%s", name, startTime, reportExt)
	}
	return nameTemplate
}

// getReportExtension returns the report extension based on the report format.
func (s *Scanner) getReportExtension() string {
	if s.reportFormat != "" {
		return s.reportFormat
	}
	return FormatJSON
}

// createScanRequest creates a ScannerScanRequest with the specified parameters.
func (s *Scanner) createScanRequest(targetPath, resultsFile string) shared.ScannerScanRequest {
	return shared.ScannerScanRequest{
		TargetPath:     targetPath,
		ResultsPath:    resultsFile,
		ConfigPath:     s.propertiesPath,
		ReportFormat:   s.reportFormat,
		Language:       s.language,
		RulesetPath:    s.rulesetPath,
		Properties:     s.properties,
		AdditionalArgs: s.additionalArgs,
	}
}

// Scan runs the analysis in process, or through the plugin binary when a plugin name is set.
func (s *Scanner) Scan(cfg *config.Config, scanArg shared.ScannerScanRequest) (shared.ScannerScanResponse, error) {
	if s.pluginName == "" {
		local := NewLocal(s.logger)
		if _, err := local.Setup(*cfg); err != nil {
			return shared.ScannerScanResponse{}, err
		}
		return local.Scan(scanArg)
	}
	return s.scanWithPlugin(cfg, scanArg)
}

// scanWithPlugin executes the scan using the specified plugin.
func (s *Scanner) scanWithPlugin(cfg *config.Config, scanArg shared.ScannerScanRequest) (shared.ScannerScanResponse, error) {
	var result shared.ScannerScanResponse

	err := shared.WithPlugin(cfg, "plugin-scanner", shared.PluginTypeScanner, s.pluginName, func(raw interface{}) error {
		scanner, ok := raw.(shared.Scanner)
		if !ok {
			return fmt.Errorf("invalid plugin type")
		}
		if _, err := scanner.Setup(*cfg); err != nil {
			return fmt.Errorf("scanner plugin setup failed: %w", err)
		}
		var err error
		result, err = scanner.Scan(scanArg)
		if err != nil {
			s.logger.Error("scanner plugin scan failed")
			return fmt.Errorf("scanner plugin scan failed. Scan arguments: %v. Error: %w", scanArg, err)
		}
		return nil
	})

	return result, err
}
