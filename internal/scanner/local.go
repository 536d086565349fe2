package scanner

import (
	"context"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/internal/findings"
	"github.com/scan-io-git/scanio-fxcop/internal/sensor"
	"github.com/scan-io-git/scanio-fxcop/internal/settings"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/validation"
)

const PluginName = "fxcop"

// Local runs FxCop analyses in the current process. It implements shared.Scanner
// and backs both the CLI and the plugin binary.
type Local struct {
	logger       hclog.Logger
	globalConfig *config.Config
}

// NewLocal creates a Local scanner.
func NewLocal(logger hclog.Logger) *Local {
	return &Local{logger: logger, globalConfig: &config.Config{}}
}

// Setup stores the global configuration.
func (l *Local) Setup(configData config.Config) (bool, error) {
	l.globalConfig = &configData
	return true, nil
}

// Scan runs one analysis and writes the normalized findings to args.ResultsPath.
func (l *Local) Scan(args shared.ScannerScanRequest) (shared.ScannerScanResponse, error) {
	var result shared.ScannerScanResponse
	l.logger.Info("fxcop scan starting", "project", args.TargetPath)
	l.logger.Debug("debug info", "args", args)

	if err := validation.ValidateScanArgs(&args); err != nil {
		l.logger.Error("validation failed for scan operation", "error", err)
		return result, errs.NewInputError("", args.TargetPath, "%v", err)
	}

	s, keys, props, err := l.prepare(args)
	if err != nil {
		return result, err
	}
	index, err := sensor.NewDirIndex(files.AbsPath(args.TargetPath), keys.SourceSuffix)
	if err != nil {
		return result, errs.NewStateError(err, "failed to index the source files of %q", args.TargetPath)
	}

	collector := &findings.Collector{}
	res, err := s.Execute(context.Background(), props, index, collector)
	if err != nil {
		return result, err
	}

	out := Output{
		Tool:     PluginName,
		Language: keys.Language,
		Skipped:  res.Skipped,
		Findings: collector.Findings,
	}
	if !res.Skipped {
		out.Mode = res.Mode.String()
		out.Target = res.Target
	}
	if err := WriteOutput(args.ReportFormat, args.ResultsPath, files.AbsPath(args.TargetPath), out); err != nil {
		return result, err
	}

	result = shared.ScannerScanResponse{
		ResultsPath: args.ResultsPath,
		Mode:        out.Mode,
		Target:      out.Target,
		IssueCount:  res.IssueCount,
		Skipped:     res.Skipped,
	}
	l.logger.Info("scan finished", "project", args.TargetPath, "issues", res.IssueCount)
	l.logger.Info("result saved", "path", args.ResultsPath)
	return result, nil
}

// Resolve runs only target resolution for the request.
func (l *Local) Resolve(args shared.ScannerScanRequest) (*targetconfig.Resolution, error) {
	s, _, props, err := l.prepare(args)
	if err != nil {
		return nil, err
	}
	return s.Resolve(props)
}

// prepare loads the analysis properties and builds the sensor of the requested language.
func (l *Local) prepare(args shared.ScannerScanRequest) (*sensor.Sensor, targetconfig.Keys, *settings.Properties, error) {
	props, err := loadProperties(args)
	if err != nil {
		return nil, targetconfig.Keys{}, nil, err
	}

	language := args.Language
	if language == "" {
		language = config.GetFxCopLanguage(l.globalConfig)
	}
	keys, err := targetconfig.KeysFor(language)
	if err != nil {
		return nil, targetconfig.Keys{}, nil, errs.NewInputError("", "", "%v", err)
	}

	s := sensor.New(l.logger.Named("fxcop-sensor"), targetconfig.New(l.logger.Named("fxcop-target"), keys), sensor.Options{
		BaseDir:               files.AbsPath(args.TargetPath),
		WorkDir:               l.workDir(),
		RulesetPath:           args.RulesetPath,
		Rules:                 sensor.NewRuleMap(keys.Repository, l.globalConfig.FxCopPlugin.Rules),
		DefaultTimeoutMinutes: config.GetFxCopTimeout(l.globalConfig),
		AllowNonWindows:       l.globalConfig.FxCopPlugin.AllowNonWindows,
	})
	return s, keys, props, nil
}

// workDir returns the configured work dir, or a fxcop folder in the scanio temp home.
// An empty result lets the sensor create a temporary folder.
func (l *Local) workDir() string {
	if l.globalConfig.FxCopPlugin.WorkDir != "" {
		return l.globalConfig.FxCopPlugin.WorkDir
	}
	if tmp := config.GetScanioTempHome(l.globalConfig); tmp != "" {
		return filepath.Join(tmp, PluginName)
	}
	return ""
}

// loadProperties layers the properties file, the explicit properties and the key=value overrides.
func loadProperties(args shared.ScannerScanRequest) (*settings.Properties, error) {
	props, err := settings.Load(args.ConfigPath)
	if err != nil {
		return nil, errs.NewInputError("", args.ConfigPath, "%v", err)
	}
	for k, v := range args.Properties {
		props.Set(k, v)
	}
	if err := props.ApplyOverrides(args.AdditionalArgs); err != nil {
		return nil, errs.NewInputError("", "", "%v", err)
	}
	return props, nil
}
