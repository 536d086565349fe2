// Package sensor runs a complete FxCop analysis: target resolution, FxCopCmd
// execution and report import.
package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/internal/executor"
	"github.com/scan-io-git/scanio-fxcop/internal/findings"
	"github.com/scan-io-git/scanio-fxcop/internal/fxcopproject"
	"github.com/scan-io-git/scanio-fxcop/internal/msbuild"
	"github.com/scan-io-git/scanio-fxcop/internal/report"
	"github.com/scan-io-git/scanio-fxcop/internal/ruleset"
	"github.com/scan-io-git/scanio-fxcop/internal/settings"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

const (
	ScannerName    = "fxcop"
	ReportFileName = "fxcop-report.xml"
)

// IssueSink receives the normalized findings.
type IssueSink interface {
	Save(f findings.Finding) error
}

// Runner executes FxCopCmd.
type Runner interface {
	Execute(ctx context.Context, target, rulesetPath, reportPath string, opts executor.Options) error
}

// ProjectGenerator turns a solution into a .fxcop project.
type ProjectGenerator interface {
	Generate(solutionPath string) (string, error)
}

// Options configures a Sensor.
type Options struct {
	BaseDir string
	// WorkDir receives the ruleset and the raw report. When empty a temporary folder is
	// created for the run and removed once the report is imported.
	WorkDir string
	// RulesetPath replaces the generated ruleset.
	RulesetPath           string
	Rules                 *RuleMap
	DefaultTimeoutMinutes int
	AllowNonWindows       bool
}

// Result summarises a sensor run.
type Result struct {
	Skipped    bool
	Mode       targetconfig.ScanMode
	Target     string
	// ReportPath no longer exists after Execute when it lived in a temporary work dir.
	ReportPath string
	IssueCount int
}

// Sensor imports FxCop issues for one language.
type Sensor struct {
	logger    hclog.Logger
	conf      *targetconfig.TargetConfiguration
	opts      Options
	runner    Runner
	generator ProjectGenerator
	goos      string
}

// New creates a Sensor running the real FxCopCmd.
func New(logger hclog.Logger, conf *targetconfig.TargetConfiguration, opts Options) *Sensor {
	if opts.Rules == nil {
		opts.Rules = NewRuleMap(conf.Keys().Repository, nil)
	}
	if opts.DefaultTimeoutMinutes <= 0 {
		opts.DefaultTimeoutMinutes = executor.DefaultTimeoutMinutes
	}
	return &Sensor{
		logger:    logger,
		conf:      conf,
		opts:      opts,
		runner:    executor.New(logger.Named("executor")),
		generator: fxcopproject.NewGenerator(logger.Named("generator"), conf.Keys().ProjectExtension),
		goos:      runtime.GOOS,
	}
}

// WithRunner replaces the FxCopCmd runner.
func (s *Sensor) WithRunner(r Runner) *Sensor {
	s.runner = r
	return s
}

// WithGenerator replaces the .fxcop project generator.
func (s *Sensor) WithGenerator(g ProjectGenerator) *Sensor {
	s.generator = g
	return s
}

// WithOS overrides the host operating system name.
func (s *Sensor) WithOS(goos string) *Sensor {
	s.goos = goos
	return s
}

// Execute resolves the target, runs FxCopCmd unless a report is reused, and saves every issue to sink.
func (s *Sensor) Execute(ctx context.Context, props settings.Settings, index SourceIndex, sink IssueSink) (*Result, error) {
	keys := s.conf.Keys()

	if index.Len() == 0 {
		s.logger.Info("no source files for the language, skipping FxCop", "language", keys.Language)
		return &Result{Skipped: true}, nil
	}
	if s.goos != "windows" && !s.opts.AllowNonWindows && !props.HasKey(keys.ReportPath) {
		s.logger.Info("skipping FxCop on non Windows OS", "os", s.goos)
		return &Result{Skipped: true}, nil
	}

	res, err := s.Resolve(props)
	if err != nil {
		s.logger.Error("FxCop is not configured", "error", err)
		return nil, err
	}
	result := &Result{Mode: res.Mode, Target: res.Target}

	if res.Mode == targetconfig.ReportReuse {
		s.logger.Debug("using the provided FxCop report", "path", res.Target)
		result.ReportPath = res.Target
	} else {
		var cleanup func()
		result.ReportPath, cleanup, err = s.runFxCop(ctx, res)
		if err != nil {
			return nil, err
		}
		defer cleanup()
	}

	count, err := s.importReport(result.ReportPath, index, sink)
	if err != nil {
		return nil, err
	}
	result.IssueCount = count
	s.logger.Info("FxCop import finished", "issues", count)
	return result, nil
}

// Resolve discovers the fallback solution and validates the target properties without running FxCopCmd.
func (s *Sensor) Resolve(props settings.Settings) (*targetconfig.Resolution, error) {
	s.discoverFallbackSolution(props)
	return s.conf.Check(props)
}

// discoverFallbackSolution looks for a solution only when no target property is set.
func (s *Sensor) discoverFallbackSolution(props settings.Settings) {
	keys := s.conf.Keys()
	s.conf.SetFallbackSolution("")
	if props.HasKey(keys.Assembly) || props.HasKey(keys.Project) || props.HasKey(keys.Solution) {
		return
	}

	if value, ok := props.Get(targetconfig.SolutionFileKey); ok {
		if sln, found := msbuild.ResolveSolutionPath(value, s.opts.BaseDir); found {
			s.conf.SetFallbackSolution(sln)
			return
		}
		s.logger.Warn("solution file not found", "property", targetconfig.SolutionFileKey, "value", value)
	}

	if sln, found := msbuild.FindSolution(s.opts.BaseDir); found {
		s.logger.Info("solution file discovered", "path", sln)
		s.conf.SetFallbackSolution(sln)
	}
}

// runFxCop returns the report path and a cleanup func to call once the report is read.
func (s *Sensor) runFxCop(ctx context.Context, res *targetconfig.Resolution) (reportPath string, cleanup func(), err error) {
	workDir, remove, err := s.workDir()
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if err != nil {
			remove()
		}
	}()

	rulesetPath := s.opts.RulesetPath
	if rulesetPath == "" {
		rulesetPath = filepath.Join(workDir, ruleset.FileName)
		if err = ruleset.Write(s.opts.Rules.EnabledCheckIDs(), rulesetPath); err != nil {
			return "", nil, err
		}
	}
	reportPath = filepath.Join(workDir, ReportFileName)

	target := res.Target
	if res.Mode == targetconfig.SolutionScan {
		if target, err = s.generator.Generate(res.Target); err != nil {
			return "", nil, err
		}
	}

	err = s.runner.Execute(ctx, target, rulesetPath, reportPath, executor.Options{
		Executable:     res.Executable,
		TimeoutMinutes: res.Timeout(s.opts.DefaultTimeoutMinutes),
		Aspnet:         res.Aspnet,
		Directories:    res.Directories,
		References:     res.References,
	})
	if err != nil {
		return "", nil, err
	}
	return reportPath, remove, nil
}

// workDir returns the directory of the run. cleanup removes it only when it was created here.
func (s *Sensor) workDir() (dir string, cleanup func(), err error) {
	if s.opts.WorkDir == "" {
		dir, err = os.MkdirTemp("", "scanio-fxcop")
		if err != nil {
			return "", nil, errs.NewStateError(err, "failed to create work directory")
		}
		return dir, func() {
			if err := os.RemoveAll(dir); err != nil {
				s.logger.Warn("failed to remove work directory", "path", dir, "error", err)
			}
		}, nil
	}
	if err := files.CreateFolderIfNotExists(s.opts.WorkDir); err != nil {
		return "", nil, errs.NewStateError(err, "failed to prepare work directory %q", s.opts.WorkDir)
	}
	return s.opts.WorkDir, func() {}, nil
}

func (s *Sensor) importReport(reportPath string, index SourceIndex, sink IssueSink) (int, error) {
	issues, err := report.Parse(reportPath)
	if err != nil {
		return 0, err
	}

	keys := s.conf.Keys()
	count := 0
	for _, issue := range issues {
		finding, keep, err := s.normalize(issue, index)
		if err != nil {
			return count, err
		}
		if !keep {
			continue
		}
		finding.Repository = keys.Repository
		if err := sink.Save(finding); err != nil {
			return count, fmt.Errorf("failed to save FxCop issue: %w", err)
		}
		count++
	}
	return count, nil
}

func (s *Sensor) normalize(issue report.Issue, index SourceIndex) (findings.Finding, bool, error) {
	ruleKey, err := s.opts.Rules.RuleKey(issue.RuleConfigKey)
	if err != nil {
		return findings.Finding{}, false, err
	}
	finding := findings.Finding{
		RuleID:     ruleKey,
		CheckID:    issue.RuleConfigKey,
		Scanner:    ScannerName,
		Message:    issue.Message,
		ReportLine: issue.ReportLine,
	}

	absPath := sourcePath(issue)
	if absPath == "" {
		return finding, true, nil
	}

	if !index.Contains(absPath) {
		if isSourceFile(absPath) {
			s.logger.Debug("ignoring issue on file that is not indexed and was probably excluded", "path", absPath)
			return finding, false, nil
		}
		finding.Message = locationPrefix(absPath, issue.Line) + issue.Message
		return finding, true, nil
	}

	finding.FilePath = absPath
	if issue.Line != nil && *issue.Line > 0 {
		finding.StartLine = *issue.Line
	}
	return finding, true, nil
}

func sourcePath(issue report.Issue) string {
	if issue.Path == "" || issue.File == "" {
		return ""
	}
	return files.AbsPath(filepath.Join(issue.Path, issue.File))
}

func isSourceFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".cs") || strings.HasSuffix(lower, ".vb")
}

func locationPrefix(absPath string, line *int) string {
	if line != nil {
		return fmt.Sprintf("%s line %d: ", absPath, *line)
	}
	return absPath + ": "
}
