// Package targetconfig decides what a FxCop run analyses and checks every
// precondition before FxCopCmd is launched.
package targetconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/scanio-fxcop/internal/executor"
	"github.com/scan-io-git/scanio-fxcop/internal/settings"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/files"
)

var binaryExtensions = []string{".dll", ".exe"}

// Resolution is the outcome of a successful Check.
type Resolution struct {
	Mode ScanMode
	// Target is the report path, the assembly value (possibly a glob), the project
	// file or the effective solution file, depending on Mode.
	Target       string
	UsedFallback bool

	Executable    string
	ExecutableKey string
	TimeoutKey    string
	// TimeoutMinutes is nil when no timeout property is set.
	TimeoutMinutes *int

	Aspnet      bool
	Directories []string
	References  []string
}

// Timeout returns the configured timeout or def.
func (r *Resolution) Timeout(def int) int {
	if r.TimeoutMinutes == nil {
		return def
	}
	return *r.TimeoutMinutes
}

// TargetConfiguration resolves the scan target of one language binding.
// An instance carries per-run state and must not be shared by concurrent runs.
type TargetConfiguration struct {
	logger hclog.Logger
	keys   Keys

	executableKey    string
	timeoutKey       string
	fallbackSolution string
}

// New creates a TargetConfiguration reading the given keys.
func New(logger hclog.Logger, keys Keys) *TargetConfiguration {
	return &TargetConfiguration{
		logger:        logger,
		keys:          keys,
		executableKey: keys.Executable,
		timeoutKey:    keys.Timeout,
	}
}

// CSharp creates the C# binding.
func CSharp(logger hclog.Logger) *TargetConfiguration {
	return New(logger, CSharpKeys())
}

// VbNet creates the VB.NET binding.
func VbNet(logger hclog.Logger) *TargetConfiguration {
	return New(logger, VbNetKeys())
}

func (c *TargetConfiguration) Keys() Keys {
	return c.keys
}

// ExecutableKey is the key the last Check read the executable from.
func (c *TargetConfiguration) ExecutableKey() string {
	return c.executableKey
}

// TimeoutKey is the key the last Check read the timeout from.
func (c *TargetConfiguration) TimeoutKey() string {
	return c.timeoutKey
}

// SetFallbackSolution sets the solution used when no target property is set.
// It is never written back into the settings.
func (c *TargetConfiguration) SetFallbackSolution(path string) {
	c.fallbackSolution = path
}

func (c *TargetConfiguration) FallbackSolution() string {
	return c.fallbackSolution
}

// CheckProperties reports whether a report reuse or a scan is configured.
func (c *TargetConfiguration) CheckProperties(s settings.Settings) (bool, error) {
	res, err := c.Check(s)
	if err != nil {
		return false, err
	}
	return res.Mode != Unconfigured, nil
}

// Check determines the scan mode and validates everything the mode needs.
// When both a project and a solution are set the solution is scanned, and the
// project file must still exist. Only an assembly outranks a solution.
func (c *TargetConfiguration) Check(s settings.Settings) (*Resolution, error) {
	c.executableKey = c.keys.Executable
	c.timeoutKey = c.keys.Timeout

	presence := Presence{
		ReportPath:       s.HasKey(c.keys.ReportPath),
		Assembly:         s.HasKey(c.keys.Assembly),
		Project:          s.HasKey(c.keys.Project),
		Solution:         s.HasKey(c.keys.Solution),
		FallbackSolution: c.fallbackSolution != "",
	}
	mode := DetermineMode(presence)
	c.logger.Debug("scan mode determined", "language", c.keys.Language, "mode", mode.String())

	res := &Resolution{Mode: mode}
	var err error
	switch mode {
	case ReportReuse:
		res.Target, err = c.checkReport(s)
		return res, err
	case Unconfigured:
		return nil, c.missingScanDefinition()
	case AssemblyScan:
		res.Target, err = c.checkAssembly(s)
	case ProjectScan:
		res.Target, err = c.checkProject(s)
	case SolutionScan:
		if !presence.Solution && !presence.Assembly && !presence.Project {
			c.logger.Info("no FxCop target property set, using the discovered solution", "solution", c.fallbackSolution)
		}
		res.Target, res.UsedFallback, err = c.checkSolution(s)
	}
	if err != nil {
		return nil, err
	}

	if res.Executable, err = c.checkExecutable(s); err != nil {
		return nil, err
	}
	if res.TimeoutMinutes, err = c.checkTimeout(s); err != nil {
		return nil, err
	}
	res.ExecutableKey = c.executableKey
	res.TimeoutKey = c.timeoutKey
	res.Aspnet = settings.GetBool(s, c.keys.Aspnet, false)
	res.Directories = settings.GetList(s, c.keys.Directories)
	res.References = settings.GetList(s, c.keys.References)
	return res, nil
}

func (c *TargetConfiguration) missingScanDefinition() error {
	return errs.NewInputError(c.keys.Assembly, "",
		"No FxCop analysis target is configured for the %s files: set one of the properties %q, %q, %q or %q.",
		c.keys.Language, c.keys.Assembly, c.keys.Project, c.keys.Solution, c.keys.ReportPath)
}

func (c *TargetConfiguration) checkReport(s settings.Settings) (string, error) {
	value, ok := s.Get(c.keys.ReportPath)
	if !ok {
		return "", notSet(c.keys.ReportPath)
	}
	abs := files.AbsPath(value)
	if !files.IsRegularFile(abs) {
		return "", errs.NewInputError(c.keys.ReportPath, abs,
			"Cannot find the FxCop report %q provided by the property %q.", abs, c.keys.ReportPath)
	}
	return abs, nil
}

func (c *TargetConfiguration) checkAssembly(s settings.Settings) (string, error) {
	key := c.keys.Assembly
	value, ok := s.Get(key)
	if !ok {
		return "", notSet(key)
	}

	if strings.ContainsAny(value, "*?") {
		return value, c.checkAssemblyGlob(key, value)
	}

	abs := files.AbsPath(value)
	if !files.IsRegularFile(abs) {
		return "", errs.NewInputError(key, abs, "Cannot find the assembly %q provided by the property %q.", abs, key)
	}
	pdb := files.AbsPath(pdbPath(value))
	if !files.IsRegularFile(pdb) {
		return "", errs.NewInputError(key, pdb, "Cannot find the .pdb file %q inferred from the property %q.", pdb, key)
	}
	return value, nil
}

// checkAssemblyGlob counts the binaries matching the file part of value that have a .pdb next to them.
func (c *TargetConfiguration) checkAssemblyGlob(key, value string) error {
	dir, pattern := splitGlob(value)
	absDir := files.AbsPath(dir)

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return errs.NewInputError(key, absDir, "Cannot list the directory %q of the assemblies provided by the property %q: %v", absDir, key, err)
	}

	count := 0
	for _, entry := range entries {
		name := entry.Name()
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return errs.NewInputError(key, "", "Invalid assembly pattern %q provided by the property %q: %v", value, key, err)
		}
		if !matched || !hasBinaryExtension(name) {
			continue
		}
		if files.IsRegularFile(filepath.Join(absDir, pdbPath(name))) {
			count++
		}
	}
	c.logger.Debug("assemblies matched", "pattern", value, "count", count)

	if count == 0 {
		abs := filepath.Join(absDir, pattern)
		return errs.NewInputError(key, abs, "Cannot find any assembly matching %q with a .pdb file, provided by the property %q.", abs, key)
	}
	return nil
}

func (c *TargetConfiguration) checkProject(s settings.Settings) (string, error) {
	key := c.keys.Project
	value, ok := s.Get(key)
	if !ok {
		return "", nil
	}
	abs := files.AbsPath(value)
	if !files.IsRegularFile(abs) {
		return "", errs.NewInputError(key, abs, "Cannot find the project %q provided by the property %q.", abs, key)
	}
	return abs, nil
}

func (c *TargetConfiguration) checkSolution(s settings.Settings) (string, bool, error) {
	key := c.keys.Solution
	value, ok := s.Get(key)
	fallback := false
	if !ok {
		if c.fallbackSolution == "" {
			return "", false, notSet(key)
		}
		value, fallback = c.fallbackSolution, true
	}

	abs := files.AbsPath(value)
	if !files.IsRegularFile(abs) {
		if fallback {
			return "", true, errs.NewInputError(key, abs, "Cannot find the sln file %q discovered as fallback for the property %q.", abs, key)
		}
		return "", false, errs.NewInputError(key, abs, "Cannot find the sln file %q provided by the property %q.", abs, key)
	}

	if _, err := c.checkProject(s); err != nil {
		return "", fallback, err
	}
	return abs, fallback, nil
}

func (c *TargetConfiguration) checkExecutable(s settings.Settings) (string, error) {
	if !s.HasKey(c.executableKey) && s.HasKey(DeprecatedExecutableKey) {
		c.logger.Warn("using deprecated property", "property", DeprecatedExecutableKey, "replacement", c.keys.Executable)
		c.executableKey = DeprecatedExecutableKey
	}

	value, ok := s.Get(c.executableKey)
	if !ok {
		return "", notSet(c.executableKey)
	}
	abs := files.AbsPath(executor.ResolveExecutable(value))
	if !files.IsRegularFile(abs) {
		return "", errs.NewInputError(c.executableKey, abs,
			"Cannot find the FxCopCmd executable %q provided by the property %q.", abs, c.executableKey)
	}
	return abs, nil
}

func (c *TargetConfiguration) checkTimeout(s settings.Settings) (*int, error) {
	if !s.HasKey(c.timeoutKey) && s.HasKey(DeprecatedTimeoutKey) {
		c.logger.Warn("using deprecated property", "property", DeprecatedTimeoutKey, "replacement", c.keys.Timeout)
		c.timeoutKey = DeprecatedTimeoutKey
	}

	minutes, ok, err := settings.GetInt(s, c.timeoutKey)
	if err != nil {
		return nil, errs.NewInputError(c.timeoutKey, "", "%v", err)
	}
	if !ok {
		return nil, nil
	}
	return &minutes, nil
}

func notSet(key string) error {
	return errs.NewInputError(key, "", "The property '%s' is not set.", key)
}

// pdbPath replaces the extension of path with .pdb.
func pdbPath(path string) string {
	i := strings.LastIndex(path, ".")
	if i == -1 || strings.ContainsAny(path[i:], `/\`) {
		i = len(path)
	}
	return path[:i] + ".pdb"
}

// splitGlob splits value at its last '/', falling back to the last '\'.
func splitGlob(value string) (dir, pattern string) {
	i := strings.LastIndex(value, "/")
	if i == -1 {
		i = strings.LastIndex(value, `\`)
	}
	switch {
	case i == -1:
		return ".", value
	case i == 0:
		return value[:1], value[1:]
	default:
		return value[:i], value[i+1:]
	}
}

func hasBinaryExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range binaryExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
