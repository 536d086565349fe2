// Package executor runs FxCopCmd against a resolved target.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const (
	// ExecutableName is the FxCop command line binary.
	ExecutableName = "FxCopCmd.exe"

	DefaultTimeoutMinutes = 60

	fxcopProjectSuffix = ".fxcop"
)

// ResolveExecutable returns path when it names FxCopCmd.exe, otherwise path is
// taken as the FxCop installation directory.
func ResolveExecutable(path string) string {
	if strings.HasSuffix(path, ExecutableName) {
		return path
	}
	joined := filepath.Join(path, ExecutableName)
	if abs, err := filepath.Abs(joined); err == nil {
		return abs
	}
	return joined
}

// Options configures a single FxCopCmd invocation.
type Options struct {
	Executable     string
	TimeoutMinutes int
	Aspnet         bool
	Directories    []string
	References     []string
}

// Executor launches FxCopCmd.
type Executor struct {
	logger hclog.Logger
}

// New creates an Executor.
func New(logger hclog.Logger) *Executor {
	return &Executor{logger: logger}
}

// BuildArgs returns the FxCopCmd arguments for target.
func BuildArgs(target, rulesetPath, reportPath string, opts Options) []string {
	targetArg := "/file:" + target
	if strings.HasSuffix(strings.ToLower(target), fxcopProjectSuffix) {
		targetArg = "/project:" + target
	}

	args := []string{
		targetArg,
		"/ruleset:=" + absPath(rulesetPath),
		"/out:" + absPath(reportPath),
		"/outxsl:none",
		"/forceoutput",
		"/searchgac",
	}
	if opts.Aspnet {
		args = append(args, "/aspnet")
	}
	for _, dir := range opts.Directories {
		args = append(args, "/directory:"+dir)
	}
	for _, ref := range opts.References {
		args = append(args, "/reference:"+ref)
	}
	return args
}

// Execute runs FxCopCmd and waits for it. Exceeding the timeout or an exit code with
// bit 0 set is a state error. The run is never retried.
func (e *Executor) Execute(ctx context.Context, target, rulesetPath, reportPath string, opts Options) error {
	timeout := opts.TimeoutMinutes
	if timeout <= 0 {
		timeout = DefaultTimeoutMinutes
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Minute)
	defer cancel()

	executable := ResolveExecutable(opts.Executable)
	args := BuildArgs(target, rulesetPath, reportPath, opts)
	cmd := exec.CommandContext(ctx, executable, args...)

	e.logger.Info("starting FxCopCmd", "executable", executable, "args", strings.Join(args, " "), "timeoutMinutes", timeout)

	var stdBuffer bytes.Buffer
	mw := io.MultiWriter(e.logger.StandardWriter(&hclog.StandardLoggerOptions{InferLevels: true}), &stdBuffer)
	cmd.Stdout = mw
	cmd.Stderr = mw

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		e.logger.Error("FxCopCmd timed out", "timeoutMinutes", timeout)
		return errs.NewStateError(ctx.Err(), "the execution of %q did not finish within %d minute(s)", executable, timeout)
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			e.logger.Error(fmt.Sprintf("%q execution error", executable), "error", err)
			return errs.NewStateError(err, "%q execution error. Output: %s", executable, stdBuffer.String())
		}
		exitCode = exitErr.ExitCode()
	}

	e.logger.Info("FxCopCmd ended", "exitCode", exitCode)
	// FxCopCmd sets bit 0 on analysis errors, other bits report warnings
	if exitCode&1 != 0 {
		return errs.NewStateError(fmt.Errorf("exit code %d", exitCode),
			"the execution of %q failed, see https://learn.microsoft.com/previous-versions/visualstudio/visual-studio-2008/bb429400(v=vs.90) for details. Output: %s",
			executable, stdBuffer.String())
	}
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
