package sensor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-fxcop/internal/executor"
	"github.com/scan-io-git/scanio-fxcop/internal/findings"
	"github.com/scan-io-git/scanio-fxcop/internal/ruleset"
	"github.com/scan-io-git/scanio-fxcop/internal/settings"
	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

type fakeRunner struct {
	report  string
	calls   int
	target  string
	ruleset string
	opts    executor.Options
	err     error
}

func (r *fakeRunner) Execute(_ context.Context, target, rulesetPath, reportPath string, opts executor.Options) error {
	r.calls++
	r.target, r.ruleset, r.opts = target, rulesetPath, opts
	if r.err != nil {
		return r.err
	}
	return os.WriteFile(reportPath, []byte(r.report), 0o644)
}

type fakeGenerator struct {
	solution string
	output   string
}

func (g *fakeGenerator) Generate(solutionPath string) (string, error) {
	g.solution = solutionPath
	return g.output, nil
}

type project struct {
	dir      string
	source   string
	assembly string
	fxcopCmd string
	report   string
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func reportXML(dir string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<FxCopReport Version="12.0">
 <Messages>
  <Message CheckId="CA2210" Status="Active">
   <Issue>Sign 'MyLibrary.dll' with a strong name key.</Issue>
  </Message>
  <Message CheckId="CA1704" Status="Active">
   <Issue Path="%[1]s" File="Class1.cs" Line="12">Rename parameter 'a'.</Issue>
   <Issue Path="%[1]s" File="Class1.cs" Line="0">Rename parameter 'b'.</Issue>
   <Issue Path="%[1]s" File="Excluded.cs" Line="3">Issue on an excluded file.</Issue>
   <Issue Path="%[1]s" File="Resources.resx" Line="7">Issue on a resource.</Issue>
  </Message>
  <Message CheckId="CA1800" Status="ExcludedInSource">
   <Issue Path="%[1]s" File="Class1.cs" Line="14">Suppressed.</Issue>
  </Message>
 </Messages>
</FxCopReport>
`, dir)
}

func newProject(t *testing.T) project {
	dir := t.TempDir()
	p := project{
		dir:      dir,
		source:   writeFile(t, filepath.Join(dir, "Class1.cs"), "class Class1 {}"),
		assembly: writeFile(t, filepath.Join(dir, "bin", "MyLibrary.dll"), "MZ"),
		fxcopCmd: writeFile(t, filepath.Join(dir, "tools", executor.ExecutableName), "MZ"),
	}
	writeFile(t, filepath.Join(dir, "bin", "MyLibrary.pdb"), "pdb")
	p.report = writeFile(t, filepath.Join(dir, "fxcop-report.xml"), reportXML(dir))
	return p
}

func newSensor(p project, opts Options) *Sensor {
	opts.BaseDir = p.dir
	return New(hclog.NewNullLogger(), targetconfig.CSharp(hclog.NewNullLogger()), opts)
}

func TestExecuteReportReuse(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()
	props := settings.FromMap(map[string]string{keys.ReportPath: p.report})
	runner := &fakeRunner{}
	sink := &findings.Collector{}

	res, err := newSensor(p, Options{}).WithRunner(runner).WithOS("linux").
		Execute(context.Background(), props, NewStaticIndex(p.source), sink)
	require.NoError(t, err)

	assert.Equal(t, 0, runner.calls)
	assert.False(t, res.Skipped)
	assert.Equal(t, targetconfig.ReportReuse, res.Mode)
	assert.Equal(t, p.report, res.ReportPath)
	assert.Equal(t, 4, res.IssueCount)

	require.Len(t, sink.Findings, 4)

	assert.Equal(t, "CA2210", sink.Findings[0].RuleID)
	assert.False(t, sink.Findings[0].OnFile())
	assert.Equal(t, "Sign 'MyLibrary.dll' with a strong name key.", sink.Findings[0].Message)
	assert.Equal(t, "fxcop", sink.Findings[0].Repository)

	assert.Equal(t, p.source, sink.Findings[1].FilePath)
	assert.Equal(t, 12, sink.Findings[1].StartLine)
	assert.Equal(t, "Rename parameter 'a'.", sink.Findings[1].Message)

	assert.Equal(t, p.source, sink.Findings[2].FilePath)
	assert.Equal(t, 0, sink.Findings[2].StartLine, "line 0 means no line")

	// Excluded.cs is not indexed and dropped, the resource is reported on the project
	resource := filepath.Join(p.dir, "Resources.resx")
	assert.False(t, sink.Findings[3].OnFile())
	assert.Equal(t, resource+" line 7: Issue on a resource.", sink.Findings[3].Message)
}

func TestExecuteSkips(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()

	tests := []struct {
		name  string
		props map[string]string
		index SourceIndex
		goos  string
	}{
		{name: "no source files", props: map[string]string{keys.ReportPath: p.report}, index: NewStaticIndex(), goos: "windows"},
		{name: "non windows without report", props: map[string]string{keys.Assembly: p.assembly}, index: NewStaticIndex(p.source), goos: "linux"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			res, err := newSensor(p, Options{}).WithRunner(runner).WithOS(tt.goos).
				Execute(context.Background(), settings.FromMap(tt.props), tt.index, &findings.Collector{})
			require.NoError(t, err)
			assert.True(t, res.Skipped)
			assert.Equal(t, 0, runner.calls)
		})
	}
}

func TestExecuteAssemblyScan(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()
	workDir := filepath.Join(t.TempDir(), "work")
	props := settings.FromMap(map[string]string{
		keys.Assembly:    p.assembly,
		keys.Executable:  p.fxcopCmd,
		keys.Aspnet:      "true",
		keys.Directories: "lib1, lib2",
	})
	runner := &fakeRunner{report: reportXML(p.dir)}
	rules := NewRuleMap(keys.Repository, []config.FxCopRule{
		{Key: "AssembliesShouldHaveValidStrongNames", CheckID: "CA2210"},
		{CheckID: "CA1704"},
	})
	sink := &findings.Collector{}

	res, err := newSensor(p, Options{WorkDir: workDir, Rules: rules, DefaultTimeoutMinutes: 15}).
		WithRunner(runner).WithOS("windows").
		Execute(context.Background(), props, NewStaticIndex(p.source), sink)
	require.NoError(t, err)

	assert.Equal(t, targetconfig.AssemblyScan, res.Mode)
	assert.Equal(t, 1, runner.calls)
	assert.Equal(t, p.assembly, runner.target)
	assert.Equal(t, filepath.Join(workDir, ruleset.FileName), runner.ruleset)
	assert.FileExists(t, runner.ruleset)
	assert.Equal(t, filepath.Join(workDir, ReportFileName), res.ReportPath)
	assert.Equal(t, executor.Options{
		Executable:     p.fxcopCmd,
		TimeoutMinutes: 15,
		Aspnet:         true,
		Directories:    []string{"lib1", "lib2"},
	}, runner.opts)

	require.Len(t, sink.Findings, 4)
	assert.Equal(t, "AssembliesShouldHaveValidStrongNames", sink.Findings[0].RuleID)
	assert.Equal(t, "CA2210", sink.Findings[0].CheckID)
	assert.Equal(t, "CA1704", sink.Findings[1].RuleID)

	data, err := os.ReadFile(runner.ruleset)
	require.NoError(t, err)
	assert.Contains(t, string(data), `Id="CA2210"`)
	assert.Contains(t, string(data), `Id="CA1704"`)
}

func TestExecuteTemporaryWorkDir(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()
	props := settings.FromMap(map[string]string{keys.Assembly: p.assembly, keys.Executable: p.fxcopCmd})

	tests := []struct {
		name    string
		runner  *fakeRunner
		wantErr bool
	}{
		{name: "successful run", runner: &fakeRunner{report: reportXML(p.dir)}},
		{name: "failed run", runner: &fakeRunner{err: fmt.Errorf("FxCopCmd exited with code 1")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			t.Setenv("TMPDIR", tmp)
			sink := &findings.Collector{}

			_, err := newSensor(p, Options{}).WithRunner(tt.runner).WithOS("windows").
				Execute(context.Background(), props, NewStaticIndex(p.source), sink)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Len(t, sink.Findings, 4)
			}

			require.Equal(t, 1, tt.runner.calls)
			assert.Equal(t, tmp, filepath.Dir(filepath.Dir(tt.runner.ruleset)))
			assert.NoDirExists(t, filepath.Dir(tt.runner.ruleset))
			matches, err := filepath.Glob(filepath.Join(tmp, "scanio-fxcop*"))
			require.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}

func TestExecuteKeepsConfiguredWorkDir(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()
	workDir := filepath.Join(t.TempDir(), "work")
	props := settings.FromMap(map[string]string{keys.Assembly: p.assembly, keys.Executable: p.fxcopCmd})

	res, err := newSensor(p, Options{WorkDir: workDir}).WithRunner(&fakeRunner{report: reportXML(p.dir)}).WithOS("windows").
		Execute(context.Background(), props, NewStaticIndex(p.source), &findings.Collector{})
	require.NoError(t, err)
	assert.FileExists(t, res.ReportPath)
	assert.FileExists(t, filepath.Join(workDir, ruleset.FileName))
}

func TestExecuteUnknownRule(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()
	props := settings.FromMap(map[string]string{keys.ReportPath: p.report})
	rules := NewRuleMap(keys.Repository, []config.FxCopRule{{CheckID: "CA2210"}})

	_, err := newSensor(p, Options{Rules: rules}).WithOS("windows").
		Execute(context.Background(), props, NewStaticIndex(p.source), &findings.Collector{})
	require.Error(t, err)
	assert.True(t, errs.IsStateError(err))
	assert.Contains(t, err.Error(), `"CA1704"`)
}

func TestExecuteFallbackSolution(t *testing.T) {
	p := newProject(t)
	sln := writeFile(t, filepath.Join(p.dir, "Product.sln"), "")
	writeFile(t, filepath.Join(p.dir, "Product.Tests.sln"), "")
	keys := targetconfig.CSharpKeys()

	tests := []struct {
		name     string
		props    map[string]string
		expected string
	}{
		{name: "discovered in base dir", props: map[string]string{}, expected: sln},
		{name: "solution file property", props: map[string]string{targetconfig.SolutionFileKey: "Product.Tests.sln"}, expected: filepath.Join(p.dir, "Product.Tests.sln")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			props := settings.FromMap(tt.props)
			props.Set(keys.Executable, p.fxcopCmd)
			generator := &fakeGenerator{output: sln + ".20240305170409.fxcop"}
			runner := &fakeRunner{report: `<FxCopReport/>`}

			res, err := newSensor(p, Options{WorkDir: t.TempDir()}).WithRunner(runner).WithGenerator(generator).WithOS("windows").
				Execute(context.Background(), props, NewStaticIndex(p.source), &findings.Collector{})
			require.NoError(t, err)
			assert.Equal(t, targetconfig.SolutionScan, res.Mode)
			assert.Equal(t, tt.expected, generator.solution)
			assert.Equal(t, generator.output, runner.target)
			assert.Equal(t, 0, res.IssueCount)
			assert.False(t, props.HasKey(keys.Solution))
		})
	}
}

func TestResolve(t *testing.T) {
	p := newProject(t)
	sln := writeFile(t, filepath.Join(p.dir, "Product.sln"), "")
	keys := targetconfig.CSharpKeys()

	t.Run("assembly wins over the discovered solution", func(t *testing.T) {
		props := settings.FromMap(map[string]string{keys.Assembly: p.assembly, keys.Executable: p.fxcopCmd})
		res, err := newSensor(p, Options{}).Resolve(props)
		require.NoError(t, err)
		assert.Equal(t, targetconfig.AssemblyScan, res.Mode)
		assert.Equal(t, p.assembly, res.Target)
	})

	t.Run("fallback solution", func(t *testing.T) {
		props := settings.FromMap(map[string]string{keys.Executable: p.fxcopCmd})
		res, err := newSensor(p, Options{}).Resolve(props)
		require.NoError(t, err)
		assert.Equal(t, targetconfig.SolutionScan, res.Mode)
		assert.Equal(t, sln, res.Target)
		assert.True(t, res.UsedFallback)
	})
}

func TestExecuteErrors(t *testing.T) {
	p := newProject(t)
	keys := targetconfig.CSharpKeys()

	t.Run("unconfigured", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "src", "A.cs"), "")
		s := New(hclog.NewNullLogger(), targetconfig.CSharp(hclog.NewNullLogger()), Options{BaseDir: filepath.Join(dir, "src")}).WithOS("windows")
		_, err := s.Execute(context.Background(), settings.New(), NewStaticIndex(p.source), &findings.Collector{})
		require.Error(t, err)
		assert.True(t, errs.IsInputError(err))
	})

	t.Run("runner failure", func(t *testing.T) {
		props := settings.FromMap(map[string]string{keys.Assembly: p.assembly, keys.Executable: p.fxcopCmd})
		runner := &fakeRunner{err: errs.NewStateError(fmt.Errorf("exit code 1"), "FxCopCmd failed")}
		_, err := newSensor(p, Options{WorkDir: t.TempDir()}).WithRunner(runner).WithOS("windows").
			Execute(context.Background(), props, NewStaticIndex(p.source), &findings.Collector{})
		require.Error(t, err)
		assert.True(t, errs.IsStateError(err))
	})
}

func TestDirIndex(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, filepath.Join(dir, "src", "Class1.cs"), "")
	vb := writeFile(t, filepath.Join(dir, "src", "Module1.VB"), "")
	writeFile(t, filepath.Join(dir, "src", "obj", "Generated.cs"), "")
	writeFile(t, filepath.Join(dir, "README.md"), "")

	idx, err := NewDirIndex(dir, ".cs")
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.True(t, idx.Contains(src))
	assert.True(t, idx.Contains(filepath.Join(dir, "src", ".", "Class1.cs")))
	assert.False(t, idx.Contains(vb))

	idx, err = NewDirIndex(dir, ".cs", ".vb")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Contains(vb))

	_, err = NewDirIndex(filepath.Join(dir, "missing"), ".cs")
	assert.Error(t, err)
}
