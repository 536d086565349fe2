package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
)

func TestSetupAppliesEnvironment(t *testing.T) {
	t.Setenv("SCANIO_FXCOP_LANGUAGE", "vbnet")
	t.Setenv("SCANIO_FXCOP_TIMEOUT_MINUTES", "")
	t.Setenv("SCANIO_FXCOP_WORK_DIR", "")

	g := newScannerFxCop(hclog.NewNullLogger())
	ok, err := g.Setup(config.Config{})
	require.NoError(t, err)
	assert.True(t, ok)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Module1.vb"), []byte(""), 0o644))
	report := filepath.Join(dir, "report.xml")
	require.NoError(t, os.WriteFile(report, []byte("<FxCopReport/>"), 0o644))

	resp, err := g.Scan(shared.ScannerScanRequest{
		TargetPath:  dir,
		ResultsPath: filepath.Join(dir, "out.json"),
		Properties:  map[string]string{"sonar.vbnet.fxcop.reportPath": report},
	})
	require.NoError(t, err)
	assert.Equal(t, "report", resp.Mode)
	assert.Equal(t, 0, resp.IssueCount)
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	t.Setenv("SCANIO_FXCOP_LANGUAGE", "")
	t.Setenv("SCANIO_FXCOP_TIMEOUT_MINUTES", "")
	t.Setenv("SCANIO_FXCOP_WORK_DIR", "")

	g := newScannerFxCop(hclog.NewNullLogger())
	ok, err := g.Setup(config.Config{FxCopPlugin: config.FxCopPlugin{Language: "fsharp"}})
	assert.Error(t, err)
	assert.False(t, ok)
}
