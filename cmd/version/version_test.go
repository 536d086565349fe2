package version

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPluginVersions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fxcop"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fxcop", "VERSION"), []byte(`{"version":"1.2.0","plugin_type":"scanner"}`), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0o755))

	meta := getPluginVersions(dir)
	assert.Equal(t, PluginMeta{Version: "1.2.0", PluginType: "scanner"}, meta["fxcop"])
	assert.Equal(t, PluginMeta{Version: "unknown", PluginType: "unknown"}, meta["broken"])

	assert.Empty(t, getPluginVersions(filepath.Join(dir, "missing")))
	assert.Empty(t, getPluginVersions(""))
}

func TestPrintVersionInfo(t *testing.T) {
	var buf bytes.Buffer
	printVersionInfo(&buf, &CoreVersions{
		Languages:  []string{"cs", "vbnet"},
		Executable: "FxCopCmd.exe",
	})
	assert.Contains(t, buf.String(), "FxCop: FxCopCmd.exe, languages [cs vbnet]")
	assert.NotContains(t, buf.String(), "Plugin Versions")
}
