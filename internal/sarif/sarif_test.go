package sarif

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/scanio-fxcop/internal/findings"
)

func TestPathWithin(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name string
		path string
		root string
		want bool
	}{
		{"empty root", "/any/where", "", true},
		{"same path", root, root, true},
		{"child", filepath.Join(root, "src", "Foo.cs"), root, true},
		{"sibling with common prefix", root + "-other", root, false},
		{"outside", filepath.Dir(root), root, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathWithin(tt.path, tt.root))
		})
	}
}

func TestArtifactURI(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, "src/Foo.cs", artifactURI(filepath.Join(root, "src", "Foo.cs"), root))
	assert.Equal(t, filepath.ToSlash("/elsewhere/Bar.cs"), artifactURI("/elsewhere/Bar.cs", root))
	assert.Equal(t, filepath.ToSlash("/x/Baz.cs"), artifactURI("/x/Baz.cs", ""))
}

func TestReportAddFindings(t *testing.T) {
	root := t.TempDir()
	report, err := New(root)
	require.NoError(t, err)

	report.AddFindings([]findings.Finding{
		{
			RuleID:     "AssembliesShouldHaveValidStrongNames",
			CheckID:    "CA2210",
			Repository: "fxcop",
			Message:    "Sign assembly with a strong name key.",
			ReportLine: 9,
		},
		{
			RuleID:     "CA1801",
			CheckID:    "CA1801",
			Repository: "fxcop",
			Message:    "Parameter 'args' is never used.",
			FilePath:   filepath.Join(root, "Program.cs"),
			StartLine:  12,
			ReportLine: 23,
		},
		{
			RuleID:     "CA1801",
			CheckID:    "CA1801",
			Repository: "fxcop",
			Message:    "Parameter 'x' is never used.",
			FilePath:   filepath.Join(root, "Util.cs"),
			ReportLine: 31,
		},
	})

	require.Len(t, report.Runs, 1)
	run := report.Runs[0]
	assert.Equal(t, ToolName, run.Tool.Driver.Name)
	assert.Len(t, run.Tool.Driver.Rules, 2)
	require.Len(t, run.Results, 3)

	projectLevel := run.Results[0]
	assert.Equal(t, "AssembliesShouldHaveValidStrongNames", *projectLevel.RuleID)
	assert.Empty(t, projectLevel.Locations)
	assert.Equal(t, "CA2210", projectLevel.Properties["checkId"])
	assert.Equal(t, 9, projectLevel.Properties["reportLine"])

	onLine := run.Results[1]
	require.Len(t, onLine.Locations, 1)
	physical := onLine.Locations[0].PhysicalLocation
	assert.Equal(t, "Program.cs", *physical.ArtifactLocation.URI)
	require.NotNil(t, physical.Region)
	assert.Equal(t, 12, *physical.Region.StartLine)

	noLine := run.Results[2]
	require.Len(t, noLine.Locations, 1)
	assert.Nil(t, noLine.Locations[0].PhysicalLocation.Region)
}

func TestReportWriteFile(t *testing.T) {
	root := t.TempDir()
	report, err := New(root)
	require.NoError(t, err)
	report.AddFindings([]findings.Finding{{RuleID: "CA1000", CheckID: "CA1000", Message: "msg"}})

	path := filepath.Join(root, "report.sarif")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])

	err = report.WriteFile(filepath.Join(root, "missing", "report.sarif"))
	assert.Error(t, err)
}
