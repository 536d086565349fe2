package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineFileFullPath(t *testing.T) {
	type testCase struct {
		name         string
		inputPath    string
		nameTemplate string
		expectFile   string
		expectFolder string
		setup        func(t *testing.T) (inputPath, expectFile, expectFolder string)
	}

	tmpDir := t.TempDir()

	tests := []testCase{
		{
			name:         "Directory path with name template",
			inputPath:    tmpDir,
			nameTemplate: "scanio-report-fxcop.json",
			expectFile:   filepath.Join(tmpDir, "scanio-report-fxcop.json"),
			expectFolder: tmpDir,
		},
		{
			name:         "Existing file path with extension",
			nameTemplate: "ignored.json",
			setup: func(t *testing.T) (string, string, string) {
				f := filepath.Join(tmpDir, "issues.sarif")
				require.NoError(t, os.WriteFile(f, []byte("{}"), 0644))
				return f, f, tmpDir
			},
		},
		{
			name:         "Path with no extension, treat as folder",
			inputPath:    filepath.Join(tmpDir, "output_folder"),
			nameTemplate: "report.json",
			expectFile:   filepath.Join(tmpDir, "output_folder", "report.json"),
			expectFolder: filepath.Join(tmpDir, "output_folder"),
		},
		{
			name:         "Non-existent file with extension",
			inputPath:    filepath.Join(tmpDir, "nonexistent.sarif"),
			nameTemplate: "ignored.json",
			expectFile:   filepath.Join(tmpDir, "nonexistent.sarif"),
			expectFolder: tmpDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualPath := tt.inputPath
			expectFile := tt.expectFile
			expectFolder := tt.expectFolder

			if tt.setup != nil {
				actualPath, expectFile, expectFolder = tt.setup(t)
			}

			filePath, folderPath, err := DetermineFileFullPath(actualPath, tt.nameTemplate)
			require.NoError(t, err)
			assert.Equal(t, expectFile, filePath)
			assert.Equal(t, expectFolder, folderPath)
		})
	}
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "MyLib.dll")
	require.NoError(t, os.WriteFile(file, []byte("MZ"), 0644))

	assert.True(t, IsRegularFile(file))
	assert.False(t, IsRegularFile(dir))
	assert.False(t, IsRegularFile(filepath.Join(dir, "missing.dll")))

	link := filepath.Join(dir, "link.dll")
	if err := os.Symlink(file, link); err == nil {
		assert.True(t, IsRegularFile(link))
	}
}

func TestWriteJsonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJsonFile(path, []byte(`{"a":1}`)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}
