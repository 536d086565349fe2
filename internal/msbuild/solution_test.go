package msbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const solutionContent = `Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio 14
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Core", "src\Core\Core.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{F184B08F-C81C-45F6-A57F-5ABD9991F28F}") = "Legacy", "src\Legacy\Legacy.vbproj", "{22222222-2222-2222-2222-222222222222}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "My App", "src\My App\My App.csproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
Global
EndGlobal
`

func TestReadSolution(t *testing.T) {
	dir := t.TempDir()
	sln := writeFile(t, filepath.Join(dir, "All.sln"), solutionContent)
	core := writeFile(t, filepath.Join(dir, "src", "Core", "Core.csproj"), "")
	app := writeFile(t, filepath.Join(dir, "src", "My App", "My App.csproj"), "")
	legacy := writeFile(t, filepath.Join(dir, "src", "Legacy", "Legacy.vbproj"), "")

	projects, err := ReadSolution(sln, CSharpProjectExtension)
	require.NoError(t, err)
	assert.Equal(t, []string{core, app}, projects)

	projects, err = ReadSolution(sln, VbNetProjectExtension)
	require.NoError(t, err)
	assert.Equal(t, []string{legacy}, projects)
}

func TestReadSolutionMissingProjectAborts(t *testing.T) {
	dir := t.TempDir()
	sln := writeFile(t, filepath.Join(dir, "All.sln"), solutionContent)
	writeFile(t, filepath.Join(dir, "src", "Core", "Core.csproj"), "")

	projects, err := ReadSolution(sln, CSharpProjectExtension)
	require.Error(t, err)
	assert.Nil(t, projects)
	assert.True(t, errs.IsStateError(err))
	assert.Contains(t, err.Error(), "Project File not found: "+filepath.Join(dir, "src", "My App", "My App.csproj"))
}

func TestReadSolutionWithoutProjects(t *testing.T) {
	sln := writeFile(t, filepath.Join(t.TempDir(), "Empty.sln"), "Global\nEndGlobal\n")
	projects, err := ReadSolution(sln, CSharpProjectExtension)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestReadSolutionRelativeToWorkingDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Only.csproj"), "")
	writeFile(t, filepath.Join(dir, "Only.sln"), `Project("{X}") = "Only", "Only.csproj", "{Y}"`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	projects, err := ReadSolution("Only.sln", CSharpProjectExtension)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only.csproj"}, projects)
}

func TestFindSolution(t *testing.T) {
	t.Run("single solution in base dir", func(t *testing.T) {
		root := t.TempDir()
		base := filepath.Join(root, "repo")
		sln := writeFile(t, filepath.Join(base, "Product.sln"), "")
		writeFile(t, filepath.Join(root, "Parent.sln"), "")

		found, ok := FindSolution(base)
		require.True(t, ok)
		assert.Equal(t, sln, found)
	})

	t.Run("falls back to parent", func(t *testing.T) {
		root := t.TempDir()
		base := filepath.Join(root, "repo")
		require.NoError(t, os.MkdirAll(base, 0o755))
		parent := writeFile(t, filepath.Join(root, "Parent.sln"), "")

		found, ok := FindSolution(base)
		require.True(t, ok)
		assert.Equal(t, parent, found)
	})

	t.Run("prefers non test solution", func(t *testing.T) {
		base := t.TempDir()
		writeFile(t, filepath.Join(base, "A.Tests.sln"), "")
		product := writeFile(t, filepath.Join(base, "Product.sln"), "")
		writeFile(t, filepath.Join(base, "Samples.sln"), "")

		found, ok := FindSolution(base)
		require.True(t, ok)
		assert.Equal(t, product, found)
	})

	t.Run("nothing found", func(t *testing.T) {
		root := t.TempDir()
		base := filepath.Join(root, "repo")
		require.NoError(t, os.MkdirAll(base, 0o755))

		_, ok := FindSolution(base)
		assert.False(t, ok)
	})
}

func TestResolveSolutionPath(t *testing.T) {
	base := t.TempDir()
	sln := writeFile(t, filepath.Join(base, "build", "Product.sln"), "")

	found, ok := ResolveSolutionPath(filepath.Join("build", "Product.sln"), base)
	require.True(t, ok)
	assert.Equal(t, sln, found)

	found, ok = ResolveSolutionPath(sln, "/elsewhere")
	require.True(t, ok)
	assert.Equal(t, sln, found)

	_, ok = ResolveSolutionPath("", base)
	assert.False(t, ok)

	_, ok = ResolveSolutionPath("Missing.sln", base)
	assert.False(t, ok)
}
