package targetconfig

import (
	"fmt"

	"github.com/scan-io-git/scanio-fxcop/internal/msbuild"
)

// Deprecated keys honoured when the language specific key is absent.
const (
	DeprecatedExecutableKey = "sonar.fxcop.installDirectory"
	DeprecatedTimeoutKey    = "sonar.fxcop.timeoutMinutes"
)

// SolutionFileKey names the solution file shared by every language binding. It seeds the fallback solution.
const SolutionFileKey = "sonar.dotnet.visualstudio.solution.file"

// Supported languages.
const (
	LanguageCSharp = "cs"
	LanguageVbNet  = "vbnet"
)

// Keys is the fixed set of property names a language binding reads.
type Keys struct {
	Language   string
	Repository string

	Assembly    string
	Project     string
	Solution    string
	Executable  string
	Timeout     string
	Aspnet      string
	Directories string
	References  string
	ReportPath  string

	// ProjectExtension selects the projects of a solution, SourceSuffix the source files issues may point to.
	ProjectExtension string
	SourceSuffix     string
}

// CSharpKeys returns the sonar.cs.fxcop.* binding.
func CSharpKeys() Keys {
	return languageKeys(LanguageCSharp, "fxcop", "sonar.cs.fxcop.", msbuild.CSharpProjectExtension, ".cs")
}

// VbNetKeys returns the sonar.vbnet.fxcop.* binding.
func VbNetKeys() Keys {
	return languageKeys(LanguageVbNet, "fxcop-vbnet", "sonar.vbnet.fxcop.", msbuild.VbNetProjectExtension, ".vb")
}

// KeysFor returns the binding of a language.
func KeysFor(language string) (Keys, error) {
	switch language {
	case LanguageCSharp:
		return CSharpKeys(), nil
	case LanguageVbNet:
		return VbNetKeys(), nil
	default:
		return Keys{}, fmt.Errorf("unsupported language %q, expected %q or %q", language, LanguageCSharp, LanguageVbNet)
	}
}

func languageKeys(language, repository, prefix, projectExt, sourceSuffix string) Keys {
	return Keys{
		Language:         language,
		Repository:       repository,
		Assembly:         prefix + "assembly",
		Project:          prefix + "project",
		Solution:         prefix + "slnFile",
		Executable:       prefix + "fxCopCmdPath",
		Timeout:          prefix + "timeoutMinutes",
		Aspnet:           prefix + "aspnet",
		Directories:      prefix + "directories",
		References:       prefix + "references",
		ReportPath:       prefix + "reportPath",
		ProjectExtension: projectExt,
		SourceSuffix:     sourceSuffix,
	}
}
