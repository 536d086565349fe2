package main

import (
	"strings"

	"github.com/scan-io-git/scanio-fxcop/internal/targetconfig"
	"github.com/scan-io-git/scanio-fxcop/pkg/shared"
)

// validateLanguageSoft logs a warning for a language the plugin has no binding for.
// The scan itself rejects it.
func (g *ScannerFxCop) validateLanguageSoft(language string) {
	languageList := []string{targetconfig.LanguageCSharp, targetconfig.LanguageVbNet}
	if language != "" && !shared.IsInList(language, languageList) {
		g.logger.Warn(
			"the requested language has no FxCop binding",
			"language", language,
			"supportedLanguages", strings.Join(languageList, ", "),
		)
	}
}
