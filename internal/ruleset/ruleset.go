// Package ruleset writes the Visual Studio .ruleset file handed to FxCopCmd.
package ruleset

import (
	"encoding/xml"
	"os"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const (
	FileName = "fxcop-sonarqube.ruleset"

	ruleSetName      = "Rules for SonarQube"
	analyzerID       = "Microsoft.Analyzers.ManagedCodeAnalysis"
	ruleNamespace    = "Microsoft.Rules.Managed"
	enabledAction    = "Warning"
	disabledAction   = "None"
	ruleToolsVersion = "14.0"
)

type ruleSet struct {
	XMLName      xml.Name   `xml:"RuleSet"`
	Name         string     `xml:"Name,attr"`
	Description  string     `xml:"Description,attr"`
	ToolsVersion string     `xml:"ToolsVersion,attr"`
	IncludeAll   includeAll `xml:"IncludeAll"`
	Rules        rules      `xml:"Rules"`
}

type includeAll struct {
	Action string `xml:"Action,attr"`
}

type rules struct {
	AnalyzerID    string `xml:"AnalyzerId,attr"`
	RuleNamespace string `xml:"RuleNamespace,attr"`
	Rules         []rule `xml:"Rule"`
}

type rule struct {
	ID     string `xml:"Id,attr"`
	Action string `xml:"Action,attr"`
}

// Render returns the ruleset enabling exactly ruleIDs. Every other rule is disabled.
// No ids enables every rule.
func Render(ruleIDs []string) ([]byte, error) {
	defaultAction := disabledAction
	if len(ruleIDs) == 0 {
		defaultAction = enabledAction
	}
	doc := ruleSet{
		Name:         ruleSetName,
		Description:  "This rule set was automatically generated from SonarQube.",
		ToolsVersion: ruleToolsVersion,
		IncludeAll:   includeAll{Action: defaultAction},
		Rules: rules{
			AnalyzerID:    analyzerID,
			RuleNamespace: ruleNamespace,
		},
	}
	for _, id := range ruleIDs {
		doc.Rules.Rules = append(doc.Rules.Rules, rule{ID: id, Action: enabledAction})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// Write renders the ruleset for ruleIDs to path.
func Write(ruleIDs []string, path string) error {
	data, err := Render(ruleIDs)
	if err != nil {
		return errs.NewStateError(err, "failed to build ruleset")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.NewStateError(err, "failed to write ruleset %q", path)
	}
	return nil
}
