// Package report reads the XML reports written by FxCopCmd.
package report

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"

	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

const suppressedStatus = "ExcludedInSource"

// Issue is one <Issue> element of a FxCop report.
type Issue struct {
	// ReportLine is the line of the <Issue> element in the report.
	ReportLine    int    `json:"report_line"`
	RuleConfigKey string `json:"rule_config_key"`
	Path          string `json:"path,omitempty"`
	File          string `json:"file,omitempty"`
	Line          *int   `json:"line,omitempty"`
	Message       string `json:"message"`
}

type issueText struct {
	Text string `xml:",chardata"`
}

// parser holds the state of a single Parse call.
type parser struct {
	file    string
	decoder *xml.Decoder

	ruleConfigKey string
	suppressed    bool
	issues        []Issue
}

// Parse reads every active issue of the report at path. Issues under a <Message>
// excluded in source are dropped. Nothing is returned on error.
func Parse(path string) ([]Issue, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, errs.NewStateError(err, "failed to open FxCop report %q", abs)
	}
	defer f.Close()

	return parseReader(abs, f)
}

func parseReader(file string, r io.Reader) ([]Issue, error) {
	p := &parser{
		file:    file,
		decoder: xml.NewDecoder(r),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.issues, nil
}

func (p *parser) run() error {
	for {
		tok, err := p.decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return errs.NewParseError(p.file, syntaxErr.Line, "%s", syntaxErr.Msg)
			}
			return errs.NewStateError(err, "failed to read FxCop report %q", p.file)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Message":
			if err := p.handleMessage(start); err != nil {
				return err
			}
		case "Issue":
			if p.suppressed {
				continue
			}
			if err := p.handleIssue(start); err != nil {
				return err
			}
		}
	}
}

func (p *parser) handleMessage(start xml.StartElement) error {
	key, ok := attr(start, "CheckId")
	if !ok {
		return p.errorf("Missing attribute \"CheckId\" in element <%s>", start.Name.Local)
	}
	status, _ := attr(start, "Status")
	p.ruleConfigKey = key
	p.suppressed = status == suppressedStatus
	return nil
}

func (p *parser) handleIssue(start xml.StartElement) error {
	reportLine := p.line()

	issue := Issue{
		ReportLine:    reportLine,
		RuleConfigKey: p.ruleConfigKey,
	}
	issue.Path, _ = attr(start, "Path")
	issue.File, _ = attr(start, "File")

	if raw, ok := attr(start, "Line"); ok {
		line, err := strconv.Atoi(raw)
		if err != nil {
			return p.errorf("Expected an integer instead of %q for the attribute \"Line\"", raw)
		}
		issue.Line = &line
	}

	var text issueText
	if err := p.decoder.DecodeElement(&text, &start); err != nil {
		return errs.NewParseError(p.file, reportLine, "invalid <Issue> element: %v", err)
	}
	issue.Message = text.Text

	p.issues = append(p.issues, issue)
	return nil
}

// line is the report line the decoder stopped at, the end of the last start tag.
func (p *parser) line() int {
	line, _ := p.decoder.InputPos()
	return line
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errs.NewParseError(p.file, p.line(), format, args...)
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
