package findings

// Property is a simple name/value pair used for custom metadata.
type Property struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Finding is a normalized FxCop issue.
type Finding struct {
	RuleID     string `json:"rule_id"`
	CheckID    string `json:"check_id"`
	Repository string `json:"repository"`
	Message    string `json:"message"`
	Scanner    string `json:"scanner"`

	// FilePath is set only for issues on an indexed source file.
	FilePath  string `json:"file_path,omitempty"`
	StartLine int    `json:"start_line,omitempty"`

	// ReportLine locates the issue in the raw FxCop report.
	ReportLine int `json:"report_line"`

	Properties []Property `json:"properties,omitempty"`
}

// OnFile reports whether the finding is attached to a source file rather than the project.
func (f Finding) OnFile() bool {
	return f.FilePath != ""
}

// Collector accumulates findings in arrival order.
type Collector struct {
	Findings []Finding
}

// Save appends f.
func (c *Collector) Save(f Finding) error {
	c.Findings = append(c.Findings, f)
	return nil
}
