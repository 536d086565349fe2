package targetconfig

// ScanMode is the source of the FxCop issues of a run.
type ScanMode int

const (
	Unconfigured ScanMode = iota
	ReportReuse
	AssemblyScan
	ProjectScan
	SolutionScan
)

func (m ScanMode) String() string {
	switch m {
	case ReportReuse:
		return "report"
	case AssemblyScan:
		return "assembly"
	case ProjectScan:
		return "project"
	case SolutionScan:
		return "solution"
	default:
		return "unconfigured"
	}
}

// Presence records which target properties hold a value.
type Presence struct {
	ReportPath       bool
	Assembly         bool
	Project          bool
	Solution         bool
	FallbackSolution bool
}

func (p Presence) anySolution() bool {
	return p.Solution || p.FallbackSolution
}

// DetermineMode picks the scan mode. Rules are evaluated top to bottom and the first match wins.
func DetermineMode(p Presence) ScanMode {
	switch {
	case p.ReportPath:
		return ReportReuse
	case !p.Assembly && !p.Project && !p.anySolution():
		return Unconfigured
	case !p.Assembly && !p.Project && !p.Solution:
		// only the fallback solution is known
		return SolutionScan
	case !p.Assembly && p.Project && !p.anySolution():
		return ProjectScan
	case !p.Assembly && p.anySolution():
		// project and solution together scan the solution, the project is still validated
		return SolutionScan
	default:
		return AssemblyScan
	}
}
