package sema

import (
	"fmt"
	"strings"
)

// Diagnostic is one accumulated semantic error (spec.md §7: diagnostics
// accumulate rather than aborting the analysis pass on first failure).
type Diagnostic struct {
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// AnalysisError wraps every diagnostic collected during one analysis run.
// The driver treats any non-nil AnalysisError as "do not generate code"
// (spec.md §7).
type AnalysisError struct {
	Diagnostics []Diagnostic
}

func (e *AnalysisError) Error() string {
	lines := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		lines[i] = d.String()
	}
	return fmt.Sprintf("%d semantic error(s):\n%s", len(e.Diagnostics), strings.Join(lines, "\n"))
}
