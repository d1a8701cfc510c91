package engine

import (
	"fmt"
)

// Violation is a classified employee whose labels disagree.
type Violation struct {
	Row         int             `json:"row"`
	Employee    string          `json:"employee"`
	Progression string          `json:"progression"`
	Status      ProbationStatus `json:"probationStatus"`
	Reason      string          `json:"reason"`
}

// CheckConsistency audits each employee's progression against its probation
// status: Resign/Aktif/Permanen journeys must have passed or been extended,
// a failed probation must be Tidak Lulus with no duration, and nothing may
// still be Unknown.
func CheckConsistency(population []ClassifiedEmployee) []Violation {
	var violations []Violation

	for _, emp := range population {
		c := emp.Classification
		label := c.Progression.String()
		add := func(reason string) {
			violations = append(violations, Violation{
				Row:         emp.Record.SourceRow,
				Employee:    emp.Record.EmployeeName,
				Progression: label,
				Status:      c.ProbationStatus,
				Reason:      reason,
			})
		}

		switch {
		case c.ProbationStatus == StatusUnknown || c.Progression == ProgressionUnknown:
			add("unclassified record in population")
		case containsAnyOf(label, "Resign", "Aktif", "Permanen") && !c.ProbationStatus.Passed():
			add(fmt.Sprintf("progression requires a passed probation, got %s", c.ProbationStatus))
		case c.Progression == ProgressionProbationFailed && c.ProbationStatus != StatusTidakLulus:
			add(fmt.Sprintf("failed probation labelled %s", c.ProbationStatus))
		}

		if c.DurationMonths < 0 {
			add("negative contract duration")
		}
		if c.ProbationStatus == StatusTidakLulus && c.DurationMonths != 0 {
			add("failed probation has a contract duration")
		}
		if c.Stage == StageUnknown {
			add("missing contract stage")
		}
	}

	return violations
}
