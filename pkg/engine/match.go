package engine

import (
	"contractflow/pkg/schema"
)

// MatchCategory rates how well an employee's major fits the job held.
type MatchCategory string

const (
	MatchVeryHigh MatchCategory = "Sangat Sesuai (4+)"
	MatchHigh     MatchCategory = "Sesuai (3)"
	MatchFair     MatchCategory = "Cukup Sesuai (2)"
	MatchLow      MatchCategory = "Kurang Sesuai (1)"
	MatchNone     MatchCategory = "Tidak Sesuai (0)"
)

var (
	coreITMajorKeywords = []string{"INFORMATION TECHNOLOGY", "TEKNIK INFORMATIKA", "ILMU KOMPUTER", "SISTEM INFORMASI"}
	developerKeywords   = []string{"DEVELOPER", "PROGRAMMER", "SOFTWARE", "TECHNICAL"}
	analystKeywords     = []string{"ANALYST", "BUSINESS", "SYSTEM", "DATA"}
)

// JobEducationScore scores major/job alignment: a core IT major earns 3 with
// a developer designation, 2 with an analyst one and 1 otherwise; an IT role
// at the client adds 1.
func JobEducationScore(rec schema.EmployeeRecord) int {
	major := schema.FoldText(rec.Major)
	designation := schema.FoldText(rec.Designation)
	roleAtClient := schema.FoldText(rec.RoleAtClient)

	score := 0
	if containsAnyOf(major, coreITMajorKeywords...) {
		switch {
		case containsAnyOf(designation, developerKeywords...):
			score += 3
		case containsAnyOf(designation, analystKeywords...):
			score += 2
		default:
			score++
		}
	}

	if containsAnyOf(roleAtClient, developerKeywords...) || containsAnyOf(roleAtClient, analystKeywords...) {
		score++
	}
	return score
}

// CategorizeMatch maps a JobEducationScore to its category.
func CategorizeMatch(score int) MatchCategory {
	switch {
	case score >= 4:
		return MatchVeryHigh
	case score == 3:
		return MatchHigh
	case score == 2:
		return MatchFair
	case score == 1:
		return MatchLow
	default:
		return MatchNone
	}
}
