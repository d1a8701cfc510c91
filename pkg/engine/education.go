package engine

import (
	"strings"

	"contractflow/pkg/schema"
)

// EducationCategory groups education levels by degree.
type EducationCategory string

const (
	EducationNonDegree EducationCategory = "SMA/SMK-D3 Non Sarjana"
	EducationBachelor  EducationCategory = "D4/S1 Sarjana"
	EducationMaster    EducationCategory = "S2 Magister"
)

// EducationCategories lists the categories from lowest to highest degree.
var EducationCategories = []EducationCategory{EducationNonDegree, EducationBachelor, EducationMaster}

// BachelorOrHigher reports a degree-holding category.
func (c EducationCategory) BachelorOrHigher() bool {
	return c == EducationBachelor || c == EducationMaster
}

// CategorizeEducation classifies free-text education. Unrecognised or blank
// values are non-degree.
func CategorizeEducation(education string) EducationCategory {
	edu := schema.FoldText(education)
	if !schema.IsPresent(edu) || edu == "UNKNOWN" {
		return EducationNonDegree
	}

	switch {
	case containsAnyOf(edu, "SMA", "SMK", "D3"):
		return EducationNonDegree
	case containsAnyOf(edu, "D4", "S1", "SARJANA") && !strings.Contains(edu, "S2"):
		return EducationBachelor
	case containsAnyOf(edu, "S2", "MAGISTER"):
		return EducationMaster
	default:
		return EducationNonDegree
	}
}

func containsAnyOf(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
