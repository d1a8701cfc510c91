package engine

import (
	"sort"
	"strings"

	"contractflow/pkg/schema"
)

// graduateProgramMarker identifies graduate-program designations.
const graduateProgramMarker = "GRADUATE DEVELOPMENT PROGRAM"

// ITMajors are the majors that count as IT-related. A roster major matches
// only when it equals an entry after trimming and uppercasing.
var ITMajors = []string{
	"INFORMATION TECHNOLOGY", "TEKNIK INFORMATIKA", "ILMU KOMPUTER",
	"SISTEM INFORMASI", "INFORMATION SYSTEM", "COMPUTER SCIENCE",
	"TEKNIK KOMPUTER", "COMPUTER ENGINEERING", "INFORMATICS",
	"INFORMATICS ENGINEERING", "MANAGEMENT INFORMATIKA",
	"INFORMATIC MANAGEMENT", "COMPUTER SYSTEM", "INFORMATION SYSTEMS",
	"COMPUTER", "INFORMATIC ENGINEERING", "COMPUTATIONAL SCIENCE",
	"TEKNIK ELEKTRO", "ELECTRICAL ENGINEERING", "ELECTRONICS",
	"COMPUTER AND INFORMATICS ENGINEERING", "TELECOMMUNICATIONS ENGINEERING",
	"SOFTWARE ENGINEERING", "DATA ANALYTICS", "INFORMATICS MANAGEMENT",
}

// ITRoleKeywords are matched as substrings of designation + internal role.
// "IT " keeps its trailing space so words like "SECURITY" don't match on
// their own letters.
var ITRoleKeywords = []string{
	"DEVELOPER", "PROGRAMMER", "ANALYST", "TESTER", "PROJECT MANAGER",
	"TECHNICAL", "IT ", "SOFTWARE", "DATA", "SYSTEM", "ETL", "API",
	"FULL STACK", "FRONTEND", "BACKEND", "QUALITY ASSURANCE",
	"DEVOPS", "SECURITY", "DATABASE", "NETWORK", "INFRASTRUCTURE",
	"CONSULTANT", "ARCHITECT", "ENGINEER",
}

var itMajorSet = func() map[string]bool {
	set := make(map[string]bool, len(ITMajors))
	for _, m := range ITMajors {
		set[m] = true
	}
	return set
}()

// Eligibility step names, in application order.
const (
	StepGraduateProgram = "graduate_development_program"
	StepNonITMajor      = "non_it_major"
	StepNonITRole       = "non_it_role"
)

// StepResult is the outcome of one eligibility step.
type StepResult struct {
	Step    string `json:"step" yaml:"step"`
	Before  int    `json:"before" yaml:"before"`
	Removed int    `json:"removed" yaml:"removed"`
	Skipped bool   `json:"skipped" yaml:"skipped"`
	// MissingFields names the unresolved columns that caused a skip.
	MissingFields []schema.Field `json:"missingFields,omitempty" yaml:"missing_fields,omitempty"`
}

// EligibilityReport summarizes the filter run. Initial - Final always
// equals the sum of Removed over Steps.
type EligibilityReport struct {
	Initial        int             `json:"initial" yaml:"initial"`
	Final          int             `json:"final" yaml:"final"`
	Steps          []StepResult    `json:"steps" yaml:"steps"`
	NearMissMajors []NearMissMajor `json:"nearMissMajors,omitempty" yaml:"near_miss_majors,omitempty"`
}

// Removed returns the count removed by the named step.
func (r EligibilityReport) Removed(step string) int {
	for _, s := range r.Steps {
		if s.Step == step {
			return s.Removed
		}
	}
	return 0
}

// TotalRemoved sums Removed over all steps.
func (r EligibilityReport) TotalRemoved() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Removed
	}
	return total
}

type eligibilityStep struct {
	name     string
	requires []schema.Field
	keep     func(schema.EmployeeRecord) bool
}

var eligibilitySteps = []eligibilityStep{
	{
		name:     StepGraduateProgram,
		requires: []schema.Field{schema.FieldDesignation},
		keep:     notGraduateProgram,
	},
	{
		name:     StepNonITMajor,
		requires: []schema.Field{schema.FieldMajor},
		keep:     hasITMajor,
	},
	{
		name:     StepNonITRole,
		requires: []schema.Field{schema.FieldDesignation, schema.FieldRoleInternal},
		keep:     hasITRole,
	},
}

// FilterEligible applies the graduate-program, major and role steps in
// sequence, each on the survivors of the previous one. A step whose columns
// are not in the mapping is skipped and removes nothing.
func FilterEligible(records []schema.EmployeeRecord, mapping schema.FieldMapping) ([]schema.EmployeeRecord, EligibilityReport) {
	report := EligibilityReport{Initial: len(records)}
	current := records

	for _, step := range eligibilitySteps {
		result := StepResult{Step: step.name, Before: len(current)}

		for _, f := range step.requires {
			if !mapping.Has(f) {
				result.MissingFields = append(result.MissingFields, f)
			}
		}
		if len(result.MissingFields) > 0 {
			result.Skipped = true
			report.Steps = append(report.Steps, result)
			continue
		}

		kept := make([]schema.EmployeeRecord, 0, len(current))
		var dropped []schema.EmployeeRecord
		for _, rec := range current {
			if step.keep(rec) {
				kept = append(kept, rec)
			} else {
				dropped = append(dropped, rec)
			}
		}
		result.Removed = len(dropped)
		report.Steps = append(report.Steps, result)

		if step.name == StepNonITMajor {
			report.NearMissMajors = findNearMissMajors(dropped)
		}
		current = kept
	}

	report.Final = len(current)
	return current, report
}

func notGraduateProgram(rec schema.EmployeeRecord) bool {
	return !strings.Contains(schema.FoldText(rec.Designation), graduateProgramMarker)
}

// hasITMajor treats blank and placeholder majors as non-IT.
func hasITMajor(rec schema.EmployeeRecord) bool {
	if !schema.IsPresent(rec.Major) {
		return false
	}
	return itMajorSet[strings.ToUpper(strings.TrimSpace(rec.Major))]
}

func hasITRole(rec schema.EmployeeRecord) bool {
	roleText := schema.FoldText(rec.Designation) + " " + schema.FoldText(rec.RoleInternal)
	return containsAnyOf(roleText, ITRoleKeywords...)
}

// NearMissMajor is a removed major that closely resembles an allow-listed
// one, usually a typo in the roster.
type NearMissMajor struct {
	Major   string  `json:"major" yaml:"major"`
	Closest string  `json:"closest" yaml:"closest"`
	Score   float64 `json:"score" yaml:"score"`
	Count   int     `json:"count" yaml:"count"`
}

// nearMissThreshold is the minimum similarity reported as a near miss.
const nearMissThreshold = 0.85

func findNearMissMajors(dropped []schema.EmployeeRecord) []NearMissMajor {
	byMajor := make(map[string]*NearMissMajor)
	for _, rec := range dropped {
		if !schema.IsPresent(rec.Major) {
			continue
		}
		folded := schema.FoldText(rec.Major)
		if nm, ok := byMajor[folded]; ok {
			if nm != nil {
				nm.Count++
			}
			continue
		}

		closest, score := closestMajor(folded)
		if score < nearMissThreshold {
			byMajor[folded] = nil
			continue
		}
		byMajor[folded] = &NearMissMajor{Major: folded, Closest: closest, Score: score, Count: 1}
	}

	var out []NearMissMajor
	for _, nm := range byMajor {
		if nm != nil {
			out = append(out, *nm)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Major < out[j].Major
	})
	return out
}

func closestMajor(folded string) (string, float64) {
	best, bestScore := "", 0.0
	for _, m := range ITMajors {
		if s := similarity(folded, m); s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, bestScore
}
