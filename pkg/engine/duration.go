package engine

import (
	"math"
	"strconv"
	"strings"
	"time"

	"contractflow/pkg/schema"
)

// NominalProbationMonths is removed from tenure to get the time spent under
// contract. Probation length is not recorded per employee.
const NominalProbationMonths = 3.0

// daysPerMonth converts elapsed days to months.
const daysPerMonth = 30.44

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2-Jan-06",
	"2/1/2006",
	"2006-01-02",
	"2-1-2006",
	"2-1-06",
}

// fallbackDateLayouts cover the other shapes seen in exports.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"2.1.2006",
	"2/1/06",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
}

// DurationSource records where a contract duration came from.
type DurationSource string

const (
	DurationFromDates          DurationSource = "dates"
	DurationFromYearsOfService DurationSource = "years_of_service"
	DurationNotApplicable      DurationSource = "not_applicable"
)

// ParseDate parses a roster date, returning false for blanks, placeholders
// and anything no layout accepts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !schema.IsPresent(s) {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ContractDuration computes months under contract for a passed or extended
// employee. End date is the resign date for resigned journeys when it
// parses, otherwise now. Without a usable join date the years-of-service
// figure is used instead.
func ContractDuration(rec schema.EmployeeRecord, progression Progression, now time.Time) (float64, DurationSource) {
	if !progression.Outcome().Passed() {
		return 0, DurationNotApplicable
	}

	join, ok := ParseDate(rec.JoinDate)
	if !ok {
		return math.Max(0, parseYearsOfService(rec.YearsOfService)*12-NominalProbationMonths), DurationFromYearsOfService
	}

	end := now
	if progression.Resigned() {
		if resign, ok := ParseDate(rec.ResignDate); ok {
			end = resign
		}
	}

	days := math.Floor(end.Sub(join).Hours() / 24)
	return math.Max(0, days/daysPerMonth-NominalProbationMonths), DurationFromDates
}

// parseYearsOfService reads a decimal that may use a comma separator.
// Anything unreadable counts as zero.
func parseYearsOfService(s string) float64 {
	s = strings.TrimSpace(s)
	if !schema.IsPresent(s) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DurationCategory is the retention-risk bucket of a contract duration.
type DurationCategory string

const (
	DurationHighRisk    DurationCategory = "0-6 bulan (Risiko Tinggi)"
	DurationMedium      DurationCategory = "7-11 bulan (Menengah)"
	DurationOutstanding DurationCategory = "≥12 bulan (Outstanding)"
)

// DurationCategories lists the buckets from shortest to longest.
var DurationCategories = []DurationCategory{DurationHighRisk, DurationMedium, DurationOutstanding}

// CategorizeDuration buckets months: up to 6 is high risk, below 12 is
// medium, the rest outstanding.
func CategorizeDuration(months float64) DurationCategory {
	switch {
	case months <= 6:
		return DurationHighRisk
	case months < 12:
		return DurationMedium
	default:
		return DurationOutstanding
	}
}

// ExtensionRange is a finer-grained duration bucket used for extension
// analysis.
type ExtensionRange string

const (
	ExtensionVeryShort   ExtensionRange = "0-3 bulan (Sangat Pendek)"
	ExtensionShort       ExtensionRange = "4-6 bulan (Pendek)"
	ExtensionStandard    ExtensionRange = "7-12 bulan (Standar)"
	ExtensionLong        ExtensionRange = "13-24 bulan (Panjang)"
	ExtensionVeryLong    ExtensionRange = "25-36 bulan (Sangat Panjang)"
	ExtensionExceptional ExtensionRange = "37+ bulan (Exceptional)"
)

// ExtensionRanges lists the ranges from shortest to longest.
var ExtensionRanges = []ExtensionRange{
	ExtensionVeryShort, ExtensionShort, ExtensionStandard,
	ExtensionLong, ExtensionVeryLong, ExtensionExceptional,
}

// CategorizeExtension buckets months into an ExtensionRange.
func CategorizeExtension(months float64) ExtensionRange {
	switch {
	case months <= 3:
		return ExtensionVeryShort
	case months <= 6:
		return ExtensionShort
	case months <= 12:
		return ExtensionStandard
	case months <= 24:
		return ExtensionLong
	case months <= 36:
		return ExtensionVeryLong
	default:
		return ExtensionExceptional
	}
}
