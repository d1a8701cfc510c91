package schema

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// placeholders are the cell values spreadsheet exports use for "nothing".
var placeholders = []string{"", "nan", "-", "none"}

// headerReplacer turns the separators seen in roster headers into spaces.
var headerReplacer = strings.NewReplacer(
	"\u00a0", " ",
	"\n", " ",
	"\r", " ",
	"_", " ",
)

// NormalizeHeader lowercases a header and replaces non-breaking spaces,
// line breaks and underscores with a space before trimming.
func NormalizeHeader(header string) string {
	s := norm.NFKC.String(header)
	s = strings.ToLower(s)
	s = headerReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// IsPresent reports whether a stage marker cell holds a real value, i.e.
// is not blank or a placeholder ("nan", "-", "None").
func IsPresent(v string) bool {
	v = strings.TrimSpace(v)
	for _, p := range placeholders {
		if strings.EqualFold(v, p) {
			return false
		}
	}
	return true
}

// FoldText uppercases s, strips diacritics and collapses whitespace. Free
// text roster fields (major, designation, education) are compared in this
// form.
func FoldText(s string) string {
	s = stripDiacritics(strings.TrimSpace(s))
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToUpper(s)
}

// stripDiacritics removes diacritical marks (accents) from a string.
// It decomposes the string into NFD form and removes combining marks (unicode.Mn).
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var result strings.Builder
	result.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		result.WriteRune(r)
	}

	return norm.NFC.String(result.String())
}

// CleanupStats counts rows through the null-name cleanup.
type CleanupStats struct {
	RowsLoaded           int `json:"rowsLoaded" yaml:"rows_loaded"`
	RowsAfterNameCleanup int `json:"rowsAfterNameCleanup" yaml:"rows_after_name_cleanup"`
	DroppedNoName        int `json:"droppedNoName" yaml:"dropped_no_name"`
}

// NormalizeRoster projects raw rows onto canonical EmployeeRecords and drops
// rows without an employee name.
func NormalizeRoster(records []map[string]string, mapping FieldMapping) ([]EmployeeRecord, CleanupStats) {
	stats := CleanupStats{RowsLoaded: len(records)}
	result := make([]EmployeeRecord, 0, len(records))

	for i, row := range records {
		name := strings.TrimSpace(mapping.Value(row, FieldEmployeeName))
		if name == "" {
			stats.DroppedNoName++
			continue
		}

		result = append(result, EmployeeRecord{
			SourceRow:          i + 2, // 1-indexed, after the header row
			EmployeeName:       name,
			JoinDate:           strings.TrimSpace(mapping.Value(row, FieldJoinDate)),
			ResignDate:         strings.TrimSpace(mapping.Value(row, FieldResignDate)),
			PermanentDate:      strings.TrimSpace(mapping.Value(row, FieldPermanentDate)),
			StatusWorking:      strings.TrimSpace(mapping.Value(row, FieldStatusWorking)),
			ActiveStatus:       strings.TrimSpace(mapping.Value(row, FieldActiveStatus)),
			EducationLevel:     strings.TrimSpace(mapping.Value(row, FieldEducationLevel)),
			Major:              strings.TrimSpace(mapping.Value(row, FieldMajor)),
			Designation:        strings.TrimSpace(mapping.Value(row, FieldDesignation)),
			RoleInternal:       strings.TrimSpace(mapping.Value(row, FieldRoleInternal)),
			RoleAtClient:       strings.TrimSpace(mapping.Value(row, FieldRoleAtClient)),
			ProbationExpired:   strings.TrimSpace(mapping.Value(row, FieldProbationExpired)),
			Contract2nd:        strings.TrimSpace(mapping.Value(row, FieldContract2nd)),
			Contract3rd:        strings.TrimSpace(mapping.Value(row, FieldContract3rd)),
			ProbationExtension: strings.TrimSpace(mapping.Value(row, FieldProbationExtension)),
			YearsOfService:     strings.TrimSpace(mapping.Value(row, FieldYearsOfService)),
		})
	}

	stats.RowsAfterNameCleanup = len(result)
	return result, stats
}
