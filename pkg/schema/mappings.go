package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmployeeNameNotFound means no column could serve as the roster's
// primary key.
var ErrEmployeeNameNotFound = errors.New("cannot find employee name column")

// ConfigurationError is a fatal ingestion error: the dataset cannot be
// analysed as loaded.
type ConfigurationError struct {
	Field  Field
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FieldSpec declares the keywords used to locate one canonical field.
type FieldSpec struct {
	Field    Field
	Keywords []string
	// Alternates are further keyword sets tried in order after Keywords.
	Alternates [][]string
	// Strict specs only take a header containing every keyword of one set.
	// They never fall back to a partial match.
	Strict bool
}

// FieldSpecs is the keyword table consumed by BuildFieldMapping. Order is
// the order fields are reported in; it does not affect resolution.
var FieldSpecs = []FieldSpec{
	{Field: FieldJoinDate, Keywords: []string{"join", "date"}},
	{Field: FieldResignDate, Keywords: []string{"resign", "date"}},
	{Field: FieldPermanentDate, Keywords: []string{"permanent", "date"}},
	{Field: FieldStatusWorking, Keywords: []string{"status", "working"}},
	{Field: FieldActiveStatus, Keywords: []string{"active", "status"}},
	{Field: FieldEducationLevel, Keywords: []string{"education", "level"}},
	{Field: FieldMajor, Keywords: []string{"major"}},
	{Field: FieldDesignation, Keywords: []string{"designation"}},
	{Field: FieldRoleInternal, Keywords: []string{"role", "client", "internal"}},
	{Field: FieldRoleAtClient, Keywords: []string{"role", "at", "client"}},
	{Field: FieldProbationExpired, Keywords: []string{"probation", "expired"}},
	{Field: FieldContract2nd, Keywords: []string{"contract", "2nd"}},
	{Field: FieldContract3rd, Keywords: []string{"contract", "3rd"}},
	{
		Field:      FieldProbationExtension,
		Keywords:   []string{"probation", "extension"},
		Alternates: [][]string{{"perpanjang"}},
		Strict:     true,
	},
	{Field: FieldYearsOfService, Keywords: []string{"years", "service"}},
}

// identifierColumns are never considered as the employee name column.
var identifierColumns = map[string]bool{"NO": true, "EID": true}

// nameSampleSize is how many non-empty values the name heuristic inspects.
const nameSampleSize = 10

func specFields() []Field {
	fields := make([]Field, 0, len(FieldSpecs))
	for _, s := range FieldSpecs {
		fields = append(fields, s.Field)
	}
	return fields
}

// ResolveColumn returns the first header whose normalized form contains
// every keyword; failing that, the first header containing any keyword.
// Headers are scanned in the order given.
func ResolveColumn(keywords []string, headers []string) (string, bool) {
	if len(keywords) == 0 {
		return "", false
	}
	lowered := lowerAll(keywords)
	normalized := normalizeHeaders(headers)

	if col, ok := firstContainingAll(lowered, headers, normalized); ok {
		return col, true
	}
	for i, h := range normalized {
		if containsAny(h, lowered) {
			return headers[i], true
		}
	}
	return "", false
}

// ResolveColumnStrict returns the first header containing every keyword of
// a set, trying the sets in order. There is no partial-match fallback.
func ResolveColumnStrict(keywordSets [][]string, headers []string) (string, bool) {
	normalized := normalizeHeaders(headers)
	for _, set := range keywordSets {
		if len(set) == 0 {
			continue
		}
		if col, ok := firstContainingAll(lowerAll(set), headers, normalized); ok {
			return col, true
		}
	}
	return "", false
}

func (s FieldSpec) resolve(headers []string) (string, bool) {
	if s.Strict {
		return ResolveColumnStrict(append([][]string{s.Keywords}, s.Alternates...), headers)
	}
	if col, ok := ResolveColumn(s.Keywords, headers); ok {
		return col, true
	}
	for _, alt := range s.Alternates {
		if col, ok := ResolveColumn(alt, headers); ok {
			return col, true
		}
	}
	return "", false
}

func firstContainingAll(keywords, headers, normalized []string) (string, bool) {
	for i, h := range normalized {
		if containsAll(h, keywords) {
			return headers[i], true
		}
	}
	return "", false
}

func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}

func normalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeHeader(h)
	}
	return out
}

// ResolveEmployeeName picks the identity column: the first header mentioning
// "employee", else the first non-identifier text column whose sampled values
// look like multi-word names.
func ResolveEmployeeName(headers []string, records []map[string]string) (string, error) {
	for _, h := range headers {
		if strings.Contains(NormalizeHeader(h), "employee") {
			return h, nil
		}
	}

	for _, h := range headers {
		if identifierColumns[strings.ToUpper(strings.TrimSpace(h))] {
			continue
		}
		if !isTextColumn(records, h) {
			continue
		}
		for _, v := range sampleValues(records, h, nameSampleSize) {
			if len(strings.Fields(v)) >= 2 {
				return h, nil
			}
		}
	}

	return "", &ConfigurationError{
		Field:  FieldEmployeeName,
		Reason: "no header mentions an employee and no column holds multi-word names",
		Err:    ErrEmployeeNameNotFound,
	}
}

// BuildFieldMapping resolves every canonical field against the headers.
// Only the employee name is mandatory.
func BuildFieldMapping(headers []string, records []map[string]string) (FieldMapping, error) {
	nameCol, err := ResolveEmployeeName(headers, records)
	if err != nil {
		return FieldMapping{}, err
	}

	cols := map[Field]string{FieldEmployeeName: nameCol}
	for _, spec := range FieldSpecs {
		if col, ok := spec.resolve(headers); ok {
			cols[spec.Field] = col
		}
	}
	return NewFieldMapping(cols), nil
}

func containsAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// sampleValues returns up to n non-empty values of column h in row order.
func sampleValues(records []map[string]string, h string, n int) []string {
	var out []string
	for _, rec := range records {
		v := strings.TrimSpace(rec[h])
		if v == "" {
			continue
		}
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}

// isTextColumn reports whether a column holds at least one non-numeric
// value. All-empty and all-numeric columns are not text.
func isTextColumn(records []map[string]string, h string) bool {
	for _, rec := range records {
		v := strings.TrimSpace(rec[h])
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return true
		}
	}
	return false
}
