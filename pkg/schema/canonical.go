package schema

// Field is a canonical roster field name.
type Field string

const (
	FieldEmployeeName       Field = "employee_name"
	FieldJoinDate           Field = "join_date"
	FieldResignDate         Field = "resign_date"
	FieldPermanentDate      Field = "permanent_date"
	FieldStatusWorking      Field = "status_working"
	FieldActiveStatus       Field = "active_status"
	FieldEducationLevel     Field = "education_level"
	FieldMajor              Field = "major"
	FieldDesignation        Field = "designation"
	FieldRoleInternal       Field = "role_internal"
	FieldRoleAtClient       Field = "role_at_client"
	FieldProbationExpired   Field = "probation_expired"
	FieldContract2nd        Field = "contract_2nd"
	FieldContract3rd        Field = "contract_3rd"
	FieldProbationExtension Field = "probation_extension"
	FieldYearsOfService     Field = "years_of_service"
)

// EmployeeRecord is one roster row projected onto the canonical fields.
// Values are raw source text; absent columns yield empty strings.
type EmployeeRecord struct {
	SourceRow          int    `json:"sourceRow"`
	EmployeeName       string `json:"employeeName"`
	JoinDate           string `json:"joinDate"`
	ResignDate         string `json:"resignDate"`
	PermanentDate      string `json:"permanentDate"`
	StatusWorking      string `json:"statusWorking"`
	ActiveStatus       string `json:"activeStatus"`
	EducationLevel     string `json:"educationLevel"`
	Major              string `json:"major"`
	Designation        string `json:"designation"`
	RoleInternal       string `json:"roleInternal"`
	RoleAtClient       string `json:"roleAtClient"`
	ProbationExpired   string `json:"probationExpired"`
	Contract2nd        string `json:"contract2nd"`
	Contract3rd        string `json:"contract3rd"`
	ProbationExtension string `json:"probationExtension"`
	YearsOfService     string `json:"yearsOfService"`
}

// FieldMapping maps canonical fields to the source column that carries them.
// It is built once per load and is read-only afterwards.
type FieldMapping struct {
	columns map[Field]string
}

// MappingEntry is one resolved (or unresolved) field, used for reporting.
type MappingEntry struct {
	Field  Field  `json:"field" yaml:"field"`
	Column string `json:"column" yaml:"column"`
	Found  bool   `json:"found" yaml:"found"`
}

// NewFieldMapping copies cols into a FieldMapping. Empty column names are
// treated as "not found".
func NewFieldMapping(cols map[Field]string) FieldMapping {
	m := FieldMapping{columns: make(map[Field]string, len(cols))}
	for f, c := range cols {
		if c != "" {
			m.columns[f] = c
		}
	}
	return m
}

// Column returns the source column for f.
func (m FieldMapping) Column(f Field) (string, bool) {
	c, ok := m.columns[f]
	return c, ok
}

// Has reports whether f was resolved.
func (m FieldMapping) Has(f Field) bool {
	_, ok := m.columns[f]
	return ok
}

// Value reads f from a raw source row, returning "" when the field has no
// column.
func (m FieldMapping) Value(row map[string]string, f Field) string {
	c, ok := m.columns[f]
	if !ok {
		return ""
	}
	return row[c]
}

// Entries lists every field of FieldSpecs in declaration order, employee
// name first.
func (m FieldMapping) Entries() []MappingEntry {
	entries := make([]MappingEntry, 0, len(FieldSpecs)+1)
	fields := append([]Field{FieldEmployeeName}, specFields()...)
	for _, f := range fields {
		c, ok := m.columns[f]
		entries = append(entries, MappingEntry{Field: f, Column: c, Found: ok})
	}
	return entries
}
