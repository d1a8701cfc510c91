package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"contractflow/pkg/engine"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// SupportedFormats lists every format Export understands.
var SupportedFormats = []string{FormatCSV, FormatXLSX, FormatYAML, FormatJSON}

// Output file names inside the export directory.
const (
	DatasetCSVName     = "contract_analysis.csv"
	WorkbookName       = "contract_analysis.xlsx"
	SummaryYAMLName    = "summary.yaml"
	PopulationJSONName = "population.json"
)

const (
	employeesSheet  = "Employees"
	statisticsSheet = "Statistics"
)

// utf8BOM lets spreadsheet tools detect UTF-8 in the CSV export.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns is the header of the cleaned dataset.
var Columns = []string{
	"Employee_Name", "Join_Date", "Resign_Date", "Education_Level", "Major",
	"Designation", "Role_At_Client", "Status_Working", "Active_Status",
	"probation_status", "contract_progression", "contract_stage",
	"contract_duration_months", "education_category", "is_bachelor_or_higher",
	"duration_category", "extension_range", "job_education_match",
}

// Row renders one employee in Columns order.
func Row(emp engine.ClassifiedEmployee) []string {
	r, c := emp.Record, emp.Classification
	return []string{
		r.EmployeeName, r.JoinDate, r.ResignDate, r.EducationLevel, r.Major,
		r.Designation, r.RoleAtClient, r.StatusWorking, r.ActiveStatus,
		string(c.ProbationStatus), c.Progression.String(), c.Stage.String(),
		strconv.FormatFloat(c.DurationMonths, 'f', 2, 64), string(c.Education),
		strconv.FormatBool(c.IsBachelorOrHigher()),
		string(c.DurationCategory), string(c.ExtensionRange), string(c.JobEducationMatch),
	}
}

// WriteCSV writes the cleaned dataset as comma-separated UTF-8 with a BOM.
func WriteCSV(w io.Writer, employees []engine.ClassifiedEmployee) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, emp := range employees {
		if err := cw.Write(Row(emp)); err != nil {
			return fmt.Errorf("write csv row %d: %w", emp.Record.SourceRow, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with the cleaned dataset on one sheet and the
// key statistics on another.
func WriteXLSX(w io.Writer, employees []engine.ClassifiedEmployee, summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(employeesSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw := &sheetWriter{f: f, sheet: employeesSheet}
	for i, h := range Columns {
		sw.set(i+1, 1, h)
	}
	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return fmt.Errorf("last column: %w", err)
	}
	sw.style("A1", lastCol+"1", headerStyle)
	sw.width("A", lastCol, 22)

	for i, emp := range employees {
		row := i + 2
		for j, v := range Row(emp) {
			sw.set(j+1, row, v)
		}
		// Numeric cells so the sheet can be charted directly.
		sw.set(13, row, emp.Classification.DurationMonths)
		sw.set(15, row, emp.Classification.IsBachelorOrHigher())
	}
	if sw.err != nil {
		return fmt.Errorf("write %s sheet: %w", employeesSheet, sw.err)
	}

	if _, err := f.NewSheet(statisticsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeStatistics(f, summary, headerStyle); err != nil {
		return fmt.Errorf("write %s sheet: %w", statisticsSheet, err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// sheetWriter keeps the first excelize error and skips later calls.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col, row int, value any) {
	if w.err != nil {
		return
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(w.sheet, name, value)
}

func (w *sheetWriter) style(from, to string, style int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, style)
	}
}

func (w *sheetWriter) width(startCol, endCol string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, startCol, endCol, width)
	}
}

func writeStatistics(f *excelize.File, s Summary, headerStyle int) error {
	sw := &sheetWriter{f: f, sheet: statisticsSheet}
	sw.width("A", "A", 44)
	sw.width("B", "B", 16)

	row := 1
	put := func(label string, value any) {
		sw.set(1, row, label)
		sw.set(2, row, value)
		row++
	}
	heading := func(title string) {
		if row > 1 {
			row++
		}
		sw.set(1, row, title)
		sw.style(cell(1, row), cell(2, row), headerStyle)
		row++
	}

	heading("Key statistics")
	put("Total analysed", s.TotalAnalysed)
	put("Passed or extended", s.PassedOrExtended)
	put("Probation pass rate (%)", s.ProbationPassRate)
	put("Permanent conversion rate (%)", s.PermanentRate)
	put("Turnover rate (%)", s.TurnoverRate)
	put("Bachelor or higher rate (%)", s.BachelorRate)
	put("Outstanding rate (%)", s.OutstandingRate)
	put("High risk rate (%)", s.HighRiskRate)
	put("Average duration (months)", s.Duration.Mean)
	put("Median duration (months)", s.Duration.Median)
	put("Total resign", s.Resign.Total)
	put("Average resign duration (months)", s.Resign.AverageDuration)
	put("Early resign (≤6 months)", s.Resign.EarlyResign)

	heading("Success rate by duration window (%)")
	for _, w := range s.SuccessByWindow {
		put(w.Window, w.Rate)
	}

	counts := []struct {
		title string
		m     map[string]int
	}{
		{"Probation status", s.ByProbationStatus},
		{"Contract progression", s.ByProgression},
		{"Contract stage", s.ByStage},
		{"Education category", s.ByEducation},
		{"Duration category", s.ByDuration},
		{"Extension range", s.ByExtensionRange},
		{"Job-education match", s.ByJobMatch},
	}
	for _, c := range counts {
		heading(c.title)
		for _, k := range sortedKeys(c.m) {
			put(k, c.m[k])
		}
	}
	return sw.err
}

// WriteSummaryYAML writes the key statistics as YAML.
func WriteSummaryYAML(w io.Writer, summary Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("write summary yaml: %w", err)
	}
	return enc.Close()
}

// WritePopulationJSON writes the classified population in the engine's
// serialized form.
func WritePopulationJSON(w io.Writer, pop *engine.Population) error {
	data, err := engine.SerializePopulation(pop)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Export writes the requested formats into dir, creating it if needed, and
// returns the written paths in format order.
func Export(dir string, formats []string, pop *engine.Population, summary Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		var (
			name  string
			write func(io.Writer) error
		)
		switch format {
		case FormatCSV:
			name = DatasetCSVName
			write = func(w io.Writer) error { return WriteCSV(w, pop.Employees) }
		case FormatXLSX:
			name = WorkbookName
			write = func(w io.Writer) error { return WriteXLSX(w, pop.Employees, summary) }
		case FormatYAML:
			name = SummaryYAMLName
			write = func(w io.Writer) error { return WriteSummaryYAML(w, summary) }
		case FormatJSON:
			name = PopulationJSONName
			write = func(w io.Writer) error { return WritePopulationJSON(w, pop) }
		default:
			return written, fmt.Errorf("unsupported export format %q", format)
		}

		path := filepath.Join(dir, name)
		if err := writeFile(path, write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
