package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractflow/pkg/schema"
)

var fixedNow = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

func TestDecideProgression(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		active    string
		markers   stageMarkers
		want      Progression
		wantStage Stage
		wantLabel string
		wantPS    ProbationStatus
	}{
		{"probation third", "Probation", "Active", stageMarkers{second: true, third: true}, ProgressionProbationExtendedThird, StageProbationToThird, "Probation Diperpanjang ke Kontrak ke-3", StatusDiperpanjang},
		{"probation second", "Probation", "", stageMarkers{second: true}, ProgressionProbationExtendedSecond, StageProbationToSecond, "Probation Diperpanjang ke Kontrak ke-2", StatusDiperpanjang},
		{"probation generic extension", "Probation", "", stageMarkers{extension: true}, ProgressionProbationExtended, StageProbationToContract, "Probation Diperpanjang ke Kontrak", StatusDiperpanjang},
		{"probation failed", "Probation", "Resign", stageMarkers{}, ProgressionProbationFailed, StageProbationFailed, "Gagal Probation", StatusTidakLulus},
		{"permanent after third", "Permanent", "Active", stageMarkers{third: true}, ProgressionPermanentAfterContract, StageThirdToPermanent, "Permanen Setelah Kontrak", StatusLulus},
		{"permanent after second", "Permanent", "Active", stageMarkers{second: true}, ProgressionPermanentAfterContract, StageSecondToPermanent, "Permanen Setelah Kontrak", StatusLulus},
		{"permanent direct", "Permanent", "Active", stageMarkers{}, ProgressionPermanentDirect, StageDirectPermanent, "Langsung Permanen", StatusLulus},
		{"contract active third", "Contract", "Active", stageMarkers{second: true, third: true}, ProgressionContractThirdActive, StageThirdActive, "Probation Diperpanjang → Kontrak ke-3 Aktif", StatusLulus},
		{"contract active second", "Contract", "Active", stageMarkers{second: true}, ProgressionContractSecondActive, StageSecondActive, "Probation Diperpanjang → Kontrak ke-2 Aktif", StatusLulus},
		{"contract active first", "Contract", "Active", stageMarkers{}, ProgressionContractFirstActive, StageFirstActive, "Probation → Kontrak ke-1 Aktif", StatusLulus},
		{"contract resign third", "Contract", "Resign", stageMarkers{third: true}, ProgressionContractThirdResigned, StageThirdResigned, "Probation → Kontrak ke-3 (Resign)", StatusLulus},
		{"contract resign second", "Contract", "Resign", stageMarkers{second: true}, ProgressionContractSecondResigned, StageSecondResigned, "Probation → Kontrak ke-2 (Resign)", StatusLulus},
		{"contract resign none", "Contract", "Resign", stageMarkers{}, ProgressionContractPermanentResigned, StagePermanentResigned, "Probation → Kontrak-Permanent (Resign)", StatusLulus},
		{"contract unclear", "Contract", "On Leave", stageMarkers{second: true}, ProgressionContractUnclear, StageUnclear, "Kontrak Status Tidak Jelas", StatusLulus},
		{"case and whitespace", "  contract ", " ACTIVE", stageMarkers{}, ProgressionContractFirstActive, StageFirstActive, "Probation → Kontrak ke-1 Aktif", StatusLulus},
		{"unknown status", "Intern", "Active", stageMarkers{third: true}, ProgressionUnknown, StageUnknown, "Unknown", StatusUnknown},
		{"blank status", "", "", stageMarkers{}, ProgressionUnknown, StageUnknown, "Unknown", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stage := decideProgression(tt.status, tt.active, tt.markers)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStage, stage)
			assert.Equal(t, tt.wantLabel, got.String())
			assert.Equal(t, tt.wantPS, got.Outcome())
		})
	}
}

func TestClassify(t *testing.T) {
	t.Run("contract active with second contract", func(t *testing.T) {
		rec := schema.EmployeeRecord{
			StatusWorking: "Contract",
			ActiveStatus:  "Active",
			Contract2nd:   "01-Mar-22",
			Contract3rd:   "-",
			JoinDate:      "01-Jan-22",
		}
		c := Classify(rec, fixedNow)
		assert.Equal(t, "Probation Diperpanjang → Kontrak ke-2 Aktif", c.Progression.String())
		assert.Equal(t, StatusLulus, c.ProbationStatus)
	})

	t.Run("direct permanent", func(t *testing.T) {
		rec := schema.EmployeeRecord{StatusWorking: "Permanent", ActiveStatus: "Active", Contract2nd: "nan", Contract3rd: "None"}
		c := Classify(rec, fixedNow)
		assert.Equal(t, "Langsung Permanen", c.Progression.String())
		assert.Equal(t, StatusLulus, c.ProbationStatus)
	})

	t.Run("resigned duration uses resign date", func(t *testing.T) {
		rec := schema.EmployeeRecord{
			StatusWorking: "Contract",
			ActiveStatus:  "Resign",
			JoinDate:      "01-Jan-20",
			ResignDate:    "01-Jul-21",
		}
		c := Classify(rec, fixedNow)
		assert.InDelta(t, 15.0, c.DurationMonths, 0.5)
		assert.Equal(t, DurationFromDates, c.DurationSource)
		assert.Equal(t, DurationOutstanding, c.DurationCategory)
		assert.Equal(t, ExtensionLong, c.ExtensionRange)
	})

	t.Run("failed probation has zero duration", func(t *testing.T) {
		rec := schema.EmployeeRecord{
			StatusWorking:  "Probation",
			ActiveStatus:   "Resign",
			JoinDate:       "01-Jan-20",
			ResignDate:     "01-Jul-21",
			YearsOfService: "3,5",
		}
		c := Classify(rec, fixedNow)
		assert.Equal(t, StatusTidakLulus, c.ProbationStatus)
		assert.Zero(t, c.DurationMonths)
		assert.Equal(t, DurationNotApplicable, c.DurationSource)
		assert.Equal(t, DurationHighRisk, c.DurationCategory)
		assert.Equal(t, ExtensionVeryShort, c.ExtensionRange)
	})

	t.Run("education and match", func(t *testing.T) {
		rec := schema.EmployeeRecord{
			StatusWorking:  "Permanent",
			EducationLevel: "S1",
			Major:          "Teknik Informatika",
			Designation:    "Software Developer",
			RoleAtClient:   "Backend Developer",
		}
		c := Classify(rec, fixedNow)
		assert.Equal(t, EducationBachelor, c.Education)
		assert.True(t, c.IsBachelorOrHigher())
		assert.Equal(t, 4, c.JobEducationScore)
		assert.Equal(t, MatchVeryHigh, c.JobEducationMatch)
	})
}

func rosterOf(statuses ...string) []schema.EmployeeRecord {
	out := make([]schema.EmployeeRecord, len(statuses))
	for i, s := range statuses {
		out[i] = schema.EmployeeRecord{
			SourceRow:     i + 2,
			EmployeeName:  fmt.Sprintf("Employee %d", i),
			StatusWorking: s,
			ActiveStatus:  "Active",
			JoinDate:      "01-Jan-23",
		}
	}
	return out
}

func TestClassifierClassifyAll(t *testing.T) {
	t.Run("drops unknown statuses and preserves order", func(t *testing.T) {
		records := rosterOf("Contract", "Intern", "Permanent", "Probation", "intern", "Freelance", "Contract")
		c := &Classifier{Now: func() time.Time { return fixedNow }, Workers: 3}

		got, report, err := c.ClassifyAll(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, got, 4)

		assert.Equal(t, []int{2, 4, 5, 8}, []int{got[0].Record.SourceRow, got[1].Record.SourceRow, got[2].Record.SourceRow, got[3].Record.SourceRow})
		assert.Equal(t, 7, report.Input)
		assert.Equal(t, 4, report.Classified)
		assert.Equal(t, 3, report.DroppedUnknown)
		assert.Equal(t, map[string]int{"Intern": 1, "intern": 1, "Freelance": 1}, report.UnknownStatus)
		assert.Equal(t, []string{"Freelance", "Intern", "intern"}, report.UnknownStatusValues())

		for _, emp := range got {
			assert.NotEqual(t, StatusUnknown, emp.Classification.ProbationStatus)
			assert.GreaterOrEqual(t, emp.Classification.DurationMonths, 0.0)
		}
	})

	t.Run("matches sequential classification", func(t *testing.T) {
		records := make([]schema.EmployeeRecord, 0, 200)
		for i := 0; i < 50; i++ {
			records = append(records, rosterOf("Contract", "Permanent", "Probation", "Contract")...)
		}
		c := &Classifier{Now: func() time.Time { return fixedNow }}

		got, _, err := c.ClassifyAll(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, got, len(records))
		for i, emp := range got {
			assert.Equal(t, Classify(records[i], fixedNow), emp.Classification)
		}
	})

	t.Run("counts years of service fallback", func(t *testing.T) {
		records := []schema.EmployeeRecord{{StatusWorking: "Permanent", JoinDate: "soon", YearsOfService: "1,5"}}
		got, report, err := (&Classifier{Now: func() time.Time { return fixedNow }}).ClassifyAll(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 15.0, got[0].Classification.DurationMonths, 1e-9)
		assert.Equal(t, 1, report.FromYears)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := (&Classifier{}).ClassifyAll(ctx, rosterOf("Contract"))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty roster", func(t *testing.T) {
		got, report, err := (&Classifier{}).ClassifyAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, report.Classified)
	})
}
