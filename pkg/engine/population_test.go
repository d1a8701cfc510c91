package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractflow/pkg/schema"
)

func samplePopulation(t *testing.T) []ClassifiedEmployee {
	t.Helper()
	records := []schema.EmployeeRecord{
		{SourceRow: 2, EmployeeName: "Ayu", StatusWorking: "Contract", ActiveStatus: "Active", JoinDate: "01-Jan-23", EducationLevel: "S1"},
		{SourceRow: 3, EmployeeName: "Budi", StatusWorking: "Contract", ActiveStatus: "Resign", JoinDate: "01-Jan-22", ResignDate: "01-Jun-22", EducationLevel: "D3"},
		{SourceRow: 4, EmployeeName: "Citra", StatusWorking: "Permanent", ActiveStatus: "Active", JoinDate: "01-Jan-20", Contract2nd: "01-Jan-21", EducationLevel: "S2"},
		{SourceRow: 5, EmployeeName: "Dedi", StatusWorking: "Probation", ActiveStatus: "Resign", JoinDate: "01-Jan-24", EducationLevel: "SMA"},
		{SourceRow: 6, EmployeeName: "Eka", StatusWorking: "Probation", ActiveStatus: "Active", JoinDate: "01-Jan-23", Contract3rd: "01-Jan-24", EducationLevel: "S1"},
	}
	c := &Classifier{Now: func() time.Time { return fixedNow }, Workers: 2}
	out, _, err := c.ClassifyAll(context.Background(), records)
	require.NoError(t, err)
	return out
}

func TestBuildPopulation(t *testing.T) {
	pop := BuildPopulation(samplePopulation(t))

	want := PopulationStats{
		Total:        5,
		Passed:       4,
		Failed:       1,
		Active:       1,
		Resigned:     1,
		Permanent:    1,
		WithDegree:   3,
		WithDuration: 4,
	}
	if diff := cmp.Diff(want, pop.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, pop.ByStatus[StatusLulus], 3)
	assert.Len(t, pop.ByStatus[StatusDiperpanjang], 1)
	assert.Len(t, pop.ByStatus[StatusTidakLulus], 1)
	assert.Len(t, pop.ByProgression[ProgressionPermanentAfterContract], 1)
	assert.Len(t, pop.ByEducation[EducationBachelor], 2)

	passed := pop.Passed()
	require.Len(t, passed, 4)
	assert.Equal(t, "Ayu", passed[0].Record.EmployeeName)
	assert.Equal(t, "Eka", passed[3].Record.EmployeeName)
	assert.Len(t, pop.Records(), 5)
}

func TestPopulationSerializeRoundTrip(t *testing.T) {
	pop := BuildPopulation(samplePopulation(t))

	data, err := SerializePopulation(pop)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"contractProgression": "Probation → Kontrak ke-1 Aktif"`)

	back, err := DeserializePopulation(data)
	require.NoError(t, err)
	if diff := cmp.Diff(pop.Employees, back.Employees); diff != "" {
		t.Errorf("employees mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, pop.Stats, back.Stats)
}

func TestDeserializePopulationErrors(t *testing.T) {
	_, err := DeserializePopulation([]byte("{"))
	assert.Error(t, err)

	_, err = DeserializePopulation([]byte(`{"employees":[],"stats":{"total":3}}`))
	assert.ErrorContains(t, err, "stats mismatch")

	_, err = DeserializePopulation([]byte(`{"employees":[{"classification":{"contractProgression":"nope"}}]}`))
	assert.Error(t, err)
}

func TestSerializeEmptyPopulation(t *testing.T) {
	data, err := SerializePopulation(BuildPopulation(nil))
	require.NoError(t, err)

	back, err := DeserializePopulation(data)
	require.NoError(t, err)
	assert.Empty(t, back.Employees)
}

func TestCheckConsistency(t *testing.T) {
	t.Run("classifier output is consistent", func(t *testing.T) {
		assert.Empty(t, CheckConsistency(samplePopulation(t)))
	})

	t.Run("flags disagreeing labels", func(t *testing.T) {
		bad := []ClassifiedEmployee{
			{
				Record:         schema.EmployeeRecord{SourceRow: 7, EmployeeName: "X"},
				Classification: Classification{Progression: ProgressionContractFirstActive, Stage: StageFirstActive, ProbationStatus: StatusTidakLulus},
			},
			{
				Record:         schema.EmployeeRecord{SourceRow: 8, EmployeeName: "Y"},
				Classification: Classification{Progression: ProgressionProbationFailed, Stage: StageProbationFailed, ProbationStatus: StatusLulus, DurationMonths: 2},
			},
			{
				Record:         schema.EmployeeRecord{SourceRow: 9, EmployeeName: "Z"},
				Classification: Classification{},
			},
		}

		violations := CheckConsistency(bad)
		require.Len(t, violations, 4)
		assert.Equal(t, 7, violations[0].Row)
		assert.Contains(t, violations[0].Reason, "passed probation")
		assert.Equal(t, 8, violations[1].Row)
		assert.Contains(t, violations[1].Reason, "failed probation labelled")
		assert.Equal(t, 9, violations[2].Row)
		assert.Equal(t, "unclassified record in population", violations[2].Reason)
		assert.Equal(t, "missing contract stage", violations[3].Reason)
	})
}
