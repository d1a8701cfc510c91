package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"contractflow/pkg/schema"
)

// Working statuses and active statuses recognised by the state machine.
// Comparison is case-insensitive on the trimmed value.
const (
	WorkingProbation = "Probation"
	WorkingContract  = "Contract"
	WorkingPermanent = "Permanent"

	ActiveActive = "Active"
	ActiveResign = "Resign"
)

// DefaultWorkers is the classifier concurrency when none is configured.
const DefaultWorkers = 4

// Classification is everything derived for one eligible employee.
type Classification struct {
	ProbationStatus   ProbationStatus   `json:"probationStatus" yaml:"probation_status"`
	Progression       Progression       `json:"contractProgression" yaml:"contract_progression"`
	Stage             Stage             `json:"contractStage" yaml:"contract_stage"`
	DurationMonths    float64           `json:"contractDurationMonths" yaml:"contract_duration_months"`
	DurationSource    DurationSource    `json:"durationSource" yaml:"duration_source"`
	Education         EducationCategory `json:"educationCategory" yaml:"education_category"`
	DurationCategory  DurationCategory  `json:"durationCategory" yaml:"duration_category"`
	ExtensionRange    ExtensionRange    `json:"extensionRange" yaml:"extension_range"`
	JobEducationScore int               `json:"jobEducationScore" yaml:"job_education_score"`
	JobEducationMatch MatchCategory     `json:"jobEducationMatch" yaml:"job_education_match"`
}

// IsBachelorOrHigher reports a degree-holding education category.
func (c Classification) IsBachelorOrHigher() bool {
	return c.Education.BachelorOrHigher()
}

// ClassifiedEmployee pairs a roster record with its classification.
type ClassifiedEmployee struct {
	Record         schema.EmployeeRecord `json:"record"`
	Classification Classification        `json:"classification"`
}

// stageMarkers are the presence flags read from the contract columns.
type stageMarkers struct {
	extension bool
	second    bool
	third     bool
}

func markersOf(rec schema.EmployeeRecord) stageMarkers {
	return stageMarkers{
		extension: schema.IsPresent(rec.ProbationExtension),
		second:    schema.IsPresent(rec.Contract2nd),
		third:     schema.IsPresent(rec.Contract3rd),
	}
}

// decideProgression runs the probation/contract state machine. The first
// matching row wins; a 3rd contract marker outranks a 2nd. Unrecognised
// working statuses give ProgressionUnknown.
func decideProgression(statusWorking, activeStatus string, m stageMarkers) (Progression, Stage) {
	status := strings.TrimSpace(statusWorking)
	active := strings.TrimSpace(activeStatus)

	switch {
	case strings.EqualFold(status, WorkingProbation):
		switch {
		case m.third:
			return ProgressionProbationExtendedThird, StageProbationToThird
		case m.second:
			return ProgressionProbationExtendedSecond, StageProbationToSecond
		case m.extension:
			return ProgressionProbationExtended, StageProbationToContract
		default:
			return ProgressionProbationFailed, StageProbationFailed
		}

	case strings.EqualFold(status, WorkingPermanent):
		switch {
		case m.third:
			return ProgressionPermanentAfterContract, StageThirdToPermanent
		case m.second:
			return ProgressionPermanentAfterContract, StageSecondToPermanent
		default:
			return ProgressionPermanentDirect, StageDirectPermanent
		}

	case strings.EqualFold(status, WorkingContract):
		switch {
		case strings.EqualFold(active, ActiveActive):
			switch {
			case m.third:
				return ProgressionContractThirdActive, StageThirdActive
			case m.second:
				return ProgressionContractSecondActive, StageSecondActive
			default:
				return ProgressionContractFirstActive, StageFirstActive
			}
		case strings.EqualFold(active, ActiveResign):
			switch {
			case m.third:
				return ProgressionContractThirdResigned, StageThirdResigned
			case m.second:
				return ProgressionContractSecondResigned, StageSecondResigned
			default:
				return ProgressionContractPermanentResigned, StagePermanentResigned
			}
		default:
			return ProgressionContractUnclear, StageUnclear
		}
	}

	return ProgressionUnknown, StageUnknown
}

// Classify derives the full classification of one record. It is pure: the
// only external input is now, used as the end date of running contracts.
func Classify(rec schema.EmployeeRecord, now time.Time) Classification {
	progression, stage := decideProgression(rec.StatusWorking, rec.ActiveStatus, markersOf(rec))
	months, source := ContractDuration(rec, progression, now)
	score := JobEducationScore(rec)

	c := Classification{
		ProbationStatus:   progression.Outcome(),
		Progression:       progression,
		Stage:             stage,
		DurationMonths:    months,
		DurationSource:    source,
		DurationCategory:  CategorizeDuration(months),
		ExtensionRange:    CategorizeExtension(months),
		Education:         CategorizeEducation(rec.EducationLevel),
		JobEducationScore: score,
		JobEducationMatch: CategorizeMatch(score),
	}
	return c
}

// ClassificationReport counts what the batch classifier kept and dropped.
type ClassificationReport struct {
	Input          int            `json:"input" yaml:"input"`
	Classified     int            `json:"classified" yaml:"classified"`
	DroppedUnknown int            `json:"droppedUnknown" yaml:"dropped_unknown"`
	UnknownStatus  map[string]int `json:"unknownStatus,omitempty" yaml:"unknown_status,omitempty"`
	FromYears      int            `json:"durationFromYearsOfService" yaml:"duration_from_years_of_service"`
}

// UnknownStatusValues returns the distinct unrecognised working statuses,
// most frequent first.
func (r ClassificationReport) UnknownStatusValues() []string {
	values := make([]string, 0, len(r.UnknownStatus))
	for v := range r.UnknownStatus {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if r.UnknownStatus[values[i]] != r.UnknownStatus[values[j]] {
			return r.UnknownStatus[values[i]] > r.UnknownStatus[values[j]]
		}
		return values[i] < values[j]
	})
	return values
}

// Classifier classifies a population in parallel.
type Classifier struct {
	// Now supplies the reference date; time.Now when nil.
	Now func() time.Time
	// Workers bounds concurrency; DefaultWorkers when < 1.
	Workers int
}

// ClassifyAll classifies every record and drops those whose working status
// is unrecognised. Output order follows input order. The reference date is
// read once so every record shares it.
func (c *Classifier) ClassifyAll(ctx context.Context, records []schema.EmployeeRecord) ([]ClassifiedEmployee, ClassificationReport, error) {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	workers := c.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	results := make([]Classification, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range records {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Classify(records[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ClassificationReport{}, fmt.Errorf("classify roster: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, ClassificationReport{}, fmt.Errorf("classify roster: %w", err)
	}

	report := ClassificationReport{Input: len(records)}
	out := make([]ClassifiedEmployee, 0, len(records))
	for i, cl := range results {
		if cl.Progression == ProgressionUnknown {
			report.DroppedUnknown++
			if report.UnknownStatus == nil {
				report.UnknownStatus = make(map[string]int)
			}
			report.UnknownStatus[strings.TrimSpace(records[i].StatusWorking)]++
			continue
		}
		if cl.DurationSource == DurationFromYearsOfService {
			report.FromYears++
		}
		out = append(out, ClassifiedEmployee{Record: records[i], Classification: cl})
	}
	report.Classified = len(out)
	return out, report, nil
}
