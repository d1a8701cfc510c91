package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"contractflow/pkg/engine"
)

// Summary holds the key statistics of one analysis run. Rates are
// percentages rounded to two decimals.
type Summary struct {
	RunID       string    `json:"runId,omitempty" yaml:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generated_at"`

	TotalAnalysed     int     `json:"totalAnalysed" yaml:"total_analysed"`
	PassedOrExtended  int     `json:"passedOrExtended" yaml:"passed_or_extended"`
	ProbationPassRate float64 `json:"probationPassRate" yaml:"probation_pass_rate"`
	PermanentCount    int     `json:"permanentCount" yaml:"permanent_count"`
	PermanentRate     float64 `json:"permanentRate" yaml:"permanent_rate"`
	TurnoverCount     int     `json:"turnoverCount" yaml:"turnover_count"`
	TurnoverRate      float64 `json:"turnoverRate" yaml:"turnover_rate"`
	BachelorCount     int     `json:"bachelorCount" yaml:"bachelor_count"`
	BachelorRate      float64 `json:"bachelorRate" yaml:"bachelor_rate"`
	OutstandingCount  int     `json:"outstandingCount" yaml:"outstanding_count"`
	OutstandingRate   float64 `json:"outstandingRate" yaml:"outstanding_rate"`
	HighRiskCount     int     `json:"highRiskCount" yaml:"high_risk_count"`
	HighRiskRate      float64 `json:"highRiskRate" yaml:"high_risk_rate"`

	Duration        DurationStats `json:"duration" yaml:"duration"`
	Resign          ResignStats   `json:"resign" yaml:"resign"`
	SuccessByWindow []WindowRate  `json:"successByWindow" yaml:"success_by_window"`

	ByProbationStatus map[string]int `json:"byProbationStatus" yaml:"by_probation_status"`
	ByProgression     map[string]int `json:"byProgression" yaml:"by_progression"`
	ByStage           map[string]int `json:"byStage" yaml:"by_stage"`
	ByEducation       map[string]int `json:"byEducation" yaml:"by_education"`
	ByDuration        map[string]int `json:"byDuration" yaml:"by_duration"`
	ByExtensionRange  map[string]int `json:"byExtensionRange" yaml:"by_extension_range"`
	ByJobMatch        map[string]int `json:"byJobMatch" yaml:"by_job_match"`

	ProbationByEducation         []GroupStats `json:"probationByEducation" yaml:"probation_by_education"`
	ProgressionByEducation       []GroupStats `json:"progressionByEducation" yaml:"progression_by_education"`
	DurationByEducationProbation []GroupStats `json:"durationByEducationProbation" yaml:"duration_by_education_probation"`
}

// DurationStats describes a set of contract durations in months.
type DurationStats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Median float64 `json:"median" yaml:"median"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
}

// ResignStats covers every resigned journey.
type ResignStats struct {
	Total           int     `json:"total" yaml:"total"`
	AverageDuration float64 `json:"averageDuration" yaml:"average_duration"`
	EarlyResign     int     `json:"earlyResign" yaml:"early_resign"`
}

// WindowRate is the share of journeys in a duration window that are still
// active or became permanent.
type WindowRate struct {
	Window     string  `json:"window" yaml:"window"`
	Total      int     `json:"total" yaml:"total"`
	Successful int     `json:"successful" yaml:"successful"`
	Rate       float64 `json:"rate" yaml:"rate"`
}

// GroupStats aggregates one group of a cross tabulation. Duration statistics
// only cover members who passed or were extended.
type GroupStats struct {
	Keys     []string      `json:"keys" yaml:"keys"`
	Members  int           `json:"members" yaml:"members"`
	Duration DurationStats `json:"duration" yaml:"duration"`
}

// earlyResignMonths is the upper bound of an early resignation.
const earlyResignMonths = 6

type durationWindow struct {
	label    string
	low, top float64
}

var successWindows = []durationWindow{
	{label: "≤3 bulan", low: math.Inf(-1), top: 3},
	{label: "3-6 bulan", low: 3, top: 6},
	{label: "6-12 bulan", low: 6, top: 12},
}

// Summarize computes the key statistics of a classified population.
func Summarize(pop *engine.Population, now time.Time) Summary {
	s := Summary{
		GeneratedAt:       now,
		TotalAnalysed:     len(pop.Employees),
		ByProbationStatus: make(map[string]int),
		ByProgression:     make(map[string]int),
		ByStage:           make(map[string]int),
		ByEducation:       make(map[string]int),
		ByDuration:        make(map[string]int),
		ByExtensionRange:  make(map[string]int),
		ByJobMatch:        make(map[string]int),
	}

	var durations, resignDurations []float64
	for _, emp := range pop.Employees {
		c := emp.Classification
		s.ByProbationStatus[string(c.ProbationStatus)]++
		s.ByProgression[c.Progression.String()]++
		s.ByStage[c.Stage.String()]++
		s.ByEducation[string(c.Education)]++
		s.ByJobMatch[string(c.JobEducationMatch)]++

		if c.Progression.Resigned() {
			resignDurations = append(resignDurations, c.DurationMonths)
			if c.DurationMonths <= earlyResignMonths {
				s.Resign.EarlyResign++
			}
		}

		if !c.ProbationStatus.Passed() {
			continue
		}
		s.PassedOrExtended++
		s.ByDuration[string(c.DurationCategory)]++
		s.ByExtensionRange[string(c.ExtensionRange)]++

		if c.Progression.Permanent() {
			s.PermanentCount++
		}
		if c.Progression.Resigned() {
			s.TurnoverCount++
		}
		if c.IsBachelorOrHigher() {
			s.BachelorCount++
		}
		switch c.DurationCategory {
		case engine.DurationOutstanding:
			s.OutstandingCount++
		case engine.DurationHighRisk:
			s.HighRiskCount++
		}
		if c.DurationMonths > 0 {
			durations = append(durations, c.DurationMonths)
		}
	}

	s.ProbationPassRate = percent(s.PassedOrExtended, s.TotalAnalysed)
	s.PermanentRate = percent(s.PermanentCount, s.PassedOrExtended)
	s.TurnoverRate = percent(s.TurnoverCount, s.PassedOrExtended)
	s.BachelorRate = percent(s.BachelorCount, s.PassedOrExtended)
	s.OutstandingRate = percent(s.OutstandingCount, s.PassedOrExtended)
	s.HighRiskRate = percent(s.HighRiskCount, s.PassedOrExtended)

	s.Duration = describe(durations)
	s.Resign.Total = len(resignDurations)
	s.Resign.AverageDuration = describe(resignDurations).Mean

	s.SuccessByWindow = successRates(pop)
	s.ProbationByEducation = groupBy(pop, func(c engine.Classification) []string {
		return []string{string(c.ProbationStatus), string(c.Education)}
	})
	s.ProgressionByEducation = groupBy(pop, func(c engine.Classification) []string {
		return []string{c.Progression.String(), string(c.Education)}
	})
	s.DurationByEducationProbation = groupBy(pop, func(c engine.Classification) []string {
		if !c.ProbationStatus.Passed() {
			return nil
		}
		return []string{string(c.DurationCategory), string(c.Education), string(c.ProbationStatus)}
	})

	return s
}

// successRates counts, per window, the passed journeys whose progression is
// still running or ended permanent.
func successRates(pop *engine.Population) []WindowRate {
	rates := make([]WindowRate, len(successWindows))
	for i, w := range successWindows {
		rates[i].Window = w.label
	}

	for _, emp := range pop.Employees {
		c := emp.Classification
		if !c.ProbationStatus.Passed() {
			continue
		}
		for i, w := range successWindows {
			if c.DurationMonths > w.low && c.DurationMonths <= w.top {
				rates[i].Total++
				if c.Progression.Active() || c.Progression.Permanent() {
					rates[i].Successful++
				}
				break
			}
		}
	}

	for i := range rates {
		rates[i].Rate = percent(rates[i].Successful, rates[i].Total)
	}
	return rates
}

// groupBy aggregates the population by the keys returned for each member.
// A nil key set leaves the member out. Groups are sorted by key.
func groupBy(pop *engine.Population, keysOf func(engine.Classification) []string) []GroupStats {
	type group struct {
		keys      []string
		members   int
		durations []float64
	}
	groups := make(map[string]*group)

	for _, emp := range pop.Employees {
		c := emp.Classification
		keys := keysOf(c)
		if keys == nil {
			continue
		}
		id := strings.Join(keys, "\x00")
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
		}
		g.members++
		if c.ProbationStatus.Passed() {
			g.durations = append(g.durations, c.DurationMonths)
		}
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]GroupStats, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		out = append(out, GroupStats{Keys: g.keys, Members: g.members, Duration: describe(g.durations)})
	}
	return out
}

func describe(values []float64) DurationStats {
	if len(values) == 0 {
		return DurationStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return DurationStats{
		Count:  n,
		Mean:   round2(sum / float64(n)),
		Median: round2(median),
		Min:    round2(sorted[0]),
		Max:    round2(sorted[n-1]),
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(n) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
