package engine

import (
	"contractflow/pkg/schema"
)

// Population indexes a classified roster by its categorical labels.
type Population struct {
	Employees     []ClassifiedEmployee
	ByStatus      map[ProbationStatus][]*ClassifiedEmployee
	ByProgression map[Progression][]*ClassifiedEmployee
	ByEducation   map[EducationCategory][]*ClassifiedEmployee
	Stats         PopulationStats
}

// PopulationStats are headline counts over the population.
type PopulationStats struct {
	Total        int `json:"total" yaml:"total"`
	Passed       int `json:"passed" yaml:"passed"`
	Failed       int `json:"failed" yaml:"failed"`
	Active       int `json:"active" yaml:"active"`
	Resigned     int `json:"resigned" yaml:"resigned"`
	Permanent    int `json:"permanent" yaml:"permanent"`
	WithDegree   int `json:"withDegree" yaml:"with_degree"`
	WithDuration int `json:"withDuration" yaml:"with_duration"`
}

// BuildPopulation indexes the employees. The slice is kept as given; index
// entries point into it.
func BuildPopulation(employees []ClassifiedEmployee) *Population {
	pop := &Population{
		Employees:     employees,
		ByStatus:      make(map[ProbationStatus][]*ClassifiedEmployee),
		ByProgression: make(map[Progression][]*ClassifiedEmployee),
		ByEducation:   make(map[EducationCategory][]*ClassifiedEmployee),
	}

	stats := PopulationStats{Total: len(employees)}
	for i := range employees {
		emp := &employees[i]
		c := emp.Classification

		pop.ByStatus[c.ProbationStatus] = append(pop.ByStatus[c.ProbationStatus], emp)
		pop.ByProgression[c.Progression] = append(pop.ByProgression[c.Progression], emp)
		pop.ByEducation[c.Education] = append(pop.ByEducation[c.Education], emp)

		if c.ProbationStatus.Passed() {
			stats.Passed++
			if c.IsBachelorOrHigher() {
				stats.WithDegree++
			}
			if c.DurationMonths > 0 {
				stats.WithDuration++
			}
		} else {
			stats.Failed++
		}
		switch {
		case c.Progression.Active():
			stats.Active++
		case c.Progression.Resigned():
			stats.Resigned++
		case c.Progression.Permanent():
			stats.Permanent++
		}
	}

	pop.Stats = stats
	return pop
}

// Passed returns employees who passed or were extended, in roster order.
func (p *Population) Passed() []*ClassifiedEmployee {
	var out []*ClassifiedEmployee
	for i := range p.Employees {
		if p.Employees[i].Classification.ProbationStatus.Passed() {
			out = append(out, &p.Employees[i])
		}
	}
	return out
}

// Records returns the underlying roster records in order.
func (p *Population) Records() []schema.EmployeeRecord {
	out := make([]schema.EmployeeRecord, len(p.Employees))
	for i, emp := range p.Employees {
		out[i] = emp.Record
	}
	return out
}
