package engine

import (
	"encoding/json"
	"fmt"
)

// serializedPopulation is the JSON form of a Population: the employee list
// plus stats. Indexes are rebuilt on load.
type serializedPopulation struct {
	Employees []ClassifiedEmployee `json:"employees"`
	Stats     PopulationStats      `json:"stats"`
}

// SerializePopulation encodes the population as indented JSON.
func SerializePopulation(pop *Population) ([]byte, error) {
	employees := pop.Employees
	if employees == nil {
		employees = []ClassifiedEmployee{}
	}
	data, err := json.MarshalIndent(serializedPopulation{Employees: employees, Stats: pop.Stats}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize population: %w", err)
	}
	return data, nil
}

// DeserializePopulation reconstructs a Population, rebuilding the indexes
// from the employee list.
func DeserializePopulation(data []byte) (*Population, error) {
	var sp serializedPopulation
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("failed to deserialize population: %w", err)
	}
	pop := BuildPopulation(sp.Employees)
	if pop.Stats != sp.Stats {
		return nil, fmt.Errorf("population stats mismatch: stored %+v, rebuilt %+v", sp.Stats, pop.Stats)
	}
	return pop, nil
}
