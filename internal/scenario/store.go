// Package scenario keeps named snapshots of deal inputs and results for one
// session and projects them into a comparison table.
package scenario

import (
	"fmt"
	"sync"

	"rarorac-lab/internal/model"
)

// Scenario pairs one parameters snapshot with one results snapshot.
type Scenario struct {
	Name       string       `json:"name"`
	Parameters model.Record `json:"parameters"`
	Results    model.Record `json:"results"`
}

// Recorder is implemented by structured snapshots such as
// model.DealParameters and model.DealResult.
type Recorder interface {
	Record() model.Record
}

// Store is an in-memory scenario collection owned by a single session.
// Saving under an existing name replaces that entry in place. All methods
// are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	order   []string
	entries map[string]Scenario
}

func NewStore() *Store {
	return &Store{entries: make(map[string]Scenario)}
}

// Save inserts or replaces the scenario called name. parameters and results
// may each be nil, a Recorder, a model.Record, or a map[string]any; any other
// type is rejected with model.ErrInvalidArgument. Empty names are allowed.
func (s *Store) Save(name string, parameters, results any) error {
	params, err := toRecord(parameters)
	if err != nil {
		return fmt.Errorf("scenario %q parameters: %w", name, err)
	}
	res, err := toRecord(results)
	if err != nil {
		return fmt.Errorf("scenario %q results: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[name]; !exists {
		s.order = append(s.order, name)
	}
	s.entries[name] = Scenario{Name: name, Parameters: params, Results: res}
	return nil
}

// Clear removes every scenario.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = make(map[string]Scenario)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) Get(name string) (Scenario, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.entries[name]
	return sc, ok
}

// Scenarios returns a copy of all scenarios in first-save order.
func (s *Store) Scenarios() []Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Scenario, 0, len(s.order))
	for _, name := range s.order {
		sc := s.entries[name]
		out = append(out, Scenario{
			Name:       sc.Name,
			Parameters: sc.Parameters.Clone(),
			Results:    sc.Results.Clone(),
		})
	}
	return out
}

// Restore replaces the store contents with scenarios, keeping their order.
// Later duplicates win, matching Save.
func (s *Store) Restore(scenarios []Scenario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.entries = make(map[string]Scenario, len(scenarios))
	for _, sc := range scenarios {
		if _, exists := s.entries[sc.Name]; !exists {
			s.order = append(s.order, sc.Name)
		}
		s.entries[sc.Name] = sc
	}
}

// Compare projects every scenario into one table row. It never recomputes
// results.
func (s *Store) Compare() Table {
	return BuildTable(s.Scenarios())
}

func toRecord(v any) (model.Record, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *model.DealParameters:
		if x == nil {
			return nil, nil
		}
		return x.Record(), nil
	case *model.DealResult:
		if x == nil {
			return nil, nil
		}
		return x.Record(), nil
	case model.Record:
		return x.Clone(), nil
	case Recorder:
		return x.Record(), nil
	case map[string]any:
		return model.RecordFromMap(x), nil
	default:
		return nil, fmt.Errorf("%w: unsupported snapshot type %T", model.ErrInvalidArgument, v)
	}
}
