package scenario

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rarorac-lab/internal/model"
)

const (
	KeyScenarioName = "scenario_name"
	KeyDealOutcome  = "deal_outcome"
	KeyRARORAC      = "rarorac"
)

// Column is one comparison column. Key is the programmatic field name and
// Label its display form.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Table is the flat comparison of saved scenarios. Rows are aligned with
// Columns; a nil cell means the scenario has no such field.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Value returns the cell at row for the column named key.
func (t Table) Value(row int, key string) (any, bool) {
	if row < 0 || row >= len(t.Rows) {
		return nil, false
	}
	for i, c := range t.Columns {
		if c.Key == key {
			return t.Rows[row][i], true
		}
	}
	return nil, false
}

// Keys returns the column keys in order.
func (t Table) Keys() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Key
	}
	return out
}

// BuildTable lays out scenarios as rows over the union of their parameter
// and result keys. Columns are scenario_name, then keys in first-seen order,
// then deal_outcome and rarorac last. When a key appears in both snapshots
// of a scenario, the parameter value wins.
func BuildTable(scenarios []Scenario) Table {
	if len(scenarios) == 0 {
		return Table{Columns: []Column{}, Rows: [][]any{}}
	}

	seen := map[string]bool{}
	var keys []string
	var hasOutcome, hasRatio bool
	add := func(k string) {
		if seen[k] {
			return
		}
		seen[k] = true
		switch k {
		case KeyDealOutcome:
			hasOutcome = true
		case KeyRARORAC:
			hasRatio = true
		case KeyScenarioName:
			// scenario_name is always the first column.
		default:
			keys = append(keys, k)
		}
	}
	for _, sc := range scenarios {
		for _, f := range sc.Parameters {
			add(f.Key)
		}
		for _, f := range sc.Results {
			add(f.Key)
		}
	}
	if hasOutcome {
		keys = append(keys, KeyDealOutcome)
	}
	if hasRatio {
		keys = append(keys, KeyRARORAC)
	}

	caser := cases.Title(language.English)
	cols := make([]Column, 0, len(keys)+1)
	cols = append(cols, Column{Key: KeyScenarioName, Label: label(caser, KeyScenarioName)})
	for _, k := range keys {
		cols = append(cols, Column{Key: k, Label: label(caser, k)})
	}

	rows := make([][]any, 0, len(scenarios))
	for _, sc := range scenarios {
		row := make([]any, len(cols))
		row[0] = sc.Name
		for i, k := range keys {
			row[i+1] = lookup(sc, k)
		}
		rows = append(rows, row)
	}
	return Table{Columns: cols, Rows: rows}
}

func lookup(sc Scenario, key string) any {
	if v, ok := sc.Parameters.Get(key); ok {
		return v
	}
	if v, ok := sc.Results.Get(key); ok {
		return v
	}
	return nil
}

var acronyms = map[string]string{
	"Rarorac": "RARORAC",
	"Ul":      "UL",
}

// Label turns a field key into its display form: "ul_capital_factor"
// becomes "UL Capital Factor".
func Label(key string) string {
	return label(cases.Title(language.English), key)
}

func label(caser cases.Caser, key string) string {
	words := strings.Fields(caser.String(strings.ReplaceAll(key, "_", " ")))
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
		}
	}
	return strings.Join(words, " ")
}

// RecordFor returns row as a Record keyed by column key.
func (t Table) RecordFor(row int) model.Record {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	out := make(model.Record, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = model.Field{Key: c.Key, Value: t.Rows[row][i]}
	}
	return out
}
