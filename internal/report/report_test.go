package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rarorac-lab/internal/engine"
	"rarorac-lab/internal/model"
	"rarorac-lab/internal/scenario"
)

func TestCurrencyAndPercent(t *testing.T) {
	assert.Equal(t, "$60000.00", Currency(60000))
	assert.Equal(t, "$-10000.00", Currency(-10000))
	assert.Equal(t, "38.00%", Percent(0.38))
	assert.Equal(t, "-0.50%", Percent(-0.005))
	assert.Equal(t, "Infinity", Percent(math.Inf(1)))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "$1000000.00", Cell("loan_amount", 1_000_000.0))
	assert.Equal(t, "5.00%", Cell("interest_rate", 0.05))
	assert.Equal(t, "Meets Hurdle Rate", Cell("deal_outcome", model.OutcomeMeetsHurdle))
	assert.Equal(t, "-", Cell("anything", nil))
	assert.Equal(t, "1.5", Cell("custom", 1.5))
}

func TestWriteComparisonCSV(t *testing.T) {
	s := scenario.NewStore()
	p := model.DefaultDealParameters()
	p.ULCapitalFactor = 0
	require.NoError(t, s.Save("free capital", p, engine.Compute(p)))

	var buf bytes.Buffer
	require.NoError(t, WriteComparisonCSV(&buf, s.Compare()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "scenario_name", rows[0][0])
	assert.Equal(t, "rarorac", rows[0][len(rows[0])-1])
	assert.Equal(t, "free capital", rows[1][0])
	assert.Equal(t, "Infinity", rows[1][len(rows[1])-1])
	assert.Equal(t, "1000000.000000", rows[1][1])
}

func TestWritePointsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePointsCSV(&buf, []model.PortfolioPoint{{RiskScore: 0.02, ReturnRatio: 0.15}}))
	assert.Equal(t, "index,risk_score,return_ratio\n0,0.020000,0.150000\n", buf.String())
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, scenario.NewStore().Compare()))
	assert.Equal(t, "No scenarios saved.\n", buf.String())

	s := scenario.NewStore()
	p := model.DefaultDealParameters()
	require.NoError(t, s.Save("base", p, engine.Compute(p)))
	buf.Reset()
	require.NoError(t, WriteTable(&buf, s.Compare()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Scenario Name"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[0]), "RARORAC"))
	assert.Contains(t, lines[1], "$1000000.00")
}
