package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rarorac-lab/internal/sampler"
	"rarorac-lab/internal/session"
)

const referenceDeal = `{
	"loan_amount": 1000000,
	"interest_rate": 0.05,
	"fees": 10000,
	"operating_cost_ratio": 0.20,
	"expected_loss_rate": 0.01,
	"ul_capital_factor": 0.10,
	"hurdle_rate": 0.15
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return NewRouter(Options{
		Sessions: session.NewRegistry(time.Hour),
		Sampler:  sampler.New(sampler.WithSeed(1)),
	})
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return e["code"].(string)
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestComputeReferenceDeal(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/deals/compute", referenceDeal)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	res := body["results"].(map[string]any)
	assert.InDelta(t, 60000.0, res["income_from_deal"], 1e-6)
	assert.InDelta(t, 12000.0, res["operating_costs"], 1e-6)
	assert.InDelta(t, 10000.0, res["expected_loss"], 1e-6)
	assert.InDelta(t, 38000.0, res["net_risk_adjusted_reward"], 1e-6)
	assert.InDelta(t, 100000.0, res["risk_adjusted_capital"], 1e-6)
	assert.InDelta(t, 0.38, res["rarorac"], 1e-9)
	assert.Equal(t, "Meets Hurdle Rate", res["deal_outcome"])

	disp := body["display"].(map[string]any)
	assert.Equal(t, "38.00%", disp["rarorac"])
	assert.Equal(t, "$60000.00", disp["income_from_deal"])
}

func TestComputeZeroCapitalIsInfinity(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/deals/compute", `{"ul_capital_factor": 0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, "Infinity", body["results"].(map[string]any)["rarorac"])
	assert.Equal(t, "Meets Hurdle Rate", body["results"].(map[string]any)["deal_outcome"])
	assert.Equal(t, "Infinity", body["display"].(map[string]any)["rarorac"])
}

func TestComputePercentUnits(t *testing.T) {
	body := `{
		"loan_amount": 1000000,
		"interest_rate_pct": 5,
		"fees": 10000,
		"operating_cost_ratio_pct": 20,
		"expected_loss_rate_pct": 1,
		"ul_capital_factor_pct": 10,
		"hurdle_rate_pct": 15
	}`
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/deals/compute?units=percent", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	out := decode(t, w)
	assert.InDelta(t, 0.05, out["parameters"].(map[string]any)["interest_rate"], 1e-12)
	assert.InDelta(t, 0.38, out["results"].(map[string]any)["rarorac"], 1e-9)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/deals/compute", `{"interest_rate": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, w))

	w = do(t, r, http.MethodPost, "/api/v1/deals/compute", `{"loan_amount": "lots"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/deals/compute", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCode(t, w))
}

func TestScenarioLifecycle(t *testing.T) {
	r := newTestRouter(t)
	id := createSession(t, r)
	base := "/api/v1/sessions/" + id

	w := do(t, r, http.MethodPost, base+"/scenarios", `{"name": "A", "parameters": `+referenceDeal+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode(t, w)
	assert.InDelta(t, 0.38, saved["results"].(map[string]any)["rarorac"], 1e-9)

	w = do(t, r, http.MethodPost, base+"/scenarios", `{"name": "B", "parameters": {"ul_capital_factor": 0}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, base+"/scenarios/compare", "")
	require.Equal(t, http.StatusOK, w.Code)
	tbl := decode(t, w)
	cols := tbl["columns"].([]any)
	rows := tbl["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "scenario_name", cols[0].(map[string]any)["key"])
	assert.Equal(t, "deal_outcome", cols[len(cols)-2].(map[string]any)["key"])
	assert.Equal(t, "rarorac", cols[len(cols)-1].(map[string]any)["key"])
	assert.Equal(t, "RARORAC", cols[len(cols)-1].(map[string]any)["label"])
	assert.Equal(t, "A", rows[0].([]any)[0])
	assert.Equal(t, "Infinity", rows[1].([]any)[len(cols)-1])
	assert.Equal(t, false, tbl["empty"])

	w = do(t, r, http.MethodGet, base+"/portfolio", "")
	require.Equal(t, http.StatusOK, w.Code)
	pf := decode(t, w)
	points := pf["points"].([]any)
	require.Len(t, points, 2)
	assert.Equal(t, "B", points[0].(map[string]any)["name"], "infinite RARORAC ranks first")
	summary := pf["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["count"])
	assert.Equal(t, 1.0, summary["success_rate"])
	assert.Equal(t, "Excellent", summary["quality"])

	w = do(t, r, http.MethodDelete, base+"/scenarios", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, base+"/scenarios/compare", "")
	assert.Equal(t, true, decode(t, w)["empty"])

	w = do(t, r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, base+"/scenarios/compare", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", errorCode(t, w))
}

func TestSaveLooseSnapshots(t *testing.T) {
	r := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, r)

	w := do(t, r, http.MethodPost, base+"/scenarios", `{
		"name": "legacy",
		"parameters": {"loan_amount": 5, "legacy_flag": true},
		"results": {"rarorac": "Infinity", "deal_outcome": "Meets Hurdle Rate"}
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, base+"/scenarios", `{"name": "bare"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, base+"/scenarios/compare", "")
	tbl := decode(t, w)
	cols := tbl["columns"].([]any)
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.(map[string]any)["key"].(string)
	}
	assert.Equal(t, []string{"scenario_name", "loan_amount", "legacy_flag", "deal_outcome", "rarorac"}, keys)

	bare := tbl["rows"].([]any)[1].([]any)
	assert.Equal(t, "bare", bare[0])
	assert.Nil(t, bare[1])
	assert.Nil(t, bare[4])
}

func TestSaveRejectsNonObjectSnapshot(t *testing.T) {
	r := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, r)

	w := do(t, r, http.MethodPost, base+"/scenarios", `{"name": "x", "parameters": [1, 2], "results": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, w))
}

func TestUnknownSession(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/sessions/missing/scenarios", `{"name": "A"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodDelete, "/api/v1/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompareCSV(t *testing.T) {
	r := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, r)
	do(t, r, http.MethodPost, base+"/scenarios", `{"name": "A", "parameters": `+referenceDeal+`}`)

	w := do(t, r, http.MethodGet, base+"/scenarios/compare?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "scenario_name,loan_amount,"))
	assert.True(t, strings.HasPrefix(lines[1], "A,"))
}

func TestSyntheticPortfolio(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", `{
		"num_deals": 50,
		"risk_range": {"lo": 0.1, "hi": 0.5},
		"return_range": {"lo": 0.05, "hi": 0.2},
		"skewed": true,
		"seed": 42,
		"hurdle_rate": 0.1
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	points := body["points"].([]any)
	require.Len(t, points, 50)
	for _, p := range points {
		pt := p.(map[string]any)
		assert.GreaterOrEqual(t, pt["risk_score"].(float64), 0.1)
		assert.LessOrEqual(t, pt["risk_score"].(float64), 0.5)
		assert.GreaterOrEqual(t, pt["return_ratio"].(float64), 0.05)
		assert.LessOrEqual(t, pt["return_ratio"].(float64), 0.2)
	}
	assert.Equal(t, 50.0, body["summary"].(map[string]any)["count"])
}

func TestSyntheticPortfolioSeedIsDeterministic(t *testing.T) {
	r := newTestRouter(t)
	req := `{"num_deals": 5, "risk_range": {"lo": 0, "hi": 1}, "return_range": {"lo": 0, "hi": 1}, "seed": 9}`
	a := do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", req)
	b := do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", req)
	assert.JSONEq(t, a.Body.String(), b.Body.String())
}

func TestSyntheticPortfolioEdgeCases(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", `{"num_deals": 0, "risk_range": {"lo": 0, "hi": 1}, "return_range": {"lo": 0, "hi": 1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["points"])

	w = do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", `{"num_deals": 5, "risk_range": {"lo": 0.5, "hi": 0.1}, "return_range": {"lo": 0, "hi": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, w))

	w = do(t, r, http.MethodPost, "/api/v1/portfolio/synthetic", `{"num_deals": 1000000, "risk_range": {"lo": 0, "hi": 1}, "return_range": {"lo": 0, "hi": 1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/deals/compute", referenceDeal)

	w := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rarorac_deals_computed_total{outcome="Meets Hurdle Rate"} 1`)
	assert.Contains(t, w.Body.String(), "rarorac_active_sessions")
}

func TestRateLimit(t *testing.T) {
	r := NewRouter(Options{
		Sessions:       session.NewRegistry(time.Hour),
		RateLimitRPS:   0.001,
		RateLimitBurst: 1,
	})
	first := do(t, r, http.MethodPost, "/api/v1/deals/compute", referenceDeal)
	second := do(t, r, http.MethodPost, "/api/v1/deals/compute", referenceDeal)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, second))

	// Health and metrics are not limited.
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/health", "").Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/deals/compute", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestComputeEmptyBodyUsesDefaults(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/api/v1/deals/compute", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode(t, w)["results"].(map[string]any)
	// 1,000,000 at 5% + 5,000 fees, 10% costs, 2% EL, 15% UL.
	assert.InDelta(t, 55000.0, res["income_from_deal"], 1e-6)
	assert.InDelta(t, 29500.0/150000.0, res["rarorac"], 1e-12)
	assert.Equal(t, "Meets Hurdle Rate", res["deal_outcome"])
}

func TestSaveRejectsPercentUnitsWithResults(t *testing.T) {
	r := newTestRouter(t)
	base := "/api/v1/sessions/" + createSession(t, r)

	w := do(t, r, http.MethodPost, base+"/scenarios", `{
		"name": "x",
		"units": "percent",
		"parameters": {"interest_rate_pct": 5},
		"results": {"rarorac": 0.1}
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, w))

	w = do(t, r, http.MethodPost, base+"/scenarios?units=percent", `{
		"name": "x",
		"parameters": {"interest_rate_pct": 5},
		"results": {"rarorac": 0.1}
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, base+"/scenarios", `{"name": "pct", "units": "percent", "parameters": {"interest_rate_pct": 5}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.InDelta(t, 0.05, decode(t, w)["parameters"].(map[string]any)["interest_rate"], 1e-12)

	w = do(t, r, http.MethodGet, base+"/scenarios/compare", "")
	assert.Len(t, decode(t, w)["rows"], 1)
}
