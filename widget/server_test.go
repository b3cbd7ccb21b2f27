package widget

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"properati-pricer/artifact"
	"properati-pricer/observability"
	"properati-pricer/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer() *Server {
	art := &artifact.Artifact{
		SchemaVersion: artifact.SchemaVersion,
		RunID:         "11111111-2222-3333-4444-555555555555",
		TrainedAt:     time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Alpha:         1.0,
		FeatureNames: []string{
			"surface_covered_in_m2", "lat", "lon",
			"neighborhood_Palermo", "neighborhood_Recoleta",
		},
		Coefficients:  []float64{2000, 0, 0, 10000, 30000},
		Intercept:     50000,
		Neighborhoods: []string{"Palermo", "Recoleta"},
		LatMean:       -34.6,
		LonMean:       -58.4,
		AreaMin:       20,
		AreaMax:       150,
	}
	return NewServer(artifact.NewPredictor(art), observability.NewMetrics(), utils.NewLogger(), "localhost", 0)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPredictEndpoint(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/api/predict?surface=95&neighborhood=Palermo")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.InDelta(t, 250000.0, resp.PriceUSD, 1e-6)
	assert.Equal(t, "Predicted apartment price: $250,000.00", resp.Formatted)
	assert.True(t, resp.KnownNeighborhood)

	// No coordinates supplied, so the training means are used.
	assert.InDelta(t, -34.6, resp.Lat, 1e-9)
	assert.InDelta(t, -58.4, resp.Lon, 1e-9)
}

func TestPredictUnknownNeighborhood(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/api/predict?surface=95&neighborhood=Atlantis")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.KnownNeighborhood)
	assert.InDelta(t, 240000.0, resp.PriceUSD, 1e-6)
}

func TestPredictValidation(t *testing.T) {
	s := newTestServer()

	bad := []string{
		"/api/predict",
		"/api/predict?surface=abc",
		"/api/predict?surface=-5",
		"/api/predict?surface=50&lat=abc",
		"/api/predict?surface=50&lon=abc",
	}
	for _, target := range bad {
		rec := get(t, s, target)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "target %s", target)
		assert.Contains(t, rec.Body.String(), "error")
	}

	assert.Equal(t, float64(len(bad)), testutil.ToFloat64(s.metrics.PredictionErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.Predictions))
}

func TestPageRendersControls(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, `id="area"`)
	assert.Contains(t, body, `min="20"`)
	assert.Contains(t, body, `max="150"`)
	assert.Contains(t, body, "<option value=\"Palermo\">Palermo</option>")
	assert.Contains(t, body, "<option value=\"Recoleta\">Recoleta</option>")
}

func TestModelInfo(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/api/model")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", resp["run_id"])
	assert.Len(t, resp["neighborhoods"], 2)
}

func TestHealthz(t *testing.T) {
	s := newTestServer()

	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer()

	get(t, s, "/api/predict?surface=50&neighborhood=Palermo")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "properati_widget_predictions_total 1")
}
