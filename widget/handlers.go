package widget

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type predictResponse struct {
	SurfaceM2         float64 `json:"surface_m2"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	Neighborhood      string  `json:"neighborhood"`
	KnownNeighborhood bool    `json:"known_neighborhood"`
	PriceUSD          float64 `json:"price_usd"`
	Formatted         string  `json:"formatted"`
}

// predict handles GET /api/predict. Surface is required; lat, lon and
// neighborhood are optional (missing coordinates take the training means).
func (s *Server) predict(c *gin.Context) {
	surface, err := strconv.ParseFloat(c.Query("surface"), 64)
	if err != nil {
		s.metrics.PredictionErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "surface must be a number"})
		return
	}

	lat, err := optionalFloat(c.Query("lat"))
	if err != nil {
		s.metrics.PredictionErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number"})
		return
	}
	lon, err := optionalFloat(c.Query("lon"))
	if err != nil {
		s.metrics.PredictionErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "lon must be a number"})
		return
	}

	pred, err := s.predictor.Predict(surface, lat, lon, c.Query("neighborhood"))
	if err != nil {
		s.metrics.PredictionErrors.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.metrics.Predictions.Inc()
	s.logger.Debug("[widget] %s (%.0f m² in %s)", pred.Formatted, pred.SurfaceM2, pred.Neighborhood)

	c.JSON(http.StatusOK, predictResponse{
		SurfaceM2:         pred.SurfaceM2,
		Lat:               pred.Lat,
		Lon:               pred.Lon,
		Neighborhood:      pred.Neighborhood,
		KnownNeighborhood: pred.KnownNeighborhood,
		PriceUSD:          pred.PriceUSD,
		Formatted:         pred.Formatted,
	})
}

// modelInfo handles GET /api/model with the loaded artifact's summary.
func (s *Server) modelInfo(c *gin.Context) {
	a := s.predictor.Artifact()
	c.JSON(http.StatusOK, gin.H{
		"run_id":        a.RunID,
		"trained_at":    a.TrainedAt,
		"alpha":         a.Alpha,
		"neighborhoods": a.Neighborhoods,
		"area_min_m2":   a.AreaMin,
		"area_max_m2":   a.AreaMax,
		"metrics":       a.Metrics,
		"rows":          a.Rows,
	})
}

// health handles GET /healthz.
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"run_id": s.predictor.Artifact().RunID,
	})
}

func optionalFloat(raw string) (float64, error) {
	if raw == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(raw, 64)
}
