package artifact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictorFormatsPrice(t *testing.T) {
	p := NewPredictor(sampleArtifact())

	// 2000*95 + 10000 (Palermo) + 50000 intercept = 250000.
	pred, err := p.Predict(95, math.NaN(), math.NaN(), "Palermo")
	require.NoError(t, err)

	assert.InDelta(t, 250000.0, pred.PriceUSD, 1e-9)
	assert.Equal(t, "Predicted apartment price: $250,000.00", pred.Formatted)
	assert.True(t, pred.KnownNeighborhood)
}

func TestPredictorImputesCoordinates(t *testing.T) {
	p := NewPredictor(sampleArtifact())

	pred, err := p.Predict(50, math.NaN(), math.NaN(), "Recoleta")
	require.NoError(t, err)

	assert.InDelta(t, -34.6, pred.Lat, 1e-9)
	assert.InDelta(t, -58.4, pred.Lon, 1e-9)
}

func TestPredictorUnknownNeighborhood(t *testing.T) {
	p := NewPredictor(sampleArtifact())

	pred, err := p.Predict(95, -34.6, -58.4, "Atlantis")
	require.NoError(t, err)

	// Only the numeric features contribute.
	assert.InDelta(t, 240000.0, pred.PriceUSD, 1e-9)
	assert.False(t, pred.KnownNeighborhood)
}

func TestPredictorRejectsNonPositiveSurface(t *testing.T) {
	p := NewPredictor(sampleArtifact())

	for _, surface := range []float64{0, -5} {
		_, err := p.Predict(surface, -34.6, -58.4, "Palermo")
		assert.Error(t, err)
	}
}
