package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMAE(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{2, 2, 2}
	assert.InDelta(t, 2.0/3.0, MAE(yTrue, yPred), 1e-9)
	assert.Equal(t, 0.0, MAE(nil, nil))
	assert.Equal(t, 0.0, MAE(yTrue, []float64{1}))
}

func TestRMSE(t *testing.T) {
	yTrue := []float64{1, 2, 3}
	yPred := []float64{2, 2, 2}
	assert.InDelta(t, math.Sqrt(2.0/3.0), RMSE(yTrue, yPred), 1e-9)
	assert.Equal(t, 0.0, RMSE(nil, nil))
}

func TestR2(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.0, R2(yTrue, []float64{1, 2, 3, 4}), 1e-9)

	// Predicting the mean everywhere scores exactly zero.
	assert.InDelta(t, 0.0, R2(yTrue, []float64{2.5, 2.5, 2.5, 2.5}), 1e-9)

	// A constant target has no variance to explain.
	assert.Equal(t, 0.0, R2([]float64{5, 5, 5}, []float64{5, 5, 5}))
}

func TestBaselineMAE(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, BaselineMAE([]float64{1, 2, 3}), 1e-9)
	assert.Equal(t, 0.0, BaselineMAE(nil))
}
