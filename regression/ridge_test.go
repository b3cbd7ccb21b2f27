package regression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRidgeExactFitWithZeroAlpha(t *testing.T) {
	// y = 2x + 1
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{3, 5, 7, 9}

	model := NewRidge(0)
	require.NoError(t, model.Fit(X, y))

	coef := model.Coefficients()
	require.Len(t, coef, 1)
	assert.InDelta(t, 2.0, coef[0], 1e-9)
	assert.InDelta(t, 1.0, model.Intercept(), 1e-9)

	pred, err := model.Predict([][]float64{{10}})
	require.NoError(t, err)
	assert.InDelta(t, 21.0, pred[0], 1e-9)
}

func TestRidgeRecoversMultipleFeatures(t *testing.T) {
	// y = 3*x1 - 2*x2 + 5
	X := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {2, 1}}
	y := []float64{5, 8, 3, 6, 9}

	model := NewRidge(0)
	require.NoError(t, model.Fit(X, y))

	coef := model.Coefficients()
	require.Len(t, coef, 2)
	assert.InDelta(t, 3.0, coef[0], 1e-9)
	assert.InDelta(t, -2.0, coef[1], 1e-9)
	assert.InDelta(t, 5.0, model.Intercept(), 1e-9)
}

func TestRidgeShrinksCoefficients(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{3, 5, 7, 9}

	model := NewRidge(10)
	require.NoError(t, model.Fit(X, y))

	coef := model.Coefficients()
	require.Len(t, coef, 1)
	// Sxx = 5 and Xc'yc = 10, so the penalized slope is 10/(5+10) = 2/3,
	// well below the OLS slope of 2.
	assert.Greater(t, coef[0], 0.0)
	assert.Less(t, coef[0], 2.0)
	assert.InDelta(t, 2.0/3.0, coef[0], 1e-9)
}

func TestRidgeSingularWithoutPenalty(t *testing.T) {
	// Duplicate columns make the normal equations singular when alpha is 0.
	X := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{3, 5, 7, 9}

	err := NewRidge(0).Fit(X, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "singular")

	// A positive penalty makes the same system solvable.
	assert.NoError(t, NewRidge(1).Fit(X, y))
}

func TestRidgeInputValidation(t *testing.T) {
	assert.Error(t, NewRidge(0).Fit(nil, nil))
	assert.Error(t, NewRidge(0).Fit([][]float64{{1}}, []float64{1, 2}))
	assert.Error(t, NewRidge(-1).Fit([][]float64{{1}, {2}}, []float64{1, 2}))
	assert.Error(t, NewRidge(0).Fit([][]float64{{1, 2}, {3}}, []float64{1, 2}))

	_, err := NewRidge(0).Predict([][]float64{{1}})
	assert.Error(t, err)
}

func TestRidgePredictRowWidth(t *testing.T) {
	model := NewRidge(0)
	require.NoError(t, model.Fit([][]float64{{1}, {2}, {3}}, []float64{1, 2, 3}))

	_, err := model.Predict([][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestRestoreRidgePredicts(t *testing.T) {
	model := RestoreRidge(1.0, []float64{2}, 1)
	assert.InDelta(t, 7.0, model.PredictOne([]float64{3}), 1e-9)

	pred, err := model.Predict([][]float64{{0}, {5}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pred[0], 1e-9)
	assert.InDelta(t, 11.0, pred[1], 1e-9)
}
