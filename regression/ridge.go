package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is an L2-regularized linear regression solved in closed form on the
// centered normal equations, leaving the intercept unpenalized. Alpha = 0
// reduces to ordinary least squares.
type Ridge struct {
	Alpha     float64
	coef      []float64
	intercept float64
	fitted    bool
}

func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

// RestoreRidge rebuilds a fitted model from persisted artifact fields.
func RestoreRidge(alpha float64, coef []float64, intercept float64) *Ridge {
	return &Ridge{
		Alpha:     alpha,
		coef:      append([]float64(nil), coef...),
		intercept: intercept,
		fitted:    true,
	}
}

// Fit solves (Xc'Xc + alpha*I) beta = Xc'yc over the column-centered data and
// recovers the intercept from the feature and target means.
func (r *Ridge) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("regression: cannot fit on an empty design matrix")
	}
	if len(y) != n {
		return fmt.Errorf("regression: %d rows but %d targets", n, len(y))
	}
	if r.Alpha < 0 {
		return fmt.Errorf("regression: negative alpha %g", r.Alpha)
	}
	d := len(X[0])
	if d == 0 {
		return fmt.Errorf("regression: design matrix has no columns")
	}

	colMean := make([]float64, d)
	for _, row := range X {
		if len(row) != d {
			return fmt.Errorf("regression: ragged design matrix, row has %d columns, want %d", len(row), d)
		}
		for j, v := range row {
			colMean[j] += v
		}
	}
	for j := range colMean {
		colMean[j] /= float64(n)
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	data := make([]float64, n*d)
	for i, row := range X {
		for j, v := range row {
			data[i*d+j] = v - colMean[j]
		}
	}
	Xc := mat.NewDense(n, d, data)

	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}
	ycVec := mat.NewVecDense(n, yc)

	var gram mat.Dense
	gram.Mul(Xc.T(), Xc)
	for j := 0; j < d; j++ {
		gram.Set(j, j, gram.At(j, j)+r.Alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(Xc.T(), ycVec)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("regression: normal equations are singular (try a larger alpha): %w", err)
	}

	r.coef = make([]float64, d)
	r.intercept = yMean
	for j := 0; j < d; j++ {
		r.coef[j] = beta.AtVec(j)
		r.intercept -= colMean[j] * r.coef[j]
	}
	r.fitted = true
	return nil
}

// Predict scores every row of X.
func (r *Ridge) Predict(X [][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, fmt.Errorf("regression: predict called before Fit")
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(r.coef) {
			return nil, fmt.Errorf("regression: row has %d features, model expects %d", len(row), len(r.coef))
		}
		out[i] = r.PredictOne(row)
	}
	return out, nil
}

// PredictOne scores a single encoded row.
func (r *Ridge) PredictOne(row []float64) float64 {
	sum := r.intercept
	for j, v := range row {
		sum += r.coef[j] * v
	}
	return sum
}

// Coefficients returns a copy of the fitted weights.
func (r *Ridge) Coefficients() []float64 {
	return append([]float64(nil), r.coef...)
}

// Intercept returns the fitted intercept.
func (r *Ridge) Intercept() float64 {
	return r.intercept
}
