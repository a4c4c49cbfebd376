package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ridge is an L2-regularized linear regressor. The intercept is estimated
// from column means and left unpenalized; only the lag coefficients carry
// the penalty.
type Ridge struct {
	Alpha float64

	coef      []float64
	intercept float64
	fitted    bool
}

// NewRidge creates a ridge regressor with the given regularization
// strength. Alpha 0 degrades to ordinary least squares.
func NewRidge(alpha float64) *Ridge {
	if alpha < 0 {
		alpha = 0
	}
	return &Ridge{Alpha: alpha}
}

// Fit estimates coefficients from the design matrix X and target vector y
// by solving the penalized normal equations on centered data.
func (r *Ridge) Fit(x *mat.Dense, y *mat.VecDense) error {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return fmt.Errorf("ridge fit: empty design matrix")
	}
	if y.Len() != n {
		return fmt.Errorf("ridge fit: %d rows in X but %d targets", n, y.Len())
	}

	// Column means and target mean for centering.
	colMean := make([]float64, p)
	for j := 0; j < p; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += x.At(i, j)
		}
		colMean[j] = sum / float64(n)
	}

	yMean := 0.0
	for i := 0; i < n; i++ {
		yMean += y.AtVec(i)
	}
	yMean /= float64(n)

	xc := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xc.Set(i, j, x.At(i, j)-colMean[j])
		}
	}

	yc := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		yc.SetVec(i, y.AtVec(i)-yMean)
	}

	// Xc'Xc + alpha*I is symmetric positive definite for alpha > 0.
	var xtx mat.Dense
	xtx.Mul(xc.T(), xc)

	sym := mat.NewSymDense(p, nil)
	for i := 0; i < p; i++ {
		for j := i; j < p; j++ {
			v := xtx.At(i, j)
			if i == j {
				v += r.Alpha
			}
			sym.SetSym(i, j, v)
		}
	}

	var xty mat.VecDense
	xty.MulVec(xc.T(), yc)

	beta := mat.NewVecDense(p, nil)

	var chol mat.Cholesky
	if chol.Factorize(sym) {
		if err := chol.SolveVecTo(beta, &xty); err != nil {
			return fmt.Errorf("ridge fit: cholesky solve: %w", err)
		}
	} else {
		// Near-singular with alpha 0: fall back to a dense LU solve.
		dense := mat.NewDense(p, p, nil)
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				dense.Set(i, j, sym.At(i, j))
			}
		}
		if err := beta.SolveVec(dense, &xty); err != nil {
			return fmt.Errorf("ridge fit: normal equations singular: %w", err)
		}
	}

	r.coef = make([]float64, p)
	r.intercept = yMean
	for j := 0; j < p; j++ {
		r.coef[j] = beta.AtVec(j)
		r.intercept -= colMean[j] * r.coef[j]
	}
	r.fitted = true

	return nil
}

// Predict returns the fitted response for one feature row. The row must
// have the same length and ordering as the training rows.
func (r *Ridge) Predict(features []float64) (float64, error) {
	if !r.fitted {
		return 0, fmt.Errorf("ridge predict: model not fitted")
	}
	if len(features) != len(r.coef) {
		return 0, fmt.Errorf("ridge predict: %d features but model has %d coefficients", len(features), len(r.coef))
	}

	v := r.intercept
	for j, f := range features {
		v += r.coef[j] * f
	}
	return v, nil
}

// Coefficients returns a copy of the fitted lag coefficients.
func (r *Ridge) Coefficients() []float64 {
	out := make([]float64, len(r.coef))
	copy(out, r.coef)
	return out
}
