package forecast

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRidge_ExactLinearFit(t *testing.T) {
	// y = 3 + 2*x1 - x2 with alpha 0 must be recovered exactly.
	x := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 1,
		2, 1,
		3, 2,
		1, 4,
	})
	y := mat.NewVecDense(5, nil)
	for i := 0; i < 5; i++ {
		y.SetVec(i, 3+2*x.At(i, 0)-x.At(i, 1))
	}

	model := NewRidge(0)
	if err := model.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	coef := model.Coefficients()
	if math.Abs(coef[0]-2) > 1e-8 || math.Abs(coef[1]+1) > 1e-8 {
		t.Errorf("coefficients = %v, want [2 -1]", coef)
	}

	got, err := model.Predict([]float64{4, 5})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	want := 3.0 + 2*4 - 5
	if math.Abs(got-want) > 1e-8 {
		t.Errorf("Predict = %v, want %v", got, want)
	}
}

func TestRidge_AlphaShrinksCoefficients(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{-3, -2, -1, 1, 2, 3})
	y := mat.NewVecDense(6, []float64{-6, -4, -2, 2, 4, 6})

	loose := NewRidge(0)
	if err := loose.Fit(x, y); err != nil {
		t.Fatalf("Fit(alpha=0) failed: %v", err)
	}
	tight := NewRidge(100)
	if err := tight.Fit(x, y); err != nil {
		t.Fatalf("Fit(alpha=100) failed: %v", err)
	}

	if math.Abs(loose.Coefficients()[0]-2) > 1e-8 {
		t.Errorf("unpenalized coefficient = %v, want 2", loose.Coefficients()[0])
	}
	if tight.Coefficients()[0] >= loose.Coefficients()[0] {
		t.Errorf("penalized coefficient %v should be below unpenalized %v",
			tight.Coefficients()[0], loose.Coefficients()[0])
	}
	if tight.Coefficients()[0] <= 0 {
		t.Errorf("penalized coefficient %v should remain positive", tight.Coefficients()[0])
	}
}

func TestRidge_InterceptUnpenalized(t *testing.T) {
	// Constant target: any alpha should still fit the intercept exactly
	// and leave the coefficient at zero.
	x := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(4, []float64{7, 7, 7, 7})

	model := NewRidge(10)
	if err := model.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got, err := model.Predict([]float64{2.5})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if math.Abs(got-7) > 1e-8 {
		t.Errorf("Predict = %v, want 7", got)
	}
}

func TestRidge_FitErrors(t *testing.T) {
	model := NewRidge(1)

	x := mat.NewDense(3, 2, nil)
	y := mat.NewVecDense(2, nil)
	if err := model.Fit(x, y); err == nil {
		t.Error("expected error for mismatched row counts")
	}
}

func TestRidge_PredictErrors(t *testing.T) {
	model := NewRidge(1)

	if _, err := model.Predict([]float64{1}); err == nil {
		t.Error("expected error for unfitted model")
	}

	x := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	y := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	if err := model.Fit(x, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := model.Predict([]float64{1}); err == nil {
		t.Error("expected error for wrong feature count")
	}
}

func TestRidge_NegativeAlphaClamped(t *testing.T) {
	model := NewRidge(-5)
	if model.Alpha != 0 {
		t.Errorf("Alpha = %v, want clamped to 0", model.Alpha)
	}
}
