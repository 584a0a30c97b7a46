package deformation

import "math"

// previewPoints is the number of final thicknesses sampled by PreviewCurve.
const previewPoints = 10

type Input struct {
	H0   float64 `json:"h0"`   // mm
	Hf   float64 `json:"hf"`   // mm
	K    float64 `json:"k"`    // MPa
	N    float64 `json:"n"`    // dimensionless
	Area float64 `json:"area"` // mm²
}

type Result struct {
	Strain float64 `json:"strain"`
	Stress float64 `json:"stress"` // MPa
	Force  float64 `json:"force"`  // N
}

type Point struct {
	Hf    float64 `json:"hf"`
	Force float64 `json:"force"`
}

// RollingForce evaluates a rolling pass with power-law hardening.
// Inputs are not validated: h0 or hf <= 0, or a negative strain raised to a
// non-integer n, show up as NaN or Inf in the result.
func RollingForce(h0, hf, K, n, area float64) Result {
	strain := math.Log(h0 / hf)
	stress := K * math.Pow(strain, n)
	return Result{
		Strain: strain,
		Stress: stress,
		Force:  stress * area,
	}
}

func Calculate(in Input) Result {
	return RollingForce(in.H0, in.Hf, in.K, in.N, in.Area)
}

// PreviewCurve returns the force for final thicknesses 10, 9, ..., 1 mm.
func PreviewCurve(h0, K, n, area float64) []Point {
	out := make([]Point, 0, previewPoints)
	for i := 0; i < previewPoints; i++ {
		hf := float64(previewPoints - i)
		out = append(out, Point{Hf: hf, Force: RollingForce(h0, hf, K, n, area).Force})
	}
	return out
}
