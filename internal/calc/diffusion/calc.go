package diffusion

import "math"

type Input struct {
	D float64 `json:"d"` // mm²/s
	T float64 `json:"t"` // s
}

type Result struct {
	Depth float64 `json:"depth"` // mm
}

// Depth is the characteristic diffusion depth sqrt(D·t).
// A negative product gives NaN.
func Depth(D, t float64) float64 {
	return math.Sqrt(D * t)
}

func Calculate(in Input) Result {
	return Result{Depth: Depth(in.D, in.T)}
}
