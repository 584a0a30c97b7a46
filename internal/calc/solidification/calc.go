package solidification

import "math"

type Input struct {
	V float64 `json:"v"` // m³
	A float64 `json:"a"` // m²
	C float64 `json:"c"` // mould constant
	N float64 `json:"n"`
}

type Result struct {
	Time float64 `json:"time"`
}

// Time is Chvorinov's rule, C·(V/A)^n. The unit follows the calibration of C.
func Time(V, A, C, n float64) float64 {
	return C * math.Pow(V/A, n)
}

func Calculate(in Input) Result {
	return Result{Time: Time(in.V, in.A, in.C, in.N)}
}
