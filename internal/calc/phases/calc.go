package phases

type Input struct {
	C0 float64 `json:"c0"`
	Ca float64 `json:"ca"`
	Cb float64 `json:"cb"`
}

type Result struct {
	Wa float64 `json:"wa"`
	Wb float64 `json:"wb"`
}

// LeverRule gives the fractions of phases a and b for bulk composition C0.
// C0 is not checked against [Ca, Cb]; fractions outside [0, 1] are returned
// as computed. Ca == Cb divides by zero.
func LeverRule(C0, Ca, Cb float64) Result {
	span := Cb - Ca
	return Result{
		Wa: (Cb - C0) / span,
		Wb: (C0 - Ca) / span,
	}
}

func Calculate(in Input) Result {
	return LeverRule(in.C0, in.Ca, in.Cb)
}
