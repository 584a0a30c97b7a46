package energy

// kJPerKWh converts kilojoules to kilowatt-hours.
const kJPerKWh = 3600.0

type Input struct {
	M  float64 `json:"m"`  // kg
	Cp float64 `json:"cp"` // kJ/kg·K
	Ti float64 `json:"ti"` // °C
	Tf float64 `json:"tf"` // °C
	Lf float64 `json:"lf"` // kJ/kg
}

type Result struct {
	Sensible float64 `json:"sensible_kj"`
	Latent   float64 `json:"latent_kj"`
	KJ       float64 `json:"kj"`
	KWh      float64 `json:"kwh"`
}

// FusionEnergy is the heat needed to bring m from Ti to Tf and melt it.
// The sensible part is negative when Tf < Ti.
func FusionEnergy(m, Cp, Ti, Tf, Lf float64) Result {
	q1 := m * Cp * (Tf - Ti)
	q2 := m * Lf
	q := q1 + q2
	return Result{
		Sensible: q1,
		Latent:   q2,
		KJ:       q,
		KWh:      q / kJPerKWh,
	}
}

func Calculate(in Input) Result {
	return FusionEnergy(in.M, in.Cp, in.Ti, in.Tf, in.Lf)
}
