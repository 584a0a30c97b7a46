package massbalance

type Input struct {
	Mineral    float64 `json:"mineral"`    // kg of ore
	FePercent  float64 `json:"fe_percent"` // 0..100
	Efficiency float64 `json:"efficiency"` // 0..1
	Flux       float64 `json:"flux"`       // kg
}

type Result struct {
	Iron           float64 `json:"iron"` // kg
	Slag           float64 `json:"slag"` // kg
	RealEfficiency float64 `json:"real_efficiency"`
}

// MassBalance estimates recovered iron and slag for an ore charge.
// RealEfficiency is recomputed from the outputs and is NaN when the ore
// carries no iron (0/0).
func MassBalance(in Input) Result {
	fe := in.FePercent / 100
	iron := in.Mineral * fe * in.Efficiency
	return Result{
		Iron:           iron,
		Slag:           in.Flux + in.Mineral*(1-fe),
		RealEfficiency: iron / (in.Mineral * fe),
	}
}

func Calculate(in Input) Result {
	return MassBalance(in)
}
