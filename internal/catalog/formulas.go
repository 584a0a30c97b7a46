package catalog

import (
	"fmt"

	"MetalCal/internal/calc/deformation"
	"MetalCal/internal/calc/diffusion"
	"MetalCal/internal/calc/energy"
	"MetalCal/internal/calc/massbalance"
	"MetalCal/internal/calc/phases"
	"MetalCal/internal/calc/solidification"
	"MetalCal/internal/field"
)

var (
	zero    = field.Some(0)
	hundred = field.Some(100)
	one     = field.Some(1)
)

func formulas() []*Formula {
	return []*Formula{
		deformationFormula(),
		diffusionFormula(),
		energyFormula(),
		massBalanceFormula(),
		phasesFormula(),
		solidificationFormula(),
	}
}

func in(v float64) string {
	return field.FormatInput(v)
}

func deformationFormula() *Formula {
	return &Formula{
		ID:    "deformation",
		Name:  "Deformation",
		Title: "Deformation / Rolling",
		Description: "Rolling deformation is a forming process where a metal workpiece is reduced " +
			"in thickness by passing between rollers. It produces controlled final thicknesses " +
			"and is common for sheet and plate production.",
		Note: "Result: force in Newtons (N). Use consistent units.",
		Fields: []field.Spec{
			{Name: "h0", Label: "h0", Unit: "mm", Description: "Initial thickness", Min: zero},
			{Name: "hf", Label: "hf", Unit: "mm", Description: "Final thickness", Min: zero},
			{Name: "K", Label: "K", Unit: "MPa", Description: "Strength coefficient", Min: zero},
			{Name: "n", Label: "n", Description: "Strain hardening exponent (dimensionless)"},
			{Name: "area", Label: "Area", Unit: "mm²", Description: "Cross-sectional area", Min: zero},
		},
		Outputs: []Output{
			{Name: "strain", Label: "Strain", Precision: 4},
			{Name: "stress", Label: "Stress", Unit: "MPa", Precision: 2},
			{Name: "force", Label: "Force", Unit: "N", Precision: 2},
		},
		Equations: []string{
			"Strain (ε): ε = ln(h0 / hf)",
			"Stress (σ): σ = K · ε^n",
			"Force (F): F = σ · Area",
		},
		Preview: &Preview{
			Title:  "Rolling force by final thickness",
			XLabel: "hf (mm)",
			YLabel: "Force (N)",
			curve: func(v map[string]float64) []Point {
				pts := deformation.PreviewCurve(v["h0"], v["K"], v["n"], v["area"])
				out := make([]Point, len(pts))
				for i, p := range pts {
					out[i] = Point{X: field.Float(p.Hf), Y: field.Float(p.Force)}
				}
				return out
			},
		},
		eval: func(v map[string]float64) []float64 {
			r := deformation.RollingForce(v["h0"], v["hf"], v["K"], v["n"], v["area"])
			return []float64{r.Strain, r.Stress, r.Force}
		},
		example: func(v map[string]float64, out []float64) []string {
			strain := field.Format(out[0], 4)
			stress := field.Format(out[1], 2)
			return []string{
				fmt.Sprintf("ε = ln(%s / %s) = %s", in(v["h0"]), in(v["hf"]), strain),
				fmt.Sprintf("σ = %s · %s^%s = %s MPa", in(v["K"]), strain, in(v["n"]), stress),
				fmt.Sprintf("F = %s · %s = %s N", stress, in(v["area"]), field.Format(out[2], 2)),
			}
		},
	}
}

func diffusionFormula() *Formula {
	return &Formula{
		ID:    "diffusion",
		Name:  "Diffusion",
		Title: "Diffusion",
		Description: "Diffusion is the movement of species within a solid or liquid due to " +
			"concentration gradients. This calculator computes a characteristic diffusion depth.",
		Note: "Result: depth (mm).",
		Fields: []field.Spec{
			{Name: "D", Label: "D", Unit: "mm²/s", Description: "Diffusion coefficient", Min: zero},
			{Name: "t", Label: "t", Unit: "s", Description: "Time", Min: zero},
		},
		Outputs: []Output{
			{Name: "depth", Label: "Depth", Unit: "mm", Precision: 6},
		},
		Equations: []string{"Depth (x): x = sqrt(D · t)"},
		eval: func(v map[string]float64) []float64 {
			return []float64{diffusion.Depth(v["D"], v["t"])}
		},
		example: func(v map[string]float64, out []float64) []string {
			return []string{
				fmt.Sprintf("x = sqrt(%s · %s) = %s mm", in(v["D"]), in(v["t"]), field.Format(out[0], 6)),
			}
		},
	}
}

func energyFormula() *Formula {
	return &Formula{
		ID:          "energy",
		Name:        "Energy",
		Title:       "Fusion / Heating Energy",
		Description: "Energy required to heat and melt a given mass. Includes sensible heat and latent heat of fusion.",
		Note:        "Result: energy in kJ and kWh.",
		Fields: []field.Spec{
			{Name: "m", Label: "m", Unit: "kg", Description: "Mass", Min: zero},
			{Name: "Cp", Label: "Cp", Unit: "kJ/kg·K", Description: "Specific heat", Min: zero},
			{Name: "Ti", Label: "Ti", Unit: "°C", Description: "Initial temperature"},
			{Name: "Tf", Label: "Tf", Unit: "°C", Description: "Final / melting temperature"},
			{Name: "Lf", Label: "Lf", Unit: "kJ/kg", Description: "Latent heat of fusion", Min: zero},
		},
		Outputs: []Output{
			{Name: "kJ", Label: "Energy", Unit: "kJ", Precision: 2},
			{Name: "kWh", Label: "Energy", Unit: "kWh", Precision: 4},
		},
		Equations: []string{
			"Sensible heat (Q1): Q1 = m · Cp · (Tf - Ti)",
			"Latent heat (Q2): Q2 = m · Lf",
			"Total Q: Q = Q1 + Q2",
		},
		eval: func(v map[string]float64) []float64 {
			r := energy.FusionEnergy(v["m"], v["Cp"], v["Ti"], v["Tf"], v["Lf"])
			return []float64{r.KJ, r.KWh}
		},
		example: func(v map[string]float64, out []float64) []string {
			r := energy.FusionEnergy(v["m"], v["Cp"], v["Ti"], v["Tf"], v["Lf"])
			return []string{
				fmt.Sprintf("Q1 = %s · %s · (%s - %s) = %s kJ",
					in(v["m"]), in(v["Cp"]), in(v["Tf"]), in(v["Ti"]), field.Format(r.Sensible, 2)),
				fmt.Sprintf("Q2 = %s · %s = %s kJ", in(v["m"]), in(v["Lf"]), field.Format(r.Latent, 2)),
				fmt.Sprintf("Q = %s kJ = %s kWh", field.Format(out[0], 2), field.Format(out[1], 4)),
			}
		},
	}
}

func massBalanceFormula() *Formula {
	return &Formula{
		ID:    "massBalance",
		Name:  "Mass Balance",
		Title: "Mass Balance",
		Description: "Simple mass balance calculation to estimate recovered iron and slag in a " +
			"process given the feed ore and process parameters.",
		Fields: []field.Spec{
			{Name: "mineral", Label: "Mineral", Unit: "kg", Description: "Feed ore mass", Min: zero},
			{Name: "fePercent", Label: "%Fe", Unit: "%", Description: "Iron content in ore", Min: zero, Max: hundred},
			{Name: "efficiency", Label: "Efficiency", Description: "Recovery fraction (0-1)", Min: zero, Max: one, Step: 0.01},
			{Name: "flux", Label: "Flux", Unit: "kg", Description: "Flux / additive mass", Min: zero},
		},
		Outputs: []Output{
			{Name: "iron", Label: "Recovered Fe", Unit: "kg", Precision: 2},
			{Name: "slag", Label: "Slag", Unit: "kg", Precision: 2},
			{Name: "realEfficiency", Label: "Real efficiency", Precision: 4},
		},
		Equations: []string{
			"Recovered Fe: iron = mineral · (Fe%/100) · efficiency",
			"Slag: slag = flux + mineral · (1 - Fe%/100)",
			"Real efficiency: realEfficiency = iron / (mineral · Fe%/100)",
		},
		eval: func(v map[string]float64) []float64 {
			r := massbalance.MassBalance(massbalance.Input{
				Mineral:    v["mineral"],
				FePercent:  v["fePercent"],
				Efficiency: v["efficiency"],
				Flux:       v["flux"],
			})
			return []float64{r.Iron, r.Slag, r.RealEfficiency}
		},
		example: func(_ map[string]float64, out []float64) []string {
			return []string{
				fmt.Sprintf("Recovered Fe = %s kg", field.Format(out[0], 2)),
				fmt.Sprintf("Slag = %s kg", field.Format(out[1], 2)),
				fmt.Sprintf("Real efficiency = %s", field.Format(out[2], 4)),
			}
		},
	}
}

func phasesFormula() *Formula {
	return &Formula{
		ID:          "phases",
		Name:        "Phases",
		Title:       "Lever Rule / Phases",
		Description: "Apply the lever rule to determine phase fractions in a binary mixture at a given temperature.",
		Fields: []field.Spec{
			{Name: "C0", Label: "C0", Description: "Overall composition (fraction)", Step: 0.01},
			{Name: "Ca", Label: "Ca", Description: "Composition of phase A (fraction)", Step: 0.01},
			{Name: "Cb", Label: "Cb", Description: "Composition of phase B (fraction)", Step: 0.01},
		},
		Outputs: []Output{
			{Name: "Wa", Label: "Wa", Precision: 4},
			{Name: "Wb", Label: "Wb", Precision: 4},
		},
		Equations: []string{
			"Wa: Wa = (Cb - C0) / (Cb - Ca)",
			"Wb: Wb = (C0 - Ca) / (Cb - Ca)",
		},
		eval: func(v map[string]float64) []float64 {
			r := phases.LeverRule(v["C0"], v["Ca"], v["Cb"])
			return []float64{r.Wa, r.Wb}
		},
		example: func(_ map[string]float64, out []float64) []string {
			return []string{
				"Wa = " + field.Format(out[0], 4),
				"Wb = " + field.Format(out[1], 4),
			}
		},
	}
}

func solidificationFormula() *Formula {
	return &Formula{
		ID:          "solidification",
		Name:        "Solidification",
		Title:       "Solidification",
		Description: "Estimate solidification time as a function of volume, surface area and empirical constants.",
		Fields: []field.Spec{
			{Name: "V", Label: "V", Unit: "m³", Description: "Volume", Min: zero},
			{Name: "A", Label: "A", Unit: "m²", Description: "Cooling area", Min: zero},
			{Name: "C", Label: "C", Description: "Empirical constant", Min: zero},
			{Name: "n", Label: "n", Description: "Exponent (default 2)"},
		},
		Outputs: []Output{
			{Name: "time", Label: "Solidification time", Precision: 4},
		},
		Equations: []string{"Time: t = C · (V / A)^n"},
		eval: func(v map[string]float64) []float64 {
			return []float64{solidification.Time(v["V"], v["A"], v["C"], v["n"])}
		},
		example: func(v map[string]float64, out []float64) []string {
			return []string{
				fmt.Sprintf("t = %s · (%s / %s)^%s = %s",
					in(v["C"]), in(v["V"]), in(v["A"]), in(v["n"]), field.Format(out[0], 4)),
			}
		},
	}
}
