package diffusion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDepthExample(t *testing.T) {
	if got := Depth(1e-6, 3600); !scalar.EqualWithinAbs(got, 0.06, 1e-12) {
		t.Errorf("want 0.06, got %v", got)
	}
}

func TestDepthSquared(t *testing.T) {
	cases := []struct{ d, t float64 }{
		{1e-6, 3600}, {2.5e-5, 60}, {0, 100}, {3, 0}, {1.7, 8.2},
	}
	for _, c := range cases {
		got := Calculate(Input{D: c.d, T: c.t}).Depth
		if !scalar.EqualWithinAbsOrRel(got*got, c.d*c.t, 1e-15, 1e-12) {
			t.Errorf("D=%v t=%v: depth² = %v, want %v", c.d, c.t, got*got, c.d*c.t)
		}
		if again := Depth(c.d, c.t); again != got {
			t.Errorf("D=%v t=%v: repeated call gave %v then %v", c.d, c.t, got, again)
		}
	}
}

func TestDepthNegative(t *testing.T) {
	if got := Depth(-1e-6, 3600); !math.IsNaN(got) {
		t.Errorf("want NaN, got %v", got)
	}
}
