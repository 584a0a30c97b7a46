// Package field is the boundary between user input and the formula library.
// Form and JSON values arrive as optional numbers; only fully resolved,
// finite reals are handed to the formulas.
package field

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is shown instead of an undefined (NaN or Inf) value.
const Placeholder = "—"

var (
	ErrNotNumber = errors.New("not a number")
	ErrMissing   = errors.New("value required")
)

// Number is an optional numeric input. The zero value is absent.
type Number struct {
	Value float64
	Valid bool
}

func Some(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Parse reads a form value. Blank input is absent, not an error.
func Parse(s string) (Number, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, ErrNotNumber
	}
	return Some(v), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*n = v
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return ErrNotNumber
	}
	*n = Some(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Float is a computed value. NaN and Inf encode as JSON null.
type Float float64

func (f Float) Defined() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// Format renders v with prec decimals, or the placeholder when undefined.
func Format(v float64, prec int) string {
	if !Float(v).Defined() {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatInput renders an input the way it was typed: shortest exact form.
func FormatInput(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Spec describes one numeric form field.
type Spec struct {
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description"`
	Default     float64 `json:"default"`
	Min         Number  `json:"min"`
	Max         Number  `json:"max"`
	Step        float64 `json:"step"`
}

// StepAttr is the value of the HTML step attribute.
func (s Spec) StepAttr() string {
	if s.Step <= 0 {
		return "any"
	}
	return FormatInput(s.Step)
}

// Resolve turns optional values into the reals a formula needs. When
// fallback is set, absent fields take their default, the way a form keeps
// its previous value when a field is cleared; otherwise every absent field
// is reported.
func Resolve(specs []Spec, in map[string]Number, fallback bool) (map[string]float64, error) {
	out := make(map[string]float64, len(specs))
	var missing []string
	for _, s := range specs {
		n, ok := in[s.Name]
		switch {
		case ok && n.Valid:
			out[s.Name] = n.Value
		case fallback:
			out[s.Name] = s.Default
		default:
			missing = append(missing, s.Name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissing)
	}
	return out, nil
}

// ParseValues reads string values keyed by field name, such as a query
// string or spreadsheet rows. Names not in specs are ignored.
func ParseValues(specs []Spec, get func(name string) string) (map[string]Number, error) {
	out := make(map[string]Number, len(specs))
	for _, s := range specs {
		n, err := Parse(get(s.Name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		if n.Valid {
			out[s.Name] = n
		}
	}
	return out, nil
}
