// Package catalog describes the calculators and evaluates them uniformly by
// field name, so that forms, the JSON API, the live hub, reports and the CLI
// share one definition per formula.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/ini.v1"

	"MetalCal/internal/field"
)

//go:embed defaults.ini
var defaultsINI []byte

var ErrUnknownFormula = errors.New("unknown formula")

type Output struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Unit      string `json:"unit,omitempty"`
	Precision int    `json:"precision"`
}

type Point struct {
	X field.Float `json:"x"`
	Y field.Float `json:"y"`
}

// Preview describes the sample curve a formula can draw next to its form.
type Preview struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`

	curve func(v map[string]float64) []Point
}

type Formula struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Note        string       `json:"note,omitempty"`
	Fields      []field.Spec `json:"fields"`
	Outputs     []Output     `json:"outputs"`
	Equations   []string     `json:"equations"`
	Preview     *Preview     `json:"preview,omitempty"`

	// eval returns one value per entry of Outputs, in order.
	eval    func(v map[string]float64) []float64
	example func(v map[string]float64, out []float64) []string
}

type Value struct {
	Name  string      `json:"name"`
	Label string      `json:"label"`
	Unit  string      `json:"unit,omitempty"`
	Value field.Float `json:"value"`
	Text  string      `json:"text"`
}

type Result struct {
	Formula   string   `json:"formula"`
	Title     string   `json:"title"`
	Inputs    []Value  `json:"inputs"`
	Outputs   []Value  `json:"outputs"`
	Example   []string `json:"example"`
	Undefined []string `json:"undefined"`
}

// Output returns the named output value.
func (r Result) Output(name string) (float64, bool) {
	for _, v := range r.Outputs {
		if v.Name == name {
			return float64(v.Value), true
		}
	}
	return 0, false
}

// InputValues returns the inputs keyed by field name.
func (r Result) InputValues() map[string]float64 {
	out := make(map[string]float64, len(r.Inputs))
	for _, v := range r.Inputs {
		out[v.Name] = float64(v.Value)
	}
	return out
}

// Resolve validates optional inputs against the formula's fields.
func (f *Formula) Resolve(in map[string]field.Number, fallback bool) (map[string]float64, error) {
	return field.Resolve(f.Fields, in, fallback)
}

func (f *Formula) Defaults() map[string]float64 {
	out := make(map[string]float64, len(f.Fields))
	for _, s := range f.Fields {
		out[s.Name] = s.Default
	}
	return out
}

// Evaluate runs the formula on resolved inputs. Missing names read as zero;
// callers are expected to pass the output of Resolve.
func (f *Formula) Evaluate(v map[string]float64) Result {
	res := Result{
		Formula:   f.ID,
		Title:     f.Title,
		Inputs:    make([]Value, 0, len(f.Fields)),
		Outputs:   make([]Value, 0, len(f.Outputs)),
		Undefined: []string{},
	}
	for _, s := range f.Fields {
		res.Inputs = append(res.Inputs, Value{
			Name:  s.Name,
			Label: s.Label,
			Unit:  s.Unit,
			Value: field.Float(v[s.Name]),
			Text:  field.FormatInput(v[s.Name]),
		})
	}
	out := f.eval(v)
	for i, o := range f.Outputs {
		val := field.Float(out[i])
		if !val.Defined() {
			res.Undefined = append(res.Undefined, o.Name)
		}
		res.Outputs = append(res.Outputs, Value{
			Name:  o.Name,
			Label: o.Label,
			Unit:  o.Unit,
			Value: val,
			Text:  field.Format(out[i], o.Precision),
		})
	}
	if f.example != nil {
		res.Example = f.example(v, out)
	}
	return res
}

// PreviewCurve samples the preview curve, if the formula has one.
func (f *Formula) PreviewCurve(v map[string]float64) ([]Point, bool) {
	if f.Preview == nil {
		return nil, false
	}
	return f.Preview.curve(v), true
}

type Catalog struct {
	formulas []*Formula
	byID     map[string]*Formula
}

// New builds the catalog. Field defaults come from the embedded defaults.ini
// and are overridden by [defaults.<id>] sections of cfg, which may be nil.
func New(cfg *ini.File) (*Catalog, error) {
	defaults, err := ini.Load(defaultsINI)
	if err != nil {
		return nil, fmt.Errorf("catalog: load defaults: %w", err)
	}
	c := &Catalog{byID: make(map[string]*Formula)}
	for _, f := range formulas() {
		for i := range f.Fields {
			s := &f.Fields[i]
			s.Default = defaults.Section(f.ID).Key(s.Name).MustFloat64(s.Default)
			if cfg != nil {
				s.Default = cfg.Section("defaults." + f.ID).Key(s.Name).MustFloat64(s.Default)
			}
		}
		c.formulas = append(c.formulas, f)
		c.byID[f.ID] = f
	}
	return c, nil
}

func (c *Catalog) All() []*Formula {
	return c.formulas
}

func (c *Catalog) Lookup(id string) (*Formula, error) {
	f, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownFormula)
	}
	return f, nil
}
