package field

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in    string
		want  Number
		isErr bool
	}{
		{"", Number{}, false},
		{"   ", Number{}, false},
		{"10", Some(10), false},
		{" 1e-6 ", Some(1e-6), false},
		{"-3.5", Some(-3.5), false},
		{"abc", Number{}, true},
		{"NaN", Number{}, true},
		{"Inf", Number{}, true},
		{"1,5", Number{}, true},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if c.isErr {
			if !errors.Is(err, ErrNotNumber) {
				t.Errorf("Parse(%q): want ErrNotNumber, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q): want %+v, got %+v", c.in, c.want, got)
		}
	}
}

func TestNumberUnmarshalJSON(t *testing.T) {
	var in map[string]Number
	err := json.Unmarshal([]byte(`{"a": 10, "b": "5.5", "c": "", "d": null}`), &in)
	if err != nil {
		t.Fatal(err)
	}
	if in["a"] != Some(10) || in["b"] != Some(5.5) {
		t.Errorf("numbers: got %+v, %+v", in["a"], in["b"])
	}
	if in["c"].Valid || in["d"].Valid {
		t.Errorf("blank and null should be absent: got %+v, %+v", in["c"], in["d"])
	}

	if err := json.Unmarshal([]byte(`{"a": "ten"}`), &in); !errors.Is(err, ErrNotNumber) {
		t.Errorf("want ErrNotNumber, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"a": true}`), &in); !errors.Is(err, ErrNotNumber) {
		t.Errorf("want ErrNotNumber for bool, got %v", err)
	}
}

func TestFloatMarshalJSON(t *testing.T) {
	b, err := json.Marshal([]Float{1.5, Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1))})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `[1.5,null,null,null]`; got != want {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v    float64
		prec int
		want string
	}{
		{0.69314718, 4, "0.6931"},
		{46465.9795, 2, "46465.98"},
		{math.NaN(), 4, Placeholder},
		{math.Inf(1), 2, Placeholder},
		{0.06, 6, "0.060000"},
	}
	for _, c := range cases {
		if got := Format(c.v, c.prec); got != c.want {
			t.Errorf("Format(%v, %d): want %q, got %q", c.v, c.prec, c.want, got)
		}
	}
}

func TestResolve(t *testing.T) {
	specs := []Spec{
		{Name: "h0", Default: 10},
		{Name: "hf", Default: 5},
		{Name: "k", Default: 500},
	}
	in := map[string]Number{"h0": Some(12), "hf": {}}

	got, err := Resolve(specs, in, true)
	if err != nil {
		t.Fatal(err)
	}
	if got["h0"] != 12 || got["hf"] != 5 || got["k"] != 500 {
		t.Errorf("fallback: got %v", got)
	}

	_, err = Resolve(specs, in, false)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("want ErrMissing, got %v", err)
	}
	if got, want := err.Error(), "hf, k: value required"; got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestParseValues(t *testing.T) {
	specs := []Spec{{Name: "d"}, {Name: "t"}}
	q := url.Values{"d": {"1e-6"}, "t": {""}, "other": {"x"}}
	got, err := ParseValues(specs, q.Get)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["d"] != Some(1e-6) {
		t.Errorf("got %+v", got)
	}

	q.Set("t", "soon")
	if _, err := ParseValues(specs, q.Get); !errors.Is(err, ErrNotNumber) {
		t.Errorf("want ErrNotNumber, got %v", err)
	}
}

func TestStepAttr(t *testing.T) {
	if got := (Spec{}).StepAttr(); got != "any" {
		t.Errorf("want any, got %q", got)
	}
	if got := (Spec{Step: 0.01}).StepAttr(); got != "0.01" {
		t.Errorf("want 0.01, got %q", got)
	}
}
