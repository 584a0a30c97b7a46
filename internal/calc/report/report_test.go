package report

import (
	"bytes"
	"testing"
	"time"

	"MetalCal/internal/catalog"
)

func TestWrite(t *testing.T) {
	c, err := catalog.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range c.All() {
		res := f.Evaluate(f.Defaults())
		var buf bytes.Buffer
		in := Input{Project: "Line 2", Author: "QA", Notes: "Trial run at 1500 °C."}
		if err := Write(&buf, in, f, res, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("%s: %v", f.ID, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Errorf("%s: output is not a PDF", f.ID)
		}
	}
}

func TestWriteUndefined(t *testing.T) {
	c, err := catalog.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := c.Lookup("phases")
	res := f.Evaluate(map[string]float64{"C0": 5, "Ca": 5, "Cb": 5})
	var buf bytes.Buffer
	if err := Write(&buf, Input{}, f, res, time.Now()); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("empty report")
	}
}
