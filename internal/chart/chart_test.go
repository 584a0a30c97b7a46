package chart

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"MetalCal/internal/catalog"
	"MetalCal/internal/field"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestXYsSkipsUndefined(t *testing.T) {
	pts := []catalog.Point{
		{X: 10, Y: 0},
		{X: 9, Y: field.Float(math.NaN())},
		{X: 8, Y: 120},
	}
	xy := XYs(pts)
	if len(xy) != 2 || xy[1].X != 8 {
		t.Errorf("got %v", xy)
	}
}

func TestWritePNG(t *testing.T) {
	c, err := catalog.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := c.Lookup("deformation")
	if err != nil {
		t.Fatal(err)
	}
	pts, _ := f.PreviewCurve(f.Defaults())

	var buf bytes.Buffer
	if err := WritePNG(&buf, f.Preview, pts); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestWritePNGNoData(t *testing.T) {
	p := &catalog.Preview{Title: "empty"}
	pts := []catalog.Point{{X: 1, Y: field.Float(math.Inf(1))}}
	if err := WritePNG(&bytes.Buffer{}, p, pts); !errors.Is(err, ErrNoData) {
		t.Errorf("want ErrNoData, got %v", err)
	}
}
