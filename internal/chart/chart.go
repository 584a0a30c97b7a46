// Package chart draws preview curves as PNG line plots.
package chart

import (
	"errors"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"MetalCal/internal/catalog"
)

const (
	Width  = 5 * vg.Inch
	Height = 3 * vg.Inch
)

var ErrNoData = errors.New("chart: no finite points to plot")

// XYs keeps the finite points of a preview; undefined forces are skipped
// rather than drawn.
func XYs(pts []catalog.Point) plotter.XYs {
	xy := make(plotter.XYs, 0, len(pts))
	for _, p := range pts {
		if !p.X.Defined() || !p.Y.Defined() {
			continue
		}
		xy = append(xy, plotter.XY{X: float64(p.X), Y: float64(p.Y)})
	}
	return xy
}

// WritePNG renders the preview curve of a formula.
func WritePNG(w io.Writer, p *catalog.Preview, pts []catalog.Point) error {
	xy := XYs(pts)
	if len(xy) == 0 {
		return ErrNoData
	}
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.XLabel
	pl.Y.Label.Text = p.YLabel
	pl.Add(plotter.NewGrid())
	if err := plotutil.AddLinePoints(pl, xy); err != nil {
		return err
	}
	wt, err := pl.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
