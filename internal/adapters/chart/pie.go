package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Slice struct {
	Label string
	Value float64
	Color color.Color
}

// Pie is a plot.Plotter drawing slices counter-clockwise from 12 o'clock,
// each labelled with its share.
type Pie struct {
	Slices []Slice
}

func (p *Pie) total() float64 {
	var t float64
	for _, s := range p.Slices {
		t += s.Value
	}
	return t
}

// Plot implements plot.Plotter.
func (p *Pie) Plot(c draw.Canvas, plt *plot.Plot) {
	total := p.total()
	if total <= 0 {
		return
	}
	trX, trY := plt.Transforms(&c)
	center := vg.Point{X: trX(0), Y: trY(0)}
	r := trX(1) - center.X
	if ry := trY(1) - center.Y; ry < r {
		r = ry
	}

	sty := plt.Title.TextStyle
	sty.Color = color.Black
	sty.Font.Size = vg.Points(11)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	start := math.Pi / 2
	for _, s := range p.Slices {
		sweep := 2 * math.Pi * s.Value / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, r, start, sweep)
		path.Close()
		c.SetColor(s.Color)
		c.Fill(path)

		mid := start + sweep/2
		at := vg.Point{
			X: center.X + r*0.6*vg.Length(math.Cos(mid)),
			Y: center.Y + r*0.6*vg.Length(math.Sin(mid)),
		}
		c.FillText(sty, at, fmt.Sprintf("%s\n%.1f%%", s.Label, s.Value/total*100))
		start += sweep
	}
}

// DataRange implements plot.DataRanger so the pie is centred on a unit
// square.
func (p *Pie) DataRange() (xmin, xmax, ymin, ymax float64) {
	return -1, 1, -1, 1
}
