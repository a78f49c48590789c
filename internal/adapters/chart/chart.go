// Package chart renders the four-panel sentiment figure: label share, rating
// distribution, rating by label and polarity distribution.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"feedback_analyzer/internal/domain"
)

const (
	RatingBins   = 5
	PolarityBins = 15
)

var ErrNoData = errors.New("chart: no scored reviews")

var sentimentColors = map[domain.Sentiment]color.Color{
	domain.Positive: color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
	domain.Negative: color.RGBA{R: 0xf4, G: 0x43, B: 0x36, A: 0xff},
	domain.Neutral:  color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff},
}

var (
	width  = 15 * vg.Inch
	height = 12 * vg.Inch
)

// Render writes a PNG of the 2x2 figure for scored to w.
func Render(w io.Writer, scored []domain.ScoredReview) error {
	if len(scored) == 0 {
		return ErrNoData
	}

	plots := [][]*plot.Plot{
		{sentimentPie(scored), ratingHistogram(scored)},
		{ratingBoxes(scored), polarityHistogram(scored)},
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	t := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, t, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// WriteFile renders the figure into path.
func WriteFile(path string, scored []domain.ScoredReview) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(f, scored); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func sentimentPie(scored []domain.ScoredReview) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Sentiment Distribution"
	p.HideAxes()

	counts := map[domain.Sentiment]int{}
	for _, sr := range scored {
		counts[sr.Sentiment]++
	}
	pie := &Pie{}
	for _, s := range domain.DistributionOrder {
		if n := counts[s]; n > 0 {
			pie.Slices = append(pie.Slices, Slice{Label: s.String(), Value: float64(n), Color: sentimentColors[s]})
		}
	}
	p.Add(pie)
	return p
}

func ratingHistogram(scored []domain.ScoredReview) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Rating Distribution"
	p.X.Label.Text = "Rating"
	p.Y.Label.Text = "Frequency"

	var ratings []float64
	for _, sr := range scored {
		if sr.Rating != nil {
			ratings = append(ratings, *sr.Rating)
		}
	}
	if len(ratings) == 0 {
		return p
	}
	h, err := hist(ratings, RatingBins, color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff})
	if err != nil {
		return p
	}
	p.Add(h)
	return p
}

// ratingBoxes draws one box per label that has rated reviews, labels in
// alphabetical order.
func ratingBoxes(scored []domain.ScoredReview) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Rating by Sentiment"
	p.Y.Label.Text = "Rating"

	by := map[domain.Sentiment]plotter.Values{}
	for _, sr := range scored {
		if sr.Rating != nil {
			by[sr.Sentiment] = append(by[sr.Sentiment], *sr.Rating)
		}
	}

	var names []string
	for _, s := range domain.AlphabeticalOrder {
		vals := by[s]
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), vals)
		if err != nil {
			continue
		}
		b.FillColor = sentimentColors[s]
		p.Add(b)
		names = append(names, s.String())
	}
	if len(names) > 0 {
		p.NominalX(names...)
	}
	return p
}

func polarityHistogram(scored []domain.ScoredReview) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Polarity Distribution"
	p.X.Label.Text = "Polarity"
	p.Y.Label.Text = "Frequency"

	pols := make([]float64, 0, len(scored))
	for _, sr := range scored {
		pols = append(pols, sr.Polarity)
	}
	h, err := hist(pols, PolarityBins, color.RGBA{R: 0x90, G: 0xee, B: 0x90, A: 0xff})
	if err != nil {
		return p
	}
	p.Add(h)

	var top float64
	for _, b := range h.Bins {
		top = math.Max(top, b.Weight)
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 0, Y: top}})
	if err == nil {
		zero.Color = sentimentColors[domain.Negative]
		zero.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(zero)
	}
	return p
}

// hist bins vals into n equal-width bins over their range. A single
// distinct value gets one unit-width bin.
func hist(vals []float64, n int, fill color.Color) (*plotter.Histogram, error) {
	h, err := plotter.NewHist(plotter.Values(vals), n)
	if err != nil {
		return nil, err
	}
	h.FillColor = fill
	return h, nil
}
