package jetmet

import (
	"image/color"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Point is a measurement with a bin extent in x and a symmetric error in y.
type Point struct {
	X, XLow, XHigh float64
	Y, YErr        float64
}

// Points implements plotter.XYer, plotter.XErrorer and plotter.YErrorer.
type Points []Point

func (p Points) Len() int { return len(p) }

func (p Points) XY(i int) (float64, float64) { return p[i].X, p[i].Y }

func (p Points) XError(i int) (float64, float64) {
	return p[i].X - p[i].XLow, p[i].XHigh - p[i].X
}

func (p Points) YError(i int) (float64, float64) { return p[i].YErr, p[i].YErr }

var (
	Black = color.RGBA{A: 255}
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
)

// LineColor picks the colour of the i-th overlaid curve.
func LineColor(i int) color.Color {
	switch i % 6 {
	case 1:
		return Red
	case 2:
		return Blue
	case 3:
		return color.RGBA{G: 160, A: 255}
	case 4:
		return color.RGBA{R: 255, B: 127, G: 127, A: 255}
	case 5:
		return color.RGBA{R: 160, B: 160, A: 255}
	}
	return Black
}

// NewPlot returns a plot with the axis labels and tickers used everywhere.
func NewPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.Padding = 2 * vg.Millimeter
	return p
}

// AddPoints draws pts as x/y error bars with a marker. Empty sets are
// skipped so that absent bins never show up as zeros.
func AddPoints(p *plot.Plot, pts Points, c color.Color, dashed bool, label string) error {
	if len(pts) == 0 {
		return nil
	}

	errPoints := plotutil.ErrorPoints{
		XYs:     make(plotter.XYs, len(pts)),
		XErrors: make(plotter.XErrors, len(pts)),
		YErrors: make(plotter.YErrors, len(pts)),
	}
	for i := range pts {
		errPoints.XYs[i].X, errPoints.XYs[i].Y = pts.XY(i)
		errPoints.XErrors[i].Low, errPoints.XErrors[i].High = pts.XError(i)
		errPoints.YErrors[i].Low, errPoints.YErrors[i].High = pts.YError(i)
	}

	xerr, err := plotter.NewXErrorBars(errPoints)
	if err != nil {
		return errors.Wrap(err, "x error bars")
	}
	yerr, err := plotter.NewYErrorBars(errPoints)
	if err != nil {
		return errors.Wrap(err, "y error bars")
	}
	marker, err := plotter.NewScatter(errPoints)
	if err != nil {
		return errors.Wrap(err, "markers")
	}

	xerr.LineStyle.Color = c
	yerr.LineStyle.Color = c
	if dashed {
		xerr.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		yerr.LineStyle.Dashes = xerr.LineStyle.Dashes
	}
	marker.GlyphStyle.Color = c
	marker.GlyphStyle.Radius = vg.Points(1.5)

	p.Add(xerr, yerr, marker)
	if label != "" {
		p.Legend.Add(label, marker)
	}
	return nil
}

// SaveHeatMap renders grid with a vertical colour bar spanning [zMin, zMax].
func SaveHeatMap(grid plotter.GridXYZ, zMin, zMax float64, title, xLabel, yLabel, output string) error {
	p := NewPlot(title, xLabel, yLabel)

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(zMin)
	colorMap.SetMax(zMax)
	pal := colorMap.Palette(1000)
	heatMap := plotter.NewHeatMap(grid, pal)
	heatMap.Min = zMin
	heatMap.Max = zMax
	heatMap.Underflow = pal.Colors()[0]
	heatMap.Overflow = pal.Colors()[len(pal.Colors())-1]
	p.Add(heatMap)

	p.Draw(dc0)

	p = plot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}

	p.Draw(dc1)

	w, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "create %s", output)
	}
	defer w.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		return errors.Wrapf(err, "write %s", output)
	}
	return w.Close()
}
