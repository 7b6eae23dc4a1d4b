package match

import (
	"math"

	"go-hep.org/x/hep/hbook"

	jetmet "github.com/hatakeyamak/JetMET"
)

// Profile1D accumulates the mean of a value per x bin. hbook.P1D bins
// expose x statistics only and are always uniform.
type Profile1D struct {
	hCount, hV, hV2 *hbook.H1D
}

func NewProfile1D(nBins int, xLow, xHigh float64) *Profile1D {
	return &Profile1D{
		hbook.NewH1D(nBins, xLow, xHigh),
		hbook.NewH1D(nBins, xLow, xHigh),
		hbook.NewH1D(nBins, xLow, xHigh),
	}
}

func NewProfile1DFromEdges(edges []float64) *Profile1D {
	return &Profile1D{
		hbook.NewH1DFromEdges(edges),
		hbook.NewH1DFromEdges(edges),
		hbook.NewH1DFromEdges(edges),
	}
}

func (p *Profile1D) Fill(x, v, w float64) {
	p.hCount.Fill(x, w)
	p.hV.Fill(x, v*w)
	p.hV2.Fill(x, v*v*w)
}

func (p *Profile1D) Len() int {
	return p.hCount.Len()
}

// Bin returns the mean, the error on the mean and the sum of weights of
// bin i.
func (p *Profile1D) Bin(i int) (mean, err, n float64) {
	n = p.hCount.Binning.Bins[i].SumW()
	if n <= 0 {
		return 0, 0, n
	}
	mean = p.hV.Binning.Bins[i].SumW() / n
	variance := p.hV2.Binning.Bins[i].SumW()/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance / n), n
}

// Points returns the filled bins only.
func (p *Profile1D) Points() jetmet.Points {
	var pts jetmet.Points
	for i, bin := range p.hCount.Binning.Bins {
		mean, err, n := p.Bin(i)
		if n <= 0 {
			continue
		}
		pts = append(pts, jetmet.Point{
			X:     0.5 * (bin.Range.Min + bin.Range.Max),
			XLow:  bin.Range.Min,
			XHigh: bin.Range.Max,
			Y:     mean,
			YErr:  err,
		})
	}
	return pts
}

// ProfileGrid is the two dimensional Profile1D. It implements
// plotter.GridXYZ; empty cells read as Empty.
type ProfileGrid struct {
	hCount, hV     *hbook.H2D
	nBinsX, nBinsY int
	Empty          float64
}

func NewProfileGrid(nBinsX int, xLow, xHigh float64, nBinsY int, yLow, yHigh float64) *ProfileGrid {
	return &ProfileGrid{
		hCount: hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		hV:     hbook.NewH2D(nBinsX, xLow, xHigh, nBinsY, yLow, yHigh),
		nBinsX: nBinsX,
		nBinsY: nBinsY,
		Empty:  1,
	}
}

func (g *ProfileGrid) Fill(x, y, v, w float64) {
	g.hCount.Fill(x, y, w)
	g.hV.Fill(x, y, v*w)
}

func (g *ProfileGrid) Dims() (int, int) {
	return g.nBinsX, g.nBinsY
}

func (g *ProfileGrid) Z(i, j int) float64 {
	n := g.hCount.GridXYZ().Z(i, j)
	if n <= 0 {
		return g.Empty
	}
	return g.hV.GridXYZ().Z(i, j) / n
}

func (g *ProfileGrid) N(i, j int) float64 {
	return g.hCount.GridXYZ().Z(i, j)
}

func (g *ProfileGrid) X(i int) float64 {
	return g.hCount.GridXYZ().X(i)
}

func (g *ProfileGrid) Y(j int) float64 {
	return g.hCount.GridXYZ().Y(j)
}
