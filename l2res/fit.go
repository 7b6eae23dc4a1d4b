package l2res

import (
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/fit"
	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	jetmet "github.com/hatakeyamak/JetMET"
)

// FitRange is the half width of the fitted core in units of the
// distribution's standard deviation.
const FitRange = 1.5

type GaussFit struct {
	Norm, Mean, Sigma float64
	MeanErr           float64
	Chi2              float64
	NDF               int
}

func gauss(x float64, ps []float64) float64 {
	v := (x - ps[1]) / ps[2]
	return ps[0] * math.Exp(-0.5*v*v)
}

// GaussianFit fits a Gaussian to the core of h by chi2 minimisation. The
// mean uncertainty comes from the inverse Hessian of the chi2.
func GaussianFit(h *hbook.H1D) (GaussFit, error) {
	mean, sigma := h.XMean(), h.XStdDev()
	if math.IsNaN(mean) || !(sigma > 0) {
		return GaussFit{}, errors.Wrapf(ErrFitFailed, "no spread (mean %v, stddev %v)", mean, sigma)
	}
	lo, hi := mean-FitRange*sigma, mean+FitRange*sigma

	var xs, ys, errs []float64
	norm := 0.0
	for _, bin := range h.Binning.Bins {
		x := 0.5 * (bin.Range.Min + bin.Range.Max)
		sumW := bin.SumW()
		if sumW == 0 || x < lo || x > hi {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, sumW)
		errs = append(errs, math.Sqrt(bin.SumW2()))
		norm = math.Max(norm, sumW)
	}
	if len(xs) < 3 {
		return GaussFit{}, errors.Wrapf(ErrFitFailed, "%d bins in fit range", len(xs))
	}

	res, err := fit.Curve1D(
		fit.Func1D{
			F:   gauss,
			X:   xs,
			Y:   ys,
			Err: errs,
			Ps:  []float64{norm, mean, sigma},
		},
		nil, &optimize.NelderMead{},
	)
	if err != nil {
		return GaussFit{}, errors.Wrapf(ErrFitFailed, "minimise: %v", err)
	}

	chi2 := func(ps []float64) float64 {
		sum := 0.0
		for i, x := range xs {
			r := (ys[i] - gauss(x, ps)) / errs[i]
			sum += r * r
		}
		return sum
	}

	var hess mat.SymDense
	fd.Hessian(&hess, chi2, res.X, &fd.Settings{Formula: fd.Central})
	var cov mat.Dense
	if err := cov.Inverse(&hess); err != nil {
		return GaussFit{}, errors.Wrapf(ErrFitFailed, "invert hessian: %v", err)
	}
	// chi2 curvature is twice the inverse covariance.
	meanErr := math.Sqrt(2 * cov.At(1, 1))
	if math.IsNaN(meanErr) || meanErr <= 0 {
		return GaussFit{}, errors.Wrapf(ErrFitFailed, "bad mean uncertainty %v", meanErr)
	}

	return GaussFit{
		Norm:    res.X[0],
		Mean:    res.X[1],
		Sigma:   math.Abs(res.X[2]),
		MeanErr: meanErr,
		Chi2:    res.F,
		NDF:     len(xs) - 3,
	}, nil
}

// Fitter fits asymmetry distributions and, with a non-empty PlotDir, draws
// each fit there.
type Fitter struct {
	PlotDir string
}

func (f *Fitter) Fit(key BinKey, h *hbook.H1D, b Binning) (GaussFit, error) {
	res, err := GaussianFit(h)
	if err != nil || f == nil || f.PlotDir == "" {
		return res, err
	}
	output := filepath.Join(f.PlotDir, fitName(key, b)+".png")
	return res, errors.Wrap(PlotFit(h, res, string(key.Var)+"-symmetry", output), "fit plot")
}

// PlotFit draws h with the fitted Gaussian on top.
func PlotFit(h *hbook.H1D, res GaussFit, xLabel, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(output))
	}

	p := jetmet.NewPlot("", xLabel, "Number of Events")
	hp := hplot.NewH1D(h)
	hp.FillColor = nil
	hp.LineStyle.Color = jetmet.Black
	hp.Infos.Style = hplot.HInfoNone
	p.Add(hp)

	ps := []float64{res.Norm, res.Mean, res.Sigma}
	curve := plotter.NewFunction(func(x float64) float64 { return gauss(x, ps) })
	curve.XMin = res.Mean - FitRange*res.Sigma
	curve.XMax = res.Mean + FitRange*res.Sigma
	curve.Samples = 200
	curve.LineStyle.Color = jetmet.Red
	curve.LineStyle.Width = vg.Points(1.5)
	p.Add(curve)
	p.Legend.Add("Gaussian fit", curve)

	return p.Save(6*vg.Inch, 4*vg.Inch, output)
}
