package l2res

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	jetmet "github.com/hatakeyamak/JetMET"
)

const plotWidth, plotHeight = 6 * vg.Inch, 4 * vg.Inch

func (o *Output) title() string {
	return o.Options.Era + " (13 TeV)"
}

// addCurves draws data black, simulation red, and the balance method
// dashed.
func (o *Output) addCurves(p *plot.Plot, curve func(v Var, sample string) jetmet.Points) error {
	for _, v := range []Var{VarB, VarA} {
		for _, s := range []Sample{o.MC, o.Data} {
			c := jetmet.Red
			if s.Name == o.Data.Name {
				c = jetmet.Black
			}
			label := fmt.Sprintf("%s (%s)", s.Name, v.Label())
			if err := jetmet.AddPoints(p, curve(v, s.Name), c, v == VarA, label); err != nil {
				return errors.Wrap(err, label)
			}
		}
	}
	return nil
}

func save(p *plot.Plot, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return errors.Wrapf(err, "create %s", filepath.Dir(output))
	}
	return errors.Wrapf(p.Save(plotWidth, plotHeight, output), "save %s", output)
}

// PlotResponses draws the response versus pT of every eta bin and the
// response versus eta of every pT bin.
func (o *Output) PlotResponses(logger *slog.Logger) error {
	mode := o.Results.Mode
	ptLabel := o.Options.PtBinningVar.Label() + " (GeV)"
	etaBins, ptBins := o.Results.Binning.EtaBins(), o.Results.Binning.PtBins()

	n := 0
	for i, eta := range etaBins {
		for _, sign := range Signs {
			p := jetmet.NewPlot(o.title(), ptLabel, "response")
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
			p.Legend.Add(sign.EtaLabel(eta))
			p.Legend.Add(mode.Description())

			err := o.addCurves(p, func(v Var, sample string) jetmet.Points {
				return o.Results.PtCurve(v, sample, sign, i)
			})
			if err != nil {
				return err
			}
			p.X.Min, p.X.Max = ptBins[0].Lo, ptBins[len(ptBins)-1].Hi
			p.Y.Min, p.Y.Max = 0.5, 1.5
			name := fmt.Sprintf("response_pt_%s_%s_eta_%d_%d.png", mode, sign, int(1000*eta.Lo), int(1000*eta.Hi))
			if err := save(p, filepath.Join(o.PlotDir, name)); err != nil {
				return err
			}
			n++
		}
	}

	for i, pt := range ptBins {
		p := jetmet.NewPlot(o.title(), "eta", "response")
		p.Legend.Add(fmt.Sprintf("%d <= %s < %d", int(pt.Lo), o.Options.PtBinningVar.Label(), int(pt.Hi)))
		p.Legend.Add(mode.Description())

		err := o.addCurves(p, func(v Var, sample string) jetmet.Points {
			return o.Results.EtaCurve(v, sample, i)
		})
		if err != nil {
			return err
		}
		p.X.Min, p.X.Max = -etaBins[len(etaBins)-1].Hi, etaBins[len(etaBins)-1].Hi
		p.Y.Min, p.Y.Max = 0.5, 1.5
		name := fmt.Sprintf("response_eta_%s_pt_%d_%d.png", mode, int(pt.Lo), int(pt.Hi))
		if err := save(p, filepath.Join(o.PlotDir, name)); err != nil {
			return err
		}
		n++
	}
	logger.Info("drawn response plots", "n", n, "directory", o.PlotDir)
	return nil
}

// normalizedLine is h scaled to unit integral as a polyline through the
// non-empty bins.
func normalizedLine(h *hbook.H1D) (plotter.XYs, bool) {
	integral := 0.0
	for _, bin := range h.Binning.Bins {
		integral += bin.SumW()
	}
	if integral <= 0 {
		return nil, false
	}
	var xys plotter.XYs
	for _, bin := range h.Binning.Bins {
		if bin.SumW() <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{
			X: 0.5 * (bin.Range.Min + bin.Range.Max),
			Y: bin.SumW() / integral,
		})
	}
	return xys, true
}

// PlotShapes draws, per sample, variable and eta bin, the normalised
// asymmetry distributions of all pT bins.
func (o *Output) PlotShapes(logger *slog.Logger) error {
	if o.Table == nil {
		return nil
	}
	etaBins, ptBins := o.Table.Binning.EtaBins(), o.Table.Binning.PtBins()
	ptLabel := o.Options.PtBinningVar.Label()

	n := 0
	for _, v := range Vars {
		for _, s := range []Sample{o.MC, o.Data} {
			for _, sign := range Signs {
				for i, eta := range etaBins {
					p := jetmet.NewPlot(o.title(), string(v), "Number of Events")
					p.Y.Scale = plot.LogScale{}
					p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
					p.Y.Min = 0.0003
					p.Legend.Left = false
					p.Legend.Add(sign.EtaLabel(eta))

					drawn := 0
					for j, pt := range ptBins {
						h := o.Table.H1D(BinKey{v, s.Name, sign, i, j})
						if h == nil {
							continue
						}
						xys, ok := normalizedLine(h)
						if !ok {
							continue
						}
						line, err := plotter.NewLine(xys)
						if err != nil {
							return errors.Wrap(err, "shape")
						}
						line.LineStyle.Color = jetmet.LineColor(j)
						p.Add(line)
						p.Legend.Add(fmt.Sprintf("%d <= %s < %d", int(pt.Lo), ptLabel, int(pt.Hi)), line)
						drawn++
					}
					if drawn == 0 {
						continue
					}

					short := strings.Replace(s.Name, "_"+o.Options.Era, "", 1)
					name := fmt.Sprintf("%s_%s_%s_%d_%d.png", short, v, sign, int(1000*eta.Lo), int(1000*eta.Hi))
					if err := save(p, filepath.Join(o.PlotDir, "log", name)); err != nil {
						return err
					}
					n++
				}
			}
		}
	}
	logger.Info("drawn shape plots", "n", n)
	return nil
}
