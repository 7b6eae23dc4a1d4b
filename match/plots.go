package match

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	jetmet "github.com/hatakeyamak/JetMET"
)

// RefName names the jet whose coordinates are filled.
func (o Options) RefName() string {
	if o.Plan1Ref {
		return "test"
	}
	return "ref"
}

// PlotPrefix is prepended to every output file name.
func PlotPrefix(samplePrefix string, opts Options, updateName string, maxEvents int) string {
	prefix := fmt.Sprintf("refIs%s_%s_pt%d_%s", opts.RefName(), samplePrefix, int(opts.PtThreshold), updateName)
	if maxEvents > 0 {
		prefix += fmt.Sprintf("_max_events_%d_", maxEvents)
	}
	return prefix
}

func (b EtaBand) String() string {
	return fmt.Sprintf("%g <= eta < %g", b.Lo, b.Hi)
}

// Plot writes the response profiles and the MET correlations to dir. The
// file names start with prefix.
func (r *Responses) Plot(dir, prefix string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	ref := r.RefName()
	save := func(p *plot.Plot, name string) error {
		p.Y.Min, p.Y.Max = 0.7, 1.2
		output := filepath.Join(dir, prefix+name)
		return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, output), "save %s", output)
	}

	p := jetmet.NewPlot("", ref+" jet phi", "response ratio update/ref")
	for i, band := range r.Bands {
		if err := jetmet.AddPoints(p, r.Phi[i].Points(), jetmet.LineColor(i), false, band.String()); err != nil {
			return err
		}
	}
	if err := save(p, "jetResponseRatio_relval.png"); err != nil {
		return err
	}

	p = jetmet.NewPlot("", ref+" jet pt", "response ratio update/ref")
	for i, band := range r.Bands {
		if err := jetmet.AddPoints(p, r.Pt[i].Points(), jetmet.LineColor(i), false, band.String()); err != nil {
			return err
		}
	}
	if err := save(p, "jetResponseRatio_relval_pt.png"); err != nil {
		return err
	}

	p = jetmet.NewPlot("", ref+" jet eta", "response ratio update/ref")
	if err := jetmet.AddPoints(p, r.Eta.Points(), jetmet.Black, false, ""); err != nil {
		return err
	}
	if err := save(p, "jetResponseRatio_relVal_eta.png"); err != nil {
		return err
	}

	err := jetmet.SaveHeatMap(r.EtaPhi, 0.95, 1.05, "", ref+" jet eta", ref+" jet phi",
		filepath.Join(dir, prefix+"jetResponseRatio_2D.png"))
	if err != nil {
		return err
	}

	for _, met := range []struct {
		name string
		h    *hbook.H2D
	}{{"met_2D.png", r.MET}, {"met_2D_wide.png", r.METWide}} {
		grid := met.h.GridXYZ()
		err := jetmet.SaveHeatMap(grid, 0, maxZ(grid), "", "ref PF MET", "update PF MET", filepath.Join(dir, prefix+met.name))
		if err != nil {
			return err
		}
	}
	return nil
}

func maxZ(grid plotter.GridXYZ) float64 {
	z := 1.0
	c, r := grid.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			z = math.Max(z, grid.Z(i, j))
		}
	}
	return z
}
