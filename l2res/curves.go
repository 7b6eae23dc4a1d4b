package l2res

import (
	jetmet "github.com/hatakeyamak/JetMET"
)

// PtCurve is the response versus pT for one eta bin. Only accepted bins
// are present.
func (r *Results) PtCurve(v Var, sample string, sign Sign, eta int) jetmet.Points {
	var pts jetmet.Points
	for i, pt := range r.Binning.PtBins() {
		resp, ok := r.Get(BinKey{v, sample, sign, eta, i})
		if !ok {
			continue
		}
		pts = append(pts, jetmet.Point{
			X: pt.Center(), XLow: pt.Lo, XHigh: pt.Hi,
			Y: resp.Value, YErr: resp.Error,
		})
	}
	return pts
}

// EtaCurve is the response versus signed eta for one pT bin, built from
// the signed bins.
func (r *Results) EtaCurve(v Var, sample string, pt int) jetmet.Points {
	etaBins := r.Binning.EtaBins()
	var pts jetmet.Points
	for i := len(etaBins) - 1; i >= 0; i-- {
		if resp, ok := r.Get(BinKey{v, sample, NegEta, i, pt}); ok {
			eta := etaBins[i]
			pts = append(pts, jetmet.Point{
				X: -eta.Center(), XLow: -eta.Hi, XHigh: -eta.Lo,
				Y: resp.Value, YErr: resp.Error,
			})
		}
	}
	for i, eta := range etaBins {
		if resp, ok := r.Get(BinKey{v, sample, PosEta, i, pt}); ok {
			pts = append(pts, jetmet.Point{
				X: eta.Center(), XLow: eta.Lo, XHigh: eta.Hi,
				Y: resp.Value, YErr: resp.Error,
			})
		}
	}
	return pts
}
