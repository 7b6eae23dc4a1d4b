// Package l2res measures L2 residual jet responses from dijet balance skims.
//
// Dijet events are binned in probe-jet pseudorapidity and an average pT.
// The pT balance (A) and MPF (B) asymmetries of each bin are converted to a
// relative response for simulation and data.
package l2res

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Asymmetry axis.
const (
	SymBins = 96
	SymLow  = -1.2
	SymHigh = 1.2
)

// AbsEtaThresholds are the |eta| bin edges.
var AbsEtaThresholds = []float64{
	0, 0.261, 0.522, 0.783, 1.044, 1.305, 1.479, 1.653, 1.930, 2.172, 2.322,
	2.500, 2.650, 2.853, 2.964, 3.139, 3.489, 3.839, 5.191,
}

// PtAvgThresholds are the default pT bin edges.
var PtAvgThresholds = []float64{51, 73, 95, 163, 230, 299, 365, 453, 566, 1000, 2000}

// EtaThresholds mirrors AbsEtaThresholds into signed edges.
func EtaThresholds() []float64 {
	n := len(AbsEtaThresholds)
	edges := make([]float64, 0, 2*n-1)
	for i := n - 1; i > 0; i-- {
		edges = append(edges, -AbsEtaThresholds[i])
	}
	return append(edges, AbsEtaThresholds...)
}

// Range is a bin [Lo, Hi).
type Range struct {
	Lo, Hi float64
}

func (r Range) Center() float64 { return 0.5 * (r.Lo + r.Hi) }

func (r Range) Width() float64 { return r.Hi - r.Lo }

func ranges(edges []float64) []Range {
	rs := make([]Range, len(edges)-1)
	for i := range rs {
		rs[i] = Range{edges[i], edges[i+1]}
	}
	return rs
}

// Sign selects the probe jet hemisphere of a bin.
type Sign int

const (
	NegEta Sign = iota
	PosEta
	AbsEta
)

var Signs = []Sign{NegEta, PosEta, AbsEta}

func (s Sign) String() string {
	switch s {
	case NegEta:
		return "neg_eta"
	case PosEta:
		return "pos_eta"
	case AbsEta:
		return "abs_eta"
	}
	return fmt.Sprintf("Sign(%d)", int(s))
}

func ParseSign(s string) (Sign, error) {
	for _, sign := range Signs {
		if sign.String() == s {
			return sign, nil
		}
	}
	return 0, errors.Errorf("unknown sign %q", s)
}

// EtaLabel describes an |eta| bin for sign.
func (s Sign) EtaLabel(r Range) string {
	switch s {
	case NegEta:
		return fmt.Sprintf("%4.3f <= eta < %4.3f", -r.Hi, -r.Lo)
	case AbsEta:
		return fmt.Sprintf("%4.3f <= |eta| < %4.3f", r.Lo, r.Hi)
	}
	return fmt.Sprintf("%4.3f <= eta < %4.3f", r.Lo, r.Hi)
}

// Binning holds the |eta| and pT bin edges.
type Binning struct {
	AbsEta []float64
	Pt     []float64
}

// NewBinning validates the pT edges. Nil selects PtAvgThresholds.
func NewBinning(pt []float64) (Binning, error) {
	if pt == nil {
		pt = PtAvgThresholds
	}
	if len(pt) < 2 {
		return Binning{}, errors.Errorf("need at least two pT thresholds, got %v", pt)
	}
	if !sort.Float64sAreSorted(pt) {
		return Binning{}, errors.Errorf("pT thresholds not ascending: %v", pt)
	}
	for i := 1; i < len(pt); i++ {
		if pt[i] == pt[i-1] {
			return Binning{}, errors.Errorf("repeated pT threshold %v", pt[i])
		}
	}
	return Binning{AbsEta: AbsEtaThresholds, Pt: pt}, nil
}

func (b Binning) EtaBins() []Range { return ranges(b.AbsEta) }

func (b Binning) PtBins() []Range { return ranges(b.Pt) }

// EtaBin returns the hemisphere and |eta| bin of a signed eta. Bins are
// closed at the low signed edge, so negative eta bins are (lo, hi] in
// |eta|. ok is false outside the edges.
func (b Binning) EtaBin(eta float64) (sign Sign, bin int, ok bool) {
	if eta < 0 {
		i := sort.SearchFloat64s(b.AbsEta, -eta)
		if i == 0 || i == len(b.AbsEta) {
			return NegEta, -1, false
		}
		return NegEta, i - 1, true
	}
	i := findBin(b.AbsEta, eta)
	return PosEta, i, i >= 0
}

// PtBin returns the pT bin or -1.
func (b Binning) PtBin(pt float64) int {
	return findBin(b.Pt, pt)
}

// findBin returns i with edges[i] <= x < edges[i+1], or -1.
func findBin(edges []float64, x float64) int {
	i := sort.Search(len(edges), func(i int) bool { return edges[i] > x })
	if i == 0 || i == len(edges) {
		return -1
	}
	return i - 1
}
