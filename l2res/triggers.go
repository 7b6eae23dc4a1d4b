package l2res

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Trigger is an HLT path. In exclusive suites an event firing the path only
// counts when its average pT lies in [PtLo, PtHi).
type Trigger struct {
	Name       string
	PtLo, PtHi float64
}

type TriggerSuite struct {
	Name      string
	Exclusive bool
	Triggers  []Trigger
}

func inclusive(name string, paths ...string) TriggerSuite {
	s := TriggerSuite{Name: name}
	for _, p := range paths {
		s.Triggers = append(s.Triggers, Trigger{Name: p})
	}
	return s
}

// exclusive assigns consecutive pT windows from edges to paths; the last
// window is open ended.
func exclusive(name string, paths []string, edges []float64) TriggerSuite {
	s := TriggerSuite{Name: name, Exclusive: true}
	for i, p := range paths {
		hi := math.Inf(1)
		if i+1 < len(edges) {
			hi = edges[i+1]
		}
		s.Triggers = append(s.Triggers, Trigger{Name: p, PtLo: edges[i], PtHi: hi})
	}
	return s
}

var (
	diPFJetAve = []string{
		"HLT_DiPFJetAve40", "HLT_DiPFJetAve60", "HLT_DiPFJetAve80",
		"HLT_DiPFJetAve140", "HLT_DiPFJetAve200", "HLT_DiPFJetAve260",
		"HLT_DiPFJetAve320", "HLT_DiPFJetAve400", "HLT_DiPFJetAve500",
	}
	pfJet = []string{
		"HLT_PFJet40", "HLT_PFJet60", "HLT_PFJet80", "HLT_PFJet140",
		"HLT_PFJet200", "HLT_PFJet260", "HLT_PFJet320", "HLT_PFJet400",
		"HLT_PFJet450", "HLT_PFJet500",
	}
	diPFJetAveHFJEC = []string{
		"HLT_DiPFJetAve60_HFJEC", "HLT_DiPFJetAve80_HFJEC",
		"HLT_DiPFJetAve100_HFJEC", "HLT_DiPFJetAve160_HFJEC",
		"HLT_DiPFJetAve220_HFJEC", "HLT_DiPFJetAve300_HFJEC",
	}
)

// TriggerSuites are the selectable --triggers values.
var TriggerSuites = map[string]TriggerSuite{
	"DiPFJetAve":       inclusive("DiPFJetAve", diPFJetAve...),
	"PFJet":            inclusive("PFJet", pfJet...),
	"DiPFJetAve_HFJEC": inclusive("DiPFJetAve_HFJEC", diPFJetAveHFJEC...),
	"exclDiPFJetAve": exclusive("exclDiPFJetAve", diPFJetAve,
		[]float64{51, 73, 95, 163, 230, 299, 365, 453, 566}),
	"exclPFJet": exclusive("exclPFJet", pfJet,
		[]float64{66, 95, 121, 200, 273, 345, 411, 495, 518, 566}),
	"exclDiPFJetAveHFJEC": exclusive("exclDiPFJetAveHFJEC", diPFJetAveHFJEC,
		[]float64{73, 93, 113, 176, 239, 318}),
}

// TriggerSuiteNames lists TriggerSuites in a stable order.
func TriggerSuiteNames() []string {
	names := make([]string, 0, len(TriggerSuites))
	for name := range TriggerSuites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupTriggers(name string) (TriggerSuite, error) {
	s, ok := TriggerSuites[name]
	if !ok {
		return TriggerSuite{}, errors.Wrapf(ErrUnknownTriggers, "%q (want one of %s)", name, strings.Join(TriggerSuiteNames(), ", "))
	}
	return s, nil
}

// Branches are the trigger bits the suite reads.
func (s TriggerSuite) Branches() []string {
	names := make([]string, len(s.Triggers))
	for i, t := range s.Triggers {
		names[i] = t.Name
	}
	return names
}

// Pass reports whether any trigger of the suite accepts d.
func (s TriggerSuite) Pass(d *Dijet) bool {
	for _, t := range s.Triggers {
		if !d.Triggers[t.Name] {
			continue
		}
		if !s.Exclusive || (d.PtAvg >= t.PtLo && d.PtAvg < t.PtHi) {
			return true
		}
	}
	return false
}

// Expr is the suite as a selection string, with pt_avg renamed for the JER
// variation.
func (s TriggerSuite) Expr(jer string) string {
	terms := make([]string, len(s.Triggers))
	for i, t := range s.Triggers {
		switch {
		case !s.Exclusive:
			terms[i] = t.Name
		case math.IsInf(t.PtHi, 1):
			terms[i] = fmt.Sprintf("%s&&pt_avg%s>=%g", t.Name, jer, t.PtLo)
		default:
			terms[i] = fmt.Sprintf("%s&&pt_avg%s>=%g&&pt_avg%s<%g", t.Name, jer, t.PtLo, jer, t.PtHi)
		}
	}
	return "(" + strings.Join(terms, "||") + ")"
}

// TriggerCut wraps the suite as a Cut.
func (s TriggerSuite) TriggerCut(jer string) Cut {
	return Cut{Name: s.Name, Expr: s.Expr(jer), Pass: s.Pass}
}
