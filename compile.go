package pairsel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pairsel/codec"
	"github.com/hupe1980/pairsel/compare"
	"github.com/hupe1980/pairsel/match"
	"github.com/hupe1980/pairsel/report"
	"github.com/hupe1980/pairsel/resource"
	"github.com/hupe1980/pairsel/selection"
	"github.com/hupe1980/pairsel/veto"
)

const (
	defaultIsoColumn    = "iso"
	defaultChargeColumn = "charge"
	defaultBTagColumn   = "btag"
)

type pairPlan struct {
	name   string
	sel    selection.Selector
	first  Source
	second Source
}

type matchPlan struct {
	name      string
	matcher   *match.Matcher
	primary   Source
	from      *PairRef
	secondary Source
}

type otherPlan struct {
	name   string
	pair   string
	source Source
}

type bestPlan struct {
	name                   string
	source                 Source
	column                 string
	numerator, denominator string
}

type firstWithinPlan struct {
	name      string
	from      PairRef
	source    Source
	target    Source
	maxDeltaR float64
}

type vetoPlan struct {
	name         string
	kind         string
	source       Source
	against      Source
	chargeColumn string
	minDeltaR    float64
	grid         *veto.Grid
}

// plan is a validated, immutable configuration.
type plan struct {
	codec       codec.Codec
	compression *codec.Compression
	workers     int
	resources   *resource.Config
	deltaR      report.Binning
	mass        report.Binning

	pairs       []pairPlan
	matches     []matchPlan
	others      []otherPlan
	best        []bestPlan
	firstWithin []firstWithinPlan
	vetoes      []vetoPlan
}

// compile validates c and builds the selectors. A positive epsOverride
// replaces the configured tie tolerance.
func compile(c *Config, epsOverride float64) (*plan, error) {
	if c == nil {
		return nil, &ConfigError{Field: "config", Reason: "is nil"}
	}
	if err := c.checkStruct(); err != nil {
		return nil, err
	}
	if err := checkUniqueNames(c); err != nil {
		return nil, err
	}

	p := &plan{workers: c.Workers, deltaR: report.DefaultDeltaRBinning, mass: report.DefaultMassBinning}

	cd, _ := codec.ByName(c.Codec)
	p.codec = cd
	if c.Compression != "" {
		comp, err := codec.ParseCompression(c.Compression)
		if err != nil {
			return nil, configError("compression", err)
		}
		p.compression = &comp
	}
	if c.Resources != nil {
		rc := *c.Resources
		p.resources = &rc
	}
	if c.Report != nil {
		if b := c.Report.DeltaR; b != nil {
			if err := b.Validate(); err != nil {
				return nil, configError("report.delta_r", err)
			}
			p.deltaR = *b
		}
		if b := c.Report.Mass; b != nil {
			if err := b.Validate(); err != nil {
				return nil, configError("report.mass", err)
			}
			p.mass = *b
		}
	}

	eps := c.Epsilon
	if epsOverride > 0 {
		eps = epsOverride
	}
	if eps == 0 {
		eps = compare.DefaultEpsilon
	}

	pairs := make(map[string]pairPlan, len(c.Pairs))
	for i, step := range c.Pairs {
		pp, err := compilePair(step, eps)
		if err != nil {
			return nil, prefixField(fmt.Sprintf("pairs[%d]", i), err)
		}
		pairs[pp.name] = pp
		p.pairs = append(p.pairs, pp)
	}

	for i, step := range c.Matches {
		field := fmt.Sprintf("matches[%d]", i)
		mp := matchPlan{name: step.Name, secondary: step.Secondary}
		m, err := match.NewMatcher(step.MaxDeltaR)
		if err != nil {
			return nil, configError(field+".max_delta_r", err)
		}
		mp.matcher = m

		if step.From != nil {
			ref := *step.From
			if ref.Slot == "" {
				ref.Slot = SlotBoth
			}
			src, err := slotSource(pairs, ref)
			if err != nil {
				return nil, prefixField(field+".from", err)
			}
			mp.from = &ref
			mp.primary = src
		} else {
			mp.primary = *step.Primary
		}
		p.matches = append(p.matches, mp)
	}

	for i, step := range c.Others {
		field := fmt.Sprintf("others[%d]", i)
		pp, ok := pairs[step.Pair]
		if !ok {
			return nil, &ConfigError{Field: field + ".pair", Reason: fmt.Sprintf("unknown pair step %q", step.Pair)}
		}
		if step.Source.Mask == "" {
			return nil, &ConfigError{Field: field + ".source.mask", Reason: "is required"}
		}
		if pp.second.Collection != step.Source.Collection {
			return nil, &ConfigError{Field: field + ".source.collection",
				Reason: fmt.Sprintf("second object of pair %q is not from %q", step.Pair, step.Source.Collection)}
		}
		p.others = append(p.others, otherPlan{name: step.Name, pair: step.Pair, source: step.Source})
	}

	for _, step := range c.Best {
		p.best = append(p.best, bestPlan{
			name:        step.Name,
			source:      step.Source,
			column:      step.Column,
			numerator:   step.Numerator,
			denominator: step.Denominator,
		})
	}

	for i, step := range c.FirstWithin {
		field := fmt.Sprintf("first_within[%d]", i)
		ref := step.From
		if ref.Slot == "" {
			ref.Slot = SlotFirst
		}
		if ref.Slot == SlotBoth {
			return nil, &ConfigError{Field: field + ".from.slot", Reason: "must name a single slot"}
		}
		src, err := slotSource(pairs, ref)
		if err != nil {
			return nil, prefixField(field+".from", err)
		}
		p.firstWithin = append(p.firstWithin, firstWithinPlan{
			name:      step.Name,
			from:      ref,
			source:    src,
			target:    step.Target,
			maxDeltaR: step.MaxDeltaR,
		})
	}

	for i, step := range c.Vetoes {
		field := fmt.Sprintf("vetoes[%d]", i)
		vp := vetoPlan{name: step.Name, kind: step.Kind, source: step.Source, minDeltaR: step.MinDeltaR}
		switch step.Kind {
		case VetoDilepton:
			vp.chargeColumn = step.ChargeColumn
			if vp.chargeColumn == "" {
				vp.chargeColumn = defaultChargeColumn
			}
		case VetoMap:
			if err := step.Map.Validate(); err != nil {
				return nil, configError(field+".map", err)
			}
			vp.grid = step.Map
			vp.against = *step.Against
		case VetoClean:
			vp.against = *step.Against
		}
		p.vetoes = append(p.vetoes, vp)
	}

	return p, nil
}

func checkUniqueNames(c *Config) error {
	type named struct{ field, name string }
	var steps []named
	for i, s := range c.Pairs {
		steps = append(steps, named{fmt.Sprintf("pairs[%d].name", i), s.Name})
	}
	for i, s := range c.Matches {
		steps = append(steps, named{fmt.Sprintf("matches[%d].name", i), s.Name})
	}
	for i, s := range c.Others {
		steps = append(steps, named{fmt.Sprintf("others[%d].name", i), s.Name})
	}
	for i, s := range c.Best {
		steps = append(steps, named{fmt.Sprintf("best[%d].name", i), s.Name})
	}
	for i, s := range c.FirstWithin {
		steps = append(steps, named{fmt.Sprintf("first_within[%d].name", i), s.Name})
	}
	for i, s := range c.Vetoes {
		steps = append(steps, named{fmt.Sprintf("vetoes[%d].name", i), s.Name})
	}

	seen := make(map[string]string, len(steps))
	for _, s := range steps {
		if prev, ok := seen[s.name]; ok {
			return &ConfigError{Field: s.field, Reason: fmt.Sprintf("step name %q already used by %s", s.name, prev)}
		}
		seen[s.name] = s.field
	}
	return nil
}

// applyPreset fills the fields of a standard channel that step leaves
// empty.
func applyPreset(step PairStep) (PairStep, error) {
	var kind string
	switch step.Preset {
	case "":
		return step, nil
	case "mt", "et":
		kind = string(selection.KindCross)
	case "tt":
		kind = string(selection.KindSame)
	case "bb":
		kind = string(selection.KindAnchored)
		if step.Column == "" {
			step.Column = defaultBTagColumn
		}
	}
	if step.Kind != "" && step.Kind != kind {
		return step, &ConfigError{Field: "kind", Reason: fmt.Sprintf("preset %q implies %s", step.Preset, kind)}
	}
	step.Kind = kind
	if kind != string(selection.KindAnchored) && step.Ordering == "" && len(step.Keys) == 0 {
		step.Ordering = "pt"
	}
	return step, nil
}

func compilePair(step PairStep, eps float64) (pairPlan, error) {
	step, err := applyPreset(step)
	if err != nil {
		return pairPlan{}, err
	}

	pp := pairPlan{name: step.Name, first: step.First, second: step.First}
	if selection.Kind(step.Kind) == selection.KindAnchored {
		// a single anchor searches every object of its collection
		pp.second = Source{Collection: step.First.Collection}
	}
	if step.Second != nil {
		pp.second = *step.Second
	}

	switch selection.Kind(step.Kind) {
	case selection.KindCross, selection.KindSame:
		if step.Column != "" || step.WorkingPoint != nil || step.MinDeltaR != nil {
			return pairPlan{}, &ConfigError{Field: "kind", Reason: "column, working_point and min_delta_r apply to anchored selection only"}
		}
		chain, err := buildChain(step)
		if err != nil {
			return pairPlan{}, err
		}
		chain = chain.WithEpsilon(eps)
		w := selection.DefaultBoostedWindow
		if step.Window != nil {
			w = *step.Window
		}

		if selection.Kind(step.Kind) == selection.KindCross {
			if step.Second == nil {
				return pairPlan{}, &ConfigError{Field: "second", Reason: "is required for cross selection"}
			}
			pp.sel, err = selection.NewCrossSelector(step.Name, chain, w)
		} else {
			if step.Second != nil {
				return pairPlan{}, &ConfigError{Field: "second", Reason: "same selection pairs the candidates of first"}
			}
			pp.sel, err = selection.NewSameSelector(step.Name, chain, w)
		}
		if err != nil {
			return pairPlan{}, configError("window", err)
		}

	case selection.KindAnchored:
		if step.Ordering != "" || len(step.Keys) > 0 || step.Window != nil {
			return pairPlan{}, &ConfigError{Field: "kind", Reason: "ordering, keys and window do not apply to anchored selection"}
		}
		if step.Column == "" {
			return pairPlan{}, &ConfigError{Field: "column", Reason: "is required for anchored selection"}
		}
		if step.WorkingPoint == nil {
			return pairPlan{}, &ConfigError{Field: "working_point", Reason: "is required for anchored selection"}
		}
		if pp.second.Collection != pp.first.Collection {
			return pairPlan{}, &ConfigError{Field: "second.collection", Reason: "anchored selection pairs objects of one collection"}
		}
		minDR := selection.DefaultBBMinDeltaR
		if step.MinDeltaR != nil {
			minDR = *step.MinDeltaR
		}
		pp.sel, err = selection.NewAnchoredSelector(step.Name, step.Column, *step.WorkingPoint, minDR)
		if err != nil {
			return pairPlan{}, configError("min_delta_r", err)
		}

	default:
		return pairPlan{}, &ConfigError{Field: "kind", Reason: "is required"}
	}
	return pp, nil
}

func buildChain(step PairStep) (compare.Chain, error) {
	if len(step.Keys) > 0 {
		if step.Ordering != "" {
			return compare.Chain{}, &ConfigError{Field: "keys", Reason: "keys and ordering are exclusive"}
		}
		keys := make([]compare.Key, len(step.Keys))
		for i, k := range step.Keys {
			keys[i] = compare.Key{Name: k.Name, Column: k.Column, Side: compare.First, Order: compare.Descending}
			if k.Side == "second" {
				keys[i].Side = compare.Second
			}
			if k.Order == "asc" {
				keys[i].Order = compare.Ascending
			}
		}
		return compare.NewChain(keys...), nil
	}

	switch step.Ordering {
	case "isolation":
		iso := step.IsoColumn
		if iso == "" {
			iso = defaultIsoColumn
		}
		return compare.IsolationOrdering(iso), nil
	case "pt", "":
		return compare.PtOrdering(), nil
	}
	return compare.Chain{}, &ConfigError{Field: "ordering", Reason: fmt.Sprintf("unknown ordering %q", step.Ordering)}
}

// slotSource returns the source the referenced slots index into.
func slotSource(pairs map[string]pairPlan, ref PairRef) (Source, error) {
	pp, ok := pairs[ref.Pair]
	if !ok {
		return Source{}, &ConfigError{Field: "pair", Reason: fmt.Sprintf("unknown pair step %q", ref.Pair)}
	}
	switch ref.Slot {
	case SlotFirst:
		return pp.first, nil
	case SlotSecond:
		return pp.second, nil
	default:
		if pp.first.Collection != pp.second.Collection {
			return Source{}, &ConfigError{Field: "slot", Reason: fmt.Sprintf("pair %q spans two collections; name one slot", ref.Pair)}
		}
		return pp.first, nil
	}
}

func prefixField(prefix string, err error) error {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return &ConfigError{Field: prefix + "." + ce.Field, Reason: ce.Reason, cause: ce.cause}
	}
	return configError(prefix, err)
}
