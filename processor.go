package pairsel

import (
	"context"
	"runtime"
	"time"

	"go-hep.org/x/hep/fmom"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/pairsel/collection"
	"github.com/hupe1980/pairsel/event"
	"github.com/hupe1980/pairsel/finder"
	"github.com/hupe1980/pairsel/geometry"
	"github.com/hupe1980/pairsel/match"
	"github.com/hupe1980/pairsel/model"
	"github.com/hupe1980/pairsel/report"
	"github.com/hupe1980/pairsel/resource"
	"github.com/hupe1980/pairsel/selection"
	"github.com/hupe1980/pairsel/veto"
)

// Processor applies a compiled configuration to events. It is immutable
// after New and safe for concurrent use.
type Processor struct {
	plan       *plan
	opts       options
	workers    int
	controller *resource.Controller
}

// New validates cfg and compiles it into a Processor.
func New(cfg *Config, optFns ...Option) (*Processor, error) {
	opts := applyOptions(optFns)

	p, err := compile(cfg, opts.epsilon)
	if err != nil {
		return nil, err
	}

	if opts.codec == nil {
		opts.codec = p.codec
	}

	workers := opts.workers
	if workers <= 0 {
		workers = p.workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	ctrl := opts.controller
	if ctrl == nil && p.resources != nil {
		rc := *p.resources
		if rc.MaxWorkers <= 0 {
			rc.MaxWorkers = int64(workers)
		}
		ctrl = resource.NewController(rc)
	}

	return &Processor{plan: p, opts: opts, workers: workers, controller: ctrl}, nil
}

// NewReport creates an empty report with the configured binnings.
func (c *Config) NewReport() *report.Report {
	var opts []report.Option
	if c != nil && c.Report != nil {
		if c.Report.DeltaR != nil {
			opts = append(opts, report.WithDeltaRBinning(*c.Report.DeltaR))
		}
		if c.Report.Mass != nil {
			opts = append(opts, report.WithMassBinning(*c.Report.Mass))
		}
	}
	return report.New(opts...)
}

// Workers returns the batch parallelism.
func (p *Processor) Workers() int {
	return p.workers
}

// ProcessEvent runs every configured step on e.
func (p *Processor) ProcessEvent(ctx context.Context, e *event.Event) (*Result, error) {
	start := time.Now()
	res, err := p.process(ctx, e)
	elapsed := time.Since(start)

	p.opts.metricsCollector.RecordEvent(elapsed, err)
	p.opts.logger.LogEvent(ctx, e.ID(), elapsed, err)
	if err != nil {
		return nil, err
	}
	p.fillReport(res)
	return res, nil
}

// ProcessBatch processes events concurrently. Results keep the input
// order. The first error cancels the remaining events and is returned.
func (p *Processor) ProcessBatch(ctx context.Context, events []*event.Event) ([]*Result, error) {
	start := time.Now()
	results := make([]*Result, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, e := range events {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := p.controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer p.controller.ReleaseWorker()

			r, err := p.ProcessEvent(gctx, e)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	elapsed := time.Since(start)
	p.opts.metricsCollector.RecordBatch(len(events), elapsed, err)
	p.opts.logger.LogBatch(ctx, len(events), elapsed, err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Processor) process(ctx context.Context, e *event.Event) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := e.ID()
	if err := e.Validate(); err != nil {
		return nil, eventError(id, "", err)
	}

	res := newResult(id)
	steps := []func(context.Context, *event.Event, *Result) error{
		p.runPairs,
		p.runMatches,
		p.runOthers,
		p.runBest,
		p.runFirstWithin,
		p.runVetoes,
	}
	for _, run := range steps {
		if err := run(ctx, e, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (p *Processor) runPairs(ctx context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.pairs {
		first, fc, err := e.Candidates(step.first.Collection, step.first.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		second, sc, err := e.Candidates(step.second.Collection, step.second.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}

		start := time.Now()
		pair, err := step.sel.Select(selection.Input{
			First:            first,
			Second:           second,
			FirstCandidates:  fc,
			SecondCandidates: sc,
		})
		p.opts.metricsCollector.RecordSelection(step.name, err == nil && pair.Complete(), time.Since(start))
		p.opts.logger.LogSelection(ctx, step.name, string(step.sel.Kind()), [2]int{len(fc), len(sc)}, pair, err)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}

		pr := newPairResult(pair)
		if pair.Complete() {
			a, _ := first.P4(pair.First.Int())
			b, _ := second.P4(pair.Second.Int())
			pr.setKinematics(geometry.DeltaRP4(&a, &b), geometry.InvariantMass(&a, &b))
		}
		res.Pairs[step.name] = pr
	}
	return nil
}

// slots returns the found indices of the referenced pair slots.
func slots(res *Result, ref PairRef) []int {
	pair := res.Pairs[ref.Pair].Pair
	var idx []model.Index
	switch ref.Slot {
	case SlotFirst:
		idx = []model.Index{pair.First}
	case SlotSecond:
		idx = []model.Index{pair.Second}
	default:
		idx = []model.Index{pair.First, pair.Second}
	}

	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if v, ok := i.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

func (p *Processor) runMatches(ctx context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.matches {
		var (
			primary *collection.Collection
			pc      []int
			err     error
		)
		if step.from != nil {
			primary, err = e.Collection(step.primary.Collection)
			pc = slots(res, *step.from)
		} else {
			primary, pc, err = e.Candidates(step.primary.Collection, step.primary.Mask)
		}
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		secondary, sc, err := e.Candidates(step.secondary.Collection, step.secondary.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}

		table, err := step.matcher.Build(primary, secondary, pc, sc)
		if err != nil {
			p.opts.logger.LogMatch(ctx, step.name, len(pc), 0, err)
			return eventError(e.ID(), step.name, err)
		}

		matched := 0
		for _, i := range pc {
			n := table.Count(i)
			if n > 0 {
				matched++
			}
			if p.opts.report != nil {
				p.opts.report.FillMultiplicity(step.name, n)
			}
		}
		p.opts.metricsCollector.RecordMatch(step.name, len(pc), matched)
		p.opts.logger.LogMatch(ctx, step.name, len(pc), matched, nil)

		res.Matches[step.name] = MatchResult{Lists: table.Lists(), Counts: table.Counts()}
	}
	return nil
}

func (p *Processor) runOthers(_ context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.others {
		m, _, err := e.MaskFor(step.source.Collection, step.source.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		res.Others[step.name] = finder.Other(m, res.Pairs[step.pair].Pair).Int()
	}
	return nil
}

func (p *Processor) runBest(_ context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.best {
		coll, cands, err := e.Candidates(step.source.Collection, step.source.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}

		var idx model.Index
		if step.column != "" {
			idx, err = finder.BestColumn(coll, cands, step.column)
		} else {
			idx, err = finder.BestRatioColumns(coll, cands, step.numerator, step.denominator)
		}
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		res.Best[step.name] = idx.Int()
	}
	return nil
}

func (p *Processor) runFirstWithin(_ context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.firstWithin {
		var ref fmom.PtEtaPhiM
		if found := slots(res, step.from); len(found) == 1 {
			coll, err := e.Collection(step.source.Collection)
			if err != nil {
				return eventError(e.ID(), step.name, err)
			}
			if ref, err = coll.P4(found[0]); err != nil {
				return eventError(e.ID(), step.name, err)
			}
		}

		target, cands, err := e.Candidates(step.target.Collection, step.target.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		idx, err := match.FirstWithin(ref, target, cands, step.maxDeltaR)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}
		res.FirstWithin[step.name] = idx.Int()
	}
	return nil
}

func (p *Processor) runVetoes(_ context.Context, e *event.Event, res *Result) error {
	for _, step := range p.plan.vetoes {
		coll, cands, err := e.Candidates(step.source.Collection, step.source.Mask)
		if err != nil {
			return eventError(e.ID(), step.name, err)
		}

		switch step.kind {
		case VetoDilepton:
			vetoed, err := veto.Dilepton(coll, cands, step.chargeColumn, step.minDeltaR)
			if err != nil {
				return eventError(e.ID(), step.name, err)
			}
			p.recordVeto(step.name, vetoed)
			res.Vetoes[step.name] = vetoed

		case VetoClean, VetoMap:
			other, oc, err := e.Candidates(step.against.Collection, step.against.Mask)
			if err != nil {
				return eventError(e.ID(), step.name, err)
			}
			if step.kind == VetoClean {
				kept, err := veto.Clean(coll, cands, other, oc, step.minDeltaR)
				if err != nil {
					return eventError(e.ID(), step.name, err)
				}
				res.Cleaned[step.name] = kept
				continue
			}
			vetoed, err := veto.VetoMap(coll, cands, other, oc, step.minDeltaR, step.grid)
			if err != nil {
				return eventError(e.ID(), step.name, err)
			}
			p.recordVeto(step.name, vetoed)
			res.Vetoes[step.name] = vetoed
		}
	}
	return nil
}

func (p *Processor) recordVeto(step string, vetoed bool) {
	p.opts.metricsCollector.RecordVeto(step, vetoed)
	if p.opts.report != nil {
		p.opts.report.FillVeto(step, vetoed)
	}
}

func (p *Processor) fillReport(res *Result) {
	r := p.opts.report
	if r == nil {
		return
	}
	r.AddEvent()
	for _, step := range p.plan.pairs {
		pr := res.Pairs[step.name]
		if !pr.Pair.Complete() || pr.DeltaR == nil || pr.Mass == nil {
			r.FillMissing(step.name)
			continue
		}
		r.FillPair(step.name, *pr.DeltaR, *pr.Mass)
	}
}
