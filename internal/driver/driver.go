package driver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"chad/internal/ast"
	"chad/internal/astio"
	"chad/internal/diag"
	"chad/internal/hir"
	"chad/internal/mono"
	"chad/internal/project/dag"
	"chad/internal/sema"
	"chad/internal/source"
	"chad/internal/symbols"
	"chad/internal/trace"
	"chad/internal/types"
)

// Options configure one pipeline run.
type Options struct {
	// Files are unit files, already expanded.
	Files []string
	Entry string
	// Root names the unit holding the entry; "" picks the first non-core
	// unit in Files order.
	Root           string
	MaxDiagnostics int
	Jobs           int // decoding workers, 0 means GOMAXPROCS
	// Stop is the last stage to run; "" runs the whole pipeline.
	Stop     Stage
	Progress ProgressSink
	Timings  bool
	// CrashLog receives the trace ring when an internal error stops the run.
	CrashLog io.Writer
}

// Result holds what the pipeline produced up to the stage it reached.
type Result struct {
	Session  string
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Units    []*ast.ProgramUnit // dependency order
	Root     string
	Universe *symbols.Universe
	Typed    *hir.Program
	Program  *mono.Program
	// Reached is the last stage that finished without errors.
	Reached Stage
	Timer   *Timer
}

// Run executes the pipeline. User errors end up in Result.Bag and stop the
// run at the end of the failing stage. An internal compiler error is
// recovered here and returned as *diag.ICE; any other panic propagates.
func Run(ctx context.Context, opts Options) (res *Result, err error) {
	if opts.Entry == "" {
		opts.Entry = mono.DefaultEntry
	}
	res = &Result{
		Session: uuid.NewString(),
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	if opts.Timings {
		res.Timer = NewTimer()
	}

	tracer := trace.FromContext(ctx)
	span := trace.BeginIn(ctx, trace.ScopeBuild, "build").WithExtra("session", res.Session)
	ctx = trace.WithParent(ctx, span)

	p := &pipeline{ctx: ctx, opts: opts, res: res, tracer: tracer, parent: span.ID()}
	p.reporter = diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ice, ok := diag.AsICE(r)
		if !ok {
			panic(r)
		}
		span.WithExtra("ice", ice.Msg).End("internal error")
		emitFiles(opts.Progress, opts.Files, Event{Stage: p.stage, Status: StatusError, Err: ice})
		dumpRing(tracer, opts.CrashLog)
		err = ice
	}()

	err = p.run()
	span.End(fmt.Sprintf("reached %s, %d diagnostic(s)", res.Reached, res.Bag.Len()))
	return res, err
}

type pipeline struct {
	ctx      context.Context
	opts     Options
	res      *Result
	tracer   trace.Tracer
	parent   uint64
	reporter diag.Reporter
	stage    Stage
}

func (p *pipeline) run() error {
	for _, f := range p.opts.Files {
		emit(p.opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}
	steps := []struct {
		stage Stage
		do    func() (string, error)
	}{
		{StageLoad, p.runLoad},
		{StageSymbols, p.runSymbols},
		{StageSema, p.runSema},
		{StageMono, p.runMono},
	}
	for _, step := range steps {
		ok, err := p.step(step.stage, step.do)
		if err != nil || !ok {
			return err
		}
		if step.stage == p.opts.Stop {
			break
		}
	}
	emitFiles(p.opts.Progress, p.opts.Files, Event{Stage: p.res.Reached, Status: StatusDone})
	return nil
}

// step runs one stage and reports whether the next one may run.
func (p *pipeline) step(stage Stage, do func() (string, error)) (bool, error) {
	p.stage = stage
	emit(p.opts.Progress, Event{Stage: stage, Status: StatusWorking})
	span := trace.Begin(p.tracer, trace.ScopeBuild, string(stage), p.parent)
	idx := p.res.Timer.Begin(stage)

	note, err := do()

	elapsed := p.res.Timer.End(idx, note)
	span.End(note)
	if err != nil {
		emitFiles(p.opts.Progress, p.opts.Files, Event{Stage: stage, Status: StatusError, Err: err, Elapsed: elapsed})
		return false, err
	}
	if p.res.Bag.HasErrors() {
		emitFiles(p.opts.Progress, p.opts.Files, Event{Stage: stage, Status: StatusError, Elapsed: elapsed})
		return false, nil
	}
	p.res.Reached = stage
	emit(p.opts.Progress, Event{Stage: stage, Status: StatusDone, Elapsed: elapsed})
	return true, nil
}

func (p *pipeline) runLoad() (string, error) {
	loaded, err := astio.LoadFiles(p.ctx, p.res.FileSet, p.opts.Files, p.res.Bag, p.opts.Jobs)
	if err != nil {
		return "", err
	}
	for _, l := range loaded {
		emit(p.opts.Progress, Event{File: l.Path, Stage: StageLoad, Status: StatusWorking})
	}
	units := astio.Units(loaded)
	p.res.Root = p.opts.Root
	if p.res.Root == "" {
		for _, u := range units {
			if u.Name != ast.CoreUnit {
				p.res.Root = u.Name
				break
			}
		}
	}

	ordered, topo, idx := dag.Order(units)
	p.res.Units = ordered
	note := fmt.Sprintf("%d unit(s) in %d batch(es)", len(ordered), len(topo.Batches))
	if topo.Cyclic {
		cycle := strings.Join(idx.Names(topo.Cycles), " <-> ")
		trace.Point(p.tracer, trace.ScopePass, "use-cycle", p.parent, cycle)
		note += ", use cycle: " + cycle
	}
	return note, nil
}

func (p *pipeline) runSymbols() (string, error) {
	p.res.Universe = symbols.LoadUnits(types.NewInterner(), p.res.Units, p.reporter)
	return fmt.Sprintf("%d unit(s)", len(p.res.Universe.Order)), nil
}

func (p *pipeline) runSema() (string, error) {
	out := sema.Check(p.ctx, p.res.Universe, sema.Options{Reporter: p.reporter})
	p.res.Typed = out.Program
	if out.Program == nil {
		return fmt.Sprintf("%d error(s)", out.Errors), nil
	}
	return fmt.Sprintf("%d fn(s), %d global(s)", len(out.Program.Funcs), len(out.Program.Globals)), nil
}

func (p *pipeline) runMono() (string, error) {
	out := mono.Monomorphize(p.ctx, p.res.Typed, p.res.Universe, mono.Options{
		Entry:    p.opts.Entry,
		Root:     p.res.Root,
		Reporter: p.reporter,
	})
	p.res.Program = out.Program
	if out.Program == nil {
		return fmt.Sprintf("%d error(s)", out.Errors), nil
	}
	return fmt.Sprintf("%d instance(s), %d type(s)", len(out.Program.Fns), len(out.Program.OrderedTypes)), nil
}

func dumpRing(t trace.Tracer, w io.Writer) {
	if w == nil {
		return
	}
	ring, ok := trace.Ring(t)
	if !ok {
		return
	}
	fmt.Fprintln(w, "last trace events:")
	_ = ring.Dump(w, trace.FormatText)
}
