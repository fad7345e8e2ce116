package engine

import (
	"context"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/pktc/diag"
	"github.com/slowlang/pktc/lang"
	"github.com/slowlang/pktc/resolve"
)

// State is the working state one Run call threads through its phases:
// the diagnostic sink, the reference map, and the resolution context
// built over the program currently being compiled.
type State struct {
	Options Options
	Sink    *diag.Sink
	Refs    *resolve.Map
	Context *resolve.Context
}

// NewState builds a fresh State over program under opts.
func NewState(program *lang.Program, opts Options) *State {
	return &State{
		Options: opts,
		Sink:    diag.NewSink(map[string]bool{}),
		Refs:    resolve.NewMap(opts.Version == V1),
		Context: resolve.NewContext(program, opts.AnyOrder()),
	}
}

// Phase is one named, timed step of a compilation, wrapped by Run in a
// tlog span the way the teacher's compiler.Compile brackets
// parse/analyze/compile.
type Phase struct {
	Name string
	Run  func(ctx context.Context, program *lang.Program, st *State) error
}

// Resolve is the Reference Resolver phase, running resolve.Run over
// program with st's context, map, sink and shadow-check/no-warn options.
func Resolve(ctx context.Context, program *lang.Program, st *State) error {
	return resolve.Run(ctx, program, st.Context, st.Refs, st.Sink, st.Options.CheckShadow, st.Options.NoWarn)
}

// DefaultPhases is the standard pass sequence: a single reference
// resolution phase. It contains no parse phase and no placeholder phase;
// Run executes exactly the phase list it is given.
func DefaultPhases() []Phase {
	return []Phase{
		{Name: "resolve", Run: Resolve},
	}
}

// Run sequences phases over program, bracketing each with a tlog span and
// stopping before the next phase once st.Sink.Count() is nonzero, per §7's
// error-propagation policy. A panic raised by any phase (a compiler bug,
// or a user visitor's exception per §7) is recovered into a diagnostic by
// diag.Sink.Recover instead of crashing the driver.
func Run(ctx context.Context, program *lang.Program, opts Options, phases []Phase) (st *State, err error) {
	st = NewState(program, opts)

	sp := tlog.SpanFromContext(ctx)

	for _, ph := range phases {
		if st.Sink.Count() > 0 {
			sp.Printw("stopping before phase: prior errors", "phase", ph.Name, "errors", st.Sink.Count())
			break
		}

		if opts.LogLevel > 0 {
			tlog.V(strconv.Itoa(opts.LogLevel)).Printw("entering phase", "phase", ph.Name)
		}

		if runErr := runPhase(ctx, ph, program, st); runErr != nil {
			return st, errors.Wrap(runErr, "phase %v", ph.Name)
		}
	}

	return st, nil
}

func runPhase(ctx context.Context, ph Phase, program *lang.Program, st *State) error {
	sp := tlog.SpanFromContext(ctx)

	defer st.Sink.Recover(ctx, ph.Name)

	sp.Printw("phase start", "phase", ph.Name)

	if err := ph.Run(ctx, program, st); err != nil {
		return errors.Wrap(err, "%v", ph.Name)
	}

	sp.Printw("phase done", "phase", ph.Name, "errors", st.Sink.Count())

	return nil
}
