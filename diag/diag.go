// Package diag is the error-handling design from SPEC_FULL.md §7: a
// diagnostic sink that counts and records user-facing findings, and a
// bug/diagnostic distinction enforced at the driver boundary via
// panic/recover, so a compiler bug aborts the phase it happened in while
// an ordinary diagnostic lets the pass run to completion.
package diag

import (
	"context"
	"errors"
	"fmt"

	"tlog.app/go/tlog"

	"github.com/slowlang/pktc/ir"
)

// Severity distinguishes a hard error (counted, makes the run fail) from
// a warning (reported but never fails the run on its own).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// Diagnostic is one user-facing finding: unresolved name, duplicate
// match, shadowing, self-referential type, `This` outside an abstract
// method, or a JSON-load schema mismatch (the diagnostic varieties named
// in §7.1).
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Loc      *ir.SrcLoc
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s: %s (%s)", d.Loc, d.Severity, d.Message, d.Code)
}

// BugError marks an error as a compiler bug rather than a diagnostic:
// tracker corruption, context depth overflow, an unresolvable Transform
// cycle, a visitor returning the wrong variant, or a capability-vector
// inconsistency. Wrap an error in it at the point the inconsistency is
// first detected; Recover at the driver boundary reports it distinctly
// from an ordinary diagnostic and does not let the phase's partial
// result through.
type BugError struct {
	Err error
}

func (b BugError) Error() string { return "compiler bug: " + b.Err.Error() }
func (b BugError) Unwrap() error { return b.Err }

// Bug wraps err as a BugError, or returns nil if err is nil.
func Bug(err error) error {
	if err == nil {
		return nil
	}

	return BugError{Err: err}
}

// Sink accumulates diagnostics for one compilation run. It is not
// goroutine-safe: the engine is single-threaded throughout (§5).
type Sink struct {
	diags      []Diagnostic
	errorCount int
	noWarn     map[string]bool
}

// NewSink returns an empty sink. noWarn is the set of diagnostic codes
// (e.g. "shadowing") for which Warnf drops a warning instead of recording
// it; hard errors recorded by Errorf are never suppressed.
func NewSink(noWarn map[string]bool) *Sink {
	return &Sink{noWarn: noWarn}
}

// Errorf records a hard error at loc, formatted like fmt.Sprintf, tagged
// with code for programmatic matching (tests assert on Code, not
// Message).
func (s *Sink) Errorf(loc *ir.SrcLoc, code, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), Loc: loc})
	s.errorCount++
}

// Warnf records a warning at loc unless code is in the sink's no-warn
// set.
func (s *Sink) Warnf(loc *ir.SrcLoc, code, format string, args ...any) {
	if s.noWarn[code] {
		return
	}

	s.diags = append(s.diags, Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// Count returns the number of hard errors recorded so far — the value
// the driver checks between phases per §7's propagation policy.
func (s *Sink) Count() int { return s.errorCount }

// Diagnostics returns every recorded diagnostic, errors and warnings
// alike, in the order they were recorded.
func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

// Recover is deferred around a phase and converts a panic raised in it
// into a hard-error diagnostic (§7: "exceptions thrown by user visitors
// are allowed to propagate; the top-level driver converts them to an
// error diagnostic"): a panic whose value is or wraps a BugError gets the
// distinct code "BUG", any other panic the code "PANIC". An error the
// phase returns normally never reaches Recover; call sites handle that
// themselves.
func (s *Sink) Recover(ctx context.Context, phase string) {
	r := recover()
	if r == nil {
		return
	}

	sp := tlog.SpanFromContext(ctx)

	if err, ok := r.(error); ok {
		var be BugError
		if errors.As(err, &be) {
			s.Errorf(nil, "BUG", "%s: %v", phase, be.Err)
			sp.Printw("phase aborted on bug", "phase", phase, "err", be.Err)

			return
		}

		s.Errorf(nil, "PANIC", "%s: %v", phase, err)
		sp.Printw("phase aborted on panic", "phase", phase, "err", err)

		return
	}

	s.Errorf(nil, "PANIC", "%s: %v", phase, r)
	sp.Printw("phase aborted on panic", "phase", phase, "panic", r)
}
