package ir

import "tlog.app/go/errors"

// VisitStatus is the outcome try_start reports for a node.
type VisitStatus int

const (
	// New: first sighting of this node under the current tracker.
	New VisitStatus = iota
	// Busy: this node is already in progress higher up the stack — a
	// cycle.
	Busy
	// Done: finished, and visit-once was set, so it should be skipped.
	Done
	// Revisit: finished, but visit-once was cleared (by RevisitVisited
	// or VisitAgain), so it should be reopened.
	Revisit
)

func (s VisitStatus) String() string {
	switch s {
	case New:
		return "new"
	case Busy:
		return "busy"
	case Done:
		return "done"
	case Revisit:
		return "revisit"
	default:
		return "invalid"
	}
}

// entry is the per-node memo record. visitOnce defaults to true (the
// overwhelmingly common case); result is only ever populated for
// rewriting disciplines.
type entry struct {
	inProgress bool
	finished   bool
	visitOnce  bool
	result     Node
	resultSet  bool
}

// Tracker is the per-pass visit-state memo keyed by original node
// identity. A read-only Inspector pass only ever populates inProgress/
// finished/visitOnce; Modifier and Transform additionally populate
// result via Finish.
//
// A Tracker is owned by exactly one ApplyInspector, ApplyModifier,
// ApplyTransform or ApplyControlFlow call and must not be reused across
// roots.
type Tracker struct {
	byID  map[int]*entry
	busy  denseSet
	nodes map[int]Node // original node for each id, for diagnostics
}

// NewTracker returns a fresh, empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byID:  map[int]*entry{},
		busy:  makeDenseSet(),
		nodes: map[int]Node{},
	}
}

func (t *Tracker) get(n Node) *entry {
	return t.byID[n.NodeID()]
}

// TryStart is the entry point the engine calls before descending into n.
// defaultVisitOnce seeds the visit-once flag for a first sighting.
func (t *Tracker) TryStart(n Node, defaultVisitOnce bool) (VisitStatus, error) {
	id := n.NodeID()
	e := t.byID[id]

	switch {
	case e == nil:
		t.byID[id] = &entry{inProgress: true, visitOnce: defaultVisitOnce}
		t.nodes[id] = n
		t.busy.Set(id)

		return New, nil

	case e.inProgress:
		if !t.busy.IsSet(id) {
			return Busy, errors.New("tracker corruption: %v marked in-progress but not busy", n.Kind())
		}

		return Busy, nil

	case e.finished && e.visitOnce:
		return Done, nil

	case e.finished && !e.visitOnce:
		e.inProgress = true
		e.finished = false
		t.busy.Set(id)

		return Revisit, nil

	default:
		return New, errors.New("tracker corruption: inconsistent entry for %v", n.Kind())
	}
}

// Finish records the outcome of visiting orig, whose rewritten result (for
// a rewriting discipline) is final. For an Inspector, pass orig itself as
// final. changed reports whether final differs structurally from orig
// (forceClone forces changed to report true regardless).
//
// Coalescing takes precedence over forceClone (see SPEC_FULL.md §5.3): if
// final structurally equals a node already Done in this tracker, Finish
// canonicalizes to that node's stored identity instead of registering a
// new entry for final, even when forceClone asked for a fresh clone to be
// kept.
func (t *Tracker) Finish(orig, final Node, forceClone bool) (changed bool, canonical Node, err error) {
	id := orig.NodeID()
	e := t.byID[id]

	if e == nil || !e.inProgress {
		return false, final, errors.New("tracker corruption: finish without start for %v", orig.Kind())
	}

	e.inProgress = false
	e.finished = true
	t.busy.Clear(id)

	if final == nil {
		e.result = nil
		e.resultSet = true

		return true, nil, nil
	}

	structurallyChanged := final.NodeID() != orig.NodeID() && !orig.Equal(final)
	canonical = final

	if structurallyChanged {
		if coalesce := t.findEqualDone(final); coalesce != nil {
			canonical = coalesce
		}

		e.result = canonical
		e.resultSet = true

		t.byID[canonical.NodeID()] = &entry{finished: true, visitOnce: e.visitOnce, result: canonical, resultSet: true}
		t.nodes[canonical.NodeID()] = canonical

		return true, canonical, nil
	}

	if forceClone {
		e.result = final
		e.resultSet = true

		return true, final, nil
	}

	e.result = orig
	e.resultSet = true

	return false, orig, nil
}

// findEqualDone returns a previously-finished node structurally equal to
// n, if any, preferring the smallest node id for determinism.
func (t *Tracker) findEqualDone(n Node) Node {
	var best Node

	for id, e := range t.byID {
		if !e.finished || !e.resultSet {
			continue
		}

		cand := t.nodes[id]
		if cand == nil || cand.NodeID() == n.NodeID() {
			continue
		}

		if cand.Equal(n) && (best == nil || cand.NodeID() < best.NodeID()) {
			best = cand
		}
	}

	return best
}

// Result returns the stored rewrite for n if Finish has recorded one for
// it, whether or not n is Done, else n itself — per §4.C, "result(n) without a corresponding
// start returns n".
func (t *Tracker) Result(n Node) Node {
	e := t.get(n)
	if e == nil || !e.resultSet {
		return n
	}

	return e.result
}

// FinalResult returns the stored rewrite only if the tracker considers n
// Done (finished and visit-once); otherwise it returns n unchanged and ok
// is false.
func (t *Tracker) FinalResult(n Node) (Node, bool) {
	e := t.get(n)
	if e == nil || !e.finished || !e.visitOnce || !e.resultSet {
		return n, false
	}

	return e.result, true
}

// RevisitVisited clears every Done entry so the next descent reopens
// them; entries currently in-progress (Busy) are preserved untouched.
func (t *Tracker) RevisitVisited() {
	for _, e := range t.byID {
		if e.finished {
			e.visitOnce = false
		}
	}
}

// VisitOnce sets n's visit-once flag, suppressing re-entry on a later
// occurrence in a DAG.
func (t *Tracker) VisitOnce(n Node) {
	e := t.byID[n.NodeID()]
	if e == nil {
		e = &entry{}
		t.byID[n.NodeID()] = e
		t.nodes[n.NodeID()] = n
	}

	e.visitOnce = true
}

// VisitAgain clears n's visit-once flag, so a later occurrence reopens it.
func (t *Tracker) VisitAgain(n Node) {
	e := t.byID[n.NodeID()]
	if e == nil {
		e = &entry{}
		t.byID[n.NodeID()] = e
		t.nodes[n.NodeID()] = n
	}

	e.visitOnce = false
}

// IsBusy reports whether n is currently in progress somewhere up the
// stack — the cycle-detection fast path.
func (t *Tracker) IsBusy(n Node) bool {
	return t.busy.IsSet(n.NodeID())
}
