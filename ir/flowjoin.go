package ir

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// FlowState is the per-visitor dataflow snapshot a ControlFlowVisitor
// takes at a join point and merges back when the join's last predecessor
// arrives. Nothing is cloned at a fork: the arms of a branch are visited
// one after another on the visitor's live state, so each arm starts from
// the state the previous arm left behind. A visitor that implements
// ControlFlowVisitor is itself expected to satisfy FlowState: Snapshot
// clones the visitor's own user-visible fields into a fresh value that
// also satisfies FlowState, and Merge folds another such snapshot into
// the receiver.
type FlowState interface {
	Snapshot() FlowState
	Merge(other FlowState)
}

// ControlFlowVisitor is an Inspector that additionally declares the
// control-flow edges it cares about (Successors, which may differ from
// Node.Children()) and knows how to snapshot/merge its own dataflow
// state at join points.
type ControlFlowVisitor interface {
	Inspector
	FlowState
	// Successors returns the control-flow edges leaving n. For a
	// straight-line node this is usually empty or a single edge; a
	// branching node returns one edge per arm.
	Successors(n Node) []Node
}

type postJoiner interface {
	// PostJoinFlows is called once the merged state has been copied
	// into the visitor and j's join-point bookkeeping is marked done.
	PostJoinFlows(j Node)
}

// FlowOptions configures a control-flow join pass.
type FlowOptions struct {
	// BackwardsCompatibleBroken reproduces the legacy "skip visiting
	// until count reaches zero" scheduling, incorrect behavior kept only
	// for legacy clients. It defaults
	// off and is not implemented by this engine: a new implementation
	// only provides the corrected path. The field exists so a caller
	// setting it true gets an explicit error rather than silently
	// running the corrected algorithm under a different name.
	BackwardsCompatibleBroken bool
}

type joinRecord struct {
	count int
	acc   FlowState
	done  bool
}

// ApplyControlFlow runs a setupJoinPoints pre-pass over root, walking both
// Children() and v.Successors, then a single synchronous pass that merges
// the visitor state snapshotted at every join point exactly once before
// continuing past it.
func ApplyControlFlow(ctx context.Context, root Node, v ControlFlowVisitor, opts FlowOptions) error {
	if opts.BackwardsCompatibleBroken {
		return errors.New("legacy flow-join scheduling (BackwardsCompatibleBroken) is not implemented; use the corrected path")
	}

	sp := tlog.SpanFromContext(ctx)
	sp.Printw("apply control flow", "root", tlog.FormatNext("%T"), root)

	joins := setupJoinPoints(root, v.Successors)

	e := &flowEngine{
		tracker: NewTracker(),
		joins:   joins,
		v:       v,
	}

	_, err := e.visit(nil, "root", root, false)

	return err
}

// setupJoinPoints walks the whole tree reachable from root once, via both
// Children() and succ, counting how many distinct predecessor edges reach
// each node over the succ graph. Nodes reached by more than one succ edge
// become join points.
//
// Both channels must be walked: a join target is typically an ordinary
// structural child of some ancestor (e.g. the statement following an
// IfStatement in its enclosing BlockStatement.Stmts) that is reached as a
// control-flow successor only from nodes nested deeper in the tree (e.g.
// an IfStatement's branches, themselves reached via Children, pointing
// their own Next successor at it). Walking succ alone from root would
// never discover such a join unless root's own succ-chain happened to
// pass through it; walking Children alone would never see the extra
// incoming edges that make it a join at all.
func setupJoinPoints(root Node, succ func(Node) []Node) map[int]*joinRecord {
	inDegree := map[int]int{}
	seen := map[int]bool{}

	var walk func(n Node)
	walk = func(n Node) {
		if n == nil || seen[n.NodeID()] {
			return
		}

		seen[n.NodeID()] = true

		for _, s := range succ(n) {
			if s == nil {
				continue
			}

			inDegree[s.NodeID()]++
			walk(s)
		}

		for _, ch := range n.Children() {
			walk(ch.Node)
		}
	}

	walk(root)

	joins := map[int]*joinRecord{}

	for id, deg := range inDegree {
		if deg > 1 {
			joins[id] = &joinRecord{count: deg}
		}
	}

	return joins
}

type flowEngine struct {
	tracker *Tracker
	joins   map[int]*joinRecord
	v       ControlFlowVisitor
}

// visit descends into n. viaSuccessor reports whether this call came from
// the Successors() loop below (a control-flow edge) as opposed to the
// Children() loop or the initial root call (an ordinary structural edge).
// Join bookkeeping only triggers on the former: a join target such as the
// statement following an IfStatement is also an ordinary structural
// sibling of that IfStatement, so it is reached a second time through
// Children() once its join has already completed — that second arrival
// must fall through to the tracker's own Busy/Done handling (a harmless
// revisit of an already-finished node) rather than be mistaken for a
// genuine double visit of the join.
func (e *flowEngine) visit(parent *Context, slot string, n Node, viaSuccessor bool) (bool, error) {
	if n == nil {
		return true, nil
	}

	rec := e.joins[n.NodeID()]

	if rec != nil && viaSuccessor {
		if rec.done {
			return false, errors.New("flow join point visited more than once: %v", n.Kind())
		}

		rec.count--

		if rec.count > 0 {
			snap := e.v.Snapshot()

			if rec.acc == nil {
				rec.acc = snap
			} else {
				rec.acc.Merge(snap)
			}

			return true, nil
		}

		if rec.acc != nil {
			e.v.Merge(rec.acc)
		}
	}

	cx, err := push(parent, slot, n, n)
	if err != nil {
		return false, err
	}

	status, err := e.tracker.TryStart(n, true)
	if err != nil {
		return false, err
	}

	switch status {
	case Busy:
		if h, ok := e.v.(inspectorLoopRevisiter); ok {
			if err := h.LoopRevisit(cx, n); err != nil {
				return false, errors.Wrap(err, "loop revisit %v", n.Kind())
			}
		}

		return true, nil

	case Done:
		if h, ok := e.v.(inspectorRevisiter); ok {
			if err := h.Revisit(cx, n); err != nil {
				return false, errors.Wrap(err, "revisit %v", n.Kind())
			}
		}

		return true, nil
	}

	descend, err := e.v.Preorder(cx, n)
	if err != nil {
		return false, errors.Wrap(err, "preorder %v", n.Kind())
	}

	if descend {
		for i, ch := range n.Children() {
			if _, err := e.visit(cx, ch.Slot, ch.Node, false); err != nil {
				return false, errors.Wrap(err, "child %d:%s of %v", i, ch.Slot, n.Kind())
			}
		}

		for i, s := range e.v.Successors(n) {
			if _, ok := e.joins[s.NodeID()]; !ok {
				continue
			}

			if _, err := e.visit(cx, "", s, true); err != nil {
				return false, errors.Wrap(err, "successor %d of %v", i, n.Kind())
			}
		}

		if err := e.v.Postorder(cx, n); err != nil {
			return false, errors.Wrap(err, "postorder %v", n.Kind())
		}
	}

	if _, _, err := e.tracker.Finish(n, n, false); err != nil {
		return false, err
	}

	if rec != nil && viaSuccessor {
		rec.done = true

		if h, ok := e.v.(postJoiner); ok {
			h.PostJoinFlows(n)
		}
	}

	return true, nil
}
