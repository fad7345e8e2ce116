package ir

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// Options are the flags a visitor may set, shared by all three
// disciplines. The zero value is not useful; use DefaultOptions.
type Options struct {
	// VisitDagOnce, when true (the default), means a node reached
	// through two paths in a DAG is visited once. Setting it false
	// makes the traversal treat every occurrence independently.
	VisitDagOnce bool

	// ForwardChildrenBeforePreorder, when true (the default), makes
	// Modifier/Transform substitute each child of a freshly cloned node
	// with its tracker.FinalResult before running the visitor's
	// preorder hook, so that a child already rewritten on an earlier
	// branch of this same pass is visible immediately.
	ForwardChildrenBeforePreorder bool

	// ForceClone forces a clone to be published even when a
	// Modifier/Transform pass made no change, regenerating identity
	// where a downstream pass requires it.
	ForceClone bool
}

// DefaultOptions returns the engine's default flag set.
func DefaultOptions() Options {
	return Options{VisitDagOnce: true, ForwardChildrenBeforePreorder: true}
}

// Inspector performs read-only inspection: it never mutates the tree and
// the root it is applied to is returned unchanged.
type Inspector interface {
	Preorder(c *Context, n Node) (descend bool, err error)
	Postorder(c *Context, n Node) error
}

type inspectorRevisiter interface {
	Revisit(c *Context, n Node) error
}

type inspectorLoopRevisiter interface {
	LoopRevisit(c *Context, n Node) error
}

// NoopInspector is a zero-cost base an Inspector implementation embeds to
// pick up default (descend-everything, do-nothing) behavior for the hooks
// it does not care about.
type NoopInspector struct{}

func (NoopInspector) Preorder(*Context, Node) (bool, error) { return true, nil }
func (NoopInspector) Postorder(*Context, Node) error        { return nil }

// Modifier rewrites a tree in place on a fresh clone. Preorder/Postorder
// operate on clone, which is already installed as c.Current; mutate it
// directly through its concrete type.
type Modifier interface {
	Preorder(c *Context, clone Node) (descend bool, err error)
	Postorder(c *Context, clone Node) error
}

type modifierRevisiter interface {
	Revisit(c *Context, orig, result Node) error
}

type modifierLoopRevisiter interface {
	LoopRevisit(c *Context, n Node) error
}

// NoopModifier is the Modifier analogue of NoopInspector.
type NoopModifier struct{}

func (NoopModifier) Preorder(*Context, Node) (bool, error) { return true, nil }
func (NoopModifier) Postorder(*Context, Node) error        { return nil }

// Transform may substitute a node outright. Preorder returns clone
// (meaning "no substitution, proceed normally"), nil (prune this
// subtree), or a different node to splice in instead. Postorder returns q;
// if q is structurally equal to what preorder produced, the engine
// canonicalizes back to that node's identity.
type Transform interface {
	Preorder(c *Context, clone Node) (replacement Node, err error)
	Postorder(c *Context, n Node) (result Node, err error)
}

type transformRevisiter interface {
	Revisit(c *Context, orig, result Node) error
}

type transformLoopRevisiter interface {
	LoopRevisit(c *Context, n Node) error
}

// NoopTransform is the Transform analogue of NoopInspector: Preorder
// performs no substitution, Postorder performs no further rewrite.
type NoopTransform struct{}

func (NoopTransform) Preorder(_ *Context, clone Node) (Node, error) { return clone, nil }
func (NoopTransform) Postorder(_ *Context, n Node) (Node, error)    { return n, nil }

// ApplyInspector runs a read-only traversal of root with v. It never
// mutates root and root's identity is always returned unchanged to the
// caller's point of view (Inspector never clones).
func ApplyInspector(ctx context.Context, root Node, v Inspector, opts Options) error {
	sp := tlog.SpanFromContext(ctx)
	sp.Printw("apply inspector", "root", tlog.FormatNext("%T"), root)

	e := &inspectEngine{tracker: NewTracker(), opts: opts, v: v}

	_, err := e.visit(nil, "root", root)

	return err
}

type inspectEngine struct {
	tracker *Tracker
	opts    Options
	v       Inspector
}

func (e *inspectEngine) visit(parent *Context, slot string, n Node) (bool, error) {
	if n == nil {
		return true, nil
	}

	cx, err := push(parent, slot, n, n)
	if err != nil {
		return false, err
	}

	status, err := e.tracker.TryStart(n, e.opts.VisitDagOnce)
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
			if _, err := e.visit(cx, ch.Slot, ch.Node); err != nil {
				return false, errors.Wrap(err, "child %d:%s of %v", i, ch.Slot, n.Kind())
			}
		}

		if err := e.v.Postorder(cx, n); err != nil {
			return false, errors.Wrap(err, "postorder %v", n.Kind())
		}
	}

	if _, _, err := e.tracker.Finish(n, n, false); err != nil {
		return false, err
	}

	return true, nil
}

// ApplyModifier runs an in-place-on-a-clone rewrite of root with v and
// returns the (possibly identical) resulting root.
func ApplyModifier(ctx context.Context, root Node, v Modifier, opts Options) (Node, error) {
	sp := tlog.SpanFromContext(ctx)
	sp.Printw("apply modifier", "root", tlog.FormatNext("%T"), root)

	e := &modifyEngine{tracker: NewTracker(), opts: opts, v: v}

	return e.visit(nil, "root", root)
}

type modifyEngine struct {
	tracker *Tracker
	opts    Options
	v       Modifier
}

func (e *modifyEngine) visit(parent *Context, slot string, n Node) (Node, error) {
	if n == nil {
		return nil, nil
	}

	status, err := e.tracker.TryStart(n, e.opts.VisitDagOnce)
	if err != nil {
		return nil, err
	}

	switch status {
	case Busy:
		cx, err := push(parent, slot, n, n)
		if err != nil {
			return nil, err
		}

		if h, ok := e.v.(modifierLoopRevisiter); ok {
			if err := h.LoopRevisit(cx, n); err != nil {
				return nil, errors.Wrap(err, "loop revisit %v", n.Kind())
			}
		}

		return n, nil

	case Done:
		result, _ := e.tracker.FinalResult(n)

		cx, err := push(parent, slot, n, result)
		if err != nil {
			return nil, err
		}

		if h, ok := e.v.(modifierRevisiter); ok {
			if err := h.Revisit(cx, n, result); err != nil {
				return nil, errors.Wrap(err, "revisit %v", n.Kind())
			}
		}

		return result, nil
	}

	clone := n.Clone()

	cx, err := push(parent, slot, n, clone)
	if err != nil {
		return nil, err
	}

	if e.opts.ForwardChildrenBeforePreorder {
		for i, ch := range clone.Children() {
			if fwd, ok := e.tracker.FinalResult(ch.Node); ok {
				clone.SetChild(i, fwd)
			}
		}
	}

	descend, err := e.v.Preorder(cx, clone)
	if err != nil {
		return nil, errors.Wrap(err, "preorder %v", n.Kind())
	}

	if descend {
		for i, ch := range clone.Children() {
			rewritten, err := e.visit(cx, ch.Slot, ch.Node)
			if err != nil {
				return nil, errors.Wrap(err, "child %d:%s of %v", i, ch.Slot, n.Kind())
			}

			clone.SetChild(i, rewritten)
		}

		if err := e.v.Postorder(cx, clone); err != nil {
			return nil, errors.Wrap(err, "postorder %v", n.Kind())
		}
	}

	changed, canonical, err := e.tracker.Finish(n, clone, e.opts.ForceClone)
	if err != nil {
		return nil, err
	}

	if !changed {
		return n, nil
	}

	if err := canonical.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate %v", canonical.Kind())
	}

	return canonical, nil
}

// ApplyTransform runs a substituting rewrite of root with v and returns
// the resulting root, which may be a different node or nil (the whole
// tree pruned).
func ApplyTransform(ctx context.Context, root Node, v Transform, opts Options) (Node, error) {
	sp := tlog.SpanFromContext(ctx)
	sp.Printw("apply transform", "root", tlog.FormatNext("%T"), root)

	e := &transformEngine{tracker: NewTracker(), opts: opts, v: v}

	return e.visit(nil, "root", root, 0)
}

type transformEngine struct {
	tracker   *Tracker
	opts      Options
	v         Transform
	pruneFlag bool
}

const maxTransformGuard = 10000

func (e *transformEngine) visit(parent *Context, slot string, n Node, guard int) (Node, error) {
	if n == nil {
		return nil, nil
	}

	if guard > maxTransformGuard {
		return nil, errors.New("IR loop detected at %v", n.Kind())
	}

	status, err := e.tracker.TryStart(n, e.opts.VisitDagOnce)
	if err != nil {
		return nil, err
	}

	switch status {
	case Busy:
		cx, err := push(parent, slot, n, n)
		if err != nil {
			return nil, err
		}

		if h, ok := e.v.(transformLoopRevisiter); ok {
			if err := h.LoopRevisit(cx, n); err != nil {
				return nil, errors.Wrap(err, "loop revisit %v", n.Kind())
			}
		}

		return n, nil

	case Done:
		result, _ := e.tracker.FinalResult(n)

		cx, err := push(parent, slot, n, result)
		if err != nil {
			return nil, err
		}

		if h, ok := e.v.(transformRevisiter); ok {
			if err := h.Revisit(cx, n, result); err != nil {
				return nil, errors.Wrap(err, "revisit %v", n.Kind())
			}
		}

		return result, nil
	}

	clone := n.Clone()

	cx, err := push(parent, slot, n, clone)
	if err != nil {
		return nil, err
	}

	if e.opts.ForwardChildrenBeforePreorder {
		for i, ch := range clone.Children() {
			if fwd, ok := e.tracker.FinalResult(ch.Node); ok {
				clone.SetChild(i, fwd)
			}
		}
	}

	savedPrune := e.pruneFlag

	p, err := e.v.Preorder(cx, clone)
	if err != nil {
		return nil, errors.Wrap(err, "preorder %v", n.Kind())
	}

	var result Node

	switch {
	case p == nil:
		e.pruneFlag = true
		_, _, err := e.tracker.Finish(n, nil, e.opts.ForceClone)
		e.pruneFlag = savedPrune

		return nil, err

	case p.NodeID() == clone.NodeID():
		for i, ch := range clone.Children() {
			rewritten, err := e.visit(cx, ch.Slot, ch.Node, guard+1)
			if err != nil {
				return nil, errors.Wrap(err, "child %d:%s of %v", i, ch.Slot, n.Kind())
			}

			clone.SetChild(i, rewritten)
		}

		q, err := e.v.Postorder(cx, clone)
		if err != nil {
			return nil, errors.Wrap(err, "postorder %v", n.Kind())
		}

		result = q
		if q != nil && q.Equal(p) {
			result = p
		}

	default:
		if existing, ok := e.tracker.FinalResult(p); ok {
			result = existing
			break
		}

		pStatus, err := e.tracker.TryStart(p, e.opts.VisitDagOnce)
		if err != nil {
			return nil, err
		}

		if pStatus == Busy {
			return nil, errors.New("IR loop detected: %v substituted with in-progress %v", n.Kind(), p.Kind())
		}

		reclone := p.Clone()

		for i, ch := range reclone.Children() {
			rewritten, err := e.visit(cx, ch.Slot, ch.Node, guard+1)
			if err != nil {
				return nil, errors.Wrap(err, "child %d:%s of substituted %v", i, ch.Slot, p.Kind())
			}

			reclone.SetChild(i, rewritten)
		}

		q, err := e.v.Postorder(cx, reclone)
		if err != nil {
			return nil, errors.Wrap(err, "postorder substituted %v", p.Kind())
		}

		result = q
		if q != nil && q.Equal(p) {
			result = p
		}

		if _, _, err := e.tracker.Finish(p, result, e.opts.ForceClone); err != nil {
			return nil, err
		}
	}

	e.pruneFlag = savedPrune

	changed, canonical, err := e.tracker.Finish(n, result, e.opts.ForceClone)
	if err != nil {
		return nil, err
	}

	if !changed {
		return n, nil
	}

	if canonical != nil {
		if err := canonical.Validate(); err != nil {
			return nil, errors.Wrap(err, "validate %v", canonical.Kind())
		}
	}

	return canonical, nil
}
