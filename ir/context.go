package ir

import "tlog.app/go/errors"

// maxDepth is the fixed upper bound on descent depth. Exceeding it means
// the traversal has a cycle the tracker failed to catch, or a genuinely
// pathological tree; either way it is a compiler bug, not a diagnostic.
const maxDepth = 10000

// Context is one frame of the single-threaded descent stack: it records
// the parent frame, the node entering this descent (Original, what the
// tracker keys on), the node currently being assembled (Current, which
// may be a clone a rewriting pass is building), this node's index and
// slot name among its parent's children, and the descent depth. A frame
// entered through a control-flow successor edge has an empty slot name
// and Index 0.
type Context struct {
	Parent    *Context
	Original  Node
	Current   Node
	Index     int
	ChildName string
	Depth     int
}

// push is called on entry to each node, regardless of discipline: it
// allocates the Context frame for this descent step, linking it to
// parent. The frame is popped (becomes unreachable) simply by the caller
// not using it past its defer.
func push(parent *Context, slot string, orig, cur Node) (*Context, error) {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}

	if depth > maxDepth {
		return nil, errors.New("context depth > %d: stack overflow", maxDepth)
	}

	index := 0
	if parent != nil && slot != "" {
		for i, ch := range parent.Original.Children() {
			if ch.Slot == slot {
				index = i
				break
			}
		}
	}

	return &Context{
		Parent:    parent,
		Original:  orig,
		Current:   cur,
		Index:     index,
		ChildName: slot,
		Depth:     depth,
	}, nil
}

// Enclosing walks the stack from the current frame outward (including the
// current frame) and returns the nearest frame whose Original node
// satisfies pred. It is the only channel a visitor has to ask "what is my
// enclosing X" — nodes carry no parent pointers.
func (c *Context) Enclosing(pred func(Node) bool) *Context {
	for f := c; f != nil; f = f.Parent {
		if pred(f.Original) {
			return f
		}
	}

	return nil
}

// EnclosingOfKind is a convenience wrapper around Enclosing matching on
// Node.Kind().
func (c *Context) EnclosingOfKind(kind string) *Context {
	return c.Enclosing(func(n Node) bool { return n.Kind() == kind })
}

// Path returns the chain of Original nodes from the root to this frame,
// root first.
func (c *Context) Path() []Node {
	var rev []Node

	for f := c; f != nil; f = f.Parent {
		rev = append(rev, f.Original)
	}

	path := make([]Node, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}

	return path
}
