// Package ir implements the generic IR traversal and reference-resolution
// engine: a node algebra with capability traits, a context stack recording
// descent, a per-pass visit-state tracker, three visit disciplines
// (Inspector, Modifier, Transform) over a shared tree, and control-flow
// join merging for dataflow visitors.
//
// The concrete node schema a front-end populates the tree with lives
// outside this package (see package lang); ir only depends on the
// capabilities a node may expose.
package ir

import "sync/atomic"

// SrcLoc is a source-location record attached to a node. The zero value
// means "no location known".
type SrcLoc struct {
	File string
	Line int
	Col  int
}

func (l *SrcLoc) String() string {
	if l == nil || l.File == "" {
		return "<unknown>"
	}

	return l.File + ":" + itoa(l.Line) + ":" + itoa(l.Col)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	neg := n < 0
	if neg {
		n = -n
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	if neg {
		i--
		buf[i] = '-'
	}

	return string(buf[i:])
}

// Child is one named, ordered slot of a node's children.
type Child struct {
	Slot string
	Node Node
}

// Node is the contract every variant in the node algebra must satisfy.
// Implementations are expected to be pointers: identity is pointer
// identity, and Clone produces a fresh pointer equal-but-not-identical to
// the receiver.
type Node interface {
	// Kind returns the stable variant name used for diagnostics and
	// dispatch. It never changes across Clone.
	Kind() string

	// NodeID is a dense, process-wide identity assigned once at
	// construction (see NewID). It backs the bitset-based fast paths in
	// the tracker and is never reassigned by Clone.
	NodeID() int

	// Loc returns the node's source-location record, or nil.
	Loc() *SrcLoc

	// Children returns this node's children in declared order, with
	// their slot names. Implementations must return a fresh slice (the
	// engine may mutate it when rewriting).
	Children() []Child

	// SetChild rewrites the child at index i to n. Used by Modifier and
	// Transform to publish a rewritten child into a clone. i indexes the
	// same order Children returns.
	SetChild(i int, n Node)

	// Clone returns a shallow copy of the receiver: children slices are
	// copied but child nodes are shared by reference until SetChild
	// overwrites them. The clone is Equal to the original but not
	// identical (different NodeID, same or different pointer per
	// implementation — callers must not rely on pointer difference,
	// only NodeID difference).
	Clone() Node

	// Equal reports deep structural equality against another node of
	// the same variant: identity and source location are ignored, child
	// order matters.
	Equal(other Node) bool

	// Validate asserts variant-specific invariants on the receiver. It
	// is called by rewriting disciplines after a clone is published.
	Validate() error
}

// idSeq is the process-wide dense-id counter all node constructors draw
// from via NewID.
var idSeq atomic.Int64

// NewID returns a fresh, process-wide unique dense node id. Front-ends
// building node variants call this once per constructed node and store it
// in their embedded Base.
func NewID() int {
	return int(idSeq.Add(1))
}

// Base is embedded by every concrete node variant. It supplies NodeID and
// Loc, and a default zero-child Children/SetChild/Validate so leaf
// variants need not implement them.
type Base struct {
	id  int
	Pos *SrcLoc
}

// NewBase returns a Base with a freshly allocated NodeID.
func NewBase(loc *SrcLoc) Base {
	return Base{id: NewID(), Pos: loc}
}

func (b *Base) NodeID() int         { return b.id }
func (b *Base) Loc() *SrcLoc        { return b.Pos }
func (b *Base) SetLoc(loc *SrcLoc)  { b.Pos = loc }
func (b *Base) Validate() error     { return nil }
func (b *Base) Children() []Child   { return nil }
func (b *Base) SetChild(int, Node)  { panic("SetChild on a leaf node with no children") }

// rebase gives a clone of b a fresh id while keeping its location; callers
// embed this in their Clone implementations.
func (b Base) rebase() Base {
	return Base{id: NewID(), Pos: b.Pos}
}

// EnsureID assigns a fresh NodeID if b does not already have one. A
// factory-constructed zero value (as Registry.Register's constructors
// return for DecodeJSON) has id 0 until this is called; Decode calls it
// before a newly constructed node's children are attached so no two
// decoded nodes collide on id 0.
func (b *Base) EnsureID() {
	if b.id == 0 {
		b.id = NewID()
	}
}

// Rebase is the exported form of rebase, for variants defined outside this
// package that embed Base and implement their own Clone.
func (b Base) Rebase() Base { return b.rebase() }
