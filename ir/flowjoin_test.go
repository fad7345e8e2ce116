package ir

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// flowState is a trivial FlowState recording which branch names were seen
// on the path merged into it, used to verify ApplyControlFlow's
// snapshot/merge-then-continue-past behavior at a diamond join.
type flowState struct {
	seen map[string]bool
}

func newFlowState() *flowState { return &flowState{seen: map[string]bool{}} }

func (f *flowState) Snapshot() FlowState {
	c := newFlowState()
	for k := range f.seen {
		c.seen[k] = true
	}

	return c
}

func (f *flowState) Merge(other FlowState) {
	o := other.(*flowState)
	for k := range o.seen {
		f.seen[k] = true
	}
}

// flowVisitor is a ControlFlowVisitor over a diamond: root branches to
// left and right, both of which converge on join via an edge that is not
// also an AST Children() edge (join is reached only through Successors,
// mirroring how a real BlockStatement successor to the statement following
// an IfStatement is not itself a child of the branches).
type flowVisitor struct {
	NoopInspector
	*flowState

	succ    map[Node][]Node
	visited []string
}

func (v *flowVisitor) Preorder(_ *Context, n Node) (bool, error) {
	f := n.(*fixNode)
	v.visited = append(v.visited, f.Name)
	v.seen[f.Name] = true

	return true, nil
}

func (v *flowVisitor) Successors(n Node) []Node { return v.succ[n] }

func TestApplyControlFlowMergesAtJoinOnLastArrival(t *testing.T) {
	join := newFix("join")
	left := newFix("left")
	right := newFix("right")
	root := newFix("root", left, right)

	v := &flowVisitor{
		flowState: newFlowState(),
		succ: map[Node][]Node{
			root:  {left, right},
			left:  {join},
			right: {join},
		},
	}

	err := ApplyControlFlow(context.Background(), root, v, FlowOptions{})
	require.NoError(t, err)

	require.Contains(t, v.visited, "join")
	require.Equal(t, 1, countOccurrences(v.visited, "join"))
	require.True(t, v.seen["left"])
	require.True(t, v.seen["right"])

	joinIdx, leftIdx, rightIdx := -1, -1, -1
	for i, name := range v.visited {
		switch name {
		case "join":
			joinIdx = i
		case "left":
			leftIdx = i
		case "right":
			rightIdx = i
		}
	}

	require.Greater(t, joinIdx, leftIdx)
	require.Greater(t, joinIdx, rightIdx)
}

func TestApplyControlFlowRejectsBackwardsCompatibleBroken(t *testing.T) {
	root := newFix("root")
	v := &flowVisitor{flowState: newFlowState(), succ: map[Node][]Node{}}

	err := ApplyControlFlow(context.Background(), root, v, FlowOptions{BackwardsCompatibleBroken: true})
	require.Error(t, err)
}

func countOccurrences(xs []string, target string) int {
	n := 0
	for _, x := range xs {
		if x == target {
			n++
		}
	}

	return n
}
