package ir_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slowlang/pktc/ir"
	"github.com/slowlang/pktc/lang"
)

// branchState is a trivial ir.FlowState recording which branch a
// control-flow path passed through, used to check that the state merged
// at a join reflects both arms.
type branchState struct {
	seen map[string]bool
}

func newBranchState() *branchState { return &branchState{seen: map[string]bool{}} }

func (b *branchState) Snapshot() ir.FlowState {
	c := newBranchState()
	for k := range b.seen {
		c.seen[k] = true
	}

	return c
}

func (b *branchState) Merge(other ir.FlowState) {
	o := other.(*branchState)
	for k := range o.seen {
		b.seen[k] = true
	}
}

type ifElseJoinVisitor struct {
	ir.NoopInspector
	*branchState

	thenBlock, elseBlock *lang.BlockStatement
	visited              []ir.Node
}

func (v *ifElseJoinVisitor) Preorder(_ *ir.Context, n ir.Node) (bool, error) {
	v.visited = append(v.visited, n)

	switch n.Kind() {
	case "BlockStatement":
		if n.(*lang.BlockStatement) == v.thenBlock {
			v.seen["then"] = true
		}
		if n.(*lang.BlockStatement) == v.elseBlock {
			v.seen["else"] = true
		}
	}

	return true, nil
}

func (v *ifElseJoinVisitor) Successors(n ir.Node) []ir.Node { return lang.Successors(n) }

func (v *ifElseJoinVisitor) countVisits(n ir.Node) int {
	count := 0

	for _, visited := range v.visited {
		if visited == n {
			count++
		}
	}

	return count
}

var _ ir.ControlFlowVisitor = (*ifElseJoinVisitor)(nil)

// TestApplyControlFlowJoinsAtStatementFollowingIfElse exercises the
// concrete scenario a ControlFlowVisitor is built for: an if-then-else
// inside a block joins at the following statement S, which is both an
// ordinary structural sibling of the IfStatement in the enclosing
// BlockStatement.Stmts and a control-flow join target reached twice,
// through Then's and Else's Next pointers. S must be fully visited
// exactly once, with the merged state reflecting both branches, and
// ApplyControlFlow must not mistake S's later arrival as an ordinary
// sibling for a second join.
func TestApplyControlFlowJoinsAtStatementFollowingIfElse(t *testing.T) {
	s := lang.NewBlockStatement(nil)
	thenBlock := lang.NewBlockStatement(nil)
	elseBlock := lang.NewBlockStatement(nil)
	thenBlock.Next = s
	elseBlock.Next = s

	ifStmt := lang.NewIfStatement(nil, lang.NewBoolLiteral(nil, true), thenBlock, elseBlock)
	outer := lang.NewBlockStatement(nil, ifStmt, s)

	v := &ifElseJoinVisitor{branchState: newBranchState()}
	v.thenBlock, v.elseBlock = thenBlock, elseBlock

	err := ir.ApplyControlFlow(context.Background(), outer, v, ir.FlowOptions{})
	require.NoError(t, err)

	require.Equal(t, 1, v.countVisits(s))
	require.True(t, v.seen["then"])
	require.True(t, v.seen["else"])
}
