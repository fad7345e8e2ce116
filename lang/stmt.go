package lang

import "github.com/slowlang/pktc/ir"

// BlockStatement is a `{ ... }` statement sequence. Next is a control-flow
// successor pointer used by a ControlFlowVisitor's Successors, not a
// structural child: two branches' tail statements may point their Next at
// the same shared BlockStatement, which is exactly how a join point gets
// more than one incoming edge. Children() deliberately does not include
// Next, so an ordinary Inspector/Modifier/Transform pass only ever sees
// the block as a plain container.
type BlockStatement struct {
	ir.Base
	Stmts []ir.Node
	Next  ir.Node
}

func NewBlockStatement(loc *ir.SrcLoc, stmts ...ir.Node) *BlockStatement {
	return &BlockStatement{Base: ir.NewBase(loc), Stmts: stmts}
}

func (b *BlockStatement) Kind() string { return "BlockStatement" }

func (b *BlockStatement) Children() []ir.Child {
	children := make([]ir.Child, len(b.Stmts))
	for i, s := range b.Stmts {
		children[i] = ir.Child{Slot: "stmts[" + itoa(i) + "]", Node: s}
	}

	return children
}

func (b *BlockStatement) SetChild(i int, n ir.Node) { b.Stmts[i] = n }

func (b *BlockStatement) Clone() ir.Node {
	c := *b
	c.Base = b.Base.Rebase()
	c.Stmts = cloneNodes(b.Stmts)

	return &c
}

func (b *BlockStatement) Equal(other ir.Node) bool {
	o, ok := other.(*BlockStatement)
	return ok && nodesEqual(b.Stmts, o.Stmts)
}

func (b *BlockStatement) Validate() error { return nil }

// Declarations implements ir.GeneralNamespace: a block may contain local
// Variable/Constant declarations mixed in with ordinary statements.
func (b *BlockStatement) Declarations() []ir.Declaration {
	var decls []ir.Declaration

	for _, s := range b.Stmts {
		if d, ok := s.(ir.Declaration); ok {
			decls = append(decls, d)
		}
	}

	return decls
}

// Successors implements the control-flow edge leaving a block: straight
// to Next, if any.
func (b *BlockStatement) Successors() []ir.Node {
	if b.Next == nil {
		return nil
	}

	return []ir.Node{b.Next}
}

// IfStatement is a two-way branch. Its structural children are Cond,
// Then and Else (Else may be nil); its control-flow successors are Then
// and Else's entry points, which is where a caller wires up the shared
// join target that makes SetupJoinPoints see an in-degree above one.
type IfStatement struct {
	ir.Base
	Cond       ir.Node
	Then, Else ir.Node
}

func NewIfStatement(loc *ir.SrcLoc, cond, then, els ir.Node) *IfStatement {
	return &IfStatement{Base: ir.NewBase(loc), Cond: cond, Then: then, Else: els}
}

func (s *IfStatement) Kind() string { return "IfStatement" }

func (s *IfStatement) Children() []ir.Child {
	children := []ir.Child{{Slot: "cond", Node: s.Cond}, {Slot: "then", Node: s.Then}}
	if s.Else != nil {
		children = append(children, ir.Child{Slot: "else", Node: s.Else})
	}

	return children
}

func (s *IfStatement) SetChild(i int, n ir.Node) {
	switch i {
	case 0:
		s.Cond = n
	case 1:
		s.Then = n
	case 2:
		s.Else = n
	default:
		panic("IfStatement has at most three children")
	}
}

func (s *IfStatement) Clone() ir.Node {
	c := *s
	c.Base = s.Base.Rebase()

	return &c
}

func (s *IfStatement) Equal(other ir.Node) bool {
	o, ok := other.(*IfStatement)
	return ok && nodeEqual(s.Cond, o.Cond) && nodeEqual(s.Then, o.Then) && nodeEqual(s.Else, o.Else)
}

func (s *IfStatement) Validate() error { return nil }

// Successors implements the control-flow edges leaving an if: into Then
// and, when present, Else.
func (s *IfStatement) Successors() []ir.Node {
	succ := []ir.Node{s.Then}
	if s.Else != nil {
		succ = append(succ, s.Else)
	}

	return succ
}
