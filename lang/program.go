package lang

import "github.com/slowlang/pktc/ir"

// Program is the root of a parsed unit: an ordered list of top-level
// declarations (match_kind groups, externs, headers/structs, parsers,
// controls, actions, functions, the package type and its instantiation).
// It implements ir.ProgramNode (a NestedNamespace): Declarations exposes
// only the directly-nameable top-level declarations, while InnerNamespaces
// gives the resolver the nested scopes (controls, parsers, externs,
// functions and any other top-level Namespace) to search when the
// program's own names hold no match.
type Program struct {
	ir.Base
	Decls []ir.Node
}

func NewProgram(loc *ir.SrcLoc, decls ...ir.Node) *Program {
	return &Program{Base: ir.NewBase(loc), Decls: decls}
}

func (p *Program) Kind() string { return "Program" }

func (p *Program) Children() []ir.Child {
	children := make([]ir.Child, len(p.Decls))
	for i, d := range p.Decls {
		children[i] = ir.Child{Slot: "decls[" + itoa(i) + "]", Node: d}
	}

	return children
}

func (p *Program) SetChild(i int, n ir.Node) { p.Decls[i] = n }

func (p *Program) Clone() ir.Node {
	c := *p
	c.Base = p.Base.Rebase()
	c.Decls = cloneNodes(p.Decls)

	return &c
}

func (p *Program) Equal(other ir.Node) bool {
	o, ok := other.(*Program)
	return ok && nodesEqual(p.Decls, o.Decls)
}

func (p *Program) Validate() error { return nil }

func (p *Program) Declarations() []ir.Declaration {
	var decls []ir.Declaration

	for _, d := range p.Decls {
		if g, ok := d.(*MatchKindGroup); ok {
			decls = append(decls, g.Declarations()...)
			continue
		}

		if decl, ok := d.(ir.Declaration); ok {
			decls = append(decls, decl)
		}
	}

	return decls
}

// InnerNamespaces returns the top-level declarations that are themselves
// Namespaces (controls, parsers, externs, functions and any other
// Namespace), in declared order; per ir.NestedNamespace, a resolver
// searches these in reverse only when Declarations holds no match.
func (p *Program) InnerNamespaces() []ir.Namespace {
	var ns []ir.Namespace

	for _, d := range p.Decls {
		if n, ok := d.(ir.Namespace); ok {
			ns = append(ns, n)
		}
	}

	return ns
}
