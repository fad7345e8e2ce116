// Package resolve implements §4.F (Resolution Context) and §4.G
// (Reference Resolver): a scope walker built on the ir package's
// capability traits, and an Inspector that binds every Path/Type_Name in
// a program to the Declaration it names.
package resolve

import (
	"tlog.app/go/errors"

	"github.com/slowlang/pktc/ir"
	"github.com/slowlang/pktc/lang"
)

// Kind filters a lookup by what capability the candidate declaration
// must satisfy, mirroring the Type/TypeVariable/Any tag filters §3
// assigns to resolution.
type Kind int

const (
	Any Kind = iota
	TypeKind
	TypeVariableKind
)

// ErrSelfReferentialType is the diagnostic p4c's resolveReferences.cpp
// raises for a `typedef T T;`-shaped cycle: a type name resolved from
// inside a declaration's own type subtree binding back to that same
// declaration.
var ErrSelfReferentialType = errors.New("self-referential type definition")

// ErrNotFound and ErrAmbiguous back §4.F's resolveUnique outcomes.
var (
	ErrNotFound  = errors.New("declaration not found")
	ErrAmbiguous = errors.New("multiple matching declarations")
)

type bucket map[string][]ir.Declaration

// Context is the Resolution Context of §4.F: a scope walker built over
// the Context stack from an in-progress traversal, lazily memoizing each
// Namespace's declaration buckets.
type Context struct {
	Program *lang.Program

	// AnyOrder suppresses the position-before-use ordering filter
	// entirely; it is derived from the v1-vs-v1.6 language-version
	// option at construction (§4.F, §1.3).
	AnyOrder bool

	buckets map[int]bucket
}

// NewContext returns a fresh Resolution Context over program.
func NewContext(program *lang.Program, anyOrder bool) *Context {
	return &Context{Program: program, AnyOrder: anyOrder, buckets: map[int]bucket{}}
}

// bucketFor lazily builds and caches ns's name buckets from
// ns.Declarations(), per §3's "flattened list... and a map from name to
// the bucket of declarations with that name".
func (c *Context) bucketFor(ns ir.Namespace) bucket {
	if b, ok := c.buckets[ns.NodeID()]; ok {
		return b
	}

	b := bucket{}

	for _, d := range ns.Declarations() {
		b[d.DeclName()] = append(b[d.DeclName()], d)
	}

	c.buckets[ns.NodeID()] = b

	return b
}

func matchesKind(d ir.Declaration, kind Kind) bool {
	switch kind {
	case TypeKind:
		_, ok := d.(ir.TypeNode)
		return ok
	case TypeVariableKind:
		_, ok := d.(ir.TypeVariableNode)
		return ok
	default:
		return true
	}
}

// forwardReferenceExempt reports whether d is allowed to be declared
// after the use site under ordered (non-v1) lookup: type variables,
// parser states and parameters may always be forward-referenced. The
// parameter exemption covers a method's own parameters referenced from
// annotations preceding the method body, and it applies to every
// parameter wherever the use sits, not only to those uses (§4.F).
func forwardReferenceExempt(d ir.Declaration) bool {
	switch d.(type) {
	case ir.TypeVariableNode, ir.ParserStateNode, ir.ParameterNode:
		return true
	default:
		return false
	}
}

// lookup implements §4.F's `lookup(ns, name, kind)`: pick name's bucket
// in ns, filter by kind, apply the ordered position-before-use filter
// unless AnyOrder, detect self-reference, then recurse into inner
// namespaces in reverse order if nothing was found directly.
func (c *Context) lookup(cx *ir.Context, ns ir.Namespace, name string, kind Kind, useLine int) ([]ir.Declaration, error) {
	var out []ir.Declaration

	for _, d := range c.bucketFor(ns)[name] {
		if !matchesKind(d, kind) {
			continue
		}

		if !c.AnyOrder && !forwardReferenceExempt(d) {
			if loc := d.Loc(); loc != nil && useLine > 0 && loc.Line > useLine {
				continue
			}
		}

		if kind == TypeKind || kind == Any {
			if err := c.checkSelfReferential(cx, d); err != nil {
				return nil, err
			}
		}

		out = append(out, d)
	}

	if len(out) > 0 {
		return out, nil
	}

	if nested, ok := ns.(ir.NestedNamespace); ok {
		inner := nested.InnerNamespaces()

		for i := len(inner) - 1; i >= 0; i-- {
			found, err := c.lookup(cx, inner[i], name, kind, useLine)
			if err != nil {
				return nil, err
			}

			if len(found) > 0 {
				return found, nil
			}
		}
	}

	return nil, nil
}

// checkSelfReferential flags a lookup of d performed from lexically
// inside d's own subtree — the generalized form of `typedef T T;`.
func (c *Context) checkSelfReferential(cx *ir.Context, d ir.Declaration) error {
	if cx == nil {
		return nil
	}

	if enc := cx.Enclosing(func(n ir.Node) bool { return n.NodeID() == d.NodeID() }); enc != nil {
		return errors.Wrap(ErrSelfReferentialType, "%s", d.DeclName())
	}

	return nil
}

// LookupMatchKind implements §4.F's `lookupMatchKind(name)`: search every
// top-level MatchKindGroup in the program for a declaration named name.
func (c *Context) LookupMatchKind(name string) ir.Declaration {
	for _, decl := range c.Program.Decls {
		g, ok := decl.(*lang.MatchKindGroup)
		if !ok {
			continue
		}

		for _, k := range g.Kinds {
			if k.DeclName() == name {
				return k
			}
		}
	}

	return nil
}

// Resolve implements §4.F's `resolve(name, kind)`: walk cx upward, and at
// each frame that is a Namespace, call lookup; return the first
// non-empty candidate set. If kind is Any and nothing matched, fall back
// to the flat match-kind namespace.
func (c *Context) Resolve(cx *ir.Context, name string, kind Kind) ([]ir.Declaration, error) {
	useLine := 0
	if cx != nil && cx.Original != nil && cx.Original.Loc() != nil {
		useLine = cx.Original.Loc().Line
	}

	for f := cx; f != nil; f = f.Parent {
		ns, ok := f.Original.(ir.Namespace)
		if !ok {
			continue
		}

		decls, err := c.lookup(cx, ns, name, kind, useLine)
		if err != nil {
			return nil, err
		}

		if len(decls) > 0 {
			return decls, nil
		}
	}

	if kind == Any {
		if mk := c.LookupMatchKind(name); mk != nil {
			return []ir.Declaration{mk}, nil
		}
	}

	return nil, nil
}

// MethodArguments implements §4.F's `methodArguments(name)`: walk cx
// looking for the nearest MethodCallExpression or Declaration_Instance
// whose callee/type name matches name, and return its argument vector.
func (c *Context) MethodArguments(cx *ir.Context, name string) ([]ir.Node, bool) {
	for f := cx; f != nil; f = f.Parent {
		switch n := f.Original.(type) {
		case *lang.MethodCallExpression:
			if pe, ok := n.Method.(*lang.PathExpression); ok && pe.P.Name == name {
				return n.Args, true
			}
		case *lang.Declaration_Instance:
			if tn, ok := n.Type.(*lang.Type_Name); ok && tn.P.Name == name {
				return n.Args, true
			}
		}
	}

	return nil, false
}

// ResolveUnique implements §4.F's `resolveUnique(name, kind, ns)`: if
// candidates has more than one element and an argument vector is
// available, filter by Functional.CallMatches; an empty result is
// ErrNotFound, more than one remaining is ErrAmbiguous naming every
// candidate.
func (c *Context) ResolveUnique(cx *ir.Context, name string, kind Kind, ns ir.Namespace) (ir.Declaration, error) {
	var (
		candidates []ir.Declaration
		err        error
	)

	if ns != nil {
		candidates, err = c.lookup(cx, ns, name, kind, 0)
	} else {
		candidates, err = c.Resolve(cx, name, kind)
	}

	if err != nil {
		return nil, err
	}

	if len(candidates) > 1 {
		if args, ok := c.MethodArguments(cx, name); ok {
			candidates = filterFunctional(candidates, args)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, errors.Wrap(ErrNotFound, "%s", name)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, len(candidates))
		for i, d := range candidates {
			names[i] = d.Kind() + "@" + d.Loc().String()
		}

		return nil, errors.Wrap(ErrAmbiguous, "%s: %v", name, names)
	}
}

func filterFunctional(candidates []ir.Declaration, args []ir.Node) []ir.Declaration {
	var out []ir.Declaration

	for _, d := range candidates {
		f, ok := d.(ir.Functional)
		if !ok || f.CallMatches(args) {
			out = append(out, d)
		}
	}

	return out
}

// ResolvePath implements §4.F's `resolvePath(path)`: if path.Absolute,
// force the starting namespace to the Program root; kind is Type if
// isType (the syntactic parent is a type name), else Any.
func (c *Context) ResolvePath(cx *ir.Context, path *lang.Path, isType bool) (ir.Declaration, error) {
	kind := Any
	if isType {
		kind = TypeKind
	}

	var ns ir.Namespace
	if path.Absolute {
		ns = c.Program
	}

	return c.ResolveUnique(cx, path.Name, kind, ns)
}

// ErrThisOutsideInstance backs §4.G's This-outside-abstract-method
// diagnostic.
var ErrThisOutsideInstance = errors.New("This used outside an abstract method body")

// GetDeclaration implements §4.F's `getDeclaration(This)`: only legal
// inside a Function whose enclosing frame is a Declaration_Instance;
// returns that instance.
func (c *Context) GetDeclaration(cx *ir.Context) (*lang.Declaration_Instance, error) {
	fn := cx.EnclosingOfKind("Function")
	if fn == nil {
		return nil, ErrThisOutsideInstance
	}

	if fn.Parent == nil {
		return nil, ErrThisOutsideInstance
	}

	inst, ok := fn.Parent.Original.(*lang.Declaration_Instance)
	if !ok {
		return nil, ErrThisOutsideInstance
	}

	return inst, nil
}
