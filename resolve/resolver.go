package resolve

import (
	"context"
	"errors"

	"github.com/slowlang/pktc/diag"
	"github.com/slowlang/pktc/ir"
	"github.com/slowlang/pktc/lang"
)

// Resolver is the Reference Resolver of §4.G: an Inspector that binds
// every Path/Type_Name/KeyElement/This occurrence in a program to the
// Declaration it names, recording the bindings in a Map and any failure
// as a diagnostic. It never mutates the tree: a declaration may be the
// target of any number of occurrences, so it is run with
// Options.VisitDagOnce set false — a shared declaration node is still
// only one node, but each of its occurrences must be visited and bound
// independently.
type Resolver struct {
	ir.NoopInspector

	cx          *Context
	refs        *Map
	sink        *diag.Sink
	checkShadow bool

	// noWarn maps an annotation name to the diagnostic codes it
	// suppresses on the declaration carrying it (SPEC_FULL.md §1.3's
	// "per-annotation no-warn suppression lists", populated by the
	// engine from Options.NoWarn).
	noWarn map[string][]string
}

// NewResolver returns a Resolver bound to cx's scope walker, recording
// into refs and reporting through sink. checkShadow enables the
// duplicate-declaration and outer-scope shadowing diagnostics of
// checkShadowing; a caller doing a quick re-resolve after a local rewrite
// may pass false to skip the extra bucket walk.
func NewResolver(cx *Context, refs *Map, sink *diag.Sink, checkShadow bool, noWarn map[string][]string) *Resolver {
	return &Resolver{cx: cx, refs: refs, sink: sink, checkShadow: checkShadow, noWarn: noWarn}
}

// Run resolves every occurrence in program, short-circuiting entirely if
// checkShadow is false and refs is already current for it (per
// Map.CheckMap); with checkShadow set, every run walks the whole program.
func Run(ctx context.Context, program *lang.Program, cx *Context, refs *Map, sink *diag.Sink, checkShadow bool, noWarn map[string][]string) error {
	r := NewResolver(cx, refs, sink, checkShadow, noWarn)
	opts := ir.Options{VisitDagOnce: false, ForwardChildrenBeforePreorder: true}

	return ir.ApplyInspector(ctx, program, r, opts)
}

func (r *Resolver) Preorder(c *ir.Context, n ir.Node) (bool, error) {
	switch v := n.(type) {
	case *lang.Program:
		if !r.checkShadow && r.refs.CheckMap(v) {
			return false, nil
		}

	case *lang.PathExpression:
		r.resolveOccurrence(c, v, v.P, false)

	case *lang.Type_Name:
		r.resolveOccurrence(c, v, v.P, true)

	case *lang.KeyElement:
		r.resolveKeyElement(v)

	case *lang.This:
		r.resolveThis(c, v)
	}

	if r.checkShadow {
		if ns, ok := n.(ir.Namespace); ok {
			r.checkShadowing(c, ns)
		}
	}

	return true, nil
}

func (r *Resolver) Postorder(_ *ir.Context, n ir.Node) error {
	if p, ok := n.(*lang.Program); ok {
		r.refs.UpdateMap(p)
	}

	return nil
}

func (r *Resolver) resolveOccurrence(c *ir.Context, occurrence ir.Node, p *lang.Path, isType bool) {
	r.refs.UsedName(p.Name)

	decl, err := r.cx.ResolvePath(c, p, isType)
	if err != nil {
		r.sink.Errorf(occurrence.Loc(), codeFor(err), "%v", err)
		return
	}

	r.refs.SetDeclaration(occurrence, decl)
}

func (r *Resolver) resolveKeyElement(k *lang.KeyElement) {
	r.refs.UsedName(k.MatchKind)

	mk := r.cx.LookupMatchKind(k.MatchKind)
	if mk == nil {
		r.sink.Errorf(k.Loc(), "unknown-match-kind", "unknown match_kind %q", k.MatchKind)
		return
	}

	r.refs.SetDeclaration(k, mk)
}

func (r *Resolver) resolveThis(c *ir.Context, t *lang.This) {
	inst, err := r.cx.GetDeclaration(c)
	if err != nil {
		r.sink.Errorf(t.Loc(), "this-outside-instance", "%v", err)
		return
	}

	r.refs.SetDeclaration(t, inst)
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "unresolved-name"
	case errors.Is(err, ErrAmbiguous):
		return "ambiguous-name"
	case errors.Is(err, ErrSelfReferentialType):
		return "self-referential-type"
	default:
		return "resolve-error"
	}
}

// checkShadowing implements §4.G's shadowing checks for one namespace's
// declarations: a duplicate non-overloadable name inside ns is a warning
// (matching p4c's WARN_SHADOWING on an intra-scope duplicate), and a name
// that also resolves in an enclosing scope is a warning too — unless the
// hidden (outer) declaration is a parameter, which is promoted to a hard
// error, or shadowExempt's kind pairing exempts the pair as overloading
// or constructor/class name coincidence, or the declaration carries
// `@noWarn("shadowing")`.
func (r *Resolver) checkShadowing(c *ir.Context, ns ir.Namespace) {
	seen := map[string]ir.Declaration{}

	for _, d := range ns.Declarations() {
		r.refs.UsedName(d.DeclName())

		if prev, ok := seen[d.DeclName()]; ok {
			if (!overloadable(d) || !overloadable(prev)) && !suppressed(d, "shadowing", r.noWarn) {
				r.sink.Warnf(d.Loc(), "shadowing", "%q already declared at %v", d.DeclName(), prev.Loc())
			}

			continue
		}

		seen[d.DeclName()] = d

		outer := r.findOuterDecl(c, d.DeclName())
		if outer == nil {
			continue
		}

		if _, isParam := outer.(ir.ParameterNode); isParam {
			r.sink.Errorf(d.Loc(), "parameter-shadow", "%q hides parameter declared at %v", d.DeclName(), outer.Loc())
			continue
		}

		if shadowExempt(d, outer) {
			continue
		}

		if !suppressed(d, "shadowing", r.noWarn) {
			r.sink.Warnf(d.Loc(), "shadowing", "%q shadows declaration at %v", d.DeclName(), outer.Loc())
		}
	}
}

// findOuterDecl walks outward from c's parent frame (the frame below the
// namespace currently being checked) looking for an existing binding of
// name in any enclosing Namespace.
func (r *Resolver) findOuterDecl(c *ir.Context, name string) ir.Declaration {
	for f := c.Parent; f != nil; f = f.Parent {
		ns, ok := f.Original.(ir.Namespace)
		if !ok {
			continue
		}

		if ds := r.cx.bucketFor(ns)[name]; len(ds) > 0 {
			return ds[0]
		}
	}

	return nil
}

// shadowExempt reports whether d hiding outer is one of the kind pairings
// p4c's resolveReferences.cpp exempts from a shadowing warning: a Method
// or extern or the top-level Program sharing a name with a Method,
// Function, control, parser or package is ordinary overloading or the
// coincidence of a constructor sharing its enclosing type's name, not
// accidental hiding.
func shadowExempt(d, outer ir.Declaration) bool {
	innerKind, outerKind := d.Kind(), outer.Kind()

	if !isAny(innerKind, "Method", "P4Extern", "Program") {
		return false
	}

	return isAny(outerKind, "Method", "Function", "P4Control", "P4Parser", "PackageType")
}

func isAny(kind string, candidates ...string) bool {
	for _, c := range candidates {
		if kind == c {
			return true
		}
	}

	return false
}

func overloadable(d ir.Declaration) bool {
	_, ok := d.(ir.Functional)
	return ok
}

// suppressed reports whether d carries an annotation (e.g.
// `@noWarn("shadowing")`) whose name is registered in noWarn against code
// and whose argument names that same code, mirroring p4c's
// Annotation-keyed pragma handling.
func suppressed(d ir.Declaration, code string, noWarn map[string][]string) bool {
	an, ok := d.(ir.Annotated)
	if !ok {
		return false
	}

	for _, a := range an.Annotations() {
		if !a.HasArg || a.Arg != code {
			continue
		}

		for _, registered := range noWarn[a.Name] {
			if registered == code {
				return true
			}
		}
	}

	return false
}
