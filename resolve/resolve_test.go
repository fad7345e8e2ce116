package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slowlang/pktc/diag"
	"github.com/slowlang/pktc/ir"
	"github.com/slowlang/pktc/lang"
)

func TestContextResolveUniqueAmbiguousNamesEveryCandidate(t *testing.T) {
	m1 := lang.NewMethod(nil, "m", nil, []*lang.Parameter{lang.NewParameter(nil, "a", nil, "in")}, nil)
	m2 := lang.NewMethod(nil, "m", nil, []*lang.Parameter{lang.NewParameter(nil, "b", nil, "in")}, nil)
	extern := lang.NewP4Extern(nil, "E", nil, []*lang.Method{m1, m2})

	cx := NewContext(lang.NewProgram(nil, extern), false)
	frame := &ir.Context{Original: extern}

	_, err := cx.ResolveUnique(frame, "m", Any, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAmbiguous)
}

func TestContextResolveUniqueNotFound(t *testing.T) {
	extern := lang.NewP4Extern(nil, "E", nil, nil)
	cx := NewContext(lang.NewProgram(nil, extern), false)
	frame := &ir.Context{Original: extern}

	_, err := cx.ResolveUnique(frame, "zzz", Any, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContextResolveUniqueFiltersByCallArity(t *testing.T) {
	m1 := lang.NewMethod(nil, "m", nil, []*lang.Parameter{lang.NewParameter(nil, "a", nil, "in")}, nil)
	m2 := lang.NewMethod(nil, "m", nil, []*lang.Parameter{
		lang.NewParameter(nil, "a", nil, "in"),
		lang.NewParameter(nil, "b", nil, "in"),
	}, nil)
	extern := lang.NewP4Extern(nil, "E", nil, []*lang.Method{m1, m2})

	call := lang.NewMethodCallExpression(nil, lang.NewPathExpression(nil, lang.NewPath(nil, "m", false)), nil,
		[]ir.Node{lang.NewIntLiteral(nil, 1, 0, false)})

	cx := NewContext(lang.NewProgram(nil, extern), false)
	callFrame := &ir.Context{Original: call, Parent: &ir.Context{Original: extern}}

	got, err := cx.ResolveUnique(callFrame, "m", Any, nil)
	require.NoError(t, err)
	require.Same(t, m1, got)
}

func TestContextCheckSelfReferentialType(t *testing.T) {
	hdr := lang.NewStructLike(nil, "Hdr", true, nil)
	prog := lang.NewProgram(nil, hdr)
	cx := NewContext(prog, false)

	root := &ir.Context{Original: prog}
	hdrFrame := &ir.Context{Original: hdr, Parent: root}

	_, err := cx.ResolveUnique(hdrFrame, "Hdr", TypeKind, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSelfReferentialType)
}

func TestContextLookupMatchKind(t *testing.T) {
	mk := lang.NewMatchKindDecl(nil, "exact")
	group := lang.NewMatchKindGroup(nil, mk)
	prog := lang.NewProgram(nil, group)
	cx := NewContext(prog, false)

	require.Same(t, mk, cx.LookupMatchKind("exact"))
	require.Nil(t, cx.LookupMatchKind("nope"))
}

func TestContextMethodArgumentsFindsEnclosingCall(t *testing.T) {
	args := []ir.Node{lang.NewIntLiteral(nil, 1, 0, false)}
	call := lang.NewMethodCallExpression(nil, lang.NewPathExpression(nil, lang.NewPath(nil, "f", false)), nil, args)

	cx := NewContext(lang.NewProgram(nil), false)
	frame := &ir.Context{Original: call}

	got, ok := cx.MethodArguments(frame, "f")
	require.True(t, ok)
	require.Equal(t, args, got)

	_, ok = cx.MethodArguments(frame, "other")
	require.False(t, ok)
}

func TestContextGetDeclarationFindsEnclosingInstance(t *testing.T) {
	inst := lang.NewDeclarationInstance(nil, "inst1", lang.NewTypeName(nil, lang.NewPath(nil, "T", false)), nil)
	fn := lang.NewFunction(nil, "apply", nil, nil, nil, lang.NewBlockStatement(nil))

	cx := NewContext(lang.NewProgram(nil), false)
	instFrame := &ir.Context{Original: inst}
	fnFrame := &ir.Context{Original: fn, Parent: instFrame}

	got, err := cx.GetDeclaration(fnFrame)
	require.NoError(t, err)
	require.Same(t, inst, got)
}

func TestContextGetDeclarationOutsideInstanceErrors(t *testing.T) {
	cx := NewContext(lang.NewProgram(nil), false)
	frame := &ir.Context{Original: lang.NewBlockStatement(nil)}

	_, err := cx.GetDeclaration(frame)
	require.ErrorIs(t, err, ErrThisOutsideInstance)
}

func TestRunResolvesTypeNameToStructDeclaration(t *testing.T) {
	hdr := lang.NewStructLike(nil, "Hdr", true, nil)
	v := lang.NewVariable(nil, "h", lang.NewTypeName(nil, lang.NewPath(nil, "Hdr", false)), nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, v))
	prog := lang.NewProgram(nil, hdr, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 0, sink.Count())

	decl, ok := refs.GetDeclaration(v.Type)
	require.True(t, ok)
	require.Equal(t, "Hdr", decl.DeclName())
}

func TestRunReportsUnresolvedName(t *testing.T) {
	ref := lang.NewPathExpression(nil, lang.NewPath(nil, "missing", false))
	v := lang.NewVariable(nil, "v", nil, ref)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, v))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 1, sink.Count())
	require.Equal(t, "unresolved-name", sink.Diagnostics()[0].Code)
}

func TestRunShadowingWarnsOnceByDefault(t *testing.T) {
	outer := lang.NewVariable(nil, "h", nil, nil)
	inner := lang.NewVariable(nil, "h", nil, nil)
	innerBlock := lang.NewBlockStatement(nil, inner)
	ifStmt := lang.NewIfStatement(nil, lang.NewBoolLiteral(nil, true), innerBlock, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, outer, ifStmt))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, nil))
	require.Equal(t, 0, sink.Count())

	var warnings []diag.Diagnostic
	for _, d := range sink.Diagnostics() {
		if d.Severity == diag.SeverityWarning {
			warnings = append(warnings, d)
		}
	}

	require.Len(t, warnings, 1)
	require.Equal(t, "shadowing", warnings[0].Code)
}

func TestRunShadowingSilentWhenCheckShadowDisabled(t *testing.T) {
	outer := lang.NewVariable(nil, "h", nil, nil)
	inner := lang.NewVariable(nil, "h", nil, nil)
	innerBlock := lang.NewBlockStatement(nil, inner)
	ifStmt := lang.NewIfStatement(nil, lang.NewBoolLiteral(nil, true), innerBlock, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, outer, ifStmt))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Empty(t, sink.Diagnostics())
}

func TestRunShadowingSuppressedByNoWarnAnnotation(t *testing.T) {
	outer := lang.NewVariable(nil, "h", nil, nil)
	inner := lang.NewVariable(nil, "h", nil, nil)
	inner.Anns = []*lang.AnnotationNode{lang.NewAnnotationNode(nil, "noWarn", lang.NewPath(nil, "shadowing", false))}
	innerBlock := lang.NewBlockStatement(nil, inner)
	ifStmt := lang.NewIfStatement(nil, lang.NewBoolLiteral(nil, true), innerBlock, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, outer, ifStmt))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	noWarn := map[string][]string{"noWarn": {"shadowing"}}
	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, noWarn))
	require.Empty(t, sink.Diagnostics())
}

func TestRunParameterShadowIsHardError(t *testing.T) {
	param := lang.NewParameter(nil, "h", nil, "in")
	inner := lang.NewVariable(nil, "h", nil, nil)
	block := lang.NewBlockStatement(nil, inner)
	fn := lang.NewFunction(nil, "f", nil, []*lang.Parameter{param}, nil, block)
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, nil))
	require.Equal(t, 1, sink.Count())
	require.Equal(t, "parameter-shadow", sink.Diagnostics()[0].Code)
}

func TestRunDuplicateDeclarationInSameScopeWarns(t *testing.T) {
	a := lang.NewVariable(nil, "h", nil, nil)
	b := lang.NewVariable(nil, "h", nil, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, a, b))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, nil))
	require.Equal(t, 0, sink.Count())
	require.Len(t, sink.Diagnostics(), 1)
	require.Equal(t, diag.SeverityWarning, sink.Diagnostics()[0].Severity)
	require.Equal(t, "shadowing", sink.Diagnostics()[0].Code)
}

func TestRunDuplicateDeclarationInSameScopeSuppressedByNoWarnAnnotation(t *testing.T) {
	a := lang.NewVariable(nil, "h", nil, nil)
	b := lang.NewVariable(nil, "h", nil, nil)
	b.Anns = []*lang.AnnotationNode{lang.NewAnnotationNode(nil, "noWarn", lang.NewPath(nil, "shadowing", false))}
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, a, b))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	noWarn := map[string][]string{"noWarn": {"shadowing"}}
	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, noWarn))
	require.Empty(t, sink.Diagnostics())
}

func TestRunMethodNameCoincidingWithOuterFunctionIsExemptFromShadowing(t *testing.T) {
	outerFn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil))
	m := lang.NewMethod(nil, "f", nil, nil, nil)
	extern := lang.NewP4Extern(nil, "E", nil, []*lang.Method{m})
	prog := lang.NewProgram(nil, outerFn, extern)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, true, nil))
	require.Empty(t, sink.Diagnostics())
}

func TestRunShortCircuitsWhenMapIsCurrentForRoot(t *testing.T) {
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 0, sink.Count())
	require.True(t, refs.CheckMap(prog))

	badRef := lang.NewPathExpression(nil, lang.NewPath(nil, "nope", false))
	badVar := lang.NewVariable(nil, "bad", nil, badRef)
	prog.Decls = append(prog.Decls, badVar)

	sink2 := diag.NewSink(nil)
	require.NoError(t, Run(context.Background(), prog, cx, refs, sink2, false, nil))
	require.Equal(t, 0, sink2.Count())

	refs.Clear()

	sink3 := diag.NewSink(nil)
	require.NoError(t, Run(context.Background(), prog, cx, refs, sink3, false, nil))
	require.Equal(t, 1, sink3.Count())
}

func TestRunBindsThisToEnclosingDeclarationInstance(t *testing.T) {
	fn := lang.NewFunction(nil, "apply", nil, nil, nil, lang.NewBlockStatement(nil, lang.NewThis(nil)))
	inst := lang.NewDeclarationInstance(nil, "inst1", lang.NewTypeName(nil, lang.NewPath(nil, "T", false)), []ir.Node{fn})
	prog := lang.NewProgram(nil, inst)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))

	this := fn.Body.Stmts[0].(*lang.This)
	decl, ok := refs.GetDeclaration(this)
	require.True(t, ok)
	require.Same(t, inst, decl)
}

func TestRunThisOutsideInstanceIsDiagnostic(t *testing.T) {
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, lang.NewThis(nil)))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 1, sink.Count())
	require.Equal(t, "this-outside-instance", sink.Diagnostics()[0].Code)
}

func TestRunUnknownMatchKindIsDiagnostic(t *testing.T) {
	h := lang.NewVariable(nil, "h", nil, nil)
	key := lang.NewKeyElement(nil, lang.NewPathExpression(nil, lang.NewPath(nil, "h", false)), "bogus")
	props := lang.NewTableProperties(nil, []*lang.KeyElement{key}, nil, nil)
	tbl := lang.NewP4Table(nil, "t", props)
	prog := lang.NewProgram(nil, h, tbl)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 1, sink.Count())
	require.Equal(t, "unknown-match-kind", sink.Diagnostics()[0].Code)
}

func TestRunKeyElementResolvesKnownMatchKind(t *testing.T) {
	mk := lang.NewMatchKindDecl(nil, "exact")
	group := lang.NewMatchKindGroup(nil, mk)

	h := lang.NewVariable(nil, "h", nil, nil)
	key := lang.NewKeyElement(nil, lang.NewPathExpression(nil, lang.NewPath(nil, "h", false)), "exact")
	props := lang.NewTableProperties(nil, []*lang.KeyElement{key}, nil, nil)
	tbl := lang.NewP4Table(nil, "t", props)
	prog := lang.NewProgram(nil, group, h, tbl)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 0, sink.Count())

	decl, ok := refs.GetDeclaration(key)
	require.True(t, ok)
	require.Same(t, mk, decl)
}

func TestRunOrderedModeRejectsForwardReferencedVariable(t *testing.T) {
	ref := lang.NewPathExpression(&ir.SrcLoc{Line: 5}, lang.NewPath(nil, "x", false))
	use := lang.NewVariable(nil, "useHolder", nil, ref)

	decl := lang.NewVariable(&ir.SrcLoc{Line: 10}, "x", nil, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, use, decl))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, false)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 1, sink.Count())
	require.Equal(t, "unresolved-name", sink.Diagnostics()[0].Code)
}

func TestRunV1ModeAllowsForwardReferencedVariable(t *testing.T) {
	ref := lang.NewPathExpression(&ir.SrcLoc{Line: 5}, lang.NewPath(nil, "x", false))
	use := lang.NewVariable(nil, "useHolder", nil, ref)

	decl := lang.NewVariable(&ir.SrcLoc{Line: 10}, "x", nil, nil)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, use, decl))
	prog := lang.NewProgram(nil, fn)

	cx := NewContext(prog, true)
	refs := NewMap(false)
	sink := diag.NewSink(nil)

	require.NoError(t, Run(context.Background(), prog, cx, refs, sink, false, nil))
	require.Equal(t, 0, sink.Count())

	got, ok := refs.GetDeclaration(ref)
	require.True(t, ok)
	require.Same(t, decl, got)
}

func TestNameSetAddHas(t *testing.T) {
	s := NameSet{}
	require.False(t, s.Has("x"))
	s.Add("x")
	require.True(t, s.Has("x"))
}

func TestMapIsV1(t *testing.T) {
	m := NewMap(true)
	require.True(t, m.IsV1())

	m2 := NewMap(false)
	require.False(t, m2.IsV1())
}
