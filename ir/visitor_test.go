package ir

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingInspector struct {
	NoopInspector
	pre  []string
	post []string
}

func (r *recordingInspector) Preorder(_ *Context, n Node) (bool, error) {
	r.pre = append(r.pre, n.(*fixNode).Name)
	return true, nil
}

func (r *recordingInspector) Postorder(_ *Context, n Node) error {
	r.post = append(r.post, n.(*fixNode).Name)
	return nil
}

func TestApplyInspectorVisitsSharedDagNodeOnce(t *testing.T) {
	shared := newFix("shared")
	root := newFix("root", shared, shared)

	insp := &recordingInspector{}
	err := ApplyInspector(context.Background(), root, insp, DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, []string{"root", "shared"}, insp.pre)
	require.Equal(t, []string{"shared", "root"}, insp.post)
}

func TestApplyInspectorVisitsEveryOccurrenceWhenDagOnceDisabled(t *testing.T) {
	shared := newFix("shared")
	root := newFix("root", shared, shared)

	insp := &recordingInspector{}
	err := ApplyInspector(context.Background(), root, insp, Options{VisitDagOnce: false, ForwardChildrenBeforePreorder: true})
	require.NoError(t, err)

	require.Equal(t, []string{"root", "shared", "shared"}, insp.pre)
}

func TestApplyInspectorNeverMutatesTree(t *testing.T) {
	root := newFix("root", newFix("leaf"))
	before := root.Name

	insp := &recordingInspector{}
	err := ApplyInspector(context.Background(), root, insp, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, before, root.Name)
}

type renameModifier struct {
	NoopModifier
	from, to string
}

func (m *renameModifier) Preorder(_ *Context, clone Node) (bool, error) {
	f := clone.(*fixNode)
	if f.Name == m.from {
		f.Name = m.to
	}

	return true, nil
}

func TestApplyModifierRewritesCloneNotOriginal(t *testing.T) {
	root := newFix("root", newFix("old"))

	result, err := ApplyModifier(context.Background(), root, &renameModifier{from: "old", to: "new"}, DefaultOptions())
	require.NoError(t, err)

	rf := result.(*fixNode)
	require.Equal(t, "new", rf.Kids[0].(*fixNode).Name)
	require.Equal(t, "old", root.Kids[0].(*fixNode).Name)
	require.NotEqual(t, root.NodeID(), result.NodeID())
}

func TestApplyModifierIdentityPassReturnsOriginal(t *testing.T) {
	root := newFix("root", newFix("leaf"))

	result, err := ApplyModifier(context.Background(), root, &NoopModifier{}, DefaultOptions())
	require.NoError(t, err)
	require.Same(t, root, result)
}

func TestApplyModifierForceCloneRepublishesEvenWithoutChange(t *testing.T) {
	root := newFix("root", newFix("leaf"))

	opts := DefaultOptions()
	opts.ForceClone = true

	result, err := ApplyModifier(context.Background(), root, &NoopModifier{}, opts)
	require.NoError(t, err)
	require.NotSame(t, root, result)
	require.True(t, root.Equal(result))
}

type pruneTransform struct {
	NoopTransform
	target string
}

func (p *pruneTransform) Preorder(_ *Context, clone Node) (Node, error) {
	if clone.(*fixNode).Name == p.target {
		return nil, nil
	}

	return clone, nil
}

func TestApplyTransformPrunesMatchingSubtree(t *testing.T) {
	root := newFix("root", newFix("keep"), newFix("drop"))

	result, err := ApplyTransform(context.Background(), root, &pruneTransform{target: "drop"}, DefaultOptions())
	require.NoError(t, err)

	rf := result.(*fixNode)
	require.Len(t, rf.Kids, 2)
	require.NotNil(t, rf.Kids[0])
	require.Nil(t, rf.Kids[1])
}

type substituteTransform struct {
	NoopTransform
	target, with string
}

func (s *substituteTransform) Preorder(_ *Context, clone Node) (Node, error) {
	if clone.(*fixNode).Name == s.target {
		return newFix(s.with), nil
	}

	return clone, nil
}

func TestApplyTransformSubstitutesReplacementSubtree(t *testing.T) {
	root := newFix("root", newFix("old"))

	result, err := ApplyTransform(context.Background(), root, &substituteTransform{target: "old", with: "new"}, DefaultOptions())
	require.NoError(t, err)

	rf := result.(*fixNode)
	require.Equal(t, "new", rf.Kids[0].(*fixNode).Name)
}

type incrementConstants struct {
	NoopTransform
}

func (incrementConstants) Postorder(_ *Context, clone Node) (Node, error) {
	f := clone.(*fixNode)
	if n, err := strconv.Atoi(f.Name); err == nil {
		f.Name = strconv.Itoa(n + 1)
	}

	return f, nil
}

func TestApplyTransformIncrementsSharedSiblingConstantsAndClonesParentOnce(t *testing.T) {
	c1, c2, c3 := newFix("1"), newFix("2"), newFix("3")
	expr := newFix("expr", c1, c2, c3)
	root := newFix("root", expr)

	untouched := newFix("9")

	result, err := ApplyTransform(context.Background(), root, incrementConstants{}, DefaultOptions())
	require.NoError(t, err)

	rf := result.(*fixNode)
	ef := rf.Kids[0].(*fixNode)
	require.NotSame(t, expr, ef)
	require.Equal(t, "2", ef.Kids[0].(*fixNode).Name)
	require.Equal(t, "3", ef.Kids[1].(*fixNode).Name)
	require.Equal(t, "4", ef.Kids[2].(*fixNode).Name)

	require.Equal(t, "1", c1.Name)
	require.Equal(t, "2", c2.Name)
	require.Equal(t, "3", c3.Name)
	require.Equal(t, "9", untouched.Name)
}

func TestContextEnclosingWalksOutward(t *testing.T) {
	var captured *Context

	insp := &funcInspector{
		pre: func(c *Context, n Node) (bool, error) {
			if n.(*fixNode).Name == "leaf" {
				captured = c
			}

			return true, nil
		},
	}

	leaf := newFix("leaf")
	mid := newFix("mid", leaf)
	root := newFix("root", mid)

	err := ApplyInspector(context.Background(), root, insp, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, captured)

	f := captured.EnclosingOfKind("Fix")
	require.NotNil(t, f)

	names := []string{}
	for _, n := range captured.Path() {
		names = append(names, n.(*fixNode).Name)
	}
	require.Equal(t, []string{"root", "mid", "leaf"}, names)
}

type funcInspector struct {
	NoopInspector
	pre func(c *Context, n Node) (bool, error)
}

func (f *funcInspector) Preorder(c *Context, n Node) (bool, error) { return f.pre(c, n) }
