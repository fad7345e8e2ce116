package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	n := newFix("a")

	status, err := tr.TryStart(n, true)
	require.NoError(t, err)
	require.Equal(t, New, status)

	status, err = tr.TryStart(n, true)
	require.NoError(t, err)
	require.Equal(t, Busy, status)
	require.True(t, tr.IsBusy(n))

	changed, canonical, err := tr.Finish(n, n, false)
	require.NoError(t, err)
	require.False(t, changed)
	require.Same(t, n, canonical)
	require.False(t, tr.IsBusy(n))

	status, err = tr.TryStart(n, true)
	require.NoError(t, err)
	require.Equal(t, Done, status)

	tr.VisitAgain(n)

	status, err = tr.TryStart(n, true)
	require.NoError(t, err)
	require.Equal(t, Revisit, status)
}

func TestTrackerFinishCoalescesStructurallyEqualClones(t *testing.T) {
	tr := NewTracker()

	a := newFix("x")
	_, err := tr.TryStart(a, true)
	require.NoError(t, err)

	_, canonA, err := tr.Finish(a, a, false)
	require.NoError(t, err)

	b := newFix("y")
	_, err = tr.TryStart(b, true)
	require.NoError(t, err)

	clone := newFix("x")

	changed, canonB, err := tr.Finish(b, clone, false)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, canonA.NodeID(), canonB.NodeID())
}

func TestTrackerFinishNilPrunes(t *testing.T) {
	tr := NewTracker()

	n := newFix("gone")
	_, err := tr.TryStart(n, true)
	require.NoError(t, err)

	changed, canonical, err := tr.Finish(n, nil, false)
	require.NoError(t, err)
	require.True(t, changed)
	require.Nil(t, canonical)
}

func TestTrackerFinishWithoutStartErrors(t *testing.T) {
	tr := NewTracker()
	n := newFix("orphan")

	_, _, err := tr.Finish(n, n, false)
	require.Error(t, err)
}

func TestTrackerResultAndFinalResult(t *testing.T) {
	tr := NewTracker()

	n := newFix("orig")
	_, err := tr.TryStart(n, true)
	require.NoError(t, err)

	rewritten := newFix("rewritten")
	_, canonical, err := tr.Finish(n, rewritten, false)
	require.NoError(t, err)

	require.Equal(t, canonical, tr.Result(n))

	res, ok := tr.FinalResult(n)
	require.True(t, ok)
	require.Equal(t, canonical, res)

	untouched := newFix("never started")
	require.Equal(t, untouched, tr.Result(untouched))

	_, ok = tr.FinalResult(untouched)
	require.False(t, ok)
}
