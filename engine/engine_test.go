package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slowlang/pktc/diag"
	"github.com/slowlang/pktc/lang"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()

	require.Equal(t, V1_6, o.Version)
	require.True(t, o.CheckShadow)
	require.False(t, o.AnyOrder())
	require.True(t, o.Suppresses("noWarn", "shadowing"))
	require.False(t, o.Suppresses("noWarn", "unused"))
}

func TestOptionsAnyOrderTracksVersion(t *testing.T) {
	require.True(t, Options{Version: V1}.AnyOrder())
	require.False(t, Options{Version: V1_6}.AnyOrder())
}

func TestNewStateBuildsResolutionContext(t *testing.T) {
	prog := lang.NewProgram(nil)
	st := NewState(prog, NewOptions())

	require.NotNil(t, st.Sink)
	require.NotNil(t, st.Refs)
	require.NotNil(t, st.Context)
	require.Same(t, prog, st.Context.Program)
	require.False(t, st.Refs.IsV1())
}

func TestRunResolvePhaseRecordsUnresolvedNameDiagnostic(t *testing.T) {
	ref := lang.NewPathExpression(nil, lang.NewPath(nil, "missing", false))
	v := lang.NewVariable(nil, "v", nil, ref)
	fn := lang.NewFunction(nil, "f", nil, nil, nil, lang.NewBlockStatement(nil, v))
	prog := lang.NewProgram(nil, fn)

	st, err := Run(context.Background(), prog, NewOptions(), DefaultPhases())
	require.NoError(t, err)
	require.Equal(t, 1, st.Sink.Count())
	require.Equal(t, "unresolved-name", st.Sink.Diagnostics()[0].Code)
}

func TestRunStopsBeforeNextPhaseOnPriorErrors(t *testing.T) {
	ranB := false

	phaseA := Phase{Name: "a", Run: func(_ context.Context, _ *lang.Program, st *State) error {
		st.Sink.Errorf(nil, "test-error", "boom")
		return nil
	}}
	phaseB := Phase{Name: "b", Run: func(_ context.Context, _ *lang.Program, _ *State) error {
		ranB = true
		return nil
	}}

	prog := lang.NewProgram(nil)
	st, err := Run(context.Background(), prog, NewOptions(), []Phase{phaseA, phaseB})

	require.NoError(t, err)
	require.False(t, ranB)
	require.Equal(t, 1, st.Sink.Count())
}

func TestRunPropagatesPhaseError(t *testing.T) {
	phaseErr := errors.New("boom")
	phase := Phase{Name: "broken", Run: func(context.Context, *lang.Program, *State) error {
		return phaseErr
	}}

	prog := lang.NewProgram(nil)
	_, err := Run(context.Background(), prog, NewOptions(), []Phase{phase})

	require.Error(t, err)
	require.ErrorIs(t, err, phaseErr)
}

func TestRunRecoversPlainPanicAsDiagnostic(t *testing.T) {
	phase := Phase{Name: "panics", Run: func(context.Context, *lang.Program, *State) error {
		panic(errors.New("kaboom"))
	}}

	prog := lang.NewProgram(nil)
	st, err := Run(context.Background(), prog, NewOptions(), []Phase{phase})

	require.NoError(t, err)
	require.Equal(t, 1, st.Sink.Count())
	require.Equal(t, "PANIC", st.Sink.Diagnostics()[0].Code)
}

func TestRunRecoversBugPanicWithDistinctCode(t *testing.T) {
	phase := Phase{Name: "buggy", Run: func(context.Context, *lang.Program, *State) error {
		panic(diag.Bug(errors.New("capability vector inconsistent")))
	}}

	prog := lang.NewProgram(nil)
	st, err := Run(context.Background(), prog, NewOptions(), []Phase{phase})

	require.NoError(t, err)
	require.Equal(t, 1, st.Sink.Count())
	require.Equal(t, "BUG", st.Sink.Diagnostics()[0].Code)
}

func TestRunEmptyPhaseListSucceeds(t *testing.T) {
	prog := lang.NewProgram(nil)
	st, err := Run(context.Background(), prog, NewOptions(), nil)

	require.NoError(t, err)
	require.Equal(t, 0, st.Sink.Count())
}
