package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeJSONRoundTrips(t *testing.T) {
	root := newFix("root", newFix("left"), newFix("right", newFix("grandchild")))

	data, err := EncodeJSON(root)
	require.NoError(t, err)

	back, err := DecodeJSON(data, fixRegistry())
	require.NoError(t, err)

	require.True(t, root.Equal(back))
	require.NotEqual(t, root.NodeID(), back.NodeID())
}

func TestEncodeDecodeJSONPreservesLocation(t *testing.T) {
	root := newFix("root")
	root.SetLoc(&SrcLoc{File: "prog.pkt", Line: 3, Col: 5})

	data, err := EncodeJSON(root)
	require.NoError(t, err)

	back, err := DecodeJSON(data, fixRegistry())
	require.NoError(t, err)

	require.Equal(t, "prog.pkt", back.Loc().File)
	require.Equal(t, 3, back.Loc().Line)
}

func TestDecodeJSONUnknownKindErrors(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"kind":"Bogus"}`), fixRegistry())
	require.Error(t, err)
}

func TestRegistryRejectsDuplicateRegistration(t *testing.T) {
	reg := Registry{}
	reg.Register("Fix", func() Node { return &fixNode{} })

	require.Panics(t, func() {
		reg.Register("Fix", func() Node { return &fixNode{} })
	})
}

func TestEncodeJSONPrunedChildIsNil(t *testing.T) {
	root := newFix("root", nil)

	data, err := EncodeJSON(root)
	require.NoError(t, err)

	back, err := DecodeJSON(data, fixRegistry())
	require.NoError(t, err)

	bf := back.(*fixNode)
	require.Len(t, bf.Kids, 1)
	require.Nil(t, bf.Kids[0])
}
