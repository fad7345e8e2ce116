package ir

import (
	"encoding/json"
	"fmt"
)

// fixNode is a minimal Node implementation used only by this package's own
// tests, standing in for a real lang.* variant so the engine's traversal,
// tracker, and codec behavior can be exercised without pulling in package
// lang (which itself imports ir).
type fixNode struct {
	Base

	Name string
	Kids []Node
}

func newFix(name string, kids ...Node) *fixNode {
	n := &fixNode{Name: name, Kids: kids}
	n.Base = NewBase(nil)

	return n
}

func (f *fixNode) Kind() string { return "Fix" }

func (f *fixNode) Children() []Child {
	ch := make([]Child, len(f.Kids))
	for i, k := range f.Kids {
		ch[i] = Child{Slot: fmt.Sprintf("kids[%d]", i), Node: k}
	}

	return ch
}

func (f *fixNode) SetChild(i int, n Node) { f.Kids[i] = n }

func (f *fixNode) Clone() Node {
	c := *f
	c.Base = f.Base.Rebase()
	c.Kids = append([]Node(nil), f.Kids...)

	return &c
}

func (f *fixNode) Equal(other Node) bool {
	o, ok := other.(*fixNode)
	if !ok || o.Name != f.Name || len(o.Kids) != len(f.Kids) {
		return false
	}

	for i, k := range f.Kids {
		switch {
		case k == nil && o.Kids[i] == nil:
			continue
		case k == nil || o.Kids[i] == nil:
			return false
		case !k.Equal(o.Kids[i]):
			return false
		}
	}

	return true
}

type fixFields struct {
	Name string `json:"name"`
}

func (f *fixNode) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(fixFields{Name: f.Name})
}

func (f *fixNode) UnmarshalFields(data json.RawMessage) error {
	var ff fixFields
	if err := json.Unmarshal(data, &ff); err != nil {
		return err
	}

	f.Name = ff.Name

	return nil
}

func fixRegistry() Registry {
	reg := Registry{}
	reg.Register("Fix", func() Node { return &fixNode{} })

	return reg
}
