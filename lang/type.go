package lang

import (
	"encoding/json"

	"github.com/slowlang/pktc/ir"
)

// Type_Name is a type reference by name (`bit<8>`, `MyHeader`, a type
// variable use, ...). The resolver binds the Type_Name node itself (not
// its Path) to the ir.TypeNode declaration it names.
type Type_Name struct {
	ir.Base
	P         *Path
	TypeArgs  []ir.Node
}

func NewTypeName(loc *ir.SrcLoc, p *Path, typeArgs ...ir.Node) *Type_Name {
	return &Type_Name{Base: ir.NewBase(loc), P: p, TypeArgs: typeArgs}
}

func (t *Type_Name) Kind() string { return "Type_Name" }

func (t *Type_Name) Children() []ir.Child {
	children := []ir.Child{{Slot: "path", Node: t.P}}

	for i, a := range t.TypeArgs {
		children = append(children, ir.Child{Slot: "typeArgs[" + itoa(i) + "]", Node: a})
	}

	return children
}

func (t *Type_Name) SetChild(i int, n ir.Node) {
	if i == 0 {
		t.P = n.(*Path)
		return
	}

	t.TypeArgs[i-1] = n
}

func (t *Type_Name) DbPrint() string { return t.P.Name }

func (t *Type_Name) Clone() ir.Node {
	c := *t
	c.Base = t.Base.Rebase()
	c.TypeArgs = cloneNodes(t.TypeArgs)

	return &c
}

func (t *Type_Name) Equal(other ir.Node) bool {
	o, ok := other.(*Type_Name)
	return ok && nodeEqual(t.P, o.P) && nodesEqual(t.TypeArgs, o.TypeArgs)
}

func (t *Type_Name) Validate() error { return nil }

type typeNameFields struct{}

func (t *Type_Name) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(typeNameFields{})
}

func (t *Type_Name) UnmarshalFields(json.RawMessage) error { return nil }
