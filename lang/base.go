// Package lang supplies the concrete, P4-shaped node schema the ir
// package's traversal and resolution engine is exercised against. None of
// this package's types are known to ir; every capability they advertise
// (ir.Declaration, ir.Namespace, ir.Functional, ...) is discovered by type
// assertion, per ir's capability-trait design.
package lang

import (
	"encoding/json"

	"tlog.app/go/errors"

	"github.com/slowlang/pktc/ir"
)

// AnnotationNode is the syntactic form of an annotation attached to a
// declaration (`@name("arg")`); declBase.Annotations() derives the
// ir.Annotation capability value from a node's AnnotationNode list.
type AnnotationNode struct {
	ir.Base
	Name string
	Args []ir.Node
}

func NewAnnotationNode(loc *ir.SrcLoc, name string, args ...ir.Node) *AnnotationNode {
	return &AnnotationNode{Base: ir.NewBase(loc), Name: name, Args: args}
}

func (a *AnnotationNode) Kind() string { return "Annotation" }

func (a *AnnotationNode) Children() []ir.Child {
	children := make([]ir.Child, len(a.Args))
	for i, arg := range a.Args {
		children[i] = ir.Child{Slot: "args[" + itoa(i) + "]", Node: arg}
	}

	return children
}

func (a *AnnotationNode) SetChild(i int, n ir.Node) { a.Args[i] = n }

func (a *AnnotationNode) Clone() ir.Node {
	c := *a
	c.Base = a.Base.Rebase()
	c.Args = append([]ir.Node(nil), a.Args...)

	return &c
}

func (a *AnnotationNode) Equal(other ir.Node) bool {
	o, ok := other.(*AnnotationNode)
	return ok && o.Name == a.Name && nodesEqual(a.Args, o.Args)
}

func (a *AnnotationNode) DbPrint() string { return "@" + a.Name }

type annotationFields struct {
	Name string `json:"name"`
}

func (a *AnnotationNode) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(annotationFields{Name: a.Name})
}

func (a *AnnotationNode) UnmarshalFields(data json.RawMessage) error {
	var f annotationFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	a.Name = f.Name

	return nil
}

// declBase is embedded by every named declaration in this package. It
// supplies ir.Declaration and ir.Annotated, and the annChildren helper
// every concrete Children() implementation folds its own slots onto.
type declBase struct {
	ir.Base
	Name string
	Anns []*AnnotationNode
}

func (d *declBase) DeclName() string { return d.Name }

func (d *declBase) Annotations() []ir.Annotation {
	out := make([]ir.Annotation, len(d.Anns))

	for i, a := range d.Anns {
		ann := ir.Annotation{Name: a.Name, HasArg: len(a.Args) > 0}

		if dp, ok := firstDbPrint(a.Args); ok {
			ann.Arg = dp
		}

		out[i] = ann
	}

	return out
}

func (d *declBase) annChildren() []ir.Child {
	children := make([]ir.Child, len(d.Anns))
	for i, a := range d.Anns {
		children[i] = ir.Child{Slot: "anns[" + itoa(i) + "]", Node: a}
	}

	return children
}

func (d *declBase) rebase() declBase {
	return declBase{Base: d.Base.Rebase(), Name: d.Name, Anns: append([]*AnnotationNode(nil), d.Anns...)}
}

func (d *declBase) annEqual(o *declBase) bool {
	if d.Name != o.Name || len(d.Anns) != len(o.Anns) {
		return false
	}

	for i, a := range d.Anns {
		if !a.Equal(o.Anns[i]) {
			return false
		}
	}

	return true
}

func firstDbPrint(args []ir.Node) (string, bool) {
	if len(args) == 0 {
		return "", false
	}

	dp, ok := args[0].(interface{ DbPrint() string })
	if !ok {
		return "", false
	}

	return dp.DbPrint(), true
}

func nodeEqual(a, b ir.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.Equal(b)
}

func nodesEqual(as, bs []ir.Node) bool {
	if len(as) != len(bs) {
		return false
	}

	for i := range as {
		if !nodeEqual(as[i], bs[i]) {
			return false
		}
	}

	return true
}

func cloneNodes(ns []ir.Node) []ir.Node {
	return append([]ir.Node(nil), ns...)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}

// errInvalidChildIndex is not returned by any function in this package: a
// SetChild call with an index out of range or an incompatible
// replacement is a traversal-engine bug and panics immediately instead,
// matching ir.Base's panic on a leaf's SetChild.
var errInvalidChildIndex = errors.New("lang: child index out of range")
