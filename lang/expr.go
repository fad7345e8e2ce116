package lang

import (
	"encoding/json"

	"github.com/slowlang/pktc/ir"
)

// Path is a bare dotted name occurrence, resolved against a
// resolve.Context by the reference resolver. It carries no children: Name
// and Absolute are its only content.
type Path struct {
	ir.Base
	Name     string
	Absolute bool
}

func NewPath(loc *ir.SrcLoc, name string, absolute bool) *Path {
	return &Path{Base: ir.NewBase(loc), Name: name, Absolute: absolute}
}

func (p *Path) Kind() string           { return "Path" }
func (p *Path) Children() []ir.Child   { return nil }
func (p *Path) SetChild(int, ir.Node)  { panic("Path has no children") }
func (p *Path) DbPrint() string        { return p.Name }

func (p *Path) Clone() ir.Node {
	c := *p
	c.Base = p.Base.Rebase()

	return &c
}

func (p *Path) Equal(other ir.Node) bool {
	o, ok := other.(*Path)
	return ok && o.Name == p.Name && o.Absolute == p.Absolute
}

func (p *Path) Validate() error { return nil }

type pathFields struct {
	Name     string `json:"name"`
	Absolute bool   `json:"absolute"`
}

func (p *Path) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(pathFields{Name: p.Name, Absolute: p.Absolute})
}

func (p *Path) UnmarshalFields(data json.RawMessage) error {
	var f pathFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	p.Name, p.Absolute = f.Name, f.Absolute

	return nil
}

// PathExpression is a Path used in expression position: a name occurrence
// the reference resolver binds to a Declaration.
type PathExpression struct {
	ir.Base
	P *Path
}

func NewPathExpression(loc *ir.SrcLoc, p *Path) *PathExpression {
	return &PathExpression{Base: ir.NewBase(loc), P: p}
}

func (p *PathExpression) Kind() string { return "PathExpression" }

func (p *PathExpression) Children() []ir.Child {
	return []ir.Child{{Slot: "path", Node: p.P}}
}

func (p *PathExpression) SetChild(i int, n ir.Node) {
	if i != 0 {
		panic("PathExpression has exactly one child")
	}

	p.P = n.(*Path)
}

func (p *PathExpression) Clone() ir.Node {
	c := *p
	c.Base = p.Base.Rebase()

	return &c
}

func (p *PathExpression) Equal(other ir.Node) bool {
	o, ok := other.(*PathExpression)
	return ok && nodeEqual(p.P, o.P)
}

func (p *PathExpression) Validate() error { return nil }

// This is the `this` self-reference used inside an abstract method body;
// the resolver binds it through getDeclaration(This) to the enclosing
// Declaration_Instance.
type This struct {
	ir.Base
}

func NewThis(loc *ir.SrcLoc) *This { return &This{Base: ir.NewBase(loc)} }

func (t *This) Kind() string          { return "This" }
func (t *This) Children() []ir.Child  { return nil }
func (t *This) SetChild(int, ir.Node) { panic("This has no children") }

func (t *This) Clone() ir.Node {
	c := *t
	c.Base = t.Base.Rebase()

	return &c
}

func (t *This) Equal(other ir.Node) bool { _, ok := other.(*This); return ok }
func (t *This) Validate() error          { return nil }

// MethodCallExpression calls Method (usually a PathExpression naming an
// action, extern method or function) with TypeArgs and Args.
type MethodCallExpression struct {
	ir.Base
	Method   ir.Node
	TypeArgs []ir.Node
	Args     []ir.Node
}

func NewMethodCallExpression(loc *ir.SrcLoc, method ir.Node, typeArgs, args []ir.Node) *MethodCallExpression {
	return &MethodCallExpression{Base: ir.NewBase(loc), Method: method, TypeArgs: typeArgs, Args: args}
}

func (m *MethodCallExpression) Kind() string { return "MethodCallExpression" }

func (m *MethodCallExpression) Children() []ir.Child {
	children := []ir.Child{{Slot: "method", Node: m.Method}}

	for i, t := range m.TypeArgs {
		children = append(children, ir.Child{Slot: "typeArgs[" + itoa(i) + "]", Node: t})
	}

	for i, a := range m.Args {
		children = append(children, ir.Child{Slot: "args[" + itoa(i) + "]", Node: a})
	}

	return children
}

func (m *MethodCallExpression) SetChild(i int, n ir.Node) {
	switch {
	case i == 0:
		m.Method = n
	case i-1 < len(m.TypeArgs):
		m.TypeArgs[i-1] = n
	default:
		m.Args[i-1-len(m.TypeArgs)] = n
	}
}

func (m *MethodCallExpression) Clone() ir.Node {
	c := *m
	c.Base = m.Base.Rebase()
	c.TypeArgs = cloneNodes(m.TypeArgs)
	c.Args = cloneNodes(m.Args)

	return &c
}

func (m *MethodCallExpression) Equal(other ir.Node) bool {
	o, ok := other.(*MethodCallExpression)
	return ok && nodeEqual(m.Method, o.Method) && nodesEqual(m.TypeArgs, o.TypeArgs) && nodesEqual(m.Args, o.Args)
}

func (m *MethodCallExpression) Validate() error { return nil }

// IntLiteral is a numeric constant, signed or unsigned, with an optional
// fixed bit width (0 means "unsized"/infinite-precision, as in a plain P4
// int literal before width inference).
type IntLiteral struct {
	ir.Base
	Value  int64
	Width  int
	Signed bool
}

func NewIntLiteral(loc *ir.SrcLoc, value int64, width int, signed bool) *IntLiteral {
	return &IntLiteral{Base: ir.NewBase(loc), Value: value, Width: width, Signed: signed}
}

func (l *IntLiteral) Kind() string          { return "IntLiteral" }
func (l *IntLiteral) Children() []ir.Child  { return nil }
func (l *IntLiteral) SetChild(int, ir.Node) { panic("IntLiteral has no children") }
func (l *IntLiteral) DbPrint() string       { return itoa(int(l.Value)) }

func (l *IntLiteral) Clone() ir.Node {
	c := *l
	c.Base = l.Base.Rebase()

	return &c
}

func (l *IntLiteral) Equal(other ir.Node) bool {
	o, ok := other.(*IntLiteral)
	return ok && o.Value == l.Value && o.Width == l.Width && o.Signed == l.Signed
}

func (l *IntLiteral) Validate() error { return nil }

type intLiteralFields struct {
	Value  int64 `json:"value"`
	Width  int   `json:"width"`
	Signed bool  `json:"signed"`
}

func (l *IntLiteral) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(intLiteralFields{Value: l.Value, Width: l.Width, Signed: l.Signed})
}

func (l *IntLiteral) UnmarshalFields(data json.RawMessage) error {
	var f intLiteralFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	l.Value, l.Width, l.Signed = f.Value, f.Width, f.Signed

	return nil
}

// BoolLiteral is a `true`/`false` constant.
type BoolLiteral struct {
	ir.Base
	Value bool
}

func NewBoolLiteral(loc *ir.SrcLoc, value bool) *BoolLiteral {
	return &BoolLiteral{Base: ir.NewBase(loc), Value: value}
}

func (l *BoolLiteral) Kind() string          { return "BoolLiteral" }
func (l *BoolLiteral) Children() []ir.Child  { return nil }
func (l *BoolLiteral) SetChild(int, ir.Node) { panic("BoolLiteral has no children") }

func (l *BoolLiteral) Clone() ir.Node {
	c := *l
	c.Base = l.Base.Rebase()

	return &c
}

func (l *BoolLiteral) Equal(other ir.Node) bool {
	o, ok := other.(*BoolLiteral)
	return ok && o.Value == l.Value
}

func (l *BoolLiteral) Validate() error { return nil }

// BinaryExpression generalizes the teacher's single-purpose ast.Add into
// one shape covering every binary operator, keyed by Op.
type BinaryExpression struct {
	ir.Base
	Op          string
	Left, Right ir.Node
}

func NewBinaryExpression(loc *ir.SrcLoc, op string, left, right ir.Node) *BinaryExpression {
	return &BinaryExpression{Base: ir.NewBase(loc), Op: op, Left: left, Right: right}
}

func (b *BinaryExpression) Kind() string { return "BinaryExpression" }

func (b *BinaryExpression) Children() []ir.Child {
	return []ir.Child{{Slot: "left", Node: b.Left}, {Slot: "right", Node: b.Right}}
}

func (b *BinaryExpression) SetChild(i int, n ir.Node) {
	switch i {
	case 0:
		b.Left = n
	case 1:
		b.Right = n
	default:
		panic("BinaryExpression has two children")
	}
}

func (b *BinaryExpression) DbPrint() string { return b.Op }

func (b *BinaryExpression) Clone() ir.Node {
	c := *b
	c.Base = b.Base.Rebase()

	return &c
}

func (b *BinaryExpression) Equal(other ir.Node) bool {
	o, ok := other.(*BinaryExpression)
	return ok && o.Op == b.Op && nodeEqual(b.Left, o.Left) && nodeEqual(b.Right, o.Right)
}

func (b *BinaryExpression) Validate() error { return nil }

type binaryFields struct {
	Op string `json:"op"`
}

func (b *BinaryExpression) MarshalFields() (json.RawMessage, error) {
	return json.Marshal(binaryFields{Op: b.Op})
}

func (b *BinaryExpression) UnmarshalFields(data json.RawMessage) error {
	var f binaryFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	b.Op = f.Op

	return nil
}
