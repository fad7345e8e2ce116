package lang

import (
	"tlog.app/go/errors"

	"github.com/slowlang/pktc/ir"
)

// Parameter is a formal parameter: a name, a type, and an optional
// direction (`in`/`out`/`inout`, empty for a directionless action or
// function parameter).
type Parameter struct {
	declBase
	Type      ir.Node
	Direction string
}

func NewParameter(loc *ir.SrcLoc, name string, typ ir.Node, direction string) *Parameter {
	return &Parameter{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Type: typ, Direction: direction}
}

func (p *Parameter) Kind() string { return "Parameter" }

// IsParameter satisfies ir.ParameterNode, distinguishing a formal
// parameter from any other Declaration for the shadowing and
// forward-reference-exemption rules.
func (p *Parameter) IsParameter() bool { return true }

func (p *Parameter) Children() []ir.Child {
	children := p.annChildren()
	return append(children, ir.Child{Slot: "type", Node: p.Type})
}

func (p *Parameter) SetChild(i int, n ir.Node) {
	if i < len(p.Anns) {
		p.Anns[i] = n.(*AnnotationNode)
		return
	}

	p.Type = n
}

func (p *Parameter) Clone() ir.Node {
	c := *p
	c.declBase = p.declBase.rebase()

	return &c
}

func (p *Parameter) Equal(other ir.Node) bool {
	o, ok := other.(*Parameter)
	return ok && p.annEqual(&o.declBase) && p.Direction == o.Direction && nodeEqual(p.Type, o.Type)
}

func (p *Parameter) Validate() error { return nil }

// TypeVariable is a type-parameter declaration (`<T>`).
type TypeVariable struct {
	declBase
}

func NewTypeVariable(loc *ir.SrcLoc, name string) *TypeVariable {
	return &TypeVariable{declBase: declBase{Base: ir.NewBase(loc), Name: name}}
}

func (t *TypeVariable) Kind() string         { return "TypeVariable" }
func (t *TypeVariable) Children() []ir.Child { return t.annChildren() }

// DenotesType and IsTypeVariable satisfy ir.TypeVariableNode: a type
// variable is both a TypeNode and, more specifically, the one Declaration
// variant that distinguishes itself from StructLike/P4Extern/etc.
func (t *TypeVariable) DenotesType() bool   { return true }
func (t *TypeVariable) IsTypeVariable() bool { return true }

func (t *TypeVariable) SetChild(i int, n ir.Node) { t.Anns[i] = n.(*AnnotationNode) }

func (t *TypeVariable) Clone() ir.Node {
	c := *t
	c.declBase = t.declBase.rebase()

	return &c
}

func (t *TypeVariable) Equal(other ir.Node) bool {
	o, ok := other.(*TypeVariable)
	return ok && t.annEqual(&o.declBase)
}

func (t *TypeVariable) Validate() error { return nil }

// MatchKindDecl is a single match_kind identifier (`exact`, `ternary`,
// `lpm`, ...), declared once globally and looked up through the flat
// match-kind namespace rather than lexical scoping.
type MatchKindDecl struct {
	declBase
}

func NewMatchKindDecl(loc *ir.SrcLoc, name string) *MatchKindDecl {
	return &MatchKindDecl{declBase: declBase{Base: ir.NewBase(loc), Name: name}}
}

func (m *MatchKindDecl) Kind() string         { return "MatchKindDecl" }
func (m *MatchKindDecl) Children() []ir.Child { return m.annChildren() }
func (m *MatchKindDecl) SetChild(i int, n ir.Node) { m.Anns[i] = n.(*AnnotationNode) }

func (m *MatchKindDecl) Clone() ir.Node {
	c := *m
	c.declBase = m.declBase.rebase()

	return &c
}

func (m *MatchKindDecl) Equal(other ir.Node) bool {
	o, ok := other.(*MatchKindDecl)
	return ok && m.annEqual(&o.declBase)
}

func (m *MatchKindDecl) Validate() error { return nil }

// MatchKindGroup is the `match_kind { ... }` block: a GeneralNamespace of
// MatchKindDecl, kept together so the program's single global match-kind
// set can be built in one pass.
type MatchKindGroup struct {
	ir.Base
	Kinds []*MatchKindDecl
}

func NewMatchKindGroup(loc *ir.SrcLoc, kinds ...*MatchKindDecl) *MatchKindGroup {
	return &MatchKindGroup{Base: ir.NewBase(loc), Kinds: kinds}
}

func (g *MatchKindGroup) Kind() string { return "MatchKindGroup" }

func (g *MatchKindGroup) Children() []ir.Child {
	children := make([]ir.Child, len(g.Kinds))
	for i, k := range g.Kinds {
		children[i] = ir.Child{Slot: "kinds[" + itoa(i) + "]", Node: k}
	}

	return children
}

func (g *MatchKindGroup) SetChild(i int, n ir.Node) { g.Kinds[i] = n.(*MatchKindDecl) }

func (g *MatchKindGroup) Clone() ir.Node {
	c := *g
	c.Base = g.Base.Rebase()
	c.Kinds = append([]*MatchKindDecl(nil), g.Kinds...)

	return &c
}

func (g *MatchKindGroup) Equal(other ir.Node) bool {
	o, ok := other.(*MatchKindGroup)
	if !ok || len(g.Kinds) != len(o.Kinds) {
		return false
	}

	for i, k := range g.Kinds {
		if !k.Equal(o.Kinds[i]) {
			return false
		}
	}

	return true
}

func (g *MatchKindGroup) Validate() error { return nil }

func (g *MatchKindGroup) Declarations() []ir.Declaration {
	decls := make([]ir.Declaration, len(g.Kinds))
	for i, k := range g.Kinds {
		decls[i] = k
	}

	return decls
}

// Constant is a `const` declaration: a named, typed value that cannot be
// reassigned.
type Constant struct {
	declBase
	Type  ir.Node
	Value ir.Node
}

func NewConstant(loc *ir.SrcLoc, name string, typ, value ir.Node) *Constant {
	return &Constant{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Type: typ, Value: value}
}

func (c *Constant) Kind() string { return "Constant" }

func (c *Constant) Children() []ir.Child {
	children := c.annChildren()
	return append(children, ir.Child{Slot: "type", Node: c.Type}, ir.Child{Slot: "value", Node: c.Value})
}

func (c *Constant) SetChild(i int, n ir.Node) {
	if i < len(c.Anns) {
		c.Anns[i] = n.(*AnnotationNode)
		return
	}

	switch i - len(c.Anns) {
	case 0:
		c.Type = n
	case 1:
		c.Value = n
	}
}

func (c *Constant) Clone() ir.Node {
	cl := *c
	cl.declBase = c.declBase.rebase()

	return &cl
}

func (c *Constant) Equal(other ir.Node) bool {
	o, ok := other.(*Constant)
	return ok && c.annEqual(&o.declBase) && nodeEqual(c.Type, o.Type) && nodeEqual(c.Value, o.Value)
}

func (c *Constant) Validate() error { return nil }

// Variable is a local `T x;` or `T x = init;` declaration.
type Variable struct {
	declBase
	Type ir.Node
	Init ir.Node
}

func NewVariable(loc *ir.SrcLoc, name string, typ, init ir.Node) *Variable {
	return &Variable{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Type: typ, Init: init}
}

func (v *Variable) Kind() string { return "Variable" }

func (v *Variable) Children() []ir.Child {
	children := v.annChildren()
	children = append(children, ir.Child{Slot: "type", Node: v.Type})

	if v.Init != nil {
		children = append(children, ir.Child{Slot: "init", Node: v.Init})
	}

	return children
}

func (v *Variable) SetChild(i int, n ir.Node) {
	if i < len(v.Anns) {
		v.Anns[i] = n.(*AnnotationNode)
		return
	}

	switch i - len(v.Anns) {
	case 0:
		v.Type = n
	case 1:
		v.Init = n
	}
}

func (v *Variable) Clone() ir.Node {
	c := *v
	c.declBase = v.declBase.rebase()

	return &c
}

func (v *Variable) Equal(other ir.Node) bool {
	o, ok := other.(*Variable)
	return ok && v.annEqual(&o.declBase) && nodeEqual(v.Type, o.Type) && nodeEqual(v.Init, o.Init)
}

func (v *Variable) Validate() error { return nil }

// Method is an extern method signature: no body, just a callable shape.
type Method struct {
	declBase
	TypeParams []*TypeVariable
	Params     []*Parameter
	RetType    ir.Node
}

func NewMethod(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, params []*Parameter, ret ir.Node) *Method {
	return &Method{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Params: params, RetType: ret}
}

func (m *Method) Kind() string { return "Method" }

func (m *Method) Children() []ir.Child {
	children := m.annChildren()

	for i, t := range m.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, p := range m.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: p})
	}

	if m.RetType != nil {
		children = append(children, ir.Child{Slot: "retType", Node: m.RetType})
	}

	return children
}

func (m *Method) SetChild(i int, n ir.Node) {
	rest := i - len(m.Anns)
	if rest < 0 {
		m.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(m.TypeParams) {
		m.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	rest -= len(m.TypeParams)

	if rest < len(m.Params) {
		m.Params[rest] = n.(*Parameter)
		return
	}

	m.RetType = n
}

func (m *Method) Clone() ir.Node {
	c := *m
	c.declBase = m.declBase.rebase()
	c.TypeParams = append([]*TypeVariable(nil), m.TypeParams...)
	c.Params = append([]*Parameter(nil), m.Params...)

	return &c
}

func (m *Method) Equal(other ir.Node) bool {
	o, ok := other.(*Method)
	if !ok || !m.annEqual(&o.declBase) || len(m.TypeParams) != len(o.TypeParams) || len(m.Params) != len(o.Params) {
		return false
	}

	for i, t := range m.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, p := range m.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}

	return nodeEqual(m.RetType, o.RetType)
}

func (m *Method) Validate() error { return nil }

// CallMatches implements ir.Functional with a positional-arity check;
// this engine does not carry a type system, so overload disambiguation
// beyond arity is left to whatever richer schema a real front-end plugs
// in.
func (m *Method) CallMatches(args []ir.Node) bool { return len(args) == len(m.Params) }

// Function is a free function or a P4 action (shares the same callable
// shape, but actions never carry a return type).
type Function struct {
	declBase
	TypeParams []*TypeVariable
	Params     []*Parameter
	RetType    ir.Node
	Body       *BlockStatement
}

func NewFunction(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, params []*Parameter, ret ir.Node, body *BlockStatement) *Function {
	return &Function{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Params: params, RetType: ret, Body: body}
}

func (f *Function) Kind() string { return "Function" }

func (f *Function) Children() []ir.Child {
	children := f.annChildren()

	for i, t := range f.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, p := range f.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: p})
	}

	if f.RetType != nil {
		children = append(children, ir.Child{Slot: "retType", Node: f.RetType})
	}

	if f.Body != nil {
		children = append(children, ir.Child{Slot: "body", Node: f.Body})
	}

	return children
}

func (f *Function) SetChild(i int, n ir.Node) {
	rest := i - len(f.Anns)
	if rest < 0 {
		f.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(f.TypeParams) {
		f.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	rest -= len(f.TypeParams)

	if rest < len(f.Params) {
		f.Params[rest] = n.(*Parameter)
		return
	}

	rest -= len(f.Params)

	if f.RetType != nil && rest == 0 {
		f.RetType = n
		return
	}

	f.Body = n.(*BlockStatement)
}

func (f *Function) Clone() ir.Node {
	c := *f
	c.declBase = f.declBase.rebase()
	c.TypeParams = append([]*TypeVariable(nil), f.TypeParams...)
	c.Params = append([]*Parameter(nil), f.Params...)

	return &c
}

func (f *Function) Equal(other ir.Node) bool {
	o, ok := other.(*Function)
	if !ok || !f.annEqual(&o.declBase) || len(f.TypeParams) != len(o.TypeParams) || len(f.Params) != len(o.Params) {
		return false
	}

	for i, t := range f.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, p := range f.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}

	return nodeEqual(f.RetType, o.RetType) && nodeEqual(f.Body, o.Body)
}

func (f *Function) Validate() error { return nil }
func (f *Function) CallMatches(args []ir.Node) bool { return len(args) == len(f.Params) }

// Declarations implements ir.Namespace for a Function's own body scope is
// delegated to Body; Function itself only exposes its parameters (a call
// site resolves against Params before descending into Body).
func (f *Function) Declarations() []ir.Declaration {
	decls := make([]ir.Declaration, len(f.Params))
	for i, p := range f.Params {
		decls[i] = p
	}

	return decls
}

// P4Action is a P4 action: a Function with no return type and no type
// parameters, kept as a distinct Kind because actions participate in
// table "actions" lists and the flat action namespace differently than
// ordinary functions do.
type P4Action struct {
	declBase
	Params []*Parameter
	Body   *BlockStatement
}

func NewP4Action(loc *ir.SrcLoc, name string, params []*Parameter, body *BlockStatement) *P4Action {
	return &P4Action{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Params: params, Body: body}
}

func (a *P4Action) Kind() string { return "P4Action" }

func (a *P4Action) Children() []ir.Child {
	children := a.annChildren()

	for i, p := range a.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: p})
	}

	if a.Body != nil {
		children = append(children, ir.Child{Slot: "body", Node: a.Body})
	}

	return children
}

func (a *P4Action) SetChild(i int, n ir.Node) {
	rest := i - len(a.Anns)
	if rest < 0 {
		a.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(a.Params) {
		a.Params[rest] = n.(*Parameter)
		return
	}

	a.Body = n.(*BlockStatement)
}

func (a *P4Action) Clone() ir.Node {
	c := *a
	c.declBase = a.declBase.rebase()
	c.Params = append([]*Parameter(nil), a.Params...)

	return &c
}

func (a *P4Action) Equal(other ir.Node) bool {
	o, ok := other.(*P4Action)
	if !ok || !a.annEqual(&o.declBase) || len(a.Params) != len(o.Params) {
		return false
	}

	for i, p := range a.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}

	return nodeEqual(a.Body, o.Body)
}

func (a *P4Action) Validate() error                 { return nil }
func (a *P4Action) CallMatches(args []ir.Node) bool { return len(args) == len(a.Params) }

func (a *P4Action) Declarations() []ir.Declaration {
	decls := make([]ir.Declaration, len(a.Params))
	for i, p := range a.Params {
		decls[i] = p
	}

	return decls
}

// KeyElement is one `key = { expr : matchKind; }` entry of a table.
type KeyElement struct {
	ir.Base
	Expr      ir.Node
	MatchKind string
}

func NewKeyElement(loc *ir.SrcLoc, expr ir.Node, matchKind string) *KeyElement {
	return &KeyElement{Base: ir.NewBase(loc), Expr: expr, MatchKind: matchKind}
}

func (k *KeyElement) Kind() string { return "KeyElement" }

func (k *KeyElement) Children() []ir.Child {
	return []ir.Child{{Slot: "expr", Node: k.Expr}}
}

func (k *KeyElement) SetChild(i int, n ir.Node) {
	if i != 0 {
		panic("KeyElement has exactly one child")
	}

	k.Expr = n
}

func (k *KeyElement) Clone() ir.Node {
	c := *k
	c.Base = k.Base.Rebase()

	return &c
}

func (k *KeyElement) Equal(other ir.Node) bool {
	o, ok := other.(*KeyElement)
	return ok && k.MatchKind == o.MatchKind && nodeEqual(k.Expr, o.Expr)
}

func (k *KeyElement) Validate() error { return nil }

func (k *KeyElement) MatchKindName() string { return k.MatchKind }

// TableProperties holds a P4Table's key list, action list and default
// action. The action list's entries are PathExpressions, resolved against
// the enclosing control's action namespace.
type TableProperties struct {
	ir.Base
	Keys          []*KeyElement
	Actions       []ir.Node
	DefaultAction ir.Node
}

func NewTableProperties(loc *ir.SrcLoc, keys []*KeyElement, actions []ir.Node, def ir.Node) *TableProperties {
	return &TableProperties{Base: ir.NewBase(loc), Keys: keys, Actions: actions, DefaultAction: def}
}

func (t *TableProperties) Kind() string { return "TableProperties" }

func (t *TableProperties) Children() []ir.Child {
	var children []ir.Child

	for i, k := range t.Keys {
		children = append(children, ir.Child{Slot: "keys[" + itoa(i) + "]", Node: k})
	}

	for i, a := range t.Actions {
		children = append(children, ir.Child{Slot: "actions[" + itoa(i) + "]", Node: a})
	}

	if t.DefaultAction != nil {
		children = append(children, ir.Child{Slot: "default", Node: t.DefaultAction})
	}

	return children
}

func (t *TableProperties) SetChild(i int, n ir.Node) {
	if i < len(t.Keys) {
		t.Keys[i] = n.(*KeyElement)
		return
	}

	i -= len(t.Keys)

	if i < len(t.Actions) {
		t.Actions[i] = n
		return
	}

	t.DefaultAction = n
}

func (t *TableProperties) Clone() ir.Node {
	c := *t
	c.Base = t.Base.Rebase()
	c.Keys = append([]*KeyElement(nil), t.Keys...)
	c.Actions = cloneNodes(t.Actions)

	return &c
}

func (t *TableProperties) Equal(other ir.Node) bool {
	o, ok := other.(*TableProperties)
	if !ok || len(t.Keys) != len(o.Keys) || !nodesEqual(t.Actions, o.Actions) {
		return false
	}

	for i, k := range t.Keys {
		if !k.Equal(o.Keys[i]) {
			return false
		}
	}

	return nodeEqual(t.DefaultAction, o.DefaultAction)
}

func (t *TableProperties) Validate() error {
	if len(t.Keys) == 0 && len(t.Actions) == 0 {
		return errors.New("table properties with neither keys nor actions")
	}

	return nil
}

// P4Table is a match-action table declaration.
type P4Table struct {
	declBase
	Properties *TableProperties
}

func NewP4Table(loc *ir.SrcLoc, name string, props *TableProperties) *P4Table {
	return &P4Table{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Properties: props}
}

func (t *P4Table) Kind() string { return "P4Table" }

func (t *P4Table) Children() []ir.Child {
	children := t.annChildren()
	return append(children, ir.Child{Slot: "properties", Node: t.Properties})
}

func (t *P4Table) SetChild(i int, n ir.Node) {
	if i < len(t.Anns) {
		t.Anns[i] = n.(*AnnotationNode)
		return
	}

	t.Properties = n.(*TableProperties)
}

func (t *P4Table) Clone() ir.Node {
	c := *t
	c.declBase = t.declBase.rebase()

	return &c
}

func (t *P4Table) Equal(other ir.Node) bool {
	o, ok := other.(*P4Table)
	return ok && t.annEqual(&o.declBase) && nodeEqual(t.Properties, o.Properties)
}

func (t *P4Table) Validate() error { return nil }

// StructLike is a `header`/`struct` type declaration: a named record of
// Parameter-shaped fields (reusing Parameter's name+type shape rather
// than inventing a separate Field type).
type StructLike struct {
	declBase
	IsHeader bool
	Fields   []*Parameter
}

func NewStructLike(loc *ir.SrcLoc, name string, isHeader bool, fields []*Parameter) *StructLike {
	return &StructLike{declBase: declBase{Base: ir.NewBase(loc), Name: name}, IsHeader: isHeader, Fields: fields}
}

func (s *StructLike) Kind() string { return "StructLike" }

// DenotesType satisfies ir.TypeNode: a header/struct declaration is
// nameable as a type.
func (s *StructLike) DenotesType() bool { return true }

func (s *StructLike) Children() []ir.Child {
	children := s.annChildren()

	for i, f := range s.Fields {
		children = append(children, ir.Child{Slot: "fields[" + itoa(i) + "]", Node: f})
	}

	return children
}

func (s *StructLike) SetChild(i int, n ir.Node) {
	if i < len(s.Anns) {
		s.Anns[i] = n.(*AnnotationNode)
		return
	}

	s.Fields[i-len(s.Anns)] = n.(*Parameter)
}

func (s *StructLike) Clone() ir.Node {
	c := *s
	c.declBase = s.declBase.rebase()
	c.Fields = append([]*Parameter(nil), s.Fields...)

	return &c
}

func (s *StructLike) Equal(other ir.Node) bool {
	o, ok := other.(*StructLike)
	if !ok || !s.annEqual(&o.declBase) || s.IsHeader != o.IsHeader || len(s.Fields) != len(o.Fields) {
		return false
	}

	for i, f := range s.Fields {
		if !f.Equal(o.Fields[i]) {
			return false
		}
	}

	return true
}

func (s *StructLike) Validate() error { return nil }

// Declaration_Instance is an object-instantiation statement
// (`Type(args) name;`), the target `This` resolves to from inside an
// abstract method body the instantiation overrides.
type Declaration_Instance struct {
	declBase
	Type ir.Node
	Args []ir.Node
}

func NewDeclarationInstance(loc *ir.SrcLoc, name string, typ ir.Node, args []ir.Node) *Declaration_Instance {
	return &Declaration_Instance{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Type: typ, Args: args}
}

func (d *Declaration_Instance) Kind() string { return "Declaration_Instance" }

func (d *Declaration_Instance) Children() []ir.Child {
	children := d.annChildren()
	children = append(children, ir.Child{Slot: "type", Node: d.Type})

	for i, a := range d.Args {
		children = append(children, ir.Child{Slot: "args[" + itoa(i) + "]", Node: a})
	}

	return children
}

func (d *Declaration_Instance) SetChild(i int, n ir.Node) {
	rest := i - len(d.Anns)
	if rest < 0 {
		d.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest == 0 {
		d.Type = n
		return
	}

	d.Args[rest-1] = n
}

func (d *Declaration_Instance) Clone() ir.Node {
	c := *d
	c.declBase = d.declBase.rebase()
	c.Args = cloneNodes(d.Args)

	return &c
}

func (d *Declaration_Instance) Equal(other ir.Node) bool {
	o, ok := other.(*Declaration_Instance)
	return ok && d.annEqual(&o.declBase) && nodeEqual(d.Type, o.Type) && nodesEqual(d.Args, o.Args)
}

func (d *Declaration_Instance) Validate() error { return nil }

// ArchBlock is an architecture's abstract block prototype (an abstract
// `control`/`parser`/`extern` signature named inside a PackageType's
// parameter list, with no body of its own).
type ArchBlock struct {
	declBase
	Params []*Parameter
}

func NewArchBlock(loc *ir.SrcLoc, name string, params []*Parameter) *ArchBlock {
	return &ArchBlock{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Params: params}
}

func (a *ArchBlock) Kind() string { return "ArchBlock" }

// DenotesType satisfies ir.TypeNode: an abstract block prototype is
// nameable as a type in a package's parameter list.
func (a *ArchBlock) DenotesType() bool { return true }

func (a *ArchBlock) Children() []ir.Child {
	children := a.annChildren()

	for i, p := range a.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: p})
	}

	return children
}

func (a *ArchBlock) SetChild(i int, n ir.Node) {
	if i < len(a.Anns) {
		a.Anns[i] = n.(*AnnotationNode)
		return
	}

	a.Params[i-len(a.Anns)] = n.(*Parameter)
}

func (a *ArchBlock) Clone() ir.Node {
	c := *a
	c.declBase = a.declBase.rebase()
	c.Params = append([]*Parameter(nil), a.Params...)

	return &c
}

func (a *ArchBlock) Equal(other ir.Node) bool {
	o, ok := other.(*ArchBlock)
	if !ok || !a.annEqual(&o.declBase) || len(a.Params) != len(o.Params) {
		return false
	}

	for i, p := range a.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}

	return true
}

func (a *ArchBlock) Validate() error { return nil }

// PackageType is an architecture's top-level package declaration
// (`package Switch<H>(Parser<H> p, ...);`): a Functional whose parameters
// each name an ArchBlock, matched positionally against the instantiation
// arguments in a `Switch(...) main;` statement.
type PackageType struct {
	declBase
	TypeParams []*TypeVariable
	Params     []*Parameter
}

func NewPackageType(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, params []*Parameter) *PackageType {
	return &PackageType{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Params: params}
}

func (p *PackageType) Kind() string { return "PackageType" }

// DenotesType satisfies ir.TypeNode: a package type is nameable as a type
// at its instantiation site.
func (p *PackageType) DenotesType() bool { return true }

func (p *PackageType) Children() []ir.Child {
	children := p.annChildren()

	for i, t := range p.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, pa := range p.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: pa})
	}

	return children
}

func (p *PackageType) SetChild(i int, n ir.Node) {
	rest := i - len(p.Anns)
	if rest < 0 {
		p.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(p.TypeParams) {
		p.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	p.Params[rest-len(p.TypeParams)] = n.(*Parameter)
}

func (p *PackageType) Clone() ir.Node {
	c := *p
	c.declBase = p.declBase.rebase()
	c.TypeParams = append([]*TypeVariable(nil), p.TypeParams...)
	c.Params = append([]*Parameter(nil), p.Params...)

	return &c
}

func (p *PackageType) Equal(other ir.Node) bool {
	o, ok := other.(*PackageType)
	if !ok || !p.annEqual(&o.declBase) || len(p.TypeParams) != len(o.TypeParams) || len(p.Params) != len(o.Params) {
		return false
	}

	for i, t := range p.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, pa := range p.Params {
		if !pa.Equal(o.Params[i]) {
			return false
		}
	}

	return true
}

func (p *PackageType) Validate() error                 { return nil }
func (p *PackageType) CallMatches(args []ir.Node) bool { return len(args) == len(p.Params) }

// P4Extern is an `extern` block declaration: a Namespace of Method
// signatures, optionally generic over TypeParams.
type P4Extern struct {
	declBase
	TypeParams []*TypeVariable
	Methods    []*Method
}

func NewP4Extern(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, methods []*Method) *P4Extern {
	return &P4Extern{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Methods: methods}
}

func (e *P4Extern) Kind() string { return "P4Extern" }

// DenotesType satisfies ir.TypeNode: an extern block is nameable as a
// type at an instantiation site.
func (e *P4Extern) DenotesType() bool { return true }

func (e *P4Extern) Children() []ir.Child {
	children := e.annChildren()

	for i, t := range e.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, m := range e.Methods {
		children = append(children, ir.Child{Slot: "methods[" + itoa(i) + "]", Node: m})
	}

	return children
}

func (e *P4Extern) SetChild(i int, n ir.Node) {
	rest := i - len(e.Anns)
	if rest < 0 {
		e.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(e.TypeParams) {
		e.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	e.Methods[rest-len(e.TypeParams)] = n.(*Method)
}

func (e *P4Extern) Clone() ir.Node {
	c := *e
	c.declBase = e.declBase.rebase()
	c.TypeParams = append([]*TypeVariable(nil), e.TypeParams...)
	c.Methods = append([]*Method(nil), e.Methods...)

	return &c
}

func (e *P4Extern) Equal(other ir.Node) bool {
	o, ok := other.(*P4Extern)
	if !ok || !e.annEqual(&o.declBase) || len(e.TypeParams) != len(o.TypeParams) || len(e.Methods) != len(o.Methods) {
		return false
	}

	for i, t := range e.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, m := range e.Methods {
		if !m.Equal(o.Methods[i]) {
			return false
		}
	}

	return true
}

func (e *P4Extern) Validate() error { return nil }

func (e *P4Extern) Declarations() []ir.Declaration {
	decls := make([]ir.Declaration, len(e.Methods))
	for i, m := range e.Methods {
		decls[i] = m
	}

	return decls
}

// ParserState is a named state inside a P4Parser's state machine: a body
// of statements ending in a transition (modeled as an ordinary statement
// in Body — this schema does not special-case `transition`/`select`).
type ParserState struct {
	declBase
	Body []ir.Node
}

func NewParserState(loc *ir.SrcLoc, name string, body []ir.Node) *ParserState {
	return &ParserState{declBase: declBase{Base: ir.NewBase(loc), Name: name}, Body: body}
}

func (s *ParserState) Kind() string { return "ParserState" }

// IsParserState satisfies ir.ParserStateNode, marking a parser state as
// always forward-reference exempt regardless of language version.
func (s *ParserState) IsParserState() bool { return true }

func (s *ParserState) Children() []ir.Child {
	children := s.annChildren()

	for i, b := range s.Body {
		children = append(children, ir.Child{Slot: "body[" + itoa(i) + "]", Node: b})
	}

	return children
}

func (s *ParserState) SetChild(i int, n ir.Node) {
	if i < len(s.Anns) {
		s.Anns[i] = n.(*AnnotationNode)
		return
	}

	s.Body[i-len(s.Anns)] = n
}

func (s *ParserState) Clone() ir.Node {
	c := *s
	c.declBase = s.declBase.rebase()
	c.Body = cloneNodes(s.Body)

	return &c
}

func (s *ParserState) Equal(other ir.Node) bool {
	o, ok := other.(*ParserState)
	return ok && s.annEqual(&o.declBase) && nodesEqual(s.Body, o.Body)
}

func (s *ParserState) Validate() error { return nil }

// P4Control is a `control C(...) { ... }` declaration: a Namespace over
// its parameters and local declarations, with a single body.
type P4Control struct {
	declBase
	TypeParams []*TypeVariable
	Params     []*Parameter
	Locals     []ir.Node
	Body       *BlockStatement
}

func NewP4Control(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, params []*Parameter, locals []ir.Node, body *BlockStatement) *P4Control {
	return &P4Control{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Params: params, Locals: locals, Body: body}
}

func (c *P4Control) Kind() string { return "P4Control" }

// DenotesType satisfies ir.TypeNode: a control is nameable as a type at
// its instantiation site.
func (c *P4Control) DenotesType() bool { return true }

func (c *P4Control) Children() []ir.Child {
	children := c.annChildren()

	for i, t := range c.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, p := range c.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: p})
	}

	for i, l := range c.Locals {
		children = append(children, ir.Child{Slot: "locals[" + itoa(i) + "]", Node: l})
	}

	if c.Body != nil {
		children = append(children, ir.Child{Slot: "body", Node: c.Body})
	}

	return children
}

func (c *P4Control) SetChild(i int, n ir.Node) {
	rest := i - len(c.Anns)
	if rest < 0 {
		c.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(c.TypeParams) {
		c.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	rest -= len(c.TypeParams)

	if rest < len(c.Params) {
		c.Params[rest] = n.(*Parameter)
		return
	}

	rest -= len(c.Params)

	if rest < len(c.Locals) {
		c.Locals[rest] = n
		return
	}

	c.Body = n.(*BlockStatement)
}

func (c *P4Control) Clone() ir.Node {
	cl := *c
	cl.declBase = c.declBase.rebase()
	cl.TypeParams = append([]*TypeVariable(nil), c.TypeParams...)
	cl.Params = append([]*Parameter(nil), c.Params...)
	cl.Locals = cloneNodes(c.Locals)

	return &cl
}

func (c *P4Control) Equal(other ir.Node) bool {
	o, ok := other.(*P4Control)
	if !ok || !c.annEqual(&o.declBase) || len(c.TypeParams) != len(o.TypeParams) ||
		len(c.Params) != len(o.Params) || !nodesEqual(c.Locals, o.Locals) {
		return false
	}

	for i, t := range c.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, p := range c.Params {
		if !p.Equal(o.Params[i]) {
			return false
		}
	}

	return nodeEqual(c.Body, o.Body)
}

func (c *P4Control) Validate() error { return nil }

func (c *P4Control) Declarations() []ir.Declaration {
	var decls []ir.Declaration

	for _, p := range c.Params {
		decls = append(decls, p)
	}

	for _, l := range c.Locals {
		if d, ok := l.(ir.Declaration); ok {
			decls = append(decls, d)
		}
	}

	return decls
}

// P4Parser is a `parser P(...) { states... }` declaration: a Namespace
// over its parameters, locals and named states.
type P4Parser struct {
	declBase
	TypeParams []*TypeVariable
	Params     []*Parameter
	Locals     []ir.Node
	States     []*ParserState
}

func NewP4Parser(loc *ir.SrcLoc, name string, typeParams []*TypeVariable, params []*Parameter, locals []ir.Node, states []*ParserState) *P4Parser {
	return &P4Parser{declBase: declBase{Base: ir.NewBase(loc), Name: name}, TypeParams: typeParams, Params: params, Locals: locals, States: states}
}

func (p *P4Parser) Kind() string { return "P4Parser" }

// DenotesType satisfies ir.TypeNode: a parser is nameable as a type at
// its instantiation site.
func (p *P4Parser) DenotesType() bool { return true }

func (p *P4Parser) Children() []ir.Child {
	children := p.annChildren()

	for i, t := range p.TypeParams {
		children = append(children, ir.Child{Slot: "typeParams[" + itoa(i) + "]", Node: t})
	}

	for i, pa := range p.Params {
		children = append(children, ir.Child{Slot: "params[" + itoa(i) + "]", Node: pa})
	}

	for i, l := range p.Locals {
		children = append(children, ir.Child{Slot: "locals[" + itoa(i) + "]", Node: l})
	}

	for i, s := range p.States {
		children = append(children, ir.Child{Slot: "states[" + itoa(i) + "]", Node: s})
	}

	return children
}

func (p *P4Parser) SetChild(i int, n ir.Node) {
	rest := i - len(p.Anns)
	if rest < 0 {
		p.Anns[i] = n.(*AnnotationNode)
		return
	}

	if rest < len(p.TypeParams) {
		p.TypeParams[rest] = n.(*TypeVariable)
		return
	}

	rest -= len(p.TypeParams)

	if rest < len(p.Params) {
		p.Params[rest] = n.(*Parameter)
		return
	}

	rest -= len(p.Params)

	if rest < len(p.Locals) {
		p.Locals[rest] = n
		return
	}

	rest -= len(p.Locals)

	p.States[rest] = n.(*ParserState)
}

func (p *P4Parser) Clone() ir.Node {
	c := *p
	c.declBase = p.declBase.rebase()
	c.TypeParams = append([]*TypeVariable(nil), p.TypeParams...)
	c.Params = append([]*Parameter(nil), p.Params...)
	c.Locals = cloneNodes(p.Locals)
	c.States = append([]*ParserState(nil), p.States...)

	return &c
}

func (p *P4Parser) Equal(other ir.Node) bool {
	o, ok := other.(*P4Parser)
	if !ok || !p.annEqual(&o.declBase) || len(p.TypeParams) != len(o.TypeParams) ||
		len(p.Params) != len(o.Params) || !nodesEqual(p.Locals, o.Locals) || len(p.States) != len(o.States) {
		return false
	}

	for i, t := range p.TypeParams {
		if !t.Equal(o.TypeParams[i]) {
			return false
		}
	}

	for i, pa := range p.Params {
		if !pa.Equal(o.Params[i]) {
			return false
		}
	}

	for i, s := range p.States {
		if !s.Equal(o.States[i]) {
			return false
		}
	}

	return true
}

func (p *P4Parser) Validate() error { return nil }

func (p *P4Parser) Declarations() []ir.Declaration {
	var decls []ir.Declaration

	for _, pa := range p.Params {
		decls = append(decls, pa)
	}

	for _, l := range p.Locals {
		if d, ok := l.(ir.Declaration); ok {
			decls = append(decls, d)
		}
	}

	for _, s := range p.States {
		decls = append(decls, s)
	}

	return decls
}
