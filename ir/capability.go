package ir

// Capabilities a node may satisfy, discovered by type assertion against
// the concrete Node value (not by a vtable carried on the node itself).
// A front-end's concrete variant implements whichever of these interfaces
// its role in the language calls for; the engine and the resolver only
// ever see the Node interface and downcast as needed.

// Declaration is a node with a name that can be the target of a binding.
type Declaration interface {
	Node
	DeclName() string
}

// Annotated exposes the annotation list attached to a node.
type Annotated interface {
	Node
	Annotations() []Annotation
}

// Annotation is a name plus an optional literal/string argument, as
// attached to an Annotated node.
type Annotation struct {
	Name string
	Arg  string
	HasArg bool
}

// Functional supports overload resolution given a positional argument
// vector. CallMatches reports whether this declaration could be the
// target of a call site with these arguments.
type Functional interface {
	Declaration
	CallMatches(args []Node) bool
}

// Namespace yields the declarations defined directly inside a node.
type Namespace interface {
	Node
	Declarations() []Declaration
}

// SimpleNamespace answers a name-to-declaration lookup in one step,
// without exposing its full declaration list to be filtered.
type SimpleNamespace interface {
	Namespace
	DeclarationByName(name string) (Declaration, bool)
}

// GeneralNamespace is a Namespace whose Declarations() may contain
// duplicate names that the caller must filter; it carries no extra
// method, only the documented obligation on the caller.
type GeneralNamespace interface {
	Namespace
}

// NestedNamespace exposes an ordered list of inner namespaces, searched in
// reverse order when this namespace's own declarations hold no match for
// a name.
type NestedNamespace interface {
	Namespace
	InnerNamespaces() []Namespace
}

// TypeNode tags a node that denotes a type (used as a Kind filter by
// resolution). DenotesType is the discriminator: without a real method
// here, any Declaration would satisfy this interface vacuously, since
// TypeNode otherwise adds nothing to Node.
type TypeNode interface {
	Node
	DenotesType() bool
}

// TypeVariableNode tags a type-parameter declaration specifically, as
// opposed to any other TypeNode.
type TypeVariableNode interface {
	Declaration
	TypeNode
	IsTypeVariable() bool
}

// ParameterNode tags a formal parameter declaration.
type ParameterNode interface {
	Declaration
	IsParameter() bool
}

// MatchKindNode tags a match_kind declaration (exact, ternary, lpm, ...).
type MatchKindNode interface {
	Declaration
}

// ParserStateNode tags a named parser state.
type ParserStateNode interface {
	Declaration
	IsParserState() bool
}

// MethodNode tags an extern method signature.
type MethodNode interface {
	Functional
}

// FunctionNode tags a free function or action.
type FunctionNode interface {
	Functional
}

// ControlNode tags a control block declaration.
type ControlNode interface {
	Declaration
	Namespace
}

// ParserNode tags a parser block declaration.
type ParserNode interface {
	Declaration
	Namespace
}

// PackageNode tags an architecture's package-type declaration (the
// capability is named PackageNode to avoid colliding with the Go
// "package" keyword).
type PackageNode interface {
	Functional
}

// ExternNode tags an extern block declaration.
type ExternNode interface {
	Declaration
	Namespace
}

// ProgramNode tags the program root: the outermost NestedNamespace.
type ProgramNode interface {
	NestedNamespace
}

// DeclarationInstanceNode tags an object-instantiation statement (the
// target `This` resolves to from inside an abstract method body).
type DeclarationInstanceNode interface {
	Declaration
}

// PathNode tags a syntactic name occurrence.
type PathNode interface {
	Node
}

// PathExpressionNode tags a Path used in expression position.
type PathExpressionNode interface {
	PathNode
}

// ThisNode tags a `this`/self-reference expression.
type ThisNode interface {
	Node
}

// KeyElementNode tags a table key element, whose match kind is resolved
// through the flat match-kind namespace rather than lexical scoping.
type KeyElementNode interface {
	Node
	MatchKindName() string
}
