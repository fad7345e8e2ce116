package lang

import "github.com/slowlang/pktc/ir"

// flowSuccessor is the optional capability BlockStatement and IfStatement
// implement for their control-flow edges; a ControlFlowVisitor built on
// this schema calls Successors (below), not this interface directly.
type flowSuccessor interface {
	Successors() []ir.Node
}

// Successors is the schema-level control-flow edge function: it asks n
// for its own Successors if it has any, and returns nil for every other
// node (declarations, expressions, and any statement with no explicit
// CFG wiring are all control-flow leaves as far as this schema goes).
// A ControlFlowVisitor over this schema implements its Successors method
// as a thin wrapper calling this function.
func Successors(n ir.Node) []ir.Node {
	if fs, ok := n.(flowSuccessor); ok {
		return fs.Successors()
	}

	return nil
}

// NewRegistry builds the ir.Registry JSON decode needs to reconstruct
// this schema's concrete types from their Kind string.
func NewRegistry() ir.Registry {
	reg := ir.Registry{}

	reg.Register("Annotation", func() ir.Node { return &AnnotationNode{} })
	reg.Register("Path", func() ir.Node { return &Path{} })
	reg.Register("PathExpression", func() ir.Node { return &PathExpression{} })
	reg.Register("This", func() ir.Node { return &This{} })
	reg.Register("MethodCallExpression", func() ir.Node { return &MethodCallExpression{} })
	reg.Register("IntLiteral", func() ir.Node { return &IntLiteral{} })
	reg.Register("BoolLiteral", func() ir.Node { return &BoolLiteral{} })
	reg.Register("BinaryExpression", func() ir.Node { return &BinaryExpression{} })
	reg.Register("Type_Name", func() ir.Node { return &Type_Name{} })
	reg.Register("BlockStatement", func() ir.Node { return &BlockStatement{} })
	reg.Register("IfStatement", func() ir.Node { return &IfStatement{} })
	reg.Register("Parameter", func() ir.Node { return &Parameter{} })
	reg.Register("TypeVariable", func() ir.Node { return &TypeVariable{} })
	reg.Register("MatchKindDecl", func() ir.Node { return &MatchKindDecl{} })
	reg.Register("MatchKindGroup", func() ir.Node { return &MatchKindGroup{} })
	reg.Register("Constant", func() ir.Node { return &Constant{} })
	reg.Register("Variable", func() ir.Node { return &Variable{} })
	reg.Register("Method", func() ir.Node { return &Method{} })
	reg.Register("Function", func() ir.Node { return &Function{} })
	reg.Register("P4Action", func() ir.Node { return &P4Action{} })
	reg.Register("KeyElement", func() ir.Node { return &KeyElement{} })
	reg.Register("TableProperties", func() ir.Node { return &TableProperties{} })
	reg.Register("P4Table", func() ir.Node { return &P4Table{} })
	reg.Register("StructLike", func() ir.Node { return &StructLike{} })
	reg.Register("Declaration_Instance", func() ir.Node { return &Declaration_Instance{} })
	reg.Register("ArchBlock", func() ir.Node { return &ArchBlock{} })
	reg.Register("PackageType", func() ir.Node { return &PackageType{} })
	reg.Register("P4Extern", func() ir.Node { return &P4Extern{} })
	reg.Register("ParserState", func() ir.Node { return &ParserState{} })
	reg.Register("P4Control", func() ir.Node { return &P4Control{} })
	reg.Register("P4Parser", func() ir.Node { return &P4Parser{} })
	reg.Register("Program", func() ir.Node { return &Program{} })

	return reg
}
