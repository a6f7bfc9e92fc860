package solast

// Expression is the closed set of expression nodes.
type Expression interface {
	Node
	isExpr()
}

func (*BinaryOperation) isExpr()              {}
func (*UnaryOperation) isExpr()               {}
func (*FunctionCall) isExpr()                 {}
func (*NameValueExpression) isExpr()          {}
func (*MemberAccess) isExpr()                 {}
func (*IndexAccess) isExpr()                  {}
func (*Identifier) isExpr()                   {}
func (*NumberLiteral) isExpr()                {}
func (*BooleanLiteral) isExpr()               {}
func (*StringLiteral) isExpr()                {}
func (*HexLiteral) isExpr()                   {}
func (*TupleExpression) isExpr()              {}
func (*Conditional) isExpr()                  {}
func (*NewExpression) isExpr()                {}
func (*ElementaryTypeNameExpression) isExpr() {}
func (*UnsupportedExpression) isExpr()        {}

// BinaryOperation covers arithmetic, comparison, logic and every assignment
// form; the parser does not give assignments a node of their own.
// Example: a + b, x = y, total += amount
type BinaryOperation struct {
	Pos      Position
	EndPos   Position
	Operator string
	Left     Expression
	Right    Expression
}

// IsAssignment reports whether the operator stores into its left operand.
func (n *BinaryOperation) IsAssignment() bool {
	switch n.Operator {
	case "=", "+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

// UnaryOperation covers prefix and postfix operators, including delete.
type UnaryOperation struct {
	Pos           Position
	EndPos        Position
	Operator      string
	SubExpression Expression
	IsPrefix      bool
}

// FunctionCall is any call-shaped expression: plain calls, type casts
// (callee is an elementary type name expression), struct construction and
// builtin invocations. Names is non-empty for named-argument calls and runs
// parallel to Arguments.
type FunctionCall struct {
	Pos        Position
	EndPos     Position
	Expression Expression
	Arguments  []Expression
	Names      []string
}

// NameValueExpression is a callee annotated with call options.
// Example: target.call{value: amount}("")
type NameValueExpression struct {
	Pos        Position
	EndPos     Position
	Expression Expression
	Names      []string
	Values     []Expression
}

// MemberAccess selects a member of an expression: struct fields, enum
// members, environment accessors (msg.sender) and library/contract calls all
// arrive in this shape.
type MemberAccess struct {
	Pos        Position
	EndPos     Position
	Expression Expression
	MemberName string
}

// IndexAccess reads or writes a mapping or array slot.
type IndexAccess struct {
	Pos    Position
	EndPos Position
	Base   Expression
	Index  Expression
}

// Identifier is a bare name reference.
type Identifier struct {
	Pos    Position
	EndPos Position
	Name   string
}

// NumberLiteral keeps the source spelling so downstream folding can pick the
// base; Subdenomination carries units like ether or days.
type NumberLiteral struct {
	Pos             Position
	EndPos          Position
	Number          string
	Subdenomination string
}

type BooleanLiteral struct {
	Pos    Position
	EndPos Position
	Value  bool
}

type StringLiteral struct {
	Pos    Position
	EndPos Position
	Value  string
}

// HexLiteral is the hex"..." byte-string form.
type HexLiteral struct {
	Pos    Position
	EndPos Position
	Value  string
}

// TupleExpression is a parenthesized component list; with IsArray set it is
// an inline array literal. Components may contain nil holes.
type TupleExpression struct {
	Pos        Position
	EndPos     Position
	Components []Expression
	IsArray    bool
}

// Conditional is the ternary operator.
type Conditional struct {
	Pos             Position
	EndPos          Position
	Condition       Expression
	TrueExpression  Expression
	FalseExpression Expression
}

// NewExpression allocates an array, bytes value or contract; it always
// appears as the callee of a function call.
type NewExpression struct {
	Pos      Position
	EndPos   Position
	TypeName TypeName
}

// ElementaryTypeNameExpression is a builtin type used as a value, which in
// practice means a cast callee.
// Example: uint64(x), address(0), payable(owner)
type ElementaryTypeNameExpression struct {
	Pos      Position
	EndPos   Position
	TypeName *ElementaryTypeName
}

// UnsupportedExpression stands in for expression kinds the decoder does not
// model; TypeTag preserves the parser's tag for diagnostics.
type UnsupportedExpression struct {
	Pos     Position
	EndPos  Position
	TypeTag string
}
