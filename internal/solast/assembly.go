package solast

// AsmNode is the closed set of Yul nodes inside an inline assembly block.
type AsmNode interface {
	Node
	isAsmNode()
}

func (*AssemblyBlock) isAsmNode()           {}
func (*AssemblyCall) isAsmNode()            {}
func (*AssemblyLocalDefinition) isAsmNode() {}
func (*AssemblyAssignment) isAsmNode()      {}
func (*AssemblyIf) isAsmNode()              {}
func (*AssemblyFor) isAsmNode()             {}
func (*AssemblySwitch) isAsmNode()          {}
func (*AssemblyCase) isAsmNode()            {}
func (*AsmLiteral) isAsmNode()              {}
func (*UnsupportedAssembly) isAsmNode()     {}

// AssemblyBlock is a braced sequence of Yul operations.
type AssemblyBlock struct {
	Pos        Position
	EndPos     Position
	Operations []AsmNode
}

// AssemblyCall is both a builtin/function call and, with zero arguments, a
// bare identifier reference; that is how the front end parses Yul names.
// Example: add(x, 1), caller(), x
type AssemblyCall struct {
	Pos          Position
	EndPos       Position
	FunctionName string
	Arguments    []AsmNode
}

// IsIdentifier reports whether the call is really a plain name reference.
func (n *AssemblyCall) IsIdentifier() bool { return len(n.Arguments) == 0 }

// AssemblyLocalDefinition declares Yul locals.
// Example: let x := add(a, b)
type AssemblyLocalDefinition struct {
	Pos        Position
	EndPos     Position
	Names      []string
	Expression AsmNode // nil when declared without a value
}

// AssemblyAssignment stores into existing Yul locals.
type AssemblyAssignment struct {
	Pos        Position
	EndPos     Position
	Names      []string
	Expression AsmNode
}

// AssemblyIf has no else branch in Yul.
type AssemblyIf struct {
	Pos       Position
	EndPos    Position
	Condition AsmNode
	Body      *AssemblyBlock
}

type AssemblyFor struct {
	Pos       Position
	EndPos    Position
	Pre       *AssemblyBlock
	Condition AsmNode
	Post      *AssemblyBlock
	Body      *AssemblyBlock
}

type AssemblySwitch struct {
	Pos        Position
	EndPos     Position
	Expression AsmNode
	Cases      []*AssemblyCase
}

// AssemblyCase is one switch arm; Value is nil for the default arm.
type AssemblyCase struct {
	Pos    Position
	EndPos Position
	Value  *AsmLiteral
	Block  *AssemblyBlock
}

// AsmLiteral is a Yul literal; the front end tags decimals, hex numbers and
// strings differently, so the tag is preserved alongside the spelling.
type AsmLiteral struct {
	Pos     Position
	EndPos  Position
	TypeTag string // DecimalNumber, HexNumber or StringLiteral
	Value   string
}

// UnsupportedAssembly stands in for Yul constructs outside the supported
// subset (function definitions, stack assignments, member access).
type UnsupportedAssembly struct {
	Pos     Position
	EndPos  Position
	TypeTag string
}
