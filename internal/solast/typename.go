package solast

// TypeName is the closed set of type annotations the parser can attach to a
// declaration.
type TypeName interface {
	Node
	isTypeName()
}

func (*ElementaryTypeName) isTypeName()  {}
func (*UserDefinedTypeName) isTypeName() {}
func (*Mapping) isTypeName()             {}
func (*ArrayTypeName) isTypeName()       {}
func (*FunctionTypeName) isTypeName()    {}

// ElementaryTypeName is a builtin type keyword.
// Example: uint256, address, bool, bytes32, string
type ElementaryTypeName struct {
	Pos             Position
	EndPos          Position
	Name            string
	StateMutability string // "payable" for `address payable`
}

// UserDefinedTypeName references a contract, struct, enum or library by its
// (possibly dotted) path.
// Example: IERC20, Types.Order
type UserDefinedTypeName struct {
	Pos      Position
	EndPos   Position
	NamePath string
}

// Mapping is an associative container type.
// Example: mapping(address => mapping(address => uint256))
type Mapping struct {
	Pos       Position
	EndPos    Position
	KeyType   TypeName
	ValueType TypeName
}

// ArrayTypeName is a dynamic or fixed-size array; Length is nil for the
// dynamic form.
type ArrayTypeName struct {
	Pos          Position
	EndPos       Position
	BaseTypeName TypeName
	Length       Expression
}

// FunctionTypeName is a function-typed value. The transpiler has no target
// representation for these; they surface as unsupported-construct
// diagnostics at the use site.
type FunctionTypeName struct {
	Pos    Position
	EndPos Position
}
