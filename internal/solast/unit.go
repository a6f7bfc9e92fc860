package solast

// UnitItem is anything that can appear at the top level of a source unit.
type UnitItem interface {
	Node
	isUnitItem()
}

func (*PragmaDirective) isUnitItem()       {}
func (*ImportDirective) isUnitItem()       {}
func (*ContractDefinition) isUnitItem()    {}
func (*StructDefinition) isUnitItem()      {}
func (*EnumDefinition) isUnitItem()        {}
func (*CustomErrorDefinition) isUnitItem() {}
func (*FileLevelConstant) isUnitItem()     {}
func (*FunctionDefinition) isUnitItem()    {}
func (*UsingForDeclaration) isUnitItem()   {}

// ContractPart is anything that can appear inside a contract body.
type ContractPart interface {
	Node
	isContractPart()
}

func (*StateVariableDeclaration) isContractPart() {}
func (*FunctionDefinition) isContractPart()       {}
func (*ModifierDefinition) isContractPart()       {}
func (*EventDefinition) isContractPart()          {}
func (*CustomErrorDefinition) isContractPart()    {}
func (*StructDefinition) isContractPart()         {}
func (*EnumDefinition) isContractPart()           {}
func (*UsingForDeclaration) isContractPart()      {}

// SourceUnit is the root of a decoded compilation unit, one per input file.
type SourceUnit struct {
	Pos      Position
	EndPos   Position
	Children []UnitItem
}

// Contracts returns the contract definitions of the unit in source order.
func (u *SourceUnit) Contracts() []*ContractDefinition {
	var out []*ContractDefinition
	for _, c := range u.Children {
		if def, ok := c.(*ContractDefinition); ok {
			out = append(out, def)
		}
	}
	return out
}

// PragmaDirective carries a pragma name and its raw value string.
// Example: pragma solidity ^0.8.20;
type PragmaDirective struct {
	Pos    Position
	EndPos Position
	Name   string
	Value  string
}

// ImportDirective records an import path. Symbol aliases are not needed by
// the transpiler because the front end already resolves inheritance by name.
type ImportDirective struct {
	Pos    Position
	EndPos Position
	Path   string
}

// Contract kinds as the front-end parser reports them. Abstract contracts
// arrive with kind "abstract".
const (
	KindContract  = "contract"
	KindAbstract  = "abstract"
	KindInterface = "interface"
	KindLibrary   = "library"
)

// ContractDefinition is one contract, interface or library declaration.
type ContractDefinition struct {
	Pos           Position
	EndPos        Position
	Name          string
	Kind          string
	BaseContracts []*InheritanceSpecifier
	SubNodes      []ContractPart
}

// InheritanceSpecifier names one direct parent, with optional constructor
// arguments supplied at the inheritance site.
// Example: contract Token is ERC20("Tok", "TOK") { ... }
type InheritanceSpecifier struct {
	Pos       Position
	EndPos    Position
	BaseName  *UserDefinedTypeName
	Arguments []Expression
}

// StateVariableDeclaration declares one or more state variables. The parser
// emits one declaration node per source statement; InitialValue mirrors the
// Expression field of the single variable when present.
type StateVariableDeclaration struct {
	Pos          Position
	EndPos       Position
	Variables    []*VariableDeclaration
	InitialValue Expression
}

// FileLevelConstant is a constant declared outside any contract.
type FileLevelConstant struct {
	Pos          Position
	EndPos       Position
	TypeName     TypeName
	Name         string
	InitialValue Expression
}

// UsingForDeclaration attaches a library to a type.
// Example: using SafeMath for uint256;
type UsingForDeclaration struct {
	Pos         Position
	EndPos      Position
	LibraryName string
	TypeName    TypeName // nil means the wildcard form `using L for *`
}

// VariableDeclaration is a single declared variable: a state variable, a
// parameter, a struct member, an event parameter or a local. Which fields are
// meaningful depends on the enclosing node.
type VariableDeclaration struct {
	Pos             Position
	EndPos          Position
	Name            string
	TypeName        TypeName
	TypeString      string // descriptor fallback when TypeName is absent
	Visibility      string
	StorageLocation string
	IsStateVar      bool
	IsDeclaredConst bool
	IsImmutable     bool
	IsIndexed       bool
	Expression      Expression // initializer, when the parser attaches one here
}

// Function state mutability values.
const (
	MutabilityPure    = "pure"
	MutabilityView    = "view"
	MutabilityPayable = "payable"
)

// Visibility values shared by functions and state variables.
const (
	VisibilityDefault  = "default"
	VisibilityPublic   = "public"
	VisibilityExternal = "external"
	VisibilityInternal = "internal"
	VisibilityPrivate  = "private"
)

// FunctionDefinition covers regular functions, constructors and the
// receive/fallback entry points (Name is empty for those; the Is* flags
// disambiguate).
type FunctionDefinition struct {
	Pos              Position
	EndPos           Position
	Name             string
	Parameters       []*VariableDeclaration
	ReturnParameters []*VariableDeclaration
	Body             *Block // nil for unimplemented/interface functions
	Visibility       string
	StateMutability  string
	Modifiers        []*ModifierInvocation
	IsConstructor    bool
	IsReceiveEther   bool
	IsFallback       bool
	IsVirtual        bool
	Override         bool
}

// ModifierDefinition is a user-declared modifier; its body contains a
// placeholder statement where the modified function body is spliced in.
type ModifierDefinition struct {
	Pos        Position
	EndPos     Position
	Name       string
	Parameters []*VariableDeclaration
	Body       *Block
	IsVirtual  bool
	Override   bool
}

// ModifierInvocation is one modifier applied to a function. Arguments is nil
// when the modifier is written without parentheses.
type ModifierInvocation struct {
	Pos       Position
	EndPos    Position
	Name      string
	Arguments []Expression
}

// EventDefinition declares an event and its (possibly indexed) parameters.
type EventDefinition struct {
	Pos         Position
	EndPos      Position
	Name        string
	Parameters  []*VariableDeclaration
	IsAnonymous bool
}

// CustomErrorDefinition declares a named revert error.
// Example: error InsufficientBalance(uint256 available, uint256 required);
type CustomErrorDefinition struct {
	Pos        Position
	EndPos     Position
	Name       string
	Parameters []*VariableDeclaration
}

// StructDefinition declares a user struct type.
type StructDefinition struct {
	Pos     Position
	EndPos  Position
	Name    string
	Members []*VariableDeclaration
}

// EnumDefinition declares an enum and its member names in order.
type EnumDefinition struct {
	Pos     Position
	EndPos  Position
	Name    string
	Members []*EnumValue
}

// EnumValue is one enum member.
type EnumValue struct {
	Pos    Position
	EndPos Position
	Name   string
}
