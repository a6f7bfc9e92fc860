package solast

// Node is the interface shared by every decoded syntax-tree node. NodeType
// returns the front-end parser's type tag (e.g. "ContractDefinition"), which
// is also what diagnostics print for unsupported constructs.
type Node interface {
	NodePos() Position
	NodeEndPos() Position
	NodeType() string
}

// Position tracks source location for diagnostics and tooling.
// Line and Column are 1-based and 0-based respectively, matching the
// front-end parser's loc objects; Offset is the byte offset when the input
// carries a range.
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsValid reports whether the position carries real location data.
func (p Position) IsValid() bool { return p.Line > 0 }

func (n *SourceUnit) NodePos() Position    { return n.Pos }
func (n *SourceUnit) NodeEndPos() Position { return n.EndPos }
func (*SourceUnit) NodeType() string       { return "SourceUnit" }

func (n *PragmaDirective) NodePos() Position    { return n.Pos }
func (n *PragmaDirective) NodeEndPos() Position { return n.EndPos }
func (*PragmaDirective) NodeType() string       { return "PragmaDirective" }

func (n *ImportDirective) NodePos() Position    { return n.Pos }
func (n *ImportDirective) NodeEndPos() Position { return n.EndPos }
func (*ImportDirective) NodeType() string       { return "ImportDirective" }

func (n *ContractDefinition) NodePos() Position    { return n.Pos }
func (n *ContractDefinition) NodeEndPos() Position { return n.EndPos }
func (*ContractDefinition) NodeType() string       { return "ContractDefinition" }

func (n *InheritanceSpecifier) NodePos() Position    { return n.Pos }
func (n *InheritanceSpecifier) NodeEndPos() Position { return n.EndPos }
func (*InheritanceSpecifier) NodeType() string       { return "InheritanceSpecifier" }

func (n *StateVariableDeclaration) NodePos() Position    { return n.Pos }
func (n *StateVariableDeclaration) NodeEndPos() Position { return n.EndPos }
func (*StateVariableDeclaration) NodeType() string       { return "StateVariableDeclaration" }

func (n *FileLevelConstant) NodePos() Position    { return n.Pos }
func (n *FileLevelConstant) NodeEndPos() Position { return n.EndPos }
func (*FileLevelConstant) NodeType() string       { return "FileLevelConstant" }

func (n *UsingForDeclaration) NodePos() Position    { return n.Pos }
func (n *UsingForDeclaration) NodeEndPos() Position { return n.EndPos }
func (*UsingForDeclaration) NodeType() string       { return "UsingForDeclaration" }

func (n *FunctionDefinition) NodePos() Position    { return n.Pos }
func (n *FunctionDefinition) NodeEndPos() Position { return n.EndPos }
func (*FunctionDefinition) NodeType() string       { return "FunctionDefinition" }

func (n *ModifierDefinition) NodePos() Position    { return n.Pos }
func (n *ModifierDefinition) NodeEndPos() Position { return n.EndPos }
func (*ModifierDefinition) NodeType() string       { return "ModifierDefinition" }

func (n *ModifierInvocation) NodePos() Position    { return n.Pos }
func (n *ModifierInvocation) NodeEndPos() Position { return n.EndPos }
func (*ModifierInvocation) NodeType() string       { return "ModifierInvocation" }

func (n *EventDefinition) NodePos() Position    { return n.Pos }
func (n *EventDefinition) NodeEndPos() Position { return n.EndPos }
func (*EventDefinition) NodeType() string       { return "EventDefinition" }

func (n *CustomErrorDefinition) NodePos() Position    { return n.Pos }
func (n *CustomErrorDefinition) NodeEndPos() Position { return n.EndPos }
func (*CustomErrorDefinition) NodeType() string       { return "CustomErrorDefinition" }

func (n *StructDefinition) NodePos() Position    { return n.Pos }
func (n *StructDefinition) NodeEndPos() Position { return n.EndPos }
func (*StructDefinition) NodeType() string       { return "StructDefinition" }

func (n *EnumDefinition) NodePos() Position    { return n.Pos }
func (n *EnumDefinition) NodeEndPos() Position { return n.EndPos }
func (*EnumDefinition) NodeType() string       { return "EnumDefinition" }

func (n *EnumValue) NodePos() Position    { return n.Pos }
func (n *EnumValue) NodeEndPos() Position { return n.EndPos }
func (*EnumValue) NodeType() string       { return "EnumValue" }

func (n *VariableDeclaration) NodePos() Position    { return n.Pos }
func (n *VariableDeclaration) NodeEndPos() Position { return n.EndPos }
func (*VariableDeclaration) NodeType() string       { return "VariableDeclaration" }

func (n *ElementaryTypeName) NodePos() Position    { return n.Pos }
func (n *ElementaryTypeName) NodeEndPos() Position { return n.EndPos }
func (*ElementaryTypeName) NodeType() string       { return "ElementaryTypeName" }

func (n *UserDefinedTypeName) NodePos() Position    { return n.Pos }
func (n *UserDefinedTypeName) NodeEndPos() Position { return n.EndPos }
func (*UserDefinedTypeName) NodeType() string       { return "UserDefinedTypeName" }

func (n *Mapping) NodePos() Position    { return n.Pos }
func (n *Mapping) NodeEndPos() Position { return n.EndPos }
func (*Mapping) NodeType() string       { return "Mapping" }

func (n *ArrayTypeName) NodePos() Position    { return n.Pos }
func (n *ArrayTypeName) NodeEndPos() Position { return n.EndPos }
func (*ArrayTypeName) NodeType() string       { return "ArrayTypeName" }

func (n *FunctionTypeName) NodePos() Position    { return n.Pos }
func (n *FunctionTypeName) NodeEndPos() Position { return n.EndPos }
func (*FunctionTypeName) NodeType() string       { return "FunctionTypeName" }

func (n *Block) NodePos() Position    { return n.Pos }
func (n *Block) NodeEndPos() Position { return n.EndPos }
func (*Block) NodeType() string       { return "Block" }

func (n *ExpressionStatement) NodePos() Position    { return n.Pos }
func (n *ExpressionStatement) NodeEndPos() Position { return n.EndPos }
func (*ExpressionStatement) NodeType() string       { return "ExpressionStatement" }

func (n *VariableDeclarationStatement) NodePos() Position    { return n.Pos }
func (n *VariableDeclarationStatement) NodeEndPos() Position { return n.EndPos }
func (*VariableDeclarationStatement) NodeType() string       { return "VariableDeclarationStatement" }

func (n *IfStatement) NodePos() Position    { return n.Pos }
func (n *IfStatement) NodeEndPos() Position { return n.EndPos }
func (*IfStatement) NodeType() string       { return "IfStatement" }

func (n *WhileStatement) NodePos() Position    { return n.Pos }
func (n *WhileStatement) NodeEndPos() Position { return n.EndPos }
func (*WhileStatement) NodeType() string       { return "WhileStatement" }

func (n *DoWhileStatement) NodePos() Position    { return n.Pos }
func (n *DoWhileStatement) NodeEndPos() Position { return n.EndPos }
func (*DoWhileStatement) NodeType() string       { return "DoWhileStatement" }

func (n *ForStatement) NodePos() Position    { return n.Pos }
func (n *ForStatement) NodeEndPos() Position { return n.EndPos }
func (*ForStatement) NodeType() string       { return "ForStatement" }

func (n *ReturnStatement) NodePos() Position    { return n.Pos }
func (n *ReturnStatement) NodeEndPos() Position { return n.EndPos }
func (*ReturnStatement) NodeType() string       { return "ReturnStatement" }

func (n *EmitStatement) NodePos() Position    { return n.Pos }
func (n *EmitStatement) NodeEndPos() Position { return n.EndPos }
func (*EmitStatement) NodeType() string       { return "EmitStatement" }

func (n *RevertStatement) NodePos() Position    { return n.Pos }
func (n *RevertStatement) NodeEndPos() Position { return n.EndPos }
func (*RevertStatement) NodeType() string       { return "RevertStatement" }

func (n *BreakStatement) NodePos() Position    { return n.Pos }
func (n *BreakStatement) NodeEndPos() Position { return n.EndPos }
func (*BreakStatement) NodeType() string       { return "BreakStatement" }

func (n *ContinueStatement) NodePos() Position    { return n.Pos }
func (n *ContinueStatement) NodeEndPos() Position { return n.EndPos }
func (*ContinueStatement) NodeType() string       { return "ContinueStatement" }

func (n *ThrowStatement) NodePos() Position    { return n.Pos }
func (n *ThrowStatement) NodeEndPos() Position { return n.EndPos }
func (*ThrowStatement) NodeType() string       { return "ThrowStatement" }

func (n *PlaceholderStatement) NodePos() Position    { return n.Pos }
func (n *PlaceholderStatement) NodeEndPos() Position { return n.EndPos }
func (*PlaceholderStatement) NodeType() string       { return "PlaceholderStatement" }

func (n *UncheckedStatement) NodePos() Position    { return n.Pos }
func (n *UncheckedStatement) NodeEndPos() Position { return n.EndPos }
func (*UncheckedStatement) NodeType() string       { return "UncheckedStatement" }

func (n *InlineAssemblyStatement) NodePos() Position    { return n.Pos }
func (n *InlineAssemblyStatement) NodeEndPos() Position { return n.EndPos }
func (*InlineAssemblyStatement) NodeType() string       { return "InlineAssemblyStatement" }

func (n *UnsupportedStatement) NodePos() Position    { return n.Pos }
func (n *UnsupportedStatement) NodeEndPos() Position { return n.EndPos }
func (n *UnsupportedStatement) NodeType() string     { return n.TypeTag }

func (n *BinaryOperation) NodePos() Position    { return n.Pos }
func (n *BinaryOperation) NodeEndPos() Position { return n.EndPos }
func (*BinaryOperation) NodeType() string       { return "BinaryOperation" }

func (n *UnaryOperation) NodePos() Position    { return n.Pos }
func (n *UnaryOperation) NodeEndPos() Position { return n.EndPos }
func (*UnaryOperation) NodeType() string       { return "UnaryOperation" }

func (n *FunctionCall) NodePos() Position    { return n.Pos }
func (n *FunctionCall) NodeEndPos() Position { return n.EndPos }
func (*FunctionCall) NodeType() string       { return "FunctionCall" }

func (n *NameValueExpression) NodePos() Position    { return n.Pos }
func (n *NameValueExpression) NodeEndPos() Position { return n.EndPos }
func (*NameValueExpression) NodeType() string       { return "NameValueExpression" }

func (n *MemberAccess) NodePos() Position    { return n.Pos }
func (n *MemberAccess) NodeEndPos() Position { return n.EndPos }
func (*MemberAccess) NodeType() string       { return "MemberAccess" }

func (n *IndexAccess) NodePos() Position    { return n.Pos }
func (n *IndexAccess) NodeEndPos() Position { return n.EndPos }
func (*IndexAccess) NodeType() string       { return "IndexAccess" }

func (n *Identifier) NodePos() Position    { return n.Pos }
func (n *Identifier) NodeEndPos() Position { return n.EndPos }
func (*Identifier) NodeType() string       { return "Identifier" }

func (n *NumberLiteral) NodePos() Position    { return n.Pos }
func (n *NumberLiteral) NodeEndPos() Position { return n.EndPos }
func (*NumberLiteral) NodeType() string       { return "NumberLiteral" }

func (n *BooleanLiteral) NodePos() Position    { return n.Pos }
func (n *BooleanLiteral) NodeEndPos() Position { return n.EndPos }
func (*BooleanLiteral) NodeType() string       { return "BooleanLiteral" }

func (n *StringLiteral) NodePos() Position    { return n.Pos }
func (n *StringLiteral) NodeEndPos() Position { return n.EndPos }
func (*StringLiteral) NodeType() string       { return "StringLiteral" }

func (n *HexLiteral) NodePos() Position    { return n.Pos }
func (n *HexLiteral) NodeEndPos() Position { return n.EndPos }
func (*HexLiteral) NodeType() string       { return "HexLiteral" }

func (n *TupleExpression) NodePos() Position    { return n.Pos }
func (n *TupleExpression) NodeEndPos() Position { return n.EndPos }
func (*TupleExpression) NodeType() string       { return "TupleExpression" }

func (n *Conditional) NodePos() Position    { return n.Pos }
func (n *Conditional) NodeEndPos() Position { return n.EndPos }
func (*Conditional) NodeType() string       { return "Conditional" }

func (n *NewExpression) NodePos() Position    { return n.Pos }
func (n *NewExpression) NodeEndPos() Position { return n.EndPos }
func (*NewExpression) NodeType() string       { return "NewExpression" }

func (n *ElementaryTypeNameExpression) NodePos() Position    { return n.Pos }
func (n *ElementaryTypeNameExpression) NodeEndPos() Position { return n.EndPos }
func (*ElementaryTypeNameExpression) NodeType() string       { return "ElementaryTypeNameExpression" }

func (n *UnsupportedExpression) NodePos() Position    { return n.Pos }
func (n *UnsupportedExpression) NodeEndPos() Position { return n.EndPos }
func (n *UnsupportedExpression) NodeType() string     { return n.TypeTag }

func (n *AssemblyBlock) NodePos() Position    { return n.Pos }
func (n *AssemblyBlock) NodeEndPos() Position { return n.EndPos }
func (*AssemblyBlock) NodeType() string       { return "AssemblyBlock" }

func (n *AssemblyCall) NodePos() Position    { return n.Pos }
func (n *AssemblyCall) NodeEndPos() Position { return n.EndPos }
func (*AssemblyCall) NodeType() string       { return "AssemblyCall" }

func (n *AssemblyLocalDefinition) NodePos() Position    { return n.Pos }
func (n *AssemblyLocalDefinition) NodeEndPos() Position { return n.EndPos }
func (*AssemblyLocalDefinition) NodeType() string       { return "AssemblyLocalDefinition" }

func (n *AssemblyAssignment) NodePos() Position    { return n.Pos }
func (n *AssemblyAssignment) NodeEndPos() Position { return n.EndPos }
func (*AssemblyAssignment) NodeType() string       { return "AssemblyAssignment" }

func (n *AssemblyIf) NodePos() Position    { return n.Pos }
func (n *AssemblyIf) NodeEndPos() Position { return n.EndPos }
func (*AssemblyIf) NodeType() string       { return "AssemblyIf" }

func (n *AssemblyFor) NodePos() Position    { return n.Pos }
func (n *AssemblyFor) NodeEndPos() Position { return n.EndPos }
func (*AssemblyFor) NodeType() string       { return "AssemblyFor" }

func (n *AssemblySwitch) NodePos() Position    { return n.Pos }
func (n *AssemblySwitch) NodeEndPos() Position { return n.EndPos }
func (*AssemblySwitch) NodeType() string       { return "AssemblySwitch" }

func (n *AssemblyCase) NodePos() Position    { return n.Pos }
func (n *AssemblyCase) NodeEndPos() Position { return n.EndPos }
func (*AssemblyCase) NodeType() string       { return "AssemblyCase" }

func (n *AsmLiteral) NodePos() Position    { return n.Pos }
func (n *AsmLiteral) NodeEndPos() Position { return n.EndPos }
func (n *AsmLiteral) NodeType() string     { return n.TypeTag }

func (n *UnsupportedAssembly) NodePos() Position    { return n.Pos }
func (n *UnsupportedAssembly) NodeEndPos() Position { return n.EndPos }
func (n *UnsupportedAssembly) NodeType() string     { return n.TypeTag }
