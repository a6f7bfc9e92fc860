package solast

// Statement is the closed set of statements a function body can contain.
type Statement interface {
	Node
	isStmt()
}

func (*Block) isStmt()                        {}
func (*ExpressionStatement) isStmt()          {}
func (*VariableDeclarationStatement) isStmt() {}
func (*IfStatement) isStmt()                  {}
func (*WhileStatement) isStmt()               {}
func (*DoWhileStatement) isStmt()             {}
func (*ForStatement) isStmt()                 {}
func (*ReturnStatement) isStmt()              {}
func (*EmitStatement) isStmt()                {}
func (*RevertStatement) isStmt()              {}
func (*BreakStatement) isStmt()               {}
func (*ContinueStatement) isStmt()            {}
func (*ThrowStatement) isStmt()               {}
func (*PlaceholderStatement) isStmt()         {}
func (*UncheckedStatement) isStmt()           {}
func (*InlineAssemblyStatement) isStmt()      {}
func (*UnsupportedStatement) isStmt()         {}

// Block is a braced statement list.
type Block struct {
	Pos        Position
	EndPos     Position
	Statements []Statement
}

// ExpressionStatement wraps an expression evaluated for effect, including
// assignments, which the parser represents as binary operations.
type ExpressionStatement struct {
	Pos        Position
	EndPos     Position
	Expression Expression
}

// VariableDeclarationStatement declares one or more locals. Variables may
// contain nil holes for discarded tuple positions.
// Example: (uint a, , uint c) = three();
type VariableDeclarationStatement struct {
	Pos          Position
	EndPos       Position
	Variables    []*VariableDeclaration
	InitialValue Expression
}

// IfStatement with optional else branch.
type IfStatement struct {
	Pos       Position
	EndPos    Position
	Condition Expression
	TrueBody  Statement
	FalseBody Statement
}

type WhileStatement struct {
	Pos       Position
	EndPos    Position
	Condition Expression
	Body      Statement
}

type DoWhileStatement struct {
	Pos       Position
	EndPos    Position
	Condition Expression
	Body      Statement
}

// ForStatement. Any of the three header slots may be nil.
type ForStatement struct {
	Pos                 Position
	EndPos              Position
	InitExpression      Statement
	ConditionExpression Expression
	LoopExpression      Statement
	Body                Statement
}

// ReturnStatement with optional value (a tuple expression for multi-returns).
type ReturnStatement struct {
	Pos        Position
	EndPos     Position
	Expression Expression
}

// EmitStatement fires an event; the payload is shaped like a call.
type EmitStatement struct {
	Pos       Position
	EndPos    Position
	EventCall *FunctionCall
}

// RevertStatement aborts with a custom error; the payload is shaped like a
// call.
// Example: revert InsufficientBalance(have, want);
type RevertStatement struct {
	Pos        Position
	EndPos     Position
	RevertCall *FunctionCall
}

type BreakStatement struct {
	Pos    Position
	EndPos Position
}

type ContinueStatement struct {
	Pos    Position
	EndPos Position
}

// ThrowStatement is the pre-0.4.13 revert form.
type ThrowStatement struct {
	Pos    Position
	EndPos Position
}

// PlaceholderStatement is the `_;` splice point inside a modifier body. Some
// front ends emit it as a bare identifier expression statement instead; the
// modifier transformer recognizes both.
type PlaceholderStatement struct {
	Pos    Position
	EndPos Position
}

// UncheckedStatement wraps a block whose arithmetic wraps instead of
// aborting.
type UncheckedStatement struct {
	Pos    Position
	EndPos Position
	Block  *Block
}

// InlineAssemblyStatement embeds a Yul block.
type InlineAssemblyStatement struct {
	Pos      Position
	EndPos   Position
	Language string
	Body     *AssemblyBlock
}

// UnsupportedStatement stands in for any statement kind the decoder does not
// model (try/catch and friends). TypeTag preserves the parser's tag for
// diagnostics.
type UnsupportedStatement struct {
	Pos     Position
	EndPos  Position
	TypeTag string
}
