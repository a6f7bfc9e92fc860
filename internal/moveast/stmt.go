package moveast

// Stmt is the closed set of statements in the output tree.
type Stmt interface {
	isStmt()
}

func (*Block) isStmt()    {}
func (*Let) isStmt()      {}
func (*Assign) isStmt()   {}
func (*ExprStmt) isStmt() {}
func (*If) isStmt()       {}
func (*While) isStmt()    {}
func (*Loop) isStmt()     {}
func (*For) isStmt()      {}
func (*Break) isStmt()    {}
func (*Continue) isStmt() {}
func (*Return) isStmt()   {}
func (*Abort) isStmt()    {}

// Block is a braced statement sequence.
type Block struct {
	Stmts []Stmt
}

// Append adds statements to the block and returns it for chaining.
func (b *Block) Append(stmts ...Stmt) *Block {
	b.Stmts = append(b.Stmts, stmts...)
	return b
}

// Let declares one or more locals; multiple names destructure a tuple
// value. Type and Value may each be nil.
// Example: let balance = table::borrow_with_default(&s.balances, addr, &0);
type Let struct {
	Names []string
	Type  Type
	Value Expr
}

// Assign stores into an existing place (local, field, deref).
type Assign struct {
	Target Expr
	Value  Expr
}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	Expr Expr
}

// If is the statement-position conditional; Else is nil, a *Block, or a
// nested *If for else-if chains.
type If struct {
	Cond Expr
	Then *Block
	Else Stmt
}

type While struct {
	Cond Expr
	Body *Block
}

// Loop is the unconditional loop form, used for do-while lowering.
type Loop struct {
	Body *Block
}

// For is the bounded range loop.
// Example: for (i in 0..n) { ... }
type For struct {
	Var   string
	Range *Range
	Body  *Block
}

type Break struct{}

type Continue struct{}

// Return with optional value; a tuple expression carries multi-returns.
type Return struct {
	Value Expr
}

// Abort terminates with an error code expression.
type Abort struct {
	Code Expr
}
