package moveast

// Expr is the closed set of expression nodes in the output tree.
type Expr interface {
	isExpr()
}

func (*Name) isExpr()          {}
func (*AddressName) isExpr()   {}
func (*AddressLit) isExpr()    {}
func (*IntLit) isExpr()        {}
func (*BoolLit) isExpr()       {}
func (*ByteStringLit) isExpr() {}
func (*VectorLit) isExpr()     {}
func (*Call) isExpr()          {}
func (*MethodCall) isExpr()    {}
func (*StructLit) isExpr()     {}
func (*FieldAccess) isExpr()   {}
func (*Index) isExpr()         {}
func (*Borrow) isExpr()        {}
func (*Deref) isExpr()         {}
func (*Unary) isExpr()         {}
func (*Binary) isExpr()        {}
func (*Cast) isExpr()          {}
func (*IfExpr) isExpr()        {}
func (*Tuple) isExpr()         {}
func (*Range) isExpr()         {}
func (*VariantRef) isExpr()    {}

// Name is a local, parameter or constant reference.
type Name struct {
	Ident string
}

// AddressName is a named address reference.
// Example: @self
type AddressName struct {
	Name string
}

// AddressLit is a literal address.
// Example: @0x1
type AddressLit struct {
	Value string
}

// IntLit keeps the spelling (decimal or 0x-prefixed) and an optional width
// suffix; the suffix is attached only when inference needs the hint.
// Example: 255, 0xffu256
type IntLit struct {
	Value  string
	Suffix string
}

type BoolLit struct {
	Value bool
}

// ByteStringLit is a byte-string literal; Hex selects the x"" spelling over
// b"".
type ByteStringLit struct {
	Value string
	Hex   bool
}

// VectorLit is the vector[...] literal form.
type VectorLit struct {
	ElemType Type
	Elems    []Expr
}

// Call is a function call, module-qualified when Module is set.
// Example: table::borrow_mut(&mut s.balances, addr)
type Call struct {
	Module   string
	Name     string
	TypeArgs []Type
	Args     []Expr
}

// MethodCall is the receiver-syntax call form.
// Example: s.balances.borrow_mut(addr)
type MethodCall struct {
	Recv Expr
	Name string
	Args []Expr
}

// StructLit constructs a struct value.
type StructLit struct {
	Name   string
	Fields []FieldInit
}

// FieldInit is one field initializer inside a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// FieldAccess selects a field.
type FieldAccess struct {
	Recv  Expr
	Field string
}

// Index is the bracket-access form on vectors and tables.
type Index struct {
	Recv  Expr
	Index Expr
}

// Borrow takes a reference to a place.
type Borrow struct {
	Mut  bool
	Expr Expr
}

// Deref reads through a reference.
type Deref struct {
	Expr Expr
}

type Unary struct {
	Op   string
	Expr Expr
}

type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Cast is the (expr as type) form.
type Cast struct {
	Expr Expr
	Type Type
}

// IfExpr is the expression-position conditional; Else is required.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Tuple groups multiple values, mainly for multi-returns.
type Tuple struct {
	Elems []Expr
}

// Range is the lo..hi form consumed by for-loops.
type Range struct {
	Lo Expr
	Hi Expr
}

// VariantRef names one variant of a declared enum.
// Example: Status::Active
type VariantRef struct {
	Enum    string
	Variant string
}
