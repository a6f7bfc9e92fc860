package moveast

import "strconv"

// Constructor helpers. The transform layer builds output trees almost
// entirely through these, which keeps the rewrite rules close to the shape
// of the Move they produce.

// NameOf returns a plain identifier reference.
func NameOf(ident string) *Name { return &Name{Ident: ident} }

// AddrOf returns a named-address reference.
func AddrOf(name string) *AddressName { return &AddressName{Name: name} }

// Int returns an unsuffixed integer literal from a decimal or 0x spelling.
func Int(value string) *IntLit { return &IntLit{Value: value} }

// IntOf returns an unsuffixed decimal literal for a native value.
func IntOf(v uint64) *IntLit { return &IntLit{Value: strconv.FormatUint(v, 10)} }

// SuffixedInt returns a width-suffixed integer literal.
// Example: SuffixedInt("0xff", "u256") renders as 0xffu256
func SuffixedInt(value, suffix string) *IntLit { return &IntLit{Value: value, Suffix: suffix} }

// BoolOf returns a boolean literal.
func BoolOf(v bool) *BoolLit { return &BoolLit{Value: v} }

// CallFn returns an unqualified call.
func CallFn(name string, args ...Expr) *Call { return &Call{Name: name, Args: args} }

// CallMod returns a module-qualified call.
// Example: CallMod("signer", "address_of", NameOf("caller"))
func CallMod(module, name string, args ...Expr) *Call {
	return &Call{Module: module, Name: name, Args: args}
}

// CallModT returns a module-qualified call with type arguments.
func CallModT(module, name string, typeArgs []Type, args ...Expr) *Call {
	return &Call{Module: module, Name: name, TypeArgs: typeArgs, Args: args}
}

// FieldOf selects a field from a receiver expression.
func FieldOf(recv Expr, field string) *FieldAccess { return &FieldAccess{Recv: recv, Field: field} }

// BorrowOf and BorrowMutOf take references to a place.
func BorrowOf(e Expr) *Borrow    { return &Borrow{Expr: e} }
func BorrowMutOf(e Expr) *Borrow { return &Borrow{Mut: true, Expr: e} }

// DerefOf reads through a reference.
func DerefOf(e Expr) *Deref { return &Deref{Expr: e} }

// Bin and Un build operator applications.
func Bin(op string, left, right Expr) *Binary { return &Binary{Op: op, Left: left, Right: right} }
func Un(op string, e Expr) *Unary             { return &Unary{Op: op, Expr: e} }

// CastTo wraps an expression in (e as t).
func CastTo(e Expr, t Type) *Cast { return &Cast{Expr: e, Type: t} }

// LetOf declares a single local with a value.
func LetOf(name string, value Expr) *Let { return &Let{Names: []string{name}, Value: value} }

// LetTyped declares a single local with an explicit type.
func LetTyped(name string, t Type, value Expr) *Let {
	return &Let{Names: []string{name}, Type: t, Value: value}
}

// AssignTo stores a value into a place.
func AssignTo(target Expr, value Expr) *Assign { return &Assign{Target: target, Value: value} }

// StmtOf wraps an expression as a statement.
func StmtOf(e Expr) *ExprStmt { return &ExprStmt{Expr: e} }

// Seq builds a block from statements, skipping nils so callers can splice
// optional pieces without guards.
func Seq(stmts ...Stmt) *Block {
	b := &Block{}
	for _, s := range stmts {
		if s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	return b
}

// AbortWith aborts with a named error constant.
func AbortWith(constName string) *Abort { return &Abort{Code: NameOf(constName)} }

// AssertCall builds the assert! builtin invocation.
func AssertCall(cond Expr, code Expr) *ExprStmt {
	return StmtOf(&Call{Name: "assert!", Args: []Expr{cond, code}})
}
