package transform

import (
	"fmt"
	"math/big"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

type foldKind int

const (
	foldInt foldKind = iota
	foldBool
	foldBytes
	foldAddr
)

// foldValue is one compile-time value. Integers are exact; negative
// results surface as negative nums and wrap only at emission.
type foldValue struct {
	kind foldKind
	num  *big.Int
	text string
	hex  bool
}

func intFold(v *big.Int) *foldValue  { return &foldValue{kind: foldInt, num: v} }
func boolFold(v bool) *foldValue     { return &foldValue{kind: foldBool, num: big.NewInt(b2i(v))} }
func (v *foldValue) truth() bool     { return v.num != nil && v.num.Sign() != 0 }
func (v *foldValue) isInt() bool     { return v.kind == foldInt }

func b2i(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

// foldProblem explains why an expression did not fold. A non-empty ref
// names an unresolved symbol; fatal problems stay errors even outside
// strict mode.
type foldProblem struct {
	reason string
	ref    string
	fatal  bool
	pos    solast.Position
}

func problem(pos solast.Position, format string, args ...any) *foldProblem {
	return &foldProblem{reason: fmt.Sprintf(format, args...), pos: pos}
}

// constInfo records one module constant produced from a constant state
// variable: its emitted name, type, and folded value when folding worked.
type constInfo struct {
	Src       *ir.StateVar
	ConstName string
	Mapped    *typemap.Mapped
	Value     *foldValue
}

// folder evaluates initializer expressions over the constant environment.
// Resolution is demand-driven so constants may reference ones declared
// later; inProgress breaks reference cycles.
type folder struct {
	t          *Transformer
	values     map[string]*foldValue
	inProgress map[string]bool
}

// foldConstants resolves every constant state variable in declaration
// order. Failed folds still claim their constant slot with a zero
// placeholder so references elsewhere stay valid.
func (t *Transformer) foldConstants() {
	t.folder = &folder{
		t:          t,
		values:     map[string]*foldValue{},
		inProgress: map[string]bool{},
	}
	t.consts = map[string]*constInfo{}

	for _, v := range t.plan.Constants {
		mapped, _ := t.mapper.MapVariable(varDecl(v))
		info := &constInfo{
			Src:       v,
			ConstName: screamingName(v.Name),
			Mapped:    mapped,
		}
		t.consts[v.Name] = info
		t.constOrder = append(t.constOrder, info)
	}

	for _, info := range t.constOrder {
		info.Value = t.folder.resolve(info.Src)
	}
}

// resolve folds one constant's initializer, reporting problems once.
func (f *folder) resolve(v *ir.StateVar) *foldValue {
	if value, done := f.values[v.Name]; done {
		return value
	}
	if f.inProgress[v.Name] {
		f.t.report(errors.UnresolvedConstant(v.Name, v.Name, v.Pos))
		f.values[v.Name] = nil
		return nil
	}
	f.inProgress[v.Name] = true
	defer delete(f.inProgress, v.Name)

	if v.Initial == nil {
		f.values[v.Name] = nil
		return nil
	}
	value, prob := f.eval(v.Initial)
	if prob != nil {
		switch {
		case prob.ref != "":
			f.t.report(errors.UnresolvedConstant(v.Name, prob.ref, prob.pos))
		case prob.fatal:
			f.t.report(errors.NewTransformError(errors.ErrorUnfoldableConstant,
				fmt.Sprintf("constant '%s' cannot be evaluated: %s", v.Name, prob.reason), prob.pos).Build())
		default:
			f.t.report(errors.UnfoldableConstant(v.Name, prob.reason, prob.pos, f.t.opts.Strict))
		}
		value = nil
	}
	f.values[v.Name] = value
	return value
}

func (f *folder) eval(e solast.Expression) (*foldValue, *foldProblem) {
	switch n := e.(type) {
	case *solast.NumberLiteral:
		value, ok := parseNumber(n)
		if !ok {
			return nil, problem(n.Pos, "unparseable number %q", n.Number)
		}
		if isHexSpelling(n.Number) && n.Subdenomination == "" {
			return &foldValue{kind: foldInt, num: value, hex: true, text: n.Number}, nil
		}
		return intFold(value), nil
	case *solast.BooleanLiteral:
		return boolFold(n.Value), nil
	case *solast.StringLiteral:
		return &foldValue{kind: foldBytes, text: n.Value}, nil
	case *solast.HexLiteral:
		return &foldValue{kind: foldBytes, text: n.Value, hex: true}, nil
	case *solast.Identifier:
		return f.evalIdentifier(n)
	case *solast.MemberAccess:
		return f.evalMember(n)
	case *solast.UnaryOperation:
		return f.evalUnary(n)
	case *solast.BinaryOperation:
		return f.evalBinary(n)
	case *solast.Conditional:
		cond, prob := f.eval(n.Condition)
		if prob != nil {
			return nil, prob
		}
		if cond.truth() {
			return f.eval(n.TrueExpression)
		}
		return f.eval(n.FalseExpression)
	case *solast.TupleExpression:
		if !n.IsArray && len(n.Components) == 1 && n.Components[0] != nil {
			return f.eval(n.Components[0])
		}
		return nil, problem(n.Pos, "aggregate initializers are not foldable")
	case *solast.FunctionCall:
		return f.evalCall(n)
	}
	return nil, problem(e.NodePos(), "construct %s is not foldable", e.NodeType())
}

func (f *folder) evalIdentifier(n *solast.Identifier) (*foldValue, *foldProblem) {
	if value, done := f.values[n.Name]; done {
		if value == nil {
			return nil, problem(n.Pos, "references constant '%s' which did not fold", n.Name)
		}
		return value, nil
	}
	if v := f.t.contract.StateVarByName(n.Name); v != nil && v.Mutability == ir.Constant {
		if f.inProgress[n.Name] {
			return nil, &foldProblem{ref: n.Name, reason: "reference cycle", pos: n.Pos}
		}
		value := f.resolve(v)
		if value == nil {
			return nil, problem(n.Pos, "references constant '%s' which did not fold", n.Name)
		}
		return value, nil
	}
	return nil, &foldProblem{ref: n.Name, reason: "unknown symbol", pos: n.Pos}
}

func (f *folder) evalMember(n *solast.MemberAccess) (*foldValue, *foldProblem) {
	// type(T).max and type(T).min
	if call, ok := n.Expression.(*solast.FunctionCall); ok {
		if callee, ok := call.Expression.(*solast.Identifier); ok && callee.Name == "type" && len(call.Arguments) == 1 {
			return f.evalTypeBound(call.Arguments[0], n.MemberName, n.Pos)
		}
	}
	// enum member ordinal
	if base, ok := n.Expression.(*solast.Identifier); ok {
		if ordinal, found := f.t.decls.enumOrdinal(base.Name, n.MemberName); found {
			return intFold(big.NewInt(int64(ordinal))), nil
		}
	}
	return nil, problem(n.Pos, "member access is not foldable")
}

func (f *folder) evalTypeBound(arg solast.Expression, member string, pos solast.Position) (*foldValue, *foldProblem) {
	tn, ok := arg.(*solast.ElementaryTypeNameExpression)
	if !ok || tn.TypeName == nil {
		return nil, problem(pos, "type() over a non-elementary type is not foldable")
	}
	mapped, _ := f.t.mapper.Map(tn.TypeName)
	width := declaredWidth(mapped)
	if width == 0 {
		return nil, problem(pos, "type(%s) has no integer bounds", tn.TypeName.Name)
	}
	switch member {
	case "max":
		max := new(big.Int).Lsh(big.NewInt(1), uint(width))
		max.Sub(max, big.NewInt(1))
		if mapped.IsSigned {
			max.Rsh(max, 1)
		}
		return intFold(max), nil
	case "min":
		if mapped.IsSigned {
			min := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
			return intFold(min.Neg(min)), nil
		}
		return intFold(big.NewInt(0)), nil
	}
	return nil, problem(pos, "type(T).%s is not foldable", member)
}

func (f *folder) evalUnary(n *solast.UnaryOperation) (*foldValue, *foldProblem) {
	sub, prob := f.eval(n.SubExpression)
	if prob != nil {
		return nil, prob
	}
	switch n.Operator {
	case "-":
		if !sub.isInt() {
			return nil, problem(n.Pos, "negation of a non-integer value")
		}
		return intFold(new(big.Int).Neg(sub.num)), nil
	case "!":
		return boolFold(!sub.truth()), nil
	case "~":
		if !sub.isInt() {
			return nil, problem(n.Pos, "bitwise complement of a non-integer value")
		}
		ones := new(big.Int).Lsh(big.NewInt(1), 256)
		ones.Sub(ones, big.NewInt(1))
		return intFold(new(big.Int).Xor(sub.num, ones)), nil
	}
	return nil, problem(n.Pos, "operator %s is not foldable", n.Operator)
}

func (f *folder) evalBinary(n *solast.BinaryOperation) (*foldValue, *foldProblem) {
	if n.Operator == "&&" || n.Operator == "||" {
		left, prob := f.eval(n.Left)
		if prob != nil {
			return nil, prob
		}
		if n.Operator == "&&" && !left.truth() {
			return boolFold(false), nil
		}
		if n.Operator == "||" && left.truth() {
			return boolFold(true), nil
		}
		right, prob := f.eval(n.Right)
		if prob != nil {
			return nil, prob
		}
		return boolFold(right.truth()), nil
	}

	left, prob := f.eval(n.Left)
	if prob != nil {
		return nil, prob
	}
	right, prob := f.eval(n.Right)
	if prob != nil {
		return nil, prob
	}

	switch n.Operator {
	case "==", "!=", "<", "<=", ">", ">=":
		return f.evalCompare(n, left, right)
	}

	if !left.isInt() || !right.isInt() {
		return nil, problem(n.Pos, "operator %s over non-integer values", n.Operator)
	}
	a, b := left.num, right.num
	out := new(big.Int)
	switch n.Operator {
	case "+":
		out.Add(a, b)
	case "-":
		out.Sub(a, b)
	case "*":
		out.Mul(a, b)
	case "/":
		if b.Sign() == 0 {
			return nil, &foldProblem{reason: "division by zero", fatal: true, pos: n.Pos}
		}
		out.Quo(a, b)
	case "%":
		if b.Sign() == 0 {
			return nil, &foldProblem{reason: "modulo by zero", fatal: true, pos: n.Pos}
		}
		out.Rem(a, b)
	case "**":
		if b.Sign() < 0 || b.BitLen() > 20 {
			return nil, problem(n.Pos, "exponent out of range")
		}
		out.Exp(a, b, nil)
		widthMask(out, 256)
	case "<<":
		if b.Sign() < 0 || b.BitLen() > 16 {
			return nil, problem(n.Pos, "shift amount out of range")
		}
		out.Lsh(a, uint(b.Uint64()))
		widthMask(out, 256)
	case ">>":
		if b.Sign() < 0 || b.BitLen() > 16 {
			return nil, problem(n.Pos, "shift amount out of range")
		}
		out.Rsh(a, uint(b.Uint64()))
	case "&":
		out.And(a, b)
	case "|":
		out.Or(a, b)
	case "^":
		out.Xor(a, b)
	default:
		return nil, problem(n.Pos, "operator %s is not foldable", n.Operator)
	}
	return intFold(out), nil
}

func (f *folder) evalCompare(n *solast.BinaryOperation, left, right *foldValue) (*foldValue, *foldProblem) {
	if left.kind == foldBytes && right.kind == foldBytes {
		eq := left.text == right.text && left.hex == right.hex
		switch n.Operator {
		case "==":
			return boolFold(eq), nil
		case "!=":
			return boolFold(!eq), nil
		}
		return nil, problem(n.Pos, "ordered comparison of byte strings is not foldable")
	}
	if left.num == nil || right.num == nil {
		return nil, problem(n.Pos, "comparison over non-scalar values")
	}
	cmp := left.num.Cmp(right.num)
	switch n.Operator {
	case "==":
		return boolFold(cmp == 0), nil
	case "!=":
		return boolFold(cmp != 0), nil
	case "<":
		return boolFold(cmp < 0), nil
	case "<=":
		return boolFold(cmp <= 0), nil
	case ">":
		return boolFold(cmp > 0), nil
	case ">=":
		return boolFold(cmp >= 0), nil
	}
	return nil, problem(n.Pos, "operator %s is not foldable", n.Operator)
}

func (f *folder) evalCall(n *solast.FunctionCall) (*foldValue, *foldProblem) {
	switch callee := n.Expression.(type) {
	case *solast.ElementaryTypeNameExpression:
		if len(n.Arguments) != 1 {
			return nil, problem(n.Pos, "cast arity")
		}
		value, prob := f.eval(n.Arguments[0])
		if prob != nil {
			return nil, prob
		}
		return f.evalCast(callee, value, n.Pos)
	case *solast.Identifier:
		kind := builtins.LookupFunction(callee.Name)
		if kind.IsHash() {
			return nil, problem(n.Pos, "hash builtin %s requires runtime evaluation", callee.Name)
		}
		return nil, problem(n.Pos, "call to '%s' requires runtime evaluation", callee.Name)
	}
	return nil, problem(n.Pos, "call form is not foldable")
}

func (f *folder) evalCast(tn *solast.ElementaryTypeNameExpression, value *foldValue, pos solast.Position) (*foldValue, *foldProblem) {
	if tn.TypeName == nil {
		return nil, problem(pos, "cast target missing")
	}
	name := tn.TypeName.Name
	if name == "address" {
		if value.isInt() {
			// the source spelling rides along so address position can
			// verify a checksum the numeric value no longer carries
			return &foldValue{kind: foldAddr, num: value.num, text: value.text, hex: value.hex}, nil
		}
		return nil, problem(pos, "address cast over a non-integer value")
	}
	mapped, _ := f.t.mapper.Map(tn.TypeName)
	width := declaredWidth(mapped)
	if width == 0 {
		if mapped != nil && (mapped.IsBytes || mapped.IsString) {
			return value, nil
		}
		return nil, problem(pos, "cast to %s is not foldable", name)
	}
	if !value.isInt() {
		return nil, problem(pos, "numeric cast over a non-integer value")
	}
	out := new(big.Int).Set(value.num)
	if out.Sign() < 0 {
		out = twosComplement(out, width)
	}
	widthMask(out, width)
	return intFold(out), nil
}

// addressSpelling renders an integer as an address literal.
func addressSpelling(v *big.Int) string {
	if v.Sign() == 0 {
		return "0x0"
	}
	return "0x" + v.Text(16)
}

// constantDecl emits one folded constant. Failed folds keep their slot
// with the type's zero so downstream references still resolve.
func (t *Transformer) constantDecl(info *constInfo) *moveast.Constant {
	decl := &moveast.Constant{Name: info.ConstName}
	if t.opts.EmitComments {
		decl.Doc = fmt.Sprintf("Declared constant %s.", info.Src.Name)
	}

	mapped := info.Mapped
	value := info.Value
	switch {
	case mapped.IsString || mapped.IsBytes:
		decl.Type = moveast.Vector(moveast.U8())
		lit := &moveast.ByteStringLit{}
		if value != nil && value.kind == foldBytes {
			lit.Value = value.text
			lit.Hex = value.hex
		}
		decl.Value = lit
	case isAddress(mapped):
		decl.Type = moveast.Address()
		spelling := "0x0"
		if value != nil && (value.kind == foldAddr || value.isInt()) {
			t.checkAddressSpelling(value, info.Src.Pos)
			spelling = addressSpelling(value.num)
		}
		decl.Value = &moveast.AddressLit{Value: spelling}
	case isBool(mapped):
		decl.Type = moveast.Bool()
		decl.Value = moveast.BoolOf(value != nil && value.truth())
	case mapped.IsEnum:
		// enum-typed constants hold the member ordinal; variant values
		// cannot appear in constant position
		decl.Type = moveast.U8()
		ordinal := uint64(0)
		if value != nil && value.isInt() && value.num.Sign() >= 0 {
			ordinal = value.num.Uint64()
		}
		decl.Value = moveast.IntOf(ordinal)
	default:
		decl.Type = mapped.Move
		out := big.NewInt(0)
		if value != nil && value.isInt() {
			out = new(big.Int).Set(value.num)
			if out.Sign() < 0 {
				out = twosComplement(out, intWidth(mapped))
				t.report(errors.NewTransformWarning(errors.WarningSignedType,
					fmt.Sprintf("negative constant '%s' wrapped to two's complement", info.Src.Name),
					info.Src.Pos).
					WithNote("the emitted value is the unsigned bit pattern").
					Build())
			}
			if mapped.TruncateBits != 0 {
				widthMask(out, mapped.TruncateBits)
			}
		}
		decl.Value = moveast.Int(out.String())
	}
	return decl
}
