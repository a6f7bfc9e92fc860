package transform

import (
	"fmt"
	"math/big"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// placeholder stands in for an expression that could not be lowered. The
// diagnostic carrying the real story is reported beside it.
func placeholder(kind string) moveast.Expr {
	return &moveast.ByteStringLit{Value: "unsupported: " + kind}
}

// expr lowers one expression in value position.
func (t *Transformer) expr(e solast.Expression) moveast.Expr {
	switch n := e.(type) {
	case *solast.NumberLiteral:
		return t.lowerNumber(n)
	case *solast.BooleanLiteral:
		return moveast.BoolOf(n.Value)
	case *solast.StringLiteral:
		return t.stringLiteral(n.Value)
	case *solast.HexLiteral:
		return &moveast.ByteStringLit{Value: n.Value, Hex: true}
	case *solast.Identifier:
		return t.lowerIdentifier(n)
	case *solast.MemberAccess:
		return t.lowerMember(n)
	case *solast.IndexAccess:
		return t.indexRead(n)
	case *solast.FunctionCall:
		return t.lowerCall(n)
	case *solast.BinaryOperation:
		if n.IsAssignment() {
			t.report(errors.UnsupportedExpression("assignment in expression position", n.Pos))
			return placeholder("nested assignment")
		}
		return t.lowerBinary(n)
	case *solast.UnaryOperation:
		return t.lowerUnary(n)
	case *solast.Conditional:
		return &moveast.IfExpr{
			Cond: t.expr(n.Condition),
			Then: t.expr(n.TrueExpression),
			Else: t.expr(n.FalseExpression),
		}
	case *solast.TupleExpression:
		return t.lowerTuple(n)
	case *solast.NameValueExpression:
		// call options surface on the wrapped callee; value transfers are
		// handled at the call site
		return t.expr(n.Expression)
	case *solast.NewExpression:
		// a bare new outside call position cannot allocate anything
		t.report(errors.UnsupportedExpression("new expression outside a call", n.Pos))
		return placeholder("new")
	case *solast.ElementaryTypeNameExpression:
		t.report(errors.UnsupportedExpression("type used as a value", n.Pos))
		return placeholder("type value")
	case *solast.UnsupportedExpression:
		t.report(errors.UnsupportedExpression(n.TypeTag, n.Pos))
		return placeholder(n.TypeTag)
	}
	t.report(errors.UnsupportedExpression(e.NodeType(), e.NodePos()))
	return placeholder(e.NodeType())
}

func (t *Transformer) exprList(args []solast.Expression) []moveast.Expr {
	out := make([]moveast.Expr, 0, len(args))
	for _, a := range args {
		out = append(out, t.expr(a))
	}
	return out
}

// stringLiteral emits a string literal under the configured representation.
func (t *Transformer) stringLiteral(value string) moveast.Expr {
	lit := &moveast.ByteStringLit{Value: value}
	if t.opts.StringRepr == config.StringUTF8 {
		return t.mod("string", "utf8", lit)
	}
	return lit
}

func (t *Transformer) lowerNumber(n *solast.NumberLiteral) moveast.Expr {
	value, ok := parseNumber(n)
	if !ok {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("number literal %q", n.Number), n.Pos))
		return moveast.IntOf(0)
	}
	if n.Subdenomination == "" {
		switch classifyAddressSpelling(n.Number) {
		case addrChecksummed:
			// a checksummed twenty-byte literal is address-typed in source
			return &moveast.AddressLit{Value: addressSpelling(value)}
		case addrBadChecksum:
			t.report(errors.AddressChecksum(n.Number, checksummedForm(n.Number), n.Pos))
		}
	}
	return intLiteral(value, 0)
}

// foldExpr attempts compile-time evaluation without reporting; expression
// lowering uses it for type bounds and literal subtrees.
func (t *Transformer) foldExpr(e solast.Expression) (*foldValue, bool) {
	if t.folder == nil {
		return nil, false
	}
	value, prob := t.folder.eval(e)
	if prob != nil || value == nil {
		return nil, false
	}
	return value, true
}

// ---- identifiers ----

func (t *Transformer) lowerIdentifier(n *solast.Identifier) moveast.Expr {
	if t.fn != nil {
		if local, ok := t.fn.localName(n.Name); ok {
			return moveast.NameOf(local)
		}
	}
	if info, ok := t.consts[n.Name]; ok {
		return t.constRef(info)
	}
	if _, pv := t.plan.varPlan(n.Name); pv != nil {
		return t.storageRead(n.Name, n.Pos)
	}
	if acc, ok := builtins.LookupEnvIdentifier(n.Name); ok {
		return t.lowerEnv(acc, n.Pos)
	}
	if n.Name == "this" {
		return t.selfAddr()
	}
	t.report(errors.UnsupportedExpression(fmt.Sprintf("unresolved identifier '%s'", n.Name), n.Pos))
	return placeholder(n.Name)
}

// constRef spells a reference to a module constant. String constants are
// stored as byte vectors, so reads rewrap them under the utf8 repr.
func (t *Transformer) constRef(info *constInfo) moveast.Expr {
	name := moveast.NameOf(info.ConstName)
	if info.Mapped != nil && info.Mapped.IsString && t.opts.StringRepr == config.StringUTF8 {
		return t.mod("string", "utf8", name)
	}
	return name
}

// storageRead lowers a read of a state variable through its planned home:
// a constructor staging local, the reentrancy flag, an aggregator, or a
// plain group field.
func (t *Transformer) storageRead(name string, pos solast.Position) moveast.Expr {
	if t.fn != nil && t.fn.ctorVars != nil {
		if local, ok := t.fn.ctorVars[name]; ok {
			return moveast.NameOf(local)
		}
	}
	group, pv := t.plan.varPlan(name)
	if pv == nil {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("unplanned state variable '%s'", name), pos))
		return placeholder(name)
	}
	if pv.GuardVar {
		return t.guardRead(pv)
	}
	field := t.groupField(group, pv)
	if pv.Aggregated {
		call := t.mod("aggregator_v2", "read", moveast.BorrowOf(field))
		width := declaredWidth(pv.Mapped)
		if width != 0 && width != 128 {
			return moveast.CastTo(call, pv.Mapped.Move)
		}
		return call
	}
	return field
}

// guardRead reads the absorbed reentrancy flag. Integer-typed guards
// (the OpenZeppelin 1/2 protocol) read back their source encoding.
func (t *Transformer) guardRead(pv *plannedVar) moveast.Expr {
	field := t.groupField(t.plan.Primary, pv)
	if pv.Mapped != nil && isBool(pv.Mapped) {
		return field
	}
	return &moveast.IfExpr{Cond: field, Then: moveast.IntOf(2), Else: moveast.IntOf(1)}
}

// groupField spells binding.field for a planned variable. A missing
// binding means the registry did not see this access; the borrow is
// inlined as a fallback so the output stays well formed.
func (t *Transformer) groupField(group *storageGroup, pv *plannedVar) moveast.Expr {
	if group == nil {
		return moveast.NameOf(pv.Field)
	}
	if t.fn != nil {
		if binding, ok := t.fn.bindings[group.Name]; ok {
			return moveast.FieldOf(moveast.NameOf(binding), pv.Field)
		}
	}
	return moveast.FieldOf(t.borrowGroupInline(group), pv.Field)
}

// borrowGroupInline is the fallback acquire for a group with no binding in
// scope.
func (t *Transformer) borrowGroupInline(group *storageGroup) moveast.Expr {
	return &moveast.Call{
		Name:     "borrow_global",
		TypeArgs: []moveast.Type{moveast.Qualified("", group.Name)},
		Args:     []moveast.Expr{t.selfAddr()},
	}
}

// ---- member access ----

func (t *Transformer) lowerMember(n *solast.MemberAccess) moveast.Expr {
	// environment accessors: msg.sender, block.timestamp, ...
	if base, ok := n.Expression.(*solast.Identifier); ok {
		if acc, found := builtins.LookupEnv(base.Name, n.MemberName); found {
			return t.lowerEnv(acc, n.Pos)
		}
		// enum member: Status.Active
		if _, found := t.decls.enumOrdinal(base.Name, n.MemberName); found {
			return t.enumMember(base.Name, n.MemberName)
		}
	}

	// type(T).max / type(T).min folds to a literal
	if value, ok := t.foldExpr(n); ok && value.isInt() {
		return intLiteral(value.num, 0)
	}

	switch n.MemberName {
	case "length":
		return t.lowerLength(n)
	case "balance":
		return t.lowerBalance(n)
	case "code", "codehash":
		t.report(errors.EnvAccessorUnavailable("address."+n.MemberName,
			"deployed code is not observable from Move", n.Pos))
		return placeholder(n.MemberName)
	}

	// struct field access
	base := t.expr(n.Expression)
	return moveast.FieldOf(base, snakeName(n.MemberName))
}

// enumMember spells an enum member reference under the configured repr.
func (t *Transformer) enumMember(enum, member string) moveast.Expr {
	if t.opts.EnumRepr == config.EnumConstants {
		return moveast.NameOf(enumConstName(enum, member))
	}
	return &moveast.VariantRef{Enum: enum, Variant: member}
}

func (t *Transformer) lowerEnv(acc builtins.EnvAccessor, pos solast.Position) moveast.Expr {
	name := acc.Base + "." + acc.Member
	switch acc.Kind {
	case builtins.EnvCaller:
		if acc.Note != "" {
			t.report(errors.EnvAccessorApproximated(name, acc.Note, pos))
		}
		if addr, ok := t.callerAddr(); ok {
			return addr
		}
		t.report(errors.EnvAccessorUnavailable(name,
			"no caller identity is reachable in this function", pos))
		return &moveast.AddressLit{Value: "0x0"}
	case builtins.EnvValue:
		note := "coin transfers are explicit on Aptos; the attached value reads as 0"
		if t.fn != nil && t.fn.fn != nil && t.fn.fn.Mutability == "payable" {
			t.report(errors.EnvAccessorApproximated(name, note, pos))
		} else {
			t.report(errors.ValueOutsidePayable(pos))
		}
		return moveast.IntOf(0)
	case builtins.EnvCall:
		call := t.mod(acc.Module, acc.Function)
		if acc.Note != "" {
			t.report(errors.EnvAccessorApproximated(name, acc.Note, pos))
		}
		if acc.NativeWidth != 0 && acc.NativeWidth < 256 {
			return moveast.CastTo(call, moveast.U256())
		}
		return call
	}
	t.report(errors.EnvAccessorUnavailable(name, acc.Note, pos))
	return moveast.IntOf(0)
}

// lowerLength maps .length over vectors, bytes and strings; the result is
// widened to u256 to match the source-side uint.
func (t *Transformer) lowerLength(n *solast.MemberAccess) moveast.Expr {
	base := t.expr(n.Expression)
	m := t.typeOf(n.Expression)
	var call moveast.Expr
	switch {
	case m != nil && m.IsString && t.opts.StringRepr == config.StringUTF8:
		call = t.mod("string", "length", moveast.BorrowOf(base))
	default:
		call = t.mod("vector", "length", moveast.BorrowOf(base))
	}
	return moveast.CastTo(call, moveast.U256())
}

// lowerBalance reads the APT balance of an address. The unit differs from
// the source chain, so the read is flagged.
func (t *Transformer) lowerBalance(n *solast.MemberAccess) moveast.Expr {
	addr := t.expr(n.Expression)
	t.report(errors.EnvAccessorApproximated("address.balance",
		"reads the AptosCoin balance in octas, not wei", n.Pos))
	call := t.modT("coin", "balance", []moveast.Type{aptosCoinType()}, addr)
	return moveast.CastTo(call, moveast.U256())
}

func aptosCoinType() moveast.Type {
	return moveast.Qualified("aptos_coin", "AptosCoin")
}

// ---- index access ----

// indexRead lowers a read of map[key] or arr[i]. Map reads return the
// value type's zero for missing keys, matching source-chain semantics,
// except for struct values where no cheap default exists.
func (t *Transformer) indexRead(n *solast.IndexAccess) moveast.Expr {
	base := t.typeOf(n.Base)
	place := t.expr(n.Base)
	switch {
	case base != nil && base.IsMap:
		return t.mapRead(place, n, base)
	case base != nil && (base.IsVector || base.IsBytes):
		idx := t.indexExpr(n.Index)
		return moveast.DerefOf(t.mod("vector", "borrow", moveast.BorrowOf(place), idx))
	}
	// unknown base: assume vector semantics
	idx := t.indexExpr(n.Index)
	return moveast.DerefOf(t.mod("vector", "borrow", moveast.BorrowOf(place), idx))
}

// indexExpr narrows a source index (uint256) to the u64 the vector API
// takes. Plain literals stay untyped and need no cast.
func (t *Transformer) indexExpr(e solast.Expression) moveast.Expr {
	idx := t.expr(e)
	if _, ok := idx.(*moveast.IntLit); ok {
		return idx
	}
	return moveast.CastTo(idx, moveast.U64())
}

func (t *Transformer) mapRead(place moveast.Expr, n *solast.IndexAccess, m *typemap.Mapped) moveast.Expr {
	key := t.expr(n.Index)
	value := m.Value

	if value != nil && value.IsStruct {
		// no synthesizable default; the read aborts on a missing key
		t.report(errors.BuiltinApproximated("mapping read",
			"struct-valued mapping reads abort on missing keys instead of returning a default", n.Pos))
		if t.opts.MapBacking == config.BackingOrderedMap {
			return moveast.DerefOf(t.mod("ordered_map", "borrow", moveast.BorrowOf(place), moveast.BorrowOf(key)))
		}
		return moveast.DerefOf(t.mod("table", "borrow", moveast.BorrowOf(place), key))
	}

	zero := t.zeroValue(value)
	if t.opts.MapBacking == config.BackingOrderedMap {
		contains := t.mod("ordered_map", "contains", moveast.BorrowOf(place), moveast.BorrowOf(key))
		read := moveast.DerefOf(t.mod("ordered_map", "borrow", moveast.BorrowOf(place), moveast.BorrowOf(key)))
		return &moveast.IfExpr{Cond: contains, Then: read, Else: zero}
	}

	// table reads take the default by reference, which must root in a local
	def := t.fn.tempName("default")
	t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(def, zero))
	return moveast.DerefOf(t.mod("table", "borrow_with_default",
		moveast.BorrowOf(place), key, moveast.BorrowOf(moveast.NameOf(def))))
}

// ---- calls ----

func (t *Transformer) lowerCall(n *solast.FunctionCall) moveast.Expr {
	switch callee := n.Expression.(type) {
	case *solast.ElementaryTypeNameExpression:
		return t.lowerCast(callee, n)
	case *solast.NewExpression:
		return t.lowerNew(callee, n)
	case *solast.Identifier:
		return t.lowerNamedCall(callee, n)
	case *solast.MemberAccess:
		return t.lowerMemberCall(callee, n)
	case *solast.NameValueExpression:
		return t.lowerOptionCall(callee, n)
	case *solast.FunctionCall:
		// curried shape: type(T) handled under member access; anything else
		// has no Move spelling
		t.report(errors.UnsupportedExpression("chained call", n.Pos))
		return placeholder("chained call")
	}
	t.report(errors.UnsupportedExpression("call form", n.Pos))
	return placeholder("call")
}

// lowerCast maps T(x) casts. Narrowing masks before casting because Move
// integer casts abort instead of truncating.
func (t *Transformer) lowerCast(callee *solast.ElementaryTypeNameExpression, n *solast.FunctionCall) moveast.Expr {
	if len(n.Arguments) != 1 || callee.TypeName == nil {
		t.report(errors.UnsupportedExpression("cast arity", n.Pos))
		return placeholder("cast")
	}
	arg := n.Arguments[0]
	name := callee.TypeName.Name

	switch name {
	case "address", "payable":
		return t.lowerAddressCast(arg, n.Pos)
	case "string":
		// bytes to string
		inner := t.expr(arg)
		if t.opts.StringRepr == config.StringUTF8 {
			return t.mod("string", "utf8", inner)
		}
		return inner
	case "bytes":
		inner := t.expr(arg)
		m := t.typeOf(arg)
		if m != nil && m.IsString && t.opts.StringRepr == config.StringUTF8 {
			return moveast.DerefOf(t.mod("string", "bytes", moveast.BorrowOf(inner)))
		}
		return inner
	case "bool":
		return t.expr(arg)
	}

	target, _ := t.mapper.Map(callee.TypeName)
	if target == nil {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("cast to %s", name), n.Pos))
		return t.expr(arg)
	}

	if target.IsBytes {
		// integer to fixed bytes: the encoding is BCS, not the EVM layout
		t.report(errors.BuiltinApproximated("bytes cast",
			"byte encoding uses BCS little-endian order, not the EVM big-endian layout", n.Pos))
		inner := t.expr(arg)
		hoistName := t.fn.tempName("raw")
		t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(hoistName, inner))
		return t.mod("bcs", "to_bytes", moveast.BorrowOf(moveast.NameOf(hoistName)))
	}

	width := declaredWidth(target)
	if width == 0 {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("cast to %s", name), n.Pos))
		return t.expr(arg)
	}

	srcMapped := t.typeOf(arg)
	if srcMapped != nil && (srcMapped.IsBytes || srcMapped.IsVector) {
		// fixed bytes to integer through BCS
		t.report(errors.BuiltinApproximated("integer cast",
			"decodes BCS little-endian bytes, not the EVM big-endian layout", n.Pos))
		return t.fromBytes(t.expr(arg), width)
	}

	inner := t.expr(arg)
	srcWidth := declaredWidth(srcMapped)
	needMask := width < 256 && (srcWidth == 0 || srcWidth > width)
	if needMask {
		inner = moveast.Bin("&", inner, moveast.Int(typemap.MaskLiteral(width)))
	}
	return t.castTo(inner, target)
}

// castTo wraps a cast, collapsing cast-of-cast chains and skipping the
// no-op case where the carrier width already matches.
func (t *Transformer) castTo(e moveast.Expr, target *typemap.Mapped) moveast.Expr {
	if inner, ok := e.(*moveast.Cast); ok {
		e = inner.Expr
	}
	return moveast.CastTo(e, target.Move)
}

func (t *Transformer) fromBytes(bytes moveast.Expr, width int) moveast.Expr {
	switch {
	case width <= 64:
		call := t.mod("from_bcs", "to_u64", bytes)
		if width < 64 {
			return moveast.CastTo(call, moveast.UnsignedInt(width))
		}
		return call
	case width <= 128:
		call := t.mod("from_bcs", "to_u128", bytes)
		if width < 128 {
			return moveast.CastTo(call, moveast.UnsignedInt(width))
		}
		return call
	}
	return t.mod("from_bcs", "to_u256", bytes)
}

func (t *Transformer) lowerAddressCast(arg solast.Expression, pos solast.Position) moveast.Expr {
	if id, ok := arg.(*solast.Identifier); ok && id.Name == "this" {
		return t.selfAddr()
	}
	if value, ok := t.foldExpr(arg); ok && value.num != nil {
		t.checkAddressSpelling(value, pos)
		return &moveast.AddressLit{Value: addressSpelling(value.num)}
	}
	m := t.typeOf(arg)
	if m != nil && (isAddress(m) || m.IsContract) {
		// payable(x) and contract-to-address casts are identity
		return t.expr(arg)
	}
	if m != nil && (m.IsBytes || m.IsVector) {
		t.report(errors.BuiltinApproximated("address cast",
			"decodes a 32-byte BCS address, not the EVM 20-byte layout", pos))
		return t.mod("from_bcs", "to_address", t.expr(arg))
	}
	t.report(errors.UnsupportedExpression("integer-to-address conversion", pos))
	return &moveast.AddressLit{Value: "0x0"}
}

// lowerNew handles new T(...) callees. Contract creation has no Move
// equivalent; dynamic arrays start empty.
func (t *Transformer) lowerNew(callee *solast.NewExpression, n *solast.FunctionCall) moveast.Expr {
	if ud, ok := callee.TypeName.(*solast.UserDefinedTypeName); ok {
		t.report(errors.ContractCreation(ud.NamePath, n.Pos))
		return &moveast.AddressLit{Value: "0x0"}
	}
	m, _ := t.mapper.Map(callee.TypeName)
	if m != nil && (m.IsVector || m.IsBytes) {
		t.report(errors.BuiltinApproximated("array allocation",
			"sized allocation becomes an empty vector; elements are appended dynamically", n.Pos))
		return t.zeroValue(m)
	}
	t.report(errors.UnsupportedExpression("new expression", n.Pos))
	return placeholder("new")
}

// lowerNamedCall dispatches a bare-identifier call: builtins, struct
// construction, then module-local functions.
func (t *Transformer) lowerNamedCall(callee *solast.Identifier, n *solast.FunctionCall) moveast.Expr {
	if kind := builtins.LookupFunction(callee.Name); kind != builtins.FnUnknown {
		return t.lowerBuiltin(kind, callee.Name, n)
	}
	if def := t.decls.structDef(callee.Name); def != nil {
		return t.structLiteral(def, n)
	}
	switch t.decls.KindOfName(callee.Name) {
	case typemap.NameContract, typemap.NameLibrary:
		// contract cast: the value is the wrapped address
		if len(n.Arguments) == 1 {
			return t.expr(n.Arguments[0])
		}
	}
	return t.localCall(callee.Name, n.Arguments, n.Pos)
}

func (t *Transformer) lowerBuiltin(kind builtins.FunctionKind, name string, n *solast.FunctionCall) moveast.Expr {
	switch kind {
	case builtins.FnKeccak256, builtins.FnSha256, builtins.FnRipemd160:
		return t.lowerHash(kind, name, n)
	case builtins.FnAddmod, builtins.FnMulmod:
		return t.lowerModArith(kind, n)
	case builtins.FnGasleft:
		t.report(errors.EnvAccessorApproximated("gasleft",
			"gas introspection does not exist; the value reads as 0", n.Pos))
		return moveast.IntOf(0)
	case builtins.FnBlockhash:
		t.report(errors.EnvAccessorUnavailable("blockhash",
			"historic block hashes are not observable", n.Pos))
		return &moveast.ByteStringLit{Hex: true}
	case builtins.FnEcrecover:
		t.report(errors.EnvAccessorUnavailable("ecrecover",
			"secp256k1 recovery must move to a native signature check", n.Pos))
		return &moveast.AddressLit{Value: "0x0"}
	case builtins.FnSelfdestruct:
		t.report(errors.SelfdestructStubbed(n.Pos))
		return moveast.IntOf(0)
	}
	// require/assert/revert are statements; reaching here means they were
	// used in value position
	t.report(errors.UnsupportedExpression(fmt.Sprintf("%s in expression position", name), n.Pos))
	return placeholder(name)
}

// lowerHash maps a hash builtin onto the framework digest of its bytes
// argument.
func (t *Transformer) lowerHash(kind builtins.FunctionKind, name string, n *solast.FunctionCall) moveast.Expr {
	module, function, ok := kind.HashTarget()
	if !ok {
		t.report(errors.UnsupportedExpression(name, n.Pos))
		return placeholder(name)
	}
	if len(n.Arguments) != 1 {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("%s arity", name), n.Pos))
		return placeholder(name)
	}
	return t.mod(module, function, t.hashInput(n.Arguments[0], name))
}

// hashInput lowers the argument of a hash builtin to a byte vector. An
// abi.encode / abi.encodePacked argument becomes a BCS concatenation,
// which changes the digest; the call site is flagged.
func (t *Transformer) hashInput(arg solast.Expression, hashName string) moveast.Expr {
	if call, ok := arg.(*solast.FunctionCall); ok {
		if member, ok := call.Expression.(*solast.MemberAccess); ok {
			if base, ok := member.Expression.(*solast.Identifier); ok && base.Name == "abi" {
				t.report(errors.HashApproximated(hashName, call.Pos))
				return t.packBytes(call.Arguments)
			}
		}
	}
	m := t.typeOf(arg)
	inner := t.expr(arg)
	if m != nil && m.IsString && t.opts.StringRepr == config.StringUTF8 {
		return moveast.DerefOf(t.mod("string", "bytes", moveast.BorrowOf(inner)))
	}
	if m == nil || m.IsBytes || (m.IsVector && m.Elem != nil && !m.Elem.IsStruct) {
		return inner
	}
	// scalar input: serialize it first
	hoistName := t.fn.tempName("raw")
	t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(hoistName, inner))
	return t.mod("bcs", "to_bytes", moveast.BorrowOf(moveast.NameOf(hoistName)))
}

// packBytes concatenates the BCS encodings of the arguments into one byte
// buffer, hoisting the accumulation above the consuming statement.
func (t *Transformer) packBytes(args []solast.Expression) moveast.Expr {
	buf := t.fn.tempName("packed")
	t.fn.hoisted = append(t.fn.hoisted,
		moveast.LetOf(buf, t.modT("vector", "empty", []moveast.Type{moveast.U8()})))
	for _, a := range args {
		m := t.typeOf(a)
		value := t.expr(a)
		var chunk moveast.Expr
		switch {
		case m != nil && m.IsString && t.opts.StringRepr == config.StringUTF8:
			chunk = moveast.DerefOf(t.mod("string", "bytes", moveast.BorrowOf(value)))
		case m != nil && (m.IsBytes || m.IsVector):
			chunk = value
		default:
			raw := t.fn.tempName("raw")
			t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(raw, value))
			chunk = t.mod("bcs", "to_bytes", moveast.BorrowOf(moveast.NameOf(raw)))
		}
		t.fn.hoisted = append(t.fn.hoisted,
			moveast.StmtOf(t.mod("vector", "append", moveast.BorrowMutOf(moveast.NameOf(buf)), chunk)))
	}
	return moveast.NameOf(buf)
}

// lowerModArith maps addmod and mulmod. Operands are reduced first to keep
// intermediates in range; mulmod can still overflow the carrier.
func (t *Transformer) lowerModArith(kind builtins.FunctionKind, n *solast.FunctionCall) moveast.Expr {
	if len(n.Arguments) != 3 {
		t.report(errors.UnsupportedExpression("modular arithmetic arity", n.Pos))
		return placeholder("addmod")
	}
	x := t.expr(n.Arguments[0])
	y := t.expr(n.Arguments[1])
	k := t.fn.tempName("modulus")
	t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(k, t.expr(n.Arguments[2])))
	kName := func() moveast.Expr { return moveast.NameOf(k) }

	op := "+"
	if kind == builtins.FnMulmod {
		op = "*"
		t.report(errors.WrappingMultiply(n.Pos))
	}
	reduced := moveast.Bin(op,
		moveast.Bin("%", x, kName()),
		moveast.Bin("%", y, kName()))
	return moveast.Bin("%", reduced, kName())
}

// structLiteral builds a struct value from a constructor-shaped call.
// Named-argument calls map by name; positional calls map in field order.
func (t *Transformer) structLiteral(def *ir.StructDef, n *solast.FunctionCall) moveast.Expr {
	lit := &moveast.StructLit{Name: def.Name}
	if len(n.Names) == len(n.Arguments) && len(n.Names) > 0 {
		byName := map[string]solast.Expression{}
		for i, name := range n.Names {
			byName[name] = n.Arguments[i]
		}
		for _, field := range def.Fields {
			value, ok := byName[field.Name]
			if !ok {
				m, _ := t.mapper.Map(field.Type)
				lit.Fields = append(lit.Fields, moveast.FieldInit{
					Name: snakeName(field.Name), Value: t.zeroValue(m)})
				continue
			}
			lit.Fields = append(lit.Fields, moveast.FieldInit{
				Name: snakeName(field.Name), Value: t.expr(value)})
		}
		return lit
	}
	for i, field := range def.Fields {
		var value moveast.Expr
		if i < len(n.Arguments) {
			value = t.expr(n.Arguments[i])
		} else {
			m, _ := t.mapper.Map(field.Type)
			value = t.zeroValue(m)
		}
		lit.Fields = append(lit.Fields, moveast.FieldInit{Name: snakeName(field.Name), Value: value})
	}
	return lit
}

// localCall lowers a call to another function of this module, threading
// the authority and storage-reference parameters the callee's signature
// gained during planning.
func (t *Transformer) localCall(name string, args []solast.Expression, pos solast.Position) moveast.Expr {
	target, finalName, ok := t.callTarget(name, len(args))
	if !ok {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("call to unknown function '%s'", name), pos))
		return placeholder(name)
	}
	if t.ambiguous[functionKey(name, len(args))] {
		t.report(errors.OverloadSkipped(name, len(args), pos))
	}

	info := t.registry.infoOf(target)
	out := &moveast.Call{Name: finalName}

	if info != nil && !info.public {
		switch info.need {
		case needCallerCapability:
			if t.fn != nil && t.fn.signerName != "" {
				out.Args = append(out.Args, moveast.NameOf(t.fn.signerName))
			} else {
				t.report(errors.UnsupportedExpression(
					fmt.Sprintf("call to '%s' needs a signer that is not in scope", name), pos))
			}
		case needCallerAddress:
			if addr, ok := t.callerAddr(); ok {
				out.Args = append(out.Args, addr)
			} else {
				t.report(errors.EnvAccessorUnavailable(name,
					"the callee needs the caller address, which is not reachable here", pos))
				out.Args = append(out.Args, &moveast.AddressLit{Value: "0x0"})
			}
		}
	} else if info != nil && info.public && info.need == needCallerCapability {
		// public callees re-check authority themselves; pass the signer through
		if t.fn != nil && t.fn.signerName != "" {
			out.Args = append(out.Args, moveast.NameOf(t.fn.signerName))
		}
	}

	for _, a := range args {
		out.Args = append(out.Args, t.expr(a))
	}

	if info != nil && !info.public {
		for _, g := range info.orderedGroups(t.plan) {
			binding, bound := "", false
			if t.fn != nil {
				binding, bound = t.fn.bindings[g.Name], t.fn.bindings[g.Name] != ""
			}
			if bound {
				out.Args = append(out.Args, moveast.NameOf(binding))
			} else {
				out.Args = append(out.Args, t.borrowGroupInline(g))
			}
		}
	}

	if info != nil && info.public && info.touches() && t.fn != nil && len(t.fn.bindings) > 0 {
		t.report(errors.NestedAcquire(name, pos))
	}
	return out
}

// lowerMemberCall dispatches obj.fn(...) shapes: address members, library
// calls, using-for method sugar, abi helpers, and external contracts.
func (t *Transformer) lowerMemberCall(callee *solast.MemberAccess, n *solast.FunctionCall) moveast.Expr {
	if base, ok := callee.Expression.(*solast.Identifier); ok {
		switch base.Name {
		case "abi":
			return t.lowerAbi(callee.MemberName, n)
		case "string", "bytes":
			if callee.MemberName == "concat" {
				return t.lowerConcat(base.Name, n)
			}
		case "super":
			return t.lowerSuperCall(callee.MemberName, n)
		case "msg", "block", "tx":
			t.report(errors.UnsupportedExpression(
				fmt.Sprintf("call on %s.%s", base.Name, callee.MemberName), n.Pos))
			return placeholder(callee.MemberName)
		}
		if lib := t.decls.library(base.Name); lib != nil {
			return t.libraryCall(base.Name, callee.MemberName, n)
		}
	}

	if kind := builtins.LookupAddressMember(callee.MemberName); kind != builtins.MemberUnknown {
		if m := t.typeOf(callee.Expression); m == nil || isAddress(m) || m.IsContract {
			return t.lowerAddressCall(kind, callee, n, nil)
		}
	}

	// using-for method sugar: value.libFn(args)
	if recv := t.typeOf(callee.Expression); recv != nil {
		for _, lib := range t.attachedLibraries(recv) {
			target := t.decls.library(lib)
			if target != nil && t.decls.libraryFunction(lib, callee.MemberName) {
				call := t.libraryCall(lib, callee.MemberName, nil)
				if mc, ok := call.(*moveast.Call); ok {
					mc.Args = append([]moveast.Expr{t.expr(callee.Expression)}, t.exprList(n.Arguments)...)
					return mc
				}
			}
		}
		if recv.IsContract {
			return t.externalCall(recv, callee, n)
		}
	}

	t.report(errors.UnsupportedExpression(
		fmt.Sprintf("method call '%s'", callee.MemberName), n.Pos))
	return placeholder(callee.MemberName)
}

// lowerSuperCall resolves super.f to the merged implementation. Inside the
// override itself that would self-recurse, which has no flat equivalent.
func (t *Transformer) lowerSuperCall(name string, n *solast.FunctionCall) moveast.Expr {
	target, _, ok := t.callTarget(name, len(n.Arguments))
	if ok && t.fn != nil && t.fn.fn == target {
		t.report(errors.UnsupportedExpression(
			fmt.Sprintf("super.%s from inside its own override", name), n.Pos))
		return placeholder("super")
	}
	return t.localCall(name, n.Arguments, n.Pos)
}

// libraryCall emits a sibling-module call. When n is nil the caller fills
// the arguments in, as using-for dispatch does.
func (t *Transformer) libraryCall(lib, fn string, n *solast.FunctionCall) moveast.Expr {
	t.siblingUses[snakeName(lib)] = true
	call := &moveast.Call{Module: snakeName(lib), Name: snakeName(fn)}
	if n != nil {
		call.Args = t.exprList(n.Arguments)
	}
	return call
}

// externalCall maps a call on a contract-typed value to a static sibling
// module call. Module identity is fixed at publish time, so the address
// value carried by the expression is dropped.
func (t *Transformer) externalCall(recv *typemap.Mapped, callee *solast.MemberAccess, n *solast.FunctionCall) moveast.Expr {
	name := t.declaredContractName(callee.Expression)
	if name == "" || t.decls.KindOfName(name) == typemap.NameUnknown {
		t.report(errors.UnsupportedExpression(
			fmt.Sprintf("external call '%s' on an unknown contract", callee.MemberName), n.Pos))
		return placeholder(callee.MemberName)
	}
	t.report(errors.BuiltinApproximated("external call",
		"module calls are static on Aptos; the target address value is ignored", n.Pos))
	t.siblingUses[snakeName(name)] = true
	return &moveast.Call{
		Module: snakeName(name),
		Name:   snakeName(callee.MemberName),
		Args:   t.exprList(n.Arguments),
	}
}

// lowerAddressCall maps transfer/send/call/staticcall/delegatecall on an
// address. Transfers become explicit coin moves; the raw call forms keep
// only their value transfer and report a stubbed success.
func (t *Transformer) lowerAddressCall(kind builtins.MemberKind, callee *solast.MemberAccess, n *solast.FunctionCall, value solast.Expression) moveast.Expr {
	to := t.expr(callee.Expression)
	switch kind {
	case builtins.MemberTransfer, builtins.MemberSend:
		if len(n.Arguments) == 1 {
			t.coinTransfer(to, t.expr(n.Arguments[0]), n.Pos)
		}
		if kind == builtins.MemberSend {
			t.report(errors.LowLevelCallStubbed("send", n.Pos))
			return moveast.BoolOf(true)
		}
		return moveast.IntOf(0)
	case builtins.MemberCall:
		if value != nil {
			t.coinTransfer(to, t.expr(value), n.Pos)
		}
		t.report(errors.LowLevelCallStubbed("call", n.Pos))
		return &moveast.Tuple{Elems: []moveast.Expr{moveast.BoolOf(true), &moveast.ByteStringLit{Hex: true}}}
	case builtins.MemberStaticcall:
		t.report(errors.LowLevelCallStubbed("staticcall", n.Pos))
		return &moveast.Tuple{Elems: []moveast.Expr{moveast.BoolOf(true), &moveast.ByteStringLit{Hex: true}}}
	case builtins.MemberDelegatecall:
		t.report(errors.Delegatecall("delegatecall", n.Pos))
		return &moveast.Tuple{Elems: []moveast.Expr{moveast.BoolOf(false), &moveast.ByteStringLit{Hex: true}}}
	}
	t.report(errors.UnsupportedExpression(callee.MemberName, n.Pos))
	return placeholder(callee.MemberName)
}

// coinTransfer hoists an explicit AptosCoin transfer for the amount. The
// source amount is a wei-scaled uint256; the cast narrows it to octas.
func (t *Transformer) coinTransfer(to, amount moveast.Expr, pos solast.Position) {
	if t.fn == nil || t.fn.signerName == "" {
		t.report(errors.EnvAccessorUnavailable("value transfer",
			"a coin transfer needs the caller signer, which is not in scope", pos))
		return
	}
	t.report(errors.EnvAccessorApproximated("value transfer",
		"amounts are AptosCoin octas, not wei", pos))
	if _, ok := amount.(*moveast.IntLit); !ok {
		amount = moveast.CastTo(amount, moveast.U64())
	}
	t.fn.hoisted = append(t.fn.hoisted, moveast.StmtOf(
		t.modT("coin", "transfer", []moveast.Type{aptosCoinType()},
			moveast.NameOf(t.fn.signerName), to, amount)))
}

// lowerOptionCall unwraps to.call{value: v}(...) shapes, forwarding the
// value option to the address-call lowering.
func (t *Transformer) lowerOptionCall(callee *solast.NameValueExpression, n *solast.FunctionCall) moveast.Expr {
	member, ok := callee.Expression.(*solast.MemberAccess)
	if !ok {
		t.report(errors.UnsupportedExpression("call options", n.Pos))
		return placeholder("call options")
	}
	var value solast.Expression
	for i, name := range callee.Names {
		if name == "value" && i < len(callee.Values) {
			value = callee.Values[i]
		}
	}
	kind := builtins.LookupAddressMember(member.MemberName)
	if kind == builtins.MemberUnknown {
		t.report(errors.UnsupportedExpression(
			fmt.Sprintf("call options on '%s'", member.MemberName), n.Pos))
		return placeholder(member.MemberName)
	}
	return t.lowerAddressCall(kind, member, n, value)
}

// lowerAbi maps the abi.* helpers. Encoding is BCS concatenation, which is
// stable but not ABI compatible; decode has no general inverse.
func (t *Transformer) lowerAbi(member string, n *solast.FunctionCall) moveast.Expr {
	switch member {
	case "encode", "encodePacked":
		t.report(errors.HashApproximated("abi."+member, n.Pos))
		return t.packBytes(n.Arguments)
	case "encodeWithSelector", "encodeWithSignature", "encodeCall":
		t.report(errors.UnsupportedExpression("abi."+member, n.Pos))
		return &moveast.ByteStringLit{Hex: true}
	case "decode":
		t.report(errors.UnsupportedExpression("abi.decode", n.Pos))
		return placeholder("abi.decode")
	}
	t.report(errors.UnsupportedExpression("abi."+member, n.Pos))
	return placeholder("abi." + member)
}

// lowerConcat maps string.concat and bytes.concat onto an accumulating
// buffer hoisted above the consuming statement.
func (t *Transformer) lowerConcat(base string, n *solast.FunctionCall) moveast.Expr {
	if base == "string" && t.opts.StringRepr == config.StringUTF8 {
		buf := t.fn.tempName("joined")
		t.fn.hoisted = append(t.fn.hoisted,
			moveast.LetOf(buf, t.mod("string", "utf8", &moveast.ByteStringLit{})))
		for _, a := range n.Arguments {
			t.fn.hoisted = append(t.fn.hoisted, moveast.StmtOf(
				t.mod("string", "append", moveast.BorrowMutOf(moveast.NameOf(buf)), t.expr(a))))
		}
		return moveast.NameOf(buf)
	}
	buf := t.fn.tempName("joined")
	t.fn.hoisted = append(t.fn.hoisted,
		moveast.LetOf(buf, t.modT("vector", "empty", []moveast.Type{moveast.U8()})))
	for _, a := range n.Arguments {
		t.fn.hoisted = append(t.fn.hoisted, moveast.StmtOf(
			t.mod("vector", "append", moveast.BorrowMutOf(moveast.NameOf(buf)), t.expr(a))))
	}
	return moveast.NameOf(buf)
}

// ---- operators ----

func (t *Transformer) lowerBinary(n *solast.BinaryOperation) moveast.Expr {
	switch n.Operator {
	case "&&", "||":
		return moveast.Bin(n.Operator, t.expr(n.Left), t.expr(n.Right))
	case "==", "!=", "<", "<=", ">", ">=":
		return moveast.Bin(n.Operator, t.expr(n.Left), t.expr(n.Right))
	case "**":
		return t.lowerPow(n)
	case "<<", ">>":
		left := t.expr(n.Left)
		right := t.expr(n.Right)
		if _, ok := right.(*moveast.IntLit); !ok {
			right = moveast.CastTo(right, moveast.U8())
		}
		return t.maskedResult(moveast.Bin(n.Operator, left, right), n)
	case "+", "-", "*":
		if t.fn != nil && t.fn.inUnchecked && t.opts.OverflowPolicy == config.OverflowWrapping {
			return t.wrappingOp(n)
		}
		return t.maskedResult(moveast.Bin(n.Operator, t.expr(n.Left), t.expr(n.Right)), n)
	case "/", "%", "&", "|", "^":
		return moveast.Bin(n.Operator, t.expr(n.Left), t.expr(n.Right))
	}
	t.report(errors.UnsupportedExpression(fmt.Sprintf("operator %s", n.Operator), n.Pos))
	return placeholder(n.Operator)
}

// maskedResult truncates arithmetic on off-ladder widths back to the
// declared width; on-ladder widths abort natively and need no mask.
func (t *Transformer) maskedResult(e moveast.Expr, n *solast.BinaryOperation) moveast.Expr {
	m := t.typeOf(n.Left)
	if m == nil || m.TruncateBits == 0 {
		m = t.typeOf(n.Right)
	}
	if m == nil || m.TruncateBits == 0 {
		return e
	}
	if n.Operator == ">>" {
		return e
	}
	return truncate(e, m)
}

// wrappingOp lowers unchecked-block arithmetic through the synthesized
// wrapping helpers of the operand width.
func (t *Transformer) wrappingOp(n *solast.BinaryOperation) moveast.Expr {
	width := t.operandWidth(n)
	var op string
	switch n.Operator {
	case "+":
		op = "add"
	case "-":
		op = "sub"
	case "*":
		op = "mul"
	}
	if op == "mul" && width > 128 {
		// no wider carrier exists to wrap through
		t.report(errors.WrappingMultiply(n.Pos))
		return moveast.Bin("*", t.expr(n.Left), t.expr(n.Right))
	}
	helper := fmt.Sprintf("wrapping_%s_u%d", op, width)
	t.wrapHelpers[helper] = true
	return moveast.CallFn(helper, t.expr(n.Left), t.expr(n.Right))
}

// operandWidth picks the carrier width for arithmetic from whichever side
// has a declared type, widening to u256 when neither does.
func (t *Transformer) operandWidth(n *solast.BinaryOperation) int {
	for _, side := range []solast.Expression{n.Left, n.Right} {
		if m := t.typeOf(side); m != nil {
			if w := moveBits(m.Move); w != 0 {
				return w
			}
		}
	}
	return 256
}

// moveBits reads the carrier width out of an emitted integer type.
func moveBits(ty moveast.Type) int {
	tn, ok := ty.(*moveast.TypeName)
	if !ok || tn.Module != "" {
		return 0
	}
	switch tn.Name {
	case "u8":
		return 8
	case "u16":
		return 16
	case "u32":
		return 32
	case "u64":
		return 64
	case "u128":
		return 128
	case "u256":
		return 256
	}
	return 0
}

// lowerPow maps ** onto the framework pow of the operand width. The
// framework tops out at 128 bits; wider bases compute in 128 and widen.
func (t *Transformer) lowerPow(n *solast.BinaryOperation) moveast.Expr {
	if value, ok := t.foldExpr(n); ok && value.isInt() && value.num.Sign() >= 0 {
		return intLiteral(value.num, 0)
	}
	width := t.operandWidth(n)
	left := t.expr(n.Left)
	right := t.expr(n.Right)
	switch {
	case width <= 64:
		return t.mod("math64", "pow", t.asWidth(left, 64), t.asWidth(right, 64))
	case width <= 128:
		return t.mod("math128", "pow", t.asWidth(left, 128), t.asWidth(right, 128))
	}
	t.report(errors.BuiltinApproximated("exponentiation",
		"computed in 128 bits and widened; bases past u128 abort", n.Pos))
	call := t.mod("math128", "pow", t.asWidth(left, 128), t.asWidth(right, 128))
	return moveast.CastTo(call, moveast.U256())
}

// asWidth coerces an operand to the named carrier width, leaving plain
// literals to infer it.
func (t *Transformer) asWidth(e moveast.Expr, width int) moveast.Expr {
	if lit, ok := e.(*moveast.IntLit); ok && lit.Suffix == "" {
		return e
	}
	if inner, ok := e.(*moveast.Cast); ok {
		e = inner.Expr
	}
	return moveast.CastTo(e, moveast.UnsignedInt(width))
}

func (t *Transformer) lowerUnary(n *solast.UnaryOperation) moveast.Expr {
	switch n.Operator {
	case "!":
		return moveast.Un("!", t.expr(n.SubExpression))
	case "-":
		if value, ok := t.foldExpr(n.SubExpression); ok && value.isInt() {
			neg := new(big.Int).Neg(value.num)
			width := 256
			if m := t.typeOf(n.SubExpression); m != nil {
				if w := declaredWidth(m); w != 0 {
					width = w
				}
			}
			t.report(errors.NewTransformWarning(errors.WarningSignedType,
				"negative value wrapped to its two's complement bit pattern", n.Pos).Build())
			return intLiteral(twosComplement(neg, width), 0)
		}
		t.report(errors.NewTransformWarning(errors.WarningSignedType,
			"unary minus lowered as a subtraction from zero, which aborts below zero", n.Pos).Build())
		return moveast.Bin("-", moveast.IntOf(0), t.expr(n.SubExpression))
	case "~":
		width := 256
		if m := t.typeOf(n.SubExpression); m != nil {
			if w := declaredWidth(m); w != 0 {
				width = w
			}
		}
		return moveast.Bin("^", t.expr(n.SubExpression), moveast.Int(typemap.MaskLiteral(width)))
	case "++", "--":
		return t.lowerIncDec(n)
	case "delete":
		t.report(errors.UnsupportedExpression("delete in expression position", n.Pos))
		return placeholder("delete")
	}
	t.report(errors.UnsupportedExpression(fmt.Sprintf("operator %s", n.Operator), n.Pos))
	return placeholder(n.Operator)
}

// lowerIncDec handles ++ and -- in value position by hoisting the store.
// Prefix yields the updated value, postfix the saved one.
func (t *Transformer) lowerIncDec(n *solast.UnaryOperation) moveast.Expr {
	op := "+"
	if n.Operator == "--" {
		op = "-"
	}
	id, ok := n.SubExpression.(*solast.Identifier)
	if !ok {
		// non-trivial targets only appear in statement position, which
		// stmt lowering handles before reaching here
		t.report(errors.UnsupportedExpression(n.Operator+" on a non-identifier target", n.Pos))
		return placeholder(n.Operator)
	}
	if n.IsPrefix {
		update := t.compoundStore(id, op, moveast.IntOf(1), n.Pos)
		t.fn.hoisted = append(t.fn.hoisted, update...)
		return t.expr(id)
	}
	saved := t.fn.tempName("prior")
	t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(saved, t.expr(id)))
	update := t.compoundStore(id, op, moveast.IntOf(1), n.Pos)
	t.fn.hoisted = append(t.fn.hoisted, update...)
	return moveast.NameOf(saved)
}

func (t *Transformer) lowerTuple(n *solast.TupleExpression) moveast.Expr {
	if n.IsArray {
		lit := &moveast.VectorLit{}
		for _, c := range n.Components {
			if c != nil {
				lit.Elems = append(lit.Elems, t.expr(c))
			}
		}
		return lit
	}
	var parts []moveast.Expr
	for _, c := range n.Components {
		if c != nil {
			parts = append(parts, t.expr(c))
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return &moveast.Tuple{Elems: parts}
}
