package transform

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// yulBuiltins is the supported vocabulary, kept for suggestion output when
// an unknown name shows up.
var yulBuiltins = []string{
	"add", "sub", "mul", "div", "mod", "sdiv", "smod",
	"lt", "gt", "slt", "sgt", "eq", "iszero",
	"and", "or", "xor", "not", "shl", "shr", "sar", "byte",
	"addmod", "mulmod", "exp",
	"caller", "origin", "address", "timestamp", "number", "chainid",
	"balance", "selfbalance", "callvalue", "gas",
	"pop", "stop", "revert", "invalid",
}

// asmValue pairs a lowered expression with whether it is boolean-shaped.
// Yul has no booleans, only 1/0 words; comparisons lower to native bools
// and convert back only where a word is required.
type asmValue struct {
	expr   moveast.Expr
	isBool bool
}

func asmWord(e moveast.Expr) asmValue { return asmValue{expr: e} }
func asmFlag(e moveast.Expr) asmValue { return asmValue{expr: e, isBool: true} }

// word converts a value to its 1/0 word form.
func (v asmValue) word() moveast.Expr {
	if !v.isBool {
		return v.expr
	}
	return &moveast.IfExpr{Cond: v.expr, Then: moveast.IntOf(1), Else: moveast.IntOf(0)}
}

// flag converts a value to its boolean form.
func (v asmValue) flag() moveast.Expr {
	if v.isBool {
		return v.expr
	}
	if lit, ok := v.expr.(*moveast.IntLit); ok {
		return moveast.BoolOf(lit.Value != "0")
	}
	return moveast.Bin("!=", v.expr, moveast.IntOf(0))
}

// lowerAssembly lowers an inline assembly block. The supported subset is
// value plumbing: locals, arithmetic, comparisons, bit operations, control
// flow, and the environment reads that have chain-side equivalents. The
// memory and calldata model has no counterpart and is rejected per opcode.
func (t *Transformer) lowerAssembly(n *solast.InlineAssemblyStatement) []moveast.Stmt {
	if n.Body == nil {
		return nil
	}
	return t.asmBlock(n.Body)
}

func (t *Transformer) asmBlock(b *solast.AssemblyBlock) []moveast.Stmt {
	if b == nil {
		return nil
	}
	var out []moveast.Stmt
	for _, op := range b.Operations {
		out = append(out, t.asmStmt(op)...)
	}
	return out
}

func (t *Transformer) asmStmt(node solast.AsmNode) []moveast.Stmt {
	switch n := node.(type) {
	case *solast.AssemblyBlock:
		inner := t.asmBlock(n)
		if len(inner) == 0 {
			return nil
		}
		return []moveast.Stmt{&moveast.Block{Stmts: inner}}
	case *solast.AssemblyLocalDefinition:
		return t.asmLet(n)
	case *solast.AssemblyAssignment:
		return t.asmAssign(n)
	case *solast.AssemblyIf:
		return t.asmIf(n)
	case *solast.AssemblyFor:
		return t.asmFor(n)
	case *solast.AssemblySwitch:
		return t.asmSwitch(n)
	case *solast.AssemblyCall:
		return t.asmCallStmt(n)
	case *solast.AsmLiteral:
		// a bare literal carries no effect
		return nil
	case *solast.UnsupportedAssembly:
		t.report(errors.AssemblyConstruct(n.TypeTag, n.Pos))
		return nil
	}
	t.report(errors.AssemblyConstruct(node.NodeType(), node.NodePos()))
	return nil
}

// asmLet declares Yul locals. Word locals carry u256; a multi-name form
// without a value zero-fills each slot, with a value it would need a
// multi-return Yul function, which is outside the subset.
func (t *Transformer) asmLet(n *solast.AssemblyLocalDefinition) []moveast.Stmt {
	if n.Expression == nil {
		var out []moveast.Stmt
		for _, name := range n.Names {
			local := t.fn.declareSource(name, mappedOf(moveast.U256()))
			out = append(out, moveast.LetTyped(local, moveast.U256(), moveast.IntOf(0)))
		}
		return out
	}
	if len(n.Names) != 1 {
		t.report(errors.AssemblyConstruct("multi-value declaration", n.Pos))
		return nil
	}

	value := t.asmVal(n.Expression)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	m := mappedOf(moveast.U256())
	expr := value.word()
	if _, ok := expr.(*moveast.ByteStringLit); ok {
		m = mappedBytes()
	}
	local := t.fn.declareSource(n.Names[0], m)
	return append(out, moveast.LetOf(local, expr))
}

// asmAssign stores into existing locals. Storage slots have no direct
// spelling in the subset, so unresolved names are rejected.
func (t *Transformer) asmAssign(n *solast.AssemblyAssignment) []moveast.Stmt {
	if len(n.Names) != 1 {
		t.report(errors.AssemblyConstruct("multi-value assignment", n.Pos))
		return nil
	}
	local, ok := t.fn.localName(n.Names[0])
	if !ok {
		t.report(errors.UnknownAssemblyOp(n.Names[0], n.Pos, yulBuiltins))
		return nil
	}
	value := t.asmVal(n.Expression)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	if m := t.fn.locals[local]; m != nil && isBool(m) {
		return append(out, moveast.AssignTo(moveast.NameOf(local), value.flag()))
	}
	return append(out, moveast.AssignTo(moveast.NameOf(local), value.word()))
}

func (t *Transformer) asmIf(n *solast.AssemblyIf) []moveast.Stmt {
	cond := t.asmVal(n.Condition)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	return append(out, &moveast.If{
		Cond: cond.flag(),
		Then: moveast.Seq(t.asmBlock(n.Body)...),
	})
}

// asmFor lowers a Yul loop. Continue re-runs the post block first, matching
// source semantics where continue jumps to post.
func (t *Transformer) asmFor(n *solast.AssemblyFor) []moveast.Stmt {
	out := t.asmBlock(n.Pre)

	post := t.asmBlock(n.Post)
	t.fn.loopIncrements = append(t.fn.loopIncrements, post)
	defer t.popLoop()

	cond := t.asmVal(n.Condition)
	var pre []moveast.Stmt
	t.flushHoisted(&pre)
	body := moveast.Seq(t.asmBlock(n.Body)...)
	body.Append(post...)

	if len(pre) == 0 {
		return append(out, &moveast.While{Cond: cond.flag(), Body: body})
	}
	rotated := moveast.Seq(pre...)
	rotated.Append(&moveast.If{
		Cond: moveast.Un("!", cond.flag()),
		Then: moveast.Seq(&moveast.Break{}),
	})
	rotated.Append(body.Stmts...)
	return append(out, &moveast.While{Cond: moveast.BoolOf(true), Body: rotated})
}

// asmSwitch lowers switch to an if/else chain over a hoisted scrutinee.
func (t *Transformer) asmSwitch(n *solast.AssemblySwitch) []moveast.Stmt {
	subject := t.asmVal(n.Expression)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	name := t.fn.tempName("subject")
	out = append(out, moveast.LetOf(name, subject.word()))

	var root moveast.Stmt
	var last *moveast.If
	var defaultArm *solast.AssemblyCase
	for _, arm := range n.Cases {
		if arm.Value == nil {
			defaultArm = arm
			continue
		}
		branch := &moveast.If{
			Cond: moveast.Bin("==", moveast.NameOf(name), t.asmLiteral(arm.Value)),
			Then: moveast.Seq(t.asmBlock(arm.Block)...),
		}
		if root == nil {
			root = branch
		} else {
			last.Else = branch
		}
		last = branch
	}
	if defaultArm != nil {
		dflt := moveast.Seq(t.asmBlock(defaultArm.Block)...)
		if root == nil {
			return append(out, dflt.Stmts...)
		}
		last.Else = dflt
	}
	if root == nil {
		return out
	}
	return append(out, root)
}

// asmCallStmt handles calls in statement position: loop control, halting
// opcodes, and value calls evaluated for effect.
func (t *Transformer) asmCallStmt(n *solast.AssemblyCall) []moveast.Stmt {
	switch n.FunctionName {
	case "break":
		return []moveast.Stmt{&moveast.Break{}}
	case "continue":
		return t.lowerContinue()
	case "leave":
		t.report(errors.AssemblyConstruct("leave", n.Pos))
		return nil
	case "pop":
		if len(n.Arguments) != 1 {
			return nil
		}
		value := t.asmVal(n.Arguments[0])
		var out []moveast.Stmt
		t.flushHoisted(&out)
		if pureValue(value.expr) {
			return out
		}
		return append(out, moveast.StmtOf(value.expr))
	case "stop":
		return t.asmHalt()
	case "return":
		// return(p, s) hands back memory, which does not exist here; the
		// control-flow effect is kept
		t.report(errors.AssemblyConstruct("return with a memory payload", n.Pos))
		return t.asmHalt()
	case "revert", "invalid":
		return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(t.catalog.Classify(""))}}
	case "selfdestruct":
		t.report(errors.SelfdestructStubbed(n.Pos))
		return nil
	}

	value := t.asmVal(n)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	if pureValue(value.expr) {
		return out
	}
	return append(out, moveast.StmtOf(value.expr))
}

// asmHalt ends execution normally from inside assembly, replaying pending
// modifier posts the way an early return does.
func (t *Transformer) asmHalt() []moveast.Stmt {
	out := append([]moveast.Stmt{}, t.fn.pendingPosts...)
	var value moveast.Expr
	if len(t.fn.namedReturns) > 0 {
		value = t.namedReturnValue()
	} else if len(t.fn.returnTypes) > 0 {
		value = t.zeroReturns()
	}
	return append(out, &moveast.Return{Value: value})
}

func (t *Transformer) zeroReturns() moveast.Expr {
	if len(t.fn.returnTypes) == 1 {
		return t.zeroValue(t.fn.returnTypes[0])
	}
	tuple := &moveast.Tuple{}
	for _, m := range t.fn.returnTypes {
		tuple.Elems = append(tuple.Elems, t.zeroValue(m))
	}
	return tuple
}

// asmVal lowers a Yul node in value position.
func (t *Transformer) asmVal(node solast.AsmNode) asmValue {
	switch n := node.(type) {
	case nil:
		return asmWord(moveast.IntOf(0))
	case *solast.AsmLiteral:
		return asmWord(t.asmLiteral(n))
	case *solast.AssemblyCall:
		if n.IsIdentifier() {
			return t.asmName(n)
		}
		return t.asmCall(n)
	}
	t.report(errors.AssemblyConstruct(node.NodeType()+" in value position", node.NodePos()))
	return asmWord(placeholder("assembly value"))
}

func (t *Transformer) asmLiteral(lit *solast.AsmLiteral) moveast.Expr {
	switch lit.TypeTag {
	case "StringLiteral":
		return &moveast.ByteStringLit{Value: lit.Value}
	default:
		if value, ok := parseNumberText(lit.Value); ok {
			return intLiteral(value, 0)
		}
		t.report(errors.AssemblyConstruct(fmt.Sprintf("literal '%s'", lit.Value), lit.Pos))
		return moveast.IntOf(0)
	}
}

// asmName resolves a bare Yul name: nullary environment builtins first,
// then function locals.
func (t *Transformer) asmName(n *solast.AssemblyCall) asmValue {
	switch n.FunctionName {
	case "caller":
		return asmWord(t.asmCaller("caller", "", n.Pos))
	case "origin":
		return asmWord(t.asmCaller("origin",
			"no transaction originator is distinguishable; the direct caller is used", n.Pos))
	case "address":
		return asmWord(t.selfAddr())
	case "timestamp":
		return asmWord(moveast.CastTo(t.mod("timestamp", "now_seconds"), moveast.U256()))
	case "number":
		return asmWord(moveast.CastTo(t.mod("block", "get_current_block_height"), moveast.U256()))
	case "chainid":
		return asmWord(moveast.CastTo(t.mod("chain_id", "get"), moveast.U256()))
	case "selfbalance":
		t.report(errors.EnvAccessorApproximated("selfbalance",
			"reads the AptosCoin balance in octas, not wei", n.Pos))
		call := t.modT("coin", "balance", []moveast.Type{aptosCoinType()}, t.selfAddr())
		return asmWord(moveast.CastTo(call, moveast.U256()))
	case "callvalue":
		t.report(errors.EnvAccessorUnavailable("callvalue",
			"coin transfers are explicit on Aptos; the attached value reads as 0", n.Pos))
		return asmWord(moveast.IntOf(0))
	case "gas", "gasprice", "gaslimit", "difficulty", "prevrandao", "coinbase", "basefee":
		t.report(errors.EnvAccessorUnavailable(n.FunctionName, "", n.Pos))
		return asmWord(moveast.IntOf(0))
	}

	if local, ok := t.fn.localName(n.FunctionName); ok {
		m := t.fn.locals[local]
		return asmValue{expr: moveast.NameOf(local), isBool: m != nil && isBool(m)}
	}
	t.report(errors.UnknownAssemblyOp(n.FunctionName, n.Pos, yulBuiltins))
	return asmWord(placeholder(n.FunctionName))
}

func (t *Transformer) asmCaller(name, note string, pos solast.Position) moveast.Expr {
	if note != "" {
		t.report(errors.EnvAccessorApproximated(name, note, pos))
	}
	if addr, ok := t.callerAddr(); ok {
		return addr
	}
	t.report(errors.EnvAccessorUnavailable(name,
		"no caller identity is reachable in this function", pos))
	return &moveast.AddressLit{Value: "0x0"}
}

// asmCall lowers the builtin vocabulary. Yul words are 256-bit and
// arithmetic wraps, so the overflow policy decides between plain operators
// and the wrapping helpers exactly as it does for unchecked blocks.
func (t *Transformer) asmCall(n *solast.AssemblyCall) asmValue {
	args := make([]asmValue, len(n.Arguments))
	for i, arg := range n.Arguments {
		args[i] = t.asmVal(arg)
	}
	binary := func(i int) (asmValue, asmValue) {
		if len(args) < 2 {
			return asmWord(moveast.IntOf(0)), asmWord(moveast.IntOf(0))
		}
		return args[i], args[i+1]
	}

	switch n.FunctionName {
	case "add", "sub", "mul":
		x, y := binary(0)
		return asmWord(t.asmArith(n.FunctionName, x.word(), y.word(), n.Pos))
	case "div", "mod":
		x, y := binary(0)
		op := "/"
		if n.FunctionName == "mod" {
			op = "%"
		}
		return asmWord(moveast.Bin(op, x.word(), y.word()))
	case "sdiv", "smod":
		t.report(errors.SignedTypeApproximated(n.FunctionName, n.FunctionName[1:], n.Pos))
		x, y := binary(0)
		op := "/"
		if n.FunctionName == "smod" {
			op = "%"
		}
		return asmWord(moveast.Bin(op, x.word(), y.word()))
	case "lt", "gt", "eq":
		x, y := binary(0)
		op := map[string]string{"lt": "<", "gt": ">", "eq": "=="}[n.FunctionName]
		return asmFlag(moveast.Bin(op, x.word(), y.word()))
	case "slt", "sgt":
		t.report(errors.SignedTypeApproximated(n.FunctionName, n.FunctionName[1:], n.Pos))
		x, y := binary(0)
		op := "<"
		if n.FunctionName == "sgt" {
			op = ">"
		}
		return asmFlag(moveast.Bin(op, x.word(), y.word()))
	case "iszero":
		if len(args) != 1 {
			return asmFlag(moveast.BoolOf(false))
		}
		if args[0].isBool {
			return asmFlag(moveast.Un("!", args[0].expr))
		}
		return asmFlag(moveast.Bin("==", args[0].expr, moveast.IntOf(0)))
	case "and", "or", "xor":
		x, y := binary(0)
		if x.isBool && y.isBool {
			op := map[string]string{"and": "&&", "or": "||", "xor": "!="}[n.FunctionName]
			return asmFlag(moveast.Bin(op, x.expr, y.expr))
		}
		op := map[string]string{"and": "&", "or": "|", "xor": "^"}[n.FunctionName]
		return asmWord(moveast.Bin(op, x.word(), y.word()))
	case "not":
		if len(args) != 1 {
			return asmWord(moveast.IntOf(0))
		}
		return asmWord(moveast.Bin("^", args[0].word(), moveast.Int(typemap.MaskLiteral(256))))
	case "shl", "shr", "sar":
		// operand order is (shift, value)
		shift, value := binary(0)
		op := "<<"
		if n.FunctionName != "shl" {
			op = ">>"
		}
		if n.FunctionName == "sar" {
			t.report(errors.SignedTypeApproximated("sar", "shr", n.Pos))
		}
		return asmWord(moveast.Bin(op, value.word(), t.shiftAmount(shift.word())))
	case "byte":
		// byte(i, x) isolates byte i counted from the big end
		i, x := binary(0)
		offset := moveast.Bin("*", moveast.Bin("-", moveast.IntOf(31), i.word()), moveast.IntOf(8))
		shifted := moveast.Bin(">>", x.word(), moveast.CastTo(offset, moveast.U8()))
		return asmWord(moveast.Bin("&", shifted, moveast.Int("0xff")))
	case "addmod", "mulmod":
		return asmWord(t.asmModArith(n, args))
	case "exp":
		x, y := binary(0)
		t.report(errors.BuiltinApproximated("exp",
			"computed in 128 bits and widened; bases past u128 abort", n.Pos))
		call := t.mod("math128", "pow", t.asWidth(x.word(), 128), t.asWidth(y.word(), 128))
		return asmWord(moveast.CastTo(call, moveast.U256()))
	case "balance":
		if len(args) != 1 {
			return asmWord(moveast.IntOf(0))
		}
		t.report(errors.EnvAccessorApproximated("balance",
			"reads the AptosCoin balance in octas, not wei", n.Pos))
		call := t.modT("coin", "balance", []moveast.Type{aptosCoinType()}, args[0].expr)
		return asmWord(moveast.CastTo(call, moveast.U256()))
	case "blockhash":
		t.report(errors.EnvAccessorUnavailable("blockhash",
			"historical block hashes are not observable", n.Pos))
		return asmWord(moveast.IntOf(0))
	case "call", "staticcall", "callcode":
		t.report(errors.LowLevelCallStubbed(n.FunctionName, n.Pos))
		return asmWord(moveast.IntOf(1))
	case "delegatecall":
		t.report(errors.Delegatecall("delegatecall", n.Pos))
		return asmWord(moveast.IntOf(0))
	case "create", "create2":
		t.report(errors.ContractCreation(n.FunctionName, n.Pos))
		return asmWord(moveast.IntOf(0))
	case "keccak256", "sha3":
		// argument pair addresses linear memory, which has no counterpart
		t.report(errors.AssemblyConstruct(n.FunctionName+" over a memory range", n.Pos))
		return asmWord(placeholder(n.FunctionName))
	}

	t.report(errors.UnknownAssemblyOp(n.FunctionName, n.Pos, yulBuiltins))
	return asmWord(placeholder(n.FunctionName))
}

// asmArith applies the wrapping policy to Yul arithmetic at word width.
func (t *Transformer) asmArith(name string, x, y moveast.Expr, pos solast.Position) moveast.Expr {
	op := map[string]string{"add": "+", "sub": "-", "mul": "*"}[name]
	if t.opts.OverflowPolicy != config.OverflowWrapping {
		return moveast.Bin(op, x, y)
	}
	if name == "mul" {
		// no wider carrier exists to wrap through
		t.report(errors.WrappingMultiply(pos))
		return moveast.Bin("*", x, y)
	}
	helper := fmt.Sprintf("wrapping_%s_u256", name)
	t.wrapHelpers[helper] = true
	return moveast.CallFn(helper, x, y)
}

// asmModArith lowers addmod/mulmod with the modulus hoisted so its zero
// check stays single-evaluation.
func (t *Transformer) asmModArith(n *solast.AssemblyCall, args []asmValue) moveast.Expr {
	if len(args) != 3 {
		t.report(errors.AssemblyConstruct(n.FunctionName+" arity", n.Pos))
		return moveast.IntOf(0)
	}
	k := t.fn.tempName("modulus")
	t.fn.hoisted = append(t.fn.hoisted, moveast.LetOf(k, args[2].word()))
	kName := func() moveast.Expr { return moveast.NameOf(k) }

	op := "+"
	if n.FunctionName == "mulmod" {
		op = "*"
		t.report(errors.WrappingMultiply(n.Pos))
	}
	reduced := moveast.Bin(op,
		moveast.Bin("%", args[0].word(), kName()),
		moveast.Bin("%", args[1].word(), kName()))
	return moveast.Bin("%", reduced, kName())
}

// shiftAmount narrows a shift count to u8 as the shift operators require.
func (t *Transformer) shiftAmount(e moveast.Expr) moveast.Expr {
	if _, ok := e.(*moveast.IntLit); ok {
		return e
	}
	return moveast.CastTo(e, moveast.U8())
}
