package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func str(value string) *solast.StringLiteral {
	return &solast.StringLiteral{Value: value}
}

func index(base, idx solast.Expression) *solast.IndexAccess {
	return &solast.IndexAccess{Base: base, Index: idx}
}

func param(name, typ string) *ir.Param {
	return &ir.Param{Name: name, Type: uintType(typ)}
}

// countedFor builds for (uint256 i = lo; i <cmp> bound; <step>) { body }.
func countedFor(lo string, cmp string, bound solast.Expression, step solast.Statement, stmts ...solast.Statement) *solast.ForStatement {
	return &solast.ForStatement{
		InitExpression: &solast.VariableDeclarationStatement{
			Variables:    []*solast.VariableDeclaration{{Name: "i", TypeName: uintType("uint256")}},
			InitialValue: num(lo),
		},
		ConditionExpression: bin(cmp, ident("i"), bound),
		LoopExpression:      step,
		Body:                body(stmts...),
	}
}

func plusPlus(name string) solast.Statement {
	return &solast.ExpressionStatement{Expression: &solast.UnaryOperation{
		Operator: "++", SubExpression: ident(name),
	}}
}

func TestMapStoreUpserts(t *testing.T) {
	fn := pubFn("record", assign(index(ident("scores"), ident("who")), "=", ident("points")))
	fn.Params = []*ir.Param{param("who", "address"), param("points", "uint256")}
	c := contract("Board",
		[]*ir.StateVar{{Name: "scores", Type: mappingType("address", "uint256")}},
		fn,
	)

	res := transform(t, c)
	require.True(t, res.Success)

	record := findFn(res.Module, "record")
	require.NotNil(t, record)
	assert.Equal(t, []string{"State"}, record.Acquires)

	list := stmts(record)
	require.Len(t, list, 2)
	upsert := list[1].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "table", upsert.Module)
	assert.Equal(t, "upsert", upsert.Name)
	require.Len(t, upsert.Args, 3)

	place := upsert.Args[0].(*moveast.Borrow)
	assert.True(t, place.Mut)
	assert.Equal(t, "scores", place.Expr.(*moveast.FieldAccess).Field)
	assert.Equal(t, "who", upsert.Args[1].(*moveast.Name).Ident)
	assert.Equal(t, "points", upsert.Args[2].(*moveast.Name).Ident)
}

func TestMapCompoundBorrowsOnce(t *testing.T) {
	fn := pubFn("credit", assign(index(ident("balances"), ident("who")), "+=", ident("amount")))
	fn.Params = []*ir.Param{param("who", "address"), param("amount", "uint256")}
	c := contract("Bank",
		[]*ir.StateVar{{Name: "balances", Type: mappingType("address", "uint256")}},
		fn,
	)

	res := transform(t, c)
	require.True(t, res.Success)

	credit := findFn(res.Module, "credit")
	require.NotNil(t, credit)
	list := stmts(credit)
	require.Len(t, list, 3)

	// the slot is borrowed once, defaulting the fresh key
	slot := list[1].(*moveast.Let)
	assert.Equal(t, []string{"slot"}, slot.Names)
	borrow := slot.Value.(*moveast.Call)
	assert.Equal(t, "table", borrow.Module)
	assert.Equal(t, "borrow_mut_with_default", borrow.Name)
	require.Len(t, borrow.Args, 3)
	assert.Equal(t, "who", borrow.Args[1].(*moveast.Name).Ident)
	assert.Equal(t, "0", borrow.Args[2].(*moveast.IntLit).Value)

	store := list[2].(*moveast.Assign)
	assert.Equal(t, "slot", store.Target.(*moveast.Deref).Expr.(*moveast.Name).Ident)
	sum := store.Value.(*moveast.Binary)
	assert.Equal(t, "+", sum.Op)
	assert.Equal(t, "slot", sum.Left.(*moveast.Deref).Expr.(*moveast.Name).Ident)
	assert.Equal(t, "amount", sum.Right.(*moveast.Name).Ident)
}

func TestRequireClassifiesMessage(t *testing.T) {
	fn := pubFn("pay", callStmt("require",
		bin(">", ident("amount"), num("0")),
		str("amount is zero"),
	))
	fn.Params = []*ir.Param{param("amount", "uint256")}
	c := contract("Till", nil, fn)

	res := transform(t, c)
	require.True(t, res.Success)

	pay := findFn(res.Module, "pay")
	require.NotNil(t, pay)
	list := stmts(pay)
	require.Len(t, list, 1)

	check := list[0].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "assert!", check.Name)
	require.Len(t, check.Args, 2)
	cond := check.Args[0].(*moveast.Binary)
	assert.Equal(t, ">", cond.Op)
	assert.Equal(t, "E_ZERO_AMOUNT", check.Args[1].(*moveast.Name).Ident)

	code := findConst(res.Module, "E_ZERO_AMOUNT")
	require.NotNil(t, code, "a referenced standard error is emitted as a constant")
	assert.Equal(t, "9", code.Value.(*moveast.IntLit).Value)
	assert.Equal(t, "u64", code.Type.TypeString())
}

func TestRevertCustomErrorAborts(t *testing.T) {
	fn := pubFn("open", &solast.IfStatement{
		Condition: ident("sealed"),
		TrueBody:  &solast.RevertStatement{RevertCall: call("VaultLocked")},
	})
	c := contract("Vault",
		[]*ir.StateVar{{Name: "sealed", Type: uintType("bool")}},
		fn,
	)
	c.Errors = []*ir.ErrorDef{{Name: "VaultLocked"}}

	res := transform(t, c)
	require.True(t, res.Success)

	open := findFn(res.Module, "open")
	require.NotNil(t, open)
	list := stmts(open)
	require.Len(t, list, 2)

	guard := list[1].(*moveast.If)
	assert.Equal(t, "sealed", guard.Cond.(*moveast.FieldAccess).Field)
	require.Len(t, guard.Then.Stmts, 1)
	abort := guard.Then.Stmts[0].(*moveast.Abort)
	assert.Equal(t, "E_VAULT_LOCKED", abort.Code.(*moveast.Name).Ident)

	code := findConst(res.Module, "E_VAULT_LOCKED")
	require.NotNil(t, code)
	assert.Equal(t, "23", code.Value.(*moveast.IntLit).Value,
		"custom errors take codes past the standard block")
}

func TestDeleteMapEntryGuardsRemove(t *testing.T) {
	fn := pubFn("clear", &solast.ExpressionStatement{Expression: &solast.UnaryOperation{
		Operator:      "delete",
		SubExpression: index(ident("balances"), ident("who")),
		IsPrefix:      true,
	}})
	fn.Params = []*ir.Param{param("who", "address")}
	c := contract("Bank",
		[]*ir.StateVar{{Name: "balances", Type: mappingType("address", "uint256")}},
		fn,
	)

	res := transform(t, c)
	require.True(t, res.Success)

	clear := findFn(res.Module, "clear")
	require.NotNil(t, clear)
	list := stmts(clear)
	require.Len(t, list, 2)

	guard := list[1].(*moveast.If)
	probe := guard.Cond.(*moveast.Call)
	assert.Equal(t, "contains", probe.Name)
	assert.False(t, probe.Args[0].(*moveast.Borrow).Mut, "the probe borrows immutably")

	require.Len(t, guard.Then.Stmts, 1)
	remove := guard.Then.Stmts[0].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "remove", remove.Name)
	assert.True(t, remove.Args[0].(*moveast.Borrow).Mut)
	assert.Nil(t, guard.Else, "deleting an absent key is a no-op, not an abort")
}

func TestCountingForBecomesRange(t *testing.T) {
	fn := pubFn("tally", countedFor("0", "<", ident("n"), plusPlus("i"),
		assign(ident("total"), "+=", ident("i")),
	))
	fn.Params = []*ir.Param{param("n", "uint256")}
	c := contract("Sum", []*ir.StateVar{stateVar("total", "uint256")}, fn)

	res := transform(t, c)
	require.True(t, res.Success)

	tally := findFn(res.Module, "tally")
	require.NotNil(t, tally)
	list := stmts(tally)
	require.Len(t, list, 2)

	loop := list[1].(*moveast.For)
	assert.Equal(t, "i", loop.Var)
	assert.Equal(t, "0", loop.Range.Lo.(*moveast.IntLit).Value)
	assert.Equal(t, "n", loop.Range.Hi.(*moveast.Name).Ident)
	require.Len(t, loop.Body.Stmts, 1, "a range loop advances itself")

	step := loop.Body.Stmts[0].(*moveast.Assign)
	assert.Equal(t, "total", step.Target.(*moveast.FieldAccess).Field)
}

func TestInclusiveForBoundWidens(t *testing.T) {
	fn := pubFn("tally", countedFor("1", "<=", num("10"), plusPlus("i"),
		assign(ident("total"), "+=", ident("i")),
	))
	c := contract("Sum", []*ir.StateVar{stateVar("total", "uint256")}, fn)

	res := transform(t, c)
	require.True(t, res.Success)

	loop := stmts(findFn(res.Module, "tally"))[1].(*moveast.For)
	assert.Equal(t, "1", loop.Range.Lo.(*moveast.IntLit).Value)
	assert.Equal(t, "11", loop.Range.Hi.(*moveast.IntLit).Value,
		"a <= bound folds into the exclusive form")
}

func TestLoopIncrementReplaysOnContinue(t *testing.T) {
	// for (uint256 i = 1; i < n; i = i * 2) { if (i == 8) continue; total += 1; }
	step := assign(ident("i"), "=", bin("*", ident("i"), num("2")))
	fn := pubFn("compact", countedFor("1", "<", ident("n"), step,
		&solast.IfStatement{
			Condition: bin("==", ident("i"), num("8")),
			TrueBody:  &solast.ContinueStatement{},
		},
		assign(ident("total"), "+=", num("1")),
	))
	fn.Params = []*ir.Param{param("n", "uint256")}
	c := contract("Sum", []*ir.StateVar{stateVar("total", "uint256")}, fn)

	res := transform(t, c)
	require.True(t, res.Success)

	compact := findFn(res.Module, "compact")
	require.NotNil(t, compact)
	list := stmts(compact)
	require.Len(t, list, 3)

	decl := list[1].(*moveast.Let)
	assert.Equal(t, []string{"i"}, decl.Names)
	assert.Equal(t, "1", decl.Value.(*moveast.IntLit).Value)

	loop := list[2].(*moveast.While)
	cond := loop.Cond.(*moveast.Binary)
	assert.Equal(t, "<", cond.Op)

	inner := loop.Body.Stmts
	require.Len(t, inner, 3)

	// the increment trails the body
	tail := inner[2].(*moveast.Assign)
	assert.Equal(t, "i", tail.Target.(*moveast.Name).Ident)

	// and replays ahead of the continue, so skipping never stalls the loop
	skip := inner[0].(*moveast.If)
	require.Len(t, skip.Then.Stmts, 2)
	replay := skip.Then.Stmts[0].(*moveast.Assign)
	assert.Equal(t, "i", replay.Target.(*moveast.Name).Ident)
	_, isContinue := skip.Then.Stmts[1].(*moveast.Continue)
	assert.True(t, isContinue)
}

func TestDoWhileContinueReevaluatesCondition(t *testing.T) {
	// do { if (skip) continue; total += 1; } while (more);
	fn := pubFn("drain", &solast.DoWhileStatement{
		Condition: ident("more"),
		Body: body(
			&solast.IfStatement{
				Condition: ident("skip"),
				TrueBody:  &solast.ContinueStatement{},
			},
			assign(ident("total"), "+=", num("1")),
		),
	})
	c := contract("Queue", []*ir.StateVar{
		stateVar("total", "uint256"),
		{Name: "more", Type: uintType("bool")},
		{Name: "skip", Type: uintType("bool")},
	}, fn)

	res := transform(t, c)
	require.True(t, res.Success)

	drain := findFn(res.Module, "drain")
	require.NotNil(t, drain)
	list := stmts(drain)
	require.Len(t, list, 2)

	loop := list[1].(*moveast.Loop)
	inner := loop.Body.Stmts
	require.Len(t, inner, 3)

	exitCheck := func(s moveast.Stmt) {
		t.Helper()
		check := s.(*moveast.If)
		not := check.Cond.(*moveast.Unary)
		assert.Equal(t, "!", not.Op)
		assert.Equal(t, "more", not.Expr.(*moveast.FieldAccess).Field)
		require.Len(t, check.Then.Stmts, 1)
		_, isBreak := check.Then.Stmts[0].(*moveast.Break)
		assert.True(t, isBreak)
	}

	// continue jumps to the condition in source, so the exit check replays
	// ahead of the jump; a false condition leaves instead of looping again
	skip := inner[0].(*moveast.If)
	require.Len(t, skip.Then.Stmts, 2)
	exitCheck(skip.Then.Stmts[0])
	_, isContinue := skip.Then.Stmts[1].(*moveast.Continue)
	assert.True(t, isContinue)

	// the normal path checks at the loop tail
	exitCheck(inner[2])
}

func TestUncheckedAddWrapsUnderWrappingPolicy(t *testing.T) {
	opts := config.DefaultOptions()
	opts.OverflowPolicy = config.OverflowWrapping

	roll := pubFn("roll", &solast.UncheckedStatement{
		Block: body(assign(ident("nonce"), "+=", num("1"))),
	})
	bump := pubFn("bump", assign(ident("nonce"), "+=", num("1")))
	c := contract("Dice", []*ir.StateVar{stateVar("nonce", "uint64")}, roll, bump)

	res := NewTransformer(opts).Transform(c, nil)
	require.True(t, res.Success)

	fn := findFn(res.Module, "roll")
	require.NotNil(t, fn)
	list := stmts(fn)
	require.Len(t, list, 2)

	block := list[1].(*moveast.Block)
	store := block.Stmts[0].(*moveast.Assign)
	wrap := store.Value.(*moveast.Call)
	assert.Equal(t, "wrapping_add_u64", wrap.Name)
	assert.Empty(t, wrap.Module)

	helper := findFn(res.Module, "wrapping_add_u64")
	require.NotNil(t, helper, "the helper is synthesized alongside its first use")
	assert.Equal(t, moveast.VisPrivate, helper.Visibility)
	require.Len(t, helper.Params, 2)
	assert.Equal(t, "u64", helper.Params[0].Type.TypeString())

	// outside the unchecked block the same store stays checked
	checked := stmts(findFn(res.Module, "bump"))[1].(*moveast.Assign)
	add := checked.Value.(*moveast.Binary)
	assert.Equal(t, "+", add.Op)
}

func TestWideWrappingMultiplyStaysChecked(t *testing.T) {
	opts := config.DefaultOptions()
	opts.OverflowPolicy = config.OverflowWrapping

	fn := pubFn("grow", &solast.UncheckedStatement{
		Block: body(assign(ident("total"), "*=", num("2"))),
	})
	c := contract("Pool", []*ir.StateVar{stateVar("total", "uint256")}, fn)

	res := NewTransformer(opts).Transform(c, nil)
	require.True(t, res.Success)
	assert.Equal(t, []string{errors.WarningWrappingMul}, diagCodes(res.Warnings),
		"no double-width type exists above u128 to widen into")

	grow := findFn(res.Module, "grow")
	block := stmts(grow)[1].(*moveast.Block)
	store := block.Stmts[0].(*moveast.Assign)
	mul := store.Value.(*moveast.Binary)
	assert.Equal(t, "*", mul.Op)
	assert.Nil(t, findFn(res.Module, "wrapping_mul_u256"))
}

func tokenWithTransfer() *ir.Contract {
	fn := pubFn("send", &solast.EmitStatement{
		EventCall: call("Transfer", ident("to"), ident("value")),
	})
	fn.Params = []*ir.Param{param("to", "address"), param("value", "uint256")}
	c := contract("Token", []*ir.StateVar{stateVar("total", "uint256")}, fn)
	c.Events = []*ir.Event{{Name: "Transfer", Params: []*ir.EventParam{
		{Name: "to", Type: uintType("address")},
		{Name: "value", Type: uintType("uint256")},
	}}}
	return c
}

func TestEmitLowersToNativeEvent(t *testing.T) {
	res := transform(t, tokenWithTransfer())
	require.True(t, res.Success)

	send := findFn(res.Module, "send")
	require.NotNil(t, send)
	list := stmts(send)
	require.Len(t, list, 1)

	emit := list[0].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "event", emit.Module)
	assert.Equal(t, "emit", emit.Name)
	payload := emit.Args[0].(*moveast.StructLit)
	assert.Equal(t, "Transfer", payload.Name)
	require.Len(t, payload.Fields, 2)
	assert.Equal(t, "to", payload.Fields[0].Name)
	assert.Equal(t, "value", payload.Fields[1].Name)

	ev := findStruct(res.Module, "Transfer")
	require.NotNil(t, ev)
	assert.True(t, ev.IsEvent)
	assert.ElementsMatch(t, []string{moveast.AbilityDrop, moveast.AbilityStore}, ev.Abilities)
}

func TestEmitUndeclaredEventFails(t *testing.T) {
	fn := pubFn("send", &solast.EmitStatement{EventCall: call("Ghost")})
	c := contract("Token", nil, fn)

	res := transform(t, c)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, errors.ErrorUnsupportedStatement, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "Ghost")
}

func TestEventStyleNoneDropsEmit(t *testing.T) {
	opts := config.DefaultOptions()
	opts.EventStyle = config.EventNone

	res := NewTransformer(opts).Transform(tokenWithTransfer(), nil)
	require.True(t, res.Success)

	send := findFn(res.Module, "send")
	require.NotNil(t, send)
	assert.Empty(t, stmts(send))
	assert.Nil(t, findStruct(res.Module, "Transfer"),
		"an unemittable payload type has no reader")
}

func TestEventHandlesEmitThroughStoredHandle(t *testing.T) {
	opts := config.DefaultOptions()
	opts.EventStyle = config.EventHandles

	res := NewTransformer(opts).Transform(tokenWithTransfer(), nil)
	require.True(t, res.Success)

	send := findFn(res.Module, "send")
	require.NotNil(t, send)
	assert.Equal(t, []string{"State"}, send.Acquires, "the handle lives in storage")
	list := stmts(send)
	require.Len(t, list, 2)

	emit := list[1].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "emit_event", emit.Name)
	handle := emit.Args[0].(*moveast.Borrow)
	assert.True(t, handle.Mut)
	assert.Equal(t, "transfer_events", handle.Expr.(*moveast.FieldAccess).Field)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	last := state.Fields[len(state.Fields)-1]
	assert.Equal(t, "transfer_events", last.Name)
	assert.Contains(t, last.Type.TypeString(), "EventHandle")
}
