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

// ---- input builders ----

func uintType(name string) *solast.ElementaryTypeName {
	return &solast.ElementaryTypeName{Name: name}
}

func mappingType(key, value string) *solast.Mapping {
	return &solast.Mapping{KeyType: uintType(key), ValueType: uintType(value)}
}

func ident(name string) *solast.Identifier {
	return &solast.Identifier{Name: name}
}

func num(text string) *solast.NumberLiteral {
	return &solast.NumberLiteral{Number: text}
}

func assign(target solast.Expression, op string, value solast.Expression) solast.Statement {
	return &solast.ExpressionStatement{Expression: &solast.BinaryOperation{
		Operator: op, Left: target, Right: value,
	}}
}

func callStmt(name string, args ...solast.Expression) solast.Statement {
	return &solast.ExpressionStatement{Expression: &solast.FunctionCall{
		Expression: ident(name), Arguments: args,
	}}
}

func ret(value solast.Expression) solast.Statement {
	return &solast.ReturnStatement{Expression: value}
}

func body(stmts ...solast.Statement) *solast.Block {
	return &solast.Block{Statements: stmts}
}

func pubFn(name string, stmts ...solast.Statement) *ir.Function {
	return &ir.Function{
		Name:       name,
		SourceName: name,
		Visibility: solast.VisibilityPublic,
		Body:       body(stmts...),
	}
}

func privFn(name string, stmts ...solast.Statement) *ir.Function {
	f := pubFn(name, stmts...)
	f.Visibility = solast.VisibilityInternal
	return f
}

func viewFn(name, retType string, stmts ...solast.Statement) *ir.Function {
	f := pubFn(name, stmts...)
	f.Mutability = solast.MutabilityView
	f.Returns = []*ir.Param{{Type: uintType(retType)}}
	return f
}

func stateVar(name, typ string) *ir.StateVar {
	return &ir.StateVar{Name: name, Type: uintType(typ)}
}

func contract(name string, vars []*ir.StateVar, fns ...*ir.Function) *ir.Contract {
	return &ir.Contract{
		Name:      name,
		Kind:      solast.KindContract,
		StateVars: vars,
		Functions: fns,
	}
}

func counterContract() *ir.Contract {
	return contract("Counter",
		[]*ir.StateVar{stateVar("count", "uint256")},
		pubFn("increment", assign(ident("count"), "+=", num("1"))),
		viewFn("get", "uint256", ret(ident("count"))),
	)
}

func transform(tb testing.TB, c *ir.Contract) Result {
	tb.Helper()
	return NewTransformer(config.DefaultOptions()).Transform(c, nil)
}

// ---- output finders ----

func findFn(m *moveast.Module, name string) *moveast.Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func findStruct(m *moveast.Module, name string) *moveast.Struct {
	for _, s := range m.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func findConst(m *moveast.Module, name string) *moveast.Constant {
	for _, c := range m.Constants {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func diagCodes(list []errors.TransformError) []string {
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Code)
	}
	return out
}

// renderStmts flattens a body to assertion-friendly node references.
func stmts(f *moveast.Function) []moveast.Stmt {
	if f == nil || f.Body == nil {
		return nil
	}
	return f.Body.Stmts
}

// ---- end-to-end scenarios ----

func TestCounterContract(t *testing.T) {
	res := transform(t, counterContract())
	require.True(t, res.Success)
	assert.Empty(t, res.Errors)

	m := res.Module
	assert.Equal(t, "counter", m.Name)
	assert.Equal(t, "self", m.Address)

	state := findStruct(m, "State")
	require.NotNil(t, state)
	assert.Equal(t, []string{moveast.AbilityKey}, state.Abilities)
	require.Len(t, state.Fields, 1)
	assert.Equal(t, "count", state.Fields[0].Name)
	assert.Equal(t, "u256", state.Fields[0].Type.TypeString())

	// the initializer leads the function list
	require.NotEmpty(t, m.Functions)
	init := m.Functions[0]
	assert.Equal(t, "init_module", init.Name)
	assert.Equal(t, moveast.VisPrivate, init.Visibility)
	require.Len(t, init.Params, 1)
	assert.Equal(t, "deployer", init.Params[0].Name)
	assert.Equal(t, "&signer", init.Params[0].Type.TypeString())

	// staged zero then a single move_to
	require.Len(t, stmts(init), 2)
	stage := stmts(init)[0].(*moveast.Let)
	assert.Equal(t, []string{"count"}, stage.Names)
	assert.Equal(t, "u256", stage.Type.TypeString())
	publish := stmts(init)[1].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "move_to", publish.Name)
	lit := publish.Args[1].(*moveast.StructLit)
	assert.Equal(t, "State", lit.Name)

	incr := findFn(m, "increment")
	require.NotNil(t, incr)
	assert.Equal(t, moveast.VisPublic, incr.Visibility)
	assert.True(t, incr.IsEntry, "no returns makes a public function an entry")
	assert.Equal(t, []string{"State"}, incr.Acquires)

	require.Len(t, stmts(incr), 2)
	borrow := stmts(incr)[0].(*moveast.Let)
	assert.Equal(t, []string{"state"}, borrow.Names)
	assert.Equal(t, "borrow_global_mut", borrow.Value.(*moveast.Call).Name)
	store := stmts(incr)[1].(*moveast.Assign)
	target := store.Target.(*moveast.FieldAccess)
	assert.Equal(t, "count", target.Field)
	add := store.Value.(*moveast.Binary)
	assert.Equal(t, "+", add.Op)
	assert.Equal(t, "1", add.Right.(*moveast.IntLit).Value)

	get := findFn(m, "get")
	require.NotNil(t, get)
	assert.True(t, get.IsView)
	assert.False(t, get.IsEntry, "returning functions are not entries")
	borrow = stmts(get)[0].(*moveast.Let)
	assert.Equal(t, "borrow_global", borrow.Value.(*moveast.Call).Name,
		"reads acquire immutably")
}

func TestTransformIsDeterministic(t *testing.T) {
	run := func() ([]byte, Result) {
		res := transform(t, counterContract())
		data, err := res.Module.EncodeJSON()
		require.NoError(t, err)
		return data, res
	}
	first, firstRes := run()
	second, secondRes := run()
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, diagCodes(firstRes.Warnings), diagCodes(secondRes.Warnings))
	assert.Equal(t, diagCodes(firstRes.Errors), diagCodes(secondRes.Errors))
}

func TestFlattenedOverrideTransforms(t *testing.T) {
	parent := contract("Base", nil, viewFn("answer", "uint256", ret(num("1"))))
	child := contract("Child", nil, viewFn("answer", "uint256", ret(num("2"))))
	child.Parents = []string{"Base"}
	registry := ir.Registry{"Base": parent, "Child": child}

	flat, missing := ir.Flatten(child, registry)
	require.Empty(t, missing)
	res := NewTransformer(config.DefaultOptions()).Transform(flat, registry)
	require.True(t, res.Success)

	answer := findFn(res.Module, "answer")
	require.NotNil(t, answer)
	require.Len(t, stmts(answer), 1)
	value := stmts(answer)[0].(*moveast.Return).Value.(*moveast.IntLit)
	assert.Equal(t, "2", value.Value, "the override's body survives flattening")
}

func TestMapReadNeverAborts(t *testing.T) {
	c := contract("Ledger",
		[]*ir.StateVar{{Name: "balances", Type: mappingType("address", "uint256")}},
		viewFn("balanceOf", "uint256", ret(&solast.IndexAccess{
			Base: ident("balances"), Index: ident("who"),
		})),
	)
	c.Functions[0].Params = []*ir.Param{{Name: "who", Type: uintType("address")}}

	res := transform(t, c)
	require.True(t, res.Success)

	fn := findFn(res.Module, "balance_of")
	require.NotNil(t, fn)
	// borrow group, hoist the default, then the defaulted borrow
	require.Len(t, stmts(fn), 3)
	dflt := stmts(fn)[1].(*moveast.Let)
	assert.Equal(t, []string{"default"}, dflt.Names)
	assert.Equal(t, "0", dflt.Value.(*moveast.IntLit).Value)

	read := stmts(fn)[2].(*moveast.Return).Value.(*moveast.Deref)
	call := read.Expr.(*moveast.Call)
	assert.Equal(t, "table", call.Module)
	assert.Equal(t, "borrow_with_default", call.Name)
	require.Len(t, call.Args, 3)
	assert.Equal(t, "default", call.Args[2].(*moveast.Borrow).Expr.(*moveast.Name).Ident)
}

func TestNarrowWidthStoresAreMasked(t *testing.T) {
	c := contract("Packed",
		[]*ir.StateVar{stateVar("small", "uint24")},
		pubFn("set", assign(ident("small"), "=", ident("v"))),
	)
	c.Functions[0].Params = []*ir.Param{{Name: "v", Type: uintType("uint24")}}

	res := transform(t, c)
	require.True(t, res.Success)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	assert.Equal(t, "u32", state.Fields[0].Type.TypeString(),
		"off-ladder widths widen to the next standard width")

	set := findFn(res.Module, "set")
	require.NotNil(t, set)
	store := stmts(set)[1].(*moveast.Assign)
	masked := store.Value.(*moveast.Binary)
	assert.Equal(t, "&", masked.Op)
	assert.Equal(t, "0xffffff", masked.Right.(*moveast.IntLit).Value)
}

func TestGuardResetPrecedesEarlyReturn(t *testing.T) {
	// withdraw() nonReentrant { if (done) return; total = 0; }
	fn := pubFn("withdraw",
		&solast.IfStatement{
			Condition: ident("done"),
			TrueBody:  &solast.ReturnStatement{},
		},
		assign(ident("total"), "=", num("0")),
	)
	fn.Modifiers = []*ir.ModifierCall{{Name: "nonReentrant"}}
	c := contract("Vault",
		[]*ir.StateVar{stateVar("total", "uint256"), {Name: "done", Type: uintType("bool")}},
		fn,
	)

	res := transform(t, c)
	require.True(t, res.Success)

	withdraw := findFn(res.Module, "withdraw")
	require.NotNil(t, withdraw)
	list := stmts(withdraw)

	// entry protocol: assert the flag is clear, then set it
	enter := list[1].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "assert!", enter.Name)
	not := enter.Args[0].(*moveast.Unary)
	assert.Equal(t, "!", not.Op)
	assert.Equal(t, "entered", not.Expr.(*moveast.FieldAccess).Field)
	lock := list[2].(*moveast.Assign)
	assert.Equal(t, "entered", lock.Target.(*moveast.FieldAccess).Field)
	assert.True(t, lock.Value.(*moveast.BoolLit).Value)

	// the early return resets the flag before leaving
	cond := list[3].(*moveast.If)
	require.Len(t, cond.Then.Stmts, 2)
	reset := cond.Then.Stmts[0].(*moveast.Assign)
	assert.Equal(t, "entered", reset.Target.(*moveast.FieldAccess).Field)
	assert.False(t, reset.Value.(*moveast.BoolLit).Value)
	_, isReturn := cond.Then.Stmts[1].(*moveast.Return)
	assert.True(t, isReturn)

	// the normal exit resets it too
	tail := list[len(list)-1].(*moveast.Assign)
	assert.Equal(t, "entered", tail.Target.(*moveast.FieldAccess).Field)
	assert.False(t, tail.Value.(*moveast.BoolLit).Value)
	assert.Empty(t, res.Warnings)
}

func TestLibraryTransformsWithoutStorage(t *testing.T) {
	lib := &ir.Contract{
		Name: "MathLib",
		Kind: solast.KindLibrary,
		Functions: []*ir.Function{
			privFn("double", ret(&solast.BinaryOperation{
				Operator: "*", Left: ident("x"), Right: num("2"),
			})),
		},
	}
	lib.Functions[0].Params = []*ir.Param{{Name: "x", Type: uintType("uint256")}}
	lib.Functions[0].Returns = []*ir.Param{{Type: uintType("uint256")}}

	res := transform(t, lib)
	require.True(t, res.Success)
	assert.Nil(t, findStruct(res.Module, "State"), "no state, no storage group")
	assert.Nil(t, findFn(res.Module, "init_module"))

	double := findFn(res.Module, "double")
	require.NotNil(t, double)
	assert.Equal(t, moveast.VisPrivate, double.Visibility)
}
