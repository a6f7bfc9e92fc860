package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func call(name string, args ...solast.Expression) *solast.FunctionCall {
	return &solast.FunctionCall{Expression: ident(name), Arguments: args}
}

func TestOverloadsRenameBySignature(t *testing.T) {
	byValue := pubFn("set", assign(ident("total"), "=", ident("v")))
	byValue.Params = []*ir.Param{{Name: "v", Type: uintType("uint256")}}
	byTarget := pubFn("set", assign(ident("target"), "=", ident("a")))
	byTarget.Params = []*ir.Param{{Name: "a", Type: uintType("address")}}
	wipe := pubFn("set", assign(ident("total"), "=", num("0")))

	c := contract("Settings",
		[]*ir.StateVar{stateVar("total", "uint256"), stateVar("target", "address")},
		byValue, byTarget, wipe,
	)
	res := transform(t, c)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings, "renaming alone raises no diagnostics")

	assert.NotNil(t, findFn(res.Module, "set"), "the first declaration keeps the plain name")

	tagged := findFn(res.Module, "set_address")
	require.NotNil(t, tagged, "later overloads carry parameter type tags")
	assert.Contains(t, tagged.Doc, "Overload of `set`")

	assert.NotNil(t, findFn(res.Module, "set_0"), "nullary overloads tag with _0")
}

func TestOverloadCallResolvesByArity(t *testing.T) {
	one := privFn("pick", ret(ident("v")))
	one.Params = []*ir.Param{{Name: "v", Type: uintType("uint256")}}
	one.Returns = []*ir.Param{{Type: uintType("uint256")}}
	two := privFn("pick", ret(ident("a")))
	two.Params = []*ir.Param{
		{Name: "a", Type: uintType("uint256")},
		{Name: "b", Type: uintType("uint256")},
	}
	two.Returns = []*ir.Param{{Type: uintType("uint256")}}
	choose := viewFn("choose", "uint256", ret(call("pick", num("7"), num("8"))))

	c := contract("Picker", nil, one, two, choose)
	res := transform(t, c)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)

	assert.NotNil(t, findFn(res.Module, "pick_u256_u256"))

	chosen := findFn(res.Module, "choose")
	require.NotNil(t, chosen)
	resolved := stmts(chosen)[0].(*moveast.Return).Value.(*moveast.Call)
	assert.Equal(t, "pick_u256_u256", resolved.Name, "a unique arity resolves to the tagged overload")
	require.Len(t, resolved.Args, 2)
}

func TestSharedArityOverloadStaysAmbiguous(t *testing.T) {
	byAmount := privFn("pick", ret(ident("v")))
	byAmount.Params = []*ir.Param{{Name: "v", Type: uintType("uint256")}}
	byAmount.Returns = []*ir.Param{{Type: uintType("uint256")}}
	byAddr := privFn("pick", ret(num("0")))
	byAddr.Params = []*ir.Param{{Name: "a", Type: uintType("address")}}
	byAddr.Returns = []*ir.Param{{Type: uintType("uint256")}}
	choose := viewFn("choose", "uint256", ret(call("pick", num("3"))))

	c := contract("Picker", nil, byAmount, byAddr, choose)
	res := transform(t, c)
	require.True(t, res.Success, "ambiguity degrades to a warning")

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.WarningOverloadSkipped, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "ambiguous")

	chosen := findFn(res.Module, "choose")
	require.NotNil(t, chosen)
	resolved := stmts(chosen)[0].(*moveast.Return).Value.(*moveast.Call)
	assert.Equal(t, "pick", resolved.Name, "the call keeps the first overload's plain name")

	assert.NotNil(t, findFn(res.Module, "pick"))
	assert.NotNil(t, findFn(res.Module, "pick_address"))
}
