package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

func usePaths(m *moveast.Module) []string {
	var out []string
	for _, u := range m.Uses {
		out = append(out, u.Path)
	}
	return out
}

func TestUsesGroupStdThenStdlibThenFramework(t *testing.T) {
	sweep := modified(pubFn("sweep", assign(ident("owner"), "=", ident("heir"))), "onlyOwner")
	sweep.Params = []*ir.Param{param("heir", "address")}
	place := pubFn("place", assign(index(ident("bids"), ident("who")), "=", ident("amount")))
	place.Params = []*ir.Param{param("who", "address"), param("amount", "uint256")}
	note := pubFn("note", &solast.EmitStatement{EventCall: call("Placed", ident("who"))})
	note.Params = []*ir.Param{param("who", "address")}

	c := contract("Market",
		[]*ir.StateVar{
			stateVar("owner", "address"),
			{Name: "bids", Type: mappingType("address", "uint256")},
		},
		sweep, place, note,
	)
	c.Events = []*ir.Event{{Name: "Placed", Params: []*ir.EventParam{
		{Name: "who", Type: uintType("address")},
	}}}

	res := transform(t, c)
	require.True(t, res.Success)
	assert.Equal(t,
		[]string{"std::signer", "aptos_std::table", "aptos_framework::event"},
		usePaths(res.Module))
}

func TestLibraryCallImportsSiblingModule(t *testing.T) {
	double := privFn("double", ret(bin("*", ident("x"), num("2"))))
	double.Params = []*ir.Param{param("x", "uint256")}
	double.Returns = []*ir.Param{{Type: uintType("uint256")}}
	lib := &ir.Contract{Name: "MathLib", Kind: solast.KindLibrary,
		Functions: []*ir.Function{double}}

	bump := pubFn("bump", assign(ident("total"), "=", &solast.FunctionCall{
		Expression: &solast.MemberAccess{Expression: ident("MathLib"), MemberName: "double"},
		Arguments:  []solast.Expression{num("2")},
	}))
	c := contract("App", []*ir.StateVar{stateVar("total", "uint256")}, bump)

	res := NewTransformer(config.DefaultOptions()).
		Transform(c, ir.Registry{"App": c, "MathLib": lib})
	require.True(t, res.Success)

	fn := findFn(res.Module, "bump")
	require.NotNil(t, fn)
	store := stmts(fn)[1].(*moveast.Assign)
	libCall := store.Value.(*moveast.Call)
	assert.Equal(t, "math_lib", libCall.Module)
	assert.Equal(t, "double", libCall.Name)

	assert.Equal(t, []string{"self::math_lib"}, usePaths(res.Module),
		"package-local modules import under the package address")
}

func TestOrderedMapBackingSwitchesImport(t *testing.T) {
	opts := config.DefaultOptions()
	opts.MapBacking = config.BackingOrderedMap
	place := pubFn("place", assign(index(ident("bids"), ident("who")), "=", ident("amount")))
	place.Params = []*ir.Param{param("who", "address"), param("amount", "uint256")}
	c := contract("Market",
		[]*ir.StateVar{{Name: "bids", Type: mappingType("address", "uint256")}},
		place,
	)

	res := NewTransformer(opts).Transform(c, nil)
	require.True(t, res.Success)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	assert.Contains(t, state.Fields[0].Type.TypeString(), "OrderedMap")

	paths := usePaths(res.Module)
	assert.Contains(t, paths, "aptos_std::ordered_map")
	assert.NotContains(t, paths, "aptos_std::table")
}

func TestUseRankGroupsByAddress(t *testing.T) {
	assert.Equal(t, 0, useRank("std::vector"))
	assert.Equal(t, 1, useRank("aptos_std::table"))
	assert.Equal(t, 2, useRank("aptos_framework::event"))
	assert.Equal(t, 3, useRank("self::math_lib"))
}
