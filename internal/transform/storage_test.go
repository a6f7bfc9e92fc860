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

func transformTiered(tb testing.TB, c *ir.Contract, tier string) Result {
	tb.Helper()
	opts := config.DefaultOptions()
	opts.OptimizationTier = tier
	return NewTransformer(opts).Transform(c, nil)
}

func advisoryFor(res Result, name string) *Advisory {
	for i := range res.Advisories {
		if res.Advisories[i].Variable == name {
			return &res.Advisories[i]
		}
	}
	return nil
}

// ledgerContract mixes a scalar, a map and a compound-only counter, enough
// surface for every tier to disagree about placement.
func ledgerContract() *ir.Contract {
	setOwner := pubFn("setOwner", assign(ident("owner"), "=", ident("next")))
	setOwner.Params = []*ir.Param{{Name: "next", Type: uintType("address")}}

	deposit := pubFn("deposit",
		assign(&solast.IndexAccess{Base: ident("balances"), Index: ident("who")}, "=", ident("amount")),
		assign(ident("total"), "+=", ident("amount")),
	)
	deposit.Params = []*ir.Param{
		{Name: "who", Type: uintType("address")},
		{Name: "amount", Type: uintType("uint256")},
	}

	return contract("Ledger",
		[]*ir.StateVar{
			{Name: "owner", Type: uintType("address")},
			{Name: "balances", Type: mappingType("address", "uint256")},
			stateVar("total", "uint256"),
		},
		setOwner, deposit,
	)
}

func TestTierLowKeepsEverythingResident(t *testing.T) {
	res := transformTiered(t, ledgerContract(), config.TierLow)
	require.True(t, res.Success)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	require.Len(t, state.Fields, 3)
	assert.Nil(t, findStruct(res.Module, "Balances"))
	assert.Nil(t, findStruct(res.Module, "Counters"))

	for _, name := range []string{"owner", "balances", "total"} {
		adv := advisoryFor(res, name)
		require.NotNil(t, adv, name)
		assert.Equal(t, "State", adv.Group)
		assert.Equal(t, ClassResident, adv.Class)
	}
}

func TestTierMediumIsolatesMaps(t *testing.T) {
	res := transformTiered(t, ledgerContract(), config.TierMedium)
	require.True(t, res.Success)

	balances := findStruct(res.Module, "Balances")
	require.NotNil(t, balances, "each container gets a resource of its own")
	assert.Equal(t, []string{moveast.AbilityKey}, balances.Abilities)
	require.Len(t, balances.Fields, 1)
	assert.Equal(t, "balances", balances.Fields[0].Name)

	adv := advisoryFor(res, "balances")
	require.NotNil(t, adv)
	assert.Equal(t, "Balances", adv.Group)
	assert.Equal(t, ClassIsolated, adv.Class)
	assert.Equal(t, "1 reads, 1 writes", adv.Note)
}

func TestCompoundOnlyCounterAggregates(t *testing.T) {
	res := transformTiered(t, ledgerContract(), config.TierMedium)
	require.True(t, res.Success)

	counters := findStruct(res.Module, "Counters")
	require.NotNil(t, counters)
	require.Len(t, counters.Fields, 1)
	assert.Equal(t, "total", counters.Fields[0].Name)
	assert.Equal(t, "aggregator_v2::Aggregator<u128>", counters.Fields[0].Type.TypeString())

	adv := advisoryFor(res, "total")
	require.NotNil(t, adv)
	assert.Equal(t, ClassAggregated, adv.Class)

	// the compound store goes through the aggregator API
	deposit := findFn(res.Module, "deposit")
	require.NotNil(t, deposit)
	var sawAdd bool
	for _, st := range stmts(deposit) {
		es, ok := st.(*moveast.ExprStmt)
		if !ok {
			continue
		}
		if call, ok := es.Expr.(*moveast.Call); ok && call.Module == "aggregator_v2" && call.Name == "add" {
			sawAdd = true
			cast := call.Args[1].(*moveast.Cast)
			assert.Equal(t, "u128", cast.Type.TypeString())
		}
	}
	assert.True(t, sawAdd)

	// publication creates the aggregator rather than staging a plain zero
	init := findFn(res.Module, "init_module")
	require.NotNil(t, init)
	data, err := res.Module.EncodeJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "create_unbounded_aggregator")
}

func TestPlainWriteDisqualifiesAggregation(t *testing.T) {
	c := ledgerContract()
	reset := pubFn("reset", assign(ident("total"), "=", num("0")))
	c.Functions = append(c.Functions, reset)

	res := transformTiered(t, c, config.TierMedium)
	require.True(t, res.Success)
	assert.Nil(t, findStruct(res.Module, "Counters"))

	adv := advisoryFor(res, "total")
	require.NotNil(t, adv)
	assert.Equal(t, ClassResident, adv.Class)
}

func TestGuardVariableAbsorbed(t *testing.T) {
	locked := pubFn("poke", assign(ident("total"), "+=", num("1")))
	locked.Modifiers = []*ir.ModifierCall{{Name: "nonReentrant"}}
	c := contract("Guarded",
		[]*ir.StateVar{
			{Name: "_status", Type: uintType("uint256"), Initial: num("1")},
			stateVar("total", "uint256"),
		},
		locked,
	)

	res := transform(t, c)
	require.True(t, res.Success)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	names := make([]string, 0, len(state.Fields))
	for _, f := range state.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"total", "entered"}, names,
		"the lock collapses into the synthesized flag")

	adv := advisoryFor(res, "_status")
	require.NotNil(t, adv)
	assert.Equal(t, ClassGuard, adv.Class)

	// an integer lock protocol flattens to bool, worth a notice
	assert.Contains(t, diagCodes(res.Warnings), errors.WarningBuiltinApproximated)
}

func TestConstantLiftedOutOfStorage(t *testing.T) {
	c := contract("Capped",
		[]*ir.StateVar{
			{Name: "CAP", Type: uintType("uint256"), Mutability: ir.Constant, Initial: num("1000")},
			stateVar("total", "uint256"),
		},
		pubFn("bump", assign(ident("total"), "+=", num("1"))),
	)

	res := transform(t, c)
	require.True(t, res.Success)

	state := findStruct(res.Module, "State")
	require.NotNil(t, state)
	require.Len(t, state.Fields, 1)
	assert.Equal(t, "total", state.Fields[0].Name)

	cap := findConst(res.Module, "CAP")
	require.NotNil(t, cap)
	assert.Equal(t, "1000", cap.Value.(*moveast.IntLit).Value)

	adv := advisoryFor(res, "CAP")
	require.NotNil(t, adv)
	assert.Equal(t, ClassConstant, adv.Class)
}

func TestImmutableAdvisory(t *testing.T) {
	c := contract("Fixed",
		[]*ir.StateVar{{Name: "admin", Type: uintType("address"), Mutability: ir.Immutable}},
		viewFn("who", "address", ret(ident("admin"))),
	)

	res := transform(t, c)
	require.True(t, res.Success)
	adv := advisoryFor(res, "admin")
	require.NotNil(t, adv)
	assert.Equal(t, ClassImmutable, adv.Class)
	assert.Equal(t, "assigned once during initialization", adv.Note)
}

func TestHighTierMirrorsScalarWrites(t *testing.T) {
	c := contract("Tracked",
		[]*ir.StateVar{stateVar("price", "uint256")},
		pubFn("setPrice", assign(ident("price"), "=", ident("p"))),
	)
	c.Functions[0].Params = []*ir.Param{{Name: "p", Type: uintType("uint256")}}

	res := transformTiered(t, c, config.TierHigh)
	require.True(t, res.Success)

	mirror := findStruct(res.Module, "PriceUpdate")
	require.NotNil(t, mirror)
	assert.True(t, mirror.IsEvent)
	require.Len(t, mirror.Fields, 1)
	assert.Equal(t, "value", mirror.Fields[0].Name)

	adv := advisoryFor(res, "price")
	require.NotNil(t, adv)
	assert.Equal(t, ClassMirrored, adv.Class)

	// the store is followed by the tracking emission
	set := findFn(res.Module, "set_price")
	require.NotNil(t, set)
	list := stmts(set)
	last := list[len(list)-1].(*moveast.ExprStmt).Expr.(*moveast.Call)
	assert.Equal(t, "event", last.Module)
	assert.Equal(t, "emit", last.Name)
	payload := last.Args[0].(*moveast.StructLit)
	assert.Equal(t, "PriceUpdate", payload.Name)
}

func TestMirrorCarriesMapKey(t *testing.T) {
	c := contract("Scores",
		[]*ir.StateVar{{Name: "scores", Type: mappingType("address", "uint64")}},
		pubFn("record", assign(
			&solast.IndexAccess{Base: ident("scores"), Index: ident("who")},
			"=", ident("value"))),
	)
	c.Functions[0].Params = []*ir.Param{
		{Name: "who", Type: uintType("address")},
		{Name: "value", Type: uintType("uint64")},
	}

	res := transformTiered(t, c, config.TierHigh)
	require.True(t, res.Success)

	mirror := findStruct(res.Module, "ScoresUpdate")
	require.NotNil(t, mirror)
	require.Len(t, mirror.Fields, 2)
	assert.Equal(t, "key", mirror.Fields[0].Name)
	assert.Equal(t, "address", mirror.Fields[0].Type.TypeString())
	assert.Equal(t, "value", mirror.Fields[1].Name)
	assert.Equal(t, "u64", mirror.Fields[1].Type.TypeString())
}

func TestStructValuedMapNotMirrored(t *testing.T) {
	c := contract("Registry",
		[]*ir.StateVar{{
			Name: "entries",
			Type: &solast.Mapping{
				KeyType: uintType("address"),
				ValueType: &solast.UserDefinedTypeName{
					NamePath: "Entry",
				},
			},
		}},
		pubFn("touch", assign(
			&solast.IndexAccess{Base: ident("entries"), Index: ident("who")},
			"=", ident("e"))),
	)
	c.Structs = []*ir.StructDef{{
		Name:   "Entry",
		Fields: []*ir.Param{{Name: "score", Type: uintType("uint64")}},
	}}
	c.Functions[0].Params = []*ir.Param{
		{Name: "who", Type: uintType("address")},
		{Name: "e", Type: &solast.UserDefinedTypeName{NamePath: "Entry"}},
	}

	res := transformTiered(t, c, config.TierHigh)
	require.True(t, res.Success)
	assert.Nil(t, findStruct(res.Module, "EntriesUpdate"),
		"struct values cannot live in an event payload")
	adv := advisoryFor(res, "entries")
	require.NotNil(t, adv)
	assert.NotEqual(t, ClassMirrored, adv.Class)
}

func TestSyntheticGroupNameAvoidsCollision(t *testing.T) {
	// a user struct already claims State
	c := counterContract()
	c.Structs = []*ir.StructDef{{
		Name:   "State",
		Fields: []*ir.Param{{Name: "x", Type: uintType("uint8")}},
	}}

	res := transform(t, c)
	require.True(t, res.Success)
	group := findStruct(res.Module, "StateStore")
	require.NotNil(t, group, "the storage group steps aside for the user's name")
	assert.Contains(t, group.Abilities, moveast.AbilityKey)

	user := findStruct(res.Module, "State")
	require.NotNil(t, user)
	assert.NotContains(t, user.Abilities, moveast.AbilityKey)
}

func TestTableBearingStructIsStoreOnly(t *testing.T) {
	c := contract("Holder",
		[]*ir.StateVar{{Name: "wallets", Type: mappingType("address", "uint256")}},
		pubFn("noop"),
	)
	c.Structs = []*ir.StructDef{{
		Name: "Wallet",
		Fields: []*ir.Param{
			{Name: "spent", Type: mappingType("address", "uint256")},
			{Name: "limit", Type: uintType("uint256")},
		},
	}}

	res := transform(t, c)
	require.True(t, res.Success)
	wallet := findStruct(res.Module, "Wallet")
	require.NotNil(t, wallet)
	assert.Equal(t, []string{moveast.AbilityStore}, wallet.Abilities,
		"tables forbid copy and drop")
}
