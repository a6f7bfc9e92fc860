package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFrameworkModules(t *testing.T) {
	modules := GetFrameworkModules()

	// Verify core modules exist
	assert.NotNil(t, modules["signer"], "signer module should exist")
	assert.NotNil(t, modules["table"], "table module should exist")
	assert.NotNil(t, modules["ordered_map"], "ordered_map module should exist")
	assert.NotNil(t, modules["event"], "event module should exist")
	assert.NotNil(t, modules["timestamp"], "timestamp module should exist")

	// Verify signer module details
	signer := modules["signer"]
	assert.Equal(t, "signer", signer.Name)
	assert.Equal(t, "std::signer", signer.Path)
	assert.Empty(t, signer.Types, "signer should not export types")

	addressOf := signer.Functions["address_of"]
	assert.Equal(t, "address_of", addressOf.Name)
	assert.Equal(t, "address", addressOf.ReturnType.Name)
	assert.Len(t, addressOf.Parameters, 1)
	assert.Equal(t, RefImm, addressOf.Parameters[0].Type.Reference)

	// Verify table module details
	table := modules["table"]
	assert.Equal(t, "aptos_std::table", table.Path)
	assert.True(t, table.Types["Table"].IsGeneric, "Table type should be generic")

	borrowDefault, ok := table.Functions["borrow_mut_with_default"]
	assert.True(t, ok, "hash table backing needs borrow_mut_with_default")
	assert.Len(t, borrowDefault.Parameters, 3)
	assert.Equal(t, RefMut, borrowDefault.ReturnType.Reference)

	// ordered_map has no default-borrow pair, reads go through contains
	orderedMap := modules["ordered_map"]
	_, ok = orderedMap.Functions["borrow_with_default"]
	assert.False(t, ok)
	_, ok = orderedMap.Functions["contains"]
	assert.True(t, ok)

	// Verify the emit signature used for native-event style
	emit := modules["event"].Functions["emit"]
	assert.True(t, emit.IsGeneric)
	assert.Nil(t, emit.ReturnType)
}

func TestEnvAccessorTargetsResolve(t *testing.T) {
	modules := GetFrameworkModules()

	now := modules["timestamp"].Functions["now_seconds"]
	assert.Equal(t, "u64", now.ReturnType.Name)

	height := modules["block"].Functions["get_current_block_height"]
	assert.Equal(t, "u64", height.ReturnType.Name)

	chain := modules["chain_id"].Functions["get"]
	assert.Equal(t, "u8", chain.ReturnType.Name)

	balance := modules["coin"].Functions["balance"]
	assert.True(t, balance.IsGeneric)
	assert.Equal(t, "u64", balance.ReturnType.Name)
}

func TestIsKnownModule(t *testing.T) {
	assert.True(t, IsKnownModule("signer"))
	assert.True(t, IsKnownModule("aggregator_v2"))
	assert.True(t, IsKnownModule("aptos_hash"))
	assert.False(t, IsKnownModule("evm"))
}

func TestGetModuleDefinition(t *testing.T) {
	obj := GetModuleDefinition("object")
	assert.NotNil(t, obj)
	assert.Equal(t, "aptos_framework::object", obj.Path)
	assert.Contains(t, obj.Types, "ExtendRef")

	unknown := GetModuleDefinition("solidity")
	assert.Nil(t, unknown)
}

func TestUsePath(t *testing.T) {
	path, ok := UsePath("math128")
	assert.True(t, ok)
	assert.Equal(t, "aptos_std::math128", path)

	_, ok = UsePath("math512")
	assert.False(t, ok)
}
