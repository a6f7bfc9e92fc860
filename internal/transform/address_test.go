package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
)

const (
	goodChecksum = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	badChecksum  = "0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

func TestClassifyAddressSpelling(t *testing.T) {
	assert.Equal(t, addrChecksummed, classifyAddressSpelling(goodChecksum))
	assert.Equal(t, addrBadChecksum, classifyAddressSpelling(badChecksum))
	assert.Equal(t, addrPlain,
		classifyAddressSpelling("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
		"single-case spellings make no checksum claim")
	assert.Equal(t, addrPlain,
		classifyAddressSpelling("0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED"))
	assert.Equal(t, addrNotAddress, classifyAddressSpelling("0x1234"))
	assert.Equal(t, addrNotAddress, classifyAddressSpelling("521655"))
}

func TestChecksummedLiteralIsAddressTyped(t *testing.T) {
	fn := pubFn("route", assign(ident("target"), "=", num(goodChecksum)))
	c := contract("Router", []*ir.StateVar{stateVar("target", "address")}, fn)

	res := transform(t, c)
	require.True(t, res.Success)
	assert.Empty(t, res.Warnings)

	route := findFn(res.Module, "route")
	require.NotNil(t, route)
	store := stmts(route)[1].(*moveast.Assign)
	addr := store.Value.(*moveast.AddressLit)
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", addr.Value)
}

func TestBadChecksumWarnsWithCanonicalForm(t *testing.T) {
	fn := pubFn("route", assign(ident("target"), "=", num(badChecksum)))
	c := contract("Router", []*ir.StateVar{stateVar("target", "address")}, fn)

	res := transform(t, c)
	require.True(t, res.Success)
	require.Len(t, res.Warnings, 1)
	warn := res.Warnings[0]
	assert.Equal(t, errors.WarningAddressChecksum, warn.Code)
	assert.Contains(t, warn.Message, badChecksum)
	require.NotEmpty(t, warn.Suggestions)
	assert.Contains(t, warn.Suggestions[0].Message, goodChecksum)
}

func TestAddressConstantVetsSpelling(t *testing.T) {
	c := contract("Registry",
		[]*ir.StateVar{constVar("TREASURY", "address", num(badChecksum))})

	res := transform(t, c)
	require.True(t, res.Success)
	assert.Contains(t, diagCodes(res.Warnings), errors.WarningAddressChecksum)

	decl := findConst(res.Module, "TREASURY")
	require.NotNil(t, decl)
	assert.Equal(t, "address", decl.Type.TypeString())
	addr := decl.Value.(*moveast.AddressLit)
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", addr.Value,
		"the numeric value survives; only the spelling is flagged")
}
