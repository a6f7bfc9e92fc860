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

func TestStandardErrorBlockIsStable(t *testing.T) {
	cat := NewErrorCatalog(nil)
	all := cat.Entries(true)
	require.Len(t, all, 22)
	for i, e := range all {
		assert.Equal(t, uint64(i)+1, e.Code, e.Name)
		assert.False(t, e.Referenced, "seeding must not reference %s", e.Name)
	}
	assert.Equal(t, "E_NOT_AUTHORIZED", all[0].Name)
	assert.Equal(t, "E_ASSERTION_FAILED", all[21].Name)
	assert.Equal(t, uint64(13), cat.Get("E_ALREADY_INITIALIZED").Code)
	assert.Equal(t, "permission_denied", cat.Get("E_NOT_OWNER").Category)
	assert.Empty(t, cat.Entries(false), "nothing referenced, nothing emitted")
}

func TestCustomErrorsExtendPastStandardBlock(t *testing.T) {
	cat := NewErrorCatalog(nil)

	locked := cat.Ensure("VaultLocked")
	assert.Equal(t, "E_VAULT_LOCKED", locked.Name)
	assert.Equal(t, uint64(23), locked.Code)
	assert.True(t, locked.Referenced)

	stale := cat.Ensure("ERR_STALE_PRICE")
	assert.Equal(t, "E_STALE_PRICE", stale.Name)
	assert.Equal(t, uint64(24), stale.Code)

	// a declared error spelling a standard name reuses its slot
	reused := cat.Ensure("InsufficientBalance")
	assert.Equal(t, uint64(6), reused.Code)
	assert.True(t, reused.Referenced)

	again := cat.Ensure("VaultLocked")
	assert.Same(t, locked, again, "codes never renumber on reuse")
	assert.Len(t, cat.Entries(true), 24)
}

func TestDeclareFixesCodeWithoutReference(t *testing.T) {
	cat := NewErrorCatalog(nil)
	first := cat.Declare("AuctionEnded")
	second := cat.Declare("BidTooLow")
	assert.Equal(t, uint64(23), first.Code)
	assert.Equal(t, uint64(24), second.Code)
	assert.Empty(t, cat.Entries(false), "declaration alone emits nothing")

	used := cat.Ensure("AuctionEnded")
	assert.Same(t, first, used)
	emitted := cat.Entries(false)
	require.Len(t, emitted, 1)
	assert.Equal(t, "E_AUCTION_ENDED", emitted[0].Name)
}

func TestClassifierMapsLibraryRevertMessages(t *testing.T) {
	cases := []struct {
		message string
		name    string
	}{
		{"ReentrancyGuard: reentrant call", "E_REENTRANCY"},
		{"Pausable: paused", "E_PAUSED"},
		{"Pausable: not paused", "E_NOT_PAUSED"},
		{"ERC20: transfer amount exceeds balance", "E_INSUFFICIENT_BALANCE"},
		{"ERC20: insufficient allowance", "E_INSUFFICIENT_ALLOWANCE"},
		{"ERC20: transfer to the zero address", "E_ZERO_ADDRESS"},
		{"Ownable: caller is not the owner", "E_NOT_OWNER"},
		{"AccessControl: account is missing role", "E_NOT_AUTHORIZED"},
		{"SafeMath: subtraction overflow", "E_OVERFLOW"},
		{"deadline passed", "E_EXPIRED"},
		{"ERC721: token does not exist", "E_NOT_FOUND"},
		{"", "E_ASSERTION_FAILED"},
	}
	for _, tc := range cases {
		cat := NewErrorCatalog(nil)
		entry := cat.Classify(tc.message)
		assert.Equal(t, tc.name, entry.Name, "message %q", tc.message)
		assert.True(t, entry.Referenced)
	}
}

func TestUnmatchedMessageGetsSlugEntry(t *testing.T) {
	cat := NewErrorCatalog(nil)
	entry := cat.Classify("vote already cast")
	assert.Equal(t, "E_VOTE_ALREADY_CAST", entry.Name)
	assert.Equal(t, uint64(23), entry.Code)
	assert.Equal(t, "vote already cast", entry.Doc,
		"the source message documents the synthesized constant")

	again := cat.Classify("vote already cast")
	assert.Same(t, entry, again)
	assert.Len(t, cat.Entries(true), 23)
}

func TestSlugNamesKeepFirstSignificantWords(t *testing.T) {
	assert.Equal(t, "E_BURN_AMOUNT_EXCEEDS_TOTAL",
		slugErrorName("ERC20: burn amount exceeds total supply"))
	assert.Equal(t, "E_ADMIN", slugErrorName("the caller must be an admin"))
	assert.Equal(t, "E_ASSERTION_FAILED", slugErrorName(":::"))
}

func TestNormalizeErrorNameStripsPrefixes(t *testing.T) {
	assert.Equal(t, "E_INSUFFICIENT_BALANCE", normalizeErrorName("InsufficientBalance"))
	assert.Equal(t, "E_STALE_PRICE", normalizeErrorName("ERR_STALE_PRICE"))
	assert.Equal(t, "E_TOO_SOON", normalizeErrorName("ErrorTooSoon"))
	assert.Equal(t, "E_CUSTOM", normalizeErrorName("E_CUSTOM"))
}

func TestVerboseReportingWrapsCategoryHelper(t *testing.T) {
	opts := config.DefaultOptions()
	opts.ErrorReporting = config.ReportVerbose
	c := contract("Till", nil,
		pubFn("pay", callStmt("require",
			&solast.BinaryOperation{Operator: ">", Left: ident("amount"), Right: num("0")},
			str("amount is zero"))),
	)
	c.Functions[0].Params = []*ir.Param{{Name: "amount", Type: uintType("uint256")}}

	res := NewTransformer(opts).Transform(c, nil)
	require.True(t, res.Success)

	pay := findFn(res.Module, "pay")
	require.NotNil(t, pay)
	check := stmts(pay)[0].(*moveast.ExprStmt).Expr.(*moveast.Call)
	require.Equal(t, "assert!", check.Name)
	wrapped := check.Args[1].(*moveast.Call)
	assert.Equal(t, "error", wrapped.Module)
	assert.Equal(t, "invalid_argument", wrapped.Name)
	assert.Equal(t, "E_ZERO_AMOUNT",
		wrapped.Args[0].(*moveast.Name).Ident)
}
