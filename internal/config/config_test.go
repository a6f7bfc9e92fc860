package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsAreValid(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	assert.Equal(t, TierLow, opts.OptimizationTier)
	assert.Equal(t, GuardMutex, opts.ReentrancyGuard)
	assert.Equal(t, BackingHashTable, opts.MapBacking)
	assert.Equal(t, DeployDirect, opts.ConstructorPattern)
	assert.Equal(t, "caller", opts.AuthorityParam)
	assert.Equal(t, 64, opts.ErrorCodeWidth)
	assert.False(t, opts.Strict)
}

func TestDecodeLayersOverDefaults(t *testing.T) {
	opts, err := Decode(map[string]any{
		"address":             "vault_addr",
		"optimization-tier":   "high",
		"strict":              true,
		"map-backing":         "ordered-table",
		"constructor-pattern": "resource-account",
		"event-style":         "none",
	})
	require.NoError(t, err)

	assert.Equal(t, "vault_addr", opts.Address)
	assert.Equal(t, TierHigh, opts.OptimizationTier)
	assert.True(t, opts.Strict)
	assert.Equal(t, BackingOrderedMap, opts.MapBacking)
	assert.Equal(t, DeployResourceAccount, opts.ConstructorPattern)
	assert.Equal(t, EventNone, opts.EventStyle)

	// Untouched options keep their defaults
	assert.Equal(t, GuardMutex, opts.ReentrancyGuard)
	assert.Equal(t, StringUTF8, opts.StringRepr)
}

func TestDecodeRejectsBadEnumValue(t *testing.T) {
	_, err := Decode(map[string]any{
		"optimization-tier": "extreme",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OptimizationTier")
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	_, err := Decode(map[string]any{
		"optimisation-tier": "low",
	})
	require.Error(t, err)
}

func TestDecodeRejectsBadErrorCodeWidth(t *testing.T) {
	_, err := Decode(map[string]any{
		"error-code-width": 48,
	})
	require.Error(t, err)
}

func TestValidateRequiresAddress(t *testing.T) {
	opts := DefaultOptions()
	opts.Address = ""
	require.Error(t, opts.Validate())
}
