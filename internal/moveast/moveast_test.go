package moveast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	table := Qualified("table", "Table", Address(), U256())
	assert.Equal(t, "table::Table<address, u256>", table.TypeString())
	assert.Equal(t, "&mut State", MutRef(&TypeName{Name: "State"}).TypeString())
	assert.Equal(t, "&signer", Ref(Signer()).TypeString())
	assert.Equal(t, "vector<u8>", Vector(U8()).TypeString())
	assert.Equal(t, "(u64, bool)", (&TupleType{Elems: []Type{U64(), Bool()}}).TypeString())
}

func TestUnsignedIntLadder(t *testing.T) {
	assert.Equal(t, "u8", UnsignedInt(8).TypeString())
	assert.Equal(t, "u128", UnsignedInt(128).TypeString())
	// anything off the ladder falls back to the widest type
	assert.Equal(t, "u256", UnsignedInt(24).TypeString())
	assert.Equal(t, "u256", UnsignedInt(0).TypeString())
}

func TestSeqSkipsNil(t *testing.T) {
	b := Seq(LetOf("x", IntOf(1)), nil, StmtOf(NameOf("x")))
	require.Len(t, b.Stmts, 2)
}

func TestEncodeJSONTagsNodes(t *testing.T) {
	m := &Module{
		Address: "self",
		Name:    "counter",
		Uses:    []*Use{{Path: "std::signer"}},
		Functions: []*Function{{
			Name:       "increment",
			Visibility: VisPublic,
			IsEntry:    true,
			Params:     []*Param{{Name: "caller", Type: Ref(Signer())}},
			Acquires:   []string{"State"},
			Body: Seq(
				LetOf("addr", CallMod("signer", "address_of", NameOf("caller"))),
			),
		}},
	}

	data, err := m.EncodeJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Module", decoded["node"])
	assert.Equal(t, "counter", decoded["name"])

	fns, ok := decoded["functions"].([]any)
	require.True(t, ok)
	require.Len(t, fns, 1)
	fn := fns[0].(map[string]any)
	assert.Equal(t, "Function", fn["node"])
	assert.Equal(t, true, fn["isEntry"])

	params := fn["params"].([]any)
	param := params[0].(map[string]any)
	ptype := param["type"].(map[string]any)
	assert.Equal(t, "RefType", ptype["node"])
}
