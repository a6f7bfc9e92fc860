package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

type stubResolver map[string]NameKind

func (r stubResolver) KindOfName(name string) NameKind { return r[name] }

func elem(name string) *solast.ElementaryTypeName {
	return &solast.ElementaryTypeName{Name: name}
}

func TestMapElementaryWidths(t *testing.T) {
	m := NewMapper(nil, Config{})

	tests := []struct {
		src      string
		move     string
		truncate int
	}{
		{"uint8", "u8", 0},
		{"uint16", "u16", 0},
		{"uint32", "u32", 0},
		{"uint64", "u64", 0},
		{"uint128", "u128", 0},
		{"uint256", "u256", 0},
		{"uint", "u256", 0},
		{"uint24", "u32", 24},
		{"uint40", "u64", 40},
		{"uint96", "u128", 96},
		{"uint200", "u256", 200},
	}
	for _, tt := range tests {
		mapped, issues := m.Map(elem(tt.src))
		assert.Empty(t, issues, tt.src)
		assert.Equal(t, tt.move, mapped.Move.TypeString(), tt.src)
		assert.Equal(t, tt.truncate, mapped.TruncateBits, tt.src)
	}
}

func TestMapSignedIntegerWarns(t *testing.T) {
	m := NewMapper(nil, Config{})
	mapped, issues := m.Map(elem("int256"))
	assert.Equal(t, "u256", mapped.Move.TypeString())
	assert.True(t, mapped.IsSigned)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "signed")
}

func TestMapAddressAndBool(t *testing.T) {
	m := NewMapper(nil, Config{})

	mapped, _ := m.Map(elem("address"))
	assert.Equal(t, "address", mapped.Move.TypeString())

	mapped, _ = m.Map(&solast.ElementaryTypeName{Name: "address", StateMutability: "payable"})
	assert.Equal(t, "address", mapped.Move.TypeString())

	mapped, _ = m.Map(elem("bool"))
	assert.Equal(t, "bool", mapped.Move.TypeString())
}

func TestMapStringRepresentations(t *testing.T) {
	m := NewMapper(nil, Config{})
	mapped, _ := m.Map(elem("string"))
	assert.Equal(t, "string::String", mapped.Move.TypeString())
	assert.True(t, mapped.IsString)

	m = NewMapper(nil, Config{StringRepr: StringReprRawBytes})
	mapped, _ = m.Map(elem("string"))
	assert.Equal(t, "vector<u8>", mapped.Move.TypeString())
}

func TestMapBytes(t *testing.T) {
	m := NewMapper(nil, Config{})

	mapped, issues := m.Map(elem("bytes32"))
	assert.Empty(t, issues)
	assert.Equal(t, "vector<u8>", mapped.Move.TypeString())
	assert.True(t, mapped.IsBytes)
	assert.Equal(t, "32", mapped.FixedLen)

	mapped, _ = m.Map(elem("bytes"))
	assert.True(t, mapped.IsBytes)
	assert.Empty(t, mapped.FixedLen)
}

func TestMapMappingBackings(t *testing.T) {
	src := &solast.Mapping{KeyType: elem("address"), ValueType: elem("uint256")}

	m := NewMapper(nil, Config{})
	mapped, issues := m.Map(src)
	assert.Empty(t, issues)
	assert.True(t, mapped.IsMap)
	assert.Equal(t, "table::Table<address, u256>", mapped.Move.TypeString())
	assert.Equal(t, "address", mapped.Key.Move.TypeString())

	m = NewMapper(nil, Config{MapBacking: BackingOrderedTable})
	mapped, _ = m.Map(src)
	assert.Equal(t, "ordered_map::OrderedMap<address, u256>", mapped.Move.TypeString())
}

func TestMapNestedMapping(t *testing.T) {
	src := &solast.Mapping{
		KeyType: elem("address"),
		ValueType: &solast.Mapping{
			KeyType:   elem("address"),
			ValueType: elem("uint256"),
		},
	}
	m := NewMapper(nil, Config{})
	mapped, issues := m.Map(src)
	assert.Empty(t, issues)
	assert.Equal(t, "table::Table<address, table::Table<address, u256>>", mapped.Move.TypeString())
	assert.True(t, mapped.Value.IsMap)
}

func TestMapRejectsContainerKeys(t *testing.T) {
	src := &solast.Mapping{
		KeyType:   &solast.ArrayTypeName{BaseTypeName: elem("uint8")},
		ValueType: elem("bool"),
	}
	m := NewMapper(nil, Config{})
	mapped, issues := m.Map(src)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "key")
	assert.Equal(t, "table::Table<u256, bool>", mapped.Move.TypeString())
}

func TestMapArrays(t *testing.T) {
	m := NewMapper(nil, Config{})

	mapped, issues := m.Map(&solast.ArrayTypeName{BaseTypeName: elem("uint64")})
	assert.Empty(t, issues)
	assert.True(t, mapped.IsVector)
	assert.Equal(t, "vector<u64>", mapped.Move.TypeString())

	mapped, _ = m.Map(&solast.ArrayTypeName{
		BaseTypeName: elem("address"),
		Length:       &solast.NumberLiteral{Number: "5"},
	})
	assert.Equal(t, "5", mapped.FixedLen)
}

func TestMapUserDefinedNames(t *testing.T) {
	resolver := stubResolver{
		"Order":  NameStruct,
		"Status": NameEnum,
		"IERC20": NameContract,
	}
	m := NewMapper(resolver, Config{})

	mapped, issues := m.Map(&solast.UserDefinedTypeName{NamePath: "Order"})
	assert.Empty(t, issues)
	assert.True(t, mapped.IsStruct)
	assert.Equal(t, "Order", mapped.Move.TypeString())

	mapped, _ = m.Map(&solast.UserDefinedTypeName{NamePath: "Status"})
	assert.True(t, mapped.IsEnum)
	assert.Equal(t, "Status", mapped.Move.TypeString())

	mapped, _ = m.Map(&solast.UserDefinedTypeName{NamePath: "IERC20"})
	assert.True(t, mapped.IsContract)
	assert.Equal(t, "address", mapped.Move.TypeString())
}

func TestEnumConstantsRepresentation(t *testing.T) {
	m := NewMapper(stubResolver{"Status": NameEnum}, Config{EnumRepr: EnumReprConstants})
	mapped, _ := m.Map(&solast.UserDefinedTypeName{NamePath: "Status"})
	assert.True(t, mapped.IsEnum)
	assert.Equal(t, "u8", mapped.Move.TypeString())
}

func TestUnknownTypeDegrades(t *testing.T) {
	m := NewMapper(nil, Config{})
	mapped, issues := m.Map(&solast.UserDefinedTypeName{NamePath: "Whatever"})
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "degraded to u256")
	assert.True(t, mapped.Unknown)
	assert.Equal(t, "u256", mapped.Move.TypeString())
}

func TestParseTypeString(t *testing.T) {
	tn, err := ParseTypeString("mapping(address => mapping(address => uint256))")
	require.NoError(t, err)
	outer, ok := tn.(*solast.Mapping)
	require.True(t, ok)
	assert.Equal(t, "address", outer.KeyType.(*solast.ElementaryTypeName).Name)
	inner, ok := outer.ValueType.(*solast.Mapping)
	require.True(t, ok)
	assert.Equal(t, "uint256", inner.ValueType.(*solast.ElementaryTypeName).Name)

	tn, err = ParseTypeString("uint8[4][]")
	require.NoError(t, err)
	dynamic, ok := tn.(*solast.ArrayTypeName)
	require.True(t, ok)
	assert.Nil(t, dynamic.Length)
	fixed, ok := dynamic.BaseTypeName.(*solast.ArrayTypeName)
	require.True(t, ok)
	require.NotNil(t, fixed.Length)
	assert.Equal(t, "4", fixed.Length.(*solast.NumberLiteral).Number)

	tn, err = ParseTypeString("address payable")
	require.NoError(t, err)
	assert.Equal(t, "payable", tn.(*solast.ElementaryTypeName).StateMutability)

	tn, err = ParseTypeString("MyLib.Order")
	require.NoError(t, err)
	assert.Equal(t, "MyLib.Order", tn.(*solast.UserDefinedTypeName).NamePath)

	_, err = ParseTypeString("mapping(")
	require.Error(t, err)
}

func TestDescriptorFallbackMatchesStructured(t *testing.T) {
	m := NewMapper(nil, Config{})

	structured, _ := m.Map(&solast.Mapping{KeyType: elem("address"), ValueType: elem("uint256")})
	fromString, issues := m.MapDescriptor("mapping(address => uint256)", solast.Position{})
	assert.Empty(t, issues)
	assert.Equal(t, structured.Move.TypeString(), fromString.Move.TypeString())

	v := &solast.VariableDeclaration{Name: "balances", TypeString: "mapping(address => uint256)"}
	mapped, _ := m.MapVariable(v)
	assert.True(t, mapped.IsMap)
}

func TestMaskLiteral(t *testing.T) {
	assert.Equal(t, "0xffffff", MaskLiteral(24))
	assert.Equal(t, "0xff", MaskLiteral(8))
	assert.Equal(t, "0x3fffff", MaskLiteral(22))
	assert.Equal(t, "0x1ffffffff", MaskLiteral(33))
	assert.Equal(t, "0x7f", MaskLiteral(7))
}
