package transform

import (
	"math/big"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

var maxU64 = new(big.Int).SetUint64(^uint64(0))

// intWidth extracts the bit width of a mapped unsigned integer type, zero
// for anything else.
func intWidth(m *typemap.Mapped) int {
	if m == nil || m.IsEnum || m.IsVector || m.IsMap || m.IsStruct || m.IsString || m.IsBytes {
		return 0
	}
	switch m.Move.TypeString() {
	case "u8":
		return 8
	case "u16":
		return 16
	case "u32":
		return 32
	case "u64":
		return 64
	case "u128":
		return 128
	case "u256":
		return 256
	}
	return 0
}

// declaredWidth is the source-declared width: the truncation width when the
// declaration was off the standard ladder, the mapped width otherwise.
func declaredWidth(m *typemap.Mapped) int {
	if m == nil {
		return 0
	}
	if m.TruncateBits != 0 {
		return m.TruncateBits
	}
	return intWidth(m)
}

// isAddress reports whether a mapped type is the address primitive.
func isAddress(m *typemap.Mapped) bool {
	return m != nil && !m.IsEnum && m.Move.TypeString() == "address"
}

// isBool reports whether a mapped type is the bool primitive.
func isBool(m *typemap.Mapped) bool {
	return m != nil && !m.IsEnum && m.Move.TypeString() == "bool"
}

// zeroValue builds the default value of a mapped type, the value a source
// program observes for never-written storage.
func (t *Transformer) zeroValue(m *typemap.Mapped) moveast.Expr {
	return t.zeroValueDepth(m, 0)
}

func (t *Transformer) zeroValueDepth(m *typemap.Mapped, depth int) moveast.Expr {
	if m == nil || depth > 8 {
		return moveast.IntOf(0)
	}
	switch {
	case m.IsMap:
		if t.opts.MapBacking == config.BackingOrderedMap {
			return t.mod("ordered_map", "new")
		}
		return t.mod("table", "new")
	case m.IsBytes:
		return &moveast.ByteStringLit{Hex: true}
	case m.IsString:
		if t.opts.StringRepr == config.StringBytes {
			return &moveast.ByteStringLit{}
		}
		return t.mod("string", "utf8", &moveast.ByteStringLit{})
	case m.IsVector:
		elem := moveast.Type(moveast.U256())
		if m.Elem != nil {
			elem = m.Elem.Move
		}
		return t.modT("vector", "empty", []moveast.Type{elem})
	case m.IsEnum:
		return t.enumZero(m.EnumName)
	case m.IsStruct:
		return t.structZero(m.StructName, depth)
	case isAddress(m):
		return &moveast.AddressLit{Value: "0x0"}
	case isBool(m):
		return moveast.BoolOf(false)
	default:
		return moveast.IntOf(0)
	}
}

// enumZero is the first declared variant, matching the source default.
func (t *Transformer) enumZero(name string) moveast.Expr {
	def := t.decls.enumDef(name)
	if def == nil || len(def.Members) == 0 {
		return moveast.IntOf(0)
	}
	if t.opts.EnumRepr == config.EnumConstants {
		return moveast.NameOf(enumConstName(name, def.Members[0]))
	}
	return &moveast.VariantRef{Enum: name, Variant: def.Members[0]}
}

func (t *Transformer) structZero(name string, depth int) moveast.Expr {
	def := t.decls.structDef(name)
	if def == nil {
		return moveast.IntOf(0)
	}
	lit := &moveast.StructLit{Name: def.Name}
	for _, field := range def.Fields {
		m, _ := t.mapper.Map(field.Type)
		lit.Fields = append(lit.Fields, moveast.FieldInit{
			Name:  snakeName(field.Name),
			Value: t.zeroValueDepth(m, depth+1),
		})
	}
	return lit
}

// enumConstName spells the module constant for one enum member under the
// integer-constants representation.
// Example: enumConstName("Status", "Active") == "STATUS_ACTIVE"
func enumConstName(enum, member string) string {
	return screamingName(enum) + "_" + screamingName(member)
}

func screamingName(name string) string {
	return strings.ToUpper(snakeName(name))
}

// maskFor returns the truncation mask literal for a mapped type, nil when
// the type needs no masking.
func maskFor(m *typemap.Mapped) *moveast.IntLit {
	if m == nil || m.TruncateBits == 0 {
		return nil
	}
	return moveast.Int(typemap.MaskLiteral(m.TruncateBits))
}

// truncate masks a value down to its declared width when the width is off
// the standard ladder.
func truncate(e moveast.Expr, m *typemap.Mapped) moveast.Expr {
	mask := maskFor(m)
	if mask == nil {
		return e
	}
	return moveast.Bin("&", e, mask)
}

// parseNumber evaluates a source number literal: decimal, hex, scientific
// notation and underscore separators, times any subdenomination suffix.
func parseNumber(lit *solast.NumberLiteral) (*big.Int, bool) {
	text := strings.ReplaceAll(lit.Number, "_", "")
	value, ok := parseNumberText(text)
	if !ok {
		return nil, false
	}
	if lit.Subdenomination != "" {
		factor, known := builtins.SubdenominationFactor(lit.Subdenomination)
		if !known {
			return nil, false
		}
		value.Mul(value, factor)
	}
	return value, true
}

func parseNumberText(text string) (*big.Int, bool) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		value, ok := new(big.Int).SetString(text[2:], 16)
		return value, ok
	}
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		mantissa, ok := parseDecimal(text[:i])
		if !ok {
			return nil, false
		}
		exp, ok := new(big.Int).SetString(text[i+1:], 10)
		if !ok || exp.Sign() < 0 || !exp.IsUint64() || exp.Uint64() > 100 {
			return nil, false
		}
		scale := new(big.Int).Exp(big.NewInt(10), exp, nil)
		return mantissa.Mul(mantissa, scale), true
	}
	return parseDecimal(text)
}

func parseDecimal(text string) (*big.Int, bool) {
	if strings.Contains(text, ".") {
		return nil, false
	}
	return new(big.Int).SetString(text, 10)
}

// isHexSpelling reports whether a source literal was written in hex.
func isHexSpelling(text string) bool {
	return strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
}

// intLiteral spells a folded value as an output literal, suffixing the
// width whenever the value exceeds the default inference width or the
// spelling alone would be ambiguous.
func intLiteral(value *big.Int, width int) *moveast.IntLit {
	if value.Cmp(maxU64) > 0 {
		suffix := "u256"
		if width == 128 {
			suffix = "u128"
		}
		return moveast.SuffixedInt(value.String(), suffix)
	}
	return moveast.Int(value.String())
}

// twosComplement wraps a negative value into the given width.
func twosComplement(value *big.Int, width int) *big.Int {
	if width == 0 {
		width = 256
	}
	modulus := new(big.Int).Lsh(big.NewInt(1), uint(width))
	wrapped := new(big.Int).Mod(value, modulus)
	if wrapped.Sign() < 0 {
		wrapped.Add(wrapped, modulus)
	}
	return wrapped
}

// widthMask masks a value to a bit width in place and returns it.
func widthMask(value *big.Int, width int) *big.Int {
	if width <= 0 || width > 256 {
		width = 256
	}
	mask := new(big.Int).Lsh(big.NewInt(1), uint(width))
	mask.Sub(mask, big.NewInt(1))
	return value.And(value, mask)
}
