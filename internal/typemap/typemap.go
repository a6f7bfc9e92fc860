// Package typemap maps Solidity type annotations to their Move
// representations. The mapping is pure: it never mutates its inputs and
// reports degradations as issue values instead of failing.
package typemap

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// NameKind classifies a user-defined type name within the contract being
// transpiled.
type NameKind int

const (
	NameUnknown NameKind = iota
	NameStruct
	NameEnum
	NameContract
	NameLibrary
)

// Resolver answers what a user-defined type name refers to. The transform
// layer backs it with the flattened contract's declaration tables.
type Resolver interface {
	KindOfName(name string) NameKind
}

// Config selects the representation choices that affect type mapping.
type Config struct {
	MapBacking string // hash-table or ordered-table
	StringRepr string // string or raw-bytes
	EnumRepr   string // native-variant or integer-constants
}

// Map backing and representation values, mirrored from the options surface.
const (
	BackingHashTable    = "hash-table"
	BackingOrderedTable = "ordered-table"
	StringReprString    = "string"
	StringReprRawBytes  = "raw-bytes"
	EnumReprNative      = "native-variant"
	EnumReprConstants   = "integer-constants"
)

// Mapped is the Move-side view of one source type, carrying the emitted
// type plus the metadata later passes key off: container shape, truncation
// mask width for non-standard integer widths, and user-type identity.
type Mapped struct {
	Move moveast.Type

	// TruncateBits is non-zero when the declared width is off the standard
	// ladder; every store and cast through the type masks with
	// ((1 << TruncateBits) - 1).
	TruncateBits int

	IsMap      bool
	Key, Value *Mapped

	IsVector bool
	Elem     *Mapped
	FixedLen string // decimal length for fixed-size arrays, empty otherwise

	IsStruct   bool
	StructName string
	IsEnum     bool
	EnumName   string
	IsContract bool
	IsString   bool
	IsBytes    bool
	IsSigned   bool
	Unknown    bool
}

// Issue is a degradation notice produced while mapping; all issues are
// warnings at the result level.
type Issue struct {
	Pos     solast.Position
	Message string
}

// Mapper maps type annotations under one contract's name tables.
type Mapper struct {
	resolver Resolver
	cfg      Config
}

// NewMapper builds a mapper. A nil resolver treats every user-defined name
// as unknown.
func NewMapper(resolver Resolver, cfg Config) *Mapper {
	if cfg.MapBacking == "" {
		cfg.MapBacking = BackingHashTable
	}
	if cfg.StringRepr == "" {
		cfg.StringRepr = StringReprString
	}
	if cfg.EnumRepr == "" {
		cfg.EnumRepr = EnumReprNative
	}
	return &Mapper{resolver: resolver, cfg: cfg}
}

var intTypeRe = regexp.MustCompile(`^(u?)int([0-9]*)$`)
var bytesTypeRe = regexp.MustCompile(`^bytes([0-9]+)$`)

// Map converts a type annotation. A nil annotation with a non-empty
// descriptor string goes through the descriptor grammar; when nothing is
// recoverable the type degrades to u256 with an issue.
func (m *Mapper) Map(tn solast.TypeName) (*Mapped, []Issue) {
	if tn == nil {
		return m.degrade(solast.Position{}, "missing type annotation")
	}
	switch t := tn.(type) {
	case *solast.ElementaryTypeName:
		return m.mapElementary(t)
	case *solast.UserDefinedTypeName:
		return m.mapUserDefined(t)
	case *solast.Mapping:
		return m.mapMapping(t)
	case *solast.ArrayTypeName:
		return m.mapArray(t)
	case *solast.FunctionTypeName:
		return m.degrade(t.Pos, "function-typed values have no Move representation")
	}
	return m.degrade(tn.NodePos(), fmt.Sprintf("unsupported type annotation %s", tn.NodeType()))
}

// MapDescriptor maps a type-descriptor string, the fallback for inputs that
// carry no structured annotation.
func (m *Mapper) MapDescriptor(s string, pos solast.Position) (*Mapped, []Issue) {
	tn, err := ParseTypeString(s)
	if err != nil {
		return m.degrade(pos, fmt.Sprintf("unparseable type descriptor %q", s))
	}
	return m.Map(tn)
}

// MapVariable maps a declared variable, preferring the structured
// annotation and falling back to the descriptor string.
func (m *Mapper) MapVariable(v *solast.VariableDeclaration) (*Mapped, []Issue) {
	if v.TypeName != nil {
		return m.Map(v.TypeName)
	}
	if v.TypeString != "" {
		return m.MapDescriptor(v.TypeString, v.Pos)
	}
	return m.degrade(v.Pos, fmt.Sprintf("variable %q carries no type information", v.Name))
}

func (m *Mapper) mapElementary(t *solast.ElementaryTypeName) (*Mapped, []Issue) {
	name := t.Name
	switch name {
	case "bool":
		return &Mapped{Move: moveast.Bool()}, nil
	case "address":
		return &Mapped{Move: moveast.Address()}, nil
	case "string":
		mapped := &Mapped{IsString: true}
		if m.cfg.StringRepr == StringReprRawBytes {
			mapped.Move = moveast.Vector(moveast.U8())
		} else {
			mapped.Move = moveast.Qualified("string", "String")
		}
		return mapped, nil
	case "bytes":
		return &Mapped{Move: moveast.Vector(moveast.U8()), IsBytes: true}, nil
	}
	if match := intTypeRe.FindStringSubmatch(name); match != nil {
		width := 256
		if match[2] != "" {
			width, _ = strconv.Atoi(match[2])
		}
		mapped := &Mapped{Move: moveast.UnsignedInt(nextStandardWidth(width))}
		var issues []Issue
		if !standardWidth(width) {
			mapped.TruncateBits = width
		}
		if match[1] == "" {
			mapped.IsSigned = true
			issues = append(issues, Issue{Pos: t.Pos, Message: fmt.Sprintf(
				"signed type %s mapped to %s; negative values are not representable", name, mapped.Move.TypeString())})
		}
		return mapped, issues
	}
	if match := bytesTypeRe.FindStringSubmatch(name); match != nil {
		return &Mapped{Move: moveast.Vector(moveast.U8()), IsBytes: true, FixedLen: match[1]}, nil
	}
	return m.degrade(t.Pos, fmt.Sprintf("unknown elementary type %q", name))
}

func (m *Mapper) mapUserDefined(t *solast.UserDefinedTypeName) (*Mapped, []Issue) {
	kind := NameUnknown
	if m.resolver != nil {
		kind = m.resolver.KindOfName(t.NamePath)
	}
	switch kind {
	case NameStruct:
		return &Mapped{Move: &moveast.TypeName{Name: t.NamePath}, IsStruct: true, StructName: t.NamePath}, nil
	case NameEnum:
		mapped := &Mapped{IsEnum: true, EnumName: t.NamePath}
		if m.cfg.EnumRepr == EnumReprConstants {
			mapped.Move = moveast.U8()
		} else {
			mapped.Move = &moveast.TypeName{Name: t.NamePath}
		}
		return mapped, nil
	case NameContract, NameLibrary:
		// a contract-typed value is its account address
		return &Mapped{Move: moveast.Address(), IsContract: true}, nil
	}
	return m.degrade(t.Pos, fmt.Sprintf("unknown type %q", t.NamePath))
}

func (m *Mapper) mapMapping(t *solast.Mapping) (*Mapped, []Issue) {
	key, issues := m.Map(t.KeyType)
	value, valueIssues := m.Map(t.ValueType)
	issues = append(issues, valueIssues...)
	if key.IsMap || key.IsVector || key.IsStruct {
		issues = append(issues, Issue{Pos: t.Pos, Message: "container-typed map keys are not supported; key degraded to u256"})
		key = &Mapped{Move: moveast.U256(), Unknown: true}
	}
	mapped := &Mapped{IsMap: true, Key: key, Value: value}
	if m.cfg.MapBacking == BackingOrderedTable {
		mapped.Move = moveast.Qualified("ordered_map", "OrderedMap", key.Move, value.Move)
	} else {
		mapped.Move = moveast.Qualified("table", "Table", key.Move, value.Move)
	}
	return mapped, issues
}

func (m *Mapper) mapArray(t *solast.ArrayTypeName) (*Mapped, []Issue) {
	elem, issues := m.Map(t.BaseTypeName)
	mapped := &Mapped{Move: moveast.Vector(elem.Move), IsVector: true, Elem: elem}
	if t.Length != nil {
		if lit, ok := t.Length.(*solast.NumberLiteral); ok {
			mapped.FixedLen = lit.Number
		} else {
			issues = append(issues, Issue{Pos: t.Pos, Message: "non-literal array length treated as dynamic"})
		}
	}
	return mapped, issues
}

func (m *Mapper) degrade(pos solast.Position, msg string) (*Mapped, []Issue) {
	return &Mapped{Move: moveast.U256(), Unknown: true},
		[]Issue{{Pos: pos, Message: msg + "; degraded to u256"}}
}

func standardWidth(bits int) bool {
	switch bits {
	case 8, 16, 32, 64, 128, 256:
		return true
	}
	return false
}

func nextStandardWidth(bits int) int {
	for _, w := range []int{8, 16, 32, 64, 128, 256} {
		if bits <= w {
			return w
		}
	}
	return 256
}

// MaskLiteral returns the (1<<bits)-1 truncation mask spelling for a
// non-standard width, in hex.
func MaskLiteral(bits int) string {
	digits := (bits + 3) / 4
	mask := make([]byte, 0, digits+2)
	mask = append(mask, '0', 'x')
	rem := bits % 4
	if rem != 0 {
		mask = append(mask, "137f"[rem-1])
	}
	for i := 0; i < bits/4; i++ {
		mask = append(mask, 'f')
	}
	return string(mask)
}
