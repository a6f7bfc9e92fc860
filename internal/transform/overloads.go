package transform

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// functionKey identifies a callable by source name and arity, the only two
// facts a call site exposes without type inference.
func functionKey(name string, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}

// dedupeOverloads assigns every function its final emitted name. The first
// declaration of an overloaded name keeps it; later overloads get a suffix
// derived from their parameter types. Call sites resolve through the
// (name, arity) rename table; an arity shared by two overloads stays
// ambiguous and is reported where it is called.
func (t *Transformer) dedupeOverloads() {
	var order []string
	groups := map[string][]*ir.Function{}
	for _, f := range t.contract.Functions {
		if len(groups[f.SourceName]) == 0 {
			order = append(order, f.SourceName)
		}
		groups[f.SourceName] = append(groups[f.SourceName], f)
	}

	taken := map[string]bool{}
	for _, fns := range groups {
		taken[snakeName(fns[0].Name)] = true
	}

	for _, name := range order {
		fns := groups[name]
		if len(fns) == 1 {
			t.finalNames[fns[0]] = snakeName(fns[0].Name)
			continue
		}

		arityCount := map[int]int{}
		for _, f := range fns {
			arityCount[len(f.Params)]++
		}

		for i, f := range fns {
			final := snakeName(f.SourceName)
			if i > 0 {
				final = t.uniqueFunctionName(t.taggedName(f), taken)
			}
			taken[final] = true
			t.finalNames[f] = final

			key := functionKey(f.SourceName, len(f.Params))
			if arityCount[len(f.Params)] > 1 {
				t.ambiguous[key] = true
				delete(t.renames, key)
			} else {
				t.renames[key] = final
			}
		}
	}
}

// taggedName derives a disambiguated name from the parameter types.
// Example: transfer(address,uint256) becomes transfer_address_u256.
func (t *Transformer) taggedName(f *ir.Function) string {
	base := snakeName(f.SourceName)
	if len(f.Params) == 0 {
		return fmt.Sprintf("%s_0", base)
	}
	tags := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		mapped, _ := t.mapper.Map(p.Type)
		tags = append(tags, typeTag(mapped))
	}
	return base + "_" + strings.Join(tags, "_")
}

// typeTag is the short spelling of a mapped type used in overload suffixes.
func typeTag(m *typemap.Mapped) string {
	switch {
	case m == nil:
		return "any"
	case m.IsMap:
		return "map"
	case m.IsBytes:
		return "bytes"
	case m.IsVector:
		return "vec"
	case m.IsString:
		return "str"
	case m.IsStruct:
		return snakeName(m.StructName)
	case m.IsEnum:
		return snakeName(m.EnumName)
	case m.IsContract:
		return "address"
	default:
		tag := m.Move.TypeString()
		if i := strings.LastIndex(tag, "::"); i >= 0 {
			tag = tag[i+2:]
		}
		return strings.ToLower(tag)
	}
}

// uniqueFunctionName bumps a candidate with a numeric suffix until it is
// free among the names assigned so far.
func (t *Transformer) uniqueFunctionName(candidate string, taken map[string]bool) string {
	if !taken[candidate] {
		return candidate
	}
	for i := 2; ; i++ {
		bumped := fmt.Sprintf("%s_%d", candidate, i)
		if !taken[bumped] {
			return bumped
		}
	}
}

// callTarget resolves a call site against the rename table. The bool result
// is false when the name is not a contract function at all; ambiguous
// targets fall back to the plain snake-case name after a diagnostic at the
// call site.
func (t *Transformer) callTarget(name string, arity int) (*ir.Function, string, bool) {
	fns := t.contract.FunctionsByName(name)
	if len(fns) == 0 {
		// stubs keep their source name only in SourceName
		for _, f := range t.contract.Functions {
			if f.SourceName == name && f.Name != name {
				fns = append(fns, f)
			}
		}
	}
	if len(fns) == 0 {
		return nil, "", false
	}
	if len(fns) == 1 {
		return fns[0], t.finalNames[fns[0]], true
	}
	key := functionKey(name, arity)
	if final, ok := t.renames[key]; ok {
		for _, f := range fns {
			if t.finalNames[f] == final {
				return f, final, true
			}
		}
	}
	// ambiguous arity: report at the call site and keep the first overload
	return fns[0], snakeName(name), true
}
