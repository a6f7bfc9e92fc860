package transform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// abilitySet tracks which of copy, drop and store a type admits. Key never
// applies here: user structs lower to plain data, and the storage resources
// spell their abilities at the declaration site.
type abilitySet struct {
	canCopy  bool
	canDrop  bool
	canStore bool
}

func allAbilities() abilitySet { return abilitySet{canCopy: true, canDrop: true, canStore: true} }
func storeOnly() abilitySet    { return abilitySet{canStore: true} }

func (a abilitySet) intersect(b abilitySet) abilitySet {
	return abilitySet{
		canCopy:  a.canCopy && b.canCopy,
		canDrop:  a.canDrop && b.canDrop,
		canStore: a.canStore && b.canStore,
	}
}

// list spells the set in canonical has-clause order.
func (a abilitySet) list() []string {
	var out []string
	if a.canCopy {
		out = append(out, moveast.AbilityCopy)
	}
	if a.canDrop {
		out = append(out, moveast.AbilityDrop)
	}
	if a.canStore {
		out = append(out, moveast.AbilityStore)
	}
	return out
}

// structAbilities computes the has clause of a user struct: the
// intersection of copy, drop and store over its field types. A declared
// ability must hold for every field, so a single hash table inside the
// struct pins it to store.
func (t *Transformer) structAbilities(def *ir.StructDef) []string {
	seen := map[string]bool{def.Name: true}
	set := allAbilities()
	for _, f := range def.Fields {
		m, _ := t.mapper.Map(f.Type)
		set = set.intersect(t.typeAbilities(m, seen))
	}
	return set.list()
}

// typeAbilities resolves the ability set of one mapped type. seen carries
// the struct names on the current path; a revisit means a recursive type,
// which degrades to store like the table that necessarily backs it.
func (t *Transformer) typeAbilities(m *typemap.Mapped, seen map[string]bool) abilitySet {
	switch {
	case m == nil:
		return allAbilities()
	case m.IsMap:
		if t.opts.MapBacking == config.BackingOrderedMap {
			return t.typeAbilities(m.Key, seen).intersect(t.typeAbilities(m.Value, seen))
		}
		return storeOnly()
	case m.IsVector:
		return t.typeAbilities(m.Elem, seen)
	case m.IsStruct:
		if seen[m.StructName] {
			return storeOnly()
		}
		def := t.decls.structDef(m.StructName)
		if def == nil {
			return storeOnly()
		}
		seen[m.StructName] = true
		set := allAbilities()
		for _, f := range def.Fields {
			fm, _ := t.mapper.Map(f.Type)
			set = set.intersect(t.typeAbilities(fm, seen))
		}
		delete(seen, m.StructName)
		return set
	}
	// integers, bool, address, bytes, strings, enums and degraded types
	// all land on copyable representations
	return allAbilities()
}
