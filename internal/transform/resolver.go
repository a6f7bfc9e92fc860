package transform

import (
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// declTable answers name lookups against the flattened contract plus the
// sibling contracts of the same batch. It backs the type mapper's resolver
// and the rewriter's struct, enum and library lookups.
type declTable struct {
	contract *ir.Contract
	known    ir.Registry

	structs map[string]*ir.StructDef
	enums   map[string]*ir.EnumDef

	// enumOrdinals maps enum name to member name to declaration order, for
	// the integer-constants enum representation.
	enumOrdinals map[string]map[string]int
}

func newDeclTable(contract *ir.Contract, known ir.Registry) *declTable {
	d := &declTable{
		contract:     contract,
		known:        known,
		structs:      map[string]*ir.StructDef{},
		enums:        map[string]*ir.EnumDef{},
		enumOrdinals: map[string]map[string]int{},
	}
	for _, s := range contract.Structs {
		d.structs[s.Name] = s
	}
	for _, e := range contract.Enums {
		d.enums[e.Name] = e
		ordinals := map[string]int{}
		for i, member := range e.Members {
			ordinals[member] = i
		}
		d.enumOrdinals[e.Name] = ordinals
	}
	return d
}

// KindOfName classifies a user-defined type name. Qualified names keep only
// the last path segment; the qualifier is the declaring contract, which
// flattening already merged.
func (d *declTable) KindOfName(name string) typemap.NameKind {
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[i+1:]
	}
	if _, ok := d.structs[base]; ok {
		return typemap.NameStruct
	}
	if _, ok := d.enums[base]; ok {
		return typemap.NameEnum
	}
	if base == d.contract.Name {
		return typemap.NameContract
	}
	if d.known != nil {
		if sibling, ok := d.known[base]; ok {
			if sibling.IsLibrary() {
				return typemap.NameLibrary
			}
			return typemap.NameContract
		}
	}
	return typemap.NameUnknown
}

// structDef returns the declaration of a struct name, nil when unknown.
func (d *declTable) structDef(name string) *ir.StructDef {
	base := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[i+1:]
	}
	return d.structs[base]
}

// enumDef returns the declaration of an enum name, nil when unknown.
func (d *declTable) enumDef(name string) *ir.EnumDef {
	return d.enums[name]
}

// enumOrdinal returns a member's declaration index within its enum.
func (d *declTable) enumOrdinal(enum, member string) (int, bool) {
	ordinals, ok := d.enumOrdinals[enum]
	if !ok {
		return 0, false
	}
	ordinal, ok := ordinals[member]
	return ordinal, ok
}

// isEnumName reports whether name declares an enum in this contract.
func (d *declTable) isEnumName(name string) bool {
	_, ok := d.enums[name]
	return ok
}

// library returns a sibling library contract by name.
func (d *declTable) library(name string) *ir.Contract {
	if d.known == nil {
		return nil
	}
	sibling, ok := d.known[name]
	if !ok || !sibling.IsLibrary() {
		return nil
	}
	return sibling
}

// libraryFunction reports whether a sibling library declares a function
// with the given source name.
func (d *declTable) libraryFunction(lib, fn string) bool {
	sibling := d.library(lib)
	if sibling == nil {
		return false
	}
	return len(sibling.FunctionsByName(fn)) > 0
}

// attachedLibraries returns the libraries bound to a mapped type through
// using-for directives, in declaration order. A directive over the wildcard
// type binds to everything.
func (t *Transformer) attachedLibraries(m *typemap.Mapped) []string {
	if len(t.contract.UsingFor) == 0 {
		return nil
	}
	var libs []string
	for _, uf := range t.contract.UsingFor {
		if uf.Type == nil || t.typeMatches(m, uf.Type) {
			libs = append(libs, uf.Library)
		}
	}
	return libs
}

// typeMatches reports whether a mapped type corresponds to the source type
// named by a using-for directive.
func (t *Transformer) typeMatches(m *typemap.Mapped, tn solast.TypeName) bool {
	if m == nil {
		return false
	}
	target, _ := t.mapper.Map(tn)
	if target == nil || target.Unknown {
		return false
	}
	return target.Move.TypeString() == m.Move.TypeString()
}
