// Package moveast models the target module surface produced by the
// transpiler: one Move module per source contract, with uses, friends,
// struct/resource declarations, constants and functions. The tree is the
// hand-off format for the external pretty-printer; this package never
// renders Move syntax.
package moveast

// Ability names as they appear in `has` clauses.
const (
	AbilityCopy  = "copy"
	AbilityDrop  = "drop"
	AbilityStore = "store"
	AbilityKey   = "key"
)

// Function visibility as it appears in the output.
const (
	VisPrivate = "private"
	VisPublic  = "public"
	VisFriend  = "public(friend)"
)

// Module is one complete output module.
type Module struct {
	Address   string // named address the module publishes under
	Name      string
	Uses      []*Use
	Friends   []string
	Structs   []*Struct
	Enums     []*Enum
	Constants []*Constant
	Functions []*Function
}

// Use is a single `use` declaration. Alias is empty for the plain form.
// Example: use aptos_std::table::{Self, Table};
type Use struct {
	Path    string
	Members []string
	Alias   string
}

// Enum is a native variant type with unit variants only; source enums are
// closed sets of tags, so no variant carries fields.
type Enum struct {
	Name      string
	Abilities []string
	Variants  []string
	Doc       string
}

// Struct is a record type; resources carry the key ability and event
// payloads carry the event attribute.
type Struct struct {
	Name      string
	Abilities []string
	IsEvent   bool
	Fields    []*Field
	Doc       string
}

// Field is one struct field.
type Field struct {
	Name string
	Type Type
}

// Constant is a module-level `const`.
type Constant struct {
	Name  string
	Type  Type
	Value Expr
	Doc   string
}

// Function is one function declaration. Acquires lists resource type names
// for the `acquires` clause; it stays empty when the emission style leaves
// the clause to the target compiler.
type Function struct {
	Name       string
	Visibility string
	IsEntry    bool
	IsView     bool
	IsInline   bool
	Params     []*Param
	Results    []Type
	Acquires   []string
	Body       *Block
	Doc        string
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Type
}
