package ir

// This file defines the intermediate contract record. The IR is deliberately
// flat: declaration-level structure is lifted out of the syntax tree, while
// statement and expression bodies stay as decoded nodes so the rewrite
// passes can match on them exhaustively.

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// Mutability of a state variable.
type Mutability int

const (
	Mutable Mutability = iota
	Immutable
	Constant
)

func (m Mutability) String() string {
	switch m {
	case Immutable:
		return "immutable"
	case Constant:
		return "constant"
	default:
		return "mutable"
	}
}

// Contract is the flat record for one contract, interface or library. After
// flattening it also carries everything merged down from its parents.
type Contract struct {
	Name        string
	Kind        string // contract, abstract, interface, library
	Parents     []string
	ParentArgs  map[string][]solast.Expression // constructor args fixed at the inheritance site
	Pragmas     []*Pragma
	StateVars   []*StateVar
	Constructor *Function
	// ConstructorFrom names the contract that contributed Constructor;
	// it differs from Name when the constructor was inherited.
	ConstructorFrom string
	Functions       []*Function
	Modifiers   []*Modifier
	Events      []*Event
	Errors      []*ErrorDef
	Structs     []*StructDef
	Enums       []*EnumDef
	UsingFor    []*UsingFor
	Pos         solast.Position
}

// IsLibrary and IsInterface report the contract kind.
func (c *Contract) IsLibrary() bool   { return c.Kind == solast.KindLibrary }
func (c *Contract) IsInterface() bool { return c.Kind == solast.KindInterface }
func (c *Contract) IsAbstract() bool  { return c.Kind == solast.KindAbstract }

// StateVarByName returns the named state variable, or nil.
func (c *Contract) StateVarByName(name string) *StateVar {
	for _, v := range c.StateVars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// FunctionsByName returns every function sharing the given source name;
// overloads make this a list.
func (c *Contract) FunctionsByName(name string) []*Function {
	var out []*Function
	for _, f := range c.Functions {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}

// ModifierByName returns the named modifier, or nil.
func (c *Contract) ModifierByName(name string) *Modifier {
	for _, m := range c.Modifiers {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Pragma is one pragma directive attached to the compilation unit.
type Pragma struct {
	Name  string
	Value string
	Pos   solast.Position
}

// StateVar is one declared state variable. The type stays as the decoded
// annotation; mapping to the target type happens later so that the record
// is independent of representation options.
type StateVar struct {
	Name       string
	Type       solast.TypeName
	TypeString string
	Visibility string
	Mutability Mutability
	Initial    solast.Expression
	Pos        solast.Position
}

// Param is one function, event or error parameter.
type Param struct {
	Name string
	Type solast.TypeName
	Pos  solast.Position
}

// ModifierCall is one modifier attached to a function.
type ModifierCall struct {
	Name string
	Args []solast.Expression // nil when written without parentheses
	Pos  solast.Position
}

// Function is one function with its body still in source form. Overload
// resolution may rename it; SourceName keeps the original spelling for
// call-site rewriting and diagnostics.
type Function struct {
	Name          string
	SourceName    string
	Visibility    string
	Mutability    string // "", view, pure, payable
	Params        []*Param
	Returns       []*Param // named or positional
	Modifiers     []*ModifierCall
	Body          *solast.Block // nil for unimplemented functions
	IsVirtual     bool
	IsOverride    bool
	IsConstructor bool
	Pos           solast.Position
}

// IsPublic reports whether the function is externally callable.
func (f *Function) IsPublic() bool {
	return f.Visibility == solast.VisibilityPublic ||
		f.Visibility == solast.VisibilityExternal ||
		f.Visibility == solast.VisibilityDefault
}

// IsViewLike reports whether the function promises not to write state.
func (f *Function) IsViewLike() bool {
	return f.Mutability == solast.MutabilityView || f.Mutability == solast.MutabilityPure
}

// HasNamedReturns reports whether any return slot is named.
func (f *Function) HasNamedReturns() bool {
	for _, r := range f.Returns {
		if r.Name != "" {
			return true
		}
	}
	return false
}

// Modifier is one declared modifier body.
type Modifier struct {
	Name   string
	Params []*Param
	Body   *solast.Block
	Pos    solast.Position
}

// EventParam is one event parameter; indexed parameters matter to source
// semantics but collapse in the target event encoding.
type EventParam struct {
	Name    string
	Type    solast.TypeName
	Indexed bool
	Pos     solast.Position
}

// Event is one declared event.
type Event struct {
	Name   string
	Params []*EventParam
	Pos    solast.Position
}

// ErrorDef is one declared custom error.
type ErrorDef struct {
	Name   string
	Params []*Param
	Pos    solast.Position
}

// StructDef is one user struct type.
type StructDef struct {
	Name   string
	Fields []*Param
	Pos    solast.Position
}

// EnumDef is one enum with its member names in declaration order.
type EnumDef struct {
	Name    string
	Members []string
	Pos     solast.Position
}

// UsingFor is one library attachment.
type UsingFor struct {
	Library string
	Type    solast.TypeName // nil for the wildcard form
	Pos     solast.Position
}

// Registry maps contract names to their records for one compilation batch.
type Registry map[string]*Contract
