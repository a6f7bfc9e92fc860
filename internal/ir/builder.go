package ir

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// BuildUnit lifts every contract in a decoded source unit into its flat
// record. The returned slice preserves source order; the registry backs
// parent lookups during flattening.
func BuildUnit(unit *solast.SourceUnit) ([]*Contract, Registry) {
	var pragmas []*Pragma
	for _, child := range unit.Children {
		if p, ok := child.(*solast.PragmaDirective); ok {
			pragmas = append(pragmas, &Pragma{Name: p.Name, Value: p.Value, Pos: p.Pos})
		}
	}

	var contracts []*Contract
	registry := Registry{}
	for _, child := range unit.Children {
		def, ok := child.(*solast.ContractDefinition)
		if !ok {
			continue
		}
		c := BuildContract(def)
		c.Pragmas = pragmas
		contracts = append(contracts, c)
		registry[c.Name] = c
	}
	return contracts, registry
}

// BuildContract lifts one contract definition into its flat record.
func BuildContract(def *solast.ContractDefinition) *Contract {
	c := &Contract{
		Name:       def.Name,
		Kind:       def.Kind,
		ParentArgs: map[string][]solast.Expression{},
		Pos:        def.Pos,
	}
	if c.Kind == "" {
		c.Kind = solast.KindContract
	}

	for _, base := range def.BaseContracts {
		if base.BaseName == nil {
			continue
		}
		name := base.BaseName.NamePath
		c.Parents = append(c.Parents, name)
		if len(base.Arguments) > 0 {
			c.ParentArgs[name] = base.Arguments
		}
	}

	for _, part := range def.SubNodes {
		switch p := part.(type) {
		case *solast.StateVariableDeclaration:
			c.StateVars = append(c.StateVars, buildStateVars(p)...)
		case *solast.FunctionDefinition:
			fn := buildFunction(p, def.Name)
			if fn.IsConstructor {
				c.Constructor = fn
				c.ConstructorFrom = c.Name
			} else {
				c.Functions = append(c.Functions, fn)
			}
		case *solast.ModifierDefinition:
			c.Modifiers = append(c.Modifiers, &Modifier{
				Name:   p.Name,
				Params: buildParams(p.Parameters),
				Body:   p.Body,
				Pos:    p.Pos,
			})
		case *solast.EventDefinition:
			event := &Event{Name: p.Name, Pos: p.Pos}
			for i, param := range p.Parameters {
				event.Params = append(event.Params, &EventParam{
					Name:    paramName(param.Name, i),
					Type:    param.TypeName,
					Indexed: param.IsIndexed,
					Pos:     param.Pos,
				})
			}
			c.Events = append(c.Events, event)
		case *solast.CustomErrorDefinition:
			c.Errors = append(c.Errors, &ErrorDef{
				Name:   p.Name,
				Params: buildParams(p.Parameters),
				Pos:    p.Pos,
			})
		case *solast.StructDefinition:
			def := &StructDef{Name: p.Name, Pos: p.Pos}
			for _, member := range p.Members {
				def.Fields = append(def.Fields, &Param{Name: member.Name, Type: member.TypeName, Pos: member.Pos})
			}
			c.Structs = append(c.Structs, def)
		case *solast.EnumDefinition:
			def := &EnumDef{Name: p.Name, Pos: p.Pos}
			for _, member := range p.Members {
				def.Members = append(def.Members, member.Name)
			}
			c.Enums = append(c.Enums, def)
		case *solast.UsingForDeclaration:
			c.UsingFor = append(c.UsingFor, &UsingFor{Library: p.LibraryName, Type: p.TypeName, Pos: p.Pos})
		}
	}
	return c
}

func buildStateVars(decl *solast.StateVariableDeclaration) []*StateVar {
	var out []*StateVar
	for _, v := range decl.Variables {
		if v == nil {
			continue
		}
		sv := &StateVar{
			Name:       v.Name,
			Type:       v.TypeName,
			TypeString: v.TypeString,
			Visibility: v.Visibility,
			Initial:    v.Expression,
			Pos:        v.Pos,
		}
		switch {
		case v.IsDeclaredConst:
			sv.Mutability = Constant
		case v.IsImmutable:
			sv.Mutability = Immutable
		}
		if sv.Initial == nil && len(decl.Variables) == 1 {
			sv.Initial = decl.InitialValue
		}
		out = append(out, sv)
	}
	return out
}

func buildFunction(def *solast.FunctionDefinition, contractName string) *Function {
	fn := &Function{
		Name:       def.Name,
		SourceName: def.Name,
		Visibility: def.Visibility,
		Mutability: def.StateMutability,
		Params:     buildParams(def.Parameters),
		Returns:    buildReturns(def.ReturnParameters),
		Body:       def.Body,
		IsVirtual:  def.IsVirtual,
		IsOverride: def.Override,
		Pos:        def.Pos,
	}
	if fn.Visibility == "" {
		fn.Visibility = solast.VisibilityDefault
	}
	for _, mod := range def.Modifiers {
		fn.Modifiers = append(fn.Modifiers, &ModifierCall{Name: mod.Name, Args: mod.Arguments, Pos: mod.Pos})
	}

	switch {
	case def.IsConstructor || (def.Name != "" && def.Name == contractName):
		fn.IsConstructor = true
		fn.Name = "constructor"
		fn.SourceName = "constructor"
	case def.IsReceiveEther:
		// no native-coin entry point exists on the target; keep a stub so
		// the omission is visible in the output
		fn.Name = "receive_stub"
		fn.SourceName = "receive"
		fn.Visibility = solast.VisibilityPrivate
		fn.Mutability = ""
		fn.Body = stubBody(def.Pos, "receive() has no direct equivalent; incoming transfers are not forwarded")
	case def.IsFallback:
		fn.Name = "fallback_stub"
		fn.SourceName = "fallback"
		fn.Visibility = solast.VisibilityPrivate
		fn.Mutability = ""
		fn.Body = stubBody(def.Pos, "fallback() has no direct equivalent; unknown selectors cannot be dispatched")
	}
	return fn
}

func stubBody(pos solast.Position, msg string) *solast.Block {
	return &solast.Block{
		Pos: pos,
		Statements: []solast.Statement{
			&solast.ExpressionStatement{Pos: pos, Expression: &solast.StringLiteral{Pos: pos, Value: msg}},
		},
	}
}

func buildParams(decls []*solast.VariableDeclaration) []*Param {
	var out []*Param
	for i, d := range decls {
		if d == nil {
			continue
		}
		out = append(out, &Param{Name: paramName(d.Name, i), Type: d.TypeName, Pos: d.Pos})
	}
	return out
}

// buildReturns keeps empty names: an unnamed return slot is positional and
// must not collide with the named-return synthesis.
func buildReturns(decls []*solast.VariableDeclaration) []*Param {
	var out []*Param
	for _, d := range decls {
		if d == nil {
			continue
		}
		out = append(out, &Param{Name: d.Name, Type: d.TypeName, Pos: d.Pos})
	}
	return out
}

func paramName(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("arg%d", index)
}
