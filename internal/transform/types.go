package transform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

func mappedOf(ty moveast.Type) *typemap.Mapped { return &typemap.Mapped{Move: ty} }

func mappedBool() *typemap.Mapped { return mappedOf(moveast.Bool()) }

func mappedBytes() *typemap.Mapped {
	return &typemap.Mapped{Move: moveast.Vector(moveast.U8()), IsBytes: true}
}

func (t *Transformer) mappedString() *typemap.Mapped {
	if t.opts.StringRepr == config.StringUTF8 {
		return &typemap.Mapped{Move: moveast.Qualified("string", "String"), IsString: true}
	}
	return &typemap.Mapped{Move: moveast.Vector(moveast.U8()), IsString: true, IsBytes: true}
}

func (t *Transformer) mappedEnum(name string) *typemap.Mapped {
	m := &typemap.Mapped{IsEnum: true, EnumName: name}
	if t.opts.EnumRepr == config.EnumConstants {
		m.Move = moveast.U8()
	} else {
		m.Move = &moveast.TypeName{Name: name}
	}
	return m
}

// typeOf is the best-effort static type of an expression; nil means
// unknown. Lowering keys width, container and representation decisions off
// it and falls back to safe defaults on nil.
func (t *Transformer) typeOf(e solast.Expression) *typemap.Mapped {
	switch n := e.(type) {
	case *solast.Identifier:
		return t.typeOfIdentifier(n)
	case *solast.BooleanLiteral:
		return mappedBool()
	case *solast.StringLiteral:
		return t.mappedString()
	case *solast.HexLiteral:
		return mappedBytes()
	case *solast.IndexAccess:
		base := t.typeOf(n.Base)
		switch {
		case base == nil:
			return nil
		case base.IsMap:
			return base.Value
		case base.IsBytes:
			return mappedOf(moveast.U8())
		case base.IsVector:
			return base.Elem
		}
		return nil
	case *solast.MemberAccess:
		return t.typeOfMember(n)
	case *solast.FunctionCall:
		return t.typeOfCall(n)
	case *solast.BinaryOperation:
		switch n.Operator {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return mappedBool()
		}
		if m := t.typeOf(n.Left); m != nil {
			return m
		}
		return t.typeOf(n.Right)
	case *solast.UnaryOperation:
		if n.Operator == "!" {
			return mappedBool()
		}
		if n.Operator == "delete" {
			return nil
		}
		return t.typeOf(n.SubExpression)
	case *solast.Conditional:
		if m := t.typeOf(n.TrueExpression); m != nil {
			return m
		}
		return t.typeOf(n.FalseExpression)
	case *solast.TupleExpression:
		if !n.IsArray && len(n.Components) == 1 && n.Components[0] != nil {
			return t.typeOf(n.Components[0])
		}
		return nil
	case *solast.NameValueExpression:
		return t.typeOf(n.Expression)
	}
	return nil
}

func (t *Transformer) typeOfIdentifier(n *solast.Identifier) *typemap.Mapped {
	if t.fn != nil {
		if local, ok := t.fn.localName(n.Name); ok {
			return t.fn.locals[local]
		}
		if t.fn.ctorVars != nil {
			if _, ok := t.fn.ctorVars[n.Name]; ok {
				if _, pv := t.plan.varPlan(n.Name); pv != nil {
					return pv.Mapped
				}
			}
		}
	}
	if info, ok := t.consts[n.Name]; ok {
		return info.Mapped
	}
	if _, pv := t.plan.varPlan(n.Name); pv != nil {
		return pv.Mapped
	}
	if n.Name == "this" {
		return &typemap.Mapped{Move: moveast.Address(), IsContract: true}
	}
	return nil
}

func (t *Transformer) typeOfMember(n *solast.MemberAccess) *typemap.Mapped {
	if base, ok := n.Expression.(*solast.Identifier); ok {
		if acc, found := builtins.LookupEnv(base.Name, n.MemberName); found {
			switch acc.Kind {
			case builtins.EnvCaller:
				return mappedOf(moveast.Address())
			case builtins.EnvValue, builtins.EnvCall:
				return mappedOf(moveast.U256())
			}
			return nil
		}
		if _, found := t.decls.enumOrdinal(base.Name, n.MemberName); found {
			return t.mappedEnum(base.Name)
		}
	}
	switch n.MemberName {
	case "length", "balance":
		return mappedOf(moveast.U256())
	}
	base := t.typeOf(n.Expression)
	if base != nil && base.IsStruct {
		if def := t.decls.structDef(base.StructName); def != nil {
			for _, field := range def.Fields {
				if field.Name == n.MemberName {
					m, _ := t.mapper.Map(field.Type)
					return m
				}
			}
		}
	}
	return nil
}

func (t *Transformer) typeOfCall(n *solast.FunctionCall) *typemap.Mapped {
	switch callee := n.Expression.(type) {
	case *solast.ElementaryTypeNameExpression:
		if callee.TypeName == nil {
			return nil
		}
		m, _ := t.mapper.Map(callee.TypeName)
		return m
	case *solast.NewExpression:
		m, _ := t.mapper.Map(callee.TypeName)
		return m
	case *solast.Identifier:
		if kind := builtins.LookupFunction(callee.Name); kind != builtins.FnUnknown {
			if kind.IsHash() {
				return mappedBytes()
			}
			return nil
		}
		if def := t.decls.structDef(callee.Name); def != nil {
			return &typemap.Mapped{
				Move:       &moveast.TypeName{Name: def.Name},
				IsStruct:   true,
				StructName: def.Name,
			}
		}
		switch t.decls.KindOfName(callee.Name) {
		case typemap.NameContract, typemap.NameLibrary:
			return &typemap.Mapped{Move: moveast.Address(), IsContract: true}
		}
		if target, _, ok := t.callTarget(callee.Name, len(n.Arguments)); ok {
			return t.returnTypeOf(target)
		}
	case *solast.MemberAccess:
		if base, ok := callee.Expression.(*solast.Identifier); ok {
			if lib := t.decls.library(base.Name); lib != nil {
				return t.returnTypeOfIn(lib, callee.MemberName)
			}
			if base.Name == "abi" || base.Name == "string" || base.Name == "bytes" {
				if base.Name == "string" {
					return t.mappedString()
				}
				return mappedBytes()
			}
		}
		if kind := builtins.LookupAddressMember(callee.MemberName); kind == builtins.MemberSend {
			return mappedBool()
		}
	}
	return nil
}

// returnTypeOf maps a function's single return type; multi-returns have no
// single expression type.
func (t *Transformer) returnTypeOf(f *ir.Function) *typemap.Mapped {
	if f == nil || len(f.Returns) != 1 {
		return nil
	}
	m, _ := t.mapper.Map(f.Returns[0].Type)
	return m
}

func (t *Transformer) returnTypeOfIn(lib *ir.Contract, name string) *typemap.Mapped {
	fns := lib.FunctionsByName(name)
	if len(fns) == 0 {
		return nil
	}
	return t.returnTypeOf(fns[0])
}

// declaredContractName recovers the contract or interface name behind a
// contract-typed expression, which module resolution needs because the
// mapped type only records that the value is an address.
func (t *Transformer) declaredContractName(e solast.Expression) string {
	switch n := e.(type) {
	case *solast.Identifier:
		if t.fn != nil && t.fn.fn != nil {
			for _, p := range t.fn.fn.Params {
				if p.Name == n.Name {
					return userTypeName(p.Type)
				}
			}
		}
		if v := t.contract.StateVarByName(n.Name); v != nil {
			return userTypeName(v.Type)
		}
	case *solast.FunctionCall:
		if id, ok := n.Expression.(*solast.Identifier); ok {
			switch t.decls.KindOfName(id.Name) {
			case typemap.NameContract, typemap.NameLibrary:
				return id.Name
			}
		}
	}
	return ""
}

func userTypeName(tn solast.TypeName) string {
	if ud, ok := tn.(*solast.UserDefinedTypeName); ok {
		return ud.NamePath
	}
	return ""
}
