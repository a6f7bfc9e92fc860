package transform

import (
	"sort"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/stdlib"
)

// moduleUses derives the use list of the assembled module. The call
// builders record framework modules as they lower, but type spellings come
// straight from the type mapper, so the tree is walked as well; the union
// keeps the list exact either way. Framework names resolve through the
// stdlib catalog and everything else is a sibling module under the package
// address.
func (t *Transformer) moduleUses(m *moveast.Module) []*moveast.Use {
	found := useScan{}
	for name := range t.usedModules {
		found[name] = true
	}
	for name := range t.siblingUses {
		found[name] = true
	}
	found.module(m)

	self := t.moduleName()
	var out []*moveast.Use
	for name := range found {
		if name == "" || name == self {
			continue
		}
		path, ok := stdlib.UsePath(name)
		if !ok {
			path = t.opts.Address + "::" + name
		}
		out = append(out, &moveast.Use{Path: path})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := useRank(out[i].Path), useRank(out[j].Path)
		if ri != rj {
			return ri < rj
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// useRank orders use declarations the way framework code conventionally
// groups them: move-stdlib, then aptos-stdlib, then the framework, then
// package-local modules.
func useRank(path string) int {
	switch {
	case strings.HasPrefix(path, "std::"):
		return 0
	case strings.HasPrefix(path, "aptos_std::"):
		return 1
	case strings.HasPrefix(path, "aptos_framework::"):
		return 2
	}
	return 3
}

// useScan accumulates every module name referenced by the tree, from
// qualified calls and from qualified type spellings.
type useScan map[string]bool

func (u useScan) module(m *moveast.Module) {
	for _, s := range m.Structs {
		for _, f := range s.Fields {
			u.typ(f.Type)
		}
	}
	for _, c := range m.Constants {
		u.typ(c.Type)
		u.expr(c.Value)
	}
	for _, f := range m.Functions {
		for _, p := range f.Params {
			u.typ(p.Type)
		}
		for _, r := range f.Results {
			u.typ(r)
		}
		u.block(f.Body)
	}
}

func (u useScan) typ(tp moveast.Type) {
	if tp == nil {
		return
	}
	switch n := tp.(type) {
	case *moveast.TypeName:
		if n.Module != "" {
			u[n.Module] = true
		}
		for _, a := range n.Args {
			u.typ(a)
		}
	case *moveast.RefType:
		u.typ(n.Elem)
	case *moveast.TupleType:
		for _, e := range n.Elems {
			u.typ(e)
		}
	}
}

func (u useScan) block(b *moveast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		u.stmt(s)
	}
}

func (u useScan) stmt(s moveast.Stmt) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *moveast.Block:
		u.block(n)
	case *moveast.Let:
		u.typ(n.Type)
		u.expr(n.Value)
	case *moveast.Assign:
		u.expr(n.Target)
		u.expr(n.Value)
	case *moveast.ExprStmt:
		u.expr(n.Expr)
	case *moveast.If:
		u.expr(n.Cond)
		u.block(n.Then)
		u.stmt(n.Else)
	case *moveast.While:
		u.expr(n.Cond)
		u.block(n.Body)
	case *moveast.Loop:
		u.block(n.Body)
	case *moveast.For:
		if n.Range != nil {
			u.expr(n.Range.Lo)
			u.expr(n.Range.Hi)
		}
		u.block(n.Body)
	case *moveast.Return:
		u.expr(n.Value)
	case *moveast.Abort:
		u.expr(n.Code)
	}
}

func (u useScan) expr(e moveast.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *moveast.Call:
		if n.Module != "" {
			u[n.Module] = true
		}
		for _, a := range n.TypeArgs {
			u.typ(a)
		}
		for _, a := range n.Args {
			u.expr(a)
		}
	case *moveast.MethodCall:
		u.expr(n.Recv)
		for _, a := range n.Args {
			u.expr(a)
		}
	case *moveast.VectorLit:
		u.typ(n.ElemType)
		for _, el := range n.Elems {
			u.expr(el)
		}
	case *moveast.StructLit:
		for _, f := range n.Fields {
			u.expr(f.Value)
		}
	case *moveast.FieldAccess:
		u.expr(n.Recv)
	case *moveast.Index:
		u.expr(n.Recv)
		u.expr(n.Index)
	case *moveast.Borrow:
		u.expr(n.Expr)
	case *moveast.Deref:
		u.expr(n.Expr)
	case *moveast.Unary:
		u.expr(n.Expr)
	case *moveast.Binary:
		u.expr(n.Left)
		u.expr(n.Right)
	case *moveast.Cast:
		u.expr(n.Expr)
		u.typ(n.Type)
	case *moveast.IfExpr:
		u.expr(n.Cond)
		u.expr(n.Then)
		u.expr(n.Else)
	case *moveast.Tuple:
		for _, el := range n.Elems {
			u.expr(el)
		}
	case *moveast.Range:
		u.expr(n.Lo)
		u.expr(n.Hi)
	}
}
