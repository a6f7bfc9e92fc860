package transform

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// lowerFunction runs the per-function pipeline: authority and declared
// parameters, the storage-borrow decision, modifier frames, named returns,
// body, and the trailing implicit return. Unimplemented functions yield
// nil and are dropped from the module.
func (t *Transformer) lowerFunction(f *ir.Function) *moveast.Function {
	if f.Body == nil {
		return nil
	}
	info := t.registry.infoOf(f)
	if info == nil {
		return nil
	}
	t.resetScope(f, info)

	out := &moveast.Function{Name: info.finalName}
	t.setVisibility(out, f, info)

	t.authorityParam(out, info)
	t.declaredParams(out, f)

	var prologue []moveast.Stmt
	groups := info.orderedGroups(t.plan)
	if info.public {
		prologue = t.borrowGroups(groups, info)
	} else {
		t.groupParams(out, groups, info)
	}

	t.returnSignature(out, f)
	namedDecls := t.declareNamedReturns(f)

	pre, post := t.applyModifiers(f)
	body := t.block(f.Body)

	stmts := prologue
	stmts = append(stmts, namedDecls...)
	stmts = append(stmts, pre...)
	stmts = append(stmts, body...)
	if !terminal(stmts) {
		stmts = append(stmts, post...)
		if len(out.Results) > 0 {
			// falling off the end yields zero values in the source language
			var value moveast.Expr
			if len(t.fn.namedReturns) > 0 {
				value = t.namedReturnValue()
			} else {
				value = t.zeroReturns()
			}
			stmts = append(stmts, &moveast.Return{Value: value})
		}
	}
	out.Body = &moveast.Block{Stmts: stmts}

	if t.opts.AcquiresStyle == config.AcquiresExplicit {
		out.Acquires = t.acquiresFor(info)
	}
	out.IsInline = t.inlineHint(f, info)
	if t.opts.EmitComments && info.finalName != snakeName(f.SourceName) {
		out.Doc = fmt.Sprintf("Overload of `%s` with %d parameter(s).", f.SourceName, len(f.Params))
	}

	t.fn = nil
	return out
}

func (t *Transformer) setVisibility(out *moveast.Function, f *ir.Function, info *functionInfo) {
	if info.public {
		out.Visibility = moveast.VisPublic
		if info.view {
			out.IsView = t.opts.ViewAnnotations
			return
		}
		// entry functions cannot return values
		out.IsEntry = len(f.Returns) == 0
		return
	}
	if t.opts.InternalVisibility == config.VisibilityFriend {
		out.Visibility = moveast.VisFriend
		return
	}
	out.Visibility = moveast.VisPrivate
}

// authorityParam threads the caller identity. Public functions and any
// function acting on the caller's behalf take the signer; a private helper
// that only observes the caller gets the cheaper address form.
func (t *Transformer) authorityParam(out *moveast.Function, info *functionInfo) {
	switch {
	case info.need == needCallerCapability || (info.public && info.need == needCallerAddress):
		name := t.opts.AuthorityParam
		t.fn.signerName = name
		t.fn.declareLocal(name, &typemap.Mapped{Move: moveast.Ref(moveast.Signer())})
		out.Params = append(out.Params, &moveast.Param{Name: name, Type: moveast.Ref(moveast.Signer())})
	case info.need == needCallerAddress:
		name := t.opts.AuthorityParam + "_addr"
		t.fn.addrName = name
		t.fn.declareLocal(name, &typemap.Mapped{Move: moveast.Address()})
		out.Params = append(out.Params, &moveast.Param{Name: name, Type: moveast.Address()})
	}
}

func (t *Transformer) declaredParams(out *moveast.Function, f *ir.Function) {
	for i, p := range f.Params {
		m := t.paramMapped(p)
		srcName := p.Name
		if srcName == "" {
			srcName = fmt.Sprintf("arg_%d", i)
		}
		name := t.fn.declareSource(srcName, m)
		out.Params = append(out.Params, &moveast.Param{Name: name, Type: t.mappedType(m)})
	}
}

func (t *Transformer) paramMapped(p *ir.Param) *typemap.Mapped {
	m, issues := t.mapper.Map(p.Type)
	for _, issue := range issues {
		t.reportIssue(issue)
	}
	return m
}

// mappedType spells a mapped type, falling back to the widest integer for
// degraded inputs so the signature stays well formed.
func (t *Transformer) mappedType(m *typemap.Mapped) moveast.Type {
	if m == nil || m.Move == nil {
		return moveast.U256()
	}
	return m.Move
}

// borrowGroups opens a public function's storage: one borrow per touched
// group, mutable when any reached code writes it.
func (t *Transformer) borrowGroups(groups []*storageGroup, info *functionInfo) []moveast.Stmt {
	var out []moveast.Stmt
	for _, g := range groups {
		binding := t.fn.tempName(g.Binding)
		t.fn.bindings[g.Name] = binding
		t.fn.groupMut[g.Name] = info.groupWrites[g.Name]

		borrow := "borrow_global"
		if info.groupWrites[g.Name] {
			borrow = "borrow_global_mut"
		}
		out = append(out, moveast.LetOf(binding, &moveast.Call{
			Name:     borrow,
			TypeArgs: []moveast.Type{moveast.Qualified("", g.Name)},
			Args:     []moveast.Expr{t.selfAddr()},
		}))
	}
	return out
}

// groupParams threads storage into a private helper as reference
// parameters instead of borrowing again.
func (t *Transformer) groupParams(out *moveast.Function, groups []*storageGroup, info *functionInfo) {
	for _, g := range groups {
		binding := t.fn.tempName(g.Binding)
		t.fn.bindings[g.Name] = binding
		t.fn.groupMut[g.Name] = info.groupWrites[g.Name]

		var ty moveast.Type = moveast.Ref(moveast.Qualified("", g.Name))
		if info.groupWrites[g.Name] {
			ty = moveast.MutRef(moveast.Qualified("", g.Name))
		}
		out.Params = append(out.Params, &moveast.Param{Name: binding, Type: ty})
	}
}

func (t *Transformer) returnSignature(out *moveast.Function, f *ir.Function) {
	for _, r := range f.Returns {
		m := t.paramMapped(r)
		t.fn.returnTypes = append(t.fn.returnTypes, m)
		out.Results = append(out.Results, t.mappedType(m))
	}
}

// declareNamedReturns declares each named return as a zero-initialized
// local; a bare return then reads them back.
func (t *Transformer) declareNamedReturns(f *ir.Function) []moveast.Stmt {
	if !f.HasNamedReturns() {
		return nil
	}
	var out []moveast.Stmt
	for i, r := range f.Returns {
		srcName := r.Name
		if srcName == "" {
			srcName = fmt.Sprintf("ret_%d", i)
		}
		m := t.fn.returnTypes[i]
		local := t.fn.declareSource(srcName, m)
		t.fn.namedReturns = append(t.fn.namedReturns, local)
		out = append(out, t.letStmt(local, m, t.zeroValue(m)))
	}
	return out
}

// terminal reports whether control cannot flow past the last statement.
func terminal(stmts []moveast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	switch stmts[len(stmts)-1].(type) {
	case *moveast.Return, *moveast.Abort:
		return true
	}
	return false
}

// acquiresFor lists the resources a function borrows, in plan order.
// Private helpers receive references instead of borrowing, so only public
// functions carry the clause; borrows hidden behind calls to other public
// functions are covered by the nested-acquire warning at the call site.
func (t *Transformer) acquiresFor(info *functionInfo) []string {
	if !info.public || !info.touches() {
		return nil
	}
	var out []string
	for _, g := range info.orderedGroups(t.plan) {
		out = append(out, g.Name)
	}
	return out
}

// inlineHint marks small storage-free private helpers inline when the
// option asks for it. Recursive functions stay ordinary.
func (t *Transformer) inlineHint(f *ir.Function, info *functionInfo) bool {
	if !t.opts.InlineHints || info.public || info.touches() {
		return false
	}
	if f.Body == nil || len(f.Body.Statements) > 3 {
		return false
	}
	return !reaches(info, info, map[*functionInfo]bool{})
}

func reaches(from, target *functionInfo, seen map[*functionInfo]bool) bool {
	for _, c := range from.callees {
		if c == target {
			return true
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		if reaches(c, target, seen) {
			return true
		}
	}
	return false
}
