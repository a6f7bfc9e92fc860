package transform

import (
	"fmt"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// applyModifiers lowers a function's modifier list into statements spliced
// before and after the body. Posts run in reverse declaration order, the
// way nested modifier frames unwind, and the full post list is registered
// on the scope so early returns replay it.
func (t *Transformer) applyModifiers(f *ir.Function) (pre, post []moveast.Stmt) {
	for _, mc := range f.Modifiers {
		if t.isBaseInvocation(mc.Name) {
			// base-constructor arguments were consumed during flattening
			continue
		}
		var mPre, mPost []moveast.Stmt
		switch builtins.LookupModifier(mc.Name) {
		case builtins.ModifierNonReentrant:
			mPre, mPost = t.guardFrame()
		case builtins.ModifierOnlyOwner:
			mPre = t.ownerCheck(mc.Pos)
		case builtins.ModifierOnlyRole:
			t.report(errors.BuiltinApproximated(mc.Name,
				"role tables are not modeled; enforced as an ownership check", mc.Pos))
			mPre = t.ownerCheck(mc.Pos)
		case builtins.ModifierWhenNotPaused:
			mPre = t.pausedCheck(false, mc)
		case builtins.ModifierWhenPaused:
			mPre = t.pausedCheck(true, mc)
		default:
			mPre, mPost = t.inlineModifier(mc)
		}
		pre = append(pre, mPre...)
		post = append(mPost, post...)
	}
	t.fn.pendingPosts = post
	return pre, post
}

// isBaseInvocation reports whether a modifier call is really a parent
// constructor invocation.
func (t *Transformer) isBaseInvocation(name string) bool {
	for _, parent := range t.contract.Parents {
		if parent == name {
			return true
		}
	}
	return t.decls.KindOfName(name) == typemap.NameContract
}

// guardFrame expands the mutual-exclusion modifier around the injected
// entered flag: reject when set, set, and reset on the way out.
func (t *Transformer) guardFrame() (pre, post []moveast.Stmt) {
	if !t.plan.HasGuard || t.plan.Primary == nil {
		// guard strategy none strips the modifier
		return nil, nil
	}
	if t.fn.ctorVars != nil {
		// nothing is published while the constructor stages fields
		return nil, nil
	}
	field := t.enteredField()
	entry := t.catalog.Ensure("E_REENTRANCY")
	pre = []moveast.Stmt{
		moveast.AssertCall(moveast.Un("!", field), t.abortCode(entry)),
		moveast.AssignTo(t.enteredField(), moveast.BoolOf(true)),
	}
	post = []moveast.Stmt{moveast.AssignTo(t.enteredField(), moveast.BoolOf(false))}
	return pre, post
}

// enteredField spells the guard flag in the primary group. The field also
// exists when no source variable was absorbed, synthesized by the module
// assembler whenever the plan carries a guard.
func (t *Transformer) enteredField() moveast.Expr {
	primary := t.plan.Primary
	if binding, ok := t.fn.bindings[primary.Name]; ok {
		return moveast.FieldOf(moveast.NameOf(binding), "entered")
	}
	return moveast.FieldOf(t.borrowGroupInline(primary), "entered")
}

// ownerCheck asserts the caller's authority under the configured access
// style: compare against the declared owner slot (inline-assert) or probe
// for the owner capability resource (capability-object).
func (t *Transformer) ownerCheck(pos solast.Position) []moveast.Stmt {
	addr, ok := t.callerAddr()
	if !ok {
		t.report(errors.EnvAccessorUnavailable("onlyOwner",
			"no caller identity is reachable in this function", pos))
		return nil
	}
	var out []moveast.Stmt
	t.flushHoisted(&out)
	entry := t.catalog.Ensure("E_NOT_OWNER")

	if t.opts.AccessControl == config.AccessCapability {
		t.needsOwnerCap = true
		probe := &moveast.Call{
			Name:     "exists",
			TypeArgs: []moveast.Type{&moveast.TypeName{Name: ownerCapName}},
			Args:     []moveast.Expr{addr},
		}
		return append(out, moveast.AssertCall(probe, t.abortCode(entry)))
	}

	owner := t.ownerVarName()
	var expected moveast.Expr
	if owner != "" {
		expected = t.storageRead(owner, pos)
	} else {
		// no ownership slot declared; the module publisher stands in
		expected = t.selfAddr()
	}
	return append(out, moveast.AssertCall(moveast.Bin("==", addr, expected), t.abortCode(entry)))
}

// ownerCapName is the capability resource seated with the deployer under
// the capability-object access style.
const ownerCapName = "OwnerCapability"

func (t *Transformer) ownerVarName() string {
	for _, v := range t.contract.StateVars {
		if builtins.IsOwnerVariable(v.Name) {
			return v.Name
		}
	}
	return ""
}

func (t *Transformer) pausedVarName() string {
	for _, v := range t.contract.StateVars {
		if builtins.IsPausedVariable(v.Name) {
			return v.Name
		}
	}
	return ""
}

// pausedCheck asserts the pause flag's state. wantPaused distinguishes the
// whenPaused form from whenNotPaused.
func (t *Transformer) pausedCheck(wantPaused bool, mc *ir.ModifierCall) []moveast.Stmt {
	paused := t.pausedVarName()
	if paused == "" {
		t.report(errors.BuiltinApproximated(mc.Name,
			"no pause flag is declared; the check is dropped", mc.Pos))
		return nil
	}
	read := t.storageRead(paused, mc.Pos)
	var out []moveast.Stmt
	t.flushHoisted(&out)

	if wantPaused {
		entry := t.catalog.Ensure("E_NOT_PAUSED")
		return append(out, moveast.AssertCall(read, t.abortCode(entry)))
	}
	entry := t.catalog.Ensure("E_PAUSED")
	return append(out, moveast.AssertCall(moveast.Un("!", read), t.abortCode(entry)))
}

// inlineModifier expands a declared modifier around the function body:
// arguments bind to the modifier's parameters as locals, statements before
// the placeholder become pre-statements, statements after it become posts.
func (t *Transformer) inlineModifier(mc *ir.ModifierCall) (pre, post []moveast.Stmt) {
	m := t.contract.ModifierByName(mc.Name)
	if m == nil {
		t.report(errors.UnsupportedStatement(
			fmt.Sprintf("modifier '%s' has no reachable declaration", mc.Name), mc.Pos))
		return nil, nil
	}

	pre = t.bindModifierArgs(m, mc)

	if m.Body == nil {
		return pre, nil
	}
	seen := false
	for _, st := range m.Body.Statements {
		if isPlaceholder(st) {
			seen = true
			continue
		}
		if !seen && placeholderInside(st) {
			t.report(errors.UnsupportedStatement(
				"conditional body placement in modifier '"+mc.Name+"'", st.NodePos()))
			seen = true
			continue
		}
		lowered := t.stmt(st)
		if seen {
			post = append(post, lowered...)
		} else {
			pre = append(pre, lowered...)
		}
	}
	if !seen {
		t.report(errors.BuiltinApproximated(mc.Name,
			"modifier body has no placeholder; the function body runs after it regardless", mc.Pos))
	}
	return pre, post
}

// bindModifierArgs evaluates modifier arguments in the caller's scope and
// binds them to the declared parameter names.
func (t *Transformer) bindModifierArgs(m *ir.Modifier, mc *ir.ModifierCall) []moveast.Stmt {
	var out []moveast.Stmt
	for i, p := range m.Params {
		var value moveast.Expr
		mapped, issues := t.mapper.Map(p.Type)
		for _, issue := range issues {
			t.reportIssue(issue)
		}
		if i < len(mc.Args) {
			value = t.expr(mc.Args[i])
			t.flushHoisted(&out)
		} else {
			value = t.zeroValue(mapped)
		}
		name := t.fn.declareSource(p.Name, mapped)
		out = append(out, moveast.LetOf(name, value))
	}
	return out
}

// isPlaceholder matches the `_;` splice point, including the bare
// identifier spelling some front ends produce.
func isPlaceholder(st solast.Statement) bool {
	switch n := st.(type) {
	case *solast.PlaceholderStatement:
		return true
	case *solast.ExpressionStatement:
		if id, ok := n.Expression.(*solast.Identifier); ok {
			return id.Name == "_"
		}
	}
	return false
}

// placeholderInside reports whether a placeholder hides inside nested
// control flow, which has no splice equivalent.
func placeholderInside(st solast.Statement) bool {
	switch n := st.(type) {
	case *solast.Block:
		for _, inner := range n.Statements {
			if isPlaceholder(inner) || placeholderInside(inner) {
				return true
			}
		}
	case *solast.IfStatement:
		if n.TrueBody != nil && (isPlaceholder(n.TrueBody) || placeholderInside(n.TrueBody)) {
			return true
		}
		if n.FalseBody != nil && (isPlaceholder(n.FalseBody) || placeholderInside(n.FalseBody)) {
			return true
		}
	case *solast.WhileStatement:
		return isPlaceholder(n.Body) || placeholderInside(n.Body)
	case *solast.DoWhileStatement:
		return isPlaceholder(n.Body) || placeholderInside(n.Body)
	case *solast.ForStatement:
		return n.Body != nil && (isPlaceholder(n.Body) || placeholderInside(n.Body))
	case *solast.UncheckedStatement:
		return n.Block != nil && placeholderInside(n.Block)
	}
	return false
}
