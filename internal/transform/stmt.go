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

// block lowers the statements of a block into a flat list. Scoped locals
// keep their own block through stmt when the source nests one.
func (t *Transformer) block(b *solast.Block) []moveast.Stmt {
	if b == nil {
		return nil
	}
	var out []moveast.Stmt
	for _, st := range b.Statements {
		out = append(out, t.stmt(st)...)
	}
	return out
}

// bodyBlock lowers a statement in body position (loop and branch bodies can
// be a single statement) into a block.
func (t *Transformer) bodyBlock(st solast.Statement) *moveast.Block {
	if b, ok := st.(*solast.Block); ok {
		return &moveast.Block{Stmts: t.block(b)}
	}
	return &moveast.Block{Stmts: t.stmt(st)}
}

// stmt lowers one statement. A single source statement can expand to
// several emitted ones: hoisted sub-expressions come first, modifier posts
// are replayed before returns.
func (t *Transformer) stmt(st solast.Statement) []moveast.Stmt {
	switch n := st.(type) {
	case *solast.Block:
		inner := t.block(n)
		if len(inner) == 0 {
			return nil
		}
		return []moveast.Stmt{&moveast.Block{Stmts: inner}}
	case *solast.ExpressionStatement:
		return t.exprStatement(n)
	case *solast.VariableDeclarationStatement:
		return t.localDecl(n)
	case *solast.IfStatement:
		return t.lowerIf(n)
	case *solast.WhileStatement:
		return t.lowerWhile(n)
	case *solast.DoWhileStatement:
		return t.lowerDoWhile(n)
	case *solast.ForStatement:
		return t.lowerFor(n)
	case *solast.ReturnStatement:
		return t.lowerReturn(n)
	case *solast.EmitStatement:
		return t.lowerEmit(n)
	case *solast.RevertStatement:
		return t.lowerRevertStmt(n)
	case *solast.BreakStatement:
		return []moveast.Stmt{&moveast.Break{}}
	case *solast.ContinueStatement:
		return t.lowerContinue()
	case *solast.ThrowStatement:
		return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(t.catalog.Classify(""))}}
	case *solast.PlaceholderStatement:
		// the modifier splitter consumes these; a stray one is inert
		return nil
	case *solast.UncheckedStatement:
		return t.lowerUnchecked(n)
	case *solast.InlineAssemblyStatement:
		return t.lowerAssembly(n)
	case *solast.UnsupportedStatement:
		t.report(errors.UnsupportedStatement(n.TypeTag, n.Pos))
		return nil
	}
	t.report(errors.UnsupportedStatement(st.NodeType(), st.NodePos()))
	return nil
}

// ---- expression statements ----

func (t *Transformer) exprStatement(n *solast.ExpressionStatement) []moveast.Stmt {
	switch e := n.Expression.(type) {
	case nil:
		return nil
	case *solast.BinaryOperation:
		if e.IsAssignment() {
			return t.assignment(e)
		}
	case *solast.UnaryOperation:
		switch e.Operator {
		case "++", "--":
			return t.incDecStmt(e)
		case "delete":
			return t.lowerDelete(e)
		}
	case *solast.FunctionCall:
		if callee, ok := e.Expression.(*solast.Identifier); ok {
			if kind := builtins.LookupFunction(callee.Name); kind.IsAssertion() {
				return t.lowerAssertion(kind, e)
			}
		}
	case *solast.Identifier:
		if e.Name == "_" {
			// placeholder spelled as a bare identifier
			return nil
		}
	}

	value := t.expr(n.Expression)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	if pureValue(value) {
		// effect-free leftovers of stubbed calls carry nothing
		return out
	}
	return append(out, moveast.StmtOf(value))
}

// pureValue reports whether an expression can be dropped in statement
// position without losing an effect.
func pureValue(e moveast.Expr) bool {
	switch v := e.(type) {
	case *moveast.IntLit, *moveast.BoolLit, *moveast.ByteStringLit,
		*moveast.AddressLit, *moveast.AddressName, *moveast.Name:
		return true
	case *moveast.Tuple:
		for _, elem := range v.Elems {
			if !pureValue(elem) {
				return false
			}
		}
		return true
	}
	return false
}

// ---- require / assert / revert ----

// lowerAssertion lowers require, assert and the call form of revert into an
// assert! or abort keyed by the catalog.
func (t *Transformer) lowerAssertion(kind builtins.FunctionKind, n *solast.FunctionCall) []moveast.Stmt {
	var out []moveast.Stmt
	switch kind {
	case builtins.FnRequire:
		if len(n.Arguments) == 0 {
			t.report(errors.UnsupportedStatement("require without a condition", n.Pos))
			return nil
		}
		entry := t.requireEntry(n)
		cond := t.expr(n.Arguments[0])
		t.flushHoisted(&out)
		return append(out, moveast.AssertCall(cond, t.abortCode(entry)))
	case builtins.FnAssert:
		if len(n.Arguments) == 0 {
			t.report(errors.UnsupportedStatement("assert without a condition", n.Pos))
			return nil
		}
		entry := t.catalog.Classify("")
		cond := t.expr(n.Arguments[0])
		t.flushHoisted(&out)
		return append(out, moveast.AssertCall(cond, t.abortCode(entry)))
	case builtins.FnRevert:
		entry := t.catalog.Classify(t.revertMessage(n.Arguments))
		return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(entry)}}
	}
	return nil
}

// requireEntry picks the abort code for a require site: a declared custom
// error when one is raised, otherwise the classified message.
func (t *Transformer) requireEntry(n *solast.FunctionCall) *CatalogEntry {
	if len(n.Arguments) < 2 {
		return t.catalog.Classify("")
	}
	// require(cond, CustomError(...)) raises a declared error
	if call, ok := n.Arguments[1].(*solast.FunctionCall); ok {
		if name := errorCallName(call); name != "" && t.declaredError(name) {
			return t.catalog.Ensure(name)
		}
	}
	if lit, ok := n.Arguments[1].(*solast.StringLiteral); ok {
		return t.catalog.Classify(lit.Value)
	}
	return t.catalog.Classify("")
}

// revertMessage extracts the literal message of revert(...), empty when the
// argument is absent or dynamic.
func (t *Transformer) revertMessage(args []solast.Expression) string {
	if len(args) == 0 {
		return ""
	}
	if lit, ok := args[0].(*solast.StringLiteral); ok {
		return lit.Value
	}
	return ""
}

func errorCallName(call *solast.FunctionCall) string {
	switch callee := call.Expression.(type) {
	case *solast.Identifier:
		return callee.Name
	case *solast.MemberAccess:
		return callee.MemberName
	}
	return ""
}

func (t *Transformer) declaredError(name string) bool {
	for _, e := range t.contract.Errors {
		if e.Name == name {
			return true
		}
	}
	return false
}

// lowerRevertStmt lowers the statement form revert CustomError(args). The
// arguments carry reporting payload only and have no abort-code seat.
func (t *Transformer) lowerRevertStmt(n *solast.RevertStatement) []moveast.Stmt {
	if n.RevertCall == nil {
		return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(t.catalog.Classify(""))}}
	}
	name := errorCallName(n.RevertCall)
	if name == "" {
		t.report(errors.UnsupportedStatement("revert with an unresolvable error", n.Pos))
		return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(t.catalog.Classify(""))}}
	}
	entry := t.catalog.Ensure(name)
	return []moveast.Stmt{&moveast.Abort{Code: t.abortCode(entry)}}
}

// ---- assignments ----

// assignment lowers every assignment operator in statement position. The
// compound forms go through compoundStore so parallel counters and map
// slots mutate in place.
func (t *Transformer) assignment(n *solast.BinaryOperation) []moveast.Stmt {
	if n.Operator == "=" {
		if tuple, ok := n.Left.(*solast.TupleExpression); ok && !tuple.IsArray {
			return t.tupleAssign(tuple, n)
		}
		value := t.expr(n.Right)
		var out []moveast.Stmt
		t.flushHoisted(&out)
		return append(out, t.assignStore(n.Left, value, n.Pos)...)
	}

	op := n.Operator[:len(n.Operator)-1] // "+=" -> "+"
	rhs := t.expr(n.Right)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	return append(out, t.compoundStore(n.Left, op, rhs, n.Pos)...)
}

// tupleAssign lowers (a, b) = expr. Components must be plain places; holes
// discard their position.
func (t *Transformer) tupleAssign(tuple *solast.TupleExpression, n *solast.BinaryOperation) []moveast.Stmt {
	value := t.expr(n.Right)
	var out []moveast.Stmt
	t.flushHoisted(&out)

	target := &moveast.Tuple{}
	for _, c := range tuple.Components {
		if c == nil {
			target.Elems = append(target.Elems, moveast.NameOf("_"))
			continue
		}
		place, ok := t.simplePlace(c)
		if !ok {
			t.report(errors.UnsupportedExpression("destructuring into a container slot", n.Pos))
			place = moveast.NameOf("_")
		}
		target.Elems = append(target.Elems, place)
	}
	return append(out, moveast.AssignTo(target, value))
}

// simplePlace resolves an identifier or field path into an assignable place
// without emitting statements. Container slots need their own borrow and do
// not qualify.
func (t *Transformer) simplePlace(e solast.Expression) (moveast.Expr, bool) {
	switch n := e.(type) {
	case *solast.Identifier:
		if local, ok := t.fn.localName(n.Name); ok {
			return moveast.NameOf(local), true
		}
		if t.fn.ctorVars != nil {
			if staged, ok := t.fn.ctorVars[n.Name]; ok {
				return moveast.NameOf(staged), true
			}
		}
		if group, pv := t.plan.varPlan(n.Name); pv != nil && !pv.Aggregated && !pv.GuardVar {
			return t.groupField(group, pv), true
		}
	case *solast.MemberAccess:
		base, ok := t.simplePlace(n.Expression)
		if !ok {
			return nil, false
		}
		return moveast.FieldOf(base, snakeName(n.MemberName)), true
	}
	return nil, false
}

// assignStore emits a plain store of an already-lowered value into a source
// target. Map slots follow the write law: look up or insert the default,
// then mutate in place.
func (t *Transformer) assignStore(target solast.Expression, value moveast.Expr, pos solast.Position) []moveast.Stmt {
	switch n := target.(type) {
	case *solast.Identifier:
		return t.storeIdentifier(n, value, pos)
	case *solast.MemberAccess:
		prefix, base, _, _ := t.storeBase(n.Expression, pos)
		value = t.maskAssigned(value, t.typeOf(target))
		return append(prefix, moveast.AssignTo(moveast.FieldOf(base, snakeName(n.MemberName)), value))
	case *solast.IndexAccess:
		return t.indexStore(n, value, pos)
	case *solast.TupleExpression:
		if len(n.Components) == 1 && n.Components[0] != nil {
			return t.assignStore(n.Components[0], value, pos)
		}
	}
	t.report(errors.UnsupportedExpression("assignment target", pos))
	return nil
}

// storeIdentifier stores into a local, a constructor staging local, or the
// planned home of a state variable.
func (t *Transformer) storeIdentifier(n *solast.Identifier, value moveast.Expr, pos solast.Position) []moveast.Stmt {
	if local, ok := t.fn.localName(n.Name); ok {
		value = t.maskAssigned(value, t.fn.locals[local])
		return []moveast.Stmt{moveast.AssignTo(moveast.NameOf(local), value)}
	}
	if t.fn.ctorVars != nil {
		if staged, ok := t.fn.ctorVars[n.Name]; ok {
			group, pv := t.plan.varPlan(n.Name)
			if pv != nil && pv.GuardVar {
				return []moveast.Stmt{moveast.AssignTo(moveast.NameOf(staged), t.guardValue(value, group, pv))}
			}
			if pv != nil {
				value = t.maskAssigned(value, pv.Mapped)
			}
			return []moveast.Stmt{moveast.AssignTo(moveast.NameOf(staged), value)}
		}
	}
	group, pv := t.plan.varPlan(n.Name)
	if pv == nil {
		t.report(errors.UnsupportedExpression(fmt.Sprintf("assignment to unresolved '%s'", n.Name), pos))
		return nil
	}
	if pv.GuardVar {
		field := t.groupField(group, pv)
		return []moveast.Stmt{moveast.AssignTo(field, t.guardValue(value, group, pv))}
	}
	if pv.Aggregated {
		// plan invariant: aggregated variables only see compound writes.
		// A stray plain store degrades to a non-parallel overwrite through
		// sub-then-add of the delta, which has no cheap spelling; report it.
		t.report(errors.BuiltinApproximated(n.Name,
			"plain store to a parallel counter is not representable; use compound updates", pos))
		return nil
	}
	value = t.maskAssigned(value, pv.Mapped)
	out := []moveast.Stmt{moveast.AssignTo(t.groupField(group, pv), value)}
	if mirror := t.mirrorFor(n.Name); mirror != nil {
		// the payload reads the field back so the event always carries
		// the stored state
		out = append(out, t.mirrorStmt(mirror, nil, t.groupField(group, pv)))
	}
	return out
}

// guardValue converts a source store into the absorbed reentrancy flag to
// its boolean encoding. The 1/2 lock protocol folds through the constant
// table: 2 means entered, anything at or below 1 means free.
func (t *Transformer) guardValue(value moveast.Expr, group *storageGroup, pv *plannedVar) moveast.Expr {
	if pv.Mapped != nil && isBool(pv.Mapped) {
		return value
	}
	if lit, ok := value.(*moveast.IntLit); ok {
		return moveast.BoolOf(lit.Value == "2")
	}
	if name, ok := value.(*moveast.Name); ok {
		for src, info := range t.consts {
			if info.ConstName == name.Ident && info.Value != nil && info.Value.isInt() {
				_ = src
				return moveast.BoolOf(info.Value.num.Int64() == 2)
			}
		}
	}
	return moveast.Bin(">", value, moveast.IntOf(1))
}

// maskAssigned truncates a stored value to a non-standard declared width.
func (t *Transformer) maskAssigned(value moveast.Expr, m *typemap.Mapped) moveast.Expr {
	if m == nil || m.TruncateBits == 0 {
		return value
	}
	if lit, ok := value.(*moveast.IntLit); ok {
		// literal stores are masked at fold time when out of range; in-range
		// literals stay bare
		if len(lit.Value) <= 2 {
			return value
		}
	}
	return truncate(value, m)
}

// indexStore lowers m[k] = v and arr[i] = v.
func (t *Transformer) indexStore(n *solast.IndexAccess, value moveast.Expr, pos solast.Position) []moveast.Stmt {
	prefix, base, bm, isRef := t.storeBase(n.Base, pos)
	key := t.expr(n.Index)
	t.flushHoisted(&prefix)

	if bm != nil && bm.IsMap {
		value = t.maskAssigned(value, bm.Value)
		mirror := t.mirrorTarget(n.Base)
		if mirror != nil {
			key = t.mirrorOperand(key, "key", &prefix)
			value = t.mirrorOperand(value, "new_value", &prefix)
		}
		backing := "table"
		if t.opts.MapBacking == config.BackingOrderedMap {
			backing = "ordered_map"
		}
		out := append(prefix, moveast.StmtOf(
			t.mod(backing, "upsert", mutRef(base, isRef), key, value)))
		if mirror != nil {
			out = append(out, t.mirrorStmt(mirror, key, value))
		}
		return out
	}

	// vector and bytes targets share the borrow_mut law
	if bm != nil {
		value = t.maskAssigned(value, bm.Elem)
	}
	slot := t.mod("vector", "borrow_mut", mutRef(base, isRef), t.indexValue(key))
	out := append(prefix, moveast.AssignTo(moveast.DerefOf(slot), value))
	if mirror := t.mirrorTarget(n.Base); mirror != nil {
		out = append(out, t.mirrorStmt(mirror, nil, base))
	}
	return out
}

// indexValue narrows a lowered index to the u64 the vector API takes.
func (t *Transformer) indexValue(idx moveast.Expr) moveast.Expr {
	if _, ok := idx.(*moveast.IntLit); ok {
		return idx
	}
	return moveast.CastTo(idx, moveast.U64())
}

// mutRef spells &mut place, or passes a reference through unchanged.
func mutRef(place moveast.Expr, isRef bool) moveast.Expr {
	if isRef {
		return place
	}
	return moveast.BorrowMutOf(place)
}

// storeBase resolves the container part of a store path. The returned
// expression designates a mutable location; isRef reports whether it is
// already a reference (a borrowed slot local) rather than a place.
func (t *Transformer) storeBase(e solast.Expression, pos solast.Position) (prefix []moveast.Stmt, place moveast.Expr, m *typemap.Mapped, isRef bool) {
	switch n := e.(type) {
	case *solast.Identifier:
		if local, ok := t.fn.localName(n.Name); ok {
			return nil, moveast.NameOf(local), t.fn.locals[local], false
		}
		if t.fn.ctorVars != nil {
			if staged, ok := t.fn.ctorVars[n.Name]; ok {
				_, pv := t.plan.varPlan(n.Name)
				var mapped *typemap.Mapped
				if pv != nil {
					mapped = pv.Mapped
				}
				return nil, moveast.NameOf(staged), mapped, false
			}
		}
		if group, pv := t.plan.varPlan(n.Name); pv != nil {
			return nil, t.groupField(group, pv), pv.Mapped, false
		}
		t.report(errors.UnsupportedExpression(fmt.Sprintf("store through unresolved '%s'", n.Name), pos))
		return nil, moveast.NameOf(snakeName(n.Name)), nil, false
	case *solast.MemberAccess:
		prefix, base, bm, _ := t.storeBase(n.Expression, pos)
		var fieldType *typemap.Mapped
		if bm != nil && bm.IsStruct {
			fieldType = t.structFieldType(bm.StructName, n.MemberName)
		}
		return prefix, moveast.FieldOf(base, snakeName(n.MemberName)), fieldType, false
	case *solast.IndexAccess:
		return t.slotBase(n, pos)
	}
	t.report(errors.UnsupportedExpression("store path", pos))
	return nil, placeholder("store path"), nil, false
}

// slotBase materializes a mutable borrow of a container slot that sits in
// the middle of a store path, inserting the default first so the borrow
// cannot abort on a fresh key.
func (t *Transformer) slotBase(n *solast.IndexAccess, pos solast.Position) ([]moveast.Stmt, moveast.Expr, *typemap.Mapped, bool) {
	prefix, base, bm, isRef := t.storeBase(n.Base, pos)
	key := t.expr(n.Index)
	t.flushHoisted(&prefix)

	if bm != nil && bm.IsMap {
		value := bm.Value
		keyName := key
		if _, ok := key.(*moveast.Name); !ok {
			if _, lit := key.(*moveast.IntLit); !lit {
				tmp := t.fn.tempName("key")
				prefix = append(prefix, moveast.LetOf(tmp, key))
				keyName = moveast.NameOf(tmp)
			}
		}
		t.fn.slotKey = keyName
		slot := t.fn.tempName("slot")
		if t.opts.MapBacking == config.BackingOrderedMap {
			contains := t.mod("ordered_map", "contains", refOf(base, isRef), moveast.BorrowOf(keyName))
			prefix = append(prefix, &moveast.If{
				Cond: moveast.Un("!", contains),
				Then: moveast.Seq(moveast.StmtOf(
					t.mod("ordered_map", "add", mutRef(base, isRef), keyName, t.zeroValue(value)))),
			})
			prefix = append(prefix, moveast.LetOf(slot,
				t.mod("ordered_map", "borrow_mut", mutRef(base, isRef), moveast.BorrowOf(keyName))))
			return prefix, moveast.NameOf(slot), value, true
		}
		if value != nil && (value.IsMap || value.IsStruct) {
			// the default may not be discardable, so insert explicitly
			contains := t.mod("table", "contains", refOf(base, isRef), keyName)
			prefix = append(prefix, &moveast.If{
				Cond: moveast.Un("!", contains),
				Then: moveast.Seq(moveast.StmtOf(
					t.mod("table", "add", mutRef(base, isRef), keyName, t.zeroValue(value)))),
			})
			prefix = append(prefix, moveast.LetOf(slot,
				t.mod("table", "borrow_mut", mutRef(base, isRef), keyName)))
			return prefix, moveast.NameOf(slot), value, true
		}
		prefix = append(prefix, moveast.LetOf(slot,
			t.mod("table", "borrow_mut_with_default", mutRef(base, isRef), keyName, t.zeroValue(value))))
		return prefix, moveast.NameOf(slot), value, true
	}

	// vector element in the middle of a path
	t.fn.slotKey = nil
	slot := t.fn.tempName("slot")
	var elem *typemap.Mapped
	if bm != nil {
		elem = bm.Elem
	}
	prefix = append(prefix, moveast.LetOf(slot,
		t.mod("vector", "borrow_mut", mutRef(base, isRef), t.indexValue(key))))
	return prefix, moveast.NameOf(slot), elem, true
}

// refOf spells &place, or passes a reference through unchanged.
func refOf(place moveast.Expr, isRef bool) moveast.Expr {
	if isRef {
		return place
	}
	return moveast.BorrowOf(place)
}

func (t *Transformer) structFieldType(structName, field string) *typemap.Mapped {
	def := t.decls.structDef(structName)
	if def == nil {
		return nil
	}
	for _, f := range def.Fields {
		if f.Name == field {
			m, _ := t.mapper.Map(f.Type)
			return m
		}
	}
	return nil
}

// compoundStore lowers x op= rhs. Parallel counters take the delta through
// the aggregator API; container slots borrow once and mutate in place;
// plain places read, combine and store.
func (t *Transformer) compoundStore(target solast.Expression, op string, rhs moveast.Expr, pos solast.Position) []moveast.Stmt {
	if id, ok := target.(*solast.Identifier); ok {
		if _, local := t.fn.localName(id.Name); !local {
			staged := t.fn.ctorVars != nil && t.fn.ctorVars[id.Name] != ""
			if group, pv := t.plan.varPlan(id.Name); pv != nil && pv.Aggregated && !staged {
				return t.aggregatorStore(group, pv, op, rhs, pos)
			}
		}
	}

	if idx, ok := target.(*solast.IndexAccess); ok {
		if bm := t.typeOf(idx.Base); bm != nil && bm.IsMap {
			return t.mapCompound(idx, op, rhs, pos)
		}
	}

	read := t.expr(target)
	var prefix []moveast.Stmt
	t.flushHoisted(&prefix)
	value := t.combined(read, op, rhs, t.typeOf(target), pos)
	return append(prefix, t.assignStore(target, value, pos)...)
}

// aggregatorStore maps += and -= on a parallel counter onto the aggregator
// API. Other compound operators never reach here: any of them counts as a
// plain write in the scan, which disqualifies the variable from this
// representation.
func (t *Transformer) aggregatorStore(group *storageGroup, pv *plannedVar, op string, rhs moveast.Expr, pos solast.Position) []moveast.Stmt {
	var fn string
	switch op {
	case "+":
		fn = "add"
	case "-":
		fn = "sub"
	default:
		t.report(errors.BuiltinApproximated(pv.Src.Name,
			"only addition and subtraction reach a parallel counter", pos))
		return nil
	}
	delta := rhs
	if _, ok := rhs.(*moveast.IntLit); !ok {
		if declaredWidth(pv.Mapped) != 128 {
			delta = moveast.CastTo(rhs, moveast.U128())
		}
	}
	field := t.groupField(group, pv)
	return []moveast.Stmt{moveast.StmtOf(
		t.mod("aggregator_v2", fn, moveast.BorrowMutOf(field), delta))}
}

// mapCompound mutates one map slot in place: insert the default when the
// key is fresh, then combine onto the borrowed value.
func (t *Transformer) mapCompound(n *solast.IndexAccess, op string, rhs moveast.Expr, pos solast.Position) []moveast.Stmt {
	prefix, slot, valueType, _ := t.slotBase(n, pos)
	current := moveast.DerefOf(slot)
	value := t.combined(current, op, rhs, valueType, pos)
	out := append(prefix, moveast.AssignTo(moveast.DerefOf(slot), value))
	if mirror := t.mirrorTarget(n.Base); mirror != nil && t.fn.slotKey != nil {
		out = append(out, t.mirrorStmt(mirror, t.fn.slotKey, moveast.DerefOf(slot)))
	}
	return out
}

// combined builds the read-modify value of a compound assignment, applying
// the overflow policy and the truncation mask of the declared width.
func (t *Transformer) combined(read moveast.Expr, op string, rhs moveast.Expr, m *typemap.Mapped, pos solast.Position) moveast.Expr {
	switch op {
	case "<<", ">>":
		if _, ok := rhs.(*moveast.IntLit); !ok {
			rhs = moveast.CastTo(rhs, moveast.U8())
		}
	case "+", "-", "*":
		if t.fn != nil && t.fn.inUnchecked && t.opts.OverflowPolicy == config.OverflowWrapping {
			return t.wrappingCombined(read, op, rhs, m, pos)
		}
	}
	value := moveast.Bin(op, read, rhs)
	if m != nil && m.TruncateBits != 0 && op != ">>" && op != "/" && op != "%" && op != "&" {
		return truncate(value, m)
	}
	return value
}

// wrappingCombined routes unchecked compound arithmetic through the
// synthesized wrapping helpers.
func (t *Transformer) wrappingCombined(read moveast.Expr, op string, rhs moveast.Expr, m *typemap.Mapped, pos solast.Position) moveast.Expr {
	width := 256
	if m != nil {
		if w := moveBits(m.Move); w != 0 {
			width = w
		}
	}
	var name string
	switch op {
	case "+":
		name = "add"
	case "-":
		name = "sub"
	case "*":
		name = "mul"
	}
	if name == "mul" && width > 128 {
		t.report(errors.WrappingMultiply(pos))
		value := moveast.Bin("*", read, rhs)
		if m != nil && m.TruncateBits != 0 {
			return truncate(value, m)
		}
		return value
	}
	helper := fmt.Sprintf("wrapping_%s_u%d", name, width)
	t.wrapHelpers[helper] = true
	value := moveast.Expr(moveast.CallFn(helper, read, rhs))
	if m != nil && m.TruncateBits != 0 {
		value = truncate(value, m)
	}
	return value
}

// incDecStmt lowers ++ and -- in statement position, where no prior value
// needs saving.
func (t *Transformer) incDecStmt(n *solast.UnaryOperation) []moveast.Stmt {
	op := "+"
	if n.Operator == "--" {
		op = "-"
	}
	var out []moveast.Stmt
	stmts := t.compoundStore(n.SubExpression, op, moveast.IntOf(1), n.Pos)
	t.flushHoisted(&out)
	return append(out, stmts...)
}

// lowerDelete resets a place to its type's default. Deleting a map slot
// removes the entry instead, which reads back as the default either way.
func (t *Transformer) lowerDelete(n *solast.UnaryOperation) []moveast.Stmt {
	if idx, ok := n.SubExpression.(*solast.IndexAccess); ok {
		if bm := t.typeOf(idx.Base); bm != nil && bm.IsMap {
			return t.deleteMapSlot(idx, n.Pos)
		}
	}
	m := t.typeOf(n.SubExpression)
	if m == nil {
		t.report(errors.UnsupportedStatement("delete of an untyped place", n.Pos))
		return nil
	}
	zero := t.zeroValue(m)
	var out []moveast.Stmt
	t.flushHoisted(&out)
	return append(out, t.assignStore(n.SubExpression, zero, n.Pos)...)
}

func (t *Transformer) deleteMapSlot(n *solast.IndexAccess, pos solast.Position) []moveast.Stmt {
	prefix, base, _, isRef := t.storeBase(n.Base, pos)
	key := t.expr(n.Index)
	t.flushHoisted(&prefix)

	keyName := key
	if _, ok := key.(*moveast.Name); !ok {
		if _, lit := key.(*moveast.IntLit); !lit {
			tmp := t.fn.tempName("key")
			prefix = append(prefix, moveast.LetOf(tmp, key))
			keyName = moveast.NameOf(tmp)
		}
	}

	var contains, remove moveast.Expr
	if t.opts.MapBacking == config.BackingOrderedMap {
		contains = t.mod("ordered_map", "contains", refOf(base, isRef), moveast.BorrowOf(keyName))
		remove = t.mod("ordered_map", "remove", mutRef(base, isRef), moveast.BorrowOf(keyName))
	} else {
		contains = t.mod("table", "contains", refOf(base, isRef), keyName)
		remove = t.mod("table", "remove", mutRef(base, isRef), keyName)
	}
	out := append(prefix, &moveast.If{
		Cond: contains,
		Then: moveast.Seq(moveast.StmtOf(remove)),
	})
	if mirror := t.mirrorTarget(n.Base); mirror != nil {
		out = append(out, t.mirrorStmt(mirror, keyName, t.zeroValue(mirror.Value)))
	}
	return out
}

// ---- declarations ----

// localDecl lowers a local declaration. Uninitialized locals take their
// type's default, matching source zero-initialization.
func (t *Transformer) localDecl(n *solast.VariableDeclarationStatement) []moveast.Stmt {
	var out []moveast.Stmt

	if len(n.Variables) > 1 || hasNilHole(n.Variables) {
		return t.tupleDecl(n)
	}
	if len(n.Variables) == 0 {
		return nil
	}

	v := n.Variables[0]
	m := t.declType(v)
	var value moveast.Expr
	if n.InitialValue != nil {
		value = t.expr(n.InitialValue)
		t.flushHoisted(&out)
		value = t.maskAssigned(value, m)
	} else {
		value = t.zeroValue(m)
	}
	name := t.fn.declareSource(v.Name, m)
	out = append(out, t.letStmt(name, m, value))
	return out
}

// tupleDecl lowers (uint a, , uint c) = expr, declaring each named slot and
// discarding holes.
func (t *Transformer) tupleDecl(n *solast.VariableDeclarationStatement) []moveast.Stmt {
	var out []moveast.Stmt
	let := &moveast.Let{}
	for _, v := range n.Variables {
		if v == nil || v.Name == "" {
			let.Names = append(let.Names, "_")
			continue
		}
		m := t.declType(v)
		let.Names = append(let.Names, t.fn.declareSource(v.Name, m))
	}
	if n.InitialValue != nil {
		let.Value = t.expr(n.InitialValue)
		t.flushHoisted(&out)
		return append(out, let)
	}
	// no initializer: declare each slot with its default
	for i, v := range n.Variables {
		if v == nil || v.Name == "" {
			continue
		}
		m := t.declType(v)
		out = append(out, t.letStmt(let.Names[i], m, t.zeroValue(m)))
	}
	return out
}

func hasNilHole(vars []*solast.VariableDeclaration) bool {
	for _, v := range vars {
		if v == nil || v.Name == "" {
			return true
		}
	}
	return false
}

func (t *Transformer) declType(v *solast.VariableDeclaration) *typemap.Mapped {
	m, issues := t.mapper.MapVariable(v)
	for _, issue := range issues {
		t.reportIssue(issue)
	}
	return m
}

// letStmt emits a local declaration, annotating the type when it is known
// so literal widths resolve without inference surprises.
func (t *Transformer) letStmt(name string, m *typemap.Mapped, value moveast.Expr) moveast.Stmt {
	if m != nil && !m.Unknown && m.Move != nil {
		return moveast.LetTyped(name, m.Move, value)
	}
	return moveast.LetOf(name, value)
}

// ---- control flow ----

// lowerIf lowers a conditional, extracting any assignment nested inside a
// comparison condition into a preceding statement first.
func (t *Transformer) lowerIf(n *solast.IfStatement) []moveast.Stmt {
	var out []moveast.Stmt
	cond := t.condition(n.Condition, &out)
	t.flushHoisted(&out)

	stmt := &moveast.If{Cond: cond, Then: t.bodyBlock(n.TrueBody)}
	if n.FalseBody != nil {
		stmt.Else = t.elseArm(n.FalseBody)
	}
	return append(out, stmt)
}

// elseArm lowers an else branch, keeping else-if chains flat when the
// nested condition needs no preceding statements.
func (t *Transformer) elseArm(st solast.Statement) moveast.Stmt {
	if elif, ok := st.(*solast.IfStatement); ok {
		stmts := t.lowerIf(elif)
		if len(stmts) == 1 {
			return stmts[0]
		}
		return &moveast.Block{Stmts: stmts}
	}
	return t.bodyBlock(st)
}

// condition lowers a boolean condition. An assignment nested in either
// operand of a comparison is hoisted into out, and the operand is replaced
// by a read of the assigned place.
func (t *Transformer) condition(e solast.Expression, out *[]moveast.Stmt) moveast.Expr {
	if cmp, ok := e.(*solast.BinaryOperation); ok && !cmp.IsAssignment() {
		switch cmp.Operator {
		case "==", "!=", "<", "<=", ">", ">=":
			left := t.extractAssignment(cmp.Left, out)
			right := t.extractAssignment(cmp.Right, out)
			return moveast.Bin(cmp.Operator, left, right)
		}
	}
	return t.expr(e)
}

// extractAssignment hoists (y = expr) out of a comparison operand.
// Parenthesized operands arrive as single-component tuples.
func (t *Transformer) extractAssignment(e solast.Expression, out *[]moveast.Stmt) moveast.Expr {
	inner := e
	if tuple, ok := e.(*solast.TupleExpression); ok && !tuple.IsArray &&
		len(tuple.Components) == 1 && tuple.Components[0] != nil {
		inner = tuple.Components[0]
	}
	if assign, ok := inner.(*solast.BinaryOperation); ok && assign.IsAssignment() {
		*out = append(*out, t.assignment(assign)...)
		return t.expr(assign.Left)
	}
	return t.expr(e)
}

// lowerWhile lowers a while loop. A condition that needs preceding
// statements re-evaluates them each iteration through the rotated form:
// loop { <hoisted>; if (!cond) break; body }.
func (t *Transformer) lowerWhile(n *solast.WhileStatement) []moveast.Stmt {
	t.fn.loopIncrements = append(t.fn.loopIncrements, nil)
	defer t.popLoop()

	var pre []moveast.Stmt
	cond := t.condition(n.Condition, &pre)
	t.flushHoisted(&pre)
	body := t.bodyBlock(n.Body)

	if len(pre) == 0 {
		return []moveast.Stmt{&moveast.While{Cond: cond, Body: body}}
	}
	rotated := moveast.Seq(pre...)
	rotated.Append(&moveast.If{
		Cond: moveast.Un("!", cond),
		Then: moveast.Seq(&moveast.Break{}),
	})
	rotated.Append(body.Stmts...)
	return []moveast.Stmt{&moveast.While{Cond: moveast.BoolOf(true), Body: rotated}}
}

// lowerDoWhile lowers do-while into an unconditional loop with a trailing
// conditional break. continue jumps to the condition check in source, so
// the check sequence doubles as the loop increment and replays before any
// continue inside the body.
func (t *Transformer) lowerDoWhile(n *solast.DoWhileStatement) []moveast.Stmt {
	var check []moveast.Stmt
	cond := t.condition(n.Condition, &check)
	t.flushHoisted(&check)
	check = append(check, &moveast.If{
		Cond: moveast.Un("!", cond),
		Then: moveast.Seq(&moveast.Break{}),
	})
	t.fn.loopIncrements = append(t.fn.loopIncrements, check)
	defer t.popLoop()

	body := t.bodyBlock(n.Body)
	body.Append(check...)
	return []moveast.Stmt{&moveast.Loop{Body: body}}
}

// lowerFor lowers a for loop. The canonical counted shape becomes a native
// range loop; anything else becomes init + while with the increment
// replayed on continue.
func (t *Transformer) lowerFor(n *solast.ForStatement) []moveast.Stmt {
	if rangeLoop, ok := t.rangeFor(n); ok {
		return rangeLoop
	}

	var out []moveast.Stmt
	if n.InitExpression != nil {
		out = append(out, t.stmt(n.InitExpression)...)
	}

	var inc []moveast.Stmt
	if n.LoopExpression != nil {
		inc = t.stmt(n.LoopExpression)
	}
	t.fn.loopIncrements = append(t.fn.loopIncrements, inc)
	defer t.popLoop()

	var pre []moveast.Stmt
	cond := moveast.Expr(moveast.BoolOf(true))
	if n.ConditionExpression != nil {
		cond = t.condition(n.ConditionExpression, &pre)
		t.flushHoisted(&pre)
	}
	body := t.bodyBlock(n.Body)
	body.Append(inc...)

	if len(pre) == 0 {
		return append(out, &moveast.While{Cond: cond, Body: body})
	}
	rotated := moveast.Seq(pre...)
	rotated.Append(&moveast.If{
		Cond: moveast.Un("!", cond),
		Then: moveast.Seq(&moveast.Break{}),
	})
	rotated.Append(body.Stmts...)
	return append(out, &moveast.While{Cond: moveast.BoolOf(true), Body: rotated})
}

// rangeFor matches the canonical counted loop
// for (uint i = start; i < end; i++) and lowers it to a bounded range.
func (t *Transformer) rangeFor(n *solast.ForStatement) ([]moveast.Stmt, bool) {
	if n.InitExpression == nil || n.ConditionExpression == nil || n.LoopExpression == nil {
		return nil, false
	}

	decl, ok := n.InitExpression.(*solast.VariableDeclarationStatement)
	if !ok || len(decl.Variables) != 1 || decl.Variables[0] == nil || decl.InitialValue == nil {
		return nil, false
	}
	counter := decl.Variables[0].Name

	cond, ok := n.ConditionExpression.(*solast.BinaryOperation)
	if !ok || (cond.Operator != "<" && cond.Operator != "<=") {
		return nil, false
	}
	condVar, ok := cond.Left.(*solast.Identifier)
	if !ok || condVar.Name != counter {
		return nil, false
	}

	if !incrementsByOne(n.LoopExpression, counter) {
		return nil, false
	}

	var out []moveast.Stmt
	lo := t.expr(decl.InitialValue)
	hi := t.expr(cond.Right)
	t.flushHoisted(&out)
	if cond.Operator == "<=" {
		hi = inclusiveHi(hi)
	}

	m := t.declType(decl.Variables[0])
	name := t.fn.declareSource(counter, m)

	// a range loop advances itself; continue needs no replay
	t.fn.loopIncrements = append(t.fn.loopIncrements, nil)
	defer t.popLoop()

	return append(out, &moveast.For{
		Var:   name,
		Range: &moveast.Range{Lo: lo, Hi: hi},
		Body:  t.bodyBlock(n.Body),
	}), true
}

// incrementsByOne matches i++, ++i, i += 1 and i = i + 1 on the counter.
func incrementsByOne(st solast.Statement, counter string) bool {
	es, ok := st.(*solast.ExpressionStatement)
	if !ok {
		return false
	}
	switch e := es.Expression.(type) {
	case *solast.UnaryOperation:
		if e.Operator != "++" {
			return false
		}
		id, ok := e.SubExpression.(*solast.Identifier)
		return ok && id.Name == counter
	case *solast.BinaryOperation:
		id, ok := e.Left.(*solast.Identifier)
		if !ok || id.Name != counter {
			return false
		}
		switch e.Operator {
		case "+=":
			return literalOne(e.Right)
		case "=":
			add, ok := e.Right.(*solast.BinaryOperation)
			if !ok || add.Operator != "+" {
				return false
			}
			left, ok := add.Left.(*solast.Identifier)
			return ok && left.Name == counter && literalOne(add.Right)
		}
	}
	return false
}

func literalOne(e solast.Expression) bool {
	lit, ok := e.(*solast.NumberLiteral)
	return ok && lit.Number == "1" && lit.Subdenomination == ""
}

// inclusiveHi widens an exclusive range bound for <= conditions, folding
// when the bound is a plain decimal literal.
func inclusiveHi(hi moveast.Expr) moveast.Expr {
	if lit, ok := hi.(*moveast.IntLit); ok && lit.Suffix == "" && decimalDigits(lit.Value) {
		return bumpLiteral(lit)
	}
	return moveast.Bin("+", hi, moveast.IntOf(1))
}

func decimalDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// bumpLiteral adds one to a decimal literal spelling.
func bumpLiteral(lit *moveast.IntLit) *moveast.IntLit {
	digits := []byte(lit.Value)
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return moveast.Int(string(digits))
		}
		digits[i] = '0'
	}
	return moveast.Int("1" + string(digits))
}

func (t *Transformer) popLoop() {
	t.fn.loopIncrements = t.fn.loopIncrements[:len(t.fn.loopIncrements)-1]
}

// lowerContinue replays the enclosing for-loop's increment before the jump
// so the while rendition keeps counting.
func (t *Transformer) lowerContinue() []moveast.Stmt {
	var out []moveast.Stmt
	if n := len(t.fn.loopIncrements); n > 0 {
		out = append(out, t.fn.loopIncrements[n-1]...)
	}
	return append(out, &moveast.Continue{})
}

// lowerReturn emits pending modifier posts (guard resets, post-conditions)
// before the return itself.
func (t *Transformer) lowerReturn(n *solast.ReturnStatement) []moveast.Stmt {
	var out []moveast.Stmt

	var value moveast.Expr
	if n.Expression != nil {
		value = t.expr(n.Expression)
		t.flushHoisted(&out)
		value = t.maskReturn(value)
	} else if len(t.fn.namedReturns) > 0 {
		value = t.namedReturnValue()
	}

	out = append(out, t.fn.pendingPosts...)
	return append(out, &moveast.Return{Value: value})
}

// maskReturn truncates returned values to non-standard declared widths.
func (t *Transformer) maskReturn(value moveast.Expr) moveast.Expr {
	types := t.fn.returnTypes
	if len(types) == 1 {
		return t.maskAssigned(value, types[0])
	}
	if tuple, ok := value.(*moveast.Tuple); ok && len(tuple.Elems) == len(types) {
		for i, elem := range tuple.Elems {
			tuple.Elems[i] = t.maskAssigned(elem, types[i])
		}
	}
	return value
}

// namedReturnValue builds the value of a bare return in a function with
// named returns.
func (t *Transformer) namedReturnValue() moveast.Expr {
	if len(t.fn.namedReturns) == 1 {
		return moveast.NameOf(t.fn.namedReturns[0])
	}
	tuple := &moveast.Tuple{}
	for _, name := range t.fn.namedReturns {
		tuple.Elems = append(tuple.Elems, moveast.NameOf(name))
	}
	return tuple
}

// ---- events ----

// lowerEmit fires an event under the configured style. The none style
// strips emission entirely.
func (t *Transformer) lowerEmit(n *solast.EmitStatement) []moveast.Stmt {
	if n.EventCall == nil || t.opts.EventStyle == config.EventNone {
		return nil
	}
	name := errorCallName(n.EventCall)
	event := t.eventDef(name)
	if event == nil {
		t.report(errors.UnsupportedStatement(fmt.Sprintf("emit of undeclared event '%s'", name), n.Pos))
		return nil
	}

	var out []moveast.Stmt
	payload := t.eventPayload(event, n.EventCall)
	t.flushHoisted(&out)

	if t.opts.EventStyle == config.EventHandles {
		handle := t.eventHandleField(event.Name)
		return append(out, moveast.StmtOf(
			t.mod("event", "emit_event", moveast.BorrowMutOf(handle), payload)))
	}
	return append(out, moveast.StmtOf(t.mod("event", "emit", payload)))
}

func (t *Transformer) eventDef(name string) *ir.Event {
	for _, e := range t.contract.Events {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// eventPayload builds the event struct value. Named-argument emissions map
// by name, positional ones in declaration order.
func (t *Transformer) eventPayload(event *ir.Event, call *solast.FunctionCall) moveast.Expr {
	lit := &moveast.StructLit{Name: typeNameOf(event.Name)}
	if len(call.Names) == len(call.Arguments) && len(call.Names) > 0 {
		byName := map[string]solast.Expression{}
		for i, name := range call.Names {
			byName[name] = call.Arguments[i]
		}
		for _, p := range event.Params {
			value, ok := byName[p.Name]
			if !ok {
				m, _ := t.mapper.Map(p.Type)
				lit.Fields = append(lit.Fields, moveast.FieldInit{
					Name: snakeName(p.Name), Value: t.zeroValue(m)})
				continue
			}
			lit.Fields = append(lit.Fields, moveast.FieldInit{
				Name: snakeName(p.Name), Value: t.expr(value)})
		}
		return lit
	}
	for i, p := range event.Params {
		var value moveast.Expr
		if i < len(call.Arguments) {
			value = t.expr(call.Arguments[i])
		} else {
			m, _ := t.mapper.Map(p.Type)
			value = t.zeroValue(m)
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("value_%d", i)
		}
		lit.Fields = append(lit.Fields, moveast.FieldInit{Name: snakeName(name), Value: value})
	}
	return lit
}

// eventHandleField spells the handle field of an event in the primary
// group under the handle-based style.
func (t *Transformer) eventHandleField(eventName string) moveast.Expr {
	field := eventHandleName(eventName)
	if t.plan.Primary == nil {
		return moveast.NameOf(field)
	}
	if binding, ok := t.fn.bindings[t.plan.Primary.Name]; ok {
		return moveast.FieldOf(moveast.NameOf(binding), field)
	}
	return moveast.FieldOf(t.borrowGroupInline(t.plan.Primary), field)
}

// eventHandleName is the primary-group field holding an event's handle.
func eventHandleName(eventName string) string {
	return snakeName(eventName) + "_events"
}

// ---- write mirrors ----

// mirrorFor resolves the write mirror of a state variable. Nothing mirrors
// inside the initializer: staged writes publish once, and post-publication
// constructor stores are still deployment-time state.
func (t *Transformer) mirrorFor(name string) *eventMirror {
	if t.fn == nil || t.fn.ctorVars != nil {
		return nil
	}
	if t.fn.fn != nil && t.fn.fn.IsConstructor {
		return nil
	}
	return t.plan.mirrorOf(name)
}

// mirrorTarget resolves the mirror behind a container store base. Only
// whole-slot stores on a state variable mirror; interior mutations through
// borrowed slots do not reach here.
func (t *Transformer) mirrorTarget(e solast.Expression) *eventMirror {
	id, ok := e.(*solast.Identifier)
	if !ok {
		return nil
	}
	if t.fn != nil {
		if _, local := t.fn.localName(id.Name); local {
			return nil
		}
	}
	return t.mirrorFor(id.Name)
}

// mirrorStmt emits the tracking event for one mirrored store. Map mirrors
// carry the key; key is ignored for scalars.
func (t *Transformer) mirrorStmt(m *eventMirror, key, value moveast.Expr) moveast.Stmt {
	lit := &moveast.StructLit{Name: m.StructName}
	if m.IsMap {
		lit.Fields = append(lit.Fields, moveast.FieldInit{Name: "key", Value: key})
	}
	lit.Fields = append(lit.Fields, moveast.FieldInit{Name: "value", Value: value})
	return moveast.StmtOf(t.mod("event", "emit", lit))
}

// mirrorOperand pins a payload operand to a local so the store and the
// event spell the same evaluation.
func (t *Transformer) mirrorOperand(e moveast.Expr, base string, prefix *[]moveast.Stmt) moveast.Expr {
	switch e.(type) {
	case *moveast.Name, *moveast.IntLit, *moveast.BoolLit, *moveast.AddressName, *moveast.AddressLit:
		return e
	}
	tmp := t.fn.tempName(base)
	*prefix = append(*prefix, moveast.LetOf(tmp, e))
	return moveast.NameOf(tmp)
}

// ---- unchecked ----

// lowerUnchecked lowers an unchecked block under the overflow policy.
// Arithmetic inside maps to the wrapping helpers when the policy says so;
// otherwise it stays checked and the block is only a scope.
func (t *Transformer) lowerUnchecked(n *solast.UncheckedStatement) []moveast.Stmt {
	saved := t.fn.inUnchecked
	t.fn.inUnchecked = true
	inner := t.block(n.Block)
	t.fn.inUnchecked = saved
	if len(inner) == 0 {
		return nil
	}
	return []moveast.Stmt{&moveast.Block{Stmts: inner}}
}
