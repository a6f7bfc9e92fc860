package transform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// callSite is one internal call observed while scanning.
type callSite struct {
	name  string
	arity int
	pos   solast.Position
}

// fnUsage is what one function body (plus its modifiers) does to the
// environment: state variables read and written, internal calls and the
// caller identity it observes directly.
type fnUsage struct {
	reads  map[string]bool
	writes map[string]bool
	calls  []callSite

	ownNeed   authorityNeed
	usesGuard bool
	emits     bool
}

func newFnUsage() *fnUsage {
	return &fnUsage{reads: map[string]bool{}, writes: map[string]bool{}}
}

// varAccess counts accesses to one state variable across the contract,
// excluding constructor initialization. plainWrites counts assignments that
// are not += or -=; a written integer variable with zero plain writes is a
// candidate for the parallel counter representation.
type varAccess struct {
	reads       int
	writes      int
	plainWrites int
}

// usageInfo is the whole-contract scan product consumed by the storage
// planner and the function registry.
type usageInfo struct {
	perFn map[*ir.Function]*fnUsage
	ctor  *fnUsage

	vars map[string]*varAccess

	anyGuard bool

	// events emitted anywhere, in first-use order.
	events   []string
	eventSet map[string]bool
}

// scanContract walks every function body once before any rewriting, so the
// storage plan and authority needs are fixed before code is emitted.
func (t *Transformer) scanContract() *usageInfo {
	usage := &usageInfo{
		perFn:    map[*ir.Function]*fnUsage{},
		vars:     map[string]*varAccess{},
		eventSet: map[string]bool{},
	}
	for _, v := range t.contract.StateVars {
		usage.vars[v.Name] = &varAccess{}
	}

	sc := &scanner{t: t, usage: usage}

	// constructor: state variable initializers run there, and the deployer
	// signer is always required.
	hasInit := false
	for _, v := range t.contract.StateVars {
		if v.Initial != nil && v.Mutability != ir.Constant {
			hasInit = true
		}
	}
	if t.contract.Constructor != nil || hasInit {
		cu := newFnUsage()
		cu.ownNeed = needCallerCapability
		sc.begin(cu, true, t.contract.Constructor)
		for _, v := range t.contract.StateVars {
			if v.Initial != nil && v.Mutability != ir.Constant {
				sc.walkExpr(v.Initial)
			}
		}
		if ctor := t.contract.Constructor; ctor != nil {
			sc.scanModifiers(ctor)
			sc.walkBlock(ctor.Body)
		}
		usage.ctor = cu
	}

	for _, f := range t.contract.Functions {
		u := newFnUsage()
		sc.begin(u, false, f)
		sc.scanModifiers(f)
		sc.walkBlock(f.Body)
		usage.perFn[f] = u
	}

	return usage
}

// scanner carries the walk state for one function at a time. Local names
// are collected up front, so a local shadowing a state variable never
// counts as a storage access.
type scanner struct {
	t      *Transformer
	usage  *usageInfo
	cur    *fnUsage
	locals map[string]bool
	inCtor bool
}

func (s *scanner) begin(u *fnUsage, inCtor bool, f *ir.Function) {
	s.cur = u
	s.inCtor = inCtor
	s.locals = map[string]bool{}
	if f == nil {
		return
	}
	for _, p := range f.Params {
		if p.Name != "" {
			s.locals[p.Name] = true
		}
	}
	for _, r := range f.Returns {
		if r.Name != "" {
			s.locals[r.Name] = true
		}
	}
	collectLocals(f.Body, s.locals)
	for _, m := range f.Modifiers {
		if decl := s.t.contract.ModifierByName(m.Name); decl != nil {
			for _, p := range decl.Params {
				if p.Name != "" {
					s.locals[p.Name] = true
				}
			}
			collectLocals(decl.Body, s.locals)
		}
	}
}

// collectLocals gathers every declared local name in a body. The set is
// flat rather than scoped; shadowing within nested blocks over-approximates
// in the local direction, which only suppresses storage accounting.
func collectLocals(b *solast.Block, into map[string]bool) {
	if b == nil {
		return
	}
	var walk func(st solast.Statement)
	walk = func(st solast.Statement) {
		switch n := st.(type) {
		case *solast.Block:
			for _, inner := range n.Statements {
				walk(inner)
			}
		case *solast.VariableDeclarationStatement:
			for _, v := range n.Variables {
				if v != nil && v.Name != "" {
					into[v.Name] = true
				}
			}
		case *solast.IfStatement:
			walk(n.TrueBody)
			if n.FalseBody != nil {
				walk(n.FalseBody)
			}
		case *solast.WhileStatement:
			walk(n.Body)
		case *solast.DoWhileStatement:
			walk(n.Body)
		case *solast.ForStatement:
			if n.InitExpression != nil {
				walk(n.InitExpression)
			}
			if n.LoopExpression != nil {
				walk(n.LoopExpression)
			}
			walk(n.Body)
		case *solast.UncheckedStatement:
			walk(n.Block)
		}
	}
	for _, st := range b.Statements {
		walk(st)
	}
}

// scanModifiers applies the storage and authority effects of a function's
// modifier list, inlining custom modifier bodies.
func (s *scanner) scanModifiers(f *ir.Function) {
	for _, m := range f.Modifiers {
		for _, arg := range m.Args {
			s.walkExpr(arg)
		}
		switch builtins.LookupModifier(m.Name) {
		case builtins.ModifierNonReentrant:
			s.cur.usesGuard = true
			s.usage.anyGuard = true
		case builtins.ModifierOnlyOwner, builtins.ModifierOnlyRole:
			s.need(needCallerAddress)
			if owner := s.ownerVar(); owner != "" {
				s.read(owner)
			}
		case builtins.ModifierWhenNotPaused, builtins.ModifierWhenPaused:
			if paused := s.pausedVar(); paused != "" {
				s.read(paused)
			}
		case builtins.ModifierCustom:
			if decl := s.t.contract.ModifierByName(m.Name); decl != nil {
				s.walkBlock(decl.Body)
			}
		}
	}
}

func (s *scanner) ownerVar() string {
	for _, v := range s.t.contract.StateVars {
		if builtins.IsOwnerVariable(v.Name) {
			return v.Name
		}
	}
	return ""
}

func (s *scanner) pausedVar() string {
	for _, v := range s.t.contract.StateVars {
		if builtins.IsPausedVariable(v.Name) {
			return v.Name
		}
	}
	return ""
}

func (s *scanner) need(n authorityNeed) {
	s.cur.ownNeed = joinNeed(s.cur.ownNeed, n)
}

func (s *scanner) isStateVar(name string) bool {
	if s.locals[name] {
		return false
	}
	return s.t.contract.StateVarByName(name) != nil
}

func (s *scanner) read(name string) {
	if builtins.IsGuardVariable(name) {
		s.cur.usesGuard = true
		s.usage.anyGuard = true
	}
	s.cur.reads[name] = true
	if acc := s.usage.vars[name]; acc != nil && !s.inCtor {
		acc.reads++
	}
}

func (s *scanner) write(name string, compound bool) {
	if builtins.IsGuardVariable(name) {
		s.cur.usesGuard = true
		s.usage.anyGuard = true
	}
	s.cur.writes[name] = true
	if acc := s.usage.vars[name]; acc != nil && !s.inCtor {
		acc.writes++
		if !compound {
			acc.plainWrites++
		}
	}
}

func (s *scanner) walkBlock(b *solast.Block) {
	if b == nil {
		return
	}
	for _, st := range b.Statements {
		s.walkStmt(st)
	}
}

func (s *scanner) walkStmt(st solast.Statement) {
	switch n := st.(type) {
	case *solast.Block:
		s.walkBlock(n)
	case *solast.ExpressionStatement:
		s.walkExpr(n.Expression)
	case *solast.VariableDeclarationStatement:
		if n.InitialValue != nil {
			s.walkExpr(n.InitialValue)
		}
	case *solast.IfStatement:
		s.walkExpr(n.Condition)
		s.walkStmt(n.TrueBody)
		if n.FalseBody != nil {
			s.walkStmt(n.FalseBody)
		}
	case *solast.WhileStatement:
		s.walkExpr(n.Condition)
		s.walkStmt(n.Body)
	case *solast.DoWhileStatement:
		s.walkExpr(n.Condition)
		s.walkStmt(n.Body)
	case *solast.ForStatement:
		if n.InitExpression != nil {
			s.walkStmt(n.InitExpression)
		}
		if n.ConditionExpression != nil {
			s.walkExpr(n.ConditionExpression)
		}
		if n.LoopExpression != nil {
			s.walkStmt(n.LoopExpression)
		}
		s.walkStmt(n.Body)
	case *solast.ReturnStatement:
		if n.Expression != nil {
			s.walkExpr(n.Expression)
		}
	case *solast.EmitStatement:
		s.scanEmit(n)
	case *solast.RevertStatement:
		if n.RevertCall != nil {
			for _, arg := range n.RevertCall.Arguments {
				s.walkExpr(arg)
			}
		}
	case *solast.UncheckedStatement:
		s.walkBlock(n.Block)
	case *solast.InlineAssemblyStatement:
		if n.Body != nil {
			for _, op := range n.Body.Operations {
				s.walkAsm(op)
			}
		}
	}
}

func (s *scanner) scanEmit(n *solast.EmitStatement) {
	if n.EventCall == nil {
		return
	}
	s.cur.emits = true
	name := ""
	switch callee := n.EventCall.Expression.(type) {
	case *solast.Identifier:
		name = callee.Name
	case *solast.MemberAccess:
		name = callee.MemberName
	}
	if name != "" && !s.usage.eventSet[name] {
		s.usage.eventSet[name] = true
		s.usage.events = append(s.usage.events, name)
	}
	for _, arg := range n.EventCall.Arguments {
		s.walkExpr(arg)
	}
}

func (s *scanner) walkExpr(e solast.Expression) {
	switch n := e.(type) {
	case *solast.Identifier:
		if s.isStateVar(n.Name) {
			s.read(n.Name)
		}
	case *solast.BinaryOperation:
		if n.IsAssignment() {
			s.walkTarget(n.Left, n.Operator != "=")
			if n.Operator != "=" {
				s.walkExpr(n.Left)
			}
			s.walkExpr(n.Right)
			return
		}
		s.walkExpr(n.Left)
		s.walkExpr(n.Right)
	case *solast.UnaryOperation:
		switch n.Operator {
		case "++", "--":
			s.walkTarget(n.SubExpression, true)
			s.walkExpr(n.SubExpression)
		case "delete":
			s.walkTarget(n.SubExpression, false)
		default:
			s.walkExpr(n.SubExpression)
		}
	case *solast.FunctionCall:
		s.scanCall(n)
	case *solast.NameValueExpression:
		s.walkExpr(n.Expression)
		for _, v := range n.Values {
			s.walkExpr(v)
		}
	case *solast.MemberAccess:
		s.scanMember(n)
	case *solast.IndexAccess:
		s.walkExpr(n.Base)
		if n.Index != nil {
			s.walkExpr(n.Index)
		}
	case *solast.TupleExpression:
		for _, c := range n.Components {
			if c != nil {
				s.walkExpr(c)
			}
		}
	case *solast.Conditional:
		s.walkExpr(n.Condition)
		s.walkExpr(n.TrueExpression)
		s.walkExpr(n.FalseExpression)
	case *solast.NewExpression, *solast.ElementaryTypeNameExpression:
	case *solast.NumberLiteral, *solast.BooleanLiteral, *solast.StringLiteral, *solast.HexLiteral:
	}
}

// walkTarget records the write side of an assignment. The written state
// variable is the root of the place path; container and field accesses on
// the way down count as reads of their index expressions only.
func (s *scanner) walkTarget(e solast.Expression, compound bool) {
	switch n := e.(type) {
	case *solast.Identifier:
		if s.isStateVar(n.Name) {
			s.write(n.Name, compound)
		}
	case *solast.IndexAccess:
		// writing through an index is a container mutation, which is never
		// aggregatable
		s.markRootWrite(n.Base)
		s.walkExpr(n.Base)
		if n.Index != nil {
			s.walkExpr(n.Index)
		}
	case *solast.MemberAccess:
		s.markRootWrite(n.Expression)
		s.walkExpr(n.Expression)
	case *solast.TupleExpression:
		for _, c := range n.Components {
			if c != nil {
				s.walkTarget(c, compound)
			}
		}
	default:
		s.walkExpr(e)
	}
}

// markRootWrite marks the state variable at the root of a place path as
// plainly written.
func (s *scanner) markRootWrite(e solast.Expression) {
	for {
		switch n := e.(type) {
		case *solast.Identifier:
			if s.isStateVar(n.Name) {
				s.write(n.Name, false)
			}
			return
		case *solast.IndexAccess:
			e = n.Base
		case *solast.MemberAccess:
			e = n.Expression
		default:
			return
		}
	}
}

func (s *scanner) scanCall(n *solast.FunctionCall) {
	for _, arg := range n.Arguments {
		s.walkExpr(arg)
	}

	switch callee := n.Expression.(type) {
	case *solast.Identifier:
		if kind := builtins.LookupFunction(callee.Name); kind != builtins.FnUnknown {
			if kind == builtins.FnSelfdestruct {
				s.need(needCallerCapability)
			}
			return
		}
		if len(s.t.contract.FunctionsByName(callee.Name)) > 0 {
			s.cur.calls = append(s.cur.calls, callSite{name: callee.Name, arity: len(n.Arguments), pos: n.Pos})
		}
	case *solast.MemberAccess:
		if base, ok := callee.Expression.(*solast.Identifier); ok && base.Name == "super" {
			s.cur.calls = append(s.cur.calls, callSite{name: callee.MemberName, arity: len(n.Arguments), pos: n.Pos})
			return
		}
		if builtins.LookupAddressMember(callee.MemberName).IsLowLevelCall() {
			s.need(needCallerCapability)
			return
		}
		s.scanMember(callee)
	case *solast.NameValueExpression:
		if inner, ok := callee.Expression.(*solast.MemberAccess); ok &&
			builtins.LookupAddressMember(inner.MemberName).IsLowLevelCall() {
			s.need(needCallerCapability)
		}
		s.walkExpr(callee)
	case *solast.ElementaryTypeNameExpression, *solast.NewExpression:
	default:
		s.walkExpr(n.Expression)
	}
}

func (s *scanner) scanMember(n *solast.MemberAccess) {
	if base, ok := n.Expression.(*solast.Identifier); ok {
		if acc, found := builtins.LookupEnv(base.Name, n.MemberName); found {
			if acc.Kind == builtins.EnvCaller {
				s.need(needCallerAddress)
			}
			return
		}
		if s.t.decls.isEnumName(base.Name) {
			return
		}
	}
	s.walkExpr(n.Expression)
}

func (s *scanner) walkAsm(node solast.AsmNode) {
	switch n := node.(type) {
	case *solast.AssemblyBlock:
		for _, op := range n.Operations {
			s.walkAsm(op)
		}
	case *solast.AssemblyCall:
		if n.FunctionName == "caller" || n.FunctionName == "origin" {
			s.need(needCallerAddress)
		}
		for _, arg := range n.Arguments {
			s.walkAsm(arg)
		}
	case *solast.AssemblyLocalDefinition:
		if n.Expression != nil {
			s.walkAsm(n.Expression)
		}
	case *solast.AssemblyAssignment:
		if n.Expression != nil {
			s.walkAsm(n.Expression)
		}
	case *solast.AssemblyIf:
		s.walkAsm(n.Condition)
		if n.Body != nil {
			s.walkAsm(n.Body)
		}
	case *solast.AssemblyFor:
		if n.Pre != nil {
			s.walkAsm(n.Pre)
		}
		if n.Condition != nil {
			s.walkAsm(n.Condition)
		}
		if n.Post != nil {
			s.walkAsm(n.Post)
		}
		if n.Body != nil {
			s.walkAsm(n.Body)
		}
	case *solast.AssemblySwitch:
		s.walkAsm(n.Expression)
		for _, c := range n.Cases {
			if c.Block != nil {
				s.walkAsm(c.Block)
			}
		}
	}
}
