package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// assemble collects the lowered pieces into the output module. Function
// bodies lower first because they record module usage, wrapping-helper
// demand and the owner capability; type, constant and import emission read
// those afterwards.
func (t *Transformer) assemble() *moveast.Module {
	out := &moveast.Module{
		Address: t.opts.Address,
		Name:    t.moduleName(),
	}

	fns := t.assembleFunctions()
	if init := t.assembleInitializer(); init != nil {
		fns = append([]*moveast.Function{init}, fns...)
	}
	fns = append(fns, t.wrappingHelpers()...)

	out.Structs = t.assembleStructs()
	out.Enums = t.assembleEnums()
	out.Constants = t.assembleConstants()
	out.Functions = fns
	out.Friends = t.assembleFriends()
	out.Uses = t.moduleUses(out)
	return out
}

// ---- functions ----

func (t *Transformer) assembleFunctions() []*moveast.Function {
	var out []*moveast.Function
	for _, f := range t.contract.Functions {
		if f.SourceName == "receive" || f.SourceName == "fallback" {
			t.report(errors.ImplicitEntryPoint(f.SourceName, f.Pos))
		}
		if f.Body == nil {
			if !t.contract.IsInterface() {
				t.report(errors.DroppedDeclaration(
					fmt.Sprintf("unimplemented function '%s'", f.SourceName), f.Pos))
			}
			continue
		}
		if fn := t.lowerFunction(f); fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// ---- initializer ----

// assembleInitializer emits the deployment function: a private init_module
// when no deployer-supplied parameters exist, a guarded entry initialize
// otherwise. State variables stage into locals in declaration order, the
// constructor body runs against the staged values and each storage group
// publishes with a single move_to. When the body calls into functions that
// acquire storage themselves, publication moves ahead of the body instead.
func (t *Transformer) assembleInitializer() *moveast.Function {
	if len(t.plan.Groups) == 0 && t.usage.ctor == nil {
		return nil
	}
	ctor := t.contract.Constructor
	t.resetScope(ctor, t.registry.ctor)
	t.fn.ctorVars = map[string]string{}

	bound := t.inheritedCtorArgs(ctor)
	hasParams := ctor != nil && len(ctor.Params) > 0 && bound == nil

	out := &moveast.Function{}
	signer := "deployer"
	if hasParams {
		out.Name = "initialize"
		out.Visibility = moveast.VisPublic
		out.IsEntry = true
		signer = t.opts.AuthorityParam
	} else {
		out.Name = "init_module"
		out.Visibility = moveast.VisPrivate
	}
	t.fn.signerName = signer
	t.fn.declareLocal(signer, nil)
	out.Params = []*moveast.Param{{Name: signer, Type: moveast.Ref(moveast.Signer())}}
	if hasParams {
		t.declaredParams(out, ctor)
	}

	var body []moveast.Stmt
	if hasParams {
		// anyone can call an entry function; pin it to the publisher and
		// make repeat calls abort
		notAuth := t.catalog.Ensure("E_NOT_AUTHORIZED")
		body = append(body, moveast.AssertCall(
			moveast.Bin("==",
				t.mod("signer", "address_of", moveast.NameOf(signer)),
				t.selfAddr()),
			t.abortCode(notAuth)))
		if t.plan.Primary != nil {
			already := t.catalog.Ensure("E_ALREADY_INITIALIZED")
			probe := &moveast.Call{
				Name:     "exists",
				TypeArgs: []moveast.Type{&moveast.TypeName{Name: t.plan.Primary.Name}},
				Args:     []moveast.Expr{t.selfAddr()},
			}
			body = append(body, moveast.AssertCall(
				moveast.Un("!", probe), t.abortCode(already)))
		}
	}

	// an inherited constructor runs with the arguments fixed at the
	// inheritance site
	if bound != nil {
		for i, p := range ctor.Params {
			m := t.paramMapped(p)
			srcName := p.Name
			if srcName == "" {
				srcName = fmt.Sprintf("arg_%d", i)
			}
			value := t.maskAssigned(t.expr(bound[i]), m)
			t.flushHoisted(&body)
			name := t.fn.declareSource(srcName, m)
			body = append(body, t.letStmt(name, m, value))
		}
	}

	body = append(body, t.stageStateVars()...)
	publish := t.publishGroups(signer)

	if t.ctorNeedsStorage() {
		body = append(body, publish...)
		t.fn.ctorVars = nil
		body = append(body, t.borrowCtorGroups()...)
		pre, post := t.applyModifiers(ctor)
		body = append(body, pre...)
		body = append(body, t.block(ctor.Body)...)
		if !terminal(body) {
			body = append(body, post...)
		}
		if t.opts.AcquiresStyle == config.AcquiresExplicit && t.registry.ctor != nil {
			for _, g := range t.registry.ctor.orderedGroups(t.plan) {
				out.Acquires = append(out.Acquires, g.Name)
			}
		}
	} else if ctor != nil {
		pre, post := t.applyModifiers(ctor)
		// early returns must still publish
		t.fn.pendingPosts = append(t.fn.pendingPosts, publish...)
		body = append(body, pre...)
		body = append(body, t.block(ctor.Body)...)
		if !terminal(body) {
			body = append(body, post...)
			body = append(body, publish...)
		}
	} else {
		body = append(body, publish...)
	}

	out.Body = &moveast.Block{Stmts: body}
	if t.opts.EmitComments {
		if hasParams {
			out.Doc = "Deploy-time initialization; callable once by the module publisher."
		} else {
			out.Doc = "Runs once on publication and seeds module storage."
		}
	}
	t.fn = nil
	return out
}

// inheritedCtorArgs returns the argument list fixed at the inheritance site
// when the flattened constructor came from a parent, nil when the contract
// declares its own or no arguments were pinned.
func (t *Transformer) inheritedCtorArgs(ctor *ir.Function) []solast.Expression {
	if ctor == nil || t.contract.ConstructorFrom == "" ||
		t.contract.ConstructorFrom == t.contract.Name {
		return nil
	}
	args := t.contract.ParentArgs[t.contract.ConstructorFrom]
	if len(args) != len(ctor.Params) {
		return nil
	}
	return args
}

// ctorNeedsStorage reports whether the constructor body reaches published
// storage: calls into functions that acquire it, or handle-based event
// emission through the primary group.
func (t *Transformer) ctorNeedsStorage() bool {
	u := t.usage.ctor
	if u == nil {
		return false
	}
	if u.emits && t.opts.EventStyle == config.EventHandles {
		return true
	}
	for _, site := range u.calls {
		target, _, ok := t.callTarget(site.name, site.arity)
		if !ok {
			continue
		}
		if info := t.registry.infoOf(target); info != nil && info.touches() {
			return true
		}
	}
	return false
}

// stageStateVars declares one local per planned variable carrying its
// initializer or zero value. Constructor code reads and writes the staged
// locals; publication collects them into the group literals.
func (t *Transformer) stageStateVars() []moveast.Stmt {
	var out []moveast.Stmt
	for _, v := range t.contract.StateVars {
		group, pv := t.plan.varPlan(v.Name)
		if pv == nil {
			continue
		}
		local := t.fn.tempName(pv.Field)
		t.fn.ctorVars[v.Name] = local
		var value moveast.Expr
		switch {
		case v.Initial != nil && pv.GuardVar:
			value = t.guardValue(t.expr(v.Initial), group, pv)
		case v.Initial != nil:
			value = t.maskAssigned(t.expr(v.Initial), pv.Mapped)
		case pv.GuardVar:
			value = moveast.BoolOf(false)
		default:
			value = t.zeroValue(pv.Mapped)
		}
		t.flushHoisted(&out)
		if pv.GuardVar {
			out = append(out, moveast.LetOf(local, value))
		} else {
			out = append(out, t.letStmt(local, pv.Mapped, value))
		}
	}
	return out
}

// publishGroups moves every storage group to the deployer address. Staged
// locals flow into plain fields, aggregated counters wrap into aggregators
// and deployment bookkeeping lands on the primary group.
func (t *Transformer) publishGroups(signer string) []moveast.Stmt {
	if len(t.plan.Groups) == 0 {
		return nil
	}
	var out []moveast.Stmt

	var bookkeeping []moveast.FieldInit
	if t.deployBookkeeping() {
		switch t.opts.ConstructorPattern {
		case config.DeployResourceAccount:
			out = append(out, &moveast.Let{
				Names: []string{"_resource_signer", "signer_cap"},
				Value: t.mod("account", "create_resource_account",
					moveast.NameOf(signer), moduleSeed(t.moduleName())),
			})
			bookkeeping = append(bookkeeping, moveast.FieldInit{
				Name: "signer_cap", Value: moveast.NameOf("signer_cap")})
		case config.DeployNamedObject:
			out = append(out,
				moveast.LetOf("constructor_ref", t.mod("object", "create_named_object",
					moveast.NameOf(signer), moduleSeed(t.moduleName()))),
				moveast.LetOf("extend_ref", t.mod("object", "generate_extend_ref",
					moveast.BorrowOf(moveast.NameOf("constructor_ref")))),
			)
			bookkeeping = append(bookkeeping, moveast.FieldInit{
				Name: "extend_ref", Value: moveast.NameOf("extend_ref")})
		}
	}

	for _, g := range t.plan.Groups {
		lit := &moveast.StructLit{Name: g.Name}
		for _, pv := range g.Vars {
			if pv.Aggregated {
				aggName := t.fn.tempName(pv.Field + "_agg")
				out = append(out, moveast.LetOf(aggName,
					t.modT("aggregator_v2", "create_unbounded_aggregator",
						[]moveast.Type{moveast.U128()})))
				if seeded := t.fn.ctorVars[pv.Src.Name]; seeded != "" && t.ctorSeeds(pv) {
					out = append(out, moveast.StmtOf(t.mod("aggregator_v2", "add",
						moveast.BorrowMutOf(moveast.NameOf(aggName)),
						moveast.CastTo(moveast.NameOf(seeded), moveast.U128()))))
				}
				lit.Fields = append(lit.Fields, moveast.FieldInit{
					Name: pv.Field, Value: moveast.NameOf(aggName)})
				continue
			}
			lit.Fields = append(lit.Fields, moveast.FieldInit{
				Name: pv.Field, Value: moveast.NameOf(t.fn.ctorVars[pv.Src.Name])})
		}
		if g == t.plan.Primary {
			lit.Fields = append(lit.Fields, t.primaryExtras(bookkeeping, signer)...)
		}
		out = append(out, moveast.StmtOf(&moveast.Call{
			Name: "move_to",
			Args: []moveast.Expr{moveast.NameOf(signer), lit},
		}))
	}

	if t.needsOwnerCap {
		out = append(out, moveast.StmtOf(&moveast.Call{
			Name: "move_to",
			Args: []moveast.Expr{moveast.NameOf(signer), &moveast.StructLit{Name: ownerCapName}},
		}))
	}
	return out
}

// primaryExtras fills the fields the primary group carries beyond declared
// variables: the entered flag, deployment bookkeeping and event handles.
func (t *Transformer) primaryExtras(bookkeeping []moveast.FieldInit, signer string) []moveast.FieldInit {
	var out []moveast.FieldInit
	if t.plan.HasGuard {
		value := moveast.Expr(moveast.BoolOf(false))
		if local := t.stagedGuardLocal(); local != "" {
			value = moveast.NameOf(local)
		}
		out = append(out, moveast.FieldInit{Name: "entered", Value: value})
	}
	out = append(out, bookkeeping...)
	if t.opts.EventStyle == config.EventHandles {
		for _, name := range t.usage.events {
			out = append(out, moveast.FieldInit{
				Name: eventHandleName(name),
				Value: t.modT("account", "new_event_handle",
					[]moveast.Type{moveast.Qualified("", typeNameOf(name))},
					moveast.NameOf(signer)),
			})
		}
	}
	return out
}

func (t *Transformer) stagedGuardLocal() string {
	if t.fn.ctorVars == nil {
		return ""
	}
	for _, v := range t.contract.StateVars {
		if _, pv := t.plan.varPlan(v.Name); pv != nil && pv.GuardVar {
			return t.fn.ctorVars[v.Name]
		}
	}
	return ""
}

// ctorSeeds reports whether a parallel counter can hold a nonzero staged
// value at publication.
func (t *Transformer) ctorSeeds(pv *plannedVar) bool {
	if pv.Src.Initial != nil {
		return true
	}
	return t.usage.ctor != nil && t.usage.ctor.writes[pv.Src.Name]
}

// borrowCtorGroups installs mutable bindings for every group the
// constructor body touches once publication has already happened.
func (t *Transformer) borrowCtorGroups() []moveast.Stmt {
	info := t.registry.ctor
	if info == nil {
		return nil
	}
	var out []moveast.Stmt
	for _, g := range info.orderedGroups(t.plan) {
		binding := t.fn.tempName(g.Binding)
		t.fn.bindings[g.Name] = binding
		t.fn.groupMut[g.Name] = true
		out = append(out, moveast.LetOf(binding, &moveast.Call{
			Name:     "borrow_global_mut",
			TypeArgs: []moveast.Type{moveast.Qualified("", g.Name)},
			Args:     []moveast.Expr{t.selfAddr()},
		}))
	}
	return out
}

// deployBookkeeping reports whether the primary group retains a derived
// account handle for the configured deployment pattern. Contracts without a
// constructor never create derived accounts.
func (t *Transformer) deployBookkeeping() bool {
	if t.opts.ConstructorPattern == config.DeployDirect {
		return false
	}
	return t.plan.Primary != nil && t.usage.ctor != nil
}

// moduleSeed is the deterministic seed for derived accounts and objects.
func moduleSeed(name string) moveast.Expr {
	return &moveast.ByteStringLit{Value: name}
}

// ---- types ----

// assembleStructs emits user structs, event payloads, write-mirror payloads
// and the storage groups, in that order.
func (t *Transformer) assembleStructs() []*moveast.Struct {
	var out []*moveast.Struct

	for _, def := range t.contract.Structs {
		s := &moveast.Struct{Name: def.Name, Abilities: t.structAbilities(def)}
		for _, f := range def.Fields {
			m := t.paramMapped(f)
			s.Fields = append(s.Fields, &moveast.Field{
				Name: snakeName(f.Name), Type: t.mappedType(m)})
		}
		out = append(out, s)
	}

	if t.opts.EventStyle != config.EventNone {
		for _, ev := range t.contract.Events {
			out = append(out, t.eventStruct(ev))
		}
	}
	for _, mirror := range t.plan.Mirrors {
		out = append(out, t.mirrorStruct(mirror))
	}
	for _, g := range t.plan.Groups {
		out = append(out, t.groupStruct(g))
	}

	if t.needsOwnerCap {
		s := &moveast.Struct{Name: ownerCapName, Abilities: []string{moveast.AbilityKey}}
		if t.opts.EmitComments {
			s.Doc = "Held by the deployment account; possession authorizes owner-only calls."
		}
		out = append(out, s)
	}
	return out
}

func (t *Transformer) eventStruct(ev *ir.Event) *moveast.Struct {
	s := &moveast.Struct{
		Name:      typeNameOf(ev.Name),
		Abilities: []string{moveast.AbilityDrop, moveast.AbilityStore},
		IsEvent:   t.opts.EventStyle == config.EventNative,
	}
	for i, p := range ev.Params {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("value_%d", i)
		}
		m, issues := t.mapper.Map(p.Type)
		for _, issue := range issues {
			t.reportIssue(issue)
		}
		s.Fields = append(s.Fields, &moveast.Field{
			Name: snakeName(name), Type: t.mappedType(m)})
	}
	return s
}

func (t *Transformer) mirrorStruct(m *eventMirror) *moveast.Struct {
	s := &moveast.Struct{
		Name:      m.StructName,
		Abilities: []string{moveast.AbilityDrop, moveast.AbilityStore},
		IsEvent:   true,
	}
	if t.opts.EmitComments {
		s.Doc = fmt.Sprintf("Emitted after every store to `%s`.", m.Var)
	}
	if m.IsMap {
		s.Fields = append(s.Fields, &moveast.Field{Name: "key", Type: t.mappedType(m.Key)})
	}
	s.Fields = append(s.Fields, &moveast.Field{Name: "value", Type: t.mappedType(m.Value)})
	return s
}

// groupStruct declares one storage resource. Synthesized fields follow the
// declared ones: the entered flag, deployment bookkeeping, event handles.
func (t *Transformer) groupStruct(g *storageGroup) *moveast.Struct {
	s := &moveast.Struct{Name: g.Name, Abilities: []string{moveast.AbilityKey}}
	aggregated := false
	for _, pv := range g.Vars {
		field := &moveast.Field{Name: pv.Field}
		if pv.Aggregated {
			aggregated = true
			field.Type = moveast.Qualified("aggregator_v2", "Aggregator", moveast.U128())
			t.use("aggregator_v2")
		} else {
			field.Type = t.mappedType(pv.Mapped)
		}
		s.Fields = append(s.Fields, field)
	}
	if g == t.plan.Primary {
		if t.plan.HasGuard {
			s.Fields = append(s.Fields, &moveast.Field{Name: "entered", Type: moveast.Bool()})
		}
		if t.deployBookkeeping() {
			switch t.opts.ConstructorPattern {
			case config.DeployResourceAccount:
				s.Fields = append(s.Fields, &moveast.Field{
					Name: "signer_cap", Type: moveast.Qualified("account", "SignerCapability")})
				t.use("account")
			case config.DeployNamedObject:
				s.Fields = append(s.Fields, &moveast.Field{
					Name: "extend_ref", Type: moveast.Qualified("object", "ExtendRef")})
				t.use("object")
			}
		}
		if t.opts.EventStyle == config.EventHandles {
			for _, name := range t.usage.events {
				s.Fields = append(s.Fields, &moveast.Field{
					Name: eventHandleName(name),
					Type: moveast.Qualified("event", "EventHandle",
						moveast.Qualified("", typeNameOf(name))),
				})
				t.use("event")
			}
		}
	}
	if t.opts.EmitComments {
		switch {
		case g == t.plan.Primary:
			s.Doc = "Module storage, published at initialization."
		case aggregated:
			s.Doc = "Parallel counters; updates go through the aggregator API."
		case len(g.Vars) == 1:
			s.Doc = fmt.Sprintf("Backing store for `%s`.", g.Vars[0].Src.Name)
		}
	}
	return s
}

// ---- enums ----

func (t *Transformer) assembleEnums() []*moveast.Enum {
	if t.opts.EnumRepr != config.EnumNative {
		return nil
	}
	var out []*moveast.Enum
	for _, def := range t.contract.Enums {
		out = append(out, &moveast.Enum{
			Name: def.Name,
			Abilities: []string{
				moveast.AbilityCopy, moveast.AbilityDrop, moveast.AbilityStore},
			Variants: append([]string(nil), def.Members...),
		})
	}
	return out
}

// ---- constants ----

// assembleConstants lays out module constants: folded source constants
// first, integer enum encodings next, abort codes last.
func (t *Transformer) assembleConstants() []*moveast.Constant {
	var out []*moveast.Constant
	for _, info := range t.constOrder {
		out = append(out, t.constantDecl(info))
	}
	if t.opts.EnumRepr == config.EnumConstants {
		for _, def := range t.contract.Enums {
			for i, member := range def.Members {
				out = append(out, &moveast.Constant{
					Name:  enumConstName(def.Name, member),
					Type:  moveast.U8(),
					Value: moveast.IntOf(uint64(i)),
				})
			}
		}
	}
	width := t.opts.ErrorCodeWidth
	if width == 0 {
		width = 64
	}
	for _, entry := range t.catalog.Entries(t.opts.EmitAllStandardErrors) {
		c := &moveast.Constant{
			Name:  entry.Name,
			Type:  moveast.UnsignedInt(width),
			Value: moveast.IntOf(entry.Code),
		}
		if t.opts.EmitComments {
			c.Doc = entry.Doc
		}
		out = append(out, c)
	}
	return out
}

// ---- wrapping helpers ----

// wrappingHelpers synthesizes the modular arithmetic functions recorded
// during lowering, in name order.
func (t *Transformer) wrappingHelpers() []*moveast.Function {
	if len(t.wrapHelpers) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.wrapHelpers))
	for name := range t.wrapHelpers {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*moveast.Function, 0, len(names))
	for _, name := range names {
		if fn := t.wrappingHelper(name); fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

func (t *Transformer) wrappingHelper(name string) *moveast.Function {
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return nil
	}
	width, err := strconv.Atoi(strings.TrimPrefix(parts[2], "u"))
	if err != nil {
		return nil
	}
	ty := moveast.UnsignedInt(width)
	a, b := moveast.NameOf("a"), moveast.NameOf("b")
	max := moveast.Int(typemap.MaskLiteral(width))

	var result moveast.Expr
	switch parts[1] {
	case "add":
		// a + b exceeds max exactly when a > max - b; the wrapped value
		// is the excess, minus one for the pass through zero
		headroom := moveast.Bin("-", max, b)
		result = &moveast.IfExpr{
			Cond: moveast.Bin(">", a, headroom),
			Then: moveast.Bin("-", moveast.Bin("-", a, headroom), moveast.Int("1")),
			Else: moveast.Bin("+", a, b),
		}
	case "sub":
		result = &moveast.IfExpr{
			Cond: moveast.Bin(">=", a, b),
			Then: moveast.Bin("-", a, b),
			Else: moveast.Bin("+",
				moveast.Bin("-", max, moveast.Bin("-", b, a)), moveast.Int("1")),
		}
	case "mul":
		// widen, multiply, mask back down; lowering never requests a
		// multiply helper above u128
		wide := moveast.UnsignedInt(width * 2)
		product := moveast.Bin("*", moveast.CastTo(a, wide), moveast.CastTo(b, wide))
		result = moveast.CastTo(moveast.Bin("&", product, max), ty)
	default:
		return nil
	}

	return &moveast.Function{
		Name:       name,
		Visibility: moveast.VisPrivate,
		IsInline:   t.opts.InlineHints,
		Params: []*moveast.Param{
			{Name: "a", Type: ty},
			{Name: "b", Type: ty},
		},
		Results: []moveast.Type{ty},
		Body: &moveast.Block{Stmts: []moveast.Stmt{
			&moveast.Return{Value: result},
		}},
	}
}

// ---- friends ----

// assembleFriends declares sibling contract modules as friends so that
// public(friend) functions stay callable inside the package.
func (t *Transformer) assembleFriends() []string {
	if t.opts.InternalVisibility != config.VisibilityFriend {
		return nil
	}
	var out []string
	for name, sibling := range t.known {
		if name == t.contract.Name || sibling.IsInterface() {
			continue
		}
		out = append(out, t.opts.Address+"::"+snakeName(name))
	}
	sort.Strings(out)
	return out
}
