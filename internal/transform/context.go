// Package transform turns a flattened contract record into a Move module
// AST. The passes run in a fixed order per contract: overload dedup, body
// usage scan, storage planning, error-catalog seeding, registry fixpoint,
// then per-function lowering and final module assembly. State is split the
// same way throughout: fields on Transformer hold whole-module state, and
// fnScope holds everything that resets at the start of each function.
package transform

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/moveast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// Result is the outcome of transforming one contract. Success means zero
// errors; warnings never block it. The module is always present and
// well-formed, even when errors degraded parts of it to placeholders.
type Result struct {
	Success    bool
	Module     *moveast.Module
	Errors     []errors.TransformError
	Warnings   []errors.TransformError
	Advisories []Advisory
}

// Transformer lowers one flattened contract at a time. Create it once per
// options set and call Transform per contract; every per-contract field is
// reset on entry.
type Transformer struct {
	opts config.Options

	contract *ir.Contract
	known    ir.Registry // sibling contracts, read-only; may be nil
	decls    *declTable
	mapper   *typemap.Mapper
	usage    *usageInfo
	plan     *storagePlan
	catalog  *ErrorCatalog
	registry *functionRegistry

	// overload dedup products: every function gets a final emitted name;
	// unambiguous (source name, arity) pairs map to it for call-site
	// rewriting, ambiguous pairs are flagged instead.
	finalNames map[*ir.Function]string
	renames    map[string]string
	ambiguous  map[string]bool

	// constant folding products, keyed by source variable name and kept
	// in declaration order for emission.
	folder     *folder
	consts     map[string]*constInfo
	constOrder []*constInfo

	usedModules map[string]bool
	siblingUses map[string]bool // sibling library modules referenced by calls
	wrapHelpers map[string]bool // "wrapping_add_u64", ...

	// capability-object access control emits an owner capability struct
	// and seats it during initialization once any check references it
	needsOwnerCap bool

	errs  []errors.TransformError
	warns []errors.TransformError

	fn *fnScope
}

// NewTransformer builds a transformer for one options set.
func NewTransformer(opts config.Options) *Transformer {
	return &Transformer{opts: opts}
}

// Transform lowers a flattened contract into a module. known may carry the
// sibling contracts of the same batch for cross-contract name resolution;
// nil degrades user-defined names outside this contract to warnings.
func (t *Transformer) Transform(flat *ir.Contract, known ir.Registry) Result {
	t.contract = flat
	t.known = known
	t.decls = newDeclTable(flat, known)
	t.mapper = typemap.NewMapper(t.decls, typemap.Config{
		MapBacking: t.opts.MapBacking,
		StringRepr: t.opts.StringRepr,
		EnumRepr:   t.opts.EnumRepr,
	})
	t.catalog = NewErrorCatalog(nil)
	t.folder = nil
	t.consts = nil
	t.constOrder = nil
	t.finalNames = map[*ir.Function]string{}
	t.renames = map[string]string{}
	t.ambiguous = map[string]bool{}
	t.usedModules = map[string]bool{}
	t.siblingUses = map[string]bool{}
	t.wrapHelpers = map[string]bool{}
	t.needsOwnerCap = false
	t.errs = nil
	t.warns = nil
	t.fn = nil

	t.dedupeOverloads()
	t.usage = t.scanContract()
	t.plan = t.planStorage(t.usage)
	t.foldConstants()
	t.seedCustomErrors()
	t.registry = t.buildRegistry(t.usage)

	module := t.assemble()

	return Result{
		Success:    len(t.errs) == 0,
		Module:     module,
		Errors:     t.errs,
		Warnings:   t.warns,
		Advisories: t.plan.Advisories,
	}
}

// report routes a diagnostic to the error or warning list by its level.
func (t *Transformer) report(d errors.TransformError) {
	if d.IsError() {
		t.errs = append(t.errs, d)
	} else {
		t.warns = append(t.warns, d)
	}
}

// use records that the emitted code references a framework module, so the
// import pass can emit its use declaration.
func (t *Transformer) use(module string) {
	t.usedModules[module] = true
}

// mod builds a module-qualified call and records the import.
func (t *Transformer) mod(module, fn string, args ...moveast.Expr) *moveast.Call {
	t.use(module)
	return moveast.CallMod(module, fn, args...)
}

// modT builds a module-qualified call with type arguments and records the
// import.
func (t *Transformer) modT(module, fn string, typeArgs []moveast.Type, args ...moveast.Expr) *moveast.Call {
	t.use(module)
	return moveast.CallModT(module, fn, typeArgs, args...)
}

// selfAddr spells the named address the module publishes under.
func (t *Transformer) selfAddr() *moveast.AddressName {
	return moveast.AddrOf(t.opts.Address)
}

// moduleName is the emitted module name: the explicit override, or the
// contract name in snake case.
func (t *Transformer) moduleName() string {
	if t.opts.ModuleName != "" {
		return t.opts.ModuleName
	}
	return snakeName(t.contract.Name)
}

// fnScope is the per-function scratch state. A fresh scope is installed at
// the start of every function transform; nothing in it survives across
// functions.
type fnScope struct {
	fn   *ir.Function
	info *functionInfo

	// locals maps emitted (snake case) local and parameter names to their
	// mapped types; nil values mark names whose type is unknown.
	// renamedLocals maps source spellings to emitted names when a local
	// would shadow a reserved name such as a storage binding.
	locals        map[string]*typemap.Mapped
	renamedLocals map[string]string

	// bindings maps a storage group name to the local or parameter that
	// holds its acquired reference; groupMut records whether that binding
	// is mutable.
	bindings map[string]string
	groupMut map[string]bool

	// ctorVars maps state variable names to the constructor locals that
	// stage their initial values; nil outside the constructor.
	ctorVars map[string]string

	// signerName is the in-scope &signer parameter, empty when absent.
	// addrName is the spelling of the caller address once materialized.
	signerName string
	addrName   string

	namedReturns []string
	returnTypes  []*typemap.Mapped

	// pendingPosts holds modifier post-checks and guard resets; they are
	// replayed before every return statement while set.
	pendingPosts []moveast.Stmt

	// loopIncrements carries the pending increment statements of enclosing
	// for-loops lowered to while, so continue can replay them.
	loopIncrements [][]moveast.Stmt

	// hoisted accumulates assignments lifted out of expression position;
	// statement emitters flush it before the consuming statement.
	hoisted []moveast.Stmt

	// slotKey is the key spelling of the most recent map slot borrow;
	// write mirrors reference it without re-evaluating the key.
	slotKey moveast.Expr

	inUnchecked bool
	temps       map[string]int
}

func (t *Transformer) resetScope(f *ir.Function, info *functionInfo) {
	t.fn = &fnScope{
		fn:            f,
		info:          info,
		locals:        map[string]*typemap.Mapped{},
		renamedLocals: map[string]string{},
		bindings:      map[string]string{},
		groupMut:      map[string]bool{},
		temps:         map[string]int{},
	}
}

// declareLocal registers an emitted local name with its mapped type.
func (s *fnScope) declareLocal(name string, m *typemap.Mapped) {
	s.locals[name] = m
}

// declareSource registers a new local declared in source under its emitted
// name, bumping it when it would shadow a reserved name.
func (s *fnScope) declareSource(srcName string, m *typemap.Mapped) string {
	emitted := snakeName(srcName)
	if _, taken := s.locals[emitted]; taken {
		emitted = s.tempName(emitted)
	}
	s.locals[emitted] = m
	if emitted != snakeName(srcName) {
		s.renamedLocals[srcName] = emitted
	}
	return emitted
}

// localName resolves a source identifier to its emitted local name; the
// bool result is false when no local with that spelling is in scope.
func (s *fnScope) localName(srcName string) (string, bool) {
	if emitted, ok := s.renamedLocals[srcName]; ok {
		return emitted, true
	}
	emitted := snakeName(srcName)
	if _, ok := s.locals[emitted]; ok {
		return emitted, true
	}
	return "", false
}

// tempName returns a deterministic unused local name based on base.
func (s *fnScope) tempName(base string) string {
	if _, taken := s.locals[base]; !taken && s.temps[base] == 0 {
		s.temps[base] = 1
		s.locals[base] = nil
		return base
	}
	s.temps[base]++
	name := fmt.Sprintf("%s_%d", base, s.temps[base])
	s.locals[name] = nil
	return name
}

// flushHoisted moves any pending hoisted statements into out.
func (t *Transformer) flushHoisted(out *[]moveast.Stmt) {
	if t.fn == nil || len(t.fn.hoisted) == 0 {
		return
	}
	*out = append(*out, t.fn.hoisted...)
	t.fn.hoisted = nil
}

// takeHoisted removes and returns the pending hoisted statements.
func (t *Transformer) takeHoisted() []moveast.Stmt {
	if t.fn == nil || len(t.fn.hoisted) == 0 {
		return nil
	}
	out := t.fn.hoisted
	t.fn.hoisted = nil
	return out
}

// callerAddr returns the spelling of the caller address, materializing it
// from the signer parameter on first use when necessary. The bool result is
// false when no caller identity is reachable in this function.
func (t *Transformer) callerAddr() (moveast.Expr, bool) {
	s := t.fn
	if s.addrName != "" {
		return moveast.NameOf(s.addrName), true
	}
	if s.signerName != "" {
		s.addrName = t.opts.AuthorityParam + "_addr"
		s.declareLocal(s.addrName, &typemap.Mapped{Move: moveast.Address()})
		s.hoisted = append(s.hoisted, moveast.LetOf(s.addrName,
			t.mod("signer", "address_of", moveast.NameOf(s.signerName))))
		return moveast.NameOf(s.addrName), true
	}
	return nil, false
}

// snakeName converts a source identifier to the emitted snake_case form.
// Names already in snake case pass through unchanged.
func snakeName(name string) string {
	if name == "" {
		return name
	}
	return strcase.ToSnake(name)
}

// typeNameOf converts a source type or struct name to the emitted
// PascalCase form.
func typeNameOf(name string) string {
	if name == "" {
		return name
	}
	return strcase.ToCamel(name)
}
