package transform

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/builtins"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/typemap"
)

// Advisory is one row of the storage placement report: where a state
// variable ended up and why.
type Advisory struct {
	Variable string
	Group    string
	Class    string
	Note     string
}

// Advisory classes.
const (
	ClassConstant   = "constant"
	ClassImmutable  = "immutable"
	ClassGuard      = "guard"
	ClassAggregated = "aggregated"
	ClassIsolated   = "isolated"
	ClassResident   = "resident"
	ClassMirrored   = "mirrored"
	ClassDropped    = "dropped"
)

// plannedVar is one state variable placed into a storage group.
type plannedVar struct {
	Src    *ir.StateVar
	Field  string
	Mapped *typemap.Mapped

	// Aggregated fields are declared Aggregator<u128> and accessed through
	// the aggregator API instead of plain field reads and writes.
	Aggregated bool

	// GuardVar marks a reentrancy lock absorbed into the synthesized
	// entered flag; the variable itself is not emitted.
	GuardVar bool
}

// storageGroup is one resource struct published under the module address.
type storageGroup struct {
	Name    string
	Binding string
	Vars    []*plannedVar
}

// eventMirror is the tier-high write mirror for one variable: an event
// emitted after every store so indexers can follow state without reading
// resources.
type eventMirror struct {
	Var        string
	StructName string
	IsMap      bool
	Key        *typemap.Mapped
	Value      *typemap.Mapped
}

type varPlacement struct {
	group *storageGroup
	pv    *plannedVar
}

// storagePlan fixes where every state variable lives before any code is
// rewritten. Groups are ordered: the primary group first, then one group
// per isolated container, then the aggregated counters.
type storagePlan struct {
	Groups  []*storageGroup
	Primary *storageGroup

	Constants []*ir.StateVar

	HasGuard bool

	Mirrors     []*eventMirror
	mirrorByVar map[string]*eventMirror

	Advisories []Advisory

	byVar map[string]*varPlacement
}

func (p *storagePlan) groupOf(name string) *storageGroup {
	if placement := p.byVar[name]; placement != nil {
		return placement.group
	}
	return nil
}

func (p *storagePlan) varPlan(name string) (*storageGroup, *plannedVar) {
	if placement := p.byVar[name]; placement != nil {
		return placement.group, placement.pv
	}
	return nil, nil
}

func (p *storagePlan) mirrorOf(name string) *eventMirror {
	return p.mirrorByVar[name]
}

// planStorage partitions the state variables into resource groups per the
// optimization tier, absorbs reentrancy locks, lifts constants out and
// writes the advisory report.
func (t *Transformer) planStorage(usage *usageInfo) *storagePlan {
	plan := &storagePlan{
		byVar:       map[string]*varPlacement{},
		mirrorByVar: map[string]*eventMirror{},
	}

	takenNames := t.takenTypeNames()
	tiered := t.opts.OptimizationTier != config.TierLow

	state := &storageGroup{Name: uniqueTypeName("State", takenNames), Binding: "state"}
	var isolated []*storageGroup
	var counters *storageGroup

	advise := func(v *ir.StateVar, group, class, note string) {
		plan.Advisories = append(plan.Advisories, Advisory{
			Variable: v.Name, Group: group, Class: class, Note: note,
		})
	}

	for _, v := range t.contract.StateVars {
		mapped, issues := t.mapper.MapVariable(varDecl(v))
		for _, issue := range issues {
			t.reportIssue(issue)
		}

		if v.Mutability == ir.Constant {
			plan.Constants = append(plan.Constants, v)
			advise(v, "", ClassConstant, "folded to a module constant")
			continue
		}

		acc := usage.vars[v.Name]
		if acc == nil {
			acc = &varAccess{}
		}

		if builtins.IsGuardVariable(v.Name) && t.opts.ReentrancyGuard == config.GuardMutex {
			plan.HasGuard = true
			pv := &plannedVar{Src: v, Field: "entered", Mapped: mapped, GuardVar: true}
			plan.byVar[v.Name] = &varPlacement{group: state, pv: pv}
			advise(v, state.Name, ClassGuard, "absorbed into the entered flag")
			if intWidth(mapped) != 0 {
				t.report(errors.BuiltinApproximated(v.Name,
					"integer reentrancy lock absorbed into a boolean entered flag", v.Pos))
			}
			continue
		}

		pv := &plannedVar{Src: v, Field: snakeName(v.Name), Mapped: mapped}
		accessNote := fmt.Sprintf("%d reads, %d writes", acc.reads, acc.writes)

		switch {
		case tiered && mapped.IsMap:
			group := &storageGroup{Name: uniqueTypeName(typeNameOf(v.Name), takenNames)}
			group.Binding = snakeName(group.Name)
			group.Vars = append(group.Vars, pv)
			isolated = append(isolated, group)
			plan.byVar[v.Name] = &varPlacement{group: group, pv: pv}
			advise(v, group.Name, ClassIsolated, accessNote)
		case tiered && aggregatable(mapped, acc, v):
			if counters == nil {
				counters = &storageGroup{Name: uniqueTypeName("Counters", takenNames)}
				counters.Binding = snakeName(counters.Name)
			}
			pv.Aggregated = true
			counters.Vars = append(counters.Vars, pv)
			plan.byVar[v.Name] = &varPlacement{group: counters, pv: pv}
			advise(v, counters.Name, ClassAggregated, "compound-only writes, parallel-safe")
		default:
			state.Vars = append(state.Vars, pv)
			plan.byVar[v.Name] = &varPlacement{group: state, pv: pv}
			class := ClassResident
			note := accessNote
			if v.Mutability == ir.Immutable {
				class = ClassImmutable
				note = "assigned once during initialization"
			}
			advise(v, state.Name, class, note)
		}

		if t.opts.OptimizationTier == config.TierHigh && !pv.Aggregated &&
			acc.writes > 0 && mirrorable(mapped) &&
			t.opts.EventStyle == config.EventNative {
			mirror := &eventMirror{
				Var:        v.Name,
				StructName: uniqueTypeName(typeNameOf(v.Name)+"Update", takenNames),
				IsMap:      mapped.IsMap,
				Value:      mapped,
			}
			if mapped.IsMap {
				mirror.Key = mapped.Key
				mirror.Value = mapped.Value
			}
			plan.Mirrors = append(plan.Mirrors, mirror)
			plan.mirrorByVar[v.Name] = mirror
			advise(v, "", ClassMirrored,
				fmt.Sprintf("writes mirrored through %s events", mirror.StructName))
		}
	}

	if usage.anyGuard && t.opts.ReentrancyGuard == config.GuardMutex {
		plan.HasGuard = true
	}

	// the primary group carries the entered flag and deployment
	// bookkeeping; synthesize it when flags need a home and nothing else
	// created one
	needsPrimary := len(state.Vars) > 0 || plan.HasGuard ||
		(t.opts.ConstructorPattern != config.DeployDirect && usage.ctor != nil) ||
		(t.opts.EventStyle == config.EventHandles && len(usage.events) > 0)
	if needsPrimary {
		plan.Groups = append(plan.Groups, state)
	}
	plan.Groups = append(plan.Groups, isolated...)
	if counters != nil {
		plan.Groups = append(plan.Groups, counters)
	}
	if len(plan.Groups) > 0 {
		plan.Primary = plan.Groups[0]
	}

	return plan
}

// varDecl adapts a state variable record to the declaration shape the type
// mapper consumes.
func varDecl(v *ir.StateVar) *solast.VariableDeclaration {
	return &solast.VariableDeclaration{
		Pos:        v.Pos,
		Name:       v.Name,
		TypeName:   v.Type,
		TypeString: v.TypeString,
	}
}

// aggregatable reports whether a variable qualifies for the parallel
// counter representation: a mutable unsigned integer written only through
// compound addition and subtraction.
func aggregatable(m *typemap.Mapped, acc *varAccess, v *ir.StateVar) bool {
	if v.Mutability != ir.Mutable || m.IsSigned || m.Unknown {
		return false
	}
	if intWidth(m) == 0 {
		return false
	}
	return acc.writes > 0 && acc.plainWrites == 0
}

// mirrorable limits write mirrors to values that can live in an event:
// primitives, addresses, byte strings and enums.
func mirrorable(m *typemap.Mapped) bool {
	check := m
	if m.IsMap {
		if m.Key != nil && (m.Key.IsMap || m.Key.IsStruct || m.Key.IsVector) {
			return false
		}
		check = m.Value
	}
	if check == nil {
		return false
	}
	if check.IsMap || check.IsStruct {
		return false
	}
	if check.IsVector && !check.IsBytes {
		return false
	}
	return true
}

// takenTypeNames collects every type name already claimed by the source
// declarations, so synthesized group and mirror names never collide.
func (t *Transformer) takenTypeNames() map[string]bool {
	taken := map[string]bool{}
	for _, s := range t.contract.Structs {
		taken[s.Name] = true
	}
	for _, e := range t.contract.Enums {
		taken[e.Name] = true
	}
	for _, ev := range t.contract.Events {
		taken[ev.Name] = true
	}
	taken[t.contract.Name] = true
	return taken
}

// uniqueTypeName claims a free type name, suffixing Store and a counter
// until one is available.
func uniqueTypeName(base string, taken map[string]bool) string {
	name := base
	if taken[name] {
		name = base + "Store"
	}
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("%sStore%d", base, i)
	}
	taken[name] = true
	return name
}

// reportIssue converts a type mapping degradation into the matching
// diagnostic code.
func (t *Transformer) reportIssue(issue typemap.Issue) {
	code := errors.WarningTypeDegraded
	switch {
	case strings.Contains(issue.Message, "signed type"):
		code = errors.WarningSignedType
	case strings.Contains(issue.Message, "map key"):
		code = errors.WarningContainerKey
	}
	t.report(errors.NewTransformWarning(code, issue.Message, issue.Pos).Build())
}
