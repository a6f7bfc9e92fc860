package transform

import (
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
)

// authorityNeed is the caller identity a function requires, ordered so that
// a stronger need joins over a weaker one.
type authorityNeed int

const (
	needNone authorityNeed = iota
	// needCallerAddress: the body observes who called (msg.sender checks,
	// ownership asserts). An address value is enough.
	needCallerAddress
	// needCallerCapability: the body acts on the caller's behalf (value
	// movement, account mutation). Only a signer reference serves.
	needCallerCapability
)

func (n authorityNeed) String() string {
	switch n {
	case needCallerAddress:
		return "caller-address"
	case needCallerCapability:
		return "caller-capability"
	default:
		return "none"
	}
}

func joinNeed(a, b authorityNeed) authorityNeed {
	if b > a {
		return b
	}
	return a
}

// functionInfo is the per-function record the emission passes key off:
// final name, authority need and the storage groups the function touches,
// both after closure over its internal callees.
type functionInfo struct {
	fn        *ir.Function
	finalName string
	usage     *fnUsage

	need authorityNeed

	// groups and groupWrites cover the function's own accesses plus those
	// of every private function it reaches. Public functions borrow these
	// groups; private functions receive them as reference parameters.
	groups      map[string]bool
	groupWrites map[string]bool

	callees []*functionInfo

	public bool
	view   bool
}

// touches reports whether the function reaches any storage group.
func (fi *functionInfo) touches() bool {
	return len(fi.groups) > 0
}

// writesAny reports whether the function writes any storage group.
func (fi *functionInfo) writesAny() bool {
	return len(fi.groupWrites) > 0
}

// orderedGroups returns the touched groups in plan order.
func (fi *functionInfo) orderedGroups(plan *storagePlan) []*storageGroup {
	var out []*storageGroup
	for _, g := range plan.Groups {
		if fi.groups[g.Name] {
			out = append(out, g)
		}
	}
	return out
}

// functionRegistry holds every function record plus the constructor's, with
// needs and group sets closed over the internal call graph.
type functionRegistry struct {
	infos []*functionInfo
	byFn  map[*ir.Function]*functionInfo
	ctor  *functionInfo

	// passes counts fixpoint iterations, including the final pass that
	// observes no change.
	passes int
}

func (r *functionRegistry) infoOf(f *ir.Function) *functionInfo {
	return r.byFn[f]
}

// buildRegistry seeds per-function records from the scan results, wires the
// internal call graph and closes needs and group sets over it. Calls into
// public functions do not propagate: a public callee acquires storage
// itself, which the call site reports separately.
func (t *Transformer) buildRegistry(usage *usageInfo) *functionRegistry {
	r := &functionRegistry{byFn: map[*ir.Function]*functionInfo{}}

	seed := func(f *ir.Function, u *fnUsage, finalName string) *functionInfo {
		info := &functionInfo{
			fn:          f,
			finalName:   finalName,
			usage:       u,
			need:        u.ownNeed,
			groups:      map[string]bool{},
			groupWrites: map[string]bool{},
		}
		for name := range u.reads {
			if g := t.plan.groupOf(name); g != nil {
				info.groups[g.Name] = true
			}
		}
		for name := range u.writes {
			if g := t.plan.groupOf(name); g != nil {
				info.groups[g.Name] = true
				info.groupWrites[g.Name] = true
			}
		}
		if u.usesGuard && t.plan.HasGuard && t.plan.Primary != nil {
			info.groups[t.plan.Primary.Name] = true
			info.groupWrites[t.plan.Primary.Name] = true
		}
		if u.emits && t.opts.EventStyle == config.EventHandles && t.plan.Primary != nil {
			// handle-based emission writes through the handle stored in
			// the primary group
			info.groups[t.plan.Primary.Name] = true
			info.groupWrites[t.plan.Primary.Name] = true
		}
		return info
	}

	for _, f := range t.contract.Functions {
		u := usage.perFn[f]
		if u == nil {
			u = newFnUsage()
		}
		info := seed(f, u, t.finalNames[f])
		info.public = f.IsPublic()
		info.view = f.IsPublic() && f.IsViewLike()
		r.infos = append(r.infos, info)
		r.byFn[f] = info
	}

	if usage.ctor != nil {
		r.ctor = seed(t.contract.Constructor, usage.ctor, "")
		r.ctor.need = needCallerCapability
	}

	wire := func(info *functionInfo) {
		for _, site := range info.usage.calls {
			target, _, ok := t.callTarget(site.name, site.arity)
			if !ok {
				continue
			}
			callee := r.byFn[target]
			if callee == nil || callee.public {
				continue
			}
			info.callees = append(info.callees, callee)
		}
	}
	for _, info := range r.infos {
		wire(info)
	}
	if r.ctor != nil {
		wire(r.ctor)
	}

	all := r.infos
	if r.ctor != nil {
		all = append(append([]*functionInfo{}, r.infos...), r.ctor)
	}
	for changed := true; changed; {
		changed = false
		r.passes++
		for _, info := range all {
			for _, callee := range info.callees {
				if joined := joinNeed(info.need, callee.need); joined != info.need {
					info.need = joined
					changed = true
				}
				for g := range callee.groups {
					if !info.groups[g] {
						info.groups[g] = true
						changed = true
					}
				}
				for g := range callee.groupWrites {
					if !info.groupWrites[g] {
						info.groupWrites[g] = true
						changed = true
					}
				}
			}
		}
	}

	return r
}
