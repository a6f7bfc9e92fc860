package transform

import (
	"runtime"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/sourcegraph/conc/pool"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/config"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/ir"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// UnitResult is the outcome of transpiling one source unit: unit-level
// diagnostics, then one transform result per emitted contract in source
// order.
type UnitResult struct {
	Warnings  []errors.TransformError
	Contracts []*ContractResult
}

// ContractResult pairs a contract's transform outcome with its source name.
type ContractResult struct {
	Name string
	Result
}

// TranspileJSON decodes a parser-emitted source unit and transpiles it.
func TranspileJSON(data []byte, opts config.Options, workers int) (*UnitResult, error) {
	unit, err := solast.DecodeSourceUnit(data)
	if err != nil {
		return nil, err
	}
	return Transpile(unit, opts, workers), nil
}

// Transpile runs the two-phase batch pipeline: every contract lifts to its
// flat record first, then each concrete contract and library flattens
// against the complete registry and transforms on its own. Interfaces and
// abstract contracts stay in the registry only; their members reach the
// output through heirs. workers caps the concurrent transforms, zero
// selects GOMAXPROCS; results keep source order regardless of scheduling.
func Transpile(unit *solast.SourceUnit, opts config.Options, workers int) *UnitResult {
	out := &UnitResult{Warnings: gatePragmas(unit)}

	contracts, registry := ir.BuildUnit(unit)
	var targets []*ir.Contract
	for _, c := range contracts {
		if c.IsInterface() || c.IsAbstract() {
			continue
		}
		targets = append(targets, c)
	}
	if len(targets) == 0 {
		return out
	}

	knownNames := make([]string, 0, len(registry))
	for name := range registry {
		knownNames = append(knownNames, name)
	}
	sort.Strings(knownNames)

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*ContractResult, len(targets))
	p := pool.New().WithMaxGoroutines(workers)
	for i, c := range targets {
		p.Go(func() {
			results[i] = transpileContract(c, registry, knownNames, opts)
		})
	}
	p.Wait()

	out.Contracts = results
	return out
}

func transpileContract(c *ir.Contract, registry ir.Registry, knownNames []string, opts config.Options) *ContractResult {
	flat, missing := ir.Flatten(c, registry)
	res := NewTransformer(opts).Transform(flat, registry)
	if len(missing) > 0 {
		pre := make([]errors.TransformError, 0, len(missing)+len(res.Warnings))
		for _, parent := range missing {
			pre = append(pre, errors.MissingParent(c.Name, parent, c.Pos, knownNames))
		}
		res.Warnings = append(pre, res.Warnings...)
	}
	return &ContractResult{Name: c.Name, Result: res}
}

// legacyProbes are released compiler versions from before checked
// arithmetic; a constraint admitting any of them predates 0.8 semantics.
var legacyProbes = []*semver.Version{
	semver.MustParse("0.4.26"),
	semver.MustParse("0.5.17"),
	semver.MustParse("0.6.12"),
	semver.MustParse("0.7.6"),
}

// gatePragmas inspects every solidity version pragma in the unit. Ranges
// admitting a pre-0.8 compiler get a semantics warning; unparseable ranges
// get a skip notice. Non-version pragmas pass through silently.
func gatePragmas(unit *solast.SourceUnit) []errors.TransformError {
	var out []errors.TransformError
	for _, child := range unit.Children {
		p, ok := child.(*solast.PragmaDirective)
		if !ok || p.Name != "solidity" {
			continue
		}
		constraint, err := semver.NewConstraint(p.Value)
		if err != nil {
			out = append(out, errors.UnparsedPragma(p.Value, p.Pos))
			continue
		}
		for _, probe := range legacyProbes {
			if constraint.Check(probe) {
				out = append(out, errors.LegacyPragma(p.Value, p.Pos))
				break
			}
		}
	}
	return out
}
