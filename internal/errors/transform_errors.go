package errors

import (
	"fmt"
	"strings"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// TransformErrorBuilder provides a fluent interface for creating diagnostics
// with suggestions
type TransformErrorBuilder struct {
	err TransformError
}

// NewTransformError creates a new error builder
func NewTransformError(code, message string, pos solast.Position) *TransformErrorBuilder {
	return &TransformErrorBuilder{
		err: TransformError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewTransformWarning creates a new warning builder
func NewTransformWarning(code, message string, pos solast.Position) *TransformErrorBuilder {
	return &TransformErrorBuilder{
		err: TransformError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *TransformErrorBuilder) WithLength(length int) *TransformErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *TransformErrorBuilder) WithSuggestion(message string) *TransformErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *TransformErrorBuilder) WithReplacement(message, replacement string, pos solast.Position, length int) *TransformErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *TransformErrorBuilder) WithNote(note string) *TransformErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *TransformErrorBuilder) WithHelp(help string) *TransformErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *TransformErrorBuilder) Build() TransformError {
	return b.err
}

// Common diagnostic constructors, one per degradation the passes perform

// MissingParent reports an ancestor with no known declaration. Flattening
// skips the ancestor rather than failing, so this is a warning.
func MissingParent(contract, parent string, pos solast.Position, known []string) TransformError {
	builder := NewTransformWarning(WarningMissingParent,
		fmt.Sprintf("contract '%s' inherits from unknown contract '%s'", contract, parent), pos).
		WithLength(len(parent))

	similar := findSimilarNames(parent, known)
	if len(similar) == 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
	} else if len(similar) > 1 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	} else {
		builder = builder.WithSuggestion("make sure the parent contract is part of the same compilation batch")
	}

	return builder.WithNote("the parent's members are not merged into the flattened contract").Build()
}

// Delegatecall reports cross-call context switching.
func Delegatecall(member string, pos solast.Position) TransformError {
	return NewTransformError(ErrorDelegatecall,
		fmt.Sprintf("'%s' switches execution context across calls and cannot be expressed", member), pos).
		WithLength(len(member)).
		WithHelp("restructure the contract so storage is owned by a single module").
		Build()
}

// UnsupportedStatement reports a statement kind with no target equivalent.
func UnsupportedStatement(kind string, pos solast.Position) TransformError {
	return NewTransformError(ErrorUnsupportedStatement,
		fmt.Sprintf("statement '%s' cannot be expressed in the target model", kind), pos).
		WithNote("the statement is replaced by a diagnostic placeholder").
		Build()
}

// UnsupportedExpression reports an expression kind with no target equivalent.
func UnsupportedExpression(kind string, pos solast.Position) TransformError {
	return NewTransformError(ErrorUnsupportedExpression,
		fmt.Sprintf("expression '%s' cannot be expressed in the target model", kind), pos).
		WithNote("the expression is replaced by a zero placeholder").
		Build()
}

// ContractCreation reports a new-expression over a contract type.
func ContractCreation(name string, pos solast.Position) TransformError {
	return NewTransformError(ErrorContractCreation,
		fmt.Sprintf("contract '%s' cannot be created dynamically", name), pos).
		WithHelp("modules are published, not instantiated; deploy the target contract separately").
		Build()
}

// UnknownAssemblyOp reports an assembly builtin outside the vocabulary.
func UnknownAssemblyOp(name string, pos solast.Position, known []string) TransformError {
	builder := NewTransformError(ErrorUnknownAssemblyOp,
		fmt.Sprintf("assembly builtin '%s' is not supported", name), pos).
		WithLength(len(name))

	similar := findSimilarNames(name, known)
	if len(similar) > 0 {
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// AssemblyConstruct reports an assembly construct with no mapping.
func AssemblyConstruct(kind string, pos solast.Position) TransformError {
	return NewTransformError(ErrorAssemblyConstruct,
		fmt.Sprintf("assembly construct '%s' has no expression-level mapping", kind), pos).
		Build()
}

// UnfoldableConstant reports a constant initializer that cannot be evaluated
// at transform time. Strict mode turns the warning into a hard error.
func UnfoldableConstant(name, reason string, pos solast.Position, strict bool) TransformError {
	message := fmt.Sprintf("constant '%s' cannot be evaluated at transform time: %s", name, reason)
	if strict {
		return NewTransformError(ErrorUnfoldableConstant, message, pos).
			WithHelp("constants must fold to a literal; precompute the value off-chain").
			Build()
	}
	return NewTransformWarning(WarningUnfoldableConstant, message, pos).
		WithSuggestion("replace the initializer with the precomputed literal value").
		WithNote("a zero placeholder is emitted in its place").
		Build()
}

// UnresolvedConstant reports a constant initializer referencing an unknown
// symbol.
func UnresolvedConstant(name, ref string, pos solast.Position) TransformError {
	return NewTransformError(ErrorUnresolvedConstant,
		fmt.Sprintf("constant '%s' references unknown symbol '%s'", name, ref), pos).
		WithLength(len(ref)).
		Build()
}

// SignedTypeApproximated warns about signed integers mapped onto unsigned.
func SignedTypeApproximated(typeName, mapped string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningSignedType,
		fmt.Sprintf("signed type '%s' approximated by '%s'", typeName, mapped), pos).
		WithLength(len(typeName)).
		WithNote("negative values abort at runtime instead of wrapping").
		Build()
}

// TypeDegraded warns about a source type degraded to the widest integer.
func TypeDegraded(typeName string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningTypeDegraded,
		fmt.Sprintf("type '%s' degraded to u256", typeName), pos).
		WithLength(len(typeName)).
		Build()
}

// ContainerKeyDegraded warns about a container-typed map key.
func ContainerKeyDegraded(keyType string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningContainerKey,
		fmt.Sprintf("map key type '%s' degraded to u256", keyType), pos).
		WithNote("container keys are not hashable in the target model").
		Build()
}

// EnvAccessorApproximated warns about an approximated environment accessor.
func EnvAccessorApproximated(name, note string, pos solast.Position) TransformError {
	builder := NewTransformWarning(WarningEnvAccessor,
		fmt.Sprintf("'%s' approximated", name), pos).
		WithLength(len(name))
	if note != "" {
		builder = builder.WithNote(note)
	}
	return builder.Build()
}

// EnvAccessorUnavailable warns about an accessor with no target counterpart.
func EnvAccessorUnavailable(name, note string, pos solast.Position) TransformError {
	builder := NewTransformWarning(WarningEnvAccessor,
		fmt.Sprintf("'%s' is not observable on the target chain, zero emitted", name), pos).
		WithLength(len(name))
	if note != "" {
		builder = builder.WithNote(note)
	}
	return builder.Build()
}

// LowLevelCallStubbed warns about a raw call lowered to a success tuple.
func LowLevelCallStubbed(member string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningLowLevelCall,
		fmt.Sprintf("low-level '%s' stubbed to a fixed success result", member), pos).
		WithLength(len(member)).
		WithSuggestion("replace with an explicit coin transfer if value movement is intended").
		Build()
}

// ValueOutsidePayable warns about msg.value in a non-payable function.
func ValueOutsidePayable(pos solast.Position) TransformError {
	return NewTransformWarning(WarningValueOutsidePayable,
		"msg.value outside a payable function is always zero", pos).
		WithNote("the read folds to the literal 0").
		Build()
}

// WrappingMultiply warns about the unchecked multiply approximation.
func WrappingMultiply(pos solast.Position) TransformError {
	return NewTransformWarning(WarningWrappingMul,
		"wrapping multiplication approximated by checked multiply", pos).
		WithNote("an overflowing product aborts instead of wrapping").
		Build()
}

// OverloadSkipped warns about an ambiguous overloaded call site.
func OverloadSkipped(name string, arity int, pos solast.Position) TransformError {
	return NewTransformWarning(WarningOverloadSkipped,
		fmt.Sprintf("call to overloaded '%s' with %d argument(s) is ambiguous, left unrenamed", name, arity), pos).
		WithLength(len(name)).
		WithHelp("rename the overloads in source so each call resolves uniquely").
		Build()
}

// HashApproximated warns about byte-encoding differences under a hash builtin.
func HashApproximated(name string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningHashApproximated,
		fmt.Sprintf("'%s' operates on a differently encoded byte string than the source", name), pos).
		WithLength(len(name)).
		WithNote("digests will not match values computed on the source chain").
		Build()
}

// SelfdestructStubbed warns about a selfdestruct lowered to a no-op.
func SelfdestructStubbed(pos solast.Position) TransformError {
	return NewTransformWarning(WarningSelfdestruct,
		"selfdestruct stubbed to a no-op, modules cannot be destroyed", pos).
		Build()
}

// ImplicitEntryPoint warns about receive/fallback stubs.
func ImplicitEntryPoint(kind string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningImplicitEntryPoint,
		fmt.Sprintf("'%s' entry point has no implicit-dispatch equivalent, a named stub is emitted", kind), pos).
		Build()
}

// DroppedDeclaration warns about a declaration kind with no output form.
func DroppedDeclaration(kind string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningDroppedDeclaration,
		fmt.Sprintf("declaration '%s' dropped from the output module", kind), pos).
		Build()
}

// NestedAcquire warns about an internal call routed through a public
// function that borrows storage itself. The borrow checker rejects a second
// acquisition while the caller holds a reference to the same resource.
func NestedAcquire(name string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningNestedAcquire,
		fmt.Sprintf("call to public function '%s' re-acquires storage the caller may already hold", name), pos).
		WithLength(len(name)).
		WithSuggestion("extract the shared logic into a private helper that takes storage references").
		WithNote("the emitted call is rejected by the borrow checker when both functions touch the same resource").
		Build()
}

// BuiltinApproximated warns about an approximated builtin function.
func BuiltinApproximated(name, note string, pos solast.Position) TransformError {
	builder := NewTransformWarning(WarningBuiltinApproximated,
		fmt.Sprintf("builtin '%s' approximated", name), pos).
		WithLength(len(name))
	if note != "" {
		builder = builder.WithNote(note)
	}
	return builder.Build()
}

// LegacyPragma warns that the declared version range admits compilers
// where arithmetic wraps by default. The output always aborts on overflow
// unless the source spells an unchecked block.
func LegacyPragma(constraint string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningLegacyPragma,
		fmt.Sprintf("pragma '%s' admits pre-0.8 compilers where arithmetic wraps by default; the output aborts on overflow", constraint), pos).
		WithLength(len(constraint)).
		WithNote("wrap intentional wraparound in unchecked blocks so it survives the translation").
		Build()
}

// UnparsedPragma warns that a version constraint could not be parsed and
// the semantics gate was skipped.
func UnparsedPragma(constraint string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningUnparsedPragma,
		fmt.Sprintf("version constraint '%s' not understood, semantics gate skipped", constraint), pos).
		WithLength(len(constraint)).
		Build()
}

// AddressChecksum flags a twenty-byte hex literal whose mixed-case spelling
// does not verify under EIP-55. The literal still lowers to its numeric
// value, so a mistyped address survives into the output unnoticed otherwise.
func AddressChecksum(literal, want string, pos solast.Position) TransformError {
	return NewTransformWarning(WarningAddressChecksum,
		fmt.Sprintf("address literal '%s' fails its EIP-55 checksum", literal), pos).
		WithLength(len(literal)).
		WithSuggestion(fmt.Sprintf("did you mean '%s'?", want)).
		Build()
}

// Helper functions

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	// Initialize first row and column
	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill the matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
