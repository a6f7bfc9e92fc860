package errors

// Error codes for the transpiler
// These codes are used in diagnostics and documentation to provide
// consistent identification across the toolchain.
//
// Error code ranges:
// T0001-T0099: Lowering errors (IR construction, inheritance flattening)
// T1001-T1099: Rewriting errors (statements, expressions, functions)
// T2001-T2099: Inline-assembly errors
// T3001-T3099: Module-assembly errors (constants, dedup, abilities)
// W0001-W0099: Warnings (best-effort substitutions)

const (
	// Lowering errors (reserved range: T0001-T0099)
	// T0001-T0010 available for immediate use when needed

	// T1001: Cross-call context switching has no target equivalent
	ErrorDelegatecall = "T1001"

	// T1002: Statement kind with no target equivalent
	ErrorUnsupportedStatement = "T1002"

	// T1003: Expression kind with no target equivalent
	ErrorUnsupportedExpression = "T1003"

	// T1004: Dynamic contract creation has no target equivalent
	ErrorContractCreation = "T1004"

	// T2001: Assembly builtin outside the supported vocabulary
	ErrorUnknownAssemblyOp = "T2001"

	// T2002: Assembly construct with no expression-level mapping
	ErrorAssemblyConstruct = "T2002"

	// T3001: Constant initializer not foldable (strict mode)
	ErrorUnfoldableConstant = "T3001"

	// T3002: Constant initializer references an unknown symbol
	ErrorUnresolvedConstant = "T3002"

	// Warning codes

	// W0001: Signed integer type approximated by an unsigned one
	WarningSignedType = "W0001"

	// W0002: Source type degraded to the widest integer
	WarningTypeDegraded = "W0002"

	// W0003: Container-typed map key degraded
	WarningContainerKey = "W0003"

	// W0004: Environment accessor approximated or unavailable
	WarningEnvAccessor = "W0004"

	// W0005: Low-level call stubbed to a fixed success tuple
	WarningLowLevelCall = "W0005"

	// W0006: msg.value outside a payable function folds to zero
	WarningValueOutsidePayable = "W0006"

	// W0007: Wrapping multiplication approximated by checked multiply
	WarningWrappingMul = "W0007"

	// W0008: Constant initializer not foldable, placeholder emitted
	WarningUnfoldableConstant = "W0008"

	// W0009: Overload rewrite skipped at an ambiguous call site
	WarningOverloadSkipped = "W0009"

	// W0010: Hash builtin lowered over approximated byte encoding
	WarningHashApproximated = "W0010"

	// W0011: selfdestruct stubbed to a no-op
	WarningSelfdestruct = "W0011"

	// W0012: Implicit entry point replaced by a named stub
	WarningImplicitEntryPoint = "W0012"

	// W0013: Declaration kind dropped from the output module
	WarningDroppedDeclaration = "W0013"

	// W0014: Builtin function approximated
	WarningBuiltinApproximated = "W0014"

	// W0015: Ancestor with no known declaration skipped during flattening
	WarningMissingParent = "W0015"

	// W0016: Internal call re-enters storage through a public function
	WarningNestedAcquire = "W0016"

	// W0017: Pragma admits pre-0.8 semantics; arithmetic becomes checked
	WarningLegacyPragma = "W0017"

	// W0018: Pragma version constraint not understood, gate skipped
	WarningUnparsedPragma = "W0018"

	// W0019: Address literal fails its EIP-55 checksum
	WarningAddressChecksum = "W0019"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorDelegatecall:
		return "delegatecall-style context switching cannot be expressed in the target model"
	case ErrorUnsupportedStatement:
		return "Statement kind cannot be expressed in the target model"
	case ErrorUnsupportedExpression:
		return "Expression kind cannot be expressed in the target model"
	case ErrorContractCreation:
		return "Contracts cannot be created dynamically in the target model"
	case ErrorUnknownAssemblyOp:
		return "Assembly builtin is outside the supported vocabulary"
	case ErrorAssemblyConstruct:
		return "Assembly construct has no expression-level mapping"
	case ErrorUnfoldableConstant:
		return "Constant initializer cannot be evaluated at transform time"
	case ErrorUnresolvedConstant:
		return "Constant initializer references an unknown symbol"
	case WarningSignedType:
		return "Signed integer type approximated by an unsigned one"
	case WarningTypeDegraded:
		return "Source type degraded to the widest integer type"
	case WarningContainerKey:
		return "Container-typed map key degraded to an integer key"
	case WarningEnvAccessor:
		return "Environment accessor approximated or unavailable"
	case WarningLowLevelCall:
		return "Low-level call stubbed to a fixed success tuple"
	case WarningValueOutsidePayable:
		return "msg.value outside a payable function is always zero"
	case WarningWrappingMul:
		return "Wrapping multiplication approximated by checked multiply"
	case WarningUnfoldableConstant:
		return "Constant initializer not foldable, placeholder emitted"
	case WarningOverloadSkipped:
		return "Overloaded call left unrenamed at an ambiguous arity"
	case WarningHashApproximated:
		return "Hash builtin lowered over an approximated byte encoding"
	case WarningSelfdestruct:
		return "selfdestruct stubbed to a no-op"
	case WarningImplicitEntryPoint:
		return "receive/fallback entry point replaced by a named stub"
	case WarningDroppedDeclaration:
		return "Declaration kind dropped from the output module"
	case WarningBuiltinApproximated:
		return "Builtin function approximated"
	case WarningMissingParent:
		return "Unknown ancestor skipped during inheritance flattening"
	case WarningNestedAcquire:
		return "Internal call re-acquires storage already borrowed by the caller"
	case WarningLegacyPragma:
		return "Pragma admits pre-0.8 semantics, arithmetic becomes checked"
	case WarningUnparsedPragma:
		return "Pragma version constraint not understood, gate skipped"
	case WarningAddressChecksum:
		return "Address literal fails the EIP-55 checksum"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return len(code) > 0 && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "T0001" && code < "T0100":
		return "Lowering"
	case code >= "T1001" && code < "T1100":
		return "Rewriting"
	case code >= "T2001" && code < "T2100":
		return "Inline Assembly"
	case code >= "T3001" && code < "T3100":
		return "Module Assembly"
	case len(code) > 0 && code[0] == 'W':
		return "Warning"
	default:
		return "Unknown"
	}
}
