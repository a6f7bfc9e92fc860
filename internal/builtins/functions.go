package builtins

// FunctionKind classifies the Solidity global functions the rewriter
// understands.
type FunctionKind int

const (
	FnUnknown FunctionKind = iota
	FnRequire
	FnAssert
	FnRevert
	FnKeccak256
	FnSha256
	FnRipemd160
	FnEcrecover
	FnAddmod
	FnMulmod
	FnBlockhash
	FnGasleft
	FnSelfdestruct
)

// globalFunctions maps a bare call target name to its kind.
var globalFunctions = map[string]FunctionKind{
	"require":      FnRequire,
	"assert":       FnAssert,
	"revert":       FnRevert,
	"keccak256":    FnKeccak256,
	"sha256":       FnSha256,
	"ripemd160":    FnRipemd160,
	"ecrecover":    FnEcrecover,
	"addmod":       FnAddmod,
	"mulmod":       FnMulmod,
	"blockhash":    FnBlockhash,
	"gasleft":      FnGasleft,
	"selfdestruct": FnSelfdestruct,
}

// LookupFunction classifies a bare call target such as require or
// keccak256. Unknown names return FnUnknown.
func LookupFunction(name string) FunctionKind {
	return globalFunctions[name]
}

// IsAssertion reports whether the kind is one of the revert-family
// condition builtins.
func (k FunctionKind) IsAssertion() bool {
	switch k {
	case FnRequire, FnAssert, FnRevert:
		return true
	}
	return false
}

// IsHash reports whether the kind is a hash builtin. Hash results are
// not reproducible at transform time, so a hash call in constant
// position cannot be folded.
func (k FunctionKind) IsHash() bool {
	switch k {
	case FnKeccak256, FnSha256, FnRipemd160:
		return true
	}
	return false
}

// HashTarget returns the framework module and function a hash builtin
// lowers to in expression position.
func (k FunctionKind) HashTarget() (module, function string, ok bool) {
	switch k {
	case FnKeccak256:
		return "aptos_hash", "keccak256", true
	case FnSha256:
		return "hash", "sha2_256", true
	case FnRipemd160:
		return "aptos_hash", "ripemd160", true
	}
	return "", "", false
}
