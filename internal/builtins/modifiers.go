package builtins

// ModifierKind identifies the well-known modifier names that expand to
// canned assertion and state-update sequences instead of being inlined
// from a declaration.
type ModifierKind int

const (
	ModifierCustom ModifierKind = iota
	ModifierNonReentrant
	ModifierOnlyOwner
	ModifierOnlyRole
	ModifierWhenNotPaused
	ModifierWhenPaused
)

var wellKnownModifiers = map[string]ModifierKind{
	"nonReentrant":  ModifierNonReentrant,
	"onlyOwner":     ModifierOnlyOwner,
	"onlyRole":      ModifierOnlyRole,
	"whenNotPaused": ModifierWhenNotPaused,
	"whenPaused":    ModifierWhenPaused,
}

// LookupModifier classifies a modifier invocation by name. Names not in
// the well-known set are ModifierCustom and inline their declaration.
func LookupModifier(name string) ModifierKind {
	return wellKnownModifiers[name]
}

// guardVariables holds the state-variable names commonly used by
// hand-rolled and OpenZeppelin reentrancy guards. A recognized guard
// variable is absorbed by the injected entered field instead of becoming
// a storage field of its own.
var guardVariables = map[string]bool{
	"_status":          true,
	"_entered":         true,
	"_locked":          true,
	"locked":           true,
	"_notEntered":      true,
	"_reentrancyGuard": true,
	"_guardCounter":    true,
}

// IsGuardVariable reports whether a state-variable name is a recognized
// reentrancy-guard slot.
func IsGuardVariable(name string) bool {
	return guardVariables[name]
}

// pausedVariables and ownerVariables name the storage fields the canned
// pausable and ownership expansions check against when the source
// declares them.
var pausedVariables = map[string]bool{
	"_paused": true,
	"paused":  true,
}

var ownerVariables = map[string]bool{
	"_owner": true,
	"owner":  true,
}

// IsPausedVariable reports whether a state-variable name is a pause
// flag.
func IsPausedVariable(name string) bool {
	return pausedVariables[name]
}

// IsOwnerVariable reports whether a state-variable name is an ownership
// slot.
func IsOwnerVariable(name string) bool {
	return ownerVariables[name]
}
