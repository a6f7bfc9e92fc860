package builtins

// EnvKind selects how an environment accessor is lowered.
type EnvKind int

const (
	// EnvCall lowers to a framework getter call.
	EnvCall EnvKind = iota
	// EnvCaller resolves to the caller address of the enclosing function.
	EnvCaller
	// EnvValue resolves to the transferred amount of the enclosing payable
	// function, and folds to zero everywhere else.
	EnvValue
	// EnvUnsupported degrades to a zero placeholder with a warning.
	EnvUnsupported
)

// EnvAccessor describes a Solidity environment member such as msg.sender
// or block.timestamp and how it is reached on Aptos.
type EnvAccessor struct {
	Base   string
	Member string

	// Module and Function name the getter call for EnvCall accessors. The
	// module name is resolved to a full import path by the stdlib catalog.
	Module   string
	Function string

	// NativeWidth is the bit width returned by the target getter. The
	// rewriter inserts a widening cast when the declared source width is
	// wider.
	NativeWidth int

	Kind EnvKind

	// Note is appended to the diagnostic when the lowering is approximate.
	Note string
}

// envAccessors holds every recognized member of msg, block and tx.
var envAccessors = map[string]EnvAccessor{
	"msg.sender": {Base: "msg", Member: "sender", Kind: EnvCaller},
	"msg.value":  {Base: "msg", Member: "value", Kind: EnvValue},
	"msg.data":   {Base: "msg", Member: "data", Kind: EnvUnsupported, Note: "raw calldata has no Aptos equivalent"},
	"msg.sig":    {Base: "msg", Member: "sig", Kind: EnvUnsupported, Note: "function selectors have no Aptos equivalent"},

	"block.timestamp":  {Base: "block", Member: "timestamp", Kind: EnvCall, Module: "timestamp", Function: "now_seconds", NativeWidth: 64},
	"block.number":     {Base: "block", Member: "number", Kind: EnvCall, Module: "block", Function: "get_current_block_height", NativeWidth: 64},
	"block.chainid":    {Base: "block", Member: "chainid", Kind: EnvCall, Module: "chain_id", Function: "get", NativeWidth: 8},
	"block.coinbase":   {Base: "block", Member: "coinbase", Kind: EnvUnsupported, Note: "block proposer is not observable"},
	"block.difficulty": {Base: "block", Member: "difficulty", Kind: EnvUnsupported, Note: "block difficulty is not observable"},
	"block.prevrandao": {Base: "block", Member: "prevrandao", Kind: EnvUnsupported, Note: "block randomness is not observable"},
	"block.basefee":    {Base: "block", Member: "basefee", Kind: EnvUnsupported, Note: "base fee is not observable"},
	"block.gaslimit":   {Base: "block", Member: "gaslimit", Kind: EnvUnsupported, Note: "gas limit is not observable"},

	"tx.origin":   {Base: "tx", Member: "origin", Kind: EnvCaller, Note: "tx.origin approximated by the direct caller"},
	"tx.gasprice": {Base: "tx", Member: "gasprice", Kind: EnvUnsupported, Note: "gas price is not observable"},
}

// LookupEnv returns the accessor entry for base.member.
func LookupEnv(base, member string) (EnvAccessor, bool) {
	acc, ok := envAccessors[base+"."+member]
	return acc, ok
}

// LookupEnvIdentifier resolves the retired bare globals that alias an
// environment member, such as now for block.timestamp.
func LookupEnvIdentifier(name string) (EnvAccessor, bool) {
	if name == "now" {
		return envAccessors["block.timestamp"], true
	}
	return EnvAccessor{}, false
}
