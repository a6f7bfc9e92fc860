package builtins

// MemberKind classifies the member calls Solidity allows on address
// values.
type MemberKind int

const (
	MemberUnknown MemberKind = iota
	MemberTransfer
	MemberSend
	MemberCall
	MemberDelegatecall
	MemberStaticcall
	MemberBalance
	MemberCode
	MemberCodehash
)

var addressMembers = map[string]MemberKind{
	"transfer":     MemberTransfer,
	"send":         MemberSend,
	"call":         MemberCall,
	"delegatecall": MemberDelegatecall,
	"staticcall":   MemberStaticcall,
	"balance":      MemberBalance,
	"code":         MemberCode,
	"codehash":     MemberCodehash,
}

// LookupAddressMember classifies a member access on an address value.
func LookupAddressMember(name string) MemberKind {
	return addressMembers[name]
}

// IsLowLevelCall reports whether the member is one of the raw call
// primitives that lower to a stubbed success tuple.
func (k MemberKind) IsLowLevelCall() bool {
	switch k {
	case MemberTransfer, MemberSend, MemberCall, MemberStaticcall:
		return true
	}
	return false
}
