package transform

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/errors"
	"github.com/SeamMoney/aptos-move-transpiler-sub000/internal/solast"
)

// addrSpellingKind classifies a hex source spelling against the source
// language's address-literal rule: a literal of exactly twenty bytes is
// address-typed when its mixed-case spelling verifies as an EIP-55
// checksum. Single-case spellings make no checksum claim.
type addrSpellingKind int

const (
	addrNotAddress addrSpellingKind = iota
	addrPlain
	addrChecksummed
	addrBadChecksum
)

func classifyAddressSpelling(text string) addrSpellingKind {
	if !isHexSpelling(text) || !common.IsHexAddress(text) {
		return addrNotAddress
	}
	digits := text[2:]
	if strings.ToLower(digits) == digits || strings.ToUpper(digits) == digits {
		return addrPlain
	}
	if checksummedForm(text)[2:] == digits {
		return addrChecksummed
	}
	return addrBadChecksum
}

// checksummedForm is the EIP-55 spelling of a twenty-byte hex literal.
func checksummedForm(text string) string {
	return common.HexToAddress(text).Hex()
}

// checkAddressSpelling vets a folded value bound for address position. A
// mixed-case twenty-byte spelling that fails its checksum is almost always
// a mistyped address rather than a styling choice, and the numeric value
// alone no longer shows the damage. Computed values and shorter spellings
// carry no claim and pass silently.
func (t *Transformer) checkAddressSpelling(value *foldValue, pos solast.Position) {
	if value == nil || !value.hex {
		return
	}
	if classifyAddressSpelling(value.text) == addrBadChecksum {
		t.report(errors.AddressChecksum(value.text, checksummedForm(value.text), pos))
	}
}
