package builtins

import "math/big"

// subdenominations maps a number-literal suffix to its multiplier.
// szabo and finney were retired in Solidity 0.7 and years in 0.5, but
// the parser still surfaces them on older sources.
var subdenominations = map[string]*big.Int{
	"wei":    big.NewInt(1),
	"gwei":   big.NewInt(1_000_000_000),
	"szabo":  exp10(12),
	"finney": exp10(15),
	"ether":  exp10(18),

	"seconds": big.NewInt(1),
	"minutes": big.NewInt(60),
	"hours":   big.NewInt(3600),
	"days":    big.NewInt(86400),
	"weeks":   big.NewInt(604800),
	"years":   big.NewInt(31536000),
}

func exp10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// SubdenominationFactor returns the multiplier for a number-literal
// suffix such as ether or days. The returned value is a fresh copy.
func SubdenominationFactor(unit string) (*big.Int, bool) {
	f, ok := subdenominations[unit]
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(f), true
}
