package reporter

import (
	"strings"

	"github.com/holiman/uint256"
)

var (
	weiCeiling  = uint256.NewInt(100_000)             // below this, print plain wei
	gweiCeiling = uint256.NewInt(100_000_000_000_000) // below this, print gwei
)

// WeiToHumanReadable renders a wei amount the way a developer wants to read
// it: tiny amounts stay in wei, mid-range amounts become gwei, anything else
// becomes ETH. Fractions keep at most four digits with trailing zeros
// trimmed.
func WeiToHumanReadable(wei *uint256.Int) string {
	if wei == nil || wei.IsZero() {
		return "0 ETH"
	}
	if wei.Cmp(weiCeiling) < 0 {
		return wei.Dec() + " wei"
	}
	if wei.Cmp(gweiCeiling) < 0 {
		return toDecimalString(wei, 9) + " gwei"
	}
	return toDecimalString(wei, 18) + " ETH"
}

// toDecimalString divides value by 10^exponent and renders the quotient with
// at most four decimals.
func toDecimalString(value *uint256.Int, exponent uint64) string {
	const maxDecimals = 4

	pow10 := func(n uint64) *uint256.Int {
		return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(n))
	}

	integer, remainder := new(uint256.Int).DivMod(value, pow10(exponent), new(uint256.Int))
	fraction := new(uint256.Int).Div(remainder, pow10(exponent-maxDecimals))

	digits := fraction.Dec()
	for len(digits) < maxDecimals {
		digits = "0" + digits
	}
	digits = strings.TrimRight(digits, "0")

	if digits == "" {
		return integer.Dec()
	}
	return integer.Dec() + "." + digits
}
