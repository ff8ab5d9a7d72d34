package gateway

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencies without a minor unit
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true,
	"xpf": true,
}

var threeDecimal = map[string]bool{
	"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
}

// NormalizeCurrency lower-cases code and checks it is three ASCII letters.
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

// MinorUnitMultiplier is 1, 100 or 1000 depending on the currency.
func MinorUnitMultiplier(currency string) int64 {
	c := strings.ToLower(currency)
	switch {
	case zeroDecimal[c]:
		return 1
	case threeDecimal[c]:
		return 1000
	default:
		return 100
	}
}

// ToMinorUnits converts a decimal amount to the processor's integer amount,
// rounding half away from zero to the nearest minor unit.
func ToMinorUnits(amount decimal.Decimal, currency string) (int64, error) {
	cur, err := NormalizeCurrency(currency)
	if err != nil {
		return 0, err
	}
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	minor := amount.Mul(decimal.NewFromInt(MinorUnitMultiplier(cur))).Round(0)
	if !minor.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}
