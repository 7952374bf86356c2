package estimate

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	cosmath "cosmossdk.io/math"

	"meta-swap/pkg/types"
)

// ErrInvalidAmount is returned for amounts that are not non-negative integers
var ErrInvalidAmount = errors.New("invalid amount")

// maxExponent bounds scientific notation to the digits of a 256-bit integer
const maxExponent = 78

// ParseAmount parses a decimal or 0x-hex integer amount
func ParseAmount(s string) (cosmath.Int, error) {
	s = strings.TrimSpace(s)
	var n *big.Int
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return cosmath.Int{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
		}
		n = v
	} else {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return cosmath.Int{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
		}
		n = v
	}
	if n.Sign() < 0 || n.BitLen() > cosmath.MaxBitLen {
		return cosmath.Int{}, fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
	}
	return cosmath.NewIntFromBigInt(n), nil
}

// ParseUnits converts a human decimal ("1.5") into raw units for the given decimals
func ParseUnits(value string, decimals int) (cosmath.Int, error) {
	value = strings.TrimSpace(value)
	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return cosmath.Int{}, fmt.Errorf("%w %q: more than %d decimals", ErrInvalidAmount, value, decimals)
	}
	return ParseAmount(whole + frac + strings.Repeat("0", decimals-len(frac)))
}

// CanonicalAmount returns the decimal integer form of an amount given as an
// integer, a decimal or in scientific notation. Fractions are rounded half up.
func CanonicalAmount(s string) (string, error) {
	s = strings.TrimSpace(s)
	if n, ok := new(big.Int).SetString(s, 10); ok {
		if n.BitLen() > cosmath.MaxBitLen {
			return "", fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
		}
		return n.String(), nil
	}
	// leading zeros of the mantissa may lower the exponent by at most len(s)
	if exponent(s) > maxExponent+int64(len(s)) {
		return "", fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
	}
	f, _, err := big.ParseFloat(s, 10, 512, big.ToNearestEven)
	if err != nil || f.IsInf() {
		return "", fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	if f.MantExp(nil) > cosmath.MaxBitLen+1 {
		return "", fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
	}
	half := big.NewFloat(0.5)
	if f.Sign() < 0 {
		half.Neg(half)
	}
	n, _ := f.Add(f, half).Int(nil)
	if n.BitLen() > cosmath.MaxBitLen {
		return "", fmt.Errorf("%w %q: out of range", ErrInvalidAmount, s)
	}
	return n.String(), nil
}

// exponent returns the decimal exponent of a number in scientific notation, 0 without one
func exponent(s string) int64 {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return 0
	}
	e, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// left to ParseFloat, which rejects it
		return 0
	}
	// out of range values are clamped to the int64 bounds
	return e
}

// AddAmounts returns a+b, failing when the sum does not fit in 256 bits
func AddAmounts(a, b cosmath.Int) (cosmath.Int, error) {
	sum := new(big.Int).Add(a.BigInt(), b.BigInt())
	if sum.BitLen() > cosmath.MaxBitLen {
		return cosmath.Int{}, fmt.Errorf("%w: %s + %s: out of range", ErrInvalidAmount, a, b)
	}
	return cosmath.NewIntFromBigInt(sum), nil
}

// SumCosts totals the USD and raw amounts of a cost list. Unparseable entries
// count as zero, a raw total past 256 bits is an error.
func SumCosts(costs []types.Cost) (float64, cosmath.Int, error) {
	usd := 0.0
	wei := cosmath.ZeroInt()
	for _, c := range costs {
		if v, err := strconv.ParseFloat(c.AmountUSD, 64); err == nil {
			usd += v
		}
		v, err := ParseAmount(c.Amount)
		if err != nil {
			continue
		}
		if wei, err = AddAmounts(wei, v); err != nil {
			return 0, cosmath.Int{}, err
		}
	}
	return usd, wei, nil
}

// Quantity normalizes a decimal or hex quantity to its decimal string, "" stays ""
func Quantity(s string) string {
	if s == "" {
		return ""
	}
	n, err := ParseAmount(s)
	if err != nil {
		return s
	}
	return n.String()
}

// Double returns twice a decimal or hex gas amount, "" when it cannot be
// parsed or the result does not fit in 256 bits
func Double(gas string) string {
	n, err := ParseAmount(gas)
	if err != nil {
		return ""
	}
	doubled := new(big.Int).Lsh(n.BigInt(), 1)
	if doubled.BitLen() > cosmath.MaxBitLen {
		return ""
	}
	return doubled.String()
}
