// Package estimate turns raw provider amounts into comparable estimates.
package estimate

import (
	"math"
	"math/big"

	cosmath "cosmossdk.io/math"

	"meta-swap/pkg/types"
)

// maxSignificantDecimals is the number of fractional digits kept before converting to float
const maxSignificantDecimals = 8

// minTruncation is the least number of digits dropped by the integer division
const minTruncation = 3

// Params carries the raw figures an adapter extracted from a provider response
type Params struct {
	InputAmount     cosmath.Int
	OutputAmount    cosmath.Int
	InputDecimals   int
	OutputDecimals  int
	Steps           []types.RouteStep
	GasCostUSD      float64
	GasCostWei      cosmath.Int
	FeeCostUSD      float64
	FeeCostWei      cosmath.Int
	ApprovalAddress string
}

// Normalize computes the human output and exchange rate of a quote.
// A zero input yields a zero rate.
func Normalize(p Params) types.Estimate {
	humanIn := ToHuman(p.InputAmount, p.InputDecimals)
	humanOut := ToHuman(p.OutputAmount, p.OutputDecimals)

	rate := 0.0
	if humanIn != 0 {
		rate = humanOut / humanIn
	}

	return types.Estimate{
		EstimatedOutput:       humanOut,
		EstimatedOutputWei:    intString(p.OutputAmount),
		EstimatedExchangeRate: rate,
		TotalGasCostUSD:       p.GasCostUSD,
		TotalGasCostWei:       intString(p.GasCostWei),
		TotalFeeCostUSD:       p.FeeCostUSD,
		TotalFeeCostWei:       intString(p.FeeCostWei),
		ApprovalAddress:       p.ApprovalAddress,
		Steps:                 p.Steps,
	}
}

// ToHuman scales a raw integer amount down by its decimals.
// The integer is first floor-divided by 10^max(decimals-8, 3) so that the
// remaining value converts to float64 without overflow of the safe range.
func ToHuman(raw cosmath.Int, decimals int) float64 {
	if raw.IsNil() || raw.IsZero() {
		return 0
	}
	roundExp := max(decimals-maxSignificantDecimals, minTruncation)
	truncated := new(big.Int).Quo(raw.BigInt(), pow10(roundExp))
	f, _ := new(big.Float).SetInt(truncated).Float64()
	return f / math.Pow10(decimals-roundExp)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func intString(i cosmath.Int) string {
	if i.IsNil() {
		return "0"
	}
	return i.String()
}
