package estimate_test

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/types"
)

func mustInt(t *testing.T, s string) cosmath.Int {
	t.Helper()
	n, ok := cosmath.NewIntFromString(s)
	require.Truef(t, ok, "bad int %q", s)
	return n
}

func TestNormalize_RateAcrossDecimals(t *testing.T) {
	t.Parallel()

	// Arrange: 1.0 of an 18 decimals token for 0.999 of a 6 decimals token
	params := estimate.Params{
		InputAmount:     mustInt(t, "1000000000000000000"),
		OutputAmount:    mustInt(t, "999000"),
		InputDecimals:   18,
		OutputDecimals:  6,
		GasCostUSD:      1.25,
		GasCostWei:      mustInt(t, "420000000000000"),
		ApprovalAddress: "0x1231DEB6f5749EF6cE6943a275A1D3E7486F4EaE",
		Steps:           []types.RouteStep{{Type: "swap", Tool: "uniswap"}},
	}

	// Act
	est := estimate.Normalize(params)

	// Assert
	require.InDelta(t, 0.999, est.EstimatedExchangeRate, 1e-6)
	require.InDelta(t, 0.999, est.EstimatedOutput, 1e-9)
	require.Equal(t, "999000", est.EstimatedOutputWei)
	require.Equal(t, 1.25, est.TotalGasCostUSD)
	require.Equal(t, "420000000000000", est.TotalGasCostWei)
	require.Equal(t, "0", est.TotalFeeCostWei)
	require.Equal(t, params.ApprovalAddress, est.ApprovalAddress)
	require.Len(t, est.Steps, 1)
}

func TestNormalize_ZeroAmounts(t *testing.T) {
	t.Parallel()

	est := estimate.Normalize(estimate.Params{
		InputAmount:    cosmath.ZeroInt(),
		OutputAmount:   cosmath.ZeroInt(),
		InputDecimals:  6,
		OutputDecimals: 18,
	})
	require.Zero(t, est.EstimatedExchangeRate)
	require.Zero(t, est.EstimatedOutput)
	require.Equal(t, "0", est.EstimatedOutputWei)

	// Assert: unset amounts behave like zero
	est = estimate.Normalize(estimate.Params{InputDecimals: 18, OutputDecimals: 18})
	require.Zero(t, est.EstimatedExchangeRate)
	require.Equal(t, "0", est.EstimatedOutputWei)
}

func TestNormalize_ZeroInputKeepsOutput(t *testing.T) {
	t.Parallel()

	est := estimate.Normalize(estimate.Params{
		InputAmount:    cosmath.ZeroInt(),
		OutputAmount:   mustInt(t, "5000000"),
		InputDecimals:  6,
		OutputDecimals: 6,
	})
	require.Zero(t, est.EstimatedExchangeRate)
	require.Equal(t, 5.0, est.EstimatedOutput)
}

func TestToHuman_Truncation(t *testing.T) {
	t.Parallel()

	// Assert: 18 decimals keep 8 fractional digits
	require.Equal(t, 1.23456789, estimate.ToHuman(mustInt(t, "1234567891234567891"), 18))

	// Assert: 6 decimals drop the last 3 digits
	require.Equal(t, 1.234, estimate.ToHuman(mustInt(t, "1234567"), 6))

	// Assert: fewer decimals than the truncation floor scale back up
	require.InDelta(t, 12000.0, estimate.ToHuman(mustInt(t, "12345"), 0), 1e-9)

	// Assert: amounts beyond float64 integer precision stay accurate
	require.InDelta(t, 123456789012.345678, estimate.ToHuman(mustInt(t, "123456789012345678901234567890"), 18), 1e-3)
}
