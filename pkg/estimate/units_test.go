package estimate_test

import (
	"strings"
	"testing"

	cosmath "cosmossdk.io/math"

	"github.com/stretchr/testify/require"

	"meta-swap/pkg/estimate"
	"meta-swap/pkg/types"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	n, err := estimate.ParseAmount("1000")
	require.NoError(t, err)
	require.Equal(t, "1000", n.String())

	n, err = estimate.ParseAmount("0x3e8")
	require.NoError(t, err)
	require.Equal(t, "1000", n.String())

	n, err = estimate.ParseAmount("0x00")
	require.NoError(t, err)
	require.True(t, n.IsZero())

	for _, bad := range []string{"", "-1", "1.5", "0x", "abc"} {
		_, err = estimate.ParseAmount(bad)
		require.ErrorIsf(t, err, estimate.ErrInvalidAmount, "input %q", bad)
	}
}

func TestParseUnits(t *testing.T) {
	t.Parallel()

	n, err := estimate.ParseUnits("1.5", 6)
	require.NoError(t, err)
	require.Equal(t, "1500000", n.String())

	n, err = estimate.ParseUnits("1000", 6)
	require.NoError(t, err)
	require.Equal(t, "1000000000", n.String())

	n, err = estimate.ParseUnits(".25", 18)
	require.NoError(t, err)
	require.Equal(t, "250000000000000000", n.String())

	_, err = estimate.ParseUnits("0.1234567", 6)
	require.ErrorIs(t, err, estimate.ErrInvalidAmount)
}

func TestCanonicalAmount(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1000000000":  "1000000000",
		" 007 ":       "7",
		"1e18":        "1000000000000000000",
		"1.5e3":       "1500",
		"2.5":         "3",
		"2.4":         "2",
		"0":           "0",
	}
	for in, want := range cases {
		got, err := estimate.CanonicalAmount(in)
		require.NoErrorf(t, err, "input %q", in)
		require.Equalf(t, want, got, "input %q", in)
	}

	_, err := estimate.CanonicalAmount("ten")
	require.Error(t, err)
}

func TestCanonicalAmount_OutOfRange(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"1e5000000",
		"1e99999999999999999999",
		"1E+400",
		"2e77",
		"1" + strings.Repeat("0", 80),
	} {
		_, err := estimate.CanonicalAmount(in)
		require.ErrorIsf(t, err, estimate.ErrInvalidAmount, "input %q", in[:min(len(in), 12)])
	}

	got, err := estimate.CanonicalAmount("0.00001e80")
	require.NoError(t, err)
	require.Equal(t, "1"+strings.Repeat("0", 75), got)
}

func TestSumCosts(t *testing.T) {
	t.Parallel()

	usd, wei, err := estimate.SumCosts([]types.Cost{
		{Amount: "100", AmountUSD: "0.5"},
		{Amount: "0x64", AmountUSD: ""},
		{Amount: "", AmountUSD: "1.5"},
	})
	require.NoError(t, err)
	require.Equal(t, 2.0, usd)
	require.Equal(t, "200", wei.String())
}

func TestSumCosts_OutOfRange(t *testing.T) {
	t.Parallel()

	maxUint256 := "0x" + strings.Repeat("f", 64)

	_, _, err := estimate.SumCosts([]types.Cost{{Amount: maxUint256}, {Amount: maxUint256}})

	require.ErrorIs(t, err, estimate.ErrInvalidAmount)
}

func TestAddAmounts(t *testing.T) {
	t.Parallel()

	one := cosmath.OneInt()
	sum, err := estimate.AddAmounts(one, one)
	require.NoError(t, err)
	require.Equal(t, "2", sum.String())

	max, err := estimate.ParseAmount("0x" + strings.Repeat("f", 64))
	require.NoError(t, err)
	_, err = estimate.AddAmounts(max, one)
	require.ErrorIs(t, err, estimate.ErrInvalidAmount)
}

func TestQuantityAndDouble(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", estimate.Quantity(""))
	require.Equal(t, "16", estimate.Quantity("0x10"))
	require.Equal(t, "16", estimate.Quantity("16"))
	require.Equal(t, "300000", estimate.Double("150000"))
	require.Equal(t, "32", estimate.Double("0x10"))
	require.Equal(t, "", estimate.Double(""))
	require.Equal(t, "", estimate.Double("0x"+strings.Repeat("f", 64)))
	require.Equal(t, "115792089237316195423570985008687907853269984665640564039457584007913129639934",
		estimate.Double("0x7"+strings.Repeat("f", 63)))
}
