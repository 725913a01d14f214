package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"lstpool/internal/ratio"
)

func TestPriceExactIn(t *testing.T) {
	cases := []struct {
		name   string
		in     FeeAccount
		out    FeeAccount
		value  uint64
		expect uint64
	}{
		{name: "no fee", value: 1_000_000_000, expect: 1_000_000_000},
		{name: "output fee 1%", out: FeeAccount{OutputFeeBps: 100}, value: 1_000_000_000, expect: 990_000_000},
		{name: "input and output fees add", in: FeeAccount{InputFeeBps: 10}, out: FeeAccount{OutputFeeBps: 20}, value: 10_000, expect: 9_970},
		{name: "input premium", in: FeeAccount{InputFeeBps: -50}, value: 10_000, expect: 10_050},
		{name: "premium offsets fee", in: FeeAccount{InputFeeBps: -20}, out: FeeAccount{OutputFeeBps: 20}, value: 777, expect: 777},
		{name: "floors", out: FeeAccount{OutputFeeBps: 1}, value: 10_001, expect: 10_000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PriceExactIn(tc.value, tc.in, tc.out)
			require.NoError(t, err)
			require.Equal(t, tc.expect, got)
		})
	}
}

func TestPriceExactInOverflow(t *testing.T) {
	_, err := PriceExactIn(math.MaxUint64, FeeAccount{InputFeeBps: -100}, FeeAccount{})
	require.ErrorIs(t, err, ratio.ErrMath)

	_, err = PriceExactIn(10, FeeAccount{InputFeeBps: 10_000}, FeeAccount{OutputFeeBps: 1})
	require.ErrorIs(t, err, ratio.ErrMath)
}

func TestPriceExactOutCoversRequest(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := FeeAccount{InputFeeBps: rapid.Int16Range(MinSignedFeeBps, MaxSignedFeeBps).Draw(t, "inFee")}
		out := FeeAccount{OutputFeeBps: rapid.Int16Range(MinSignedFeeBps, MaxSignedFeeBps).Draw(t, "outFee")}
		fee := int32(in.InputFeeBps) + int32(out.OutputFeeBps)
		if fee >= BpsDenominator {
			t.Skip("fee leaves nothing to receive")
		}
		want := rapid.Uint64().Draw(t, "want")

		required, err := PriceExactOut(want, in, out)
		if errors.Is(err, ratio.ErrMath) {
			t.Skip("required input overflows")
		}
		if err != nil {
			t.Fatalf("exact out: %v", err)
		}
		got, err := PriceExactIn(required, in, out)
		if errors.Is(err, ratio.ErrMath) {
			t.Skip("output overflows")
		}
		if err != nil {
			t.Fatalf("exact in: %v", err)
		}
		if got < want {
			t.Fatalf("paying %d yields %d, less than requested %d", required, got, want)
		}
		if fee >= 0 && got != want {
			t.Fatalf("paying %d yields %d, want exactly %d", required, got, want)
		}
		if fee < 0 && required > 0 {
			less, err := PriceExactIn(required-1, in, out)
			if err != nil {
				t.Fatalf("exact in: %v", err)
			}
			if less >= want {
				t.Fatalf("%d already yields %d >= %d", required-1, less, want)
			}
		}
	})
}

func TestPriceExactOutPremiumRoundsUp(t *testing.T) {
	in := FeeAccount{InputFeeBps: -3_333}
	cases := []struct {
		want     uint64
		required uint64
	}{
		{want: 25, required: 19},
		{want: 23, required: 18},
		{want: 49, required: 37},
		{want: 13_333, required: 10_000},
	}
	for _, tc := range cases {
		required, err := PriceExactOut(tc.want, in, FeeAccount{})
		require.NoError(t, err)
		require.Equal(t, tc.required, required, "want %d", tc.want)

		got, err := PriceExactIn(required, in, FeeAccount{})
		require.NoError(t, err)
		require.GreaterOrEqual(t, got, tc.want)
	}
}

func TestPriceExactOutFullFee(t *testing.T) {
	_, err := PriceExactOut(1, FeeAccount{InputFeeBps: 5_000}, FeeAccount{OutputFeeBps: 5_000})
	require.ErrorIs(t, err, ratio.ErrMath)
}

func TestPriceLpTokens(t *testing.T) {
	minted, err := PriceLpTokensToMint(123)
	require.NoError(t, err)
	require.Equal(t, uint64(123), minted)

	state := ProgramState{LpWithdrawalFeeBps: 50}
	redeemed, err := state.PriceLpTokensToRedeem(1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(995_000), redeemed)

	_, err = ProgramState{LpWithdrawalFeeBps: 20_000}.PriceLpTokensToRedeem(1)
	require.ErrorIs(t, err, ratio.ErrOutOfBoundFee)
}

func TestFeeBounds(t *testing.T) {
	require.NoError(t, FeeAccount{InputFeeBps: -10_000, OutputFeeBps: 10_000}.Validate())
	require.ErrorIs(t, FeeAccount{InputFeeBps: -10_001}.Validate(), ErrSignedFeeOutOfBound)
	require.ErrorIs(t, FeeAccount{OutputFeeBps: 10_001}.Validate(), ErrSignedFeeOutOfBound)

	require.NoError(t, ValidateUnsignedFee(10_000))
	require.ErrorIs(t, ValidateUnsignedFee(10_001), ErrUnsignedFeeOutOfBound)
}
