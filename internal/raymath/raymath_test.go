package raymath

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ray(s string) *uint256.Int {
	return uint256.MustFromDecimal(s)
}

func TestMulIdentity(t *testing.T) {
	cases := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		ray("1000000000000000000000000000"),            // 1.0
		ray("1584407172113525096151"),                  // a realistic per-second rate
		ray("123456789012345678901234567890123456789"), // well above ray scale
	}

	for _, a := range cases {
		got, err := Mul(a, Scale)
		require.NoError(t, err)
		assert.True(t, got.Eq(a), "Mul(%s, Scale) = %s", a.Dec(), got.Dec())
	}
}

func TestMulZeroShortCircuit(t *testing.T) {
	max := new(uint256.Int).Not(new(uint256.Int)) // 2^256 - 1

	got, err := Mul(new(uint256.Int), max)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = Mul(max, new(uint256.Int))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestMulCommutes(t *testing.T) {
	a := ray("123456789123456789123456789")
	b := ray("987654321987654321987654321")

	ab, err := Mul(a, b)
	require.NoError(t, err)
	ba, err := Mul(b, a)
	require.NoError(t, err)
	assert.True(t, ab.Eq(ba))
}

func TestMulOverflow(t *testing.T) {
	max := new(uint256.Int).Not(new(uint256.Int))
	two := new(uint256.Int).Add(Scale, Scale) // 2.0 in ray

	_, err := Mul(max, two)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestDivByZero(t *testing.T) {
	_, err := Div(Scale, new(uint256.Int))
	assert.ErrorIs(t, err, ErrDivideByZero)
}

func TestDivSelf(t *testing.T) {
	cases := []*uint256.Int{
		uint256.NewInt(1),
		uint256.NewInt(31557600),
		Scale,
		ray("1584407172113525096151"),
		ray("800000000000000000000000000"),
	}

	for _, a := range cases {
		got, err := Div(a, a)
		require.NoError(t, err)
		assert.True(t, got.Eq(Scale), "Div(%s, %s) = %s", a.Dec(), a.Dec(), got.Dec())
	}
}

func TestDivQuotientOverflow(t *testing.T) {
	max := new(uint256.Int).Not(new(uint256.Int))

	// max * 1e27 / 1 cannot fit in 256 bits.
	_, err := Div(max, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func absDiff(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int).Sub(b, a)
	}
	return new(uint256.Int).Sub(a, b)
}

func TestMulDivRoundTrip(t *testing.T) {
	a := ray("123456789012345678901234567")

	// With b at or above 1.0 the unit truncated by Mul shrinks on the way
	// back, so Div(Mul(a, b), b) recovers a to within one unit.
	b := ray("3141592653589793238462643383")
	product, err := Mul(a, b)
	require.NoError(t, err)
	back, err := Div(product, b)
	require.NoError(t, err)
	assert.True(t, absDiff(a, back).LtUint64(2),
		"round-trip drift %s for b above scale", absDiff(a, back).Dec())
}

func TestMulDivRoundTripSmallMultiplier(t *testing.T) {
	a := ray("123456789012345678901234567")

	// With b well below 1.0 the unit truncated by Mul is amplified by
	// Scale/b when dividing back. The drift stays under that factor but
	// can be far more than one unit.
	b := ray("3141592653589793238462643") // ~0.0031
	product, err := Mul(a, b)
	require.NoError(t, err)
	back, err := Div(product, b)
	require.NoError(t, err)

	bound := new(uint256.Int).Div(Scale, b)
	bound.AddUint64(bound, 1)
	diff := absDiff(a, back)
	assert.False(t, diff.Gt(bound),
		"round-trip drift %s exceeds amplification bound %s", diff.Dec(), bound.Dec())
}

func TestPowZeroExponent(t *testing.T) {
	cases := []*uint256.Int{
		new(uint256.Int), // zero base included
		uint256.NewInt(1),
		Scale,
		ray("5000000000000000000000000000"),
	}

	for _, x := range cases {
		got, err := Pow(x, 0)
		require.NoError(t, err)
		assert.True(t, got.Eq(Scale), "Pow(%s, 0) = %s", x.Dec(), got.Dec())
	}
}

func TestPowOne(t *testing.T) {
	x := ray("1234500000000000000000000000")
	got, err := Pow(x, 1)
	require.NoError(t, err)
	assert.True(t, got.Eq(x))
}

func TestPowExact(t *testing.T) {
	two := ray("2000000000000000000000000000")
	got, err := Pow(two, 10)
	require.NoError(t, err)
	assert.Equal(t, "1024000000000000000000000000000", got.Dec())

	half := ray("500000000000000000000000000")
	got, err = Pow(half, 2)
	require.NoError(t, err)
	assert.Equal(t, "250000000000000000000000000", got.Dec())
}

func TestPowOverflow(t *testing.T) {
	thousand := ray("1000000000000000000000000000000") // 1000.0
	_, err := Pow(thousand, 100)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAddOverflow(t *testing.T) {
	max := new(uint256.Int).Not(new(uint256.Int))
	_, err := Add(max, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrOverflow)

	got, err := Add(uint256.NewInt(2), uint256.NewInt(3))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got.Uint64())
}

func TestSubUnderflow(t *testing.T) {
	_, err := Sub(uint256.NewInt(1), uint256.NewInt(2))
	assert.ErrorIs(t, err, ErrOverflow)

	got, err := Sub(Scale, Scale)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSecondsPerYearRay(t *testing.T) {
	// 365.25 days, not 365: the annualization constant by contract.
	expected := new(uint256.Int).Mul(uint256.NewInt(31_557_600), Scale)
	assert.True(t, SecondsPerYearRay.Eq(expected))
}
