package rates

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlend/rate-engine/internal/raymath"
)

func TestUtilizationEmptyPool(t *testing.T) {
	u, err := Utilization(new(uint256.Int), new(uint256.Int))
	require.NoError(t, err)
	assert.True(t, u.IsZero())
}

func TestUtilizationDrainedPool(t *testing.T) {
	// No cash but outstanding debt: fully utilized by definition, not a
	// division by zero.
	u, err := Utilization(new(uint256.Int), ray("7000000000000000000000000000"))
	require.NoError(t, err)
	assert.True(t, u.Eq(raymath.Scale))
}

func TestUtilizationNoBorrows(t *testing.T) {
	u, err := Utilization(ray("7000000000000000000000000000"), new(uint256.Int))
	require.NoError(t, err)
	assert.True(t, u.IsZero())
}

func TestUtilizationExactRatio(t *testing.T) {
	// 2 borrowed out of 10 total: exactly 0.20 in ray.
	u, err := Utilization(ray("8000000000000000000000000000"), ray("2000000000000000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, "200000000000000000000000000", u.Dec())
}

func TestUtilizationNeverExceedsScale(t *testing.T) {
	u, err := Utilization(uint256.NewInt(1), ray("999999999999999999999999999999"))
	require.NoError(t, err)
	assert.False(t, u.Gt(raymath.Scale))
}
