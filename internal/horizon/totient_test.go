package horizon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorize(t *testing.T) {
	tests := []struct {
		m    int64
		want []PrimePower
	}{
		{1, nil},
		{2, []PrimePower{{2, 1}}},
		{9, []PrimePower{{3, 2}}},
		{360, []PrimePower{{2, 3}, {3, 2}, {5, 1}}},
		{2047, []PrimePower{{23, 1}, {89, 1}}},
		{1 << 31, []PrimePower{{2, 31}}},
	}
	for _, tt := range tests {
		got, err := Factorize(tt.m)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "m=%d", tt.m)
	}

	_, err := Factorize(0)
	assert.True(t, IsInvalidArgument(err))
}

func TestPhi(t *testing.T) {
	want := map[int64]int64{1: 1, 2: 1, 7: 6, 9: 6, 10: 4, 15: 8, 36: 12, 97: 96, 1023: 600}
	for m, phi := range want {
		got, err := Phi(m)
		require.NoError(t, err)
		assert.Equal(t, phi, got, "φ(%d)", m)
	}

	_, err := Phi(-5)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestPhi_MatchesCount(t *testing.T) {
	for m := int64(1); m <= 300; m++ {
		var count int64
		for k := int64(1); k <= m; k++ {
			if GCD(k, m) == 1 {
				count++
			}
		}
		got, err := Phi(m)
		require.NoError(t, err)
		assert.Equal(t, count, got, "φ(%d)", m)
	}
}

func TestPrimePowerBase(t *testing.T) {
	tests := []struct {
		m     int64
		prime int64
		isPow bool
	}{
		{1, 0, false},
		{0, 0, false},
		{3, 3, true},
		{9, 3, true},
		{25, 5, true},
		{15, 0, false},
		{243, 3, true},
		{1023, 0, false},
		{2, 2, true},
	}
	for _, tt := range tests {
		p, ok := PrimePowerBase(tt.m)
		assert.Equal(t, tt.isPow, ok, "m=%d", tt.m)
		assert.Equal(t, tt.prime, p, "m=%d", tt.m)
	}
}

func TestGCD(t *testing.T) {
	assert.Equal(t, int64(6), GCD(12, 18))
	assert.Equal(t, int64(6), GCD(-12, 18))
	assert.Equal(t, int64(7), GCD(0, 7))
	assert.Equal(t, int64(0), GCD(0, 0))
	assert.Equal(t, int64(1), GCD(2, 2047))
}

func TestGCD_MinInt64(t *testing.T) {
	assert.Equal(t, int64(1), GCD(math.MinInt64, 5))
	assert.Equal(t, int64(1), GCD(5, math.MinInt64))
	assert.Equal(t, int64(2), GCD(math.MinInt64, 6))
	assert.Equal(t, int64(1)<<62, GCD(math.MinInt64, -(1 << 62)))
	assert.Equal(t, int64(1), GCD(math.MaxInt64, math.MinInt64))
}

func TestPowMod(t *testing.T) {
	assert.Equal(t, uint64(1), PowMod(2, 3, 7))
	assert.Equal(t, uint64(0), PowMod(5, 0, 1))
	assert.Equal(t, uint64(1), PowMod(5, 0, 7))
	assert.Equal(t, uint64(2), PowMod(2, 1, 1<<40))
}
