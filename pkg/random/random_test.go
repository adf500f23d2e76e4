package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_DeterministicForSeed(t *testing.T) {
	a := NewSource(42)
	b := NewSource(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Intn(5), b.Intn(5))
	}
}

func TestSource_CoversAllIndexes(t *testing.T) {
	src, err := NewSecureSource()
	require.NoError(t, err)

	seen := make(map[int]int)
	for i := 0; i < 2000; i++ {
		v := src.Intn(5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 5)
		seen[v]++
	}
	assert.Len(t, seen, 5)
}

func TestFixed_Clamps(t *testing.T) {
	assert.Equal(t, 2, Fixed(2).Intn(5))
	assert.Equal(t, 4, Fixed(9).Intn(5))
	assert.Equal(t, 0, Fixed(-1).Intn(5))
}
