package analytics

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		_, ok := Pick([]string{}, rand.IntN)
		assert.False(t, ok)
	})

	t.Run("single element always wins", func(t *testing.T) {
		for range 20 {
			got, ok := Pick([]string{"only"}, rand.IntN)
			require.True(t, ok)
			assert.Equal(t, "only", got)
		}
	})

	t.Run("seeded source is deterministic", func(t *testing.T) {
		pool := []int{1, 2, 3, 4, 5, 6, 7}
		a := rand.New(rand.NewPCG(7, 11))
		b := rand.New(rand.NewPCG(7, 11))
		for range 10 {
			x, _ := Pick(pool, a.IntN)
			y, _ := Pick(pool, b.IntN)
			assert.Equal(t, x, y)
		}
	})

	t.Run("index comes from the source", func(t *testing.T) {
		got, ok := Pick([]string{"a", "b", "c"}, func(n int) int { return n - 1 })
		require.True(t, ok)
		assert.Equal(t, "c", got)
	})
}
