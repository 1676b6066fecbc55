package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReveal(t *testing.T) {
	t.Run("Reveals a Manhattan diamond", func(t *testing.T) {
		g := New(7)
		revealed := g.Reveal(Position{X: 3, Y: 3}, 2)

		// 1 + 4 + 8 cells at distance 0, 1 and 2.
		assert.Len(t, revealed, 13)
		assert.False(t, g.Hidden(Position{X: 3, Y: 1}))
		assert.False(t, g.Hidden(Position{X: 4, Y: 4}))
		assert.True(t, g.Hidden(Position{X: 5, Y: 5}))
		assert.True(t, g.Hidden(Position{X: 0, Y: 3}))
	})

	t.Run("Clips at the border", func(t *testing.T) {
		g := New(5)
		revealed := g.Reveal(Origin(), 2)
		assert.Len(t, revealed, 6)
	})

	t.Run("Returns only newly revealed cells", func(t *testing.T) {
		g := New(5)
		first := g.Reveal(Position{X: 2, Y: 2}, 1)
		second := g.Reveal(Position{X: 2, Y: 2}, 1)

		assert.Len(t, first, 5)
		assert.Empty(t, second)
	})

	t.Run("Never hides revealed cells", func(t *testing.T) {
		g := New(6)
		g.Reveal(Origin(), 2)
		before := g.RevealedCount()
		g.Reveal(Position{X: 5, Y: 5}, 0)

		assert.Equal(t, before+1, g.RevealedCount())
		assert.False(t, g.Hidden(Position{X: 1, Y: 1}))
	})

	t.Run("ResetFog covers everything", func(t *testing.T) {
		g := New(4)
		g.Reveal(Origin(), 3)
		g.ResetFog()
		assert.Equal(t, 0, g.RevealedCount())
	})
}
