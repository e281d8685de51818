package wall

import (
	"testing"

	"greenpledge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	t.Run("photo wins over placeholder", func(t *testing.T) {
		cards := Project([]model.Pledge{{Name: "Alice", PhotoURL: "http://x/a.png"}})
		require.Len(t, cards, 1)
		assert.Equal(t, "Alice", cards[0].DisplayName)
		assert.Equal(t, "http://x/a.png", cards[0].PhotoURL)
		assert.Empty(t, cards[0].AvatarLetter)
	})

	t.Run("missing photo falls back to initial", func(t *testing.T) {
		cards := Project([]model.Pledge{{Name: "bob"}})
		require.Len(t, cards, 1)
		assert.Equal(t, "B", cards[0].AvatarLetter)
	})

	t.Run("empty name does not panic", func(t *testing.T) {
		cards := Project([]model.Pledge{{Name: ""}})
		require.Len(t, cards, 1)
		assert.Empty(t, cards[0].AvatarLetter)
		assert.Empty(t, cards[0].PhotoURL)
	})

	t.Run("non-ascii initial", func(t *testing.T) {
		cards := Project([]model.Pledge{{Name: "ángela"}})
		require.Len(t, cards, 1)
		assert.Equal(t, "Á", cards[0].AvatarLetter)
	})

	t.Run("preserves record order", func(t *testing.T) {
		cards := Project([]model.Pledge{{Name: "A"}, {Name: "B"}})
		require.Len(t, cards, 2)
		assert.Equal(t, "A", cards[0].DisplayName)
		assert.Equal(t, "B", cards[1].DisplayName)
	})
}
