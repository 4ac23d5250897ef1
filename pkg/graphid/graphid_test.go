package graphid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		tileID uint32
		level  uint8
		index  uint32
	}{
		{"zero", 0, 0, 0},
		{"small", 7, 2, 42},
		{"max index", 3, 1, indexMask},
		{"max tile", tileMask, 0, 5},
		{"max level", 1, levelMask, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := New(tc.tileID, tc.level, tc.index)
			assert.True(t, id.IsValid())
			assert.Equal(t, tc.tileID, id.Tile())
			assert.Equal(t, tc.level, id.Level())
			assert.Equal(t, tc.index, id.Index())
		})
	}
}

func TestInvalid(t *testing.T) {
	assert.False(t, Invalid.IsValid())
	assert.Equal(t, "graphid.Invalid", Invalid.String())
}

func TestTileOf(t *testing.T) {
	id := New(11, 1, 99)
	assert.Equal(t, TileID{Tile: 11, Level: 1}, TileOf(id))
}

func TestWithIndex(t *testing.T) {
	id := New(11, 1, 99)
	sibling := WithIndex(id, 100)
	assert.Equal(t, uint32(100), sibling.Index())
	assert.Equal(t, id.Tile(), sibling.Tile())
	assert.Equal(t, id.Level(), sibling.Level())
}

func TestStringValid(t *testing.T) {
	id := New(2, 1, 3)
	assert.Equal(t, "1/2/3", id.String())
}
