package render

import (
	"testing"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tiledef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileUV(t *testing.T) {
	// 3 тайла по 32 пикселя с промежутком 1 в строке: 32*3 + 2 = 98
	tex := tiledef.Texture{Name: "grass", Width: 98, Height: 65}

	uv, ok := TileUV(tex, 1, 32, 1)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 32.0 / 98, H: 32.0 / 65}, uv)

	uv, _ = TileUV(tex, 3, 32, 1)
	assert.InDelta(t, 66.0/98, uv.X, 1e-9)
	assert.Zero(t, uv.Y)

	uv, _ = TileUV(tex, 4, 32, 1)
	assert.Zero(t, uv.X, "четвёртый тайл начинает вторую строку")
	assert.InDelta(t, 33.0/65, uv.Y, 1e-9)

	_, ok = TileUV(tex, 0, 32, 1)
	assert.False(t, ok)
	_, ok = TileUV(tiledef.Texture{}, 1, 32, 1)
	assert.False(t, ok)
}

func TestMemoryRendererCounters(t *testing.T) {
	r := NewMemoryRenderer(vec.Vec2{X: 4, Y: 2}, 2)
	r.EnableCell(vec.Vec2{X: 1, Y: 1}, Rect{W: 1, H: 1}, 1)
	r.DisableCell(vec.Vec2{X: 1, Y: 1})
	r.EnableCell(vec.Vec2{X: 3, Y: 0}, Rect{}, 0)
	r.EnableCell(vec.Vec2{X: 9, Y: 9}, Rect{}, 0)

	assert.Equal(t, 2, r.Draws(vec.Vec2{X: 1, Y: 1}))
	assert.False(t, r.Cell(vec.Vec2{X: 1, Y: 1}).Enabled)
	assert.True(t, r.Cell(vec.Vec2{X: 3, Y: 0}).Enabled)
	assert.Equal(t, 1, r.EnabledCount())
	assert.Equal(t, []vec.Vec2{{X: 3, Y: 0}, {X: 1, Y: 1}}, r.Touched())

	r.ResetDraws()
	assert.Empty(t, r.Touched())
	assert.True(t, r.Cell(vec.Vec2{X: 3, Y: 0}).Enabled, "сброс счётчиков не трогает клетки")
}

func TestMemoryGraphicsOrder(t *testing.T) {
	g := NewMemoryGraphics()
	a := NewMemoryRenderer(vec.Vec2{X: 1, Y: 1}, 1)
	b := NewMemoryRenderer(vec.Vec2{X: 1, Y: 1}, 1)

	g.Attach(a, 2)
	g.Attach(b, 1)
	assert.Equal(t, []TileRenderer{b, a}, g.Renderers())

	g.UpdateZ(a, 0)
	assert.Equal(t, []TileRenderer{a, b}, g.Renderers())

	g.Detach(a)
	assert.Equal(t, 1, g.Len())
	_, ok := g.Z(a)
	assert.False(t, ok)

	g.UpdateZ(a, 5)
	assert.Equal(t, 1, g.Len(), "UpdateZ не прикрепляет")
}
