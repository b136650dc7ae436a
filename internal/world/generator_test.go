package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig(12345)
	a := NewWorldMap(2, 2)
	b := NewWorldMap(2, 2)
	NewWorldGenerator(cfg).Generate(a)
	NewWorldGenerator(cfg).Generate(b)

	for layer := 0; layer < 4; layer++ {
		assert.Equal(t, a.Tiles(0, 0, 64, 64, layer), b.Tiles(0, 0, 64, 64, layer), "слой %d", layer)
	}
}

func TestGeneratorFillsGround(t *testing.T) {
	wm := NewWorldMap(2, 1)
	NewWorldGenerator(DefaultGeneratorConfig(7)).Generate(wm)

	ground := wm.Tiles(0, 0, 64, 32, LayerGround)
	for _, row := range ground {
		for _, tl := range row {
			assert.NotZero(t, tl.ID, "каждая клетка земли должна получить материал")
		}
	}
}

func TestGeneratorCliffLayersStayContiguous(t *testing.T) {
	cfg := DefaultGeneratorConfig(99)
	cfg.MountainStart = 0.0 // горы везде
	wm := NewWorldMap(1, 1)
	NewWorldGenerator(cfg).Generate(wm)

	c := wm.Chunk(0, 0)
	assert.LessOrEqual(t, c.LayerCount(), StaticLayers+cfg.MaxCliffLayers)
	assert.Greater(t, c.LayerCount(), StaticLayers)
	for l := StaticLayers; l < c.LayerCount(); l++ {
		assert.Positive(t, c.LiveTiles(l), "слой %d не должен быть пустым", l)
	}
}

func TestCliffLayers(t *testing.T) {
	wg := NewWorldGenerator(DefaultGeneratorConfig(1))
	assert.Equal(t, 0, wg.cliffLayers(0.5))
	assert.Equal(t, 1, wg.cliffLayers(0.71))
	assert.Equal(t, 3, wg.cliffLayers(0.99))
}
