package tiledef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTextureDeduplicates(t *testing.T) {
	d := New()
	a := d.AddTexture(Texture{Name: "ground.png", Width: 330, Height: 330})
	b := d.AddTexture(Texture{Name: "walls.png", Width: 99, Height: 99})
	c := d.AddTexture(Texture{Name: "ground.png", Width: 1, Height: 1})

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, c)
	assert.Equal(t, 2, d.TextureCount())

	tex, ok := d.Texture(0)
	require.True(t, ok)
	assert.Equal(t, 330, tex.Width, "повторное добавление не перезаписывает текстуру")

	d.RemoveTexture(0)
	assert.False(t, d.HaveTexture("ground.png"))
	idx, ok := d.TextureIndex("walls.png")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestAddTileUpdatesWeight(t *testing.T) {
	d := New()
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 5, Weight: 1})
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 5, Weight: 3})
	d.AddTile(1, Full, Variant{TextureID: 1, TileID: 5, Weight: 2})

	tiles := d.Tiles(1, Full)
	require.Len(t, tiles, 2)
	assert.Equal(t, 3.0, tiles[0].Weight)
	assert.Empty(t, d.Tiles(1, Left))
	assert.Empty(t, d.Tiles(42, Full))
	assert.Equal(t, 2, d.MaterialCount())
}

func TestAllowedLayers(t *testing.T) {
	d := New()
	d.AddAllowedLayers(2, 0, 0)
	d.AddAllowedLayers(2, 3, 5)

	assert.True(t, d.MaterialAllowedOnLayer(2, 0))
	assert.False(t, d.MaterialAllowedOnLayer(2, 1))
	assert.True(t, d.MaterialAllowedOnLayer(2, 4))
	assert.False(t, d.MaterialAllowedOnLayer(2, 6))
	assert.False(t, d.MaterialAllowedOnLayer(9, 0), "неизвестный материал нигде не разрешён")

	d.AddAllowedLayers(1, 0, 10)
	assert.Equal(t, []uint32{1, 2}, d.MaterialsOnLayer(0))
	assert.Equal(t, []uint32{1}, d.MaterialsOnLayer(1))
}

func TestTexturesForMaterial(t *testing.T) {
	d := New()
	d.AddTile(1, Full, Variant{TextureID: 2, TileID: 1, Weight: 1})
	d.AddTile(1, Left, Variant{TextureID: 0, TileID: 0, Weight: 1}) // пустой тайл пропускается
	d.AddTile(1, Left, Variant{TextureID: 2, TileID: 4, Weight: 1})
	d.AddTile(1, Right, Variant{TextureID: 1, TileID: 3, Weight: 1})

	assert.Equal(t, []int{2, 1}, d.TexturesForMaterial(1))
	assert.Nil(t, d.TexturesForMaterial(7))
}

func TestRandomTileWeights(t *testing.T) {
	d := New()
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 1, Weight: 1})
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 2, Weight: 3})

	assert.Equal(t, 1, d.RandomTile(1, Full, 0.0).TileID)
	assert.Equal(t, 1, d.RandomTile(1, Full, 0.24).TileID)
	assert.Equal(t, 2, d.RandomTile(1, Full, 0.25).TileID)
	assert.Equal(t, 2, d.RandomTile(1, Full, 0.999).TileID)
	assert.Equal(t, Variant{}, d.RandomTile(1, Top, 0.5), "нет вариантов - пустой выбор")
}

func TestRandomTileSkipsZeroWeights(t *testing.T) {
	d := New()
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 1, Weight: 0})
	d.AddTile(1, Full, Variant{TextureID: 0, TileID: 2, Weight: 1})
	for _, roll := range []float64{0, 0.5, 0.999} {
		assert.Equal(t, 2, d.RandomTile(1, Full, roll).TileID)
	}
}

func TestPickTileIsDeterministic(t *testing.T) {
	d := New()
	d.SetSeed(11)
	for i := 1; i <= 4; i++ {
		d.AddTile(1, Full, Variant{TextureID: 0, TileID: i, Weight: 1})
	}
	counts := make(map[int]int)
	for x := -50; x < 50; x++ {
		a := d.PickTile(1, Full, x, 3, 0)
		assert.Equal(t, a, d.PickTile(1, Full, x, 3, 0))
		counts[a.TileID]++
	}
	assert.Len(t, counts, 4, "все варианты должны выпадать")
}
