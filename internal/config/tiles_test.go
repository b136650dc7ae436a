package config

import (
	"testing"

	"github.com/annel0/tileworld/internal/world/tiledef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogMatchesGenerator(t *testing.T) {
	def, err := DefaultTileCatalog().Build()
	require.NoError(t, err)

	m := Default().Generator.Materials
	for _, id := range []uint32{m.DeepWater, m.Water, m.Sand, m.Grass, m.Dirt, m.Stone} {
		assert.True(t, def.MaterialAllowedOnLayer(id, 0), "материал %d", id)
		assert.NotEmpty(t, def.Tiles(id, tiledef.Empty), "материал %d", id)
	}
	for _, id := range []uint32{m.Tree, m.Cactus, m.Rock} {
		assert.True(t, def.MaterialAllowedOnLayer(id, 1), "материал %d", id)
		assert.False(t, def.MaterialAllowedOnLayer(id, 0), "материал %d", id)
	}
	assert.True(t, def.MaterialAllowedOnLayer(m.Cliff, 2))
	assert.True(t, def.MaterialAllowedOnLayer(m.Cliff, 5))
}

func TestCatalogBuild(t *testing.T) {
	c, err := ParseTileCatalog([]byte(`
seed: 3
textures:
  - {name: atlas, width: 263, height: 263}
materials:
  - id: 2
    name: stone
    layers: [{min: 0, max: 1}]
    tiles:
      - {connexion: "*", tile: 1, texture: atlas}
      - {connexion: Empty, tile: 60, texture: atlas, weight: 3}
`))
	require.NoError(t, err)

	def, err := c.Build()
	require.NoError(t, err)

	assert.Equal(t, []tiledef.Variant{
		{TextureID: 0, TileID: 1, Weight: 1},
		{TextureID: 0, TileID: 60, Weight: 3},
	}, def.Tiles(2, tiledef.Empty))
	assert.Equal(t, []tiledef.Variant{{TextureID: 0, TileID: int(tiledef.Left) + 1, Weight: 1}}, def.Tiles(2, tiledef.Left))
	assert.True(t, def.MaterialAllowedOnLayer(2, 1))
	assert.False(t, def.MaterialAllowedOnLayer(2, 2))
}

func TestCatalogErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		err  error
	}{
		{"unknown texture", "materials: [{id: 1, tiles: [{connexion: Empty, tile: 1, texture: nope}]}]", ErrUnknownTexture},
		{"unknown connexion", "textures: [{name: a, width: 10, height: 10}]\nmaterials: [{id: 1, tiles: [{connexion: Sideways, tile: 1, texture: a}]}]", ErrUnknownConnexion},
		{"reserved id", "materials: [{id: 0, name: void}]", ErrMaterialID},
		{"huge id", "materials: [{id: 4000000000, name: huge, layers: [{min: 0, max: 0}]}]", ErrMaterialID},
		{"id above limit", "materials: [{id: 65536, name: over}]", ErrMaterialID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseTileCatalog([]byte(tc.yaml))
			require.NoError(t, err)
			_, err = c.Build()
			assert.ErrorIs(t, err, tc.err)
		})
	}

	c, err := ParseTileCatalog([]byte("materials: [{id: 65535, name: last, layers: [{min: 0, max: 0}]}]"))
	require.NoError(t, err)
	def, err := c.Build()
	require.NoError(t, err)
	assert.True(t, def.MaterialAllowedOnLayer(65535, 0))

	_, err = ParseTileCatalog([]byte("textures: {"))
	assert.Error(t, err)
}
