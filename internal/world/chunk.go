package world

import (
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/tilemap"
	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
)

type chunkLayer struct {
	tiles     *tilemap.Tilemap
	height    float64
	liveTiles int // Непустые тайлы; считается только для динамических слоёв
}

// Chunk представляет участок мира ChunkSize x ChunkSize в виде стопки слоёв.
// Слои 0 и 1 существуют всегда, слои выше создаются при первой непустой записи
// и удаляются сверху вниз, когда становятся пустыми.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в сетке WorldMap

	layers       []*chunkLayer
	layerChanged eventbus.Signal[LayerChanged]
}

// NewChunk создаёт новый чанк с указанными координатами
func NewChunk(coords vec.Vec2) *Chunk {
	c := &Chunk{Coords: coords}
	for i := 0; i < StaticLayers; i++ {
		c.layers = append(c.layers, newChunkLayer(i))
	}
	return c
}

func newChunkLayer(index int) *chunkLayer {
	m := tilemap.New(ChunkSize, ChunkSize)
	m.SetTileSize(TileSize)
	m.SetTileDelta(TileDelta)
	return &chunkLayer{tiles: m, height: defaultLayerHeight(index)}
}

// LayerCount возвращает текущее количество слоёв (не меньше StaticLayers)
func (c *Chunk) LayerCount() int {
	return len(c.layers)
}

// Layer возвращает карту слоя или nil, если слоя нет
func (c *Chunk) Layer(layer int) *tilemap.Tilemap {
	if layer < 0 || layer >= len(c.layers) {
		return nil
	}
	return c.layers[layer].tiles
}

// LayerHeight возвращает высоту слоя
func (c *Chunk) LayerHeight(layer int) (float64, bool) {
	if layer < 0 || layer >= len(c.layers) {
		return 0, false
	}
	return c.layers[layer].height, true
}

// SetLayerHeight меняет высоту существующего слоя
func (c *Chunk) SetLayerHeight(layer int, height float64) {
	if !util.Assert(layer >= 0 && layer < len(c.layers), "слой %d отсутствует (всего %d)", layer, len(c.layers)) {
		return
	}
	c.layers[layer].height = height
	c.layerChanged.Emit(LayerChanged{Layer: layer, State: LayerHeightChanged})
}

// LiveTiles возвращает число непустых тайлов динамического слоя
func (c *Chunk) LiveTiles(layer int) int {
	if layer < StaticLayers || layer >= len(c.layers) {
		return 0
	}
	return c.layers[layer].liveTiles
}

// Tile возвращает тайл. Отсутствующий слой читается как пустой.
func (c *Chunk) Tile(x, y, layer int) tile.Tile {
	if layer < 0 || layer >= len(c.layers) {
		return tile.Tile{}
	}
	return c.layers[layer].tiles.Get(x, y)
}

// SetTile записывает тайл, при необходимости создавая недостающие слои
// и удаляя опустевшие верхние слои.
func (c *Chunk) SetTile(x, y, layer int, t tile.Tile) {
	if !util.Assert(x >= 0 && y >= 0 && x < ChunkSize && y < ChunkSize, "позиция (%d,%d) вне чанка", x, y) {
		return
	}
	if !util.Assert(layer >= 0, "отрицательный слой %d", layer) {
		return
	}

	if layer >= len(c.layers) {
		// Пустая запись в несуществующий слой ничего не меняет
		if t.IsEmpty() {
			return
		}
		for i := len(c.layers); i <= layer; i++ {
			c.layers = append(c.layers, newChunkLayer(i))
			c.layerChanged.Emit(LayerChanged{Layer: i, State: LayerAdded})
		}
	}

	l := c.layers[layer]
	if layer >= StaticLayers {
		wasEmpty := l.tiles.Get(x, y).IsEmpty()
		isEmpty := t.IsEmpty()
		switch {
		case wasEmpty && !isEmpty:
			l.liveTiles++
		case !wasEmpty && isEmpty:
			l.liveTiles--
		}
	}

	l.tiles.Set(x, y, t)

	if layer >= StaticLayers && layer == len(c.layers)-1 && l.liveTiles == 0 {
		c.shrink()
	}
}

// shrink удаляет пустые динамические слои сверху вниз
func (c *Chunk) shrink() {
	for len(c.layers) > StaticLayers && c.layers[len(c.layers)-1].liveTiles == 0 {
		top := len(c.layers) - 1
		c.layers[top] = nil
		c.layers = c.layers[:top]
		c.layerChanged.Emit(LayerChanged{Layer: top, State: LayerRemoved})
	}
}

// OnLayerChanged подписывает обработчик на изменения набора слоёв
func (c *Chunk) OnLayerChanged(fn func(LayerChanged)) *eventbus.Holder {
	return c.layerChanged.Connect(fn)
}
