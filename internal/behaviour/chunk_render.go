package behaviour

import (
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/tilemap"
	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// ChunkRenderBehaviour рисует слои чанка начиная с LayerBase.
// Соседи клетки считаются своими, если у них тот же id материала.
type ChunkRenderBehaviour struct {
	ctx ChunkContext

	entity      *Entity
	layers      []*chunkLayerRender // Индекс - номер слоя; LayerGround всегда nil
	layerHolder *eventbus.Holder
}

type chunkLayerRender struct {
	*layerRenderer
	modified *eventbus.Holder
}

// NewChunkRenderBehaviour создаёт автотайлер слоёв чанка
func NewChunkRenderBehaviour(ctx ChunkContext) *ChunkRenderBehaviour {
	return &ChunkRenderBehaviour{ctx: ctx}
}

// Clone реализует Behaviour
func (b *ChunkRenderBehaviour) Clone() Behaviour {
	return NewChunkRenderBehaviour(b.ctx)
}

// OnEnable подписывается на слои чанка и рисует все существующие
func (b *ChunkRenderBehaviour) OnEnable(e *Entity) {
	b.entity = e
	b.layers = []*chunkLayerRender{nil}
	b.layerHolder = b.ctx.Chunk.OnLayerChanged(b.onLayerChanged)
	for i := world.LayerBase; i < b.ctx.Chunk.LayerCount(); i++ {
		b.addLayer(i)
	}
}

// OnDisable открепляет рендереры и снимает подписки
func (b *ChunkRenderBehaviour) OnDisable(e *Entity) {
	b.layerHolder.Disconnect()
	b.layerHolder = nil
	for len(b.layers) > world.LayerBase {
		b.removeLayer(len(b.layers) - 1)
	}
	b.layers = nil
	b.entity = nil
}

// OnUpdate реализует Behaviour
func (b *ChunkRenderBehaviour) OnUpdate(*Entity, float64) {}

// Renderer возвращает рендерер слоя или nil
func (b *ChunkRenderBehaviour) Renderer(layer int) render.TileRenderer {
	if layer < world.LayerBase || layer >= len(b.layers) {
		return nil
	}
	return b.layers[layer].renderer
}

// LayerCount возвращает количество отрисовываемых слоёв чанка (включая пустой нулевой)
func (b *ChunkRenderBehaviour) LayerCount() int {
	return len(b.layers)
}

func (b *ChunkRenderBehaviour) onLayerChanged(ev world.LayerChanged) {
	if ev.Layer < world.LayerBase || b.entity == nil {
		return
	}
	switch ev.State {
	case world.LayerAdded:
		b.addLayer(ev.Layer)
	case world.LayerRemoved:
		b.removeLayer(ev.Layer)
	case world.LayerHeightChanged:
		if ev.Layer < len(b.layers) {
			h, _ := b.ctx.Chunk.LayerHeight(ev.Layer)
			b.entity.Graphics().UpdateZ(b.layers[ev.Layer].renderer, h)
		}
	}
}

func (b *ChunkRenderBehaviour) addLayer(layer int) {
	if !util.Assert(layer == len(b.layers), "добавляется слой %d, отрисовано %d", layer, len(b.layers)) {
		return
	}
	factory := b.entity.Scene().Factory()
	lr := &chunkLayerRender{layerRenderer: newLayerRenderer(factory, b.ctx.Definition, texturesForLayer(b.ctx.Definition, layer))}
	h, _ := b.ctx.Chunk.LayerHeight(layer)
	b.entity.Graphics().Attach(lr.renderer, h)
	lr.modified = b.ctx.Chunk.Layer(layer).OnModified(func(m tilemap.Modified) {
		b.onModified(layer, m)
	})
	b.layers = append(b.layers, lr)
	b.fullRedraw(layer)
}

func (b *ChunkRenderBehaviour) removeLayer(layer int) {
	if !util.Assert(layer == len(b.layers)-1, "удаляется слой %d, верхний %d", layer, len(b.layers)-1) {
		return
	}
	lr := b.layers[layer]
	lr.modified.Disconnect()
	b.entity.Graphics().Detach(lr.renderer)
	b.layers[layer] = nil
	b.layers = b.layers[:layer]
}

func (b *ChunkRenderBehaviour) onModified(layer int, m tilemap.Modified) {
	if layer >= len(b.layers) {
		return
	}
	if b.ctx.Chunk.Layer(layer).IsWhole(m) {
		b.fullRedraw(layer)
		return
	}
	b.tileChanged(layer, m.X, m.Y)
}

// tileChanged перерисовывает окно 3x3 вокруг клетки; клетки соседних чанков
// перерисовывают их владельцы по пограничному обновлению
func (b *ChunkRenderBehaviour) tileChanged(layer, x, y int) {
	win := b.ctx.window(x, y, 2, layer)
	redrawn := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cx, cy := x+dx, y+dy
			if cx < 0 || cy < 0 || cx >= world.ChunkSize || cy >= world.ChunkSize {
				b.ctx.routeBorder(cx, cy, layer)
				continue
			}
			b.redrawCell(layer, cx, cy, win, dy+2, dx+2)
			redrawn++
		}
	}
	b.ctx.Metrics.redrawn("layer", redrawn)
}

// fullRedraw перерисовывает весь слой и уведомляет соседние чанки
func (b *ChunkRenderBehaviour) fullRedraw(layer int) {
	win := b.ctx.paddedChunk(layer)
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			b.redrawCell(layer, x, y, win, y+1, x+1)
		}
	}
	b.ctx.Metrics.redrawn("layer", world.ChunkSize*world.ChunkSize)
	b.ctx.pushBorders(layer)
}

// OnBorderBlockUpdate перерисовывает одну клетку на краю чанка, не уведомляя соседей
func (b *ChunkRenderBehaviour) OnBorderBlockUpdate(x, y, layer int) {
	if layer < world.LayerBase || layer >= len(b.layers) {
		return
	}
	if !util.Assert(x >= 0 && y >= 0 && x < world.ChunkSize && y < world.ChunkSize, "пограничная клетка (%d,%d) вне чанка", x, y) {
		return
	}
	win := b.ctx.window(x, y, 1, layer)
	b.redrawCell(layer, x, y, win, 1, 1)
	b.ctx.Metrics.redrawn("layer", 1)
}

// redrawCell классифицирует клетку (x, y) по окну win, где она лежит в [row][col]
func (b *ChunkRenderBehaviour) redrawCell(layer, x, y int, win [][]tile.Tile, row, col int) {
	lr := b.layers[layer]
	pos := vec.Vec2{X: x, Y: y}
	center := win[row][col].ID
	if center == 0 {
		lr.renderer.DisableCell(pos)
		return
	}
	n := tiledef.NeighborhoodFunc(func(r, c int) bool {
		return win[row-1+r][col-1+c].ID == center
	})
	vp := b.ctx.variantPos(x, y)
	v := b.ctx.Definition.PickTile(center, tiledef.Classify(n), vp.X, vp.Y, layer)
	lr.draw(b.ctx.Definition, b.ctx.Chunk.Layer(layer), pos, v)
}
