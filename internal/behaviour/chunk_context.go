package behaviour

import (
	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/tilemap"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// BorderRouter доставляет пограничное обновление чанку с мировыми координатами (chunkX, chunkY)
type BorderRouter interface {
	OnBorderBlockUpdate(chunkX, chunkY, x, y, layer int)
}

// ChunkContext - всё, что нужно поведению одного чанка
type ChunkContext struct {
	Chunk      *world.Chunk
	World      *world.WorldMap
	Definition *tiledef.Definition
	Router     BorderRouter // Может быть nil: тогда соседи не уведомляются
	Pos        vec.Vec2     // Мировые координаты чанка (могут лежать вне сетки)
	Metrics    *Metrics
}

// origin возвращает мировую позицию левого верхнего тайла чанка
func (c ChunkContext) origin() vec.Vec2 {
	return c.Pos.Scale(world.ChunkSize)
}

// variantPos возвращает позицию локальной клетки, по которой выбирается вариант тайла.
// Позиция заворачивается в мир, чтобы повторы одного чанка рисовались одинаково.
func (c ChunkContext) variantPos(x, y int) vec.Vec2 {
	return c.World.NormalizePos(c.origin().Add(vec.Vec2{X: x, Y: y}))
}

// window читает прямоугольник вокруг локальной клетки (x, y) с отступом pad
func (c ChunkContext) window(x, y, pad, layer int) [][]tile.Tile {
	o := c.origin()
	side := 2*pad + 1
	return c.World.Tiles(o.X+x-pad, o.Y+y-pad, side, side, layer)
}

// paddedChunk читает весь чанк с рамкой в одну клетку из соседних чанков
func (c ChunkContext) paddedChunk(layer int) [][]tile.Tile {
	o := c.origin()
	return c.World.Tiles(o.X-1, o.Y-1, world.ChunkSize+2, world.ChunkSize+2, layer)
}

// routeBorder отправляет обновление клетки (x, y), лежащей за пределами чанка, её владельцу
func (c ChunkContext) routeBorder(x, y, layer int) {
	if c.Router == nil {
		return
	}
	nx := c.Pos.X + vec.FloorDiv(x, world.ChunkSize)
	ny := c.Pos.Y + vec.FloorDiv(y, world.ChunkSize)
	c.Router.OnBorderBlockUpdate(nx, ny, vec.Mod(x, world.ChunkSize), vec.Mod(y, world.ChunkSize), layer)
}

// pushBorders уведомляет 4 соседей по сторонам и 4 по углам о смене всего слоя
func (c ChunkContext) pushBorders(layer int) {
	last := world.ChunkSize - 1
	c.routeBorder(-1, -1, layer)
	c.routeBorder(world.ChunkSize, -1, layer)
	c.routeBorder(-1, world.ChunkSize, layer)
	c.routeBorder(world.ChunkSize, world.ChunkSize, layer)
	for i := 0; i <= last; i++ {
		c.routeBorder(-1, i, layer)
		c.routeBorder(world.ChunkSize, i, layer)
		c.routeBorder(i, -1, layer)
		c.routeBorder(i, world.ChunkSize, layer)
	}
}

// layerRenderer - рендерер одного слоя со списком текстур-материалов
type layerRenderer struct {
	renderer render.TileRenderer
	textures []int // Индексы текстур Definition в порядке материалов рендерера
}

// newLayerRenderer создаёт рендерер размером с чанк для набора текстур
func newLayerRenderer(factory render.Factory, def *tiledef.Definition, textures []int) *layerRenderer {
	r := factory.NewTileRenderer(vec.Vec2{X: world.ChunkSize, Y: world.ChunkSize}, len(textures))
	for i, t := range textures {
		if tex, ok := def.Texture(t); ok {
			r.SetMaterial(i, tex)
		}
	}
	return &layerRenderer{renderer: r, textures: textures}
}

// draw рисует вариант в клетку или выключает её. Возвращает true, если клетка включена.
func (lr *layerRenderer) draw(def *tiledef.Definition, m *tilemap.Tilemap, pos vec.Vec2, v tiledef.Variant) bool {
	if v.TileID == 0 {
		lr.renderer.DisableCell(pos)
		return false
	}
	material := -1
	for i, t := range lr.textures {
		if t == v.TextureID {
			material = i
			break
		}
	}
	tex, ok := def.Texture(v.TextureID)
	if material < 0 || !ok {
		lr.renderer.DisableCell(pos)
		return false
	}
	uv, ok := render.TileUV(tex, v.TileID, m.TileSize(), m.TileDelta())
	if !ok {
		lr.renderer.DisableCell(pos)
		return false
	}
	lr.renderer.EnableCell(pos, uv, material)
	return true
}

// texturesForLayer собирает текстуры всех материалов, разрешённых на слое, без повторов
func texturesForLayer(def *tiledef.Definition, layer int) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, m := range def.MaterialsOnLayer(layer) {
		for _, t := range def.TexturesForMaterial(m) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
