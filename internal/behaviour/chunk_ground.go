package behaviour

import (
	"sort"

	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/tilemap"
	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// ChunkGroundRenderBehaviour рисует слой земли. У каждого материала свой рендерер;
// в клетке рисуются все материалы окна 3x3 с id не больше центрального, по возрастанию id,
// и материал с большим id лежит выше. Для материала m соседи с id >= m считаются своими.
type ChunkGroundRenderBehaviour struct {
	ctx ChunkContext

	entity      *Entity
	materials   []*groundMaterial
	modified    *eventbus.Holder
	layerHolder *eventbus.Holder
}

type groundMaterial struct {
	*layerRenderer
	id    uint32
	set   []bool
	count int
}

// NewChunkGroundRenderBehaviour создаёт автотайлер земли
func NewChunkGroundRenderBehaviour(ctx ChunkContext) *ChunkGroundRenderBehaviour {
	return &ChunkGroundRenderBehaviour{ctx: ctx}
}

// Clone реализует Behaviour
func (b *ChunkGroundRenderBehaviour) Clone() Behaviour {
	return NewChunkGroundRenderBehaviour(b.ctx)
}

// OnEnable подписывается на слой земли и рисует его
func (b *ChunkGroundRenderBehaviour) OnEnable(e *Entity) {
	b.entity = e
	b.modified = b.ctx.Chunk.Layer(world.LayerGround).OnModified(b.onModified)
	b.layerHolder = b.ctx.Chunk.OnLayerChanged(func(ev world.LayerChanged) {
		if ev.Layer == world.LayerGround && ev.State == world.LayerHeightChanged {
			b.updateHeights()
		}
	})
	b.fullRedraw()
}

// OnDisable открепляет рендереры и снимает подписки
func (b *ChunkGroundRenderBehaviour) OnDisable(e *Entity) {
	b.modified.Disconnect()
	b.layerHolder.Disconnect()
	b.clear()
	b.entity = nil
}

// OnUpdate реализует Behaviour
func (b *ChunkGroundRenderBehaviour) OnUpdate(*Entity, float64) {}

// Materials возвращает материалы, у которых есть хотя бы одна нарисованная клетка, по возрастанию id
func (b *ChunkGroundRenderBehaviour) Materials() []uint32 {
	ids := make([]uint32, 0, len(b.materials))
	for _, m := range b.materials {
		ids = append(ids, m.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Renderer возвращает рендерер материала или nil
func (b *ChunkGroundRenderBehaviour) Renderer(material uint32) render.TileRenderer {
	if m := b.material(material); m != nil {
		return m.renderer
	}
	return nil
}

func (b *ChunkGroundRenderBehaviour) onModified(m tilemap.Modified) {
	if b.entity == nil {
		return
	}
	if b.ctx.Chunk.Layer(world.LayerGround).IsWhole(m) {
		b.fullRedraw()
		return
	}
	b.tileChanged(m.X, m.Y)
}

func (b *ChunkGroundRenderBehaviour) tileChanged(x, y int) {
	win := b.ctx.window(x, y, 2, world.LayerGround)
	redrawn := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cx, cy := x+dx, y+dy
			if cx < 0 || cy < 0 || cx >= world.ChunkSize || cy >= world.ChunkSize {
				b.ctx.routeBorder(cx, cy, world.LayerGround)
				continue
			}
			b.redrawCell(cx, cy, win, dy+2, dx+2)
			redrawn++
		}
	}
	b.cleanMaterials()
	b.ctx.Metrics.redrawn("ground", redrawn)
}

func (b *ChunkGroundRenderBehaviour) fullRedraw() {
	b.clear()
	win := b.ctx.paddedChunk(world.LayerGround)
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			b.redrawCell(x, y, win, y+1, x+1)
		}
	}
	b.cleanMaterials()
	b.ctx.Metrics.redrawn("ground", world.ChunkSize*world.ChunkSize)
	b.ctx.pushBorders(world.LayerGround)
}

// OnBorderBlockUpdate перерисовывает одну клетку земли на краю чанка
func (b *ChunkGroundRenderBehaviour) OnBorderBlockUpdate(x, y, layer int) {
	if layer != world.LayerGround || b.entity == nil {
		return
	}
	if !util.Assert(x >= 0 && y >= 0 && x < world.ChunkSize && y < world.ChunkSize, "пограничная клетка (%d,%d) вне чанка", x, y) {
		return
	}
	win := b.ctx.window(x, y, 1, world.LayerGround)
	b.redrawCell(x, y, win, 1, 1)
	b.cleanMaterials()
	b.ctx.Metrics.redrawn("ground", 1)
}

func (b *ChunkGroundRenderBehaviour) redrawCell(x, y int, win [][]tile.Tile, row, col int) {
	pos := vec.Vec2{X: x, Y: y}
	idx := y*world.ChunkSize + x
	for _, m := range b.materials {
		if m.set[idx] {
			m.renderer.DisableCell(pos)
			m.set[idx] = false
			m.count--
		}
	}

	center := win[row][col].ID
	if center == 0 {
		return
	}

	var ids []uint32
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			id := win[r][c].ID
			if id == 0 || id > center {
				continue
			}
			dup := false
			for _, other := range ids {
				if other == id {
					dup = true
					break
				}
			}
			if !dup {
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	vp := b.ctx.variantPos(x, y)
	layerMap := b.ctx.Chunk.Layer(world.LayerGround)
	for _, id := range ids {
		m := b.materialFor(id)
		if m == nil {
			continue
		}
		n := tiledef.NeighborhoodFunc(func(r, c int) bool {
			return win[row-1+r][col-1+c].ID >= id
		})
		v := b.ctx.Definition.PickTile(id, tiledef.Classify(n), vp.X, vp.Y, world.LayerGround)
		if m.draw(b.ctx.Definition, layerMap, pos, v) {
			m.set[idx] = true
			m.count++
		}
	}
}

func (b *ChunkGroundRenderBehaviour) material(id uint32) *groundMaterial {
	for _, m := range b.materials {
		if m.id == id {
			return m
		}
	}
	return nil
}

// materialFor возвращает рендерер материала, создавая его при первом использовании.
// Материалы, не разрешённые на слое земли, не рисуются.
func (b *ChunkGroundRenderBehaviour) materialFor(id uint32) *groundMaterial {
	if m := b.material(id); m != nil {
		return m
	}
	if !b.ctx.Definition.MaterialAllowedOnLayer(id, world.LayerGround) {
		return nil
	}
	factory := b.entity.Scene().Factory()
	m := &groundMaterial{
		layerRenderer: newLayerRenderer(factory, b.ctx.Definition, b.ctx.Definition.TexturesForMaterial(id)),
		id:            id,
		set:           make([]bool, world.ChunkSize*world.ChunkSize),
	}
	b.entity.Graphics().Attach(m.renderer, 0)
	b.materials = append(b.materials, m)
	return m
}

// cleanMaterials открепляет пустые рендереры и пересчитывает глубину оставшихся
func (b *ChunkGroundRenderBehaviour) cleanMaterials() {
	kept := b.materials[:0]
	for _, m := range b.materials {
		if m.count == 0 {
			b.entity.Graphics().Detach(m.renderer)
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(b.materials); i++ {
		b.materials[i] = nil
	}
	b.materials = kept
	b.updateHeights()
}

// updateHeights раскладывает материалы под уровнем земли: больший id - выше
func (b *ChunkGroundRenderBehaviour) updateHeights() {
	if b.entity == nil {
		return
	}
	sort.Slice(b.materials, func(i, j int) bool { return b.materials[i].id < b.materials[j].id })
	base, _ := b.ctx.Chunk.LayerHeight(world.LayerGround)
	n := len(b.materials)
	for i, m := range b.materials {
		b.entity.Graphics().UpdateZ(m.renderer, base+float64(i-n)-1)
	}
}

func (b *ChunkGroundRenderBehaviour) clear() {
	for _, m := range b.materials {
		if b.entity != nil {
			b.entity.Graphics().Detach(m.renderer)
		}
	}
	b.materials = nil
}
