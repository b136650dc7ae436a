package behaviour

import (
	"sort"

	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/tilemap"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
)

// ChunkCollisionBehaviour собирает по одному составному телу на каждый слой коллизий чанка:
// полные клетки жадно сливаются в прямоугольники, частичные формы идут многоугольниками.
// Изменение одной клетки пересобирает только слои коллизий её старого и нового коллайдера;
// смена набора слоёв чанка или заливка слоя пересобирают всё.
type ChunkCollisionBehaviour struct {
	chunk      *world.Chunk
	pos        vec.Vec2
	collisions *physics.CollisionDefinition
	sink       physics.Sink
	metrics    *Metrics

	enabled     bool
	layerHolder *eventbus.Holder
	modified    eventbus.Holders
	built       map[uint16]struct{}

	colliders [][]tile.Collider // Копия коллайдеров по слоям чанка, [layer][y*ChunkSize+x]
	counts    map[uint16]int    // Клеток с коллизией на каждом слое коллизий
}

// NewChunkCollisionBehaviour создаёт построитель коллизий для чанка с мировыми координатами pos.
// collisions может быть nil: тогда маски тел остаются нулевыми.
func NewChunkCollisionBehaviour(chunk *world.Chunk, pos vec.Vec2, collisions *physics.CollisionDefinition, sink physics.Sink, metrics *Metrics) *ChunkCollisionBehaviour {
	return &ChunkCollisionBehaviour{
		chunk:      chunk,
		pos:        pos,
		collisions: collisions,
		sink:       sink,
		metrics:    metrics,
	}
}

// Clone реализует Behaviour
func (b *ChunkCollisionBehaviour) Clone() Behaviour {
	return NewChunkCollisionBehaviour(b.chunk, b.pos, b.collisions, b.sink, b.metrics)
}

// OnEnable подписывается на чанк и строит тела
func (b *ChunkCollisionBehaviour) OnEnable(*Entity) {
	b.enabled = true
	b.built = make(map[uint16]struct{})
	b.layerHolder = b.chunk.OnLayerChanged(func(world.LayerChanged) {
		b.subscribeLayers()
		b.rebuild()
	})
	b.subscribeLayers()
	b.rebuild()
}

// OnDisable убирает тела и снимает подписки
func (b *ChunkCollisionBehaviour) OnDisable(*Entity) {
	b.enabled = false
	b.layerHolder.Disconnect()
	b.modified.DisconnectAll()
	for layer := range b.built {
		b.sink.RemoveBody(physics.BodyID{Chunk: b.pos, Layer: layer})
	}
	b.built = nil
	b.colliders = nil
	b.counts = nil
}

// OnUpdate реализует Behaviour
func (b *ChunkCollisionBehaviour) OnUpdate(*Entity, float64) {}

func (b *ChunkCollisionBehaviour) subscribeLayers() {
	b.modified.DisconnectAll()
	for i := 0; i < b.chunk.LayerCount(); i++ {
		layer := i
		m := b.chunk.Layer(layer)
		b.modified.Add(m.OnModified(func(ev tilemap.Modified) {
			if m.IsWhole(ev) {
				b.rebuild()
				return
			}
			b.cellChanged(layer, ev.X, ev.Y)
		}))
	}
}

// scan заново снимает коллайдеры всех слоёв чанка и пересчитывает клетки по слоям коллизий
func (b *ChunkCollisionBehaviour) scan() {
	b.colliders = make([][]tile.Collider, b.chunk.LayerCount())
	b.counts = make(map[uint16]int)
	for i := range b.colliders {
		cells := make([]tile.Collider, world.ChunkSize*world.ChunkSize)
		for y := 0; y < world.ChunkSize; y++ {
			for x := 0; x < world.ChunkSize; x++ {
				c := b.chunk.Tile(x, y, i).Collider
				cells[y*world.ChunkSize+x] = c
				if c.HaveCollision() {
					b.counts[c.Layer]++
				}
			}
		}
		b.colliders[i] = cells
	}
}

// cellChanged обновляет копию коллайдера клетки и пересобирает затронутые слои коллизий
func (b *ChunkCollisionBehaviour) cellChanged(layer, x, y int) {
	if !b.enabled {
		return
	}
	if layer >= len(b.colliders) {
		b.rebuild()
		return
	}
	idx := y*world.ChunkSize + x
	old := b.colliders[layer][idx]
	cur := b.chunk.Tile(x, y, layer).Collider
	if old.Equal(cur) {
		return
	}
	b.colliders[layer][idx] = cur

	if old.HaveCollision() {
		b.counts[old.Layer]--
	}
	if cur.HaveCollision() {
		b.counts[cur.Layer]++
	}
	if old.HaveCollision() {
		b.rebuildLayer(old.Layer)
	}
	if cur.HaveCollision() && (!old.HaveCollision() || old.Layer != cur.Layer) {
		b.rebuildLayer(cur.Layer)
	}
}

// rebuild пересобирает тела всех слоёв коллизий чанка
func (b *ChunkCollisionBehaviour) rebuild() {
	if !b.enabled {
		return
	}
	b.scan()
	layers := make([]uint16, 0, len(b.counts)+len(b.built))
	for l := range b.counts {
		layers = append(layers, l)
	}
	for l := range b.built {
		if _, ok := b.counts[l]; !ok {
			layers = append(layers, l)
		}
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })
	for _, l := range layers {
		b.rebuildLayer(l)
	}
}

// rebuildLayer ставит тело слоя коллизий в хранилище или убирает его, если клеток не осталось
func (b *ChunkCollisionBehaviour) rebuildLayer(layer uint16) {
	id := physics.BodyID{Chunk: b.pos, Layer: layer}
	if b.counts[layer] <= 0 {
		delete(b.counts, layer)
		if _, ok := b.built[layer]; ok {
			b.sink.RemoveBody(id)
			delete(b.built, layer)
		}
		return
	}
	b.sink.SetBody(id, b.buildBody(layer))
	b.built[layer] = struct{}{}
	b.metrics.bodyBuilt()
}

func (b *ChunkCollisionBehaviour) haveFullCollision(idx int, layer uint16) bool {
	for _, cells := range b.colliders {
		c := cells[idx]
		if c.Layer == layer && c.HaveFullCollision() {
			return true
		}
	}
	return false
}

func (b *ChunkCollisionBehaviour) buildBody(layer uint16) physics.ChunkBody {
	full := func(x, y int) bool { return b.haveFullCollision(y*world.ChunkSize+x, layer) }
	body := physics.ChunkBody{Boxes: physics.MergeFullCells(world.ChunkSize, world.ChunkSize, full)}

	unit := vec.Vec2Float{X: 1, Y: 1}
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			if full(x, y) {
				continue
			}
			idx := y*world.ChunkSize + x
			for _, cells := range b.colliders {
				c := cells[idx]
				if !c.HaveCollision() || c.Layer != layer {
					continue
				}
				body.Polygons = append(body.Polygons, physics.Shape(c, vec.Vec2Float{X: float64(x), Y: float64(y)}, unit))
			}
		}
	}

	if b.collisions != nil && b.collisions.HaveLayer(int(layer)) {
		body.CategoryMask = 1 << uint(layer)
		body.CollisionMask = b.collisions.CollisionAndTriggerMask(int(layer))
	}
	return body
}
