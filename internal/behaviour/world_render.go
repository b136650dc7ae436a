package behaviour

import (
	"math"
	"sort"

	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// WorldRenderOptions - необязательные зависимости контроллера стриминга
type WorldRenderOptions struct {
	ViewSize   float64                      // Полуширина окна обзора в тайлах
	Collisions *physics.CollisionDefinition // Маски тел коллизий
	Sink       physics.Sink                 // Если nil, тела коллизий не строятся
	Metrics    *Metrics
}

// streamedChunk - состояние чанка в окне обзора
type streamedChunk struct {
	entity *Entity
}

// WorldRenderBehaviour держит в сцене сущности чанков, попадающих в окно обзора,
// и пересылает пограничные обновления между ними.
type WorldRenderBehaviour struct {
	wm   *world.WorldMap
	def  *tiledef.Definition
	opts WorldRenderOptions
	log  *logging.Logger

	entity *Entity
	chunks map[vec.Vec2]*streamedChunk
	holder *eventbus.Holder
}

// NewWorldRenderBehaviour создаёт контроллер стриминга
func NewWorldRenderBehaviour(wm *world.WorldMap, def *tiledef.Definition, opts WorldRenderOptions) *WorldRenderBehaviour {
	return &WorldRenderBehaviour{
		wm:     wm,
		def:    def,
		opts:   opts,
		log:    logging.GetRenderLogger(),
		chunks: make(map[vec.Vec2]*streamedChunk),
	}
}

// Clone реализует Behaviour
func (b *WorldRenderBehaviour) Clone() Behaviour {
	return NewWorldRenderBehaviour(b.wm, b.def, b.opts)
}

// OnEnable подписывается на смену центра обзора сцены
func (b *WorldRenderBehaviour) OnEnable(e *Entity) {
	b.entity = e
	b.holder = e.Scene().OnCenterView(func(ev CenterViewUpdate) {
		b.SetCenter(ev.X, ev.Y)
	})
}

// OnDisable уничтожает все сущности чанков
func (b *WorldRenderBehaviour) OnDisable(e *Entity) {
	b.holder.Disconnect()
	for _, c := range b.Streamed() {
		b.removeChunk(c)
	}
	b.entity = nil
}

// OnUpdate реализует Behaviour
func (b *WorldRenderBehaviour) OnUpdate(*Entity, float64) {}

// ViewChunks возвращает мировые координаты чанков окна обзора с центром (x, y), построчно
func (b *WorldRenderBehaviour) ViewChunks(x, y float64) []vec.Vec2 {
	v := b.opts.ViewSize
	minX := int(math.Floor((x - v) / world.ChunkSize))
	minY := int(math.Floor((y - v) / world.ChunkSize))
	maxX := int(math.Floor((x + v) / world.ChunkSize))
	maxY := int(math.Floor((y + v) / world.ChunkSize))

	chunks := make([]vec.Vec2, 0, (maxX-minX+1)*(maxY-minY+1))
	for j := minY; j <= maxY; j++ {
		for i := minX; i <= maxX; i++ {
			chunks = append(chunks, vec.Vec2{X: i, Y: j})
		}
	}
	return chunks
}

// SetCenter приводит набор чанков в сцене к окну обзора с центром (x, y):
// сначала добавляются недостающие, затем удаляются лишние.
func (b *WorldRenderBehaviour) SetCenter(x, y float64) {
	if b.entity == nil {
		return
	}
	view := b.ViewChunks(x, y)
	inView := make(map[vec.Vec2]struct{}, len(view))
	for _, c := range view {
		inView[c] = struct{}{}
		if _, ok := b.chunks[c]; !ok {
			b.addChunk(c)
		}
	}
	for _, c := range b.Streamed() {
		if _, ok := inView[c]; !ok {
			b.removeChunk(c)
		}
	}
	b.opts.Metrics.setStreamed(len(b.chunks))
}

// Streamed возвращает координаты чанков в окне обзора, отсортированные по строкам
func (b *WorldRenderBehaviour) Streamed() []vec.Vec2 {
	out := make([]vec.Vec2, 0, len(b.chunks))
	for c := range b.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// ChunkEntity возвращает сущность чанка в окне обзора
func (b *WorldRenderBehaviour) ChunkEntity(c vec.Vec2) (*Entity, bool) {
	sc, ok := b.chunks[c]
	if !ok {
		return nil, false
	}
	return sc.entity, true
}

// OnBorderBlockUpdate пересылает пограничное обновление поведениям чанка.
// Для чанка вне окна обзора ничего не происходит: он перерисуется целиком при загрузке.
func (b *WorldRenderBehaviour) OnBorderBlockUpdate(chunkX, chunkY, x, y, layer int) {
	sc, ok := b.chunks[vec.Vec2{X: chunkX, Y: chunkY}]
	if !ok {
		b.opts.Metrics.border(false)
		return
	}
	for _, beh := range sc.entity.Behaviours() {
		if u, ok := beh.(BorderUpdater); ok {
			u.OnBorderBlockUpdate(x, y, layer)
		}
	}
	b.opts.Metrics.border(true)
}

func (b *WorldRenderBehaviour) addChunk(c vec.Vec2) {
	e := b.entity.Scene().CreateEntity()
	e.Position = vec.FromVec2(c.Scale(world.ChunkSize))
	b.chunks[c] = &streamedChunk{entity: e}

	ctx := ChunkContext{
		Chunk:      b.wm.ChunkAt(c),
		World:      b.wm,
		Definition: b.def,
		Router:     b,
		Pos:        c,
		Metrics:    b.opts.Metrics,
	}
	e.Attach(NewChunkGroundRenderBehaviour(ctx))
	e.Attach(NewChunkRenderBehaviour(ctx))
	if b.opts.Sink != nil {
		e.Attach(NewChunkCollisionBehaviour(ctx.Chunk, c, b.opts.Collisions, b.opts.Sink, b.opts.Metrics))
	}

	b.opts.Metrics.chunkIn()
	b.log.Debug("чанк (%d,%d) добавлен в окно обзора", c.X, c.Y)
}

func (b *WorldRenderBehaviour) removeChunk(c vec.Vec2) {
	sc, ok := b.chunks[c]
	if !ok {
		return
	}
	delete(b.chunks, c)
	b.entity.Scene().Kill(sc.entity)
	b.opts.Metrics.chunkOut()
	b.log.Debug("чанк (%d,%d) убран из окна обзора", c.X, c.Y)
}
