package behaviour

import (
	"math"
	"testing"

	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/annel0/tileworld/internal/world/tiledef"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	grass uint32 = 1
	stone uint32 = 2

	// Атлас 8x8 тайлов по 32 пикселя с зазором 1
	atlasSide = 8*world.TileSize + 7*world.TileDelta
)

// testDefinition регистрирует два материала; тайл категории c имеет id c+1,
// поэтому категорию можно восстановить по текстурным координатам
func testDefinition() *tiledef.Definition {
	def := tiledef.New()
	g := def.AddTexture(tiledef.Texture{Name: "grass", Width: atlasSide, Height: atlasSide})
	s := def.AddTexture(tiledef.Texture{Name: "stone", Width: atlasSide, Height: atlasSide})
	for c := tiledef.ConnexionType(0); c < tiledef.ConnexionCount; c++ {
		def.AddTile(grass, c, tiledef.Variant{TextureID: g, TileID: int(c) + 1, Weight: 1})
		def.AddTile(stone, c, tiledef.Variant{TextureID: s, TileID: int(c) + 1, Weight: 1})
	}
	def.AddAllowedLayers(grass, 0, 16)
	def.AddAllowedLayers(stone, 0, 16)
	return def
}

// connexionAt восстанавливает категорию нарисованной клетки
func connexionAt(t *testing.T, r render.TileRenderer, pos vec.Vec2) tiledef.ConnexionType {
	t.Helper()
	cell := r.(*render.MemoryRenderer).Cell(pos)
	require.True(t, cell.Enabled, "клетка %v не нарисована", pos)
	step := float64(world.TileSize + world.TileDelta)
	col := int(math.Round(cell.UV.X * atlasSide / step))
	row := int(math.Round(cell.UV.Y * atlasSide / step))
	return tiledef.ConnexionType(row*8 + col)
}

// fillWorld заполняет слой всего мира материалом
func fillWorld(wm *world.WorldMap, layer int, material uint32) {
	size := wm.TileSize()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			wm.SetTile(x, y, layer, tile.New(material))
		}
	}
}

type streamFixture struct {
	wm      *world.WorldMap
	scene   *Scene
	root    *Entity
	stream  *WorldRenderBehaviour
	reg     *prometheus.Registry
	metrics *Metrics
}

// newStreamFixture создаёт мир 2x2 чанка, залитый травой на слоях 0 и 1,
// и контроллер с окном обзора, покрывающим все четыре чанка при центре (32, 32)
func newStreamFixture(t *testing.T, opts WorldRenderOptions) *streamFixture {
	t.Helper()
	wm := world.NewWorldMap(2, 2)
	fillWorld(wm, world.LayerGround, grass)
	fillWorld(wm, world.LayerBase, grass)

	reg := prometheus.NewRegistry()
	if opts.ViewSize == 0 {
		opts.ViewSize = 16
	}
	opts.Metrics = NewMetrics(reg)

	scene := NewScene(render.MemoryFactory{})
	root := scene.CreateEntity()
	stream := NewWorldRenderBehaviour(wm, testDefinition(), opts)
	root.Attach(stream)
	stream.SetCenter(32, 32)
	require.Len(t, stream.Streamed(), 4)

	return &streamFixture{wm: wm, scene: scene, root: root, stream: stream, reg: reg, metrics: opts.Metrics}
}

func (f *streamFixture) chunkRender(t *testing.T, c vec.Vec2) *ChunkRenderBehaviour {
	t.Helper()
	e, ok := f.stream.ChunkEntity(c)
	require.True(t, ok, "чанк %v не в окне обзора", c)
	for _, b := range e.Behaviours() {
		if r, ok := b.(*ChunkRenderBehaviour); ok {
			return r
		}
	}
	t.Fatalf("у чанка %v нет ChunkRenderBehaviour", c)
	return nil
}

func (f *streamFixture) groundRender(t *testing.T, c vec.Vec2) *ChunkGroundRenderBehaviour {
	t.Helper()
	e, ok := f.stream.ChunkEntity(c)
	require.True(t, ok, "чанк %v не в окне обзора", c)
	for _, b := range e.Behaviours() {
		if r, ok := b.(*ChunkGroundRenderBehaviour); ok {
			return r
		}
	}
	t.Fatalf("у чанка %v нет ChunkGroundRenderBehaviour", c)
	return nil
}

// layerRenderer возвращает рендерер слоя чанка в памяти
func (f *streamFixture) layerRenderer(t *testing.T, c vec.Vec2, layer int) *render.MemoryRenderer {
	t.Helper()
	r := f.chunkRender(t, c).Renderer(layer)
	require.NotNil(t, r)
	return r.(*render.MemoryRenderer)
}

// resetDraws обнуляет счётчики у всех рендереров слоя layer во всех чанках окна
func (f *streamFixture) resetDraws(t *testing.T, layer int) {
	for _, c := range f.stream.Streamed() {
		f.layerRenderer(t, c, layer).ResetDraws()
	}
}

func (f *streamFixture) metric(t *testing.T, name string) float64 {
	t.Helper()
	mfs, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
		return total
	}
	return 0
}

// window возвращает клетки прямоугольника [x0, x1] x [y0, y1] построчно
func window(x0, y0, x1, y1 int) []vec.Vec2 {
	var out []vec.Vec2
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			out = append(out, vec.Vec2{X: x, Y: y})
		}
	}
	return out
}
