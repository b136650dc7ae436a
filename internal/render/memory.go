package render

import (
	"sort"
	"sync"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// Cell - состояние клетки рендерера в памяти
type Cell struct {
	Enabled  bool
	UV       Rect
	Material int
}

// MemoryRenderer хранит клетки и считает записи в каждую клетку.
// Счётчики позволяют проверять, какие клетки были перерисованы.
type MemoryRenderer struct {
	mu        sync.RWMutex
	size      vec.Vec2
	cells     []Cell
	draws     []int
	materials []tiledef.Texture
}

// NewMemoryRenderer создаёт рендерер w x h с заданным числом материалов
func NewMemoryRenderer(size vec.Vec2, materials int) *MemoryRenderer {
	n := size.X * size.Y
	return &MemoryRenderer{
		size:      size,
		cells:     make([]Cell, n),
		draws:     make([]int, n),
		materials: make([]tiledef.Texture, materials),
	}
}

func (r *MemoryRenderer) index(pos vec.Vec2) (int, bool) {
	if pos.X < 0 || pos.Y < 0 || pos.X >= r.size.X || pos.Y >= r.size.Y {
		return 0, false
	}
	return pos.Y*r.size.X + pos.X, true
}

// EnableCell включает клетку
func (r *MemoryRenderer) EnableCell(pos vec.Vec2, uv Rect, material int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index(pos)
	if !ok {
		return
	}
	r.cells[i] = Cell{Enabled: true, UV: uv, Material: material}
	r.draws[i]++
}

// DisableCell выключает клетку
func (r *MemoryRenderer) DisableCell(pos vec.Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index(pos)
	if !ok {
		return
	}
	r.cells[i] = Cell{}
	r.draws[i]++
}

// SetMaterial назначает текстуру материалу
func (r *MemoryRenderer) SetMaterial(index int, texture tiledef.Texture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.materials) {
		r.materials[index] = texture
	}
}

// Material возвращает текстуру материала
func (r *MemoryRenderer) Material(index int) tiledef.Texture {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.materials) {
		return tiledef.Texture{}
	}
	return r.materials[index]
}

// MaterialCount возвращает количество материалов
func (r *MemoryRenderer) MaterialCount() int {
	return len(r.materials)
}

// Size возвращает размер сетки
func (r *MemoryRenderer) Size() vec.Vec2 {
	return r.size
}

// Cell возвращает состояние клетки
func (r *MemoryRenderer) Cell(pos vec.Vec2) Cell {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index(pos)
	if !ok {
		return Cell{}
	}
	return r.cells[i]
}

// Draws возвращает количество записей в клетку
func (r *MemoryRenderer) Draws(pos vec.Vec2) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index(pos)
	if !ok {
		return 0
	}
	return r.draws[i]
}

// Touched возвращает клетки, в которые была хотя бы одна запись после ResetDraws
func (r *MemoryRenderer) Touched() []vec.Vec2 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []vec.Vec2
	for i, d := range r.draws {
		if d > 0 {
			out = append(out, vec.Vec2{X: i % r.size.X, Y: i / r.size.X})
		}
	}
	return out
}

// EnabledCount возвращает число включённых клеток
func (r *MemoryRenderer) EnabledCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, c := range r.cells {
		if c.Enabled {
			n++
		}
	}
	return n
}

// ResetDraws обнуляет счётчики записей
func (r *MemoryRenderer) ResetDraws() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.draws {
		r.draws[i] = 0
	}
}

// MemoryGraphics хранит прикреплённые рендереры и их глубину
type MemoryGraphics struct {
	mu    sync.RWMutex
	z     map[TileRenderer]float64
	order []TileRenderer
}

// NewMemoryGraphics создаёт пустой узел
func NewMemoryGraphics() *MemoryGraphics {
	return &MemoryGraphics{z: make(map[TileRenderer]float64)}
}

// Attach прикрепляет рендерер; повторное прикрепление обновляет глубину
func (g *MemoryGraphics) Attach(r TileRenderer, z float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.z[r]; !ok {
		g.order = append(g.order, r)
	}
	g.z[r] = z
}

// Detach открепляет рендерер
func (g *MemoryGraphics) Detach(r TileRenderer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.z[r]; !ok {
		return
	}
	delete(g.z, r)
	for i, o := range g.order {
		if o == r {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// UpdateZ меняет глубину прикреплённого рендерера
func (g *MemoryGraphics) UpdateZ(r TileRenderer, z float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.z[r]; ok {
		g.z[r] = z
	}
}

// Z возвращает глубину рендерера
func (g *MemoryGraphics) Z(r TileRenderer) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	z, ok := g.z[r]
	return z, ok
}

// Renderers возвращает рендереры, упорядоченные по глубине (при равенстве - по порядку прикрепления)
func (g *MemoryGraphics) Renderers() []TileRenderer {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := append([]TileRenderer(nil), g.order...)
	sort.SliceStable(out, func(i, j int) bool { return g.z[out[i]] < g.z[out[j]] })
	return out
}

// Len возвращает количество прикреплённых рендереров
func (g *MemoryGraphics) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// MemoryFactory создаёт объекты в памяти
type MemoryFactory struct{}

// NewTileRenderer реализует Factory
func (MemoryFactory) NewTileRenderer(size vec.Vec2, materials int) TileRenderer {
	return NewMemoryRenderer(size, materials)
}

// NewGraphics реализует Factory
func (MemoryFactory) NewGraphics() Graphics {
	return NewMemoryGraphics()
}
