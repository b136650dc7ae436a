// Package tilemap реализует прямоугольную сетку тайлов с уведомлениями об изменениях.
package tilemap

import (
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/world/tile"
)

// Modified сообщает об изменении клетки (X, Y).
// Координаты за пределами карты означают, что изменилась вся карта.
type Modified struct {
	X, Y int
}

// Tilemap - сетка width x height. Размеры фиксируются при создании.
type Tilemap struct {
	width     int
	height    int
	tiles     []tile.Tile
	tileSize  int
	tileDelta int

	modified eventbus.Signal[Modified]
}

// New создаёт карту, заполненную пустыми тайлами
func New(width, height int) *Tilemap {
	util.Assert(width > 0 && height > 0, "размер карты %dx%d должен быть положительным", width, height)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Tilemap{
		width:  width,
		height: height,
		tiles:  make([]tile.Tile, width*height),
	}
}

// Width возвращает ширину карты
func (m *Tilemap) Width() int { return m.width }

// Height возвращает высоту карты
func (m *Tilemap) Height() int { return m.height }

// Contains сообщает, лежит ли клетка внутри карты
func (m *Tilemap) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// IsWhole сообщает, что событие относится ко всей карте, а не к одной клетке
func (m *Tilemap) IsWhole(ev Modified) bool {
	return !m.Contains(ev.X, ev.Y)
}

// Get возвращает тайл. Вне карты возвращается пустой тайл.
func (m *Tilemap) Get(x, y int) tile.Tile {
	if !util.Assert(m.Contains(x, y), "чтение (%d,%d) вне карты %dx%d", x, y, m.width, m.height) {
		return tile.Tile{}
	}
	return m.tiles[y*m.width+x]
}

// Set безусловно записывает тайл и уведомляет подписчиков,
// даже если значение не изменилось.
func (m *Tilemap) Set(x, y int, t tile.Tile) {
	if !util.Assert(m.Contains(x, y), "запись (%d,%d) вне карты %dx%d", x, y, m.width, m.height) {
		return
	}
	m.tiles[y*m.width+x] = t
	m.modified.Emit(Modified{X: x, Y: y})
}

// Fill заполняет всю карту одним тайлом и отправляет одно уведомление о полной замене
func (m *Tilemap) Fill(t tile.Tile) {
	for i := range m.tiles {
		m.tiles[i] = t
	}
	m.emitWhole()
}

// CopyRect копирует прямоугольник карты (x, y, w, h) в dst, начиная с (dx, dy).
// dst индексируется как dst[row][column].
func (m *Tilemap) CopyRect(x, y, w, h int, dst [][]tile.Tile, dx, dy int) {
	if !util.Assert(x >= 0 && y >= 0 && x+w <= m.width && y+h <= m.height,
		"прямоугольник (%d,%d %dx%d) вне карты %dx%d", x, y, w, h, m.width, m.height) {
		return
	}
	for j := 0; j < h; j++ {
		row := m.tiles[(y+j)*m.width+x : (y+j)*m.width+x+w]
		copy(dst[dy+j][dx:dx+w], row)
	}
}

// TileSize возвращает размер тайла в текстуре (пиксели)
func (m *Tilemap) TileSize() int { return m.tileSize }

// TileDelta возвращает зазор между тайлами в текстуре (пиксели)
func (m *Tilemap) TileDelta() int { return m.tileDelta }

// SetTileSize меняет размер тайла; уведомляет об изменении всей карты
func (m *Tilemap) SetTileSize(size int) {
	m.tileSize = size
	m.emitWhole()
}

// SetTileDelta меняет зазор между тайлами; уведомляет об изменении всей карты
func (m *Tilemap) SetTileDelta(delta int) {
	m.tileDelta = delta
	m.emitWhole()
}

// OnModified подписывает обработчик на изменения карты
func (m *Tilemap) OnModified(fn func(Modified)) *eventbus.Holder {
	return m.modified.Connect(fn)
}

func (m *Tilemap) emitWhole() {
	m.modified.Emit(Modified{X: m.width, Y: m.height})
}
