package world

import (
	"math"

	"github.com/annel0/tileworld/internal/util"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
)

// WorldMap - сетка chunksX x chunksY чанков, замкнутая в тор: координаты
// чанков за пределами сетки заворачиваются по модулю, поэтому мир бесконечен
// и бесшовно повторяется.
//
// Пространства координат:
//   - мировая позиция тайла (любые целые);
//   - мировая позиция чанка = floor(pos / ChunkSize);
//   - локальная позиция чанка = мировая по модулю размера сетки;
//   - локальная позиция тайла = pos по модулю ChunkSize.
type WorldMap struct {
	chunksX int
	chunksY int
	chunks  []*Chunk
}

// NewWorldMap создаёт мир из chunksX x chunksY пустых чанков
func NewWorldMap(chunksX, chunksY int) *WorldMap {
	util.Assert(chunksX > 0 && chunksY > 0, "размер мира %dx%d должен быть положительным", chunksX, chunksY)
	if chunksX < 1 {
		chunksX = 1
	}
	if chunksY < 1 {
		chunksY = 1
	}
	wm := &WorldMap{
		chunksX: chunksX,
		chunksY: chunksY,
		chunks:  make([]*Chunk, chunksX*chunksY),
	}
	for y := 0; y < chunksY; y++ {
		for x := 0; x < chunksX; x++ {
			wm.chunks[y*chunksX+x] = NewChunk(vec.Vec2{X: x, Y: y})
		}
	}
	return wm
}

// Size возвращает размер сетки в чанках
func (wm *WorldMap) Size() vec.Vec2 {
	return vec.Vec2{X: wm.chunksX, Y: wm.chunksY}
}

// TileSize возвращает размер мира в тайлах
func (wm *WorldMap) TileSize() vec.Vec2 {
	return vec.Vec2{X: wm.chunksX * ChunkSize, Y: wm.chunksY * ChunkSize}
}

// Chunk возвращает чанк по локальным координатам сетки
func (wm *WorldMap) Chunk(x, y int) *Chunk {
	if !util.Assert(x >= 0 && y >= 0 && x < wm.chunksX && y < wm.chunksY,
		"чанк (%d,%d) вне сетки %dx%d", x, y, wm.chunksX, wm.chunksY) {
		p := wm.WorldToLocalChunkPos(vec.Vec2{X: x, Y: y})
		x, y = p.X, p.Y
	}
	return wm.chunks[y*wm.chunksX+x]
}

// ChunkAt возвращает чанк по мировым координатам чанка (с заворачиванием)
func (wm *WorldMap) ChunkAt(worldChunk vec.Vec2) *Chunk {
	p := wm.WorldToLocalChunkPos(worldChunk)
	return wm.chunks[p.Y*wm.chunksX+p.X]
}

// Chunks возвращает все чанки сетки построчно
func (wm *WorldMap) Chunks() []*Chunk {
	return wm.chunks
}

// PosToWorldChunkPos возвращает мировую позицию чанка, содержащего тайл
func (wm *WorldMap) PosToWorldChunkPos(pos vec.Vec2) vec.Vec2 {
	return pos.FloorDiv(ChunkSize)
}

// WorldToLocalChunkPos заворачивает мировую позицию чанка в сетку
func (wm *WorldMap) WorldToLocalChunkPos(worldChunk vec.Vec2) vec.Vec2 {
	return worldChunk.Wrap(wm.chunksX, wm.chunksY)
}

// PosToChunkPos возвращает локальную позицию чанка, содержащего тайл
func (wm *WorldMap) PosToChunkPos(pos vec.Vec2) vec.Vec2 {
	return wm.WorldToLocalChunkPos(wm.PosToWorldChunkPos(pos))
}

// PosToTilePos возвращает позицию тайла внутри его чанка
func (wm *WorldMap) PosToTilePos(pos vec.Vec2) vec.Vec2 {
	return pos.Mod(ChunkSize)
}

// TilePosToPos собирает мировую позицию из локальной позиции тайла и позиции чанка
func (wm *WorldMap) TilePosToPos(tilePos, chunkPos vec.Vec2) vec.Vec2 {
	return tilePos.Add(chunkPos.Scale(ChunkSize))
}

// NormalizePos заворачивает мировую позицию тайла в [0, размер мира)
func (wm *WorldMap) NormalizePos(pos vec.Vec2) vec.Vec2 {
	return pos.Wrap(wm.chunksX*ChunkSize, wm.chunksY*ChunkSize)
}

// Tile возвращает тайл по мировой позиции
func (wm *WorldMap) Tile(x, y, layer int) tile.Tile {
	pos := vec.Vec2{X: x, Y: y}
	local := wm.PosToTilePos(pos)
	return wm.ChunkAt(wm.PosToWorldChunkPos(pos)).Tile(local.X, local.Y, layer)
}

// SetTile записывает тайл по мировой позиции
func (wm *WorldMap) SetTile(x, y, layer int, t tile.Tile) {
	pos := vec.Vec2{X: x, Y: y}
	local := wm.PosToTilePos(pos)
	wm.ChunkAt(wm.PosToWorldChunkPos(pos)).SetTile(local.X, local.Y, layer, t)
}

// Tiles читает прямоугольник (x, y, width, height) слоя layer.
// Результат индексируется как [row][column]; отсутствующие слои читаются пустыми.
func (wm *WorldMap) Tiles(x, y, width, height, layer int) [][]tile.Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	size := wm.TileSize()
	if !util.Assert(width <= math.MaxInt/height && width <= math.MaxInt-size.X && height <= math.MaxInt-size.Y,
		"прямоугольник %dx%d слишком велик", width, height) {
		return nil
	}
	// Мир замкнут, поэтому начало переносится в [0, размер мира):
	// так углы прямоугольника не переполняются при x, y около границ int
	origin := wm.NormalizePos(vec.Vec2{X: x, Y: y})
	x, y = origin.X, origin.Y

	out := make([][]tile.Tile, height)
	buf := make([]tile.Tile, width*height)
	for j := range out {
		out[j] = buf[j*width : (j+1)*width]
	}

	minChunk := wm.PosToWorldChunkPos(vec.Vec2{X: x, Y: y})
	maxChunk := wm.PosToWorldChunkPos(vec.Vec2{X: x + width - 1, Y: y + height - 1})

	for cy := minChunk.Y; cy <= maxChunk.Y; cy++ {
		for cx := minChunk.X; cx <= maxChunk.X; cx++ {
			m := wm.ChunkAt(vec.Vec2{X: cx, Y: cy}).Layer(layer)
			if m == nil {
				continue
			}
			originX := cx * ChunkSize
			originY := cy * ChunkSize

			startX := max(x, originX)
			startY := max(y, originY)
			endX := min(x+width, originX+ChunkSize)
			endY := min(y+height, originY+ChunkSize)

			m.CopyRect(startX-originX, startY-originY, endX-startX, endY-startY, out, startX-x, startY-y)
		}
	}
	return out
}
