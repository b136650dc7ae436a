// Package render описывает поверхность отрисовки, на которую автотайлеры
// выводят клетки, и её реализацию в памяти.
package render

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// Rect - прямоугольник текстурных координат в долях текстуры
type Rect struct {
	X, Y, W, H float64
}

// TileRenderer - сетка клеток, каждая из которых либо выключена, либо
// рисует участок одного из материалов рендерера
type TileRenderer interface {
	EnableCell(pos vec.Vec2, uv Rect, material int)
	DisableCell(pos vec.Vec2)
	SetMaterial(index int, texture tiledef.Texture)
	MaterialCount() int
	Size() vec.Vec2
}

// Graphics - узел сцены, к которому прикрепляются рендереры с глубиной z
type Graphics interface {
	Attach(r TileRenderer, z float64)
	Detach(r TileRenderer)
	UpdateZ(r TileRenderer, z float64)
}

// Factory создаёт рендереры и графические узлы
type Factory interface {
	NewTileRenderer(size vec.Vec2, materials int) TileRenderer
	NewGraphics() Graphics
}

// TileUV вычисляет текстурные координаты тайла tileID в атласе.
// Тайлы в атласе идут строками по tileSize пикселей с промежутком tileDelta,
// нумерация с 1. Для tileID == 0 или текстуры без размера ok == false.
func TileUV(tex tiledef.Texture, tileID, tileSize, tileDelta int) (Rect, bool) {
	if tileID <= 0 || tex.Width <= 0 || tex.Height <= 0 || tileSize <= 0 {
		return Rect{}, false
	}
	step := tileSize + tileDelta
	perRow := (tex.Width + tileSize) / step
	if perRow <= 0 {
		return Rect{}, false
	}
	id := tileID - 1
	w, h := float64(tex.Width), float64(tex.Height)
	return Rect{
		X: float64(id%perRow*step) / w,
		Y: float64(id/perRow*step) / h,
		W: float64(tileSize) / w,
		H: float64(tileSize) / h,
	}, true
}
