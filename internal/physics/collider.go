package physics

import (
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
)

// Box - прямоугольный коллайдер в координатах тайлов чанка
type Box struct {
	X, Y, W, H float64
}

// Contains проверяет, находится ли точка внутри прямоугольника
func (b Box) Contains(p vec.Vec2Float) bool {
	return p.X >= b.X && p.X < b.X+b.W && p.Y >= b.Y && p.Y < b.Y+b.H
}

// Polygon - выпуклый многоугольник
type Polygon []vec.Vec2Float

// Contains проверяет точку для выпуклого многоугольника с любым обходом
func (p Polygon) Contains(pt vec.Vec2Float) bool {
	if len(p) < 3 {
		return false
	}
	sign := 0.0
	for i := range p {
		a := p[i]
		b := p[(i+1)%len(p)]
		cross := (b.X-a.X)*(pt.Y-a.Y) - (b.Y-a.Y)*(pt.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (sign > 0) != (cross > 0) {
			return false
		}
	}
	return true
}

// Базовые формы в квадрате [-0.5, 0.5]
var shapes = map[tile.ColliderType][]vec.Vec2Float{
	tile.ColliderFull:        {{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}},
	tile.ColliderTriangle:    {{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}},
	tile.ColliderHalf:        {{X: -0.5, Y: -0.5}, {X: 0, Y: -0.5}, {X: 0, Y: 0.5}, {X: -0.5, Y: 0.5}},
	tile.ColliderQuarter:     {{X: -0.5, Y: -0.5}, {X: 0, Y: -0.5}, {X: 0, Y: 0}, {X: -0.5, Y: 0}},
	tile.ColliderCentredHalf: {{X: -0.25, Y: -0.5}, {X: 0.25, Y: -0.5}, {X: 0.25, Y: 0.5}, {X: -0.25, Y: 0.5}},
}

// Shape возвращает многоугольник коллайдера клетки с левым верхним углом pos и размером size.
// Сначала применяются отражения, затем поворот на Rotation*90 градусов.
// Для пустого коллайдера возвращается nil.
func Shape(c tile.Collider, pos, size vec.Vec2Float) Polygon {
	base, ok := shapes[c.Type]
	if !ok {
		return nil
	}
	out := make(Polygon, len(base))
	for i, p := range base {
		if c.XFlip {
			p.X = -p.X
		}
		if c.YFlip {
			p.Y = -p.Y
		}
		for r := 0; r < int(c.Rotation); r++ {
			p.X, p.Y = -p.Y, p.X
		}
		// из [-0.5, 0.5] в [0, 1], затем в координаты клетки
		p = p.Add(vec.Vec2Float{X: 0.5, Y: 0.5}).MulVec(size).Add(pos)
		out[i] = p
	}
	return out
}

// MergeFullCells жадно объединяет занятые клетки сетки w x h в прямоугольники:
// от каждой свободной для покрытия клетки расширяемся вправо, затем вниз.
func MergeFullCells(w, h int, full func(x, y int) bool) []Box {
	covered := make([]bool, w*h)
	var boxes []Box
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if covered[y*w+x] || !full(x, y) {
				continue
			}
			width := 1
			for x+width < w && !covered[y*w+x+width] && full(x+width, y) {
				width++
			}
			height := 1
			for y+height < h {
				rowOK := true
				for i := 0; i < width; i++ {
					if covered[(y+height)*w+x+i] || !full(x+i, y+height) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				height++
			}
			for j := 0; j < height; j++ {
				for i := 0; i < width; i++ {
					covered[(y+j)*w+x+i] = true
				}
			}
			boxes = append(boxes, Box{X: float64(x), Y: float64(y), W: float64(width), H: float64(height)})
		}
	}
	return boxes
}
