package vec

import "math"

// Vec2 представляет 2D координаты
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub вычитает вектор
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale умножает обе координаты на скаляр
func (v Vec2) Scale(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// FloorDiv делит покомпонентно с округлением вниз (корректно для отрицательных координат)
func (v Vec2) FloorDiv(size int) Vec2 {
	return Vec2{X: FloorDiv(v.X, size), Y: FloorDiv(v.Y, size)}
}

// Mod возвращает покомпонентный остаток в диапазоне [0, size)
func (v Vec2) Mod(size int) Vec2 {
	return Vec2{X: Mod(v.X, size), Y: Mod(v.Y, size)}
}

// Wrap заворачивает координаты в прямоугольник [0,w)x[0,h)
func (v Vec2) Wrap(w, h int) Vec2 {
	return Vec2{X: Mod(v.X, w), Y: Mod(v.Y, h)}
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// FloorDiv выполняет целочисленное деление с округлением к минус бесконечности.
// Оператор / в Go округляет к нулю, поэтому -1/32 == 0, а FloorDiv(-1, 32) == -1.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod возвращает неотрицательный остаток от деления a на b (b > 0)
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
