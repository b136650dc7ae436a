// Package tile содержит значение клетки карты: идентификатор материала и
// упакованный дескриптор коллайдера.
package tile

// ColliderType определяет форму коллизии клетки
type ColliderType uint16

const (
	ColliderEmpty       ColliderType = iota // Без коллизии
	ColliderFull                            // Вся клетка
	ColliderTriangle                        // Прямоугольный треугольник
	ColliderHalf                            // Половина клетки
	ColliderQuarter                         // Четверть клетки
	ColliderCentredHalf                     // Центральная вертикальная полоса
)

var colliderTypeNames = [...]string{"Empty", "Full", "Triangle", "Half", "Quarter", "CentredHalf"}

// String возвращает имя формы коллизии
func (t ColliderType) String() string {
	if int(t) < len(colliderTypeNames) {
		return colliderTypeNames[t]
	}
	return "Unknown"
}

// ParseColliderType возвращает форму по имени
func ParseColliderType(name string) (ColliderType, bool) {
	for i, n := range colliderTypeNames {
		if n == name {
			return ColliderType(i), true
		}
	}
	return ColliderEmpty, false
}

// Rotation задаёт поворот коллайдера на кратное 90 градусам
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Разметка битов упакованного коллайдера
const (
	xFlipBit      = 1 << 0
	yFlipBit      = 1 << 1
	rotationMask  = 0b1100
	rotationShift = 2
	typeMask      = 0xFFF0
	typeShift     = 4
	layerMask     = 0xFFFF0000
	layerShift    = 16
)

// Collider описывает коллизию клетки
type Collider struct {
	Type     ColliderType
	Rotation Rotation
	XFlip    bool
	YFlip    bool
	Layer    uint16 // Индекс слоя коллизий
}

// ColliderFromInt распаковывает коллайдер из uint32
func ColliderFromInt(value uint32) Collider {
	return Collider{
		XFlip:    value&xFlipBit != 0,
		YFlip:    value&yFlipBit != 0,
		Rotation: Rotation((value & rotationMask) >> rotationShift),
		Type:     ColliderType((value & typeMask) >> typeShift),
		Layer:    uint16((value & layerMask) >> layerShift),
	}
}

// ToInt упаковывает коллайдер в uint32
func (c Collider) ToInt() uint32 {
	var value uint32
	if c.XFlip {
		value |= xFlipBit
	}
	if c.YFlip {
		value |= yFlipBit
	}
	value |= uint32(c.Rotation&0b11) << rotationShift
	value |= (uint32(c.Type) << typeShift) & typeMask
	value |= uint32(c.Layer) << layerShift
	return value
}

// HaveCollision сообщает, есть ли у клетки хоть какая-то коллизия
func (c Collider) HaveCollision() bool {
	return c.Type != ColliderEmpty
}

// HaveFullCollision сообщает, занята ли клетка коллизией целиком
func (c Collider) HaveFullCollision() bool {
	return c.Type == ColliderFull
}

// Equal сравнивает коллайдеры: любые два пустых равны независимо от слоя и поворота
func (c Collider) Equal(other Collider) bool {
	if c.Type == ColliderEmpty && other.Type == ColliderEmpty {
		return true
	}
	return c.ToInt() == other.ToInt()
}

// Tile - значение клетки. ID 0 означает отсутствие материала.
type Tile struct {
	ID       uint32
	Collider Collider
}

// New создаёт тайл без коллизии
func New(id uint32) Tile {
	return Tile{ID: id}
}

// Equal сравнивает тайлы по правилу обнаружения изменений
func (t Tile) Equal(other Tile) bool {
	return t.ID == other.ID && t.Collider.Equal(other.Collider)
}

// IsEmpty сообщает, совпадает ли тайл с пустым Tile{}
func (t Tile) IsEmpty() bool {
	return t.Equal(Tile{})
}
