package physics

import (
	"fmt"
)

// MaxLayers - максимальное количество слоёв коллизий
const MaxLayers = 32

// ContactType определяет взаимодействие двух слоёв
type ContactType uint8

const (
	ContactNone      ContactType = iota // Слои не взаимодействуют
	ContactCollision                    // Твёрдое столкновение
	ContactTrigger                      // Пересечение без отталкивания
)

// ParseContactType разбирает имя типа контакта
func ParseContactType(name string) (ContactType, error) {
	switch name {
	case "none", "":
		return ContactNone, nil
	case "collision":
		return ContactCollision, nil
	case "trigger":
		return ContactTrigger, nil
	default:
		return ContactNone, fmt.Errorf("неизвестный тип контакта %q", name)
	}
}

type layerInfo struct {
	name     string
	contacts [MaxLayers]ContactType
}

// CollisionDefinition - именованные слои коллизий и симметричная матрица контактов
type CollisionDefinition struct {
	layers []layerInfo
}

// NewCollisionDefinition создаёт пустое описание
func NewCollisionDefinition() *CollisionDefinition {
	return &CollisionDefinition{}
}

// AddLayer добавляет слой и возвращает его индекс
func (d *CollisionDefinition) AddLayer(name string) (int, error) {
	if len(d.layers) >= MaxLayers {
		return 0, fmt.Errorf("не больше %d слоёв коллизий", MaxLayers)
	}
	if d.HaveLayerNamed(name) {
		return 0, fmt.Errorf("слой коллизий %q уже существует", name)
	}
	d.layers = append(d.layers, layerInfo{name: name})
	return len(d.layers) - 1, nil
}

// RemoveLayer удаляет слой; слои выше сдвигаются вниз вместе со своими контактами
func (d *CollisionDefinition) RemoveLayer(index int) {
	if !d.HaveLayer(index) {
		return
	}
	d.layers = append(d.layers[:index], d.layers[index+1:]...)
	for i := range d.layers {
		c := &d.layers[i].contacts
		copy(c[index:], c[index+1:])
		c[MaxLayers-1] = ContactNone
	}
}

// HaveLayer сообщает, существует ли слой с индексом
func (d *CollisionDefinition) HaveLayer(index int) bool {
	return index >= 0 && index < len(d.layers)
}

// HaveLayerNamed сообщает, существует ли слой с именем
func (d *CollisionDefinition) HaveLayerNamed(name string) bool {
	_, ok := d.LayerIndex(name)
	return ok
}

// LayerIndex возвращает индекс слоя по имени
func (d *CollisionDefinition) LayerIndex(name string) (int, bool) {
	for i, l := range d.layers {
		if l.name == name {
			return i, true
		}
	}
	return 0, false
}

// LayerName возвращает имя слоя
func (d *CollisionDefinition) LayerName(index int) string {
	if !d.HaveLayer(index) {
		return ""
	}
	return d.layers[index].name
}

// LayerCount возвращает количество слоёв
func (d *CollisionDefinition) LayerCount() int {
	return len(d.layers)
}

// SetContact задаёт взаимодействие двух слоёв (симметрично)
func (d *CollisionDefinition) SetContact(a, b int, c ContactType) error {
	if !d.HaveLayer(a) || !d.HaveLayer(b) {
		return fmt.Errorf("слои %d и %d должны существовать", a, b)
	}
	d.layers[a].contacts[b] = c
	d.layers[b].contacts[a] = c
	return nil
}

// Contact возвращает взаимодействие двух слоёв
func (d *CollisionDefinition) Contact(a, b int) ContactType {
	if !d.HaveLayer(a) || !d.HaveLayer(b) {
		return ContactNone
	}
	return d.layers[a].contacts[b]
}

func (d *CollisionDefinition) mask(index int, match func(ContactType) bool) uint32 {
	if !d.HaveLayer(index) {
		return 0
	}
	var mask uint32
	for i, c := range d.layers[index].contacts {
		if match(c) {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// CollisionAndTriggerMask - маска слоёв с любым взаимодействием
func (d *CollisionDefinition) CollisionAndTriggerMask(index int) uint32 {
	return d.mask(index, func(c ContactType) bool { return c != ContactNone })
}

// CollisionMask - маска слоёв с твёрдым столкновением
func (d *CollisionDefinition) CollisionMask(index int) uint32 {
	return d.mask(index, func(c ContactType) bool { return c == ContactCollision })
}

// TriggerMask - маска слоёв-триггеров
func (d *CollisionDefinition) TriggerMask(index int) uint32 {
	return d.mask(index, func(c ContactType) bool { return c == ContactTrigger })
}
