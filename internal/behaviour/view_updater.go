package behaviour

import "github.com/annel0/tileworld/internal/vec"

// ViewUpdaterBehaviour сообщает сцене новый центр обзора, когда целая часть
// позиции сущности меняется
type ViewUpdaterBehaviour struct {
	last  vec.Vec2
	fired bool
}

// NewViewUpdaterBehaviour создаёт поведение
func NewViewUpdaterBehaviour() *ViewUpdaterBehaviour {
	return &ViewUpdaterBehaviour{}
}

// Clone реализует Behaviour
func (b *ViewUpdaterBehaviour) Clone() Behaviour {
	return NewViewUpdaterBehaviour()
}

// OnEnable сбрасывает последнюю позицию, чтобы первое обновление всегда сработало
func (b *ViewUpdaterBehaviour) OnEnable(*Entity) {
	b.fired = false
}

// OnDisable реализует Behaviour
func (b *ViewUpdaterBehaviour) OnDisable(*Entity) {}

// OnUpdate проверяет позицию сущности
func (b *ViewUpdaterBehaviour) OnUpdate(e *Entity, _ float64) {
	p := e.Position.Floor()
	if b.fired && p == b.last {
		return
	}
	b.last = p
	b.fired = true
	e.Scene().EmitCenterView(CenterViewUpdate{X: float64(p.X), Y: float64(p.Y)})
}
