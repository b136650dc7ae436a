// Package behaviour содержит поведения сущностей сцены: автотайлеры чанков,
// построитель коллизий, контроллер стриминга чанков и обновление центра обзора.
//
// Всё, что находится в пакете, однопоточное: методы вызываются из цикла
// движка, синхронно, в порядке записей в мир.
package behaviour

import (
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/google/uuid"
)

// Behaviour - поведение, прикреплённое к сущности
type Behaviour interface {
	// OnEnable вызывается при прикреплении к включённой сущности или её включении
	OnEnable(e *Entity)
	// OnDisable вызывается при выключении или уничтожении сущности
	OnDisable(e *Entity)
	// OnUpdate вызывается раз в тик
	OnUpdate(e *Entity, dt float64)
	// Clone возвращает неприкреплённую копию с теми же зависимостями
	Clone() Behaviour
}

// BorderUpdater принимает уведомления о смене клетки на границе соседнего чанка
type BorderUpdater interface {
	OnBorderBlockUpdate(x, y, layer int)
}

// CenterViewUpdate сообщает новую целочисленную позицию центра обзора
type CenterViewUpdate struct {
	X, Y float64
}

// Entity - сущность сцены: позиция, графический узел и набор поведений
type Entity struct {
	ID       uuid.UUID
	Position vec.Vec2Float

	scene      *Scene
	graphics   render.Graphics
	behaviours []Behaviour
	enabled    bool
	alive      bool
}

// Scene возвращает сцену сущности
func (e *Entity) Scene() *Scene { return e.scene }

// Graphics возвращает графический узел сущности
func (e *Entity) Graphics() render.Graphics { return e.graphics }

// Enabled сообщает, включена ли сущность
func (e *Entity) Enabled() bool { return e.enabled }

// Alive сообщает, что сущность ещё не уничтожена
func (e *Entity) Alive() bool { return e.alive }

// Behaviours возвращает прикреплённые поведения
func (e *Entity) Behaviours() []Behaviour { return e.behaviours }

// Attach прикрепляет поведение; для включённой сущности сразу вызывается OnEnable
func (e *Entity) Attach(b Behaviour) {
	if !e.alive {
		return
	}
	e.behaviours = append(e.behaviours, b)
	if e.enabled {
		b.OnEnable(e)
	}
}

// Enable включает сущность
func (e *Entity) Enable() {
	if !e.alive || e.enabled {
		return
	}
	e.enabled = true
	for _, b := range e.behaviours {
		b.OnEnable(e)
	}
}

// Disable выключает сущность; поведения выключаются в обратном порядке
func (e *Entity) Disable() {
	if !e.alive || !e.enabled {
		return
	}
	e.enabled = false
	for i := len(e.behaviours) - 1; i >= 0; i-- {
		e.behaviours[i].OnDisable(e)
	}
}

// Scene владеет сущностями и сигналами, общими для их поведений
type Scene struct {
	factory    render.Factory
	entities   []*Entity
	centerView eventbus.Signal[CenterViewUpdate]
}

// NewScene создаёт пустую сцену
func NewScene(factory render.Factory) *Scene {
	return &Scene{factory: factory}
}

// Factory возвращает фабрику рендереров сцены
func (s *Scene) Factory() render.Factory { return s.factory }

// CreateEntity создаёт включённую сущность без поведений
func (s *Scene) CreateEntity() *Entity {
	e := &Entity{
		ID:       uuid.New(),
		scene:    s,
		graphics: s.factory.NewGraphics(),
		enabled:  true,
		alive:    true,
	}
	s.entities = append(s.entities, e)
	return e
}

// Kill выключает и удаляет сущность
func (s *Scene) Kill(e *Entity) {
	if e == nil || !e.alive {
		return
	}
	e.Disable()
	e.alive = false
	for i, other := range s.entities {
		if other == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

// Entities возвращает количество живых сущностей
func (s *Scene) Entities() int {
	return len(s.entities)
}

// Update вызывает OnUpdate у поведений всех включённых сущностей.
// Сущности, уничтоженные во время обхода, пропускаются.
func (s *Scene) Update(dt float64) {
	snapshot := append([]*Entity(nil), s.entities...)
	for _, e := range snapshot {
		if !e.alive || !e.enabled {
			continue
		}
		for _, b := range e.behaviours {
			b.OnUpdate(e, dt)
		}
	}
}

// OnCenterView подписывает обработчик на смену центра обзора
func (s *Scene) OnCenterView(fn func(CenterViewUpdate)) *eventbus.Holder {
	return s.centerView.Connect(fn)
}

// EmitCenterView рассылает новый центр обзора
func (s *Scene) EmitCenterView(ev CenterViewUpdate) {
	s.centerView.Emit(ev)
}
