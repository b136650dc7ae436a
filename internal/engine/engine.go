// Package engine владеет миром и сценой и сериализует все обращения к ним.
//
// Единственная горутина Run выполняет команды, поступившие через Do, и тикает
// сцену с заданной частотой. Поведения сцены и данные мира не синхронизированы,
// поэтому любое чтение или запись снаружи идёт только через Do.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/render"
	"github.com/annel0/tileworld/internal/resource"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// Значения по умолчанию
const (
	DefaultTickRate = 20
	DefaultViewSize = 48
	DefaultSource   = "engine"
)

// Options - параметры движка. Нулевые поля заменяются значениями по умолчанию.
type Options struct {
	Resource string        // Имя набора ресурсов в resource.Context
	TickRate int           // Тиков сцены в секунду
	ViewSize float64       // Полуширина окна обзора в тайлах
	Start    vec.Vec2Float // Начальная позиция фокуса
	Source   string        // Источник в конвертах событий
	Bus      eventbus.EventBus
	Metrics  *behaviour.Metrics
	Factory  render.Factory
	Sink     physics.Sink
}

// State - то, что видит команда, выполняемая в цикле движка
type State struct {
	World      *world.WorldMap
	Definition *tiledef.Definition
	Collisions *physics.CollisionDefinition
	Resources  *resource.Context
	Scene      *behaviour.Scene
	Stream     *behaviour.WorldRenderBehaviour
	Focus      *behaviour.Entity
	Sink       physics.Sink
}

type command struct {
	fn     func(*State) error
	result chan error
}

// Engine - однопоточный владелец мира
type Engine struct {
	opts  Options
	state State
	log   *logging.Logger

	root     *behaviour.Entity
	updater  *behaviour.ViewUpdaterBehaviour
	commands chan command
	stop     chan struct{}
	stopOnce sync.Once
	running  sync.Mutex
	tick     uint64
}

// New собирает сцену: корневую сущность стриминга и сущность фокуса.
// Окно обзора загружается сразу, до запуска Run.
func New(res *resource.Context, opts Options) (*Engine, error) {
	if res == nil {
		return nil, fmt.Errorf("контекст ресурсов: %w", ErrInvalidArgument)
	}
	opts = withDefaults(opts)
	if opts.TickRate < 0 || opts.ViewSize < 0 {
		return nil, fmt.Errorf("tick_rate=%d view_size=%g: %w", opts.TickRate, opts.ViewSize, ErrInvalidArgument)
	}

	wm, err := res.World(opts.Resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	def, err := res.Definition(opts.Resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResource, err)
	}
	// Определение коллизий необязательно: без него тела строятся без масок
	collisions, _ := res.Collision(opts.Resource)

	e := &Engine{
		opts:     opts,
		log:      logging.GetEngineLogger(),
		commands: make(chan command),
		stop:     make(chan struct{}),
		updater:  behaviour.NewViewUpdaterBehaviour(),
	}

	scene := behaviour.NewScene(opts.Factory)
	stream := behaviour.NewWorldRenderBehaviour(wm, def, behaviour.WorldRenderOptions{
		ViewSize:   opts.ViewSize,
		Collisions: collisions,
		Sink:       opts.Sink,
		Metrics:    opts.Metrics,
	})
	e.root = scene.CreateEntity()
	e.root.Attach(stream)

	focus := scene.CreateEntity()
	focus.Position = opts.Start
	focus.Attach(e.updater)

	e.state = State{
		World:      wm,
		Definition: def,
		Collisions: collisions,
		Resources:  res,
		Scene:      scene,
		Stream:     stream,
		Focus:      focus,
		Sink:       opts.Sink,
	}
	e.updater.OnUpdate(focus, 0)

	e.log.Info("движок создан: мир %dx%d чанков, окно %g тайлов, %d тиков/с",
		wm.Size().X, wm.Size().Y, opts.ViewSize, opts.TickRate)
	return e, nil
}

func withDefaults(opts Options) Options {
	if opts.Resource == "" {
		opts.Resource = resource.DefaultName
	}
	if opts.TickRate == 0 {
		opts.TickRate = DefaultTickRate
	}
	if opts.ViewSize == 0 {
		opts.ViewSize = DefaultViewSize
	}
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Factory == nil {
		opts.Factory = render.MemoryFactory{}
	}
	if opts.Sink == nil {
		opts.Sink = physics.NewMemorySink(world.ChunkSize)
	}
	return opts
}

// Run выполняет команды и тикает сцену до отмены ctx или вызова Stop.
// При выходе все чанки выгружаются из сцены.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.TryLock() {
		return fmt.Errorf("движок уже запущен: %w", ErrInvalidArgument)
	}
	defer e.running.Unlock()

	select {
	case <-e.stop:
		return ErrStopped
	default:
	}

	ticker := time.NewTicker(time.Second / time.Duration(e.opts.TickRate))
	defer ticker.Stop()
	defer e.shutdown()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			e.Stop()
			return ctx.Err()
		case <-e.stop:
			return nil
		case cmd := <-e.commands:
			cmd.result <- e.exec(cmd.fn)
		case now := <-ticker.C:
			e.state.Scene.Update(now.Sub(last).Seconds())
			last = now
			e.tick++
		}
	}
}

// exec выполняет команду; паника (например, проверка в сборке debugassert)
// превращается в ошибку, а цикл продолжает работу.
func (e *Engine) exec(fn func(*State) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("паника в команде движка: %v", r)
			err = fmt.Errorf("паника в команде движка: %v", r)
		}
	}()
	return fn(&e.state)
}

func (e *Engine) shutdown() {
	e.state.Scene.Kill(e.state.Focus)
	e.state.Scene.Kill(e.root)
	e.log.Info("движок остановлен после %d тиков", e.tick)
}

// Do выполняет fn в цикле движка и возвращает её ошибку.
// Блокируется, пока Run не примет команду; после Stop возвращает ErrStopped.
func (e *Engine) Do(ctx context.Context, fn func(*State) error) error {
	select {
	case <-e.stop:
		return ErrStopped
	default:
	}

	cmd := command{fn: fn, result: make(chan error, 1)}
	select {
	case e.commands <- cmd:
	case <-e.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop останавливает цикл. Повторные вызовы ничего не делают.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Stopped сообщает, был ли движок остановлен
func (e *Engine) Stopped() bool {
	select {
	case <-e.stop:
		return true
	default:
		return false
	}
}
