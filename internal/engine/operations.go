package engine

import (
	"context"
	"fmt"

	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/observability"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Ограничения на аргументы внешних запросов
const (
	MaxLayer     = 64        // Слои с индексом больше не создаются
	MaxTilesArea = 256 * 256 // Максимальная площадь прямоугольника Tiles
)

// Типы событий, публикуемых в шину
const (
	EventTileChanged = "TileChanged"
	EventViewMoved   = "ViewMoved"
)

// TileChanged - полезная нагрузка события записи тайла
type TileChanged struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Layer    int    `json:"layer"`
	ID       uint32 `json:"id"`
	Collider uint32 `json:"collider"` // Упакованный tile.Collider
}

// ViewMoved - полезная нагрузка события смены центра обзора
type ViewMoved struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Streamed int     `json:"streamed"`
}

// LayerInfo описывает слой чанка
type LayerInfo struct {
	Index     int     `json:"index"`
	Height    float64 `json:"height"`
	LiveTiles int     `json:"live_tiles"`
}

// BodyInfo - краткое описание тела коллизий чанка
type BodyInfo struct {
	Chunk         vec.Vec2 `json:"chunk"`
	Layer         uint16   `json:"layer"`
	Boxes         int      `json:"boxes"`
	Polygons      int      `json:"polygons"`
	CategoryMask  uint32   `json:"category_mask"`
	CollisionMask uint32   `json:"collision_mask"`
}

// blockQuery реализуют хранилища тел, умеющие отвечать на запросы о точке
type blockQuery interface {
	Blocked(p vec.Vec2Float, layerMask uint32) bool
}

func validLayer(layer int) error {
	if layer < 0 || layer > MaxLayer {
		return fmt.Errorf("слой %d вне [0, %d]: %w", layer, MaxLayer, ErrInvalidArgument)
	}
	return nil
}

// SetTile записывает тайл по мировой позиции и публикует TileChanged
func (e *Engine) SetTile(ctx context.Context, x, y, layer int, t tile.Tile) error {
	ctx, span := observability.Tracer().Start(ctx, "engine.SetTile")
	defer span.End()
	span.SetAttributes(attribute.Int("x", x), attribute.Int("y", y), attribute.Int("layer", layer), attribute.Int64("tile.id", int64(t.ID)))

	if err := validLayer(layer); err != nil {
		return err
	}
	err := e.Do(ctx, func(s *State) error {
		s.World.SetTile(x, y, layer, t)
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	e.publish(ctx, EventTileChanged, TileChanged{X: x, Y: y, Layer: layer, ID: t.ID, Collider: t.Collider.ToInt()})
	return nil
}

// Tile читает тайл по мировой позиции
func (e *Engine) Tile(ctx context.Context, x, y, layer int) (tile.Tile, error) {
	if err := validLayer(layer); err != nil {
		return tile.Tile{}, err
	}
	var t tile.Tile
	err := e.Do(ctx, func(s *State) error {
		t = s.World.Tile(x, y, layer)
		return nil
	})
	return t, err
}

// Tiles читает прямоугольник слоя, результат индексируется [row][column]
func (e *Engine) Tiles(ctx context.Context, x, y, w, h, layer int) ([][]tile.Tile, error) {
	if err := validLayer(layer); err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 || w > MaxTilesArea || h > MaxTilesArea || w > MaxTilesArea/h {
		return nil, fmt.Errorf("прямоугольник %dx%d: %w", w, h, ErrInvalidArgument)
	}
	var out [][]tile.Tile
	err := e.Do(ctx, func(s *State) error {
		out = s.World.Tiles(x, y, w, h, layer)
		return nil
	})
	return out, err
}

// MoveFocus переносит фокус и сразу пересчитывает окно обзора.
// Возвращает координаты чанков окна после перемещения.
func (e *Engine) MoveFocus(ctx context.Context, p vec.Vec2Float) ([]vec.Vec2, error) {
	ctx, span := observability.Tracer().Start(ctx, "engine.MoveFocus")
	defer span.End()

	var streamed []vec.Vec2
	err := e.Do(ctx, func(s *State) error {
		s.Focus.Position = p
		e.updater.OnUpdate(s.Focus, 0)
		streamed = s.Stream.Streamed()
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("streamed", len(streamed)))
	e.publish(ctx, EventViewMoved, ViewMoved{X: p.X, Y: p.Y, Streamed: len(streamed)})
	return streamed, nil
}

// Focus возвращает текущую позицию фокуса
func (e *Engine) Focus(ctx context.Context) (vec.Vec2Float, error) {
	var p vec.Vec2Float
	err := e.Do(ctx, func(s *State) error {
		p = s.Focus.Position
		return nil
	})
	return p, err
}

// Streamed возвращает мировые координаты загруженных чанков, отсортированные по строкам
func (e *Engine) Streamed(ctx context.Context) ([]vec.Vec2, error) {
	var out []vec.Vec2
	err := e.Do(ctx, func(s *State) error {
		out = s.Stream.Streamed()
		return nil
	})
	return out, err
}

// ChunkLayers описывает слои чанка с мировыми координатами c
func (e *Engine) ChunkLayers(ctx context.Context, c vec.Vec2) ([]LayerInfo, error) {
	var out []LayerInfo
	err := e.Do(ctx, func(s *State) error {
		chunk := s.World.ChunkAt(c)
		for i := 0; i < chunk.LayerCount(); i++ {
			h, _ := chunk.LayerHeight(i)
			out = append(out, LayerInfo{Index: i, Height: h, LiveTiles: chunk.LiveTiles(i)})
		}
		return nil
	})
	return out, err
}

// Blocked проверяет, занята ли мировая точка телом коллизий на слоях маски.
// Хранилище тел без поддержки запросов всегда отвечает false.
func (e *Engine) Blocked(ctx context.Context, p vec.Vec2Float, layerMask uint32) (bool, error) {
	var blocked bool
	err := e.Do(ctx, func(s *State) error {
		if q, ok := s.Sink.(blockQuery); ok {
			blocked = q.Blocked(p, layerMask)
		}
		return nil
	})
	return blocked, err
}

// Bodies перечисляет тела коллизий загруженных чанков, если хранилище - physics.MemorySink
func (e *Engine) Bodies(ctx context.Context) ([]BodyInfo, error) {
	var out []BodyInfo
	err := e.Do(ctx, func(s *State) error {
		sink, ok := s.Sink.(*physics.MemorySink)
		if !ok {
			return nil
		}
		for _, id := range sink.Bodies() {
			b, _ := sink.Body(id)
			out = append(out, BodyInfo{
				Chunk:         id.Chunk,
				Layer:         id.Layer,
				Boxes:         len(b.Boxes),
				Polygons:      len(b.Polygons),
				CategoryMask:  b.CategoryMask,
				CollisionMask: b.CollisionMask,
			})
		}
		return nil
	})
	return out, err
}

// publish отправляет событие в шину; ошибки шины не влияют на результат команды
func (e *Engine) publish(ctx context.Context, eventType string, payload interface{}) {
	if e.opts.Bus == nil {
		return
	}
	ev, err := eventbus.NewEnvelope(e.opts.Source, eventType, payload)
	if err != nil {
		e.log.Warn("событие %s не создано: %v", eventType, err)
		return
	}
	if err := e.opts.Bus.Publish(ctx, ev); err != nil {
		e.log.Warn("событие %s не опубликовано: %v", eventType, err)
	}
}
