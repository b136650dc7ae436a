package physics

import (
	"sort"
	"sync"

	"github.com/annel0/tileworld/internal/vec"
)

// BodyID идентифицирует составное тело чанка на одном слое коллизий
type BodyID struct {
	Chunk vec.Vec2 // Мировые координаты чанка
	Layer uint16
}

// ChunkBody - составное тело: объединённые прямоугольники и многоугольники частичных форм.
// Координаты локальны для чанка, в тайлах.
type ChunkBody struct {
	CategoryMask  uint32
	CollisionMask uint32
	Boxes         []Box
	Polygons      []Polygon
}

// Sink принимает тела чанков; физический движок находится за этим интерфейсом
type Sink interface {
	SetBody(id BodyID, body ChunkBody)
	RemoveBody(id BodyID)
}

// MemorySink хранит тела в памяти и отвечает на запросы о твёрдости точки
type MemorySink struct {
	mu        sync.RWMutex
	bodies    map[BodyID]ChunkBody
	chunkSize int
}

// NewMemorySink создаёт хранилище; chunkSize переводит мировые координаты в локальные
func NewMemorySink(chunkSize int) *MemorySink {
	return &MemorySink{bodies: make(map[BodyID]ChunkBody), chunkSize: chunkSize}
}

// SetBody заменяет тело
func (s *MemorySink) SetBody(id BodyID, body ChunkBody) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[id] = body
}

// RemoveBody удаляет тело
func (s *MemorySink) RemoveBody(id BodyID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bodies, id)
}

// Body возвращает тело
func (s *MemorySink) Body(id BodyID) (ChunkBody, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bodies[id]
	return b, ok
}

// Bodies возвращает идентификаторы тел в стабильном порядке
func (s *MemorySink) Bodies() []BodyID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]BodyID, 0, len(s.bodies))
	for id := range s.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if a.Chunk.Y != b.Chunk.Y {
			return a.Chunk.Y < b.Chunk.Y
		}
		if a.Chunk.X != b.Chunk.X {
			return a.Chunk.X < b.Chunk.X
		}
		return a.Layer < b.Layer
	})
	return ids
}

// Blocked проверяет, попадает ли мировая точка в тело чанка на одном из слоёв маски
func (s *MemorySink) Blocked(p vec.Vec2Float, layerMask uint32) bool {
	cell := p.Floor()
	chunk := cell.FloorDiv(s.chunkSize)
	local := p.Sub(vec.FromVec2(chunk.Scale(s.chunkSize)))

	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, body := range s.bodies {
		if id.Chunk != chunk || layerMask&(1<<uint(id.Layer)) == 0 {
			continue
		}
		for _, b := range body.Boxes {
			if b.Contains(local) {
				return true
			}
		}
		for _, poly := range body.Polygons {
			if poly.Contains(local) {
				return true
			}
		}
	}
	return false
}
