// Package resource содержит явный контекст ресурсов: определения тайлов,
// определения коллизий и карты мира, доступные по имени.
package resource

import (
	"fmt"

	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tiledef"
)

// DefaultName - имя ресурса, который используется, когда имя не указано
const DefaultName = "default"

// Context хранит ресурсы процесса. Передаётся явно вместо глобальных синглтонов.
type Context struct {
	Definitions *Registry[*tiledef.Definition]
	Collisions  *Registry[*physics.CollisionDefinition]
	Worlds      *Registry[*world.WorldMap]
}

// NewContext создаёт пустой контекст
func NewContext() *Context {
	return &Context{
		Definitions: NewRegistry[*tiledef.Definition](),
		Collisions:  NewRegistry[*physics.CollisionDefinition](),
		Worlds:      NewRegistry[*world.WorldMap](),
	}
}

// Definition возвращает определение тайлов по имени
func (c *Context) Definition(name string) (*tiledef.Definition, error) {
	def, ok := c.Definitions.Get(name)
	if !ok || def == nil {
		return nil, fmt.Errorf("определение тайлов %q: %w", name, ErrNotFound)
	}
	return def, nil
}

// Collision возвращает определение коллизий по имени
func (c *Context) Collision(name string) (*physics.CollisionDefinition, error) {
	def, ok := c.Collisions.Get(name)
	if !ok || def == nil {
		return nil, fmt.Errorf("определение коллизий %q: %w", name, ErrNotFound)
	}
	return def, nil
}

// World возвращает карту мира по имени
func (c *Context) World(name string) (*world.WorldMap, error) {
	wm, ok := c.Worlds.Get(name)
	if !ok || wm == nil {
		return nil, fmt.Errorf("карта мира %q: %w", name, ErrNotFound)
	}
	return wm, nil
}

// Close освобождает все ресурсы
func (c *Context) Close() {
	c.Definitions.clear()
	c.Collisions.clear()
	c.Worlds.clear()
}
