package resource

import (
	"testing"

	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tiledef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry[int]()
	r.Set("b", 2)
	r.Set("a", 1)
	r.Set("b", 3)

	v, ok := r.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())

	assert.True(t, r.Remove("a"))
	assert.False(t, r.Remove("a"))
	_, ok = r.Get("a")
	assert.False(t, ok)
}

func TestContextLookups(t *testing.T) {
	ctx := NewContext()
	ctx.Definitions.Set(DefaultName, tiledef.New())
	ctx.Collisions.Set(DefaultName, physics.NewCollisionDefinition())
	ctx.Worlds.Set(DefaultName, world.NewWorldMap(1, 1))

	def, err := ctx.Definition(DefaultName)
	require.NoError(t, err)
	assert.NotNil(t, def)

	_, err = ctx.Collision(DefaultName)
	require.NoError(t, err)

	_, err = ctx.World("other")
	assert.ErrorIs(t, err, ErrNotFound)

	ctx.Close()
	_, err = ctx.Definition(DefaultName)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, ctx.Worlds.Len())
}
