package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/annel0/tileworld/internal/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv("TILEWORLD_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := Parse([]byte(`
world:
  chunks_x: 4
  seed: 99
logging:
  level: debug
collision:
  layers: [solid]
  contacts:
    - {a: solid, b: solid, type: trigger}
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.World.ChunksX)
	assert.Equal(t, 16, cfg.World.ChunksY)
	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, []string{"solid"}, cfg.Collision.Layers)

	gen := cfg.WorldGenerator()
	assert.Equal(t, int64(99), gen.Seed)
	assert.Equal(t, cfg.Generator.WaterLevel, gen.WaterMax)
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tileworld.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world: {view_size: 20}\n"), 0o644))
	t.Setenv("TILEWORLD_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.World.ViewSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	_, err := Parse([]byte("world: {chunks_x: 0, tick_rate: -1}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0x16")
	assert.Contains(t, err.Error(), "tick_rate")
}

func TestPortFallback(t *testing.T) {
	s := ServerConfig{RESTPort: 9000}
	t.Setenv("TILEWORLD_REST_PORT", "9100")
	assert.Equal(t, 9000, s.GetRESTPort())

	s.RESTPort = 0
	assert.Equal(t, 9100, s.GetRESTPort())

	t.Setenv("TILEWORLD_REST_PORT", "abc")
	assert.Equal(t, 8088, s.GetRESTPort())

	t.Setenv("TILEWORLD_METRICS_PORT", "")
	assert.Equal(t, 0, s.GetMetricsPort())
}

func TestCollisionBuild(t *testing.T) {
	def, err := Default().Collision.Build()
	require.NoError(t, err)

	solid, ok := def.LayerIndex("solid")
	require.True(t, ok)
	water, ok := def.LayerIndex("water")
	require.True(t, ok)
	assert.Equal(t, physics.ContactCollision, def.Contact(solid, solid))
	assert.Equal(t, physics.ContactCollision, def.Contact(solid, water))
	assert.Equal(t, physics.ContactNone, def.Contact(water, water))

	_, err = CollisionConfig{Layers: []string{"a"}, Contacts: []ContactConfig{{A: "a", B: "b"}}}.Build()
	assert.Error(t, err)
	_, err = CollisionConfig{Layers: []string{"a"}, Contacts: []ContactConfig{{A: "a", B: "a", Type: "bounce"}}}.Build()
	assert.Error(t, err)
	_, err = CollisionConfig{Layers: []string{"a", "a"}}.Build()
	assert.Error(t, err)
}
