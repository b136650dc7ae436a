package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/resource"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/annel0/tileworld/internal/world/tiledef"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grass uint32 = 1

func testResources(t *testing.T) *resource.Context {
	t.Helper()
	def := tiledef.New()
	tex := def.AddTexture(tiledef.Texture{Name: "grass", Width: 263, Height: 263})
	for c := tiledef.ConnexionType(0); c < tiledef.ConnexionCount; c++ {
		def.AddTile(grass, c, tiledef.Variant{TextureID: tex, TileID: int(c) + 1, Weight: 1})
	}
	def.AddAllowedLayers(grass, 0, 16)

	collisions := physics.NewCollisionDefinition()
	solid, err := collisions.AddLayer("solid")
	require.NoError(t, err)
	require.NoError(t, collisions.SetContact(solid, solid, physics.ContactCollision))

	res := resource.NewContext()
	res.Definitions.Set(resource.DefaultName, def)
	res.Collisions.Set(resource.DefaultName, collisions)
	res.Worlds.Set(resource.DefaultName, world.NewWorldMap(4, 4))
	return res
}

// startEngine запускает движок с окном 16 тайлов и фокусом в (48, 48):
// в окне чанки (1..2, 1..2)
func startEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	opts.ViewSize = 16
	opts.Start = vec.Vec2Float{X: 48, Y: 48}
	opts.TickRate = 100
	eng, err := New(testResources(t), opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return eng
}

func ctxTimeout(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewStreamsInitialView(t *testing.T) {
	eng := startEngine(t, Options{})

	streamed, err := eng.Streamed(ctxTimeout(t))
	require.NoError(t, err)
	assert.Equal(t, []vec.Vec2{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}, streamed)
}

func TestNewMissingResource(t *testing.T) {
	res := testResources(t)
	res.Worlds.Remove(resource.DefaultName)

	_, err := New(res, Options{})
	assert.ErrorIs(t, err, ErrMissingResource)

	_, err = New(nil, Options{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSetTileWrapsAroundWorld(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	require.NoError(t, eng.SetTile(ctx, 5, -3, world.LayerGround, tile.New(grass)))

	got, err := eng.Tile(ctx, 5, 125, world.LayerGround)
	require.NoError(t, err)
	assert.Equal(t, grass, got.ID)

	tiles, err := eng.Tiles(ctx, 4, -4, 3, 2, world.LayerGround)
	require.NoError(t, err)
	require.Len(t, tiles, 2)
	assert.Equal(t, []uint32{0, 0, 0}, ids(tiles[0]))
	assert.Equal(t, []uint32{0, grass, 0}, ids(tiles[1]))
}

func ids(row []tile.Tile) []uint32 {
	out := make([]uint32, len(row))
	for i, t := range row {
		out[i] = t.ID
	}
	return out
}

func TestSetTilePublishesEvent(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	defer bus.Close()
	eng := startEngine(t, Options{Bus: bus})
	ctx := ctxTimeout(t)

	got := make(chan TileChanged, 1)
	_, err := bus.Subscribe(ctx, eventbus.Filter{Types: []string{EventTileChanged}}, func(_ context.Context, ev *eventbus.Envelope) {
		var p TileChanged
		if ev.Decode(&p) == nil {
			got <- p
		}
	})
	require.NoError(t, err)

	full := tile.Tile{ID: grass, Collider: tile.Collider{Type: tile.ColliderFull}}
	require.NoError(t, eng.SetTile(ctx, 40, 41, world.LayerBase, full))

	select {
	case p := <-got:
		assert.Equal(t, TileChanged{X: 40, Y: 41, Layer: world.LayerBase, ID: grass, Collider: full.Collider.ToInt()}, p)
	case <-ctx.Done():
		t.Fatal("событие TileChanged не доставлено")
	}
}

func TestMoveFocusRestreams(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	streamed, err := eng.MoveFocus(ctx, vec.Vec2Float{X: 16.7, Y: 16.2})
	require.NoError(t, err)
	assert.Equal(t, []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, streamed)

	focus, err := eng.Focus(ctx)
	require.NoError(t, err)
	assert.Equal(t, vec.Vec2Float{X: 16.7, Y: 16.2}, focus)
}

func TestChunkLayers(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	require.NoError(t, eng.SetTile(ctx, 40, 40, 3, tile.New(grass)))

	layers, err := eng.ChunkLayers(ctx, vec.Vec2{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, []LayerInfo{
		{Index: 0, Height: 0},
		{Index: 1, Height: 0.5},
		{Index: 2, Height: 1},
		{Index: 3, Height: 2, LiveTiles: 1},
	}, layers)

	require.NoError(t, eng.SetTile(ctx, 40, 40, 3, tile.Tile{}))
	layers, err = eng.ChunkLayers(ctx, vec.Vec2{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Len(t, layers, world.StaticLayers)
}

func TestBlockedByCollisionBody(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	full := tile.Tile{ID: grass, Collider: tile.Collider{Type: tile.ColliderFull}}
	require.NoError(t, eng.SetTile(ctx, 40, 40, world.LayerBase, full))

	blocked, err := eng.Blocked(ctx, vec.Vec2Float{X: 40.5, Y: 40.5}, 1)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = eng.Blocked(ctx, vec.Vec2Float{X: 41.5, Y: 40.5}, 1)
	require.NoError(t, err)
	assert.False(t, blocked)

	bodies, err := eng.Bodies(ctx)
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	assert.Equal(t, vec.Vec2{X: 1, Y: 1}, bodies[0].Chunk)
	assert.Equal(t, 1, bodies[0].Boxes)
	assert.Equal(t, uint32(1), bodies[0].CollisionMask)
}

func TestInvalidArguments(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	assert.ErrorIs(t, eng.SetTile(ctx, 0, 0, -1, tile.New(grass)), ErrInvalidArgument)
	assert.ErrorIs(t, eng.SetTile(ctx, 0, 0, MaxLayer+1, tile.New(grass)), ErrInvalidArgument)

	_, err := eng.Tiles(ctx, 0, 0, 0, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = eng.Tiles(ctx, 0, 0, 1024, 1024, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDoRecoversPanic(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	err := eng.Do(ctx, func(*State) error { panic("сбой") })
	assert.Error(t, err)

	sentinel := errors.New("ошибка команды")
	assert.ErrorIs(t, eng.Do(ctx, func(*State) error { return sentinel }), sentinel)

	_, err = eng.Streamed(ctx)
	assert.NoError(t, err)
}

func TestStopRejectsCommands(t *testing.T) {
	eng, err := New(testResources(t), Options{ViewSize: 16})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- eng.Run(context.Background()) }()

	ctx := ctxTimeout(t)
	_, err = eng.Streamed(ctx)
	require.NoError(t, err)

	eng.Stop()
	eng.Stop()
	require.NoError(t, <-done)
	assert.True(t, eng.Stopped())

	assert.ErrorIs(t, eng.SetTile(ctx, 0, 0, 0, tile.New(grass)), ErrStopped)
	assert.ErrorIs(t, eng.Run(ctx), ErrStopped)
}

func TestSceneTicks(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := ctxTimeout(t)

	// Фокус сдвигается напрямую, без MoveFocus: окно обновит тик сцены
	require.NoError(t, eng.Do(ctx, func(s *State) error {
		s.Focus.Position = vec.Vec2Float{X: 16, Y: 16}
		return nil
	}))

	require.Eventually(t, func() bool {
		streamed, err := eng.Streamed(ctx)
		return err == nil && len(streamed) == 4 && streamed[0] == vec.Vec2{X: 0, Y: 0}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTilesRejectsOverflowingRectangles(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := context.Background()

	for _, r := range []struct{ w, h int }{
		{1 << 62, 4},
		{4, 1 << 62},
		{math.MaxInt, math.MaxInt},
		{MaxTilesArea + 1, 1},
		{257, 256},
	} {
		_, err := eng.Tiles(ctx, 0, 0, r.w, r.h, 0)
		assert.ErrorIs(t, err, ErrInvalidArgument, "%dx%d", r.w, r.h)
	}

	got, err := eng.Tiles(ctx, 0, 0, 256, 256, 0)
	require.NoError(t, err)
	assert.Len(t, got, 256)
}

func TestTilesNearIntLimitsMatchTileReads(t *testing.T) {
	eng := startEngine(t, Options{})
	ctx := context.Background()
	require.NoError(t, eng.SetTile(ctx, 1, 0, 0, tile.New(grass)))

	x := math.MaxInt - 2
	got, err := eng.Tiles(ctx, x, 0, 6, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	for i := 0; i < 6; i++ {
		want, err := eng.Tile(ctx, x+i, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, want, got[0][i], "клетка %d", i)
	}
	assert.Equal(t, tile.New(grass), got[0][4], "MaxInt+3 заворачивается в x=1")
}
