package tilemap

import (
	"testing"

	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFiresEventEvenForSameValue(t *testing.T) {
	m := New(4, 3)
	var events []Modified
	m.OnModified(func(ev Modified) { events = append(events, ev) })

	m.Set(1, 2, tile.New(5))
	m.Set(1, 2, tile.New(5))

	require.Len(t, events, 2, "запись того же значения тоже должна уведомлять")
	assert.Equal(t, Modified{X: 1, Y: 2}, events[0])
	assert.False(t, m.IsWhole(events[0]))
	assert.Equal(t, tile.New(5), m.Get(1, 2))
}

func TestTileSizeChangeSignalsWholeMap(t *testing.T) {
	m := New(4, 3)
	var events []Modified
	m.OnModified(func(ev Modified) { events = append(events, ev) })

	m.SetTileSize(32)
	m.SetTileDelta(1)

	require.Len(t, events, 2)
	for _, ev := range events {
		assert.True(t, m.IsWhole(ev), "ожидалось уведомление о всей карте, получено %+v", ev)
	}
	assert.Equal(t, 32, m.TileSize())
	assert.Equal(t, 1, m.TileDelta())
}

func TestFill(t *testing.T) {
	m := New(3, 3)
	calls := 0
	m.OnModified(func(ev Modified) {
		calls++
		assert.True(t, m.IsWhole(ev))
	})
	m.Fill(tile.New(2))
	assert.Equal(t, 1, calls)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, uint32(2), m.Get(x, y).ID)
		}
	}
}

func TestCopyRect(t *testing.T) {
	m := New(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			m.Set(x, y, tile.New(uint32(y*4+x)))
		}
	}
	dst := make([][]tile.Tile, 3)
	for i := range dst {
		dst[i] = make([]tile.Tile, 3)
	}
	m.CopyRect(2, 1, 2, 2, dst, 1, 0)

	assert.Equal(t, uint32(6), dst[0][1].ID)
	assert.Equal(t, uint32(7), dst[0][2].ID)
	assert.Equal(t, uint32(10), dst[1][1].ID)
	assert.Equal(t, uint32(11), dst[1][2].ID)
	assert.Equal(t, uint32(0), dst[2][0].ID)
}

func TestOutOfRangeReadReturnsEmpty(t *testing.T) {
	if !assertionsAreSoft() {
		t.Skip("в отладочной сборке выход за границы паникует")
	}
	m := New(2, 2)
	assert.Equal(t, tile.Tile{}, m.Get(5, 0))
}

func TestDisconnectedHolderStopsEvents(t *testing.T) {
	m := New(2, 2)
	calls := 0
	h := m.OnModified(func(Modified) { calls++ })
	m.Set(0, 0, tile.New(1))
	h.Disconnect()
	m.Set(0, 0, tile.New(2))
	assert.Equal(t, 1, calls)
}
