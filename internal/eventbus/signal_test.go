package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDeliversInOrder(t *testing.T) {
	var s Signal[int]
	var got []string
	s.Connect(func(v int) { got = append(got, "a") })
	s.Connect(func(v int) { got = append(got, "b") })

	s.Emit(1)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 2, s.Len())
}

func TestSignalDisconnectedHolderNeverFires(t *testing.T) {
	var s Signal[int]
	calls := 0
	h := s.Connect(func(int) { calls++ })
	h.Disconnect()
	s.Emit(1)
	assert.Equal(t, 0, calls)
	assert.False(t, h.Connected())
	assert.Equal(t, 0, s.Len())

	h.Disconnect()
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var second *Holder
	secondCalls := 0

	s.Connect(func(int) { second.Disconnect() })
	second = s.Connect(func(int) { secondCalls++ })

	s.Emit(1)
	assert.Equal(t, 0, secondCalls, "отключённый во время рассылки обработчик не должен вызываться")
	s.Emit(2)
	assert.Equal(t, 0, secondCalls)
	assert.Equal(t, 1, s.Len())
}

func TestSignalConnectDuringEmitWaitsForNextEmit(t *testing.T) {
	var s Signal[int]
	late := 0
	connected := false
	s.Connect(func(int) {
		if !connected {
			connected = true
			s.Connect(func(int) { late++ })
		}
	})

	s.Emit(1)
	assert.Equal(t, 0, late, "новый подписчик не входит в снимок текущей рассылки")
	s.Emit(2)
	assert.Equal(t, 1, late)
}

func TestSignalNestedEmit(t *testing.T) {
	var s Signal[int]
	var seen []int
	s.Connect(func(v int) {
		seen = append(seen, v)
		if v < 3 {
			s.Emit(v + 1)
		}
	})
	s.Emit(1)
	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestHoldersDisconnectAll(t *testing.T) {
	var s Signal[string]
	var hs Holders
	calls := 0
	hs.Add(s.Connect(func(string) { calls++ }))
	hs.Add(s.Connect(func(string) { calls++ }))
	hs.DisconnectAll()
	s.Emit("x")
	assert.Equal(t, 0, calls)
	assert.Empty(t, hs)
}
