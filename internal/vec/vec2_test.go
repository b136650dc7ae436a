package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{0, 32, 0},
		{31, 32, 0},
		{32, 32, 1},
		{-1, 32, -1},
		{-32, 32, -1},
		{-33, 32, -2},
		{-64, 32, -2},
		{5, -2, -3},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FloorDiv(c.a, c.b), "FloorDiv(%d, %d)", c.a, c.b)
	}
}

func TestMod(t *testing.T) {
	assert.Equal(t, 0, Mod(0, 32))
	assert.Equal(t, 31, Mod(-1, 32))
	assert.Equal(t, 0, Mod(-32, 32))
	assert.Equal(t, 1, Mod(33, 32))
	assert.Equal(t, Vec2{X: 1, Y: 2}, Vec2{X: -3, Y: 6}.Wrap(2, 4))
}

func TestFloorDivAndModRecompose(t *testing.T) {
	for a := -100; a <= 100; a++ {
		q := FloorDiv(a, 7)
		r := Mod(a, 7)
		assert.Equal(t, a, q*7+r, "разложение должно восстанавливать исходное значение")
		assert.True(t, r >= 0 && r < 7)
	}
}

func TestVec2FloatFloor(t *testing.T) {
	assert.Equal(t, Vec2{X: -1, Y: 0}, Vec2Float{X: -0.5, Y: 0.99}.Floor())
	assert.Equal(t, Vec2{X: 3, Y: -4}, Vec2Float{X: 3.0, Y: -3.01}.Floor())
}
