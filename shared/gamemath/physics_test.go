package gamemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, WrapAngle(c.in), 1e-9, "WrapAngle(%v)", c.in)
	}
}

func TestLerpAngleTakesShortPath(t *testing.T) {
	mid := LerpAngle(3.0, -3.0, 0.5)
	// 3.0 -> -3.0 through π: halfway is π (or -π), never 0.
	assert.InDelta(t, math.Pi, math.Abs(mid), 1e-9)

	assert.Equal(t, 3.0, LerpAngle(3.0, -3.0, 0))
	assert.Equal(t, -3.0, LerpAngle(3.0, -3.0, 1))
}

func TestNormalize(t *testing.T) {
	x, y, l := Normalize(3, 4)
	assert.InDelta(t, 0.6, x, 1e-12)
	assert.InDelta(t, 0.8, y, 1e-12)
	assert.Equal(t, 5.0, l)

	x, y, l = Normalize(0, 0)
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, l)
}

func TestTurnToward(t *testing.T) {
	got := TurnToward(0, math.Pi/2, 8, 0.1, 0.001)
	assert.InDelta(t, math.Pi/2*0.8, got, 1e-12)

	assert.Equal(t, 1.0, TurnToward(1.0, 1.0005, 8, 0.1, 0.001))
}
