package systems

import (
	"testing"
	"time"

	"github.com/automoto/lawnmower-mp/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

func TestClockAdvance(t *testing.T) {
	var c Clock
	c.Advance(t0)
	assert.Zero(t, c.DT)

	c.Advance(t0.Add(20 * time.Millisecond))
	assert.InDelta(t, 0.02, c.DT, 1e-9)

	c.Advance(t0.Add(5 * time.Second))
	assert.InDelta(t, maxStep.Seconds(), c.DT, 1e-9)
}

func TestCameraFocus(t *testing.T) {
	world := donburi.NewWorld()
	_, _, ok := CameraFocus(world)
	assert.False(t, ok)

	entry := world.Entry(world.Create(components.Transform, components.CameraTarget))
	components.Transform.SetValue(entry, components.TransformData{X: 10, Y: 10})
	components.CameraTarget.SetValue(entry, components.CameraTargetData{LookAhead: 100})

	x, y, ok := CameraFocus(world)
	require.True(t, ok)
	assert.InDelta(t, 110, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}
