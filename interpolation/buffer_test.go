package interpolation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Unix(1_700_000_000, 0)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func TestPushEvictsOldest(t *testing.T) {
	b := NewSnapshotBuffer[int](30, 100*time.Millisecond)
	for i := 0; i < 40; i++ {
		b.Push(at(i*10), i)
	}

	require.Equal(t, 30, b.Len())
	samples := b.Samples()
	assert.Equal(t, 10, samples[0].State)
	assert.Equal(t, 39, samples[len(samples)-1].State)

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, 39, latest.State)
}

func TestInterpolationSnapshotsNeedsTwoSamples(t *testing.T) {
	b := NewSnapshotBuffer[int](30, 100*time.Millisecond)
	_, _, _, ok := b.InterpolationSnapshots(at(200))
	assert.False(t, ok)

	b.Push(at(0), 1)
	_, _, _, ok = b.InterpolationSnapshots(at(100))
	assert.False(t, ok)
}

func TestInterpolationSnapshotsBrackets(t *testing.T) {
	b := NewSnapshotBuffer[int](30, 100*time.Millisecond)
	b.Push(at(0), 0)
	b.Push(at(50), 1)
	b.Push(at(100), 2)

	prev, next, tt, ok := b.InterpolationSnapshots(at(175))
	require.True(t, ok)
	assert.Equal(t, 1, prev.State)
	assert.Equal(t, 2, next.State)
	assert.InDelta(t, 0.5, tt, 1e-9)

	prev, next, tt, ok = b.InterpolationSnapshots(at(150))
	require.True(t, ok)
	assert.Equal(t, 1, prev.State)
	assert.Equal(t, 2, next.State)
	assert.InDelta(t, 0.0, tt, 1e-9)
}

func TestInterpolationSnapshotsOutsideRange(t *testing.T) {
	b := NewSnapshotBuffer[int](30, 100*time.Millisecond)
	b.Push(at(0), 0)
	b.Push(at(50), 1)

	_, _, _, ok := b.InterpolationSnapshots(at(50)) // render time -50ms
	assert.False(t, ok)
	_, _, _, ok = b.InterpolationSnapshots(at(400))
	assert.False(t, ok)
}

func TestOutOfOrderPushDoesNotPanic(t *testing.T) {
	b := NewSnapshotBuffer[int](4, 0)
	b.Push(at(100), 0)
	b.Push(at(50), 1)
	b.Push(at(200), 2)

	require.NotPanics(t, func() {
		_, _, tt, ok := b.InterpolationSnapshots(at(150))
		if ok {
			assert.GreaterOrEqual(t, tt, 0.0)
			assert.LessOrEqual(t, tt, 1.0)
		}
	})
}

func TestClear(t *testing.T) {
	b := NewSnapshotBuffer[int](4, 0)
	b.Push(at(0), 1)
	b.Push(at(10), 2)
	b.Clear()

	assert.Equal(t, 0, b.Len())
	_, ok := b.Latest()
	assert.False(t, ok)
}
