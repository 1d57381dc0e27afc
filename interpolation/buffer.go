// Package interpolation buffers timestamped remote state and blends between
// samples so that rendering lags real time by a fixed delay instead of
// jittering with packet arrival.
package interpolation

import "time"

// Snapshot is one timestamped state sample.
type Snapshot[T any] struct {
	Timestamp time.Time
	State     T
}

// SnapshotBuffer is a fixed-capacity ring of samples in arrival order.
type SnapshotBuffer[T any] struct {
	ring  []Snapshot[T]
	head  int // index of the oldest sample
	size  int
	delay time.Duration
}

func NewSnapshotBuffer[T any](capacity int, delay time.Duration) *SnapshotBuffer[T] {
	if capacity < 2 {
		capacity = 2
	}
	return &SnapshotBuffer[T]{
		ring:  make([]Snapshot[T], capacity),
		delay: delay,
	}
}

func (b *SnapshotBuffer[T]) Len() int             { return b.size }
func (b *SnapshotBuffer[T]) Capacity() int        { return len(b.ring) }
func (b *SnapshotBuffer[T]) Delay() time.Duration { return b.delay }

// Push appends a sample, evicting the oldest one when full. Samples older
// than the newest are kept; they only lower interpolation quality around
// their timestamp.
func (b *SnapshotBuffer[T]) Push(ts time.Time, state T) {
	if b.size < len(b.ring) {
		b.ring[(b.head+b.size)%len(b.ring)] = Snapshot[T]{Timestamp: ts, State: state}
		b.size++
		return
	}
	b.ring[b.head] = Snapshot[T]{Timestamp: ts, State: state}
	b.head = (b.head + 1) % len(b.ring)
}

func (b *SnapshotBuffer[T]) at(i int) Snapshot[T] {
	return b.ring[(b.head+i)%len(b.ring)]
}

// Latest returns the most recently pushed sample.
func (b *SnapshotBuffer[T]) Latest() (Snapshot[T], bool) {
	if b.size == 0 {
		return Snapshot[T]{}, false
	}
	return b.at(b.size - 1), true
}

// Samples returns a copy of the buffered samples, oldest first.
func (b *SnapshotBuffer[T]) Samples() []Snapshot[T] {
	out := make([]Snapshot[T], b.size)
	for i := range out {
		out[i] = b.at(i)
	}
	return out
}

func (b *SnapshotBuffer[T]) Clear() {
	clear(b.ring)
	b.head = 0
	b.size = 0
}

// InterpolationSnapshots finds the two consecutive samples bracketing
// now minus the buffer delay and the normalized position t in [0, 1]
// between them. ok is false with fewer than two samples or when the render
// time falls outside the buffered range.
func (b *SnapshotBuffer[T]) InterpolationSnapshots(now time.Time) (prev, next Snapshot[T], t float64, ok bool) {
	if b.size < 2 {
		return prev, next, 0, false
	}
	renderTime := now.Add(-b.delay)

	// Newest pair first so a late sample only shadows its own interval.
	for i := b.size - 2; i >= 0; i-- {
		a, c := b.at(i), b.at(i+1)
		if renderTime.Before(a.Timestamp) || renderTime.After(c.Timestamp) {
			continue
		}
		span := c.Timestamp.Sub(a.Timestamp)
		if span <= 0 {
			return a, c, 0, true
		}
		t = float64(renderTime.Sub(a.Timestamp)) / float64(span)
		return a, c, min(1, max(0, t)), true
	}
	return prev, next, 0, false
}
