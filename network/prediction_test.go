package network

import (
	"testing"

	"github.com/automoto/lawnmower-mp/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionBufferStoreAndGet(t *testing.T) {
	var pb PredictionBuffer
	_, ok := pb.Get(0)
	assert.False(t, ok, "empty slots are not records")

	pb.Store(messages.InputMsg{DX: 1, Seq: 1}, 3, 0, t0)
	pb.Store(messages.InputMsg{DX: 1, Seq: 2}, 6, 0, t0)

	rec, ok := pb.Get(2)
	require.True(t, ok)
	assert.Equal(t, 6.0, rec.PredictedX)
	assert.Equal(t, uint32(3), pb.NextSeq())

	latest, ok := pb.Latest()
	require.True(t, ok)
	assert.Equal(t, uint32(2), latest.Input.Seq)

	assert.Len(t, pb.Since(0), 2)
	assert.Len(t, pb.Since(1), 1)
	assert.InDelta(t, 5.0, pb.PredictionError(2, 6, 5), 1e-9)
}

func TestPredictionBufferOverwrite(t *testing.T) {
	var pb PredictionBuffer
	for seq := uint32(1); seq <= inputHistorySize+5; seq++ {
		pb.Store(messages.InputMsg{Seq: seq}, float64(seq), 0, t0)
	}

	_, ok := pb.Get(3)
	assert.False(t, ok, "slot reused by a later sequence")
	_, ok = pb.Get(inputHistorySize + 5)
	assert.True(t, ok)
	assert.Zero(t, pb.PredictionError(3, 0, 0))

	pb.Clear()
	_, ok = pb.Latest()
	assert.False(t, ok)
	assert.Equal(t, uint32(inputHistorySize+6), pb.NextSeq())
}
