package network

import (
	"math"
	"time"

	"github.com/automoto/lawnmower-mp/shared/messages"
)

const inputHistorySize = 64

// InputRecord stores a sent input alongside the local position predicted
// right after it was applied.
type InputRecord struct {
	Input      messages.InputMsg
	PredictedX float64
	PredictedY float64
	SentAt     time.Time
	valid      bool
}

// PredictionBuffer is a ring of recently sent inputs keyed by sequence
// number. It is diagnostic only; reconciliation never replays it.
type PredictionBuffer struct {
	history [inputHistorySize]InputRecord
	nextSeq uint32
}

// Store saves an input and the resulting predicted position.
func (pb *PredictionBuffer) Store(input messages.InputMsg, predX, predY float64, sentAt time.Time) {
	pb.history[input.Seq%inputHistorySize] = InputRecord{
		Input:      input,
		PredictedX: predX,
		PredictedY: predY,
		SentAt:     sentAt,
		valid:      true,
	}
	pb.nextSeq = input.Seq + 1
}

// Get retrieves a stored record by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (pb *PredictionBuffer) Get(seq uint32) (InputRecord, bool) {
	record := pb.history[seq%inputHistorySize]
	if !record.valid || record.Input.Seq != seq {
		return InputRecord{}, false
	}
	return record, true
}

// NextSeq returns the sequence number the next input will carry.
func (pb *PredictionBuffer) NextSeq() uint32 {
	return pb.nextSeq
}

// Latest returns the most recently stored record.
func (pb *PredictionBuffer) Latest() (InputRecord, bool) {
	if pb.nextSeq == 0 {
		return InputRecord{}, false
	}
	return pb.Get(pb.nextSeq - 1)
}

// Since returns the stored inputs with sequence numbers in (after, NextSeq).
func (pb *PredictionBuffer) Since(after uint32) []InputRecord {
	var results []InputRecord
	for seq := after + 1; seq < pb.nextSeq; seq++ {
		if record, ok := pb.Get(seq); ok {
			results = append(results, record)
		}
	}
	return results
}

// PredictionError is the distance between the position predicted after seq
// and an authoritative position. Zero when seq is no longer stored.
func (pb *PredictionBuffer) PredictionError(seq uint32, authX, authY float64) float64 {
	record, ok := pb.Get(seq)
	if !ok {
		return 0
	}
	return math.Hypot(record.PredictedX-authX, record.PredictedY-authY)
}

// Clear drops every record but keeps the sequence counter.
func (pb *PredictionBuffer) Clear() {
	clear(pb.history[:])
}
