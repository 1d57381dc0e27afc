package network

import "sync/atomic"

// DecodeMetrics counts decoder activity since startup. Counters are safe to
// read from any goroutine.
type DecodeMetrics struct {
	Messages    int64
	Spawns      int64
	Despawns    int64
	Updates     int64
	Stale       int64 // FULL/DELTA records for ids that are not mapped
	Corruptions int64
}

func (m *DecodeMetrics) incMessages()    { atomic.AddInt64(&m.Messages, 1) }
func (m *DecodeMetrics) incSpawns()      { atomic.AddInt64(&m.Spawns, 1) }
func (m *DecodeMetrics) incDespawns()    { atomic.AddInt64(&m.Despawns, 1) }
func (m *DecodeMetrics) incUpdates()     { atomic.AddInt64(&m.Updates, 1) }
func (m *DecodeMetrics) incStale()       { atomic.AddInt64(&m.Stale, 1) }
func (m *DecodeMetrics) incCorruptions() { atomic.AddInt64(&m.Corruptions, 1) }

// StaleRatio is the share of FULL/DELTA entity records that referenced an
// unmapped id, and the number of records it was computed over.
func (m *DecodeMetrics) StaleRatio() (float64, int64) {
	stale := atomic.LoadInt64(&m.Stale)
	total := stale + atomic.LoadInt64(&m.Updates)
	if total == 0 {
		return 0, 0
	}
	return float64(stale) / float64(total), total
}

// Snapshot returns a read-only copy suitable for logging.
func (m *DecodeMetrics) Snapshot() map[string]any {
	ratio, _ := m.StaleRatio()
	return map[string]any{
		"messages":    atomic.LoadInt64(&m.Messages),
		"spawns":      atomic.LoadInt64(&m.Spawns),
		"despawns":    atomic.LoadInt64(&m.Despawns),
		"updates":     atomic.LoadInt64(&m.Updates),
		"stale":       atomic.LoadInt64(&m.Stale),
		"corruptions": atomic.LoadInt64(&m.Corruptions),
		"stale_ratio": ratio,
	}
}
