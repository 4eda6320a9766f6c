package server

import "sync/atomic"

// Metrics tracks server runtime counters for monitoring and debugging
type Metrics struct {
	TickCount      int64
	TotalTickNs    int64
	SnapshotsSent  int64
	SendFailures   int64
	SessionsOpened int64
	SessionsClosed int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

func (m *Metrics) IncSnapshotSent() { atomic.AddInt64(&m.SnapshotsSent, 1) }
func (m *Metrics) IncSendFailure()  { atomic.AddInt64(&m.SendFailures, 1) }

func (m *Metrics) IncSessionOpened() { atomic.AddInt64(&m.SessionsOpened, 1) }
func (m *Metrics) IncSessionClosed() { atomic.AddInt64(&m.SessionsClosed, 1) }

// Snapshot returns a read-only copy for the metrics endpoint
func (m *Metrics) Snapshot() map[string]any {
	ticks := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(total) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"avg_tick_ms":     avgMs,
		"snapshots_sent":  atomic.LoadInt64(&m.SnapshotsSent),
		"send_failures":   atomic.LoadInt64(&m.SendFailures),
		"sessions_opened": atomic.LoadInt64(&m.SessionsOpened),
		"sessions_closed": atomic.LoadInt64(&m.SessionsClosed),
	}
}
