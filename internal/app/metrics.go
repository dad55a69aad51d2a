package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks preview activity over one run.
type Metrics struct {
	// Frame timing
	frameCount   atomic.Uint64
	frameTotalNs atomic.Int64
	frameMinNs   atomic.Int64
	frameMaxNs   atomic.Int64
	lastFrameNs  atomic.Int64

	// Sections painted and skipped across all frames
	drawn   atomic.Uint64
	skipped atomic.Uint64

	// Layout reloads from the watcher
	reloads      atomic.Uint64
	reloadErrors atomic.Uint64

	// Key presses handled
	keys atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),
	}
	// Initialize min to max int64 so first frame will be smaller
	m.frameMinNs.Store(1<<63 - 1)
	return m
}

// RecordFrame records one repaint.
func (m *Metrics) RecordFrame(duration time.Duration, drawn, skipped int) {
	ns := duration.Nanoseconds()

	m.frameCount.Add(1)
	m.frameTotalNs.Add(ns)
	m.lastFrameNs.Store(ns)
	m.drawn.Add(uint64(drawn))
	m.skipped.Add(uint64(skipped))

	for {
		old := m.frameMinNs.Load()
		if ns >= old || m.frameMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.frameMaxNs.Load()
		if ns <= old || m.frameMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordReload records a layout reload; failed reports a rejected file.
func (m *Metrics) RecordReload(failed bool) {
	if failed {
		m.reloadErrors.Add(1)
		return
	}
	m.reloads.Add(1)
}

// RecordKey records a handled key press.
func (m *Metrics) RecordKey() {
	m.keys.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	frameCount := m.frameCount.Load()

	var avgFrameNs int64
	if frameCount > 0 {
		avgFrameNs = m.frameTotalNs.Load() / int64(frameCount)
	}

	minFrameNs := m.frameMinNs.Load()
	if minFrameNs == 1<<63-1 {
		minFrameNs = 0
	}

	return MetricsSnapshot{
		Uptime:         time.Since(m.startTime),
		FrameCount:     frameCount,
		AvgFrameTimeNs: avgFrameNs,
		MinFrameTimeNs: minFrameNs,
		MaxFrameTimeNs: m.frameMaxNs.Load(),
		LastFrameNs:    m.lastFrameNs.Load(),
		Drawn:          m.drawn.Load(),
		Skipped:        m.skipped.Load(),
		Reloads:        m.reloads.Load(),
		ReloadErrors:   m.reloadErrors.Load(),
		Keys:           m.keys.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime         time.Duration
	FrameCount     uint64
	AvgFrameTimeNs int64
	MinFrameTimeNs int64
	MaxFrameTimeNs int64
	LastFrameNs    int64
	Drawn          uint64
	Skipped        uint64
	Reloads        uint64
	ReloadErrors   uint64
	Keys           uint64
}

// LogArgs returns the snapshot as slog key/value pairs.
func (s MetricsSnapshot) LogArgs() []any {
	return []any{
		"uptime", s.Uptime.Round(time.Millisecond),
		"frames", s.FrameCount,
		"avg_frame", time.Duration(s.AvgFrameTimeNs),
		"max_frame", time.Duration(s.MaxFrameTimeNs),
		"drawn", s.Drawn,
		"skipped", s.Skipped,
		"reloads", s.Reloads,
		"reload_errors", s.ReloadErrors,
		"keys", s.Keys,
	}
}
