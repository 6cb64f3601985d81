package link

import (
	"sync/atomic"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/puzpuzpuz/xsync/v3"
)

// Metrics contains atomic transaction counters. An engine creates its own
// unless one is shared through WithMetrics; NewCollector exports them to
// prometheus.
type Metrics struct {
	// TransactionCount is the number of transactions started.
	TransactionCount atomic.Uint64
	// SuccessCount is the number of transactions that returned a reply.
	SuccessCount atomic.Uint64
	// TimeoutCount is the number of transactions that ended with ErrTimeout.
	TimeoutCount atomic.Uint64
	// FrameErrCount is the number of undecodable replies.
	FrameErrCount atomic.Uint64
	// IOErrCount is the number of port failures.
	IOErrCount atomic.Uint64

	codeCounts *xsync.MapOf[mblp.Code, *atomic.Uint64]
}

// NewMetrics creates a zeroed set of counters.
func NewMetrics() *Metrics {
	return &Metrics{codeCounts: xsync.NewMapOf[mblp.Code, *atomic.Uint64]()}
}

// CodeCount returns the number of transactions started with the given code.
func (m *Metrics) CodeCount(code mblp.Code) uint64 {
	if c, ok := m.codeCounts.Load(code); ok {
		return c.Load()
	}

	return 0
}

// CodeCounts returns a snapshot of the per-code transaction counters, keyed by
// the code name.
func (m *Metrics) CodeCounts() map[string]uint64 {
	out := make(map[string]uint64, m.codeCounts.Size())
	m.codeCounts.Range(func(code mblp.Code, c *atomic.Uint64) bool {
		out[code.String()] = c.Load()
		return true
	})

	return out
}

func (m *Metrics) incTransaction(code mblp.Code) {
	m.TransactionCount.Add(1)

	c, _ := m.codeCounts.LoadOrCompute(code, func() *atomic.Uint64 {
		return new(atomic.Uint64)
	})
	c.Add(1)
}

func (m *Metrics) incSuccess() {
	m.SuccessCount.Add(1)
}

func (m *Metrics) incTimeout() {
	m.TimeoutCount.Add(1)
}

func (m *Metrics) incFrameErr() {
	m.FrameErrCount.Add(1)
}

func (m *Metrics) incIOErr() {
	m.IOErrCount.Add(1)
}
