package link

import (
	"sync/atomic"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports Metrics to prometheus.
type Collector struct {
	metrics *Metrics

	transactions *prometheus.Desc
	successes    *prometheus.Desc
	timeouts     *prometheus.Desc
	frameErrors  *prometheus.Desc
	ioErrors     *prometheus.Desc
	perCode      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector reading m. constLabels are attached to
// every exported series.
func NewCollector(m *Metrics, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("mblp", "", name), help, labels, constLabels)
	}

	return &Collector{
		metrics:      m,
		transactions: desc("transactions_total", "Transactions started."),
		successes:    desc("transaction_successes_total", "Transactions completed with a decoded reply."),
		timeouts:     desc("transaction_timeouts_total", "Transactions that timed out waiting for the reply."),
		frameErrors:  desc("frame_errors_total", "Replies that failed validation."),
		ioErrors:     desc("io_errors_total", "Serial port failures."),
		perCode:      desc("code_transactions_total", "Transactions started per request code.", "code"),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.transactions
	ch <- c.successes
	ch <- c.timeouts
	ch <- c.frameErrors
	ch <- c.ioErrors
	ch <- c.perCode
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counter := func(desc *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), labels...)
	}

	counter(c.transactions, c.metrics.TransactionCount.Load())
	counter(c.successes, c.metrics.SuccessCount.Load())
	counter(c.timeouts, c.metrics.TimeoutCount.Load())
	counter(c.frameErrors, c.metrics.FrameErrCount.Load())
	counter(c.ioErrors, c.metrics.IOErrCount.Load())

	c.metrics.codeCounts.Range(func(code mblp.Code, n *atomic.Uint64) bool {
		counter(c.perCode, n.Load(), code.String())
		return true
	})
}
