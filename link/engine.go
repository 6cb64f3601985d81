package link

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/internal/pool"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/logger"
	"github.com/HSW-Bologna/sinottico-bio-wifi-minion-rotondi/mblp"
)

// Engine runs MBLP transactions over a Port.
//
// Transactions are serialized: a call to Execute or Send blocks until any
// transaction in flight on the same engine has completed. The engine is the
// only user of the port; nothing else may read or write it.
type Engine struct {
	mu      sync.Mutex
	port    Port
	cfg     *Config
	logger  logger.Logger
	metrics *Metrics
}

// NewEngine creates an engine on an open port. A nil cfg selects DefaultConfig.
func NewEngine(port Port, cfg *Config) (*Engine, error) {
	if port == nil {
		return nil, ErrPortNil
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	metrics := cfg.metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	return &Engine{
		port:    port,
		cfg:     cfg,
		logger:  cfg.logger,
		metrics: metrics,
	}, nil
}

// GetMetrics returns the transaction counters of the engine.
func (e *Engine) GetMetrics() *Metrics {
	return e.metrics
}

// Close closes the underlying port.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.port.Close()
}

// Execute sends a request with the given code and payload to destination and
// waits for its reply.
//
// The reply length is fixed by the code. Codes without a fixed reply length
// fail with a *FrameError reporting zero received bytes; use Send for them.
func (e *Engine) Execute(ctx context.Context, code mblp.Code, destination mblp.Address, payload []byte) (mblp.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cmd, err := e.begin(ctx, code, destination, payload)
	if err != nil {
		return mblp.Response{}, err
	}

	expected := mblp.ExpectedResponseLen(code)
	started := time.Now()

	raw, err := e.collect(expected)
	if err != nil {
		if len(raw) > 0 {
			e.logger.Debug("link: partial reply", "code", code, "raw", fmt.Sprintf("% X", raw))
		}
		return mblp.Response{}, err
	}

	rsp, err := mblp.ParseResponse(raw)
	if err != nil {
		e.metrics.incFrameErr()
		e.logger.Warn("link: invalid reply",
			"code", code,
			"destination", cmd.Destination(),
			"bytes", len(raw),
			"error", err)

		return mblp.Response{}, &FrameError{Code: code, Received: len(raw), Err: err}
	}

	e.metrics.incSuccess()
	e.logger.Debug("link: reply",
		"response", rsp,
		"elapsed", time.Since(started))

	return rsp, nil
}

// Send writes a request without waiting for a reply.
func (e *Engine) Send(ctx context.Context, code mblp.Code, destination mblp.Address, payload []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.begin(ctx, code, destination, payload); err != nil {
		return err
	}
	e.metrics.incSuccess()

	return nil
}

// begin builds the request, flushes the port, waits the settle delay and
// writes the request.
func (e *Engine) begin(ctx context.Context, code mblp.Code, destination mblp.Address, payload []byte) (mblp.Command, error) {
	if err := ctx.Err(); err != nil {
		return mblp.Command{}, err
	}

	cmd, err := mblp.NewCommand(code, destination, mblp.StationAddress, payload)
	if err != nil {
		return mblp.Command{}, err
	}

	e.metrics.incTransaction(code)
	e.flush()

	if err := pool.Sleep(ctx, e.cfg.settleDelay); err != nil {
		return mblp.Command{}, err
	}

	e.logger.Debug("link: send", "command", cmd)

	if err := e.writeAll(cmd.Encode()); err != nil {
		e.metrics.incIOErr()
		return mblp.Command{}, fmt.Errorf("%w: write %s: %w", ErrIO, code, err)
	}

	return cmd, nil
}

// flush discards stale bytes in both directions. Failures are not fatal: a
// stale byte left in the input shows up later as an invalid reply.
func (e *Engine) flush() {
	if err := e.port.ResetInputBuffer(); err != nil {
		e.logger.Debug("link: failed to reset input buffer", "error", err)
	}
	if err := e.port.ResetOutputBuffer(); err != nil {
		e.logger.Debug("link: failed to reset output buffer", "error", err)
	}
}

func (e *Engine) writeAll(data []byte) error {
	for written := 0; written < len(data); {
		n, err := e.port.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short write: %d of %d bytes", written, len(data))
		}
	}

	return nil
}

// collect polls the port until n bytes have been read or the response
// timeout expires. On timeout it returns the bytes read so far.
func (e *Engine) collect(n int) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}

	if err := e.port.SetReadTimeout(e.cfg.pollInterval); err != nil {
		e.metrics.incIOErr()
		return nil, fmt.Errorf("%w: set read timeout: %w", ErrIO, err)
	}

	deadline := time.Now().Add(e.cfg.responseTimeout)

	read := 0
	for read < n {
		if time.Now().After(deadline) {
			e.metrics.incTimeout()
			return buf[:read], fmt.Errorf("%w: %d of %d bytes after %v", ErrTimeout, read, n, e.cfg.responseTimeout)
		}

		got, err := e.port.Read(buf[read:])
		read += got

		if err != nil {
			e.metrics.incIOErr()
			return buf[:read], fmt.Errorf("%w: read: %w", ErrIO, err)
		}
	}

	return buf, nil
}
