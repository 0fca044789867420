package usecase

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"manifest-reconciliation/internal/logger"
)

// ConnectivityMonitor polls a checker and runs a callback on every probe that
// reaches the backend.
type ConnectivityMonitor struct {
	checker  ConnectivityChecker
	interval time.Duration
	log      logger.Logger

	online *atomic.Bool
}

// NewConnectivityMonitor starts out assuming the backend is online.
func NewConnectivityMonitor(checker ConnectivityChecker, interval time.Duration, log logger.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ConnectivityMonitor{
		checker:  checker,
		interval: interval,
		log:      log,
		online:   atomic.NewBool(true),
	}
}

// Online returns the last observed connectivity.
func (m *ConnectivityMonitor) Online() bool {
	return m.online.Load()
}

// Check probes once and reports whether the backend just came back.
func (m *ConnectivityMonitor) Check(ctx context.Context) bool {
	now := m.checker.Online(ctx)
	was := m.online.Swap(now)
	if was != now {
		m.log.Infof(ctx, "[ConnectivityMonitor] backend online=%t", now)
	}
	return now && !was
}

// Run polls until ctx is done, calling onOnline after every probe that
// reaches the backend whether or not an outage was observed. onOnline must
// do nothing when no work is pending.
func (m *ConnectivityMonitor) Run(ctx context.Context, onOnline func(context.Context)) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
			if m.Online() && onOnline != nil {
				onOnline(ctx)
			}
		}
	}
}
