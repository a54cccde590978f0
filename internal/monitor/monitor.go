// Package monitor polls the amplifier's latched fault flags in the
// background. The chip latches over-current and thermal faults until
// register 1 is read, so a periodic read is the only way to notice them;
// state changes are published by the controller's fault path.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/soundctl/tpa2016-go/internal/models"
)

// FaultReader is the slice of the controller the monitor needs.
type FaultReader interface {
	Faults() (models.FaultStatus, *models.AppError)
}

// Monitor periodically reads fault flags and logs transitions.
type Monitor struct {
	ctrl     FaultReader
	interval time.Duration
	last     models.FaultStatus
}

// New creates a fault monitor. An interval of 0 disables it: Start returns
// immediately.
func New(ctrl FaultReader, interval time.Duration) *Monitor {
	return &Monitor{ctrl: ctrl, interval: interval}
}

// Start polls until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.poll()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) poll() {
	status, appErr := m.ctrl.Faults()
	if appErr != nil {
		slog.Warn("monitor: fault read failed", "err", appErr)
		return
	}
	if status == m.last {
		return
	}
	if status.Right || status.Left || status.Thermal {
		slog.Warn("monitor: amplifier fault",
			"right", status.Right,
			"left", status.Left,
			"thermal", status.Thermal,
		)
	} else {
		slog.Info("monitor: faults cleared")
	}
	m.last = status
}
