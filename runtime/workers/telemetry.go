package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// SessionCounter reports the number of live sessions.
type SessionCounter interface {
	Count() int
}

// TelemetryWorker periodically logs the relay load and the process footprint.
type TelemetryWorker struct {
	log      *slog.Logger
	sessions SessionCounter
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, sessions SessionCounter, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, sessions: sessions, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *TelemetryWorker) report(p *process.Process) {
	attrs := []any{"sessions", w.sessions.Count()}

	if memInfo, err := p.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_bytes", memInfo.RSS)
	} else {
		w.log.Debug("Failed to read process memory", "error", err)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	} else {
		w.log.Debug("Failed to read process cpu", "error", err)
	}

	w.log.Info("Relay telemetry", attrs...)
}
