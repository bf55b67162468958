package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"
)

// saturationRatio is the fill level above which a queue is reported as saturated.
const saturationRatio = 0.8

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length and capacity of bounded queues.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with the producers and consumers of the queue.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger,
	channels []NamedChannel, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		metricInterval: metricInterval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping channel capacity sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w ChannelCapacityWorker) sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		// Verify if this is a channel
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		capacity := v.Cap()
		length := v.Len()
		if capacity > 0 && float64(length) >= saturationRatio*float64(capacity) {
			w.log.Warn("Queue close to saturation, readers are being throttled",
				"name", nc.Name, "length", length, "capacity", capacity)
			continue
		}
		w.log.Debug("Queue capacity", "name", nc.Name, "length", length, "capacity", capacity)
	}
}
