package acquire

import (
	"context"
	"log/slog"
	"time"

	"github.com/windlane/gustline/internal/core/domain"
	"github.com/windlane/gustline/internal/infra/stream"
)

// Subscriber opens a streaming subscription; a fresh call opens a fresh
// session.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan stream.Update
}

// Recorder appends observed samples to the local archive.
type Recorder interface {
	InsertSample(ctx context.Context, s domain.WindSample) error
}

// Consumer drains the streaming subscription: every relayed update is
// written through to the store's current entry and appended to the archive.
type Consumer struct {
	sub       Subscriber
	svc       *Service
	archive   Recorder         // nil when no archive is configured
	onMessage func(time.Time)  // nil when no liveness observer is attached
	log       *slog.Logger
}

// NewConsumer creates a stream consumer. archive and onMessage may be nil.
func NewConsumer(sub Subscriber, svc *Service, archive Recorder, onMessage func(time.Time), log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{
		sub:       sub,
		svc:       svc,
		archive:   archive,
		onMessage: onMessage,
		log:       log,
	}
}

// Run consumes updates until ctx is cancelled and the subscription's
// channel closes. It never returns an error: disconnections are resolved
// inside the streaming client.
func (c *Consumer) Run(ctx context.Context) {
	updates := c.sub.Subscribe(ctx)
	for u := range updates {
		if c.onMessage != nil {
			c.onMessage(u.ReceivedAt)
		}
		c.svc.ApplyStreamUpdate(ctx, u.Sample)
		if c.archive != nil {
			if err := c.archive.InsertSample(ctx, u.Sample); err != nil {
				c.log.Error("failed to archive stream sample", "error", err)
			}
		}
	}
	c.log.Info("stream consumer stopped")
}
