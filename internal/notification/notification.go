package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EventCreated describes a scheduled event that was just created on Discord.
type EventCreated struct {
	GuildID            string     `json:"guildId"`
	EventID            string     `json:"eventId"`
	Name               string     `json:"eventName"`
	ScheduledStartTime time.Time  `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time `json:"scheduledEndTime,omitempty"`
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, ev EventCreated) error
}

// Fanout delivers to every notifier; a failing notifier does not stop the rest.
type Fanout struct {
	Notifiers []Notifier
	Logger    *zap.Logger
	// Timeout bounds each delivery; zero means 5s.
	Timeout time.Duration
}

func (f *Fanout) Notify(ctx context.Context, ev EventCreated) error {
	if f == nil || len(f.Notifiers) == 0 {
		return nil
	}
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var errs []error
	for _, n := range f.Notifiers {
		ctx2, cancel := context.WithTimeout(ctx, timeout)
		err := n.Notify(ctx2, ev)
		cancel()
		if err != nil {
			logger.Warn("notification failed",
				zap.String("notifier", n.Name()),
				zap.String("event_id", ev.EventID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		logger.Info("notification sent", zap.String("notifier", n.Name()), zap.String("event_id", ev.EventID))
	}
	return errors.Join(errs...)
}
