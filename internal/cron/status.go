package cronrunner

import (
	"context"
	"time"

	"go.uber.org/zap"

	"eventbridge/internal/discord"
)

type StatusSource interface {
	Status() discord.Status
}

// StatusReport logs a snapshot of the Discord session.
func StatusReport(src StatusSource, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		st := src.Status()
		fields := []zap.Field{
			zap.String("state", st.State.String()),
			zap.Int("guilds", st.Guilds),
			zap.Duration("heartbeat_latency", st.Latency),
		}
		if !st.ReadySince.IsZero() {
			fields = append(fields, zap.Duration("ready_for", time.Since(st.ReadySince).Round(time.Second)))
		}
		if st.State != discord.StateReady {
			logger.Warn("discord session not ready", fields...)
			return
		}
		logger.Info("discord session status", fields...)
	}
}
