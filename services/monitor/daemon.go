package monitor

import (
	"context"
	"log/slog"
	"time"
)

// StartDaemon runs rounds forever, one immediately and then one per
// interval, until the context dies. There is no retry inside a round;
// the next round is the retry.
func (s Service) StartDaemon(ctx context.Context, interval time.Duration) {
	slog.InfoContext(ctx, "starting monitor daemon", "interval", interval)

	s.RunRound(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunRound(ctx)
		}
	}
}
