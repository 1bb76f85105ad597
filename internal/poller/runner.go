// internal/poller/runner.go
package poller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/deflector-control/internal/status"
)

// Run starts the ticker loop and emits PollResult on the provided channel.
// One goroutine per poller. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := p.PollOnce()
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Sink receives snapshots that changed.
type Sink interface {
	Publish(s status.Snapshot) error
}

// Watch folds poll results into a snapshot and hands every change to sink.
// A nil sink only logs. Watch returns when ctx is done.
func Watch(ctx context.Context, in <-chan PollResult, sink Sink, log *zap.SugaredLogger) {
	var snap status.Snapshot

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if !snap.Apply(res.At, res.Status, res.Err) {
				continue
			}

			if res.Err != nil {
				log.Warnw("status read failed", "poller", res.Name, "errors_in_row", snap.ErrorsInRow, "error", res.Err)
			} else {
				log.Infow("deflector status changed",
					"poller", res.Name, "mode", snap.Mode.String(), "auto", snap.Deflector.Auto, "manual", snap.Deflector.Manual)
			}

			if sink == nil {
				continue
			}
			if err := sink.Publish(snap); err != nil {
				log.Errorw("status publish failed", "poller", res.Name, "error", err)
			}
		}
	}
}
