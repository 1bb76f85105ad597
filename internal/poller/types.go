// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/deflector-control/internal/status"
)

// PollResult is the outcome of one status read.
type PollResult struct {
	Name   string
	At     time.Time
	Status status.Deflector // valid only when Err is nil
	Err    error            // non-nil means the poll cycle failed
}
