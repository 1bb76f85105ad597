// internal/poller/builder.go
package poller

import (
	"github.com/tamzrod/deflector-control/internal/config"
)

// Build constructs the deflector status poller from file config.
// Every tick dials a new connection through reader; nothing is reused.
func Build(w config.WatchConfig, reader Reader) (*Poller, error) {
	return New(
		Config{
			Name:     "deflector",
			Interval: w.Interval(),
		},
		reader,
	)
}
