// internal/poller/poller.go
package poller

import (
	"errors"
	"time"

	"github.com/tamzrod/deflector-control/internal/status"
)

// Reader abstracts the one status read the poller needs.
// Each call owns its own connection.
type Reader interface {
	ReadStatus() (status.Deflector, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Name     string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg    Config
	reader Reader
	now    func() time.Time
}

// New creates a poller with immutable config.
func New(cfg Config, reader Reader) (*Poller, error) {
	if cfg.Name == "" {
		return nil, errors.New("poller: name required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if reader == nil {
		return nil, errors.New("poller: reader required")
	}
	return &Poller{cfg: cfg, reader: reader, now: time.Now}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: a failed read carries no status.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		Name: p.cfg.Name,
		At:   p.now(),
	}

	st, err := p.reader.ReadStatus()
	if err != nil {
		res.Err = err
		return res
	}

	res.Status = st
	return res
}
