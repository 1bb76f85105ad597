// internal/deflector/service.go
package deflector

import (
	"errors"
	"time"

	"github.com/tamzrod/deflector-control/internal/plc"
	"github.com/tamzrod/deflector-control/internal/status"
	"github.com/tamzrod/deflector-control/internal/writer"
)

// Service runs each operation over its own freshly dialed connection and
// releases it on every exit path. A dial failure means no coil I/O.
//
// Service does not serialize calls. Concurrent callers must lock above it.
type Service struct {
	dial plc.Dialer
	ctl  *Controller
}

func NewService(dial plc.Dialer, ctl *Controller) *Service {
	return &Service{dial: dial, ctl: ctl}
}

// withConn runs fn over a fresh connection. A close failure after a
// successful fn is logged and dropped; the PLC already acknowledged fn.
func (s *Service) withConn(fn func(plc.Coils) error) error {
	err := plc.WithConn(s.dial, fn)

	if ce, ok := err.(*plc.CloseError); ok {
		s.ctl.log.Warnw("connection close failed after successful operation", "error", ce.Err)
		return nil
	}
	return err
}

func (s *Service) ReadStatus() (status.Deflector, error) {
	var st status.Deflector
	err := s.withConn(func(cli plc.Coils) error {
		var err error
		st, err = s.ctl.ReadDeflectorStatus(cli)
		return err
	})
	if err != nil {
		return status.Deflector{}, err
	}
	return st, nil
}

func (s *Service) SetAutoMode() error {
	return s.withConn(s.ctl.SetAutoMode)
}

func (s *Service) SetManualMode() error {
	return s.withConn(s.ctl.SetManualMode)
}

// PressButton checks the name before dialing.
func (s *Service) PressButton(name string) error {
	if _, err := s.ctl.button(name); err != nil {
		return err
	}
	return s.withConn(func(cli plc.Coils) error {
		return s.ctl.PressButton(cli, name)
	})
}

// PulseCoil pulses an arbitrary coil address for d.
func (s *Service) PulseCoil(addr uint16, d time.Duration) error {
	return s.withConn(func(cli plc.Coils) error {
		return s.ctl.PulseCoil(cli, addr, d)
	})
}

// VerifyMode reads back the coil pair over a new connection.
func (s *Service) VerifyMode(want status.Mode) (status.Deflector, error) {
	var st status.Deflector
	err := s.withConn(func(cli plc.Coils) error {
		var err error
		st, err = s.ctl.Verify(cli, want)
		return err
	})
	return st, err
}

func (s *Service) ButtonNames() []string {
	return s.ctl.ButtonNames()
}

// OutcomeOf classifies an operation error.
func OutcomeOf(err error) status.Outcome {
	switch {
	case err == nil:
		return status.OutcomeOK
	case errors.Is(err, writer.ErrCoilStuck):
		return status.OutcomeStuck
	case errors.Is(err, writer.ErrPartial):
		return status.OutcomePartial
	default:
		return status.OutcomeFailed
	}
}
