// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrPartial matches every PartialError.
	ErrPartial = errors.New("writer: plan partially applied")
	// ErrCoilStuck matches a PartialError of a pulse: the coil was pressed and not released.
	ErrCoilStuck = errors.New("writer: coil left stuck true")
)

// PartialError means at least one step was acknowledged before a later step
// failed. Device state no longer matches either the start or the intent.
type PartialError struct {
	Plan    string
	Kind    Kind
	Applied int  // acknowledged steps
	Step    Step // the step that failed
	Err     error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf(
		"writer: %s (%s) partially applied: %d step(s) acknowledged, %s addr=%d value=%t failed: %v",
		e.Plan, e.Kind, e.Applied, e.Step.Coil, e.Step.Address, e.Step.Value, e.Err,
	)
}

func (e *PartialError) Unwrap() error { return e.Err }

func (e *PartialError) Is(target error) bool {
	switch target {
	case ErrPartial:
		return true
	case ErrCoilStuck:
		return e.Kind == KindPulse
	}
	return false
}

// Writer executes plans against one connection.
// It performs no locking: the caller owns the connection.
type Writer struct {
	cli   coilWriter
	log   *zap.SugaredLogger
	sleep func(time.Duration)
}

// New builds a Writer. A nil sleep uses time.Sleep; a nil log discards.
func New(cli coilWriter, log *zap.SugaredLogger, sleep func(time.Duration)) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Writer{cli: cli, log: log, sleep: sleep}
}

// Execute runs the plan in order and stops at the first failure.
// Failure of the first step is returned as is; failure of any later step is
// wrapped in *PartialError. No retries.
func (w *Writer) Execute(p Plan) error {
	if w.cli == nil {
		return errors.New("writer: no client")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("writer: %s: empty plan", p.Name)
	}

	for i, s := range p.Steps {
		w.log.Infow("writing coil",
			"plan", p.Name, "step", i+1, "coil", s.Coil, "address", s.Address, "value", s.Value)

		if err := w.cli.WriteCoil(s.Address, s.Value); err != nil {
			w.log.Errorw("coil write failed",
				"plan", p.Name, "step", i+1, "coil", s.Coil, "address", s.Address, "value", s.Value, "error", err)

			if i == 0 {
				return err
			}
			return &PartialError{Plan: p.Name, Kind: p.Kind, Applied: i, Step: s, Err: err}
		}

		w.log.Debugw("coil write acknowledged", "plan", p.Name, "coil", s.Coil, "address", s.Address)

		if i < len(p.Steps)-1 && s.SettleAfter > 0 {
			w.sleep(s.SettleAfter)
		}
	}

	return nil
}
