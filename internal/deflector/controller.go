// internal/deflector/controller.go
package deflector

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/deflector-control/internal/config"
	"github.com/tamzrod/deflector-control/internal/plc"
	"github.com/tamzrod/deflector-control/internal/status"
	"github.com/tamzrod/deflector-control/internal/writer"
)

// ErrUnknownButton is returned for a button name missing from the button table.
var ErrUnknownButton = errors.New("deflector: unknown button")

// Button is one momentary pushbutton emulated by a pulsed coil.
type Button struct {
	Coil  uint16
	Width time.Duration
}

// Config is the device topology the controller works against.
type Config struct {
	AutoCoil   uint16
	ManualCoil uint16

	InterlockSettle      time.Duration
	SkipIfAlreadyInState bool

	Buttons map[string]Button
}

// ConfigFrom maps a validated, normalized file config.
func ConfigFrom(c *config.Config) Config {
	out := Config{
		AutoCoil:             *c.Deflector.AutoCoil,
		ManualCoil:           *c.Deflector.ManualCoil,
		InterlockSettle:      c.Deflector.InterlockSettle(),
		SkipIfAlreadyInState: c.Deflector.SkipIfAlreadyInState,
		Buttons:              make(map[string]Button, len(c.Buttons)),
	}
	for name, b := range c.Buttons {
		out.Buttons[name] = Button{Coil: *b.Coil, Width: b.PulseWidth()}
	}
	return out
}

// VerifyError is a read-back that disagrees with the commanded mode.
// The writes were acknowledged; PLC logic may be overriding them.
type VerifyError struct {
	Want status.Mode
	Got  status.Deflector
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf(
		"deflector: expected %s, read AUTO=%t MANUAL=%t (%s)",
		e.Want, e.Got.Auto, e.Got.Manual, e.Got.Mode(),
	)
}

// Controller runs deflector operations over a connection owned by the caller.
type Controller struct {
	cfg   Config
	log   *zap.SugaredLogger
	sleep func(time.Duration)
}

type Option func(*Controller)

// WithSleep replaces time.Sleep for settle and pulse delays.
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Controller) { c.sleep = fn }
}

func NewController(cfg Config, log *zap.SugaredLogger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Controller{cfg: cfg, log: log, sleep: time.Sleep}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ButtonNames returns configured button names, sorted.
func (c *Controller) ButtonNames() []string {
	names := make([]string, 0, len(c.cfg.Buttons))
	for n := range c.cfg.Buttons {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Controller) button(name string) (Button, error) {
	b, ok := c.cfg.Buttons[name]
	if !ok {
		return Button{}, fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	return b, nil
}

// ---- status ----

// ReadDeflectorStatus reads the AUTO and MANUAL coils. Either read failing
// fails the whole call; no partially filled status is returned.
func (c *Controller) ReadDeflectorStatus(cli plc.Coils) (status.Deflector, error) {
	auto, err := c.readCoil(cli, "auto", c.cfg.AutoCoil)
	if err != nil {
		return status.Deflector{}, err
	}
	manual, err := c.readCoil(cli, "manual", c.cfg.ManualCoil)
	if err != nil {
		return status.Deflector{}, err
	}
	return status.Deflector{Auto: auto, Manual: manual}, nil
}

func (c *Controller) readCoil(cli plc.Coils, name string, addr uint16) (bool, error) {
	bits, err := cli.ReadCoils(addr, 1)
	if err != nil {
		c.log.Errorw("coil read failed", "coil", name, "address", addr, "error", err)
		return false, err
	}
	if len(bits) < 1 {
		c.log.Errorw("coil read returned no data", "coil", name, "address", addr)
		return false, &plc.TransportError{Op: plc.OpReadCoils, Address: addr, Quantity: 1, Err: errors.New("empty response")}
	}
	c.log.Debugw("coil read", "coil", name, "address", addr, "value", bits[0])
	return bits[0], nil
}

// Verify reads the coil pair and compares it against want.
func (c *Controller) Verify(cli plc.Coils, want status.Mode) (status.Deflector, error) {
	got, err := c.ReadDeflectorStatus(cli)
	if err != nil {
		return status.Deflector{}, err
	}
	if got.Mode() != want {
		c.log.Warnw("read-back does not match commanded mode",
			"want", want.String(), "auto", got.Auto, "manual", got.Manual)
		return got, &VerifyError{Want: want, Got: got}
	}
	return got, nil
}

// ---- mode changes ----

// SetAutoMode writes AUTO=true, then MANUAL=false.
func (c *Controller) SetAutoMode(cli plc.Coils) error {
	return c.setMode(cli, status.ModeAuto,
		writer.Coil{Name: "auto", Address: c.cfg.AutoCoil},
		writer.Coil{Name: "manual", Address: c.cfg.ManualCoil},
	)
}

// SetManualMode writes MANUAL=true, then AUTO=false.
func (c *Controller) SetManualMode(cli plc.Coils) error {
	return c.setMode(cli, status.ModeManual,
		writer.Coil{Name: "manual", Address: c.cfg.ManualCoil},
		writer.Coil{Name: "auto", Address: c.cfg.AutoCoil},
	)
}

func (c *Controller) setMode(cli plc.Coils, target status.Mode, primary, secondary writer.Coil) error {
	name := "set_" + strings.ToLower(target.String())

	// Pre-check is informational unless SkipIfAlreadyInState is set.
	current, err := c.ReadDeflectorStatus(cli)
	if err != nil {
		c.log.Warnw("could not read current status, writing anyway", "target", target.String())
	} else {
		c.log.Infow("current status",
			"auto", current.Auto, "manual", current.Manual, "mode", current.Mode().String())

		if current.Mode() == target {
			if c.cfg.SkipIfAlreadyInState {
				c.log.Infow("already in target mode, skipping writes", "target", target.String())
				return nil
			}
			c.log.Infow("already in target mode", "target", target.String())
		}
	}

	plan, err := writer.BuildInterlockPlan(name, primary, secondary, c.cfg.InterlockSettle)
	if err != nil {
		return err
	}

	if err := writer.New(cli, c.log, c.sleep).Execute(plan); err != nil {
		if errors.Is(err, writer.ErrPartial) {
			c.log.Errorw("deflector left in inconsistent state",
				"target", target.String(), "primary", primary.Address, "secondary", secondary.Address)
		}
		return err
	}

	c.log.Infow("deflector commanded",
		"target", target.String(), "true_coil", primary.Address, "false_coil", secondary.Address)
	return nil
}

// ---- pulses ----

// PulseCoil writes true, waits d, writes false.
func (c *Controller) PulseCoil(cli plc.Coils, addr uint16, d time.Duration) error {
	return c.pulse(cli, fmt.Sprintf("pulse_%d", addr), writer.Coil{Name: fmt.Sprintf("coil_%d", addr), Address: addr}, d)
}

// PressButton pulses a named button from the button table.
func (c *Controller) PressButton(cli plc.Coils, name string) error {
	b, err := c.button(name)
	if err != nil {
		return err
	}
	return c.pulse(cli, "press_"+name, writer.Coil{Name: name, Address: b.Coil}, b.Width)
}

func (c *Controller) pulse(cli plc.Coils, name string, coil writer.Coil, d time.Duration) error {
	plan, err := writer.BuildPulsePlan(name, coil, d)
	if err != nil {
		return err
	}

	if err := writer.New(cli, c.log, c.sleep).Execute(plan); err != nil {
		if errors.Is(err, writer.ErrCoilStuck) {
			c.log.Errorw("coil left stuck true, clear it manually", "coil", coil.Name, "address", coil.Address)
		}
		return err
	}

	c.log.Infow("pulse completed", "coil", coil.Name, "address", coil.Address, "width", d)
	return nil
}
