// internal/config/validate.go
package config

import (
	"fmt"
	"regexp"
)

var buttonName = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// PLC ENDPOINT
	// ------------------------------------------------------------

	if cfg.PLC.Host == "" {
		return fmt.Errorf("plc: host is required")
	}
	if cfg.PLC.Port < 0 || cfg.PLC.Port > 65535 {
		return fmt.Errorf("plc: port %d out of range", cfg.PLC.Port)
	}
	if cfg.PLC.TimeoutMs < 0 {
		return fmt.Errorf("plc: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// DEFLECTOR COIL PAIR
	// ------------------------------------------------------------

	d := cfg.Deflector
	if d.AutoCoil == nil {
		return fmt.Errorf("deflector: auto_coil is required")
	}
	if d.ManualCoil == nil {
		return fmt.Errorf("deflector: manual_coil is required")
	}
	// AUTO and MANUAL are written as opposites; one coil cannot be both.
	if *d.AutoCoil == *d.ManualCoil {
		return fmt.Errorf(
			"deflector: auto_coil and manual_coil must differ (both %d)",
			*d.AutoCoil,
		)
	}
	if d.InterlockSettleMs < 0 {
		return fmt.Errorf("deflector: interlock_settle_ms must be >= 0")
	}
	if d.VerifyDelayMs != nil && *d.VerifyDelayMs < 0 {
		return fmt.Errorf("deflector: verify_delay_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// BUTTONS
	// ------------------------------------------------------------

	for name, b := range cfg.Buttons {
		if !buttonName.MatchString(name) {
			return fmt.Errorf("button %q: name must match %s", name, buttonName.String())
		}
		if b.Coil == nil {
			return fmt.Errorf("button %q: coil is required", name)
		}
		if b.PulseMs != nil && *b.PulseMs < 0 {
			return fmt.Errorf("button %q: pulse_ms must be >= 0", name)
		}
	}

	// ------------------------------------------------------------
	// WATCH / HTTP
	// ------------------------------------------------------------

	if cfg.Watch.IntervalMs < 0 {
		return fmt.Errorf("watch: interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// MQTT (OPT-IN)
	// ------------------------------------------------------------

	if m := cfg.MQTT; m != nil {
		if m.Broker == "" {
			return fmt.Errorf("mqtt: broker is required when mqtt is configured")
		}
		if m.Topic == "" {
			return fmt.Errorf("mqtt: topic is required when mqtt is configured")
		}
		if m.QoS > 2 {
			return fmt.Errorf("mqtt: qos %d out of range 0..2", m.QoS)
		}
		if m.TimeoutMs < 0 {
			return fmt.Errorf("mqtt: timeout_ms must be >= 0")
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}

	return nil
}
