// internal/config/normalize.go
package config

import (
	"net"
	"strconv"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultPort          = 502
	DefaultTimeoutMs     = 5000
	DefaultPulseMs       = 200
	DefaultVerifyDelayMs = 2000
	DefaultWatchMs       = 1000
	DefaultMQTTTimeoutMs = 5000
	DefaultMQTTClientID  = "deflector-control"
	DefaultListen        = ":3001"
	DefaultLogLevel      = "info"
)

const DefaultUnitID uint8 = 1

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.PLC.Port == 0 {
		cfg.PLC.Port = DefaultPort
	}
	if cfg.PLC.UnitID == nil {
		id := DefaultUnitID
		cfg.PLC.UnitID = &id
	}
	if cfg.PLC.TimeoutMs == 0 {
		cfg.PLC.TimeoutMs = DefaultTimeoutMs
	}

	if cfg.Deflector.VerifyDelayMs == nil {
		v := DefaultVerifyDelayMs
		cfg.Deflector.VerifyDelayMs = &v
	}

	// Map values are copies; write back.
	for name, b := range cfg.Buttons {
		if b.PulseMs == nil {
			v := DefaultPulseMs
			b.PulseMs = &v
			cfg.Buttons[name] = b
		}
	}

	if cfg.Watch.IntervalMs == 0 {
		cfg.Watch.IntervalMs = DefaultWatchMs
	}

	if m := cfg.MQTT; m != nil {
		if m.ClientID == "" {
			m.ClientID = DefaultMQTTClientID
		}
		if m.TimeoutMs == 0 {
			m.TimeoutMs = DefaultMQTTTimeoutMs
		}
	}

	if cfg.HTTP.Listen == "" {
		cfg.HTTP.Listen = DefaultListen
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// ---- derived values (valid after Normalize) ----

// Endpoint returns host:port of the PLC.
func (p PLCConfig) Endpoint() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func (p PLCConfig) Timeout() time.Duration {
	return ms(p.TimeoutMs)
}

func (d DeflectorConfig) InterlockSettle() time.Duration {
	return ms(d.InterlockSettleMs)
}

func (d DeflectorConfig) VerifyDelay() time.Duration {
	if d.VerifyDelayMs == nil {
		return ms(DefaultVerifyDelayMs)
	}
	return ms(*d.VerifyDelayMs)
}

func (b ButtonConfig) PulseWidth() time.Duration {
	if b.PulseMs == nil {
		return ms(DefaultPulseMs)
	}
	return ms(*b.PulseMs)
}

func (w WatchConfig) Interval() time.Duration {
	return ms(w.IntervalMs)
}

func (m MQTTConfig) Timeout() time.Duration {
	return ms(m.TimeoutMs)
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
