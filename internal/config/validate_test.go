// internal/config/validate_test.go
package config

import "testing"

func u16(v uint16) *uint16 { return &v }
func intp(v int) *int      { return &v }

// helper to build a valid config quickly
func valid() *Config {
	return &Config{
		PLC: PLCConfig{Host: "192.168.7.10"},
		Deflector: DeflectorConfig{
			AutoCoil:   u16(39),
			ManualCoil: u16(41),
		},
		Buttons: map[string]ButtonConfig{
			"start":        {Coil: u16(39)},
			"cancel_alarm": {Coil: u16(41), PulseMs: intp(1000)},
		},
	}
}

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_HostRequired(t *testing.T) {
	cfg := valid()
	cfg.PLC.Host = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected host error, got nil")
	}
}

func TestValidate_CoilsRequired(t *testing.T) {
	cfg := valid()
	cfg.Deflector.AutoCoil = nil
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected auto_coil error, got nil")
	}

	cfg = valid()
	cfg.Deflector.ManualCoil = nil
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected manual_coil error, got nil")
	}
}

func TestValidate_AddressZeroAllowed(t *testing.T) {
	cfg := valid()
	cfg.Deflector.AutoCoil = u16(0)

	if err := Validate(cfg); err != nil {
		t.Fatalf("coil 0 is a valid base-0 address: %v", err)
	}
}

func TestValidate_SameCoilRejected(t *testing.T) {
	cfg := valid()
	cfg.Deflector.ManualCoil = u16(39)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected auto/manual collision error, got nil")
	}
}

// Buttons may share addresses with the deflector pair; register maps differ per deployment.
func TestValidate_ButtonMayShareDeflectorCoil(t *testing.T) {
	cfg := valid()
	cfg.Buttons["start"] = ButtonConfig{Coil: u16(*cfg.Deflector.AutoCoil)}

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ButtonName(t *testing.T) {
	cfg := valid()
	cfg.Buttons["Cancel Alarm"] = ButtonConfig{Coil: u16(41)}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected button name error, got nil")
	}
}

func TestValidate_ButtonCoilRequired(t *testing.T) {
	cfg := valid()
	cfg.Buttons["reset"] = ButtonConfig{PulseMs: intp(100)}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected button coil error, got nil")
	}
}

func TestValidate_NegativeDurations(t *testing.T) {
	cases := map[string]func(*Config){
		"timeout": func(c *Config) { c.PLC.TimeoutMs = -1 },
		"settle":  func(c *Config) { c.Deflector.InterlockSettleMs = -1 },
		"verify": func(c *Config) {
			v := -5
			c.Deflector.VerifyDelayMs = &v
		},
		"pulse": func(c *Config) { c.Buttons["start"] = ButtonConfig{Coil: u16(39), PulseMs: intp(-1)} },
		"watch": func(c *Config) { c.Watch.IntervalMs = -1 },
	}

	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		if err := Validate(cfg); err == nil {
			t.Fatalf("%s: expected error, got nil", name)
		}
	}
}

func TestValidate_MQTT(t *testing.T) {
	cfg := valid()
	cfg.MQTT = &MQTTConfig{Broker: "tcp://localhost:1883"}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected topic error, got nil")
	}

	cfg.MQTT.Topic = "plant/deflector"
	cfg.MQTT.QoS = 3
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected qos error, got nil")
	}

	cfg.MQTT.QoS = 1
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := valid()
	cfg.Log.Level = "verbose"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected log level error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := valid()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if cfg.PLC.Port != DefaultPort {
		t.Fatalf("port: got %d want %d", cfg.PLC.Port, DefaultPort)
	}
	if cfg.PLC.UnitID == nil || *cfg.PLC.UnitID != DefaultUnitID {
		t.Fatalf("unit id not defaulted")
	}
	if cfg.PLC.Endpoint() != "192.168.7.10:502" {
		t.Fatalf("endpoint: got %s", cfg.PLC.Endpoint())
	}
	if p := cfg.Buttons["start"].PulseMs; p == nil || *p != DefaultPulseMs {
		t.Fatalf("start pulse: got %v want %d", cfg.Buttons["start"].PulseWidth(), DefaultPulseMs)
	}
	// explicit values survive
	if p := cfg.Buttons["cancel_alarm"].PulseMs; p == nil || *p != 1000 {
		t.Fatalf("cancel_alarm pulse overwritten: %v", cfg.Buttons["cancel_alarm"].PulseWidth())
	}
	if cfg.Deflector.VerifyDelay().Milliseconds() != DefaultVerifyDelayMs {
		t.Fatalf("verify delay: got %v", cfg.Deflector.VerifyDelay())
	}
	if cfg.Deflector.InterlockSettle() != 0 {
		t.Fatalf("settle should default to 0, got %v", cfg.Deflector.InterlockSettle())
	}
}

func TestNormalize_ZeroVerifyDelayKept(t *testing.T) {
	cfg := valid()
	zero := 0
	cfg.Deflector.VerifyDelayMs = &zero
	Normalize(cfg)

	if cfg.Deflector.VerifyDelay() != 0 {
		t.Fatalf("explicit zero verify delay overwritten: %v", cfg.Deflector.VerifyDelay())
	}
}

func TestNormalize_ZeroPulseKept(t *testing.T) {
	cfg := valid()
	cfg.Buttons["start"] = ButtonConfig{Coil: u16(39), PulseMs: intp(0)}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	if w := cfg.Buttons["start"].PulseWidth(); w != 0 {
		t.Fatalf("explicit zero pulse overwritten: %v", w)
	}
}
