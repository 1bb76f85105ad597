// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	PLC       PLCConfig               `yaml:"plc" toml:"plc"`
	Deflector DeflectorConfig         `yaml:"deflector" toml:"deflector"`
	Buttons   map[string]ButtonConfig `yaml:"buttons" toml:"buttons"`
	Watch     WatchConfig             `yaml:"watch" toml:"watch"`
	MQTT      *MQTTConfig             `yaml:"mqtt" toml:"mqtt"`
	HTTP      HTTPConfig              `yaml:"http" toml:"http"`
	Log       LogConfig               `yaml:"log" toml:"log"`
}

// ---- PLC ----

type PLCConfig struct {
	Host      string `yaml:"host" toml:"host"`
	Port      int    `yaml:"port" toml:"port"`
	UnitID    *uint8 `yaml:"unit_id" toml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}

// ---- DEFLECTOR ----

type DeflectorConfig struct {
	AutoCoil   *uint16 `yaml:"auto_coil" toml:"auto_coil"`
	ManualCoil *uint16 `yaml:"manual_coil" toml:"manual_coil"`

	// Delay between the primary and secondary coil write of a mode change.
	InterlockSettleMs int `yaml:"interlock_settle_ms" toml:"interlock_settle_ms"`

	// Delay between a mode change and its read-back verification.
	VerifyDelayMs *int `yaml:"verify_delay_ms" toml:"verify_delay_ms"`

	SkipIfAlreadyInState bool `yaml:"skip_if_already_in_state" toml:"skip_if_already_in_state"`
}

// ---- BUTTONS ----

type ButtonConfig struct {
	Coil *uint16 `yaml:"coil" toml:"coil"`

	// Hold time between press and release. An explicit 0 is kept.
	PulseMs *int `yaml:"pulse_ms" toml:"pulse_ms"`
}

// ---- WATCH ----

type WatchConfig struct {
	IntervalMs int `yaml:"interval_ms" toml:"interval_ms"`
}

// ---- MQTT (optional) ----

type MQTTConfig struct {
	Broker    string `yaml:"broker" toml:"broker"`
	ClientID  string `yaml:"client_id" toml:"client_id"`
	Username  string `yaml:"username" toml:"username"`
	Password  string `yaml:"password" toml:"password"`
	Topic     string `yaml:"topic" toml:"topic"`
	QoS       byte   `yaml:"qos" toml:"qos"`
	Retained  bool   `yaml:"retained" toml:"retained"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Listen string `yaml:"listen" toml:"listen"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level" toml:"level"`
	Development bool   `yaml:"development" toml:"development"`
}

// Load reads a configuration file. Files ending in .toml are decoded as TOML,
// everything else as YAML. Unknown keys are rejected in both formats.
// Load does not validate or normalize.
func Load(path string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("config: %s: unknown key %q", path, undec[0].String())
		}

	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("config: %s is empty", path)
			}
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	return &cfg, nil
}
