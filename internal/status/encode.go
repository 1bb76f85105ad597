// internal/status/encode.go
package status

import (
	"encoding/json"
	"time"
)

// Payload is the wire form of a Snapshot.
type Payload struct {
	Health      string `json:"health"`
	Mode        string `json:"mode"`
	Auto        bool   `json:"auto"`
	Manual      bool   `json:"manual"`
	LastError   string `json:"last_error,omitempty"`
	ErrorsInRow uint32 `json:"errors_in_row"`
	At          string `json:"at"`
}

// Encode converts a Snapshot into its JSON payload.
// No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(ToPayload(s))
}

func ToPayload(s Snapshot) Payload {
	return Payload{
		Health:      healthName(s.Health),
		Mode:        s.Mode.String(),
		Auto:        s.Deflector.Auto,
		Manual:      s.Deflector.Manual,
		LastError:   s.LastError,
		ErrorsInRow: s.ErrorsInRow,
		At:          s.At.UTC().Format(time.RFC3339Nano),
	}
}

func healthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
