// internal/writer/types.go
package writer

import "time"

// Kind tells what a partially applied plan leaves behind.
type Kind uint8

const (
	// KindInterlock: a pair of opposite coils; partial means both may be true.
	KindInterlock Kind = iota
	// KindPulse: press then release of one coil; partial means the coil is stuck true.
	KindPulse
)

func (k Kind) String() string {
	switch k {
	case KindInterlock:
		return "interlock"
	case KindPulse:
		return "pulse"
	default:
		return "unknown"
	}
}

// Step is one single-coil write.
type Step struct {
	Coil    string // name, for logs and errors
	Address uint16
	Value   bool

	// SettleAfter is waited after the write is acknowledged and before the
	// next step. Ignored on the last step.
	SettleAfter time.Duration
}

// Plan is an ordered write sequence over one connection.
type Plan struct {
	Name  string
	Kind  Kind
	Steps []Step
}

// coilWriter is the exact contract the writer uses.
type coilWriter interface {
	WriteCoil(addr uint16, value bool) error
}
