// internal/status/constants.go
package status

// ---- DEFLECTOR MODE ----

// Mode is the deflector operating mode derived from the AUTO/MANUAL coil pair.
type Mode uint8

const (
	// ModeUnknown means the coils have not been read.
	ModeUnknown Mode = iota
	// ModeAuto: AUTO=true, MANUAL=false.
	ModeAuto
	// ModeManual: AUTO=false, MANUAL=true.
	ModeManual
	// ModeConflict: both coils true. Usually a failed interlock.
	ModeConflict
	// ModeNone: both coils false.
	ModeNone
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "AUTO"
	case ModeManual:
		return "MANUAL"
	case ModeConflict:
		return "CONFLICT"
	case ModeNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a reachable PLC with a successful last read.
const HealthOK uint16 = 1

// HealthError represents a failed last read.
const HealthError uint16 = 2

// ---- OPERATION OUTCOMES ----

// Outcome classifies the result of one control operation.
type Outcome uint8

const (
	// OutcomeOK: every write was acknowledged.
	OutcomeOK Outcome = iota
	// OutcomeFailed: nothing was applied.
	OutcomeFailed
	// OutcomePartial: the primary write of an interlock was applied, the secondary was not.
	OutcomePartial
	// OutcomeStuck: a pulse was pressed but never released.
	OutcomeStuck
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFailed:
		return "failed"
	case OutcomePartial:
		return "partial"
	case OutcomeStuck:
		return "stuck"
	default:
		return "unknown"
	}
}
