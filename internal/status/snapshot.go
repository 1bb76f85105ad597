// internal/status/snapshot.go
package status

import "time"

// Deflector is the coil pair as read in one status read.
// It has no identity beyond the read that produced it.
type Deflector struct {
	Auto   bool
	Manual bool
}

// Mode derives the operating mode from the coil pair.
func (d Deflector) Mode() Mode {
	switch {
	case d.Auto && !d.Manual:
		return ModeAuto
	case d.Manual && !d.Auto:
		return ModeManual
	case d.Auto && d.Manual:
		return ModeConflict
	default:
		return ModeNone
	}
}

// Snapshot is the watcher's view of the deflector.
// It contains no memory of the past beyond current state.
type Snapshot struct {
	Health      uint16
	Mode        Mode
	Deflector   Deflector
	LastError   string
	ErrorsInRow uint32
	At          time.Time
}

// Apply folds one read result into the snapshot and reports whether any
// published field changed. At is always updated and never counts as a change.
func (s *Snapshot) Apply(at time.Time, d Deflector, err error) bool {
	s.At = at
	changed := false

	if err == nil {
		// Recovery / OK
		if s.Health != HealthOK {
			s.Health = HealthOK
			changed = true
		}
		if s.LastError != "" {
			s.LastError = ""
			changed = true
		}
		s.ErrorsInRow = 0

		if s.Deflector != d || s.Mode != d.Mode() {
			s.Deflector = d
			s.Mode = d.Mode()
			changed = true
		}
		return changed
	}

	// Error: last known coil state is kept, mode becomes unknown.
	if s.Health != HealthError {
		s.Health = HealthError
		changed = true
	}
	if msg := err.Error(); s.LastError != msg {
		s.LastError = msg
		changed = true
	}
	if s.Mode != ModeUnknown {
		s.Mode = ModeUnknown
		changed = true
	}
	if s.ErrorsInRow < ^uint32(0) {
		s.ErrorsInRow++
	}
	return changed
}
