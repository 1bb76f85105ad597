// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"
)

// Coil is a named coil address.
type Coil struct {
	Name    string
	Address uint16
}

// BuildInterlockPlan sets primary true, waits settle, then sets secondary false.
func BuildInterlockPlan(name string, primary, secondary Coil, settle time.Duration) (Plan, error) {
	if name == "" {
		return Plan{}, errors.New("writer: plan name required")
	}
	if primary.Address == secondary.Address {
		return Plan{}, fmt.Errorf("writer: %s: primary and secondary share address %d", name, primary.Address)
	}
	if settle < 0 {
		return Plan{}, fmt.Errorf("writer: %s: negative settle", name)
	}

	return Plan{
		Name: name,
		Kind: KindInterlock,
		Steps: []Step{
			{Coil: primary.Name, Address: primary.Address, Value: true, SettleAfter: settle},
			{Coil: secondary.Name, Address: secondary.Address, Value: false},
		},
	}, nil
}

// BuildPulsePlan presses a coil (true), holds it for width, then releases it (false).
func BuildPulsePlan(name string, c Coil, width time.Duration) (Plan, error) {
	if name == "" {
		return Plan{}, errors.New("writer: plan name required")
	}
	if width < 0 {
		return Plan{}, fmt.Errorf("writer: %s: negative pulse width", name)
	}

	return Plan{
		Name: name,
		Kind: KindPulse,
		Steps: []Step{
			{Coil: c.Name, Address: c.Address, Value: true, SettleAfter: width},
			{Coil: c.Name, Address: c.Address, Value: false},
		},
	}, nil
}
