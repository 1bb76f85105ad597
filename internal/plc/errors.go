// internal/plc/errors.go
package plc

import (
	"errors"
	"fmt"

	"github.com/goburrow/modbus"
)

// ConnectError means the PLC was never reached. No coil I/O happened.
type ConnectError struct {
	Endpoint string
	Err      error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("plc: connect %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// CloseError is a failed release of a connection whose operation succeeded.
// Every acknowledged write stays applied.
type CloseError struct {
	Err error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("plc: close: %v", e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

// Op names used in TransportError.
const (
	OpReadCoils = "read_coils"
	OpWriteCoil = "write_coil"
)

// TransportError is a failed request on an open connection: a device
// exception, a timeout, or a broken socket.
type TransportError struct {
	Op       string
	Address  uint16
	Quantity uint16 // reads only
	Value    *bool  // writes only
	Err      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Value != nil:
		return fmt.Sprintf("plc: %s addr=%d value=%t: %v", e.Op, e.Address, *e.Value, e.Err)
	case e.Quantity > 0:
		return fmt.Sprintf("plc: %s addr=%d qty=%d: %v", e.Op, e.Address, e.Quantity, e.Err)
	default:
		return fmt.Sprintf("plc: %s addr=%d: %v", e.Op, e.Address, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExceptionCode returns the Modbus exception code when the device answered
// with an exception response.
func (e *TransportError) ExceptionCode() (byte, bool) {
	var me *modbus.ModbusError
	if errors.As(e.Err, &me) {
		return me.ExceptionCode, true
	}
	return 0, false
}

// IsConnect reports whether err is (or wraps) a ConnectError.
func IsConnect(err error) bool {
	var ce *ConnectError
	return errors.As(err, &ce)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
