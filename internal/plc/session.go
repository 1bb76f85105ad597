// internal/plc/session.go
package plc

import (
	"errors"

	"go.uber.org/multierr"
)

// Coils is the coil-level contract every PLC operation is written against.
type Coils interface {
	WriteCoil(addr uint16, value bool) error    // FC 5
	ReadCoils(addr, qty uint16) ([]bool, error) // FC 1
}

// Conn is an exclusively owned PLC connection.
type Conn interface {
	Coils
	Close() error
}

// Dialer opens one fresh connection. ONE attempt per call.
type Dialer func() (Conn, error)

// WithConn dials, runs fn, and closes the connection on every exit path.
// A dial failure returns before fn runs. A close failure is appended to the
// error returned by fn; if fn succeeded it is returned alone as *CloseError.
func WithConn(dial Dialer, fn func(Coils) error) (err error) {
	if dial == nil {
		return errors.New("plc: nil dialer")
	}

	conn, err := dial()
	if err != nil {
		return err
	}

	defer func() {
		cerr := conn.Close()
		if cerr == nil {
			return
		}
		if err == nil {
			err = &CloseError{Err: cerr}
			return
		}
		err = multierr.Append(err, cerr)
	}()

	return fn(conn)
}
