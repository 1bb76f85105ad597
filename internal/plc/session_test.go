// internal/plc/session_test.go
package plc

import (
	"errors"
	"strings"
	"testing"
)

type fakeConn struct {
	closed   int
	closeErr error
}

func (f *fakeConn) WriteCoil(addr uint16, value bool) error    { return nil }
func (f *fakeConn) ReadCoils(addr, qty uint16) ([]bool, error) { return make([]bool, qty), nil }
func (f *fakeConn) Close() error {
	f.closed++
	return f.closeErr
}

func dialerFor(c *fakeConn) Dialer {
	return func() (Conn, error) { return c, nil }
}

func TestWithConn_ClosesOnSuccess(t *testing.T) {
	c := &fakeConn{}

	if err := WithConn(dialerFor(c), func(Coils) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.closed != 1 {
		t.Fatalf("expected 1 close, got %d", c.closed)
	}
}

func TestWithConn_ClosesOnError(t *testing.T) {
	c := &fakeConn{}
	opErr := errors.New("boom")

	err := WithConn(dialerFor(c), func(Coils) error { return opErr })
	if !errors.Is(err, opErr) {
		t.Fatalf("expected op error, got %v", err)
	}
	if c.closed != 1 {
		t.Fatalf("expected 1 close, got %d", c.closed)
	}
}

func TestWithConn_ClosesOnPanic(t *testing.T) {
	c := &fakeConn{}

	func() {
		defer func() { _ = recover() }()
		_ = WithConn(dialerFor(c), func(Coils) error { panic("boom") })
	}()

	if c.closed != 1 {
		t.Fatalf("expected 1 close after panic, got %d", c.closed)
	}
}

func TestWithConn_CloseErrorCombined(t *testing.T) {
	c := &fakeConn{closeErr: errors.New("close failed")}
	opErr := errors.New("op failed")

	err := WithConn(dialerFor(c), func(Coils) error { return opErr })
	if !errors.Is(err, opErr) {
		t.Fatalf("op error lost: %v", err)
	}
	if !strings.Contains(err.Error(), "close failed") {
		t.Fatalf("close error lost: %v", err)
	}
}

func TestWithConn_DialFailureSkipsFn(t *testing.T) {
	dialErr := &ConnectError{Endpoint: "10.0.0.1:502", Err: errors.New("refused")}
	called := false

	err := WithConn(
		func() (Conn, error) { return nil, dialErr },
		func(Coils) error { called = true; return nil },
	)

	if called {
		t.Fatalf("fn must not run when dial fails")
	}
	if !IsConnect(err) {
		t.Fatalf("expected connect error, got %v", err)
	}
}

func TestTransportError_Message(t *testing.T) {
	v := true
	err := &TransportError{Op: OpWriteCoil, Address: 39, Value: &v, Err: errors.New("timeout")}

	if got := err.Error(); !strings.Contains(got, "addr=39") || !strings.Contains(got, "value=true") {
		t.Fatalf("missing context: %s", got)
	}
	if _, ok := err.ExceptionCode(); ok {
		t.Fatalf("plain error must not expose an exception code")
	}
}

func TestWithConn_CloseErrorAfterSuccess(t *testing.T) {
	c := &fakeConn{closeErr: errors.New("close failed")}

	err := WithConn(dialerFor(c), func(Coils) error { return nil })

	var ce *CloseError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CloseError, got %v", err)
	}
	if ce.Err != c.closeErr {
		t.Fatalf("close cause lost: %v", ce.Err)
	}
}
