// internal/plc/modbus/client.go
package modbus

import (
	"errors"
	"log"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/deflector-control/internal/plc"
)

const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

// Client is a single Modbus TCP connection to one PLC unit.
// It is not safe for concurrent use; one operation owns it from Dial to Close.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Config is minimal transport config.
type Config struct {
	Endpoint string // host:port
	UnitID   uint8
	Timeout  time.Duration

	// Logger receives raw frames from the transport when set.
	Logger *log.Logger
}

// Dial opens a Modbus TCP session. Failures are *plc.ConnectError.
func Dial(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, &plc.ConnectError{Endpoint: cfg.Endpoint, Err: errors.New("endpoint required")}
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID
	h.Logger = cfg.Logger

	if err := h.Connect(); err != nil {
		return nil, &plc.ConnectError{Endpoint: cfg.Endpoint, Err: err}
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Dialer binds cfg into a plc.Dialer.
func Dialer(cfg Config) plc.Dialer {
	return func() (plc.Conn, error) {
		c, err := Dial(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- plc.Coils interface ----

// WriteCoil sets one coil (FC 5). A nil error is the device acknowledgement:
// the library verifies the echoed address and value.
func (c *Client) WriteCoil(addr uint16, value bool) error {
	if c == nil || c.client == nil {
		return &plc.TransportError{Op: plc.OpWriteCoil, Address: addr, Value: &value, Err: errors.New("not connected")}
	}

	v := coilOff
	if value {
		v = coilOn
	}

	if _, err := c.client.WriteSingleCoil(addr, v); err != nil {
		return &plc.TransportError{Op: plc.OpWriteCoil, Address: addr, Value: &value, Err: err}
	}
	return nil
}

// ReadCoils reads qty consecutive coils starting at addr (FC 1).
func (c *Client) ReadCoils(addr, qty uint16) ([]bool, error) {
	if c == nil || c.client == nil {
		return nil, &plc.TransportError{Op: plc.OpReadCoils, Address: addr, Quantity: qty, Err: errors.New("not connected")}
	}
	if qty == 0 {
		return nil, &plc.TransportError{Op: plc.OpReadCoils, Address: addr, Err: errors.New("quantity must be > 0")}
	}

	raw, err := c.client.ReadCoils(addr, qty)
	if err != nil {
		return nil, &plc.TransportError{Op: plc.OpReadCoils, Address: addr, Quantity: qty, Err: err}
	}
	if len(raw)*8 < int(qty) {
		return nil, &plc.TransportError{Op: plc.OpReadCoils, Address: addr, Quantity: qty, Err: errors.New("short read-bits payload")}
	}

	return unpackBits(raw, int(qty)), nil
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		byteIdx := i / 8
		bitIdx := i % 8
		if byteIdx >= len(data) {
			continue
		}
		out[i] = data[byteIdx]&(1<<bitIdx) != 0
	}
	return out
}
