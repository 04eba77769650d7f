// Package serialport opens the controller's serial link as a plain byte
// stream. Framing is not handled here; the ingest scanner owns that.
package serialport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Config identifies the port. 8N1 framing is fixed; the controller does not
// negotiate.
type Config struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
}

// Open opens the port and applies the read timeout. A timed-out read returns
// (0, nil), not an error; the frame scanner counts those and turns sustained
// silence into a transport failure, so the timeout bounds how long a dead
// link can sit undetected.
func Open(cfg Config) (io.ReadCloser, error) {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Port, err)
	}
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("serialport: set timeout on %s: %w", cfg.Port, err)
	}
	return port, nil
}
