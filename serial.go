package main

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialPort wraps a go.bug.st/serial port opened for short, non-blocking
// style reads.
type SerialPort struct {
	name string
	port serial.Port
}

// OpenSerial opens the named serial device at the given baud rate. Reads
// return after at most readTimeout with whatever bytes have arrived.
func OpenSerial(name string, baud int, readTimeout time.Duration) (*SerialPort, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("serial: read timeout %s: %w", name, err)
	}
	logger.Info("serial: port opened", "device", name, "baud", baud, "read_timeout", readTimeout)
	return &SerialPort{name: name, port: p}, nil
}

// Read returns the bytes received within the read timeout. n == 0 with a
// nil error means nothing arrived.
func (s *SerialPort) Read(buf []byte) (int, error) {
	return s.port.Read(buf)
}

func (s *SerialPort) Write(data []byte) (int, error) {
	n, err := s.port.Write(data)
	if err != nil {
		return n, fmt.Errorf("serial: write %s: %w", s.name, err)
	}
	return n, nil
}

// Close closes the underlying serial port.
func (s *SerialPort) Close() error {
	logger.Info("serial: closing port", "device", s.name)
	return s.port.Close()
}
