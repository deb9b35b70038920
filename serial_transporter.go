// Copyright (C) 2025  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package sdm3045x

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	serial "github.com/hootrhino/goserial"
)

// SerialConfig holds configuration parameters for the serial transporter.
type SerialConfig struct {
	Address  string        // serial device, e.g. /dev/ttyUSB0 or COM3
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration
}

// DefaultSerialConfig returns the factory communication settings of the
// instrument's RS-232 interface.
func DefaultSerialConfig(address string) SerialConfig {
	return SerialConfig{
		Address:  address,
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  DefaultTimeout,
	}
}

// SerialTransporter frames SCPI command lines over a serial port.
// Writes append '\n', replies are read up to '\n' and trimmed.
type SerialTransporter struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
	mu     sync.Mutex // one in-flight exchange at a time
	closed bool
}

// NewSerialTransporter opens the serial port described by config and
// returns a line-framed transporter over it.
func NewSerialTransporter(config SerialConfig) (*SerialTransporter, error) {
	if config.BaudRate <= 0 {
		config.BaudRate = DefaultBaudRate
	}
	if config.DataBits <= 0 {
		config.DataBits = 8
	}
	if config.StopBits <= 0 {
		config.StopBits = 1
	}
	if config.Parity == "" {
		config.Parity = "N"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	port, err := serial.Open(&serial.Config{
		Address:  config.Address,
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
		StopBits: config.StopBits,
		Parity:   config.Parity,
		Timeout:  config.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("sdm3045x: failed to open serial port %s: %w", config.Address, err)
	}
	return NewSerialTransporterFromPort(port), nil
}

// NewSerialTransporterFromPort wraps an already-open port. The port's
// own timeout governs blocking reads.
func NewSerialTransporterFromPort(port io.ReadWriteCloser) *SerialTransporter {
	return &SerialTransporter{
		port:   port,
		reader: bufio.NewReader(port),
	}
}

// WriteCommand sends one command line to the port.
func (t *SerialTransporter) WriteCommand(cmd string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeLine(cmd)
}

// Ask sends one query line and reads back one reply line.
func (t *SerialTransporter) Ask(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.writeLine(cmd); err != nil {
		return "", err
	}
	return t.readLine()
}

func (t *SerialTransporter) writeLine(cmd string) error {
	if t.closed {
		return fmt.Errorf("transporter is closed")
	}
	if cmd == "" {
		return fmt.Errorf("cannot write empty command")
	}
	if _, err := t.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

func (t *SerialTransporter) readLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read failed: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close closes the underlying serial port.
func (t *SerialTransporter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}

// IsConnected returns whether the transporter is still open.
func (t *SerialTransporter) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed
}
