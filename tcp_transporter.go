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
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

// TCPTransporter frames SCPI command lines over a raw-socket SCPI
// connection (port 5025 on the instrument's LAN interface).
type TCPTransporter struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
	logger  *log.Logger
	mu      sync.Mutex // protects connection operations
	closed  bool
}

// NewTCPTransporter creates a new TCPTransporter with the given
// connection and timeout. A nil logger disables transport logging.
func NewTCPTransporter(conn net.Conn, timeout time.Duration, logger io.Writer) *TCPTransporter {
	var tcpLogger *log.Logger
	if logger != nil {
		tcpLogger = log.New(logger, "[TCP] ", log.LstdFlags|log.Lshortfile)
	}
	return &TCPTransporter{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		timeout: timeout,
		logger:  tcpLogger,
	}
}

// log writes a log message if a logger is configured
func (t *TCPTransporter) log(format string, v ...interface{}) {
	if t.logger != nil {
		t.logger.Printf(format, v...)
	}
}

// setDeadline sets the read/write deadline for the connection
func (t *TCPTransporter) setDeadline() error {
	if t.timeout > 0 {
		return t.conn.SetDeadline(time.Now().Add(t.timeout))
	}
	return nil
}

// clearDeadline clears the deadline on the connection
func (t *TCPTransporter) clearDeadline() {
	t.conn.SetDeadline(time.Time{})
}

// WriteCommand sends one command line over the connection.
func (t *TCPTransporter) WriteCommand(cmd string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeLine(cmd)
}

// Ask sends one query line and reads back one reply line.
func (t *TCPTransporter) Ask(cmd string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.writeLine(cmd); err != nil {
		return "", err
	}
	return t.readLine()
}

func (t *TCPTransporter) writeLine(cmd string) error {
	if t.closed {
		return fmt.Errorf("transporter is closed")
	}
	if cmd == "" {
		return fmt.Errorf("cannot write empty command")
	}

	t.log("Writing command: %s", cmd)

	if err := t.setDeadline(); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	defer t.clearDeadline()

	data := []byte(cmd + "\n")
	written := 0
	for written < len(data) {
		n, err := t.conn.Write(data[written:])
		if err != nil {
			return fmt.Errorf("write failed after %d bytes: %w", written, err)
		}
		written += n
	}
	return nil
}

func (t *TCPTransporter) readLine() (string, error) {
	if err := t.setDeadline(); err != nil {
		return "", fmt.Errorf("failed to set read deadline: %w", err)
	}
	defer t.clearDeadline()

	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read failed: %w", err)
	}

	line = strings.TrimRight(line, "\r\n")
	t.log("Read reply: %s", line)
	return line, nil
}

// Close closes the underlying connection and marks the transporter as closed
func (t *TCPTransporter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil // already closed
	}

	t.closed = true
	t.log("Closing TCP transporter")

	if t.conn != nil {
		return t.conn.Close()
	}
	return nil
}

// IsClosed returns whether the transporter is closed
func (t *TCPTransporter) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// GetLocalAddr returns the local network address
func (t *TCPTransporter) GetLocalAddr() net.Addr {
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

// GetRemoteAddr returns the remote network address
func (t *TCPTransporter) GetRemoteAddr() net.Addr {
	if t.conn == nil {
		return nil
	}
	return t.conn.RemoteAddr()
}
