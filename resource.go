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
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the transport-level timeout applied to every
	// command/response exchange.
	DefaultTimeout = 10 * time.Second
	// DefaultSCPIPort is the instrument's raw-socket SCPI port.
	DefaultSCPIPort = 5025
	// DefaultBaudRate is the instrument's factory RS-232 baud rate.
	DefaultBaudRate = 115200
)

// OpenTransport parses a VISA-flavored resource string and opens the
// matching transporter. Accepted formats:
//
//	TCPIP::<host>[::<port>][::SOCKET]   raw-socket SCPI over the LAN
//	ASRL::<device>[::<baud>]            serial port
//	<device path>                       serial port with defaults
//
// A zero timeout selects DefaultTimeout.
func OpenTransport(resource string, timeout time.Duration) (Transporter, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	fields := strings.Split(resource, "::")
	kind := strings.ToUpper(fields[0])
	switch {
	case strings.HasPrefix(kind, "TCPIP"):
		return openTCPResource(resource, fields, timeout)
	case strings.HasPrefix(kind, "ASRL"):
		return openSerialResource(resource, fields, timeout)
	default:
		if len(fields) > 1 {
			return nil, fmt.Errorf("sdm3045x: unsupported resource %q", resource)
		}
		// Bare device path such as /dev/ttyUSB0.
		cfg := DefaultSerialConfig(resource)
		cfg.Timeout = timeout
		return NewSerialTransporter(cfg)
	}
}

func openTCPResource(resource string, fields []string, timeout time.Duration) (Transporter, error) {
	if len(fields) < 2 || fields[1] == "" {
		return nil, fmt.Errorf("sdm3045x: missing host in resource %q", resource)
	}
	host := fields[1]
	port := DefaultSCPIPort
	// Trailing SOCKET/INSTR tokens are accepted and ignored.
	if len(fields) >= 3 && fields[2] != "" && !isResourceSuffix(fields[2]) {
		p, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("sdm3045x: bad port %q in resource %q: %w", fields[2], resource, err)
		}
		port = p
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("sdm3045x: failed to connect to %s: %w", addr, err)
	}
	return NewTCPTransporter(conn, timeout, nil), nil
}

func openSerialResource(resource string, fields []string, timeout time.Duration) (Transporter, error) {
	if len(fields) < 2 || fields[1] == "" {
		return nil, fmt.Errorf("sdm3045x: missing device in resource %q", resource)
	}
	cfg := DefaultSerialConfig(fields[1])
	cfg.Timeout = timeout
	if len(fields) >= 3 && fields[2] != "" && !isResourceSuffix(fields[2]) {
		baud, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("sdm3045x: bad baud rate %q in resource %q: %w", fields[2], resource, err)
		}
		cfg.BaudRate = baud
	}
	return NewSerialTransporter(cfg)
}

// isResourceSuffix reports whether a resource field is one of the
// VISA class suffixes rather than a numeric parameter.
func isResourceSuffix(field string) bool {
	switch strings.ToUpper(field) {
	case "SOCKET", "INSTR":
		return true
	}
	return false
}
