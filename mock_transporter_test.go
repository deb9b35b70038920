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
	"testing"
)

// exchange is one scripted command/reply pair.
type exchange struct {
	cmd   string
	reply string
	query bool
}

// wr scripts a command with no reply.
func wr(cmd string) exchange {
	return exchange{cmd: cmd}
}

// qr scripts a query and its reply.
func qr(cmd, reply string) exchange {
	return exchange{cmd: cmd, reply: reply, query: true}
}

// initExchanges is the command sequence every construction issues.
func initExchanges() []exchange {
	return []exchange{
		wr("*CLS"),
		wr("*RST"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	}
}

// mockTransporter plays back a scripted conversation and fails the
// test on any out-of-order or unexpected command.
type mockTransporter struct {
	t      *testing.T
	script []exchange
	pos    int
	closed bool
}

func newMockTransporter(t *testing.T, script ...[]exchange) *mockTransporter {
	var all []exchange
	for _, part := range script {
		all = append(all, part...)
	}
	return &mockTransporter{t: t, script: all}
}

func (m *mockTransporter) next(cmd string) exchange {
	m.t.Helper()
	if m.pos >= len(m.script) {
		m.t.Fatalf("unexpected command %q after end of script", cmd)
	}
	ex := m.script[m.pos]
	m.pos++
	if cmd != ex.cmd {
		m.t.Fatalf("expected command %q, got %q", ex.cmd, cmd)
	}
	return ex
}

func (m *mockTransporter) WriteCommand(cmd string) error {
	m.t.Helper()
	ex := m.next(cmd)
	if ex.query {
		m.t.Fatalf("command %q was scripted as a query", cmd)
	}
	return nil
}

func (m *mockTransporter) Ask(cmd string) (string, error) {
	m.t.Helper()
	ex := m.next(cmd)
	if !ex.query {
		m.t.Fatalf("query %q was scripted as a plain command", cmd)
	}
	return ex.reply, nil
}

func (m *mockTransporter) Close() error {
	m.closed = true
	return nil
}

// verifyDone fails the test if scripted exchanges were left unconsumed.
func (m *mockTransporter) verifyDone() {
	m.t.Helper()
	if m.pos != len(m.script) {
		m.t.Fatalf("script not fully consumed: %d of %d exchanges", m.pos, len(m.script))
	}
}

// newTestDriver constructs a driver over a scripted transporter, with
// the construction exchanges prepended to the script.
func newTestDriver(t *testing.T, script ...[]exchange) (*SDM3045X, *mockTransporter) {
	t.Helper()
	parts := append([][]exchange{initExchanges()}, script...)
	mock := newMockTransporter(t, parts...)
	d, err := New(mock)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	d.SetLogger(nil)
	return d, mock
}
