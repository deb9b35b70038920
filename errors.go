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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors raised before any command is transmitted.
var (
	// ErrInvalidParameter reports a value outside an attribute's discrete set.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrOutOfRange reports a numeric value outside an attribute's closed interval.
	ErrOutOfRange = errors.New("value out of range")
)

// InstrumentError is a non-zero entry read back from the instrument
// error queue (SYSTem:ERRor?).
type InstrumentError struct {
	Code    int    // SCPI error code, negative for standard errors
	Message string // error message with surrounding quotes stripped
}

func (e *InstrumentError) Error() string {
	return fmt.Sprintf("Instrument Error %d: %s", e.Code, e.Message)
}

// errCodeUnparsable is reported when the code field of an error record
// cannot be parsed as an integer.
const errCodeUnparsable = -999

// parseErrorRecord parses one SYSTem:ERRor? response line of the form
// <code>,<quoted message>. Degenerate forms are normalized rather than
// rejected: an empty line means the queue is empty (ok=false), a line
// without a comma is a bare code with a placeholder message, and a
// non-numeric code yields errCodeUnparsable with the whole line as the
// message.
func parseErrorRecord(raw string) (code int, message string, ok bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return 0, "", false
	}
	codeField, msgField, found := strings.Cut(line, ",")
	if !found {
		msgField = "No error message"
	}
	code, err := strconv.Atoi(strings.TrimSpace(codeField))
	if err != nil {
		return errCodeUnparsable, line, true
	}
	message = strings.Trim(strings.TrimSpace(msgField), "\"")
	return code, message, true
}
