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
	"strconv"
	"strings"
)

// validatorKind selects how a value is checked before it is written.
type validatorKind int

const (
	validateDiscreteSet validatorKind = iota // membership in Allowed
	validateRange                            // closed interval [Min, Max]
)

// deviceAttribute describes one instrument attribute with metadata:
// its query command, its write format string and the validation
// applied to write values. Read-back values are trusted verbatim from
// the instrument; validation happens only on write.
type deviceAttribute struct {
	Name    string        // attribute name used in error messages
	Query   string        // SCPI query command
	Write   string        // SCPI write format string (one %s or %g verb)
	Kind    validatorKind // which validator applies on write
	Allowed []string      // allowed members for validateDiscreteSet
	Min     float64       // lower bound for validateRange
	Max     float64       // upper bound for validateRange
}

// deviceAttributes maps attribute names to their command metadata.
// The function attribute is the only one whose argument is wrapped in
// double quotes on the wire.
var deviceAttributes = map[string]deviceAttribute{
	"function": {
		Name:  "function",
		Query: "FUNCtion?",
		Write: "FUNCtion \"%s\"",
		Kind:  validateDiscreteSet,
		Allowed: []string{
			FunctionVoltageDC, FunctionVoltageAC,
			FunctionCurrentDC, FunctionCurrentAC,
			FunctionResistance, FunctionFrequency,
			FunctionPeriod, FunctionDiode, FunctionContinuity,
		},
	},
	"voltage_range": {
		Name:  "voltage_range",
		Query: "VOLTage:RANGe?",
		Write: "VOLTage:RANGe %g",
		Kind:  validateRange,
		Min:   0.1,
		Max:   1000,
	},
	"current_range": {
		Name:  "current_range",
		Query: "CURRent:RANGe?",
		Write: "CURRent:RANGe %g",
		Kind:  validateRange,
		Min:   0.00001,
		Max:   10,
	},
	"resistance_range": {
		Name:  "resistance_range",
		Query: "RESistance:RANGe?",
		Write: "RESistance:RANGe %g",
		Kind:  validateRange,
		Min:   0.1,
		Max:   100000000,
	},
	"capacitance_range": {
		Name:  "capacitance_range",
		Query: "CAPacitance:RANGe?",
		Write: "CAPacitance:RANGe %g",
		Kind:  validateRange,
		Min:   2e-9,
		Max:   1e-2,
	},
	"trigger_source": {
		Name:    "trigger_source",
		Query:   "TRIGger:SOURce?",
		Write:   "TRIGger:SOURce %s",
		Kind:    validateDiscreteSet,
		Allowed: []string{TriggerImmediate, TriggerExternal, TriggerBus},
	},
}

// lookupAttribute returns the metadata for a named attribute.
func lookupAttribute(name string) (deviceAttribute, error) {
	attr, ok := deviceAttributes[name]
	if !ok {
		return deviceAttribute{}, fmt.Errorf("sdm3045x: unknown attribute %q", name)
	}
	return attr, nil
}

// getAttribute issues the attribute's query command and returns the
// reply with surrounding quote characters stripped.
func (d *SDM3045X) getAttribute(name string) (string, error) {
	attr, err := lookupAttribute(name)
	if err != nil {
		return "", err
	}
	resp, err := d.ask(attr.Query)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(resp), "\""), nil
}

// getFloatAttribute queries a numeric attribute and parses the reply.
func (d *SDM3045X) getFloatAttribute(name string) (float64, error) {
	resp, err := d.getAttribute(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(resp, 64)
	if err != nil {
		return 0, fmt.Errorf("sdm3045x: unexpected reply %q for %s: %w", resp, name, err)
	}
	return value, nil
}

// setDiscreteAttribute validates value against the attribute's allowed
// set, writes the formatted command and drains the error queue.
func (d *SDM3045X) setDiscreteAttribute(name, value string) error {
	attr, err := lookupAttribute(name)
	if err != nil {
		return err
	}
	member := false
	for _, allowed := range attr.Allowed {
		if value == allowed {
			member = true
			break
		}
	}
	if !member {
		return fmt.Errorf("sdm3045x: %s %q not in %v: %w",
			attr.Name, value, attr.Allowed, ErrInvalidParameter)
	}
	if err := d.write(fmt.Sprintf(attr.Write, value)); err != nil {
		return err
	}
	return d.CheckErrors()
}

// setRangeAttribute validates value against the attribute's closed
// interval, writes the formatted command and drains the error queue.
func (d *SDM3045X) setRangeAttribute(name string, value float64) error {
	attr, err := lookupAttribute(name)
	if err != nil {
		return err
	}
	if value < attr.Min || value > attr.Max {
		return fmt.Errorf("sdm3045x: %s %g outside [%g, %g]: %w",
			attr.Name, value, attr.Min, attr.Max, ErrOutOfRange)
	}
	if err := d.write(fmt.Sprintf(attr.Write, value)); err != nil {
		return err
	}
	return d.CheckErrors()
}
