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
	"io"
)

// Measurement functions accepted by the FUNCtion command.
const (
	FunctionVoltageDC  = "VOLT:DC"
	FunctionVoltageAC  = "VOLT:AC"
	FunctionCurrentDC  = "CURR:DC"
	FunctionCurrentAC  = "CURR:AC"
	FunctionResistance = "RES"
	FunctionFrequency  = "FREQ"
	FunctionPeriod     = "PER"
	FunctionDiode      = "DIOD"
	FunctionContinuity = "CONT"
)

// Trigger sources accepted by TRIGger:SOURce.
const (
	TriggerImmediate = "IMM"
	TriggerExternal  = "EXT"
	TriggerBus       = "BUS"
)

// Temperature transducer types accepted by TEMPerature:TRANsducer.
const (
	TransducerRTD          = "RTD"
	TransducerThermistor   = "THER"
	TransducerThermocouple = "TC"
)

// MultimeterApi defines the interface for SDM3045X multimeter operations.
type MultimeterApi interface {
	SetLogger(io.Writer) // SetLogger sets the logger for the driver
	Close() error        // Close closes the underlying transporter

	// Attribute accessors
	Function() (string, error)             // Function returns the active measurement function
	SetFunction(fn string) error           // SetFunction selects the measurement function
	VoltageRange() (float64, error)        // VoltageRange returns the voltage range in volts
	SetVoltageRange(rng float64) error     // SetVoltageRange sets the voltage range in volts
	CurrentRange() (float64, error)        // CurrentRange returns the current range in amperes
	SetCurrentRange(rng float64) error     // SetCurrentRange sets the current range in amperes
	ResistanceRange() (float64, error)     // ResistanceRange returns the resistance range in ohms
	SetResistanceRange(rng float64) error  // SetResistanceRange sets the resistance range in ohms
	CapacitanceRange() (float64, error)    // CapacitanceRange returns the capacitance range in farads
	SetCapacitanceRange(rng float64) error // SetCapacitanceRange sets the capacitance range in farads
	TriggerSource() (string, error)        // TriggerSource returns the active trigger source
	SetTriggerSource(source string) error  // SetTriggerSource selects the trigger source

	// Measurements
	VoltageDC() (float64, error)    // VoltageDC measures DC voltage in volts
	VoltageAC() (float64, error)    // VoltageAC measures AC voltage in volts
	CurrentDC() (float64, error)    // CurrentDC measures DC current in amperes
	CurrentAC() (float64, error)    // CurrentAC measures AC current in amperes
	Resistance() (float64, error)   // Resistance measures resistance in ohms
	Capacitance() (float64, error)  // Capacitance measures capacitance in farads
	Frequency() (float64, error)    // Frequency measures frequency in hertz
	Period() (float64, error)       // Period measures period in seconds
	DiodeVoltage() (float64, error) // DiodeVoltage measures the diode forward drop in volts
	Temperature() (float64, error)  // Temperature measures temperature with the active transducer
	Continuity() (bool, error)      // Continuity tests continuity
	Read() (float64, error)         // Read measures with the active function (READ?)
	Fetch() (float64, error)        // Fetch returns the last triggered result (FETCh?)

	// Configuration
	ConfigureVoltageDC(rng ...float64) error                 // ConfigureVoltageDC switches to DC voltage measurement
	ConfigureVoltageAC(rng ...float64) error                 // ConfigureVoltageAC switches to AC voltage measurement
	ConfigureCurrentDC(rng ...float64) error                 // ConfigureCurrentDC switches to DC current measurement
	ConfigureCurrentAC(rng ...float64) error                 // ConfigureCurrentAC switches to AC current measurement
	ConfigureResistance(fourWire bool, rng ...float64) error // ConfigureResistance switches to 2- or 4-wire resistance
	ConfigureCapacitance(rng ...float64) error               // ConfigureCapacitance switches to capacitance measurement
	ConfigureTemperature(cfg TemperatureConfig) error        // ConfigureTemperature selects a transducer and switches to temperature

	// Trigger and utility
	Trigger() error          // Trigger initiates a measurement (INITiate)
	Reset() error            // Reset restores default settings (*RST)
	ClearStatus() error      // ClearStatus clears status registers and the error queue (*CLS)
	ID() (string, error)     // ID returns the identification string (*IDN?)
	SelfTest() (bool, error) // SelfTest runs the instrument self-test (*TST?)
	CheckErrors() error      // CheckErrors drains the instrument error queue
}
