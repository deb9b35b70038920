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
	"io"
	"strconv"
	"strings"
)

// SCPI commands used by the driver.
const (
	cmdClearStatus = "*CLS"
	cmdReset       = "*RST"
	cmdIdentify    = "*IDN?"
	cmdSelfTest    = "*TST?"
	cmdInitiate    = "INITiate"
	cmdFetch       = "FETCh?"
	cmdRead        = "READ?"
	cmdSystemError = "SYSTem:ERRor?"

	cmdMeasureVoltageDC     = "MEASure:VOLTage:DC?"
	cmdMeasureVoltageAC     = "MEASure:VOLTage:AC?"
	cmdMeasureCurrentDC     = "MEASure:CURRent:DC?"
	cmdMeasureCurrentAC     = "MEASure:CURRent:AC?"
	cmdMeasureResistance    = "MEASure:RESistance?"
	cmdMeasureCapacitance   = "MEASure:CAPacitance?"
	cmdMeasureFrequency     = "MEASure:FREQuency?"
	cmdMeasurePeriod        = "MEASure:PERiod?"
	cmdMeasureDiode         = "MEASure:DIODe?"
	cmdMeasureTemperature   = "MEASure:TEMPerature?"
	cmdMeasureContinuity    = "MEASure:CONTinuity?"
	cmdConfigureVoltageDC   = "CONFigure:VOLTage:DC"
	cmdConfigureVoltageAC   = "CONFigure:VOLTage:AC"
	cmdConfigureCurrentDC   = "CONFigure:CURRent:DC"
	cmdConfigureCurrentAC   = "CONFigure:CURRent:AC"
	cmdConfigureResistance  = "CONFigure:RESistance"
	cmdConfigureCapacitance = "CONFigure:CAPacitance"

	cmdResistanceMode2Wire = "SENSe:RESistance:MODE RESistance"
	cmdResistanceMode4Wire = "SENSe:RESistance:MODE FRESistance"
)

// Default sensor subtypes applied when a TemperatureConfig field is
// left empty. Whether these match the instrument power-on defaults is
// undocumented; they are kept as literal defaults.
const (
	defaultRTDType           = "PT100"
	defaultThermistorType    = "10K"
	defaultThermocoupleType  = "K"
	defaultReferenceJunction = "INT"
	defaultRTDWiring         = 4
)

// TemperatureConfig selects the temperature transducer and its
// type-specific settings. Zero-valued fields fall back to defaults.
type TemperatureConfig struct {
	Transducer        string // RTD, THER or TC; empty selects TC
	Type              string // sensor subtype, e.g. PT100, 10K, K
	Wiring            int    // RTD wiring mode; 0 selects 4-wire
	ReferenceJunction string // thermocouple reference junction, INT or EXT; empty selects INT
}

// SDM3045X drives a Siglent SDM3045X digital multimeter over a
// line-framed SCPI transport. The session owns the transporter
// exclusively; concurrent callers must serialize access externally.
type SDM3045X struct {
	transporter Transporter
	logger      io.Writer
}

var _ MultimeterApi = (*SDM3045X)(nil)

// New creates a driver over an already-open transport and runs the
// initialization sequence: clear status (no error check, the queue is
// being reset), reset to defaults, then drain the error queue. A
// freshly constructed session therefore starts with default instrument
// state and an empty error queue.
func New(t Transporter) (*SDM3045X, error) {
	d := &SDM3045X{
		transporter: t,
		logger:      NewSimpleLogger(nil, LevelWarning, "sdm3045x"),
	}
	if err := d.write(cmdClearStatus); err != nil {
		return nil, err
	}
	if err := d.write(cmdReset); err != nil {
		return nil, err
	}
	if err := d.CheckErrors(); err != nil {
		return nil, err
	}
	return d, nil
}

// Open connects to the instrument at the given resource string (see
// OpenTransport for the accepted formats) and runs the initialization
// sequence.
func Open(resource string) (*SDM3045X, error) {
	t, err := OpenTransport(resource, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	d, err := New(t)
	if err != nil {
		t.Close()
		return nil, err
	}
	return d, nil
}

// SetLogger sets the logger for the driver.
func (d *SDM3045X) SetLogger(logger io.Writer) {
	d.logger = logger
}

// Close closes the underlying transporter.
func (d *SDM3045X) Close() error {
	return d.transporter.Close()
}

// write sends one command line to the instrument.
func (d *SDM3045X) write(cmd string) error {
	if d.logger != nil {
		fmt.Fprintf(d.logger, "DEBUG: sdm3045x: -> %s\n", cmd)
	}
	if err := d.transporter.WriteCommand(cmd); err != nil {
		return fmt.Errorf("sdm3045x: write %q failed: %w", cmd, err)
	}
	return nil
}

// ask sends one query and returns the reply line.
func (d *SDM3045X) ask(cmd string) (string, error) {
	if d.logger != nil {
		fmt.Fprintf(d.logger, "DEBUG: sdm3045x: -> %s\n", cmd)
	}
	resp, err := d.transporter.Ask(cmd)
	if err != nil {
		return "", fmt.Errorf("sdm3045x: query %q failed: %w", cmd, err)
	}
	if d.logger != nil {
		fmt.Fprintf(d.logger, "DEBUG: sdm3045x: <- %s\n", resp)
	}
	return resp, nil
}

// askFloat sends one query and parses the reply as a float.
func (d *SDM3045X) askFloat(cmd string) (float64, error) {
	resp, err := d.ask(cmd)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, fmt.Errorf("sdm3045x: unexpected reply %q for %q: %w", resp, cmd, err)
	}
	return value, nil
}

// writeChecked sends one command and then drains the error queue.
func (d *SDM3045X) writeChecked(cmd string) error {
	if err := d.write(cmd); err != nil {
		return err
	}
	return d.CheckErrors()
}

// CheckErrors drains the instrument error queue. SCPI instruments
// report errors as a FIFO terminated by a "0, No error" sentinel; the
// first non-zero entry is returned as an *InstrumentError without
// draining the remaining entries. On nil return the queue is empty.
func (d *SDM3045X) CheckErrors() error {
	resp, err := d.ask(cmdSystemError)
	if err != nil {
		return err
	}
	code, message, ok := parseErrorRecord(resp)
	if !ok || code == 0 {
		return nil
	}
	instErr := &InstrumentError{Code: code, Message: message}
	if d.logger != nil {
		fmt.Fprintf(d.logger, "ERROR: sdm3045x: %v\n", instErr)
	}
	return instErr
}

//
// Attribute accessors
//

// Function returns the active measurement function.
func (d *SDM3045X) Function() (string, error) {
	return d.getAttribute("function")
}

// SetFunction selects the measurement function. Valid values are
// VOLT:DC, VOLT:AC, CURR:DC, CURR:AC, RES, FREQ, PER, DIOD and CONT.
func (d *SDM3045X) SetFunction(fn string) error {
	return d.setDiscreteAttribute("function", fn)
}

// VoltageRange returns the voltage measurement range in volts.
func (d *SDM3045X) VoltageRange() (float64, error) {
	return d.getFloatAttribute("voltage_range")
}

// SetVoltageRange sets the voltage measurement range in volts.
func (d *SDM3045X) SetVoltageRange(rng float64) error {
	return d.setRangeAttribute("voltage_range", rng)
}

// CurrentRange returns the current measurement range in amperes.
func (d *SDM3045X) CurrentRange() (float64, error) {
	return d.getFloatAttribute("current_range")
}

// SetCurrentRange sets the current measurement range in amperes.
func (d *SDM3045X) SetCurrentRange(rng float64) error {
	return d.setRangeAttribute("current_range", rng)
}

// ResistanceRange returns the resistance measurement range in ohms.
func (d *SDM3045X) ResistanceRange() (float64, error) {
	return d.getFloatAttribute("resistance_range")
}

// SetResistanceRange sets the resistance measurement range in ohms.
func (d *SDM3045X) SetResistanceRange(rng float64) error {
	return d.setRangeAttribute("resistance_range", rng)
}

// CapacitanceRange returns the capacitance measurement range in farads.
func (d *SDM3045X) CapacitanceRange() (float64, error) {
	return d.getFloatAttribute("capacitance_range")
}

// SetCapacitanceRange sets the capacitance measurement range in farads.
func (d *SDM3045X) SetCapacitanceRange(rng float64) error {
	return d.setRangeAttribute("capacitance_range", rng)
}

// TriggerSource returns the active trigger source.
func (d *SDM3045X) TriggerSource() (string, error) {
	return d.getAttribute("trigger_source")
}

// SetTriggerSource selects the trigger source: IMM, EXT or BUS.
func (d *SDM3045X) SetTriggerSource(source string) error {
	return d.setDiscreteAttribute("trigger_source", source)
}

//
// Measurements
//

// VoltageDC measures and returns the DC voltage in volts.
func (d *SDM3045X) VoltageDC() (float64, error) {
	return d.askFloat(cmdMeasureVoltageDC)
}

// VoltageAC measures and returns the AC voltage in volts.
func (d *SDM3045X) VoltageAC() (float64, error) {
	return d.askFloat(cmdMeasureVoltageAC)
}

// CurrentDC measures and returns the DC current in amperes.
func (d *SDM3045X) CurrentDC() (float64, error) {
	return d.askFloat(cmdMeasureCurrentDC)
}

// CurrentAC measures and returns the AC current in amperes.
func (d *SDM3045X) CurrentAC() (float64, error) {
	return d.askFloat(cmdMeasureCurrentAC)
}

// Resistance measures and returns the resistance in ohms.
func (d *SDM3045X) Resistance() (float64, error) {
	return d.askFloat(cmdMeasureResistance)
}

// Capacitance measures and returns the capacitance in farads.
func (d *SDM3045X) Capacitance() (float64, error) {
	return d.askFloat(cmdMeasureCapacitance)
}

// Frequency measures and returns the frequency in hertz.
func (d *SDM3045X) Frequency() (float64, error) {
	return d.askFloat(cmdMeasureFrequency)
}

// Period measures and returns the period in seconds.
func (d *SDM3045X) Period() (float64, error) {
	return d.askFloat(cmdMeasurePeriod)
}

// DiodeVoltage measures and returns the voltage drop across a diode in volts.
func (d *SDM3045X) DiodeVoltage() (float64, error) {
	return d.askFloat(cmdMeasureDiode)
}

// Temperature measures and returns the temperature with the active transducer.
func (d *SDM3045X) Temperature() (float64, error) {
	return d.askFloat(cmdMeasureTemperature)
}

// Continuity performs a continuity test. The reply is interpreted as a
// boolean through integer truth-value conversion.
func (d *SDM3045X) Continuity() (bool, error) {
	resp, err := d.ask(cmdMeasureContinuity)
	if err != nil {
		return false, err
	}
	n, err := strconv.Atoi(strings.Trim(strings.TrimSpace(resp), "\""))
	if err != nil {
		return false, fmt.Errorf("sdm3045x: unexpected continuity reply %q: %w", resp, err)
	}
	return n != 0, nil
}

// Read performs a measurement with the active function setting.
func (d *SDM3045X) Read() (float64, error) {
	resp, err := d.ask(cmdRead)
	if err != nil {
		return 0, err
	}
	if err := d.CheckErrors(); err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, fmt.Errorf("sdm3045x: unexpected reply %q for %q: %w", resp, cmdRead, err)
	}
	return value, nil
}

// Fetch returns the last triggered measurement result.
func (d *SDM3045X) Fetch() (float64, error) {
	resp, err := d.ask(cmdFetch)
	if err != nil {
		return 0, err
	}
	if err := d.CheckErrors(); err != nil {
		return 0, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		return 0, fmt.Errorf("sdm3045x: unexpected reply %q for %q: %w", resp, cmdFetch, err)
	}
	return value, nil
}

//
// Configuration
//

// configure writes a CONFigure command with an optional range argument
// and drains the error queue. At most one range value is accepted.
func (d *SDM3045X) configure(base string, rng []float64) error {
	cmd := base
	switch len(rng) {
	case 0:
	case 1:
		cmd = fmt.Sprintf("%s %g", base, rng[0])
	default:
		return fmt.Errorf("sdm3045x: at most one range value accepted, got %d: %w",
			len(rng), ErrInvalidParameter)
	}
	return d.writeChecked(cmd)
}

// ConfigureVoltageDC configures the instrument for DC voltage
// measurement, optionally with a fixed range in volts.
func (d *SDM3045X) ConfigureVoltageDC(rng ...float64) error {
	return d.configure(cmdConfigureVoltageDC, rng)
}

// ConfigureVoltageAC configures the instrument for AC voltage
// measurement, optionally with a fixed range in volts.
func (d *SDM3045X) ConfigureVoltageAC(rng ...float64) error {
	return d.configure(cmdConfigureVoltageAC, rng)
}

// ConfigureCurrentDC configures the instrument for DC current
// measurement, optionally with a fixed range in amperes.
func (d *SDM3045X) ConfigureCurrentDC(rng ...float64) error {
	return d.configure(cmdConfigureCurrentDC, rng)
}

// ConfigureCurrentAC configures the instrument for AC current
// measurement, optionally with a fixed range in amperes.
func (d *SDM3045X) ConfigureCurrentAC(rng ...float64) error {
	return d.configure(cmdConfigureCurrentAC, rng)
}

// ConfigureResistance configures the instrument for resistance
// measurement, selecting 2-wire or 4-wire sensing before the range is
// applied. The optional range is in ohms.
func (d *SDM3045X) ConfigureResistance(fourWire bool, rng ...float64) error {
	mode := cmdResistanceMode2Wire
	if fourWire {
		mode = cmdResistanceMode4Wire
	}
	if err := d.writeChecked(mode); err != nil {
		return err
	}
	return d.configure(cmdConfigureResistance, rng)
}

// ConfigureCapacitance configures the instrument for capacitance
// measurement, optionally with a fixed range in farads.
func (d *SDM3045X) ConfigureCapacitance(rng ...float64) error {
	return d.configure(cmdConfigureCapacitance, rng)
}

// ConfigureTemperature selects the temperature transducer and issues
// the type-specific secondary commands, each followed by an error
// check. Omitted settings fall back to the package defaults.
func (d *SDM3045X) ConfigureTemperature(cfg TemperatureConfig) error {
	transducer := cfg.Transducer
	if transducer == "" {
		transducer = TransducerThermocouple
	}
	switch transducer {
	case TransducerRTD, TransducerThermistor, TransducerThermocouple:
	default:
		return fmt.Errorf("sdm3045x: transducer %q not in [%s %s %s]: %w",
			cfg.Transducer, TransducerRTD, TransducerThermistor,
			TransducerThermocouple, ErrInvalidParameter)
	}
	if err := d.writeChecked(fmt.Sprintf("TEMPerature:TRANsducer %s", transducer)); err != nil {
		return err
	}
	switch transducer {
	case TransducerRTD:
		typ := cfg.Type
		if typ == "" {
			typ = defaultRTDType
		}
		wiring := cfg.Wiring
		if wiring == 0 {
			wiring = defaultRTDWiring
		}
		if err := d.writeChecked(fmt.Sprintf("TEMPerature:RTD:TYPE %s", typ)); err != nil {
			return err
		}
		return d.writeChecked(fmt.Sprintf("TEMPerature:RTD:WIRe %d", wiring))
	case TransducerThermistor:
		typ := cfg.Type
		if typ == "" {
			typ = defaultThermistorType
		}
		return d.writeChecked(fmt.Sprintf("TEMPerature:THERmistor:TYPE %s", typ))
	default: // thermocouple
		typ := cfg.Type
		if typ == "" {
			typ = defaultThermocoupleType
		}
		ref := cfg.ReferenceJunction
		if ref == "" {
			ref = defaultReferenceJunction
		}
		if err := d.writeChecked(fmt.Sprintf("TEMPerature:TC:TYPE %s", typ)); err != nil {
			return err
		}
		return d.writeChecked(fmt.Sprintf("TEMPerature:TC:RJUNction %s", ref))
	}
}

//
// Trigger and utility
//

// Trigger sends a trigger signal to initiate a measurement.
func (d *SDM3045X) Trigger() error {
	return d.writeChecked(cmdInitiate)
}

// Reset resets the instrument to its default settings.
func (d *SDM3045X) Reset() error {
	return d.writeChecked(cmdReset)
}

// ClearStatus clears the status registers and the error queue. No
// error check follows since the queue itself is being reset.
func (d *SDM3045X) ClearStatus() error {
	return d.write(cmdClearStatus)
}

// ID queries the instrument identification string.
func (d *SDM3045X) ID() (string, error) {
	resp, err := d.ask(cmdIdentify)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp), nil
}

// SelfTest runs the instrument self-test and reports whether it passed.
func (d *SDM3045X) SelfTest() (bool, error) {
	resp, err := d.ask(cmdSelfTest)
	if err != nil {
		return false, err
	}
	result, err := strconv.Atoi(strings.TrimSpace(resp))
	if err != nil {
		return false, fmt.Errorf("sdm3045x: unexpected self-test reply %q: %w", resp, err)
	}
	if err := d.CheckErrors(); err != nil {
		return false, err
	}
	return result == 0, nil
}
