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
	"testing"
)

func TestInitSequence(t *testing.T) {
	// Construction issues exactly *CLS, *RST, SYSTem:ERRor?.
	mock := newMockTransporter(t, initExchanges())
	d, err := New(mock)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if d == nil {
		t.Fatal("New returned nil driver")
	}
	mock.verifyDone()
}

func TestInitFailsOnInstrumentError(t *testing.T) {
	mock := newMockTransporter(t, []exchange{
		wr("*CLS"),
		wr("*RST"),
		qr("SYSTem:ERRor?", `-350,"Queue overflow"`),
	})
	_, err := New(mock)
	if err == nil {
		t.Fatal("New should have failed")
	}
	var instErr *InstrumentError
	if !errors.As(err, &instErr) {
		t.Fatalf("expected *InstrumentError, got %T: %v", err, err)
	}
	if instErr.Code != -350 {
		t.Errorf("Code = %d, want -350", instErr.Code)
	}
	mock.verifyDone()
}

func TestID(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		qr("*IDN?", "Siglent Technologies,SDM3045X,SN123456,V1.0.0"),
	})
	idn, err := d.ID()
	if err != nil {
		t.Fatalf("ID failed: %v", err)
	}
	if idn != "Siglent Technologies,SDM3045X,SN123456,V1.0.0" {
		t.Errorf("unexpected IDN: %q", idn)
	}
	mock.verifyDone()
}

func TestVoltageDCMeasurement(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("CONFigure:VOLTage:DC 10"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		qr("MEASure:VOLTage:DC?", "5.123"),
	})
	if err := d.ConfigureVoltageDC(10); err != nil {
		t.Fatalf("ConfigureVoltageDC failed: %v", err)
	}
	voltage, err := d.VoltageDC()
	if err != nil {
		t.Fatalf("VoltageDC failed: %v", err)
	}
	if voltage != 5.123 {
		t.Errorf("VoltageDC = %g, want 5.123", voltage)
	}
	mock.verifyDone()
}

func TestCurrentDCMeasurement(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("CONFigure:CURRent:DC 1"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		qr("MEASure:CURRent:DC?", "0.0123"),
	})
	if err := d.ConfigureCurrentDC(1); err != nil {
		t.Fatalf("ConfigureCurrentDC failed: %v", err)
	}
	current, err := d.CurrentDC()
	if err != nil {
		t.Fatalf("CurrentDC failed: %v", err)
	}
	if current != 0.0123 {
		t.Errorf("CurrentDC = %g, want 0.0123", current)
	}
	mock.verifyDone()
}

func TestConfigureWithoutRange(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("CONFigure:VOLTage:AC"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureVoltageAC(); err != nil {
		t.Fatalf("ConfigureVoltageAC failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureRejectsMultipleRanges(t *testing.T) {
	d, mock := newTestDriver(t)
	if err := d.ConfigureVoltageDC(1, 10); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	mock.verifyDone()
}

func TestConfigureResistanceTwoWire(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("SENSe:RESistance:MODE RESistance"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("CONFigure:RESistance 1000"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureResistance(false, 1000); err != nil {
		t.Fatalf("ConfigureResistance failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureResistanceFourWire(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("SENSe:RESistance:MODE FRESistance"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("CONFigure:RESistance"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureResistance(true); err != nil {
		t.Fatalf("ConfigureResistance failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureTemperatureThermocouple(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("TEMPerature:TRANsducer TC"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:TC:TYPE K"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:TC:RJUNction INT"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		qr("MEASure:TEMPerature?", "25.0"),
	})
	err := d.ConfigureTemperature(TemperatureConfig{
		Transducer:        TransducerThermocouple,
		Type:              "K",
		ReferenceJunction: "INT",
	})
	if err != nil {
		t.Fatalf("ConfigureTemperature failed: %v", err)
	}
	temperature, err := d.Temperature()
	if err != nil {
		t.Fatalf("Temperature failed: %v", err)
	}
	if temperature != 25.0 {
		t.Errorf("Temperature = %g, want 25.0", temperature)
	}
	mock.verifyDone()
}

func TestConfigureTemperatureDefaults(t *testing.T) {
	// An all-zero config selects a type-K thermocouple with internal
	// reference junction.
	d, mock := newTestDriver(t, []exchange{
		wr("TEMPerature:TRANsducer TC"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:TC:TYPE K"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:TC:RJUNction INT"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureTemperature(TemperatureConfig{}); err != nil {
		t.Fatalf("ConfigureTemperature failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureTemperatureRTDDefaults(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("TEMPerature:TRANsducer RTD"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:RTD:TYPE PT100"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:RTD:WIRe 4"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureTemperature(TemperatureConfig{Transducer: TransducerRTD}); err != nil {
		t.Fatalf("ConfigureTemperature failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureTemperatureThermistor(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("TEMPerature:TRANsducer THER"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("TEMPerature:THERmistor:TYPE 10K"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.ConfigureTemperature(TemperatureConfig{Transducer: TransducerThermistor}); err != nil {
		t.Fatalf("ConfigureTemperature failed: %v", err)
	}
	mock.verifyDone()
}

func TestConfigureTemperatureBadTransducer(t *testing.T) {
	d, mock := newTestDriver(t)
	err := d.ConfigureTemperature(TemperatureConfig{Transducer: "PTC"})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	mock.verifyDone()
}

func TestTriggerAndFetch(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		wr("TRIGger:SOURce BUS"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		wr("INITiate"),
		qr("SYSTem:ERRor?", `0,"No error"`),
		qr("FETCh?", "3.1416"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	if err := d.SetTriggerSource(TriggerBus); err != nil {
		t.Fatalf("SetTriggerSource failed: %v", err)
	}
	if err := d.Trigger(); err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	result, err := d.Fetch()
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if result != 3.1416 {
		t.Errorf("Fetch = %g, want 3.1416", result)
	}
	mock.verifyDone()
}

func TestRead(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		qr("READ?", "1.5"),
		qr("SYSTem:ERRor?", `0,"No error"`),
	})
	value, err := d.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if value != 1.5 {
		t.Errorf("Read = %g, want 1.5", value)
	}
	mock.verifyDone()
}

func TestContinuity(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"1", true},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			d, mock := newTestDriver(t, []exchange{
				qr("MEASure:CONTinuity?", tt.reply),
			})
			got, err := d.Continuity()
			if err != nil {
				t.Fatalf("Continuity failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Continuity(%q) = %v, want %v", tt.reply, got, tt.want)
			}
			mock.verifyDone()
		})
	}
}

func TestSelfTest(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"pass", "0", true},
		{"fail", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mock := newTestDriver(t, []exchange{
				qr("*TST?", tt.reply),
				qr("SYSTem:ERRor?", `0,"No error"`),
			})
			got, err := d.SelfTest()
			if err != nil {
				t.Fatalf("SelfTest failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SelfTest = %v, want %v", got, tt.want)
			}
			mock.verifyDone()
		})
	}
}

func TestMeasurements(t *testing.T) {
	tests := []struct {
		name    string
		measure func(*SDM3045X) (float64, error)
		cmd     string
		reply   string
		want    float64
	}{
		{"voltage ac", (*SDM3045X).VoltageAC, "MEASure:VOLTage:AC?", "0.707", 0.707},
		{"current ac", (*SDM3045X).CurrentAC, "MEASure:CURRent:AC?", "0.05", 0.05},
		{"resistance", (*SDM3045X).Resistance, "MEASure:RESistance?", "123.45", 123.45},
		{"capacitance", (*SDM3045X).Capacitance, "MEASure:CAPacitance?", "4.7E-08", 4.7e-8},
		{"frequency", (*SDM3045X).Frequency, "MEASure:FREQuency?", "50.0", 50},
		{"period", (*SDM3045X).Period, "MEASure:PERiod?", "0.02", 0.02},
		{"diode", (*SDM3045X).DiodeVoltage, "MEASure:DIODe?", "0.6", 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mock := newTestDriver(t, []exchange{
				qr(tt.cmd, tt.reply),
			})
			got, err := tt.measure(d)
			if err != nil {
				t.Fatalf("measurement failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("measurement = %g, want %g", got, tt.want)
			}
			mock.verifyDone()
		})
	}
}

func TestMeasurementBadReply(t *testing.T) {
	d, mock := newTestDriver(t, []exchange{
		qr("MEASure:VOLTage:DC?", "overload"),
	})
	if _, err := d.VoltageDC(); err == nil {
		t.Fatal("expected parse error")
	}
	mock.verifyDone()
}

func TestClose(t *testing.T) {
	d, mock := newTestDriver(t)
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !mock.closed {
		t.Error("transporter was not closed")
	}
}
