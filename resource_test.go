package sdm3045x

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestOpenTransportTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			if strings.TrimSpace(scanner.Text()) == "*IDN?" {
				conn.Write([]byte("Siglent Technologies,SDM3045X,SN123456,V1.0.0\n"))
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	resource := "TCPIP::127.0.0.1::" + strconv.Itoa(addr.Port)
	transport, err := OpenTransport(resource, 2*time.Second)
	if err != nil {
		t.Fatalf("OpenTransport failed: %v", err)
	}
	defer transport.Close()

	idn, err := transport.Ask("*IDN?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if !strings.Contains(idn, "SDM3045X") {
		t.Errorf("unexpected reply: %q", idn)
	}
}

func TestOpenTransportBadResources(t *testing.T) {
	tests := []struct {
		name     string
		resource string
	}{
		{"unsupported scheme", "USB::0x1AB1::0x0588::INSTR"},
		{"missing host", "TCPIP::"},
		{"bad port", "TCPIP::127.0.0.1::fast"},
		{"missing device", "ASRL::"},
		{"bad baud", "ASRL::/dev/ttyUSB0::fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := OpenTransport(tt.resource, time.Second); err == nil {
				t.Errorf("OpenTransport(%q) should have failed", tt.resource)
			}
		})
	}
}

func TestIsResourceSuffix(t *testing.T) {
	for _, suffix := range []string{"SOCKET", "INSTR", "socket", "instr"} {
		if !isResourceSuffix(suffix) {
			t.Errorf("isResourceSuffix(%q) = false, want true", suffix)
		}
	}
	for _, field := range []string{"5025", "115200", ""} {
		if isResourceSuffix(field) {
			t.Errorf("isResourceSuffix(%q) = true, want false", field)
		}
	}
}
