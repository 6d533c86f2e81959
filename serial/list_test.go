package serial

import (
	"errors"
	"strings"
	"testing"
)

func TestListPorts(t *testing.T) {
	ports, err := ListPorts()
	if err != nil {
		t.Errorf("ListPorts failed: %v", err)
	}

	for _, port := range ports {
		if !strings.HasPrefix(port, "/dev/") {
			t.Errorf("Port path doesn't start with /dev/: %s", port)
		}

		if !isCharacterDevice(port) {
			t.Errorf("Port is not a character device: %s", port)
		}
	}

	for i := 1; i < len(ports); i++ {
		if ports[i-1] > ports[i] {
			t.Errorf("Ports are not sorted: %s > %s", ports[i-1], ports[i])
		}
	}
}

func TestIsCharacterDevice(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/dev/null", true},
		{"/dev/zero", true},
		{"/tmp", false},
		{"/nonexistent", false},
	}

	for _, test := range tests {
		result := isCharacterDevice(test.path)
		if result != test.expected {
			t.Errorf("isCharacterDevice(%s) = %v, expected %v", test.path, result, test.expected)
		}
	}
}

func TestGetPortDescription(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ttyUSB0", "USB Serial Port"},
		{"ttyACM0", "USB CDC/ACM Device"},
		{"ttyS0", "Standard Serial Port"},
		{"ttyAMA0", "ARM Serial Port"},
		{"ttymxc0", "i.MX Serial Port"},
		{"ttyO0", "OMAP Serial Port"},
		{"ttySAC0", "Samsung Serial Port"},
		{"ttyTHS0", "Tegra Serial Port"},
		{"unknown", "Serial Port"},
	}

	for _, test := range tests {
		result := getPortDescription(test.name)
		if result != test.expected {
			t.Errorf("getPortDescription(%s) = %s, expected %s", test.name, result, test.expected)
		}
	}
}

func TestGetPortInfo(t *testing.T) {
	info, err := GetPortInfo("/dev/null")
	if err != nil {
		t.Fatalf("GetPortInfo(/dev/null) failed: %v", err)
	}
	if info.Name != "null" {
		t.Errorf("Name = %s, expected null", info.Name)
	}
	if info.Path != "/dev/null" {
		t.Errorf("Path = %s, expected /dev/null", info.Path)
	}
	if info.IsUSB() {
		t.Errorf("/dev/null should not report USB metadata")
	}

	_, err = GetPortInfo("/nonexistent/ttyUSB9")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetPortInfo on missing device: got %v, want ErrDeviceNotFound", err)
	}
}

func TestIsSerialName(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"ttyUSB0", true},
		{"ttyUSB12", true},
		{"ttyACM0", true},
		{"ttyS0", true},
		{"ttyAMA0", true},
		{"ttymxc3", true},
		{"ttyO2", true},
		{"ttySAC1", true},
		{"ttyTHS0", true},
		{"tty0", false},
		{"tty12", false},
		{"console", false},
		{"ptmx", false},
		{"ptyp0", false},
		{"ttyUSB", false},
		{"random", false},
	}

	for _, test := range tests {
		if got := isSerialName(test.name); got != test.expected {
			t.Errorf("isSerialName(%s) = %v, expected %v", test.name, got, test.expected)
		}
	}
}
