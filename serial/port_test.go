package serial

import (
	"errors"
	"testing"
	"time"

	bugst "go.bug.st/serial"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != 115200 {
		t.Errorf("Expected BaudRate 115200, got %d", config.BaudRate)
	}

	if config.ReadTimeout != 100*time.Millisecond {
		t.Errorf("Expected ReadTimeout 100ms, got %v", config.ReadTimeout)
	}
}

func TestFunctionalOptions(t *testing.T) {
	config := DefaultConfig()

	err := WithBaudRate(921600)(&config)
	if err != nil {
		t.Errorf("WithBaudRate failed: %v", err)
	}
	if config.BaudRate != 921600 {
		t.Errorf("Expected BaudRate 921600, got %d", config.BaudRate)
	}

	err = WithReadTimeout(200 * time.Millisecond)(&config)
	if err != nil {
		t.Errorf("WithReadTimeout failed: %v", err)
	}
	if config.ReadTimeout != 200*time.Millisecond {
		t.Errorf("Expected ReadTimeout 200ms, got %v", config.ReadTimeout)
	}
}

func TestInvalidBaudRate(t *testing.T) {
	config := DefaultConfig()
	err := WithBaudRate(123456)(&config)
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
	if config.BaudRate != 115200 {
		t.Errorf("BaudRate changed on invalid option: %d", config.BaudRate)
	}
}

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{115200, false},
		{921600, false},
		{9600, false},
		{57600, false},
		{123456, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
		} else {
			if err != nil {
				t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
			}
			if result == 0 {
				t.Errorf("Got zero result for valid baud rate %d", test.input)
			}
		}
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenRejectsInvalidOption(t *testing.T) {
	_, err := Open("/dev/nonexistent", WithBaudRate(123456))
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate before touching the device, got %v", err)
	}
}

func TestClosedPort(t *testing.T) {
	p := &port{fd: -1, closed: true}

	if err := p.Close(); err != nil {
		t.Errorf("Close on closed port = %v, want nil", err)
	}

	if _, err := p.Read(make([]byte, 4)); err != ErrPortClosed {
		t.Errorf("Read on closed port = %v, want ErrPortClosed", err)
	}
	if _, err := p.Write([]byte("x")); err != ErrPortClosed {
		t.Errorf("Write on closed port = %v, want ErrPortClosed", err)
	}
	if err := p.Drain(); err != ErrPortClosed {
		t.Errorf("Drain on closed port = %v, want ErrPortClosed", err)
	}
	if err := p.FlushInput(); err != ErrPortClosed {
		t.Errorf("FlushInput on closed port = %v, want ErrPortClosed", err)
	}
}

func TestPortableError(t *testing.T) {
	// A zero PortError carries the PortBusy code
	if got := portableError("/dev/ttyUSB0", &bugst.PortError{}); !errors.Is(got, ErrDeviceInUse) {
		t.Errorf("portableError(*PortError) = %v, want ErrDeviceInUse", got)
	}
	if got := portableError("/dev/ttyUSB0", bugst.PortError{}); !errors.Is(got, ErrDeviceInUse) {
		t.Errorf("portableError(PortError) = %v, want ErrDeviceInUse", got)
	}

	plain := errors.New("boom")
	if got := portableError("/dev/ttyUSB0", plain); got != plain {
		t.Errorf("portableError passed through %v as %v", plain, got)
	}
}

func TestOpenPortableNonExistentDevice(t *testing.T) {
	_, err := OpenPortable("/dev/nonexistent")
	if err == nil {
		t.Error("Expected error when opening non-existent device")
	}
}
