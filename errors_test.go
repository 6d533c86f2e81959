package flashwriter

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{"open", &DeviceOpenError{Device: "/dev/ttyUSB0", Baud: 115200, Err: cause}, ErrDeviceOpen, []error{ErrTransport, ErrConfig}},
		{"transport", &TransportError{Op: "write", Err: cause}, ErrTransport, []error{ErrDeviceOpen, ErrPromptTimeout}},
		{"timeout", &PromptTimeoutError{Expected: ">", Received: "x", Timeout: time.Second}, ErrPromptTimeout, []error{ErrTransport}},
		{"transfer", &TransferIOError{Path: "fip.bin", Err: cause}, ErrTransferIO, []error{ErrTransport}},
		{"config", &ConfigError{Field: "driver", Reason: "unknown"}, ErrConfig, []error{ErrDeviceOpen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("flash fip: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range tt.others {
				assert.NotErrorIs(t, wrapped, other)
			}
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestPromptTimeoutErrorQuotesReceived(t *testing.T) {
	err := &PromptTimeoutError{Expected: ">", Received: "abc\r\n", Timeout: 5 * time.Second}
	assert.Equal(t, `no ">" after 5s, received "abc\r\n"`, err.Error())
}
