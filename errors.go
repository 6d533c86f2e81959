package flashwriter

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels matched with errors.Is against the typed errors below
var (
	ErrDeviceOpen    = errors.New("cannot open serial device")
	ErrTransport     = errors.New("serial transport failure")
	ErrPromptTimeout = errors.New("timed out waiting for prompt")
	ErrTransferIO    = errors.New("cannot read transfer file")
	ErrConfig        = errors.New("invalid flash configuration")
)

// DeviceOpenError indicates the serial device could not be opened or reopened.
type DeviceOpenError struct {
	Device string
	Baud   int
	Err    error
}

func (e *DeviceOpenError) Error() string {
	return fmt.Sprintf("open %s at %d baud: %v", e.Device, e.Baud, e.Err)
}

func (e *DeviceOpenError) Unwrap() error { return e.Err }

func (e *DeviceOpenError) Is(target error) bool { return target == ErrDeviceOpen }

// TransportError indicates a read, write or drain on an open session failed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("serial %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// PromptTimeoutError indicates the expected prompt never appeared.
// Received holds everything the device sent while waiting.
type PromptTimeoutError struct {
	Expected string
	Received string
	Timeout  time.Duration
}

func (e *PromptTimeoutError) Error() string {
	return fmt.Sprintf("no %q after %s, received %q", e.Expected, e.Timeout, e.Received)
}

func (e *PromptTimeoutError) Is(target error) bool { return target == ErrPromptTimeout }

// TransferIOError indicates a local image or loader file could not be read.
type TransferIOError struct {
	Path string
	Err  error
}

func (e *TransferIOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *TransferIOError) Unwrap() error { return e.Err }

func (e *TransferIOError) Is(target error) bool { return target == ErrTransferIO }

// ConfigError is returned before any I/O when a plan or option is invalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
