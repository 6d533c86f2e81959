package serial

import (
	"errors"
	"fmt"
	"sync/atomic"

	bugst "go.bug.st/serial"
)

// portablePort adapts go.bug.st/serial to the Port interface. It is used on
// hosts where the raw termios driver is not an option.
type portablePort struct {
	port   bugst.Port
	device string
	closed atomic.Bool
}

var _ Port = (*portablePort)(nil)

// OpenPortable opens a serial port through go.bug.st/serial using the same
// options as Open.
func OpenPortable(device string, opts ...Option) (Port, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	mode := &bugst.Mode{
		BaudRate: config.BaudRate,
		DataBits: 8,
		Parity:   bugst.NoParity,
		StopBits: bugst.OneStopBit,
	}

	p, err := bugst.Open(device, mode)
	if err != nil {
		return nil, portableError(device, err)
	}

	if err := p.SetReadTimeout(config.ReadTimeout); err != nil {
		_ = p.Close()
		return nil, portableError(device, err)
	}

	return &portablePort{port: p, device: device}, nil
}

// portableError translates go.bug.st/serial error codes into the package sentinels
func portableError(device string, err error) error {
	var code bugst.PortErrorCode
	var ptrErr *bugst.PortError
	var valErr bugst.PortError
	switch {
	case errors.As(err, &ptrErr):
		code = ptrErr.Code()
	case errors.As(err, &valErr):
		code = valErr.Code()
	default:
		return err
	}

	switch code {
	case bugst.PortNotFound:
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, device)
	case bugst.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrPermissionDenied, device)
	case bugst.PortBusy:
		return fmt.Errorf("%w: %s", ErrDeviceInUse, device)
	case bugst.InvalidSpeed:
		return ErrInvalidBaudRate
	case bugst.InvalidDataBits, bugst.InvalidParity, bugst.InvalidStopBits, bugst.InvalidTimeoutValue:
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	case bugst.PortClosed:
		return ErrPortClosed
	case bugst.InvalidSerialPort:
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	default:
		return err
	}
}

// Read reports a hung up device, which go.bug.st/serial returns as
// PortClosed, as ErrDisconnected unless Close was called.
func (p *portablePort) Read(buf []byte) (int, error) {
	n, err := p.port.Read(buf)
	if err == nil {
		return n, nil
	}
	err = ioError(portableError(p.device, err))
	if errors.Is(err, ErrPortClosed) && !p.closed.Load() {
		return n, fmt.Errorf("%w: %s hung up", ErrDisconnected, p.device)
	}
	return n, err
}

func (p *portablePort) Write(data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := p.port.Write(data[written:])
		if err != nil {
			return written, portableError(p.device, err)
		}
		if n == 0 {
			return written, ErrWriteTimeout
		}
		written += n
	}
	return written, nil
}

func (p *portablePort) Drain() error {
	return p.port.Drain()
}

func (p *portablePort) FlushInput() error {
	return p.port.ResetInputBuffer()
}

// Close is safe to call more than once
func (p *portablePort) Close() error {
	p.closed.Store(true)
	err := p.port.Close()
	if err != nil && errors.Is(portableError(p.device, err), ErrPortClosed) {
		return nil
	}
	return err
}
