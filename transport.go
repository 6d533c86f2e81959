package flashwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/allbin/flashwriter/serial"
)

// Transport is an open byte channel to the bootloader.
//
// Read blocks for at most the read timeout it was opened with and returns
// 0, nil when nothing arrived. Write sends every byte or fails. Drain blocks
// until written bytes have left the host. Close must be safe to repeat.
type Transport interface {
	io.ReadWriteCloser
	Drain() error
}

// Opener opens the device at the given line speed.
type Opener func(device string, baud int, readTimeout time.Duration) (Transport, error)

// Transport drivers selectable by name.
const (
	DriverTermios  = "termios"
	DriverPortable = "portable"
)

// SerialOpener returns an Opener backed by the serial package. An empty
// driver name selects termios.
func SerialOpener(driver string) (Opener, error) {
	var open func(string, ...serial.Option) (serial.Port, error)
	switch driver {
	case "", DriverTermios:
		open = serial.Open
	case DriverPortable:
		open = serial.OpenPortable
	default:
		return nil, &ConfigError{Field: "driver", Reason: fmt.Sprintf("unknown driver %q", driver)}
	}

	return func(device string, baud int, readTimeout time.Duration) (Transport, error) {
		port, err := open(device,
			serial.WithBaudRate(baud),
			serial.WithReadTimeout(readTimeout),
		)
		if err != nil {
			return nil, err
		}
		return port, nil
	}, nil
}
