package serial

import "time"

// maxReadTimeout caps how long a single Read may block
const maxReadTimeout = 25500 * time.Millisecond

// Config holds the configuration for a serial port. Framing is fixed at
// 8N1, which is what every boot ROM this package talks to expects.
type Config struct {
	BaudRate    int
	ReadTimeout time.Duration
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns the bootloader line settings: 115200 8N1, 100ms reads
func DefaultConfig() Config {
	return Config{
		BaudRate:    115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets how long a single Read blocks without data.
// The value must be a multiple of 100ms between 0 and 25.5s.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > maxReadTimeout || timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}
