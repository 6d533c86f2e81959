package flashwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
)

// Line speeds and timeouts used by the bootloader.
const (
	DefaultLowBaud              = 115200
	DefaultHighBaud             = 921600
	DefaultBootstrapTimeout     = 30 * time.Second
	DefaultCommandTimeout       = 5 * time.Second
	DefaultWriteCompleteTimeout = 10 * time.Second
	DefaultReadTimeout          = 100 * time.Millisecond
	DefaultPollInterval         = 100 * time.Millisecond
	DefaultSettleDelay          = 100 * time.Millisecond
	DefaultChunkSize            = 1024
)

// Config holds the flasher configuration.
type Config struct {
	// LowBaud is used for the bootstrap and loader transfer
	LowBaud int

	// HighBaud is used for everything after SUP
	HighBaud int

	BootstrapTimeout     time.Duration
	CommandTimeout       time.Duration
	WriteCompleteTimeout time.Duration

	// ReadTimeout bounds a single transport read. Must be a multiple of 100ms.
	ReadTimeout time.Duration

	// PollInterval is the pause after a read returned nothing
	PollInterval time.Duration

	// SettleDelay is the pause between close and reopen on a baud change
	SettleDelay time.Duration

	ChunkSize int

	// Transcript receives every byte read from the device
	Transcript io.Writer

	ProgressCallback ProgressCallback
	Logger           *zap.Logger
}

// DefaultConfig returns the settings the bootloader expects.
func DefaultConfig() Config {
	return Config{
		LowBaud:              DefaultLowBaud,
		HighBaud:             DefaultHighBaud,
		BootstrapTimeout:     DefaultBootstrapTimeout,
		CommandTimeout:       DefaultCommandTimeout,
		WriteCompleteTimeout: DefaultWriteCompleteTimeout,
		ReadTimeout:          DefaultReadTimeout,
		PollInterval:         DefaultPollInterval,
		SettleDelay:          DefaultSettleDelay,
		ChunkSize:            DefaultChunkSize,
		Transcript:           os.Stdout,
		Logger:               zap.NewNop(),
	}
}

// Option is a functional option for configuring a Flasher.
type Option func(*Config) error

func positive(field string, d time.Duration) error {
	if d <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be positive, got %s", d)}
	}
	return nil
}

// WithBaudRates sets the bootstrap and bulk transfer line speeds.
func WithBaudRates(low, high int) Option {
	return func(c *Config) error {
		if low <= 0 || high <= 0 {
			return &ConfigError{Field: "baud", Reason: fmt.Sprintf("rates must be positive, got %d/%d", low, high)}
		}
		c.LowBaud = low
		c.HighBaud = high
		return nil
	}
}

// WithBootstrapTimeout sets how long to wait for the board after it is reset.
func WithBootstrapTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if err := positive("bootstrap timeout", d); err != nil {
			return err
		}
		c.BootstrapTimeout = d
		return nil
	}
}

// WithCommandTimeout sets the prompt timeout for ordinary commands.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if err := positive("command timeout", d); err != nil {
			return err
		}
		c.CommandTimeout = d
		return nil
	}
}

// WithWriteCompleteTimeout sets how long to wait for the prompt after an image transfer.
func WithWriteCompleteTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if err := positive("write complete timeout", d); err != nil {
			return err
		}
		c.WriteCompleteTimeout = d
		return nil
	}
}

// WithReadTimeout sets the per-read timeout of the transport.
// The value must be a multiple of 100ms between 100ms and 25.5s.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 100*time.Millisecond || d > 25500*time.Millisecond || d%(100*time.Millisecond) != 0 {
			return &ConfigError{Field: "read timeout", Reason: fmt.Sprintf("%s is not a multiple of 100ms in 100ms..25.5s", d)}
		}
		c.ReadTimeout = d
		return nil
	}
}

// WithPollInterval sets the pause after an empty read.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if err := positive("poll interval", d); err != nil {
			return err
		}
		c.PollInterval = d
		return nil
	}
}

// WithSettleDelay sets the pause between closing and reopening the port.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return &ConfigError{Field: "settle delay", Reason: fmt.Sprintf("must not be negative, got %s", d)}
		}
		c.SettleDelay = d
		return nil
	}
}

// WithChunkSize sets the file transfer chunk size.
func WithChunkSize(size int) Option {
	return func(c *Config) error {
		if size <= 0 {
			return &ConfigError{Field: "chunk size", Reason: fmt.Sprintf("must be positive, got %d", size)}
		}
		c.ChunkSize = size
		return nil
	}
}

// WithTranscript sets where device output is echoed. Nil discards it.
func WithTranscript(w io.Writer) Option {
	return func(c *Config) error {
		if w == nil {
			w = io.Discard
		}
		c.Transcript = w
		return nil
	}
}

// WithProgressCallback sets a callback to track phases and transfer progress.
//
// Example:
//
//	f, err := flashwriter.New(port, opener,
//	    flashwriter.WithProgressCallback(func(p flashwriter.Progress) {
//	        fmt.Printf("[%s] %.1f%%\n", p.Phase, p.Percentage())
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) error {
		c.ProgressCallback = callback
		return nil
	}
}

// WithLogger sets the structured logger. Nil means no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.Logger = logger
		return nil
	}
}
