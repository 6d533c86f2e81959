// Package config loads flashwriter settings from YAML, environment and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/allbin/flashwriter"
)

// Config is the root application configuration.
type Config struct {
	// Port is the serial device the board's debug UART is attached to
	Port string `mapstructure:"port"`

	// Driver selects the serial implementation: termios or portable
	Driver string `mapstructure:"driver"`

	Baud     BaudConfig    `mapstructure:"baud"`
	Timeouts TimeoutConfig `mapstructure:"timeouts"`
	Log      LogConfig     `mapstructure:"log"`
}

// BaudConfig holds the two line speeds of a flash run.
type BaudConfig struct {
	Low  int `mapstructure:"low"`
	High int `mapstructure:"high"`
}

// TimeoutConfig holds protocol timing. Values are Go durations such as "30s".
type TimeoutConfig struct {
	Bootstrap     time.Duration `mapstructure:"bootstrap"`
	Command       time.Duration `mapstructure:"command"`
	WriteComplete time.Duration `mapstructure:"write_complete"`
	Read          time.Duration `mapstructure:"read"`
	Poll          time.Duration `mapstructure:"poll"`
	Settle        time.Duration `mapstructure:"settle"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with the bootloader's defaults.
// Logs go to stderr at warn so the device transcript on stdout stays readable.
func Default() *Config {
	return &Config{
		Port:   "/dev/ttyUSB0",
		Driver: flashwriter.DriverTermios,
		Baud: BaudConfig{
			Low:  flashwriter.DefaultLowBaud,
			High: flashwriter.DefaultHighBaud,
		},
		Timeouts: TimeoutConfig{
			Bootstrap:     flashwriter.DefaultBootstrapTimeout,
			Command:       flashwriter.DefaultCommandTimeout,
			WriteComplete: flashwriter.DefaultWriteCompleteTimeout,
			Read:          flashwriter.DefaultReadTimeout,
			Poll:          flashwriter.DefaultPollInterval,
			Settle:        flashwriter.DefaultSettleDelay,
		},
		Log: LogConfig{
			Level:   "warn",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/flashwriter.log",
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"port":      "port",
	"driver":    "driver",
	"log-level": "log.level",
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix FLASHWRITER and `.`/`-` are replaced
// with `_`, e.g. FLASHWRITER_TIMEOUTS_BOOTSTRAP=60s. Flags in flags that were
// set on the command line take precedence over everything else.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("FLASHWRITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("port", cfg.Port)
	v.SetDefault("driver", cfg.Driver)
	v.SetDefault("baud.low", cfg.Baud.Low)
	v.SetDefault("baud.high", cfg.Baud.High)
	v.SetDefault("timeouts.bootstrap", cfg.Timeouts.Bootstrap)
	v.SetDefault("timeouts.command", cfg.Timeouts.Command)
	v.SetDefault("timeouts.write_complete", cfg.Timeouts.WriteComplete)
	v.SetDefault("timeouts.read", cfg.Timeouts.Read)
	v.SetDefault("timeouts.poll", cfg.Timeouts.Poll)
	v.SetDefault("timeouts.settle", cfg.Timeouts.Settle)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		if envPath := os.Getenv("FLASHWRITER_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flashwriter")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".flashwriter"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var viperConfigFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &viperConfigFileNotFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "":
		c.Driver = flashwriter.DriverTermios
	case flashwriter.DriverTermios, flashwriter.DriverPortable:
	default:
		return fmt.Errorf("invalid driver: %q (want %s or %s)", c.Driver, flashwriter.DriverTermios, flashwriter.DriverPortable)
	}

	if strings.TrimSpace(c.Port) == "" {
		return errors.New("port must not be empty")
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	return nil
}

// FlashOptions translates the protocol settings into flasher options.
// Values are validated by flashwriter.New.
func (c *Config) FlashOptions() []flashwriter.Option {
	return []flashwriter.Option{
		flashwriter.WithBaudRates(c.Baud.Low, c.Baud.High),
		flashwriter.WithBootstrapTimeout(c.Timeouts.Bootstrap),
		flashwriter.WithCommandTimeout(c.Timeouts.Command),
		flashwriter.WithWriteCompleteTimeout(c.Timeouts.WriteComplete),
		flashwriter.WithReadTimeout(c.Timeouts.Read),
		flashwriter.WithPollInterval(c.Timeouts.Poll),
		flashwriter.WithSettleDelay(c.Timeouts.Settle),
	}
}
