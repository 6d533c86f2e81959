package flashwriter

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
)

// CommandDriver sends one command line and optionally waits for the reply prompt.
type CommandDriver struct {
	w       io.Writer
	matcher *PromptMatcher
	logger  *zap.Logger
}

// NewCommandDriver writes commands to w and waits for prompts through matcher.
func NewCommandDriver(w io.Writer, matcher *PromptMatcher, logger *zap.Logger) *CommandDriver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandDriver{w: w, matcher: matcher, logger: logger}
}

// Send writes command followed by a carriage return. With an empty expected
// prompt it returns right after the write. A zero timeout means
// DefaultCommandTimeout.
func (d *CommandDriver) Send(ctx context.Context, command, expected string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	d.logger.Debug("send command",
		zap.String("command", command),
		zap.String("expected", expected),
		zap.Duration("timeout", timeout))

	if _, err := d.w.Write([]byte(command + "\r")); err != nil {
		return &TransportError{Op: "write", Err: err}
	}

	if expected == "" {
		return nil
	}
	return d.matcher.WaitFor(ctx, expected, timeout)
}
