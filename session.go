package flashwriter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var errSessionClosed = errors.New("session is not open")

// inputFlusher is implemented by transports that can discard pending input
type inputFlusher interface {
	FlushInput() error
}

// Session owns the transport to one device across baud changes. It
// implements Transport itself so readers and writers built on it keep
// working after a reopen.
type Session struct {
	device      string
	open        Opener
	readTimeout time.Duration
	settle      time.Duration
	logger      *zap.Logger

	transport Transport
	baud      int
}

var _ Transport = (*Session)(nil)

// NewSession prepares a session. Nothing is opened until Open.
func NewSession(device string, open Opener, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		device:      device,
		open:        open,
		readTimeout: cfg.ReadTimeout,
		settle:      cfg.SettleDelay,
		logger:      logger,
	}
}

// Open opens the device at baud.
func (s *Session) Open(baud int) error {
	if s.transport != nil {
		return &DeviceOpenError{Device: s.device, Baud: baud, Err: errors.New("session already open")}
	}

	t, err := s.open(s.device, baud, s.readTimeout)
	if err != nil {
		return &DeviceOpenError{Device: s.device, Baud: baud, Err: err}
	}

	s.transport = t
	s.baud = baud
	s.logger.Debug("serial port opened", zap.String("device", s.device), zap.Int("baud", baud))
	return nil
}

// Reopen closes the port, waits the settle delay and opens it at baud.
// Input that arrived before the reopen is discarded when the driver allows it.
func (s *Session) Reopen(ctx context.Context, baud int) error {
	if err := s.Close(); err != nil {
		return &TransportError{Op: "close", Err: err}
	}

	if err := sleep(ctx, s.settle); err != nil {
		return err
	}

	if err := s.Open(baud); err != nil {
		return err
	}

	if f, ok := s.transport.(inputFlusher); ok {
		if err := f.FlushInput(); err != nil {
			s.logger.Warn("flush input after reopen failed", zap.Error(err))
		}
	}
	return nil
}

// Baud returns the line speed of the open transport, or 0 when closed.
func (s *Session) Baud() int {
	if s.transport == nil {
		return 0
	}
	return s.baud
}

func (s *Session) Read(buf []byte) (int, error) {
	if s.transport == nil {
		return 0, errSessionClosed
	}
	return s.transport.Read(buf)
}

func (s *Session) Write(data []byte) (int, error) {
	if s.transport == nil {
		return 0, errSessionClosed
	}
	return s.transport.Write(data)
}

func (s *Session) Drain() error {
	if s.transport == nil {
		return errSessionClosed
	}
	return s.transport.Drain()
}

// Close closes the transport. Closing a closed session is a no-op.
func (s *Session) Close() error {
	if s.transport == nil {
		return nil
	}

	err := s.transport.Close()
	s.transport = nil
	s.baud = 0
	s.logger.Debug("serial port closed", zap.String("device", s.device))
	return err
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
