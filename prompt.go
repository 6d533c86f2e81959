package flashwriter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readBufferSize bounds how far a single read can run past a prompt
const readBufferSize = 256

// PromptMatcher waits for an expected substring in the device output.
type PromptMatcher struct {
	r          io.Reader
	transcript io.Writer
	poll       time.Duration
	logger     *zap.Logger

	// decoder replaces invalid UTF-8 with U+FFFD; carry holds a sequence
	// cut off at the end of the previous read
	decoder transform.Transformer
	carry   []byte
}

// NewPromptMatcher reads from r and echoes everything it reads to transcript.
func NewPromptMatcher(r io.Reader, transcript io.Writer, poll time.Duration, logger *zap.Logger) *PromptMatcher {
	if transcript == nil {
		transcript = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptMatcher{
		r:          r,
		transcript: transcript,
		poll:       poll,
		logger:     logger,
		decoder:    unicode.UTF8.NewDecoder(),
	}
}

// WaitFor reads until expected appears in the output received during this
// call, ignoring CR and LF. It returns as soon as a read completes the
// match, so bytes after that read stay unread.
//
// Running out of time returns *PromptTimeoutError with everything received.
// A read failure returns *TransportError.
func (m *PromptMatcher) WaitFor(ctx context.Context, expected string, timeout time.Duration) error {
	if expected == "" {
		return nil
	}

	start := time.Now()
	deadline := start.Add(timeout)
	var received bytes.Buffer
	buf := make([]byte, readBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for %q: %w", expected, err)
		}

		n, err := m.r.Read(buf)
		if n > 0 {
			m.record(&received, m.decode(buf[:n], false))

			if strings.Contains(stripLineEndings(received.String()), expected) {
				m.logger.Debug("prompt matched",
					zap.String("expected", expected),
					zap.Duration("after", time.Since(start)))
				return nil
			}
		}
		if err != nil {
			return &TransportError{Op: "read", Err: err}
		}

		if !time.Now().Before(deadline) {
			return m.timeout(&received, expected, timeout)
		}

		if n == 0 {
			if err := sleep(ctx, min(m.poll, time.Until(deadline))); err != nil {
				return fmt.Errorf("waiting for %q: %w", expected, err)
			}
			if !time.Now().Before(deadline) {
				return m.timeout(&received, expected, timeout)
			}
		}
	}
}

func (m *PromptMatcher) record(received *bytes.Buffer, text []byte) {
	received.Write(text)
	_, _ = m.transcript.Write(text)
}

func (m *PromptMatcher) timeout(received *bytes.Buffer, expected string, timeout time.Duration) error {
	// nothing more is coming for a cut off sequence
	m.record(received, m.decode(nil, true))

	m.logger.Warn("prompt timeout",
		zap.String("expected", expected),
		zap.Duration("timeout", timeout),
		zap.Int("received_bytes", received.Len()))
	return &PromptTimeoutError{
		Expected: expected,
		Received: received.String(),
		Timeout:  timeout,
	}
}

// decode converts device bytes to valid UTF-8. Unless atEOF, an incomplete
// sequence at the end of p is kept until the next read completes it.
func (m *PromptMatcher) decode(p []byte, atEOF bool) []byte {
	src := append(m.carry, p...)
	// a replaced byte grows to the 3-byte U+FFFD
	dst := make([]byte, 3*len(src)+utf8.UTFMax)

	// ErrShortSrc only signals the held back tail
	nDst, nSrc, _ := m.decoder.Transform(dst, src, atEOF)
	m.carry = bytes.Clone(src[nSrc:])
	return dst[:nDst]
}

func stripLineEndings(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
