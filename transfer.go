package flashwriter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// drainWriter is the part of Transport a file transfer needs
type drainWriter interface {
	io.Writer
	Drain() error
}

// FileTransmitter streams a local file to the device as raw bytes.
type FileTransmitter struct {
	w          drainWriter
	chunkSize  int
	onProgress func(sent, total int64)
	logger     *zap.Logger
}

// NewFileTransmitter sends files over w in chunks of chunkSize bytes.
// onProgress may be nil.
func NewFileTransmitter(w drainWriter, chunkSize int, onProgress func(sent, total int64), logger *zap.Logger) *FileTransmitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileTransmitter{w: w, chunkSize: chunkSize, onProgress: onProgress, logger: logger}
}

// SendFile writes the file at path and drains the transport after every
// chunk. It returns the number of bytes sent.
//
// Local file failures return *TransferIOError. Write and drain failures
// return *TransportError. A partial transfer is not cleaned up.
func (t *FileTransmitter) SendFile(ctx context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, &TransferIOError{Path: path, Err: err}
	}
	if info.IsDir() {
		return 0, &TransferIOError{Path: path, Err: errors.New("is a directory")}
	}
	total := info.Size()

	f, err := os.Open(path)
	if err != nil {
		return 0, &TransferIOError{Path: path, Err: err}
	}
	defer f.Close()

	t.logger.Debug("sending file", zap.String("path", path), zap.Int64("size", total))
	t.report(0, total)

	var sent int64
	chunk := make([]byte, t.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return sent, fmt.Errorf("sending %s: %w", path, err)
		}

		n, readErr := io.ReadFull(f, chunk)
		if n > 0 {
			if _, err := t.w.Write(chunk[:n]); err != nil {
				return sent, &TransportError{Op: "write", Err: err}
			}
			if err := t.w.Drain(); err != nil {
				return sent, &TransportError{Op: "drain", Err: err}
			}
			sent += int64(n)
			t.report(sent, total)
		}

		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return sent, &TransferIOError{Path: path, Err: readErr}
		}
	}

	t.logger.Debug("file sent", zap.String("path", path), zap.Int64("bytes", sent))
	return sent, nil
}

func (t *FileTransmitter) report(sent, total int64) {
	if t.onProgress != nil {
		t.onProgress(sent, total)
	}
}
